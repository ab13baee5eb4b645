package availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"hotelpms/internal/domain"
	"hotelpms/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/availability", h.CheckAvailability)
	rg.GET("/availability/calendar", h.RoomCalendar)
}

func parseRoomQuery(c *gin.Context) (domain.RoomKind, int64, bool) {
	roomID, err := strconv.ParseInt(c.Query("roomId"), 10, 64)
	if err != nil || roomID <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "roomId is required")
		return "", 0, false
	}

	kind := domain.RoomKind(c.DefaultQuery("roomType", string(domain.RoomKindPhysical)))
	if !kind.Valid() {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "roomType must be physical or virtual")
		return "", 0, false
	}
	return kind, roomID, true
}

func parseDateQuery(c *gin.Context, startKey, endKey string) (time.Time, time.Time, bool) {
	start, err := time.Parse(time.DateOnly, c.Query(startKey))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", startKey+" must be a YYYY-MM-DD date")
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse(time.DateOnly, c.Query(endKey))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", endKey+" must be a YYYY-MM-DD date")
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// CheckAvailability handles GET /availability?roomId=&startDate=&endDate=
func (h *Handler) CheckAvailability(c *gin.Context) {
	kind, roomID, ok := parseRoomQuery(c)
	if !ok {
		return
	}
	start, end, ok := parseDateQuery(c, "startDate", "endDate")
	if !ok {
		return
	}

	var excludeID int64
	if v := c.Query("excludeReservationId"); v != "" {
		excludeID, _ = strconv.ParseInt(v, 10, 64)
	}

	res, err := h.service.CheckRoomAvailability(c.Request.Context(), kind, roomID, start, end, excludeID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// RoomCalendar handles GET /availability/calendar?roomId=&from=&to=
func (h *Handler) RoomCalendar(c *gin.Context) {
	kind, roomID, ok := parseRoomQuery(c)
	if !ok {
		return
	}
	from, to, ok := parseDateQuery(c, "from", "to")
	if !ok {
		return
	}

	busy, err := h.service.RoomCalendar(c.Request.Context(), kind, roomID, from, to)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"busy": busy})
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "start date must be before end date")
	case errors.Is(err, ErrRoomNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Room not found")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to check availability")
	}
}
