package reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hotelpms/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/reservations", h.CreateReservation)
	rg.GET("/reservations", h.ListReservations)
	rg.GET("/reservations/:id", h.GetReservation)
	rg.PUT("/reservations/:id", h.UpdateReservation)
	rg.DELETE("/reservations/:id", h.DeleteReservation)
	rg.POST("/reservations/:id/cancel", h.CancelReservation)
	rg.POST("/reservations/:id/split", h.SplitReservation)
}

func reservationID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid reservation ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) CreateReservation(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	r, err := h.service.CreateReservation(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"reservation": NewReservationView(r)})
}

func (h *Handler) GetReservation(c *gin.Context) {
	id, ok := reservationID(c)
	if !ok {
		return
	}

	r, err := h.service.GetReservation(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservation": NewReservationView(r)})
}

func (h *Handler) ListReservations(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	offset := 0
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			offset = (n - 1) * limit
		}
	}

	rows, total, err := h.service.ListReservations(c.Request.Context(), limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}

	views := make([]ReservationView, 0, len(rows))
	for i := range rows {
		views = append(views, NewReservationView(&rows[i]))
	}
	response.Success(c, http.StatusOK, gin.H{
		"reservations": views,
		"total":        total,
	})
}

func (h *Handler) UpdateReservation(c *gin.Context) {
	id, ok := reservationID(c)
	if !ok {
		return
	}

	var req UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	r, err := h.service.UpdateReservation(c.Request.Context(), id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservation": NewReservationView(r)})
}

func (h *Handler) DeleteReservation(c *gin.Context) {
	id, ok := reservationID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteReservation(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) CancelReservation(c *gin.Context) {
	id, ok := reservationID(c)
	if !ok {
		return
	}

	r, err := h.service.CancelReservation(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservation": NewReservationView(r)})
}

func (h *Handler) SplitReservation(c *gin.Context) {
	id, ok := reservationID(c)
	if !ok {
		return
	}

	var req SplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	segs, err := h.service.AutoSplit(c.Request.Context(), id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"segments": segs})
}

func handleError(c *gin.Context, err error) {
	var vErr *ValidationError
	var cErr *ConflictError

	switch {
	case errors.As(err, &vErr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR",
			"Reservation validation failed", vErr.Violations)
	case errors.As(err, &cErr):
		response.ErrorWithDetails(c, http.StatusConflict, "AVAILABILITY_CONFLICT",
			"Room is not available for the requested dates", cErr.Conflicts)
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Reservation not found")
	case errors.Is(err, ErrInvalidStatusTransition):
		response.Error(c, http.StatusBadRequest, "INVALID_STATUS_TRANSITION", "Status change is not allowed")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process reservation")
	}
}
