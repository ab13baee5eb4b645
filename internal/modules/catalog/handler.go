package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hotelpms/internal/domain"
	"hotelpms/internal/pkg/response"
	"hotelpms/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/rooms", h.CreateRoom)
	rg.GET("/rooms", h.ListRooms)
	rg.GET("/rooms/:id", h.GetRoom)
	rg.PUT("/rooms/:id", h.UpdateRoom)
	rg.DELETE("/rooms/:id", h.DeleteRoom)

	rg.POST("/virtual-rooms", h.CreateVirtualRoom)
	rg.GET("/virtual-rooms", h.ListVirtualRooms)
	rg.GET("/virtual-rooms/:id", h.GetVirtualRoom)
	rg.PUT("/virtual-rooms/:id", h.UpdateVirtualRoom)
	rg.DELETE("/virtual-rooms/:id", h.DeleteVirtualRoom)

	rg.POST("/clients", h.CreateClient)
	rg.GET("/clients", h.ListClients)
	rg.GET("/clients/:id", h.GetClient)
}

func paramID(c *gin.Context, what string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+what+" ID")
		return 0, false
	}
	return id, true
}

func pagination(c *gin.Context) (limit, offset int) {
	limit = 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			offset = (n - 1) * limit
		}
	}
	return limit, offset
}

/* ---------- ROOMS ---------- */

func (h *Handler) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	room, err := h.service.CreateRoom(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"room": room})
}

func (h *Handler) GetRoom(c *gin.Context) {
	id, ok := paramID(c, "room")
	if !ok {
		return
	}
	room, err := h.service.GetRoom(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"room": room})
}

func (h *Handler) ListRooms(c *gin.Context) {
	limit, offset := pagination(c)
	rooms, total, err := h.service.ListRooms(c.Request.Context(), domain.RoomStatus(c.Query("status")), limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rooms": rooms, "total": total})
}

func (h *Handler) UpdateRoom(c *gin.Context) {
	id, ok := paramID(c, "room")
	if !ok {
		return
	}
	var req UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	room, err := h.service.UpdateRoom(c.Request.Context(), id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"room": room})
}

func (h *Handler) DeleteRoom(c *gin.Context) {
	id, ok := paramID(c, "room")
	if !ok {
		return
	}
	if err := h.service.DeleteRoom(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

/* ---------- VIRTUAL ROOMS ---------- */

func (h *Handler) CreateVirtualRoom(c *gin.Context) {
	var req VirtualRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	vr, err := h.service.CreateVirtualRoom(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"virtual_room": vr})
}

func (h *Handler) GetVirtualRoom(c *gin.Context) {
	id, ok := paramID(c, "virtual room")
	if !ok {
		return
	}
	vr, err := h.service.GetVirtualRoom(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"virtual_room": vr})
}

func (h *Handler) ListVirtualRooms(c *gin.Context) {
	limit, offset := pagination(c)
	rooms, total, err := h.service.ListVirtualRooms(c.Request.Context(), limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"virtual_rooms": rooms, "total": total})
}

func (h *Handler) UpdateVirtualRoom(c *gin.Context) {
	id, ok := paramID(c, "virtual room")
	if !ok {
		return
	}
	var req VirtualRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	vr, err := h.service.UpdateVirtualRoom(c.Request.Context(), id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"virtual_room": vr})
}

func (h *Handler) DeleteVirtualRoom(c *gin.Context) {
	id, ok := paramID(c, "virtual room")
	if !ok {
		return
	}
	if err := h.service.DeleteVirtualRoom(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

/* ---------- CLIENTS ---------- */

func (h *Handler) CreateClient(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid client data", errs)
		return
	}

	client, err := h.service.CreateClient(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"client": client})
}

func (h *Handler) GetClient(c *gin.Context) {
	id, ok := paramID(c, "client")
	if !ok {
		return
	}
	client, err := h.service.GetClient(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"client": client})
}

func (h *Handler) ListClients(c *gin.Context) {
	limit, offset := pagination(c)
	clients, total, err := h.service.ListClients(c.Request.Context(), limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"clients": clients, "total": total})
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid catalog data")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrRoomOccupied):
		response.Error(c, http.StatusConflict, "ROOM_OCCUPIED", "Room still has active reservation segments")
	case errors.Is(err, ErrRoomInUse):
		response.Error(c, http.StatusConflict, "ROOM_IN_USE", "Room is a component of a virtual room")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Catalog operation failed")
	}
}
