package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nextalk/room-service/internal/middleware"
	"github.com/nextalk/room-service/internal/model"
	"github.com/nextalk/room-service/internal/service"
)

// RoomHandler handles REST API for rooms.
type RoomHandler struct {
	rooms *service.RoomService
}

// NewRoomHandler creates a room handler.
func NewRoomHandler(rooms *service.RoomService) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

// CreateRoom godoc
// POST /rooms
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req model.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "message": err.Error()})
		return
	}
	room, err := h.rooms.Create(middleware.UserID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, roomView(room))
}

// ListRooms godoc
// GET /rooms?status=&is_private=&limit=
func (h *RoomHandler) ListRooms(c *gin.Context) {
	var filter model.RoomListFilter
	if v := c.Query("status"); v != "" {
		status := model.RoomStatus(v)
		filter.Status = &status
	}
	if v := c.Query("is_private"); v != "" {
		private := v == "true"
		filter.IsPrivate = &private
	}
	limit := 0
	if v := c.Query("limit"); v != "" {
		// Unparsable values fall back to the default inside List.
		limit, _ = strconv.Atoi(v)
	}
	rooms, err := h.rooms.List(filter, limit)
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]model.RoomView, 0, len(rooms))
	for i := range rooms {
		out = append(out, roomView(&rooms[i]))
	}
	c.JSON(http.StatusOK, gin.H{"rooms": out})
}

// GetRoom godoc
// GET /rooms/:id
func (h *RoomHandler) GetRoom(c *gin.Context) {
	room, err := h.rooms.Get(c.Param("id"), c.Query("include_deleted") == "true")
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, roomView(room))
}

// StartRoom godoc
// POST /rooms/:id/start
func (h *RoomHandler) StartRoom(c *gin.Context) {
	if err := h.rooms.Start(c.Param("id"), middleware.UserID(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "live"})
}

// EndRoom godoc
// POST /rooms/:id/end
func (h *RoomHandler) EndRoom(c *gin.Context) {
	if err := h.rooms.End(c.Param("id"), middleware.UserID(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ended"})
}

// DeleteRoom godoc
// DELETE /rooms/:id
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	if err := h.rooms.SoftDelete(c.Param("id"), middleware.UserID(c)); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
