package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nextalk/room-service/internal/middleware"
	"github.com/nextalk/room-service/internal/model"
	"github.com/nextalk/room-service/internal/service"
)

// ParticipantHandler handles REST API for the room roster.
type ParticipantHandler struct {
	participants *service.ParticipantService
}

// NewParticipantHandler creates a participant handler.
func NewParticipantHandler(participants *service.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{participants: participants}
}

// JoinRoom godoc
// POST /rooms/:id/join
func (h *ParticipantHandler) JoinRoom(c *gin.Context) {
	p, err := h.participants.Join(c.Param("id"), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, participantView(p))
}

// LeaveRoom godoc
// POST /participants/:id/leave
func (h *ParticipantHandler) LeaveRoom(c *gin.Context) {
	if err := h.participants.Leave(c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetParticipants godoc
// GET /rooms/:id/participants
func (h *ParticipantHandler) GetParticipants(c *gin.Context) {
	roster, err := h.participants.GetParticipants(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]model.ParticipantView, 0, len(roster))
	for i := range roster {
		out = append(out, participantView(&roster[i]))
	}
	c.JSON(http.StatusOK, gin.H{"room_id": c.Param("id"), "participants": out})
}

// ChangeRole godoc
// PATCH /rooms/:id/participants/role
func (h *ParticipantHandler) ChangeRole(c *gin.Context) {
	var req model.ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "message": err.Error()})
		return
	}
	err := h.participants.ChangeRole(c.Param("id"), req.UserID, middleware.UserID(c), model.Role(req.Role))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": req.UserID, "role": req.Role})
}

// ToggleMute godoc
// PATCH /participants/:id/mute
func (h *ParticipantHandler) ToggleMute(c *gin.Context) {
	var req model.ToggleMuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "message": err.Error()})
		return
	}
	if err := h.participants.ToggleMute(c.Param("id"), req.IsMuted); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_muted": req.IsMuted})
}

// RaiseHand godoc
// PATCH /rooms/:id/hand
func (h *ParticipantHandler) RaiseHand(c *gin.Context) {
	var req model.RaiseHandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "message": err.Error()})
		return
	}
	if err := h.participants.ToggleRaiseHand(c.Param("id"), middleware.UserID(c), req.IsRaised); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_raised": req.IsRaised})
}
