package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nextalk/room-service/internal/middleware"
	"github.com/nextalk/room-service/internal/model"
	"github.com/nextalk/room-service/internal/service"
)

// InviteHandler handles REST API for both invitation flows.
type InviteHandler struct {
	invites      *service.InviteService
	emailInvites *service.EmailInviteService
}

// NewInviteHandler creates an invite handler.
func NewInviteHandler(invites *service.InviteService, emailInvites *service.EmailInviteService) *InviteHandler {
	return &InviteHandler{invites: invites, emailInvites: emailInvites}
}

// InviteUser godoc
// POST /rooms/:id/invites
func (h *InviteHandler) InviteUser(c *gin.Context) {
	var req model.InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "message": err.Error()})
		return
	}
	invite, err := h.invites.Invite(c.Param("id"), middleware.UserID(c), req.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, inviteView(invite))
}

// RespondInvite godoc
// POST /invites/:id/respond
func (h *InviteHandler) RespondInvite(c *gin.Context) {
	var req model.RespondInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "message": err.Error()})
		return
	}
	if err := h.invites.Respond(c.Param("id"), model.InviteStatus(req.Response)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Response})
}

// CreateEmailInvite godoc
// POST /rooms/:id/email-invites
func (h *InviteHandler) CreateEmailInvite(c *gin.Context) {
	var req model.EmailInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "message": err.Error()})
		return
	}
	invite, err := h.emailInvites.Create(c.Param("id"), req.Email, middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, emailInviteView(invite))
}

// ValidateEmailInvite godoc
// GET /email-invites/:token
func (h *InviteHandler) ValidateEmailInvite(c *gin.Context) {
	result, err := h.emailInvites.Validate(c.Param("token"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ConsumeEmailInvite godoc
// POST /email-invites/:token/consume
func (h *InviteHandler) ConsumeEmailInvite(c *gin.Context) {
	roomID, err := h.emailInvites.Consume(c.Param("token"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room_id": roomID})
}
