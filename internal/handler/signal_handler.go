package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nextalk/room-service/internal/middleware"
	"github.com/nextalk/room-service/internal/model"
	"github.com/nextalk/room-service/internal/service"
)

// SignalHandler handles REST API for the signaling mailbox.
type SignalHandler struct {
	signals *service.SignalService
}

// NewSignalHandler creates a signal handler.
func NewSignalHandler(signals *service.SignalService) *SignalHandler {
	return &SignalHandler{signals: signals}
}

// SendSignal godoc
// POST /signals
func (h *SignalHandler) SendSignal(c *gin.Context) {
	var req model.SendSignalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "message": err.Error()})
		return
	}
	sig, err := h.signals.Send(req.RoomID, middleware.UserID(c), req.ReceiverID, model.SignalType(req.Type), req.Payload)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, signalView(sig))
}

// ReceiveSignals godoc
// GET /signals
func (h *SignalHandler) ReceiveSignals(c *gin.Context) {
	sigs, err := h.signals.Receive(middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"signals": signalViews(sigs)})
}

// ReceiveRoomSignals godoc
// GET /rooms/:id/signals
func (h *SignalHandler) ReceiveRoomSignals(c *gin.Context) {
	sigs, err := h.signals.ReceiveForRoom(c.Param("id"), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"signals": signalViews(sigs)})
}

// AckSignal godoc
// POST /signals/:id/ack
func (h *SignalHandler) AckSignal(c *gin.Context) {
	if err := h.signals.Ack(c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func signalViews(sigs []model.Signal) []model.SignalView {
	out := make([]model.SignalView, 0, len(sigs))
	for i := range sigs {
		out = append(out, signalView(&sigs[i]))
	}
	return out
}
