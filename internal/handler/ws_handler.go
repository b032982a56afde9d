package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/nextalk/room-service/internal/service"
)

// SignalWSHandler handles WebSocket subscriptions to a user's signal mailbox.
type SignalWSHandler struct {
	hub    *service.SignalHub
	logger *zap.Logger
}

// NewSignalWSHandler creates the WebSocket signal handler.
func NewSignalWSHandler(hub *service.SignalHub, logger *zap.Logger) *SignalWSHandler {
	return &SignalWSHandler{hub: hub, logger: logger}
}

// ServeWS upgrades the request and keeps the subscription open.
// Path: /ws/signals/:user_id
// The connection only carries wake-up events; the client fetches and acks its
// signals over the REST mailbox.
func (h *SignalWSHandler) ServeWS(c *gin.Context) {
	userID := c.Param("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id required"})
		return
	}

	conn, err := h.hub.Upgrader().Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	sub, cleanup := h.hub.Register(userID, conn)
	defer cleanup()

	go h.writePump(sub)
	h.readPump(sub)
}

// readPump drains the connection until the client goes away. Inbound frames
// are ignored; signals are sent over REST.
func (h *SignalWSHandler) readPump(sub *service.Subscriber) {
	defer func() {
		_ = sub.Conn.Close()
	}()
	for {
		if _, _, err := sub.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Debug("read error", zap.Error(err))
			}
			break
		}
	}
}

func (h *SignalWSHandler) writePump(sub *service.Subscriber) {
	defer func() {
		_ = sub.Conn.Close()
	}()
	for data := range sub.Send {
		if err := sub.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			break
		}
	}
}
