package service

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Subscriber is one WebSocket subscription to a user's signal mailbox.
type Subscriber struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte
}

// SignalHub tracks mailbox subscriptions and pushes wake-ups when a signal is
// stored. The push is only a prompt to fetch: the mailbox rows stay durable,
// so a subscriber that misses a wake-up sees the signals on its next Receive.
type SignalHub struct {
	mu       sync.RWMutex
	subs     map[string]map[*Subscriber]struct{} // userID -> subscriptions
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewSignalHub creates a signal hub.
func NewSignalHub(readBufferSize, writeBufferSize int, log *zap.Logger) *SignalHub {
	return &SignalHub{
		subs: make(map[string]map[*Subscriber]struct{}),
		log:  log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  readBufferSize,
			WriteBufferSize: writeBufferSize,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Register adds a subscription for the user and returns a cleanup function.
func (h *SignalHub) Register(userID string, conn *websocket.Conn) (*Subscriber, func()) {
	sub := &Subscriber{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 64),
	}
	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[*Subscriber]struct{})
	}
	h.subs[userID][sub] = struct{}{}
	h.mu.Unlock()

	h.log.Info("signal subscriber registered", zap.String("user_id", userID))
	return sub, func() { h.unregister(sub) }
}

func (h *SignalHub) unregister(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m, ok := h.subs[sub.UserID]; ok {
		delete(m, sub)
		if len(m) == 0 {
			delete(h.subs, sub.UserID)
		}
	}
	close(sub.Send)
	h.log.Info("signal subscriber unregistered", zap.String("user_id", sub.UserID))
}

// Wake notifies every subscription of the user that its mailbox has news.
func (h *SignalHub) Wake(userID string) {
	h.mu.RLock()
	m, ok := h.subs[userID]
	if !ok {
		h.mu.RUnlock()
		return
	}
	subs := make([]*Subscriber, 0, len(m))
	for sub := range m {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	raw, _ := json.Marshal(map[string]string{"event": "signal_pending"})
	for _, sub := range subs {
		select {
		case sub.Send <- raw:
		default:
			h.log.Warn("subscriber send buffer full", zap.String("user_id", userID))
		}
	}
}

// Upgrader returns the WebSocket upgrader for HTTP handlers.
func (h *SignalHub) Upgrader() *websocket.Upgrader {
	return &h.upgrader
}

// SubscriberCount returns the number of open subscriptions for a user.
func (h *SignalHub) SubscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}
