package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/nextalk/room-service/internal/tasks"
)

// AdminHandler handles operational endpoints.
type AdminHandler struct {
	client   *asynq.Client
	pageSize int
	logger   *zap.Logger
}

// NewAdminHandler creates an admin handler.
func NewAdminHandler(client *asynq.Client, pageSize int, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{client: client, pageSize: pageSize, logger: logger}
}

// PurgeRooms godoc
// POST /admin/purge
// Enqueues the first purge iteration and returns immediately; the worker
// chain pages through the rest.
func (h *AdminHandler) PurgeRooms(c *gin.Context) {
	task, err := tasks.NewPurgePageTask("", h.pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	info, err := h.client.EnqueueContext(c.Request.Context(), task)
	if err != nil {
		h.logger.Error("enqueue purge failed", zap.Error(err))
		fail(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"task_id": info.ID, "queue": info.Queue})
}

// SweepInvites godoc
// POST /admin/sweep-invites
// Manual trigger for the hourly expiry sweep.
func (h *AdminHandler) SweepInvites(c *gin.Context) {
	info, err := h.client.EnqueueContext(c.Request.Context(), tasks.NewInviteSweepTask())
	if err != nil {
		h.logger.Error("enqueue sweep failed", zap.Error(err))
		fail(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"task_id": info.ID, "queue": info.Queue})
}
