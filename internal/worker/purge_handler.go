package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/nextalk/room-service/internal/service"
	"github.com/nextalk/room-service/internal/tasks"
)

// PurgeHandler runs one purge page and, when the store reports more pages,
// enqueues the next iteration with the continuation cursor. The chain is
// detached from the caller that triggered the purge.
type PurgeHandler struct {
	purge  *service.PurgeService
	client *asynq.Client
	log    *zap.Logger
}

// NewPurgeHandler creates the purge task handler.
func NewPurgeHandler(purge *service.PurgeService, client *asynq.Client, log *zap.Logger) *PurgeHandler {
	return &PurgeHandler{purge: purge, client: client, log: log}
}

// ProcessTask implements asynq.Handler.
func (h *PurgeHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload tasks.PurgePagePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("purge payload: %w: %v", asynq.SkipRetry, err)
	}
	next, more, err := h.purge.RunPage(payload.Cursor, payload.PageSize)
	if err != nil {
		return fmt.Errorf("purge page (cursor %q): %w", payload.Cursor, err)
	}
	if !more {
		h.log.Info("purge chain complete", zap.String("cursor", next))
		return nil
	}
	nextTask, err := tasks.NewPurgePageTask(next, payload.PageSize)
	if err != nil {
		return err
	}
	if _, err := h.client.EnqueueContext(ctx, nextTask); err != nil {
		return fmt.Errorf("enqueue next purge page: %w", err)
	}
	return nil
}
