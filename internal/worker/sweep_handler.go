package worker

import (
	"context"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/nextalk/room-service/internal/service"
)

// SweepHandler flips expired pending email invites. Triggered hourly by the
// scheduler; safe to run at any frequency.
type SweepHandler struct {
	invites *service.EmailInviteService
	log     *zap.Logger
}

// NewSweepHandler creates the expiry sweep handler.
func NewSweepHandler(invites *service.EmailInviteService, log *zap.Logger) *SweepHandler {
	return &SweepHandler{invites: invites, log: log}
}

// ProcessTask implements asynq.Handler.
func (h *SweepHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	count, err := h.invites.SweepExpired()
	if err != nil {
		return err
	}
	h.log.Debug("invite sweep done", zap.Int64("expired", count))
	return nil
}
