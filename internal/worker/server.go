package worker

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/nextalk/room-service/internal/service"
	"github.com/nextalk/room-service/internal/tasks"
)

// Server wraps the asynq worker server plus the hourly scheduler for the
// invite expiry sweep.
type Server struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	client    *asynq.Client
	purge     *service.PurgeService
	invites   *service.EmailInviteService
	log       *zap.Logger
}

// NewServer creates the worker server.
func NewServer(redisOpt asynq.RedisClientOpt, purge *service.PurgeService, invites *service.EmailInviteService, log *zap.Logger) *Server {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			"default": 6,
			"low":     1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			log.Error("task failed",
				zap.String("task_type", task.Type()),
				zap.Int("retries", retried),
				zap.Int("max_retry", maxRetry),
				zap.Error(err))
		}),
	})
	scheduler := asynq.NewScheduler(redisOpt, nil)
	client := asynq.NewClient(redisOpt)
	return &Server{
		server:    srv,
		scheduler: scheduler,
		client:    client,
		purge:     purge,
		invites:   invites,
		log:       log,
	}
}

// Run registers handlers and the hourly sweep, then blocks until ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	mux := asynq.NewServeMux()
	mux.Handle(tasks.TypePurgePage, NewPurgeHandler(s.purge, s.client, s.log))
	mux.Handle(tasks.TypeInviteSweep, NewSweepHandler(s.invites, s.log))

	if _, err := s.scheduler.Register("@every 1h", tasks.NewInviteSweepTask()); err != nil {
		return err
	}
	go func() {
		if err := s.scheduler.Run(); err != nil && !errors.Is(err, asynq.ErrServerClosed) {
			s.log.Error("scheduler stopped", zap.Error(err))
		}
	}()

	s.log.Info("worker server starting")
	if err := s.server.Start(mux); err != nil {
		return err
	}
	<-ctx.Done()
	s.scheduler.Shutdown()
	s.server.Shutdown()
	_ = s.client.Close()
	s.log.Info("worker server stopped")
	return nil
}
