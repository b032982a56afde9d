package application

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nextalk/room-service/internal/config"
	"github.com/nextalk/room-service/internal/database"
	"github.com/nextalk/room-service/internal/handler"
	"github.com/nextalk/room-service/internal/mailer"
	"github.com/nextalk/room-service/internal/middleware"
	"github.com/nextalk/room-service/internal/router"
	"github.com/nextalk/room-service/internal/service"
)

// NewLogger builds the zap logger for the configured environment.
func NewLogger(cfg *config.Config) *zap.Logger {
	if cfg.AppEnv == "development" {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}

// RedisOpt returns the asynq Redis connection options.
func RedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
}

// API is the HTTP + WebSocket API application.
type API struct {
	cfg    *config.Config
	srv    *http.Server
	db     *gorm.DB
	tasks  *asynq.Client
	logger *zap.Logger
}

// NewAPI creates the API application: validates config, runs migrations,
// opens DB, builds services and router.
func NewAPI(cfg *config.Config) (*API, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	logger := NewLogger(cfg)
	taskClient := asynq.NewClient(RedisOpt(cfg))

	hub := service.NewSignalHub(cfg.WSReadBufferSize, cfg.WSWriteBufferSize, logger)
	roomSvc := service.NewRoomService(db, logger)
	participantSvc := service.NewParticipantService(db, roomSvc, logger)
	inviteSvc := service.NewInviteService(db, roomSvc, &service.LogNotifier{Log: logger}, logger)
	var mail mailer.Mailer
	if m := mailer.NewFromConfig(cfg, logger); m != nil {
		mail = m
	}
	emailInviteSvc := service.NewEmailInviteService(db, roomSvc, mail, cfg.InviteTTLHours, cfg.InviteBaseURL, logger)
	signalSvc := service.NewSignalService(db, roomSvc, hub, logger)

	h := router.Handlers{
		Rooms:        handler.NewRoomHandler(roomSvc),
		Participants: handler.NewParticipantHandler(participantSvc),
		Invites:      handler.NewInviteHandler(inviteSvc, emailInviteSvc),
		Signals:      handler.NewSignalHandler(signalSvc),
		SignalWS:     handler.NewSignalWSHandler(hub, logger),
		Admin:        handler.NewAdminHandler(taskClient, cfg.PurgePageSize, logger),
		Health:       handler.NewHealthHandler(),
	}
	r := router.New(h, middleware.Identity(db, cfg.JWTSecret, logger), middleware.RequireAuth())

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &API{cfg: cfg, srv: srv, db: db, tasks: taskClient, logger: logger}, nil
}

// Run starts the HTTP server and blocks until ctx is cancelled; then shuts
// down gracefully.
func (a *API) Run(ctx context.Context) error {
	addr := a.srv.Addr
	host := a.cfg.AppHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	base := "http://" + host + ":" + a.cfg.HTTPPort
	log.Printf("HTTP server listening on %s", addr)
	log.Printf("  Health:        %s/health", base)
	log.Printf("  Rooms:         %s/rooms", base)
	log.Printf("  Signals:       %s/signals", base)
	log.Printf("  WebSocket:     ws://%s:%s/ws/signals/:user_id", host, a.cfg.HTTPPort)

	go func() {
		if err := a.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http: %v", err)
		}
	}()

	<-ctx.Done()
	_ = a.tasks.Close()
	_ = a.logger.Sync()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
