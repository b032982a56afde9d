package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nextalk/room-service/internal/application"
	"github.com/nextalk/room-service/internal/config"
	"github.com/nextalk/room-service/internal/database"
	"github.com/nextalk/room-service/internal/service"
	"github.com/nextalk/room-service/internal/worker"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the background worker (purge chain, invite expiry sweep)",
	RunE:  runWorker,
}

func runWorker(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	logger := application.NewLogger(cfg)

	roomSvc := service.NewRoomService(db, logger)
	purgeSvc := service.NewPurgeService(db, cfg.PurgePageSize, logger)
	emailInviteSvc := service.NewEmailInviteService(db, roomSvc, nil, cfg.InviteTTLHours, cfg.InviteBaseURL, logger)

	srv := worker.NewServer(application.RedisOpt(cfg), purgeSvc, emailInviteSvc, logger)
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}
