package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "room-service",
	Short: "Room service: room and participant lifecycle, invitations, signaling mailbox",
	Long:  `HTTP + WebSocket API. Commands: api, worker, migrate, seed.`,
	RunE:  runAPI, // default: run API (same as "room-service api")
}

func init() {
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(workerCmd)
	rootCmd.AddCommand(commandCmd)
	rootCmd.AddCommand(seedCmd)
}

// Execute runs the root command and returns the error (for main to log.Fatal).
func Execute() error {
	return rootCmd.Execute()
}
