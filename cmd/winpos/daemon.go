package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/winpos/internal/daemon"
)

var daemonHTTP string

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the window positioner daemon",
	Long: `Connect to the X server once and serve the positioner on every enabled
transport until interrupted.`,
	Example: `  # Run with the configured transports
  winpos daemon

  # Also serve the HTTP mirror
  winpos daemon --http 127.0.0.1:7878`,
	Args: cobra.NoArgs,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)
	daemonCmd.Flags().StringVar(&daemonHTTP, "http", "", "serve the HTTP mirror on this address")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	res, err := loadConfig()
	if err != nil {
		return err
	}
	cfg := res.Config
	if daemonHTTP != "" {
		cfg.HTTP.Enabled = true
		cfg.HTTP.Listen = daemonHTTP
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return daemon.Run(ctx, cfg)
}
