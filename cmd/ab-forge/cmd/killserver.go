package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/auto-browser/forge/internal/config"
	"github.com/auto-browser/forge/internal/execx"
	"github.com/auto-browser/forge/internal/service/killer"
)

// killServerCmd frees the backend port by terminating its listeners.
var killServerCmd = &cobra.Command{
	Use:   "kill-server [port]",
	Short: "Force-terminate whatever is bound to the backend port",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		// Setup graceful shutdown handling.
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}

		port := cfg.ServerPort

		if len(args) == 1 {
			if port, err = strconv.Atoi(args[0]); err != nil {
				return fmt.Errorf("invalid port %q: %w", args[0], err)
			}
		}

		options := &killer.Options{
			Port:   port,
			Runner: execx.Default(),
		}

		return killer.Run(ctx, options)
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(killServerCmd)
}
