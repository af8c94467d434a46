package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/auto-browser/forge/internal/config"
	"github.com/auto-browser/forge/internal/service/logs"
)

var (
	// logsFollow keeps streaming as the log file grows.
	logsFollow bool

	// logsCmd shows the newest backend log file.
	logsCmd = &cobra.Command{
		Use:   "logs",
		Short: "Show the newest application log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling; follow mode runs until interrupted.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("resolve home directory: %w", err)
			}

			options := &logs.Options{
				LogDir: filepath.Join(home, cfg.LogDir),
				Follow: logsFollow,
				Out:    cmd.OutOrStdout(),
			}

			return logs.Run(ctx, options)
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "keep printing as the log grows")

	rootCmd.AddCommand(logsCmd)
}
