package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/auto-browser/forge/internal/repository/receipt"
	"github.com/auto-browser/forge/internal/service/status"
)

// statusCmd summarizes the last successful build from its receipt.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what the last successful build produced",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Setup graceful shutdown handling.
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		rootDir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve working directory: %w", err)
		}

		options := &status.Options{
			ReceiptPath: filepath.Join(rootDir, "dist", receipt.Filename),
			Out:         cmd.OutOrStdout(),
		}

		return status.Run(ctx, options)
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(statusCmd)
}
