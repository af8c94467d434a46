package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/auto-browser/forge/internal/config"
	"github.com/auto-browser/forge/internal/execx"
	"github.com/auto-browser/forge/internal/service/bump"
)

// bumpCmd rewrites the version declarations across the repository.
var bumpCmd = &cobra.Command{
	Use:   "bump <new-version>",
	Short: "Update the version in every tracked manifest and regenerate the lock file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Setup graceful shutdown handling.
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}

		rootDir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve working directory: %w", err)
		}

		options := &bump.Options{
			Config:     cfg,
			RootDir:    rootDir,
			NewVersion: args[0],
			In:         cmd.InOrStdin(),
			Out:        cmd.OutOrStdout(),
			Runner:     execx.Default(),
		}

		return bump.Run(ctx, options)
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(bumpCmd)
}
