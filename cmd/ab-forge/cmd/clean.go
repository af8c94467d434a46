package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/auto-browser/forge/internal/config"
	"github.com/auto-browser/forge/internal/service/clean"
)

var (
	// cleanAll additionally removes caches and the native build directory.
	cleanAll bool

	// cleanUserData additionally removes the per-user configuration and logs.
	cleanUserData bool

	// cleanCmd removes build artifacts.
	cleanCmd = &cobra.Command{
		Use:   "clean",
		Short: "Remove build artifacts",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
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

			options := &clean.Options{
				Config:   cfg,
				RootDir:  rootDir,
				All:      cleanAll,
				UserData: cleanUserData,
			}

			return clean.Run(ctx, options)
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	cleanCmd.Flags().BoolVar(&cleanAll, "all", false, "also remove caches and the native build directory")
	cleanCmd.Flags().BoolVar(&cleanUserData, "user-data", false, "also remove the per-user configuration and logs")

	rootCmd.AddCommand(cleanCmd)
}
