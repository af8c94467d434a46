package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/auto-browser/forge/internal/service/builder"
)

var (
	// buildAppOnly stops after the native application bundle.
	buildAppOnly bool

	// buildDMGOnly assembles the disk image from an existing application bundle.
	buildDMGOnly bool

	// buildBundleDMG lets the shell tool emit app and disk image in one pass.
	buildBundleDMG bool

	// buildCmd runs the build pipeline.
	buildCmd = &cobra.Command{
		Use:   "build",
		Short: "Run the build pipeline through to the distributable disk image",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &builder.Options{
				ConfigPath: configPath,
				AppOnly:    buildAppOnly,
				DMGOnly:    buildDMGOnly,
				BundleDMG:  buildBundleDMG,
			}

			return builder.Run(ctx, options)
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	buildCmd.Flags().BoolVar(&buildAppOnly, "app-only", false, "stop after the application bundle, skip the disk image")
	buildCmd.Flags().BoolVar(&buildDMGOnly, "dmg-only", false, "assemble only the disk image from an existing application bundle")
	buildCmd.Flags().BoolVar(&buildBundleDMG, "bundle-dmg", false, "let the shell tool produce app and disk image in one pass")
	buildCmd.MarkFlagsMutuallyExclusive("app-only", "dmg-only", "bundle-dmg")

	rootCmd.AddCommand(buildCmd)
}
