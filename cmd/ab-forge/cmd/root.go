package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/auto-browser/forge/internal/config"
	"github.com/auto-browser/forge/internal/logger"
	"github.com/auto-browser/forge/internal/version"
)

var (
	// configPath to the build settings YAML file.
	configPath string

	// logLevel selects the minimum level for console output.
	logLevel string

	// rootCmd represents the base command of the build pipeline.
	rootCmd = &cobra.Command{
		Use:   "ab-forge",
		Short: "Build, bundle and package the Auto Browser desktop application",
		Long: "ab-forge drives the Auto Browser build pipeline: it provisions an " +
			"isolated Python runtime, freezes the backend into a self-contained " +
			"bundle with its headless browser engine, wraps it in the native " +
			"desktop shell, and packages the result as a distributable disk image.",
		PersistentPreRun: func(*cobra.Command, []string) {
			if lvl, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(lvl)
			}
		},
	}
)

// Execute runs the ab-forge CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup persistent flags shared by every subcommand.
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to build settings file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}
