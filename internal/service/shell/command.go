package shell

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/auto-browser/forge/internal/execx"
	"github.com/auto-browser/forge/internal/logger"
)

// Options contains inputs for the shell packager.
type Options struct {
	// RootDir is the repository root holding the shell project.
	RootDir string
	// FrozenBundleDir is the backend bundle the shell embeds; it must exist.
	FrozenBundleDir string
	// AppBundlePath is where the native application bundle is expected.
	AppBundlePath string
	// BundleDMG asks the shell tool to also produce the disk image itself
	// instead of leaving that to the disk image assembler.
	BundleDMG bool
	// Runner executes the shell-build tool.
	Runner execx.Runner
}

var (
	errFrozenBundleMissing = errors.New("frozen backend bundle not found")
	errAppBundleMissing    = errors.New("application bundle missing after shell build")
)

// Run compiles the native shell around the frozen bundle.
func Run(ctx context.Context, opts *Options) error {
	if _, err := os.Stat(opts.FrozenBundleDir); err != nil {
		return fmt.Errorf(
			"%w at %s: run the backend freeze first",
			errFrozenBundleMissing, opts.FrozenBundleDir,
		)
	}

	targets := "app"
	if opts.BundleDMG {
		targets = "app,dmg"
	}

	logger.InfoKV(ctx, "Building native shell", "bundles", targets)

	if err := opts.Runner.Run(ctx, execx.Command{
		Name: "npm",
		Args: buildArgs(targets),
		Dir:  opts.RootDir,
	}); err != nil {
		return fmt.Errorf("build native shell: %w", err)
	}

	if _, err := os.Stat(opts.AppBundlePath); err != nil {
		return fmt.Errorf("%w: expected %s", errAppBundleMissing, opts.AppBundlePath)
	}

	logger.InfoKV(ctx, "Application bundle ready", "path", opts.AppBundlePath)

	return nil
}

// buildArgs composes the shell-tool invocation for the requested bundle targets.
func buildArgs(targets string) []string {
	return []string{"run", "tauri", "build", "--", "--bundles", targets}
}
