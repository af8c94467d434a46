package dmg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/auto-browser/forge/internal/execx"
	"github.com/auto-browser/forge/internal/logger"
)

// Options contains inputs for the disk image assembler.
type Options struct {
	// AppName is the volume name shown when the image is mounted.
	AppName string
	// AppBundlePath is the existing application bundle to package.
	AppBundlePath string
	// OutputPath is the deterministic image location, derived from the
	// application name and version. An existing file is overwritten.
	OutputPath string
	// Runner executes the copy and image tools.
	Runner execx.Runner
}

var (
	errAppBundleMissing = errors.New("application bundle not found")
	errImageMissing     = errors.New("disk image missing after creation")
)

// Run stages the bundle and compresses it into a mountable disk image.
func Run(ctx context.Context, opts *Options) error {
	if _, err := os.Stat(opts.AppBundlePath); err != nil {
		return fmt.Errorf(
			"%w at %s: run the app build first (build --app-only)",
			errAppBundleMissing, opts.AppBundlePath,
		)
	}

	staging, err := os.MkdirTemp("", "ab-forge-dmg-")
	if err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}

	// Guaranteed cleanup, including when image creation fails midway.
	defer func() {
		_ = os.RemoveAll(staging)
	}()

	logger.InfoKV(ctx, "Staging application bundle", "staging", staging)

	// cp -R preserves the bundle's symlinks, permissions and metadata,
	// which a naive file walk would flatten.
	if err = opts.Runner.Run(ctx, execx.Command{
		Name: "cp",
		Args: []string{"-R", opts.AppBundlePath, staging},
	}); err != nil {
		return fmt.Errorf("stage application bundle: %w", err)
	}

	// Drag-and-drop install affordance.
	if err = os.Symlink("/Applications", filepath.Join(staging, "Applications")); err != nil {
		return fmt.Errorf("create Applications symlink: %w", err)
	}

	// Overwrite policy: the version bump is the only collision guard.
	if err = os.Remove(opts.OutputPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove previous image: %w", err)
	}

	if err = os.MkdirAll(filepath.Dir(opts.OutputPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	logger.InfoKV(ctx, "Creating disk image", "output", opts.OutputPath)

	if err = opts.Runner.Run(ctx, execx.Command{
		Name: "hdiutil",
		Args: createArgs(opts.AppName, staging, opts.OutputPath),
	}); err != nil {
		return fmt.Errorf("create disk image: %w", err)
	}

	if _, err = os.Stat(opts.OutputPath); err != nil {
		return fmt.Errorf("%w: expected %s", errImageMissing, opts.OutputPath)
	}

	logger.InfoKV(ctx, "Disk image ready", "path", opts.OutputPath)

	return nil
}

// createArgs composes the compressed read-only image invocation.
func createArgs(volumeName, srcFolder, outputPath string) []string {
	return []string{
		"create",
		"-volname", volumeName,
		"-srcfolder", srcFolder,
		"-ov",
		"-format", "UDZO",
		outputPath,
	}
}
