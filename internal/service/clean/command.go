package clean

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/auto-browser/forge/internal/config"
	"github.com/auto-browser/forge/internal/logger"
)

// Options contains inputs for the clean step.
type Options struct {
	// Config supplies the artifact paths to remove.
	Config *config.Config
	// RootDir is the repository root.
	RootDir string
	// All additionally removes caches and the native build directory.
	All bool
	// UserData additionally removes the per-user configuration and logs.
	UserData bool
	// HomeDir anchors the per-user paths; empty means the current user's home.
	HomeDir string
}

// Run deletes build artifacts, reporting failures as warnings only.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "clean")

	for _, target := range buildArtifacts(opts.Config, opts.RootDir) {
		remove(ctx, target)
	}

	removePycache(ctx, opts.RootDir)

	if opts.All {
		for _, target := range cacheArtifacts(opts.Config, opts.RootDir) {
			remove(ctx, target)
		}
	}

	if opts.UserData {
		home := opts.HomeDir
		if home == "" {
			var err error
			if home, err = os.UserHomeDir(); err != nil {
				logger.WarnKV(ctx, "Could not resolve home directory", "error", err)
				return nil
			}
		}

		remove(ctx, filepath.Join(home, opts.Config.UserDataDir))
		remove(ctx, filepath.Join(home, opts.Config.LogDir))
	}

	logger.Info(ctx, "Clean finished")

	return nil
}

// buildArtifacts lists the per-build outputs always removed.
func buildArtifacts(cfg *config.Config, root string) []string {
	return []string{
		filepath.Join(root, cfg.VenvDir),
		filepath.Join(root, "dist"),
		filepath.Join(root, "build"),
	}
}

// cacheArtifacts lists the heavier directories only removed with --all.
func cacheArtifacts(cfg *config.Config, root string) []string {
	return []string{
		filepath.Join(root, cfg.TauriDir, "target"),
		filepath.Join(root, "node_modules"),
		filepath.Join(root, ".pytest_cache"),
	}
}

// remove deletes a path, downgrading any failure to a warning.
func remove(ctx context.Context, path string) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return
	}

	logger.InfoKV(ctx, "Removing", "path", path)

	if err := os.RemoveAll(path); err != nil {
		logger.WarnKV(ctx, "Could not remove", "path", path, "error", err)
	}
}

// removePycache walks the tree and drops bytecode cache directories.
func removePycache(ctx context.Context, root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // Best-effort walk; unreadable entries are skipped.
		}

		if d.IsDir() && d.Name() == "__pycache__" {
			remove(ctx, path)
			return fs.SkipDir
		}

		return nil
	})
}
