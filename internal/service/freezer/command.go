package freezer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/auto-browser/forge/internal/config"
	"github.com/auto-browser/forge/internal/execx"
	"github.com/auto-browser/forge/internal/logger"
)

// Options contains inputs for the bundle freezer.
type Options struct {
	// Config supplies the allow/deny lists and the entry point.
	Config *config.Config
	// RootDir is the repository root the freeze runs from.
	RootDir string
	// VenvPython is the interpreter of the isolated environment holding the
	// production dependency set.
	VenvPython string
	// FrozenBundleDir is where the self-contained bundle must appear.
	FrozenBundleDir string
	// Runner executes the packaging tool.
	Runner execx.Runner
}

var errBundleMissing = errors.New("frozen bundle directory missing after freeze")

// Run invokes the packaging tool and verifies the bundle directory exists.
func Run(ctx context.Context, opts *Options) error {
	logger.InfoKV(ctx, "Freezing backend bundle",
		"entry_point", opts.Config.EntryPoint,
		"collect_all", len(opts.Config.CollectAll),
		"hidden_imports", len(opts.Config.HiddenImports),
		"excludes", len(opts.Config.ExcludeModules),
	)

	if err := opts.Runner.Run(ctx, execx.Command{
		Name: opts.VenvPython,
		Args: freezeArgs(opts.Config),
		Dir:  opts.RootDir,
	}); err != nil {
		return fmt.Errorf("freeze bundle: %w", err)
	}

	// A zero-exit freeze with no output directory still means an unusable
	// artifact, so the postcondition is checked explicitly.
	if _, err := os.Stat(opts.FrozenBundleDir); err != nil {
		return fmt.Errorf("%w: expected %s", errBundleMissing, opts.FrozenBundleDir)
	}

	logger.InfoKV(ctx, "Frozen bundle ready", "path", opts.FrozenBundleDir)

	return nil
}

// freezeArgs assembles the full packaging-tool invocation from configuration.
// Directory mode is fixed; see the package comment for why.
func freezeArgs(cfg *config.Config) []string {
	args := []string{
		"-m", "PyInstaller",
		"--noconfirm",
		"--clean",
		"--onedir",
		"--name", cfg.DistName,
		"--distpath", "dist",
		"--workpath", filepath.Join("build", "pyinstaller"),
	}

	for _, pkg := range cfg.CollectAll {
		args = append(args, "--collect-all", pkg)
	}

	for _, mod := range cfg.HiddenImports {
		args = append(args, "--hidden-import", mod)
	}

	for _, mod := range cfg.ExcludeModules {
		args = append(args, "--exclude-module", mod)
	}

	return append(args, cfg.EntryPoint)
}
