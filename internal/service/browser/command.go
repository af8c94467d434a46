package browser

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/auto-browser/forge/internal/execx"
	"github.com/auto-browser/forge/internal/logger"
)

// Options contains inputs for the browser engine provisioner.
type Options struct {
	// VenvPython is the interpreter of the isolated environment, which has
	// the browser-automation library and its installer available.
	VenvPython string
	// Engine is the engine flavor passed to the installer, e.g. "chromium".
	Engine string
	// EngineDir is the target directory inside the frozen bundle.
	EngineDir string
	// Runner executes the installer.
	Runner execx.Runner
}

// browsersPathEnv redirects the installer away from the per-user cache.
const browsersPathEnv = "PLAYWRIGHT_BROWSERS_PATH"

var errEngineMissing = errors.New("browser engine directory empty after install")

// Run installs the engine and verifies the target directory is non-empty.
// A bundle without the engine is non-functional, so an empty directory is a
// fatal postcondition failure rather than something to ship and debug later.
// The download has no internal timeout or retry; a hung transfer is the
// operator's to interrupt.
func Run(ctx context.Context, opts *Options) error {
	logger.InfoKV(ctx, "Provisioning browser engine",
		"engine", opts.Engine, "target", opts.EngineDir)

	if err := opts.Runner.Run(ctx, execx.Command{
		Name: opts.VenvPython,
		Args: []string{"-m", "playwright", "install", opts.Engine},
		Env:  []string{browsersPathEnv + "=" + opts.EngineDir},
	}); err != nil {
		return fmt.Errorf("install browser engine: %w", err)
	}

	if err := verifyEngineDir(opts.EngineDir); err != nil {
		return fmt.Errorf(
			"%w; check network access and rerun the build (target: %s)",
			err, opts.EngineDir,
		)
	}

	logger.Info(ctx, "Browser engine provisioned inside the bundle")

	return nil
}

// verifyEngineDir confirms the install actually produced content.
func verifyEngineDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return errEngineMissing
		}

		return fmt.Errorf("read engine directory: %w", err)
	}

	if len(entries) == 0 {
		return errEngineMissing
	}

	return nil
}
