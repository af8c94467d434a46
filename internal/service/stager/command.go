package stager

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/auto-browser/forge/internal/execx"
	"github.com/auto-browser/forge/internal/logger"
)

// Options contains inputs for the dependency stager.
type Options struct {
	// PythonExecutable is the system interpreter used to create the environment.
	PythonExecutable string
	// VenvDir is the environment directory, recreated from scratch each run.
	VenvDir string
	// VenvPython is the interpreter inside the environment once created.
	VenvPython string
	// RequirementsFile is the pinned production dependency manifest.
	// It must not include development or test dependencies: everything
	// installed here ends up inside the frozen bundle.
	RequirementsFile string
	// Runner executes the interpreter and installer.
	Runner execx.Runner
}

var errRequirementsMissing = errors.New("production requirements manifest not found")

// Run recreates the isolated environment and installs the production manifest.
// The environment is never mutated in place: a stale directory is removed
// first so repeated runs always converge on the manifest's transitive closure.
func Run(ctx context.Context, opts *Options) error {
	if _, err := os.Stat(opts.RequirementsFile); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", errRequirementsMissing, opts.RequirementsFile)
		}

		return fmt.Errorf("stat requirements manifest: %w", err)
	}

	logger.InfoKV(ctx, "Recreating isolated environment", "path", opts.VenvDir)

	if err := os.RemoveAll(opts.VenvDir); err != nil {
		return fmt.Errorf("remove previous environment: %w", err)
	}

	if err := opts.Runner.Run(ctx, execx.Command{
		Name: opts.PythonExecutable,
		Args: []string{"-m", "venv", opts.VenvDir},
	}); err != nil {
		return fmt.Errorf("create environment: %w", err)
	}

	logger.InfoKV(ctx, "Installing production dependencies", "manifest", opts.RequirementsFile)

	if err := opts.Runner.Run(ctx, execx.Command{
		Name: opts.VenvPython,
		Args: installArgs(opts.RequirementsFile),
	}); err != nil {
		return fmt.Errorf("install production dependencies: %w", err)
	}

	return nil
}

// installArgs builds the pip invocation for the pinned manifest.
// The cache is bypassed so two runs against the same manifest install the
// same package set regardless of what earlier builds left behind.
func installArgs(requirementsFile string) []string {
	return []string{
		"-m", "pip",
		"install",
		"--no-cache-dir",
		"-r", requirementsFile,
	}
}
