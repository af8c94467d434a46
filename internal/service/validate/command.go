package validate

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/auto-browser/forge/internal/config"
	"github.com/auto-browser/forge/internal/execx"
	"github.com/auto-browser/forge/internal/logger"
)

// Options contains inputs for the environment validator.
type Options struct {
	// Config holds the interpreter name, version floor and required tools.
	Config *config.Config
	// Runner executes the interpreter to read its version.
	Runner execx.Runner
}

var (
	errPythonTooOld         = errors.New("interpreter version below the supported minimum")
	errToolMissing          = errors.New("required build tool not found on PATH")
	errInvalidVersionOutput = errors.New("invalid interpreter version output")
)

// Run checks the active interpreter and the required build tools.
// It is deliberately the first stage: failing here costs nothing, while
// failing after the environment has been recreated wastes a full install.
func Run(ctx context.Context, opts *Options) error {
	out, err := opts.Runner.Output(ctx, execx.Command{
		Name: opts.Config.PythonExecutable,
		Args: []string{"--version"},
	})
	if err != nil {
		return fmt.Errorf("detect interpreter version: %w", err)
	}

	major, minor, err := parsePythonVersion(out)
	if err != nil {
		return err
	}

	minMajor, minMinor, err := parseVersionFloor(opts.Config.MinPythonVersion)
	if err != nil {
		return err
	}

	if major < minMajor || (major == minMajor && minor < minMinor) {
		return fmt.Errorf(
			"%w: found %d.%d, need at least %s; install a newer Python and retry",
			errPythonTooOld, major, minor, opts.Config.MinPythonVersion,
		)
	}

	logger.InfoKV(ctx, "Interpreter accepted", "version", fmt.Sprintf("%d.%d", major, minor))

	for _, tool := range opts.Config.RequiredTools {
		if _, err := exec.LookPath(tool); err != nil {
			return fmt.Errorf("%w: %s", errToolMissing, tool)
		}
	}

	logger.InfoKV(ctx, "Build tools present", "tools", strings.Join(opts.Config.RequiredTools, ", "))

	return nil
}

// parsePythonVersion extracts major.minor from "Python 3.11.4" style output.
func parsePythonVersion(output string) (int, int, error) {
	output = strings.TrimSpace(output)

	fields := strings.Fields(output)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "python") {
		return 0, 0, fmt.Errorf("%w: %q", errInvalidVersionOutput, output)
	}

	return parseVersionFloor(fields[1])
}

// parseVersionFloor splits a dotted version into its major and minor components.
func parseVersionFloor(v string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(v), ".")
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("%w: %q", errInvalidVersionOutput, v)
	}

	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", errInvalidVersionOutput, v)
	}

	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", errInvalidVersionOutput, v)
	}

	return major, minor, nil
}
