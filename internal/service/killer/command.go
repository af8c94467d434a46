package killer

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/auto-browser/forge/internal/execx"
	"github.com/auto-browser/forge/internal/logger"
)

// Options contains inputs for the process killer.
type Options struct {
	// Port is the TCP port whose listeners are terminated.
	Port int
	// Runner executes the port-to-PID lookup tool.
	Runner execx.Runner
}

// Run terminates every process bound to the port and re-verifies the result.
// This manages unrelated long-running server processes via OS signals; the
// pipeline itself has no in-process concurrency to coordinate with.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "kill-server")

	pids, err := listeningPIDs(ctx, opts)
	if err != nil {
		return err
	}

	if len(pids) == 0 {
		logger.InfoKV(ctx, "Port already free", "port", opts.Port)
		return nil
	}

	for _, pid := range pids {
		name := processName(pid)
		logger.InfoKV(ctx, "Terminating process", "pid", pid, "name", name)

		proc, err := os.FindProcess(pid)
		if err != nil {
			logger.WarnKV(ctx, "Could not access process", "pid", pid, "error", err)
			continue
		}

		if err = proc.Kill(); err != nil {
			logger.WarnKV(ctx, "Could not terminate process", "pid", pid, "error", err)
		}
	}

	// Re-verify; leftover listeners are a warning, not a failure.
	remaining, err := listeningPIDs(ctx, opts)
	if err != nil {
		return err
	}

	if len(remaining) > 0 {
		logger.WarnKV(ctx, "Port still has listeners after termination",
			"port", opts.Port, "pids", remaining)

		return nil
	}

	logger.InfoKV(ctx, "Port is free", "port", opts.Port)

	return nil
}

// listeningPIDs resolves the PIDs currently bound to the port.
// lsof exits non-zero when nothing listens; that is the empty result,
// not an error.
func listeningPIDs(ctx context.Context, opts *Options) ([]int, error) {
	out, err := opts.Runner.Output(ctx, execx.Command{
		Name: "lsof",
		Args: []string{"-ti", fmt.Sprintf(":%d", opts.Port)},
	})
	if err != nil && strings.TrimSpace(out) == "" {
		return nil, nil
	}

	return parsePIDs(out), nil
}

// parsePIDs extracts one PID per line from lsof -t output.
func parsePIDs(out string) []int {
	var pids []int

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		pid, err := strconv.Atoi(line)
		if err != nil {
			continue
		}

		pids = append(pids, pid)
	}

	return pids
}

// processName resolves the executable name for logging; unknown is fine.
func processName(pid int) string {
	proc, err := ps.FindProcess(pid)
	if err != nil || proc == nil {
		return "unknown"
	}

	return proc.Executable()
}
