// Package execx wraps external tool invocation behind a small Runner
// interface so pipeline stages can be exercised in tests with fake commands.
package execx

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Command describes a single external tool invocation.
type Command struct {
	// Name is the executable to run, resolved via PATH if not absolute.
	Name string
	// Args are the command arguments.
	Args []string
	// Dir is the working directory; empty means the current directory.
	Dir string
	// Env holds extra KEY=VALUE entries appended to the inherited environment.
	Env []string
}

// String renders the invocation for log output.
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Runner executes external commands on behalf of pipeline stages.
type Runner interface {
	// Run executes the command, streaming its output to the console.
	Run(ctx context.Context, cmd Command) error
	// Output executes the command and captures its combined standard output.
	Output(ctx context.Context, cmd Command) (string, error)
}

// systemRunner executes commands with os/exec.
type systemRunner struct{}

// Default returns the Runner backed by os/exec.
//
//nolint:ireturn // Callers depend on the Runner interface, not the implementation.
func Default() Runner {
	return systemRunner{}
}

// Run executes the command, wiring the child's stdout and stderr to this process.
func (systemRunner) Run(ctx context.Context, cmd Command) error {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = append(os.Environ(), cmd.Env...)
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr

	if err := c.Run(); err != nil {
		return fmt.Errorf("%s: %w", cmd.String(), err)
	}

	return nil
}

// Output executes the command and returns its standard output as a string.
func (systemRunner) Output(ctx context.Context, cmd Command) (string, error) {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = append(os.Environ(), cmd.Env...)

	out, err := c.Output()
	if err != nil {
		return string(out), fmt.Errorf("%s: %w", cmd.String(), err)
	}

	return string(out), nil
}
