package killer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/auto-browser/forge/internal/execx"
)

// lsofRunner plays back canned lsof outputs in sequence.
type lsofRunner struct {
	outputs []string
	errs    []error
	calls   int
}

func (r *lsofRunner) Run(context.Context, execx.Command) error { return nil }

func (r *lsofRunner) Output(context.Context, execx.Command) (string, error) {
	i := r.calls
	r.calls++

	var err error
	if i < len(r.errs) {
		err = r.errs[i]
	}

	if i < len(r.outputs) {
		return r.outputs[i], err
	}

	return "", err
}

// TestParsePIDs handles multi-line, blank and garbage entries.
func TestParsePIDs(t *testing.T) {
	t.Parallel()

	require.Equal(t, []int{4242, 4243}, parsePIDs("4242\n4243\n"))
	require.Empty(t, parsePIDs(""))
	require.Empty(t, parsePIDs("\n\n"))
	require.Equal(t, []int{99}, parsePIDs("99\nnot-a-pid\n"))
}

// TestRun_PortAlreadyFree treats a failing empty lsof as no listeners.
func TestRun_PortAlreadyFree(t *testing.T) {
	t.Parallel()

	runner := &lsofRunner{
		outputs: []string{""},
		errs:    []error{errors.New("exit status 1")},
	}

	opts := &Options{Port: 5555, Runner: runner}

	require.NoError(t, Run(context.Background(), opts))
	require.Equal(t, 1, runner.calls)
}

// TestRun_IncompleteTerminationIsWarning stays on the success path when
// listeners survive the kill.
func TestRun_IncompleteTerminationIsWarning(t *testing.T) {
	t.Parallel()

	// A PID far above any live process: the kill fails, and the
	// re-verification still reports it as a listener.
	runner := &lsofRunner{outputs: []string{"99999999\n", "99999999\n"}}

	opts := &Options{Port: 5555, Runner: runner}

	require.NoError(t, Run(context.Background(), opts))
	require.Equal(t, 2, runner.calls)
}
