package browser

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/auto-browser/forge/internal/execx"
)

// installingRunner simulates the engine installer with configurable results.
type installingRunner struct {
	commands []execx.Command
	// populate creates a file in the target dir, mimicking a real install.
	populate string
	err      error
}

func (r *installingRunner) Run(_ context.Context, cmd execx.Command) error {
	r.commands = append(r.commands, cmd)
	if r.populate != "" {
		_ = os.MkdirAll(filepath.Dir(r.populate), 0o755)
		_ = os.WriteFile(r.populate, []byte("engine"), 0o755)
	}

	return r.err
}

func (r *installingRunner) Output(_ context.Context, cmd execx.Command) (string, error) {
	r.commands = append(r.commands, cmd)
	return "", r.err
}

// TestRun_RedirectsInstallTarget passes the bundle subpath via the env override.
func TestRun_RedirectsInstallTarget(t *testing.T) {
	t.Parallel()

	engineDir := filepath.Join(t.TempDir(), "ms-playwright")
	runner := &installingRunner{populate: filepath.Join(engineDir, "chromium-1234", "chrome")}

	opts := &Options{
		VenvPython: "python3",
		Engine:     "chromium",
		EngineDir:  engineDir,
		Runner:     runner,
	}

	require.NoError(t, Run(context.Background(), opts))
	require.Len(t, runner.commands, 1)
	require.Contains(t, runner.commands[0].Env, browsersPathEnv+"="+engineDir)
}

// TestRun_EmptyTargetIsFatal treats a missing or empty engine directory as failure.
func TestRun_EmptyTargetIsFatal(t *testing.T) {
	t.Parallel()

	// Missing directory.
	opts := &Options{
		VenvPython: "python3",
		Engine:     "chromium",
		EngineDir:  filepath.Join(t.TempDir(), "ms-playwright"),
		Runner:     &installingRunner{},
	}

	err := Run(context.Background(), opts)
	require.ErrorIs(t, err, errEngineMissing)

	// Present but empty directory.
	empty := filepath.Join(t.TempDir(), "ms-playwright")
	require.NoError(t, os.MkdirAll(empty, 0o755))

	opts.EngineDir = empty

	err = Run(context.Background(), opts)
	require.ErrorIs(t, err, errEngineMissing)
}
