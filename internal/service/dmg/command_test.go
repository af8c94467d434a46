package dmg

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/auto-browser/forge/internal/execx"
)

// imagingRunner simulates cp and hdiutil, recording staging locations.
type imagingRunner struct {
	commands   []execx.Command
	stagingDir string
	failTool   string
	imagePath  string
}

func (r *imagingRunner) Run(_ context.Context, cmd execx.Command) error {
	r.commands = append(r.commands, cmd)

	switch cmd.Name {
	case "cp":
		// Last argument is the staging directory.
		r.stagingDir = cmd.Args[len(cmd.Args)-1]
	case "hdiutil":
		if r.failTool != "hdiutil" && r.imagePath != "" {
			_ = os.WriteFile(r.imagePath, []byte("dmg"), 0o644)
		}
	}

	if cmd.Name == r.failTool {
		return os.ErrInvalid
	}

	return nil
}

func (r *imagingRunner) Output(_ context.Context, cmd execx.Command) (string, error) {
	r.commands = append(r.commands, cmd)
	return "", nil
}

// appBundle creates a placeholder application bundle for tests.
func appBundle(t *testing.T) string {
	t.Helper()

	app := filepath.Join(t.TempDir(), "Auto Browser.app")
	require.NoError(t, os.MkdirAll(filepath.Join(app, "Contents"), 0o755))

	return app
}

// TestRun_MissingAppBundle reports the remediation to run the app build first.
func TestRun_MissingAppBundle(t *testing.T) {
	t.Parallel()

	opts := &Options{
		AppName:       "Auto Browser",
		AppBundlePath: filepath.Join(t.TempDir(), "Auto Browser.app"),
		OutputPath:    filepath.Join(t.TempDir(), "out.dmg"),
		Runner:        new(imagingRunner),
	}

	err := Run(context.Background(), opts)
	require.ErrorIs(t, err, errAppBundleMissing)
	require.ErrorContains(t, err, "run the app build first")
}

// TestRun_Success creates the image and removes the staging directory.
func TestRun_Success(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "dist", "Auto Browser-0.1.1.dmg")
	runner := &imagingRunner{imagePath: out}

	opts := &Options{
		AppName:       "Auto Browser",
		AppBundlePath: appBundle(t),
		OutputPath:    out,
		Runner:        runner,
	}

	require.NoError(t, Run(context.Background(), opts))
	require.FileExists(t, out)

	// Staging directory is gone on the success path too.
	require.NotEmpty(t, runner.stagingDir)
	require.NoDirExists(t, runner.stagingDir)

	// hdiutil received the compressed read-only format.
	last := runner.commands[len(runner.commands)-1]
	require.Equal(t, "hdiutil", last.Name)
	require.Contains(t, strings.Join(last.Args, " "), "-format UDZO")
}

// TestRun_StagingRemovedOnImageFailure never leaves the staging directory behind.
func TestRun_StagingRemovedOnImageFailure(t *testing.T) {
	t.Parallel()

	runner := &imagingRunner{failTool: "hdiutil"}

	opts := &Options{
		AppName:       "Auto Browser",
		AppBundlePath: appBundle(t),
		OutputPath:    filepath.Join(t.TempDir(), "out.dmg"),
		Runner:        runner,
	}

	err := Run(context.Background(), opts)
	require.Error(t, err)

	require.NotEmpty(t, runner.stagingDir)
	require.NoDirExists(t, runner.stagingDir)
}

// TestRun_OverwritesExistingImage replaces an image left by a previous run.
func TestRun_OverwritesExistingImage(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "Auto Browser-0.1.1.dmg")
	require.NoError(t, os.WriteFile(out, []byte("stale"), 0o644))

	runner := &imagingRunner{imagePath: out}

	opts := &Options{
		AppName:       "Auto Browser",
		AppBundlePath: appBundle(t),
		OutputPath:    out,
		Runner:        runner,
	}

	require.NoError(t, Run(context.Background(), opts))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "dmg", string(data))
}
