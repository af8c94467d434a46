package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/auto-browser/forge/internal/config"
)

// TestRun_Order executes stages strictly in sequence.
func TestRun_Order(t *testing.T) {
	t.Parallel()

	var order []string

	record := func(name string) Stage {
		return Stage{Name: name, Run: func(context.Context) error {
			order = append(order, name)
			return nil
		}}
	}

	results, err := Run(context.Background(), []Stage{record("a"), record("b"), record("c")})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, order)
	require.Len(t, results, 3)
}

// TestRun_AbortsOnFirstFailure stops before later stages run.
func TestRun_AbortsOnFirstFailure(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	ran := false

	stages := []Stage{
		{Name: "ok", Run: func(context.Context) error { return nil }},
		{Name: "fails", Run: func(context.Context) error { return errBoom }},
		{Name: "never", Run: func(context.Context) error {
			ran = true
			return nil
		}},
	}

	results, err := Run(context.Background(), stages)
	require.ErrorIs(t, err, errBoom)
	require.ErrorContains(t, err, "stage fails")
	require.False(t, ran)
	require.Len(t, results, 1)
}

// TestRun_CanceledContext refuses to start the next stage.
func TestRun_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, []Stage{{Name: "a", Run: func(context.Context) error { return nil }}})
	require.ErrorIs(t, err, context.Canceled)
}

// TestNewContext derives all artifact paths from configuration and root.
func TestNewContext(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	bctx := NewContext(cfg, "/repo", "0.1.1")

	require.Equal(t, filepath.Join("/repo", "bundle-venv"), bctx.VenvDir)
	require.Equal(t, filepath.Join("/repo", "dist", "auto-browser-backend"), bctx.FrozenBundleDir)
	require.Equal(t, filepath.Join(bctx.FrozenBundleDir, "ms-playwright"), bctx.BrowserEngineDir)
	require.Contains(t, bctx.AppBundlePath, "Auto Browser.app")
	require.Equal(t, filepath.Join("/repo", "dist", "Auto Browser-0.1.1.dmg"), bctx.DMGPath)
}
