package receipt

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestFileRepository_NotFound verifies Load returns ErrNotFound for missing file.
func TestFileRepository_NotFound(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(filepath.Join(t.TempDir(), "missing.json"))

	r, err := repo.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
	require.Nil(t, r)
}

// TestFileRepository_SaveLoad_Roundtrip ensures Save followed by Load returns an equal receipt.
func TestFileRepository_SaveLoad_Roundtrip(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "dist", "build-receipt.json")
	repo := NewFileRepository(file)

	now := time.Now().UTC().Truncate(time.Second)
	want := &Receipt{
		Version:     "0.1.1",
		CompletedAt: now,
		Stages: []StageRecord{
			{Name: "freeze backend bundle", Duration: "1m12s", FinishedAt: now},
		},
		Artifacts: map[string]string{
			"dist/Auto Browser-0.1.1.dmg": "c2hhNTEy",
		},
	}

	require.NoError(t, repo.Save(context.Background(), want))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, want.Version, got.Version)
	require.Equal(t, want.CompletedAt.Unix(), got.CompletedAt.Unix())
	require.Equal(t, want.Stages[0].Name, got.Stages[0].Name)
	require.Equal(t, want.Artifacts, got.Artifacts)
}
