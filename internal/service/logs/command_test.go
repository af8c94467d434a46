package logs

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// safeBuffer is a bytes.Buffer safe for concurrent writer and reader.
type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *safeBuffer) Contains(s string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return strings.Contains(b.buf.String(), s)
}

// TestRun_MissingDirIsNotAnError treats an absent log dir as "not yet run".
func TestRun_MissingDirIsNotAnError(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	opts := &Options{
		LogDir: filepath.Join(t.TempDir(), "Logs", "BrowserAutomation"),
		Out:    &out,
	}

	require.NoError(t, Run(context.Background(), opts))
	require.Contains(t, out.String(), "has not run")
}

// TestRun_EmptyDirIsNotAnError behaves the same when the dir exists but is empty.
func TestRun_EmptyDirIsNotAnError(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	opts := &Options{
		LogDir: t.TempDir(),
		Out:    &out,
	}

	require.NoError(t, Run(context.Background(), opts))
	require.Contains(t, out.String(), "has not run")
}

// TestRun_ShowsNewestFile picks the most recently modified log.
func TestRun_ShowsNewestFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	older := filepath.Join(dir, "session-1.log")
	newer := filepath.Join(dir, "session-2.log")

	require.NoError(t, os.WriteFile(older, []byte("old content\n"), 0o644))
	require.NoError(t, os.WriteFile(newer, []byte("new content\n"), 0o644))

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))

	var out bytes.Buffer

	opts := &Options{LogDir: dir, Out: &out}

	require.NoError(t, Run(context.Background(), opts))
	require.Equal(t, "new content\n", out.String())
}

// TestRun_FollowStopsOnCancel streams appended content until the context ends.
func TestRun_FollowStopsOnCancel(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "session.log")
	require.NoError(t, os.WriteFile(path, []byte("first\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())

	var out safeBuffer

	done := make(chan error, 1)

	go func() {
		done <- Run(ctx, &Options{LogDir: dir, Follow: true, Out: &out})
	}()

	// Append after the initial dump and give the poll loop a chance to see it.
	require.Eventually(t, func() bool {
		return out.Contains("first")
	}, 2*time.Second, 20*time.Millisecond)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("second\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.Eventually(t, func() bool {
		return out.Contains("second")
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
