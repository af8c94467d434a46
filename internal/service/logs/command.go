package logs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/auto-browser/forge/internal/logger"
)

// Options contains inputs for the log viewer.
type Options struct {
	// LogDir is the per-user directory the packaged backend writes logs to.
	LogDir string
	// Follow keeps printing as the file grows instead of exiting after one dump.
	Follow bool
	// Out receives the log content.
	Out io.Writer
}

// followInterval is how often the follow loop polls the file for growth.
const followInterval = 500 * time.Millisecond

var errNoLogFiles = errors.New("no log files found")

// Run prints the most recently modified log file.
// A missing log directory means the application has simply not run yet;
// that is a normal condition reported on exit code zero, not an error.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "logs")

	if _, err := os.Stat(opts.LogDir); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(opts.Out, "No logs yet: the application has not run (looked in %s)\n", opts.LogDir)
		return nil
	}

	newest, err := newestLogFile(opts.LogDir)
	if err != nil {
		if errors.Is(err, errNoLogFiles) {
			fmt.Fprintf(opts.Out, "No logs yet: the application has not run (looked in %s)\n", opts.LogDir)
			return nil
		}

		return err
	}

	logger.InfoKV(ctx, "Showing log file", "path", newest)

	if opts.Follow {
		return followFile(ctx, newest, opts.Out)
	}

	return dumpFile(newest, opts.Out)
}

// newestLogFile returns the most recently modified regular file in dir.
func newestLogFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read log directory: %w", err)
	}

	var (
		newest     string
		newestTime time.Time
	)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if newest == "" || info.ModTime().After(newestTime) {
			newest = filepath.Join(dir, entry.Name())
			newestTime = info.ModTime()
		}
	}

	if newest == "" {
		return "", errNoLogFiles
	}

	return newest, nil
}

// dumpFile copies the whole file to out.
func dumpFile(path string, out io.Writer) error {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	defer func() {
		_ = f.Close()
	}()

	if _, err = io.Copy(out, f); err != nil {
		return fmt.Errorf("read log file: %w", err)
	}

	return nil
}

// followFile dumps the file, then keeps copying appended content until the
// context is canceled.
func followFile(ctx context.Context, path string, out io.Writer) error {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	defer func() {
		_ = f.Close()
	}()

	if _, err = io.Copy(out, f); err != nil {
		return fmt.Errorf("read log file: %w", err)
	}

	ticker := time.NewTicker(followInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			// io.Copy resumes from the current offset; new bytes only.
			if _, err = io.Copy(out, f); err != nil {
				return fmt.Errorf("read log file: %w", err)
			}
		}
	}
}
