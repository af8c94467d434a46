package status

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/auto-browser/forge/internal/logger"
	"github.com/auto-browser/forge/internal/repository/receipt"
)

// Options contains inputs for the status report.
type Options struct {
	// ReceiptPath is the location of the build receipt file.
	ReceiptPath string
	// Out receives the report.
	Out io.Writer
}

// Run prints a summary of the last successful build.
// A missing receipt means no build has completed yet; that is a normal
// condition reported on exit code zero, not an error.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "status")

	repo := receipt.NewFileRepository(opts.ReceiptPath)

	rec, err := repo.Load(ctx)
	if err != nil {
		if errors.Is(err, receipt.ErrNotFound) {
			fmt.Fprintln(opts.Out, "No build recorded yet: run the build first")
			return nil
		}

		return fmt.Errorf("load build receipt: %w", err)
	}

	fmt.Fprintf(opts.Out, "Last build: version %s, completed %s\n",
		rec.Version, rec.CompletedAt.Local().Format("2006-01-02 15:04:05"))

	for _, stage := range rec.Stages {
		fmt.Fprintf(opts.Out, "  %-30s %s\n", stage.Name, stage.Duration)
	}

	if len(rec.Artifacts) == 0 {
		return nil
	}

	fmt.Fprintln(opts.Out, "Artifacts:")

	paths := make([]string, 0, len(rec.Artifacts))
	for path := range rec.Artifacts {
		paths = append(paths, path)
	}

	sort.Strings(paths)

	for _, path := range paths {
		fmt.Fprintf(opts.Out, "  %s (sha-512 %s)\n", path, rec.Artifacts[path])
	}

	return nil
}
