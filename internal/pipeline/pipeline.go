package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/auto-browser/forge/internal/logger"
)

// Stage is one fallible step of the build.
type Stage struct {
	// Name identifies the stage in logs and failure messages.
	Name string
	// Run performs the stage's work. A non-nil error aborts the pipeline.
	Run func(ctx context.Context) error
}

// StageResult records a completed stage for the build receipt.
type StageResult struct {
	// Name is the stage name.
	Name string
	// Duration is how long the stage ran.
	Duration time.Duration
	// FinishedAt is when the stage completed.
	FinishedAt time.Time
}

// Run executes the stages strictly in order, aborting on the first failure.
// Results for the stages that completed are returned even on failure so the
// caller can report how far the build got.
func Run(ctx context.Context, stages []Stage) ([]StageResult, error) {
	results := make([]StageResult, 0, len(stages))

	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("stage %s: %w", stage.Name, err)
		}

		logger.InfoKV(ctx, "Running stage", "stage", stage.Name)

		start := time.Now()

		if err := stage.Run(ctx); err != nil {
			return results, fmt.Errorf("stage %s: %w", stage.Name, err)
		}

		elapsed := time.Since(start)
		results = append(results, StageResult{
			Name:       stage.Name,
			Duration:   elapsed,
			FinishedAt: time.Now().UTC(),
		})

		logger.InfoKV(ctx, "Stage completed", "stage", stage.Name, "duration", elapsed.Round(time.Millisecond).String())
	}

	return results, nil
}
