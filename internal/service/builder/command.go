package builder

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/auto-browser/forge/internal/config"
	"github.com/auto-browser/forge/internal/execx"
	"github.com/auto-browser/forge/internal/logger"
	"github.com/auto-browser/forge/internal/pipeline"
	"github.com/auto-browser/forge/internal/repository/receipt"
	"github.com/auto-browser/forge/internal/service/browser"
	"github.com/auto-browser/forge/internal/service/bump"
	"github.com/auto-browser/forge/internal/service/dmg"
	"github.com/auto-browser/forge/internal/service/freezer"
	"github.com/auto-browser/forge/internal/service/shell"
	"github.com/auto-browser/forge/internal/service/stager"
	"github.com/auto-browser/forge/internal/service/upgrade"
	"github.com/auto-browser/forge/internal/service/validate"
)

// Options contains inputs for the build orchestrator.
type Options struct {
	// ConfigPath is an optional path to the build settings YAML.
	ConfigPath string
	// RootDir is the repository root; empty means the current directory.
	RootDir string
	// AppOnly stops after the native application bundle.
	AppOnly bool
	// DMGOnly skips straight to disk image assembly from an existing bundle.
	DMGOnly bool
	// BundleDMG asks the shell tool to produce the disk image itself instead
	// of the hdiutil assembler.
	BundleDMG bool
	// Runner executes external build tools; nil means the real system runner.
	Runner execx.Runner
}

// Run executes the selected build mode.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "build")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	rootDir := opts.RootDir
	if rootDir == "" {
		if rootDir, err = os.Getwd(); err != nil {
			return fmt.Errorf("resolve working directory: %w", err)
		}
	}

	if opts.Runner == nil {
		opts.Runner = execx.Default()
	}

	appVersion, err := bump.CurrentVersion(filepath.Join(rootDir, cfg.VersionSource))
	if err != nil {
		return fmt.Errorf("detect application version: %w", err)
	}

	bctx := pipeline.NewContext(cfg, rootDir, appVersion)

	logger.InfoKV(ctx, "Starting build",
		"app", cfg.AppName, "version", appVersion, "root", rootDir)

	results, err := pipeline.Run(ctx, stages(cfg, bctx, opts))
	if err != nil {
		return err
	}

	if err = writeReceipt(ctx, bctx, results); err != nil {
		return fmt.Errorf("write build receipt: %w", err)
	}

	logger.InfoKV(ctx, "Build finished", "version", appVersion)

	return nil
}

// stages assembles the stage sequence for the requested mode.
func stages(cfg *config.Config, bctx *pipeline.Context, opts *Options) []pipeline.Stage {
	if opts.DMGOnly {
		return []pipeline.Stage{dmgStage(cfg, bctx, opts)}
	}

	all := []pipeline.Stage{
		{Name: "validate environment", Run: func(ctx context.Context) error {
			return validate.Run(ctx, &validate.Options{Config: cfg, Runner: opts.Runner})
		}},
		{Name: "stage dependencies", Run: func(ctx context.Context) error {
			return stager.Run(ctx, &stager.Options{
				PythonExecutable: cfg.PythonExecutable,
				VenvDir:          bctx.VenvDir,
				VenvPython:       bctx.VenvPython,
				RequirementsFile: bctx.RequirementsFile,
				Runner:           opts.Runner,
			})
		}},
		{Name: "freeze backend bundle", Run: func(ctx context.Context) error {
			return freezer.Run(ctx, &freezer.Options{
				Config:          cfg,
				RootDir:         bctx.RootDir,
				VenvPython:      bctx.VenvPython,
				FrozenBundleDir: bctx.FrozenBundleDir,
				Runner:          opts.Runner,
			})
		}},
		{Name: "provision browser engine", Run: func(ctx context.Context) error {
			return browser.Run(ctx, &browser.Options{
				VenvPython: bctx.VenvPython,
				Engine:     cfg.BrowserEngine,
				EngineDir:  bctx.BrowserEngineDir,
				Runner:     opts.Runner,
			})
		}},
		{Name: "build native shell", Run: func(ctx context.Context) error {
			return shell.Run(ctx, &shell.Options{
				RootDir:         bctx.RootDir,
				FrozenBundleDir: bctx.FrozenBundleDir,
				AppBundlePath:   bctx.AppBundlePath,
				BundleDMG:       opts.BundleDMG,
				Runner:          opts.Runner,
			})
		}},
	}

	// The combined app+dmg pass already produced the image.
	if opts.AppOnly || opts.BundleDMG {
		return all
	}

	return append(all, dmgStage(cfg, bctx, opts))
}

// dmgStage wraps the disk image assembler as a pipeline stage.
func dmgStage(cfg *config.Config, bctx *pipeline.Context, opts *Options) pipeline.Stage {
	return pipeline.Stage{Name: "assemble disk image", Run: func(ctx context.Context) error {
		return dmg.Run(ctx, &dmg.Options{
			AppName:       cfg.AppName,
			AppBundlePath: bctx.AppBundlePath,
			OutputPath:    bctx.DMGPath,
			Runner:        opts.Runner,
		})
	}}
}

// writeReceipt persists what the build produced, including artifact checksums
// for the outputs that exist in this mode.
func writeReceipt(ctx context.Context, bctx *pipeline.Context, results []pipeline.StageResult) error {
	rec := &receipt.Receipt{
		Version:     bctx.Version,
		CompletedAt: time.Now().UTC(),
		Stages:      make([]receipt.StageRecord, 0, len(results)),
		Artifacts:   artifactChecksums(ctx, bctx),
	}

	for _, res := range results {
		rec.Stages = append(rec.Stages, receipt.StageRecord{
			Name:       res.Name,
			Duration:   res.Duration.Round(time.Millisecond).String(),
			FinishedAt: res.FinishedAt,
		})
	}

	repo := receipt.NewFileRepository(bctx.ReceiptPath)

	return repo.Save(ctx, rec)
}

// artifactChecksums hashes the single-file artifacts that exist.
// Directory artifacts (bundle, .app) are recorded by path only.
func artifactChecksums(ctx context.Context, bctx *pipeline.Context) map[string]string {
	checksums := make(map[string]string)

	for _, artifact := range []string{bctx.DMGPath} {
		info, err := os.Stat(artifact)
		if err != nil || info.IsDir() {
			continue
		}

		sum, err := checksumBase64(artifact)
		if err != nil {
			logger.WarnKV(ctx, "Could not checksum artifact", "path", artifact, "error", err)
			continue
		}

		checksums[artifact] = sum
	}

	return checksums
}

// checksumBase64 hashes a file with the release checksum function.
func checksumBase64(path string) (string, error) {
	sum, err := upgrade.FileChecksum(path)
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(sum), nil
}
