package bump

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/auto-browser/forge/internal/config"
	"github.com/auto-browser/forge/internal/execx"
	"github.com/auto-browser/forge/internal/logger"
)

// Options contains inputs for the version bump.
type Options struct {
	// Config supplies the tracked files, version source and lock command.
	Config *config.Config
	// RootDir is the repository root holding the tracked files.
	RootDir string
	// NewVersion is the target semantic version.
	NewVersion string
	// In supplies the interactive confirmation answer.
	In io.Reader
	// Out receives the confirmation prompt.
	Out io.Writer
	// Runner regenerates the dependency lock file.
	Runner execx.Runner
}

var (
	errInvalidVersion = errors.New("version must be of the form MAJOR.MINOR.PATCH")
	errSameVersion    = errors.New("new version equals the current version")

	// semverPattern accepts plain three-component versions only.
	semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
)

// Run rewrites every tracked version declaration after interactive confirmation.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "bump")

	if !semverPattern.MatchString(opts.NewVersion) {
		return fmt.Errorf("%w: %q", errInvalidVersion, opts.NewVersion)
	}

	current, err := CurrentVersion(filepath.Join(opts.RootDir, opts.Config.VersionSource))
	if err != nil {
		return fmt.Errorf("detect current version: %w", err)
	}

	if current == opts.NewVersion {
		return fmt.Errorf("%w: %s", errSameVersion, current)
	}

	confirmed, err := confirm(opts.In, opts.Out, current, opts.NewVersion, len(opts.Config.VersionFiles))
	if err != nil {
		return err
	}

	if !confirmed {
		logger.Info(ctx, "Version bump aborted, nothing was changed")
		return nil
	}

	for _, rel := range opts.Config.VersionFiles {
		path := filepath.Join(opts.RootDir, rel)

		changed, err := rewriteVersion(path, current, opts.NewVersion)
		if err != nil {
			return fmt.Errorf("rewrite %s: %w", rel, err)
		}

		if changed {
			logger.InfoKV(ctx, "Updated version declaration", "file", rel)
		}
	}

	logger.InfoKV(ctx, "Regenerating dependency lock file",
		"command", strings.Join(opts.Config.LockCommand, " "))

	if err := opts.Runner.Run(ctx, execx.Command{
		Name: opts.Config.LockCommand[0],
		Args: opts.Config.LockCommand[1:],
		Dir:  opts.RootDir,
	}); err != nil {
		return fmt.Errorf("regenerate lock file: %w", err)
	}

	logger.InfoKV(ctx, "Version bump complete", "from", current, "to", opts.NewVersion)

	return nil
}

// CurrentVersion reads the version field of the authoritative package manifest.
func CurrentVersion(manifestPath string) (string, error) {
	contents, err := os.ReadFile(filepath.Clean(manifestPath))
	if err != nil {
		return "", fmt.Errorf("read package manifest: %w", err)
	}

	var manifest struct {
		Version string `json:"version"`
	}

	if err := json.Unmarshal(contents, &manifest); err != nil {
		return "", fmt.Errorf("decode package manifest: %w", err)
	}

	if manifest.Version == "" {
		return "", fmt.Errorf("%w: manifest has no version field", errInvalidVersion)
	}

	return manifest.Version, nil
}

// confirm asks the operator before any file is mutated.
func confirm(in io.Reader, out io.Writer, current, next string, fileCount int) (bool, error) {
	fmt.Fprintf(out, "Bump version %s -> %s across %d files? [y/N]: ", current, next, fileCount)

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read confirmation: %w", err)
	}

	answer = strings.ToLower(strings.TrimSpace(answer))

	return answer == "y" || answer == "yes", nil
}

// rewriteVersion substitutes the current version literally.
// A file without the exact current string is left untouched.
func rewriteVersion(path, current, next string) (bool, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return false, err
	}

	replaced := strings.ReplaceAll(string(contents), current, next)
	if replaced == string(contents) {
		return false, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	if err := os.WriteFile(path, []byte(replaced), info.Mode().Perm()); err != nil {
		return false, err
	}

	return true, nil
}
