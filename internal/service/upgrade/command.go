package upgrade

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"

	goupdate "github.com/doitdistributed/go-update"
	"gopkg.in/yaml.v3"

	"github.com/auto-browser/forge/internal/logger"
	"github.com/auto-browser/forge/internal/version"
)

// Options contains inputs for the self-upgrade.
type Options struct {
	// UpdateURL is the folder serving the release manifest and binaries.
	UpdateURL string
}

var (
	errAlreadyRunning = errors.New("an upgrade is already running")
	errNoUpdateURL    = errors.New("no update URL configured")
	errNoChecksum     = errors.New("checksum missing for artifact")
	errBadHTTPStatus  = errors.New("unexpected http status")
)

// runner holds the mutable state for a single upgrade execution.
type runner struct {
	updateURL   string
	description *Description
}

// Run fetches the release manifest and applies a newer binary if one exists.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "upgrade")

	if opts.UpdateURL == "" {
		return errNoUpdateURL
	}

	if IsUpgradeRunningNow(ctx) {
		return errAlreadyRunning
	}

	marker, err := os.Create(MarkerFilename)
	if err != nil {
		return fmt.Errorf("create upgrade marker: %w", err)
	}

	if err = marker.Close(); err != nil {
		return fmt.Errorf("close upgrade marker: %w", err)
	}

	defer func() {
		_ = os.Remove(MarkerFilename)
	}()

	u := &runner{updateURL: opts.UpdateURL}

	if err = u.fetchDescription(ctx); err != nil {
		return fmt.Errorf("fetch release manifest: %w", err)
	}

	if !needsUpgrade(version.Short(), u.description.VersionNumber) {
		logger.InfoKV(ctx, "Already up to date", "version", version.Short())
		return nil
	}

	logger.InfoKV(ctx, "Upgrading",
		"from", version.Short(), "to", u.description.VersionNumber)

	if err = u.applyBinary(ctx); err != nil {
		return fmt.Errorf("apply new binary: %w", err)
	}

	logger.InfoKV(ctx, "Upgrade complete", "version", u.description.VersionNumber)

	return nil
}

// needsUpgrade reports whether the remote release differs from the local build.
// Any difference counts: a republished release with the same number is not
// distinguishable and is treated as current.
func needsUpgrade(local, remote string) bool {
	return remote != "" && local != remote
}

// fetchDescription downloads and parses the release manifest.
func (u *runner) fetchDescription(ctx context.Context) error {
	body, err := u.fetchFile(ctx, ManifestFilename)
	if err != nil {
		return err
	}

	var desc Description
	if err = yaml.Unmarshal(body, &desc); err != nil {
		return err
	}

	u.description = &desc

	return nil
}

// fetchFile retrieves one artifact from the update folder.
func (u *runner) fetchFile(ctx context.Context, fileName string) ([]byte, error) {
	serverURL, err := url.Parse(u.updateURL)
	if err != nil {
		return nil, err
	}

	// path.Join normalizes duplicate slashes when composing the URL path.
	serverURL.Path = path.Join(serverURL.Path, fileName)
	finalURL := serverURL.String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, finalURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	response, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s, %s: %w", finalURL, response.Status, errBadHTTPStatus)
	}

	return io.ReadAll(response.Body)
}

// applyBinary downloads the release binary, verifies it and replaces the
// running executable in place.
func (u *runner) applyBinary(ctx context.Context) error {
	artifact := Executable()

	checksumBase64, ok := u.description.Files[artifact]
	if !ok {
		return fmt.Errorf("%s: %w", artifact, errNoChecksum)
	}

	checksum, err := base64.StdEncoding.DecodeString(checksumBase64)
	if err != nil {
		return fmt.Errorf("decode checksum: %w", err)
	}

	data, err := u.fetchFile(ctx, artifact)
	if err != nil {
		return err
	}

	target, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate running executable: %w", err)
	}

	logger.InfoKV(ctx, "Applying binary", "target", target)

	options := goupdate.Options{
		TargetPath: target,
		TargetMode: DefaultFileMode,
		Checksum:   checksum,
		Hash:       DefaultChecksumFunction,
	}

	if err = goupdate.Apply(bytes.NewReader(data), options); err != nil {
		return err
	}

	return nil
}
