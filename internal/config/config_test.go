package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields, defaulting and range validations.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Nil config.
	err := Validate(nil)
	require.Error(t, err)

	// Empty config is valid after defaulting.
	cfg := new(Config)

	err = Validate(cfg)
	require.NoError(t, err)
	require.Equal(t, "Auto Browser", cfg.AppName)
	require.Equal(t, DefaultServerPort, cfg.ServerPort)
	require.NotEmpty(t, cfg.VersionFiles)

	// Out-of-range port.
	cfg = &Config{ServerPort: 70000}

	err = Validate(cfg)
	require.Error(t, err)
}

// TestLoad_MissingDefaultFile returns stock defaults in a fresh repository.
func TestLoad_MissingDefaultFile(t *testing.T) {
	oldWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(oldWD) })

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "Auto Browser", cfg.AppName)
}

// TestLoad_MissingExplicitFile fails when the operator names a file that is absent.
func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := &Config{
		AppName:    "Test App",
		ServerPort: 6001,
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.AppName, loaded.AppName)
	require.Equal(t, cfg.ServerPort, loaded.ServerPort)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)
}
