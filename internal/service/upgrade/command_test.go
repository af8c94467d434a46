package upgrade

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// TestNeedsUpgrade compares local and remote release versions.
func TestNeedsUpgrade(t *testing.T) {
	t.Parallel()

	require.True(t, needsUpgrade("0.1.1", "0.1.2"))
	require.True(t, needsUpgrade("", "0.1.2"))
	require.False(t, needsUpgrade("0.1.2", "0.1.2"))
	require.False(t, needsUpgrade("0.1.2", ""))
}

// TestDescription_Roundtrip parses the manifest shape the packaging publishes.
func TestDescription_Roundtrip(t *testing.T) {
	t.Parallel()

	desc := NewDescription()
	desc.VersionNumber = "0.2.0"
	desc.Files[Executable()] = base64.StdEncoding.EncodeToString([]byte("checksum"))

	data, err := yaml.Marshal(desc)
	require.NoError(t, err)

	var got Description

	require.NoError(t, yaml.Unmarshal(data, &got))
	require.Equal(t, "0.2.0", got.VersionNumber)
	require.Contains(t, got.Files, Executable())
}

// TestFileChecksum is stable for identical content and differs otherwise.
func TestFileChecksum(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := filepath.Join(dir, "a.bin")
	b := filepath.Join(dir, "b.bin")

	require.NoError(t, os.WriteFile(a, []byte("same"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("same"), 0o644))

	first, err := FileChecksum(a)
	require.NoError(t, err)

	second, err := FileChecksum(b)
	require.NoError(t, err)
	require.Equal(t, first, second)

	require.NoError(t, os.WriteFile(b, []byte("different"), 0o644))

	third, err := FileChecksum(b)
	require.NoError(t, err)
	require.NotEqual(t, first, third)
}
