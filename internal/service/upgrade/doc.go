// Package upgrade replaces the running ab-forge binary with the release
// published at the configured update folder.
//
// A release is described by a small YAML manifest holding the version and
// base64-encoded SHA-512 checksums per artifact. The downloaded binary is
// applied atomically only after its checksum matches the manifest.
package upgrade
