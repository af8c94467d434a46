// Package builder composes the pipeline stages into the three build modes:
// full (through the disk image), app-only, and dmg-only. After a successful
// build it writes the build receipt.
package builder
