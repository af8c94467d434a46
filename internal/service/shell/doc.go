// Package shell compiles the native desktop wrapper and embeds the frozen
// backend bundle, producing the platform application bundle. The underlying
// tool can optionally emit the disk image in the same pass.
package shell
