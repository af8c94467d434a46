// Package receipt implements persistence for the build receipt.
//
// The FileRepository stores and loads the receipt as JSON on disk and exposes
// a Repository interface the build orchestrator depends on. The receipt
// records what the last successful build produced: version, stage timings and
// artifact checksums.
package receipt
