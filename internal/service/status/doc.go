// Package status reports the outcome of the last successful build
// from the persisted build receipt.
package status
