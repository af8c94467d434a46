// Package pipeline models the build as a finite sequence of fallible stages
// composed with short-circuit failure propagation.
//
// The Context carries every artifact path as an explicit field, so stages
// never communicate through path conventions; a stage receives the paths it
// consumes and produces from the same struct the composer assembled.
package pipeline
