// Package config defines the build settings consumed by every pipeline stage
// and provides helpers to load, validate and save them in YAML format.
//
// Settings cover the application identity, the isolated runtime environment,
// the freeze allow/deny lists, and the artifacts tracked by the version bump.
// Every field has a working default, so a repository without an ab-forge.yaml
// builds out of the box.
package config
