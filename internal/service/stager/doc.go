// Package stager provisions the isolated runtime environment: it destroys any
// previous environment, creates a fresh one, and installs only the pinned
// production dependency manifest into it.
package stager
