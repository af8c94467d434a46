// Package validate performs the preflight checks that must pass before any
// destructive build step runs: the interpreter version floor and the presence
// of the required build tools on PATH.
package validate
