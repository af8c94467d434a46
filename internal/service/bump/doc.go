// Package bump keeps the independent version declarations of the repository
// in sync: the package manifest, the shell configuration, the native project
// manifest and the backend package metadata.
//
// The rewrite is a literal substitution keyed on the detected current
// version. A tracked file that does not contain that exact string is left
// unchanged without notice; the build receipt is the only record of which
// files were actually rewritten.
package bump
