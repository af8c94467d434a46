// Package freezer turns the backend entry point into a self-contained
// executable directory.
//
// The freeze uses directory output mode rather than a single self-extracting
// file: directory mode avoids extraction latency at startup and gives the
// browser engine provisioner a stable subpath to install into. Collect-all
// and hidden-import lists come from configuration and compensate for dynamic
// imports that static analysis cannot discover.
package freezer
