// Package logs locates and displays the newest backend log file from the
// per-user log directory, either one-shot or in follow mode.
package logs
