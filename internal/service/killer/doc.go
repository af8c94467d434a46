// Package killer force-terminates whatever holds the backend port, then
// re-verifies the port is actually free. Incomplete termination is reported
// as a warning rather than a failure.
package killer
