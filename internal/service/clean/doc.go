// Package clean removes build artifacts. Removal is best-effort throughout:
// the clean step is the manual recovery mechanism for a broken build and must
// never itself abort on a file it cannot delete.
package clean
