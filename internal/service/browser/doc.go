// Package browser installs the headless browser engine into the frozen
// bundle by redirecting the installer's target directory, so the packaged
// backend never depends on a system-wide browser cache.
package browser
