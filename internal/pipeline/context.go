package pipeline

import (
	"path/filepath"
	"runtime"

	"github.com/auto-browser/forge/internal/config"
	"github.com/auto-browser/forge/internal/repository/receipt"
)

// Context carries the resolved artifact paths threaded through the stages.
// Each path has exactly one producer stage; consumers treat it as read-only.
type Context struct {
	// RootDir is the repository root the build runs from.
	RootDir string
	// Version is the application version detected before the build started.
	Version string
	// VenvDir is the isolated runtime environment produced by the stager.
	VenvDir string
	// VenvPython is the interpreter inside the isolated environment.
	VenvPython string
	// RequirementsFile is the pinned production dependency manifest.
	RequirementsFile string
	// FrozenBundleDir is the self-contained directory emitted by the freezer.
	FrozenBundleDir string
	// BrowserEngineDir receives the headless browser engine inside the bundle.
	BrowserEngineDir string
	// AppBundlePath is the native application bundle built by the shell packager.
	AppBundlePath string
	// DMGPath is the distributable disk image produced by the assembler.
	DMGPath string
	// ReceiptPath records the outcome of the last successful build.
	ReceiptPath string
}

// NewContext derives every artifact path from the configuration and the
// repository root. Version must already be detected by the caller.
func NewContext(cfg *config.Config, rootDir, appVersion string) *Context {
	venvDir := filepath.Join(rootDir, cfg.VenvDir)
	distDir := filepath.Join(rootDir, "dist")
	frozen := filepath.Join(distDir, cfg.DistName)

	return &Context{
		RootDir:          rootDir,
		Version:          appVersion,
		VenvDir:          venvDir,
		VenvPython:       venvPython(venvDir),
		RequirementsFile: filepath.Join(rootDir, cfg.RequirementsFile),
		FrozenBundleDir:  frozen,
		BrowserEngineDir: filepath.Join(frozen, cfg.BrowserSubdir),
		AppBundlePath: filepath.Join(
			rootDir, cfg.TauriDir, "target", "release", "bundle", "macos", cfg.AppName+".app",
		),
		DMGPath:     filepath.Join(distDir, cfg.AppName+"-"+appVersion+".dmg"),
		ReceiptPath: filepath.Join(distDir, receipt.Filename),
	}
}

// venvPython returns the interpreter path inside an isolated environment.
func venvPython(venvDir string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(venvDir, "Scripts", "python.exe")
	}

	return filepath.Join(venvDir, "bin", "python3")
}
