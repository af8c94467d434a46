package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the build settings shared by all pipeline stages.
type Config struct {
	// AppName is the product name used for the application bundle and disk image.
	AppName string `yaml:"app_name"`
	// ServerPort is the TCP port the bundled backend listens on.
	ServerPort int `yaml:"server_port"`
	// PythonExecutable is the interpreter used to create the isolated environment.
	PythonExecutable string `yaml:"python_executable"`
	// MinPythonVersion is the lowest interpreter version accepted by the validator.
	MinPythonVersion string `yaml:"min_python_version"`
	// RequiredTools are build tools that must be resolvable on PATH.
	RequiredTools []string `yaml:"required_tools"`
	// VenvDir is the isolated runtime environment directory, destroyed and
	// recreated on every build.
	VenvDir string `yaml:"venv_dir"`
	// RequirementsFile is the pinned production dependency manifest.
	RequirementsFile string `yaml:"requirements_file"`
	// EntryPoint is the backend program handed to the bundle freezer.
	EntryPoint string `yaml:"entry_point"`
	// DistName names the frozen bundle directory under dist/.
	DistName string `yaml:"dist_name"`
	// CollectAll lists packages whose data files and binaries must be
	// collected transitively by the freezer.
	CollectAll []string `yaml:"collect_all"`
	// HiddenImports compensates for dynamic imports the freezer's static
	// analysis cannot see. Must be kept in sync with the backend module set.
	HiddenImports []string `yaml:"hidden_imports"`
	// ExcludeModules are known-large unused packages removed to bound bundle size.
	ExcludeModules []string `yaml:"exclude_modules"`
	// BrowserSubdir is the directory inside the frozen bundle that receives
	// the headless browser engine.
	BrowserSubdir string `yaml:"browser_subdir"`
	// BrowserEngine is the engine flavor passed to the installer.
	BrowserEngine string `yaml:"browser_engine"`
	// TauriDir is the native shell project directory.
	TauriDir string `yaml:"tauri_dir"`
	// VersionFiles are the artifacts rewritten by the version bump.
	VersionFiles []string `yaml:"version_files"`
	// VersionSource is the manifest whose version field is treated as current.
	VersionSource string `yaml:"version_source"`
	// LockCommand regenerates the dependency lock file after a version bump.
	LockCommand []string `yaml:"lock_command"`
	// LogDir is the per-user directory where the packaged backend writes logs.
	LogDir string `yaml:"log_dir"`
	// UserDataDir is the per-user directory holding the end-user configuration.
	// The pipeline never writes it; clean --user-data removes it.
	UserDataDir string `yaml:"user_data_dir"`
	// UpdateURL is the folder serving ab-forge release manifests, if any.
	UpdateURL string `yaml:"update_url"`
}

const (
	// DefaultConfigFilename is the default filename for build settings.
	DefaultConfigFilename = "ab-forge.yaml"

	// DefaultServerPort is the backend port used when none is configured.
	DefaultServerPort = 5555

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600

	maxPort = 65535
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errInvalidPort is returned when the configured server port is out of range.
	errInvalidPort = errors.New("server port must be between 1 and 65535")
)

// Default returns a configuration with every field set to its working default.
func Default() *Config {
	cfg := new(Config)
	applyDefaults(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates it.
// When path is empty and the default file does not exist, defaults are
// returned so the tool works in a freshly cloned repository.
func Load(path string) (*Config, error) {
	usingDefault := path == ""
	if usingDefault {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if usingDefault && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings and fills in defaults for empty fields.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	applyDefaults(cfg)

	if cfg.ServerPort < 1 || cfg.ServerPort > maxPort {
		return errInvalidPort
	}

	return nil
}

// applyDefaults fills empty fields with the values of the stock Auto Browser layout.
//
//nolint:cyclop,funlen // A flat run of defaulting branches reads better than indirection.
func applyDefaults(cfg *Config) {
	if cfg.AppName == "" {
		cfg.AppName = "Auto Browser"
	}

	if cfg.ServerPort == 0 {
		cfg.ServerPort = DefaultServerPort
	}

	if cfg.PythonExecutable == "" {
		cfg.PythonExecutable = "python3"
	}

	if cfg.MinPythonVersion == "" {
		cfg.MinPythonVersion = "3.10"
	}

	if len(cfg.RequiredTools) == 0 {
		cfg.RequiredTools = []string{"npm", "cargo"}
	}

	if cfg.VenvDir == "" {
		cfg.VenvDir = "bundle-venv"
	}

	if cfg.RequirementsFile == "" {
		cfg.RequirementsFile = "requirements-build.txt"
	}

	if cfg.EntryPoint == "" {
		cfg.EntryPoint = "server.py"
	}

	if cfg.DistName == "" {
		cfg.DistName = "auto-browser-backend"
	}

	if len(cfg.CollectAll) == 0 {
		cfg.CollectAll = []string{"nova_act", "flask", "flask_cors", "playwright"}
	}

	if len(cfg.HiddenImports) == 0 {
		cfg.HiddenImports = []string{
			"auto_browser",
			"auto_browser.web_ui",
			"auto_browser.config_manager",
			"flask",
			"flask_cors",
		}
	}

	if len(cfg.ExcludeModules) == 0 {
		cfg.ExcludeModules = []string{"matplotlib", "pandas", "scipy", "PyQt6", "tkinter", "pyttsx3"}
	}

	if cfg.BrowserSubdir == "" {
		cfg.BrowserSubdir = "ms-playwright"
	}

	if cfg.BrowserEngine == "" {
		cfg.BrowserEngine = "chromium"
	}

	if cfg.TauriDir == "" {
		cfg.TauriDir = "src-tauri"
	}

	if len(cfg.VersionFiles) == 0 {
		cfg.VersionFiles = []string{
			"package.json",
			filepath.Join("src-tauri", "tauri.conf.json"),
			filepath.Join("src-tauri", "Cargo.toml"),
			"pyproject.toml",
		}
	}

	if cfg.VersionSource == "" {
		cfg.VersionSource = "package.json"
	}

	if len(cfg.LockCommand) == 0 {
		cfg.LockCommand = []string{"uv", "lock"}
	}

	if cfg.LogDir == "" {
		cfg.LogDir = filepath.Join("Library", "Logs", "BrowserAutomation")
	}

	if cfg.UserDataDir == "" {
		cfg.UserDataDir = filepath.Join("Library", "Application Support", "BrowserAutomation")
	}
}
