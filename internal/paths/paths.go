// Package paths resolves configuration and data directory locations for
// the launcher. The config dir holds config.yaml and an optional .env;
// the data dir holds the cached manifest, installed tools, run history,
// and per-run scratch directories.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appDirName is the per-platform directory name under the user's
// config/data roots.
const appDirName = "venuekit"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "VENUEKIT_CONFIG_DIR"
	EnvDataDir   = "VENUEKIT_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/venuekit (fallback ~/.config/venuekit)
// macOS:   ~/Library/Application Support/venuekit
// Windows: %APPDATA%/venuekit
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appDirName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appDirName), nil
	default:
		// macOS and Windows use os.UserConfigDir which returns
		// ~/Library/Application Support on macOS and %APPDATA% on Windows.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appDirName), nil
	}
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/venuekit (fallback ~/.local/share/venuekit)
// macOS:   ~/Library/Application Support/venuekit
// Windows: %APPDATA%/venuekit
func DefaultDataDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, appDirName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share", appDirName), nil
	default:
		// macOS and Windows: same as config dir.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appDirName), nil
	}
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > VENUEKIT_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence
// chain: flag > config.yaml data_dir > VENUEKIT_DATA_DIR env >
// DefaultDataDir().
func ResolveDataDir(flag, configValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultDataDir()
}

// ManifestPath returns the cached manifest location.
func ManifestPath(dataDir string) string {
	return filepath.Join(dataDir, "manifest.json")
}

// StatePath returns the installed-tool state file location.
func StatePath(dataDir string) string {
	return filepath.Join(dataDir, "installed.json")
}

// HistoryPath returns the run-history database location.
func HistoryPath(dataDir string) string {
	return filepath.Join(dataDir, "history.db")
}

// ToolsDir returns the root directory for installed tool versions.
func ToolsDir(dataDir string) string {
	return filepath.Join(dataDir, "tools")
}

// ToolVersionDir returns the install directory for one tool version.
func ToolVersionDir(dataDir, name, version string) string {
	return filepath.Join(ToolsDir(dataDir), name, version)
}

// RunsDir returns the root directory for per-run scratch directories.
func RunsDir(dataDir string) string {
	return filepath.Join(dataDir, "runs")
}
