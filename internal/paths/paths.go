// Package paths resolves the configuration directory and the default
// database location.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultConfigDirName is the working-directory-relative configuration
// directory.
const DefaultConfigDirName = ".strata"

// EnvConfigDir overrides the configuration directory location.
const EnvConfigDir = "STRATA_CONFIG_DIR"

// ConfigFileName is the configuration file inside the config directory.
const ConfigFileName = "config.yaml"

// DBFileName is the default embedded database file inside the config
// directory.
const DBFileName = "strata.db"

// platformDir holds platform-detection functions that can be overridden
// in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// ResolveConfigDir returns the configuration directory: the flag value
// when given, then the STRATA_CONFIG_DIR environment variable, then
// .strata in the working directory. When no .strata exists in the
// working directory but a per-user directory does, the per-user
// directory is used, so a one-time setup there covers every project.
func ResolveConfigDir(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(EnvConfigDir); v != "" {
		return v
	}
	if _, err := os.Stat(DefaultConfigDirName); err == nil {
		return DefaultConfigDirName
	}
	if dir, err := UserConfigDir(); err == nil {
		if _, err := os.Stat(dir); err == nil {
			return dir
		}
	}
	return DefaultConfigDirName
}

// DefaultDBPath returns the embedded database location inside a config
// directory.
func DefaultDBPath(configDir string) string {
	return filepath.Join(configDir, DBFileName)
}

// UserConfigDir returns the platform-specific per-user configuration
// directory.
//
// Linux:   $XDG_CONFIG_HOME/strata (fallback ~/.config/strata)
// macOS:   ~/Library/Application Support/strata
// Windows: %APPDATA%/strata
func UserConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "strata"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "strata"), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "strata"), nil
	}
}
