package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appDirName = "spl-workbench"

// configBaseDir returns the per-user directory holding workbench settings.
//
// Locations:
//   - Windows: %LOCALAPPDATA%\spl-workbench
//   - Unix: ~/.config/spl-workbench
func configBaseDir() string {
	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return filepath.Join(os.TempDir(), appDirName)
			}
			localAppData = filepath.Join(homeDir, "AppData", "Local")
		}
		return filepath.Join(localAppData, appDirName)
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), appDirName)
		}
		return filepath.Join(homeDir, ".config", appDirName)
	}
	return filepath.Join(configDir, appDirName)
}

// GetDefaultConfigPath returns the default config file location.
func GetDefaultConfigPath() string {
	return filepath.Join(configBaseDir(), "config.csv")
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	return os.MkdirAll(configBaseDir(), 0700)
}

// LogDirectory returns the directory for workbench log files.
func LogDirectory() string {
	return filepath.Join(configBaseDir(), "logs")
}

// EnsureLogDirectory creates the log directory if it doesn't exist.
func EnsureLogDirectory() error {
	return os.MkdirAll(LogDirectory(), 0700)
}
