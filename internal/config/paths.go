package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/tucha-cloud/tucha/internal/constants"
	"github.com/tucha-cloud/tucha/internal/pathutil"
)

// ErrNoHomeDirectory is returned when the user's home directory cannot be determined.
var ErrNoHomeDirectory = errors.New("home directory is not available")

// DataDirectory returns the directory holding config, sessions and logs.
// A non-empty override (--data-dir) wins.
//
// Locations:
//   - $XDG_DATA_HOME/tucha when set
//   - Windows: %LOCALAPPDATA%\tucha
//   - macOS: ~/Library/Application Support/tucha
//   - Unix: ~/.local/share/tucha
func DataDirectory(override string) string {
	if override != "" {
		if expanded, err := pathutil.ExpandHome(override); err == nil {
			return expanded
		}
		return override
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, constants.AppName)
	}

	homeDir, homeErr := os.UserHomeDir()
	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			if homeErr != nil {
				return filepath.Join(os.TempDir(), constants.AppName)
			}
			localAppData = filepath.Join(homeDir, "AppData", "Local")
		}
		return filepath.Join(localAppData, constants.AppName)
	case "darwin":
		if homeErr != nil {
			return filepath.Join(os.TempDir(), constants.AppName)
		}
		return filepath.Join(homeDir, "Library", "Application Support", constants.AppName)
	default:
		if homeErr != nil {
			return filepath.Join(os.TempDir(), constants.AppName)
		}
		return filepath.Join(homeDir, ".local", "share", constants.AppName)
	}
}

// ConfigPath returns the config file path inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, constants.ConfigFileName)
}

// SessionsDirectory returns the directory with one session file per account.
func SessionsDirectory(dataDir string) string {
	return filepath.Join(dataDir, "sessions")
}

// LogDirectory returns the log directory inside dataDir.
func LogDirectory(dataDir string) string {
	return filepath.Join(dataDir, "logs")
}

// EnsureLogDirectory creates the log directory if it doesn't exist.
// Uses 0700 permissions to restrict log access to owner only.
func EnsureLogDirectory(dataDir string) error {
	return os.MkdirAll(LogDirectory(dataDir), 0700)
}

// DownloadDirectory returns the configured download directory, or ~/Downloads.
// A configured value may start with "~" and is made absolute.
func DownloadDirectory(cfg *AppConfig) (string, error) {
	if cfg != nil && cfg.Storage.DownloadDir != "" {
		return pathutil.ResolveAbsolutePath(cfg.Storage.DownloadDir)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		return "", fmt.Errorf("%w: %v", ErrNoHomeDirectory, err)
	}
	return filepath.Join(homeDir, "Downloads"), nil
}
