package config

import (
	"errors"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, creds AppCredentials) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.ini")
	if err := SaveAppConfig(&AppConfig{Telegram: creds}, path); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}
	return path
}

func TestResolveCredentials_Priority(t *testing.T) {
	path := writeConfig(t, AppCredentials{APIID: 3, APIHash: "file-hash"})

	t.Run("config file", func(t *testing.T) {
		t.Setenv(EnvAPIID, "")
		t.Setenv(EnvAPIHash, "")
		got, err := ResolveCredentials(0, "", path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.APIID != 3 || got.APIHash != "file-hash" || got.IDSource != SourceConfigFile {
			t.Errorf("unexpected result %+v", got)
		}
	})

	t.Run("environment over file", func(t *testing.T) {
		t.Setenv(EnvAPIID, "2")
		t.Setenv(EnvAPIHash, "")
		got, err := ResolveCredentials(0, "", path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.APIID != 2 || got.IDSource != SourceEnvironment {
			t.Errorf("expected id from environment, got %+v", got)
		}
		if got.APIHash != "file-hash" || got.HashSource != SourceConfigFile {
			t.Errorf("expected hash from file, got %+v", got)
		}
	})

	t.Run("flag over environment", func(t *testing.T) {
		t.Setenv(EnvAPIID, "2")
		t.Setenv(EnvAPIHash, "env-hash")
		got, err := ResolveCredentials(1, "flag-hash", path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.APIID != 1 || got.APIHash != "flag-hash" || got.HashSource != SourceFlag {
			t.Errorf("expected flag values, got %+v", got)
		}
	})
}

func TestResolveCredentials_Missing(t *testing.T) {
	t.Setenv(EnvAPIID, "")
	t.Setenv(EnvAPIHash, "")

	_, err := ResolveCredentials(0, "", filepath.Join(t.TempDir(), "none.ini"))
	if !errors.Is(err, ErrMissingAPIID) {
		t.Errorf("expected ErrMissingAPIID, got %v", err)
	}
}

func TestResolveCredentials_BadEnvironmentID(t *testing.T) {
	t.Setenv(EnvAPIID, "twelve")
	_, err := ResolveCredentials(0, "", filepath.Join(t.TempDir(), "none.ini"))
	if !errors.Is(err, ErrInvalidAPIID) {
		t.Errorf("expected ErrInvalidAPIID, got %v", err)
	}
}

func TestDirectoryLayout(t *testing.T) {
	dataDir := DataDirectory("/data/tucha")
	if dataDir != "/data/tucha" {
		t.Errorf("override ignored: %s", dataDir)
	}
	if got := SessionsDirectory(dataDir); got != filepath.Join("/data/tucha", "sessions") {
		t.Errorf("SessionsDirectory = %s", got)
	}
	if got := ConfigPath(dataDir); got != filepath.Join("/data/tucha", "config.ini") {
		t.Errorf("ConfigPath = %s", got)
	}

	t.Setenv("XDG_DATA_HOME", "/xdg")
	if got := DataDirectory(""); got != filepath.Join("/xdg", "tucha") {
		t.Errorf("DataDirectory with XDG_DATA_HOME = %s", got)
	}

	dl, err := DownloadDirectory(&AppConfig{Storage: StorageConfig{DownloadDir: "/dl"}})
	if err != nil || dl != "/dl" {
		t.Errorf("DownloadDirectory = %s, %v", dl, err)
	}
}
