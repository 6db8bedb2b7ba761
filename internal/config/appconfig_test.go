package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.ini")

	cfg := &AppConfig{
		Telegram: AppCredentials{APIID: 123456, APIHash: "0123456789abcdef"},
		Storage:  StorageConfig{DownloadDir: "/tmp/downloads"},
	}

	if err := SaveAppConfig(cfg, configPath); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(configPath)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if loaded.Telegram != cfg.Telegram {
		t.Errorf("Telegram mismatch: expected %+v, got %+v", cfg.Telegram, loaded.Telegram)
	}
	if loaded.Storage.DownloadDir != cfg.Storage.DownloadDir {
		t.Errorf("DownloadDir mismatch: expected %s, got %s", cfg.Storage.DownloadDir, loaded.Storage.DownloadDir)
	}

	if _, err := os.Stat(configPath + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should not remain after save")
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(configPath)
		if err != nil {
			t.Fatalf("stat failed: %v", err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("expected permissions 0600, got %o", info.Mode().Perm())
		}
	}
}

func TestLoadAppConfig_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadAppConfig(filepath.Join(t.TempDir(), "nonexistent.ini"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Telegram.APIID != 0 || cfg.Telegram.APIHash != "" {
		t.Errorf("expected empty credentials, got %+v", cfg.Telegram)
	}
}

func TestLoadAppConfig_InvalidAPIID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	content := "[telegram]\napi_id = not-a-number\napi_hash = abc\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadAppConfig(path)
	if !errors.Is(err, ErrInvalidAPIID) {
		t.Errorf("expected ErrInvalidAPIID, got %v", err)
	}
}

func TestAppCredentials_Validate(t *testing.T) {
	testCases := []struct {
		name  string
		creds AppCredentials
		want  error
	}{
		{"valid", AppCredentials{APIID: 1, APIHash: "h"}, nil},
		{"missing id", AppCredentials{APIHash: "h"}, ErrMissingAPIID},
		{"negative id", AppCredentials{APIID: -5, APIHash: "h"}, ErrInvalidAPIID},
		{"blank hash", AppCredentials{APIID: 1, APIHash: "   "}, ErrMissingAPIHash},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.creds.Validate(); !errors.Is(err, tc.want) {
				t.Errorf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestStoreAppCredentials_KeepsStorageSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	initial := &AppConfig{
		Telegram: AppCredentials{APIID: 1, APIHash: "old"},
		Storage:  StorageConfig{DownloadDir: "/srv/files"},
	}
	if err := SaveAppConfig(initial, path); err != nil {
		t.Fatal(err)
	}

	if err := StoreAppCredentials(path, AppCredentials{APIID: 2, APIHash: "new"}); err != nil {
		t.Fatalf("StoreAppCredentials failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Telegram.APIID != 2 || loaded.Telegram.APIHash != "new" {
		t.Errorf("credentials not replaced: %+v", loaded.Telegram)
	}
	if loaded.Storage.DownloadDir != "/srv/files" {
		t.Errorf("storage section lost: %+v", loaded.Storage)
	}
}

func TestStoreAppCredentials_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	if err := StoreAppCredentials(path, AppCredentials{}); !errors.Is(err, ErrMissingAPIID) {
		t.Errorf("expected ErrMissingAPIID, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("nothing should be written for invalid credentials")
	}
}

func TestMaskedHash(t *testing.T) {
	if got := (AppCredentials{APIHash: "abcdef123456"}).MaskedHash(); got != "********3456" {
		t.Errorf("MaskedHash() = %q", got)
	}
	if got := (AppCredentials{APIHash: "abc"}).MaskedHash(); got != "***" {
		t.Errorf("MaskedHash() = %q", got)
	}
}
