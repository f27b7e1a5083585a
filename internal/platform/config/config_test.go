package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Mode != ModeDev {
		t.Errorf("mode = %q, want %q", cfg.Mode, ModeDev)
	}
	if cfg.Storage.Key != "libraryWorkData" {
		t.Errorf("storage key = %q", cfg.Storage.Key)
	}
}

func TestLoadConfigFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := "mode: release\nstorage:\n  driver: sqlite\n  path: /tmp/lwa.db\n"
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("DB_PORT", "3307")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Mode != ModeRelease {
		t.Errorf("mode = %q", cfg.Mode)
	}
	if cfg.Storage.Driver != "memory" {
		t.Errorf("driver = %q, want env override", cfg.Storage.Driver)
	}
	if cfg.Storage.Path != "/tmp/lwa.db" {
		t.Errorf("path = %q", cfg.Storage.Path)
	}
	// untouched defaults survive a partial file
	if cfg.Storage.Key != "libraryWorkData" {
		t.Errorf("key = %q", cfg.Storage.Key)
	}
	if cfg.DB.Port != 3307 {
		t.Errorf("db port = %d", cfg.DB.Port)
	}
}

func TestValidateRejectsUnknownMode(t *testing.T) {
	cfg := Default()
	cfg.Mode = "staging"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown mode")
	}
	cfg = Default()
	cfg.Storage.Driver = "etcd"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
