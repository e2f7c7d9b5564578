package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file: %v", err)
	}
	if cfg.Test.Duration != nil || cfg.Debug != nil {
		t.Fatalf("expected empty config")
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "debug = true\n\n[test]\nduration = 30\nword-list = \"english_200\"\ncaps = 0.25\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Debug == nil || !*cfg.Debug {
		t.Fatalf("expected debug enabled")
	}
	if cfg.Test.Duration == nil || *cfg.Test.Duration != 30 {
		t.Fatalf("unexpected duration: %v", cfg.Test.Duration)
	}
	if cfg.Test.WordList == nil || *cfg.Test.WordList != "english_200" {
		t.Fatalf("unexpected word list: %v", cfg.Test.WordList)
	}
	if cfg.Test.CapsPct == nil || *cfg.Test.CapsPct != 0.25 {
		t.Fatalf("unexpected caps: %v", cfg.Test.CapsPct)
	}
	if cfg.Test.Words != nil {
		t.Fatalf("expected unset words to stay nil")
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[test]\nduraton = 30\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for misspelled key")
	}
}

func TestXDGPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("XDG_STATE_HOME", "/state")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "typetest", "config.toml") {
		t.Fatalf("unexpected config path: %s", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "typetest", "typetest.db") {
		t.Fatalf("unexpected db path: %s", got)
	}
	if got := DefaultLogPath(); got != filepath.Join("/state", "typetest", "debug.log") {
		t.Fatalf("unexpected log path: %s", got)
	}
}
