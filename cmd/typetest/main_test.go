package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/typetest/internal/config"
	"github.com/verte-zerg/typetest/internal/model"
)

func validTestConfig() model.Config {
	return model.Config{
		DurationSeconds: 60,
		WordList:        "english_200",
		Words:           200,
		PunctSet:        ".,",
		WeakTop:         8,
		WeakFactor:      2,
		WeakWindow:      20,
	}
}

func TestValidateConfig(t *testing.T) {
	if err := validateConfig(validTestConfig()); err != nil {
		t.Fatalf("expected valid config: %v", err)
	}
	cases := map[string]func(*model.Config){
		"zero duration":  func(c *model.Config) { c.DurationSeconds = 0 },
		"long duration":  func(c *model.Config) { c.DurationSeconds = maxDuration + 1 },
		"empty list":     func(c *model.Config) { c.WordList = "" },
		"no words":       func(c *model.Config) { c.Words = 0 },
		"caps range":     func(c *model.Config) { c.CapsPct = 1.5 },
		"punct range":    func(c *model.Config) { c.PunctPct = -0.1 },
		"empty punct":    func(c *model.Config) { c.PunctPct = 0.5; c.PunctSet = "" },
		"space in punct": func(c *model.Config) { c.PunctSet = ". ," },
		"weak top":       func(c *model.Config) { c.WeakTop = -1 },
	}
	for name, mutate := range cases {
		cfg := validTestConfig()
		mutate(&cfg)
		if err := validateConfig(cfg); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	var lines []string
	for _, line := range strings.Split(defaultConfigTemplate(), "\n") {
		if strings.HasPrefix(line, "# ") && strings.Contains(line, " = ") {
			line = strings.TrimPrefix(line, "# ")
		}
		lines = append(lines, line)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Test.Duration == nil || *cfg.Test.Duration != defaultDuration {
		t.Fatalf("unexpected duration: %v", cfg.Test.Duration)
	}
	if cfg.Test.WordList == nil || *cfg.Test.WordList != defaultWordList {
		t.Fatalf("unexpected word list: %v", cfg.Test.WordList)
	}
	if cfg.Test.PunctSet == nil || *cfg.Test.PunctSet != defaultPunctSet {
		t.Fatalf("unexpected punct set: %v", cfg.Test.PunctSet)
	}
	if cfg.Debug == nil || *cfg.Debug {
		t.Fatalf("expected debug=false")
	}
}

func TestConfigFileOverridesUnchangedFlags(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.ParseFlags([]string{"--duration", "30"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	duration := 90
	words := 50
	list := "zoo"
	cfg := resolveTestConfig(cmd, config.FileConfig{Test: config.TestConfig{
		Duration: &duration,
		Words:    &words,
		WordList: &list,
	}})
	if cfg.DurationSeconds != 30 {
		t.Fatalf("flag should win over config, got %d", cfg.DurationSeconds)
	}
	if cfg.Words != 50 || cfg.WordList != "zoo" {
		t.Fatalf("config should fill unset flags: %+v", cfg)
	}
}

func TestImportListsAndPlainStats(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))

	wordsPath := filepath.Join(dir, "basic.txt")
	if err := os.WriteFile(wordsPath, []byte("the\nbe\n\nto\n"), 0o644); err != nil {
		t.Fatalf("write words: %v", err)
	}

	run := func(args ...string) (string, error) {
		t.Helper()
		var out bytes.Buffer
		root := newRootCmd()
		root.SetOut(&out)
		root.SetErr(&out)
		root.SetArgs(args)
		err := root.Execute()
		return out.String(), err
	}

	if _, err := run("import", wordsPath); err != nil {
		t.Fatalf("import: %v", err)
	}
	if _, err := run("import", wordsPath); err == nil {
		t.Fatalf("expected duplicate import to fail without --force")
	}
	if _, err := run("import", "--force", wordsPath); err != nil {
		t.Fatalf("forced import: %v", err)
	}
	if _, err := run("import", "--name", "default", wordsPath); err == nil {
		t.Fatalf("expected reserved name to be rejected")
	}

	out, err := run("lists")
	if err != nil {
		t.Fatalf("lists: %v", err)
	}
	if strings.TrimSpace(out) != "basic\t3" {
		t.Fatalf("unexpected lists output: %q", out)
	}

	out, err = run("stats", "--plain")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.Contains(out, "No results found.") {
		t.Fatalf("unexpected stats output: %q", out)
	}
	if _, err := run("stats", "--plain", "--since", "yesterday"); err == nil {
		t.Fatalf("expected invalid --since to fail")
	}
}
