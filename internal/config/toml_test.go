package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Tasks.TappingSeconds != nil {
		t.Fatal("expected empty config")
	}
}

func TestLoadConfigPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[tasks]\ntapping-seconds = 15\nstroop-trials = 30\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Tasks.TappingSeconds == nil || *cfg.Tasks.TappingSeconds != 15 {
		t.Fatalf("tapping-seconds not parsed: %+v", cfg.Tasks)
	}
	if cfg.Tasks.StroopTrials == nil || *cfg.Tasks.StroopTrials != 30 {
		t.Fatalf("stroop-trials not parsed: %+v", cfg.Tasks)
	}
	if cfg.Tasks.HanoiDisks != nil {
		t.Fatal("unset field should stay nil")
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
