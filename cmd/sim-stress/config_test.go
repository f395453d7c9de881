package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if cfg.Population.Entities != 10000 {
			t.Errorf("default entities = %d, want 10000", cfg.Population.Entities)
		}
		if cfg.Loop.FixedStep != 1.0/60.0 {
			t.Errorf("default fixed step = %v, want 1/60", cfg.Loop.FixedStep)
		}
		if cfg.Logging.Format != "console" {
			t.Errorf("default log format = %q, want console", cfg.Logging.Format)
		}
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "run.toml")
		doc := `
[loop]
fixed_step = 0.05
max_catch_up = 4

[population]
entities = 500
seed = 42

[logging]
level = "debug"
format = "json"
`
		if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if cfg.Loop.FixedStep != 0.05 {
			t.Errorf("fixed step = %v, want 0.05", cfg.Loop.FixedStep)
		}
		if cfg.Loop.MaxCatchUp != 4 {
			t.Errorf("max catch up = %d, want 4", cfg.Loop.MaxCatchUp)
		}
		if cfg.Population.Entities != 500 {
			t.Errorf("entities = %d, want 500", cfg.Population.Entities)
		}
		if cfg.Population.Seed != 42 {
			t.Errorf("seed = %d, want 42", cfg.Population.Seed)
		}
		if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
			t.Errorf("logging = %+v, want debug/json", cfg.Logging)
		}
	})

	t.Run("partial file keeps remaining defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "run.toml")
		if err := os.WriteFile(path, []byte("[population]\nentities = 7\n"), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if cfg.Population.Entities != 7 {
			t.Errorf("entities = %d, want 7", cfg.Population.Entities)
		}
		if cfg.Loop.MaxCatchUp != 8 {
			t.Errorf("max catch up = %d, want default 8", cfg.Loop.MaxCatchUp)
		}
	})

	t.Run("missing file fails", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
			t.Error("expected an error for a missing config file")
		}
	})

	t.Run("malformed file fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		if err := os.WriteFile(path, []byte("[loop\nfixed_step ="), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Error("expected a parse error")
		}
	})
}
