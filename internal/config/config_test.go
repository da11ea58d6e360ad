package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := parse(DefaultYAML())
	if err != nil {
		t.Fatalf("embedded config does not parse: %v", err)
	}
	if cfg != Default() {
		t.Errorf("embedded config = %+v, expected %+v", cfg, Default())
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := writeFile(t, t.TempDir(), "custom.yaml", `
engine:
  delay: 40ms
  seed: 7
log:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Engine.Delay != 40*time.Millisecond {
		t.Errorf("Delay = %v, expected 40ms", cfg.Engine.Delay)
	}
	if cfg.Engine.Seed != 7 || cfg.Log.Level != "debug" {
		t.Errorf("cfg = %+v, expected seed 7 and debug level", cfg)
	}
	// Untouched sections keep their defaults.
	if cfg.SSH != Default().SSH || cfg.Storage != Default().Storage {
		t.Errorf("missing sections should keep defaults, got %+v", cfg)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, expected fs.ErrNotExist", err)
	}

	bad := writeFile(t, dir, "bad.yaml", "engine: [not, a, map]\n")
	if _, err := Load(bad); err == nil {
		t.Error("Load(bad yaml) should fail")
	}

	negative := writeFile(t, dir, "negative.yaml", "engine:\n  delay: -1s\n")
	if _, err := Load(negative); err == nil {
		t.Error("Load(negative delay) should fail")
	}
}

func TestLoadSearchOrder(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(work)

	// Nothing on disk: embedded defaults.
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Default() {
		t.Errorf("Load() = %+v, expected defaults", cfg)
	}

	writeFile(t, work, filepath.Join("configs", FileName), "engine:\n  max_ticks: 10\n")
	cfg, _ = Load("")
	if cfg.Engine.MaxTicks != 10 {
		t.Errorf("MaxTicks = %d, expected 10 from ./configs", cfg.Engine.MaxTicks)
	}

	writeFile(t, home, filepath.Join(".gridworld", "config.yaml"), "engine:\n  max_ticks: 20\n")
	cfg, _ = Load("")
	if cfg.Engine.MaxTicks != 20 {
		t.Errorf("MaxTicks = %d, expected 20 from the user config", cfg.Engine.MaxTicks)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		valid  bool
	}{
		{"defaults", func(*Config) {}, true},
		{"zero delay", func(c *Config) { c.Engine.Delay = 0 }, true},
		{"negative delay", func(c *Config) { c.Engine.Delay = -time.Second }, false},
		{"negative max ticks", func(c *Config) { c.Engine.MaxTicks = -1 }, false},
		{"negative idle timeout", func(c *Config) { c.SSH.IdleTimeout = -time.Minute }, false},
		{"negative max sessions", func(c *Config) { c.SSH.MaxSessions = -1 }, false},
		{"unlimited sessions", func(c *Config) { c.SSH.MaxSessions = 0 }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(&cfg)
			if err := cfg.Validate(); (err == nil) != tc.valid {
				t.Errorf("Validate() = %v, expected valid=%v", err, tc.valid)
			}
		})
	}
}
