package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Mifour/hexpresso/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if cfg.ParsePolicy != "abort" {
		t.Errorf("expected default parse_policy=abort, got %q", cfg.ParsePolicy)
	}
	if cfg.SketchAccuracy != 0.01 {
		t.Errorf("expected default sketch_accuracy=0.01, got %v", cfg.SketchAccuracy)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
workers: 4
parse_policy: skip
percentiles: [50, 99]
log:
  level: debug
  json: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Workers != 4 {
		t.Errorf("expected workers=4, got %d", cfg.Workers)
	}
	if cfg.ParsePolicy != "skip" {
		t.Errorf("expected parse_policy=skip, got %q", cfg.ParsePolicy)
	}
	if len(cfg.Percentiles) != 2 || cfg.Percentiles[1] != 99 {
		t.Errorf("unexpected percentiles: %v", cfg.Percentiles)
	}
	// Untouched fields keep their defaults.
	if cfg.SketchAccuracy != DefaultSketchAccuracy {
		t.Errorf("expected default sketch_accuracy, got %v", cfg.SketchAccuracy)
	}

	level, err := cfg.LogLevel()
	if err != nil {
		t.Fatalf("LogLevel: %v", err)
	}
	if level != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", level)
	}
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("HEXPRESSO_WORKERS", "8")
	path := writeConfig(t, "workers: ${HEXPRESSO_WORKERS}\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Workers != 8 {
		t.Errorf("expected workers=8 from env, got %d", cfg.Workers)
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative workers", func(c *Config) { c.Workers = -1 }},
		{"bad parse policy", func(c *Config) { c.ParsePolicy = "ignore" }},
		{"percentile above 100", func(c *Config) { c.Percentiles = []float64{101} }},
		{"zero accuracy", func(c *Config) { c.SketchAccuracy = 0 }},
		{"accuracy >= 1", func(c *Config) { c.SketchAccuracy = 1 }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, errors.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}
