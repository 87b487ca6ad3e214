package config

import (
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Mifour/hexpresso/internal/errors"
)

// Config holds the engine configuration.
type Config struct {
	// Workers bounds concurrent partition workers; 0 = one per partition.
	Workers int `yaml:"workers"`

	// ParsePolicy is "abort" or "skip".
	ParsePolicy string `yaml:"parse_policy"`

	// Percentiles to report, each in [0, 100]. Empty disables percentile
	// sketching unless the caller asks for the defaults.
	Percentiles []float64 `yaml:"percentiles"`

	// SketchAccuracy is the DDSketch relative accuracy, in (0, 1).
	SketchAccuracy float64 `yaml:"sketch_accuracy"`

	Log LogConfig `yaml:"log"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns a Config populated with the documented defaults.
func Default() *Config {
	return &Config{
		Workers:        DefaultWorkers,
		ParsePolicy:    DefaultParsePolicy,
		SketchAccuracy: DefaultSketchAccuracy,
		Log: LogConfig{
			Level: DefaultLogLevel,
			JSON:  DefaultLogJSON,
		},
	}
}

// Load loads configuration from a YAML file, expanding environment
// variables, on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that all values are inside their documented ranges.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return errors.Wrap(errors.ErrInvalidConfig, "workers must be >= 0")
	}
	switch c.ParsePolicy {
	case "abort", "skip":
	default:
		return errors.Wrapf(errors.ErrInvalidConfig, "parse_policy %q (want abort or skip)", c.ParsePolicy)
	}
	for _, p := range c.Percentiles {
		if p < 0 || p > 100 {
			return errors.Wrapf(errors.ErrInvalidConfig, "percentile %v out of range", p)
		}
	}
	if c.SketchAccuracy <= 0 || c.SketchAccuracy >= 1 {
		return errors.Wrapf(errors.ErrInvalidConfig, "sketch_accuracy %v (want (0, 1))", c.SketchAccuracy)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses the configured log level.
func (c *Config) LogLevel() (slog.Level, error) {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, errors.Wrapf(errors.ErrInvalidConfig, "log level %q", c.Log.Level)
	}
}
