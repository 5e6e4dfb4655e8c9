// Package config loads the overlay's YAML configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Norgate-AV/overlayd/internal/cursor"
	"github.com/Norgate-AV/overlayd/internal/logger"
	"github.com/Norgate-AV/overlayd/internal/stats"
	"github.com/Norgate-AV/overlayd/internal/timeouts"
)

// Config is the full configuration file.
type Config struct {
	Log           LogConfig      `yaml:"log"`
	Preview       PreviewConfig  `yaml:"preview"`
	Stats         StatsConfig    `yaml:"stats"`
	Simulate      SimulateConfig `yaml:"simulate"`
	DefaultCursor string         `yaml:"default_cursor"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Dir        string `yaml:"dir"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// PreviewConfig sizes the preview window.
type PreviewConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// StatsConfig tunes the frame-time average.
type StatsConfig struct {
	IntervalMS int `yaml:"interval_ms"`
	Samples    int `yaml:"samples"`
}

// SimulateConfig drives the headless present loop.
type SimulateConfig struct {
	Frames          int `yaml:"frames"`
	FrameIntervalMS int `yaml:"frame_interval_ms"`
	Width           int `yaml:"width"`
	Height          int `yaml:"height"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			MaxSizeMB:  logger.DefaultLogMaxSize,
			MaxBackups: logger.DefaultLogMaxBackups,
			MaxAgeDays: logger.DefaultLogMaxAge,
			Compress:   true,
		},
		Preview: PreviewConfig{
			Width:  1280,
			Height: 720,
			Title:  "overlayd preview",
		},
		Stats: StatsConfig{
			IntervalMS: int(timeouts.StatsInterval / time.Millisecond),
			Samples:    stats.DefaultSamples,
		},
		Simulate: SimulateConfig{
			Frames:          120,
			FrameIntervalMS: int(timeouts.FrameInterval / time.Millisecond),
			Width:           1920,
			Height:          1080,
		},
		DefaultCursor: cursor.Default.String(),
	}
}

// Load reads the config file at path. An empty path resolves through
// GetConfigPath, and a missing file at the default location yields the
// defaults.
func Load(path string) (*Config, error) {
	explicit := path != "" || os.Getenv(EnvConfigPath) != ""
	if path == "" {
		path = GetConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return Default(), nil
		}

		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes a config document over the defaults and validates it.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks every value is usable.
func (c *Config) Validate() error {
	var errs []error

	positive := func(name string, v int) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", name, v))
		}
	}

	nonNegative := func(name string, v int) {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %d", name, v))
		}
	}

	positive("log.max_size_mb", c.Log.MaxSizeMB)
	nonNegative("log.max_backups", c.Log.MaxBackups)
	nonNegative("log.max_age_days", c.Log.MaxAgeDays)
	positive("preview.width", c.Preview.Width)
	positive("preview.height", c.Preview.Height)
	positive("stats.interval_ms", c.Stats.IntervalMS)
	positive("stats.samples", c.Stats.Samples)
	nonNegative("simulate.frames", c.Simulate.Frames)
	nonNegative("simulate.frame_interval_ms", c.Simulate.FrameIntervalMS)
	positive("simulate.width", c.Simulate.Width)
	positive("simulate.height", c.Simulate.Height)

	if _, err := cursor.Parse(c.DefaultCursor); err != nil {
		errs = append(errs, fmt.Errorf("default_cursor: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}

	return nil
}

// LoggerOptions maps the log section onto logger options.
func (c *Config) LoggerOptions(verbose bool) logger.LoggerOptions {
	return logger.LoggerOptions{
		Verbose:    verbose,
		LogDir:     c.Log.Dir,
		MaxSize:    c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAge:     c.Log.MaxAgeDays,
		Compress:   c.Log.Compress,
	}
}

// StatsOptions maps the stats section onto calculator options.
func (c *Config) StatsOptions() stats.Options {
	return stats.Options{
		Interval: time.Duration(c.Stats.IntervalMS) * time.Millisecond,
		Samples:  c.Stats.Samples,
	}
}

// FrameInterval is the headless loop's delay between presents. Zero falls
// back to timeouts.FrameInterval.
func (c *Config) FrameInterval() time.Duration {
	if c.Simulate.FrameIntervalMS == 0 {
		return timeouts.FrameInterval
	}

	return time.Duration(c.Simulate.FrameIntervalMS) * time.Millisecond
}

// Cursor is the parsed default_cursor.
func (c *Config) Cursor() cursor.Kind {
	k, err := cursor.Parse(c.DefaultCursor)
	if err != nil {
		return cursor.Default
	}

	return k
}
