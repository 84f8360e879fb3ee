// Package config loads the workspace settings from .velocity/config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/naineet-code/engineer-velocity-view/pkg/domain/analytics"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain/schedule"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain/ticket"
	"github.com/naineet-code/engineer-velocity-view/pkg/storage"
	"gopkg.in/yaml.v3"
)

// Environment overrides.
const (
	EnvNow      = "VELOCITY_NOW"
	EnvTimezone = "VELOCITY_TZ"
)

// ErrInvalidConfig indicates a setting that cannot be used.
var ErrInvalidConfig = errors.New("invalid configuration")

type Thresholds struct {
	BlockedRiskDays   int     `yaml:"blocked_risk_days"`
	QueueOverflowDays int     `yaml:"queue_overflow_days"`
	BlockedMinDays    float64 `yaml:"blocked_min_days"`
	IdleWindowHours   int     `yaml:"idle_window_hours"`
	MaxInsights       int     `yaml:"max_insights"`
}

type Sprint struct {
	LengthDays int    `yaml:"length_days"`
	Start      string `yaml:"start,omitempty"`
}

type Dashboard struct {
	Addr string `yaml:"addr"`
}

type Log struct {
	Level string `yaml:"level"`
}

// Config is the serialized representation of config.yaml.
type Config struct {
	Timezone   string     `yaml:"timezone,omitempty"`
	Now        string     `yaml:"now,omitempty"`
	Thresholds Thresholds `yaml:"thresholds"`
	Sprint     Sprint     `yaml:"sprint"`
	Dashboard  Dashboard  `yaml:"dashboard"`
	Log        Log        `yaml:"log"`
}

// Default returns the settings used when config.yaml is absent.
func Default() *Config {
	return &Config{
		Thresholds: Thresholds{
			BlockedRiskDays:   schedule.DefaultBlockedRiskDays,
			QueueOverflowDays: schedule.DefaultOverflowDays,
			BlockedMinDays:    analytics.DefaultBlockedMinDays,
			IdleWindowHours:   int(analytics.DefaultIdleWindow / time.Hour),
			MaxInsights:       schedule.DefaultMaxInsights,
		},
		Sprint:    Sprint{LengthDays: 10},
		Dashboard: Dashboard{Addr: ":8088"},
		Log:       Log{Level: "info"},
	}
}

// Load reads config.yaml under root, falling back to defaults for a missing
// file or missing keys, then applies environment overrides.
func Load(root string) (*Config, error) {
	cfg := Default()

	repo := storage.NewFilesystemRepository(root)
	path, err := repo.ResolvePath(storage.ConfigFile)
	if err != nil {
		return nil, err
	}

	// #nosec G304 -- Path is resolved and validated via ResolvePath
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if v := strings.TrimSpace(os.Getenv(EnvNow)); v != "" {
		cfg.Now = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTimezone)); v != "" {
		cfg.Timezone = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to config.yaml under root.
func Save(root string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	repo := storage.NewFilesystemRepository(root)
	path, err := repo.ResolvePath(storage.ConfigFile)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// Validate rejects settings the engines cannot work with.
func (c *Config) Validate() error {
	t := c.Thresholds
	switch {
	case t.BlockedRiskDays < 0:
		return fmt.Errorf("%w: thresholds.blocked_risk_days must not be negative", ErrInvalidConfig)
	case t.QueueOverflowDays < 0:
		return fmt.Errorf("%w: thresholds.queue_overflow_days must not be negative", ErrInvalidConfig)
	case t.BlockedMinDays < 0:
		return fmt.Errorf("%w: thresholds.blocked_min_days must not be negative", ErrInvalidConfig)
	case t.IdleWindowHours < 0:
		return fmt.Errorf("%w: thresholds.idle_window_hours must not be negative", ErrInvalidConfig)
	case c.Sprint.LengthDays < 1:
		return fmt.Errorf("%w: sprint.length_days must be at least 1", ErrInvalidConfig)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Sprint.Start != "" {
		if _, err := ticket.ParseDate(c.Sprint.Start); err != nil {
			return fmt.Errorf("%w: sprint.start: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}

// Location returns the configured time zone, or the local zone when unset.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, c.Timezone, err)
	}
	return loc, nil
}

// EngineOptions maps thresholds onto the schedule engine.
func (c *Config) EngineOptions() []schedule.Option {
	return []schedule.Option{
		schedule.WithBlockedRiskDays(c.Thresholds.BlockedRiskDays),
		schedule.WithOverflowDays(c.Thresholds.QueueOverflowDays),
		schedule.WithMaxInsights(c.Thresholds.MaxInsights),
	}
}

// CalculatorOptions maps thresholds onto the KPI calculator.
func (c *Config) CalculatorOptions() []analytics.CalculatorOption {
	return []analytics.CalculatorOption{
		analytics.WithBlockedMinDays(c.Thresholds.BlockedMinDays),
		analytics.WithIdleWindow(time.Duration(c.Thresholds.IdleWindowHours) * time.Hour),
	}
}
