// MotorMatch - Car Marketplace Personalization Engine
// Copyright 2026 MotorMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/motormatch/motormatch

// Package config loads layered configuration with Koanf: built-in
// defaults, then an optional YAML file, then MOTORMATCH_* environment
// variables, each layer overriding the previous one.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/motormatch/config.yaml",
	"/etc/motormatch/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "CONFIG_PATH"

// envPrefix namespaces the environment variable layer.
const envPrefix = "MOTORMATCH_"

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Engine    EngineConfig    `koanf:"engine"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
	Archive   ArchiveConfig   `koanf:"archive"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`

	// CORSOrigins lists allowed origins. "*" allows any.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimit is the per-IP request budget per RateWindow. Zero
	// disables rate limiting.
	RateLimit  int           `koanf:"rate_limit"`
	RateWindow time.Duration `koanf:"rate_window"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// CatalogConfig selects the vehicle inventory source. With no path set, a
// deterministic sample catalog is generated.
type CatalogConfig struct {
	Path       string `koanf:"path"`
	SampleSize int    `koanf:"sample_size"`
	SampleSeed int64  `koanf:"sample_seed"`
}

// EngineConfig tunes recommendation scoring.
type EngineConfig struct {
	SectionLimit    int   `koanf:"section_limit"`
	TrendingMinYear int   `koanf:"trending_min_year"`
	Seed            int64 `koanf:"seed"`
}

// SchedulerConfig tunes the auto-refresh triggers.
type SchedulerConfig struct {
	Enabled            bool          `koanf:"enabled"`
	Debounce           time.Duration `koanf:"debounce"`
	ActivityThreshold  int           `koanf:"activity_threshold"`
	Cooldown           time.Duration `koanf:"cooldown"`
	RefreshInterval    time.Duration `koanf:"refresh_interval"`
	StaleCheckInterval time.Duration `koanf:"stale_check_interval"`
}

// ArchiveConfig controls the durable behavior event mirror.
type ArchiveConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8480,
			Timeout:     30 * time.Second,
			CORSOrigins: []string{"*"},
			RateLimit:   100,
			RateWindow:  time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Catalog: CatalogConfig{
			Path:       "",
			SampleSize: 60,
			SampleSeed: 1,
		},
		Engine: EngineConfig{
			SectionLimit:    5,
			TrendingMinYear: 2024,
		},
		Scheduler: SchedulerConfig{
			Enabled:            true,
			Debounce:           3 * time.Second,
			ActivityThreshold:  2,
			Cooldown:           30 * time.Second,
			RefreshInterval:    30 * time.Minute,
			StaleCheckInterval: time.Minute,
		},
		Archive: ArchiveConfig{
			Enabled: false,
			Path:    "/data/motormatch/archive",
		},
	}
}

// Load builds the configuration from defaults, an optional config file,
// and environment variables, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate configuration: %w", err)
	}
	return cfg, nil
}

// envTransform maps MOTORMATCH_SERVER_PORT to server.port. Only the first
// underscore becomes a separator, so snake_case leaf keys survive:
// MOTORMATCH_SCHEDULER_ACTIVITY_THRESHOLD -> scheduler.activity_threshold.
func envTransform(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.Replace(s, "_", ".", 1)
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
		return ""
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Validate checks cross-field constraints not expressible as defaults.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d outside 1-65535", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive")
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format %q is not json or console", c.Logging.Format)
	}
	if c.Catalog.Path == "" && c.Catalog.SampleSize <= 0 {
		return fmt.Errorf("catalog.sample_size must be positive without a catalog path")
	}
	if c.Engine.SectionLimit <= 0 {
		return fmt.Errorf("engine.section_limit must be positive")
	}
	if c.Scheduler.Debounce <= 0 || c.Scheduler.Cooldown <= 0 {
		return fmt.Errorf("scheduler debounce and cooldown must be positive")
	}
	if c.Scheduler.ActivityThreshold <= 0 {
		return fmt.Errorf("scheduler.activity_threshold must be positive")
	}
	if c.Scheduler.RefreshInterval <= 0 || c.Scheduler.StaleCheckInterval <= 0 {
		return fmt.Errorf("scheduler intervals must be positive")
	}
	if c.Archive.Enabled && !c.Archive.InMemory && c.Archive.Path == "" {
		return fmt.Errorf("archive.path required when the archive is enabled on disk")
	}
	return nil
}
