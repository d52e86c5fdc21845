package io

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/slok/staffboard/internal/model"
)

// ConfigYAMLRepository loads board configuration from YAML files.
type ConfigYAMLRepository struct {
	fs fs.FS
}

// NewConfigYAMLRepository creates a new YAML config repository.
func NewConfigYAMLRepository(filesystem fs.FS) *ConfigYAMLRepository {
	return &ConfigYAMLRepository{fs: filesystem}
}

// GetConfig loads a board configuration YAML file on top of base and returns the
// validated result. Settings missing in the file keep the base value.
func (r *ConfigYAMLRepository) GetConfig(ctx context.Context, path string, base model.BoardConfig) (model.BoardConfig, error) {
	data, err := fs.ReadFile(r.fs, path)
	if err != nil {
		return model.BoardConfig{}, fmt.Errorf("reading config file: %w", err)
	}

	if ctx.Err() != nil {
		return model.BoardConfig{}, ctx.Err()
	}

	var cfg BoardConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return model.BoardConfig{}, fmt.Errorf("parsing YAML: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return model.BoardConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}

	res := cfg.toModel(base)
	if err := res.Validate(); err != nil {
		return model.BoardConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return res, nil
}

// BoardConfig represents the YAML structure for board configuration.
type BoardConfig struct {
	Storage StorageConfig `yaml:"storage"`
	Timer   TimerConfig   `yaml:"timer"`
	HTTP    HTTPConfig    `yaml:"http"`
}

// StorageConfig represents the YAML structure for storage configuration.
type StorageConfig struct {
	Backend string             `yaml:"backend"`
	SQLite  *SQLiteConfig      `yaml:"sqlite,omitempty"`
	File    *FileStorageConfig `yaml:"file,omitempty"`
	Redis   *RedisConfig       `yaml:"redis,omitempty"`
}

// SQLiteConfig represents the YAML structure for the SQLite backend.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// FileStorageConfig represents the YAML structure for the file backend.
type FileStorageConfig struct {
	Dir string `yaml:"dir"`
}

// RedisConfig represents the YAML structure for the Redis backend.
type RedisConfig struct {
	Address   string `yaml:"address"`
	KeyPrefix string `yaml:"key_prefix"`
}

// TimerConfig represents the YAML structure for timer configuration.
type TimerConfig struct {
	DisplayInterval    string `yaml:"display_interval"`
	CheckpointInterval string `yaml:"checkpoint_interval"`
	RecoverPolicy      string `yaml:"recover_policy"`
}

// HTTPConfig represents the YAML structure for the HTTP API configuration.
type HTTPConfig struct {
	ListenAddress      string `yaml:"listen_address"`
	RateLimitPerMinute *int   `yaml:"rate_limit_per_minute"`
}

func (c BoardConfig) validate() error {
	switch model.StorageBackend(c.Storage.Backend) {
	case "", model.StorageBackendSQLite, model.StorageBackendFile, model.StorageBackendRedis, model.StorageBackendMemory:
	default:
		return fmt.Errorf("unknown storage backend: %q", c.Storage.Backend)
	}

	if err := c.Timer.validate(); err != nil {
		return fmt.Errorf("timer: %w", err)
	}

	if c.HTTP.RateLimitPerMinute != nil && *c.HTTP.RateLimitPerMinute < 0 {
		return fmt.Errorf("http rate_limit_per_minute can't be negative, got: %d", *c.HTTP.RateLimitPerMinute)
	}

	return nil
}

func (c TimerConfig) validate() error {
	for name, v := range map[string]string{
		"display_interval":    c.DisplayInterval,
		"checkpoint_interval": c.CheckpointInterval,
	} {
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s is not a duration: %w", name, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got: %s", name, v)
		}
	}

	switch model.RecoverPolicy(c.RecoverPolicy) {
	case "", model.RecoverPolicyResume, model.RecoverPolicyCheckpoint:
	default:
		return fmt.Errorf("unknown recover_policy: %q", c.RecoverPolicy)
	}

	return nil
}

func (c BoardConfig) toModel(base model.BoardConfig) model.BoardConfig {
	cfg := base

	if c.Storage.Backend != "" {
		cfg.Storage.Backend = model.StorageBackend(c.Storage.Backend)
	}
	if c.Storage.SQLite != nil && c.Storage.SQLite.Path != "" {
		cfg.Storage.SQLitePath = c.Storage.SQLite.Path
	}
	if c.Storage.File != nil && c.Storage.File.Dir != "" {
		cfg.Storage.FileDir = c.Storage.File.Dir
	}
	if c.Storage.Redis != nil {
		if c.Storage.Redis.Address != "" {
			cfg.Storage.RedisAddress = c.Storage.Redis.Address
		}
		if c.Storage.Redis.KeyPrefix != "" {
			cfg.Storage.RedisKeyPrefix = c.Storage.Redis.KeyPrefix
		}
	}

	// Durations are already validated.
	if c.Timer.DisplayInterval != "" {
		cfg.Timer.DisplayInterval, _ = time.ParseDuration(c.Timer.DisplayInterval)
	}
	if c.Timer.CheckpointInterval != "" {
		cfg.Timer.CheckpointInterval, _ = time.ParseDuration(c.Timer.CheckpointInterval)
	}
	if c.Timer.RecoverPolicy != "" {
		cfg.Timer.RecoverPolicy = model.RecoverPolicy(c.Timer.RecoverPolicy)
	}

	if c.HTTP.ListenAddress != "" {
		cfg.HTTP.ListenAddress = c.HTTP.ListenAddress
	}
	if c.HTTP.RateLimitPerMinute != nil {
		cfg.HTTP.RateLimitPerMinute = *c.HTTP.RateLimitPerMinute
	}

	return cfg
}
