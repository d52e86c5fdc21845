package model

import (
	"fmt"
	"time"
)

// StorageBackend is the kind of store the board persists into.
type StorageBackend string

const (
	StorageBackendSQLite StorageBackend = "sqlite"
	StorageBackendFile   StorageBackend = "file"
	StorageBackendRedis  StorageBackend = "redis"
	StorageBackendMemory StorageBackend = "memory"
)

// RecoverPolicy decides what happens with a timer left running by a process that
// didn't close it (e.g. killed in the middle of an interval).
type RecoverPolicy string

const (
	// RecoverPolicyResume keeps the interval running from its start mark.
	RecoverPolicyResume RecoverPolicy = "resume"
	// RecoverPolicyCheckpoint closes the interval folding only the checkpointed seconds.
	RecoverPolicyCheckpoint RecoverPolicy = "checkpoint"
)

// BoardConfig is the runtime configuration of a board.
type BoardConfig struct {
	Storage StorageConfig
	Timer   TimerConfig
	HTTP    HTTPConfig
}

// StorageConfig selects and configures the store.
type StorageConfig struct {
	Backend        StorageBackend
	SQLitePath     string
	FileDir        string
	RedisAddress   string
	RedisKeyPrefix string
}

// TimerConfig configures the periodic ticker.
type TimerConfig struct {
	DisplayInterval    time.Duration
	CheckpointInterval time.Duration
	RecoverPolicy      RecoverPolicy
}

// HTTPConfig configures the HTTP API.
type HTTPConfig struct {
	ListenAddress      string
	RateLimitPerMinute int
}

// Validate validates the board configuration.
func (c BoardConfig) Validate() error {
	switch c.Storage.Backend {
	case StorageBackendSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required: %w", ErrNotValid)
		}
	case StorageBackendFile:
		if c.Storage.FileDir == "" {
			return fmt.Errorf("file storage directory is required: %w", ErrNotValid)
		}
	case StorageBackendRedis:
		if c.Storage.RedisAddress == "" {
			return fmt.Errorf("redis address is required: %w", ErrNotValid)
		}
	case StorageBackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q: %w", c.Storage.Backend, ErrNotValid)
	}

	if c.Timer.DisplayInterval <= 0 {
		return fmt.Errorf("display interval must be positive: %w", ErrNotValid)
	}
	if c.Timer.CheckpointInterval <= 0 {
		return fmt.Errorf("checkpoint interval must be positive: %w", ErrNotValid)
	}
	switch c.Timer.RecoverPolicy {
	case RecoverPolicyResume, RecoverPolicyCheckpoint:
	default:
		return fmt.Errorf("unknown recover policy %q: %w", c.Timer.RecoverPolicy, ErrNotValid)
	}

	if c.HTTP.RateLimitPerMinute < 0 {
		return fmt.Errorf("rate limit can't be negative: %w", ErrNotValid)
	}

	return nil
}
