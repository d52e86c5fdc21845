package conventions

import (
	"path/filepath"
	"time"
)

const (
	// DefaultDataDir is the default staffboard data directory name (relative to home).
	DefaultDataDir = ".staffboard"
	// DBFile is the SQLite database filename inside the data directory.
	DBFile = "staffboard.db"
	// KVDir is the subdirectory for the file key-value store.
	KVDir = "kv"
	// EnvFile is the dotenv file loaded on startup from the working directory.
	EnvFile = ".env"

	// Key-value layout, shared with the browser board.

	// TasksKey is the key holding the task collection.
	TasksKey = "ib_tasks"
	// AnalyticsKey is the key holding the analytics log, newest first.
	AnalyticsKey = "ib_analytics"
	// ActiveTaskKey is the key holding the active task reference.
	ActiveTaskKey = "ib_active_task"

	// DefaultRedisKeyPrefix namespaces the board keys on Redis.
	DefaultRedisKeyPrefix = "staffboard:"

	// DefaultDisplayInterval is the live display refresh cadence.
	DefaultDisplayInterval = time.Second
	// DefaultCheckpointInterval is the durability checkpoint cadence.
	DefaultCheckpointInterval = 5 * time.Second

	// DefaultListenAddress is the HTTP API listen address.
	DefaultListenAddress = "127.0.0.1:8089"
	// DefaultRateLimitPerMinute is the per client HTTP API request budget.
	DefaultRateLimitPerMinute = 600
)

// DBPath returns the default SQLite database path for a data directory.
func DBPath(dataDir string) string {
	return filepath.Join(dataDir, DBFile)
}

// KVPath returns the file key-value store directory for a data directory.
func KVPath(dataDir string) string {
	return filepath.Join(dataDir, KVDir)
}
