package lib

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/slok/staffboard/internal/board"
	"github.com/slok/staffboard/internal/conventions"
	"github.com/slok/staffboard/internal/log"
	"github.com/slok/staffboard/internal/model"
	"github.com/slok/staffboard/internal/storage/backend"
)

// Config configures the SDK client.
//
// All fields are optional and have sensible defaults. An empty Config{} uses
// ~/.staffboard/staffboard.db for storage and resumes the timers left running.
type Config struct {
	// DataDir is the base directory for the board data.
	// Default: ~/.staffboard.
	DataDir string

	// Storage selects the storage backend.
	// Default: [StorageSQLite].
	Storage StorageBackend

	// DBPath is the SQLite database path, only used with [StorageSQLite].
	// Default: <DataDir>/staffboard.db.
	DBPath string

	// FileDir is the key-value directory, only used with [StorageFile].
	// Default: <DataDir>/kv.
	FileDir string

	// RedisAddress is the Redis address, required with [StorageRedis].
	RedisAddress string

	// RedisKeyPrefix namespaces the board keys on Redis.
	// Default: "staffboard:".
	RedisKeyPrefix string

	// RecoverPolicy decides what happens with the timers left running by a
	// previous process when the client is opened.
	// Default: [RecoverResume].
	RecoverPolicy RecoverPolicy

	// CheckpointInterval is the cadence [Client.Watch] makes running timers durable.
	// Default: 5s.
	CheckpointInterval time.Duration

	// Logger receives structured log output from the SDK.
	// Default: noop (silent). See the log sub-package for the interface.
	Logger log.Logger
}

func (c *Config) defaults() error {
	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("could not get user home dir: %w", err)
		}
		c.DataDir = filepath.Join(home, conventions.DefaultDataDir)
	}

	if c.Storage == "" {
		c.Storage = StorageSQLite
	}

	if c.DBPath == "" {
		c.DBPath = conventions.DBPath(c.DataDir)
	}

	if c.FileDir == "" {
		c.FileDir = conventions.KVPath(c.DataDir)
	}

	if c.RedisKeyPrefix == "" {
		c.RedisKeyPrefix = conventions.DefaultRedisKeyPrefix
	}

	if c.RecoverPolicy == "" {
		c.RecoverPolicy = RecoverResume
	}

	if c.CheckpointInterval == 0 {
		c.CheckpointInterval = conventions.DefaultCheckpointInterval
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Client is the main SDK entry point for driving a task board programmatically.
//
// Create a Client with [New] and release its resources with [Client.Close].
// A Client is safe for concurrent use, mutations are serialized.
type Client struct {
	board              *board.Service
	logger             log.Logger
	checkpointInterval time.Duration
	closeFn            func() error
}

// New opens the board storage and returns a client for it.
//
// Timers left running by a previous process are handled following
// [Config].RecoverPolicy and the board is verified before returning.
//
// The caller must call [Client.Close] when done. Typically used with defer:
//
//	client, err := lib.New(ctx, lib.Config{})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	repo, err := backend.Open(ctx, model.StorageConfig{
		Backend:        model.StorageBackend(cfg.Storage),
		SQLitePath:     cfg.DBPath,
		FileDir:        cfg.FileDir,
		RedisAddress:   cfg.RedisAddress,
		RedisKeyPrefix: cfg.RedisKeyPrefix,
	}, cfg.Logger)
	if err != nil {
		return nil, mapError(fmt.Errorf("could not open storage: %w", err))
	}

	svc, err := board.NewService(board.ServiceConfig{
		Repository: repo,
		Logger:     cfg.Logger,
	})
	if err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("could not create board: %w", err)
	}

	if _, err := svc.Recover(ctx, model.RecoverPolicy(cfg.RecoverPolicy)); err != nil {
		_ = repo.Close()
		return nil, mapError(fmt.Errorf("could not recover board: %w", err))
	}

	return &Client{
		board:              svc,
		logger:             cfg.Logger,
		checkpointInterval: cfg.CheckpointInterval,
		closeFn:            repo.Close,
	}, nil
}

// Close releases resources held by the client, including the storage connection.
// After Close returns, the client must not be used.
func (c *Client) Close() error {
	if c.closeFn != nil {
		return c.closeFn()
	}
	return nil
}
