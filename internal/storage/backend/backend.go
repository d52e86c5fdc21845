// Package backend opens the board repository for the configured storage backend.
package backend

import (
	"context"
	"fmt"

	"github.com/slok/staffboard/internal/conventions"
	"github.com/slok/staffboard/internal/kv/file"
	"github.com/slok/staffboard/internal/kv/redis"
	"github.com/slok/staffboard/internal/log"
	"github.com/slok/staffboard/internal/model"
	"github.com/slok/staffboard/internal/storage"
	"github.com/slok/staffboard/internal/storage/keyvalue"
	"github.com/slok/staffboard/internal/storage/memory"
	"github.com/slok/staffboard/internal/storage/sqlite"
)

// DefaultBoardConfig returns the board configuration used when nothing is configured.
func DefaultBoardConfig(dataDir string) model.BoardConfig {
	return model.BoardConfig{
		Storage: model.StorageConfig{
			Backend:        model.StorageBackendSQLite,
			SQLitePath:     conventions.DBPath(dataDir),
			FileDir:        conventions.KVPath(dataDir),
			RedisKeyPrefix: conventions.DefaultRedisKeyPrefix,
		},
		Timer: model.TimerConfig{
			DisplayInterval:    conventions.DefaultDisplayInterval,
			CheckpointInterval: conventions.DefaultCheckpointInterval,
			RecoverPolicy:      model.RecoverPolicyResume,
		},
		HTTP: model.HTTPConfig{
			ListenAddress:      conventions.DefaultListenAddress,
			RateLimitPerMinute: conventions.DefaultRateLimitPerMinute,
		},
	}
}

// Repository is an opened board repository.
type Repository struct {
	storage.Repository
	closeFn func() error
}

// Close releases the resources of the backend.
func (r *Repository) Close() error {
	if r.closeFn == nil {
		return nil
	}
	return r.closeFn()
}

// Open opens the repository of a storage backend.
func Open(ctx context.Context, cfg model.StorageConfig, logger log.Logger) (*Repository, error) {
	if logger == nil {
		logger = log.Noop
	}

	switch cfg.Backend {
	case model.StorageBackendSQLite:
		repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
			DBPath: cfg.SQLitePath,
			Logger: logger,
		})
		if err != nil {
			return nil, fmt.Errorf("could not open sqlite storage: %w", err)
		}
		return &Repository{Repository: repo, closeFn: repo.Close}, nil

	case model.StorageBackendFile:
		store, err := file.NewStore(file.StoreConfig{
			Dir:    cfg.FileDir,
			Logger: logger,
		})
		if err != nil {
			return nil, fmt.Errorf("could not open file storage: %w", err)
		}
		repo, err := keyvalue.NewRepository(keyvalue.RepositoryConfig{Store: store, Logger: logger})
		if err != nil {
			return nil, fmt.Errorf("could not create key-value repository: %w", err)
		}
		return &Repository{Repository: repo}, nil

	case model.StorageBackendRedis:
		store, err := redis.NewStore(redis.StoreConfig{
			Address:   cfg.RedisAddress,
			KeyPrefix: cfg.RedisKeyPrefix,
			Logger:    logger,
		})
		if err != nil {
			return nil, fmt.Errorf("could not open redis storage: %w", err)
		}
		repo, err := keyvalue.NewRepository(keyvalue.RepositoryConfig{Store: store, Logger: logger})
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("could not create key-value repository: %w", err)
		}
		return &Repository{Repository: repo, closeFn: store.Close}, nil

	case model.StorageBackendMemory:
		repo, err := memory.NewRepository(memory.RepositoryConfig{Logger: logger})
		if err != nil {
			return nil, fmt.Errorf("could not create memory repository: %w", err)
		}
		return &Repository{Repository: repo}, nil
	}

	return nil, fmt.Errorf("unknown storage backend %q: %w", cfg.Backend, model.ErrNotValid)
}
