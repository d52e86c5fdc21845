package backend_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/staffboard/internal/model"
	"github.com/slok/staffboard/internal/storage/backend"
	"github.com/slok/staffboard/internal/storage/storagetest"
)

func TestDefaultBoardConfig(t *testing.T) {
	cfg := backend.DefaultBoardConfig("/home/user/.staffboard")

	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "/home/user/.staffboard/staffboard.db", cfg.Storage.SQLitePath)
	assert.Equal(t, "/home/user/.staffboard/kv", cfg.Storage.FileDir)
}

func TestOpen(t *testing.T) {
	tests := map[string]struct {
		cfg    func(dir string) model.StorageConfig
		expErr bool
	}{
		"Opening a sqlite backend should work.": {
			cfg: func(dir string) model.StorageConfig {
				return model.StorageConfig{Backend: model.StorageBackendSQLite, SQLitePath: filepath.Join(dir, "board.db")}
			},
		},

		"Opening a file backend should work.": {
			cfg: func(dir string) model.StorageConfig {
				return model.StorageConfig{Backend: model.StorageBackendFile, FileDir: filepath.Join(dir, "kv")}
			},
		},

		"Opening a memory backend should work.": {
			cfg: func(dir string) model.StorageConfig {
				return model.StorageConfig{Backend: model.StorageBackendMemory}
			},
		},

		"Opening a redis backend without address should fail.": {
			cfg: func(dir string) model.StorageConfig {
				return model.StorageConfig{Backend: model.StorageBackendRedis}
			},
			expErr: true,
		},

		"Opening an unknown backend should fail.": {
			cfg: func(dir string) model.StorageConfig {
				return model.StorageConfig{Backend: "postgres"}
			},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			ctx := context.Background()

			repo, err := backend.Open(ctx, test.cfg(t.TempDir()), nil)
			if test.expErr {
				assert.Error(t, err)
				return
			}
			require.NoError(err)
			defer repo.Close()

			require.NoError(repo.CreateTask(ctx, storagetest.TaskFixture("t1", 0)))
			got, err := repo.GetTask(ctx, "t1")
			require.NoError(err)
			assert.Equal(t, "t1", got.ID)
		})
	}
}
