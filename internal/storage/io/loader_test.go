package io

import (
	"context"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/staffboard/internal/model"
)

func baseConfig() model.BoardConfig {
	return model.BoardConfig{
		Storage: model.StorageConfig{
			Backend:        model.StorageBackendSQLite,
			SQLitePath:     "/home/user/.staffboard/staffboard.db",
			FileDir:        "/home/user/.staffboard/kv",
			RedisKeyPrefix: "staffboard:",
		},
		Timer: model.TimerConfig{
			DisplayInterval:    time.Second,
			CheckpointInterval: 5 * time.Second,
			RecoverPolicy:      model.RecoverPolicyResume,
		},
		HTTP: model.HTTPConfig{
			ListenAddress:      "127.0.0.1:8089",
			RateLimitPerMinute: 600,
		},
	}
}

func TestConfigYAMLRepository_GetConfig(t *testing.T) {
	tests := map[string]struct {
		fs     fstest.MapFS
		path   string
		expCfg func() model.BoardConfig
		expErr bool
		errMsg string
	}{
		"Empty config should keep the base config": {
			fs: fstest.MapFS{
				"board.yaml": &fstest.MapFile{Data: []byte("---\n")},
			},
			path:   "board.yaml",
			expCfg: baseConfig,
		},

		"Redis storage config should override the storage settings": {
			fs: fstest.MapFS{
				"board.yaml": &fstest.MapFile{
					Data: []byte(`storage:
  backend: redis
  redis:
    address: 127.0.0.1:6379
    key_prefix: "team-a:"
`),
				},
			},
			path: "board.yaml",
			expCfg: func() model.BoardConfig {
				c := baseConfig()
				c.Storage.Backend = model.StorageBackendRedis
				c.Storage.RedisAddress = "127.0.0.1:6379"
				c.Storage.RedisKeyPrefix = "team-a:"
				return c
			},
		},

		"Timer and HTTP settings should be loaded": {
			fs: fstest.MapFS{
				"board.yaml": &fstest.MapFile{
					Data: []byte(`timer:
  display_interval: 500ms
  checkpoint_interval: 30s
  recover_policy: checkpoint
http:
  listen_address: 0.0.0.0:9000
  rate_limit_per_minute: 0
`),
				},
			},
			path: "board.yaml",
			expCfg: func() model.BoardConfig {
				c := baseConfig()
				c.Timer.DisplayInterval = 500 * time.Millisecond
				c.Timer.CheckpointInterval = 30 * time.Second
				c.Timer.RecoverPolicy = model.RecoverPolicyCheckpoint
				c.HTTP.ListenAddress = "0.0.0.0:9000"
				c.HTTP.RateLimitPerMinute = 0
				return c
			},
		},

		"Missing file should return error": {
			fs:     fstest.MapFS{},
			path:   "nonexistent.yaml",
			expErr: true,
			errMsg: "reading config file",
		},

		"Invalid YAML should return error": {
			fs: fstest.MapFS{
				"invalid.yaml": &fstest.MapFile{Data: []byte(`invalid: yaml: content: {}`)},
			},
			path:   "invalid.yaml",
			expErr: true,
			errMsg: "parsing YAML",
		},

		"Unknown backend should return error": {
			fs: fstest.MapFS{
				"board.yaml": &fstest.MapFile{Data: []byte("storage:\n  backend: postgres\n")},
			},
			path:   "board.yaml",
			expErr: true,
			errMsg: "unknown storage backend",
		},

		"Invalid duration should return error": {
			fs: fstest.MapFS{
				"board.yaml": &fstest.MapFile{Data: []byte("timer:\n  checkpoint_interval: often\n")},
			},
			path:   "board.yaml",
			expErr: true,
			errMsg: "checkpoint_interval is not a duration",
		},

		"Negative duration should return error": {
			fs: fstest.MapFS{
				"board.yaml": &fstest.MapFile{Data: []byte("timer:\n  display_interval: -1s\n")},
			},
			path:   "board.yaml",
			expErr: true,
			errMsg: "display_interval must be positive",
		},

		"Unknown recover policy should return error": {
			fs: fstest.MapFS{
				"board.yaml": &fstest.MapFile{Data: []byte("timer:\n  recover_policy: rewind\n")},
			},
			path:   "board.yaml",
			expErr: true,
			errMsg: "unknown recover_policy",
		},

		"Redis backend without address should fail the board validation": {
			fs: fstest.MapFS{
				"board.yaml": &fstest.MapFile{Data: []byte("storage:\n  backend: redis\n")},
			},
			path:   "board.yaml",
			expErr: true,
			errMsg: "redis address is required",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			repo := NewConfigYAMLRepository(test.fs)
			cfg, err := repo.GetConfig(context.Background(), test.path, baseConfig())

			if test.expErr {
				require.Error(err)
				assert.Contains(err.Error(), test.errMsg)
				return
			}

			require.NoError(err)
			assert.Equal(test.expCfg(), cfg)
		})
	}
}
