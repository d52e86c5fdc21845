package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/slok/staffboard/internal/board"
	"github.com/slok/staffboard/internal/model"
	"github.com/slok/staffboard/internal/printer"
	"github.com/slok/staffboard/internal/storage/backend"
	storageio "github.com/slok/staffboard/internal/storage/io"
)

// BoardConfig resolves the board configuration: defaults, then the config file
// if any, then the flags set by the user.
func (c *RootCommand) BoardConfig(ctx context.Context) (model.BoardConfig, error) {
	cfg := backend.DefaultBoardConfig(c.DataDir)

	if c.ConfigFile != "" {
		path, err := filepath.Abs(c.ConfigFile)
		if err != nil {
			return model.BoardConfig{}, fmt.Errorf("invalid config path: %w", err)
		}

		repo := storageio.NewConfigYAMLRepository(os.DirFS(filepath.Dir(path)))
		cfg, err = repo.GetConfig(ctx, filepath.Base(path), cfg)
		if err != nil {
			return model.BoardConfig{}, fmt.Errorf("could not load config file: %w", err)
		}
	}

	if c.storageSet {
		cfg.Storage.Backend = model.StorageBackend(c.Storage)
	}
	if c.dbPathSet {
		cfg.Storage.SQLitePath = c.DBPath
	}
	if c.fileDirSet {
		cfg.Storage.FileDir = c.FileDir
	}
	if c.redisAddressSet {
		cfg.Storage.RedisAddress = c.RedisAddress
	}
	if c.redisKeyPrefixSet {
		cfg.Storage.RedisKeyPrefix = c.RedisKeyPrefix
	}
	if c.recoverPolicySet {
		cfg.Timer.RecoverPolicy = model.RecoverPolicy(c.RecoverPolicy)
	}

	if err := cfg.Validate(); err != nil {
		return model.BoardConfig{}, fmt.Errorf("invalid board configuration: %w", err)
	}

	return cfg, nil
}

type openMode int

const (
	// openOneShot resumes running timers, they are left running between invocations.
	openOneShot openMode = iota
	// openLongRunning applies the configured recover policy.
	openLongRunning
	// openUnverified skips the recovery, the board is returned as stored.
	openUnverified
)

// openBoard opens the configured storage and returns the board service recovered
// following the open mode. The returned close function must be called when done.
func (c *RootCommand) openBoard(ctx context.Context, mode openMode) (*board.Service, model.BoardConfig, func() error, error) {
	cfg, err := c.BoardConfig(ctx)
	if err != nil {
		return nil, model.BoardConfig{}, nil, err
	}

	repo, err := backend.Open(ctx, cfg.Storage, c.Logger)
	if err != nil {
		return nil, model.BoardConfig{}, nil, fmt.Errorf("could not create repository: %w", err)
	}

	svc, err := board.NewService(board.ServiceConfig{
		Repository: repo,
		Logger:     c.Logger,
	})
	if err != nil {
		_ = repo.Close()
		return nil, model.BoardConfig{}, nil, fmt.Errorf("could not create board service: %w", err)
	}

	if mode == openUnverified {
		return svc, cfg, repo.Close, nil
	}

	policy := model.RecoverPolicyResume
	if mode == openLongRunning {
		policy = cfg.Timer.RecoverPolicy
	}

	if _, err := svc.Recover(ctx, policy); err != nil {
		_ = repo.Close()
		return nil, model.BoardConfig{}, nil, fmt.Errorf("could not recover board: %w", err)
	}

	return svc, cfg, repo.Close, nil
}

func (c *RootCommand) printer(format string) printer.Printer {
	if format == formatJSON {
		return printer.NewJSONPrinter(c.Stdout)
	}
	return printer.NewTablePrinter(c.Stdout)
}
