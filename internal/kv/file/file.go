package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/slok/staffboard/internal/kv"
	"github.com/slok/staffboard/internal/log"
	"github.com/slok/staffboard/internal/model"
)

// StoreConfig is the configuration for the file store.
type StoreConfig struct {
	Dir    string
	Logger log.Logger
}

func (c *StoreConfig) defaults() error {
	if c.Dir == "" {
		return fmt.Errorf("dir is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "kv.File"})
	return nil
}

// Store is a kv.Store that keeps every key in its own JSON file inside a directory.
// Writes are atomic, a reader never sees a partially written value.
type Store struct {
	dir    string
	logger log.Logger
}

var _ kv.Store = &Store{}

// NewStore creates a new file store, the directory is created if missing.
func NewStore(cfg StoreConfig) (*Store, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create store directory: %w", err)
	}

	return &Store{dir: cfg.Dir, logger: cfg.Logger}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("could not read key %s: %w", key, err)
	}

	return data, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("could not create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("could not write key %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("could not sync key %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("could not commit key %s: %w", key, err)
	}

	s.logger.Debugf("Stored key %s (%d bytes)", key, len(value))
	return nil
}

func (s *Store) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("invalid key %q: %w", key, model.ErrNotValid)
	}
	return filepath.Join(s.dir, key+".json"), nil
}
