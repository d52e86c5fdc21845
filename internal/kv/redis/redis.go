package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/slok/staffboard/internal/kv"
	"github.com/slok/staffboard/internal/log"
)

// StoreConfig is the configuration for the Redis store.
type StoreConfig struct {
	// Client is optional, when missing a client for Address is created and owned by the store.
	Client  rueidis.Client
	Address string
	// KeyPrefix namespaces the keys so several boards can share a Redis.
	KeyPrefix string
	Logger    log.Logger
}

func (c *StoreConfig) defaults() error {
	if c.Client == nil && c.Address == "" {
		return fmt.Errorf("address or client is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "kv.Redis"})
	return nil
}

// Store is a kv.Store backed by Redis string keys.
type Store struct {
	client    rueidis.Client
	ownClient bool
	prefix    string
	logger    log.Logger
}

var _ kv.Store = &Store{}

// NewStore creates a new Redis store.
func NewStore(cfg StoreConfig) (*Store, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client := cfg.Client
	own := false
	if client == nil {
		c, err := rueidis.NewClient(rueidis.ClientOption{
			InitAddress: []string{cfg.Address},
		})
		if err != nil {
			return nil, fmt.Errorf("could not create redis client: %w", err)
		}
		client = c
		own = true
	}

	return &Store{
		client:    client,
		ownClient: own,
		prefix:    cfg.KeyPrefix,
		logger:    cfg.Logger,
	}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	cmd := s.client.B().Get().Key(s.prefix + key).Build()
	data, err := s.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("could not get key %s: %w", key, err)
	}

	return data, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	cmd := s.client.B().Set().Key(s.prefix + key).Value(rueidis.BinaryString(value)).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("could not set key %s: %w", key, err)
	}

	s.logger.Debugf("Stored key %s (%d bytes)", s.prefix+key, len(value))
	return nil
}

// Close closes the Redis client when the store created it.
func (s *Store) Close() error {
	if s.ownClient {
		s.client.Close()
	}
	return nil
}
