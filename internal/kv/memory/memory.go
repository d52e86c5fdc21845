package memory

import (
	"context"
	"sync"

	"github.com/slok/staffboard/internal/kv"
)

// Store is an in-memory kv.Store. State is lost when the process ends.
type Store struct {
	values map[string][]byte
	mu     sync.RWMutex
}

var _ kv.Store = &Store{}

// NewStore returns a new empty memory store.
func NewStore() *Store {
	return &Store{values: map[string][]byte{}}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}

	return append([]byte(nil), v...), true, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = append([]byte(nil), value...)
	return nil
}
