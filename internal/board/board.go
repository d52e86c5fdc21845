// Package board is the task board: it owns every mutation of the task store and
// keeps the board wide rules, a single running timer and the active task reference.
package board

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"k8s.io/utils/clock"

	"github.com/slok/staffboard/internal/log"
	"github.com/slok/staffboard/internal/model"
	"github.com/slok/staffboard/internal/storage"
)

// ServiceConfig is the configuration for the board service.
type ServiceConfig struct {
	Repository storage.Repository
	Clock      clock.PassiveClock
	Logger     log.Logger
	// IDGenerator returns new task IDs, defaults to ULIDs.
	IDGenerator func() string
	// MaxConflictRetries is how many times an operation is retried when the
	// store reports a concurrent write.
	MaxConflictRetries int
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Clock == nil {
		c.Clock = clock.RealClock{}
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "board.Service"})

	if c.IDGenerator == nil {
		c.IDGenerator = func() string { return ulid.Make().String() }
	}

	if c.MaxConflictRetries == 0 {
		c.MaxConflictRetries = 3
	}
	if c.MaxConflictRetries < 0 {
		return fmt.Errorf("max conflict retries can't be negative")
	}

	return nil
}

// Service is the board service. Mutations are serialized, reads go straight to
// the repository.
type Service struct {
	repo       storage.Repository
	clock      clock.PassiveClock
	logger     log.Logger
	newID      func() string
	maxRetries int

	mu sync.Mutex
}

// NewService creates a new board service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:       cfg.Repository,
		clock:      cfg.Clock,
		logger:     cfg.Logger,
		newID:      cfg.IDGenerator,
		maxRetries: cfg.MaxConflictRetries,
	}, nil
}

// mutate runs a read-modify-write operation holding the board lock. Operations
// that lose a compare-and-set against another writer are run again from a fresh read.
func (s *Service) mutate(ctx context.Context, op string, fn func(ctx context.Context, now time.Time) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for attempt := 0; ; attempt++ {
		err := fn(ctx, s.now())
		if err == nil || !errors.Is(err, model.ErrConflict) || attempt >= s.maxRetries {
			return err
		}

		s.logger.Debugf("Concurrent write on %s, retrying (%d/%d): %s", op, attempt+1, s.maxRetries, err)
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// now returns the current time with the millisecond precision the stores keep.
func (s *Service) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Millisecond)
}

// save persists a task and keeps its version in sync with the stored one.
func (s *Service) save(ctx context.Context, t *model.Task, now time.Time) error {
	t.UpdatedAt = now
	if err := s.repo.UpdateTask(ctx, *t); err != nil {
		return fmt.Errorf("could not update task %s: %w", t.ID, err)
	}
	t.Version++

	return nil
}

func (s *Service) getTask(ctx context.Context, id string) (*model.Task, error) {
	t, err := s.repo.GetTask(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, fmt.Errorf("task %s not found: %w", id, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not get task: %w", err)
	}
	return t, nil
}

// activeTasks returns the tasks with a running timer.
func activeTasks(tasks []model.Task) []model.Task {
	active := []model.Task{}
	for _, t := range tasks {
		if t.Active {
			active = append(active, t)
		}
	}
	return active
}
