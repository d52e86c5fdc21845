package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/slok/staffboard/internal/log"
	"github.com/slok/staffboard/internal/model"
	"github.com/slok/staffboard/internal/storage"
)

// RepositoryConfig is the configuration for the memory repository.
type RepositoryConfig struct {
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})
	return nil
}

// Repository is an in-memory implementation of storage.Repository.
type Repository struct {
	tasks        map[string]model.Task
	analytics    []model.AnalyticsEntry
	activeTaskID string
	mu           sync.RWMutex
	logger       log.Logger
}

var _ storage.Repository = &Repository{}

// NewRepository creates a new memory repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		tasks:  make(map[string]model.Task),
		logger: cfg.Logger,
	}, nil
}

// CreateTask creates a new task in the repository.
func (r *Repository) CreateTask(ctx context.Context, t model.Task) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("invalid task: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[t.ID]; ok {
		return fmt.Errorf("task with id %s: %w", t.ID, model.ErrAlreadyExists)
	}

	r.tasks[t.ID] = t.Copy()
	r.logger.Debugf("Created task in repository: %s", t.ID)

	return nil
}

// GetTask retrieves a task by ID.
func (r *Repository) GetTask(ctx context.Context, id string) (*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}

	taskCopy := t.Copy()
	return &taskCopy, nil
}

// ListTasks returns all tasks, oldest first.
func (r *Repository) ListTasks(ctx context.Context) ([]model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]model.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		tasks = append(tasks, t.Copy())
	}
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID < tasks[j].ID
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})

	return tasks, nil
}

// UpdateTask updates an existing task if its version matches the stored one.
func (r *Repository) UpdateTask(ctx context.Context, t model.Task) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("invalid task: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.tasks[t.ID]
	if !ok {
		return fmt.Errorf("task %s: %w", t.ID, model.ErrNotFound)
	}
	if stored.Version != t.Version {
		return fmt.Errorf("task %s version %d, got %d: %w", t.ID, stored.Version, t.Version, model.ErrConflict)
	}

	t = t.Copy()
	t.Version++
	r.tasks[t.ID] = t
	r.logger.Debugf("Updated task in repository: %s (v%d)", t.ID, t.Version)

	return nil
}

// DeleteTask deletes a task, the active reference is cleared if it pointed to it.
func (r *Repository) DeleteTask(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}

	delete(r.tasks, id)
	if r.activeTaskID == id {
		r.activeTaskID = ""
	}
	r.logger.Debugf("Deleted task from repository: %s", id)

	return nil
}

// GetActiveTaskID returns the active task reference.
func (r *Repository) GetActiveTaskID(ctx context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.activeTaskID, nil
}

// SetActiveTaskID sets the active task reference.
func (r *Repository) SetActiveTaskID(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.activeTaskID = id
	return nil
}

// ListAnalytics returns the analytics log newest first.
func (r *Repository) ListAnalytics(ctx context.Context) ([]model.AnalyticsEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]model.AnalyticsEntry, len(r.analytics))
	copy(entries, r.analytics)

	return entries, nil
}

// ArchiveTask moves a task into the analytics log.
func (r *Repository) ArchiveTask(ctx context.Context, entry model.AnalyticsEntry, taskVersion uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.tasks[entry.ID]
	if !ok {
		return fmt.Errorf("task %s: %w", entry.ID, model.ErrNotFound)
	}
	if stored.Version != taskVersion {
		return fmt.Errorf("task %s version %d, got %d: %w", entry.ID, stored.Version, taskVersion, model.ErrConflict)
	}
	for _, e := range r.analytics {
		if e.ID == entry.ID {
			return fmt.Errorf("analytics entry %s: %w", entry.ID, model.ErrAlreadyExists)
		}
	}

	r.analytics = append([]model.AnalyticsEntry{entry}, r.analytics...)
	delete(r.tasks, entry.ID)
	if r.activeTaskID == entry.ID {
		r.activeTaskID = ""
	}
	r.logger.Debugf("Archived task in repository: %s", entry.ID)

	return nil
}
