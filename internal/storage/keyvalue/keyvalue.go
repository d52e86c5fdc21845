// Package keyvalue implements storage.Repository over a kv.Store using one key per
// collection, the same layout the browser board keeps in its local storage.
package keyvalue

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/slok/staffboard/internal/conventions"
	"github.com/slok/staffboard/internal/kv"
	"github.com/slok/staffboard/internal/log"
	"github.com/slok/staffboard/internal/model"
	"github.com/slok/staffboard/internal/storage"
)

// RepositoryConfig is the configuration for the key-value repository.
type RepositoryConfig struct {
	Store  kv.Store
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.Store == nil {
		return fmt.Errorf("store is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.KeyValue"})
	return nil
}

// Repository is a storage.Repository over a key-value store.
//
// Every operation reads the keys it needs from the store so several processes can
// share it. When a write fails the error is logged and the value is kept in memory,
// serving the following reads, until a later write of the same key succeeds.
type Repository struct {
	store   kv.Store
	pending map[string][]byte
	mu      sync.Mutex
	logger  log.Logger
}

var _ storage.Repository = &Repository{}

// NewRepository creates a new key-value repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		store:   cfg.Store,
		pending: map[string][]byte{},
		logger:  cfg.Logger,
	}, nil
}

// PendingKeys returns the keys whose last write could not be persisted.
func (r *Repository) PendingKeys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, len(r.pending))
	for k := range r.pending {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// CreateTask creates a new task in the repository.
func (r *Repository) CreateTask(ctx context.Context, t model.Task) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("invalid task: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, err := r.loadTasks(ctx)
	if err != nil {
		return err
	}
	if _, ok := find(tasks, t.ID); ok {
		return fmt.Errorf("task with id %s: %w", t.ID, model.ErrAlreadyExists)
	}

	tasks = append(tasks, mapTaskToV1(t))
	if err := r.save(ctx, conventions.TasksKey, tasks); err != nil {
		return err
	}

	r.logger.Debugf("Created task in repository: %s", t.ID)
	return nil
}

// GetTask retrieves a task by ID.
func (r *Repository) GetTask(ctx context.Context, id string) (*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, err := r.loadTasks(ctx)
	if err != nil {
		return nil, err
	}
	i, ok := find(tasks, id)
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}

	t := mapTaskFromV1(tasks[i])
	return &t, nil
}

// ListTasks returns all tasks, oldest first.
func (r *Repository) ListTasks(ctx context.Context) ([]model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	dtos, err := r.loadTasks(ctx)
	if err != nil {
		return nil, err
	}

	tasks := make([]model.Task, 0, len(dtos))
	for _, dto := range dtos {
		tasks = append(tasks, mapTaskFromV1(dto))
	}
	sort.SliceStable(tasks, func(i, j int) bool {
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

	tasks, err := r.loadTasks(ctx)
	if err != nil {
		return err
	}
	i, ok := find(tasks, t.ID)
	if !ok {
		return fmt.Errorf("task %s: %w", t.ID, model.ErrNotFound)
	}
	if tasks[i].Version != t.Version {
		return fmt.Errorf("task %s version %d, got %d: %w", t.ID, tasks[i].Version, t.Version, model.ErrConflict)
	}

	t.Version++
	tasks[i] = mapTaskToV1(t)
	if err := r.save(ctx, conventions.TasksKey, tasks); err != nil {
		return err
	}

	r.logger.Debugf("Updated task in repository: %s (v%d)", t.ID, t.Version)
	return nil
}

// DeleteTask deletes a task, the active reference is cleared if it pointed to it.
func (r *Repository) DeleteTask(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, err := r.loadTasks(ctx)
	if err != nil {
		return err
	}
	i, ok := find(tasks, id)
	if !ok {
		return fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}

	tasks = append(tasks[:i], tasks[i+1:]...)
	if err := r.save(ctx, conventions.TasksKey, tasks); err != nil {
		return err
	}
	if err := r.clearActiveRef(ctx, id); err != nil {
		return err
	}

	r.logger.Debugf("Deleted task from repository: %s", id)
	return nil
}

// GetActiveTaskID returns the active task reference.
func (r *Repository) GetActiveTaskID(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.loadActive(ctx)
}

// SetActiveTaskID sets the active task reference.
func (r *Repository) SetActiveTaskID(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.saveActive(ctx, id)
}

// ListAnalytics returns the analytics log newest first.
func (r *Repository) ListAnalytics(ctx context.Context) ([]model.AnalyticsEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	dtos, err := r.loadAnalytics(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]model.AnalyticsEntry, 0, len(dtos))
	for _, dto := range dtos {
		entries = append(entries, mapEntryFromV1(dto))
	}

	return entries, nil
}

// ArchiveTask moves a task into the analytics log. The analytics log is written
// before the task collection so an interrupted archival never loses the entry.
func (r *Repository) ArchiveTask(ctx context.Context, entry model.AnalyticsEntry, taskVersion uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, err := r.loadTasks(ctx)
	if err != nil {
		return err
	}
	i, ok := find(tasks, entry.ID)
	if !ok {
		return fmt.Errorf("task %s: %w", entry.ID, model.ErrNotFound)
	}
	if tasks[i].Version != taskVersion {
		return fmt.Errorf("task %s version %d, got %d: %w", entry.ID, tasks[i].Version, taskVersion, model.ErrConflict)
	}

	entries, err := r.loadAnalytics(ctx)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.ID == entry.ID {
			return fmt.Errorf("analytics entry %s: %w", entry.ID, model.ErrAlreadyExists)
		}
	}

	entries = append([]analyticsEntryV1{mapEntryToV1(entry)}, entries...)
	if err := r.save(ctx, conventions.AnalyticsKey, entries); err != nil {
		return err
	}

	tasks = append(tasks[:i], tasks[i+1:]...)
	if err := r.save(ctx, conventions.TasksKey, tasks); err != nil {
		return err
	}
	if err := r.clearActiveRef(ctx, entry.ID); err != nil {
		return err
	}

	r.logger.Debugf("Archived task in repository: %s", entry.ID)
	return nil
}

func (r *Repository) loadTasks(ctx context.Context) ([]taskV1, error) {
	tasks := []taskV1{}
	if err := r.load(ctx, conventions.TasksKey, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *Repository) loadAnalytics(ctx context.Context) ([]analyticsEntryV1, error) {
	entries := []analyticsEntryV1{}
	if err := r.load(ctx, conventions.AnalyticsKey, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *Repository) loadActive(ctx context.Context) (string, error) {
	var id *string
	if err := r.load(ctx, conventions.ActiveTaskKey, &id); err != nil {
		return "", err
	}
	if id == nil {
		return "", nil
	}
	return *id, nil
}

func (r *Repository) saveActive(ctx context.Context, id string) error {
	var v *string
	if id != "" {
		v = &id
	}
	return r.save(ctx, conventions.ActiveTaskKey, v)
}

func (r *Repository) clearActiveRef(ctx context.Context, id string) error {
	active, err := r.loadActive(ctx)
	if err != nil {
		return err
	}
	if active != id {
		return nil
	}
	return r.saveActive(ctx, "")
}

// load decodes a key into dst, dst is left untouched when the key is missing.
func (r *Repository) load(ctx context.Context, key string, dst any) error {
	data, ok := r.pending[key]
	if !ok {
		var err error
		data, ok, err = r.store.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("could not get %s: %w", key, err)
		}
	}
	if !ok || len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("could not decode %s: %w", key, err)
	}

	return nil
}

func (r *Repository) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("could not encode %s: %w", key, err)
	}

	if err := r.store.Set(ctx, key, data); err != nil {
		r.pending[key] = data
		r.logger.Errorf("Could not persist %s, keeping it in memory until the next write: %s", key, err)
		return nil
	}
	delete(r.pending, key)

	return nil
}

func find(tasks []taskV1, id string) (int, bool) {
	for i, t := range tasks {
		if t.ID == id {
			return i, true
		}
	}
	return 0, false
}
