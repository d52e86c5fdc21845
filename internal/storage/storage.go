package storage

//go:generate mockery --case underscore --output storagemock --outpkg storagemock --name Repository

import (
	"context"

	"github.com/slok/staffboard/internal/model"
)

// TaskRepository is the task entity store.
type TaskRepository interface {
	CreateTask(ctx context.Context, t model.Task) error
	GetTask(ctx context.Context, id string) (*model.Task, error)
	// ListTasks returns all the tasks ordered by creation time.
	ListTasks(ctx context.Context) ([]model.Task, error)
	// UpdateTask stores the task only if the stored version is t.Version, the stored
	// version is incremented. Returns model.ErrConflict when the versions differ.
	UpdateTask(ctx context.Context, t model.Task) error
	// DeleteTask deletes a task and clears the active task reference if it points to it.
	DeleteTask(ctx context.Context, id string) error
}

// BoardStateRepository stores the board level state.
type BoardStateRepository interface {
	// GetActiveTaskID returns the active task reference, empty if none.
	GetActiveTaskID(ctx context.Context) (string, error)
	// SetActiveTaskID sets the active task reference, empty clears it.
	SetActiveTaskID(ctx context.Context, id string) error
}

// AnalyticsRepository is the append only analytics log.
type AnalyticsRepository interface {
	// ListAnalytics returns the analytics log newest first.
	ListAnalytics(ctx context.Context) ([]model.AnalyticsEntry, error)
	// ArchiveTask prepends the entry to the analytics log, removes the task (entry.ID)
	// and clears the active task reference if it points to it, as a single unit.
	// The removal is conditioned to the task stored version being taskVersion.
	ArchiveTask(ctx context.Context, entry model.AnalyticsEntry, taskVersion uint64) error
}

// Repository is the board persistence.
type Repository interface {
	TaskRepository
	BoardStateRepository
	AnalyticsRepository
}
