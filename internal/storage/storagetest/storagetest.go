// Package storagetest has the behaviour tests every storage.Repository
// implementation must pass.
package storagetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/staffboard/internal/model"
	"github.com/slok/staffboard/internal/storage"
)

var t0 = time.Date(2026, 1, 30, 10, 0, 0, 0, time.UTC)

// TaskFixture returns a valid backlog task created at t0 plus offset.
func TaskFixture(id string, offset time.Duration) model.Task {
	return model.Task{
		ID:                   id,
		Codename:             "codename-" + id,
		StaffingTimeEstimate: "01:30",
		Column:               model.ColumnIncoming,
		Notes:                "notes of " + id,
		CreatedAt:            t0.Add(offset),
		UpdatedAt:            t0.Add(offset),
	}
}

// RunningTaskFixture returns a valid task with a running doing timer.
func RunningTaskFixture(id string) model.Task {
	t := TaskFixture(id, 0)
	started := t0.Add(time.Hour)
	t.Column = model.ColumnInProgress
	t.Times = model.PhaseTimes{Doing: 10, Waiting: 20, Fixing: 30}
	t.Active = true
	t.ActiveTimer = model.PhaseDoing
	t.TimerStartedAt = &started
	t.CheckpointSeconds = 42
	return t
}

// EntryFixture returns an analytics entry for a task ID.
func EntryFixture(id string) model.AnalyticsEntry {
	return model.AnalyticsEntry{
		ID:                   id,
		Codename:             "codename-" + id,
		StaffingTimeEstimate: "01:30",
		Notes:                "notes of " + id,
		CreatedAt:            t0,
		CompletedAt:          t0.Add(24 * time.Hour),
		Times:                model.PhaseTimes{Doing: 100, Waiting: 30, Fixing: 50},
		TotalTime:            150,
		SLA:                  86400,
	}
}

// RunRepositoryTests runs the repository behaviour tests using a fresh
// repository from newRepo on every test.
func RunRepositoryTests(t *testing.T, newRepo func(t *testing.T) storage.Repository) {
	tests := map[string]struct {
		run func(ctx context.Context, t *testing.T, repo storage.Repository)
	}{
		"Creating and getting a task should return the same task.": {
			run: func(ctx context.Context, t *testing.T, repo storage.Repository) {
				task := RunningTaskFixture("t1")
				require.NoError(t, repo.CreateTask(ctx, task))

				got, err := repo.GetTask(ctx, "t1")
				require.NoError(t, err)
				assert.Equal(t, task, *got)
			},
		},

		"Creating a duplicated task should fail.": {
			run: func(ctx context.Context, t *testing.T, repo storage.Repository) {
				require.NoError(t, repo.CreateTask(ctx, TaskFixture("t1", 0)))
				err := repo.CreateTask(ctx, TaskFixture("t1", 0))
				assert.True(t, errors.Is(err, model.ErrAlreadyExists))
			},
		},

		"Creating an invalid task should fail.": {
			run: func(ctx context.Context, t *testing.T, repo storage.Repository) {
				task := TaskFixture("t1", 0)
				task.Active = true
				err := repo.CreateTask(ctx, task)
				assert.True(t, errors.Is(err, model.ErrNotValid))
			},
		},

		"Getting a missing task should fail with not found.": {
			run: func(ctx context.Context, t *testing.T, repo storage.Repository) {
				_, err := repo.GetTask(ctx, "missing")
				assert.True(t, errors.Is(err, model.ErrNotFound))
			},
		},

		"Listing tasks should return them ordered by creation.": {
			run: func(ctx context.Context, t *testing.T, repo storage.Repository) {
				require.NoError(t, repo.CreateTask(ctx, TaskFixture("t2", 2*time.Minute)))
				require.NoError(t, repo.CreateTask(ctx, TaskFixture("t3", 3*time.Minute)))
				require.NoError(t, repo.CreateTask(ctx, TaskFixture("t1", time.Minute)))

				tasks, err := repo.ListTasks(ctx)
				require.NoError(t, err)
				ids := []string{}
				for _, task := range tasks {
					ids = append(ids, task.ID)
				}
				assert.Equal(t, []string{"t1", "t2", "t3"}, ids)
			},
		},

		"Updating a task with the stored version should increment the version.": {
			run: func(ctx context.Context, t *testing.T, repo storage.Repository) {
				require.NoError(t, repo.CreateTask(ctx, TaskFixture("t1", 0)))

				task, err := repo.GetTask(ctx, "t1")
				require.NoError(t, err)
				task.Notes = "updated"
				task.Column = model.ColumnWaiting
				require.NoError(t, repo.UpdateTask(ctx, *task))

				got, err := repo.GetTask(ctx, "t1")
				require.NoError(t, err)
				assert.Equal(t, "updated", got.Notes)
				assert.Equal(t, model.ColumnWaiting, got.Column)
				assert.Equal(t, task.Version+1, got.Version)
			},
		},

		"Updating a task with a stale version should fail with conflict.": {
			run: func(ctx context.Context, t *testing.T, repo storage.Repository) {
				require.NoError(t, repo.CreateTask(ctx, TaskFixture("t1", 0)))

				first, err := repo.GetTask(ctx, "t1")
				require.NoError(t, err)
				second := first.Copy()

				first.Times.Doing = 60
				require.NoError(t, repo.UpdateTask(ctx, *first))

				second.Times.Doing = 120
				err = repo.UpdateTask(ctx, second)
				assert.True(t, errors.Is(err, model.ErrConflict))

				got, err := repo.GetTask(ctx, "t1")
				require.NoError(t, err)
				assert.Equal(t, int64(60), got.Times.Doing)
			},
		},

		"Updating a missing task should fail with not found.": {
			run: func(ctx context.Context, t *testing.T, repo storage.Repository) {
				err := repo.UpdateTask(ctx, TaskFixture("t1", 0))
				assert.True(t, errors.Is(err, model.ErrNotFound))
			},
		},

		"Deleting a task should remove it and clear the active reference.": {
			run: func(ctx context.Context, t *testing.T, repo storage.Repository) {
				require.NoError(t, repo.CreateTask(ctx, RunningTaskFixture("t1")))
				require.NoError(t, repo.SetActiveTaskID(ctx, "t1"))

				require.NoError(t, repo.DeleteTask(ctx, "t1"))

				_, err := repo.GetTask(ctx, "t1")
				assert.True(t, errors.Is(err, model.ErrNotFound))
				id, err := repo.GetActiveTaskID(ctx)
				require.NoError(t, err)
				assert.Empty(t, id)

				err = repo.DeleteTask(ctx, "t1")
				assert.True(t, errors.Is(err, model.ErrNotFound))
			},
		},

		"Deleting a task should keep the active reference of other tasks.": {
			run: func(ctx context.Context, t *testing.T, repo storage.Repository) {
				require.NoError(t, repo.CreateTask(ctx, TaskFixture("t1", 0)))
				require.NoError(t, repo.SetActiveTaskID(ctx, "t2"))

				require.NoError(t, repo.DeleteTask(ctx, "t1"))

				id, err := repo.GetActiveTaskID(ctx)
				require.NoError(t, err)
				assert.Equal(t, "t2", id)
			},
		},

		"The active reference should be settable and clearable.": {
			run: func(ctx context.Context, t *testing.T, repo storage.Repository) {
				id, err := repo.GetActiveTaskID(ctx)
				require.NoError(t, err)
				assert.Empty(t, id)

				require.NoError(t, repo.SetActiveTaskID(ctx, "t1"))
				id, err = repo.GetActiveTaskID(ctx)
				require.NoError(t, err)
				assert.Equal(t, "t1", id)

				require.NoError(t, repo.SetActiveTaskID(ctx, ""))
				id, err = repo.GetActiveTaskID(ctx)
				require.NoError(t, err)
				assert.Empty(t, id)
			},
		},

		"Archiving should prepend the entry, remove the task and clear the reference.": {
			run: func(ctx context.Context, t *testing.T, repo storage.Repository) {
				require.NoError(t, repo.CreateTask(ctx, TaskFixture("t1", 0)))
				require.NoError(t, repo.CreateTask(ctx, TaskFixture("t2", time.Minute)))
				require.NoError(t, repo.SetActiveTaskID(ctx, "t2"))

				require.NoError(t, repo.ArchiveTask(ctx, EntryFixture("t1"), 0))
				require.NoError(t, repo.ArchiveTask(ctx, EntryFixture("t2"), 0))

				entries, err := repo.ListAnalytics(ctx)
				require.NoError(t, err)
				require.Len(t, entries, 2)
				assert.Equal(t, EntryFixture("t2"), entries[0])
				assert.Equal(t, EntryFixture("t1"), entries[1])

				tasks, err := repo.ListTasks(ctx)
				require.NoError(t, err)
				assert.Empty(t, tasks)

				id, err := repo.GetActiveTaskID(ctx)
				require.NoError(t, err)
				assert.Empty(t, id)
			},
		},

		"Archiving a stale task version should fail and change nothing.": {
			run: func(ctx context.Context, t *testing.T, repo storage.Repository) {
				require.NoError(t, repo.CreateTask(ctx, TaskFixture("t1", 0)))
				task, err := repo.GetTask(ctx, "t1")
				require.NoError(t, err)
				require.NoError(t, repo.UpdateTask(ctx, *task))

				err = repo.ArchiveTask(ctx, EntryFixture("t1"), task.Version)
				assert.True(t, errors.Is(err, model.ErrConflict))

				entries, err := repo.ListAnalytics(ctx)
				require.NoError(t, err)
				assert.Empty(t, entries)
				_, err = repo.GetTask(ctx, "t1")
				assert.NoError(t, err)
			},
		},

		"Archiving a missing task should fail with not found.": {
			run: func(ctx context.Context, t *testing.T, repo storage.Repository) {
				err := repo.ArchiveTask(ctx, EntryFixture("t1"), 0)
				assert.True(t, errors.Is(err, model.ErrNotFound))
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			test.run(context.Background(), t, newRepo(t))
		})
	}
}
