package lib_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/staffboard/pkg/lib"
)

// newTestClient creates a client with a temp SQLite DB for test isolation.
func newTestClient(t *testing.T) *lib.Client {
	t.Helper()

	client, err := lib.New(context.Background(), lib.Config{
		DataDir: t.TempDir(),
		DBPath:  filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}

func createTask(t *testing.T, client *lib.Client, codename string) *lib.Task {
	t.Helper()

	task, err := client.CreateTask(context.Background(), lib.CreateTaskOpts{Codename: codename, StaffingTimeEstimate: "01:00"})
	require.NoError(t, err)
	return task
}

func TestNew(t *testing.T) {
	tests := map[string]struct {
		cfg    func(dir string) lib.Config
		expErr bool
		expIs  error
	}{
		"Opening a SQLite board should work.": {
			cfg: func(dir string) lib.Config {
				return lib.Config{DataDir: dir}
			},
		},

		"Opening a file board should work.": {
			cfg: func(dir string) lib.Config {
				return lib.Config{DataDir: dir, Storage: lib.StorageFile}
			},
		},

		"Opening a memory board should work.": {
			cfg: func(dir string) lib.Config {
				return lib.Config{DataDir: dir, Storage: lib.StorageMemory, RecoverPolicy: lib.RecoverCheckpoint}
			},
		},

		"Opening a Redis board without address should fail.": {
			cfg: func(dir string) lib.Config {
				return lib.Config{DataDir: dir, Storage: lib.StorageRedis}
			},
			expErr: true,
		},

		"Opening an unknown storage should fail.": {
			cfg: func(dir string) lib.Config {
				return lib.Config{DataDir: dir, Storage: "postgres"}
			},
			expErr: true,
			expIs:  lib.ErrNotValid,
		},

		"Opening with an unknown recover policy should fail.": {
			cfg: func(dir string) lib.Config {
				return lib.Config{DataDir: dir, Storage: lib.StorageMemory, RecoverPolicy: "rewind"}
			},
			expErr: true,
			expIs:  lib.ErrNotValid,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			client, err := lib.New(context.Background(), test.cfg(t.TempDir()))
			if test.expErr {
				assert.Error(err)
				if test.expIs != nil {
					assert.ErrorIs(err, test.expIs)
				}
				return
			}
			require.NoError(t, err)
			assert.NoError(client.Close())
		})
	}
}

func TestTaskErrors(t *testing.T) {
	tests := map[string]struct {
		run   func(ctx context.Context, c *lib.Client, id string) error
		expIs error
	}{
		"Creating a task without codename should fail.": {
			run: func(ctx context.Context, c *lib.Client, id string) error {
				_, err := c.CreateTask(ctx, lib.CreateTaskOpts{StaffingTimeEstimate: "01:00"})
				return err
			},
			expIs: lib.ErrNotValid,
		},

		"Getting a missing task should fail.": {
			run: func(ctx context.Context, c *lib.Client, id string) error {
				_, err := c.GetTask(ctx, "missing")
				return err
			},
			expIs: lib.ErrNotFound,
		},

		"Starting a backlog task should fail.": {
			run: func(ctx context.Context, c *lib.Client, id string) error {
				_, err := c.StartTimer(ctx, id)
				return err
			},
			expIs: lib.ErrInvalidTransition,
		},

		"Pausing a paused task should fail.": {
			run: func(ctx context.Context, c *lib.Client, id string) error {
				_, err := c.PauseTimer(ctx, id)
				return err
			},
			expIs: lib.ErrNotActive,
		},

		"Moving to an unknown column should fail.": {
			run: func(ctx context.Context, c *lib.Client, id string) error {
				_, err := c.MoveTask(ctx, id, lib.Column("archived"))
				return err
			},
			expIs: lib.ErrNotValid,
		},

		"Moving the active task without a running timer should fail.": {
			run: func(ctx context.Context, c *lib.Client, id string) error {
				_, err := c.MoveActiveTask(ctx, 1)
				return err
			},
			expIs: lib.ErrNotActive,
		},

		"Archiving a task that is not completed should fail.": {
			run: func(ctx context.Context, c *lib.Client, id string) error {
				_, err := c.ArchiveTask(ctx, id)
				return err
			},
			expIs: lib.ErrInvalidTransition,
		},

		"Removing a missing task should fail.": {
			run: func(ctx context.Context, c *lib.Client, id string) error {
				return c.RemoveTask(ctx, "missing")
			},
			expIs: lib.ErrNotFound,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t)
			task := createTask(t, client, "falcon")

			err := test.run(context.Background(), client, task.ID)
			assert.ErrorIs(t, err, test.expIs)
		})
	}
}

func TestFullLifecycle(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	ctx := context.Background()

	client := newTestClient(t)
	a := createTask(t, client, "falcon")
	b := createTask(t, client, "heron")

	_, err := client.MoveTask(ctx, a.ID, lib.ColumnInProgress)
	require.NoError(err)
	res, err := client.MoveTask(ctx, b.ID, lib.ColumnWaiting)
	require.NoError(err)
	assert.Equal(lib.PhaseWaiting, res.Started)

	// Starting b paused a.
	gotA, err := client.GetTask(ctx, a.ID)
	require.NoError(err)
	assert.False(gotA.Active)

	waiting := lib.ColumnWaiting
	tasks, err := client.ListTasks(ctx, &lib.ListTasksOpts{Column: &waiting})
	require.NoError(err)
	require.Len(tasks, 1)
	assert.Equal(b.ID, tasks[0].ID)

	_, err = client.UpdateNotes(ctx, b.ID, "ping the client")
	require.NoError(err)

	res, err = client.MoveActiveTask(ctx, 4)
	require.NoError(err)
	assert.Equal(lib.ColumnCompleted, res.To)
	assert.False(res.Task.Active)

	entry, err := client.ArchiveTask(ctx, b.ID)
	require.NoError(err)
	assert.Equal("ping the client", entry.Notes)
	assert.Equal(entry.Times.Doing+entry.Times.Fixing, entry.TotalTime)

	entries, err := client.ListAnalytics(ctx)
	require.NoError(err)
	assert.Len(entries, 1)

	summary, err := client.AnalyticsSummary(ctx)
	require.NoError(err)
	assert.Equal(1, summary.TotalArchived)
	require.Len(summary.Projects, 1)
	assert.Equal("heron", summary.Projects[0].Codename)

	board, err := client.Board(ctx)
	require.NoError(err)
	assert.Len(board.Tasks, 1)
	assert.Equal(1, board.ColumnCounts[lib.ColumnInProgress])
	assert.Empty(board.ActiveTaskID)

	report, err := client.Verify(ctx)
	require.NoError(err)
	assert.NoError(report.Err())

	require.NoError(client.RemoveTask(ctx, a.ID))
	tasks, err = client.ListTasks(ctx, nil)
	require.NoError(err)
	assert.Empty(tasks)
}

func TestPersistenceAcrossClients(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	ctx := context.Background()

	dir := t.TempDir()
	client, err := lib.New(ctx, lib.Config{DataDir: dir, Storage: lib.StorageFile})
	require.NoError(err)
	task := createTask(t, client, "falcon")
	_, err = client.MoveTask(ctx, task.ID, lib.ColumnInProgress)
	require.NoError(err)
	require.NoError(client.Close())

	// The timer left running is closed when reopening with the checkpoint policy.
	client, err = lib.New(ctx, lib.Config{DataDir: dir, Storage: lib.StorageFile, RecoverPolicy: lib.RecoverCheckpoint})
	require.NoError(err)
	defer client.Close()

	got, err := client.GetTask(ctx, task.ID)
	require.NoError(err)
	assert.False(got.Active)
	assert.Equal(lib.ColumnInProgress, got.Column)
}

func TestWatch(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	client := newTestClient(t)
	task := createTask(t, client, "falcon")
	_, err := client.MoveTask(context.Background(), task.ID, lib.ColumnInProgress)
	require.NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	boards := make(chan lib.Board, 10)
	errC := make(chan error, 1)
	go func() {
		errC <- client.Watch(ctx, 10*time.Millisecond, func(b lib.Board) {
			select {
			case boards <- b:
			default:
			}
		})
	}()

	b := <-boards
	assert.Equal(task.ID, b.ActiveTaskID)
	<-boards

	cancel()
	select {
	case err := <-errC:
		assert.NoError(err)
	case <-time.After(5 * time.Second):
		require.FailNow("watch didn't stop")
	}

	err = client.Watch(context.Background(), time.Second, nil)
	assert.ErrorIs(err, lib.ErrNotValid)
}
