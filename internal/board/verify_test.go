package board

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/staffboard/internal/conventions"
	kvmemory "github.com/slok/staffboard/internal/kv/memory"
	"github.com/slok/staffboard/internal/model"
	"github.com/slok/staffboard/internal/storage/keyvalue"
	"github.com/slok/staffboard/internal/storage/memory"
	"github.com/slok/staffboard/internal/storage/storagetest"
)

func TestServiceCheckpoint(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	ctx := context.Background()

	svc, clk := newTestService(t, nil)
	task := createTask(t, svc, "falcon")
	_, err := svc.MoveTask(ctx, task.ID, model.ColumnInProgress)
	require.NoError(err)

	clk.Step(7 * time.Second)
	written, err := svc.Checkpoint(ctx)
	require.NoError(err)
	assert.True(written)

	// Nothing changed since the last checkpoint.
	written, err = svc.Checkpoint(ctx)
	require.NoError(err)
	assert.False(written)

	got, err := svc.GetTask(ctx, task.ID)
	require.NoError(err)
	assert.Equal(int64(7), got.CheckpointSeconds)
	assert.Equal(int64(0), got.Times.Doing)
	assert.True(got.Active)
	assert.Equal(t0, *got.TimerStartedAt)

	// Closing counts the interval once.
	clk.Step(3 * time.Second)
	got, err = svc.PauseTimer(ctx, task.ID)
	require.NoError(err)
	assert.Equal(int64(10), got.Times.Doing)
	assert.Equal(int64(0), got.CheckpointSeconds)
}

func TestServiceCheckpointWithoutRunningTimer(t *testing.T) {
	svc, clk := newTestService(t, nil)
	createTask(t, svc, "falcon")

	clk.Step(time.Minute)
	written, err := svc.Checkpoint(context.Background())
	require.NoError(t, err)
	assert.False(t, written)
}

func TestServiceRecover(t *testing.T) {
	tests := map[string]struct {
		policy       model.RecoverPolicy
		expActive    bool
		expDoing     int64
		expRecovered []string
		expErrIs     error
	}{
		"Resuming should keep the interval running.": {
			policy:       model.RecoverPolicyResume,
			expActive:    true,
			expDoing:     0,
			expRecovered: []string{},
		},

		"An empty policy should resume.": {
			policy:       "",
			expActive:    true,
			expDoing:     0,
			expRecovered: []string{},
		},

		"Recovering from the checkpoint should only fold the checkpointed seconds.": {
			policy:       model.RecoverPolicyCheckpoint,
			expActive:    false,
			expDoing:     5,
			expRecovered: []string{"t1"},
		},

		"An unknown policy should fail.": {
			policy:   "rewind",
			expErrIs: model.ErrNotValid,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			assert := assert.New(t)
			ctx := context.Background()

			svc, clk := newTestService(t, nil)
			task := createTask(t, svc, "falcon")
			_, err := svc.MoveTask(ctx, task.ID, model.ColumnInProgress)
			require.NoError(err)
			clk.Step(5 * time.Second)
			_, err = svc.Checkpoint(ctx)
			require.NoError(err)

			// The process died here, the board is opened again an hour later.
			clk.Step(time.Hour)
			report, err := svc.Recover(ctx, test.policy)
			if test.expErrIs != nil {
				assert.ErrorIs(err, test.expErrIs)
				return
			}
			require.NoError(err)

			assert.Equal(test.expRecovered, report.Recovered)
			assert.False(report.Corrupted)
			got, err := svc.GetTask(ctx, task.ID)
			require.NoError(err)
			assert.Equal(test.expActive, got.Active)
			assert.Equal(test.expDoing, got.Times.Doing)
			assertSingleActive(t, svc)
		})
	}
}

func TestServiceVerifyMultipleRunningTimers(t *testing.T) {
	tests := map[string]struct {
		startA    time.Time
		startB    time.Time
		expActive string
		expPaused string
		expDoing  int64
	}{
		"The most recently started timer should be kept.": {
			startA:    t0.Add(time.Hour),
			startB:    t0.Add(2 * time.Hour),
			expActive: "b",
			expPaused: "a",
			expDoing:  10 + 7200,
		},

		"On equal start marks the lowest ID should be kept.": {
			startA:    t0.Add(2 * time.Hour),
			startB:    t0.Add(2 * time.Hour),
			expActive: "a",
			expPaused: "b",
			expDoing:  10 + 3600,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			assert := assert.New(t)
			ctx := context.Background()

			repo, err := memory.NewRepository(memory.RepositoryConfig{})
			require.NoError(err)
			a := storagetest.RunningTaskFixture("a")
			a.TimerStartedAt = &test.startA
			b := storagetest.RunningTaskFixture("b")
			b.TimerStartedAt = &test.startB
			require.NoError(repo.CreateTask(ctx, a))
			require.NoError(repo.CreateTask(ctx, b))
			require.NoError(repo.CreateTask(ctx, storagetest.TaskFixture("c", 0)))
			require.NoError(repo.SetActiveTaskID(ctx, "c"))

			svc, clk := newTestService(t, repo)
			clk.SetTime(t0.Add(3 * time.Hour))

			report, err := svc.Verify(ctx)
			require.NoError(err)

			assert.True(report.Corrupted)
			assert.ErrorIs(report.Err(), model.ErrCorruptedInvariant)
			assert.Equal(test.expActive, report.ActiveTaskID)
			assert.Equal([]string{test.expPaused}, report.PausedTaskIDs)
			assert.True(report.ReferenceFixed)
			assertSingleActive(t, svc)

			paused, err := svc.GetTask(ctx, test.expPaused)
			require.NoError(err)
			assert.False(paused.Active)
			assert.Equal(test.expDoing, paused.Times.Doing)

			// A second pass has nothing to fix.
			report, err = svc.Verify(ctx)
			require.NoError(err)
			assert.NoError(report.Err())
			assert.Empty(report.PausedTaskIDs)
			assert.False(report.ReferenceFixed)
		})
	}
}

func TestServiceVerifyCompletedRunningTimer(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	ctx := context.Background()

	store := kvmemory.NewStore()
	require.NoError(store.Set(ctx, conventions.TasksKey, []byte(fmt.Sprintf(`[
		{
			"id": "x",
			"codename": "falcon",
			"staffingTime": "02:00",
			"columnId": "completed",
			"notes": "",
			"createdAt": %[1]d,
			"doingTime": 100,
			"waitingTime": 0,
			"fixingTime": 20,
			"activeTimerType": "fixing",
			"timerStartedAt": %[1]d,
			"isActive": true
		}
	]`, t0.UnixMilli()))))
	require.NoError(store.Set(ctx, conventions.ActiveTaskKey, []byte(`"x"`)))
	repo, err := keyvalue.NewRepository(keyvalue.RepositoryConfig{Store: store})
	require.NoError(err)

	svc, clk := newTestService(t, repo)
	clk.Step(time.Minute)

	report, err := svc.Verify(ctx)
	require.NoError(err)
	assert.False(report.Corrupted)
	assert.Equal([]string{"x"}, report.CompletedFixedIDs)
	assert.Equal("", report.ActiveTaskID)
	assert.True(report.ReferenceFixed)

	got, err := svc.GetTask(ctx, "x")
	require.NoError(err)
	assert.False(got.Active)
	assert.Equal(int64(80), got.Times.Fixing)
	assert.NoError(got.Validate())
	assertSingleActive(t, svc)
}
