package timer_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/staffboard/internal/model"
	"github.com/slok/staffboard/internal/timer"
)

var t0 = time.Date(2026, 1, 30, 10, 0, 0, 0, time.UTC)

func newTask(col model.Column) model.Task {
	return model.Task{
		ID:                   "01H2QWERTYASDFGZXCVBNMLKJH",
		Codename:             "falcon",
		StaffingTimeEstimate: "02:00",
		Column:               col,
		CreatedAt:            t0,
	}
}

func activeTask(col model.Column, phase model.Phase, startedAt time.Time) model.Task {
	t := newTask(col)
	t.Active = true
	t.ActiveTimer = phase
	t.TimerStartedAt = &startedAt
	return t
}

func TestElapsed(t *testing.T) {
	tests := map[string]struct {
		start time.Time
		now   time.Time
		exp   int64
	}{
		"Whole seconds should be returned.": {
			start: t0,
			now:   t0.Add(125 * time.Second),
			exp:   125,
		},

		"Sub second remainders should be truncated.": {
			start: t0,
			now:   t0.Add(1999 * time.Millisecond),
			exp:   1,
		},

		"Less than a second should be zero.": {
			start: t0,
			now:   t0.Add(999 * time.Millisecond),
			exp:   0,
		},

		"A start in the future should be zero.": {
			start: t0.Add(time.Minute),
			now:   t0,
			exp:   0,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.exp, timer.Elapsed(test.start, test.now))
		})
	}
}

func TestStart(t *testing.T) {
	tests := map[string]struct {
		task     model.Task
		expPhase model.Phase
		expErr   error
	}{
		"Starting on in progress should run the doing timer.": {
			task:     newTask(model.ColumnInProgress),
			expPhase: model.PhaseDoing,
		},

		"Starting on waiting should run the waiting timer.": {
			task:     newTask(model.ColumnWaiting),
			expPhase: model.PhaseWaiting,
		},

		"Starting on adjusting comments should run the fixing timer.": {
			task:     newTask(model.ColumnAdjustingComments),
			expPhase: model.PhaseFixing,
		},

		"Starting on the backlog should fail.": {
			task:   newTask(model.ColumnIncoming),
			expErr: model.ErrInvalidTransition,
		},

		"Starting a completed task should fail.": {
			task:   newTask(model.ColumnCompleted),
			expErr: model.ErrInvalidTransition,
		},

		"Starting an already running task should fail.": {
			task:   activeTask(model.ColumnInProgress, model.PhaseDoing, t0),
			expErr: model.ErrInvalidTransition,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			task := test.task
			now := t0.Add(time.Minute)
			err := timer.Start(&task, now)

			if test.expErr != nil {
				require.Error(err)
				assert.True(errors.Is(err, test.expErr))
				return
			}

			require.NoError(err)
			assert.True(task.Active)
			assert.Equal(test.expPhase, task.ActiveTimer)
			require.NotNil(task.TimerStartedAt)
			assert.Equal(now, *task.TimerStartedAt)
			assert.NoError(task.Validate())
		})
	}
}

func TestPauseScenarioA(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	task := newTask(model.ColumnInProgress)
	require.NoError(timer.Start(&task, t0))

	added, err := timer.Pause(&task, t0.Add(125*time.Second))
	require.NoError(err)

	assert.Equal(int64(125), added)
	assert.Equal(model.PhaseTimes{Doing: 125}, task.Times)
	assert.False(task.Active)
	assert.Equal(model.PhaseNone, task.ActiveTimer)
	assert.Nil(task.TimerStartedAt)
	assert.NoError(task.Validate())
}

func TestPauseNotActive(t *testing.T) {
	assert := assert.New(t)

	task := newTask(model.ColumnInProgress)
	task.Times.Doing = 10

	added, err := timer.Pause(&task, t0)
	assert.True(errors.Is(err, model.ErrNotActive))
	assert.Equal(int64(0), added)
	assert.Equal(int64(10), task.Times.Doing)
}

func TestPauseConservesTotal(t *testing.T) {
	tests := map[string]struct {
		phase   model.Phase
		col     model.Column
		elapsed time.Duration
	}{
		"Doing interval.":             {phase: model.PhaseDoing, col: model.ColumnInProgress, elapsed: 61500 * time.Millisecond},
		"Waiting interval.":           {phase: model.PhaseWaiting, col: model.ColumnWaiting, elapsed: 3 * time.Hour},
		"Fixing sub second interval.": {phase: model.PhaseFixing, col: model.ColumnAdjustingComments, elapsed: 300 * time.Millisecond},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			task := activeTask(test.col, test.phase, t0)
			task.Times = model.PhaseTimes{Doing: 7, Waiting: 11, Fixing: 13}
			before := task.Times.Total()

			_, err := timer.Pause(&task, t0.Add(test.elapsed))
			assert.NoError(err)

			assert.Equal(before+int64(test.elapsed/time.Second), task.Times.Total())
		})
	}
}

func TestCheckpoint(t *testing.T) {
	assert := assert.New(t)

	task := activeTask(model.ColumnInProgress, model.PhaseDoing, t0)
	task.Times.Doing = 40
	now := t0.Add(12 * time.Second)

	assert.True(timer.Checkpoint(&task, now))
	assert.Equal(int64(12), task.CheckpointSeconds)
	assert.Equal(int64(40), task.Times.Doing)

	// Same instant again: nothing changes.
	assert.False(timer.Checkpoint(&task, now))
	assert.Equal(int64(12), task.CheckpointSeconds)
	assert.Equal(int64(40), task.Times.Doing)
	assert.True(task.Active)
	assert.Equal(t0, *task.TimerStartedAt)

	// Closing after checkpoints adds the interval once.
	added, err := timer.Pause(&task, t0.Add(20*time.Second))
	assert.NoError(err)
	assert.Equal(int64(20), added)
	assert.Equal(int64(60), task.Times.Doing)
	assert.Equal(int64(0), task.CheckpointSeconds)
}

func TestCheckpointInactive(t *testing.T) {
	task := newTask(model.ColumnInProgress)
	assert.False(t, timer.Checkpoint(&task, t0.Add(time.Hour)))
	assert.Equal(t, int64(0), task.CheckpointSeconds)
}

func TestFoldCheckpointed(t *testing.T) {
	assert := assert.New(t)

	task := activeTask(model.ColumnWaiting, model.PhaseWaiting, t0)
	timer.Checkpoint(&task, t0.Add(15*time.Second))

	added := timer.FoldCheckpointed(&task)

	assert.Equal(int64(15), added)
	assert.Equal(int64(15), task.Times.Waiting)
	assert.False(task.Active)
	assert.NoError(task.Validate())
}

func TestLiveElapsed(t *testing.T) {
	tests := map[string]struct {
		task     model.Task
		now      time.Time
		expLive  int64
		expTotal int64
	}{
		"An active task should show the active phase plus in flight.": {
			task: func() model.Task {
				t := activeTask(model.ColumnWaiting, model.PhaseWaiting, t0)
				t.Times = model.PhaseTimes{Doing: 100, Waiting: 30, Fixing: 50}
				return t
			}(),
			now:      t0.Add(10 * time.Second),
			expLive:  40,
			expTotal: 190,
		},

		"An inactive task should show its productive time.": {
			task: func() model.Task {
				t := newTask(model.ColumnWaiting)
				t.Times = model.PhaseTimes{Doing: 100, Waiting: 30, Fixing: 50}
				return t
			}(),
			now:      t0.Add(10 * time.Second),
			expLive:  150,
			expTotal: 180,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			task := test.task
			assert.Equal(test.expLive, timer.LiveElapsed(task, test.now))
			assert.Equal(test.expTotal, timer.TotalLiveSeconds(task, test.now))

			// Queries never mutate.
			assert.Equal(test.task, task)
		})
	}
}
