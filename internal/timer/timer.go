// Package timer is the per task timer state machine.
//
// A task accrues time in three phase accumulators (doing, waiting, fixing). While a
// timer runs, the task holds the phase and the start mark of the open interval, and
// the accumulator only receives the interval seconds when the interval is closed.
// All the functions are pure over the task they receive, persistence and the
// board wide single active timer rule are handled by the callers.
package timer

import (
	"fmt"
	"time"

	"github.com/slok/staffboard/internal/model"
)

// Elapsed returns the whole seconds between start and now.
// A start mark in the future (clock skew) counts as zero.
func Elapsed(start, now time.Time) int64 {
	d := now.Sub(start)
	if d <= 0 {
		return 0
	}
	return int64(d / time.Second)
}

// Start opens a new interval for the phase of the task's current column.
func Start(t *model.Task, now time.Time) error {
	if t.Column == model.ColumnCompleted {
		return fmt.Errorf("task %s is completed: %w", t.ID, model.ErrInvalidTransition)
	}
	if t.Active {
		return fmt.Errorf("task %s timer already running: %w", t.ID, model.ErrInvalidTransition)
	}

	phase := t.Column.Phase()
	if phase == model.PhaseNone {
		return fmt.Errorf("timers don't run on %s column: %w", t.Column, model.ErrInvalidTransition)
	}

	start := now.UTC()
	t.Active = true
	t.ActiveTimer = phase
	t.TimerStartedAt = &start
	t.CheckpointSeconds = 0

	return nil
}

// Pause closes the running interval and returns the seconds added to the phase accumulator.
func Pause(t *model.Task, now time.Time) (int64, error) {
	if !t.Active {
		return 0, fmt.Errorf("task %s: %w", t.ID, model.ErrNotActive)
	}

	return Fold(t, now), nil
}

// Fold closes the running interval if any, adding its elapsed seconds to the
// active phase accumulator, and leaves the task inactive. It returns the added seconds.
func Fold(t *model.Task, now time.Time) int64 {
	if !t.Active || t.TimerStartedAt == nil {
		stop(t)
		return 0
	}

	elapsed := Elapsed(*t.TimerStartedAt, now)
	t.Times.Add(t.ActiveTimer, elapsed)
	stop(t)

	return elapsed
}

// FoldCheckpointed closes the running interval adding only the seconds made durable
// by the last checkpoint. Used to recover intervals left open by a process that died.
func FoldCheckpointed(t *model.Task) int64 {
	if !t.Active {
		stop(t)
		return 0
	}

	s := t.CheckpointSeconds
	if s < 0 {
		s = 0
	}
	t.Times.Add(t.ActiveTimer, s)
	stop(t)

	return s
}

// Checkpoint recomputes the durable part of the open interval from its start mark.
// It never touches the accumulators nor the timer state so calling it repeatedly is
// idempotent. Returns true when the checkpoint value changed.
func Checkpoint(t *model.Task, now time.Time) bool {
	if !t.Active || t.TimerStartedAt == nil {
		return false
	}

	s := Elapsed(*t.TimerStartedAt, now)
	if s == t.CheckpointSeconds {
		return false
	}
	t.CheckpointSeconds = s

	return true
}

// InFlight returns the seconds of the open interval, 0 if the timer is not running.
func InFlight(t model.Task, now time.Time) int64 {
	if !t.Active || t.TimerStartedAt == nil {
		return 0
	}
	return Elapsed(*t.TimerStartedAt, now)
}

// LiveElapsed returns the display value of the task timer: the active phase
// accumulator plus the in-flight seconds. Inactive tasks show their productive
// time (doing + fixing).
func LiveElapsed(t model.Task, now time.Time) int64 {
	if !t.Active {
		return t.Times.Productive()
	}
	return t.Times.Get(t.ActiveTimer) + InFlight(t, now)
}

// TotalLiveSeconds returns the sum of all the accumulators including the in-flight seconds.
func TotalLiveSeconds(t model.Task, now time.Time) int64 {
	return t.Times.Total() + InFlight(t, now)
}

func stop(t *model.Task) {
	t.Active = false
	t.ActiveTimer = model.PhaseNone
	t.TimerStartedAt = nil
	t.CheckpointSeconds = 0
}
