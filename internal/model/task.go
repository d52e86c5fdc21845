package model

import (
	"fmt"
	"time"
)

// PhaseTimes are the per phase accumulators of a task in seconds.
type PhaseTimes struct {
	Doing   int64
	Waiting int64
	Fixing  int64
}

// Get returns the accumulator for a phase.
func (p PhaseTimes) Get(phase Phase) int64 {
	switch phase {
	case PhaseDoing:
		return p.Doing
	case PhaseWaiting:
		return p.Waiting
	case PhaseFixing:
		return p.Fixing
	}
	return 0
}

// Add adds seconds to the accumulator of a phase. Unknown phases are ignored.
func (p *PhaseTimes) Add(phase Phase, seconds int64) {
	switch phase {
	case PhaseDoing:
		p.Doing += seconds
	case PhaseWaiting:
		p.Waiting += seconds
	case PhaseFixing:
		p.Fixing += seconds
	}
}

// Total returns the sum of all the phases.
func (p PhaseTimes) Total() int64 { return p.Doing + p.Waiting + p.Fixing }

// Productive returns the time that counts as work, waiting is excluded.
func (p PhaseTimes) Productive() int64 { return p.Doing + p.Fixing }

// Task is a unit of staffing work tracked on the board.
type Task struct {
	ID                   string
	Codename             string
	StaffingTimeEstimate string
	Column               Column
	Notes                string
	CreatedAt            time.Time
	UpdatedAt            time.Time

	// Times are the closed out accumulators, in-flight time is not included.
	Times PhaseTimes

	// Timer state.
	Active         bool
	ActiveTimer    Phase
	TimerStartedAt *time.Time
	// CheckpointSeconds is the part of the open interval made durable by the last
	// checkpoint. It is informative only, closing the interval recomputes from TimerStartedAt.
	CheckpointSeconds int64

	// Version is incremented on every stored update and used for compare-and-set.
	Version uint64
}

// Validate validates the task state invariants.
func (t Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("id is required: %w", ErrNotValid)
	}
	if t.Codename == "" {
		return fmt.Errorf("codename is required: %w", ErrNotValid)
	}
	if t.StaffingTimeEstimate == "" {
		return fmt.Errorf("staffing time estimate is required: %w", ErrNotValid)
	}
	if !t.Column.Valid() {
		return fmt.Errorf("unknown column %q: %w", t.Column, ErrNotValid)
	}
	if t.CreatedAt.IsZero() {
		return fmt.Errorf("created at is required: %w", ErrNotValid)
	}
	if t.Times.Doing < 0 || t.Times.Waiting < 0 || t.Times.Fixing < 0 {
		return fmt.Errorf("phase times can't be negative: %w", ErrNotValid)
	}

	// Active flag, timer phase and start mark go together.
	if t.Active != t.ActiveTimer.Valid() || t.Active != (t.TimerStartedAt != nil) {
		return fmt.Errorf("inconsistent timer state (active: %t, phase: %q, started: %t): %w", t.Active, t.ActiveTimer, t.TimerStartedAt != nil, ErrNotValid)
	}
	if t.ActiveTimer != PhaseNone && !t.ActiveTimer.Valid() {
		return fmt.Errorf("unknown timer phase %q: %w", t.ActiveTimer, ErrNotValid)
	}
	if t.Column == ColumnCompleted && t.Active {
		return fmt.Errorf("completed task can't have a running timer: %w", ErrNotValid)
	}

	return nil
}

// Copy returns a deep copy of the task.
func (t Task) Copy() Task {
	if t.TimerStartedAt != nil {
		ts := *t.TimerStartedAt
		t.TimerStartedAt = &ts
	}
	return t
}
