// Package workflow applies column changes to tasks together with the timer
// phase change the destination column implies.
package workflow

import (
	"fmt"
	"time"

	"github.com/slok/staffboard/internal/model"
	"github.com/slok/staffboard/internal/timer"
)

// Result describes what a move did to the task timer.
type Result struct {
	From model.Column
	To   model.Column
	// ClosedPhase and ClosedSeconds describe the interval closed by the move, if any.
	ClosedPhase   model.Phase
	ClosedSeconds int64
	// Started is the phase of the interval opened by the move, PhaseNone if none.
	Started model.Phase
	// Continued is true when the running interval was kept as is.
	Continued bool
}

// Stopped returns true when the move left a previously running task without a timer.
func (r Result) Stopped() bool {
	return r.ClosedPhase != model.PhaseNone && r.Started == model.PhaseNone
}

// Move moves a task to a column, closing and opening timer intervals as required:
//
//   - A running interval is closed and folded into its accumulator, unless the
//     destination runs the same phase, in that case the interval continues.
//   - Destinations with a phase open a new interval for that phase.
//   - Completed and incoming destinations leave the task inactive.
//   - Moving an inactive task inside its own column is a reorder and doesn't start timers.
func Move(t *model.Task, dest model.Column, now time.Time) (Result, error) {
	if !dest.Valid() {
		return Result{}, fmt.Errorf("unknown column %q: %w", dest, model.ErrNotValid)
	}

	res := Result{From: t.Column, To: dest}
	destPhase := dest.Phase()

	if t.Active && destPhase != model.PhaseNone && destPhase == t.ActiveTimer {
		t.Column = dest
		res.Continued = true
		return res, nil
	}

	if !t.Active && dest == t.Column {
		return res, nil
	}

	if t.Active {
		res.ClosedPhase = t.ActiveTimer
	}
	res.ClosedSeconds = timer.Fold(t, now)
	t.Column = dest

	if destPhase == model.PhaseNone {
		return res, nil
	}

	err := timer.Start(t, now)
	if err != nil {
		return res, fmt.Errorf("could not start %s timer: %w", destPhase, err)
	}
	res.Started = destPhase

	return res, nil
}

// ColumnAt returns the board column at a zero based position.
func ColumnAt(index int) (model.Column, error) {
	if index < 0 || index >= len(model.Columns) {
		return "", fmt.Errorf("column position %d out of range [0, %d): %w", index, len(model.Columns), model.ErrNotValid)
	}
	return model.Columns[index], nil
}
