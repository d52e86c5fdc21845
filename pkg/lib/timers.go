package lib

import (
	"context"

	"github.com/slok/staffboard/internal/model"
)

// StartTimer starts the timer of a task for the phase of its column. The board
// has a single running timer, if another task holds it, it's paused first.
//
// Returns [ErrInvalidTransition] if the timer is already running or the column
// doesn't run timers (backlog and completed).
func (c *Client) StartTimer(ctx context.Context, id string) (*Task, error) {
	return c.timerOp(ctx, id, c.board.StartTimer)
}

// PauseTimer pauses the running timer of a task adding the elapsed seconds to
// the phase accumulator.
//
// Returns [ErrNotActive] if the timer is not running.
func (c *Client) PauseTimer(ctx context.Context, id string) (*Task, error) {
	return c.timerOp(ctx, id, c.board.PauseTimer)
}

// ToggleTimer pauses the timer of a task if it's running, otherwise starts it.
func (c *Client) ToggleTimer(ctx context.Context, id string) (*Task, error) {
	return c.timerOp(ctx, id, c.board.ToggleTimer)
}

func (c *Client) timerOp(ctx context.Context, id string, op func(ctx context.Context, id string) (*model.Task, error)) (*Task, error) {
	t, err := op(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}

	result := fromInternalTask(*t)
	return &result, nil
}

// MoveTask moves a task to a column. The running interval is closed and the
// timer of the destination phase is started, moving to the backlog or to
// completed leaves the task paused.
//
// Returns [ErrNotValid] on unknown columns.
func (c *Client) MoveTask(ctx context.Context, id string, column Column) (*MoveResult, error) {
	res, err := c.board.MoveTask(ctx, id, model.Column(column))
	if err != nil {
		return nil, mapError(err)
	}

	result := fromInternalMoveResult(*res)
	return &result, nil
}

// MoveActiveTask moves the task holding the running timer to the column at a
// zero based board position (see [Columns]).
//
// Returns [ErrNotActive] if no timer is running and [ErrNotValid] if the
// position is out of range.
func (c *Client) MoveActiveTask(ctx context.Context, columnIndex int) (*MoveResult, error) {
	res, err := c.board.MoveActiveTask(ctx, columnIndex)
	if err != nil {
		return nil, mapError(err)
	}

	result := fromInternalMoveResult(*res)
	return &result, nil
}
