package board

import (
	"context"
	"fmt"
	"time"

	"github.com/slok/staffboard/internal/model"
	"github.com/slok/staffboard/internal/workflow"
)

// MoveResult is the outcome of moving a task.
type MoveResult struct {
	Task       model.Task
	Transition workflow.Result
}

// MoveTask moves a task to a column applying the timer transition of the
// destination. When the move starts a timer, any other running timer is paused first.
func (s *Service) MoveTask(ctx context.Context, id string, dest model.Column) (*MoveResult, error) {
	var res *MoveResult
	err := s.mutate(ctx, "move", func(ctx context.Context, now time.Time) error {
		r, err := s.move(ctx, id, dest, now)
		res = r
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logMove(res)
	return res, nil
}

// MoveActiveTask moves the task with the running timer to the column at a zero
// based board position.
func (s *Service) MoveActiveTask(ctx context.Context, columnIndex int) (*MoveResult, error) {
	dest, err := workflow.ColumnAt(columnIndex)
	if err != nil {
		return nil, err
	}

	var res *MoveResult
	err = s.mutate(ctx, "move-active", func(ctx context.Context, now time.Time) error {
		tasks, err := s.repo.ListTasks(ctx)
		if err != nil {
			return fmt.Errorf("could not list tasks: %w", err)
		}
		active := activeTasks(tasks)
		if len(active) == 0 {
			return fmt.Errorf("no task has a running timer: %w", model.ErrNotActive)
		}

		r, err := s.move(ctx, active[0].ID, dest, now)
		res = r
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logMove(res)
	return res, nil
}

func (s *Service) logMove(res *MoveResult) {
	tr := res.Transition
	switch {
	case tr.Continued:
		s.logger.Debugf("Moved task %s inside %s, timer keeps running", res.Task.ID, tr.To)
	case tr.Started != model.PhaseNone:
		s.logger.Infof("Moved task %s %s -> %s, %s timer started (+%ds %s)", res.Task.ID, tr.From, tr.To, tr.Started, tr.ClosedSeconds, tr.ClosedPhase)
	default:
		s.logger.Infof("Moved task %s %s -> %s (+%ds %s)", res.Task.ID, tr.From, tr.To, tr.ClosedSeconds, tr.ClosedPhase)
	}
}

func (s *Service) move(ctx context.Context, id string, dest model.Column, now time.Time) (*MoveResult, error) {
	t, err := s.getTask(ctx, id)
	if err != nil {
		return nil, err
	}

	tr, err := workflow.Move(t, dest, now)
	if err != nil {
		return nil, err
	}

	// Reorders inside a column leave the task as it was.
	if tr.From == tr.To {
		return &MoveResult{Task: *t, Transition: tr}, nil
	}

	if tr.Started != model.PhaseNone {
		if err := s.pauseOthers(ctx, id, now); err != nil {
			return nil, err
		}
	}

	if err := s.save(ctx, t, now); err != nil {
		return nil, err
	}

	switch {
	case t.Active:
		if err := s.repo.SetActiveTaskID(ctx, id); err != nil {
			return nil, fmt.Errorf("could not set active task: %w", err)
		}
	default:
		if err := s.clearActiveRef(ctx, id); err != nil {
			return nil, err
		}
	}

	return &MoveResult{Task: *t, Transition: tr}, nil
}
