package board

import (
	"context"
	"fmt"
	"time"

	"github.com/slok/staffboard/internal/model"
	"github.com/slok/staffboard/internal/timer"
)

// StartTimer starts the timer of a task for the phase of its column. A timer
// running on any other task is paused first.
func (s *Service) StartTimer(ctx context.Context, id string) (*model.Task, error) {
	var task *model.Task
	err := s.mutate(ctx, "start", func(ctx context.Context, now time.Time) error {
		t, err := s.start(ctx, id, now)
		task = t
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infof("Started %s timer of task %s", task.ActiveTimer, task.ID)
	return task, nil
}

// PauseTimer pauses the running timer of a task.
func (s *Service) PauseTimer(ctx context.Context, id string) (*model.Task, error) {
	var (
		task  *model.Task
		added int64
	)
	err := s.mutate(ctx, "pause", func(ctx context.Context, now time.Time) error {
		t, a, err := s.pause(ctx, id, now)
		task, added = t, a
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infof("Paused timer of task %s (+%ds)", task.ID, added)
	return task, nil
}

// ToggleTimer pauses the timer of a task if it's running, otherwise starts it.
func (s *Service) ToggleTimer(ctx context.Context, id string) (*model.Task, error) {
	var task *model.Task
	err := s.mutate(ctx, "toggle", func(ctx context.Context, now time.Time) error {
		t, err := s.getTask(ctx, id)
		if err != nil {
			return err
		}

		if t.Active {
			t, _, err = s.pause(ctx, id, now)
		} else {
			t, err = s.start(ctx, id, now)
		}
		task = t
		return err
	})
	if err != nil {
		return nil, err
	}

	if task.Active {
		s.logger.Infof("Started %s timer of task %s", task.ActiveTimer, task.ID)
	} else {
		s.logger.Infof("Paused timer of task %s", task.ID)
	}
	return task, nil
}

func (s *Service) start(ctx context.Context, id string, now time.Time) (*model.Task, error) {
	t, err := s.getTask(ctx, id)
	if err != nil {
		return nil, err
	}

	// Check before touching other tasks so a rejected start has no side effects.
	candidate := t.Copy()
	if err := timer.Start(&candidate, now); err != nil {
		return nil, err
	}

	if err := s.pauseOthers(ctx, id, now); err != nil {
		return nil, err
	}

	if err := s.save(ctx, &candidate, now); err != nil {
		return nil, err
	}
	if err := s.repo.SetActiveTaskID(ctx, id); err != nil {
		return nil, fmt.Errorf("could not set active task: %w", err)
	}

	return &candidate, nil
}

func (s *Service) pause(ctx context.Context, id string, now time.Time) (*model.Task, int64, error) {
	t, err := s.getTask(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	added, err := timer.Pause(t, now)
	if err != nil {
		return nil, 0, err
	}
	if err := s.save(ctx, t, now); err != nil {
		return nil, 0, err
	}
	if err := s.clearActiveRef(ctx, id); err != nil {
		return nil, 0, err
	}

	return t, added, nil
}

// pauseOthers closes the timers running on any task other than id, keeping a
// single running timer on the board. More than one previous holder means the
// board was corrupted, it's reported and every holder is paused.
func (s *Service) pauseOthers(ctx context.Context, id string, now time.Time) error {
	tasks, err := s.repo.ListTasks(ctx)
	if err != nil {
		return fmt.Errorf("could not list tasks: %w", err)
	}

	others := []model.Task{}
	for _, t := range activeTasks(tasks) {
		if t.ID != id {
			others = append(others, t)
		}
	}

	sortMostRecentFirst(others)
	if len(others) > 1 {
		ids := make([]string, 0, len(others))
		for _, t := range others {
			ids = append(ids, t.ID)
		}
		err := fmt.Errorf("%d tasks had a running timer %v, pausing all of them for %s: %w", len(others), ids, id, model.ErrCorruptedInvariant)
		s.logger.Errorf("Board timers were corrupted: %s", err)
	}

	for _, other := range others {
		added := timer.Fold(&other, now)
		if err := s.save(ctx, &other, now); err != nil {
			return fmt.Errorf("could not pause previous active task: %w", err)
		}
		s.logger.Infof("Paused timer of task %s (+%ds), task %s takes the timer", other.ID, added, id)
	}

	// Nothing runs until the caller saves the new holder, the reference must agree.
	if len(others) > 0 {
		if err := s.repo.SetActiveTaskID(ctx, ""); err != nil {
			return fmt.Errorf("could not clear active task: %w", err)
		}
	}

	return nil
}

func (s *Service) clearActiveRef(ctx context.Context, id string) error {
	ref, err := s.repo.GetActiveTaskID(ctx)
	if err != nil {
		return fmt.Errorf("could not get active task: %w", err)
	}
	if ref != id {
		return nil
	}
	if err := s.repo.SetActiveTaskID(ctx, ""); err != nil {
		return fmt.Errorf("could not clear active task: %w", err)
	}
	return nil
}
