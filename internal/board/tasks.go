package board

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/slok/staffboard/internal/model"
)

// CreateTaskRequest represents the create task request parameters.
type CreateTaskRequest struct {
	Codename             string
	StaffingTimeEstimate string
	Notes                string
}

func (r CreateTaskRequest) validate() error {
	if strings.TrimSpace(r.Codename) == "" {
		return fmt.Errorf("codename is required: %w", model.ErrNotValid)
	}
	if strings.TrimSpace(r.StaffingTimeEstimate) == "" {
		return fmt.Errorf("staffing time estimate is required: %w", model.ErrNotValid)
	}
	return nil
}

// CreateTask creates a new task on the backlog with all its timers at zero.
func (s *Service) CreateTask(ctx context.Context, req CreateTaskRequest) (*model.Task, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	var task model.Task
	err := s.mutate(ctx, "create", func(ctx context.Context, now time.Time) error {
		task = model.Task{
			ID:                   s.newID(),
			Codename:             strings.TrimSpace(req.Codename),
			StaffingTimeEstimate: strings.TrimSpace(req.StaffingTimeEstimate),
			Column:               model.ColumnIncoming,
			Notes:                req.Notes,
			CreatedAt:            now,
			UpdatedAt:            now,
		}

		if err := s.repo.CreateTask(ctx, task); err != nil {
			return fmt.Errorf("could not create task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infof("Created task %s (%s)", task.Codename, task.ID)
	return &task, nil
}

// GetTask returns a task.
func (s *Service) GetTask(ctx context.Context, id string) (*model.Task, error) {
	return s.getTask(ctx, id)
}

// ListTasks returns all the tasks on the board, oldest first.
func (s *Service) ListTasks(ctx context.Context) ([]model.Task, error) {
	tasks, err := s.repo.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list tasks: %w", err)
	}
	return tasks, nil
}

// ListTasksByColumn returns the tasks of a column, oldest first.
func (s *Service) ListTasksByColumn(ctx context.Context, column model.Column) ([]model.Task, error) {
	if !column.Valid() {
		return nil, fmt.Errorf("unknown column %q: %w", column, model.ErrNotValid)
	}

	tasks, err := s.ListTasks(ctx)
	if err != nil {
		return nil, err
	}

	res := []model.Task{}
	for _, t := range tasks {
		if t.Column == column {
			res = append(res, t)
		}
	}

	return res, nil
}

// UpdateNotes replaces the notes of a task.
func (s *Service) UpdateNotes(ctx context.Context, id, notes string) (*model.Task, error) {
	var task *model.Task
	err := s.mutate(ctx, "notes", func(ctx context.Context, now time.Time) error {
		t, err := s.getTask(ctx, id)
		if err != nil {
			return err
		}

		t.Notes = notes
		if err := s.save(ctx, t, now); err != nil {
			return err
		}
		task = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debugf("Updated notes of task %s", id)
	return task, nil
}

// DeleteTask removes a task from the board. Its timers are discarded and the
// active task reference is cleared if it pointed to it.
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	err := s.mutate(ctx, "delete", func(ctx context.Context, now time.Time) error {
		if err := s.repo.DeleteTask(ctx, id); err != nil {
			return fmt.Errorf("could not delete task %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Infof("Deleted task %s", id)
	return nil
}
