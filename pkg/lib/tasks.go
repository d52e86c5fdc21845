package lib

import (
	"context"

	"github.com/slok/staffboard/internal/board"
	"github.com/slok/staffboard/internal/model"
)

// CreateTask creates a task on the backlog with every timer at zero.
//
// Returns [ErrNotValid] if the codename or the estimate are missing.
func (c *Client) CreateTask(ctx context.Context, opts CreateTaskOpts) (*Task, error) {
	t, err := c.board.CreateTask(ctx, board.CreateTaskRequest{
		Codename:             opts.Codename,
		StaffingTimeEstimate: opts.StaffingTimeEstimate,
		Notes:                opts.Notes,
	})
	if err != nil {
		return nil, mapError(err)
	}

	result := fromInternalTask(*t)
	return &result, nil
}

// GetTask returns a task with its live timer values.
//
// Returns [ErrNotFound] if the task does not exist.
func (c *Client) GetTask(ctx context.Context, id string) (*TaskView, error) {
	v, err := c.board.TaskView(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}

	result := fromInternalTaskView(v)
	return &result, nil
}

// ListTasks returns the tasks ordered by creation time. Pass nil opts to list all of them.
func (c *Client) ListTasks(ctx context.Context, opts *ListTasksOpts) ([]Task, error) {
	var (
		tasks []model.Task
		err   error
	)
	if opts != nil && opts.Column != nil {
		tasks, err = c.board.ListTasksByColumn(ctx, model.Column(*opts.Column))
	} else {
		tasks, err = c.board.ListTasks(ctx)
	}
	if err != nil {
		return nil, mapError(err)
	}

	return fromInternalTaskList(tasks), nil
}

// UpdateNotes replaces the notes of a task.
func (c *Client) UpdateNotes(ctx context.Context, id, notes string) (*Task, error) {
	t, err := c.board.UpdateNotes(ctx, id, notes)
	if err != nil {
		return nil, mapError(err)
	}

	result := fromInternalTask(*t)
	return &result, nil
}

// RemoveTask deletes a task without archiving it, its times are discarded.
//
// Returns [ErrNotFound] if the task does not exist.
func (c *Client) RemoveTask(ctx context.Context, id string) error {
	return mapError(c.board.DeleteTask(ctx, id))
}
