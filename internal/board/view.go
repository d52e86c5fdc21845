package board

import (
	"context"
	"time"

	"github.com/slok/staffboard/internal/model"
	"github.com/slok/staffboard/internal/timer"
)

// LiveElapsed returns the live display value of a task timer.
func (s *Service) LiveElapsed(ctx context.Context, id string) (int64, error) {
	t, err := s.getTask(ctx, id)
	if err != nil {
		return 0, err
	}
	return timer.LiveElapsed(*t, s.now()), nil
}

// TaskView returns a task with its live timer values.
func (s *Service) TaskView(ctx context.Context, id string) (model.TaskView, error) {
	t, err := s.getTask(ctx, id)
	if err != nil {
		return model.TaskView{}, err
	}
	return newTaskView(*t, s.now()), nil
}

// Snapshot returns a read only view of the board with the live timer values.
// It never writes.
func (s *Service) Snapshot(ctx context.Context) (model.BoardSnapshot, error) {
	tasks, err := s.ListTasks(ctx)
	if err != nil {
		return model.BoardSnapshot{}, err
	}

	now := s.now()
	snap := model.BoardSnapshot{
		At:           now,
		Tasks:        make([]model.TaskView, 0, len(tasks)),
		ColumnCounts: make(map[model.Column]int, len(model.Columns)),
	}
	for _, c := range model.Columns {
		snap.ColumnCounts[c] = 0
	}

	for _, t := range tasks {
		v := newTaskView(t, now)
		snap.Tasks = append(snap.Tasks, v)
		snap.ColumnCounts[t.Column]++
		snap.TotalLiveSeconds += v.LiveTotal

		// Flags are the source of truth for the active task.
		if t.Active && snap.ActiveTaskID == "" {
			snap.ActiveTaskID = t.ID
		}
	}

	return snap, nil
}

func newTaskView(t model.Task, now time.Time) model.TaskView {
	return model.TaskView{
		Task:        t,
		LiveElapsed: timer.LiveElapsed(t, now),
		LiveTotal:   timer.TotalLiveSeconds(t, now),
	}
}
