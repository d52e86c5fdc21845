package model

import "time"

// TaskView is a task with its live timer values at a given instant.
type TaskView struct {
	Task Task
	// LiveElapsed is the display value of the task timer (active phase plus in-flight).
	LiveElapsed int64
	// LiveTotal is the sum of all the phases plus in-flight.
	LiveTotal int64
}

// BoardSnapshot is a read only view of the whole board.
type BoardSnapshot struct {
	At           time.Time
	Tasks        []TaskView
	ActiveTaskID string
	ColumnCounts map[Column]int
	// TotalLiveSeconds is the live total of all the tasks on the board.
	TotalLiveSeconds int64
}

// TasksInColumn returns the task views of a column keeping the board order.
func (b BoardSnapshot) TasksInColumn(c Column) []TaskView {
	views := []TaskView{}
	for _, v := range b.Tasks {
		if v.Task.Column == c {
			views = append(views, v)
		}
	}
	return views
}
