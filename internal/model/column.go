package model

import (
	"fmt"
	"strings"
)

// Column is a workflow stage of the board.
type Column string

const (
	// ColumnIncoming is the backlog, timers never run here.
	ColumnIncoming Column = "incoming"
	// ColumnInProgress is the column where the doing timer runs.
	ColumnInProgress Column = "in-progress"
	// ColumnWaiting is the column where the waiting timer runs.
	ColumnWaiting Column = "waiting"
	// ColumnAdjustingComments is the column where the fixing timer runs.
	ColumnAdjustingComments Column = "adjusting-comments"
	// ColumnCompleted is the done column, tasks here are always inactive.
	ColumnCompleted Column = "completed"
)

// Phase is one of the timer phases a task accrues time in.
// The zero value means no phase.
type Phase string

const (
	PhaseNone    Phase = ""
	PhaseDoing   Phase = "doing"
	PhaseWaiting Phase = "waiting"
	PhaseFixing  Phase = "fixing"
)

// Columns is the board column order.
var Columns = []Column{
	ColumnIncoming,
	ColumnInProgress,
	ColumnWaiting,
	ColumnAdjustingComments,
	ColumnCompleted,
}

type columnInfo struct {
	title string
	phase Phase
}

// columnTable is the column to phase mapping, every column must be present.
var columnTable = map[Column]columnInfo{
	ColumnIncoming:          {title: "Backlog", phase: PhaseNone},
	ColumnInProgress:        {title: "Doing", phase: PhaseDoing},
	ColumnWaiting:           {title: "Waiting comments", phase: PhaseWaiting},
	ColumnAdjustingComments: {title: "Fixing", phase: PhaseFixing},
	ColumnCompleted:         {title: "Done", phase: PhaseNone},
}

// Valid returns true if the column is a known board column.
func (c Column) Valid() bool {
	_, ok := columnTable[c]
	return ok
}

// Title returns the human title of the column.
func (c Column) Title() string { return columnTable[c].title }

// Phase returns the timer phase that runs while a task is in the column,
// PhaseNone for the columns where timers never run.
func (c Column) Phase() Phase { return columnTable[c].phase }

// ParseColumn parses a column identifier.
func ParseColumn(s string) (Column, error) {
	c := Column(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown column %q: %w", s, ErrNotValid)
	}
	return c, nil
}

// Valid returns true if the phase is a real timer phase (not PhaseNone).
func (p Phase) Valid() bool {
	switch p {
	case PhaseDoing, PhaseWaiting, PhaseFixing:
		return true
	}
	return false
}
