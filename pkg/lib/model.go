package lib

import (
	"time"

	"github.com/slok/staffboard/internal/board"
	"github.com/slok/staffboard/internal/model"
)

// StorageBackend identifies where the board is persisted.
type StorageBackend string

const (
	// StorageSQLite stores the board in a SQLite database.
	StorageSQLite StorageBackend = "sqlite"
	// StorageFile stores the board as JSON files, one per key, using the browser board layout.
	StorageFile StorageBackend = "file"
	// StorageRedis stores the board on Redis using the browser board layout.
	StorageRedis StorageBackend = "redis"
	// StorageMemory keeps the board in memory, nothing survives the client.
	// Use this for unit testing.
	StorageMemory StorageBackend = "memory"
)

// RecoverPolicy decides what happens with a timer left running by a process
// that didn't close it.
type RecoverPolicy string

const (
	// RecoverResume keeps the timer running from its start mark.
	RecoverResume RecoverPolicy = "resume"
	// RecoverCheckpoint closes the timer keeping only the seconds made durable
	// by the last checkpoint.
	RecoverCheckpoint RecoverPolicy = "checkpoint"
)

// Column is a board column. The column a task is in decides the timer phase
// that runs for it.
type Column string

const (
	// ColumnIncoming is the backlog, no timer runs.
	ColumnIncoming Column = "incoming"
	// ColumnInProgress runs the doing timer.
	ColumnInProgress Column = "in-progress"
	// ColumnWaiting runs the waiting timer.
	ColumnWaiting Column = "waiting"
	// ColumnAdjustingComments runs the fixing timer.
	ColumnAdjustingComments Column = "adjusting-comments"
	// ColumnCompleted is the done column, no timer runs and tasks can be archived.
	ColumnCompleted Column = "completed"
)

// Columns returns the board columns in board order.
func Columns() []Column {
	cs := make([]Column, 0, len(model.Columns))
	for _, c := range model.Columns {
		cs = append(cs, Column(c))
	}
	return cs
}

// Phase is a timer phase.
type Phase string

const (
	PhaseNone    Phase = ""
	PhaseDoing   Phase = "doing"
	PhaseWaiting Phase = "waiting"
	PhaseFixing  Phase = "fixing"
)

// Urgency is the severity tier of an elapsed duration.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// PhaseTimes are the per phase accumulated seconds.
type PhaseTimes struct {
	Doing   int64
	Waiting int64
	Fixing  int64
}

// Task is a task of the board.
//
// This is a read-only snapshot of the task at the time of the API call.
type Task struct {
	// ID is the unique identifier (ULID) assigned at creation.
	ID                   string
	Codename             string
	StaffingTimeEstimate string
	Column               Column
	Notes                string
	CreatedAt            time.Time
	UpdatedAt            time.Time
	// Times are the closed intervals, the running one is not included.
	Times PhaseTimes
	// Active is true when the task holds the board running timer.
	Active bool
	// ActiveTimer is the running phase, PhaseNone when not active.
	ActiveTimer Phase
	// TimerStartedAt is the start of the running interval. Nil when not active.
	TimerStartedAt *time.Time
}

// TaskView is a task with its live timer values in seconds.
type TaskView struct {
	Task
	// LiveElapsed is the running phase accumulator plus the running interval,
	// for paused tasks doing plus fixing.
	LiveElapsed int64
	// LiveTotal is every accumulator plus the running interval.
	LiveTotal int64
}

// CreateTaskOpts configures task creation.
type CreateTaskOpts struct {
	// Codename is the project codename (required).
	Codename string
	// StaffingTimeEstimate is the free form estimate, e.g. "01:30" (required).
	StaffingTimeEstimate string
	Notes                string
}

// ListTasksOpts configures task listing.
//
// Pass nil to [Client.ListTasks] to list all the tasks.
type ListTasksOpts struct {
	// Column filters the tasks by column. Nil means all columns.
	Column *Column
}

// MoveResult is the outcome of a task move.
type MoveResult struct {
	Task Task
	From Column
	To   Column
	// ClosedPhase and ClosedSeconds are the interval closed by the move, if any.
	ClosedPhase   Phase
	ClosedSeconds int64
	// Started is the phase started by the move, PhaseNone if none.
	Started Phase
	// Continued is true when the running interval kept running.
	Continued bool
}

// Board is a point in time view of the board with the live timer values.
type Board struct {
	At               time.Time
	Tasks            []TaskView
	ActiveTaskID     string
	ColumnCounts     map[Column]int
	TotalLiveSeconds int64
}

// AnalyticsEntry is the immutable record of an archived task.
type AnalyticsEntry struct {
	ID                   string
	Codename             string
	StaffingTimeEstimate string
	Notes                string
	CreatedAt            time.Time
	CompletedAt          time.Time
	Times                PhaseTimes
	// TotalTime is doing plus fixing in seconds.
	TotalTime int64
	// SLA are the wall clock seconds from creation to archival.
	SLA int64
}

// AnalyticsSummary aggregates the archived tasks.
type AnalyticsSummary struct {
	TotalArchived int
	TotalTime     int64
	AverageTime   int64
	Times         PhaseTimes
	// Longest is nil when nothing was archived.
	Longest  *AnalyticsEntry
	Projects []ProjectSummary
}

// ProjectSummary aggregates the archived tasks of a codename.
type ProjectSummary struct {
	Codename       string
	Entries        int
	Times          PhaseTimes
	TotalTime      int64
	DoingPercent   float64
	WaitingPercent float64
	FixingPercent  float64
}

// VerifyReport is the result of a board verification.
type VerifyReport struct {
	ActiveTaskID      string
	PausedTaskIDs     []string
	CompletedFixedIDs []string
	ReferenceFixed    bool
	Corrupted         bool
}

// Err returns an error wrapping [ErrCorruptedInvariant] if more than one
// timer was found running.
func (r VerifyReport) Err() error {
	return mapError(r.toInternal().Err())
}

// --- Conversion helpers ---

func fromInternalTimes(p model.PhaseTimes) PhaseTimes {
	return PhaseTimes{Doing: p.Doing, Waiting: p.Waiting, Fixing: p.Fixing}
}

func fromInternalTask(t model.Task) Task {
	return Task{
		ID:                   t.ID,
		Codename:             t.Codename,
		StaffingTimeEstimate: t.StaffingTimeEstimate,
		Column:               Column(t.Column),
		Notes:                t.Notes,
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
		Times:                fromInternalTimes(t.Times),
		Active:               t.Active,
		ActiveTimer:          Phase(t.ActiveTimer),
		TimerStartedAt:       t.TimerStartedAt,
	}
}

func fromInternalTaskList(ts []model.Task) []Task {
	result := make([]Task, len(ts))
	for i, t := range ts {
		result[i] = fromInternalTask(t)
	}
	return result
}

func fromInternalTaskView(v model.TaskView) TaskView {
	return TaskView{
		Task:        fromInternalTask(v.Task),
		LiveElapsed: v.LiveElapsed,
		LiveTotal:   v.LiveTotal,
	}
}

func fromInternalMoveResult(r board.MoveResult) MoveResult {
	return MoveResult{
		Task:          fromInternalTask(r.Task),
		From:          Column(r.Transition.From),
		To:            Column(r.Transition.To),
		ClosedPhase:   Phase(r.Transition.ClosedPhase),
		ClosedSeconds: r.Transition.ClosedSeconds,
		Started:       Phase(r.Transition.Started),
		Continued:     r.Transition.Continued,
	}
}

func fromInternalSnapshot(s model.BoardSnapshot) Board {
	b := Board{
		At:               s.At,
		Tasks:            make([]TaskView, len(s.Tasks)),
		ActiveTaskID:     s.ActiveTaskID,
		ColumnCounts:     make(map[Column]int, len(s.ColumnCounts)),
		TotalLiveSeconds: s.TotalLiveSeconds,
	}
	for i, v := range s.Tasks {
		b.Tasks[i] = fromInternalTaskView(v)
	}
	for c, n := range s.ColumnCounts {
		b.ColumnCounts[Column(c)] = n
	}
	return b
}

func fromInternalEntry(e model.AnalyticsEntry) AnalyticsEntry {
	return AnalyticsEntry{
		ID:                   e.ID,
		Codename:             e.Codename,
		StaffingTimeEstimate: e.StaffingTimeEstimate,
		Notes:                e.Notes,
		CreatedAt:            e.CreatedAt,
		CompletedAt:          e.CompletedAt,
		Times:                fromInternalTimes(e.Times),
		TotalTime:            e.TotalTime,
		SLA:                  e.SLA,
	}
}

func fromInternalEntryList(es []model.AnalyticsEntry) []AnalyticsEntry {
	result := make([]AnalyticsEntry, len(es))
	for i, e := range es {
		result[i] = fromInternalEntry(e)
	}
	return result
}

func fromInternalSummary(s model.AnalyticsSummary) AnalyticsSummary {
	sum := AnalyticsSummary{
		TotalArchived: s.TotalArchived,
		TotalTime:     s.TotalTime,
		AverageTime:   s.AverageTime,
		Times:         fromInternalTimes(s.Times),
		Projects:      make([]ProjectSummary, len(s.Projects)),
	}
	if s.Longest != nil {
		l := fromInternalEntry(*s.Longest)
		sum.Longest = &l
	}
	for i, p := range s.Projects {
		sum.Projects[i] = ProjectSummary{
			Codename:       p.Codename,
			Entries:        p.Entries,
			Times:          fromInternalTimes(p.Times),
			TotalTime:      p.TotalTime,
			DoingPercent:   p.DoingPercent,
			WaitingPercent: p.WaitingPercent,
			FixingPercent:  p.FixingPercent,
		}
	}
	return sum
}

func fromInternalVerifyReport(r board.VerifyReport) VerifyReport {
	return VerifyReport{
		ActiveTaskID:      r.ActiveTaskID,
		PausedTaskIDs:     r.PausedTaskIDs,
		CompletedFixedIDs: r.CompletedFixedIDs,
		ReferenceFixed:    r.ReferenceFixed,
		Corrupted:         r.Corrupted,
	}
}

func (r VerifyReport) toInternal() board.VerifyReport {
	return board.VerifyReport{
		ActiveTaskID:      r.ActiveTaskID,
		PausedTaskIDs:     r.PausedTaskIDs,
		CompletedFixedIDs: r.CompletedFixedIDs,
		ReferenceFixed:    r.ReferenceFixed,
		Corrupted:         r.Corrupted,
	}
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case isInternalError(err, model.ErrNotFound):
		return joinErrors(err, ErrNotFound)
	case isInternalError(err, model.ErrAlreadyExists):
		return joinErrors(err, ErrAlreadyExists)
	case isInternalError(err, model.ErrNotValid):
		return joinErrors(err, ErrNotValid)
	case isInternalError(err, model.ErrInvalidTransition):
		return joinErrors(err, ErrInvalidTransition)
	case isInternalError(err, model.ErrNotActive):
		return joinErrors(err, ErrNotActive)
	case isInternalError(err, model.ErrConflict):
		return joinErrors(err, ErrConflict)
	case isInternalError(err, model.ErrCorruptedInvariant):
		return joinErrors(err, ErrCorruptedInvariant)
	default:
		return err
	}
}

func isInternalError(err, target error) bool {
	for {
		if err == target {
			return true
		}
		unwrapped := unwrapSingle(err)
		if unwrapped == nil {
			return false
		}
		err = unwrapped
	}
}

func unwrapSingle(err error) error {
	u, ok := err.(interface{ Unwrap() error })
	if !ok {
		return nil
	}
	return u.Unwrap()
}

func joinErrors(original, sentinel error) error {
	return &mappedError{original: original, sentinel: sentinel}
}

type mappedError struct {
	original error
	sentinel error
}

func (e *mappedError) Error() string { return e.original.Error() }

func (e *mappedError) Is(target error) bool {
	return target == e.sentinel
}

func (e *mappedError) Unwrap() error { return e.original }
