package printer

import (
	"encoding/json"
	"io"
	"time"

	"github.com/slok/staffboard/internal/model"
)

// JSONPrinter prints board information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

type taskOutput struct {
	ID                   string     `json:"id"`
	Codename             string     `json:"codename"`
	StaffingTimeEstimate string     `json:"staffing_time_estimate"`
	Column               string     `json:"column"`
	Notes                string     `json:"notes"`
	DoingTime            int64      `json:"doing_time"`
	WaitingTime          int64      `json:"waiting_time"`
	FixingTime           int64      `json:"fixing_time"`
	Active               bool       `json:"active"`
	ActiveTimer          *string    `json:"active_timer"`
	TimerStartedAt       *time.Time `json:"timer_started_at"`
	LiveElapsed          int64      `json:"live_elapsed"`
	LiveTotal            int64      `json:"live_total"`
	Urgency              string     `json:"urgency"`
	CreatedAt            time.Time  `json:"created_at"`
}

type boardOutput struct {
	At               time.Time      `json:"at"`
	ActiveTaskID     *string        `json:"active_task_id"`
	ColumnCounts     map[string]int `json:"column_counts"`
	TotalLiveSeconds int64          `json:"total_live_seconds"`
	Tasks            []taskOutput   `json:"tasks"`
}

type analyticsEntryOutput struct {
	ID                   string    `json:"id"`
	Codename             string    `json:"codename"`
	StaffingTimeEstimate string    `json:"staffing_time_estimate"`
	Notes                string    `json:"notes"`
	CreatedAt            time.Time `json:"created_at"`
	CompletedAt          time.Time `json:"completed_at"`
	DoingTime            int64     `json:"doing_time"`
	WaitingTime          int64     `json:"waiting_time"`
	FixingTime           int64     `json:"fixing_time"`
	TotalTime            int64     `json:"total_time"`
	SLA                  int64     `json:"sla"`
}

type projectOutput struct {
	Codename       string  `json:"codename"`
	Entries        int     `json:"entries"`
	DoingTime      int64   `json:"doing_time"`
	WaitingTime    int64   `json:"waiting_time"`
	FixingTime     int64   `json:"fixing_time"`
	TotalTime      int64   `json:"total_time"`
	DoingPercent   float64 `json:"doing_percent"`
	WaitingPercent float64 `json:"waiting_percent"`
	FixingPercent  float64 `json:"fixing_percent"`
}

type summaryOutput struct {
	TotalArchived int                   `json:"total_archived"`
	TotalTime     int64                 `json:"total_time"`
	AverageTime   int64                 `json:"average_time"`
	DoingTime     int64                 `json:"doing_time"`
	WaitingTime   int64                 `json:"waiting_time"`
	FixingTime    int64                 `json:"fixing_time"`
	Longest       *analyticsEntryOutput `json:"longest"`
	Projects      []projectOutput       `json:"projects"`
}

// messageOutput represents a simple message output.
type messageOutput struct {
	Message string `json:"message"`
}

// PrintTasks prints tasks in JSON format.
func (j *JSONPrinter) PrintTasks(tasks []model.TaskView) error {
	items := make([]taskOutput, 0, len(tasks))
	for _, v := range tasks {
		items = append(items, mapTask(v))
	}
	return j.encode(items)
}

// PrintTask prints a task in JSON format.
func (j *JSONPrinter) PrintTask(v model.TaskView) error {
	return j.encode(mapTask(v))
}

// PrintBoard prints the board snapshot in JSON format.
func (j *JSONPrinter) PrintBoard(board model.BoardSnapshot) error {
	out := boardOutput{
		At:               board.At.UTC(),
		ColumnCounts:     map[string]int{},
		TotalLiveSeconds: board.TotalLiveSeconds,
		Tasks:            make([]taskOutput, 0, len(board.Tasks)),
	}
	if board.ActiveTaskID != "" {
		id := board.ActiveTaskID
		out.ActiveTaskID = &id
	}
	for c, n := range board.ColumnCounts {
		out.ColumnCounts[string(c)] = n
	}
	for _, v := range board.Tasks {
		out.Tasks = append(out.Tasks, mapTask(v))
	}

	return j.encode(out)
}

// PrintAnalytics prints archived entries in JSON format.
func (j *JSONPrinter) PrintAnalytics(entries []model.AnalyticsEntry) error {
	items := make([]analyticsEntryOutput, 0, len(entries))
	for _, e := range entries {
		items = append(items, mapAnalyticsEntry(e))
	}
	return j.encode(items)
}

// PrintAnalyticsSummary prints the aggregated analytics in JSON format.
func (j *JSONPrinter) PrintAnalyticsSummary(s model.AnalyticsSummary) error {
	out := summaryOutput{
		TotalArchived: s.TotalArchived,
		TotalTime:     s.TotalTime,
		AverageTime:   s.AverageTime,
		DoingTime:     s.Times.Doing,
		WaitingTime:   s.Times.Waiting,
		FixingTime:    s.Times.Fixing,
		Projects:      make([]projectOutput, 0, len(s.Projects)),
	}
	if s.Longest != nil {
		l := mapAnalyticsEntry(*s.Longest)
		out.Longest = &l
	}
	for _, p := range s.Projects {
		out.Projects = append(out.Projects, projectOutput{
			Codename:       p.Codename,
			Entries:        p.Entries,
			DoingTime:      p.Times.Doing,
			WaitingTime:    p.Times.Waiting,
			FixingTime:     p.Times.Fixing,
			TotalTime:      p.TotalTime,
			DoingPercent:   p.DoingPercent,
			WaitingPercent: p.WaitingPercent,
			FixingPercent:  p.FixingPercent,
		})
	}

	return j.encode(out)
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.encode(messageOutput{Message: msg})
}

func (j *JSONPrinter) encode(v any) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func mapTask(v model.TaskView) taskOutput {
	t := v.Task
	out := taskOutput{
		ID:                   t.ID,
		Codename:             t.Codename,
		StaffingTimeEstimate: t.StaffingTimeEstimate,
		Column:               string(t.Column),
		Notes:                t.Notes,
		DoingTime:            t.Times.Doing,
		WaitingTime:          t.Times.Waiting,
		FixingTime:           t.Times.Fixing,
		Active:               t.Active,
		LiveElapsed:          v.LiveElapsed,
		LiveTotal:            v.LiveTotal,
		Urgency:              string(UrgencyTier(v.LiveElapsed)),
		CreatedAt:            t.CreatedAt.UTC(),
	}
	if t.Active {
		phase := string(t.ActiveTimer)
		out.ActiveTimer = &phase
	}
	if t.TimerStartedAt != nil {
		ts := t.TimerStartedAt.UTC()
		out.TimerStartedAt = &ts
	}

	return out
}

func mapAnalyticsEntry(e model.AnalyticsEntry) analyticsEntryOutput {
	return analyticsEntryOutput{
		ID:                   e.ID,
		Codename:             e.Codename,
		StaffingTimeEstimate: e.StaffingTimeEstimate,
		Notes:                e.Notes,
		CreatedAt:            e.CreatedAt.UTC(),
		CompletedAt:          e.CompletedAt.UTC(),
		DoingTime:            e.Times.Doing,
		WaitingTime:          e.Times.Waiting,
		FixingTime:           e.Times.Fixing,
		TotalTime:            e.TotalTime,
		SLA:                  e.SLA,
	}
}
