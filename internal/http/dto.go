package http

import (
	"time"

	"github.com/slok/staffboard/internal/board"
	"github.com/slok/staffboard/internal/model"
)

type taskResponse struct {
	ID             string     `json:"id"`
	Codename       string     `json:"codename"`
	StaffingTime   string     `json:"staffing_time"`
	Column         string     `json:"column"`
	Notes          string     `json:"notes"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DoingTime      int64      `json:"doing_time"`
	WaitingTime    int64      `json:"waiting_time"`
	FixingTime     int64      `json:"fixing_time"`
	Active         bool       `json:"is_active"`
	ActiveTimer    *string    `json:"active_timer"`
	TimerStartedAt *time.Time `json:"timer_started_at"`
	LiveElapsed    *int64     `json:"live_elapsed,omitempty"`
	LiveTotal      *int64     `json:"live_total,omitempty"`
	Version        uint64     `json:"version"`
}

type boardResponse struct {
	At               time.Time      `json:"at"`
	ActiveTaskID     string         `json:"active_task_id,omitempty"`
	TotalLiveSeconds int64          `json:"total_live_seconds"`
	ColumnCounts     map[string]int `json:"column_counts"`
	Tasks            []taskResponse `json:"tasks"`
}

type moveResponse struct {
	Task          taskResponse `json:"task"`
	From          string       `json:"from"`
	To            string       `json:"to"`
	ClosedPhase   string       `json:"closed_phase,omitempty"`
	ClosedSeconds int64        `json:"closed_seconds"`
	Started       string       `json:"started,omitempty"`
	Continued     bool         `json:"continued"`
}

type analyticsEntryResponse struct {
	ID           string    `json:"id"`
	Codename     string    `json:"codename"`
	StaffingTime string    `json:"staffing_time"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	CompletedAt  time.Time `json:"completed_at"`
	DoingTime    int64     `json:"doing_time"`
	WaitingTime  int64     `json:"waiting_time"`
	FixingTime   int64     `json:"fixing_time"`
	TotalTime    int64     `json:"total_time"`
	SLA          int64     `json:"sla"`
}

type projectResponse struct {
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

type summaryResponse struct {
	TotalArchived int                     `json:"total_archived"`
	TotalTime     int64                   `json:"total_time"`
	AverageTime   int64                   `json:"average_time"`
	DoingTime     int64                   `json:"doing_time"`
	WaitingTime   int64                   `json:"waiting_time"`
	FixingTime    int64                   `json:"fixing_time"`
	Longest       *analyticsEntryResponse `json:"longest"`
	Projects      []projectResponse       `json:"projects"`
}

type verifyResponse struct {
	ActiveTaskID      string   `json:"active_task_id,omitempty"`
	PausedTaskIDs     []string `json:"paused_task_ids"`
	CompletedFixedIDs []string `json:"completed_fixed_ids"`
	ReferenceFixed    bool     `json:"reference_fixed"`
	Corrupted         bool     `json:"corrupted"`
}

func mapTask(t model.Task) taskResponse {
	r := taskResponse{
		ID:           t.ID,
		Codename:     t.Codename,
		StaffingTime: t.StaffingTimeEstimate,
		Column:       string(t.Column),
		Notes:        t.Notes,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		DoingTime:    t.Times.Doing,
		WaitingTime:  t.Times.Waiting,
		FixingTime:   t.Times.Fixing,
		Active:       t.Active,
		Version:      t.Version,
	}
	if t.Active {
		phase := string(t.ActiveTimer)
		r.ActiveTimer = &phase
		r.TimerStartedAt = t.TimerStartedAt
	}
	return r
}

func mapTaskView(v model.TaskView) taskResponse {
	r := mapTask(v.Task)
	r.LiveElapsed = &v.LiveElapsed
	r.LiveTotal = &v.LiveTotal
	return r
}

func mapBoard(s model.BoardSnapshot) boardResponse {
	r := boardResponse{
		At:               s.At,
		ActiveTaskID:     s.ActiveTaskID,
		TotalLiveSeconds: s.TotalLiveSeconds,
		ColumnCounts:     make(map[string]int, len(s.ColumnCounts)),
		Tasks:            make([]taskResponse, 0, len(s.Tasks)),
	}
	for c, n := range s.ColumnCounts {
		r.ColumnCounts[string(c)] = n
	}
	for _, v := range s.Tasks {
		r.Tasks = append(r.Tasks, mapTaskView(v))
	}
	return r
}

func mapMove(res board.MoveResult) moveResponse {
	tr := res.Transition
	return moveResponse{
		Task:          mapTask(res.Task),
		From:          string(tr.From),
		To:            string(tr.To),
		ClosedPhase:   string(tr.ClosedPhase),
		ClosedSeconds: tr.ClosedSeconds,
		Started:       string(tr.Started),
		Continued:     tr.Continued,
	}
}

func mapEntry(e model.AnalyticsEntry) analyticsEntryResponse {
	return analyticsEntryResponse{
		ID:           e.ID,
		Codename:     e.Codename,
		StaffingTime: e.StaffingTimeEstimate,
		Notes:        e.Notes,
		CreatedAt:    e.CreatedAt,
		CompletedAt:  e.CompletedAt,
		DoingTime:    e.Times.Doing,
		WaitingTime:  e.Times.Waiting,
		FixingTime:   e.Times.Fixing,
		TotalTime:    e.TotalTime,
		SLA:          e.SLA,
	}
}

func mapSummary(s model.AnalyticsSummary) summaryResponse {
	r := summaryResponse{
		TotalArchived: s.TotalArchived,
		TotalTime:     s.TotalTime,
		AverageTime:   s.AverageTime,
		DoingTime:     s.Times.Doing,
		WaitingTime:   s.Times.Waiting,
		FixingTime:    s.Times.Fixing,
		Projects:      make([]projectResponse, 0, len(s.Projects)),
	}
	if s.Longest != nil {
		l := mapEntry(*s.Longest)
		r.Longest = &l
	}
	for _, p := range s.Projects {
		r.Projects = append(r.Projects, projectResponse{
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
	return r
}

func mapVerify(r board.VerifyReport) verifyResponse {
	return verifyResponse{
		ActiveTaskID:      r.ActiveTaskID,
		PausedTaskIDs:     r.PausedTaskIDs,
		CompletedFixedIDs: r.CompletedFixedIDs,
		ReferenceFixed:    r.ReferenceFixed,
		Corrupted:         r.Corrupted,
	}
}
