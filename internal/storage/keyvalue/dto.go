package keyvalue

import (
	"time"

	"github.com/slok/staffboard/internal/model"
)

// taskV1 is the stored task record, timestamps are milliseconds since epoch.
type taskV1 struct {
	ID                string  `json:"id"`
	Codename          string  `json:"codename"`
	StaffingTime      string  `json:"staffingTime"`
	ColumnID          string  `json:"columnId"`
	Notes             string  `json:"notes"`
	CreatedAt         int64   `json:"createdAt"`
	UpdatedAt         int64   `json:"updatedAt,omitempty"`
	DoingTime         int64   `json:"doingTime"`
	WaitingTime       int64   `json:"waitingTime"`
	FixingTime        int64   `json:"fixingTime"`
	ActiveTimerType   *string `json:"activeTimerType"`
	TimerStartedAt    *int64  `json:"timerStartedAt"`
	IsActive          bool    `json:"isActive"`
	CheckpointSeconds int64   `json:"checkpointSeconds,omitempty"`
	Version           uint64  `json:"version,omitempty"`
}

type analyticsEntryV1 struct {
	ID           string `json:"id"`
	Codename     string `json:"codename"`
	StaffingTime string `json:"staffingTime"`
	Notes        string `json:"notes"`
	CreatedAt    int64  `json:"createdAt"`
	CompletedAt  int64  `json:"completedAt"`
	DoingTime    int64  `json:"doingTime"`
	WaitingTime  int64  `json:"waitingTime"`
	FixingTime   int64  `json:"fixingTime"`
	TotalTime    int64  `json:"totalTime"`
	SLA          int64  `json:"sla"`
}

func mapTaskToV1(t model.Task) taskV1 {
	dto := taskV1{
		ID:                t.ID,
		Codename:          t.Codename,
		StaffingTime:      t.StaffingTimeEstimate,
		ColumnID:          string(t.Column),
		Notes:             t.Notes,
		CreatedAt:         t.CreatedAt.UnixMilli(),
		DoingTime:         t.Times.Doing,
		WaitingTime:       t.Times.Waiting,
		FixingTime:        t.Times.Fixing,
		IsActive:          t.Active,
		CheckpointSeconds: t.CheckpointSeconds,
		Version:           t.Version,
	}
	if !t.UpdatedAt.IsZero() {
		dto.UpdatedAt = t.UpdatedAt.UnixMilli()
	}
	if t.ActiveTimer != model.PhaseNone {
		phase := string(t.ActiveTimer)
		dto.ActiveTimerType = &phase
	}
	if t.TimerStartedAt != nil {
		ms := t.TimerStartedAt.UnixMilli()
		dto.TimerStartedAt = &ms
	}

	return dto
}

func mapTaskFromV1(dto taskV1) model.Task {
	t := model.Task{
		ID:                   dto.ID,
		Codename:             dto.Codename,
		StaffingTimeEstimate: dto.StaffingTime,
		Column:               model.Column(dto.ColumnID),
		Notes:                dto.Notes,
		CreatedAt:            timeFromMillis(dto.CreatedAt),
		Times: model.PhaseTimes{
			Doing:   dto.DoingTime,
			Waiting: dto.WaitingTime,
			Fixing:  dto.FixingTime,
		},
		Active:            dto.IsActive,
		CheckpointSeconds: dto.CheckpointSeconds,
		Version:           dto.Version,
	}
	if dto.UpdatedAt != 0 {
		t.UpdatedAt = timeFromMillis(dto.UpdatedAt)
	}
	if dto.ActiveTimerType != nil {
		t.ActiveTimer = model.Phase(*dto.ActiveTimerType)
	}
	if dto.TimerStartedAt != nil {
		ts := timeFromMillis(*dto.TimerStartedAt)
		t.TimerStartedAt = &ts
	}

	return t
}

func mapEntryToV1(e model.AnalyticsEntry) analyticsEntryV1 {
	return analyticsEntryV1{
		ID:           e.ID,
		Codename:     e.Codename,
		StaffingTime: e.StaffingTimeEstimate,
		Notes:        e.Notes,
		CreatedAt:    e.CreatedAt.UnixMilli(),
		CompletedAt:  e.CompletedAt.UnixMilli(),
		DoingTime:    e.Times.Doing,
		WaitingTime:  e.Times.Waiting,
		FixingTime:   e.Times.Fixing,
		TotalTime:    e.TotalTime,
		SLA:          e.SLA,
	}
}

func mapEntryFromV1(dto analyticsEntryV1) model.AnalyticsEntry {
	return model.AnalyticsEntry{
		ID:                   dto.ID,
		Codename:             dto.Codename,
		StaffingTimeEstimate: dto.StaffingTime,
		Notes:                dto.Notes,
		CreatedAt:            timeFromMillis(dto.CreatedAt),
		CompletedAt:          timeFromMillis(dto.CompletedAt),
		Times: model.PhaseTimes{
			Doing:   dto.DoingTime,
			Waiting: dto.WaitingTime,
			Fixing:  dto.FixingTime,
		},
		TotalTime: dto.TotalTime,
		SLA:       dto.SLA,
	}
}

func timeFromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }
