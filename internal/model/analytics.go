package model

import "time"

// AnalyticsEntry is the immutable snapshot of a task taken when it's archived.
type AnalyticsEntry struct {
	ID                   string
	Codename             string
	StaffingTimeEstimate string
	Notes                string
	CreatedAt            time.Time
	CompletedAt          time.Time
	Times                PhaseTimes
	// TotalTime is doing + fixing, waiting is not work.
	TotalTime int64
	// SLA are the wall clock seconds from creation to archival.
	SLA int64
}

// AnalyticsSummary aggregates the analytics log.
type AnalyticsSummary struct {
	TotalArchived int
	TotalTime     int64
	AverageTime   int64
	Times         PhaseTimes
	// Longest is the entry with the biggest total time, nil when there are no entries.
	Longest  *AnalyticsEntry
	Projects []ProjectSummary
}

// ProjectSummary aggregates the entries of a single project (codename).
type ProjectSummary struct {
	Codename  string
	Entries   int
	Times     PhaseTimes
	TotalTime int64
	// Percentages of each phase over doing + waiting + fixing (0-100).
	DoingPercent   float64
	WaitingPercent float64
	FixingPercent  float64
}

// Urgency is the severity tier of an elapsed duration.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)
