// Package archive turns completed tasks into immutable analytics entries and
// aggregates the analytics log.
package archive

import (
	"fmt"
	"math"
	"time"

	"github.com/slok/staffboard/internal/model"
	"github.com/slok/staffboard/internal/timer"
)

// Transform returns the analytics entry of a completed task archived at now.
// A timer still running on the task is folded into its phase first. The
// received task is not modified.
func Transform(t model.Task, now time.Time) (model.AnalyticsEntry, error) {
	if t.Column != model.ColumnCompleted {
		return model.AnalyticsEntry{}, fmt.Errorf("task %s is on %s column, only completed tasks can be archived: %w", t.ID, t.Column, model.ErrInvalidTransition)
	}

	final := t.Copy()
	timer.Fold(&final, now)

	completedAt := now.UTC()
	return model.AnalyticsEntry{
		ID:                   final.ID,
		Codename:             final.Codename,
		StaffingTimeEstimate: final.StaffingTimeEstimate,
		Notes:                final.Notes,
		CreatedAt:            final.CreatedAt,
		CompletedAt:          completedAt,
		Times:                final.Times,
		TotalTime:            final.Times.Productive(),
		SLA:                  timer.Elapsed(final.CreatedAt, completedAt),
	}, nil
}

// Summarize aggregates analytics entries. Projects are grouped by codename and
// keep the order of their first appearance in entries.
func Summarize(entries []model.AnalyticsEntry) model.AnalyticsSummary {
	summary := model.AnalyticsSummary{
		TotalArchived: len(entries),
		Projects:      []model.ProjectSummary{},
	}
	if len(entries) == 0 {
		return summary
	}

	projectIdx := map[string]int{}
	for i, e := range entries {
		summary.TotalTime += e.TotalTime
		summary.Times.Doing += e.Times.Doing
		summary.Times.Waiting += e.Times.Waiting
		summary.Times.Fixing += e.Times.Fixing

		if summary.Longest == nil || e.TotalTime > summary.Longest.TotalTime {
			summary.Longest = &entries[i]
		}

		idx, ok := projectIdx[e.Codename]
		if !ok {
			idx = len(summary.Projects)
			projectIdx[e.Codename] = idx
			summary.Projects = append(summary.Projects, model.ProjectSummary{Codename: e.Codename})
		}
		p := &summary.Projects[idx]
		p.Entries++
		p.TotalTime += e.TotalTime
		p.Times.Doing += e.Times.Doing
		p.Times.Waiting += e.Times.Waiting
		p.Times.Fixing += e.Times.Fixing
	}

	longest := *summary.Longest
	summary.Longest = &longest
	summary.AverageTime = summary.TotalTime / int64(len(entries))

	for i := range summary.Projects {
		p := &summary.Projects[i]
		all := p.Times.Total()
		p.DoingPercent = percent(p.Times.Doing, all)
		p.WaitingPercent = percent(p.Times.Waiting, all)
		p.FixingPercent = percent(p.Times.Fixing, all)
	}

	return summary
}

// percent returns part over total as a percentage rounded to one decimal.
func percent(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)*1000/float64(total)) / 10
}
