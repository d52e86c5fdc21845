package archive_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/staffboard/internal/archive"
	"github.com/slok/staffboard/internal/model"
)

var t0 = time.Date(2026, 1, 30, 10, 0, 0, 0, time.UTC)

func completedTask() model.Task {
	return model.Task{
		ID:                   "01H2QWERTYASDFGZXCVBNMLKJH",
		Codename:             "falcon",
		StaffingTimeEstimate: "02:00",
		Column:               model.ColumnCompleted,
		Notes:                "done",
		CreatedAt:            t0,
		Times:                model.PhaseTimes{Doing: 100, Waiting: 30, Fixing: 50},
	}
}

func TestTransform(t *testing.T) {
	tests := map[string]struct {
		task     func() model.Task
		now      time.Time
		expEntry model.AnalyticsEntry
		expErr   error
	}{
		"A completed task should be archived with productive total and wall clock SLA.": {
			task: completedTask,
			now:  t0.Add(24 * time.Hour),
			expEntry: model.AnalyticsEntry{
				ID:                   "01H2QWERTYASDFGZXCVBNMLKJH",
				Codename:             "falcon",
				StaffingTimeEstimate: "02:00",
				Notes:                "done",
				CreatedAt:            t0,
				CompletedAt:          t0.Add(24 * time.Hour),
				Times:                model.PhaseTimes{Doing: 100, Waiting: 30, Fixing: 50},
				TotalTime:            150,
				SLA:                  86400,
			},
		},

		"A completed task with a running timer should fold the in-flight time first.": {
			task: func() model.Task {
				t := completedTask()
				started := t0.Add(time.Hour)
				t.Active = true
				t.ActiveTimer = model.PhaseFixing
				t.TimerStartedAt = &started
				return t
			},
			now: t0.Add(time.Hour + 45*time.Second + 900*time.Millisecond),
			expEntry: model.AnalyticsEntry{
				ID:                   "01H2QWERTYASDFGZXCVBNMLKJH",
				Codename:             "falcon",
				StaffingTimeEstimate: "02:00",
				Notes:                "done",
				CreatedAt:            t0,
				CompletedAt:          t0.Add(time.Hour + 45*time.Second + 900*time.Millisecond),
				Times:                model.PhaseTimes{Doing: 100, Waiting: 30, Fixing: 95},
				TotalTime:            195,
				SLA:                  3645,
			},
		},

		"Waiting time should never count in the total.": {
			task: func() model.Task {
				t := completedTask()
				t.Times = model.PhaseTimes{Waiting: 99999}
				return t
			},
			now: t0.Add(time.Minute),
			expEntry: model.AnalyticsEntry{
				ID:                   "01H2QWERTYASDFGZXCVBNMLKJH",
				Codename:             "falcon",
				StaffingTimeEstimate: "02:00",
				Notes:                "done",
				CreatedAt:            t0,
				CompletedAt:          t0.Add(time.Minute),
				Times:                model.PhaseTimes{Waiting: 99999},
				TotalTime:            0,
				SLA:                  60,
			},
		},

		"A task that is not completed should not be archived.": {
			task: func() model.Task {
				t := completedTask()
				t.Column = model.ColumnAdjustingComments
				return t
			},
			now:    t0.Add(time.Minute),
			expErr: model.ErrInvalidTransition,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			task := test.task()
			entry, err := archive.Transform(task, test.now)

			if test.expErr != nil {
				require.Error(err)
				assert.True(errors.Is(err, test.expErr))
				return
			}

			require.NoError(err)
			assert.Equal(test.expEntry, entry)
			assert.Equal(entry.Times.Doing+entry.Times.Fixing, entry.TotalTime)

			// Source task is untouched.
			assert.Equal(test.task(), task)
		})
	}
}

func TestSummarize(t *testing.T) {
	entry := func(id, codename string, doing, waiting, fixing int64) model.AnalyticsEntry {
		return model.AnalyticsEntry{
			ID:        id,
			Codename:  codename,
			Times:     model.PhaseTimes{Doing: doing, Waiting: waiting, Fixing: fixing},
			TotalTime: doing + fixing,
		}
	}

	tests := map[string]struct {
		entries []model.AnalyticsEntry
		exp     model.AnalyticsSummary
	}{
		"No entries should return an empty summary.": {
			entries: nil,
			exp:     model.AnalyticsSummary{Projects: []model.ProjectSummary{}},
		},

		"Entries should be aggregated per project in first appearance order.": {
			entries: []model.AnalyticsEntry{
				entry("3", "owl", 10, 0, 0),
				entry("2", "falcon", 60, 20, 20),
				entry("1", "falcon", 40, 0, 60),
			},
			exp: model.AnalyticsSummary{
				TotalArchived: 3,
				TotalTime:     190,
				AverageTime:   63,
				Times:         model.PhaseTimes{Doing: 110, Waiting: 20, Fixing: 80},
				Longest:       func() *model.AnalyticsEntry { e := entry("1", "falcon", 40, 0, 60); return &e }(),
				Projects: []model.ProjectSummary{
					{
						Codename:     "owl",
						Entries:      1,
						Times:        model.PhaseTimes{Doing: 10},
						TotalTime:    10,
						DoingPercent: 100,
					},
					{
						Codename:       "falcon",
						Entries:        2,
						Times:          model.PhaseTimes{Doing: 100, Waiting: 20, Fixing: 80},
						TotalTime:      180,
						DoingPercent:   50,
						WaitingPercent: 10,
						FixingPercent:  40,
					},
				},
			},
		},

		"Ties on the longest task should keep the first one.": {
			entries: []model.AnalyticsEntry{
				entry("2", "owl", 50, 0, 0),
				entry("1", "falcon", 50, 0, 0),
			},
			exp: model.AnalyticsSummary{
				TotalArchived: 2,
				TotalTime:     100,
				AverageTime:   50,
				Times:         model.PhaseTimes{Doing: 100},
				Longest:       func() *model.AnalyticsEntry { e := entry("2", "owl", 50, 0, 0); return &e }(),
				Projects: []model.ProjectSummary{
					{Codename: "owl", Entries: 1, Times: model.PhaseTimes{Doing: 50}, TotalTime: 50, DoingPercent: 100},
					{Codename: "falcon", Entries: 1, Times: model.PhaseTimes{Doing: 50}, TotalTime: 50, DoingPercent: 100},
				},
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.exp, archive.Summarize(test.entries))
		})
	}
}
