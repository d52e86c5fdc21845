package printer

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/slok/staffboard/internal/model"
)

// TablePrinter prints board information in a table format.
type TablePrinter struct {
	writer io.Writer
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w}
}

// PrintTasks prints tasks in a table format.
func (t *TablePrinter) PrintTasks(tasks []model.TaskView) error {
	if len(tasks) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "ID\tCODENAME\tCOLUMN\tTIMER\tELAPSED\tTOTAL\tCREATED")
	for _, v := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			v.Task.ID,
			v.Task.Codename,
			v.Task.Column,
			timerState(v.Task),
			FormatDuration(v.LiveElapsed),
			FormatDuration(v.LiveTotal),
			TimeAgo(v.Task.CreatedAt),
		)
	}

	return nil
}

// PrintTask prints detailed task information.
func (t *TablePrinter) PrintTask(v model.TaskView) error {
	task := v.Task
	fmt.Fprintf(t.writer, "ID:         %s\n", task.ID)
	fmt.Fprintf(t.writer, "Codename:   %s\n", task.Codename)
	fmt.Fprintf(t.writer, "Estimate:   %s\n", task.StaffingTimeEstimate)
	fmt.Fprintf(t.writer, "Column:     %s (%s)\n", task.Column.Title(), task.Column)
	fmt.Fprintf(t.writer, "Timer:      %s\n", timerState(task))
	if task.TimerStartedAt != nil {
		fmt.Fprintf(t.writer, "Started:    %s\n", FormatTimestamp(*task.TimerStartedAt))
	}
	fmt.Fprintf(t.writer, "Elapsed:    %s (%s)\n", FormatDuration(v.LiveElapsed), UrgencyTier(v.LiveElapsed))
	fmt.Fprintf(t.writer, "Doing:      %s\n", FormatDuration(task.Times.Doing))
	fmt.Fprintf(t.writer, "Waiting:    %s\n", FormatDuration(task.Times.Waiting))
	fmt.Fprintf(t.writer, "Fixing:     %s\n", FormatDuration(task.Times.Fixing))
	fmt.Fprintf(t.writer, "Total:      %s\n", FormatDuration(v.LiveTotal))
	fmt.Fprintf(t.writer, "Created:    %s\n", FormatTimestamp(task.CreatedAt))
	if task.Notes != "" {
		fmt.Fprintf(t.writer, "Notes:      %s\n", task.Notes)
	}

	return nil
}

// PrintBoard prints the board grouped by column.
func (t *TablePrinter) PrintBoard(board model.BoardSnapshot) error {
	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	for _, c := range model.Columns {
		fmt.Fprintf(tw, "%s (%d)\n", strings.ToUpper(c.Title()), board.ColumnCounts[c])
		for _, v := range board.TasksInColumn(c) {
			marker := " "
			if v.Task.ID == board.ActiveTaskID {
				marker = "*"
			}
			fmt.Fprintf(tw, "%s %s\t%s\t%s\t%s\n",
				marker,
				v.Task.Codename,
				v.Task.ID,
				FormatClock(v.LiveElapsed*1000),
				UrgencyTier(v.LiveElapsed),
			)
		}
	}
	fmt.Fprintf(tw, "\nTotal:\t%s\n", FormatDuration(board.TotalLiveSeconds))

	return nil
}

// PrintAnalytics prints archived entries, newest first.
func (t *TablePrinter) PrintAnalytics(entries []model.AnalyticsEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "CODENAME\tDOING\tWAITING\tFIXING\tTOTAL\tSLA\tCOMPLETED")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Codename,
			FormatDuration(e.Times.Doing),
			FormatDuration(e.Times.Waiting),
			FormatDuration(e.Times.Fixing),
			FormatDuration(e.TotalTime),
			FormatDuration(e.SLA),
			FormatTimestamp(e.CompletedAt),
		)
	}

	return nil
}

// PrintAnalyticsSummary prints the aggregated analytics.
func (t *TablePrinter) PrintAnalyticsSummary(s model.AnalyticsSummary) error {
	fmt.Fprintf(t.writer, "Archived:   %d\n", s.TotalArchived)
	fmt.Fprintf(t.writer, "Total:      %s\n", FormatDuration(s.TotalTime))
	fmt.Fprintf(t.writer, "Average:    %s\n", FormatDuration(s.AverageTime))
	if s.Longest != nil {
		fmt.Fprintf(t.writer, "Longest:    %s (%s)\n", s.Longest.Codename, FormatDuration(s.Longest.TotalTime))
	}

	if len(s.Projects) == 0 {
		return nil
	}

	fmt.Fprintln(t.writer)
	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "PROJECT\tTASKS\tDOING\tWAITING\tFIXING\tTOTAL")
	for _, p := range s.Projects {
		fmt.Fprintf(tw, "%s\t%d\t%s (%.0f%%)\t%s (%.0f%%)\t%s (%.0f%%)\t%s\n",
			p.Codename,
			p.Entries,
			FormatDuration(p.Times.Doing), p.DoingPercent,
			FormatDuration(p.Times.Waiting), p.WaitingPercent,
			FormatDuration(p.Times.Fixing), p.FixingPercent,
			FormatDuration(p.TotalTime),
		)
	}

	return nil
}

// PrintMessage prints a simple text message.
func (t *TablePrinter) PrintMessage(msg string) error {
	fmt.Fprintln(t.writer, msg)
	return nil
}

func timerState(t model.Task) string {
	if !t.Active {
		return "paused"
	}
	return string(t.ActiveTimer)
}
