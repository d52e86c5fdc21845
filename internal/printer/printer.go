package printer

import "github.com/slok/staffboard/internal/model"

// Printer knows how to print board information in different formats.
type Printer interface {
	PrintTasks(tasks []model.TaskView) error
	PrintTask(task model.TaskView) error
	PrintBoard(board model.BoardSnapshot) error
	PrintAnalytics(entries []model.AnalyticsEntry) error
	PrintAnalyticsSummary(summary model.AnalyticsSummary) error
	PrintMessage(msg string) error
}

var (
	_ Printer = &TablePrinter{}
	_ Printer = &JSONPrinter{}
)
