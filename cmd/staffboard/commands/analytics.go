package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"
)

type AnalyticsCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	summary bool
	format  string
}

// NewAnalyticsCommand returns the analytics command.
func NewAnalyticsCommand(rootCmd *RootCommand, app *kingpin.Application) *AnalyticsCommand {
	c := &AnalyticsCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("analytics", "Show the archived tasks, newest first.")
	c.Cmd.Flag("summary", "Show the aggregated per project summary instead of the entries.").BoolVar(&c.summary)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c AnalyticsCommand) Name() string { return c.Cmd.FullCommand() }

func (c AnalyticsCommand) Run(ctx context.Context) error {
	svc, _, closeBoard, err := c.rootCmd.openBoard(ctx, openOneShot)
	if err != nil {
		return err
	}
	defer closeBoard()

	p := c.rootCmd.printer(c.format)

	if c.summary {
		summary, err := svc.AnalyticsSummary(ctx)
		if err != nil {
			return fmt.Errorf("could not summarize analytics: %w", err)
		}
		if err := p.PrintAnalyticsSummary(summary); err != nil {
			return fmt.Errorf("could not print analytics summary: %w", err)
		}
		return nil
	}

	entries, err := svc.ListAnalytics(ctx)
	if err != nil {
		return fmt.Errorf("could not list analytics: %w", err)
	}
	if err := p.PrintAnalytics(entries); err != nil {
		return fmt.Errorf("could not print analytics: %w", err)
	}

	return nil
}
