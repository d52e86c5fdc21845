package lib

import "context"

// ArchiveTask removes a completed task from the board and records it on the
// analytics log. There is no way back.
//
// Returns [ErrInvalidTransition] if the task is not completed.
func (c *Client) ArchiveTask(ctx context.Context, id string) (*AnalyticsEntry, error) {
	e, err := c.board.ArchiveTask(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}

	result := fromInternalEntry(*e)
	return &result, nil
}

// ListAnalytics returns the archived tasks, newest first.
func (c *Client) ListAnalytics(ctx context.Context) ([]AnalyticsEntry, error) {
	es, err := c.board.ListAnalytics(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	return fromInternalEntryList(es), nil
}

// AnalyticsSummary returns the archived tasks aggregated globally and by project.
func (c *Client) AnalyticsSummary(ctx context.Context) (*AnalyticsSummary, error) {
	s, err := c.board.AnalyticsSummary(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	result := fromInternalSummary(s)
	return &result, nil
}
