package board

import (
	"context"
	"fmt"
	"time"

	"github.com/slok/staffboard/internal/archive"
	"github.com/slok/staffboard/internal/model"
)

// ArchiveTask turns a completed task into an analytics entry and removes it from
// the board. There is no way back.
func (s *Service) ArchiveTask(ctx context.Context, id string) (*model.AnalyticsEntry, error) {
	var entry model.AnalyticsEntry
	err := s.mutate(ctx, "archive", func(ctx context.Context, now time.Time) error {
		t, err := s.getTask(ctx, id)
		if err != nil {
			return err
		}

		if t.Active {
			s.logger.Warningf("Completed task %s still had a running %s timer, folding it before archiving", t.ID, t.ActiveTimer)
		}

		entry, err = archive.Transform(*t, now)
		if err != nil {
			return err
		}

		if err := s.repo.ArchiveTask(ctx, entry, t.Version); err != nil {
			return fmt.Errorf("could not archive task %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infof("Archived task %s (%s): total %ds, SLA %ds", entry.Codename, entry.ID, entry.TotalTime, entry.SLA)
	return &entry, nil
}

// ListAnalytics returns the analytics log, newest first.
func (s *Service) ListAnalytics(ctx context.Context) ([]model.AnalyticsEntry, error) {
	entries, err := s.repo.ListAnalytics(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list analytics: %w", err)
	}
	return entries, nil
}

// AnalyticsSummary returns the aggregated analytics log.
func (s *Service) AnalyticsSummary(ctx context.Context) (model.AnalyticsSummary, error) {
	entries, err := s.ListAnalytics(ctx)
	if err != nil {
		return model.AnalyticsSummary{}, err
	}
	return archive.Summarize(entries), nil
}
