package board

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/slok/staffboard/internal/model"
	"github.com/slok/staffboard/internal/timer"
)

// VerifyReport is the result of a board verification.
type VerifyReport struct {
	// ActiveTaskID is the task holding the running timer after the verification.
	ActiveTaskID string
	// PausedTaskIDs are the tasks that had a running timer and were paused to
	// keep a single one.
	PausedTaskIDs []string
	// CompletedFixedIDs are the completed tasks that still had a running timer.
	CompletedFixedIDs []string
	// ReferenceFixed is true when the stored active task reference was rewritten.
	ReferenceFixed bool
	// Recovered are the tasks whose open interval was closed on recovery.
	Recovered []string
	// Corrupted is true when more than one running timer was found.
	Corrupted bool
}

// Err returns an error if the board was found corrupted.
func (r VerifyReport) Err() error {
	if !r.Corrupted {
		return nil
	}
	return fmt.Errorf("%d tasks had a running timer, kept %s: %w", len(r.PausedTaskIDs)+1, r.ActiveTaskID, model.ErrCorruptedInvariant)
}

// Checkpoint makes the in-flight seconds of the running timers durable without
// closing them. Returns true if something was written.
func (s *Service) Checkpoint(ctx context.Context) (bool, error) {
	written := false
	err := s.mutate(ctx, "checkpoint", func(ctx context.Context, now time.Time) error {
		written = false
		tasks, err := s.repo.ListTasks(ctx)
		if err != nil {
			return fmt.Errorf("could not list tasks: %w", err)
		}

		for _, t := range activeTasks(tasks) {
			if !timer.Checkpoint(&t, now) {
				continue
			}
			if err := s.save(ctx, &t, now); err != nil {
				return err
			}
			written = true
		}

		return nil
	})
	if err != nil {
		return false, err
	}

	return written, nil
}

// Verify scans the whole board and repairs the timer state: a single running
// timer, no running timer on completed tasks and an active reference that
// matches the task flags.
func (s *Service) Verify(ctx context.Context) (VerifyReport, error) {
	var report VerifyReport
	err := s.mutate(ctx, "verify", func(ctx context.Context, now time.Time) error {
		r, err := s.verify(ctx, now)
		report = r
		return err
	})
	if err != nil {
		return VerifyReport{}, err
	}

	s.logReport(report)
	return report, nil
}

// Recover handles the timers left running by a previous process and verifies the board.
func (s *Service) Recover(ctx context.Context, policy model.RecoverPolicy) (VerifyReport, error) {
	var report VerifyReport
	err := s.mutate(ctx, "recover", func(ctx context.Context, now time.Time) error {
		recovered := []string{}
		switch policy {
		case model.RecoverPolicyResume, "":
		case model.RecoverPolicyCheckpoint:
			tasks, err := s.repo.ListTasks(ctx)
			if err != nil {
				return fmt.Errorf("could not list tasks: %w", err)
			}

			for _, t := range activeTasks(tasks) {
				added := timer.FoldCheckpointed(&t)
				if err := s.save(ctx, &t, now); err != nil {
					return err
				}
				recovered = append(recovered, t.ID)
				s.logger.Warningf("Closed timer of task %s left open, recovered %ds from its last checkpoint", t.ID, added)
			}
		default:
			return fmt.Errorf("unknown recover policy %q: %w", policy, model.ErrNotValid)
		}

		r, err := s.verify(ctx, now)
		if err != nil {
			return err
		}
		r.Recovered = recovered
		report = r

		return nil
	})
	if err != nil {
		return VerifyReport{}, err
	}

	s.logReport(report)
	return report, nil
}

func (s *Service) verify(ctx context.Context, now time.Time) (VerifyReport, error) {
	report := VerifyReport{
		PausedTaskIDs:     []string{},
		CompletedFixedIDs: []string{},
	}

	tasks, err := s.repo.ListTasks(ctx)
	if err != nil {
		return report, fmt.Errorf("could not list tasks: %w", err)
	}

	// Completed tasks can't keep a running timer.
	running := []model.Task{}
	for _, t := range activeTasks(tasks) {
		if t.Column != model.ColumnCompleted {
			running = append(running, t)
			continue
		}

		timer.Fold(&t, now)
		if err := s.save(ctx, &t, now); err != nil {
			return report, err
		}
		report.CompletedFixedIDs = append(report.CompletedFixedIDs, t.ID)
	}

	// Keep the most recently started timer.
	sortMostRecentFirst(running)
	if len(running) > 1 {
		report.Corrupted = true
		for _, t := range running[1:] {
			timer.Fold(&t, now)
			if err := s.save(ctx, &t, now); err != nil {
				return report, err
			}
			report.PausedTaskIDs = append(report.PausedTaskIDs, t.ID)
		}
	}
	if len(running) > 0 {
		report.ActiveTaskID = running[0].ID
	}

	ref, err := s.repo.GetActiveTaskID(ctx)
	if err != nil {
		return report, fmt.Errorf("could not get active task: %w", err)
	}
	if ref != report.ActiveTaskID {
		if err := s.repo.SetActiveTaskID(ctx, report.ActiveTaskID); err != nil {
			return report, fmt.Errorf("could not set active task: %w", err)
		}
		report.ReferenceFixed = true
	}

	return report, nil
}

// sortMostRecentFirst orders running tasks by start mark, newest first, with
// the lowest ID first on equal marks.
func sortMostRecentFirst(running []model.Task) {
	sort.SliceStable(running, func(i, j int) bool {
		a, b := startedAt(running[i]), startedAt(running[j])
		if !a.Equal(b) {
			return a.After(b)
		}
		return running[i].ID < running[j].ID
	})
}

func startedAt(t model.Task) time.Time {
	if t.TimerStartedAt == nil {
		return time.Time{}
	}
	return *t.TimerStartedAt
}

func (s *Service) logReport(r VerifyReport) {
	if err := r.Err(); err != nil {
		s.logger.Errorf("Board timers were corrupted, paused %v: %s", r.PausedTaskIDs, err)
	}
	for _, id := range r.CompletedFixedIDs {
		s.logger.Warningf("Completed task %s had a running timer, paused", id)
	}
	if r.ReferenceFixed {
		s.logger.Warningf("Active task reference rewritten to %q", r.ActiveTaskID)
	}
}
