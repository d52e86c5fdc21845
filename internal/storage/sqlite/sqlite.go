package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/slok/staffboard/internal/log"
	"github.com/slok/staffboard/internal/model"
	"github.com/slok/staffboard/internal/storage"
	"github.com/slok/staffboard/internal/storage/sqlite/migrations"
)

const activeTaskKey = "active_task_id"

// RepositoryConfig is the configuration for the SQLite repository.
type RepositoryConfig struct {
	DBPath string
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.SQLite"})
	return nil
}

// Repository is a SQLite implementation of storage.Repository.
type Repository struct {
	db     *sql.DB
	logger log.Logger
}

var _ storage.Repository = &Repository{}

// NewRepository creates a new SQLite repository.
func NewRepository(ctx context.Context, cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	dir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create db directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", cfg.DBPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	migrator, err := migrations.NewMigrator(db, cfg.Logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create migrator: %w", err)
	}
	version, err := migrator.Up(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not run migrations: %w", err)
	}

	cfg.Logger.Debugf("SQLite repository initialized at %s (schema version %d)", cfg.DBPath, version)

	return &Repository{db: db, logger: cfg.Logger}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error { return r.db.Close() }

// CreateTask creates a new task in the repository.
func (r *Repository) CreateTask(ctx context.Context, t model.Task) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("invalid task: %w", err)
	}

	query := `
		INSERT INTO tasks (
			id, codename, staffing_time_estimate, column_id, notes,
			doing_time, waiting_time, fixing_time,
			is_active, active_timer_type, timer_started_at, checkpoint_seconds,
			version, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		t.ID,
		t.Codename,
		t.StaffingTimeEstimate,
		string(t.Column),
		t.Notes,
		t.Times.Doing,
		t.Times.Waiting,
		t.Times.Fixing,
		t.Active,
		nullPhase(t.ActiveTimer),
		nullMillis(t.TimerStartedAt),
		t.CheckpointSeconds,
		int64(t.Version),
		t.CreatedAt.UnixMilli(),
		t.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: tasks.id") {
			return fmt.Errorf("task with id %s: %w", t.ID, model.ErrAlreadyExists)
		}
		if isSingleActiveViolation(err) {
			return fmt.Errorf("another task has a running timer: %w", model.ErrConflict)
		}
		return fmt.Errorf("could not insert task: %w", err)
	}

	r.logger.Debugf("Created task in repository: %s", t.ID)
	return nil
}

const taskColumns = `
	id, codename, staffing_time_estimate, column_id, notes,
	doing_time, waiting_time, fixing_time,
	is_active, active_timer_type, timer_started_at, checkpoint_seconds,
	version, created_at, updated_at
`

// GetTask retrieves a task by ID.
func (r *Repository) GetTask(ctx context.Context, id string) (*model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`

	t, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %s: %w", id, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not query task: %w", err)
	}

	return &t, nil
}

// ListTasks returns all tasks, oldest first.
func (r *Repository) ListTasks(ctx context.Context) ([]model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("could not query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan row: %w", err)
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return tasks, nil
}

// UpdateTask updates an existing task if its version matches the stored one.
func (r *Repository) UpdateTask(ctx context.Context, t model.Task) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("invalid task: %w", err)
	}

	query := `
		UPDATE tasks
		SET
			codename = ?,
			staffing_time_estimate = ?,
			column_id = ?,
			notes = ?,
			doing_time = ?,
			waiting_time = ?,
			fixing_time = ?,
			is_active = ?,
			active_timer_type = ?,
			timer_started_at = ?,
			checkpoint_seconds = ?,
			updated_at = ?,
			version = version + 1
		WHERE id = ? AND version = ?
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		t.Codename,
		t.StaffingTimeEstimate,
		string(t.Column),
		t.Notes,
		t.Times.Doing,
		t.Times.Waiting,
		t.Times.Fixing,
		t.Active,
		nullPhase(t.ActiveTimer),
		nullMillis(t.TimerStartedAt),
		t.CheckpointSeconds,
		t.UpdatedAt.UnixMilli(),
		t.ID,
		int64(t.Version),
	)
	if err != nil {
		if isSingleActiveViolation(err) {
			return fmt.Errorf("another task has a running timer: %w", model.ErrConflict)
		}
		return fmt.Errorf("could not update task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if rows == 0 {
		return r.missingOrStale(ctx, t.ID, t.Version)
	}

	r.logger.Debugf("Updated task in repository: %s (v%d)", t.ID, t.Version+1)
	return nil
}

// DeleteTask deletes a task, the active reference is cleared if it pointed to it.
func (r *Repository) DeleteTask(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("could not delete task: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}

	if err := clearActiveRef(ctx, tx, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	r.logger.Debugf("Deleted task from repository: %s", id)
	return nil
}

// GetActiveTaskID returns the active task reference.
func (r *Repository) GetActiveTaskID(ctx context.Context) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM board_state WHERE key = ?`, activeTaskKey).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("could not query active task: %w", err)
	}

	return id, nil
}

// SetActiveTaskID sets the active task reference.
func (r *Repository) SetActiveTaskID(ctx context.Context, id string) error {
	var err error
	if id == "" {
		_, err = r.db.ExecContext(ctx, `DELETE FROM board_state WHERE key = ?`, activeTaskKey)
	} else {
		_, err = r.db.ExecContext(ctx, `
			INSERT INTO board_state (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, activeTaskKey, id)
	}
	if err != nil {
		return fmt.Errorf("could not set active task: %w", err)
	}

	return nil
}

// ListAnalytics returns the analytics log newest first.
func (r *Repository) ListAnalytics(ctx context.Context) ([]model.AnalyticsEntry, error) {
	query := `
		SELECT
			id, codename, staffing_time_estimate, notes,
			created_at, completed_at,
			doing_time, waiting_time, fixing_time,
			total_time, sla
		FROM analytics
		ORDER BY seq DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("could not query analytics: %w", err)
	}
	defer rows.Close()

	entries := []model.AnalyticsEntry{}
	for rows.Next() {
		var e model.AnalyticsEntry
		var createdAt, completedAt int64
		err := rows.Scan(
			&e.ID,
			&e.Codename,
			&e.StaffingTimeEstimate,
			&e.Notes,
			&createdAt,
			&completedAt,
			&e.Times.Doing,
			&e.Times.Waiting,
			&e.Times.Fixing,
			&e.TotalTime,
			&e.SLA,
		)
		if err != nil {
			return nil, fmt.Errorf("could not scan row: %w", err)
		}
		e.CreatedAt = timeFromMillis(createdAt)
		e.CompletedAt = timeFromMillis(completedAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return entries, nil
}

// ArchiveTask moves a task into the analytics log in a single transaction.
func (r *Repository) ArchiveTask(ctx context.Context, e model.AnalyticsEntry, taskVersion uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND version = ?`, e.ID, int64(taskVersion))
	if err != nil {
		return fmt.Errorf("could not delete task: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if rows == 0 {
		_ = tx.Rollback()
		return r.missingOrStale(ctx, e.ID, taskVersion)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO analytics (
			id, codename, staffing_time_estimate, notes,
			created_at, completed_at,
			doing_time, waiting_time, fixing_time,
			total_time, sla
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.ID,
		e.Codename,
		e.StaffingTimeEstimate,
		e.Notes,
		e.CreatedAt.UnixMilli(),
		e.CompletedAt.UnixMilli(),
		e.Times.Doing,
		e.Times.Waiting,
		e.Times.Fixing,
		e.TotalTime,
		e.SLA,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: analytics.id") {
			return fmt.Errorf("analytics entry %s: %w", e.ID, model.ErrAlreadyExists)
		}
		return fmt.Errorf("could not insert analytics entry: %w", err)
	}

	if err := clearActiveRef(ctx, tx, e.ID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	r.logger.Debugf("Archived task in repository: %s", e.ID)
	return nil
}

// missingOrStale tells apart why a versioned write matched no rows.
func (r *Repository) missingOrStale(ctx context.Context, id string, version uint64) error {
	var stored uint64
	err := r.db.QueryRowContext(ctx, `SELECT version FROM tasks WHERE id = ?`, id).Scan(&stored)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("task %s: %w", id, model.ErrNotFound)
		}
		return fmt.Errorf("could not query task version: %w", err)
	}

	return fmt.Errorf("task %s version %d, got %d: %w", id, stored, version, model.ErrConflict)
}

func clearActiveRef(ctx context.Context, tx *sql.Tx, id string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM board_state WHERE key = ? AND value = ?`, activeTaskKey, id)
	if err != nil {
		return fmt.Errorf("could not clear active task: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (model.Task, error) {
	var t model.Task
	var column string
	var activeTimer sql.NullString
	var timerStartedAt sql.NullInt64
	var createdAt, updatedAt int64

	err := s.Scan(
		&t.ID,
		&t.Codename,
		&t.StaffingTimeEstimate,
		&column,
		&t.Notes,
		&t.Times.Doing,
		&t.Times.Waiting,
		&t.Times.Fixing,
		&t.Active,
		&activeTimer,
		&timerStartedAt,
		&t.CheckpointSeconds,
		&t.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return model.Task{}, err
	}

	t.Column = model.Column(column)
	t.ActiveTimer = model.Phase(activeTimer.String)
	if timerStartedAt.Valid {
		ts := timeFromMillis(timerStartedAt.Int64)
		t.TimerStartedAt = &ts
	}
	t.CreatedAt = timeFromMillis(createdAt)
	t.UpdatedAt = timeFromMillis(updatedAt)

	return t, nil
}

func isSingleActiveViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed: tasks.is_active")
}

func nullPhase(p model.Phase) sql.NullString {
	return sql.NullString{String: string(p), Valid: p != model.PhaseNone}
}

func nullMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

func timeFromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }
