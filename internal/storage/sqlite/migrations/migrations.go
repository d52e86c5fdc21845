// Package migrations keeps the board SQLite schema up to date using the
// migrations embedded in the binary.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/slok/staffboard/internal/log"
)

// MigrationsTable is the table where the applied schema version is tracked.
const MigrationsTable = "staffboard_schema_migrations"

//go:embed sql/*.sql
var schemaFiles embed.FS

// Migrator applies the board schema migrations to a database.
type Migrator struct {
	db     *sql.DB
	logger log.Logger
}

// NewMigrator returns a migrator for a database.
func NewMigrator(db *sql.DB, logger log.Logger) (*Migrator, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	if logger == nil {
		logger = log.Noop
	}

	return &Migrator{
		db:     db,
		logger: logger.WithValues(log.Kv{"svc": "migrations.Migrator"}),
	}, nil
}

// Up migrates the schema to the latest version and returns it. A database
// already at the latest version is left untouched.
func (m *Migrator) Up(ctx context.Context) (uint, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var version uint
	err := m.withInstance(func(inst *migrate.Migrate) error {
		from, dirty, err := inst.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			return fmt.Errorf("could not get schema version: %w", err)
		}
		if dirty {
			return fmt.Errorf("schema version %d is dirty, a previous migration failed", from)
		}

		err = inst.Up()
		switch {
		case errors.Is(err, migrate.ErrNoChange):
			version = from
			return nil
		case err != nil:
			return fmt.Errorf("could not run migrations: %w", err)
		}

		version, _, err = inst.Version()
		if err != nil {
			return fmt.Errorf("could not get schema version: %w", err)
		}
		m.logger.Infof("Board schema migrated from version %d to %d", from, version)

		return nil
	})
	if err != nil {
		return 0, err
	}

	return version, nil
}

func (m *Migrator) withInstance(fn func(inst *migrate.Migrate) error) error {
	driver, err := sqlite3.WithInstance(m.db, &sqlite3.Config{MigrationsTable: MigrationsTable})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	src, err := iofs.New(schemaFiles, "sql")
	if err != nil {
		return fmt.Errorf("could not load embedded migrations: %w", err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			m.logger.Errorf("could not close migrations source: %s", err)
		}
	}()

	inst, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	return fn(inst)
}
