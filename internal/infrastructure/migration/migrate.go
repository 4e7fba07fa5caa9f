// Package migration applies the postgres schema migrations with
// golang-migrate. Migrations are read from the embedded migrations package
// unless a directory is given.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/vellap/portal/migrations"
	"go.uber.org/zap"
)

// Migrator runs schema migrations against one database.
type Migrator struct {
	migrate *migrate.Migrate
	logger  *zap.Logger
}

// Status describes the applied schema version.
type Status struct {
	Version uint
	Dirty   bool
}

// Option configures where migrations are read from.
type Option func(*options)

type options struct {
	dir    string
	source fs.FS
}

// WithDir reads migrations from a directory instead of the embedded set.
func WithDir(dir string) Option {
	return func(o *options) { o.dir = dir }
}

// WithFS reads migrations from fsys.
func WithFS(fsys fs.FS) Option {
	return func(o *options) { o.source = fsys }
}

// New creates a Migrator for a postgres connection.
func New(db *sql.DB, logger *zap.Logger, opts ...Option) (*Migrator, error) {
	o := options{source: migrations.FS}
	for _, opt := range opts {
		opt(&o)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	var m *migrate.Migrate
	if o.dir != "" {
		m, err = migrate.NewWithDatabaseInstance("file://"+o.dir, "postgres", driver)
	} else {
		var src source.Driver
		if src, err = iofs.New(o.source, "."); err == nil {
			m, err = migrate.NewWithInstance("iofs", src, "postgres", driver)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return &Migrator{migrate: m, logger: logger.Named("migration")}, nil
}

// Up applies all pending migrations.
func (m *Migrator) Up() error {
	m.logger.Info("Running migrations up")
	if err := m.migrate.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Info("No migrations to apply")
			return nil
		}
		return fmt.Errorf("migration up failed: %w", err)
	}
	return m.logCurrent("Migrations completed")
}

// Down rolls back all migrations.
func (m *Migrator) Down() error {
	m.logger.Info("Running migrations down")
	if err := m.migrate.Down(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Info("No migrations to roll back")
			return nil
		}
		return fmt.Errorf("migration down failed: %w", err)
	}
	m.logger.Info("All migrations rolled back")
	return nil
}

// Steps applies n migrations, rolling back when n is negative.
func (m *Migrator) Steps(n int) error {
	m.logger.Info("Running migration steps", zap.Int("steps", n))
	if err := m.migrate.Steps(n); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Info("No migrations to apply")
			return nil
		}
		return fmt.Errorf("migration steps failed: %w", err)
	}
	return m.logCurrent("Migration steps completed")
}

// Status returns the applied version. A fresh database reports version 0.
func (m *Migrator) Status() (Status, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return Status{}, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("failed to get migration version: %w", err)
	}
	return Status{Version: version, Dirty: dirty}, nil
}

// Force sets the version without running migrations. Used to clear a
// dirty state after a failed migration was repaired by hand.
func (m *Migrator) Force(version int) error {
	m.logger.Warn("Forcing migration version", zap.Int("version", version))
	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}
	return nil
}

// Close releases the source and database handles.
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	if sourceErr != nil {
		return fmt.Errorf("failed to close source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("failed to close database: %w", dbErr)
	}
	return nil
}

func (m *Migrator) logCurrent(msg string) error {
	status, err := m.Status()
	if err != nil {
		return err
	}
	m.logger.Info(msg, zap.Uint("version", status.Version), zap.Bool("dirty", status.Dirty))
	return nil
}
