package sqlstore

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

func (s *Store) newMigrate() (*migrate.Migrate, error) {
	files, err := iofs.New(migrationsFS, "migrations/"+s.dialect.name)
	if err != nil {
		return nil, err
	}
	driver, err := s.dialect.migrationDriver(s.db)
	if err != nil {
		return nil, err
	}
	// the migrate instance is not closed: closing its driver would close the shared *sql.DB
	return migrate.NewWithInstance("iofs", files, s.dialect.name, driver)
}

// MigrateUp applies every pending schema migration.
func (s *Store) MigrateUp() error {
	m, err := s.newMigrate()
	if err != nil {
		return fmt.Errorf("failed to prepare %s migrations: %w", s.dialect.name, err)
	}
	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply %s migrations: %w", s.dialect.name, err)
	}
	return nil
}

// MigrateDown reverts every schema migration.
func (s *Store) MigrateDown() error {
	m, err := s.newMigrate()
	if err != nil {
		return fmt.Errorf("failed to prepare %s migrations: %w", s.dialect.name, err)
	}
	if err = m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to revert %s migrations: %w", s.dialect.name, err)
	}
	return nil
}

// SchemaVersion returns the applied migration version.
func (s *Store) SchemaVersion() (uint, bool, error) {
	m, err := s.newMigrate()
	if err != nil {
		return 0, false, err
	}
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}
