package database

import (
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationFS embed.FS

// RunMigrations applies all pending migrations to the database and returns version info
func RunMigrations(db *DB) (uint, bool, error) {
	var (
		driver migratedb.Driver
		dir    string
		name   string
		err    error
	)

	switch db.Driver {
	case DriverPostgres:
		driver, err = postgres.WithInstance(db.DB, &postgres.Config{})
		dir, name = "migrations/postgres", "postgres"
	default:
		// libsql speaks the sqlite dialect
		driver, err = sqlite.WithInstance(db.DB, &sqlite.Config{})
		dir, name = "migrations/sqlite", "sqlite"
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to create %s migration driver: %w", name, err)
	}

	source, err := iofs.New(migrationFS, dir)
	if err != nil {
		return 0, false, fmt.Errorf("failed to create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, name, driver)
	if err != nil {
		return 0, false, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return 0, false, fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}

	return version, dirty, nil
}
