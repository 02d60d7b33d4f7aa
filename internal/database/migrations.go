package database

import (
	"database/sql"
	"embed"
	"fmt"

	migrate "github.com/rubenv/sql-migrate"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationDialect = "postgres"

// MigrationSource returns the embedded schema migrations
func MigrationSource() migrate.MigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFiles,
		Root:       "migrations",
	}
}

// MigrateUp applies all pending migrations and returns how many ran
func MigrateUp(db *sql.DB) (int, error) {
	n, err := migrate.Exec(db, migrationDialect, MigrationSource(), migrate.Up)
	if err != nil {
		return n, fmt.Errorf("failed to apply migrations: %w", err)
	}
	return n, nil
}

// MigrateDown rolls back up to steps migrations
func MigrateDown(db *sql.DB, steps int) (int, error) {
	n, err := migrate.ExecMax(db, migrationDialect, MigrationSource(), migrate.Down, steps)
	if err != nil {
		return n, fmt.Errorf("failed to roll back migrations: %w", err)
	}
	return n, nil
}
