package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// migrationStep is one versioned schema change. Steps are applied in order
// and recorded in schema_migrations so restarts are idempotent.
type migrationStep struct {
	Version     string
	Description string
	Statements  []string
}

var migrations = []migrationStep{
	{
		Version:     "001",
		Description: "create users table",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS users (
				id            TEXT PRIMARY KEY,
				name          TEXT NOT NULL UNIQUE,
				email         TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				role          TEXT NOT NULL CHECK (role IN ('STAFF', 'MANAGER', 'ADMINISTRATOR')),
				stores        TEXT NOT NULL DEFAULT '[]',
				created_at    TEXT NOT NULL,
				updated_at    TEXT NOT NULL
			)`,
		},
	},
	{
		Version:     "002",
		Description: "create schedule_entries table",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS schedule_entries (
				id            TEXT PRIMARY KEY,
				user_id       TEXT,
				employee_name TEXT NOT NULL,
				store         TEXT NOT NULL,
				week          TEXT NOT NULL,
				day           TEXT NOT NULL CHECK (day IN (
					'Segunda-feira', 'Terça-feira', 'Quarta-feira', 'Quinta-feira',
					'Sexta-feira', 'Sábado', 'Domingo'
				)),
				start_time    TEXT,
				end_time      TEXT,
				created_at    TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_schedule_entries_week ON schedule_entries (week)`,
			`CREATE INDEX IF NOT EXISTS idx_schedule_entries_store ON schedule_entries (store)`,
		},
	},
}

// Migrate applies all pending migrations in sequential order.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	if _, err := cp.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL
		)`); err != nil {
		return fmt.Errorf("failed to initialize version table: %w", err)
	}

	applied := make(map[string]bool)
	rows, err := cp.db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return fmt.Errorf("failed to read applied versions: %w", err)
	}
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			_ = rows.Close()
			return fmt.Errorf("failed to scan applied version: %w", err)
		}
		applied[version] = true
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return fmt.Errorf("failed to iterate applied versions: %w", err)
	}
	_ = rows.Close()

	for _, step := range migrations {
		if applied[step.Version] {
			continue
		}
		if err := cp.WithTransaction(ctx, func(tx *sql.Tx) error {
			for _, stmt := range step.Statements {
				if _, err := tx.Exec(stmt); err != nil {
					return fmt.Errorf("migration %s (%s): %w", step.Version, step.Description, err)
				}
			}
			_, err := tx.Exec(
				"INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
				step.Version, time.Now().UTC().Format(time.RFC3339),
			)
			return err
		}); err != nil {
			return err
		}
	}

	return nil
}
