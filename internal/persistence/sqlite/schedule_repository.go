package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mariangelapetruzzi0-cloud/Sistema-de-Horarios-Rimini/internal/persistence"
)

// ScheduleRepository implements persistence.ScheduleRepository using SQLite.
type ScheduleRepository struct {
	pool *ConnectionPool
}

// NewScheduleRepository creates a new SQLite schedule repository.
func NewScheduleRepository(pool *ConnectionPool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

// CreateEntry inserts one schedule entry.
func (r *ScheduleRepository) CreateEntry(ctx context.Context, entry persistence.ScheduleEntry) error {
	if entry.ID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO schedule_entries (id, user_id, employee_name, store, week, day, start_time, end_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.UserID,
		entry.EmployeeName,
		entry.Store,
		entry.Week,
		entry.Day,
		entry.StartTime,
		entry.EndTime,
		entry.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return mapError(err)
	}
	return nil
}

// ListEntries returns all entries in canonical weekday order (Monday first),
// not alphabetical, with stable ordering inside a day.
func (r *ScheduleRepository) ListEntries(ctx context.Context) ([]persistence.ScheduleEntry, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT id, user_id, employee_name, store, week, day, start_time, end_time, created_at
		FROM schedule_entries
		ORDER BY CASE day
			WHEN 'Segunda-feira' THEN 0
			WHEN 'Terça-feira'   THEN 1
			WHEN 'Quarta-feira'  THEN 2
			WHEN 'Quinta-feira'  THEN 3
			WHEN 'Sexta-feira'   THEN 4
			WHEN 'Sábado'        THEN 5
			WHEN 'Domingo'       THEN 6
		END ASC, created_at ASC, id ASC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var entries []persistence.ScheduleEntry
	for rows.Next() {
		var entry persistence.ScheduleEntry
		var createdAt string
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.EmployeeName,
			&entry.Store,
			&entry.Week,
			&entry.Day,
			&entry.StartTime,
			&entry.EndTime,
			&createdAt,
		)
		if err != nil {
			return nil, mapError(err)
		}
		if entry.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return entries, nil
}

// UpdateEntryTimes rewrites start/end for each referenced id within one
// transaction. Ids that match no row are silent no-ops.
func (r *ScheduleRepository) UpdateEntryTimes(ctx context.Context, updates []persistence.TimeUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, update := range updates {
			if update.ID == "" {
				continue
			}
			_, err := tx.Exec(
				"UPDATE schedule_entries SET start_time = ?, end_time = ? WHERE id = ?",
				update.StartTime, update.EndTime, update.ID,
			)
			if err != nil {
				return mapError(err)
			}
		}
		return nil
	})
}

// DeleteEntry removes one entry by ID.
func (r *ScheduleRepository) DeleteEntry(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.pool.db.ExecContext(ctx, "DELETE FROM schedule_entries WHERE id = ?", id)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}
