package cronlog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

type Repository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewRepository(db *sql.DB, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// Record appends one run entry. Logging failures must never fail the run
// itself, so errors are logged and swallowed.
func (r *Repository) Record(ctx context.Context, runID uuid.UUID, universeID *int, eventKind, status, message string, executionTimeMS int64) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cron_log (run_id, universe_id, event_kind, status, message, execution_time_ms)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		runID, universeID, eventKind, status, message, executionTimeMS,
	)
	if err != nil {
		r.logger.Error("Failed to record cron log entry",
			"run_id", runID, "event_kind", eventKind, "status", status, "error", err)
	}
}

// Recent returns the latest entries, newest first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]*Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, run_id, universe_id, event_kind, status, message, execution_time_ms, created_at
		FROM cron_log
		ORDER BY id DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		r.logger.Error("Failed to query cron log", "error", err)
		return nil, fmt.Errorf("failed to query cron log: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e := &Entry{}
		if err := rows.Scan(&e.ID, &e.RunID, &e.UniverseID, &e.EventKind, &e.Status, &e.Message, &e.ExecutionTimeMS, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cron log entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
