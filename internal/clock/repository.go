package clock

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"bnt-server/internal/shared/database"
	apperrors "bnt-server/internal/shared/errors"
)

type Repository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewRepository(db *sql.DB, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// Seed inserts the default scheduling rows for a new universe.
func (r *Repository) Seed(ctx context.Context, exec database.Executor, universeID int) error {
	for _, kind := range AllEventKinds {
		_, err := exec.ExecContext(ctx, `
			INSERT INTO scheduler_events (universe_id, event_kind, interval_minutes)
			VALUES ($1, $2, $3)
			ON CONFLICT (universe_id, event_kind) DO NOTHING`,
			universeID, kind, DefaultIntervals[kind],
		)
		if err != nil {
			r.logger.Error("Failed to seed scheduler event", "universe_id", universeID, "kind", kind, "error", err)
			return fmt.Errorf("failed to seed scheduler event %s: %w", kind, err)
		}
	}
	return nil
}

// Get returns the scheduling row for one (universe, kind) pair.
func (r *Repository) Get(ctx context.Context, universeID int, kind EventKind) (*Event, error) {
	e := &Event{}
	err := r.db.QueryRowContext(ctx, `
		SELECT universe_id, event_kind, interval_minutes, last_run
		FROM scheduler_events
		WHERE universe_id = $1 AND event_kind = $2`,
		universeID, kind,
	).Scan(&e.UniverseID, &e.Kind, &e.IntervalMinutes, &e.LastRun)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFoundf("no %s schedule for universe %d", kind, universeID)
		}
		r.logger.Error("Failed to get scheduler event", "universe_id", universeID, "kind", kind, "error", err)
		return nil, fmt.Errorf("failed to get scheduler event: %w", err)
	}
	return e, nil
}

// GetAll returns every scheduling row for a universe.
func (r *Repository) GetAll(ctx context.Context, universeID int) ([]*Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT universe_id, event_kind, interval_minutes, last_run
		FROM scheduler_events
		WHERE universe_id = $1
		ORDER BY event_kind`,
		universeID,
	)
	if err != nil {
		r.logger.Error("Failed to query scheduler events", "universe_id", universeID, "error", err)
		return nil, fmt.Errorf("failed to query scheduler events: %w", err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		if err := rows.Scan(&e.UniverseID, &e.Kind, &e.IntervalMinutes, &e.LastRun); err != nil {
			return nil, fmt.Errorf("failed to scan scheduler event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// TryAdvance attempts to claim a due event by advancing last_run from the
// value the caller observed to now. The WHERE clause is the compare-and-swap:
// if another scheduler instance advanced the row first, zero rows match and
// the caller must skip the run silently. Also enforces that the interval has
// actually elapsed, so a stale caller cannot double-fire within one window.
func (r *Repository) TryAdvance(ctx context.Context, e *Event, now time.Time) (bool, error) {
	logger := r.logger.With("component", "clock", "operation", "try_advance",
		"universe_id", e.UniverseID, "kind", e.Kind)

	result, err := r.db.ExecContext(ctx, `
		UPDATE scheduler_events
		SET last_run = $3
		WHERE universe_id = $1 AND event_kind = $2
			AND last_run IS NOT DISTINCT FROM $4
			AND (last_run IS NULL OR last_run <= $3 - make_interval(mins => interval_minutes))`,
		e.UniverseID, e.Kind, now, e.LastRun,
	)
	if err != nil {
		logger.Error("Failed to advance scheduler event", "error", err)
		return false, fmt.Errorf("failed to advance scheduler event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	if rows == 0 {
		logger.Debug("Lost scheduling race or interval not elapsed, skipping")
		return false, nil
	}

	e.LastRun = &now
	return true, nil
}

// UpdateInterval changes the cadence for one event kind. Intervals below one
// minute are rejected.
func (r *Repository) UpdateInterval(ctx context.Context, universeID int, kind EventKind, minutes int) error {
	if minutes < 1 {
		return apperrors.Validation("interval must be at least one minute")
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE scheduler_events SET interval_minutes = $3
		WHERE universe_id = $1 AND event_kind = $2`,
		universeID, kind, minutes,
	)
	if err != nil {
		r.logger.Error("Failed to update interval", "universe_id", universeID, "kind", kind, "error", err)
		return fmt.Errorf("failed to update interval: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperrors.NotFoundf("no %s schedule for universe %d", kind, universeID)
	}
	return nil
}
