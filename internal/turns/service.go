package turns

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// Result reports one universe's accrual pass.
type Result struct {
	PlayersUpdated      int `json:"players_updated"`
	TotalTurnsGenerated int `json:"total_turns_generated"`
}

type Service struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewService(db *sql.DB, logger *slog.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Generate adds the universe's turns-per-generation to every player below
// their cap, clamped at the cap, in one set-based statement. Interval
// idempotence is the clock tracker's job; this only applies the batch.
func (s *Service) Generate(ctx context.Context, universeID int) (*Result, error) {
	logger := s.logger.With("component", "turn_accrual", "universe_id", universeID)

	// The self-join on players exposes pre-update turn balances to RETURNING,
	// which otherwise sees only the new values.
	query := `
		WITH accrued AS (
			UPDATE players p
			SET turns = LEAST(p.turn_cap, p.turns + u.turns_per_generation),
				last_turn_ts = NOW(),
				updated_at = NOW()
			FROM universes u, players prior
			WHERE p.universe_id = u.id AND u.id = $1
				AND prior.id = p.id AND p.turns < p.turn_cap
			RETURNING LEAST(p.turn_cap, prior.turns + u.turns_per_generation) - prior.turns AS granted
		)
		SELECT COUNT(*), COALESCE(SUM(granted), 0) FROM accrued`

	var result Result
	if err := s.db.QueryRowContext(ctx, query, universeID).Scan(&result.PlayersUpdated, &result.TotalTurnsGenerated); err != nil {
		logger.Error("Turn accrual failed", "error", err)
		return nil, fmt.Errorf("turn accrual failed: %w", err)
	}

	logger.Debug("Turn accrual complete",
		"players_updated", result.PlayersUpdated,
		"turns_generated", result.TotalTurnsGenerated)
	return &result, nil
}
