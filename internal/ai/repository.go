package ai

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

type Repository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewRepository(db *sql.DB, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: logger.With("component", "ai_repository")}
}

// Get loads a player's memory, creating the default explore state on
// first contact.
func (r *Repository) Get(ctx context.Context, playerID int) (*Memory, error) {
	var m Memory
	var goal string
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO ai_memory (player_id) VALUES ($1)
		ON CONFLICT (player_id) DO UPDATE SET player_id = EXCLUDED.player_id
		RETURNING player_id, goal, target_sector_id, trade_route_id, profit_streak, loss_streak, updated_at`,
		playerID).Scan(&m.PlayerID, &goal, &m.TargetSectorID, &m.TradeRouteID, &m.ProfitStreak, &m.LossStreak, &m.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to load ai memory: %w", err)
	}
	m.Goal = Goal(goal)
	return &m, nil
}

// Save writes the memory back after a pass.
func (r *Repository) Save(ctx context.Context, m *Memory) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE ai_memory
		SET goal = $2, target_sector_id = $3, trade_route_id = $4,
			profit_streak = $5, loss_streak = $6, updated_at = NOW()
		WHERE player_id = $1`,
		m.PlayerID, string(m.Goal), m.TargetSectorID, m.TradeRouteID, m.ProfitStreak, m.LossStreak)
	if err != nil {
		return fmt.Errorf("failed to save ai memory: %w", err)
	}
	return nil
}

// ResetUniverse returns every AI in the universe to a clean explore
// state. Running it twice changes nothing the first run did not.
func (r *Repository) ResetUniverse(ctx context.Context, universeID int) (int, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE ai_memory m
		SET goal = 'explore', target_sector_id = NULL, trade_route_id = NULL,
			profit_streak = 0, loss_streak = 0, updated_at = NOW()
		FROM players p
		WHERE m.player_id = p.id AND p.universe_id = $1 AND p.is_ai`,
		universeID)
	if err != nil {
		return 0, fmt.Errorf("failed to reset ai memory: %w", err)
	}
	rows, _ := result.RowsAffected()
	r.logger.Info("AI memory reset", "universe_id", universeID, "players_reset", rows)
	return int(rows), nil
}
