package ranking

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"bnt-server/internal/shared/database"
	"bnt-server/internal/shared/redis"
)

const cacheTTL = 5 * time.Minute

type Service struct {
	db     *database.DB
	cache  *redis.Client
	logger *slog.Logger
}

func NewService(db *database.DB, cache *redis.Client, logger *slog.Logger) *Service {
	return &Service{db: db, cache: cache, logger: logger.With("component", "ranking")}
}

// Recompute rebuilds every player's component scores and rank position
// in one set-based pass, snapshots the result to history, and refreshes
// the leaderboard cache. Rank positions order by total descending with
// player id as the tiebreaker, so the ordering is always total.
func (s *Service) Recompute(ctx context.Context, universeID int) (int, error) {
	logger := s.logger.With("operation", "recompute", "universe_id", universeID)

	tx, err := s.db.BeginTxContext(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	query := `
		WITH scores AS (
			SELECT
				p.id AS player_id,
				p.universe_id,
				p.credits + p.bank_balance
					+ sh.ore * 18 + sh.organics * 10 + sh.goods * 38 + sh.energy * 3 AS economic,
				COALESCE((
					SELECT SUM(100 + pl.colonists / 1000)
					FROM planets pl
					WHERE pl.owner_player_id = p.id
				), 0) AS territorial,
				sh.fighters * 2 + sh.torpedoes + sh.beam_level * 50
					+ sh.shields + sh.armor AS military,
				COALESCE((
					SELECT COUNT(*)
					FROM player_sector_visits v
					WHERE v.player_id = p.id AND v.visited
				), 0) AS exploration
			FROM players p
			JOIN ships sh ON sh.player_id = p.id
			WHERE p.universe_id = $1
		),
		ranked AS (
			SELECT
				player_id, universe_id, economic, territorial, military, exploration,
				economic * $2 + territorial * $3 + military * $4 + exploration * $5 AS total,
				ROW_NUMBER() OVER (
					ORDER BY economic * $2 + territorial * $3 + military * $4 + exploration * $5 DESC,
						player_id ASC
				) AS rank_position
			FROM scores
		)
		INSERT INTO rankings (player_id, universe_id, economic, territorial, military, exploration, total, rank_position, computed_at)
		SELECT player_id, universe_id, economic, territorial, military, exploration, total, rank_position, NOW()
		FROM ranked
		ON CONFLICT (player_id) DO UPDATE SET
			economic = EXCLUDED.economic,
			territorial = EXCLUDED.territorial,
			military = EXCLUDED.military,
			exploration = EXCLUDED.exploration,
			total = EXCLUDED.total,
			rank_position = EXCLUDED.rank_position,
			computed_at = EXCLUDED.computed_at`

	result, err := tx.ExecContext(ctx, query, universeID,
		WeightEconomic, WeightTerritorial, WeightMilitary, WeightExploration)
	if err != nil {
		logger.Error("Ranking recompute failed", "error", err)
		return 0, fmt.Errorf("ranking recompute failed: %w", err)
	}
	updated, _ := result.RowsAffected()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ranking_history (universe_id, player_id, economic, territorial, military, exploration, total, rank_position)
		SELECT universe_id, player_id, economic, territorial, military, exploration, total, rank_position
		FROM rankings
		WHERE universe_id = $1`, universeID)
	if err != nil {
		logger.Error("Ranking snapshot failed", "error", err)
		return 0, fmt.Errorf("ranking snapshot failed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit rankings: %w", err)
	}

	s.refreshCache(ctx, universeID)

	logger.Debug("Rankings recomputed", "players_ranked", updated)
	return int(updated), nil
}

// Leaderboard returns the universe's rankings in position order, served
// from cache when one is warm.
func (s *Service) Leaderboard(ctx context.Context, universeID, limit int) ([]*Ranking, error) {
	if cached := s.cachedLeaderboard(ctx, universeID); cached != nil {
		if len(cached) > limit {
			cached = cached[:limit]
		}
		return cached, nil
	}

	rankings, err := s.loadLeaderboard(ctx, universeID, limit)
	if err != nil {
		return nil, err
	}
	return rankings, nil
}

func (s *Service) loadLeaderboard(ctx context.Context, universeID, limit int) ([]*Ranking, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.player_id, r.universe_id, p.handle, r.economic, r.territorial,
			r.military, r.exploration, r.total, r.rank_position, r.computed_at
		FROM rankings r
		JOIN players p ON p.id = r.player_id
		WHERE r.universe_id = $1
		ORDER BY r.rank_position
		LIMIT $2`, universeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	defer rows.Close()

	var rankings []*Ranking
	for rows.Next() {
		var r Ranking
		if err := rows.Scan(&r.PlayerID, &r.UniverseID, &r.Handle, &r.Economic, &r.Territorial,
			&r.Military, &r.Exploration, &r.Total, &r.RankPosition, &r.ComputedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ranking: %w", err)
		}
		rankings = append(rankings, &r)
	}
	return rankings, rows.Err()
}

func cacheKey(universeID int) string {
	return fmt.Sprintf("rankings:%d", universeID)
}

// refreshCache is best effort; a cold or down cache never fails a
// recompute.
func (s *Service) refreshCache(ctx context.Context, universeID int) {
	if s.cache == nil {
		return
	}
	rankings, err := s.loadLeaderboard(ctx, universeID, 100)
	if err != nil {
		s.logger.Warn("Failed to load leaderboard for cache", "universe_id", universeID, "error", err)
		return
	}
	payload, err := json.Marshal(rankings)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(universeID), payload, cacheTTL).Err(); err != nil {
		s.logger.Warn("Failed to cache leaderboard", "universe_id", universeID, "error", err)
	}
}

func (s *Service) cachedLeaderboard(ctx context.Context, universeID int) []*Ranking {
	if s.cache == nil {
		return nil
	}
	payload, err := s.cache.Get(ctx, cacheKey(universeID)).Bytes()
	if err != nil {
		return nil
	}
	var rankings []*Ranking
	if err := json.Unmarshal(payload, &rankings); err != nil {
		return nil
	}
	return rankings
}
