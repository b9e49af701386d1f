package economy

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// News is one entry in a universe's galactic news feed.
type News struct {
	ID         int64     `json:"id"`
	UniverseID int       `json:"universe_id"`
	Headline   string    `json:"headline"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// PostNews appends a headline to the universe's feed.
func (s *Service) PostNews(ctx context.Context, universeID int, headline, body string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO news (universe_id, headline, body) VALUES ($1, $2, $3)`,
		universeID, headline, body)
	if err != nil {
		return fmt.Errorf("failed to post news: %w", err)
	}
	return nil
}

// RecentNews returns the newest entries first.
func (s *Service) RecentNews(ctx context.Context, universeID, limit int) ([]*News, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, universe_id, headline, body, created_at
		FROM news
		WHERE universe_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, universeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query news: %w", err)
	}
	defer rows.Close()

	var items []*News
	for rows.Next() {
		var n News
		if err := rows.Scan(&n.ID, &n.UniverseID, &n.Headline, &n.Body, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan news row: %w", err)
		}
		items = append(items, &n)
	}
	return items, rows.Err()
}

// GenerateNews publishes periodic standings headlines: the wealthiest
// trader and the most traveled explorer. Quiet universes with no players
// produce no news.
func (s *Service) GenerateNews(ctx context.Context, universeID int) (int, error) {
	logger := s.logger.With("operation", "news", "universe_id", universeID)
	published := 0

	var handle string
	var credits int64
	err := s.db.QueryRowContext(ctx, `
		SELECT handle, credits + bank_balance
		FROM players
		WHERE universe_id = $1
		ORDER BY credits + bank_balance DESC, id ASC
		LIMIT 1`, universeID).Scan(&handle, &credits)
	switch {
	case err == sql.ErrNoRows:
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("failed to find wealthiest trader: %w", err)
	}

	headline := fmt.Sprintf("%s tops the trade charts", handle)
	body := fmt.Sprintf("%s now commands a fortune of %d credits.", handle, credits)
	if err := s.PostNews(ctx, universeID, headline, body); err != nil {
		return published, err
	}
	published++

	var explorer string
	var visited int
	err = s.db.QueryRowContext(ctx, `
		SELECT p.handle, COUNT(v.sector_id)
		FROM players p
		JOIN player_sector_visits v ON v.player_id = p.id AND v.visited
		WHERE p.universe_id = $1
		GROUP BY p.id, p.handle
		ORDER BY COUNT(v.sector_id) DESC, p.id ASC
		LIMIT 1`, universeID).Scan(&explorer, &visited)
	if err != nil && err != sql.ErrNoRows {
		return published, fmt.Errorf("failed to find top explorer: %w", err)
	}
	if err == nil && visited > 1 {
		headline := fmt.Sprintf("%s charts the frontier", explorer)
		body := fmt.Sprintf("%s has visited %d sectors, more than any rival.", explorer, visited)
		if err := s.PostNews(ctx, universeID, headline, body); err != nil {
			return published, err
		}
		published++
	}

	logger.Debug("News generated", "entries", published)
	return published, nil
}
