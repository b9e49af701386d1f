package combat

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"bnt-server/internal/shared/database"
)

// Repository persists minefields.
type Repository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewRepository(db *sql.DB, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: logger.With("component", "combat_repository")}
}

// MinesInSectorForUpdate locks and returns every minefield in a sector.
func (r *Repository) MinesInSectorForUpdate(ctx context.Context, tx *database.Tx, sectorID int) ([]*Mine, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, sector_id, owner_player_id, mine_count, tech_level, created_at
		FROM mines
		WHERE sector_id = $1 AND mine_count > 0
		ORDER BY id
		FOR UPDATE`, sectorID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock minefields: %w", err)
	}
	defer rows.Close()

	var mines []*Mine
	for rows.Next() {
		var m Mine
		if err := rows.Scan(&m.ID, &m.SectorID, &m.OwnerPlayerID, &m.MineCount, &m.TechLevel, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan minefield: %w", err)
		}
		mines = append(mines, &m)
	}
	return mines, rows.Err()
}

// OwnerMineCount returns how many mines the player already has in the
// sector, locking the field row if one exists. An owner has at most one
// row per sector.
func (r *Repository) OwnerMineCount(ctx context.Context, tx *database.Tx, sectorID, ownerID int) (int, error) {
	var count int
	err := tx.QueryRowContext(ctx, `
		SELECT mine_count FROM mines
		WHERE sector_id = $1 AND owner_player_id = $2
		FOR UPDATE`, sectorID, ownerID).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count mines: %w", err)
	}
	return count, nil
}

// AddMines merges mines into the owner's field in the sector. Deploying
// with a better launcher upgrades the whole field's tech level.
func (r *Repository) AddMines(ctx context.Context, tx *database.Tx, sectorID, ownerID, count, techLevel int) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO mines (sector_id, owner_player_id, mine_count, tech_level)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (sector_id, owner_player_id) DO UPDATE SET
			mine_count = mines.mine_count + EXCLUDED.mine_count,
			tech_level = GREATEST(mines.tech_level, EXCLUDED.tech_level)`,
		sectorID, ownerID, count, techLevel)
	if err != nil {
		return fmt.Errorf("failed to deploy mines: %w", err)
	}
	return nil
}

// ClearMines removes detonated minefields.
func (r *Repository) ClearMines(ctx context.Context, tx *database.Tx, mineIDs []int) error {
	for _, id := range mineIDs {
		if _, err := tx.ExecContext(ctx, `DELETE FROM mines WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to clear minefield: %w", err)
		}
	}
	return nil
}

// MineCountsBySector returns sector id to total mine count for a universe.
// The scan engine uses it to decide what a sensor sweep may reveal.
func (r *Repository) MineCountsBySector(ctx context.Context, exec database.Executor, universeID int) (map[int]int, error) {
	rows, err := exec.QueryContext(ctx, `
		SELECT m.sector_id, SUM(m.mine_count)
		FROM mines m
		JOIN sectors s ON s.id = m.sector_id
		WHERE s.universe_id = $1 AND m.mine_count > 0
		GROUP BY m.sector_id`, universeID)
	if err != nil {
		return nil, fmt.Errorf("failed to count mines by sector: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var sectorID, count int
		if err := rows.Scan(&sectorID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan mine count: %w", err)
		}
		counts[sectorID] = count
	}
	return counts, rows.Err()
}

// MaxCloakInSector returns the highest cloak level among mine owners in a
// sector so scans contend with the best-hidden field.
func (r *Repository) MaxCloakInSector(ctx context.Context, exec database.Executor, sectorID int) (int, error) {
	var cloak int
	err := exec.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(sh.cloak_level), 0)
		FROM mines m
		JOIN ships sh ON sh.player_id = m.owner_player_id
		WHERE m.sector_id = $1 AND m.mine_count > 0`, sectorID).Scan(&cloak)
	if err != nil {
		return 0, fmt.Errorf("failed to find defender cloak: %w", err)
	}
	return cloak, nil
}
