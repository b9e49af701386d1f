package sector

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

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

const sectorColumns = `id, universe_id, number, name, allow_trading, allow_attacking, allow_planet_creation, allow_sector_defense, defense_points`

func scanSector(row *sql.Row) (*Sector, error) {
	s := &Sector{}
	err := row.Scan(&s.ID, &s.UniverseID, &s.Number, &s.Name,
		&s.AllowTrading, &s.AllowAttacking, &s.AllowPlanetCreation, &s.AllowSectorDefense, &s.DefensePoints)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *Repository) GetByID(ctx context.Context, exec database.Executor, id int) (*Sector, error) {
	query := fmt.Sprintf(`SELECT %s FROM sectors WHERE id = $1`, sectorColumns)

	s, err := scanSector(exec.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFoundf("sector %d not found", id)
		}
		r.logger.Error("Failed to get sector", "sector_id", id, "error", err)
		return nil, fmt.Errorf("failed to get sector: %w", err)
	}
	return s, nil
}

func (r *Repository) GetByNumber(ctx context.Context, exec database.Executor, universeID, number int) (*Sector, error) {
	query := fmt.Sprintf(`SELECT %s FROM sectors WHERE universe_id = $1 AND number = $2`, sectorColumns)

	s, err := scanSector(exec.QueryRowContext(ctx, query, universeID, number))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFoundf("sector %d not found in universe %d", number, universeID)
		}
		r.logger.Error("Failed to get sector by number", "universe_id", universeID, "number", number, "error", err)
		return nil, fmt.Errorf("failed to get sector by number: %w", err)
	}
	return s, nil
}

// WarpExists reports whether a directed warp edge links the two sectors.
func (r *Repository) WarpExists(ctx context.Context, exec database.Executor, fromID, toID int) (bool, error) {
	var exists bool
	err := exec.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM warps WHERE from_sector_id = $1 AND to_sector_id = $2)`,
		fromID, toID,
	).Scan(&exists)
	if err != nil {
		r.logger.Error("Failed to check warp", "from", fromID, "to", toID, "error", err)
		return false, fmt.Errorf("failed to check warp: %w", err)
	}
	return exists, nil
}

// WarpsFrom returns the sectors reachable by one warp hop, ordered by number.
func (r *Repository) WarpsFrom(ctx context.Context, exec database.Executor, sectorID int) ([]*Sector, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM sectors s
		JOIN warps w ON w.to_sector_id = s.id
		WHERE w.from_sector_id = $1
		ORDER BY s.number`, prefixedSectorColumns("s"))

	rows, err := exec.QueryContext(ctx, query, sectorID)
	if err != nil {
		r.logger.Error("Failed to query warps", "sector_id", sectorID, "error", err)
		return nil, fmt.Errorf("failed to query warps: %w", err)
	}
	defer rows.Close()

	var sectors []*Sector
	for rows.Next() {
		s := &Sector{}
		if err := rows.Scan(&s.ID, &s.UniverseID, &s.Number, &s.Name,
			&s.AllowTrading, &s.AllowAttacking, &s.AllowPlanetCreation, &s.AllowSectorDefense, &s.DefensePoints); err != nil {
			return nil, fmt.Errorf("failed to scan sector: %w", err)
		}
		sectors = append(sectors, s)
	}
	return sectors, rows.Err()
}

// SectorsInRange returns sectors whose number falls within radius of center,
// for full scans.
func (r *Repository) SectorsInRange(ctx context.Context, exec database.Executor, universeID, centerNumber, radius int) ([]*Sector, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM sectors
		WHERE universe_id = $1 AND number BETWEEN $2 AND $3
		ORDER BY number`, sectorColumns)

	rows, err := exec.QueryContext(ctx, query, universeID, centerNumber-radius, centerNumber+radius)
	if err != nil {
		r.logger.Error("Failed to query sectors in range", "universe_id", universeID, "error", err)
		return nil, fmt.Errorf("failed to query sectors in range: %w", err)
	}
	defer rows.Close()

	var sectors []*Sector
	for rows.Next() {
		s := &Sector{}
		if err := rows.Scan(&s.ID, &s.UniverseID, &s.Number, &s.Name,
			&s.AllowTrading, &s.AllowAttacking, &s.AllowPlanetCreation, &s.AllowSectorDefense, &s.DefensePoints); err != nil {
			return nil, fmt.Errorf("failed to scan sector: %w", err)
		}
		sectors = append(sectors, s)
	}
	return sectors, rows.Err()
}

func (r *Repository) Create(ctx context.Context, exec database.Executor, universeID, number int) (*Sector, error) {
	query := fmt.Sprintf(`
		INSERT INTO sectors (universe_id, number)
		VALUES ($1, $2)
		RETURNING %s`, sectorColumns)

	s, err := scanSector(exec.QueryRowContext(ctx, query, universeID, number))
	if err != nil {
		r.logger.Error("Failed to create sector", "universe_id", universeID, "number", number, "error", err)
		return nil, fmt.Errorf("failed to create sector: %w", err)
	}
	return s, nil
}

func (r *Repository) CreateWarp(ctx context.Context, exec database.Executor, fromID, toID int) error {
	_, err := exec.ExecContext(ctx,
		`INSERT INTO warps (from_sector_id, to_sector_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		fromID, toID,
	)
	if err != nil {
		r.logger.Error("Failed to create warp", "from", fromID, "to", toID, "error", err)
		return fmt.Errorf("failed to create warp: %w", err)
	}
	return nil
}

// DecaySectorDefenses reduces every sector's defense points by a percentage,
// flooring at zero, in one statement per universe.
func (r *Repository) DecaySectorDefenses(ctx context.Context, universeID int, percent int) (int, error) {
	query := `
		UPDATE sectors
		SET defense_points = GREATEST(0, defense_points - GREATEST(1, defense_points * $2 / 100))
		WHERE universe_id = $1 AND defense_points > 0`

	result, err := r.db.ExecContext(ctx, query, universeID, percent)
	if err != nil {
		r.logger.Error("Failed to decay sector defenses", "universe_id", universeID, "error", err)
		return 0, fmt.Errorf("failed to decay sector defenses: %w", err)
	}
	rows, _ := result.RowsAffected()
	return int(rows), nil
}

func prefixedSectorColumns(alias string) string {
	return fmt.Sprintf("%s.id, %s.universe_id, %s.number, %s.name, %s.allow_trading, %s.allow_attacking, %s.allow_planet_creation, %s.allow_sector_defense, %s.defense_points",
		alias, alias, alias, alias, alias, alias, alias, alias, alias)
}
