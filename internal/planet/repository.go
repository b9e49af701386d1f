package planet

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

const planetColumns = `id, sector_id, owner_player_id, name, ore, organics, goods, energy, colonists, fighters, torpedoes,
	prod_ore, prod_organics, prod_goods, prod_energy, prod_fighters, prod_torpedoes, base_built, shields, created_at`

func scanPlanet(scanner interface{ Scan(...interface{}) error }) (*Planet, error) {
	p := &Planet{}
	err := scanner.Scan(&p.ID, &p.SectorID, &p.OwnerPlayerID, &p.Name,
		&p.Ore, &p.Organics, &p.Goods, &p.Energy, &p.Colonists, &p.Fighters, &p.Torpedoes,
		&p.Production.Ore, &p.Production.Organics, &p.Production.Goods, &p.Production.Energy,
		&p.Production.Fighters, &p.Production.Torpedoes,
		&p.BaseBuilt, &p.Shields, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *Repository) GetByID(ctx context.Context, exec database.Executor, id int) (*Planet, error) {
	query := fmt.Sprintf(`SELECT %s FROM planets WHERE id = $1`, planetColumns)

	p, err := scanPlanet(exec.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFoundf("planet %d not found", id)
		}
		r.logger.Error("Failed to get planet", "planet_id", id, "error", err)
		return nil, fmt.Errorf("failed to get planet: %w", err)
	}
	return p, nil
}

// GetByIDForUpdate locks the planet row; capture re-checks shields under
// this lock.
func (r *Repository) GetByIDForUpdate(ctx context.Context, tx *database.Tx, id int) (*Planet, error) {
	query := fmt.Sprintf(`SELECT %s FROM planets WHERE id = $1 FOR UPDATE`, planetColumns)

	p, err := scanPlanet(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFoundf("planet %d not found", id)
		}
		r.logger.Error("Failed to lock planet", "planet_id", id, "error", err)
		return nil, fmt.Errorf("failed to lock planet: %w", err)
	}
	return p, nil
}

func (r *Repository) GetBySector(ctx context.Context, exec database.Executor, sectorID int) ([]*Planet, error) {
	query := fmt.Sprintf(`SELECT %s FROM planets WHERE sector_id = $1 ORDER BY id`, planetColumns)

	rows, err := exec.QueryContext(ctx, query, sectorID)
	if err != nil {
		r.logger.Error("Failed to query planets by sector", "sector_id", sectorID, "error", err)
		return nil, fmt.Errorf("failed to query planets: %w", err)
	}
	defer rows.Close()

	var planets []*Planet
	for rows.Next() {
		p, err := scanPlanet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan planet: %w", err)
		}
		planets = append(planets, p)
	}
	return planets, rows.Err()
}

func (r *Repository) CountBySector(ctx context.Context, exec database.Executor, sectorID int) (int, error) {
	var count int
	err := exec.QueryRowContext(ctx, `SELECT COUNT(*) FROM planets WHERE sector_id = $1`, sectorID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count planets: %w", err)
	}
	return count, nil
}

func (r *Repository) Create(ctx context.Context, exec database.Executor, sectorID int, name string, colonists int64) (*Planet, error) {
	query := fmt.Sprintf(`
		INSERT INTO planets (sector_id, name, colonists)
		VALUES ($1, $2, $3)
		RETURNING %s`, planetColumns)

	p, err := scanPlanet(exec.QueryRowContext(ctx, query, sectorID, name, colonists))
	if err != nil {
		r.logger.Error("Failed to create planet", "sector_id", sectorID, "error", err)
		return nil, fmt.Errorf("failed to create planet: %w", err)
	}
	return p, nil
}

// TransferOwnership moves the planet to the new owner. Callers hold the row
// lock and have verified shields are down.
func (r *Repository) TransferOwnership(ctx context.Context, tx *database.Tx, planetID, newOwnerID int) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE planets SET owner_player_id = $2 WHERE id = $1`,
		planetID, newOwnerID,
	)
	if err != nil {
		r.logger.Error("Failed to transfer planet", "planet_id", planetID, "error", err)
		return fmt.Errorf("failed to transfer planet: %w", err)
	}
	return nil
}

// ReduceShields lowers planet shields by the given damage, flooring at zero,
// and returns the remaining value.
func (r *Repository) ReduceShields(ctx context.Context, tx *database.Tx, planetID, damage int) (int, error) {
	var remaining int
	err := tx.QueryRowContext(ctx,
		`UPDATE planets SET shields = GREATEST(0, shields - $2) WHERE id = $1 RETURNING shields`,
		planetID, damage,
	).Scan(&remaining)
	if err != nil {
		r.logger.Error("Failed to reduce planet shields", "planet_id", planetID, "error", err)
		return 0, fmt.Errorf("failed to reduce planet shields: %w", err)
	}
	return remaining, nil
}

// RunProduction converts colonist labor into resources for every owned
// planet in the universe, honoring the allocation percentages, in one
// set-based statement. outputPerColonist is the per-cycle yield of one
// colonist at 100% allocation; base-built planets produce double.
func (r *Repository) RunProduction(ctx context.Context, universeID int, outputPerColonist float64) (int, error) {
	logger := r.logger.With("component", "planet_repository", "operation", "production", "universe_id", universeID)

	query := `
		UPDATE planets p SET
			ore = p.ore + FLOOR(p.colonists * $2 * p.prod_ore / 100.0 * (CASE WHEN p.base_built THEN 2 ELSE 1 END))::bigint,
			organics = p.organics + FLOOR(p.colonists * $2 * p.prod_organics / 100.0 * (CASE WHEN p.base_built THEN 2 ELSE 1 END))::bigint,
			goods = p.goods + FLOOR(p.colonists * $2 * p.prod_goods / 100.0 * (CASE WHEN p.base_built THEN 2 ELSE 1 END))::bigint,
			energy = p.energy + FLOOR(p.colonists * $2 * p.prod_energy / 100.0 * (CASE WHEN p.base_built THEN 2 ELSE 1 END))::bigint,
			fighters = p.fighters + FLOOR(p.colonists * $2 * p.prod_fighters / 100.0 * (CASE WHEN p.base_built THEN 2 ELSE 1 END))::int,
			torpedoes = p.torpedoes + FLOOR(p.colonists * $2 * p.prod_torpedoes / 100.0 * (CASE WHEN p.base_built THEN 2 ELSE 1 END))::int
		FROM sectors s
		WHERE p.sector_id = s.id AND s.universe_id = $1
			AND p.owner_player_id IS NOT NULL AND p.colonists > 0`

	result, err := r.db.ExecContext(ctx, query, universeID, outputPerColonist)
	if err != nil {
		logger.Error("Failed to run planet production", "error", err)
		return 0, fmt.Errorf("failed to run planet production: %w", err)
	}

	rows, _ := result.RowsAffected()
	logger.Debug("Planet production complete", "planets_updated", rows)
	return int(rows), nil
}

// UpdateAllocation writes a clamped production allocation.
func (r *Repository) UpdateAllocation(ctx context.Context, planetID int, alloc Allocation) error {
	alloc = alloc.Clamp()
	_, err := r.db.ExecContext(ctx, `
		UPDATE planets SET prod_ore = $2, prod_organics = $3, prod_goods = $4,
			prod_energy = $5, prod_fighters = $6, prod_torpedoes = $7
		WHERE id = $1`,
		planetID, alloc.Ore, alloc.Organics, alloc.Goods, alloc.Energy, alloc.Fighters, alloc.Torpedoes)
	if err != nil {
		r.logger.Error("Failed to update allocation", "planet_id", planetID, "error", err)
		return fmt.Errorf("failed to update allocation: %w", err)
	}
	return nil
}
