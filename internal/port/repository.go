package port

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

const portColumns = `id, sector_id, kind, ore_stock, organics_stock, goods_stock, energy_stock, capacity, created_at`

func scanPort(row *sql.Row) (*Port, error) {
	p := &Port{Stock: make(map[Resource]int64, 4)}
	var ore, organics, goods, energy int64
	err := row.Scan(&p.ID, &p.SectorID, &p.Kind, &ore, &organics, &goods, &energy, &p.Capacity, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.Stock[ResourceOre] = ore
	p.Stock[ResourceOrganics] = organics
	p.Stock[ResourceGoods] = goods
	p.Stock[ResourceEnergy] = energy
	return p, nil
}

func (r *Repository) GetByID(ctx context.Context, exec database.Executor, id int) (*Port, error) {
	query := fmt.Sprintf(`SELECT %s FROM ports WHERE id = $1`, portColumns)

	p, err := scanPort(exec.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFoundf("port %d not found", id)
		}
		r.logger.Error("Failed to get port", "port_id", id, "error", err)
		return nil, fmt.Errorf("failed to get port: %w", err)
	}
	return p, nil
}

// GetByIDForUpdate locks the port row for the duration of the transaction so
// concurrent trades serialize on it.
func (r *Repository) GetByIDForUpdate(ctx context.Context, tx *database.Tx, id int) (*Port, error) {
	query := fmt.Sprintf(`SELECT %s FROM ports WHERE id = $1 FOR UPDATE`, portColumns)

	p, err := scanPort(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFoundf("port %d not found", id)
		}
		r.logger.Error("Failed to lock port", "port_id", id, "error", err)
		return nil, fmt.Errorf("failed to lock port: %w", err)
	}
	return p, nil
}

func (r *Repository) GetBySector(ctx context.Context, exec database.Executor, sectorID int) (*Port, error) {
	query := fmt.Sprintf(`SELECT %s FROM ports WHERE sector_id = $1`, portColumns)

	p, err := scanPort(exec.QueryRowContext(ctx, query, sectorID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFoundf("no port in sector %d", sectorID)
		}
		r.logger.Error("Failed to get port by sector", "sector_id", sectorID, "error", err)
		return nil, fmt.Errorf("failed to get port by sector: %w", err)
	}
	return p, nil
}

var stockColumns = map[Resource]string{
	ResourceOre:      "ore_stock",
	ResourceOrganics: "organics_stock",
	ResourceGoods:    "goods_stock",
	ResourceEnergy:   "energy_stock",
}

// AdjustStock applies a delta to one commodity inside the caller's
// transaction. The CHECK constraint backs up the caller's bounds math.
func (r *Repository) AdjustStock(ctx context.Context, tx *database.Tx, portID int, resource Resource, delta int64) error {
	column, ok := stockColumns[resource]
	if !ok {
		return apperrors.Validationf("unknown resource %q", resource)
	}

	query := fmt.Sprintf(`UPDATE ports SET %s = %s + $2 WHERE id = $1`, column, column)
	if _, err := tx.ExecContext(ctx, query, portID, delta); err != nil {
		r.logger.Error("Failed to adjust port stock", "port_id", portID, "resource", resource, "error", err)
		return fmt.Errorf("failed to adjust port stock: %w", err)
	}
	return nil
}

// RegenerateStock moves every commodity port's stock toward equilibrium by
// the given fraction, in one set-based statement per universe. Stock never
// exceeds capacity and never goes negative.
func (r *Repository) RegenerateStock(ctx context.Context, universeID int, fraction float64) (int, error) {
	logger := r.logger.With("component", "port_repository", "operation", "regenerate", "universe_id", universeID)

	query := `
		UPDATE ports p SET
			ore_stock = LEAST(p.capacity, GREATEST(0, p.ore_stock + CEIL((p.capacity / 2 - p.ore_stock) * $2)::bigint)),
			organics_stock = LEAST(p.capacity, GREATEST(0, p.organics_stock + CEIL((p.capacity / 2 - p.organics_stock) * $2)::bigint)),
			goods_stock = LEAST(p.capacity, GREATEST(0, p.goods_stock + CEIL((p.capacity / 2 - p.goods_stock) * $2)::bigint)),
			energy_stock = LEAST(p.capacity, GREATEST(0, p.energy_stock + CEIL((p.capacity / 2 - p.energy_stock) * $2)::bigint))
		FROM sectors s
		WHERE p.sector_id = s.id AND s.universe_id = $1 AND p.kind <> 'special'`

	result, err := r.db.ExecContext(ctx, query, universeID, fraction)
	if err != nil {
		logger.Error("Failed to regenerate port stock", "error", err)
		return 0, fmt.Errorf("failed to regenerate port stock: %w", err)
	}

	rows, _ := result.RowsAffected()
	logger.Debug("Port stock regenerated", "ports_updated", rows)
	return int(rows), nil
}

func (r *Repository) Create(ctx context.Context, exec database.Executor, sectorID int, kind Kind, capacity int64) (*Port, error) {
	query := fmt.Sprintf(`
		INSERT INTO ports (sector_id, kind, ore_stock, organics_stock, goods_stock, energy_stock, capacity)
		VALUES ($1, $2, $3, $3, $3, $3, $4)
		RETURNING %s`, portColumns)

	// New ports open at equilibrium stock.
	p, err := scanPort(exec.QueryRowContext(ctx, query, sectorID, kind, capacity/2, capacity))
	if err != nil {
		r.logger.Error("Failed to create port", "sector_id", sectorID, "error", err)
		return nil, fmt.Errorf("failed to create port: %w", err)
	}
	return p, nil
}
