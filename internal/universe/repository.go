package universe

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"bnt-server/internal/shared/database"
	apperrors "bnt-server/internal/shared/errors"
)

const universeColumns = "id, name, sector_count, port_density, planet_density, ai_player_count, turns_per_generation, created_at, updated_at"

type Repository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewRepository(db *sql.DB, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: logger.With("component", "universe_repository")}
}

func scanUniverse(scanner interface{ Scan(...interface{}) error }) (*Universe, error) {
	var u Universe
	err := scanner.Scan(&u.ID, &u.Name, &u.SectorCount, &u.PortDensity, &u.PlanetDensity,
		&u.AIPlayerCount, &u.TurnsPerGeneration, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetByID(ctx context.Context, id int) (*Universe, error) {
	query := fmt.Sprintf(`SELECT %s FROM universes WHERE id = $1`, universeColumns)

	u, err := scanUniverse(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFoundf("universe %d not found", id)
	}
	if err != nil {
		r.logger.Error("Failed to get universe", "universe_id", id, "error", err)
		return nil, fmt.Errorf("failed to get universe: %w", err)
	}
	return u, nil
}

func (r *Repository) List(ctx context.Context) ([]*Universe, error) {
	query := fmt.Sprintf(`SELECT %s FROM universes ORDER BY id`, universeColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list universes", "error", err)
		return nil, fmt.Errorf("failed to list universes: %w", err)
	}
	defer rows.Close()

	var universes []*Universe
	for rows.Next() {
		u, err := scanUniverse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan universe: %w", err)
		}
		universes = append(universes, u)
	}
	return universes, rows.Err()
}

// ListIDs returns every universe id. The scheduler iterates this on every
// trigger, so it stays a bare id query.
func (r *Repository) ListIDs(ctx context.Context) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM universes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list universe ids: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan universe id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Create inserts the universe row inside the caller's transaction so
// generation failures roll the whole world back.
func (r *Repository) Create(ctx context.Context, exec database.Executor, params CreateParams) (*Universe, error) {
	query := fmt.Sprintf(`
		INSERT INTO universes (name, sector_count, port_density, planet_density, ai_player_count, turns_per_generation)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`, universeColumns)

	u, err := scanUniverse(exec.QueryRowContext(ctx, query,
		params.Name, params.SectorCount, params.PortDensity, params.PlanetDensity,
		params.AIPlayerCount, params.TurnsPerGeneration))
	if err != nil {
		r.logger.Error("Failed to create universe", "name", params.Name, "error", err)
		return nil, fmt.Errorf("failed to create universe: %w", err)
	}
	return u, nil
}

// Delete destroys a universe. Sectors, players, ships, planets, mines,
// rankings, and scheduling rows all cascade; cron_log rows stay behind.
func (r *Repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM universes WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete universe", "universe_id", id, "error", err)
		return fmt.Errorf("failed to delete universe: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.NotFoundf("universe %d not found", id)
	}
	r.logger.Info("Universe deleted", "universe_id", id)
	return nil
}
