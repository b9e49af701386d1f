package player

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"bnt-server/internal/port"
	"bnt-server/internal/shared/database"
	apperrors "bnt-server/internal/shared/errors"

	"github.com/lib/pq"
)

type Repository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewRepository(db *sql.DB, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

const playerColumns = `id, universe_id, user_id, handle, credits, bank_balance, turns, turn_cap, last_turn_ts, current_sector_id, is_ai, created_at, updated_at`

const shipColumns = `player_id, hull, shields, shields_max, armor, armor_max, engine_level, computer_level, sensor_level,
	beam_level, torp_launcher_level, cloak_level, power_level, ore, organics, goods, energy, fighters, torpedoes, genesis_devices, escape_pod`

func scanPlayer(scanner interface{ Scan(...interface{}) error }) (*Player, error) {
	p := &Player{}
	err := scanner.Scan(&p.ID, &p.UniverseID, &p.UserID, &p.Handle, &p.Credits, &p.BankBalance,
		&p.Turns, &p.TurnCap, &p.LastTurnTS, &p.CurrentSectorID, &p.IsAI, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func scanShip(scanner interface{ Scan(...interface{}) error }) (*Ship, error) {
	s := &Ship{}
	err := scanner.Scan(&s.PlayerID, &s.Hull, &s.Shields, &s.ShieldsMax, &s.Armor, &s.ArmorMax,
		&s.EngineLevel, &s.ComputerLevel, &s.SensorLevel, &s.BeamLevel, &s.TorpLauncherLevel,
		&s.CloakLevel, &s.PowerLevel, &s.Ore, &s.Organics, &s.Goods, &s.Energy,
		&s.Fighters, &s.Torpedoes, &s.GenesisDevices, &s.EscapePod)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *Repository) GetByID(ctx context.Context, exec database.Executor, id int) (*Player, error) {
	query := fmt.Sprintf(`SELECT %s FROM players WHERE id = $1`, playerColumns)

	p, err := scanPlayer(exec.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFoundf("player %d not found", id)
		}
		r.logger.Error("Failed to get player", "player_id", id, "error", err)
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return p, nil
}

// GetByIDForUpdate locks the player row so turn/credit mutations serialize.
func (r *Repository) GetByIDForUpdate(ctx context.Context, tx *database.Tx, id int) (*Player, error) {
	query := fmt.Sprintf(`SELECT %s FROM players WHERE id = $1 FOR UPDATE`, playerColumns)

	p, err := scanPlayer(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFoundf("player %d not found", id)
		}
		r.logger.Error("Failed to lock player", "player_id", id, "error", err)
		return nil, fmt.Errorf("failed to lock player: %w", err)
	}
	return p, nil
}

func (r *Repository) GetByUser(ctx context.Context, exec database.Executor, universeID, userID int) (*Player, error) {
	query := fmt.Sprintf(`SELECT %s FROM players WHERE universe_id = $1 AND user_id = $2`, playerColumns)

	p, err := scanPlayer(exec.QueryRowContext(ctx, query, universeID, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFoundf("no player for user %d in universe %d", userID, universeID)
		}
		r.logger.Error("Failed to get player by user", "universe_id", universeID, "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get player by user: %w", err)
	}
	return p, nil
}

func (r *Repository) GetShip(ctx context.Context, exec database.Executor, playerID int) (*Ship, error) {
	query := fmt.Sprintf(`SELECT %s FROM ships WHERE player_id = $1`, shipColumns)

	s, err := scanShip(exec.QueryRowContext(ctx, query, playerID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFoundf("ship for player %d not found", playerID)
		}
		r.logger.Error("Failed to get ship", "player_id", playerID, "error", err)
		return nil, fmt.Errorf("failed to get ship: %w", err)
	}
	return s, nil
}

// GetShipForUpdate locks the ship row inside the caller's transaction.
func (r *Repository) GetShipForUpdate(ctx context.Context, tx *database.Tx, playerID int) (*Ship, error) {
	query := fmt.Sprintf(`SELECT %s FROM ships WHERE player_id = $1 FOR UPDATE`, shipColumns)

	s, err := scanShip(tx.QueryRowContext(ctx, query, playerID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFoundf("ship for player %d not found", playerID)
		}
		r.logger.Error("Failed to lock ship", "player_id", playerID, "error", err)
		return nil, fmt.Errorf("failed to lock ship: %w", err)
	}
	return s, nil
}

// Create inserts a player with a starter ship in one transaction.
func (r *Repository) Create(ctx context.Context, universeID int, userID *int, handle string, credits int64, turns, turnCap int, startSectorID int, isAI bool) (*Player, error) {
	logger := r.logger.With("component", "player_repository", "operation", "create",
		"universe_id", universeID, "handle", handle)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`
		INSERT INTO players (universe_id, user_id, handle, credits, turns, turn_cap, current_sector_id, is_ai)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s`, playerColumns)

	p, err := scanPlayer(tx.QueryRowContext(ctx, query, universeID, userID, handle, credits, turns, turnCap, startSectorID, isAI))
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return nil, apperrors.Conflictf(apperrors.CodeHandleTaken, "handle %q is already taken in this universe", handle)
		}
		logger.Error("Failed to create player", "error", err)
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO ships (player_id) VALUES ($1)`, p.ID); err != nil {
		logger.Error("Failed to create starter ship", "error", err)
		return nil, fmt.Errorf("failed to create starter ship: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO player_sector_visits (player_id, sector_id, visited)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (player_id, sector_id) DO UPDATE SET visited = TRUE`,
		p.ID, startSectorID); err != nil {
		logger.Error("Failed to mark starting sector visited", "error", err)
		return nil, fmt.Errorf("failed to mark starting sector visited: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit player creation: %w", err)
	}

	logger.Info("Player created", "player_id", p.ID, "is_ai", isAI)
	return p, nil
}

// SpendTurns debits turns inside the caller's transaction. The row must
// already be locked; callers check the balance first.
func (r *Repository) SpendTurns(ctx context.Context, tx *database.Tx, playerID, cost int) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE players SET turns = turns - $2, updated_at = NOW() WHERE id = $1`,
		playerID, cost,
	)
	if err != nil {
		r.logger.Error("Failed to spend turns", "player_id", playerID, "cost", cost, "error", err)
		return fmt.Errorf("failed to spend turns: %w", err)
	}
	return nil
}

// AdjustCredits applies a delta to the player's on-hand credits.
func (r *Repository) AdjustCredits(ctx context.Context, tx *database.Tx, playerID int, delta int64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE players SET credits = credits + $2, updated_at = NOW() WHERE id = $1`,
		playerID, delta,
	)
	if err != nil {
		r.logger.Error("Failed to adjust credits", "player_id", playerID, "delta", delta, "error", err)
		return fmt.Errorf("failed to adjust credits: %w", err)
	}
	return nil
}

var cargoColumns = map[port.Resource]string{
	port.ResourceOre:      "ore",
	port.ResourceOrganics: "organics",
	port.ResourceGoods:    "goods",
	port.ResourceEnergy:   "energy",
}

// AdjustCargo applies a delta to one commodity hold.
func (r *Repository) AdjustCargo(ctx context.Context, tx *database.Tx, playerID int, resource port.Resource, delta int64) error {
	column, ok := cargoColumns[resource]
	if !ok {
		return apperrors.Validationf("unknown resource %q", resource)
	}

	query := fmt.Sprintf(`UPDATE ships SET %s = %s + $2 WHERE player_id = $1`, column, column)
	if _, err := tx.ExecContext(ctx, query, playerID, delta); err != nil {
		r.logger.Error("Failed to adjust cargo", "player_id", playerID, "resource", resource, "error", err)
		return fmt.Errorf("failed to adjust cargo: %w", err)
	}
	return nil
}

// AdjustTorpedoes applies a delta to the ship's torpedo count.
func (r *Repository) AdjustTorpedoes(ctx context.Context, tx *database.Tx, playerID, delta int) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE ships SET torpedoes = torpedoes + $2 WHERE player_id = $1`,
		playerID, delta,
	)
	if err != nil {
		r.logger.Error("Failed to adjust torpedoes", "player_id", playerID, "error", err)
		return fmt.Errorf("failed to adjust torpedoes: %w", err)
	}
	return nil
}

// ConsumeGenesisDevice spends one genesis device from the ship. Callers
// hold the ship row lock and have already checked the count.
func (r *Repository) ConsumeGenesisDevice(ctx context.Context, tx *database.Tx, playerID int) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE ships SET genesis_devices = genesis_devices - 1 WHERE player_id = $1`,
		playerID,
	)
	if err != nil {
		r.logger.Error("Failed to consume genesis device", "player_id", playerID, "error", err)
		return fmt.Errorf("failed to consume genesis device: %w", err)
	}
	return nil
}

// MoveToSector updates the player's position and marks the sector visited,
// inside the caller's transaction.
func (r *Repository) MoveToSector(ctx context.Context, tx *database.Tx, playerID, sectorID int) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE players SET current_sector_id = $2, updated_at = NOW() WHERE id = $1`,
		playerID, sectorID,
	)
	if err != nil {
		r.logger.Error("Failed to move player", "player_id", playerID, "sector_id", sectorID, "error", err)
		return fmt.Errorf("failed to move player: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO player_sector_visits (player_id, sector_id, visited)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (player_id, sector_id) DO UPDATE SET visited = TRUE`,
		playerID, sectorID,
	)
	if err != nil {
		r.logger.Error("Failed to mark sector visited", "player_id", playerID, "sector_id", sectorID, "error", err)
		return fmt.Errorf("failed to mark sector visited: %w", err)
	}
	return nil
}

// MarkScanned records scan knowledge for a batch of sectors.
func (r *Repository) MarkScanned(ctx context.Context, exec database.Executor, playerID int, sectorIDs []int) error {
	for _, sectorID := range sectorIDs {
		_, err := exec.ExecContext(ctx, `
			INSERT INTO player_sector_visits (player_id, sector_id, scanned)
			VALUES ($1, $2, TRUE)
			ON CONFLICT (player_id, sector_id) DO UPDATE SET scanned = TRUE`,
			playerID, sectorID,
		)
		if err != nil {
			r.logger.Error("Failed to mark sector scanned", "player_id", playerID, "sector_id", sectorID, "error", err)
			return fmt.Errorf("failed to mark sector scanned: %w", err)
		}
	}
	return nil
}

// AIPlayers returns every AI-driven player in a universe.
func (r *Repository) AIPlayers(ctx context.Context, universeID int) ([]*Player, error) {
	query := fmt.Sprintf(`SELECT %s FROM players WHERE universe_id = $1 AND is_ai ORDER BY id`, playerColumns)

	rows, err := r.db.QueryContext(ctx, query, universeID)
	if err != nil {
		r.logger.Error("Failed to query AI players", "universe_id", universeID, "error", err)
		return nil, fmt.Errorf("failed to query AI players: %w", err)
	}
	defer rows.Close()

	var players []*Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// CountVisited returns how many sectors the player has entered.
func (r *Repository) CountVisited(ctx context.Context, playerID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM player_sector_visits WHERE player_id = $1 AND visited`,
		playerID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count visited sectors: %w", err)
	}
	return count, nil
}
