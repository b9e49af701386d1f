package economy

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand"

	"bnt-server/internal/planet"
	"bnt-server/internal/port"
	"bnt-server/internal/sector"
	"bnt-server/internal/shared/config"
)

const (
	// Fraction of the distance to equilibrium a port recovers per tick.
	portRegenFraction = 0.05
	// Yield of one colonist at 100% allocation per production tick.
	outputPerColonist = 0.01
	// Percent of sector defense points lost per decay tick.
	defenseDecayPercent = 5
	// Minutes a ship may linger in a protected sector before being towed.
	towGraceMinutes = 60
	// Chance per apocalypse tick that the event actually fires.
	apocalypseChance = 0.02
)

// Service runs the periodic economic sub-engines. Each sub-engine is
// independently schedulable and returns the number of rows it touched;
// the scheduler isolates and logs failures so one sub-engine cannot
// abort the rest of a cycle.
type Service struct {
	db      *sql.DB
	ports   *port.Repository
	planets *planet.Repository
	sectors *sector.Repository
	game    config.GameConfig
	logger  *slog.Logger
}

func NewService(db *sql.DB, ports *port.Repository, planets *planet.Repository, sectors *sector.Repository, game config.GameConfig, logger *slog.Logger) *Service {
	return &Service{
		db:      db,
		ports:   ports,
		planets: planets,
		sectors: sectors,
		game:    game,
		logger:  logger.With("component", "economy"),
	}
}

// RegeneratePorts moves commodity port stock toward equilibrium.
func (s *Service) RegeneratePorts(ctx context.Context, universeID int) (int, error) {
	return s.ports.RegenerateStock(ctx, universeID, portRegenFraction)
}

// RunPlanetProduction converts colonist labor into planet resources.
func (s *Service) RunPlanetProduction(ctx context.Context, universeID int) (int, error) {
	return s.planets.RunProduction(ctx, universeID, outputPerColonist)
}

// AccrueInterest credits interest on every positive bank balance in the
// universe, in one set-based statement. Interest is floored so small
// balances below 1/rate earn nothing.
func (s *Service) AccrueInterest(ctx context.Context, universeID int) (int, error) {
	logger := s.logger.With("operation", "interest", "universe_id", universeID)

	result, err := s.db.ExecContext(ctx, `
		UPDATE players
		SET bank_balance = bank_balance + FLOOR(bank_balance * $2)::bigint,
			updated_at = NOW()
		WHERE universe_id = $1 AND bank_balance > 0`,
		universeID, s.game.InterestRate)
	if err != nil {
		logger.Error("Interest accrual failed", "error", err)
		return 0, fmt.Errorf("interest accrual failed: %w", err)
	}

	rows, _ := result.RowsAffected()
	logger.Debug("Interest accrued", "accounts_updated", rows)
	return int(rows), nil
}

// DecayDefenses erodes deployed sector defense points.
func (s *Service) DecayDefenses(ctx context.Context, universeID int) (int, error) {
	return s.sectors.DecaySectorDefenses(ctx, universeID, defenseDecayPercent)
}

// RunDefenseChecks clears defense points from sectors whose rules no
// longer permit sector defenses, so rule changes take effect without a
// manual sweep.
func (s *Service) RunDefenseChecks(ctx context.Context, universeID int) (int, error) {
	logger := s.logger.With("operation", "defense_checks", "universe_id", universeID)

	result, err := s.db.ExecContext(ctx, `
		UPDATE sectors
		SET defense_points = 0
		WHERE universe_id = $1 AND allow_sector_defense = FALSE AND defense_points > 0`,
		universeID)
	if err != nil {
		logger.Error("Defense check sweep failed", "error", err)
		return 0, fmt.Errorf("defense check sweep failed: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows > 0 {
		logger.Info("Cleared defenses from protected sectors", "sectors_cleared", rows)
	}
	return int(rows), nil
}

// TowShips relocates ships that have overstayed the grace period in a
// no-combat sector to an adjacent warp-linked sector. Protected space is
// for passing through, not parking.
func (s *Service) TowShips(ctx context.Context, universeID int) (int, error) {
	logger := s.logger.With("operation", "ship_towing", "universe_id", universeID)

	result, err := s.db.ExecContext(ctx, `
		UPDATE players p
		SET current_sector_id = w.to_sector_id, updated_at = NOW()
		FROM sectors s,
			LATERAL (
				SELECT to_sector_id FROM warps
				WHERE from_sector_id = s.id
				ORDER BY to_sector_id
				LIMIT 1
			) w
		WHERE p.current_sector_id = s.id
			AND s.universe_id = $1
			AND s.allow_attacking = FALSE
			AND p.updated_at < NOW() - make_interval(mins => $2)`,
		universeID, towGraceMinutes)
	if err != nil {
		logger.Error("Ship towing failed", "error", err)
		return 0, fmt.Errorf("ship towing failed: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows > 0 {
		logger.Info("Towed ships out of protected sectors", "ships_towed", rows)
	}
	return int(rows), nil
}

// RunApocalypse occasionally devastates one random sector: mines are
// swept, sector defenses collapse, and planet populations are halved.
// Most ticks are quiet; the draw happens here rather than in the
// scheduler so the event interval still bounds the worst case.
func (s *Service) RunApocalypse(ctx context.Context, universeID int) (int, error) {
	logger := s.logger.With("operation", "apocalypse", "universe_id", universeID)

	if rand.Float64() >= apocalypseChance {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin apocalypse transaction: %w", err)
	}
	defer tx.Rollback()

	var sectorID int
	var sectorNumber int
	err = tx.QueryRowContext(ctx, `
		SELECT id, number FROM sectors
		WHERE universe_id = $1
		ORDER BY RANDOM()
		LIMIT 1
		FOR UPDATE`, universeID).Scan(&sectorID, &sectorNumber)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to pick apocalypse sector: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM mines WHERE sector_id = $1`, sectorID); err != nil {
		return 0, fmt.Errorf("failed to sweep mines: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE sectors SET defense_points = 0 WHERE id = $1`, sectorID); err != nil {
		return 0, fmt.Errorf("failed to collapse sector defenses: %w", err)
	}
	result, err := tx.ExecContext(ctx, `
		UPDATE planets SET colonists = colonists / 2, shields = 0
		WHERE sector_id = $1`, sectorID)
	if err != nil {
		return 0, fmt.Errorf("failed to devastate planets: %w", err)
	}
	planetsHit, _ := result.RowsAffected()

	headline := fmt.Sprintf("Catastrophe strikes sector %d", sectorNumber)
	body := fmt.Sprintf("A cosmic event has devastated sector %d. Defenses destroyed, %d planets affected.", sectorNumber, planetsHit)
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO news (universe_id, headline, body) VALUES ($1, $2, $3)`,
		universeID, headline, body); err != nil {
		return 0, fmt.Errorf("failed to post apocalypse news: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit apocalypse: %w", err)
	}

	logger.Info("Apocalypse struck", "sector_number", sectorNumber, "planets_hit", planetsHit)
	return 1 + int(planetsHit), nil
}
