package movement

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"bnt-server/internal/combat"
	"bnt-server/internal/planet"
	"bnt-server/internal/player"
	"bnt-server/internal/port"
	"bnt-server/internal/sector"
	"bnt-server/internal/shared/database"
	apperrors "bnt-server/internal/shared/errors"
)

type Service struct {
	db      *database.DB
	players *player.Repository
	sectors *sector.Repository
	ports   *port.Repository
	planets *planet.Repository
	mines   *combat.Repository
	combat  *combat.Service
	logger  *slog.Logger
}

func NewService(db *database.DB, players *player.Repository, sectors *sector.Repository, ports *port.Repository, planets *planet.Repository, mines *combat.Repository, cbt *combat.Service, logger *slog.Logger) *Service {
	return &Service{
		db:      db,
		players: players,
		sectors: sectors,
		ports:   ports,
		planets: planets,
		mines:   mines,
		combat:  cbt,
		logger:  logger.With("component", "movement"),
	}
}

// Move relocates the player to the target sector. Warp edges are the
// cheap path; without one the move is a hyperspace jump priced by
// distance. Turns are checked before and debited with the position update
// in one transaction, so a failed move never costs anything. Arriving in
// a mined sector springs the field before the transaction commits.
func (s *Service) Move(ctx context.Context, playerID, targetNumber int, method Method) (*MoveResult, error) {
	if !ValidMethod(method) {
		return nil, apperrors.Validationf("unknown move method %q", method)
	}

	tx, err := s.db.BeginTxContext(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	pl, err := s.players.GetByIDForUpdate(ctx, tx, playerID)
	if err != nil {
		return nil, err
	}
	ship, err := s.players.GetShipForUpdate(ctx, tx, playerID)
	if err != nil {
		return nil, err
	}
	if pl.CurrentSectorID == nil {
		return nil, apperrors.Conflict(apperrors.CodeSectorRules, "player is not in a sector")
	}

	current, err := s.sectors.GetByID(ctx, tx, *pl.CurrentSectorID)
	if err != nil {
		return nil, err
	}
	target, err := s.sectors.GetByNumber(ctx, tx, pl.UniverseID, targetNumber)
	if err != nil {
		return nil, err
	}
	if target.ID == current.ID {
		return nil, apperrors.Validation("already in that sector")
	}

	hasWarp, err := s.sectors.WarpExists(ctx, tx, current.ID, target.ID)
	if err != nil {
		return nil, err
	}

	mode := MethodWarp
	cost := WarpMoveCost
	switch {
	case hasWarp && method != MethodHyper:
	case method == MethodWarp:
		return nil, apperrors.Conflictf(apperrors.CodeNoWarpLink,
			"no warp link from sector %d to %d", current.Number, target.Number)
	default:
		mode = MethodHyper
		cost = HyperspaceCost(current.Number, target.Number)
	}

	if pl.Turns < cost {
		return nil, apperrors.Conflictf(apperrors.CodeInsufficientTurns,
			"%d turns needed, %d available", cost, pl.Turns)
	}

	if err := s.players.MoveToSector(ctx, tx, playerID, target.ID); err != nil {
		return nil, err
	}
	if err := s.players.SpendTurns(ctx, tx, playerID, cost); err != nil {
		return nil, err
	}

	hit, err := s.combat.SpringMines(ctx, tx, pl, ship, target.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit move: %w", err)
	}

	pl.Turns -= cost
	pl.CurrentSectorID = &target.ID
	if hit != nil {
		ship.Shields -= hit.ShieldDamage
		ship.Armor -= hit.ArmorDamage
		if hit.ShipDestroyed {
			ship.EscapePod = true
		}
	}

	s.logger.Debug("Player moved",
		"player_id", playerID,
		"from", current.Number,
		"to", target.Number,
		"method", mode,
		"turn_cost", cost)

	return &MoveResult{
		Player:   pl,
		Ship:     ship,
		Sector:   target,
		Method:   mode,
		TurnCost: cost,
		MineHit:  hit,
	}, nil
}

// JumpToSector moves the player to a sector by id, used by trade route
// execution. Already being there is a no-op.
func (s *Service) JumpToSector(ctx context.Context, playerID, sectorID int) error {
	pl, err := s.players.GetByID(ctx, s.db, playerID)
	if err != nil {
		return err
	}
	if pl.CurrentSectorID != nil && *pl.CurrentSectorID == sectorID {
		return nil
	}
	target, err := s.sectors.GetByID(ctx, s.db, sectorID)
	if err != nil {
		return err
	}
	_, err = s.Move(ctx, playerID, target.Number, MethodAuto)
	return err
}

// ScanSingle sweeps one sector by number and records the scan.
func (s *Service) ScanSingle(ctx context.Context, playerID, sectorNumber int) (*ScanResult, error) {
	tx, err := s.db.BeginTxContext(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	pl, err := s.players.GetByIDForUpdate(ctx, tx, playerID)
	if err != nil {
		return nil, err
	}
	ship, err := s.players.GetShip(ctx, tx, playerID)
	if err != nil {
		return nil, err
	}
	if pl.Turns < ScanSingleCost {
		return nil, apperrors.Conflictf(apperrors.CodeInsufficientTurns,
			"%d turns needed, %d available", ScanSingleCost, pl.Turns)
	}

	target, err := s.sectors.GetByNumber(ctx, tx, pl.UniverseID, sectorNumber)
	if err != nil {
		return nil, err
	}

	summary, err := s.summarize(ctx, tx, target, ship.SensorLevel, nil)
	if err != nil {
		return nil, err
	}

	if err := s.players.MarkScanned(ctx, tx, playerID, []int{target.ID}); err != nil {
		return nil, err
	}
	if err := s.players.SpendTurns(ctx, tx, playerID, ScanSingleCost); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit scan: %w", err)
	}

	return &ScanResult{Sectors: []SectorSummary{*summary}, TurnCost: ScanSingleCost}, nil
}

// ScanFull sweeps every sector within radius of the player's position.
// Cost scales with radius; sectors are revealed with port and planet
// summaries and marked scanned.
func (s *Service) ScanFull(ctx context.Context, playerID, radius int) (*ScanResult, error) {
	if radius < 1 || radius > 10 {
		return nil, apperrors.Validation("radius must be between 1 and 10")
	}
	cost := ScanFullCost(radius)

	tx, err := s.db.BeginTxContext(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	pl, err := s.players.GetByIDForUpdate(ctx, tx, playerID)
	if err != nil {
		return nil, err
	}
	ship, err := s.players.GetShip(ctx, tx, playerID)
	if err != nil {
		return nil, err
	}
	if pl.CurrentSectorID == nil {
		return nil, apperrors.Conflict(apperrors.CodeSectorRules, "player is not in a sector")
	}
	if pl.Turns < cost {
		return nil, apperrors.Conflictf(apperrors.CodeInsufficientTurns,
			"%d turns needed, %d available", cost, pl.Turns)
	}

	current, err := s.sectors.GetByID(ctx, tx, *pl.CurrentSectorID)
	if err != nil {
		return nil, err
	}
	inRange, err := s.sectors.SectorsInRange(ctx, tx, pl.UniverseID, current.Number, radius)
	if err != nil {
		return nil, err
	}

	mineCounts, err := s.mines.MineCountsBySector(ctx, tx, pl.UniverseID)
	if err != nil {
		return nil, err
	}

	summaries := make([]SectorSummary, 0, len(inRange))
	scannedIDs := make([]int, 0, len(inRange))
	for _, sec := range inRange {
		summary, err := s.summarize(ctx, tx, sec, ship.SensorLevel, mineCounts)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
		scannedIDs = append(scannedIDs, sec.ID)
	}

	if err := s.players.MarkScanned(ctx, tx, playerID, scannedIDs); err != nil {
		return nil, err
	}
	if err := s.players.SpendTurns(ctx, tx, playerID, cost); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit scan: %w", err)
	}

	return &ScanResult{Sectors: summaries, TurnCost: cost}, nil
}

// ScanWarps lists the warp exits from the player's current sector.
func (s *Service) ScanWarps(ctx context.Context, playerID int) (*WarpsResult, error) {
	tx, err := s.db.BeginTxContext(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	pl, err := s.players.GetByIDForUpdate(ctx, tx, playerID)
	if err != nil {
		return nil, err
	}
	if pl.CurrentSectorID == nil {
		return nil, apperrors.Conflict(apperrors.CodeSectorRules, "player is not in a sector")
	}
	if pl.Turns < ScanWarpsCost {
		return nil, apperrors.Conflictf(apperrors.CodeInsufficientTurns,
			"%d turns needed, %d available", ScanWarpsCost, pl.Turns)
	}

	current, err := s.sectors.GetByID(ctx, tx, *pl.CurrentSectorID)
	if err != nil {
		return nil, err
	}
	exits, err := s.sectors.WarpsFrom(ctx, tx, current.ID)
	if err != nil {
		return nil, err
	}

	if err := s.players.SpendTurns(ctx, tx, playerID, ScanWarpsCost); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit warp scan: %w", err)
	}

	numbers := make([]int, 0, len(exits))
	for _, e := range exits {
		numbers = append(numbers, e.Number)
	}
	return &WarpsResult{FromNumber: current.Number, ToNumbers: numbers, TurnCost: ScanWarpsCost}, nil
}

// summarize builds one sector's scan view. Mines show up only when the
// sweep beats the best cloak defending them; a partial lead rolls against
// the reveal band. Wide sweeps pass precomputed per-sector mine counts so
// the loop does not query per sector; a nil map falls back to a lookup.
func (s *Service) summarize(ctx context.Context, tx *database.Tx, sec *sector.Sector, sensorLevel int, mineCounts map[int]int) (*SectorSummary, error) {
	summary := &SectorSummary{
		Number:        sec.Number,
		Name:          sec.Name,
		DefensePoints: sec.DefensePoints,
	}

	p, err := s.ports.GetBySector(ctx, tx, sec.ID)
	switch {
	case err != nil && apperrors.GetType(err) == apperrors.ErrorTypeNotFound:
		// Sectors without ports are the common case.
	case err != nil:
		return nil, err
	default:
		summary.Port = &PortSummary{ID: p.ID, Kind: p.Kind, Stock: p.Stock}
	}

	count, err := s.planets.CountBySector(ctx, tx, sec.ID)
	if err != nil {
		return nil, err
	}
	summary.PlanetCount = count

	counts := mineCounts[sec.ID]
	if mineCounts == nil {
		var err error
		counts, err = s.mineCount(ctx, tx, sec.ID)
		if err != nil {
			return nil, err
		}
	}
	if counts > 0 {
		cloak, err := s.mines.MaxCloakInSector(ctx, tx, sec.ID)
		if err != nil {
			return nil, err
		}
		if rand.Float64() < MineRevealChance(sensorLevel, cloak) {
			summary.MinesDetected = &counts
		}
	}
	return summary, nil
}

func (s *Service) mineCount(ctx context.Context, tx *database.Tx, sectorID int) (int, error) {
	var count int
	err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(mine_count), 0) FROM mines WHERE sector_id = $1`,
		sectorID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count sector mines: %w", err)
	}
	return count, nil
}
