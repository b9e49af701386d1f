package combat

import (
	"context"
	"fmt"
	"log/slog"

	"bnt-server/internal/planet"
	"bnt-server/internal/player"
	"bnt-server/internal/sector"
	"bnt-server/internal/shared/database"
	apperrors "bnt-server/internal/shared/errors"
)

const (
	deployTurnCost  = 1
	attackTurnCost  = 1
	captureTurnCost = 1
	bombardTurnCost = 1
)

type Service struct {
	db      *database.DB
	mines   *Repository
	players *player.Repository
	planets *planet.Repository
	sectors *sector.Repository
	logger  *slog.Logger
}

func NewService(db *database.DB, mines *Repository, players *player.Repository, planets *planet.Repository, sectors *sector.Repository, logger *slog.Logger) *Service {
	return &Service{
		db:      db,
		mines:   mines,
		players: players,
		planets: planets,
		sectors: sectors,
		logger:  logger.With("component", "combat"),
	}
}

// DeployMines converts torpedoes into mines, one for one, up to the
// per-sector cap. The sector number names where the caller believes they
// are; a mismatch with the locked position is rejected rather than
// deploying somewhere the caller did not ask for. Turns and torpedoes are
// spent only when the deployment succeeds.
func (s *Service) DeployMines(ctx context.Context, playerID, sectorNumber, count int) (int, error) {
	if count <= 0 {
		return 0, apperrors.Validation("torpedoes_to_use must be positive")
	}
	if sectorNumber < 1 {
		return 0, apperrors.Validation("sector_number is required")
	}

	tx, err := s.db.BeginTxContext(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	pl, err := s.players.GetByIDForUpdate(ctx, tx, playerID)
	if err != nil {
		return 0, err
	}
	ship, err := s.players.GetShipForUpdate(ctx, tx, playerID)
	if err != nil {
		return 0, err
	}
	if pl.CurrentSectorID == nil {
		return 0, apperrors.Conflict(apperrors.CodeSectorRules, "player is not in a sector")
	}
	sectorID := *pl.CurrentSectorID

	sec, err := s.sectors.GetByID(ctx, tx, sectorID)
	if err != nil {
		return 0, err
	}
	if sec.Number != sectorNumber {
		return 0, apperrors.Conflictf(apperrors.CodeSectorRules,
			"you are in sector %d, not %d", sec.Number, sectorNumber)
	}
	if !sec.AllowSectorDefense {
		return 0, apperrors.Conflict(apperrors.CodeSectorRules, "sector defenses are not allowed here")
	}
	if pl.Turns < deployTurnCost {
		return 0, apperrors.Conflictf(apperrors.CodeInsufficientTurns,
			"%d turns needed, %d available", deployTurnCost, pl.Turns)
	}
	if ship.Torpedoes < count {
		return 0, apperrors.Conflictf(apperrors.CodeInsufficientCargo,
			"only %d torpedoes aboard", ship.Torpedoes)
	}

	existing, err := s.mines.OwnerMineCount(ctx, tx, sectorID, playerID)
	if err != nil {
		return 0, err
	}
	if existing+count > MaxMinesPerSector {
		return 0, apperrors.Conflictf(apperrors.CodeMineLimit,
			"sector holds %d of your mines, limit is %d", existing, MaxMinesPerSector)
	}

	if err := s.players.AdjustTorpedoes(ctx, tx, playerID, -count); err != nil {
		return 0, err
	}
	if err := s.mines.AddMines(ctx, tx, sectorID, playerID, count, ship.TorpLauncherLevel); err != nil {
		return 0, err
	}
	if err := s.players.SpendTurns(ctx, tx, playerID, deployTurnCost); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit mine deployment: %w", err)
	}

	s.logger.Debug("Mines deployed", "player_id", playerID, "sector_id", sectorID, "count", count)
	return count, nil
}

// SpringMines detonates every minefield in the sector against the
// entering ship, inside the caller's movement transaction. Ships below
// the hull threshold pass untouched and leave the fields armed. The
// movement engine calls this after updating the player's position.
func (s *Service) SpringMines(ctx context.Context, tx *database.Tx, pl *player.Player, ship *player.Ship, sectorID int) (*MineHit, error) {
	fields, err := s.mines.MinesInSectorForUpdate(ctx, tx, sectorID)
	if err != nil {
		return nil, err
	}

	total := 0
	damage := 0
	var cleared []int
	for _, m := range fields {
		if m.OwnerPlayerID == pl.ID {
			continue
		}
		total += m.MineCount
		damage += MineDamage(m.MineCount, m.TechLevel)
		cleared = append(cleared, m.ID)
	}
	if total == 0 || !HullTriggersMines(ship.Hull) {
		return nil, nil
	}

	shieldDamage, armorDamage, destroyed := SplitDamage(damage, ship.Shields, ship.Armor)
	if err := s.applyShipDamage(ctx, tx, pl.ID, shieldDamage, armorDamage); err != nil {
		return nil, err
	}
	if err := s.mines.ClearMines(ctx, tx, cleared); err != nil {
		return nil, err
	}
	if destroyed {
		if err := s.destroyShip(ctx, tx, pl); err != nil {
			return nil, err
		}
	}

	s.logger.Info("Minefield detonated",
		"player_id", pl.ID,
		"sector_id", sectorID,
		"mines", total,
		"damage", damage,
		"destroyed", destroyed)

	return &MineHit{
		SectorID:       sectorID,
		MinesTriggered: total,
		Damage:         damage,
		ShieldDamage:   shieldDamage,
		ArmorDamage:    armorDamage,
		ShipDestroyed:  destroyed,
	}, nil
}

// Attack fires one beam volley at another ship in the same sector.
// Deterministic: damage follows from beam level and fighters alone, so a
// given matchup always resolves the same way.
func (s *Service) Attack(ctx context.Context, attackerID, targetID int) (*AttackResult, error) {
	if attackerID == targetID {
		return nil, apperrors.Validation("cannot attack yourself")
	}

	tx, err := s.db.BeginTxContext(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Player rows lock in id order regardless of who is attacking, so
	// two simultaneous mutual attacks cannot deadlock.
	firstID, secondID := attackerID, targetID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}
	first, err := s.players.GetByIDForUpdate(ctx, tx, firstID)
	if err != nil {
		return nil, err
	}
	second, err := s.players.GetByIDForUpdate(ctx, tx, secondID)
	if err != nil {
		return nil, err
	}
	attacker, target := first, second
	if attacker.ID != attackerID {
		attacker, target = second, first
	}

	attackerShip, err := s.players.GetShipForUpdate(ctx, tx, attackerID)
	if err != nil {
		return nil, err
	}
	targetShip, err := s.players.GetShipForUpdate(ctx, tx, targetID)
	if err != nil {
		return nil, err
	}

	if attacker.CurrentSectorID == nil || target.CurrentSectorID == nil ||
		*attacker.CurrentSectorID != *target.CurrentSectorID {
		return nil, apperrors.Conflict(apperrors.CodeSectorRules, "target is not in your sector")
	}
	sec, err := s.sectors.GetByID(ctx, tx, *attacker.CurrentSectorID)
	if err != nil {
		return nil, err
	}
	if !sec.AllowAttacking {
		return nil, apperrors.Conflict(apperrors.CodeSectorRules, "attacking is not allowed in this sector")
	}
	if attacker.Turns < attackTurnCost {
		return nil, apperrors.Conflictf(apperrors.CodeInsufficientTurns,
			"%d turns needed, %d available", attackTurnCost, attacker.Turns)
	}
	if targetShip.EscapePod {
		return nil, apperrors.Conflict(apperrors.CodeSectorRules, "target is in an escape pod")
	}

	damage := BeamDamage(attackerShip.BeamLevel, attackerShip.Fighters)
	shieldDamage, armorDamage, destroyed := SplitDamage(damage, targetShip.Shields, targetShip.Armor)

	if err := s.applyShipDamage(ctx, tx, targetID, shieldDamage, armorDamage); err != nil {
		return nil, err
	}
	if destroyed {
		if err := s.destroyShip(ctx, tx, target); err != nil {
			return nil, err
		}
	}
	if err := s.players.SpendTurns(ctx, tx, attackerID, attackTurnCost); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit attack: %w", err)
	}

	s.logger.Info("Ship attacked",
		"attacker_id", attackerID,
		"target_id", targetID,
		"damage", damage,
		"destroyed", destroyed)

	return &AttackResult{
		TargetPlayerID:  targetID,
		Damage:          damage,
		ShieldDamage:    shieldDamage,
		ArmorDamage:     armorDamage,
		TargetDestroyed: destroyed,
	}, nil
}

// BombardPlanet fires a beam volley at a planet's shields. Capture
// requires shields at zero, so bombardment is the way in against a
// defended planet. Damage follows the same volley formula as ship
// combat.
func (s *Service) BombardPlanet(ctx context.Context, playerID, planetID int) (*BombardResult, error) {
	tx, err := s.db.BeginTxContext(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	target, err := s.planets.GetByIDForUpdate(ctx, tx, planetID)
	if err != nil {
		return nil, err
	}
	pl, err := s.players.GetByIDForUpdate(ctx, tx, playerID)
	if err != nil {
		return nil, err
	}
	ship, err := s.players.GetShipForUpdate(ctx, tx, playerID)
	if err != nil {
		return nil, err
	}

	if pl.CurrentSectorID == nil || *pl.CurrentSectorID != target.SectorID {
		return nil, apperrors.Conflict(apperrors.CodeSectorRules, "planet is not in your sector")
	}
	sec, err := s.sectors.GetByID(ctx, tx, target.SectorID)
	if err != nil {
		return nil, err
	}
	if !sec.AllowAttacking {
		return nil, apperrors.Conflict(apperrors.CodeSectorRules, "attacking is not allowed in this sector")
	}
	if target.OwnerPlayerID != nil && *target.OwnerPlayerID == playerID {
		return nil, apperrors.Conflict(apperrors.CodeSectorRules, "you own this planet")
	}
	if pl.Turns < bombardTurnCost {
		return nil, apperrors.Conflictf(apperrors.CodeInsufficientTurns,
			"%d turns needed, %d available", bombardTurnCost, pl.Turns)
	}

	damage := BeamDamage(ship.BeamLevel, ship.Fighters)
	remaining, err := s.planets.ReduceShields(ctx, tx, planetID, damage)
	if err != nil {
		return nil, err
	}
	if err := s.players.SpendTurns(ctx, tx, playerID, bombardTurnCost); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit bombardment: %w", err)
	}

	s.logger.Info("Planet bombarded",
		"player_id", playerID,
		"planet_id", planetID,
		"damage", damage,
		"shields_remaining", remaining)

	return &BombardResult{
		PlanetID:         planetID,
		Damage:           damage,
		ShieldsRemaining: remaining,
	}, nil
}

// CapturePlanet transfers an undefended planet to the player. Shields are
// re-read under the row lock at commit time, so a repair landing between
// the caller's last look and this call makes the capture fail rather than
// steal a defended planet.
func (s *Service) CapturePlanet(ctx context.Context, playerID, planetID int) (*planet.Planet, error) {
	tx, err := s.db.BeginTxContext(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	target, err := s.planets.GetByIDForUpdate(ctx, tx, planetID)
	if err != nil {
		return nil, err
	}
	pl, err := s.players.GetByIDForUpdate(ctx, tx, playerID)
	if err != nil {
		return nil, err
	}

	if pl.CurrentSectorID == nil || *pl.CurrentSectorID != target.SectorID {
		return nil, apperrors.Conflict(apperrors.CodeSectorRules, "planet is not in your sector")
	}
	if target.OwnerPlayerID != nil && *target.OwnerPlayerID == playerID {
		return nil, apperrors.Conflict(apperrors.CodeSectorRules, "you already own this planet")
	}
	if pl.Turns < captureTurnCost {
		return nil, apperrors.Conflictf(apperrors.CodeInsufficientTurns,
			"%d turns needed, %d available", captureTurnCost, pl.Turns)
	}
	if target.Shields > 0 {
		return nil, apperrors.Conflictf(apperrors.CodeShieldsUp,
			"planet shields at %d, deplete them first", target.Shields)
	}

	if err := s.planets.TransferOwnership(ctx, tx, planetID, playerID); err != nil {
		return nil, err
	}
	if err := s.players.SpendTurns(ctx, tx, playerID, captureTurnCost); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit planet capture: %w", err)
	}

	target.OwnerPlayerID = &playerID
	s.logger.Info("Planet captured", "player_id", playerID, "planet_id", planetID)
	return target, nil
}

func (s *Service) applyShipDamage(ctx context.Context, tx *database.Tx, playerID, shieldDamage, armorDamage int) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE ships SET shields = shields - $2, armor = armor - $3
		WHERE player_id = $1`,
		playerID, shieldDamage, armorDamage)
	if err != nil {
		return fmt.Errorf("failed to apply ship damage: %w", err)
	}
	return nil
}

// destroyShip puts the pilot in an escape pod: the hull, cargo, and
// ordnance are gone, and the pod drifts back to sector 1.
func (s *Service) destroyShip(ctx context.Context, tx *database.Tx, pl *player.Player) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE ships SET
			hull = 1, shields = 0, armor = 0,
			ore = 0, organics = 0, goods = 0, energy = 0,
			fighters = 0, torpedoes = 0, genesis_devices = 0,
			escape_pod = TRUE
		WHERE player_id = $1`, pl.ID)
	if err != nil {
		return fmt.Errorf("failed to reset destroyed ship: %w", err)
	}

	var homeSectorID int
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM sectors WHERE universe_id = $1 AND number = 1`,
		pl.UniverseID).Scan(&homeSectorID)
	if err != nil {
		return fmt.Errorf("failed to find home sector: %w", err)
	}
	return s.players.MoveToSector(ctx, tx, pl.ID, homeSectorID)
}
