package planet

import (
	"context"
	"fmt"
	"log/slog"

	"bnt-server/internal/player"
	"bnt-server/internal/sector"
	"bnt-server/internal/shared/database"
	apperrors "bnt-server/internal/shared/errors"
)

const (
	genesisTurnCost  = 5
	genesisColonists = 1000
)

type Service struct {
	db      *database.DB
	repo    *Repository
	players *player.Repository
	sectors *sector.Repository
	logger  *slog.Logger
}

func NewService(db *database.DB, repo *Repository, players *player.Repository, sectors *sector.Repository, logger *slog.Logger) *Service {
	return &Service{
		db:      db,
		repo:    repo,
		players: players,
		sectors: sectors,
		logger:  logger.With("component", "planet"),
	}
}

func (s *Service) Get(ctx context.Context, planetID int) (*Planet, error) {
	return s.repo.GetByID(ctx, s.db, planetID)
}

// SetAllocation updates an owned planet's production split. Over-committed
// splits are scaled down rather than rejected, so the stored allocation
// always sums to at most 100.
func (s *Service) SetAllocation(ctx context.Context, playerID, planetID int, alloc Allocation) (Allocation, error) {
	for _, part := range []int{alloc.Ore, alloc.Organics, alloc.Goods, alloc.Energy, alloc.Fighters, alloc.Torpedoes} {
		if part < 0 {
			return Allocation{}, apperrors.Validation("allocation parts must not be negative")
		}
	}

	p, err := s.repo.GetByID(ctx, s.db, planetID)
	if err != nil {
		return Allocation{}, err
	}
	if p.OwnerPlayerID == nil || *p.OwnerPlayerID != playerID {
		return Allocation{}, apperrors.Forbidden("planet is not yours")
	}

	clamped := alloc.Clamp()
	if err := s.repo.UpdateAllocation(ctx, planetID, clamped); err != nil {
		return Allocation{}, err
	}

	s.logger.Debug("Allocation updated", "planet_id", planetID, "player_id", playerID)
	return clamped, nil
}

// Genesis consumes one genesis device to raise a new planet in the
// player's current sector and claims it for them. Device, turns, and the
// sector's creation rule are all checked under the row locks, so AI and
// human callers pay the same price through the same gate.
func (s *Service) Genesis(ctx context.Context, playerID int) (*Planet, error) {
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
	sec, err := s.sectors.GetByID(ctx, tx, *pl.CurrentSectorID)
	if err != nil {
		return nil, err
	}
	if !sec.AllowPlanetCreation {
		return nil, apperrors.Conflict(apperrors.CodeSectorRules, "planet creation is not allowed in this sector")
	}
	if ship.GenesisDevices < 1 {
		return nil, apperrors.Conflict(apperrors.CodeInsufficientCargo, "no genesis devices aboard")
	}
	if pl.Turns < genesisTurnCost {
		return nil, apperrors.Conflictf(apperrors.CodeInsufficientTurns,
			"%d turns needed, %d available", genesisTurnCost, pl.Turns)
	}

	name := fmt.Sprintf("%s Colony", pl.Handle)
	p, err := s.repo.Create(ctx, tx, sec.ID, name, genesisColonists)
	if err != nil {
		return nil, err
	}
	if err := s.repo.TransferOwnership(ctx, tx, p.ID, playerID); err != nil {
		return nil, err
	}
	if err := s.players.ConsumeGenesisDevice(ctx, tx, playerID); err != nil {
		return nil, err
	}
	if err := s.players.SpendTurns(ctx, tx, playerID, genesisTurnCost); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit genesis: %w", err)
	}

	p.OwnerPlayerID = &playerID
	s.logger.Info("Planet created by genesis device",
		"player_id", playerID, "planet_id", p.ID, "sector_id", sec.ID)
	return p, nil
}
