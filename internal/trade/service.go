package trade

import (
	"context"
	"fmt"
	"log/slog"

	"bnt-server/internal/player"
	"bnt-server/internal/port"
	"bnt-server/internal/sector"
	"bnt-server/internal/shared/database"
	apperrors "bnt-server/internal/shared/errors"
)

type Service struct {
	db      *database.DB
	ports   *port.Repository
	players *player.Repository
	sectors *sector.Repository
	logger  *slog.Logger
}

func NewService(db *database.DB, ports *port.Repository, players *player.Repository, sectors *sector.Repository, logger *slog.Logger) *Service {
	return &Service{
		db:      db,
		ports:   ports,
		players: players,
		sectors: sectors,
		logger:  logger.With("component", "trade"),
	}
}

// Execute runs one buy or sell atomically. The port row is locked first,
// then the player and ship rows; every trade takes locks in that order so
// concurrent trades against one port serialize without deadlocking, and
// each sees stock and prices consistent with the previous commit.
func (s *Service) Execute(ctx context.Context, playerID, portID int, action Action, resource port.Resource, qty int64) (*Result, error) {
	if action == ActionAuto {
		return s.Auto(ctx, playerID, portID)
	}

	tx, err := s.db.BeginTxContext(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	p, pl, ship, sec, err := s.lockTradeRows(ctx, tx, playerID, portID)
	if err != nil {
		return nil, err
	}

	quote, err := computeQuote(p, sec, ship, pl.Credits, action, resource, qty)
	if err != nil {
		return nil, err
	}

	if err := s.applyQuote(ctx, tx, playerID, portID, quote); err != nil {
		return nil, err
	}

	result := s.buildResult(p, ship, []Quote{*quote})
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit trade: %w", err)
	}

	s.logger.Debug("Trade executed",
		"player_id", playerID,
		"port_id", portID,
		"action", quote.Action,
		"resource", quote.Resource,
		"quantity", quote.Quantity,
		"credits_delta", quote.CreditsDelta)
	return result, nil
}

// Auto executes the best available trade at the port in one call, using
// the same locking and bounds as an explicit trade.
func (s *Service) Auto(ctx context.Context, playerID, portID int) (*Result, error) {
	tx, err := s.db.BeginTxContext(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	p, pl, ship, sec, err := s.lockTradeRows(ctx, tx, playerID, portID)
	if err != nil {
		return nil, err
	}

	quote := bestAutoQuote(p, sec, ship, pl.Credits)
	if quote == nil {
		return nil, apperrors.Conflict(apperrors.CodeInsufficientStock, "no profitable trade available at this port")
	}

	if err := s.applyQuote(ctx, tx, playerID, portID, quote); err != nil {
		return nil, err
	}

	result := s.buildResult(p, ship, []Quote{*quote})
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit auto trade: %w", err)
	}

	s.logger.Debug("Auto trade executed",
		"player_id", playerID,
		"port_id", portID,
		"action", quote.Action,
		"resource", quote.Resource,
		"credits_delta", quote.CreditsDelta)
	return result, nil
}

// lockTradeRows takes the row locks a trade needs, in port then player
// order, and verifies the player is docked at the port.
func (s *Service) lockTradeRows(ctx context.Context, tx *database.Tx, playerID, portID int) (*port.Port, *player.Player, *player.Ship, *sector.Sector, error) {
	p, err := s.ports.GetByIDForUpdate(ctx, tx, portID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	pl, err := s.players.GetByIDForUpdate(ctx, tx, playerID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	ship, err := s.players.GetShipForUpdate(ctx, tx, playerID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if pl.CurrentSectorID == nil || *pl.CurrentSectorID != p.SectorID {
		return nil, nil, nil, nil, apperrors.Conflict(apperrors.CodeSectorRules, "must be in the port's sector to trade")
	}
	sec, err := s.sectors.GetByID(ctx, tx, p.SectorID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return p, pl, ship, sec, nil
}

// applyQuote writes a quote's cargo, credit, and stock movements and
// updates the in-memory snapshots so follow-up quotes in the same
// transaction see the new state.
func (s *Service) applyQuote(ctx context.Context, tx *database.Tx, playerID, portID int, q *Quote) error {
	cargoDelta := q.Quantity
	stockDelta := -q.Quantity
	if q.Action == ActionSell {
		cargoDelta = -q.Quantity
		stockDelta = q.Quantity
	}

	if err := s.players.AdjustCredits(ctx, tx, playerID, q.CreditsDelta); err != nil {
		return err
	}
	if err := s.players.AdjustCargo(ctx, tx, playerID, q.Resource, cargoDelta); err != nil {
		return err
	}
	return s.ports.AdjustStock(ctx, tx, portID, q.Resource, stockDelta)
}

// buildResult recomputes prices from post-fill stock. The port and ship
// snapshots are adjusted in memory to match what was written.
func (s *Service) buildResult(p *port.Port, ship *player.Ship, fills []Quote) *Result {
	result := &Result{
		Fills:        fills,
		Cargo:        make(map[port.Resource]int64, len(port.Resources)),
		NewBuyPrice:  make(map[port.Resource]int64, len(port.Resources)),
		NewSellPrice: make(map[port.Resource]int64, len(port.Resources)),
	}

	cargo := map[port.Resource]int64{
		port.ResourceOre:      ship.Ore,
		port.ResourceOrganics: ship.Organics,
		port.ResourceGoods:    ship.Goods,
		port.ResourceEnergy:   ship.Energy,
	}
	for i := range fills {
		q := &fills[i]
		result.CreditsDelta += q.CreditsDelta
		if q.Action == ActionBuy {
			p.Stock[q.Resource] -= q.Quantity
			cargo[q.Resource] += q.Quantity
		} else {
			p.Stock[q.Resource] += q.Quantity
			cargo[q.Resource] -= q.Quantity
		}
	}

	for _, r := range port.Resources {
		result.Cargo[r] = cargo[r]
		result.NewBuyPrice[r] = port.BuyPrice(r, p.StockOf(r), p.Capacity)
		result.NewSellPrice[r] = port.SellPrice(r, p.StockOf(r), p.Capacity)
	}
	return result
}
