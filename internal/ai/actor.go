package ai

import (
	"context"

	"bnt-server/internal/combat"
	"bnt-server/internal/movement"
	"bnt-server/internal/planet"
	"bnt-server/internal/trade"
)

// Actor is the complete set of world-changing capabilities an AI player
// may exercise. Every method is a player-facing engine operation with the
// same rules, costs, and rejections humans get; nothing here is
// privileged, and the AI service mutates the world through nothing else.
type Actor interface {
	Move(ctx context.Context, playerID, sectorNumber int, method movement.Method) (*movement.MoveResult, error)
	AutoTrade(ctx context.Context, playerID, portID int) (*trade.Result, error)
	DeployMines(ctx context.Context, playerID, sectorNumber, torpedoes int) (int, error)
	Genesis(ctx context.Context, playerID int) (*planet.Planet, error)
}

type engineActor struct {
	moves    *movement.Service
	trades   *trade.Service
	fighting *combat.Service
	planets  *planet.Service
}

// NewActor binds the player-facing engines into the Actor capability set.
func NewActor(moves *movement.Service, trades *trade.Service, fighting *combat.Service, planets *planet.Service) Actor {
	return &engineActor{moves: moves, trades: trades, fighting: fighting, planets: planets}
}

func (a *engineActor) Move(ctx context.Context, playerID, sectorNumber int, method movement.Method) (*movement.MoveResult, error) {
	return a.moves.Move(ctx, playerID, sectorNumber, method)
}

func (a *engineActor) AutoTrade(ctx context.Context, playerID, portID int) (*trade.Result, error) {
	return a.trades.Auto(ctx, playerID, portID)
}

func (a *engineActor) DeployMines(ctx context.Context, playerID, sectorNumber, torpedoes int) (int, error) {
	return a.fighting.DeployMines(ctx, playerID, sectorNumber, torpedoes)
}

func (a *engineActor) Genesis(ctx context.Context, playerID int) (*planet.Planet, error) {
	return a.planets.Genesis(ctx, playerID)
}
