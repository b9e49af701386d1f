package ai

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"bnt-server/internal/movement"
	"bnt-server/internal/player"
	"bnt-server/internal/port"
	"bnt-server/internal/sector"
	"bnt-server/internal/shared/database"
	apperrors "bnt-server/internal/shared/errors"
)

// The read side of the world as the AI observes it. Satisfied by the real
// repositories; the AI never writes through these.
type memoryStore interface {
	Get(ctx context.Context, playerID int) (*Memory, error)
	Save(ctx context.Context, m *Memory) error
}

type playerReader interface {
	AIPlayers(ctx context.Context, universeID int) ([]*player.Player, error)
	GetShip(ctx context.Context, exec database.Executor, playerID int) (*player.Ship, error)
}

type sectorReader interface {
	GetByID(ctx context.Context, exec database.Executor, id int) (*sector.Sector, error)
	WarpsFrom(ctx context.Context, exec database.Executor, sectorID int) ([]*sector.Sector, error)
}

type portReader interface {
	GetBySector(ctx context.Context, exec database.Executor, sectorID int) (*port.Port, error)
}

// Service drives AI players through the same engine contracts human
// players use. World mutation goes through the Actor capability set
// exclusively; an AI that is out of turns or devices fails exactly like a
// human would.
type Service struct {
	db      *database.DB
	memory  memoryStore
	players playerReader
	sectors sectorReader
	ports   portReader
	actor   Actor
	logger  *slog.Logger
}

func NewService(db *database.DB, memory *Repository, players *player.Repository, sectors *sector.Repository, ports *port.Repository, actor Actor, logger *slog.Logger) *Service {
	return &Service{
		db:      db,
		memory:  memory,
		players: players,
		sectors: sectors,
		ports:   ports,
		actor:   actor,
		logger:  logger.With("component", "ai"),
	}
}

// RunUniverse gives every AI player in the universe one action. Failures
// are isolated per player: a broken AI is reported and the pass moves on.
func (s *Service) RunUniverse(ctx context.Context, universeID int) (*RunResult, error) {
	aiPlayers, err := s.players.AIPlayers(ctx, universeID)
	if err != nil {
		return nil, err
	}

	result := &RunResult{}
	for _, pl := range aiPlayers {
		result.PlayersProcessed++
		acted, err := s.actOnce(ctx, pl)
		if err != nil {
			if apperrors.GetType(err) == apperrors.ErrorTypeConflict {
				// Out of turns, empty markets, closed sectors. Normal play.
				s.logger.Debug("AI action rejected", "player_id", pl.ID, "reason", err)
				continue
			}
			result.Errors = append(result.Errors, fmt.Sprintf("player %d: %v", pl.ID, err))
			s.logger.Error("AI pass failed for player", "player_id", pl.ID, "error", err)
			continue
		}
		if acted {
			result.ActionsTaken++
		}
	}
	return result, nil
}

// actOnce reads the AI's memory, applies the goal transition, performs
// one action for the resulting goal, and writes the memory back.
func (s *Service) actOnce(ctx context.Context, pl *player.Player) (bool, error) {
	mem, err := s.memory.Get(ctx, pl.ID)
	if err != nil {
		return false, err
	}
	mem.Goal = TransitionGoal(mem.Goal, mem.ProfitStreak, mem.LossStreak)

	var acted bool
	var actErr error
	switch mem.Goal {
	case GoalExplore:
		acted, actErr = s.explore(ctx, pl, mem)
	case GoalTrade:
		acted, actErr = s.tradeOnce(ctx, pl, mem)
	case GoalBuild:
		acted, actErr = s.build(ctx, pl, mem)
	case GoalDefend:
		acted, actErr = s.defend(ctx, pl, mem)
	default:
		mem.Goal = GoalExplore
	}
	if actErr != nil {
		return false, actErr
	}

	return acted, s.memory.Save(ctx, mem)
}

// explore rides a random warp out of the current sector. Finding a port
// at the destination primes the profit streak so the next pass trades.
func (s *Service) explore(ctx context.Context, pl *player.Player, mem *Memory) (bool, error) {
	if pl.CurrentSectorID == nil {
		return false, nil
	}
	exits, err := s.sectors.WarpsFrom(ctx, s.db, *pl.CurrentSectorID)
	if err != nil {
		return false, err
	}
	if len(exits) == 0 {
		return false, nil
	}

	target := exits[rand.Intn(len(exits))]
	moveResult, err := s.actor.Move(ctx, pl.ID, target.Number, movement.MethodWarp)
	if err != nil {
		return false, err
	}
	mem.TargetSectorID = &target.ID

	if _, err := s.ports.GetBySector(ctx, s.db, target.ID); err == nil {
		mem.ProfitStreak = 1
		mem.LossStreak = 0
	}
	if moveResult.MineHit != nil {
		mem.LossStreak++
		mem.ProfitStreak = 0
	}
	return true, nil
}

// tradeOnce runs the auto trade at the local port and scores the streaks
// from the outcome.
func (s *Service) tradeOnce(ctx context.Context, pl *player.Player, mem *Memory) (bool, error) {
	if pl.CurrentSectorID == nil {
		return false, nil
	}
	p, err := s.ports.GetBySector(ctx, s.db, *pl.CurrentSectorID)
	if err != nil {
		if apperrors.GetType(err) == apperrors.ErrorTypeNotFound {
			// No market here. Count it against the streak and wander off.
			mem.LossStreak++
			mem.ProfitStreak = 0
			return s.explore(ctx, pl, mem)
		}
		return false, err
	}

	result, err := s.actor.AutoTrade(ctx, pl.ID, p.ID)
	if err != nil {
		if apperrors.GetType(err) == apperrors.ErrorTypeConflict {
			mem.LossStreak++
			mem.ProfitStreak = 0
			return false, s.memory.Save(ctx, mem)
		}
		return false, err
	}

	if result.CreditsDelta > 0 {
		mem.ProfitStreak++
		mem.LossStreak = 0
	} else {
		mem.LossStreak++
		mem.ProfitStreak = 0
	}
	return true, nil
}

// build spends a genesis device on a new planet in the current sector
// when the rules and inventory allow it, otherwise falls back to trading.
// The genesis engine holds the actual gate; the reads here only pick the
// fallback before an action is burned.
func (s *Service) build(ctx context.Context, pl *player.Player, mem *Memory) (bool, error) {
	if pl.CurrentSectorID == nil {
		return false, nil
	}
	ship, err := s.players.GetShip(ctx, s.db, pl.ID)
	if err != nil {
		return false, err
	}
	sec, err := s.sectors.GetByID(ctx, s.db, *pl.CurrentSectorID)
	if err != nil {
		return false, err
	}
	if ship.GenesisDevices == 0 || !sec.AllowPlanetCreation {
		mem.Goal = GoalTrade
		return s.tradeOnce(ctx, pl, mem)
	}

	newPlanet, err := s.actor.Genesis(ctx, pl.ID)
	if err != nil {
		return false, err
	}

	s.logger.Info("AI built a planet", "player_id", pl.ID, "planet_id", newPlanet.ID, "sector_id", sec.ID)
	mem.ProfitStreak = 0
	mem.LossStreak = 0
	mem.Goal = GoalTrade
	return true, nil
}

// defend lays a small minefield, then settles down once the streaks that
// drove it here have cleared.
func (s *Service) defend(ctx context.Context, pl *player.Player, mem *Memory) (bool, error) {
	if pl.CurrentSectorID == nil {
		return false, nil
	}
	ship, err := s.players.GetShip(ctx, s.db, pl.ID)
	if err != nil {
		return false, err
	}
	if ship.Torpedoes < 5 {
		mem.Goal = GoalExplore
		mem.LossStreak = 0
		mem.ProfitStreak = 0
		return false, nil
	}
	sec, err := s.sectors.GetByID(ctx, s.db, *pl.CurrentSectorID)
	if err != nil {
		return false, err
	}

	if _, err := s.actor.DeployMines(ctx, pl.ID, sec.Number, 5); err != nil {
		if apperrors.GetType(err) == apperrors.ErrorTypeConflict {
			mem.Goal = GoalExplore
			mem.LossStreak = 0
			mem.ProfitStreak = 0
			return false, nil
		}
		return false, err
	}
	mem.LossStreak = 0
	return true, nil
}
