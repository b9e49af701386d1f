package ai

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"bnt-server/internal/movement"
	"bnt-server/internal/planet"
	"bnt-server/internal/player"
	"bnt-server/internal/port"
	"bnt-server/internal/sector"
	"bnt-server/internal/shared/database"
	apperrors "bnt-server/internal/shared/errors"
	"bnt-server/internal/trade"
)

// recordingActor captures every capability call so tests can assert the
// AI mutates the world through the Actor contract and nothing else.
type recordingActor struct {
	moves    []int
	trades   []int
	deploys  [][2]int
	geneses  []int
	tradeRes *trade.Result
}

func (a *recordingActor) Move(ctx context.Context, playerID, sectorNumber int, method movement.Method) (*movement.MoveResult, error) {
	a.moves = append(a.moves, sectorNumber)
	return &movement.MoveResult{Method: method}, nil
}

func (a *recordingActor) AutoTrade(ctx context.Context, playerID, portID int) (*trade.Result, error) {
	a.trades = append(a.trades, portID)
	return a.tradeRes, nil
}

func (a *recordingActor) DeployMines(ctx context.Context, playerID, sectorNumber, torpedoes int) (int, error) {
	a.deploys = append(a.deploys, [2]int{sectorNumber, torpedoes})
	return torpedoes, nil
}

func (a *recordingActor) Genesis(ctx context.Context, playerID int) (*planet.Planet, error) {
	a.geneses = append(a.geneses, playerID)
	return &planet.Planet{ID: 42, OwnerPlayerID: &playerID}, nil
}

type fakeMemory struct {
	saved *Memory
}

func (f *fakeMemory) Get(ctx context.Context, playerID int) (*Memory, error) {
	return &Memory{PlayerID: playerID, Goal: GoalExplore}, nil
}

func (f *fakeMemory) Save(ctx context.Context, m *Memory) error {
	f.saved = m
	return nil
}

type fakePlayers struct {
	ship *player.Ship
}

func (f *fakePlayers) AIPlayers(ctx context.Context, universeID int) ([]*player.Player, error) {
	return nil, nil
}

func (f *fakePlayers) GetShip(ctx context.Context, exec database.Executor, playerID int) (*player.Ship, error) {
	return f.ship, nil
}

type fakeSectors struct {
	sec   *sector.Sector
	exits []*sector.Sector
}

func (f *fakeSectors) GetByID(ctx context.Context, exec database.Executor, id int) (*sector.Sector, error) {
	return f.sec, nil
}

func (f *fakeSectors) WarpsFrom(ctx context.Context, exec database.Executor, sectorID int) ([]*sector.Sector, error) {
	return f.exits, nil
}

type fakePorts struct {
	port *port.Port
}

func (f *fakePorts) GetBySector(ctx context.Context, exec database.Executor, sectorID int) (*port.Port, error) {
	if f.port == nil {
		return nil, apperrors.NotFoundf("no port in sector %d", sectorID)
	}
	return f.port, nil
}

func newTestService(actor Actor, players *fakePlayers, sectors *fakeSectors, ports *fakePorts) *Service {
	return &Service{
		memory:  &fakeMemory{},
		players: players,
		sectors: sectors,
		ports:   ports,
		actor:   actor,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func intPtr(v int) *int { return &v }

func TestBuildCreatesPlanetThroughEngine(t *testing.T) {
	actor := &recordingActor{}
	s := newTestService(actor,
		&fakePlayers{ship: &player.Ship{GenesisDevices: 2}},
		&fakeSectors{sec: &sector.Sector{ID: 7, Number: 7, AllowPlanetCreation: true}},
		&fakePorts{})

	pl := &player.Player{ID: 3, Handle: "xenobe-3", CurrentSectorID: intPtr(7), Turns: 50}
	mem := &Memory{PlayerID: pl.ID, Goal: GoalBuild}

	acted, err := s.build(context.Background(), pl, mem)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !acted {
		t.Fatal("expected the build pass to act")
	}
	if len(actor.geneses) != 1 || actor.geneses[0] != pl.ID {
		t.Fatalf("genesis calls = %v, want one for player %d", actor.geneses, pl.ID)
	}
	if len(actor.moves)+len(actor.trades)+len(actor.deploys) != 0 {
		t.Fatalf("build used capabilities beyond genesis: moves=%v trades=%v deploys=%v",
			actor.moves, actor.trades, actor.deploys)
	}
	if mem.Goal != GoalTrade {
		t.Errorf("goal after build = %q, want %q", mem.Goal, GoalTrade)
	}
}

func TestBuildFallsBackToTradingWithoutDevices(t *testing.T) {
	actor := &recordingActor{tradeRes: &trade.Result{CreditsDelta: 120}}
	s := newTestService(actor,
		&fakePlayers{ship: &player.Ship{GenesisDevices: 0}},
		&fakeSectors{sec: &sector.Sector{ID: 7, Number: 7, AllowPlanetCreation: true}},
		&fakePorts{port: &port.Port{ID: 9, SectorID: 7}})

	pl := &player.Player{ID: 3, CurrentSectorID: intPtr(7), Turns: 50}
	mem := &Memory{PlayerID: pl.ID, Goal: GoalBuild}

	acted, err := s.build(context.Background(), pl, mem)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !acted {
		t.Fatal("expected the fallback trade to act")
	}
	if len(actor.geneses) != 0 {
		t.Fatalf("genesis calls = %v, want none without devices", actor.geneses)
	}
	if len(actor.trades) != 1 || actor.trades[0] != 9 {
		t.Fatalf("auto trade calls = %v, want one at port 9", actor.trades)
	}
	if mem.ProfitStreak != 1 {
		t.Errorf("profit streak = %d, want 1 after a profitable trade", mem.ProfitStreak)
	}
}

func TestDefendDeploysMinesThroughEngine(t *testing.T) {
	actor := &recordingActor{}
	s := newTestService(actor,
		&fakePlayers{ship: &player.Ship{Torpedoes: 10}},
		&fakeSectors{sec: &sector.Sector{ID: 7, Number: 12, AllowSectorDefense: true}},
		&fakePorts{})

	pl := &player.Player{ID: 3, CurrentSectorID: intPtr(7), Turns: 50}
	mem := &Memory{PlayerID: pl.ID, Goal: GoalDefend, LossStreak: 3}

	acted, err := s.defend(context.Background(), pl, mem)
	if err != nil {
		t.Fatalf("defend: %v", err)
	}
	if !acted {
		t.Fatal("expected the defend pass to act")
	}
	if len(actor.deploys) != 1 || actor.deploys[0] != [2]int{12, 5} {
		t.Fatalf("deploy calls = %v, want one of 5 torpedoes in sector 12", actor.deploys)
	}
	if mem.LossStreak != 0 {
		t.Errorf("loss streak = %d, want 0 after deploying", mem.LossStreak)
	}
}

func TestDefendStandsDownWithoutTorpedoes(t *testing.T) {
	actor := &recordingActor{}
	s := newTestService(actor,
		&fakePlayers{ship: &player.Ship{Torpedoes: 2}},
		&fakeSectors{sec: &sector.Sector{ID: 7, Number: 12}},
		&fakePorts{})

	pl := &player.Player{ID: 3, CurrentSectorID: intPtr(7), Turns: 50}
	mem := &Memory{PlayerID: pl.ID, Goal: GoalDefend, LossStreak: 3}

	acted, err := s.defend(context.Background(), pl, mem)
	if err != nil {
		t.Fatalf("defend: %v", err)
	}
	if acted {
		t.Fatal("expected no action with too few torpedoes")
	}
	if len(actor.deploys) != 0 {
		t.Fatalf("deploy calls = %v, want none", actor.deploys)
	}
	if mem.Goal != GoalExplore {
		t.Errorf("goal = %q, want %q", mem.Goal, GoalExplore)
	}
}

func TestExploreMovesThroughEngine(t *testing.T) {
	actor := &recordingActor{}
	s := newTestService(actor,
		&fakePlayers{ship: &player.Ship{}},
		&fakeSectors{
			sec:   &sector.Sector{ID: 7, Number: 7},
			exits: []*sector.Sector{{ID: 8, Number: 8}},
		},
		&fakePorts{})

	pl := &player.Player{ID: 3, CurrentSectorID: intPtr(7), Turns: 50}
	mem := &Memory{PlayerID: pl.ID, Goal: GoalExplore}

	acted, err := s.explore(context.Background(), pl, mem)
	if err != nil {
		t.Fatalf("explore: %v", err)
	}
	if !acted {
		t.Fatal("expected the explore pass to act")
	}
	if len(actor.moves) != 1 || actor.moves[0] != 8 {
		t.Fatalf("move calls = %v, want one to sector 8", actor.moves)
	}
	if mem.TargetSectorID == nil || *mem.TargetSectorID != 8 {
		t.Errorf("target sector = %v, want 8", mem.TargetSectorID)
	}
}
