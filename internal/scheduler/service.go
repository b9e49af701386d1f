package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"bnt-server/internal/ai"
	"bnt-server/internal/clock"
	"bnt-server/internal/cronlog"
	"bnt-server/internal/economy"
	"bnt-server/internal/ranking"
	apperrors "bnt-server/internal/shared/errors"
	"bnt-server/internal/turns"
	"bnt-server/internal/universe"
)

// Service is the orchestrator: on each external trigger it walks every
// universe, asks the clock tracker which events in the batch are due,
// claims them atomically, and invokes the matching engine. Universes are
// independent; one universe failing is logged and the rest continue.
type Service struct {
	clock     *clock.Repository
	runLog    *cronlog.Repository
	universes *universe.Repository
	turns     *turns.Service
	economy   *economy.Service
	rankings  *ranking.Service
	aiEngine  *ai.Service
	logger    *slog.Logger
}

func NewService(clockRepo *clock.Repository, runLog *cronlog.Repository, universes *universe.Repository, turnSvc *turns.Service, economySvc *economy.Service, rankingSvc *ranking.Service, aiSvc *ai.Service, logger *slog.Logger) *Service {
	return &Service{
		clock:     clockRepo,
		runLog:    runLog,
		universes: universes,
		turns:     turnSvc,
		economy:   economySvc,
		rankings:  rankingSvc,
		aiEngine:  aiSvc,
		logger:    logger.With("component", "scheduler"),
	}
}

// RunBatch evaluates one batch across every universe.
func (s *Service) RunBatch(ctx context.Context, batch Batch) (*BatchResult, error) {
	result := &BatchResult{RunID: uuid.New(), Batch: batch, Errors: []string{}}
	logger := s.logger.With("batch", batch, "run_id", result.RunID)

	ids, err := s.universes.ListIDs(ctx)
	if err != nil {
		return nil, err
	}

	for _, universeID := range ids {
		result.UniversesProcessed++
		s.runUniverse(ctx, batch, universeID, result)
	}

	logger.Info("Batch complete",
		"universes", result.UniversesProcessed,
		"events_run", result.EventsRun,
		"events_skipped", result.EventsSkipped,
		"errors", len(result.Errors))
	return result, nil
}

// runUniverse fires each due event kind in the batch for one universe.
// A panic in an engine is contained here so the batch survives it.
func (s *Service) runUniverse(ctx context.Context, batch Batch, universeID int, result *BatchResult) {
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("universe %d: panic: %v", universeID, r)
			result.Errors = append(result.Errors, msg)
			s.runLog.Record(ctx, result.RunID, &universeID, string(batch), cronlog.StatusError, msg, 0)
			s.logger.Error("Engine panicked", "universe_id", universeID, "batch", batch, "panic", r)
		}
	}()

	for _, kind := range KindsForBatch(batch) {
		s.runEvent(ctx, universeID, kind, result)
	}
}

// runEvent claims one event through the clock tracker and invokes its
// engine. Losing the claim is recorded as skipped; an engine error is
// recorded and isolated.
func (s *Service) runEvent(ctx context.Context, universeID int, kind clock.EventKind, result *BatchResult) {
	event, err := s.clock.Get(ctx, universeID, kind)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("universe %d %s: %v", universeID, kind, err))
		return
	}

	now := time.Now().UTC()
	claimed, err := s.clock.TryAdvance(ctx, event, now)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("universe %d %s: %v", universeID, kind, err))
		return
	}
	if !claimed {
		result.EventsSkipped++
		s.runLog.Record(ctx, result.RunID, &universeID, string(kind), cronlog.StatusSkipped, "interval not elapsed", 0)
		return
	}

	start := time.Now()
	count, err := s.invokeEngine(ctx, universeID, kind)
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("universe %d %s: %v", universeID, kind, err))
		s.runLog.Record(ctx, result.RunID, &universeID, string(kind), cronlog.StatusError, err.Error(), elapsed)
		s.logger.Error("Engine failed", "universe_id", universeID, "kind", kind, "error", err)
		return
	}

	result.EventsRun++
	s.tally(kind, count, result)
	s.runLog.Record(ctx, result.RunID, &universeID, string(kind), cronlog.StatusSuccess,
		fmt.Sprintf("%d rows", count), elapsed)
}

// invokeEngine dispatches one claimed event kind to its engine.
func (s *Service) invokeEngine(ctx context.Context, universeID int, kind clock.EventKind) (int, error) {
	switch kind {
	case clock.EventTurnGeneration:
		res, err := s.turns.Generate(ctx, universeID)
		if err != nil {
			return 0, err
		}
		return res.PlayersUpdated, nil
	case clock.EventPortRegen:
		return s.economy.RegeneratePorts(ctx, universeID)
	case clock.EventPlanetProduction:
		return s.economy.RunPlanetProduction(ctx, universeID)
	case clock.EventInterest:
		return s.economy.AccrueInterest(ctx, universeID)
	case clock.EventNews:
		return s.economy.GenerateNews(ctx, universeID)
	case clock.EventDefenseChecks:
		return s.economy.RunDefenseChecks(ctx, universeID)
	case clock.EventDefenseDecay:
		return s.economy.DecayDefenses(ctx, universeID)
	case clock.EventShipTowing:
		return s.economy.TowShips(ctx, universeID)
	case clock.EventApocalypse:
		return s.economy.RunApocalypse(ctx, universeID)
	case clock.EventRankings:
		return s.rankings.Recompute(ctx, universeID)
	case clock.EventXenobes:
		res, err := s.aiEngine.RunUniverse(ctx, universeID)
		if err != nil {
			return 0, err
		}
		return res.ActionsTaken, nil
	default:
		return 0, fmt.Errorf("no engine for event kind %q", kind)
	}
}

// tally folds an engine's row count into the batch-level counters the
// cron endpoints report.
func (s *Service) tally(kind clock.EventKind, count int, result *BatchResult) {
	switch kind {
	case clock.EventTurnGeneration:
		result.PlayersUpdated += count
	case clock.EventRankings:
		result.RankingsUpdated += count
	case clock.EventPortRegen:
		result.PortsUpdated += count
	}
}

// SetInterval changes the cadence of one event kind for a universe.
func (s *Service) SetInterval(ctx context.Context, universeID int, kind clock.EventKind, minutes int) error {
	known := false
	for _, k := range clock.AllEventKinds {
		if k == kind {
			known = true
			break
		}
	}
	if !known {
		return apperrors.Validationf("unknown event kind %q", kind)
	}
	return s.clock.UpdateInterval(ctx, universeID, kind, minutes)
}

// RecentRuns returns the newest cron log entries across all universes.
func (s *Service) RecentRuns(ctx context.Context, limit int) ([]*cronlog.Entry, error) {
	return s.runLog.Recent(ctx, limit)
}

// Status reports every event kind's scheduling state for one universe.
func (s *Service) Status(ctx context.Context, universeID int) (*StatusResponse, error) {
	events, err := s.clock.GetAll(ctx, universeID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	resp := &StatusResponse{UniverseID: universeID, Events: make([]EventStatus, 0, len(events))}
	for _, e := range events {
		status := EventStatus{
			Kind:            e.Kind,
			IntervalMinutes: e.IntervalMinutes,
			LastRun:         e.LastRun,
		}
		if e.IsDue(now) {
			status.Status = "ready"
		} else {
			status.Status = "waiting"
			next := e.NextDue()
			status.NextDue = &next
			status.TimeUntilSeconds = int64(next.Sub(now).Seconds())
		}
		resp.Events = append(resp.Events, status)
	}
	return resp, nil
}
