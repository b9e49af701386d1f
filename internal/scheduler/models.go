package scheduler

import (
	"time"

	"github.com/google/uuid"

	"bnt-server/internal/clock"
)

// Batch names one group of event kinds fired together by an external
// trigger. Grouping keeps trigger frequency decoupled from per-event
// cadence: the clock tracker decides what actually runs.
type Batch string

const (
	BatchTurnGeneration Batch = "turn-generation"
	BatchCycleEvents    Batch = "cycle-events"
	BatchUpdateEvents   Batch = "update-events"
)

// batchKinds maps each batch to the event kinds it evaluates.
var batchKinds = map[Batch][]clock.EventKind{
	BatchTurnGeneration: {
		clock.EventTurnGeneration,
	},
	BatchCycleEvents: {
		clock.EventRankings,
		clock.EventInterest,
		clock.EventNews,
		clock.EventApocalypse,
	},
	BatchUpdateEvents: {
		clock.EventPortRegen,
		clock.EventPlanetProduction,
		clock.EventDefenseChecks,
		clock.EventDefenseDecay,
		clock.EventShipTowing,
		clock.EventXenobes,
	},
}

// KindsForBatch returns the event kinds a batch evaluates.
func KindsForBatch(b Batch) []clock.EventKind {
	return batchKinds[b]
}

// BatchResult summarizes one batch invocation across all universes.
type BatchResult struct {
	RunID              uuid.UUID `json:"run_id"`
	Batch              Batch     `json:"batch"`
	UniversesProcessed int       `json:"universesProcessed"`
	EventsRun          int       `json:"eventsRun"`
	EventsSkipped      int       `json:"eventsSkipped"`
	PlayersUpdated     int       `json:"playersUpdated,omitempty"`
	RankingsUpdated    int       `json:"rankingsUpdated,omitempty"`
	PortsUpdated       int       `json:"portsUpdated,omitempty"`
	Errors             []string  `json:"errors"`
}

// EventStatus is one event kind's scheduling state for the status
// endpoint.
type EventStatus struct {
	Kind             clock.EventKind `json:"kind"`
	IntervalMinutes  int             `json:"interval_minutes"`
	LastRun          *time.Time      `json:"last_run,omitempty"`
	NextDue          *time.Time      `json:"next_due,omitempty"`
	TimeUntilSeconds int64           `json:"time_until_seconds"`
	Status           string          `json:"status"`
}

// StatusResponse reports a universe's full scheduling state.
type StatusResponse struct {
	UniverseID int           `json:"universe_id"`
	Events     []EventStatus `json:"events"`
}
