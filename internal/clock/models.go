package clock

import "time"

// EventKind names one scheduled activity for a universe.
type EventKind string

const (
	EventTurnGeneration   EventKind = "turn_generation"
	EventPortRegen        EventKind = "port_regen"
	EventRankings         EventKind = "rankings"
	EventDefenseChecks    EventKind = "defense_checks"
	EventXenobes          EventKind = "xenobes"
	EventInterest         EventKind = "interest"
	EventNews             EventKind = "news"
	EventPlanetProduction EventKind = "planet_production"
	EventShipTowing       EventKind = "ship_towing"
	EventDefenseDecay     EventKind = "defense_decay"
	EventApocalypse       EventKind = "apocalypse"
)

// AllEventKinds lists every kind, in seed order.
var AllEventKinds = []EventKind{
	EventTurnGeneration,
	EventPortRegen,
	EventRankings,
	EventDefenseChecks,
	EventXenobes,
	EventInterest,
	EventNews,
	EventPlanetProduction,
	EventShipTowing,
	EventDefenseDecay,
	EventApocalypse,
}

// DefaultIntervals holds the per-kind cadence, in minutes, seeded when a
// universe is created. Every interval is at least one minute.
var DefaultIntervals = map[EventKind]int{
	EventTurnGeneration:   3,
	EventPortRegen:        5,
	EventRankings:         60,
	EventDefenseChecks:    15,
	EventXenobes:          10,
	EventInterest:         120,
	EventNews:             60,
	EventPlanetProduction: 30,
	EventShipTowing:       30,
	EventDefenseDecay:     60,
	EventApocalypse:       1440,
}

// Event is the scheduling row for one (universe, kind) pair.
type Event struct {
	UniverseID      int        `json:"universe_id"`
	Kind            EventKind  `json:"event_kind"`
	IntervalMinutes int        `json:"interval_minutes"`
	LastRun         *time.Time `json:"last_run,omitempty"`
}

// IsDue reports whether the event should fire at now. A never-run event is
// always due.
func (e *Event) IsDue(now time.Time) bool {
	if e.LastRun == nil {
		return true
	}
	return now.Sub(*e.LastRun) >= time.Duration(e.IntervalMinutes)*time.Minute
}

// NextDue returns when the event next becomes due. A never-run event is due
// immediately.
func (e *Event) NextDue() time.Time {
	if e.LastRun == nil {
		return time.Time{}
	}
	return e.LastRun.Add(time.Duration(e.IntervalMinutes) * time.Minute)
}
