package trade

import (
	"bnt-server/internal/port"
)

// Action is the direction of a trade from the player's point of view.
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
	ActionAuto Action = "auto"
)

func ValidAction(a Action) bool {
	return a == ActionBuy || a == ActionSell || a == ActionAuto
}

// Quote is one admissible fill computed against a consistent snapshot of
// port, ship, and player state.
type Quote struct {
	Action       Action        `json:"action"`
	Resource     port.Resource `json:"resource"`
	Quantity     int64         `json:"quantity"`
	UnitPrice    int64         `json:"unit_price"`
	CreditsDelta int64         `json:"credits_delta"`
}

// Result reports one committed trade. Prices are recomputed from the
// post-fill stock so a caller immediately sees what the next unit costs.
type Result struct {
	Fills        []Quote                 `json:"fills"`
	CreditsDelta int64                   `json:"credits_delta"`
	Cargo        map[port.Resource]int64 `json:"cargo"`
	NewBuyPrice  map[port.Resource]int64 `json:"new_buy_price"`
	NewSellPrice map[port.Resource]int64 `json:"new_sell_price"`
}

// Route is a saved sequence of trades a player can replay.
type Route struct {
	ID            int        `json:"id"`
	PlayerID      int        `json:"player_id"`
	Name          string     `json:"name"`
	MaxIterations int        `json:"max_iterations"`
	Waypoints     []Waypoint `json:"waypoints"`
}

// Waypoint is one stop on a route. Resource and Quantity are unset for
// auto waypoints, which let the engine pick the trade.
type Waypoint struct {
	ID       int            `json:"id"`
	RouteID  int            `json:"route_id"`
	Position int            `json:"position"`
	PortID   int            `json:"port_id"`
	Action   Action         `json:"action"`
	Resource *port.Resource `json:"resource,omitempty"`
	Quantity *int64         `json:"quantity,omitempty"`
}

// RouteRunResult reports how far a route run got before finishing or
// stopping on a failed waypoint.
type RouteRunResult struct {
	RouteID             int    `json:"route_id"`
	IterationsCompleted int    `json:"iterations_completed"`
	WaypointsExecuted   int    `json:"waypoints_executed"`
	TotalCreditsDelta   int64  `json:"total_credits_delta"`
	StoppedAt           *int   `json:"stopped_at,omitempty"`
	StopReason          string `json:"stop_reason,omitempty"`
}
