package movement

import (
	"bnt-server/internal/combat"
	"bnt-server/internal/player"
	"bnt-server/internal/port"
	"bnt-server/internal/sector"
)

// Method selects how a move reaches its target. Auto prefers the warp
// graph and falls back to hyperspace.
type Method string

const (
	MethodAuto  Method = "auto"
	MethodWarp  Method = "warp"
	MethodHyper Method = "hyper"
)

func ValidMethod(m Method) bool {
	return m == MethodAuto || m == MethodWarp || m == MethodHyper
}

// MoveResult reports a committed move, including any minefield sprung on
// arrival.
type MoveResult struct {
	Player   *player.Player  `json:"player"`
	Ship     *player.Ship    `json:"ship"`
	Sector   *sector.Sector  `json:"sector"`
	Method   Method          `json:"method"`
	TurnCost int             `json:"turn_cost"`
	MineHit  *combat.MineHit `json:"mine_hit,omitempty"`
}

// PortSummary is what a scan shows of a port.
type PortSummary struct {
	ID    int                     `json:"id"`
	Kind  port.Kind               `json:"kind"`
	Stock map[port.Resource]int64 `json:"stock"`
}

// SectorSummary is one revealed sector in a scan result. MinesDetected is
// nil when the scan could not resolve mines at all, zero or more when the
// sweep beat the defender's cloak.
type SectorSummary struct {
	Number        int          `json:"number"`
	Name          *string      `json:"name,omitempty"`
	PlanetCount   int          `json:"planetCount"`
	Port          *PortSummary `json:"port,omitempty"`
	DefensePoints int          `json:"defense_points"`
	MinesDetected *int         `json:"mines_detected,omitempty"`
}

// ScanResult reports one scan's coverage and cost.
type ScanResult struct {
	Sectors  []SectorSummary `json:"sectors"`
	TurnCost int             `json:"turn_cost"`
}

// WarpsResult lists the exits from the player's sector.
type WarpsResult struct {
	FromNumber int   `json:"from_number"`
	ToNumbers  []int `json:"to_numbers"`
	TurnCost   int   `json:"turn_cost"`
}
