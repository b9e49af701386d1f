package planet

import "time"

type Planet struct {
	ID            int        `json:"id"`
	SectorID      int        `json:"sector_id"`
	OwnerPlayerID *int       `json:"owner_player_id,omitempty"`
	Name          string     `json:"name"`
	Ore           int64      `json:"ore"`
	Organics      int64      `json:"organics"`
	Goods         int64      `json:"goods"`
	Energy        int64      `json:"energy"`
	Colonists     int64      `json:"colonists"`
	Fighters      int        `json:"fighters"`
	Torpedoes     int        `json:"torpedoes"`
	Production    Allocation `json:"production"`
	BaseBuilt     bool       `json:"base_built"`
	Shields       int        `json:"shields"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Allocation is the percentage split of idle planet capacity across outputs.
// The parts may not exceed 100 combined.
type Allocation struct {
	Ore       int `json:"ore"`
	Organics  int `json:"organics"`
	Goods     int `json:"goods"`
	Energy    int `json:"energy"`
	Fighters  int `json:"fighters"`
	Torpedoes int `json:"torpedoes"`
}

// Sum returns the combined allocation percentage.
func (a Allocation) Sum() int {
	return a.Ore + a.Organics + a.Goods + a.Energy + a.Fighters + a.Torpedoes
}

// Clamp scales an over-committed allocation down proportionally so the parts
// sum to at most 100. Under-committed allocations are left alone.
func (a Allocation) Clamp() Allocation {
	sum := a.Sum()
	if sum <= 100 {
		return a
	}
	return Allocation{
		Ore:       a.Ore * 100 / sum,
		Organics:  a.Organics * 100 / sum,
		Goods:     a.Goods * 100 / sum,
		Energy:    a.Energy * 100 / sum,
		Fighters:  a.Fighters * 100 / sum,
		Torpedoes: a.Torpedoes * 100 / sum,
	}
}
