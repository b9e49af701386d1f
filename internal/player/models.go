package player

import (
	"time"

	"bnt-server/internal/port"
)

type Player struct {
	ID              int       `json:"id"`
	UniverseID      int       `json:"universe_id"`
	UserID          *int      `json:"user_id,omitempty"`
	Handle          string    `json:"handle"`
	Credits         int64     `json:"credits"`
	BankBalance     int64     `json:"bank_balance"`
	Turns           int       `json:"turns"`
	TurnCap         int       `json:"turn_cap"`
	LastTurnTS      time.Time `json:"last_turn_ts"`
	CurrentSectorID *int      `json:"current_sector_id,omitempty"`
	IsAI            bool      `json:"is_ai"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Ship struct {
	PlayerID          int   `json:"player_id"`
	Hull              int   `json:"hull"`
	Shields           int   `json:"shields"`
	ShieldsMax        int   `json:"shields_max"`
	Armor             int   `json:"armor"`
	ArmorMax          int   `json:"armor_max"`
	EngineLevel       int   `json:"engine_level"`
	ComputerLevel     int   `json:"computer_level"`
	SensorLevel       int   `json:"sensor_level"`
	BeamLevel         int   `json:"beam_level"`
	TorpLauncherLevel int   `json:"torp_launcher_level"`
	CloakLevel        int   `json:"cloak_level"`
	PowerLevel        int   `json:"power_level"`
	Ore               int64 `json:"ore"`
	Organics          int64 `json:"organics"`
	Goods             int64 `json:"goods"`
	Energy            int64 `json:"energy"`
	Fighters          int   `json:"fighters"`
	Torpedoes         int   `json:"torpedoes"`
	GenesisDevices    int   `json:"genesis_devices"`
	EscapePod         bool  `json:"escape_pod"`
}

// CargoCapacity is the total units the ship can hold across all
// commodities. Hull level is the ship's size class.
func (s *Ship) CargoCapacity() int64 {
	return int64(s.Hull) * 500
}

// CargoUsed is the total units currently aboard.
func (s *Ship) CargoUsed() int64 {
	return s.Ore + s.Organics + s.Goods + s.Energy
}

// CargoFree is the remaining hold space.
func (s *Ship) CargoFree() int64 {
	free := s.CargoCapacity() - s.CargoUsed()
	if free < 0 {
		return 0
	}
	return free
}

// CargoOf returns the units held of one commodity.
func (s *Ship) CargoOf(r port.Resource) int64 {
	switch r {
	case port.ResourceOre:
		return s.Ore
	case port.ResourceOrganics:
		return s.Organics
	case port.ResourceGoods:
		return s.Goods
	case port.ResourceEnergy:
		return s.Energy
	}
	return 0
}
