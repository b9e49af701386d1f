package universe

import "time"

// Universe is one self-contained game world. Sector numbering, players,
// scheduling state, and the economy all hang off it; deleting a universe
// cascades through the lot.
type Universe struct {
	ID                 int       `json:"id"`
	Name               string    `json:"name"`
	SectorCount        int       `json:"sector_count"`
	PortDensity        float64   `json:"port_density"`
	PlanetDensity      float64   `json:"planet_density"`
	AIPlayerCount      int       `json:"ai_player_count"`
	TurnsPerGeneration int       `json:"turns_per_generation"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// CreateParams carries validated universe-creation input.
type CreateParams struct {
	Name               string  `json:"name"`
	SectorCount        int     `json:"sectorCount"`
	PortDensity        float64 `json:"portDensity"`
	PlanetDensity      float64 `json:"planetDensity"`
	AIPlayerCount      int     `json:"aiPlayerCount"`
	TurnsPerGeneration int     `json:"turnsPerGeneration,omitempty"`
}
