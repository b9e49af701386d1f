package sector

type Sector struct {
	ID                  int     `json:"id"`
	UniverseID          int     `json:"universe_id"`
	Number              int     `json:"number"`
	Name                *string `json:"name,omitempty"`
	AllowTrading        bool    `json:"allow_trading"`
	AllowAttacking      bool    `json:"allow_attacking"`
	AllowPlanetCreation bool    `json:"allow_planet_creation"`
	AllowSectorDefense  bool    `json:"allow_sector_defense"`
	DefensePoints       int     `json:"defense_points"`
}

// Warp is a directed traversable edge between two sectors. The graph is an
// adjacency relation over ids; cycles, including back-edges to the origin,
// are legal.
type Warp struct {
	FromSectorID int `json:"from_sector_id"`
	ToSectorID   int `json:"to_sector_id"`
}
