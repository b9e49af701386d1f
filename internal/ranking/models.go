package ranking

import "time"

// Component weights for the total score. Economy dominates; exploration
// is a tiebreaker-scale contribution.
const (
	WeightEconomic    = 3
	WeightTerritorial = 5
	WeightMilitary    = 2
	WeightExploration = 10
)

// Ranking is one player's current standing.
type Ranking struct {
	PlayerID     int       `json:"player_id"`
	UniverseID   int       `json:"universe_id"`
	Handle       string    `json:"handle,omitempty"`
	Economic     int64     `json:"economic"`
	Territorial  int64     `json:"territorial"`
	Military     int64     `json:"military"`
	Exploration  int64     `json:"exploration"`
	Total        int64     `json:"total"`
	RankPosition int       `json:"rank_position"`
	ComputedAt   time.Time `json:"computed_at"`
}

// TotalScore combines the component scores with their weights.
func TotalScore(economic, territorial, military, exploration int64) int64 {
	return economic*WeightEconomic +
		territorial*WeightTerritorial +
		military*WeightMilitary +
		exploration*WeightExploration
}
