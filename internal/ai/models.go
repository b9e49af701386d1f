package ai

import "time"

// Goal is the AI's current objective. The state machine is deliberately
// small; variety comes from the universe, not the policy.
type Goal string

const (
	GoalExplore Goal = "explore"
	GoalTrade   Goal = "trade"
	GoalBuild   Goal = "build"
	GoalDefend  Goal = "defend"
)

// Streak thresholds that push an AI to change its mind.
const (
	lossStreakLimit   = 3
	profitStreakLimit = 5
)

// Memory is the persistent state one AI player carries between passes.
type Memory struct {
	PlayerID       int       `json:"player_id"`
	Goal           Goal      `json:"goal"`
	TargetSectorID *int      `json:"target_sector_id,omitempty"`
	TradeRouteID   *int      `json:"trade_route_id,omitempty"`
	ProfitStreak   int       `json:"profit_streak"`
	LossStreak     int       `json:"loss_streak"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TransitionGoal applies the streak rules to pick the next goal.
// Repeated trade losses send the AI exploring for better markets; a run
// of profits graduates a trader to building, and an explorer that keeps
// finding profit settles into trading. Defenders hold position until
// their streaks reset.
func TransitionGoal(current Goal, profitStreak, lossStreak int) Goal {
	switch current {
	case GoalTrade:
		if lossStreak >= lossStreakLimit {
			return GoalExplore
		}
		if profitStreak >= profitStreakLimit {
			return GoalBuild
		}
	case GoalExplore:
		if profitStreak > 0 {
			return GoalTrade
		}
	case GoalBuild:
		if lossStreak >= lossStreakLimit {
			return GoalDefend
		}
		return GoalTrade
	case GoalDefend:
		if lossStreak == 0 && profitStreak == 0 {
			return GoalExplore
		}
	}
	return current
}

// RunResult reports one scheduler-triggered AI pass over a universe.
type RunResult struct {
	PlayersProcessed int      `json:"players_processed"`
	ActionsTaken     int      `json:"actions_taken"`
	Errors           []string `json:"errors,omitempty"`
}
