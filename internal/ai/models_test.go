package ai

import "testing"

func TestTransitionGoal(t *testing.T) {
	tests := []struct {
		name         string
		current      Goal
		profitStreak int
		lossStreak   int
		want         Goal
	}{
		{"trader keeps trading", GoalTrade, 2, 1, GoalTrade},
		{"losing trader goes exploring", GoalTrade, 0, 3, GoalExplore},
		{"winning trader starts building", GoalTrade, 5, 0, GoalBuild},
		{"explorer without profit keeps exploring", GoalExplore, 0, 2, GoalExplore},
		{"explorer with profit settles into trading", GoalExplore, 1, 0, GoalTrade},
		{"beaten builder turns defensive", GoalBuild, 0, 3, GoalDefend},
		{"builder otherwise returns to trading", GoalBuild, 1, 0, GoalTrade},
		{"defender holds while streaks persist", GoalDefend, 1, 0, GoalDefend},
		{"calmed defender goes exploring", GoalDefend, 0, 0, GoalExplore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TransitionGoal(tt.current, tt.profitStreak, tt.lossStreak)
			if got != tt.want {
				t.Errorf("TransitionGoal(%s, %d, %d) = %s, want %s",
					tt.current, tt.profitStreak, tt.lossStreak, got, tt.want)
			}
		})
	}
}
