package ranking

import "testing"

func TestTotalScore(t *testing.T) {
	tests := []struct {
		name        string
		economic    int64
		territorial int64
		military    int64
		exploration int64
		want        int64
	}{
		{"all zero", 0, 0, 0, 0, 0},
		{"economy weighs triple", 1000, 0, 0, 0, 3000},
		{"territory weighs five", 0, 100, 0, 0, 500},
		{"military weighs double", 0, 0, 250, 0, 500},
		{"exploration weighs ten", 0, 0, 0, 42, 420},
		{"mixed", 1000, 100, 250, 42, 4420},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TotalScore(tt.economic, tt.territorial, tt.military, tt.exploration)
			if got != tt.want {
				t.Errorf("TotalScore(%d, %d, %d, %d) = %d, want %d",
					tt.economic, tt.territorial, tt.military, tt.exploration, got, tt.want)
			}
		})
	}
}
