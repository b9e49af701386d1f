package movement

import "testing"

func TestHyperspaceCost(t *testing.T) {
	tests := []struct {
		name string
		from int
		to   int
		want int
	}{
		{"adjacent sectors", 1, 2, 3},
		{"distance under 100", 1, 99, 3},
		{"distance exactly 100", 1, 101, 3},
		{"distance 101 adds a step", 1, 102, 4},
		{"direction does not matter", 500, 20, HyperspaceCost(20, 500)},
		{"far jump", 1, 951, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HyperspaceCost(tt.from, tt.to); got != tt.want {
				t.Errorf("HyperspaceCost(%d, %d) = %d, want %d", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestScanFullCost(t *testing.T) {
	if got := ScanFullCost(1); got != 2 {
		t.Errorf("ScanFullCost(1) = %d, want 2", got)
	}
	if got := ScanFullCost(5); got != 10 {
		t.Errorf("ScanFullCost(5) = %d, want 10", got)
	}
}

func TestMineRevealChance(t *testing.T) {
	tests := []struct {
		name   string
		sensor int
		cloak  int
		want   float64
	}{
		{"sensor deficit sees nothing", 2, 5, 0.0},
		{"matched levels get one band", 3, 3, 0.15},
		{"one level of lead", 4, 3, 0.30},
		{"four levels of lead", 7, 3, 0.75},
		{"five levels of lead sees everything", 8, 3, 1.0},
		{"huge lead still capped", 20, 0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MineRevealChance(tt.sensor, tt.cloak)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("MineRevealChance(%d, %d) = %v, want %v", tt.sensor, tt.cloak, got, tt.want)
			}
		})
	}
}
