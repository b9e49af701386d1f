package player

import (
	"testing"

	"bnt-server/internal/port"
)

func TestShipCargo(t *testing.T) {
	ship := &Ship{Hull: 2, Ore: 100, Organics: 50, Goods: 25, Energy: 25}

	if got := ship.CargoCapacity(); got != 1000 {
		t.Errorf("CargoCapacity() = %d, want 1000", got)
	}
	if got := ship.CargoUsed(); got != 200 {
		t.Errorf("CargoUsed() = %d, want 200", got)
	}
	if got := ship.CargoFree(); got != 800 {
		t.Errorf("CargoFree() = %d, want 800", got)
	}
}

func TestShipCargoFreeNeverNegative(t *testing.T) {
	ship := &Ship{Hull: 1, Ore: 9000}
	if got := ship.CargoFree(); got != 0 {
		t.Errorf("CargoFree() = %d, want 0", got)
	}
}

func TestShipCargoOf(t *testing.T) {
	ship := &Ship{Ore: 1, Organics: 2, Goods: 3, Energy: 4}

	tests := []struct {
		resource port.Resource
		want     int64
	}{
		{port.ResourceOre, 1},
		{port.ResourceOrganics, 2},
		{port.ResourceGoods, 3},
		{port.ResourceEnergy, 4},
		{"plutonium", 0},
	}
	for _, tt := range tests {
		if got := ship.CargoOf(tt.resource); got != tt.want {
			t.Errorf("CargoOf(%s) = %d, want %d", tt.resource, got, tt.want)
		}
	}
}
