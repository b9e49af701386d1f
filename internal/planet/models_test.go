package planet

import "testing"

func TestAllocationClamp(t *testing.T) {
	tests := []struct {
		name string
		in   Allocation
		want Allocation
	}{
		{
			name: "under committed is untouched",
			in:   Allocation{Ore: 20, Organics: 20, Goods: 10},
			want: Allocation{Ore: 20, Organics: 20, Goods: 10},
		},
		{
			name: "exactly 100 is untouched",
			in:   Allocation{Ore: 25, Organics: 25, Goods: 25, Energy: 25},
			want: Allocation{Ore: 25, Organics: 25, Goods: 25, Energy: 25},
		},
		{
			name: "over committed scales down",
			in:   Allocation{Ore: 100, Organics: 100},
			want: Allocation{Ore: 50, Organics: 50},
		},
		{
			name: "zero allocation stays zero",
			in:   Allocation{},
			want: Allocation{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Clamp()
			if got != tt.want {
				t.Errorf("Clamp() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAllocationClampNeverExceeds100(t *testing.T) {
	inputs := []Allocation{
		{Ore: 60, Organics: 60, Goods: 60},
		{Ore: 33, Organics: 33, Goods: 33, Energy: 33, Fighters: 33, Torpedoes: 33},
		{Fighters: 101},
		{Ore: 1, Organics: 1, Goods: 1, Energy: 1, Fighters: 1, Torpedoes: 200},
	}
	for _, in := range inputs {
		if got := in.Clamp().Sum(); got > 100 {
			t.Errorf("Clamp(%+v).Sum() = %d, want <= 100", in, got)
		}
	}
}
