package turns

import "testing"

func TestAccrue(t *testing.T) {
	tests := []struct {
		name  string
		turns int
		cap   int
		grant int
		want  int
	}{
		{"below cap with room", 10, 100, 5, 15},
		{"grant clamps at cap", 95, 100, 12, 100},
		{"lands exactly on cap", 88, 100, 12, 100},
		{"at cap stays put", 100, 100, 12, 100},
		{"above cap is not reduced", 130, 100, 12, 130},
		{"zero grant", 40, 100, 0, 40},
		{"zero balance", 0, 100, 12, 12},
		{"grant larger than cap", 0, 100, 500, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Accrue(tt.turns, tt.cap, tt.grant); got != tt.want {
				t.Errorf("Accrue(%d, %d, %d) = %d, want %d", tt.turns, tt.cap, tt.grant, got, tt.want)
			}
		})
	}
}

func TestAccrueNeverDecreasesOrOvershoots(t *testing.T) {
	for turns := 0; turns <= 120; turns += 7 {
		for grant := 0; grant <= 40; grant += 5 {
			got := Accrue(turns, 100, grant)
			if got < turns {
				t.Fatalf("Accrue(%d, 100, %d) = %d decreased the balance", turns, grant, got)
			}
			if turns <= 100 && got > 100 {
				t.Fatalf("Accrue(%d, 100, %d) = %d exceeded the cap", turns, grant, got)
			}
		}
	}
}
