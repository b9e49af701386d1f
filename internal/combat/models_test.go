package combat

import "testing"

func TestHullTriggersMines(t *testing.T) {
	if HullTriggersMines(12) {
		t.Error("hull 12 should slip past mines")
	}
	if !HullTriggersMines(13) {
		t.Error("hull 13 should trigger mines")
	}
	if !HullTriggersMines(20) {
		t.Error("hull 20 should trigger mines")
	}
}

func TestMineDamage(t *testing.T) {
	if got := MineDamage(4, 3); got != 600 {
		t.Errorf("MineDamage(4, 3) = %d, want 600", got)
	}
	if got := MineDamage(0, 5); got != 0 {
		t.Errorf("MineDamage(0, 5) = %d, want 0", got)
	}
}

func TestBeamDamage(t *testing.T) {
	if got := BeamDamage(5, 100); got != 700 {
		t.Errorf("BeamDamage(5, 100) = %d, want 700", got)
	}
	if got := BeamDamage(0, 0); got != 0 {
		t.Errorf("BeamDamage(0, 0) = %d, want 0", got)
	}
}

func TestSplitDamage(t *testing.T) {
	tests := []struct {
		name         string
		damage       int
		shields      int
		armor        int
		shieldDamage int
		armorDamage  int
		destroyed    bool
	}{
		{"absorbed by shields", 100, 200, 50, 100, 0, false},
		{"overflow into armor", 300, 200, 500, 200, 100, false},
		{"armor stripped exactly", 700, 200, 500, 200, 500, true},
		{"overkill clamps to what was there", 9000, 200, 500, 200, 500, true},
		{"no shields goes straight to armor", 100, 0, 500, 0, 100, false},
		{"zero damage destroys nothing", 0, 0, 0, 0, 0, false},
		{"shields hold a hull with no armor", 50, 100, 0, 50, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sd, ad, destroyed := SplitDamage(tt.damage, tt.shields, tt.armor)
			if sd != tt.shieldDamage || ad != tt.armorDamage || destroyed != tt.destroyed {
				t.Errorf("SplitDamage(%d, %d, %d) = (%d, %d, %v), want (%d, %d, %v)",
					tt.damage, tt.shields, tt.armor, sd, ad, destroyed,
					tt.shieldDamage, tt.armorDamage, tt.destroyed)
			}
		})
	}
}
