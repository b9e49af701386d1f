package combat

import "time"

// Ships at or above this hull level are large enough to set off mines.
// Smaller hulls slip through the detonation threshold.
const MineVulnerabilityHullLevel = 13

// Deployed mines per owner per sector are capped so one player cannot
// saturate a chokepoint.
const MaxMinesPerSector = 50

// Mine is one owner's minefield in a sector. Counts aggregate; the field
// detonates all at once when triggered.
type Mine struct {
	ID            int       `json:"id"`
	SectorID      int       `json:"sector_id"`
	OwnerPlayerID int       `json:"owner_player_id"`
	MineCount     int       `json:"mine_count"`
	TechLevel     int       `json:"tech_level"`
	CreatedAt     time.Time `json:"created_at"`
}

// HullTriggersMines reports whether a hull of this level sets off mines.
func HullTriggersMines(hullLevel int) bool {
	return hullLevel >= MineVulnerabilityHullLevel
}

// MineDamage is the total damage a detonating field deals.
func MineDamage(mineCount, techLevel int) int {
	return mineCount * techLevel * 50
}

// MineHit reports a detonation applied to a ship.
type MineHit struct {
	SectorID       int  `json:"sector_id"`
	MinesTriggered int  `json:"mines_triggered"`
	Damage         int  `json:"damage"`
	ShieldDamage   int  `json:"shield_damage"`
	ArmorDamage    int  `json:"armor_damage"`
	ShipDestroyed  bool `json:"ship_destroyed"`
}

// AttackResult reports one ship-to-ship exchange.
type AttackResult struct {
	TargetPlayerID  int  `json:"target_player_id"`
	Damage          int  `json:"damage"`
	ShieldDamage    int  `json:"shield_damage"`
	ArmorDamage     int  `json:"armor_damage"`
	TargetDestroyed bool `json:"target_destroyed"`
}

// BombardResult reports one planetary bombardment.
type BombardResult struct {
	PlanetID         int `json:"planet_id"`
	Damage           int `json:"damage"`
	ShieldsRemaining int `json:"shields_remaining"`
}

// BeamDamage is the deterministic output of one beam volley. Beam level
// carries the weight; fighters add escort fire.
func BeamDamage(beamLevel, fighters int) int {
	return beamLevel*100 + fighters*2
}

// SplitDamage applies damage to shields first, overflow to armor, and
// reports whether the target is destroyed. Returned values never exceed
// what the target had.
func SplitDamage(damage, shields, armor int) (shieldDamage, armorDamage int, destroyed bool) {
	shieldDamage = damage
	if shieldDamage > shields {
		shieldDamage = shields
	}
	armorDamage = damage - shieldDamage
	if armorDamage > armor {
		armorDamage = armor
	}
	destroyed = armor-armorDamage <= 0 && damage > shieldDamage
	return shieldDamage, armorDamage, destroyed
}
