package movement

// Turn costs. Warp moves ride the graph cheaply; hyperspace jumps pay by
// distance between sector numbers.
const (
	WarpMoveCost       = 1
	HyperspaceBaseCost = 2
	ScanSingleCost     = 1
	ScanWarpsCost      = 1
)

// HyperspaceCost is the turn price of a jump to an arbitrary sector,
// growing with the numeric distance between sectors.
func HyperspaceCost(fromNumber, toNumber int) int {
	distance := fromNumber - toNumber
	if distance < 0 {
		distance = -distance
	}
	return HyperspaceBaseCost + (distance+99)/100
}

// ScanFullCost scales with the swept radius.
func ScanFullCost(radius int) int {
	return 2 * radius
}

// MineRevealChance is the probability a sensor sweep exposes mines hidden
// behind the given cloak level. A sensor lead of five or more levels sees
// everything; a deficit sees nothing; in between each level of lead adds
// a band of 15%.
func MineRevealChance(sensorLevel, cloakLevel int) float64 {
	lead := sensorLevel - cloakLevel
	if lead >= 5 {
		return 1.0
	}
	if lead < 0 {
		return 0.0
	}
	return 0.15 * float64(lead+1)
}
