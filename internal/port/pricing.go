package port

import "math"

// Base per-unit prices. Actual prices move with stock level.
var basePrices = map[Resource]int64{
	ResourceOre:      18,
	ResourceOrganics: 10,
	ResourceGoods:    38,
	ResourceEnergy:   3,
}

// BasePrice returns the equilibrium price for a resource.
func BasePrice(r Resource) int64 {
	return basePrices[r]
}

// BuyPrice is what a player pays per unit when buying from the port. Scarcity
// raises it: an empty port charges double base, a full port charges base.
func BuyPrice(r Resource, stock, capacity int64) int64 {
	if capacity <= 0 {
		return basePrices[r]
	}
	ratio := clampRatio(float64(stock) / float64(capacity))
	price := int64(math.Round(float64(basePrices[r]) * (2.0 - ratio)))
	if price < 1 {
		price = 1
	}
	return price
}

// SellPrice is what the port pays per unit when buying from a player.
// Saturation lowers it: a full port pays half base, an empty port pays base.
// At any stock level the sell price stays below the buy price, so round
// trips against one port cannot mint credits.
func SellPrice(r Resource, stock, capacity int64) int64 {
	if capacity <= 0 {
		return basePrices[r] / 2
	}
	ratio := clampRatio(float64(stock) / float64(capacity))
	price := int64(math.Round(float64(basePrices[r]) * (1.0 - ratio/2.0)))
	if price < 1 {
		price = 1
	}
	return price
}

func clampRatio(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
