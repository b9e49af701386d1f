package port

// TradePolicy describes which commodities a port sells to players and which
// it buys from them. The rule lives in one table instead of scattered
// conditionals: a commodity port sells only its native resource and buys
// everything, including its own native resource back; special ports trade no
// commodities at all.
type TradePolicy struct {
	Sellable map[Resource]bool
	Buyable  map[Resource]bool
}

var policies = map[Kind]TradePolicy{
	KindOre:      commodityPolicy(ResourceOre),
	KindOrganics: commodityPolicy(ResourceOrganics),
	KindGoods:    commodityPolicy(ResourceGoods),
	KindEnergy:   commodityPolicy(ResourceEnergy),
	KindSpecial:  {Sellable: map[Resource]bool{}, Buyable: map[Resource]bool{}},
}

func commodityPolicy(native Resource) TradePolicy {
	buyable := make(map[Resource]bool, len(Resources))
	for _, r := range Resources {
		buyable[r] = true
	}
	return TradePolicy{
		Sellable: map[Resource]bool{native: true},
		Buyable:  buyable,
	}
}

// PolicyFor returns the trade policy for a port kind.
func PolicyFor(kind Kind) TradePolicy {
	return policies[kind]
}

// CanSellToPlayer reports whether a port of this kind sells the resource.
func CanSellToPlayer(kind Kind, r Resource) bool {
	return policies[kind].Sellable[r]
}

// CanBuyFromPlayer reports whether a port of this kind buys the resource.
func CanBuyFromPlayer(kind Kind, r Resource) bool {
	return policies[kind].Buyable[r]
}

// TradesCommodities reports whether the kind trades commodities at all.
func TradesCommodities(kind Kind) bool {
	return kind != KindSpecial
}
