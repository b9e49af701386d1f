package port

import "testing"

func TestCommodityPortPolicy(t *testing.T) {
	// An ore port sells only ore but buys every commodity.
	if !CanSellToPlayer(KindOre, ResourceOre) {
		t.Error("ore port should sell ore")
	}
	for _, r := range []Resource{ResourceOrganics, ResourceGoods, ResourceEnergy} {
		if CanSellToPlayer(KindOre, r) {
			t.Errorf("ore port should not sell %s", r)
		}
	}
	for _, r := range Resources {
		if !CanBuyFromPlayer(KindOre, r) {
			t.Errorf("ore port should buy %s", r)
		}
	}
}

func TestSpecialPortPolicy(t *testing.T) {
	for _, r := range Resources {
		if CanSellToPlayer(KindSpecial, r) {
			t.Errorf("special port should not sell %s", r)
		}
		if CanBuyFromPlayer(KindSpecial, r) {
			t.Errorf("special port should not buy %s", r)
		}
	}
	if TradesCommodities(KindSpecial) {
		t.Error("special port should not trade commodities")
	}
	if !TradesCommodities(KindGoods) {
		t.Error("goods port should trade commodities")
	}
}

func TestValidResource(t *testing.T) {
	for _, r := range Resources {
		if !ValidResource(r) {
			t.Errorf("%s should be valid", r)
		}
	}
	if ValidResource("plutonium") {
		t.Error("unknown resource should be invalid")
	}
}
