package trade

import (
	"testing"

	"bnt-server/internal/player"
	"bnt-server/internal/port"
	"bnt-server/internal/sector"
	apperrors "bnt-server/internal/shared/errors"
)

func testSector(allowTrading bool) *sector.Sector {
	return &sector.Sector{ID: 7, UniverseID: 1, Number: 7, AllowTrading: allowTrading}
}

func testPort(kind port.Kind, stock map[port.Resource]int64, capacity int64) *port.Port {
	return &port.Port{ID: 3, SectorID: 7, Kind: kind, Stock: stock, Capacity: capacity}
}

func testShip(hull int) *player.Ship {
	return &player.Ship{PlayerID: 9, Hull: hull}
}

func TestComputeQuoteBuy(t *testing.T) {
	p := testPort(port.KindOre, map[port.Resource]int64{port.ResourceOre: 500}, 1000)
	sec := testSector(true)
	ship := testShip(2) // 1000 units of hold

	q, err := computeQuote(p, sec, ship, 10000, ActionBuy, port.ResourceOre, 100)
	if err != nil {
		t.Fatalf("computeQuote: %v", err)
	}
	// Half-stocked ore sells at 27 per unit.
	if q.UnitPrice != 27 {
		t.Errorf("UnitPrice = %d, want 27", q.UnitPrice)
	}
	if q.CreditsDelta != -2700 {
		t.Errorf("CreditsDelta = %d, want -2700", q.CreditsDelta)
	}
	if q.Quantity != 100 {
		t.Errorf("Quantity = %d, want 100", q.Quantity)
	}
}

func TestComputeQuoteSell(t *testing.T) {
	p := testPort(port.KindOre, map[port.Resource]int64{port.ResourceGoods: 0}, 1000)
	sec := testSector(true)
	ship := testShip(2)
	ship.Goods = 50

	q, err := computeQuote(p, sec, ship, 0, ActionSell, port.ResourceGoods, 50)
	if err != nil {
		t.Fatalf("computeQuote: %v", err)
	}
	// An empty port pays base price, 38 for goods.
	if q.UnitPrice != 38 {
		t.Errorf("UnitPrice = %d, want 38", q.UnitPrice)
	}
	if q.CreditsDelta != 1900 {
		t.Errorf("CreditsDelta = %d, want 1900", q.CreditsDelta)
	}
}

func TestComputeQuoteRejections(t *testing.T) {
	richShip := testShip(2)
	richShip.Ore = 900

	tests := []struct {
		name     string
		port     *port.Port
		sector   *sector.Sector
		ship     *player.Ship
		credits  int64
		action   Action
		resource port.Resource
		qty      int64
		wantCode string
	}{
		{
			name:     "trading disallowed in sector",
			port:     testPort(port.KindOre, map[port.Resource]int64{port.ResourceOre: 500}, 1000),
			sector:   testSector(false),
			ship:     testShip(2),
			credits:  10000,
			action:   ActionBuy,
			resource: port.ResourceOre,
			qty:      1,
			wantCode: apperrors.CodeSectorRules,
		},
		{
			name:     "special port trades nothing",
			port:     testPort(port.KindSpecial, map[port.Resource]int64{}, 1000),
			sector:   testSector(true),
			ship:     testShip(2),
			credits:  10000,
			action:   ActionBuy,
			resource: port.ResourceOre,
			qty:      1,
			wantCode: apperrors.CodeInvalidPortKind,
		},
		{
			name:     "ore port does not sell goods",
			port:     testPort(port.KindOre, map[port.Resource]int64{port.ResourceOre: 500}, 1000),
			sector:   testSector(true),
			ship:     testShip(2),
			credits:  10000,
			action:   ActionBuy,
			resource: port.ResourceGoods,
			qty:      1,
			wantCode: apperrors.CodeResourceNotAllowed,
		},
		{
			name:     "buy beyond stock",
			port:     testPort(port.KindOre, map[port.Resource]int64{port.ResourceOre: 10}, 1000),
			sector:   testSector(true),
			ship:     testShip(2),
			credits:  100000,
			action:   ActionBuy,
			resource: port.ResourceOre,
			qty:      11,
			wantCode: apperrors.CodeInsufficientStock,
		},
		{
			name:     "buy beyond hold space",
			port:     testPort(port.KindOre, map[port.Resource]int64{port.ResourceOre: 5000}, 10000),
			sector:   testSector(true),
			ship:     testShip(1), // 500 units of hold
			credits:  1000000,
			action:   ActionBuy,
			resource: port.ResourceOre,
			qty:      501,
			wantCode: apperrors.CodeInsufficientCargo,
		},
		{
			name:     "buy beyond funds",
			port:     testPort(port.KindOre, map[port.Resource]int64{port.ResourceOre: 500}, 1000),
			sector:   testSector(true),
			ship:     testShip(2),
			credits:  26, // one unit costs 27
			action:   ActionBuy,
			resource: port.ResourceOre,
			qty:      1,
			wantCode: apperrors.CodeInsufficientFunds,
		},
		{
			name:     "sell more than aboard",
			port:     testPort(port.KindOre, map[port.Resource]int64{}, 1000),
			sector:   testSector(true),
			ship:     testShip(2),
			credits:  0,
			action:   ActionSell,
			resource: port.ResourceGoods,
			qty:      1,
			wantCode: apperrors.CodeInsufficientCargo,
		},
		{
			name:     "sell past port capacity",
			port:     testPort(port.KindOre, map[port.Resource]int64{port.ResourceOre: 950}, 1000),
			sector:   testSector(true),
			ship:     richShip,
			credits:  0,
			action:   ActionSell,
			resource: port.ResourceOre,
			qty:      51,
			wantCode: apperrors.CodeInsufficientStock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := computeQuote(tt.port, tt.sector, tt.ship, tt.credits, tt.action, tt.resource, tt.qty)
			if err == nil {
				t.Fatalf("computeQuote returned %+v, want error", q)
			}
			if tt.wantCode != "" && apperrors.GetCode(err) != tt.wantCode {
				t.Errorf("error code = %q, want %q", apperrors.GetCode(err), tt.wantCode)
			}
		})
	}
}

func TestComputeQuoteValidation(t *testing.T) {
	p := testPort(port.KindOre, map[port.Resource]int64{port.ResourceOre: 500}, 1000)
	sec := testSector(true)
	ship := testShip(2)

	if _, err := computeQuote(p, sec, ship, 100, ActionBuy, "plutonium", 1); err == nil {
		t.Error("unknown resource should be rejected")
	}
	if _, err := computeQuote(p, sec, ship, 100, ActionBuy, port.ResourceOre, 0); err == nil {
		t.Error("zero quantity should be rejected")
	}
	if _, err := computeQuote(p, sec, ship, 100, ActionBuy, port.ResourceOre, -5); err == nil {
		t.Error("negative quantity should be rejected")
	}
	if _, err := computeQuote(p, sec, ship, 100, "barter", port.ResourceOre, 1); err == nil {
		t.Error("unknown action should be rejected")
	}
}

func TestBestAutoQuoteSellsCargoFirst(t *testing.T) {
	// The port is empty, so it pays base price for anything aboard.
	p := testPort(port.KindOre, map[port.Resource]int64{}, 1000)
	sec := testSector(true)
	ship := testShip(2)
	ship.Goods = 100

	q := bestAutoQuote(p, sec, ship, 500)
	if q == nil {
		t.Fatal("bestAutoQuote returned nil, want a sell")
	}
	if q.Action != ActionSell || q.Resource != port.ResourceGoods {
		t.Fatalf("got %s %s, want sell goods", q.Action, q.Resource)
	}
	if q.CreditsDelta != 3800 {
		t.Errorf("CreditsDelta = %d, want 3800", q.CreditsDelta)
	}
}

func TestBestAutoQuoteBuysNativeWhenHoldIsEmpty(t *testing.T) {
	// A near-full ore port sells close to base price.
	p := testPort(port.KindOre, map[port.Resource]int64{port.ResourceOre: 900}, 1000)
	sec := testSector(true)
	ship := testShip(1)

	q := bestAutoQuote(p, sec, ship, 10000)
	if q == nil {
		t.Fatal("bestAutoQuote returned nil, want a buy")
	}
	if q.Action != ActionBuy || q.Resource != port.ResourceOre {
		t.Fatalf("got %s %s, want buy ore", q.Action, q.Resource)
	}
	// Bounded by hold space, not funds.
	if q.Quantity != 500 {
		t.Errorf("Quantity = %d, want 500", q.Quantity)
	}
}

func TestBestAutoQuoteSkipsBadPrices(t *testing.T) {
	// An empty ore port charges double base, well past the buy threshold,
	// and there is nothing aboard to sell.
	p := testPort(port.KindOre, map[port.Resource]int64{}, 1000)
	sec := testSector(true)
	ship := testShip(1)

	if q := bestAutoQuote(p, sec, ship, 10000); q != nil {
		t.Errorf("bestAutoQuote = %+v, want nil", q)
	}
}

func TestBestAutoQuoteSpecialPort(t *testing.T) {
	p := testPort(port.KindSpecial, map[port.Resource]int64{}, 1000)
	sec := testSector(true)
	ship := testShip(1)
	ship.Ore = 100

	if q := bestAutoQuote(p, sec, ship, 10000); q != nil {
		t.Errorf("bestAutoQuote at special port = %+v, want nil", q)
	}
}
