package port

import "testing"

func TestBuyPrice(t *testing.T) {
	tests := []struct {
		name     string
		resource Resource
		stock    int64
		capacity int64
		want     int64
	}{
		{"ore at half stock", ResourceOre, 500, 1000, 27},
		{"ore empty port charges double", ResourceOre, 0, 1000, 36},
		{"ore full port charges base", ResourceOre, 1000, 1000, 18},
		{"energy near empty", ResourceEnergy, 0, 1000, 6},
		{"zero capacity falls back to base", ResourceGoods, 0, 0, 38},
		{"stock above capacity clamps", ResourceOre, 2000, 1000, 18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuyPrice(tt.resource, tt.stock, tt.capacity)
			if got != tt.want {
				t.Errorf("BuyPrice(%s, %d, %d) = %d, want %d",
					tt.resource, tt.stock, tt.capacity, got, tt.want)
			}
		})
	}
}

func TestSellPrice(t *testing.T) {
	tests := []struct {
		name     string
		resource Resource
		stock    int64
		capacity int64
		want     int64
	}{
		{"ore at half stock", ResourceOre, 500, 1000, 14},
		{"ore empty port pays base", ResourceOre, 0, 1000, 18},
		{"ore full port pays half base", ResourceOre, 1000, 1000, 9},
		{"energy near full stays above zero", ResourceEnergy, 3, 3, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SellPrice(tt.resource, tt.stock, tt.capacity)
			if got != tt.want {
				t.Errorf("SellPrice(%s, %d, %d) = %d, want %d",
					tt.resource, tt.stock, tt.capacity, got, tt.want)
			}
		})
	}
}

// A round trip against one port must never mint credits, so the sell
// price has to stay below the buy price at every stock level.
func TestSellPriceBelowBuyPrice(t *testing.T) {
	for _, r := range Resources {
		for capacity := int64(1); capacity <= 100; capacity++ {
			for stock := int64(0); stock <= capacity; stock++ {
				buy := BuyPrice(r, stock, capacity)
				sell := SellPrice(r, stock, capacity)
				if sell >= buy {
					t.Fatalf("%s: stock %d/%d: sell price %d >= buy price %d",
						r, stock, capacity, sell, buy)
				}
			}
		}
	}
}

func TestPricesNeverBelowOne(t *testing.T) {
	if got := SellPrice(ResourceEnergy, 1, 1); got < 1 {
		t.Errorf("SellPrice floor broken: got %d", got)
	}
	if got := BuyPrice(ResourceEnergy, 1, 1); got < 1 {
		t.Errorf("BuyPrice floor broken: got %d", got)
	}
}
