package port

import "time"

// Resource is a tradeable commodity.
type Resource string

const (
	ResourceOre      Resource = "ore"
	ResourceOrganics Resource = "organics"
	ResourceGoods    Resource = "goods"
	ResourceEnergy   Resource = "energy"
)

// Resources lists all commodities in a stable order.
var Resources = []Resource{ResourceOre, ResourceOrganics, ResourceGoods, ResourceEnergy}

// Kind is a port's commodity specialization. Special ports trade equipment,
// not commodities.
type Kind string

const (
	KindOre      Kind = "ore"
	KindOrganics Kind = "organics"
	KindGoods    Kind = "goods"
	KindEnergy   Kind = "energy"
	KindSpecial  Kind = "special"
)

func ValidResource(r Resource) bool {
	switch r {
	case ResourceOre, ResourceOrganics, ResourceGoods, ResourceEnergy:
		return true
	}
	return false
}

type Port struct {
	ID        int                `json:"id"`
	SectorID  int                `json:"sector_id"`
	Kind      Kind               `json:"kind"`
	Stock     map[Resource]int64 `json:"stock"`
	Capacity  int64              `json:"capacity"`
	CreatedAt time.Time          `json:"created_at"`
}

// StockOf returns the stock level for a resource.
func (p *Port) StockOf(r Resource) int64 {
	return p.Stock[r]
}
