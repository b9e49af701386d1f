package trade

import (
	"bnt-server/internal/player"
	"bnt-server/internal/port"
	"bnt-server/internal/sector"
	apperrors "bnt-server/internal/shared/errors"
)

// computeQuote validates one buy or sell against a consistent snapshot and
// returns the fill. It mutates nothing; the caller applies the quote inside
// its transaction. Rejections come back as structured conflicts with stable
// codes so handlers and the AI engine can branch on them.
func computeQuote(p *port.Port, sec *sector.Sector, ship *player.Ship, credits int64, action Action, resource port.Resource, qty int64) (*Quote, error) {
	if !sec.AllowTrading {
		return nil, apperrors.Conflict(apperrors.CodeSectorRules, "trading is not allowed in this sector")
	}
	if !port.TradesCommodities(p.Kind) {
		return nil, apperrors.Conflict(apperrors.CodeInvalidPortKind, "special ports do not trade commodities")
	}
	if !port.ValidResource(resource) {
		return nil, apperrors.Validationf("unknown resource %q", resource)
	}
	if qty <= 0 {
		return nil, apperrors.Validation("quantity must be positive")
	}

	stock := p.StockOf(resource)

	switch action {
	case ActionBuy:
		if !port.CanSellToPlayer(p.Kind, resource) {
			return nil, apperrors.Conflictf(apperrors.CodeResourceNotAllowed,
				"%s port sells only %s", p.Kind, p.Kind)
		}
		if qty > stock {
			return nil, apperrors.Conflictf(apperrors.CodeInsufficientStock,
				"port has only %d %s in stock", stock, resource)
		}
		if qty > ship.CargoFree() {
			return nil, apperrors.Conflictf(apperrors.CodeInsufficientCargo,
				"only %d units of hold space free", ship.CargoFree())
		}
		price := port.BuyPrice(resource, stock, p.Capacity)
		cost := price * qty
		if cost > credits {
			return nil, apperrors.Conflictf(apperrors.CodeInsufficientFunds,
				"%d credits needed, %d on hand", cost, credits)
		}
		return &Quote{
			Action:       ActionBuy,
			Resource:     resource,
			Quantity:     qty,
			UnitPrice:    price,
			CreditsDelta: -cost,
		}, nil

	case ActionSell:
		if !port.CanBuyFromPlayer(p.Kind, resource) {
			return nil, apperrors.Conflictf(apperrors.CodeResourceNotAllowed,
				"port does not buy %s", resource)
		}
		if qty > ship.CargoOf(resource) {
			return nil, apperrors.Conflictf(apperrors.CodeInsufficientCargo,
				"only %d %s aboard", ship.CargoOf(resource), resource)
		}
		if stock+qty > p.Capacity {
			return nil, apperrors.Conflictf(apperrors.CodeInsufficientStock,
				"port can absorb only %d more %s", p.Capacity-stock, resource)
		}
		price := port.SellPrice(resource, stock, p.Capacity)
		return &Quote{
			Action:       ActionSell,
			Resource:     resource,
			Quantity:     qty,
			UnitPrice:    price,
			CreditsDelta: price * qty,
		}, nil

	default:
		return nil, apperrors.Validationf("unknown trade action %q", action)
	}
}

// bestAutoQuote picks the most profitable single trade available right now:
// sell the cargo commodity the port pays best for when the price is decent,
// otherwise buy the port's native commodity while it is cheap. Returns nil
// when no trade clears the profitability bars.
func bestAutoQuote(p *port.Port, sec *sector.Sector, ship *player.Ship, credits int64) *Quote {
	var best *Quote

	// A sell is worthwhile when the port pays at least 60% of base.
	for _, r := range port.Resources {
		held := ship.CargoOf(r)
		if held == 0 || !port.CanBuyFromPlayer(p.Kind, r) {
			continue
		}
		qty := held
		if room := p.Capacity - p.StockOf(r); qty > room {
			qty = room
		}
		if qty <= 0 {
			continue
		}
		price := port.SellPrice(r, p.StockOf(r), p.Capacity)
		if price*10 < port.BasePrice(r)*6 {
			continue
		}
		q, err := computeQuote(p, sec, ship, credits, ActionSell, r, qty)
		if err != nil {
			continue
		}
		if best == nil || q.CreditsDelta > best.CreditsDelta {
			best = q
		}
	}
	if best != nil {
		return best
	}

	// Otherwise buy the native commodity while it is at or below 120% of
	// base, as much as funds and hold space allow.
	native := port.Resource(p.Kind)
	if !port.CanSellToPlayer(p.Kind, native) {
		return nil
	}
	price := port.BuyPrice(native, p.StockOf(native), p.Capacity)
	if price*10 > port.BasePrice(native)*12 {
		return nil
	}
	qty := credits / price
	if free := ship.CargoFree(); qty > free {
		qty = free
	}
	if stock := p.StockOf(native); qty > stock {
		qty = stock
	}
	if qty <= 0 {
		return nil
	}
	q, err := computeQuote(p, sec, ship, credits, ActionBuy, native, qty)
	if err != nil {
		return nil
	}
	return q
}
