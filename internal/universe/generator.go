package universe

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"bnt-server/internal/planet"
	"bnt-server/internal/port"
	"bnt-server/internal/sector"
	"bnt-server/internal/shared/database"
)

// generator lays out a universe's static geography inside the creation
// transaction.
type generator struct {
	sectors *sector.Repository
	ports   *port.Repository
	planets *planet.Repository
	logger  *slog.Logger
}

var commodityKinds = []port.Kind{port.KindOre, port.KindOrganics, port.KindGoods, port.KindEnergy}

var planetNames = []string{
	"Arrakis", "Helios", "Vega Prime", "Threshold", "New Terra",
	"Karthage", "Meridian", "Outpost", "Caldera", "Styx",
}

// generate builds sectors, warps, ports, and planets, and returns the id
// of sector 1, the protected starting hub.
func (g *generator) generate(ctx context.Context, tx *database.Tx, u *Universe) (int, error) {
	sectorIDs := make([]int, u.SectorCount)
	for i := 0; i < u.SectorCount; i++ {
		sec, err := g.sectors.Create(ctx, tx, u.ID, i+1)
		if err != nil {
			return 0, err
		}
		sectorIDs[i] = sec.ID
	}

	// Sector 1 is safe ground: fresh pilots spawn there and cannot be
	// attacked or mined while docked.
	if _, err := tx.ExecContext(ctx, `
		UPDATE sectors SET allow_attacking = FALSE, allow_sector_defense = FALSE
		WHERE id = $1`, sectorIDs[0]); err != nil {
		return 0, fmt.Errorf("failed to protect starting sector: %w", err)
	}

	if err := g.generateWarps(ctx, tx, sectorIDs); err != nil {
		return 0, err
	}
	if err := g.generatePorts(ctx, tx, sectorIDs, u.PortDensity); err != nil {
		return 0, err
	}
	if err := g.generatePlanets(ctx, tx, sectorIDs, u.PlanetDensity); err != nil {
		return 0, err
	}
	return sectorIDs[0], nil
}

// generateWarps links the sectors into a connected graph: a two-way chain
// guarantees every sector is reachable, then random extra links add the
// shortcuts that make navigation interesting.
func (g *generator) generateWarps(ctx context.Context, tx *database.Tx, sectorIDs []int) error {
	for i := 0; i+1 < len(sectorIDs); i++ {
		if err := g.sectors.CreateWarp(ctx, tx, sectorIDs[i], sectorIDs[i+1]); err != nil {
			return err
		}
		if err := g.sectors.CreateWarp(ctx, tx, sectorIDs[i+1], sectorIDs[i]); err != nil {
			return err
		}
	}

	extras := len(sectorIDs) / 2
	for i := 0; i < extras; i++ {
		from := sectorIDs[rand.Intn(len(sectorIDs))]
		to := sectorIDs[rand.Intn(len(sectorIDs))]
		if from == to {
			continue
		}
		if err := g.sectors.CreateWarp(ctx, tx, from, to); err != nil {
			return err
		}
		if err := g.sectors.CreateWarp(ctx, tx, to, from); err != nil {
			return err
		}
	}
	return nil
}

// generatePorts places a port in each sector with probability density.
// Commodity kinds rotate so the mix stays even; roughly one port in ten
// is a special port. Sector 1 always gets a port so new players can trade
// immediately.
func (g *generator) generatePorts(ctx context.Context, tx *database.Tx, sectorIDs []int, density float64) error {
	kindIndex := 0
	for i, sectorID := range sectorIDs {
		if i > 0 && rand.Float64() >= density {
			continue
		}

		kind := commodityKinds[kindIndex%len(commodityKinds)]
		kindIndex++
		if i > 0 && rand.Float64() < 0.1 {
			kind = port.KindSpecial
		}

		capacity := int64(1000 + rand.Intn(9001))
		if _, err := g.ports.Create(ctx, tx, sectorID, kind, capacity); err != nil {
			return err
		}
	}
	return nil
}

// generatePlanets seeds unowned planets with a small starting population
// for players to colonize or capture.
func (g *generator) generatePlanets(ctx context.Context, tx *database.Tx, sectorIDs []int, density float64) error {
	for _, sectorID := range sectorIDs {
		if rand.Float64() >= density {
			continue
		}
		name := planetNames[rand.Intn(len(planetNames))]
		colonists := int64(rand.Intn(5000))
		if _, err := g.planets.Create(ctx, tx, sectorID, name, colonists); err != nil {
			return err
		}
	}
	return nil
}
