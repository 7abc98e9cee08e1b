package metrics

import (
	"context"
	"fmt"

	"github.com/mamadbah2/farmbook/internal/domain/models"
)

// FishTotals are a pond's event sums by type.
type FishTotals struct {
	Stocked   int64
	Harvested int64
	Dead      int64
}

// PondSummary is one pond's occupancy against its geometric capacity.
type PondSummary struct {
	PondID       uint    `json:"pond_id"`
	Name         string  `json:"name"`
	Stocked      int64   `json:"stocked"`
	Harvested    int64   `json:"harvested"`
	Dead         int64   `json:"dead"`
	Current      int64   `json:"current"`
	CapacityFish int     `json:"capacity_fish"`
	CapacityKg   float64 `json:"capacity_kg"`
	VolumeM3     float64 `json:"volume_m3"`
	UsagePct     float64 `json:"usage_pct"`
}

// ComputePondOccupancy derives the current head count and usage. Unlike egg
// stock and headcount, pond figures are not floored under the default
// policies: a negative count or usage over 100% is shown as is.
func ComputePondOccupancy(p models.Pond, t FishTotals, pol Policies) PondSummary {
	current := pol.PondCount.Int(t.Stocked - t.Harvested - t.Dead)
	capacity := p.CapacityFishCount()

	usage := 0.0
	if capacity > 0 {
		usage = pol.PondUsage.Float(roundPlaces(float64(current)/float64(capacity)*100, 1))
	}

	return PondSummary{
		PondID:       p.ID,
		Name:         p.Name,
		Stocked:      t.Stocked,
		Harvested:    t.Harvested,
		Dead:         t.Dead,
		Current:      current,
		CapacityFish: capacity,
		CapacityKg:   roundPlaces(p.CapacityBiomassKg(), 2),
		VolumeM3:     roundPlaces(p.VolumeM3(), 2),
		UsagePct:     usage,
	}
}

// Ponds computes occupancy for every pond, each independently.
func (e *Engine) Ponds(ctx context.Context) ([]PondSummary, error) {
	ponds, err := e.store.ListPonds(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ponds: %w", err)
	}

	out := make([]PondSummary, 0, len(ponds))
	for _, p := range ponds {
		totals, err := e.fishTotals(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, ComputePondOccupancy(p, totals, e.policies))
	}
	return out, nil
}

func (e *Engine) fishTotals(ctx context.Context, pondID uint) (FishTotals, error) {
	var t FishTotals
	for _, part := range []struct {
		eventType models.FishEventType
		dst       *int64
	}{
		{models.FishStock, &t.Stocked},
		{models.FishHarvest, &t.Harvested},
		{models.FishMortality, &t.Dead},
	} {
		sum, err := e.store.SumFishEvents(ctx, pondID, part.eventType)
		if err != nil {
			return FishTotals{}, fmt.Errorf("sum %s events for pond %d: %w", part.eventType, pondID, err)
		}
		*part.dst = sum
	}
	return t, nil
}
