package metrics

import (
	"context"
	"fmt"

	"github.com/mamadbah2/farmbook/internal/domain/models"
)

// FlockSelector picks the flock the dashboard tracks.
type FlockSelector interface {
	SelectFlock(flocks []models.Flock) (models.Flock, bool)
}

// FlockSelectorFunc adapts a function to FlockSelector.
type FlockSelectorFunc func(flocks []models.Flock) (models.Flock, bool)

// SelectFlock implements FlockSelector.
func (f FlockSelectorFunc) SelectFlock(flocks []models.Flock) (models.Flock, bool) {
	return f(flocks)
}

// FirstFlock selects the flock with the lowest identifier.
var FirstFlock FlockSelector = FlockSelectorFunc(func(flocks []models.Flock) (models.Flock, bool) {
	if len(flocks) == 0 {
		return models.Flock{}, false
	}
	first := flocks[0]
	for _, f := range flocks[1:] {
		if f.ID < first.ID {
			first = f
		}
	}
	return first, true
})

// FlockByID selects a specific flock, or none when it does not exist.
func FlockByID(id uint) FlockSelector {
	return FlockSelectorFunc(func(flocks []models.Flock) (models.Flock, bool) {
		for _, f := range flocks {
			if f.ID == id {
				return f, true
			}
		}
		return models.Flock{}, false
	})
}

// ChickenSummary is the live headcount of one flock.
type ChickenSummary struct {
	FlockID      uint   `json:"flock_id"`
	FlockName    string `json:"flock_name"`
	Tracked      bool   `json:"tracked"`
	InitialCount int64  `json:"initial_count"`
	Deaths       int64  `json:"deaths"`
	CurrentRaw   int64  `json:"current_raw"`
	Current      int64  `json:"current"`
	Warning      bool   `json:"warning"`
}

// ComputeHeadcount subtracts cumulative deaths from the initial count. More
// deaths than birds raises the warning; the displayed count follows the
// Headcount policy.
func ComputeHeadcount(initial, deaths int64, p Policies) ChickenSummary {
	raw := initial - deaths
	return ChickenSummary{
		InitialCount: initial,
		Deaths:       deaths,
		CurrentRaw:   raw,
		Current:      p.Headcount.Int(raw),
		Warning:      raw < 0,
	}
}

// Chickens summarizes the tracked flock. Without any flock every figure is zero.
func (e *Engine) Chickens(ctx context.Context) (ChickenSummary, error) {
	flocks, err := e.store.ListFlocks(ctx)
	if err != nil {
		return ChickenSummary{}, fmt.Errorf("list flocks: %w", err)
	}
	flock, ok := e.selector.SelectFlock(flocks)
	if !ok {
		return ComputeHeadcount(0, 0, e.policies), nil
	}
	return e.flockHeadcount(ctx, flock)
}

// Flocks summarizes every flock, ordered as stored.
func (e *Engine) Flocks(ctx context.Context) ([]ChickenSummary, error) {
	flocks, err := e.store.ListFlocks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list flocks: %w", err)
	}

	tracked, hasTracked := e.selector.SelectFlock(flocks)

	out := make([]ChickenSummary, 0, len(flocks))
	for _, f := range flocks {
		summary, err := e.flockHeadcount(ctx, f)
		if err != nil {
			return nil, err
		}
		summary.Tracked = hasTracked && f.ID == tracked.ID
		out = append(out, summary)
	}
	return out, nil
}

func (e *Engine) flockHeadcount(ctx context.Context, flock models.Flock) (ChickenSummary, error) {
	totals, err := e.store.SumChickenLogs(ctx, models.ChickenLogFilter{FlockID: flock.ID})
	if err != nil {
		return ChickenSummary{}, fmt.Errorf("sum deaths for flock %d: %w", flock.ID, err)
	}
	summary := ComputeHeadcount(int64(flock.InitialCount), totals.Dead, e.policies)
	summary.FlockID = flock.ID
	summary.FlockName = flock.Name
	summary.Tracked = true
	return summary, nil
}
