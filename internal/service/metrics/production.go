package metrics

import (
	"context"
	"fmt"

	"github.com/mamadbah2/farmbook/internal/domain/models"
)

// WindowDays is the length of the trailing production window, today included.
const WindowDays = 7

// ProductionInputs are same-day and window sums for the tracked flock.
type ProductionInputs struct {
	EggsToday int64
	DeadToday int64
	Eggs7d    int64
	Dead7d    int64
	Headcount int64
}

// ProductionSummary holds daily and 7-day laying and mortality rates.
type ProductionSummary struct {
	WindowStart      models.Date `json:"window_start"`
	WindowEnd        models.Date `json:"window_end"`
	EggsToday        int64       `json:"eggs_today"`
	DeadToday        int64       `json:"dead_today"`
	Eggs7d           int64       `json:"eggs_7d"`
	Dead7d           int64       `json:"dead_7d"`
	AvgEggs7d        float64     `json:"avg_eggs_7d"`
	HenDayPct        float64     `json:"hen_day_pct"`
	HenDayPctClamped float64     `json:"hen_day_pct_clamped"`
	Mortality7dPct   float64     `json:"mortality_7d_pct"`
}

// ComputeProduction derives the rates. The 7-day average always divides by
// seven; days without logs count as zero. A hen-day rate above 100% is kept
// in HenDayPct as a data-entry signal.
func ComputeProduction(in ProductionInputs, p Policies) ProductionSummary {
	henDay := percentOf(in.EggsToday, in.Headcount, 1)
	return ProductionSummary{
		EggsToday:        in.EggsToday,
		DeadToday:        in.DeadToday,
		Eggs7d:           in.Eggs7d,
		Dead7d:           in.Dead7d,
		AvgEggs7d:        roundPlaces(float64(in.Eggs7d)/WindowDays, 1),
		HenDayPct:        henDay,
		HenDayPctClamped: p.HenDayDisplay.Float(henDay),
		Mortality7dPct:   percentOf(in.Dead7d, in.Headcount, 2),
	}
}

// Production computes rates for the tracked flock as of today.
func (e *Engine) Production(ctx context.Context) (ProductionSummary, error) {
	chickens, err := e.Chickens(ctx)
	if err != nil {
		return ProductionSummary{}, err
	}
	return e.production(ctx, chickens, e.Today())
}

func (e *Engine) production(ctx context.Context, flock ChickenSummary, today models.Date) (ProductionSummary, error) {
	window := models.DateRange{From: today.AddDays(-(WindowDays - 1)), To: today}
	in := ProductionInputs{Headcount: flock.Current}

	if flock.Tracked {
		daily, err := e.store.SumChickenLogs(ctx, models.ChickenLogFilter{FlockID: flock.FlockID, Range: models.Day(today)})
		if err != nil {
			return ProductionSummary{}, fmt.Errorf("sum today's logs: %w", err)
		}
		weekly, err := e.store.SumChickenLogs(ctx, models.ChickenLogFilter{FlockID: flock.FlockID, Range: window})
		if err != nil {
			return ProductionSummary{}, fmt.Errorf("sum 7-day logs: %w", err)
		}
		in.EggsToday, in.DeadToday = daily.Eggs, daily.Dead
		in.Eggs7d, in.Dead7d = weekly.Eggs, weekly.Dead
	}

	summary := ComputeProduction(in, e.policies)
	summary.WindowStart = window.From
	summary.WindowEnd = window.To
	return summary, nil
}
