package metrics

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/farmbook/internal/domain/models"
)

// DefaultEggProduct is the product name egg sales are booked under.
const DefaultEggProduct = "Telur"

// Options tunes an Engine. Zero values pick the defaults.
type Options struct {
	EggProduct string
	Location   *time.Location
	Selector   FlockSelector
	Policies   *Policies
	Now        func() time.Time
}

// Engine turns logged events into dashboard figures. It holds no state
// between calls; every computation reads the store afresh.
type Engine struct {
	store      Store
	settings   SettingsResolver
	selector   FlockSelector
	policies   Policies
	eggProduct string
	loc        *time.Location
	now        func() time.Time
	logger     *zap.Logger
}

// NewEngine wires a metrics engine.
func NewEngine(store Store, settings SettingsResolver, opts Options, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		store:      store,
		settings:   settings,
		selector:   opts.Selector,
		policies:   DefaultPolicies(),
		eggProduct: opts.EggProduct,
		loc:        opts.Location,
		now:        opts.Now,
		logger:     logger,
	}
	if opts.Policies != nil {
		e.policies = *opts.Policies
	}
	if e.selector == nil {
		e.selector = FirstFlock
	}
	if e.eggProduct == "" {
		e.eggProduct = DefaultEggProduct
	}
	if e.loc == nil {
		e.loc = time.Local
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// Today is the current calendar day in the engine's location.
func (e *Engine) Today() models.Date {
	return models.DateOf(e.now().In(e.loc))
}

// Policies returns the clamp policies in effect.
func (e *Engine) Policies() Policies {
	return e.policies
}

// Dashboard is every summary for one day.
type Dashboard struct {
	Date       models.Date       `json:"date"`
	Financial  FinancialSummary  `json:"financial"`
	Eggs       EggSummary        `json:"eggs"`
	Chickens   ChickenSummary    `json:"chickens"`
	Production ProductionSummary `json:"production"`
	Ponds      []PondSummary     `json:"ponds"`
}

// Dashboard computes all summaries for today. The aggregations are
// independent except production, which needs the tracked headcount, so they
// run concurrently.
func (e *Engine) Dashboard(ctx context.Context) (Dashboard, error) {
	today := e.Today()
	d := Dashboard{Date: today}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d.Financial, err = e.Financial(gctx, models.DateRange{})
		return err
	})
	g.Go(func() error {
		var err error
		d.Eggs, err = e.eggs(gctx, today)
		return err
	})
	g.Go(func() error {
		var err error
		d.Ponds, err = e.Ponds(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		if d.Chickens, err = e.Chickens(gctx); err != nil {
			return err
		}
		d.Production, err = e.production(gctx, d.Chickens, today)
		return err
	})

	if err := g.Wait(); err != nil {
		e.logger.Error("dashboard computation failed", zap.Error(err))
		return Dashboard{}, err
	}

	e.logger.Debug("dashboard computed",
		zap.Stringer("date", today),
		zap.Int64("eggs_stock", d.Eggs.EggsStock),
		zap.Int64("chickens", d.Chickens.Current),
		zap.Int("ponds", len(d.Ponds)))
	return d, nil
}
