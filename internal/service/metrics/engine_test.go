package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmbook/internal/domain/models"
)

type fakeStore struct {
	products     []models.Product
	transactions []models.Transaction
	ponds        []models.Pond
	fishEvents   []models.FishEvent
	flocks       []models.Flock
	logs         []models.ChickenDailyLog
	err          error
}

func inRange(d models.Date, r models.DateRange) bool {
	if !r.From.IsZero() && d.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && r.To.Before(d) {
		return false
	}
	return true
}

func (f *fakeStore) SumTransactions(_ context.Context, filter models.TransactionFilter) (models.TransactionTotals, error) {
	var out models.TransactionTotals
	if f.err != nil {
		return out, f.err
	}
	for _, tx := range f.transactions {
		if filter.Direction != "" && tx.Direction != filter.Direction {
			continue
		}
		if filter.ProductID != 0 && tx.ProductID != filter.ProductID {
			continue
		}
		if !inRange(models.DateOf(tx.Date), filter.Range) {
			continue
		}
		out.Total += tx.Total
		out.Quantity += tx.Quantity
	}
	return out, nil
}

func (f *fakeStore) SumFishEvents(_ context.Context, pondID uint, eventType models.FishEventType) (int64, error) {
	var sum int64
	for _, e := range f.fishEvents {
		if e.PondID == pondID && e.EventType == eventType {
			sum += int64(e.Count)
		}
	}
	return sum, f.err
}

func (f *fakeStore) SumChickenLogs(_ context.Context, filter models.ChickenLogFilter) (models.ChickenLogTotals, error) {
	var out models.ChickenLogTotals
	for _, l := range f.logs {
		if filter.FlockID != 0 && l.FlockID != filter.FlockID {
			continue
		}
		if !inRange(models.DateOf(l.Date), filter.Range) {
			continue
		}
		out.Eggs += int64(l.EggsCount)
		out.Dead += int64(l.DeadCount)
	}
	return out, f.err
}

func (f *fakeStore) FindProductByName(_ context.Context, name string) (models.Product, error) {
	for _, p := range f.products {
		if p.Name == name {
			return p, nil
		}
	}
	return models.Product{}, models.ErrNotFound
}

func (f *fakeStore) ListPonds(context.Context) ([]models.Pond, error) {
	return f.ponds, f.err
}

func (f *fakeStore) ListFlocks(context.Context) ([]models.Flock, error) {
	return f.flocks, f.err
}

var testToday = models.Date{Year: 2024, Month: time.May, Day: 10}

func day(offset int) time.Time {
	return testToday.AddDays(offset).Time()
}

func newTestEngine(store Store, settings StaticSettings) *Engine {
	return NewEngine(store, settings, Options{
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2024, time.May, 10, 15, 30, 0, 0, time.UTC) },
	}, zap.NewNop())
}

func seededStore() *fakeStore {
	return &fakeStore{
		products: []models.Product{{ID: 1, Name: "Telur", DefaultUnit: "rak"}, {ID: 2, Name: "Ikan Nila", DefaultUnit: "kg"}},
		transactions: []models.Transaction{
			{Date: day(-3), Direction: models.DirectionIn, ProductID: 1, Quantity: 10, UnitPrice: 50000, Total: 500000},
			{Date: day(0), Direction: models.DirectionIn, ProductID: 1, Quantity: 2, UnitPrice: 50000, Total: 100000},
			{Date: day(-1), Direction: models.DirectionIn, ProductID: 2, Quantity: 5, UnitPrice: 30000, Total: 150000},
			{Date: day(-2), Direction: models.DirectionOut, ProductID: 2, Quantity: 1, UnitPrice: 200000, Total: 200000},
		},
		ponds: []models.Pond{
			{ID: 1, Name: "Kolam 1", DiameterM: 3, WaterDepthM: 1, StockingRateFishPerM3: 150, BiomassCapacityKgPerM3: 10},
			{ID: 2, Name: "Kolam 2", DiameterM: 3, WaterDepthM: 1, StockingRateFishPerM3: 0, BiomassCapacityKgPerM3: 10},
		},
		fishEvents: []models.FishEvent{
			{PondID: 1, EventType: models.FishStock, Count: 1000},
			{PondID: 1, EventType: models.FishHarvest, Count: 200},
			{PondID: 1, EventType: models.FishMortality, Count: 50},
			{PondID: 2, EventType: models.FishStock, Count: 30},
		},
		flocks: []models.Flock{
			{ID: 2, Name: "Flok 2", InitialCount: 100},
			{ID: 1, Name: "Flok 1", InitialCount: 500},
		},
		logs: []models.ChickenDailyLog{
			{FlockID: 1, Date: day(0), EggsCount: 450, DeadCount: 2},
			{FlockID: 1, Date: day(-3), EggsCount: 420, DeadCount: 3},
			{FlockID: 1, Date: day(-6), EggsCount: 400, DeadCount: 1},
			{FlockID: 1, Date: day(-7), EggsCount: 390, DeadCount: 4},
			{FlockID: 2, Date: day(0), EggsCount: 80, DeadCount: 5},
		},
	}
}

func TestEngineDashboard(t *testing.T) {
	engine := newTestEngine(seededStore(), StaticSettings{models.SettingEggsPerRack: "30"})

	d, err := engine.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, testToday, d.Date)

	assert.Equal(t, 750000.0, d.Financial.Income)
	assert.Equal(t, 200000.0, d.Financial.Expense)
	assert.Equal(t, 550000.0, d.Financial.Profit)

	assert.Equal(t, int64(1740), d.Eggs.EggsProduced)
	assert.Equal(t, 12.0, d.Eggs.RacksSold)
	assert.Equal(t, int64(360), d.Eggs.EggsSold)
	assert.Equal(t, int64(1380), d.Eggs.EggsStock)
	assert.Equal(t, int64(46), d.Eggs.StockRacks)
	assert.Equal(t, int64(0), d.Eggs.StockEggsRemainder)
	assert.Equal(t, 2.0, d.Eggs.RacksSoldToday)
	assert.Equal(t, int64(60), d.Eggs.EggsSoldToday)

	assert.Equal(t, uint(1), d.Chickens.FlockID, "lowest id flock is tracked")
	assert.Equal(t, int64(490), d.Chickens.Current)
	assert.False(t, d.Chickens.Warning)

	assert.Equal(t, int64(450), d.Production.EggsToday)
	assert.Equal(t, int64(2), d.Production.DeadToday)
	assert.Equal(t, int64(1270), d.Production.Eggs7d, "day -7 falls outside the window")
	assert.Equal(t, int64(6), d.Production.Dead7d)
	assert.Equal(t, 181.4, d.Production.AvgEggs7d)
	assert.Equal(t, 91.8, d.Production.HenDayPct)
	assert.Equal(t, 1.22, d.Production.Mortality7dPct)
	assert.Equal(t, testToday.AddDays(-6), d.Production.WindowStart)

	require.Len(t, d.Ponds, 2)
	assert.Equal(t, int64(750), d.Ponds[0].Current)
	assert.Equal(t, 70.8, d.Ponds[0].UsagePct)
	assert.Equal(t, 0.0, d.Ponds[1].UsagePct)
}

func TestEngineDashboardIsIdempotent(t *testing.T) {
	engine := newTestEngine(seededStore(), StaticSettings{})

	first, err := engine.Dashboard(context.Background())
	require.NoError(t, err)
	second, err := engine.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEngineEmptyStoreYieldsZeros(t *testing.T) {
	engine := newTestEngine(&fakeStore{}, StaticSettings{})

	d, err := engine.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0.0, d.Financial.Profit)
	assert.Equal(t, models.DefaultEggsPerRack, d.Eggs.EggsPerRack)
	assert.Equal(t, int64(0), d.Eggs.EggsStock)
	assert.False(t, d.Chickens.Tracked)
	assert.Equal(t, int64(0), d.Chickens.Current)
	assert.Equal(t, 0.0, d.Production.HenDayPct)
	assert.Empty(t, d.Ponds)
}

func TestEngineEggsPerRackOutOfRangePassesThrough(t *testing.T) {
	engine := newTestEngine(seededStore(), StaticSettings{models.SettingEggsPerRack: "0"})

	eggs, err := engine.Eggs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, eggs.EggsPerRack)
	assert.Equal(t, int64(0), eggs.EggsSold)
	assert.Equal(t, int64(0), eggs.StockRacks)
	assert.Equal(t, eggs.EggsStock, eggs.StockEggsRemainder)
}

func TestEngineEggsPerRackUnparseableUsesDefault(t *testing.T) {
	engine := newTestEngine(seededStore(), StaticSettings{models.SettingEggsPerRack: "lots"})

	eggs, err := engine.Eggs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 30, eggs.EggsPerRack)
}

func TestEngineMissingEggProduct(t *testing.T) {
	store := seededStore()
	store.products = nil
	engine := newTestEngine(store, StaticSettings{})

	eggs, err := engine.Eggs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0.0, eggs.RacksSold)
	assert.Equal(t, eggs.EggsProduced, eggs.EggsStock)
}

func TestEngineFlockSelector(t *testing.T) {
	engine := NewEngine(seededStore(), StaticSettings{}, Options{
		Location: time.UTC,
		Selector: FlockByID(2),
		Now:      func() time.Time { return testToday.Time() },
	}, nil)

	chickens, err := engine.Chickens(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint(2), chickens.FlockID)
	assert.Equal(t, int64(95), chickens.Current)

	production, err := engine.Production(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(80), production.EggsToday)
	assert.Equal(t, 84.2, production.HenDayPct)
}

func TestEngineFlocksListsEveryFlock(t *testing.T) {
	engine := newTestEngine(seededStore(), StaticSettings{})

	flocks, err := engine.Flocks(context.Background())
	require.NoError(t, err)
	require.Len(t, flocks, 2)

	assert.Equal(t, uint(2), flocks[0].FlockID)
	assert.False(t, flocks[0].Tracked)
	assert.Equal(t, uint(1), flocks[1].FlockID)
	assert.True(t, flocks[1].Tracked)
}

func TestEngineFinancialRange(t *testing.T) {
	engine := newTestEngine(seededStore(), StaticSettings{})

	summary, err := engine.Financial(context.Background(), models.DateRange{From: testToday.AddDays(-2), To: testToday})
	require.NoError(t, err)

	assert.Equal(t, 250000.0, summary.Income)
	assert.Equal(t, 200000.0, summary.Expense)
	assert.Equal(t, 50000.0, summary.Profit)
}

func TestEngineTodayUsesLocation(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	engine := NewEngine(&fakeStore{}, StaticSettings{}, Options{
		Location: jakarta,
		Now:      func() time.Time { return time.Date(2024, time.May, 10, 20, 0, 0, 0, time.UTC) },
	}, nil)

	assert.Equal(t, models.Date{Year: 2024, Month: time.May, Day: 11}, engine.Today())
}

func TestEnginePolicies(t *testing.T) {
	engine := NewEngine(&fakeStore{}, StaticSettings{}, Options{}, nil)
	assert.Equal(t, DefaultPolicies(), engine.Policies())

	raw := Policies{}
	engine = NewEngine(&fakeStore{}, StaticSettings{}, Options{Policies: &raw}, nil)
	assert.Equal(t, ClampNone, engine.Policies().EggStock)
	assert.Equal(t, "none", engine.Policies().HenDayDisplay.String())
}

func TestEngineDashboardPropagatesStoreErrors(t *testing.T) {
	store := seededStore()
	store.err = errors.New("connection reset")
	engine := newTestEngine(store, StaticSettings{})

	_, err := engine.Dashboard(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, store.err)
}

type fakeGetter map[string]string

func (g fakeGetter) GetSetting(_ context.Context, key string) (string, error) {
	if v, ok := g[key]; ok {
		return v, nil
	}
	return "", models.ErrNotFound
}

func TestStoreSettingsFallsBackWithoutPersisting(t *testing.T) {
	getter := fakeGetter{}
	resolver := NewStoreSettings(getter)

	v, err := resolver.Resolve(context.Background(), models.SettingEggsPerRack, "30")
	require.NoError(t, err)
	assert.Equal(t, "30", v)
	assert.Empty(t, getter)

	getter[models.SettingEggsPerRack] = "250"
	perRack, err := EggsPerRack(context.Background(), resolver)
	require.NoError(t, err)
	assert.Equal(t, 250, perRack)
}
