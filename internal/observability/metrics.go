package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mamadbah2/farmbook/internal/service/metrics"
)

// DashboardSource computes the farm dashboard.
type DashboardSource interface {
	Dashboard(ctx context.Context) (metrics.Dashboard, error)
}

// Metrics exports the latest dashboard figures as Prometheus gauges on a
// private registry.
type Metrics struct {
	registry *prometheus.Registry

	eggStock          prometheus.Gauge
	eggStockWarning   prometheus.Gauge
	chickens          prometheus.Gauge
	henDay            prometheus.Gauge
	mortality         prometheus.Gauge
	pondUsage         *prometheus.GaugeVec
	pondFish          *prometheus.GaugeVec
	dashboardDuration prometheus.Histogram
	dashboardErrors   prometheus.Counter
}

// NewMetrics registers the farm collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		eggStock: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "farmbook_egg_stock_eggs",
			Help: "Eggs on hand after sales, floored at zero.",
		}),
		eggStockWarning: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "farmbook_egg_stock_warning",
			Help: "1 when more eggs were sold than logged.",
		}),
		chickens: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "farmbook_chickens_current",
			Help: "Live hens in the tracked flock.",
		}),
		henDay: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "farmbook_hen_day_percent",
			Help: "Eggs today per live hen, in percent.",
		}),
		mortality: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "farmbook_mortality_7d_percent",
			Help: "Deaths over the last seven days per live hen, in percent.",
		}),
		pondUsage: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "farmbook_pond_usage_percent",
			Help: "Pond occupancy against stocking capacity.",
		}, []string{"pond_id", "pond"}),
		pondFish: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "farmbook_pond_fish_current",
			Help: "Fish currently in the pond.",
		}, []string{"pond_id", "pond"}),
		dashboardDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "farmbook_dashboard_duration_seconds",
			Help:    "Time spent computing the dashboard.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		dashboardErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "farmbook_dashboard_errors_total",
			Help: "Dashboard computations that failed.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.eggStock,
		m.eggStockWarning,
		m.chickens,
		m.henDay,
		m.mortality,
		m.pondUsage,
		m.pondFish,
		m.dashboardDuration,
		m.dashboardErrors,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Observe records one dashboard computation.
func (m *Metrics) Observe(d metrics.Dashboard, took time.Duration) {
	m.dashboardDuration.Observe(took.Seconds())

	m.eggStock.Set(float64(d.Eggs.EggsStock))
	m.eggStockWarning.Set(boolGauge(d.Eggs.StockWarning))
	m.chickens.Set(float64(d.Chickens.Current))
	m.henDay.Set(d.Production.HenDayPct)
	m.mortality.Set(d.Production.Mortality7dPct)

	m.pondUsage.Reset()
	m.pondFish.Reset()
	for _, p := range d.Ponds {
		id := strconv.FormatUint(uint64(p.PondID), 10)
		m.pondUsage.WithLabelValues(id, p.Name).Set(p.UsagePct)
		m.pondFish.WithLabelValues(id, p.Name).Set(float64(p.Current))
	}
}

// Instrument wraps a dashboard source so every computation is recorded.
func (m *Metrics) Instrument(source DashboardSource) DashboardSource {
	return &instrumented{source: source, metrics: m}
}

type instrumented struct {
	source  DashboardSource
	metrics *Metrics
}

func (i *instrumented) Dashboard(ctx context.Context) (metrics.Dashboard, error) {
	start := time.Now()
	d, err := i.source.Dashboard(ctx)
	if err != nil {
		i.metrics.dashboardErrors.Inc()
		return d, err
	}
	i.metrics.Observe(d, time.Since(start))
	return d, nil
}

func boolGauge(v bool) float64 {
	if v {
		return 1
	}
	return 0
}
