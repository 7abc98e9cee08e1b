package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmbook/internal/domain/models"
	"github.com/mamadbah2/farmbook/internal/service/metrics"
)

// DashboardSource computes the farm dashboard.
type DashboardSource interface {
	Dashboard(ctx context.Context) (metrics.Dashboard, error)
}

// FinancialSource computes income and expense over a day range.
type FinancialSource interface {
	Financial(ctx context.Context, r models.DateRange) (metrics.FinancialSummary, error)
}

// Service turns dashboards into archived snapshots and readable reports.
type Service struct {
	dashboards DashboardSource
	financial  FinancialSource
	logger     *zap.Logger
	now        func() time.Time
}

// NewService wires a new reporting service instance.
func NewService(dashboards DashboardSource, financial FinancialSource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		dashboards: dashboards,
		financial:  financial,
		logger:     logger,
		now:        time.Now,
	}
}

// BuildSnapshot flattens today's dashboard.
func (s *Service) BuildSnapshot(ctx context.Context) (models.DashboardSnapshot, error) {
	d, err := s.dashboards.Dashboard(ctx)
	if err != nil {
		return models.DashboardSnapshot{}, fmt.Errorf("compute dashboard: %w", err)
	}
	return Snapshot(d, s.now().UTC()), nil
}

// Snapshot converts a dashboard to its archived form.
func Snapshot(d metrics.Dashboard, createdAt time.Time) models.DashboardSnapshot {
	snap := models.DashboardSnapshot{
		Date:            d.Date.String(),
		Income:          d.Financial.Income,
		Expense:         d.Financial.Expense,
		Profit:          d.Financial.Profit,
		EggsProduced:    d.Eggs.EggsProduced,
		EggsSold:        d.Eggs.EggsSold,
		EggsStock:       d.Eggs.EggsStock,
		EggStockWarning: d.Eggs.StockWarning,
		Chickens:        d.Chickens.Current,
		ChickenWarning:  d.Chickens.Warning,
		EggsToday:       d.Production.EggsToday,
		DeadToday:       d.Production.DeadToday,
		AvgEggs7d:       d.Production.AvgEggs7d,
		HenDayPct:       d.Production.HenDayPct,
		Mortality7dPct:  d.Production.Mortality7dPct,
		Ponds:           make([]models.PondSnapshot, 0, len(d.Ponds)),
		CreatedAt:       createdAt,
	}
	for _, p := range d.Ponds {
		snap.Ponds = append(snap.Ponds, models.PondSnapshot{
			PondID:   p.PondID,
			Name:     p.Name,
			Current:  p.Current,
			Capacity: p.CapacityFish,
			UsagePct: p.UsagePct,
		})
	}
	return snap
}

// WeeklyReport renders the dashboard plus the last seven days' cash flow as
// a plain-text message.
func (s *Service) WeeklyReport(ctx context.Context) (string, error) {
	d, err := s.dashboards.Dashboard(ctx)
	if err != nil {
		return "", fmt.Errorf("compute dashboard: %w", err)
	}

	week := models.DateRange{From: d.Date.AddDays(-(metrics.WindowDays - 1)), To: d.Date}
	weekly, err := s.financial.Financial(ctx, week)
	if err != nil {
		return "", fmt.Errorf("compute weekly financials: %w", err)
	}

	s.logger.Debug("weekly report built", zap.Stringer("from", week.From), zap.Stringer("to", week.To))
	return FormatReport(d, weekly), nil
}

// FormatReport renders the report text.
func FormatReport(d metrics.Dashboard, weekly metrics.FinancialSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*Farm report %s*\n", d.Date)

	b.WriteString("\n*Cash flow*\n")
	fmt.Fprintf(&b, "Last 7 days (%s to %s): in %s, out %s, net %s\n",
		weekly.Range.From, weekly.Range.To, money(weekly.Income), money(weekly.Expense), money(weekly.Profit))
	fmt.Fprintf(&b, "All time: in %s, out %s, net %s\n",
		money(d.Financial.Income), money(d.Financial.Expense), money(d.Financial.Profit))

	b.WriteString("\n*Eggs*\n")
	fmt.Fprintf(&b, "Stock: %d eggs (%d racks + %d)\n", d.Eggs.EggsStock, d.Eggs.StockRacks, d.Eggs.StockEggsRemainder)
	fmt.Fprintf(&b, "Produced %d, sold %d\n", d.Eggs.EggsProduced, d.Eggs.EggsSold)
	if d.Eggs.StockWarning {
		fmt.Fprintf(&b, "Warning: sales exceed production by %d eggs\n", -d.Eggs.EggsStockRaw)
	}

	b.WriteString("\n*Layers*\n")
	if d.Chickens.FlockName != "" {
		fmt.Fprintf(&b, "%s: %d hens\n", d.Chickens.FlockName, d.Chickens.Current)
	} else {
		fmt.Fprintf(&b, "Hens: %d\n", d.Chickens.Current)
	}
	if d.Chickens.Warning {
		fmt.Fprintf(&b, "Warning: deaths exceed the initial count by %d\n", -d.Chickens.CurrentRaw)
	}
	fmt.Fprintf(&b, "Today: %d eggs, %d dead, hen-day %.1f%%\n",
		d.Production.EggsToday, d.Production.DeadToday, d.Production.HenDayPct)
	fmt.Fprintf(&b, "7-day average %.1f eggs/day, mortality %.2f%%\n",
		d.Production.AvgEggs7d, d.Production.Mortality7dPct)

	if len(d.Ponds) > 0 {
		b.WriteString("\n*Ponds*\n")
		for _, p := range d.Ponds {
			fmt.Fprintf(&b, "%s: %d / %d fish (%.1f%%)\n", p.Name, p.Current, p.CapacityFish, p.UsagePct)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func money(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	whole := fmt.Sprintf("%.0f", v)
	var out []byte
	for i, c := range []byte(whole) {
		if i > 0 && (len(whole)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, c)
	}
	return "Rp " + sign + string(out)
}
