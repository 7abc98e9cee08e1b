package metrics

import (
	"context"
	"errors"
	"fmt"

	"github.com/mamadbah2/farmbook/internal/domain/models"
)

// EggInputs are the raw figures the egg inventory derives from.
type EggInputs struct {
	Produced       int64
	RacksSold      float64
	RacksSoldToday float64
	EggsPerRack    int
}

// EggSummary is the egg inventory. Stock figures are in single eggs unless
// named after racks.
type EggSummary struct {
	EggsPerRack        int     `json:"eggs_per_rack"`
	EggsProduced       int64   `json:"eggs_produced"`
	RacksSold          float64 `json:"racks_sold"`
	EggsSold           int64   `json:"eggs_sold"`
	EggsStockRaw       int64   `json:"eggs_stock_raw"`
	EggsStock          int64   `json:"eggs_stock"`
	StockWarning       bool    `json:"stock_warning"`
	StockRacks         int64   `json:"stock_racks"`
	StockEggsRemainder int64   `json:"stock_eggs_rem"`
	RacksSoldToday     float64 `json:"racks_sold_today"`
	EggsSoldToday      int64   `json:"eggs_sold_today"`
}

// ComputeEggInventory converts sold racks to eggs and derives the stock. A
// negative raw stock means more eggs were sold than logged and raises the
// warning; the displayed stock follows the EggStock policy.
func ComputeEggInventory(in EggInputs, p Policies) EggSummary {
	perRack := float64(in.EggsPerRack)
	s := EggSummary{
		EggsPerRack:    in.EggsPerRack,
		EggsProduced:   in.Produced,
		RacksSold:      in.RacksSold,
		EggsSold:       roundToInt(in.RacksSold * perRack),
		RacksSoldToday: in.RacksSoldToday,
		EggsSoldToday:  roundToInt(in.RacksSoldToday * perRack),
	}
	s.EggsStockRaw = s.EggsProduced - s.EggsSold
	s.StockWarning = s.EggsStockRaw < 0
	s.EggsStock = p.EggStock.Int(s.EggsStockRaw)

	if in.EggsPerRack > 0 {
		rack := int64(in.EggsPerRack)
		s.StockRacks = s.EggsStock / rack
		s.StockEggsRemainder = s.EggsStock % rack
	} else {
		s.StockEggsRemainder = s.EggsStock
	}
	return s
}

// Eggs computes the egg inventory as of today.
func (e *Engine) Eggs(ctx context.Context) (EggSummary, error) {
	return e.eggs(ctx, e.Today())
}

func (e *Engine) eggs(ctx context.Context, today models.Date) (EggSummary, error) {
	perRack, err := EggsPerRack(ctx, e.settings)
	if err != nil {
		return EggSummary{}, err
	}

	produced, err := e.store.SumChickenLogs(ctx, models.ChickenLogFilter{})
	if err != nil {
		return EggSummary{}, fmt.Errorf("sum eggs produced: %w", err)
	}

	in := EggInputs{Produced: produced.Eggs, EggsPerRack: perRack}

	product, err := e.store.FindProductByName(ctx, e.eggProduct)
	switch {
	case errors.Is(err, models.ErrNotFound):
		e.logger.Debug("egg product missing, treating sales as zero")
	case err != nil:
		return EggSummary{}, fmt.Errorf("find egg product: %w", err)
	default:
		sold, err := e.store.SumTransactions(ctx, models.TransactionFilter{
			Direction: models.DirectionIn,
			ProductID: product.ID,
		})
		if err != nil {
			return EggSummary{}, fmt.Errorf("sum racks sold: %w", err)
		}
		soldToday, err := e.store.SumTransactions(ctx, models.TransactionFilter{
			Direction: models.DirectionIn,
			ProductID: product.ID,
			Range:     models.Day(today),
		})
		if err != nil {
			return EggSummary{}, fmt.Errorf("sum racks sold today: %w", err)
		}
		in.RacksSold = sold.Quantity
		in.RacksSoldToday = soldToday.Quantity
	}

	return ComputeEggInventory(in, e.policies), nil
}
