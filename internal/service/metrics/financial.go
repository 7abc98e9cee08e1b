package metrics

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/farmbook/internal/domain/models"
)

// FinancialSummary totals income and expenses over a date range.
type FinancialSummary struct {
	Range   models.DateRange `json:"range"`
	Income  float64          `json:"income"`
	Expense float64          `json:"expense"`
	Profit  float64          `json:"profit"`
}

// ComputeFinancial derives profit from the two direction totals.
func ComputeFinancial(income, expense float64) FinancialSummary {
	profit := decimal.NewFromFloat(income).Sub(decimal.NewFromFloat(expense))
	return FinancialSummary{
		Income:  income,
		Expense: expense,
		Profit:  profit.InexactFloat64(),
	}
}

// Financial sums transaction totals per direction. A zero range covers all time.
func (e *Engine) Financial(ctx context.Context, r models.DateRange) (FinancialSummary, error) {
	in, err := e.store.SumTransactions(ctx, models.TransactionFilter{Direction: models.DirectionIn, Range: r})
	if err != nil {
		return FinancialSummary{}, fmt.Errorf("sum income: %w", err)
	}
	out, err := e.store.SumTransactions(ctx, models.TransactionFilter{Direction: models.DirectionOut, Range: r})
	if err != nil {
		return FinancialSummary{}, fmt.Errorf("sum expense: %w", err)
	}

	summary := ComputeFinancial(in.Total, out.Total)
	summary.Range = r
	return summary, nil
}
