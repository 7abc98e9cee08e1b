package metrics

import (
	"context"

	"github.com/mamadbah2/farmbook/internal/domain/models"
)

// Store is the read side the engine aggregates over. Every sum must return
// zero, not an error, when nothing matches.
type Store interface {
	SumTransactions(ctx context.Context, filter models.TransactionFilter) (models.TransactionTotals, error)
	SumFishEvents(ctx context.Context, pondID uint, eventType models.FishEventType) (int64, error)
	SumChickenLogs(ctx context.Context, filter models.ChickenLogFilter) (models.ChickenLogTotals, error)
	FindProductByName(ctx context.Context, name string) (models.Product, error)
	ListPonds(ctx context.Context) ([]models.Pond, error)
	ListFlocks(ctx context.Context) ([]models.Flock, error)
}
