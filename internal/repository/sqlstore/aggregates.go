package sqlstore

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mamadbah2/farmbook/internal/domain/models"
)

func withRange(q *gorm.DB, column string, r models.DateRange) *gorm.DB {
	if !r.From.IsZero() {
		q = q.Where(column+" >= ?", r.From.Time())
	}
	if !r.To.IsZero() {
		q = q.Where(column+" <= ?", r.To.Time())
	}
	return q
}

// SumTransactions sums total and quantity of matching transactions.
func (s *Store) SumTransactions(ctx context.Context, filter models.TransactionFilter) (models.TransactionTotals, error) {
	q := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("COALESCE(SUM(total), 0) AS total, COALESCE(SUM(quantity), 0) AS quantity")
	if filter.Direction != "" {
		q = q.Where("direction = ?", filter.Direction)
	}
	if filter.ProductID != 0 {
		q = q.Where("product_id = ?", filter.ProductID)
	}
	q = withRange(q, "date", filter.Range)

	var out models.TransactionTotals
	if err := q.Scan(&out).Error; err != nil {
		return models.TransactionTotals{}, fmt.Errorf("sum transactions: %w", err)
	}
	return out, nil
}

// SumFishEvents sums the head count of one event type in a pond.
func (s *Store) SumFishEvents(ctx context.Context, pondID uint, eventType models.FishEventType) (int64, error) {
	var sum int64
	err := s.db.WithContext(ctx).Model(&models.FishEvent{}).
		Select("COALESCE(SUM(count), 0)").
		Where("pond_id = ? AND event_type = ?", pondID, eventType).
		Scan(&sum).Error
	if err != nil {
		return 0, fmt.Errorf("sum fish events: %w", err)
	}
	return sum, nil
}

// SumChickenLogs sums eggs and deaths of matching daily logs.
func (s *Store) SumChickenLogs(ctx context.Context, filter models.ChickenLogFilter) (models.ChickenLogTotals, error) {
	q := s.db.WithContext(ctx).Model(&models.ChickenDailyLog{}).
		Select("COALESCE(SUM(eggs_count), 0) AS eggs, COALESCE(SUM(dead_count), 0) AS dead")
	if filter.FlockID != 0 {
		q = q.Where("flock_id = ?", filter.FlockID)
	}
	q = withRange(q, "date", filter.Range)

	var out models.ChickenLogTotals
	if err := q.Scan(&out).Error; err != nil {
		return models.ChickenLogTotals{}, fmt.Errorf("sum chicken logs: %w", err)
	}
	return out, nil
}

// FindProductByName looks a product up by its unique name.
func (s *Store) FindProductByName(ctx context.Context, name string) (models.Product, error) {
	if name == "" {
		return models.Product{}, models.ErrNotFound
	}
	var p models.Product
	if err := s.db.WithContext(ctx).Where(&models.Product{Name: name}).First(&p).Error; err != nil {
		return models.Product{}, notFound(err)
	}
	return p, nil
}

// ListPonds returns every pond in creation order.
func (s *Store) ListPonds(ctx context.Context) ([]models.Pond, error) {
	var ponds []models.Pond
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&ponds).Error; err != nil {
		return nil, fmt.Errorf("list ponds: %w", err)
	}
	return ponds, nil
}

// ListFlocks returns every flock in creation order.
func (s *Store) ListFlocks(ctx context.Context) ([]models.Flock, error) {
	var flocks []models.Flock
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&flocks).Error; err != nil {
		return nil, fmt.Errorf("list flocks: %w", err)
	}
	return flocks, nil
}

// GetSetting returns the stored value or models.ErrNotFound.
func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", models.ErrNotFound
	}
	var setting models.Setting
	if err := s.db.WithContext(ctx).Where(&models.Setting{Key: key}).First(&setting).Error; err != nil {
		return "", notFound(err)
	}
	return setting.Value, nil
}
