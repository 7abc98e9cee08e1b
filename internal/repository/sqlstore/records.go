package sqlstore

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/mamadbah2/farmbook/internal/domain/models"
)

// TransactionQuery filters the transaction listing.
type TransactionQuery struct {
	Direction models.Direction
	ProductID uint
	Limit     int
}

// CreateTransaction inserts one transaction.
func (s *Store) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	if err := s.db.WithContext(ctx).Create(tx).Error; err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// ListTransactions returns transactions newest first with their product.
func (s *Store) ListTransactions(ctx context.Context, query TransactionQuery) ([]models.Transaction, error) {
	q := s.db.WithContext(ctx).Preload("Product").Order("date DESC").Order("id DESC")
	if query.Direction != "" {
		q = q.Where("direction = ?", query.Direction)
	}
	if query.ProductID != 0 {
		q = q.Where("product_id = ?", query.ProductID)
	}
	if query.Limit > 0 {
		q = q.Limit(query.Limit)
	}

	var rows []models.Transaction
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return rows, nil
}

// ListProducts returns products ordered by name.
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// GetProduct loads a product by id.
func (s *Store) GetProduct(ctx context.Context, id uint) (models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return models.Product{}, notFound(err)
	}
	return p, nil
}

// GetPond loads a pond by id.
func (s *Store) GetPond(ctx context.Context, id uint) (models.Pond, error) {
	var p models.Pond
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return models.Pond{}, notFound(err)
	}
	return p, nil
}

// SavePond updates a pond's geometry and density parameters in place.
func (s *Store) SavePond(ctx context.Context, pond *models.Pond) error {
	res := s.db.WithContext(ctx).Model(pond).Select(
		"diameter_m", "water_depth_m", "stocking_rate_fish_per_m3", "biomass_capacity_kg_per_m3",
	).Updates(pond)
	if res.Error != nil {
		return fmt.Errorf("update pond %d: %w", pond.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// CreateFishEvent inserts one pond event.
func (s *Store) CreateFishEvent(ctx context.Context, event *models.FishEvent) error {
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("insert fish event: %w", err)
	}
	return nil
}

// ListFishEvents returns a pond's events newest first.
func (s *Store) ListFishEvents(ctx context.Context, pondID uint) ([]models.FishEvent, error) {
	var events []models.FishEvent
	err := s.db.WithContext(ctx).
		Where("pond_id = ?", pondID).
		Order("tgl DESC").Order("id DESC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("list fish events: %w", err)
	}
	return events, nil
}

// GetFlock loads a flock by id.
func (s *Store) GetFlock(ctx context.Context, id uint) (models.Flock, error) {
	var f models.Flock
	if err := s.db.WithContext(ctx).First(&f, id).Error; err != nil {
		return models.Flock{}, notFound(err)
	}
	return f, nil
}

// UpdateFlockInitialCount sets a flock's initial head count.
func (s *Store) UpdateFlockInitialCount(ctx context.Context, id uint, count int) error {
	res := s.db.WithContext(ctx).Model(&models.Flock{}).Where("id = ?", id).Update("initial_count", count)
	if res.Error != nil {
		return fmt.Errorf("update flock %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// CreateChickenLog inserts one daily log.
func (s *Store) CreateChickenLog(ctx context.Context, log *models.ChickenDailyLog) error {
	if err := s.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("insert chicken log: %w", err)
	}
	return nil
}

// ListChickenLogs returns a flock's logs newest first.
func (s *Store) ListChickenLogs(ctx context.Context, flockID uint) ([]models.ChickenDailyLog, error) {
	var logs []models.ChickenDailyLog
	err := s.db.WithContext(ctx).
		Where("flock_id = ?", flockID).
		Order("date DESC").Order("id DESC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("list chicken logs: %w", err)
	}
	return logs, nil
}

// SetSetting inserts or replaces a setting value.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&models.Setting{Key: key, Value: value}).Error
	if err != nil {
		return fmt.Errorf("save setting %s: %w", key, err)
	}
	return nil
}
