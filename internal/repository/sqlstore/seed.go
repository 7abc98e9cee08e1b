package sqlstore

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mamadbah2/farmbook/internal/domain/models"
)

// SeedPondCount is how many ponds a fresh farm starts with.
const SeedPondCount = 6

var seedProducts = []models.Product{
	{Name: "Telur", DefaultUnit: "rak"},
	{Name: "Ikan Nila", DefaultUnit: "kg"},
	{Name: "Umum", DefaultUnit: "unit"},
}

// Seed inserts the default products, settings, ponds and flock. The flock
// starts on today, which callers give as the farm-local day. Existing rows
// are left untouched, so running it again is harmless.
func (s *Store) Seed(ctx context.Context, today models.Date) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range seedProducts {
			product := p
			if err := tx.Where(models.Product{Name: product.Name}).FirstOrCreate(&product).Error; err != nil {
				return fmt.Errorf("seed product %s: %w", product.Name, err)
			}
		}

		setting := models.Setting{Key: models.SettingEggsPerRack, Value: strconv.Itoa(models.DefaultEggsPerRack)}
		if err := tx.Where(models.Setting{Key: setting.Key}).FirstOrCreate(&setting).Error; err != nil {
			return fmt.Errorf("seed setting %s: %w", setting.Key, err)
		}

		var ponds int64
		if err := tx.Model(&models.Pond{}).Count(&ponds).Error; err != nil {
			return fmt.Errorf("count ponds: %w", err)
		}
		if ponds == 0 {
			seeded := make([]models.Pond, 0, SeedPondCount)
			for i := 1; i <= SeedPondCount; i++ {
				seeded = append(seeded, models.Pond{
					Name:                   fmt.Sprintf("Kolam %d", i),
					Shape:                  "circular",
					DiameterM:              3.0,
					WaterDepthM:            1.0,
					StockingRateFishPerM3:  150,
					BiomassCapacityKgPerM3: 10,
				})
			}
			if err := tx.Create(&seeded).Error; err != nil {
				return fmt.Errorf("seed ponds: %w", err)
			}
			s.logger.Info("seeded ponds", zap.Int("count", len(seeded)))
		}

		var flocks int64
		if err := tx.Model(&models.Flock{}).Count(&flocks).Error; err != nil {
			return fmt.Errorf("count flocks: %w", err)
		}
		if flocks == 0 {
			if err := tx.Create(&models.Flock{Name: "Flok 1", StartDate: today.Time()}).Error; err != nil {
				return fmt.Errorf("seed flock: %w", err)
			}
			s.logger.Info("seeded flock", zap.Stringer("start_date", today))
		}
		return nil
	})
}
