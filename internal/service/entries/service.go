package entries

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmbook/internal/domain/models"
	"github.com/mamadbah2/farmbook/internal/repository/sqlstore"
)

// Errors returned for rejected input. Lookups of missing rows surface as
// models.ErrNotFound.
var (
	ErrProductRequired    = errors.New("product is required")
	ErrInvalidDirection   = errors.New("direction must be IN or OUT")
	ErrInvalidEventType   = errors.New("event type must be STOCK, HARVEST or MORTALITY")
	ErrInvalidEggsPerRack = fmt.Errorf("eggs per rack must be between %d and %d", models.MinEggsPerRack, models.MaxEggsPerRack)
)

// TransactionLimit caps the transaction listing.
const TransactionLimit = 300

const defaultUnit = "unit"

// Store is the persistence the write boundary needs.
type Store interface {
	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	ListTransactions(ctx context.Context, query sqlstore.TransactionQuery) ([]models.Transaction, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id uint) (models.Product, error)
	ListPonds(ctx context.Context) ([]models.Pond, error)
	GetPond(ctx context.Context, id uint) (models.Pond, error)
	SavePond(ctx context.Context, pond *models.Pond) error
	CreateFishEvent(ctx context.Context, event *models.FishEvent) error
	ListFishEvents(ctx context.Context, pondID uint) ([]models.FishEvent, error)
	ListFlocks(ctx context.Context) ([]models.Flock, error)
	GetFlock(ctx context.Context, id uint) (models.Flock, error)
	UpdateFlockInitialCount(ctx context.Context, id uint, count int) error
	CreateChickenLog(ctx context.Context, log *models.ChickenDailyLog) error
	ListChickenLogs(ctx context.Context, flockID uint) ([]models.ChickenDailyLog, error)
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// Service validates and coerces raw form input before it reaches the store.
type Service struct {
	store  Store
	logger *zap.Logger
	loc    *time.Location
	now    func() time.Time
}

// NewService constructs the write boundary. Dates default to today in loc.
func NewService(store Store, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		store:  store,
		logger: logger,
		loc:    loc,
		now:    time.Now,
	}
}

// TransactionInput is a raw transaction form.
type TransactionInput struct {
	Date        models.FormValue `form:"date" json:"date"`
	Direction   models.FormValue `form:"direction" json:"direction"`
	ProductID   models.FormValue `form:"product_id" json:"product_id"`
	Description models.FormValue `form:"description" json:"description"`
	Quantity    models.FormValue `form:"qty" json:"qty"`
	Unit        models.FormValue `form:"unit" json:"unit"`
	UnitPrice   models.FormValue `form:"unit_price" json:"unit_price"`
}

// RecordTransaction books a sale or expense. The total is fixed here as
// quantity times unit price.
func (s *Service) RecordTransaction(ctx context.Context, in TransactionInput) (models.Transaction, error) {
	direction := models.DirectionIn
	if strings.TrimSpace(in.Direction.String()) != "" {
		d, ok := models.ParseDirection(in.Direction.String())
		if !ok {
			return models.Transaction{}, ErrInvalidDirection
		}
		direction = d
	}

	productID := models.ParseIntOr(in.ProductID.String(), 0)
	if productID <= 0 {
		return models.Transaction{}, ErrProductRequired
	}
	product, err := s.store.GetProduct(ctx, uint(productID))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("product %d: %w", productID, err)
	}

	unit := strings.TrimSpace(in.Unit.String())
	if unit == "" {
		unit = defaultUnit
	}

	qty := models.ParseFloatOr(in.Quantity.String(), 0)
	price := models.ParseFloatOr(in.UnitPrice.String(), 0)

	tx := models.Transaction{
		Date:        s.dateOrToday(in.Date.String()).Time(),
		Direction:   direction,
		ProductID:   product.ID,
		Description: in.Description.String(),
		Quantity:    qty,
		Unit:        unit,
		UnitPrice:   price,
		Total:       decimal.NewFromFloat(qty).Mul(decimal.NewFromFloat(price)).InexactFloat64(),
	}
	if err := s.store.CreateTransaction(ctx, &tx); err != nil {
		return models.Transaction{}, err
	}
	tx.Product = &product

	s.logger.Info("transaction recorded",
		zap.Uint("id", tx.ID),
		zap.String("direction", string(tx.Direction)),
		zap.String("product", product.Name),
		zap.Float64("total", tx.Total))
	return tx, nil
}

// ListTransactions returns the newest transactions, optionally filtered. An
// unrecognized direction or non-numeric product id is ignored.
func (s *Service) ListTransactions(ctx context.Context, direction, productID string) ([]models.Transaction, error) {
	query := sqlstore.TransactionQuery{Limit: TransactionLimit}
	if d, ok := models.ParseDirection(direction); ok {
		query.Direction = d
	}
	if id, err := strconv.ParseUint(strings.TrimSpace(productID), 10, 32); err == nil {
		query.ProductID = uint(id)
	}
	return s.store.ListTransactions(ctx, query)
}

// Products lists the product catalog.
func (s *Service) Products(ctx context.Context) ([]models.Product, error) {
	return s.store.ListProducts(ctx)
}

// Ponds lists every pond.
func (s *Service) Ponds(ctx context.Context) ([]models.Pond, error) {
	return s.store.ListPonds(ctx)
}

// PondInput carries pond geometry fields. Fields that do not parse keep the
// pond's current value.
type PondInput struct {
	DiameterM              models.FormValue `form:"diameter_m" json:"diameter_m"`
	WaterDepthM            models.FormValue `form:"water_depth_m" json:"water_depth_m"`
	StockingRateFishPerM3  models.FormValue `form:"stocking_rate_fish_per_m3" json:"stocking_rate_fish_per_m3"`
	BiomassCapacityKgPerM3 models.FormValue `form:"biomass_capacity_kg_per_m3" json:"biomass_capacity_kg_per_m3"`
}

// UpdatePond changes a pond's geometry and densities.
func (s *Service) UpdatePond(ctx context.Context, id uint, in PondInput) (models.Pond, error) {
	pond, err := s.store.GetPond(ctx, id)
	if err != nil {
		return models.Pond{}, err
	}

	pond.DiameterM = models.ParseFloatOr(in.DiameterM.String(), pond.DiameterM)
	pond.WaterDepthM = models.ParseFloatOr(in.WaterDepthM.String(), pond.WaterDepthM)
	pond.StockingRateFishPerM3 = models.ParseFloatOr(in.StockingRateFishPerM3.String(), pond.StockingRateFishPerM3)
	pond.BiomassCapacityKgPerM3 = models.ParseFloatOr(in.BiomassCapacityKgPerM3.String(), pond.BiomassCapacityKgPerM3)

	if err := s.store.SavePond(ctx, &pond); err != nil {
		return models.Pond{}, err
	}
	s.logger.Info("pond updated", zap.Uint("pond_id", pond.ID), zap.Int("capacity_fish", pond.CapacityFishCount()))
	return pond, nil
}

// FishEventInput is a raw pond event form.
type FishEventInput struct {
	Date      models.FormValue `form:"date" json:"date"`
	EventType models.FormValue `form:"event_type" json:"event_type"`
	Count     models.FormValue `form:"count" json:"count"`
	WeightKg  models.FormValue `form:"weight_kg" json:"weight_kg"`
	Note      models.FormValue `form:"note" json:"note"`
}

// RecordFishEvent logs stocking, harvest or mortality for an existing pond.
func (s *Service) RecordFishEvent(ctx context.Context, pondID uint, in FishEventInput) (models.FishEvent, error) {
	eventType := models.FishStock
	if strings.TrimSpace(in.EventType.String()) != "" {
		t, ok := models.ParseFishEventType(in.EventType.String())
		if !ok {
			return models.FishEvent{}, ErrInvalidEventType
		}
		eventType = t
	}

	if _, err := s.store.GetPond(ctx, pondID); err != nil {
		return models.FishEvent{}, err
	}

	event := models.FishEvent{
		PondID:    pondID,
		EventType: eventType,
		Count:     models.ParseIntOr(in.Count.String(), 0),
		WeightKg:  models.ParseFloatOr(in.WeightKg.String(), 0),
		Note:      in.Note.String(),
	}
	event.SetEventDate(s.dateOrToday(in.Date.String()))

	if err := s.store.CreateFishEvent(ctx, &event); err != nil {
		return models.FishEvent{}, err
	}
	s.logger.Info("fish event recorded",
		zap.Uint("pond_id", pondID),
		zap.String("type", string(eventType)),
		zap.Int("count", event.Count))
	return event, nil
}

// PondDetail is a pond with its events, newest first.
type PondDetail struct {
	Pond   models.Pond        `json:"pond"`
	Events []models.FishEvent `json:"events"`
}

// PondDetail loads a pond and its event history.
func (s *Service) PondDetail(ctx context.Context, id uint) (PondDetail, error) {
	pond, err := s.store.GetPond(ctx, id)
	if err != nil {
		return PondDetail{}, err
	}
	events, err := s.store.ListFishEvents(ctx, id)
	if err != nil {
		return PondDetail{}, err
	}
	return PondDetail{Pond: pond, Events: events}, nil
}

// Flocks lists every flock.
func (s *Service) Flocks(ctx context.Context) ([]models.Flock, error) {
	return s.store.ListFlocks(ctx)
}

// UpdateFlockInitialCount sets the starting head count. An unparseable value
// keeps the current count.
func (s *Service) UpdateFlockInitialCount(ctx context.Context, id uint, value string) (models.Flock, error) {
	flock, err := s.store.GetFlock(ctx, id)
	if err != nil {
		return models.Flock{}, err
	}
	flock.InitialCount = models.ParseIntOr(value, flock.InitialCount)
	if err := s.store.UpdateFlockInitialCount(ctx, id, flock.InitialCount); err != nil {
		return models.Flock{}, err
	}
	s.logger.Info("flock initial count updated", zap.Uint("flock_id", id), zap.Int("initial_count", flock.InitialCount))
	return flock, nil
}

// ChickenLogInput is a raw daily log form.
type ChickenLogInput struct {
	Date      models.FormValue `form:"date" json:"date"`
	EggsCount models.FormValue `form:"eggs_count" json:"eggs_count"`
	DeadCount models.FormValue `form:"dead_count" json:"dead_count"`
	Note      models.FormValue `form:"note" json:"note"`
}

// RecordChickenLog stores a day's eggs and deaths for an existing flock.
func (s *Service) RecordChickenLog(ctx context.Context, flockID uint, in ChickenLogInput) (models.ChickenDailyLog, error) {
	if _, err := s.store.GetFlock(ctx, flockID); err != nil {
		return models.ChickenDailyLog{}, err
	}

	log := models.ChickenDailyLog{
		FlockID:   flockID,
		Date:      s.dateOrToday(in.Date.String()).Time(),
		EggsCount: models.ParseIntOr(in.EggsCount.String(), 0),
		DeadCount: models.ParseIntOr(in.DeadCount.String(), 0),
		Note:      in.Note.String(),
	}
	if err := s.store.CreateChickenLog(ctx, &log); err != nil {
		return models.ChickenDailyLog{}, err
	}
	s.logger.Info("chicken log recorded",
		zap.Uint("flock_id", flockID),
		zap.Int("eggs", log.EggsCount),
		zap.Int("dead", log.DeadCount))
	return log, nil
}

// FlockDetail is a flock with its daily logs, newest first.
type FlockDetail struct {
	Flock models.Flock             `json:"flock"`
	Logs  []models.ChickenDailyLog `json:"logs"`
}

// FlockDetail loads a flock and its logs.
func (s *Service) FlockDetail(ctx context.Context, id uint) (FlockDetail, error) {
	flock, err := s.store.GetFlock(ctx, id)
	if err != nil {
		return FlockDetail{}, err
	}
	logs, err := s.store.ListChickenLogs(ctx, id)
	if err != nil {
		return FlockDetail{}, err
	}
	return FlockDetail{Flock: flock, Logs: logs}, nil
}

// EggsPerRack returns the stored rack size as entered, or the default when
// the setting is missing or unparseable.
func (s *Service) EggsPerRack(ctx context.Context) (int, error) {
	raw, err := s.store.GetSetting(ctx, models.SettingEggsPerRack)
	if errors.Is(err, models.ErrNotFound) {
		return models.DefaultEggsPerRack, nil
	}
	if err != nil {
		return 0, err
	}
	return models.ParseIntOr(raw, models.DefaultEggsPerRack), nil
}

// SaveEggsPerRack validates and stores the rack size. Unparseable input is
// read as the default before the range check.
func (s *Service) SaveEggsPerRack(ctx context.Context, value string) (int, error) {
	n := models.ParseIntOr(value, models.DefaultEggsPerRack)
	if n < models.MinEggsPerRack || n > models.MaxEggsPerRack {
		return 0, ErrInvalidEggsPerRack
	}
	if err := s.store.SetSetting(ctx, models.SettingEggsPerRack, strconv.Itoa(n)); err != nil {
		return 0, err
	}
	s.logger.Info("eggs per rack saved", zap.Int("value", n))
	return n, nil
}

func (s *Service) dateOrToday(value string) models.Date {
	if d, err := models.ParseDate(strings.TrimSpace(value)); err == nil {
		return d
	}
	return models.DateOf(s.now().In(s.loc))
}
