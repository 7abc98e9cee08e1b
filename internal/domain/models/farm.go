package models

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

// Direction tells whether a transaction brought money in or sent it out.
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// ParseDirection normalizes a direction string. Empty input is not valid.
func ParseDirection(value string) (Direction, bool) {
	switch Direction(strings.ToUpper(strings.TrimSpace(value))) {
	case DirectionIn:
		return DirectionIn, true
	case DirectionOut:
		return DirectionOut, true
	default:
		return "", false
	}
}

// FishEventType enumerates pond event categories.
type FishEventType string

const (
	FishStock     FishEventType = "STOCK"
	FishHarvest   FishEventType = "HARVEST"
	FishMortality FishEventType = "MORTALITY"
)

// ParseFishEventType normalizes an event type string.
func ParseFishEventType(value string) (FishEventType, bool) {
	switch FishEventType(strings.ToUpper(strings.TrimSpace(value))) {
	case FishStock:
		return FishStock, true
	case FishHarvest:
		return FishHarvest, true
	case FishMortality:
		return FishMortality, true
	default:
		return "", false
	}
}

// Setting keys and defaults.
const (
	SettingEggsPerRack = "EGGS_PER_RACK"
	DefaultEggsPerRack = 30
	MinEggsPerRack     = 1
	MaxEggsPerRack     = 100
)

// Product is a sellable or purchasable line such as eggs or tilapia.
type Product struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:80;uniqueIndex;not null" json:"name"`
	DefaultUnit string `gorm:"size:20;not null" json:"default_unit"`
}

// Transaction is a single sale (IN) or expense (OUT). Total is fixed at entry.
type Transaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Date        time.Time `gorm:"type:date;not null;index" json:"date"`
	Direction   Direction `gorm:"size:3;not null;index" json:"direction"`
	ProductID   uint      `gorm:"not null;index" json:"product_id"`
	Product     *Product  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"product,omitempty"`
	Description string    `gorm:"size:200" json:"description"`
	Quantity    float64   `json:"quantity"`
	Unit        string    `gorm:"size:20" json:"unit"`
	UnitPrice   float64   `json:"unit_price"`
	Total       float64   `json:"total"`
}

// Pond is a circular fish pond whose capacity derives from its geometry.
type Pond struct {
	ID                     uint    `gorm:"primaryKey" json:"id"`
	Name                   string  `gorm:"size:80;not null" json:"name"`
	Shape                  string  `gorm:"size:20" json:"shape"`
	DiameterM              float64 `json:"diameter_m"`
	WaterDepthM            float64 `json:"water_depth_m"`
	StockingRateFishPerM3  float64 `gorm:"column:stocking_rate_fish_per_m3" json:"stocking_rate_fish_per_m3"`
	BiomassCapacityKgPerM3 float64 `gorm:"column:biomass_capacity_kg_per_m3" json:"biomass_capacity_kg_per_m3"`
}

// VolumeM3 is π·r²·h, recomputed from the current geometry on every call.
func (p Pond) VolumeM3() float64 {
	r := p.DiameterM / 2.0
	return math.Pi * r * r * p.WaterDepthM
}

// CapacityFishCount is the head count the pond supports at its stocking rate.
func (p Pond) CapacityFishCount() int {
	return int(math.RoundToEven(p.VolumeM3() * p.StockingRateFishPerM3))
}

// CapacityBiomassKg is the supportable fish weight.
func (p Pond) CapacityBiomassKg() float64 {
	return p.VolumeM3() * p.BiomassCapacityKgPerM3
}

// FishEvent records stocking, harvest or mortality in a pond. The date is
// persisted as a YYYYMMDD integer; use EventDate to read it.
type FishEvent struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	PondID    uint          `gorm:"not null;index" json:"pond_id"`
	Pond      *Pond         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	DateInt   int           `gorm:"column:tgl;not null;index" json:"-"`
	EventType FishEventType `gorm:"size:12;not null;index" json:"event_type"`
	Count     int           `json:"count"`
	WeightKg  float64       `json:"weight_kg"`
	Note      string        `gorm:"size:200" json:"note"`
}

// EventDate decodes the stored YYYYMMDD integer.
func (e FishEvent) EventDate() (Date, error) {
	return DateFromInt(e.DateInt)
}

// SetEventDate encodes d into the stored integer form.
func (e *FishEvent) SetEventDate(d Date) {
	e.DateInt = d.Int()
}

// MarshalJSON exposes the event date as a calendar day instead of the
// stored integer.
func (e FishEvent) MarshalJSON() ([]byte, error) {
	type plain FishEvent
	date, _ := e.EventDate()
	return json.Marshal(struct {
		plain
		Date Date `json:"date"`
	}{plain(e), date})
}

// Flock is a cohort of laying hens tracked from a start date.
type Flock struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:80;not null" json:"name"`
	StartDate    time.Time `gorm:"type:date" json:"start_date"`
	InitialCount int       `json:"initial_count"`
}

// ChickenDailyLog holds one day's eggs and deaths for a flock.
type ChickenDailyLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FlockID   uint      `gorm:"not null;index" json:"flock_id"`
	Flock     *Flock    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Date      time.Time `gorm:"type:date;not null;index" json:"date"`
	EggsCount int       `json:"eggs_count"`
	DeadCount int       `json:"dead_count"`
	Note      string    `gorm:"size:200" json:"note"`
}

// Setting is a key/value configuration row.
type Setting struct {
	ID    uint   `gorm:"primaryKey" json:"-"`
	Key   string `gorm:"size:50;uniqueIndex;not null" json:"key"`
	Value string `gorm:"size:200;not null" json:"value"`
}
