package models

import "time"

// DashboardSnapshot is the flattened daily dashboard archived to MongoDB and
// exported to Google Sheets.
type DashboardSnapshot struct {
	Date            string         `bson:"date" json:"date"`
	Income          float64        `bson:"income" json:"income"`
	Expense         float64        `bson:"expense" json:"expense"`
	Profit          float64        `bson:"profit" json:"profit"`
	EggsProduced    int64          `bson:"eggs_produced" json:"eggs_produced"`
	EggsSold        int64          `bson:"eggs_sold" json:"eggs_sold"`
	EggsStock       int64          `bson:"eggs_stock" json:"eggs_stock"`
	EggStockWarning bool           `bson:"egg_stock_warning" json:"egg_stock_warning"`
	Chickens        int64          `bson:"chickens" json:"chickens"`
	ChickenWarning  bool           `bson:"chicken_warning" json:"chicken_warning"`
	EggsToday       int64          `bson:"eggs_today" json:"eggs_today"`
	DeadToday       int64          `bson:"dead_today" json:"dead_today"`
	AvgEggs7d       float64        `bson:"avg_eggs_7d" json:"avg_eggs_7d"`
	HenDayPct       float64        `bson:"hen_day_pct" json:"hen_day_pct"`
	Mortality7dPct  float64        `bson:"mortality_7d_pct" json:"mortality_7d_pct"`
	Ponds           []PondSnapshot `bson:"ponds" json:"ponds"`
	CreatedAt       time.Time      `bson:"created_at" json:"created_at"`
}

// PondSnapshot is one pond's occupancy inside a DashboardSnapshot.
type PondSnapshot struct {
	PondID   uint    `bson:"pond_id" json:"pond_id"`
	Name     string  `bson:"name" json:"name"`
	Current  int64   `bson:"current" json:"current"`
	Capacity int     `bson:"capacity" json:"capacity"`
	UsagePct float64 `bson:"usage_pct" json:"usage_pct"`
}
