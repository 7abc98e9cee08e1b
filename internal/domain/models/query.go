package models

import "errors"

// ErrNotFound is returned by stores when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// DateRange is an inclusive day range. A zero bound leaves that side open.
type DateRange struct {
	From Date `json:"from"`
	To   Date `json:"to"`
}

// Day returns the single-day range for d.
func Day(d Date) DateRange {
	return DateRange{From: d, To: d}
}

// TransactionFilter narrows transaction aggregations. A zero ProductID or an
// empty Direction matches everything.
type TransactionFilter struct {
	Direction Direction
	ProductID uint
	Range     DateRange
}

// TransactionTotals holds the summed amount and quantity of matching rows.
type TransactionTotals struct {
	Total    float64
	Quantity float64
}

// ChickenLogFilter narrows chicken log aggregations. A zero FlockID matches
// every flock.
type ChickenLogFilter struct {
	FlockID uint
	Range   DateRange
}

// ChickenLogTotals holds summed eggs and deaths of matching logs.
type ChickenLogTotals struct {
	Eggs int64
	Dead int64
}
