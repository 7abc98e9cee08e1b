package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the calendar-day layout used across forms, JSON and storage.
const DateLayout = "2006-01-02"

// Date is a calendar day without a time of day or location. It is the only
// date type the metrics layer works with; storage encodings are converted at
// the edges.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(value string) (Date, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return DateOf(t), nil
}

// DateFromInt decodes the 8-digit YYYYMMDD integer used by fish events.
func DateFromInt(value int) (Date, error) {
	if value < 10000101 || value > 99991231 {
		return Date{}, fmt.Errorf("date integer %d is not YYYYMMDD", value)
	}
	d := Date{Year: value / 10000, Month: time.Month(value / 100 % 100), Day: value % 100}
	if !d.valid() {
		return Date{}, fmt.Errorf("date integer %d is not a calendar day", value)
	}
	return d, nil
}

// Int encodes the day as a YYYYMMDD integer.
func (d Date) Int() int {
	return d.Year*10000 + int(d.Month)*100 + d.Day
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays shifts the day by n calendar days.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d.Int() < other.Int()
}

func (d Date) String() string {
	return d.Time().Format(DateLayout)
}

// MarshalJSON renders the day as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "YYYY-MM-DD" or null.
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) valid() bool {
	return DateOf(d.Time()) == d
}
