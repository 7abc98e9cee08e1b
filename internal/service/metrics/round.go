package metrics

import (
	"math"

	"github.com/shopspring/decimal"
)

// roundPlaces rounds half to even at the given number of decimal places,
// working on the shortest decimal form of v.
func roundPlaces(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).RoundBank(places).InexactFloat64()
}

func roundToInt(v float64) int64 {
	return int64(math.RoundToEven(v))
}

// percentOf returns part/whole*100 rounded to places, or 0 when whole is not
// positive.
func percentOf(part, whole int64, places int32) float64 {
	if whole <= 0 {
		return 0
	}
	return roundPlaces(float64(part)/float64(whole)*100, places)
}
