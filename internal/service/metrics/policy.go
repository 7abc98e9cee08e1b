package metrics

// ClampMode bounds a derived value before it is shown.
type ClampMode uint8

const (
	// ClampNone surfaces the value as computed.
	ClampNone ClampMode = iota
	// ClampFloorZero raises negative values to zero.
	ClampFloorZero
	// ClampPercent bounds the value to [0, 100].
	ClampPercent
)

// Int applies the mode to an integer value.
func (m ClampMode) Int(v int64) int64 {
	switch m {
	case ClampFloorZero:
		return max(v, 0)
	case ClampPercent:
		return min(max(v, 0), 100)
	default:
		return v
	}
}

// Float applies the mode to a float value.
func (m ClampMode) Float(v float64) float64 {
	switch m {
	case ClampFloorZero:
		return max(v, 0)
	case ClampPercent:
		return min(max(v, 0), 100)
	default:
		return v
	}
}

func (m ClampMode) String() string {
	switch m {
	case ClampFloorZero:
		return "floor_zero"
	case ClampPercent:
		return "percent"
	default:
		return "none"
	}
}

// Policies holds the clamp mode of every bounded metric. Egg stock and
// headcount are floored for display while pond figures are surfaced raw;
// the hen-day rate keeps its raw value next to a display copy.
type Policies struct {
	EggStock      ClampMode
	Headcount     ClampMode
	PondCount     ClampMode
	PondUsage     ClampMode
	HenDayDisplay ClampMode
}

// DefaultPolicies returns the clamp modes the dashboard uses.
func DefaultPolicies() Policies {
	return Policies{
		EggStock:      ClampFloorZero,
		Headcount:     ClampFloorZero,
		PondCount:     ClampNone,
		PondUsage:     ClampNone,
		HenDayDisplay: ClampPercent,
	}
}
