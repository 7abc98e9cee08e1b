package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ParseIntOr reads an integer from form input. Decimal strings are accepted
// and truncated toward zero ("12.7" -> 12). Anything unparseable yields def.
func ParseIntOr(value string, def int) int {
	f, ok := parseFinite(value)
	if !ok || f > math.MaxInt32 || f < math.MinInt32 {
		return def
	}
	return int(math.Trunc(f))
}

// ParseFloatOr reads a float from form input, yielding def when the input is
// empty, malformed, NaN or infinite.
func ParseFloatOr(value string, def float64) float64 {
	f, ok := parseFinite(value)
	if !ok {
		return def
	}
	return f
}

func parseFinite(value string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// FormValue is a raw input field. Form posts bind it as text. JSON bodies may
// carry a string, number, bool or null; anything other than a string keeps
// its literal text, so numbers parse and bools fall back to the default.
type FormValue string

// String returns the raw text.
func (v FormValue) String() string {
	return string(v)
}

// UnmarshalJSON accepts any JSON scalar.
func (v *FormValue) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(raw, []byte("null")):
		*v = ""
	case len(raw) > 0 && raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*v = FormValue(s)
	default:
		*v = FormValue(raw)
	}
	return nil
}
