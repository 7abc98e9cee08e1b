package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIntOr(t *testing.T) {
	cases := []struct {
		in   string
		def  int
		want int
	}{
		{"42", 0, 42},
		{" 7 ", 0, 7},
		{"12.7", 0, 12},
		{"-3.9", 0, -3},
		{"", 30, 30},
		{"abc", 30, 30},
		{"nan", 5, 5},
		{"1e20", 5, 5},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseIntOr(tc.in, tc.def), "input %q", tc.in)
	}
}

func TestParseFloatOr(t *testing.T) {
	assert.Equal(t, 2.5, ParseFloatOr("2.5", 0))
	assert.Equal(t, 0.0, ParseFloatOr("two", 0))
	assert.Equal(t, 3.0, ParseFloatOr("", 3))
	assert.Equal(t, 1.0, ParseFloatOr("inf", 1))
}

func TestFormValueAcceptsJSONScalars(t *testing.T) {
	var body struct {
		Qty   FormValue `json:"qty"`
		Price FormValue `json:"price"`
		Paid  FormValue `json:"paid"`
		Note  FormValue `json:"note"`
		Unit  FormValue `json:"unit"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"qty":2.5,"price":"48000","paid":true,"note":null,"unit":"rak"}`), &body))

	assert.Equal(t, FormValue("2.5"), body.Qty)
	assert.Equal(t, 2.5, ParseFloatOr(body.Qty.String(), 0))
	assert.Equal(t, 48000.0, ParseFloatOr(body.Price.String(), 0))
	assert.Equal(t, 0.0, ParseFloatOr(body.Paid.String(), 0))
	assert.Equal(t, "", body.Note.String())
	assert.Equal(t, "rak", body.Unit.String())
}
