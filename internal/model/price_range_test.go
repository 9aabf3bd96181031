package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceRange_Valid(t *testing.T) {
	tests := []struct {
		name     string
		min, max int64
		want     bool
	}{
		{"ordered", 140, 160, true},
		{"single point", 150, 150, true},
		{"inverted", 160, 140, false},
		{"zero min", 0, 10, false},
		{"negative max", 1, -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := PriceRange{Min: decimal.NewFromInt(tt.min), Max: decimal.NewFromInt(tt.max)}
			assert.Equal(t, tt.want, r.Valid())
		})
	}
}

func TestPriceRange_Midpoint(t *testing.T) {
	r := PriceRange{Min: decimal.NewFromInt(140), Max: decimal.NewFromInt(161)}
	assert.True(t, decimal.RequireFromString("150.5").Equal(r.Midpoint()))
}

func TestPriceRange_ValueScan(t *testing.T) {
	in := PriceRange{Min: decimal.RequireFromString("1.25"), Max: decimal.RequireFromString("2.5")}
	v, err := in.Value()
	require.NoError(t, err)

	var out PriceRange
	require.NoError(t, out.Scan(v))
	assert.True(t, in.Min.Equal(out.Min))
	assert.True(t, in.Max.Equal(out.Max))

	require.NoError(t, out.Scan(`{"min":"3","max":"4"}`))
	assert.True(t, decimal.NewFromInt(3).Equal(out.Min))

	assert.Error(t, out.Scan(42))
	assert.Error(t, out.Scan([]byte("not json")))
}
