package sensors

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestGigabytesOf(t *testing.T) {
	for _, c := range []struct {
		bytes    int64
		scale    int32
		expected string
	}{
		{0, 4, "0"},
		{1000000000, 4, "1"},
		{12345678, 4, "0.0123"},
		{1234550000, 4, "1.2346"}, // half to even, rounds up to 6
		{1234650000, 4, "1.2346"}, // half to even, rounds down to 6
		{1234650001, 4, "1.2347"},
		{50000, 4, "0"},
		{150000, 4, "0.0002"},
		{250000, 4, "0.0002"},
		{134217728, 3, "0.134"},
		{268435456, 3, "0.268"},
		{2500000, 3, "0.002"},
		{3500000, 3, "0.004"},
		{-1, 4, "0"},
	} {
		actual := GigabytesOf(c.bytes, c.scale)
		assert.True(t, decimal.RequireFromString(c.expected).Equal(actual),
			"%v bytes at scale %v: expected %v, got %v", c.bytes, c.scale, c.expected, actual)
	}
}

func TestGigabytesOfFixedScale(t *testing.T) {
	assert.Equal(t, "1.0000", GigabytesOf(1000000000, 4).StringFixed(4))
	assert.Equal(t, "0.123", GigabytesOf(123456789, 3).String())
}
