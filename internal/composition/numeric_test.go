package composition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDecimal(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{200, "200.0"},
		{1000.0 * 2.4, "2400.0"},
		{-41, "-41.0"},
		{0.5, "0.5"},
		{100.0 / 3, "33.333333333333336"},
		{0, "0.0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDecimal(tt.in))
	}
}

func TestFormatTruncated(t *testing.T) {
	assert.Equal(t, "3840", formatTruncated(1920*2.0))
	assert.Equal(t, "1439", formatTruncated(1439.99))
	assert.Equal(t, "-2", formatTruncated(-2.7))
}

func TestParseNumber(t *testing.T) {
	v, ok := parseNumber(" 12.5 ")
	assert.True(t, ok)
	assert.Equal(t, 12.5, v)

	for _, s := range []string{"", "abc", "NaN", "Inf", "1e400"} {
		_, ok := parseNumber(s)
		assert.False(t, ok, s)
	}
}

func TestParseInt(t *testing.T) {
	v, ok := parseInt("800")
	assert.True(t, ok)
	assert.Equal(t, int64(800), v)

	_, ok = parseInt("800.0")
	assert.False(t, ok)
}
