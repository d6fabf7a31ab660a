package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"230", "$230.00"},
		{"585.3", "$585.30"},
		{"1234.5", "$1,234.50"},
		{"1000000", "$1,000,000.00"},
		{"37.795", "$37.80"},
		{"-12.5", "-$12.50"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatUSD(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestRoundCents(t *testing.T) {
	assert.Equal(t, "0.08", RoundCents(decimal.RequireFromString("0.0805")).String())
	assert.Equal(t, "52.5", RoundCents(decimal.RequireFromString("52.5")).String())
}
