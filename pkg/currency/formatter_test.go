package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		amount float64
		code   string
		want   string
	}{
		{350, "PLN", "PLN 350,00"},
		{1234.5, "PLN", "PLN 1 234,50"},
		{1500000, "IDR", "IDR 1.500.000"},
		{99.999, "USD", "USD 100.00"},
		{1234567.891, "usd", "USD 1,234,567.89"},
		{-42, "EUR", "-EUR 42,00"},
		{10, "XYZ", "XYZ 10.00"},
		{10, "", "10.00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.amount, tt.code), "%v %s", tt.amount, tt.code)
	}
}

func TestFormat_RoundsZeroDecimalCurrencies(t *testing.T) {
	assert.Equal(t, "IDR 999", Format(999, "IDR"))
	assert.Equal(t, "IDR 1.000", Format(999.6, "IDR"))
}
