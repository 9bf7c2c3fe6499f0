package exporter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "zero", input: 0, expected: "0"},
		{name: "whole number", input: 123, expected: "123"},
		{name: "negative whole number", input: -456, expected: "-456"},
		{name: "trailing zeros dropped", input: 123.450000, expected: "123.45"},
		{name: "small decimal", input: 0.001234, expected: "0.001234"},
		{name: "repeating fraction keeps precision", input: 100.0 / 3.0, expected: "33.333333333333336"},
		{name: "large number has no exponent", input: 1234567.5, expected: "1234567.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatNumber(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{input: 0, expected: "0.00"},
		{input: 15, expected: "15.00"},
		{input: 12.345, expected: "12.35"},
		{input: 33.333333, expected: "33.33"},
		{input: -1.5, expected: "-1.50"},
	}

	for _, tt := range tests {
		got, err := formatFloat(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got)
	}
}

func TestFormat_NonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := formatNumber(v)
		assert.ErrorIs(t, err, ErrNonFinite)

		_, err = formatFloat(v)
		assert.ErrorIs(t, err, ErrNonFinite)

		_, err = formatCell(v)
		assert.ErrorIs(t, err, ErrNonFinite)
	}
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{name: "string", input: "CIGUGUR", expected: "CIGUGUR"},
		{name: "int", input: 1, expected: "1"},
		{name: "int64", input: int64(42), expected: "42"},
		{name: "whole float", input: 85.0, expected: "85"},
		{name: "fractional float", input: 7.5, expected: "7.5"},
		{name: "other", input: true, expected: "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatCell(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
