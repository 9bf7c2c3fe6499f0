package exporter

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrNonFinite is returned when a numeric cell would be NaN or infinite
var ErrNonFinite = errors.New("non-finite numeric value")

// formatNumber renders v with the fewest digits that round-trip. Whole
// numbers carry no decimal point.
func formatNumber(v float64) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", ErrNonFinite
	}
	return strconv.FormatFloat(v, 'f', -1, 64), nil
}

// formatFloat formats a value with exactly 2 decimal places, for report tables
func formatFloat(v float64) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", ErrNonFinite
	}
	return fmt.Sprintf("%.2f", v), nil
}

func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatCell renders one typed fact-table value
func formatCell(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case int:
		return formatInt(int64(val)), nil
	case int64:
		return formatInt(val), nil
	case float64:
		return formatNumber(val)
	default:
		return fmt.Sprintf("%v", val), nil
	}
}
