package axis

import (
	"math"
	"strconv"
	"strings"
)

// FormatTick renders a value-axis tick label.
//
// The value is rounded to two decimals. On non-time axes thousands are
// abbreviated with a K suffix and millions with an M suffix.
func FormatTick(value float64, kind Kind) string {
	if kind == Time {
		return formatFloat(value, 2)
	}

	switch {
	case value >= 1_000_000:
		return formatFloat(value/1_000_000, 2) + "M"
	case value >= 1000:
		return formatFloat(value/1000, 2) + "K"
	default:
		return formatFloat(value, 2)
	}
}

// round2 rounds to two decimal places.
func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// formatFloat formats a float with at most the given decimals, trimming
// trailing zeros.
func formatFloat(value float64, decimals int) string {
	formatted := strconv.FormatFloat(value, 'f', decimals, 64)

	if decimals > 0 && strings.Contains(formatted, ".") {
		formatted = strings.TrimRight(formatted, "0")
		formatted = strings.TrimRight(formatted, ".")
	}

	if formatted == "" || formatted == "-0" {
		formatted = "0"
	}
	return formatted
}
