package axis

import (
	"math"

	"github.com/wandb/wandb/chartsync/internal/series"
)

// AutoMax infers the top of a value-axis domain from the largest observed
// value.
//
// Small maxima snap up to 10, 15 or 20. Larger maxima round up to a
// multiple of (tickCount-1) counted from zero, so that every tick lands on a
// whole number. Exact multiples are kept.
func AutoMax(observed float64, tickCount int) float64 {
	if observed < 20 {
		switch {
		case observed > 15:
			return 20
		case observed > 10:
			return 15
		case observed > 5:
			return 10
		default:
			return observed
		}
	}

	step := float64(tickCount - 1)
	if step <= 0 {
		return observed
	}

	v := math.Mod(observed, step)
	if v == 0 {
		v = step
	}
	return observed + step - v
}

// AutoMin infers the bottom of a value-axis domain.
//
// Time axes start at the earliest observed value; other axes start at zero.
func AutoMin(kind Kind, values []series.Value) float64 {
	if kind != Time {
		return 0
	}
	lo, _ := extent(values)
	return lo
}

// extent returns the smallest and largest numeric readings of values,
// ignoring values that have none.
func extent(values []series.Value) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		f := v.Float()
		if math.IsNaN(f) {
			continue
		}
		lo = min(lo, f)
		hi = max(hi, f)
	}
	if math.IsInf(lo, 1) {
		return 0, 0
	}
	return lo, hi
}
