package axis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wandb/wandb/chartsync/internal/axis"
)

func TestFormatTick(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		kind  axis.Kind
		want  string
	}{
		{"zero", 0, axis.Value, "0"},
		{"two decimals", 3.14159, axis.Value, "3.14"},
		{"trailing zeros trimmed", 2.50, axis.Value, "2.5"},
		{"just below thousand", 999.999, axis.Value, "1000"},
		{"thousands", 1500, axis.Value, "1.5K"},
		{"thousands rounding", 12341, axis.Value, "12.34K"},
		{"millions", 3_000_000, axis.Value, "3M"},
		{"negative stays raw", -2500, axis.Value, "-2500"},
		{"time is never abbreviated", 1_700_000_000, axis.Time, "1700000000"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, axis.FormatTick(tc.value, tc.kind))
		})
	}
}
