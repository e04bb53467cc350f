package series_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wandb/wandb/chartsync/internal/series"
)

func TestValue_Float(t *testing.T) {
	assert.InDelta(t, 2.5, series.Number(2.5).Float(), 0)
	assert.InDelta(t, 12, series.Category("12").Float(), 0)
	assert.True(t, math.IsNaN(series.Category("Mon").Float()))
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "3", series.Number(3).String())
	assert.Equal(t, "0.25", series.Number(0.25).String())
	assert.Equal(t, "Mon", series.Category("Mon").String())
}

func TestValue_CategoryAndNumberDiffer(t *testing.T) {
	seen := map[series.Value]int{}
	seen[series.Category("1")]++
	seen[series.Number(1)]++

	assert.Len(t, seen, 2)
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		name  string
		ok    bool
		xAxis bool
		yAxis bool
	}{
		{"bar", true, true, true},
		{"line", true, true, true},
		{"scatterPoint", true, true, true},
		{"treemaps", true, true, false},
		{"pie", true, false, false},
		{"relation", true, false, false},
		{"donut", false, false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			k, ok := series.ParseKind(tc.name)

			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.xAxis, k.UsesXAxis())
			assert.Equal(t, tc.yAxis, k.UsesYAxis())
		})
	}
}
