package cursor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandb/wandb/chartsync/internal/axis"
	"github.com/wandb/wandb/chartsync/internal/cursor"
	"github.com/wandb/wandb/chartsync/internal/series"
)

var plot = cursor.Rect{W: 200, H: 100}

func xLayout(length int, boundaryGap bool) cursor.Layout {
	x := axis.NewX()
	x.BoundaryGap = boundaryGap
	return cursor.NewLayout([]axis.Spec{x}, []axis.Spec{axis.NewY()}, length)
}

func points(labels ...string) []series.Point {
	out := make([]series.Point, 0, len(labels))
	for i, label := range labels {
		out = append(out, series.Point{X: series.Category(label), Y: series.Number(float64(i))})
	}
	return out
}

func TestNewLayout_BaseAxis(t *testing.T) {
	assert.Equal(t, axis.Horizontal, xLayout(3, true).Base)

	y := axis.NewY()
	y.Kind = axis.Category
	y.Flip = true
	x := axis.NewX()
	x.Kind = axis.Value

	l := cursor.NewLayout([]axis.Spec{x}, []axis.Spec{axis.NewY(), y}, 4)
	assert.Equal(t, axis.Vertical, l.Base)
	// The first Y axis decides the flags, even when it is not the
	// categorical one.
	assert.False(t, l.Flip)

	both := cursor.NewLayout([]axis.Spec{axis.NewX()}, []axis.Spec{y}, 4)
	assert.Equal(t, axis.Horizontal, both.Base, "category on both sides ties to X")
	assert.False(t, both.Flip)
}

func TestSegment(t *testing.T) {
	assert.InDelta(t, 10, xLayout(10, true).Segment(), 1e-9)
	assert.InDelta(t, 25, xLayout(5, false).Segment(), 1e-9)
	assert.InDelta(t, 100, xLayout(1, false).Segment(), 1e-9)
}

func TestIndexAt(t *testing.T) {
	tests := []struct {
		name   string
		layout cursor.Layout
		p      cursor.Point
		want   int
		ok     bool
	}{
		{"55 percent over 10 slots", xLayout(10, true), cursor.Point{X: 110, Y: 50}, 5, true},
		{"left edge", xLayout(10, true), cursor.Point{X: 0, Y: 0}, 0, true},
		{"right edge clamps", xLayout(10, true), cursor.Point{X: 200, Y: 0}, 9, true},
		{"snaps to nearest edge without gap", xLayout(5, false), cursor.Point{X: 26, Y: 0}, 1, true},
		{"rounds up past the midpoint", xLayout(5, false), cursor.Point{X: 76, Y: 0}, 2, true},
		{"off the plot", xLayout(10, true), cursor.Point{X: 201, Y: 0}, 0, false},
		{"above the plot", xLayout(10, true), cursor.Point{X: 10, Y: -1}, 0, false},
		{"no data", xLayout(0, true), cursor.Point{X: 10, Y: 10}, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.layout.IndexAt(tc.p, plot)

			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIndexAt_VerticalBaseUsesY(t *testing.T) {
	l := cursor.Layout{Base: axis.Vertical, BoundaryGap: true, Length: 4}

	got, ok := l.IndexAt(cursor.Point{X: 5, Y: 60}, plot)

	require.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestGeometry(t *testing.T) {
	gap := xLayout(10, true)
	assert.Equal(t,
		cursor.Geometry{Pos: 35, Hairline: true},
		gap.Geometry(3, cursor.LineStyle))
	assert.Equal(t,
		cursor.Geometry{Pos: 30, Size: 10},
		gap.Geometry(3, cursor.BarStyle))
	assert.Equal(t,
		cursor.Geometry{Pos: 30, Size: 10},
		gap.Geometry(3, cursor.ClickStyle))

	noGap := xLayout(11, false)
	assert.Equal(t,
		cursor.Geometry{Pos: 30, Hairline: true},
		noGap.Geometry(3, cursor.BarStyle))
}

func TestTracker_HoverShowsAndHides(t *testing.T) {
	tr := cursor.NewTracker(xLayout(10, true), cursor.BarStyle)

	ev := tr.OnPointerMove(cursor.Point{X: 110, Y: 50}, plot)
	assert.True(t, ev.Visible)
	assert.Equal(t, 5, ev.Index)
	assert.Equal(t, cursor.BarStyle, ev.Style)

	ev = tr.OnPointerMove(cursor.Point{X: 300, Y: 50}, plot)
	assert.False(t, ev.Visible)
	assert.Equal(t, 5, ev.Index, "the last index is kept while hidden")
}

func TestTracker_PointerLeave(t *testing.T) {
	tr := cursor.NewTracker(xLayout(10, true), cursor.LineStyle)
	tr.OnPointerMove(cursor.Point{X: 10, Y: 10}, plot)

	_, hidden := tr.OnPointerLeave(cursor.Point{X: 10, Y: 10}, plot)
	assert.False(t, hidden)
	assert.True(t, tr.Visible)

	_, hidden = tr.OnPointerLeave(cursor.Point{X: -3, Y: 10}, plot)
	assert.True(t, hidden)
	assert.False(t, tr.Visible)
}

func TestTracker_ClickPersistsDefault(t *testing.T) {
	data := points("a", "b", "c", "d")
	tr := cursor.NewTracker(xLayout(len(data), true), cursor.BarStyle)

	ev, ok := tr.OnClick(cursor.Point{X: 120, Y: 10}, plot, data)
	require.True(t, ok)
	assert.Equal(t, 2, ev.Index)
	assert.Equal(t, cursor.ClickStyle, ev.Style)
	require.NotNil(t, tr.Default)
	assert.Equal(t, series.Category("c"), tr.Default.X)

	// Clicking again on the same slot is reported again.
	ev, ok = tr.OnClick(cursor.Point{X: 121, Y: 10}, plot, data)
	assert.True(t, ok)
	assert.Equal(t, 2, ev.Index)

	_, ok = tr.OnClick(cursor.Point{X: 500, Y: 10}, plot, data)
	assert.False(t, ok)
	assert.Equal(t, series.Category("c"), tr.Default.X)
}

func TestTracker_Restore(t *testing.T) {
	values := []series.Value{
		series.Category("a"),
		series.Category("b"),
		series.Category("c"),
	}
	rt, err := axis.ComputeLayout(axis.NewX(), values, nil)
	require.NoError(t, err)

	tr := cursor.NewTracker(xLayout(3, true), cursor.BarStyle)
	_, ok := tr.Restore(rt)
	assert.False(t, ok, "nothing to restore before a click")

	tr.Default = &series.Point{X: series.Category("b")}
	ev, ok := tr.Restore(rt)
	require.True(t, ok)
	assert.Equal(t, 1, ev.Index)

	tr.Default = &series.Point{X: series.Category("gone")}
	_, ok = tr.Restore(rt)
	assert.False(t, ok)
}

func TestTracker_ShowClampsForeignIndex(t *testing.T) {
	tr := cursor.NewTracker(xLayout(5, true), cursor.LineStyle)

	ev := tr.Show(12, true, cursor.BarStyle)

	assert.Equal(t, 4, ev.Index)
	assert.Equal(t, cursor.LineStyle, ev.Style, "hover cursors keep the chart's own style")
	assert.Equal(t, 4, tr.LastIndex)
}
