package chart_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandb/wandb/chartsync/internal/axis"
	"github.com/wandb/wandb/chartsync/internal/chart"
	"github.com/wandb/wandb/chartsync/internal/cursor"
	"github.com/wandb/wandb/chartsync/internal/linked"
	"github.com/wandb/wandb/chartsync/internal/series"
)

// rowConfig is a horizontal bar chart: categories run down the Y axis, so
// its cursor moves along Y.
func rowConfig(n int) chart.Config {
	x := axis.NewX()
	x.Kind = axis.Value
	x.TickCount = axis.DefaultTickCount
	y := axis.NewY()
	y.Kind = axis.Category
	y.TickCount = 0

	data := make([]series.Point, n)
	for i, p := range bars(n) {
		data[i] = series.Point{X: p.Y, Y: p.X}
	}

	return chart.Config{
		Name:         "rows",
		XAxes:        []axis.Spec{x},
		YAxes:        []axis.Spec{y},
		Series:       []*chart.Series{{Name: "loss", Kind: series.Bar, FullData: data}},
		FixedPadding: noPadding(),
	}
}

func TestPointerMove_ResolvesIndex(t *testing.T) {
	cfg := barConfig(10)
	cfg.Cursor.Hover = true
	var hovered []cursor.HoverPoint
	cfg.Cursor.OnHover = func(points []cursor.HoverPoint) { hovered = points }

	c := newEnv().build(t, cfg)
	c.PointerMove(55, 10)

	ev := c.HoverCursor()
	assert.True(t, ev.Visible)
	assert.Equal(t, 5, ev.Index)
	require.Len(t, hovered, 1)
	assert.Equal(t, series.Category("c5"), hovered[0].Point.X)

	c.PointerMove(150, 10)
	assert.False(t, c.HoverCursor().Visible)
	assert.Nil(t, hovered)
}

func TestPointerMove_DisabledWithoutHover(t *testing.T) {
	c := newEnv().build(t, barConfig(10))

	c.PointerMove(55, 10)

	assert.False(t, c.HoverCursor().Visible)
}

func TestPointerMove_ScatterHasNoCursor(t *testing.T) {
	cfg := barConfig(10)
	cfg.Series[0].Kind = series.Scatter
	cfg.Cursor.Hover = true

	c := newEnv().build(t, cfg)
	c.PointerMove(55, 10)

	assert.False(t, c.HoverCursor().Visible)
}

func TestPointerMove_MirrorsOntoRowChart(t *testing.T) {
	e := newEnv()
	rows := e.build(t, rowConfig(10))
	cfg := barConfig(10)
	cfg.Cursor.Hover = true
	cfg.Links.Hover = []linked.Handle{rows.Handle()}
	cols := e.build(t, cfg)

	cols.PointerMove(35, 10)

	require.Equal(t, 3, cols.HoverCursor().Index)
	assert.True(t, rows.HoverCursor().Visible)
	assert.Equal(t, 6, rows.HoverCursor().Index)

	// Leaving the plot hides the linked cursor as well.
	cols.PointerLeave(-1, 10)
	assert.False(t, cols.HoverCursor().Visible)
	assert.False(t, rows.HoverCursor().Visible)
}

func TestPointerMove_OffPlotHidesLocallyOnly(t *testing.T) {
	e := newEnv()
	peer := e.build(t, barConfig(10))
	cfg := barConfig(10)
	cfg.Cursor.Hover = true
	cfg.Links.Hover = []linked.Handle{peer.Handle()}
	c := e.build(t, cfg)

	c.PointerMove(35, 10)
	c.PointerMove(500, 10)

	assert.False(t, c.HoverCursor().Visible)
	assert.True(t, peer.HoverCursor().Visible)
}

func TestReciprocalHoverLinksAreOneHop(t *testing.T) {
	e := newEnv()
	cfgA := barConfig(10)
	cfgA.Cursor.Hover = true
	a := e.build(t, cfgA)
	cfgB := barConfig(10)
	cfgB.Cursor.Hover = true
	b := e.build(t, cfgB)
	a.SetLinks(chart.Links{Hover: []linked.Handle{b.Handle()}})
	b.SetLinks(chart.Links{Hover: []linked.Handle{a.Handle()}})

	a.PointerMove(75, 10)

	assert.Equal(t, 7, a.HoverCursor().Index)
	assert.Equal(t, 7, b.HoverCursor().Index)
}

func TestClick_CallbacksAndDefaultCursor(t *testing.T) {
	e := newEnv()
	peer := e.build(t, rowConfig(10))

	cfg := barConfig(10)
	cfg.Cursor.Click = true
	cfg.Links.Click = []linked.Handle{peer.Handle()}
	var seriesClicks, cursorClicks []chart.ClickEvent
	cfg.Series[0].OnClick = func(ev chart.ClickEvent) { seriesClicks = append(seriesClicks, ev) }
	cfg.Cursor.OnClick = func(ev chart.ClickEvent) { cursorClicks = append(cursorClicks, ev) }
	c := e.build(t, cfg)

	c.Click(35, 10)
	c.Click(36, 10)
	c.Click(300, 10)

	require.Len(t, seriesClicks, 2, "repeated clicks fire again, clicks off the plot do not")
	assert.Equal(t, chart.ClickEvent{Series: "loss", Index: 3, Value: bars(10)[3]}, seriesClicks[0])
	require.Len(t, cursorClicks, 2)
	assert.Equal(t, series.Category("c3"), cursorClicks[0].Value.X)

	assert.Equal(t, cursor.ClickStyle, c.ClickCursor().Style)
	assert.Equal(t, 3, c.ClickCursor().Index)
	assert.True(t, peer.ClickCursor().Visible)
	assert.Equal(t, 6, peer.ClickCursor().Index)

	// The clicked datum is found again after the data is reordered.
	require.NoError(t, c.SetData(0, reversed(bars(10))))
	assert.Equal(t, 6, c.ClickCursor().Index)
}

func TestDefaultCursorShownOnFirstBuild(t *testing.T) {
	cfg := barConfig(10)
	cfg.Cursor.Click = true
	cfg.Cursor.Default = &series.Point{X: series.Category("c8")}

	c := newEnv().build(t, cfg)

	assert.True(t, c.ClickCursor().Visible)
	assert.Equal(t, 8, c.ClickCursor().Index)
}
