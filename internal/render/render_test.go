package render_test

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandb/wandb/chartsync/internal/axis"
	"github.com/wandb/wandb/chartsync/internal/chart"
	"github.com/wandb/wandb/chartsync/internal/cursor"
	"github.com/wandb/wandb/chartsync/internal/datawindow"
	"github.com/wandb/wandb/chartsync/internal/render"
	"github.com/wandb/wandb/chartsync/internal/series"
)

func plainRenderer() *render.Renderer {
	return render.New(render.NewTheme(io.Discard, termenv.Ascii))
}

func points(n int) []series.Point {
	out := make([]series.Point, n)
	for i := range out {
		out[i] = series.Point{
			X: series.Category(fmt.Sprintf("c%d", i)),
			Y: series.Number(float64(i + 1)),
		}
	}
	return out
}

func bareConfig(kind series.Kind, n int) chart.Config {
	zero := 0
	x, y := axis.NewX(), axis.NewY()
	x.GridLine, y.GridLine = false, false
	return chart.Config{
		Name:   "test",
		XAxes:  []axis.Spec{x},
		YAxes:  []axis.Spec{y},
		Series: []*chart.Series{{Name: "loss", Kind: kind, FullData: points(n)}},
		FixedPadding: chart.Padding{
			Top: &zero, Right: &zero, Bottom: &zero, Left: &zero,
		},
	}
}

func build(t *testing.T, cfg chart.Config, w, h int) *chart.Chart {
	t.Helper()
	c, err := chart.New(cfg, chart.Params{
		Viewport: render.NewViewport(chart.Bounds{Width: w, Height: h}),
		Measurer: axis.NewCellMeasurer(1),
	})
	require.NoError(t, err)
	require.NoError(t, c.Build())
	return c
}

func lines(s string) []string {
	return strings.Split(s, "\n")
}

func TestChart_FillsBounds(t *testing.T) {
	c := build(t, bareConfig(series.Bar, 5), 20, 6)

	out := plainRenderer().Chart(c)

	rows := lines(out)
	require.Len(t, rows, 6)
	for _, row := range rows {
		assert.Equal(t, 20, runewidth.StringWidth(row))
	}
	assert.Contains(t, out, "█")
}

func TestChart_TallerBarsForLargerValues(t *testing.T) {
	c := build(t, bareConfig(series.Bar, 2), 10, 8)

	rows := lines(plainRenderer().Chart(c))

	height := func(col int) int {
		n := 0
		for _, row := range rows {
			if []rune(row)[col] == '█' {
				n++
			}
		}
		return n
	}
	assert.Greater(t, height(7), height(2))
}

func TestChart_LineHoverDrawsHairline(t *testing.T) {
	cfg := bareConfig(series.Line, 4)
	cfg.Cursor.Hover = true
	c := build(t, cfg, 40, 6)

	assert.NotContains(t, plainRenderer().Chart(c), "│")

	c.PointerMove(15, 3)
	out := plainRenderer().Chart(c)

	assert.Contains(t, out, "│")
	assert.Contains(t, out, "c1  loss=2", "the tooltip names the hovered datum")
}

func TestChart_ZoomStripHandles(t *testing.T) {
	cfg := bareConfig(series.Bar, 10)
	start, end := 0.0, 50.0
	cfg.Window = &chart.WindowConfig{Params: datawindow.Params{Start: &start, End: &end}}
	c := build(t, cfg, 20, 8)

	rows := lines(plainRenderer().Chart(c))

	strip := rows[len(rows)-1]
	assert.Equal(t, 2, strings.Count(strip, "┃"))
	assert.Contains(t, strip, "▒")
}

func TestChart_EmptyBounds(t *testing.T) {
	c := build(t, bareConfig(series.Bar, 3), 0, 0)

	assert.Empty(t, plainRenderer().Chart(c))
}

func TestTooltip(t *testing.T) {
	column := []cursor.HoverPoint{
		{Name: "loss", Point: series.Point{X: series.Category("c3"), Y: series.Number(4)}},
		{Name: "acc", Point: series.Point{X: series.Category("c3"), Y: series.Number(0.5)}},
	}
	row := []cursor.HoverPoint{
		{Name: "loss", Point: series.Point{X: series.Number(4), Y: series.Category("c3")}},
	}

	assert.Equal(t, "c3  loss=4  acc=0.5", render.Tooltip(column, axis.Horizontal))
	assert.Equal(t, "c3  loss=4", render.Tooltip(row, axis.Vertical))
	assert.Empty(t, render.Tooltip(nil, axis.Horizontal))
}

func TestViewport_NotifiesOnChange(t *testing.T) {
	vp := render.NewViewport(chart.Bounds{Width: 10, Height: 5})
	var got []chart.Bounds
	cancel := vp.OnResize(func(b chart.Bounds) { got = append(got, b) })

	vp.SetBounds(chart.Bounds{Width: 10, Height: 5})
	vp.SetBounds(chart.Bounds{Width: 20, Height: 5})
	cancel()
	vp.SetBounds(chart.Bounds{Width: 30, Height: 5})

	assert.Equal(t, []chart.Bounds{{Width: 20, Height: 5}}, got)
	assert.Equal(t, chart.Bounds{Width: 30, Height: 5}, vp.Bounds())
}
