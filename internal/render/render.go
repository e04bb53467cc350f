// Package render draws charts onto terminal cells.
package render

import (
	"math"
	"strings"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/canvas/graph"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/wandb/wandb/chartsync/internal/axis"
	"github.com/wandb/wandb/chartsync/internal/chart"
	"github.com/wandb/wandb/chartsync/internal/cursor"
	"github.com/wandb/wandb/chartsync/internal/series"
)

const (
	runeBar        = '█'
	runeGridV      = '│'
	runeGridVDash  = '┆'
	runeGridH      = '─'
	runeGridHDash  = '┄'
	runeHairline   = '│'
	runeHairlineH  = '─'
	runeWindow     = '▒'
	runeHandle     = '┃'
	runeScatterDot = '•'
)

// Renderer draws charts with a theme.
type Renderer struct {
	theme Theme
}

func New(theme Theme) *Renderer {
	return &Renderer{theme: theme}
}

// Chart draws c at its current bounds.
func (r *Renderer) Chart(c *chart.Chart) string {
	b := c.Bounds()
	if b.Width <= 0 || b.Height <= 0 {
		return ""
	}

	m := canvas.New(b.Width, b.Height)
	plot := c.Plot()

	r.drawGrid(&m, c, plot)
	r.drawSeries(&m, c, plot)
	r.drawAxes(&m, c, plot)
	r.drawBrush(&m, c, plot)
	vertical := c.Base() == axis.Vertical
	r.drawCursor(&m, plot, vertical, c.ClickCursor(), r.theme.Click)
	r.drawCursor(&m, plot, vertical, c.HoverCursor(), r.theme.Hover)
	r.drawStrip(&m, c)
	r.drawTooltip(&m, plot, Tooltip(c.HoverPoints(), c.Base()))

	return m.View()
}

// column maps a percent along X to a plot column.
func column(plot chart.Area, pct float64) int {
	col := int(math.Floor(pct / 100 * float64(plot.W)))
	return plot.X + min(max(col, 0), max(plot.W-1, 0))
}

// rowFromBottom maps a percent along Y, measured from the bottom, to a
// plot row.
func rowFromBottom(plot chart.Area, pct float64) int {
	row := int(math.Floor(pct / 100 * float64(plot.H)))
	return plot.Y + plot.H - 1 - min(max(row, 0), max(plot.H-1, 0))
}

// rowFromTop maps a percent along Y, measured from the top, to a plot row.
func rowFromTop(plot chart.Area, pct float64) int {
	row := int(math.Floor(pct / 100 * float64(plot.H)))
	return plot.Y + min(max(row, 0), max(plot.H-1, 0))
}

func (r *Renderer) drawGrid(m *canvas.Model, c *chart.Chart, plot chart.Area) {
	for _, rt := range c.XAxes() {
		if rt == nil || !rt.Spec.GridLine {
			continue
		}
		ch := runeGridV
		if rt.Spec.LineType == axis.Dash {
			ch = runeGridVDash
		}
		for _, g := range rt.GridLines {
			x := column(plot, g.Pos)
			for y := plot.Y; y < plot.Y+plot.H; y++ {
				m.SetRuneWithStyle(canvas.Point{X: x, Y: y}, ch, r.theme.Grid)
			}
		}
	}

	for _, rt := range c.YAxes() {
		if rt == nil || !rt.Spec.GridLine {
			continue
		}
		ch := runeGridH
		if rt.Spec.LineType == axis.Dash {
			ch = runeGridHDash
		}
		for _, g := range rt.GridLines {
			y := rowFromBottom(plot, g.Pos)
			for x := plot.X; x < plot.X+plot.W; x++ {
				m.SetRuneWithStyle(canvas.Point{X: x, Y: y}, ch, r.theme.Grid)
			}
		}
	}
}

func (r *Renderer) drawAxes(m *canvas.Model, c *chart.Chart, plot chart.Area) {
	for _, rt := range c.XAxes() {
		if rt == nil || !rt.Spec.Show {
			continue
		}
		y := plot.Y + plot.H
		if rt.Spec.Position == axis.Top {
			y = plot.Y - 1
		}
		for _, tick := range rt.Ticks {
			if !tick.Visible || tick.Label == "" {
				continue
			}
			x := column(plot, tick.Pos)
			switch rt.Spec.TextAlign {
			case axis.AlignCenter:
				x -= runewidth.StringWidth(tick.Label) / 2
			case axis.AlignRight:
				x -= runewidth.StringWidth(tick.Label) - 1
			}
			m.SetStringWithStyle(canvas.Point{X: max(x, 0), Y: y}, tick.Label, r.theme.Label)
		}
	}

	for _, rt := range c.YAxes() {
		if rt == nil || !rt.Spec.Show {
			continue
		}
		for _, tick := range rt.Ticks {
			if !tick.Visible || tick.Label == "" {
				continue
			}
			y := rowFromBottom(plot, tick.Pos)
			x := plot.X - 1 - runewidth.StringWidth(tick.Label)
			if rt.Spec.Position == axis.Right || rt.Spec.TextAlign == axis.AlignInside {
				x = plot.X + plot.W + 1
				if rt.Spec.TextAlign == axis.AlignInside {
					x = plot.X
				}
			}
			if x < 0 {
				// No margin to hold the label.
				continue
			}
			m.SetStringWithStyle(canvas.Point{X: x, Y: y}, tick.Label, r.theme.Label)
		}
		if rt.Spec.Border && plot.X > 0 {
			x := plot.X - 1
			if rt.Spec.Position == axis.Right {
				x = plot.X + plot.W
			}
			for y := plot.Y; y < plot.Y+plot.H; y++ {
				m.SetRuneWithStyle(canvas.Point{X: x, Y: y}, runeGridV, r.theme.Axis)
			}
		}
	}
}

func (r *Renderer) drawSeries(m *canvas.Model, c *chart.Chart, plot chart.Area) {
	if plot.W <= 0 || plot.H <= 0 {
		return
	}
	xAxes, yAxes := c.XAxes(), c.YAxes()

	for i, s := range c.Series() {
		style := r.theme.seriesStyle(s.Color, i)
		if !s.Kind.UsesYAxis() {
			r.drawList(m, plot, s, style, i)
			continue
		}

		xa := axisAt(xAxes, s.XAxis)
		ya := axisAt(yAxes, s.YAxis)
		if xa == nil || ya == nil {
			continue
		}

		switch s.Kind {
		case series.Bar:
			if ya.Spec.IsCategory() {
				r.drawRows(m, plot, s.Data, xa, ya, style)
			} else {
				r.drawColumns(m, plot, s.Data, xa, ya, style)
			}
		case series.Line:
			r.drawBraille(m, plot, s.Data, xa, ya, style, true)
		default:
			r.drawBraille(m, plot, s.Data, xa, ya, style, false)
		}
	}
}

func axisAt(axes []*axis.Runtime, i int) *axis.Runtime {
	if i < 0 || i >= len(axes) {
		return nil
	}
	return axes[i]
}

// baseline is where bars start: zero when it is on the axis, else its
// nearest end.
func baseline(rt *axis.Runtime) float64 {
	pos := rt.Scale(series.Number(0))
	return min(max(pos, 0), 100)
}

// barHalfWidth is half the width of a bar on a category axis, in percent.
func barHalfWidth(rt *axis.Runtime) float64 {
	if rt.Segment <= 0 {
		return 0
	}
	return rt.Segment * 0.35
}

func (r *Renderer) drawColumns(
	m *canvas.Model,
	plot chart.Area,
	data []series.Point,
	xa, ya *axis.Runtime,
	style lipgloss.Style,
) {
	base := rowFromBottom(plot, baseline(ya))
	half := barHalfWidth(xa)
	for _, p := range data {
		xPos, yPos := xa.Scale(p.X), ya.Scale(p.Y)
		if math.IsNaN(xPos) || math.IsNaN(yPos) {
			continue
		}
		top := rowFromBottom(plot, yPos)
		lo, hi := min(base, top), max(base, top)
		for x := column(plot, xPos-half); x <= column(plot, xPos+half); x++ {
			for y := lo; y <= hi; y++ {
				m.SetRuneWithStyle(canvas.Point{X: x, Y: y}, runeBar, style)
			}
		}
	}
}

func (r *Renderer) drawRows(
	m *canvas.Model,
	plot chart.Area,
	data []series.Point,
	xa, ya *axis.Runtime,
	style lipgloss.Style,
) {
	base := column(plot, baseline(xa))
	for _, p := range data {
		xPos, yPos := xa.Scale(p.X), ya.Scale(p.Y)
		if math.IsNaN(xPos) || math.IsNaN(yPos) {
			continue
		}
		end := column(plot, xPos)
		y := rowFromBottom(plot, yPos)
		for x := min(base, end); x <= max(base, end); x++ {
			m.SetRuneWithStyle(canvas.Point{X: x, Y: y}, runeBar, style)
		}
	}
}

// drawBraille plots points on a braille grid spanning the plot, joining
// consecutive points when connect is set.
func (r *Renderer) drawBraille(
	m *canvas.Model,
	plot chart.Area,
	data []series.Point,
	xa, ya *axis.Runtime,
	style lipgloss.Style,
	connect bool,
) {
	grid := graph.NewBrailleGrid(plot.W, plot.H, 0, 100, 0, 100)

	var prev *canvas.Point
	for _, p := range data {
		xPos, yPos := xa.Scale(p.X), ya.Scale(p.Y)
		if math.IsNaN(xPos) || math.IsNaN(yPos) {
			prev = nil
			continue
		}
		gp := grid.GridPoint(canvas.Float64Point{X: xPos, Y: yPos})
		if connect && prev != nil {
			for _, lp := range graph.GetLinePoints(*prev, gp) {
				grid.Set(lp)
			}
		} else {
			grid.Set(gp)
		}
		prev = &gp
	}

	graph.DrawBraillePatterns(m, canvas.Point{X: plot.X, Y: plot.Y}, grid.BraillePatterns(), style)
}

// drawList writes series without axes as one labelled line per datum.
func (r *Renderer) drawList(
	m *canvas.Model,
	plot chart.Area,
	s *chart.Series,
	style lipgloss.Style,
	slot int,
) {
	x := plot.X + slot*(plot.W/2)
	for i, p := range s.Data {
		if i >= plot.H {
			break
		}
		line := p.X.String() + " " + p.Y.String()
		m.SetStringWithStyle(canvas.Point{X: x, Y: plot.Y + i}, line, style)
	}
}

// drawCursor tints the cells under a cursor, or draws a hairline.
func (r *Renderer) drawCursor(
	m *canvas.Model,
	plot chart.Area,
	vertical bool,
	ev cursor.Event,
	style lipgloss.Style,
) {
	if !ev.Visible || plot.W <= 0 || plot.H <= 0 {
		return
	}

	if ev.Hairline {
		if vertical {
			y := rowFromTop(plot, ev.Pos)
			for x := plot.X; x < plot.X+plot.W; x++ {
				r.mark(m, canvas.Point{X: x, Y: y}, runeHairlineH, style)
			}
			return
		}
		x := column(plot, ev.Pos)
		for y := plot.Y; y < plot.Y+plot.H; y++ {
			r.mark(m, canvas.Point{X: x, Y: y}, runeHairline, style)
		}
		return
	}

	if vertical {
		for y := rowFromTop(plot, ev.Pos); y <= rowFromTop(plot, ev.Pos+ev.Size-1e-9); y++ {
			for x := plot.X; x < plot.X+plot.W; x++ {
				m.SetCellStyle(canvas.Point{X: x, Y: y}, mergeStyle(m, x, y, style))
			}
		}
		return
	}
	for x := column(plot, ev.Pos); x <= column(plot, ev.Pos+ev.Size-1e-9); x++ {
		for y := plot.Y; y < plot.Y+plot.H; y++ {
			m.SetCellStyle(canvas.Point{X: x, Y: y}, mergeStyle(m, x, y, style))
		}
	}
}

// mark draws ch on empty cells and tints occupied ones.
func (r *Renderer) mark(m *canvas.Model, p canvas.Point, ch rune, style lipgloss.Style) {
	if m.Cell(p).Rune == 0 {
		m.SetRuneWithStyle(p, ch, style)
		return
	}
	m.SetCellStyle(p, mergeStyle(m, p.X, p.Y, style))
}

// mergeStyle keeps a cell's foreground under a cursor background.
func mergeStyle(m *canvas.Model, x, y int, overlay lipgloss.Style) lipgloss.Style {
	current := m.GetCellStyle(canvas.Point{X: x, Y: y})
	if current == nil {
		return overlay
	}
	return current.Inherit(overlay)
}

func (r *Renderer) drawBrush(m *canvas.Model, c *chart.Chart, plot chart.Area) {
	b := c.Brush()
	if b == nil || b.End <= b.Start {
		return
	}
	for x := column(plot, b.Start); x <= column(plot, b.End-1e-9); x++ {
		for y := plot.Y; y < plot.Y+plot.H; y++ {
			m.SetCellStyle(canvas.Point{X: x, Y: y}, mergeStyle(m, x, y, r.theme.Brush))
		}
	}
}

// drawStrip draws the zoom strip: a track across the plot width with the
// window shaded and its edges marked by handles.
func (r *Renderer) drawStrip(m *canvas.Model, c *chart.Chart) {
	strip, ok := c.Strip()
	w := c.Window()
	if !ok || w == nil || strip.W <= 0 || strip.H <= 0 {
		return
	}

	y := strip.Y + strip.H - 1
	for x := strip.X; x < strip.X+strip.W; x++ {
		m.SetRuneWithStyle(canvas.Point{X: x, Y: y}, runeGridH, r.theme.Strip)
	}

	start, end := column(strip, w.Start), column(strip, w.End)
	for x := start; x <= end; x++ {
		m.SetRuneWithStyle(canvas.Point{X: x, Y: y}, runeWindow, r.theme.Window)
	}
	m.SetRuneWithStyle(canvas.Point{X: start, Y: y}, runeHandle, r.theme.Handle)
	m.SetRuneWithStyle(canvas.Point{X: end, Y: y}, runeHandle, r.theme.Handle)
}

// drawTooltip writes the hovered values along the top of the plot.
func (r *Renderer) drawTooltip(m *canvas.Model, plot chart.Area, text string) {
	if text == "" || plot.W <= 0 {
		return
	}
	text = runewidth.Truncate(text, plot.W, "…")
	m.SetStringWithStyle(canvas.Point{X: plot.X, Y: plot.Y}, text, r.theme.Tooltip)
}

// Tooltip formats hovered data as "key  name=value  name=value", where the
// key is the coordinate along the cursor's base axis.
func Tooltip(points []cursor.HoverPoint, base axis.Orientation) string {
	if len(points) == 0 {
		return ""
	}
	key := func(p series.Point) series.Value { return p.X }
	value := func(p series.Point) series.Value { return p.Y }
	if base == axis.Vertical {
		key, value = value, key
	}

	var sb strings.Builder
	sb.WriteString(key(points[0].Point).String())
	for _, p := range points {
		sb.WriteString("  ")
		sb.WriteString(p.Name)
		sb.WriteString("=")
		sb.WriteString(value(p.Point).String())
	}
	return sb.String()
}

// Title renders a chart name for the line above the chart.
func (r *Renderer) Title(name string, width int) string {
	return r.theme.Title.Render(runewidth.Truncate(name, max(width, 0), "…"))
}
