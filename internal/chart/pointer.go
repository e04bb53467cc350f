package chart

import (
	"github.com/wandb/wandb/chartsync/internal/axis"
	"github.com/wandb/wandb/chartsync/internal/cursor"
	"github.com/wandb/wandb/chartsync/internal/linked"
)

// Area is a rectangle within the chart's container, in surface units.
type Area struct {
	X, Y, W, H int
}

// Contains reports whether the container point (x, y) lies in a.
func (a Area) Contains(x, y int) bool {
	return x >= a.X && x < a.X+a.W && y >= a.Y && y < a.Y+a.H
}

// Plot is the area inside the margins, above the zoom strip.
func (c *Chart) Plot() Area {
	strip := 0
	if c.window != nil {
		strip = c.stripHeight
	}
	return Area{
		X: c.margin.Left,
		Y: c.margin.Top,
		W: max(c.bounds.Width-c.margin.Left-c.margin.Right, 0),
		H: max(c.bounds.Height-c.margin.Top-c.margin.Bottom-strip, 0),
	}
}

// Strip is the zoom strip along the bottom of the container, aligned with
// the plot. It reports false for charts without a data window.
func (c *Chart) Strip() (Area, bool) {
	if c.window == nil {
		return Area{}, false
	}
	plot := c.Plot()
	return Area{
		X: plot.X,
		Y: max(c.bounds.Height-c.stripHeight, 0),
		W: plot.W,
		H: c.stripHeight,
	}, true
}

// toPlot converts a container position into plot coordinates.
func (c *Chart) toPlot(x, y float64) (cursor.Point, cursor.Rect) {
	plot := c.Plot()
	return cursor.Point{X: x - float64(plot.X), Y: y - float64(plot.Y)},
		cursor.Rect{W: float64(plot.W), H: float64(plot.H)}
}

func (c *Chart) hoverEnabled() bool {
	return c.cursorEnabled && (c.cfg.Cursor.Hover || c.cfg.Cursor.OnHover != nil)
}

// PointerMove moves the hover cursor to the index under the container
// position (x, y) and forwards it to the hover links.
//
// Off the plot, the cursor is hidden on this chart only.
func (c *Chart) PointerMove(x, y float64) {
	if !c.hoverEnabled() {
		return
	}

	ev := c.tracker.OnPointerMove(c.toPlot(x, y))
	c.setHover(ev)
	if !ev.Visible {
		return
	}

	c.broadcaster.Cursor(c.Base(), c.cfg.Links.Hover, linked.CursorUpdate{
		Source:  c.handle,
		Index:   ev.Index,
		Visible: true,
		Style:   ev.Style,
	})
}

// PointerLeave hides the hover cursor here and on the hover links when
// the pointer left the plot.
func (c *Chart) PointerLeave(x, y float64) {
	if !c.hoverEnabled() {
		return
	}

	ev, hidden := c.tracker.OnPointerLeave(c.toPlot(x, y))
	if !hidden {
		return
	}
	c.setHover(ev)

	c.broadcaster.Cursor(c.Base(), c.cfg.Links.Hover, linked.CursorUpdate{
		Source: c.handle,
		Index:  ev.Index,
		Style:  ev.Style,
	})
}

func (c *Chart) setHover(ev cursor.Event) {
	c.hover = ev
	if !ev.Visible {
		c.hoverPoints = nil
	} else {
		c.hoverPoints = cursor.Hover(c.tracker.Layout(), ev.Index, c.seriesRefs())
	}

	if c.cfg.Cursor.OnHover != nil {
		c.cfg.Cursor.OnHover(c.hoverPoints)
	}
}

func (c *Chart) seriesRefs() []cursor.SeriesRef {
	refs := make([]cursor.SeriesRef, 0, len(c.cfg.Series))
	for _, s := range c.cfg.Series {
		ref := cursor.SeriesRef{Name: s.Name, Color: s.Color, Data: s.Data}
		if s.Kind.UsesXAxis() {
			ref.FlipX = c.cfg.XAxes[s.XAxis].Flip
		}
		if s.Kind.UsesYAxis() {
			ref.FlipY = c.cfg.YAxes[s.YAxis].Flip
		}
		refs = append(refs, ref)
	}
	return refs
}

// Click resolves the index under the container position (x, y), calls the
// click callbacks, remembers the clicked datum as the default cursor and
// forwards the click cursor to the click links.
//
// Clicks off the plot are ignored.
func (c *Chart) Click(x, y float64) {
	if !c.cursorEnabled || !c.cfg.Cursor.Click || len(c.cfg.Series) == 0 {
		return
	}

	p, plot := c.toPlot(x, y)
	ev, ok := c.tracker.OnClick(p, plot, c.cfg.Series[0].Data)
	if !ok {
		return
	}

	for _, s := range c.cfg.Series {
		if s.OnClick == nil || ev.Index >= len(s.Data) {
			continue
		}
		s.OnClick(ClickEvent{Series: s.Name, Index: ev.Index, Value: s.Data[ev.Index]})
	}
	if c.cfg.Cursor.OnClick != nil && c.tracker.Default != nil {
		c.cfg.Cursor.OnClick(ClickEvent{
			Series: c.cfg.Series[0].Name,
			Index:  ev.Index,
			Value:  *c.tracker.Default,
		})
	}

	c.click = ev
	c.broadcaster.Cursor(c.Base(), c.cfg.Links.Click, linked.CursorUpdate{
		Source:  c.handle,
		Index:   ev.Index,
		Visible: true,
		Style:   cursor.ClickStyle,
	})
}

// Base is the orientation of the axis the cursor moves along.
func (c *Chart) Base() axis.Orientation {
	return c.tracker.Layout().Base
}

// DataLen is the number of points the cursor indexes.
func (c *Chart) DataLen() int {
	return c.tracker.Layout().Length
}

// ApplyCursor shows a cursor forwarded by a linked chart.
func (c *Chart) ApplyCursor(u linked.CursorUpdate) {
	if !c.cursorEnabled {
		return
	}

	ev := c.tracker.Show(u.Index, u.Visible, u.Style)
	if u.Style == cursor.ClickStyle {
		c.click = ev
		return
	}
	c.hover = ev
}

// HoverCursor is the hover cursor to draw.
func (c *Chart) HoverCursor() cursor.Event {
	return c.hover
}

// ClickCursor is the click cursor to draw.
func (c *Chart) ClickCursor() cursor.Event {
	return c.click
}

// HoverPoints is the hovered datum of each series while the hover cursor
// is shown.
func (c *Chart) HoverPoints() []cursor.HoverPoint {
	return c.hoverPoints
}
