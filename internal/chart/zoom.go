package chart

import (
	"github.com/wandb/wandb/chartsync/internal/datawindow"
	"github.com/wandb/wandb/chartsync/internal/linked"
	"github.com/wandb/wandb/chartsync/internal/observability/wberrors"
)

// PressStrip starts a zoom strip drag at container column x. It reports
// whether a handle or the window area was grabbed.
func (c *Chart) PressStrip(x float64) bool {
	strip, ok := c.Strip()
	if !ok {
		return false
	}

	px := x - float64(strip.X)
	target := c.window.HitTest(px, float64(strip.W), handleTolerance)
	if target == datawindow.TargetNone {
		return false
	}
	c.window.BeginDrag(target, px)
	return true
}

// DragStrip moves the grabbed part of the zoom strip to container column x.
func (c *Chart) DragStrip(x float64) {
	strip, ok := c.Strip()
	if !ok || !c.window.Dragging() {
		return
	}

	change, changed := c.window.DragTo(x-float64(strip.X), float64(strip.W))
	if changed {
		c.windowChanged(change)
	}
}

// ReleaseStrip ends a zoom strip drag.
func (c *Chart) ReleaseStrip() {
	if c.window == nil {
		return
	}
	if change, changed := c.window.EndDrag(); changed {
		c.windowChanged(change)
	}
}

// StripDragging reports whether a zoom strip drag is in progress.
func (c *Chart) StripDragging() bool {
	return c.window != nil && c.window.Dragging()
}

// windowChanged re-slices and lays out the chart after a committed window
// change, then notifies the callback and the window link.
func (c *Chart) windowChanged(change datawindow.Change) {
	if err := c.layout(); err != nil {
		c.logger.CaptureError(wberrors.Enrichf(err, "chart: window change"))
		return
	}
	if c.cfg.Window.OnChange != nil {
		c.cfg.Window.OnChange(change)
	}
	c.forwardWindow(change)
}

func (c *Chart) forwardWindow(change datawindow.Change) {
	if c.cfg.Links.Window == linked.NoHandle {
		return
	}
	c.broadcaster.Window(c.cfg.Links.Window, linked.WindowUpdate{
		Source:   c.handle,
		MinIndex: change.MinIndex,
		MaxIndex: change.MaxIndex,
	})
}

// ApplyWindow re-slices the chart onto indexes chosen by a linked chart.
func (c *Chart) ApplyWindow(u linked.WindowUpdate) {
	if c.window != nil {
		c.window.Select(u.MinIndex, u.MaxIndex)
	} else {
		c.external = &datawindow.Change{MinIndex: u.MinIndex, MaxIndex: u.MaxIndex}
	}

	if err := c.layout(); err != nil {
		c.logger.CaptureWarn("chart: linked window", "error", err.Error())
	}
}

// Window is the chart's data window, or nil.
func (c *Chart) Window() *datawindow.Window {
	return c.window
}

// Brush is the chart's brush selection, or nil.
func (c *Chart) Brush() *datawindow.Brush {
	return c.brush
}

// PressBrush starts a brush sweep at container column x. It reports false
// when the chart has no brush or x is off the plot.
func (c *Chart) PressBrush(x, y float64) bool {
	plot := c.Plot()
	if c.brush == nil || !plot.Contains(int(x), int(y)) {
		return false
	}
	c.brush.Begin(x-float64(plot.X), float64(plot.W))
	return true
}

// DragBrush extends the brush sweep to container column x.
func (c *Chart) DragBrush(x float64) {
	if c.brush == nil || !c.brush.Active() {
		return
	}
	plot := c.Plot()
	c.brush.Move(x-float64(plot.X), float64(plot.W))
}

// ReleaseBrush ends the brush sweep. A changed selection is reported to
// the callback and moves the brush link's data window.
func (c *Chart) ReleaseBrush() {
	if c.brush == nil {
		return
	}
	change, changed := c.brush.Finish()
	if !changed {
		return
	}

	if c.cfg.Brush.OnChange != nil {
		full := c.cfg.Series[0].FullData
		hi := min(change.MaxIndex+1, len(full))
		lo := min(change.MinIndex, hi)
		c.cfg.Brush.OnChange(BrushChange{
			Data:     full[lo:hi],
			MinIndex: change.MinIndex,
			MaxIndex: change.MaxIndex,
		})
	}
	if c.cfg.Links.Brush != linked.NoHandle {
		c.broadcaster.Window(c.cfg.Links.Brush, linked.WindowUpdate{
			Source:   c.handle,
			MinIndex: change.MinIndex,
			MaxIndex: change.MaxIndex,
		})
	}
}

// BrushActive reports whether a brush sweep is in progress.
func (c *Chart) BrushActive() bool {
	return c.brush != nil && c.brush.Active()
}
