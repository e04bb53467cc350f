package chartconfig

import (
	"github.com/wandb/wandb/chartsync/internal/axis"
	"github.com/wandb/wandb/chartsync/internal/chart"
	"github.com/wandb/wandb/chartsync/internal/linked"
	"github.com/wandb/wandb/chartsync/internal/series"
)

// Engine converts c to a chart configuration.
//
// data returns the points of a named source. Links are left empty: they
// refer to charts by handle, which only exist once every chart is
// created. See Links.
func (c Chart) Engine(data func(source string) []series.Point) chart.Config {
	cfg := chart.Config{Name: c.Name}

	for _, a := range c.XAxes {
		cfg.XAxes = append(cfg.XAxes, a.Spec(axis.Horizontal))
	}
	for _, a := range c.YAxes {
		cfg.YAxes = append(cfg.YAxes, a.Spec(axis.Vertical))
	}

	for _, s := range c.Series {
		kind, _ := series.ParseKind(s.Kind)
		cfg.Series = append(cfg.Series, &chart.Series{
			Name:     s.Name,
			Kind:     kind,
			Color:    s.Color,
			XAxis:    s.XAxis,
			YAxis:    s.YAxis,
			FullData: data(s.Source),
		})
	}

	if c.Window != nil {
		cfg.Window = &chart.WindowConfig{Params: c.Window.Params()}
	}
	if c.Brush != nil {
		cfg.Brush = &chart.BrushConfig{Params: c.Brush.Params()}
	}

	cfg.Cursor = chart.CursorConfig{
		Hover: c.Cursor.Hover || c.Cursor.HoverText,
		Click: c.Cursor.Click,
	}
	if c.Cursor.Default != "" {
		// Row charts key the cursor by Y, column charts by X.
		v := series.Category(c.Cursor.Default)
		cfg.Cursor.Default = &series.Point{X: v, Y: v}
	}

	if c.Pad != nil {
		cfg.FixedPadding = chart.Padding{
			Top:    c.Pad.Top,
			Right:  c.Pad.Right,
			Bottom: c.Pad.Bottom,
			Left:   c.Pad.Left,
		}
	}
	return cfg
}

// Links resolves the chart names c links to.
//
// Names missing from handles resolve to linked.NoHandle, which the
// broadcaster skips.
func (c Chart) Links(handles map[string]linked.Handle) chart.Links {
	var links chart.Links
	for _, name := range c.Cursor.HoverPeers {
		links.Hover = append(links.Hover, handles[name])
	}
	for _, name := range c.Cursor.ClickPeers {
		links.Click = append(links.Click, handles[name])
	}
	if c.Window != nil && c.Window.Bind != "" {
		links.Window = handles[c.Window.Bind]
	}
	if c.Brush != nil && c.Brush.Bind != "" {
		links.Brush = handles[c.Brush.Bind]
	}
	return links
}
