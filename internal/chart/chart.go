// Package chart ties the axis, data window and cursor engines into a chart
// instance.
//
// A chart owns the layout of its axes, its data window and its cursor
// state. Every change runs the same pipeline: slice the data through the
// window, collect axis values from the visible data, lay out the axes,
// reserve margins, and place the cursors. Changes a user makes are then
// forwarded to linked charts, which run their own pipeline without
// forwarding further.
package chart

import (
	"log/slog"

	"github.com/wandb/wandb/chartsync/internal/axis"
	"github.com/wandb/wandb/chartsync/internal/cursor"
	"github.com/wandb/wandb/chartsync/internal/datawindow"
	"github.com/wandb/wandb/chartsync/internal/linked"
	"github.com/wandb/wandb/chartsync/internal/observability"
	"github.com/wandb/wandb/chartsync/internal/observability/wberrors"
	"github.com/wandb/wandb/chartsync/internal/series"
)

// DefaultStripHeight is the room reserved under the plot for the zoom
// strip.
const DefaultStripHeight = 2

// handleTolerance is how close to a zoom strip edge a press grabs it.
const handleTolerance = 1.0

type Params struct {
	Viewport    ViewportProvider
	Measurer    axis.Measurer
	Registry    *linked.Registry
	Broadcaster *linked.Broadcaster
	Logger      *observability.CoreLogger

	// StripHeight overrides DefaultStripHeight when positive.
	StripHeight int
}

// Chart is one chart instance.
type Chart struct {
	cfg Config

	viewport    ViewportProvider
	measurer    axis.Measurer
	registry    *linked.Registry
	broadcaster *linked.Broadcaster
	logger      *observability.CoreLogger
	stripHeight int

	handle       linked.Handle
	cancelResize func()

	bounds Bounds
	xAxes  []*axis.Runtime
	yAxes  []*axis.Runtime
	margin axis.Margin

	window *datawindow.Window
	brush  *datawindow.Brush

	// external is the slice a linked chart selected for a chart without
	// a window of its own.
	external *datawindow.Change

	cursorEnabled bool
	tracker       *cursor.Tracker
	hover         cursor.Event
	click         cursor.Event
	hoverPoints   []cursor.HoverPoint
}

// New validates cfg and returns an unbuilt chart.
//
// The chart registers itself with params.Registry so that other charts can
// link to it, and follows resizes of params.Viewport.
func New(cfg Config, params Params) (*Chart, error) {
	if err := validate(cfg); err != nil {
		return nil, wberrors.Enrichf(err, "chart %q", cfg.Name)
	}

	c := &Chart{
		cfg:         cfg,
		viewport:    params.Viewport,
		measurer:    params.Measurer,
		registry:    params.Registry,
		broadcaster: params.Broadcaster,
		logger:      params.Logger,
		stripHeight: params.StripHeight,
	}
	if c.logger == nil {
		c.logger = observability.NewNoOpLogger()
	}
	c.logger = c.logger.With(slog.String("chart", cfg.Name))
	if c.stripHeight <= 0 {
		c.stripHeight = DefaultStripHeight
	}
	if c.registry == nil {
		c.registry = linked.NewRegistry()
	}
	if c.broadcaster == nil {
		c.broadcaster = linked.NewBroadcaster(c.registry, nil, c.logger)
	}

	hoverStyle := cursor.BarStyle
	for _, s := range cfg.Series {
		switch s.Kind {
		case series.Line:
			hoverStyle = cursor.LineStyle
			c.cursorEnabled = true
		case series.Bar, series.Treemap, series.ScatterPoint:
			c.cursorEnabled = true
		}
	}
	c.tracker = cursor.NewTracker(cursor.Layout{}, hoverStyle)
	if cfg.Cursor.Default != nil {
		point := *cfg.Cursor.Default
		c.tracker.Default = &point
	}

	c.handle = c.registry.Register(c)
	if c.viewport != nil {
		c.bounds = c.viewport.Bounds()
		c.cancelResize = c.viewport.OnResize(c.Resize)
	}

	return c, nil
}

// validate rejects configurations no build could succeed with.
func validate(cfg Config) error {
	if len(cfg.Series) == 0 {
		return nil
	}

	axisChart := cfg.Series[0].Kind.UsesXAxis()
	for i, s := range cfg.Series {
		if _, ok := series.ParseKind(string(s.Kind)); !ok {
			return wberrors.Configf("chart: no %q chart type", s.Kind).
				Attr(slog.Int("series", i))
		}
		if axisChart && !s.Kind.UsesXAxis() {
			return wberrors.Configf(
				"chart: %s series cannot be drawn on axes", s.Kind,
			).Attr(slog.Int("series", i))
		}
		if s.Kind.UsesXAxis() && (s.XAxis < 0 || s.XAxis >= len(cfg.XAxes)) {
			return wberrors.Configf(
				"chart: series %q references x axis %d of %d",
				s.Name, s.XAxis, len(cfg.XAxes),
			)
		}
		if s.Kind.UsesYAxis() && (s.YAxis < 0 || s.YAxis >= len(cfg.YAxes)) {
			return wberrors.Configf(
				"chart: series %q references y axis %d of %d",
				s.Name, s.YAxis, len(cfg.YAxes),
			)
		}
	}

	if w := cfg.Window; w != nil && (w.SeriesIndex < 0 || w.SeriesIndex >= len(cfg.Series)) {
		return wberrors.Configf(
			"chart: data window references series %d of %d",
			w.SeriesIndex, len(cfg.Series),
		)
	}
	return nil
}

// Handle is the chart's handle in its registry.
func (c *Chart) Handle() linked.Handle {
	return c.handle
}

// Name is the configured chart name.
func (c *Chart) Name() string {
	return c.cfg.Name
}

// SetLinks replaces the charts this chart forwards changes to.
func (c *Chart) SetLinks(links Links) {
	c.cfg.Links = links
}

// Close stops following the viewport and unregisters the chart. Links to
// it from other charts dangle afterwards.
func (c *Chart) Close() {
	if c.cancelResize != nil {
		c.cancelResize()
		c.cancelResize = nil
	}
	c.registry.Unregister(c.handle)
}

// Build derives the data window on first use, lays the chart out and
// re-slices the chart linked to the window.
//
// A configuration error aborts the build and leaves the previous layout
// in place.
func (c *Chart) Build() error {
	if err := c.initSelection(); err != nil {
		return wberrors.Enrichf(err, "chart %q", c.cfg.Name)
	}
	if c.viewport != nil {
		c.bounds = c.viewport.Bounds()
	}
	if err := c.layout(); err != nil {
		return wberrors.Enrichf(err, "chart %q", c.cfg.Name)
	}

	if c.window != nil {
		c.forwardWindow(datawindow.Change{
			MinIndex: c.window.MinIndex,
			MaxIndex: c.window.MaxIndex,
		})
	}
	if c.tracker.Default != nil && c.cfg.Cursor.Click {
		if ev, ok := c.tracker.Restore(c.baseAxis()); ok {
			c.click = ev
		}
	}
	return nil
}

// SetData replaces the full dataset of the i-th series and rebuilds. The
// data window keeps its percentages.
func (c *Chart) SetData(i int, data []series.Point) error {
	if i < 0 || i >= len(c.cfg.Series) {
		return wberrors.Newf("chart: no series %d", i)
	}
	c.cfg.Series[i].FullData = data
	return c.Build()
}

// initSelection derives the data window and the brush selection from the
// full data once there is any.
func (c *Chart) initSelection() error {
	if wc := c.cfg.Window; wc != nil {
		full := c.cfg.Series[wc.SeriesIndex].FullData
		switch {
		case c.window == nil:
			w, err := datawindow.Init(len(full), wc.Params)
			if err != nil {
				return err
			}
			c.window = w
		case len(full) > 0 && c.window.Len() != len(full):
			c.window.Resize(len(full))
		}
	}

	if bc := c.cfg.Brush; bc != nil && c.brush == nil && len(c.cfg.Series) > 0 {
		n := len(c.cfg.Series[0].FullData)
		if n == 0 {
			return nil
		}
		lo, hi := 0, n-1
		if bc.Params.Start != nil || bc.Params.End != nil {
			w, err := datawindow.Init(n, bc.Params)
			if err != nil {
				return err
			}
			lo, hi = w.MinIndex, w.MaxIndex
		}
		c.brush = datawindow.NewBrush(n, lo, hi)
	}
	return nil
}

// layout runs the build pipeline without forwarding anything to linked
// charts.
func (c *Chart) layout() error {
	c.slice()

	xAxes, yAxes, margin, err := c.layoutAxes()
	if err != nil {
		return err
	}
	c.xAxes, c.yAxes = xAxes, yAxes
	c.margin = c.cfg.FixedPadding.apply(margin)

	c.layoutCursor()
	return nil
}

func (c *Chart) slice() {
	for _, s := range c.cfg.Series {
		switch {
		case c.window != nil:
			s.Data = datawindow.Slice(c.window, s.FullData)
		case c.external != nil:
			lo := min(max(c.external.MinIndex, 0), len(s.FullData))
			hi := min(max(c.external.MaxIndex+1, lo), len(s.FullData))
			s.Data = s.FullData[lo:hi]
		default:
			s.Data = s.FullData
		}
	}
}

func (c *Chart) layoutAxes() (xAxes, yAxes []*axis.Runtime, margin axis.Margin, err error) {
	xValues, yValues := c.collect()

	xAxes = make([]*axis.Runtime, len(c.cfg.XAxes))
	for i, spec := range c.cfg.XAxes {
		rt, err := axis.ComputeLayout(spec, xValues[i], c.measurer)
		if err != nil {
			return nil, nil, margin, wberrors.Enrichf(err, "x axis %d", i)
		}
		xAxes[i] = rt
		if rt != nil {
			margin = margin.Union(rt.Margin)
		}
	}

	yAxes = make([]*axis.Runtime, len(c.cfg.YAxes))
	for i, spec := range c.cfg.YAxes {
		rt, err := axis.ComputeLayout(spec, yValues[i], c.measurer)
		if err != nil {
			return nil, nil, margin, wberrors.Enrichf(err, "y axis %d", i)
		}
		yAxes[i] = rt
		if rt != nil {
			margin = margin.Union(rt.Margin)
		}
	}

	return xAxes, yAxes, margin, nil
}

// collect gathers the visible values of every axis. Category axes get
// each distinct value once, in first-seen order; other axes get every
// value.
func (c *Chart) collect() (xValues, yValues [][]series.Value) {
	xValues = make([][]series.Value, len(c.cfg.XAxes))
	yValues = make([][]series.Value, len(c.cfg.YAxes))
	xSeen := make([]map[series.Value]struct{}, len(c.cfg.XAxes))
	ySeen := make([]map[series.Value]struct{}, len(c.cfg.YAxes))

	add := func(values [][]series.Value, seen []map[series.Value]struct{}, spec axis.Spec, i int, v series.Value) {
		if !spec.IsCategory() {
			values[i] = append(values[i], v)
			return
		}
		if seen[i] == nil {
			seen[i] = make(map[series.Value]struct{})
		}
		if _, ok := seen[i][v]; ok {
			return
		}
		seen[i][v] = struct{}{}
		values[i] = append(values[i], v)
	}

	for _, s := range c.cfg.Series {
		for _, p := range s.Data {
			if s.Kind.UsesXAxis() {
				add(xValues, xSeen, c.cfg.XAxes[s.XAxis], s.XAxis, p.X)
			}
			if s.Kind.UsesYAxis() {
				add(yValues, ySeen, c.cfg.YAxes[s.YAxis], s.YAxis, p.Y)
			}
		}
	}
	return xValues, yValues
}

func (c *Chart) layoutCursor() {
	if !c.cursorEnabled || len(c.cfg.Series) == 0 {
		return
	}
	c.tracker.SetLayout(cursor.NewLayout(
		c.cfg.XAxes,
		c.cfg.YAxes,
		len(c.cfg.Series[0].Data),
	))
	if c.hover.Visible {
		c.hover = c.tracker.Show(c.hover.Index, true, c.hover.Style)
	}
	if c.click.Visible {
		c.click = c.tracker.Show(c.click.Index, true, cursor.ClickStyle)
	}
}

// baseAxis is the first axis on the side the cursor moves along.
func (c *Chart) baseAxis() *axis.Runtime {
	runtimes := c.xAxes
	if c.tracker.Layout().Base == axis.Vertical {
		runtimes = c.yAxes
	}
	if len(runtimes) == 0 {
		return nil
	}
	return runtimes[0]
}

// Resize re-measures the chart for new container bounds. The data window
// is left alone.
func (c *Chart) Resize(b Bounds) {
	c.bounds = b
	if err := c.layout(); err != nil {
		c.logger.CaptureWarn("chart: resize", "error", err.Error())
	}
}

// XAxes are the X axis layouts of the last build. Axes without values
// are nil.
func (c *Chart) XAxes() []*axis.Runtime {
	return c.xAxes
}

// YAxes are the Y axis layouts of the last build.
func (c *Chart) YAxes() []*axis.Runtime {
	return c.yAxes
}

// Series are the chart's series with their visible data.
func (c *Chart) Series() []*Series {
	return c.cfg.Series
}

// Margin is the room reserved around the plot.
func (c *Chart) Margin() axis.Margin {
	return c.margin
}

// Bounds is the size of the chart's container.
func (c *Chart) Bounds() Bounds {
	return c.bounds
}
