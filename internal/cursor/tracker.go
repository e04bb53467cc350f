package cursor

import (
	"github.com/wandb/wandb/chartsync/internal/axis"
	"github.com/wandb/wandb/chartsync/internal/series"
)

// Event describes a cursor to draw, or to hide when Visible is false.
type Event struct {
	Index   int
	Visible bool
	Style   Style
	Geometry
}

// Tracker follows the pointer over one chart.
//
// It holds the last resolved index, whether the hover cursor is shown and
// the default cursor persisted by the last click.
type Tracker struct {
	layout     Layout
	hoverStyle Style

	LastIndex int
	Visible   bool

	// Default is the data point of the last click. It survives rebuilds and
	// is shown again by Restore.
	Default *series.Point
}

// NewTracker returns a tracker drawing hover cursors in hoverStyle.
func NewTracker(layout Layout, hoverStyle Style) *Tracker {
	return &Tracker{layout: layout, hoverStyle: hoverStyle}
}

// Layout returns the layout the tracker resolves positions with.
func (t *Tracker) Layout() Layout {
	return t.layout
}

// SetLayout replaces the layout after a rebuild. The default cursor is
// kept.
func (t *Tracker) SetLayout(layout Layout) {
	t.layout = layout
	if t.LastIndex >= layout.Length {
		t.LastIndex = max(layout.Length-1, 0)
	}
}

// HoverStyle is the style of hover cursors.
func (t *Tracker) HoverStyle() Style {
	return t.hoverStyle
}

// OnPointerMove resolves the index under p and shows the hover cursor
// there. Off the plot, the cursor is hidden.
func (t *Tracker) OnPointerMove(p Point, plot Rect) Event {
	i, ok := t.layout.IndexAt(p, plot)
	if !ok {
		t.Visible = false
		return t.event(t.LastIndex, false, t.hoverStyle)
	}
	t.LastIndex = i
	t.Visible = true
	return t.event(i, true, t.hoverStyle)
}

// OnPointerLeave hides the hover cursor when p is off the plot. It reports
// whether the cursor was hidden.
func (t *Tracker) OnPointerLeave(p Point, plot Rect) (Event, bool) {
	if plot.Contains(p) {
		return t.event(t.LastIndex, t.Visible, t.hoverStyle), false
	}
	t.Visible = false
	return t.event(t.LastIndex, false, t.hoverStyle), true
}

// OnClick resolves the clicked index and persists the point of first at
// that index as the default cursor. Clicks off the plot are ignored.
//
// Repeated clicks on the same index are reported every time.
func (t *Tracker) OnClick(p Point, plot Rect, first []series.Point) (Event, bool) {
	i, ok := t.layout.IndexAt(p, plot)
	if !ok {
		return Event{}, false
	}
	if i < len(first) {
		point := first[i]
		t.Default = &point
	}
	return t.event(i, true, ClickStyle), true
}

// Restore looks up the default cursor among the values of the base axis
// and reports the click cursor to show there.
func (t *Tracker) Restore(base *axis.Runtime) (Event, bool) {
	if t.Default == nil || base == nil {
		return Event{}, false
	}

	key := t.Default.X
	if t.layout.Base == axis.Vertical {
		key = t.Default.Y
	}
	i := base.IndexOf(key)
	if i < 0 {
		return Event{}, false
	}
	return t.event(i, true, ClickStyle), true
}

// Show describes a cursor at index i that did not come from this chart's
// pointer, clamping i to the chart's data.
func (t *Tracker) Show(i int, visible bool, style Style) Event {
	if t.layout.Length > 0 {
		i = min(max(i, 0), t.layout.Length-1)
	}
	if style != ClickStyle {
		style = t.hoverStyle
		t.LastIndex = i
		t.Visible = visible
	}
	return t.event(i, visible, style)
}

func (t *Tracker) event(i int, visible bool, style Style) Event {
	return Event{
		Index:    i,
		Visible:  visible,
		Style:    style,
		Geometry: t.layout.Geometry(i, style),
	}
}
