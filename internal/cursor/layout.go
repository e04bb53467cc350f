// Package cursor turns pointer positions on a chart's plot area into data
// indexes and describes the cursor drawn at an index.
//
// Positions are in percent of the plot area, measured in screen order: from
// the left edge along X and from the top edge along Y.
package cursor

import (
	"math"

	"github.com/wandb/wandb/chartsync/internal/axis"
)

// Style is the look of a cursor.
type Style int

const (
	// BarStyle fills the hovered slot.
	BarStyle Style = iota
	// LineStyle is a hairline through the hovered point.
	LineStyle
	// ClickStyle marks the clicked slot.
	ClickStyle
)

func (s Style) String() string {
	switch s {
	case LineStyle:
		return "line-hover-cursor"
	case ClickStyle:
		return "chart-cursor"
	default:
		return "hover-cursor"
	}
}

// Point is a pointer position relative to the top-left corner of the plot.
type Point struct {
	X, Y float64
}

// Rect is the size of the plot area in surface units.
type Rect struct {
	W, H float64
}

// Contains reports whether p lies on the plot area, borders included.
func (r Rect) Contains(p Point) bool {
	return p.X >= 0 && p.X <= r.W && p.Y >= 0 && p.Y <= r.H
}

// Layout is how a chart's data indexes are spread along its base axis.
type Layout struct {
	// Base is the axis the cursor moves along: the Y axis when a Y axis is
	// categorical and the first X axis is not, else the X axis.
	Base axis.Orientation

	// BoundaryGap and Flip are those of the first axis on the base side.
	BoundaryGap bool
	Flip        bool

	// Length is the number of data points on the base axis.
	Length int
}

// NewLayout derives the cursor layout of a chart from its axes and the
// number of visible points of its first series.
func NewLayout(xAxes, yAxes []axis.Spec, length int) Layout {
	l := Layout{Base: axis.Horizontal, Length: length}
	xCategory := len(xAxes) > 0 && xAxes[0].IsCategory()
	for _, spec := range yAxes {
		if spec.IsCategory() && !xCategory {
			l.Base = axis.Vertical
			break
		}
	}

	base := xAxes
	if l.Base == axis.Vertical {
		base = yAxes
	}
	if len(base) > 0 {
		l.BoundaryGap = base[0].BoundaryGap
		l.Flip = base[0].Flip
	} else {
		l.BoundaryGap = true
	}
	return l
}

// Segment is the width of one index slot in percent of the plot.
func (l Layout) Segment() float64 {
	n := l.Length
	if !l.BoundaryGap {
		n--
	}
	if n <= 0 {
		return 100
	}
	return 100 / float64(n)
}

// IndexAt resolves the data index under p on a plot of the given size.
//
// It reports false when p is off the plot or there is no data. Without a
// boundary gap, points are on slot edges and the pointer snaps to the
// nearest one.
func (l Layout) IndexAt(p Point, plot Rect) (int, bool) {
	if l.Length <= 0 || !plot.Contains(p) {
		return 0, false
	}

	var pos float64
	if l.Base == axis.Vertical {
		if plot.H <= 0 {
			return 0, false
		}
		pos = p.Y / plot.H * 100
	} else {
		if plot.W <= 0 {
			return 0, false
		}
		pos = p.X / plot.W * 100
	}

	raw := math.Abs(pos) / l.Segment()
	if !l.BoundaryGap {
		raw += 0.5
	}
	return min(max(int(raw), 0), l.Length-1), true
}

// Geometry is the extent of a cursor along the base axis, in percent of
// the plot in screen order.
type Geometry struct {
	Pos  float64
	Size float64

	// Hairline cursors have no width and are drawn as a single line at Pos.
	Hairline bool
}

// Geometry places a cursor of the given style at index i.
func (l Layout) Geometry(i int, style Style) Geometry {
	seg := l.Segment()
	pos := seg * float64(i)

	switch {
	case style == LineStyle && l.BoundaryGap:
		return Geometry{Pos: pos + seg/2, Hairline: true}
	case !l.BoundaryGap:
		return Geometry{Pos: pos, Hairline: true}
	default:
		return Geometry{Pos: pos, Size: seg}
	}
}
