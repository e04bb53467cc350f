package axis

import (
	"log/slog"
	"math"

	"github.com/wandb/wandb/chartsync/internal/observability/wberrors"
	"github.com/wandb/wandb/chartsync/internal/series"
)

// Tick is one labelled position on an axis.
type Tick struct {
	Index int
	Value series.Value

	// Pos is the label anchor along the axis, in percent from the origin.
	Pos float64

	Label   string
	Visible bool
}

// GridLine is a line across the plot perpendicular to the axis.
type GridLine struct {
	Pos float64
}

// Runtime is the computed layout of one axis for one build.
type Runtime struct {
	Spec   Spec
	Values []series.Value

	// Category axes: the number of segments, the width of one segment in
	// percent and the label stride.
	Count   int
	Segment float64
	Stride  int

	// Value and time axes: the domain.
	Min, Max float64

	Ticks     []Tick
	GridLines []GridLine

	// Margin is the room this axis needs on its side of the plot.
	Margin Margin

	index map[series.Value]int
}

// ComputeLayout derives the scale, ticks, grid lines and margin of an axis
// from its spec and collected values.
//
// An axis without values has nothing to draw and yields a nil Runtime and
// a nil error. An axis placed on a side that does not match its
// orientation is a configuration error.
func ComputeLayout(spec Spec, values []series.Value, m Measurer) (*Runtime, error) {
	if err := validatePosition(spec); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}

	rt := &Runtime{Spec: spec, Values: values}

	var err error
	if spec.IsCategory() {
		rt.layoutCategory()
	} else {
		err = rt.layoutValue()
	}
	if err != nil {
		return nil, err
	}

	if spec.Show && m != nil {
		var labels []string
		for _, tick := range rt.Ticks {
			if tick.Visible {
				labels = append(labels, tick.Label)
			}
		}
		rt.Margin = labelMargin(spec.Position, labels, m)
	}

	return rt, nil
}

func validatePosition(spec Spec) error {
	switch spec.Orientation {
	case Horizontal:
		if spec.Position != Top && spec.Position != Bottom {
			return wberrors.Configf(
				"axis: x axis position must be top or bottom, got %q",
				spec.Position,
			).Attr(slog.String("position", string(spec.Position)))
		}
	case Vertical:
		if spec.Position != Left && spec.Position != Right {
			return wberrors.Configf(
				"axis: y axis position must be left or right, got %q",
				spec.Position,
			).Attr(slog.String("position", string(spec.Position)))
		}
	}
	return nil
}

func (rt *Runtime) layoutCategory() {
	spec := rt.Spec
	n := len(rt.Values)

	rt.Count = n
	if !spec.BoundaryGap {
		rt.Count--
	}
	// A single category without boundary gap still spans the plot.
	rt.Count = max(rt.Count, 1)
	rt.Segment = 100 / float64(rt.Count)

	rt.Stride = 1
	if spec.TickCount > 0 {
		rt.Stride = max(1, int(math.Ceil(float64(rt.Count)/float64(spec.TickCount))))
	}

	rt.index = make(map[series.Value]int, n)
	rt.Ticks = make([]Tick, 0, n)
	for i, v := range rt.Values {
		if _, seen := rt.index[v]; !seen {
			rt.index[v] = i
		}

		tick := Tick{
			Index:   i,
			Value:   v,
			Pos:     rt.categoryLabelPos(i),
			Visible: i%rt.Stride == 0,
		}
		if tick.Visible {
			tick.Label = rt.format(v)
		}
		rt.Ticks = append(rt.Ticks, tick)

		// The first grid line would sit on the border.
		if spec.GridLine && i > 0 && i%rt.Stride == 0 {
			rt.GridLines = append(rt.GridLines, GridLine{Pos: rt.Segment * float64(i)})
		}
	}
}

// categoryLabelPos is the label anchor of the i-th category.
//
// Vertical axes always center labels in the slot when there is a boundary
// gap; horizontal axes only do so for centered text.
func (rt *Runtime) categoryLabelPos(i int) float64 {
	pos := rt.Segment * float64(i)
	centered := rt.Spec.BoundaryGap
	if rt.Spec.Orientation == Horizontal {
		centered = centered && rt.Spec.TextAlign == AlignCenter
	}
	if centered {
		pos += rt.Segment / 2
	}
	if rt.Spec.Flip {
		pos = 100 - pos
	}
	return pos
}

func (rt *Runtime) layoutValue() error {
	spec := rt.Spec
	if spec.TickCount < 2 {
		return wberrors.Configf(
			"axis: %s axis needs at least 2 ticks, got %d",
			spec.Kind, spec.TickCount,
		)
	}

	if spec.Max != nil {
		rt.Max = *spec.Max
	} else {
		_, hi := extent(rt.Values)
		rt.Max = AutoMax(hi, spec.TickCount)
	}
	if spec.Min != nil {
		rt.Min = *spec.Min
	} else {
		rt.Min = AutoMin(spec.Kind, rt.Values)
	}

	step := (rt.Max - rt.Min) / float64(spec.TickCount-1)

	rt.Ticks = make([]Tick, 0, spec.TickCount)
	for i := range spec.TickCount {
		v := float64(i)*step + rt.Min
		tick := Tick{
			Index:   i,
			Value:   series.Number(v),
			Pos:     rt.scaleFloat(v),
			Visible: spec.TickDisplay == All || i == 0 || i == spec.TickCount-1,
		}
		if tick.Visible {
			if spec.Formatter != nil {
				tick.Label = spec.Formatter(series.Number(round2(v)))
			} else {
				tick.Label = FormatTick(v, spec.Kind)
			}
		}
		rt.Ticks = append(rt.Ticks, tick)

		// Ticks on the borders get no grid line.
		if spec.GridLine && i > 0 && i < spec.TickCount-1 {
			rt.GridLines = append(rt.GridLines, GridLine{Pos: tick.Pos})
		}
	}

	return nil
}

func (rt *Runtime) format(v series.Value) string {
	if rt.Spec.Formatter != nil {
		return rt.Spec.Formatter(v)
	}
	return v.String()
}

// scaleFloat maps a domain value linearly onto [0,100], or [100,0] when the
// axis is flipped. A degenerate domain maps everything to the range start.
func (rt *Runtime) scaleFloat(v float64) float64 {
	lo, hi := 0.0, 100.0
	if rt.Spec.Flip {
		lo, hi = hi, lo
	}

	span := rt.Max - rt.Min
	if span == 0 {
		return lo
	}
	return lo + (v-rt.Min)/span*(hi-lo)
}

// Scale maps an axis value to its position along the axis in percent from
// the origin.
//
// Category values map to the slot's data anchor: the slot center with a
// boundary gap, else the slot edge. Unknown categories map to NaN.
func (rt *Runtime) Scale(v series.Value) float64 {
	if !rt.Spec.IsCategory() {
		return rt.scaleFloat(v.Float())
	}

	i, ok := rt.index[v]
	if !ok {
		return math.NaN()
	}
	return rt.IndexPos(i)
}

// IndexPos is the data anchor of the i-th category slot.
func (rt *Runtime) IndexPos(i int) float64 {
	pos := rt.Segment * float64(i)
	if rt.Spec.BoundaryGap {
		pos += rt.Segment / 2
	}
	if rt.Spec.Flip {
		pos = 100 - pos
	}
	return pos
}

// IndexOf returns the slot index of a category value, or -1.
//
// A value of another kind matches the first slot whose label text is
// equal, so a configured "2" finds the numeric category 2.
func (rt *Runtime) IndexOf(v series.Value) int {
	if i, ok := rt.index[v]; ok {
		return i
	}
	text := v.String()
	for i, c := range rt.Values {
		if c.Numeric != v.Numeric && c.String() == text {
			return i
		}
	}
	return -1
}
