// Package axis computes scales, ticks, grid lines and label margins for
// chart axes.
//
// Positions along an axis are percentages of the plot area measured from
// the axis origin: the left edge for horizontal axes and the bottom edge
// for vertical axes.
package axis

import (
	"github.com/wandb/wandb/chartsync/internal/series"
)

// Kind is the scale type of an axis.
type Kind string

const (
	Category Kind = "category"
	Value    Kind = "value"
	Time     Kind = "time"
)

// Orientation tells whether an axis is an X (horizontal) or Y (vertical) axis.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "Y"
	}
	return "X"
}

// Position is the side of the plot an axis is drawn on.
type Position string

const (
	Top    Position = "top"
	Bottom Position = "bottom"
	Left   Position = "left"
	Right  Position = "right"
)

// LineType is the stroke style of axis and grid lines.
type LineType string

const (
	Solid LineType = "solid"
	Dash  LineType = "dash"
)

// TickDisplay selects which value-axis tick labels are printed.
type TickDisplay string

const (
	// Ends prints only the first and last labels.
	Ends TickDisplay = "end"
	// All prints every label.
	All TickDisplay = "all"
)

// TextAlign anchors labels relative to their tick.
//
// The empty value centers X labels in their category slot.
type TextAlign string

const (
	AlignCenter TextAlign = ""
	AlignLeft   TextAlign = "left"
	AlignRight  TextAlign = "right"
	AlignInside TextAlign = "inside"
)

// Formatter renders a tick label.
//
// Category axes pass the category value; value and time axes pass the tick
// value rounded to two decimals.
type Formatter func(v series.Value) string

// Spec is the configuration of one axis slot.
type Spec struct {
	Orientation Orientation
	Kind        Kind
	Position    Position

	// TickCount is the number of value-axis ticks, or the maximum number of
	// labelled category slots. Zero on a category axis labels every slot.
	TickCount int

	BoundaryGap bool
	Flip        bool
	Show        bool
	GridLine    bool
	Border      bool
	LineType    LineType
	TickDisplay TickDisplay
	TextAlign   TextAlign

	// Min and Max fix the value-axis domain. Nil bounds are inferred.
	Min, Max *float64

	Formatter Formatter
}

// DefaultTickCount is the tick count of value and time axes.
const DefaultTickCount = 5

// NewX returns the default horizontal axis: categories along the bottom.
func NewX() Spec {
	return Spec{
		Orientation: Horizontal,
		Kind:        Category,
		Position:    Bottom,
		BoundaryGap: true,
		Show:        true,
		GridLine:    true,
		Border:      true,
		LineType:    Solid,
		TickDisplay: Ends,
	}
}

// NewY returns the default vertical axis: values along the left.
func NewY() Spec {
	return Spec{
		Orientation: Vertical,
		Kind:        Value,
		Position:    Left,
		TickCount:   DefaultTickCount,
		BoundaryGap: true,
		Show:        true,
		GridLine:    true,
		Border:      true,
		LineType:    Solid,
		TickDisplay: Ends,
	}
}

// IsCategory reports whether the axis is index-anchored.
func (s Spec) IsCategory() bool {
	return s.Kind == Category
}
