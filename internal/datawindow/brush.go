package datawindow

import "math"

// Brush is a range selection swept with the pointer across a bar chart
// that overviews a whole dataset.
//
// The swept area is widened to whole bars. A change is reported once, when
// the sweep ends, and only if the selected indexes differ from those before
// the sweep.
type Brush struct {
	Start, End         float64
	MinIndex, MaxIndex int

	length int

	active           bool
	anchorPct        float64
	lastMin, lastMax int
}

// NewBrush returns a brush over length bars selecting [minIndex, maxIndex].
func NewBrush(length, minIndex, maxIndex int) *Brush {
	b := &Brush{length: max(length, 1)}
	b.MinIndex = clampIndex(minIndex, b.length)
	b.MaxIndex = max(clampIndex(maxIndex, b.length), b.MinIndex)
	b.Start = float64(b.MinIndex) * b.slot()
	b.End = float64(b.MaxIndex+1) * b.slot()
	return b
}

func (b *Brush) slot() float64 {
	return 100 / float64(b.length)
}

// Active reports whether a sweep is in progress.
func (b *Brush) Active() bool {
	return b.active
}

// Begin starts a sweep at pointer position px on a plot plotPx wide.
func (b *Brush) Begin(px, plotPx float64) {
	b.active = true
	b.lastMin, b.lastMax = b.MinIndex, b.MaxIndex
	b.anchorPct = toPct(px, plotPx)
}

// Move extends the sweep to px and returns the provisional selection.
func (b *Brush) Move(px, plotPx float64) Change {
	if !b.active {
		return Change{MinIndex: b.MinIndex, MaxIndex: b.MaxIndex}
	}

	b.Start, b.End = b.anchorPct, toPct(px, plotPx)
	if b.End < b.Start {
		b.Start, b.End = b.End, b.Start
	}

	wide := b.slot()
	area := b.End - b.Start
	if area != 0 {
		area = math.Ceil(max(area, wide)/wide-1e-9) * wide
	}
	b.End = b.Start + area

	n := float64(b.length)
	b.MinIndex = clampIndex(floorIndex(n*b.Start/100), b.length)
	b.MaxIndex = clampIndex(floorIndex((n-1)*b.End/100), b.length)
	b.MaxIndex = max(b.MaxIndex, b.MinIndex)

	return Change{MinIndex: b.MinIndex, MaxIndex: b.MaxIndex}
}

// Finish ends the sweep and reports whether the selection changed.
func (b *Brush) Finish() (Change, bool) {
	change := Change{MinIndex: b.MinIndex, MaxIndex: b.MaxIndex}
	if !b.active {
		return change, false
	}
	b.active = false

	// Snap the drawn area to the selected bars.
	b.Start = float64(b.MinIndex) * b.slot()
	b.End = float64(b.MaxIndex+1) * b.slot()

	return change, b.MinIndex != b.lastMin || b.MaxIndex != b.lastMax
}

// toPct converts a pointer position to a percentage of the plot, clamped
// to the plot.
func toPct(px, plotPx float64) float64 {
	if plotPx <= 0 {
		return 0
	}
	return clamp(px, 0, plotPx) / plotPx * 100
}
