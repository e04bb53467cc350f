package datawindow

import "math"

// Target is the part of the zoom strip a drag grabbed.
type Target int

const (
	TargetNone Target = iota
	TargetStart
	TargetEnd
	TargetArea
)

type dragState struct {
	target Target

	// Pointer position and window edges when the drag began.
	anchorPx float64
	startPct float64
	endPct   float64
}

// HitTest returns what a press at px on a strip stripPx wide grabs.
//
// Handles are grabbed within tolerancePx of an edge. The area between them
// can only be grabbed on fixed windows.
func (w *Window) HitTest(px, stripPx, tolerancePx float64) Target {
	if stripPx <= 0 {
		return TargetNone
	}
	startPx := w.Start / 100 * stripPx
	endPx := w.End / 100 * stripPx

	switch {
	case math.Abs(px-startPx) <= tolerancePx && math.Abs(px-startPx) <= math.Abs(px-endPx):
		return TargetStart
	case math.Abs(px-endPx) <= tolerancePx:
		return TargetEnd
	case w.Kind == Fixed && px > startPx && px < endPx:
		return TargetArea
	default:
		return TargetNone
	}
}

// BeginDrag starts dragging target from pointer position px.
func (w *Window) BeginDrag(target Target, px float64) {
	w.drag = dragState{
		target:   target,
		anchorPx: px,
		startPct: w.Start,
		endPct:   w.End,
	}
}

// Dragging reports whether a drag is in progress.
func (w *Window) Dragging() bool {
	return w.drag.target != TargetNone
}

// DragTo moves the grabbed part to pointer position px on a strip stripPx
// wide.
//
// Edges are quantised to whole rows and clamped so that the window stays
// inside the strip and at least one row wide. Live windows commit at once;
// the returned flag reports whether the indexes changed.
func (w *Window) DragTo(px, stripPx float64) (Change, bool) {
	if !w.Dragging() || stripPx <= 0 {
		return Change{MinIndex: w.MinIndex, MaxIndex: w.MaxIndex}, false
	}

	slot := w.SlotPct()
	pct := w.quantize(px / stripPx * 100)
	span := w.drag.endPct - w.drag.startPct

	if w.Kind == Fixed {
		var start float64
		switch w.drag.target {
		case TargetStart:
			start = pct
		case TargetEnd:
			start = pct - span
		case TargetArea:
			start = w.drag.startPct + w.quantize((px-w.drag.anchorPx)/stripPx*100)
		}
		// The last row of the window must stay inside the dataset.
		w.Start = clamp(start, 0, 100-float64(w.Width)*slot)
		w.End = w.Start + span
	} else {
		switch w.drag.target {
		case TargetStart:
			w.Start = clamp(pct, 0, w.End-slot)
		case TargetEnd:
			w.End = clamp(pct, w.Start+slot, 100)
		}
	}

	if w.Refresh == Live {
		return w.Commit()
	}
	return Change{MinIndex: w.MinIndex, MaxIndex: w.MaxIndex}, false
}

// EndDrag finishes a drag. Windows refreshed on release commit here.
func (w *Window) EndDrag() (Change, bool) {
	if !w.Dragging() {
		return Change{MinIndex: w.MinIndex, MaxIndex: w.MaxIndex}, false
	}
	w.drag = dragState{}

	if w.Refresh == OnRelease {
		return w.Commit()
	}
	return Change{MinIndex: w.MinIndex, MaxIndex: w.MaxIndex}, false
}

// quantize rounds a percentage to a whole number of rows.
func (w *Window) quantize(pct float64) float64 {
	slot := w.SlotPct()
	return math.Round(pct/slot) * slot
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
