// Package datawindow selects the contiguous index range of a dataset that
// a chart renders, and keeps it consistent while the user drags it.
//
// A window is expressed both as percentages of the full dataset
// (Start, End) and as inclusive indexes (MinIndex, MaxIndex). Two of
// {Start, End, Width} are given at configuration time and the third is
// derived.
package datawindow

import (
	"log/slog"
	"math"

	"github.com/wandb/wandb/chartsync/internal/observability/wberrors"
)

// Kind tells how the window reacts to handle drags.
type Kind string

const (
	// Fixed windows keep their width: dragging either edge moves both.
	Fixed Kind = "fixed"
	// Scalable windows move each edge independently.
	Scalable Kind = "scalable"
)

// Refresh tells when drags are committed.
type Refresh string

const (
	// Live commits on every drag step.
	Live Refresh = "live"
	// OnRelease commits once when the drag ends.
	OnRelease Refresh = "end"
)

// Params configures a window. Nil fields are omitted.
type Params struct {
	// SeriesIndex is the series whose length defines the window.
	SeriesIndex int

	Kind    Kind
	Refresh Refresh

	Start *float64
	End   *float64
	Width *int
}

// Change reports the indexes of a committed window.
type Change struct {
	MinIndex, MaxIndex int
}

// Window is the visible range of a dataset.
type Window struct {
	SeriesIndex int
	Kind        Kind
	Refresh     Refresh

	// Start and End are percentages of the full dataset.
	Start, End float64

	// Width is the number of rows a fixed window spans.
	Width int

	MinIndex, MaxIndex int

	length int
	drag   dragState
}

// Init derives a window over a dataset of fullLength rows.
//
// It returns a nil window for an empty dataset.
//
// When both Start and End are given, the end index is taken from
// (fullLength-1) while the start index is taken from fullLength; the two
// single-edge forms use fullLength throughout.
func Init(fullLength int, p Params) (*Window, error) {
	if p.Start != nil && p.End != nil && *p.Start > *p.End {
		return nil, wberrors.Configf(
			"datawindow: start %v is after end %v", *p.Start, *p.End,
		).Attr(slog.Float64("start", *p.Start)).
			Attr(slog.Float64("end", *p.End))
	}
	if p.Start == nil && p.End == nil {
		return nil, wberrors.Configf("datawindow: start or end is required")
	}
	if (p.Start == nil || p.End == nil) && p.Width == nil {
		return nil, wberrors.Configf(
			"datawindow: width is required when start or end is omitted")
	}
	if fullLength <= 0 {
		return nil, nil
	}

	w := &Window{
		SeriesIndex: p.SeriesIndex,
		Kind:        p.Kind,
		Refresh:     p.Refresh,
		length:      fullLength,
	}
	if w.Kind == "" {
		w.Kind = Scalable
	}
	if w.Refresh == "" {
		w.Refresh = Live
	}

	n := float64(fullLength)
	switch {
	case p.End == nil:
		w.Width = clampWidth(*p.Width, fullLength)
		w.MinIndex = clampIndex(floorIndex(n*(*p.Start)/100), fullLength)
		w.MaxIndex = w.MinIndex + w.Width - 1
		if w.MaxIndex > fullLength-1 {
			// Slide back so the window keeps its width.
			w.MaxIndex = fullLength - 1
			w.MinIndex = w.MaxIndex - w.Width + 1
		}
		w.Start = float64(w.MinIndex) / n * 100
		w.End = float64(w.MaxIndex) / n * 100

	case p.Start == nil:
		w.Width = clampWidth(*p.Width, fullLength)
		w.MaxIndex = clampIndex(floorIndex(n*(*p.End)/100), fullLength)
		w.MinIndex = max(w.MaxIndex-w.Width, 0)
		w.Start = float64(w.MinIndex) / n * 100
		w.End = *p.End

	default:
		w.Start = *p.Start
		w.End = *p.End
		w.MinIndex = clampIndex(floorIndex(n*w.Start/100), fullLength)
		w.MaxIndex = clampIndex(floorIndex((n-1)*w.End/100), fullLength)
		w.MaxIndex = max(w.MaxIndex, w.MinIndex)
		w.Width = w.MaxIndex - w.MinIndex + 1
	}

	w.Start = clampPct(w.Start)
	w.End = clampPct(max(w.End, w.Start))
	return w, nil
}

// Len is the length of the dataset the window was derived for.
func (w *Window) Len() int {
	return w.length
}

// Count is the number of visible rows.
func (w *Window) Count() int {
	return w.MaxIndex - w.MinIndex + 1
}

// SlotPct is the width of one row in percent of the full dataset.
func (w *Window) SlotPct() float64 {
	return 100 / float64(w.length)
}

// Resize adapts the window to a dataset of a new length, keeping its
// percentages. It reports the new indexes.
func (w *Window) Resize(fullLength int) Change {
	if fullLength <= 0 {
		return Change{MinIndex: w.MinIndex, MaxIndex: w.MaxIndex}
	}
	w.length = fullLength
	w.Width = clampWidth(w.Width, fullLength)
	w.MinIndex = -1 // force recomputation
	change, _ := w.Commit()
	return change
}

// Commit recomputes the indexes from the current percentages.
//
// Fixed windows keep their width; scalable windows follow End. It reports
// whether the indexes changed.
func (w *Window) Commit() (Change, bool) {
	n := float64(w.length)

	lo := clampIndex(floorIndex(n*w.Start/100), w.length)
	var hi int
	if w.Kind == Fixed {
		hi = lo + w.Width - 1
	} else {
		hi = floorIndex(n * w.End / 100)
	}
	hi = max(clampIndex(hi, w.length), lo)

	if lo == w.MinIndex && hi == w.MaxIndex {
		return Change{MinIndex: lo, MaxIndex: hi}, false
	}

	w.MinIndex, w.MaxIndex = lo, hi
	if w.Kind != Fixed {
		w.Width = hi - lo + 1
	}
	return Change{MinIndex: lo, MaxIndex: hi}, true
}

// Select moves the window onto the given indexes, as when a linked chart
// drives it, and derives the percentages back from them.
func (w *Window) Select(minIndex, maxIndex int) Change {
	w.MinIndex = clampIndex(minIndex, w.length)
	w.MaxIndex = max(clampIndex(maxIndex, w.length), w.MinIndex)
	w.Width = w.Count()

	n := float64(w.length)
	w.Start = float64(w.MinIndex) / n * 100
	w.End = float64(w.MaxIndex) / n * 100
	return Change{MinIndex: w.MinIndex, MaxIndex: w.MaxIndex}
}

// Slice returns the visible part of full.
//
// The result shares full's backing array.
func Slice[T any](w *Window, full []T) []T {
	if w == nil {
		return full
	}
	lo := min(w.MinIndex, len(full))
	hi := min(w.MaxIndex+1, len(full))
	if lo >= hi {
		return full[:0]
	}
	return full[lo:hi]
}

// floorIndex truncates x, tolerating floating-point error just below an
// integer.
func floorIndex(x float64) int {
	return int(math.Floor(x + 1e-9))
}

func clampIndex(i, length int) int {
	return min(max(i, 0), length-1)
}

func clampWidth(width, length int) int {
	return min(max(width, 1), length)
}

func clampPct(p float64) float64 {
	return min(max(p, 0), 100)
}
