package render

import (
	"sync"

	"github.com/wandb/wandb/chartsync/internal/chart"
)

// Viewport is a chart container inside the terminal window.
//
// The TUI resizes it on every window size change, and the charts that
// observe it re-measure themselves.
type Viewport struct {
	mu        sync.Mutex
	bounds    chart.Bounds
	listeners map[int]func(chart.Bounds)
	next      int
}

func NewViewport(b chart.Bounds) *Viewport {
	return &Viewport{bounds: b, listeners: make(map[int]func(chart.Bounds))}
}

func (v *Viewport) Bounds() chart.Bounds {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.bounds
}

func (v *Viewport) OnResize(fn func(chart.Bounds)) (cancel func()) {
	v.mu.Lock()
	defer v.mu.Unlock()

	id := v.next
	v.next++
	v.listeners[id] = fn
	return func() {
		v.mu.Lock()
		delete(v.listeners, id)
		v.mu.Unlock()
	}
}

// SetBounds resizes the viewport and notifies observers if the size
// changed.
func (v *Viewport) SetBounds(b chart.Bounds) {
	v.mu.Lock()
	if v.bounds == b {
		v.mu.Unlock()
		return
	}
	v.bounds = b
	listeners := make([]func(chart.Bounds), 0, len(v.listeners))
	for _, fn := range v.listeners {
		listeners = append(listeners, fn)
	}
	v.mu.Unlock()

	for _, fn := range listeners {
		fn(b)
	}
}
