// Package debounce coalesces bursts of change notifications.
package debounce

import (
	"sync"

	"golang.org/x/time/rate"

	"github.com/wandb/wandb/chartsync/internal/observability"
)

// Debouncer runs a function at most at a fixed rate, and only after
// something marked it as needed.
//
// It is safe for concurrent use: file watchers mark changes from their
// polling goroutine while a ticker drives Debounce.
type Debouncer struct {
	mu       sync.Mutex
	limiter  *rate.Limiter
	finished bool
	pending  bool
	logger   *observability.CoreLogger
}

func New(
	eventRate rate.Limit,
	burstSize int,
	logger *observability.CoreLogger,
) *Debouncer {
	if logger == nil {
		logger = observability.NewNoOpLogger()
	}
	return &Debouncer{
		limiter: rate.NewLimiter(eventRate, burstSize),
		logger:  logger,
	}
}

// Set marks that f should run on the next allowed Debounce.
func (d *Debouncer) Set() {
	if d == nil {
		return
	}
	d.mu.Lock()
	d.pending = true
	d.mu.Unlock()
}

// Pending reports whether a call is owed.
func (d *Debouncer) Pending() bool {
	if d == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Debounce calls f if a call is owed and the rate limiter allows it.
func (d *Debouncer) Debounce(f func()) {
	if d == nil {
		return
	}
	d.mu.Lock()
	run := !d.finished && d.pending && d.limiter.Allow()
	if run {
		d.pending = false
	}
	d.mu.Unlock()

	if run {
		f()
	}
}

// Flush calls f if a call is owed, ignoring the rate limit.
func (d *Debouncer) Flush(f func()) {
	if d == nil {
		return
	}
	d.mu.Lock()
	run := !d.finished && d.pending
	d.pending = false
	d.mu.Unlock()

	if run {
		d.logger.Debug("debounce: flushing")
		f()
	}
}

// Stop makes all future operations no-ops.
func (d *Debouncer) Stop() {
	if d == nil {
		return
	}
	d.mu.Lock()
	d.finished = true
	d.mu.Unlock()
}
