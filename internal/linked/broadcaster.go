package linked

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wandb/wandb/chartsync/internal/axis"
	"github.com/wandb/wandb/chartsync/internal/observability"
)

const (
	kindCursor = "cursor"
	kindWindow = "window"

	resultApplied  = "applied"
	resultDangling = "dangling"
	resultSelf     = "self"
)

// Metrics counts forwarded updates.
type Metrics struct {
	Propagations *prometheus.CounterVec
}

// NewMetrics creates the broadcaster counters and registers them on reg.
//
// A nil reg leaves them unregistered, which tests use to read them
// directly.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Propagations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "chartsync",
				Name:      "propagations_total",
				Help:      "Cursor and window updates forwarded to linked charts.",
			},
			[]string{"kind", "result"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Propagations)
	}
	return m
}

// Broadcaster forwards updates to bound charts.
//
// It keeps no state between calls. Updates reach the listed peers only:
// peers apply them through entry points that do not forward again, so a
// pair of charts bound to each other does not loop.
type Broadcaster struct {
	registry *Registry
	metrics  *Metrics
	logger   *observability.CoreLogger
}

func NewBroadcaster(
	registry *Registry,
	metrics *Metrics,
	logger *observability.CoreLogger,
) *Broadcaster {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	if logger == nil {
		logger = observability.NewNoOpLogger()
	}
	return &Broadcaster{registry: registry, metrics: metrics, logger: logger}
}

// Cursor forwards a cursor change of a chart whose cursor moves along
// base to each of peers.
func (b *Broadcaster) Cursor(
	base axis.Orientation,
	peers []Handle,
	update CursorUpdate,
) {
	for _, h := range peers {
		peer, ok := b.resolve(kindCursor, update.Source, h)
		if !ok {
			continue
		}

		translated := update
		translated.Index = Translate(update.Index, base, peer.Base(), peer.DataLen())
		peer.ApplyCursor(translated)
		b.count(kindCursor, resultApplied)
	}
}

// Window forwards a window change to peer, which re-slices its full data
// with the same indexes. Peers clamp the indexes to their own data.
func (b *Broadcaster) Window(peer Handle, update WindowUpdate) {
	p, ok := b.resolve(kindWindow, update.Source, peer)
	if !ok {
		return
	}

	p.ApplyWindow(update)
	b.count(kindWindow, resultApplied)
}

func (b *Broadcaster) resolve(kind string, source, h Handle) (Peer, bool) {
	if h == source {
		b.count(kind, resultSelf)
		return nil, false
	}

	p, ok := b.registry.Lookup(h)
	if !ok {
		b.count(kind, resultDangling)
		b.logger.Debug(
			"linked: skipping unregistered peer",
			"kind", kind,
			slog.Int("source", int(source)),
			slog.Int("peer", int(h)),
		)
		return nil, false
	}
	return p, true
}

func (b *Broadcaster) count(kind, result string) {
	b.metrics.Propagations.WithLabelValues(kind, result).Inc()
}

// Translate maps a cursor index between charts.
//
// Charts whose cursors move along different axes count slots from
// opposite ends, so the index is mirrored over the peer's last index.
// The result is clamped to the peer's data.
func Translate(index int, from, to axis.Orientation, peerLen int) int {
	if peerLen <= 0 {
		return index
	}
	last := peerLen - 1
	if from != to {
		index = last - index
	}
	return min(max(index, 0), last)
}
