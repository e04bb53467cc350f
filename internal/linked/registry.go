// Package linked keeps independent charts consistent by forwarding cursor
// and window changes from one chart to the charts bound to it.
//
// Charts refer to each other by Handle, an index into a Registry. The
// registry does not own the charts; a handle whose chart was unregistered
// dangles and is skipped.
package linked

import (
	"sync"

	"github.com/wandb/wandb/chartsync/internal/axis"
	"github.com/wandb/wandb/chartsync/internal/cursor"
)

// Handle identifies a registered chart. The zero Handle is never issued.
type Handle int

// NoHandle is the Handle of an unbound chart.
const NoHandle Handle = 0

// CursorUpdate is a cursor change forwarded to a peer.
type CursorUpdate struct {
	Source  Handle
	Index   int
	Visible bool
	Style   cursor.Style
}

// WindowUpdate is a window change forwarded to a peer.
type WindowUpdate struct {
	Source             Handle
	MinIndex, MaxIndex int
}

// Peer is the side of a chart other charts can drive.
//
// ApplyCursor and ApplyWindow must not forward the update any further.
type Peer interface {
	// Base is the orientation of the axis the chart's cursor moves along.
	Base() axis.Orientation

	// DataLen is the number of points the chart's cursor indexes.
	DataLen() int

	ApplyCursor(CursorUpdate)
	ApplyWindow(WindowUpdate)
}

// Registry maps handles to charts.
type Registry struct {
	mu    sync.RWMutex
	peers map[Handle]Peer
	next  Handle
}

func NewRegistry() *Registry {
	return &Registry{peers: make(map[Handle]Peer)}
}

// Register adds p and returns its handle.
func (r *Registry) Register(p Peer) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	r.peers[r.next] = p
	return r.next
}

// Unregister forgets the chart behind h. Other charts' bindings to h
// dangle afterwards.
func (r *Registry) Unregister(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.peers, h)
}

// Lookup returns the chart behind h.
func (r *Registry) Lookup(h Handle) (Peer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.peers[h]
	return p, ok
}

// Len is the number of registered charts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.peers)
}
