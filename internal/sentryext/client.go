// Package sentryext reports errors from chartsync to Sentry.
package sentryext

import (
	"crypto/md5"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	lru "github.com/hashicorp/golang-lru"

	"github.com/wandb/wandb/chartsync/internal/observability/wberrors"
)

const (
	recentWindow    = 5 * time.Minute
	defaultLRUSize  = 100
	defaultFlushFor = 2 * time.Second
)

type Params struct {
	// DSN is the Sentry Data Source Name. An empty DSN disables uploads.
	DSN string

	// Disabled turns the client into a no-op even if a DSN is set.
	Disabled bool

	AttachStacktrace bool
	Release          string
	Environment      string

	// LRUSize bounds the number of distinct messages remembered for
	// deduplication.
	LRUSize int
}

// Client captures errors and messages, skipping repeats of the same
// message seen within the last few minutes.
//
// A nil *Client is valid and does nothing.
type Client struct {
	hub    *sentry.Hub
	recent *lru.Cache
}

// New initializes Sentry and returns a client.
//
// It returns nil if reporting is disabled or cannot be set up.
func New(params Params) *Client {
	if params.Disabled {
		return nil
	}

	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:              params.DSN,
		AttachStacktrace: params.AttachStacktrace,
		Release:          params.Release,
		Environment:      params.Environment,
	})
	if err != nil {
		slog.Error("sentryext: failed to initialize sentry", "err", err)
		return nil
	}

	size := params.LRUSize
	if size <= 0 {
		size = defaultLRUSize
	}
	cache, err := lru.New(size)
	if err != nil {
		slog.Error("sentryext: failed to create cache", "err", err)
		return nil
	}

	return &Client{
		hub:    sentry.NewHub(client, sentry.NewScope()),
		recent: cache,
	}
}

// shouldCapture records msg and reports whether it was not sent recently.
func (c *Client) shouldCapture(msg string) bool {
	sum := md5.Sum([]byte(msg))
	key := hex.EncodeToString(sum[:])

	now := time.Now()
	if last, ok := c.recent.Get(key); ok {
		if now.Sub(last.(time.Time)) < recentWindow {
			return false
		}
	}
	c.recent.Add(key, now)
	return true
}

// CaptureException uploads err with the given tags.
func (c *Client) CaptureException(err error, tags map[string]string) {
	if c == nil || err == nil || !c.shouldCapture(err.Error()) {
		return
	}

	hub := c.hub.Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) { scope.SetTags(tags) })
	hub.CaptureException(err)
}

// CaptureMessage uploads an informational message with the given tags.
func (c *Client) CaptureMessage(msg string, tags map[string]string) {
	if c == nil || !c.shouldCapture(msg) {
		return
	}

	hub := c.hub.Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) { scope.SetTags(tags) })
	hub.CaptureMessage(msg)
}

// Reraise captures a recovered panic value and panics with it again.
func (c *Client) Reraise(recovered any, tags map[string]string) {
	if recovered == nil {
		return
	}

	err, ok := recovered.(error)
	if !ok {
		err = wberrors.Newf("panic: %v", recovered)
	}
	c.CaptureException(err, tags)
	c.Flush(defaultFlushFor)
	panic(recovered)
}

// Flush waits up to timeout for queued events to be sent.
func (c *Client) Flush(timeout time.Duration) bool {
	if c == nil {
		return true
	}
	return c.hub.Flush(timeout)
}
