package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	poller "github.com/radovskyb/watcher"
	"golang.org/x/sync/errgroup"

	"github.com/wandb/wandb/chartsync/internal/observability"
	"github.com/wandb/wandb/chartsync/internal/observability/wberrors"
)

const defaultPollingPeriod = 500 * time.Millisecond

// pollingWatcher polls file modification times.
//
// The poller starts with the first Watch call.
type pollingWatcher struct {
	mu       sync.Mutex
	logger   *observability.CoreLogger
	period   time.Duration
	poller   *poller.Watcher
	running  sync.WaitGroup
	onChange map[string]func()
	finished bool
}

func newPollingWatcher(params Params) *pollingWatcher {
	if params.PollingPeriod <= 0 {
		params.PollingPeriod = defaultPollingPeriod
	}
	if params.Logger == nil {
		params.Logger = observability.NewNoOpLogger()
	}

	return &pollingWatcher{
		logger:   params.Logger,
		period:   params.PollingPeriod,
		onChange: make(map[string]func()),
	}
}

func (w *pollingWatcher) Watch(path string, onChange func()) error {
	path = filepath.Clean(path)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.finished {
		return wberrors.Newf("watcher: Watch called after Finish")
	}
	if w.poller == nil {
		if err := w.start(); err != nil {
			return err
		}
	}

	if _, watched := w.onChange[path]; !watched {
		if err := w.poller.Add(path); err != nil {
			return wberrors.Enrichf(err, "watcher: adding %s", path)
		}
	}
	w.onChange[path] = onChange
	return nil
}

func (w *pollingWatcher) Unwatch(path string) {
	path = filepath.Clean(path)

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, watched := w.onChange[path]; !watched {
		return
	}
	delete(w.onChange, path)
	if err := w.poller.Remove(path); err != nil {
		w.logger.CaptureError(wberrors.Enrichf(err, "watcher: removing %s", path))
	}
}

func (w *pollingWatcher) Finish() {
	w.mu.Lock()
	w.finished = true
	p := w.poller
	w.mu.Unlock()

	if p != nil {
		p.Close()
	}
	w.running.Wait()
}

// start runs the poller and the loop dispatching its events. It returns
// once the poller is polling. Called with mu held.
func (w *pollingWatcher) start() error {
	p := poller.New()
	// Create is reported for files that already exist when Add races the
	// polling loop, so it counts as a write.
	p.FilterOps(poller.Write, poller.Create)
	w.poller = p

	grp, ctx := errgroup.WithContext(context.Background())
	w.running.Add(2)
	grp.Go(func() error {
		defer w.running.Done()
		w.dispatch(ctx, p)
		return nil
	})
	grp.Go(func() error {
		defer w.running.Done()
		return p.Start(w.period)
	})

	// Close does nothing until Start is looping, and Finish would then
	// wait forever.
	polling := make(chan struct{})
	go func() {
		p.Wait()
		close(polling)
	}()

	select {
	case <-polling:
		return nil
	case <-ctx.Done():
		if err := grp.Wait(); err != nil {
			return wberrors.Enrichf(err, "watcher: starting poller")
		}
		return nil
	}
}

// dispatch runs callbacks for poller events until the poller closes or
// fails to start.
func (w *pollingWatcher) dispatch(ctx context.Context, p *poller.Watcher) {
	for {
		select {
		case ev := <-p.Event:
			if !ev.IsDir() {
				w.notify(ev.Path)
			}

		case err := <-p.Error:
			w.logger.CaptureError(wberrors.Enrichf(err, "watcher: polling failed"))

		case <-p.Closed:
			return

		case <-ctx.Done():
			return
		}
	}
}

func (w *pollingWatcher) notify(path string) {
	w.mu.Lock()
	onChange := w.onChange[path]
	w.mu.Unlock()

	if onChange != nil {
		onChange()
	}
}
