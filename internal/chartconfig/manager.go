package chartconfig

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/time/rate"

	"github.com/wandb/wandb/chartsync/internal/debounce"
	"github.com/wandb/wandb/chartsync/internal/observability"
	"github.com/wandb/wandb/chartsync/internal/observability/wberrors"
	"github.com/wandb/wandb/chartsync/internal/watcher"
)

const (
	defaultReloadInterval = 250 * time.Millisecond
	tickInterval          = 50 * time.Millisecond
)

type ManagerParams struct {
	Fs     afero.Fs
	Path   string
	Logger *observability.CoreLogger

	// Watcher reports edits to the document and its sources. Without it
	// the document is only reloaded on demand.
	Watcher watcher.Watcher

	// ReloadInterval is the minimum time between automatic reloads.
	ReloadInterval time.Duration

	// OnReload receives every successfully reloaded document.
	OnReload func(*Config)
}

// Manager holds the current chart document and reloads it when it or one
// of its sources changes.
//
// A document that fails to load is reported and the previous one is kept.
type Manager struct {
	mu     sync.RWMutex
	config *Config

	fs       afero.Fs
	path     string
	logger   *observability.CoreLogger
	watcher  watcher.Watcher
	onReload func(*Config)

	// watchMu guards watched, the paths handed to the watcher. It is nil
	// until Watch.
	watchMu sync.Mutex
	watched map[string]struct{}

	debouncer *debounce.Debouncer
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewManager loads the document at params.Path.
func NewManager(params ManagerParams) (*Manager, error) {
	if params.Fs == nil {
		params.Fs = afero.NewOsFs()
	}
	if params.Logger == nil {
		params.Logger = observability.NewNoOpLogger()
	}
	if params.ReloadInterval <= 0 {
		params.ReloadInterval = defaultReloadInterval
	}

	cfg, err := Load(params.Fs, params.Path)
	if err != nil {
		return nil, err
	}

	return &Manager{
		config:    cfg,
		fs:        params.Fs,
		path:      params.Path,
		logger:    params.Logger.With("config", params.Path),
		watcher:   params.Watcher,
		onReload:  params.OnReload,
		debouncer: debounce.New(rate.Every(params.ReloadInterval), 1, params.Logger),
	}, nil
}

// Config returns the current document. Callers must not modify it.
func (m *Manager) Config() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// Reload reads the document again and makes it current.
//
// Once watching, sources added to the document are watched from then on
// and removed ones are dropped.
func (m *Manager) Reload() (*Config, error) {
	cfg, err := Load(m.fs, m.path)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.config = cfg
	m.mu.Unlock()

	if err := m.syncWatches(cfg, false); err != nil {
		m.logger.CaptureError(err)
	}

	m.logger.Info(
		"chartconfig: reloaded",
		slog.Int("charts", len(cfg.Charts)),
		slog.Int("sources", len(cfg.Sources)),
	)
	return cfg, nil
}

// Watch starts reloading the document whenever it or one of its current
// sources is written.
func (m *Manager) Watch() error {
	if m.watcher == nil {
		return nil
	}
	if err := m.syncWatches(m.Config(), true); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer m.logger.Reraise()
		m.loop(ctx)
	}()
	return nil
}

// syncWatches makes the watched paths the document and cfg's sources.
//
// It does nothing before the first call with start set.
func (m *Manager) syncWatches(cfg *Config, start bool) error {
	m.watchMu.Lock()
	defer m.watchMu.Unlock()

	if m.watched == nil {
		if !start {
			return nil
		}
		m.watched = make(map[string]struct{})
	}

	want := map[string]struct{}{m.path: {}}
	for _, src := range cfg.Sources {
		want[src.Path] = struct{}{}
	}

	for path := range m.watched {
		if _, ok := want[path]; !ok {
			m.watcher.Unwatch(path)
			delete(m.watched, path)
		}
	}
	for path := range want {
		if _, ok := m.watched[path]; ok {
			continue
		}
		if err := m.watcher.Watch(path, m.debouncer.Set); err != nil {
			return wberrors.Enrichf(err, "chartconfig: watching %s", path)
		}
		m.watched[path] = struct{}{}
	}
	return nil
}

func (m *Manager) loop(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.debouncer.Debounce(m.reloadAndNotify)
		}
	}
}

func (m *Manager) reloadAndNotify() {
	cfg, err := m.Reload()
	if err != nil {
		m.logger.CaptureError(err)
		return
	}
	if m.onReload != nil {
		m.onReload(cfg)
	}
}

// Close stops watching. It is safe to call more than once.
func (m *Manager) Close() {
	m.debouncer.Stop()
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
	if m.watcher != nil {
		m.watcher.Finish()
	}
}
