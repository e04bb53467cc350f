package watcher_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandb/wandb/chartsync/internal/watcher"
)

func waitWithDeadline[S any](t *testing.T, c <-chan S, msg string) S {
	t.Helper()
	select {
	case x := <-c:
		return x
	case <-time.After(5 * time.Second):
		t.Fatal("took too long: " + msg)
		panic("unreachable")
	}
}

func newTestWatcher(t *testing.T) watcher.Watcher {
	t.Helper()
	w := watcher.New(watcher.Params{PollingPeriod: 10 * time.Millisecond})
	t.Cleanup(func() {
		finished := make(chan struct{})
		go func() {
			w.Finish()
			close(finished)
		}()
		waitWithDeadline(t, finished, "expected Finish to return")
	})
	return w
}

// notify sends without blocking so a slow test never stalls the poller.
func notify[S any](c chan S, v S) {
	select {
	case c <- v:
	default:
	}
}

func TestWatch_RunsCallbackOnWrite(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "charts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("charts: []"), 0o600))
	before, err := os.Stat(path)
	require.NoError(t, err)

	changed := make(chan struct{}, 1)
	w := newTestWatcher(t)
	require.NoError(t, w.Watch(path, func() { notify(changed, struct{}{}) }))

	// Coarse mtimes can hide a write made right after the first one.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("charts: [{name: a}]"), 0o600))
	after, err := os.Stat(path)
	require.NoError(t, err)
	if before.ModTime().Equal(after.ModTime()) {
		t.Skip("mtime did not change")
	}

	waitWithDeadline(t, changed, "expected the file callback")
}

func TestUnwatch_StopsCallbacks(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	kept := filepath.Join(dir, "kept.jsonl")
	dropped := filepath.Join(dir, "dropped.jsonl")
	require.NoError(t, os.WriteFile(kept, []byte("{}"), 0o600))
	require.NoError(t, os.WriteFile(dropped, []byte("{}"), 0o600))

	keptChanged := make(chan struct{}, 1)
	droppedChanged := make(chan struct{}, 1)
	w := newTestWatcher(t)
	require.NoError(t, w.Watch(kept, func() { notify(keptChanged, struct{}{}) }))
	require.NoError(t, w.Watch(dropped, func() { notify(droppedChanged, struct{}{}) }))
	w.Unwatch(dropped)
	w.Unwatch(filepath.Join(dir, "never-watched"))

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(dropped, []byte(`{"step":1}`), 0o600))
	require.NoError(t, os.WriteFile(kept, []byte(`{"step":1}`), 0o600))

	waitWithDeadline(t, keptChanged, "expected the kept file callback")
	assert.Empty(t, droppedChanged)
}

func TestWatch_MissingFile(t *testing.T) {
	t.Parallel()
	w := newTestWatcher(t)

	err := w.Watch(filepath.Join(t.TempDir(), "missing.yaml"), func() {})

	require.Error(t, err)
}

func TestWatch_AfterFinish(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "charts.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	w := watcher.New(watcher.Params{PollingPeriod: 10 * time.Millisecond})
	w.Finish()

	err := w.Watch(path, func() {})

	require.ErrorContains(t, err, "Watch called after Finish")
}
