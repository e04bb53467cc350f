// Package watcher notifies on changes to chart configuration and data
// files.
package watcher

import (
	"time"

	"github.com/wandb/wandb/chartsync/internal/observability"
)

// Watcher invokes callbacks when registered files are modified.
type Watcher interface {
	// Watch begins watching the file at the specified path, replacing any
	// callback registered for it before.
	//
	// onChange is usually invoked after the contents of the file may have
	// changed, and when a file is created at the path. Changes made within
	// one polling period of each other may be reported once.
	Watch(path string, onChange func()) error

	// Unwatch stops watching path. Unknown paths are ignored.
	Unwatch(path string)

	// Finish stops the watcher from emitting any more change events.
	//
	// It blocks until running callbacks return.
	Finish()
}

type Params struct {
	Logger *observability.CoreLogger

	// PollingPeriod is how often to poll files for updates.
	//
	// If unset, this uses a default value.
	PollingPeriod time.Duration
}

func New(params Params) Watcher {
	return newPollingWatcher(params)
}
