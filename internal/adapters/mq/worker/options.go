// Package worker runs snapshot rebuilds requested through the queue.
package worker

import (
	"time"

	"github.com/okian/leaguetable/pkg/logger"
)

// Option applies a configuration option to the RebuildWorker.
type Option func(*RebuildWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *RebuildWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *RebuildWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithBuildTimeout bounds a single build. Zero means no bound.
func WithBuildTimeout(d time.Duration) Option {
	return func(w *RebuildWorker) {
		if d > 0 {
			w.buildTimeout = d
		}
	}
}
