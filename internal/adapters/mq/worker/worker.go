// Package worker runs snapshot rebuilds requested through the queue.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/leaguetable/internal/domain/model"
	"github.com/okian/leaguetable/pkg/logger"
	"github.com/okian/leaguetable/pkg/metrics"
)

// Request abstracts what the worker reads off the queue.
type Request = model.RebuildRequest

// Builder produces and publishes a fresh snapshot.
type Builder interface {
	Build(ctx context.Context) (*model.Snapshot, error)
}

// Queue defines how the worker receives requests.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Request
}

// Stats describes what the worker has done so far.
type Stats struct {
	Processed   int       `json:"processed"`
	Failed      int       `json:"failed"`
	Coalesced   int       `json:"coalesced"`
	LastError   string    `json:"lastError,omitempty"`
	LastSuccess time.Time `json:"lastSuccess,omitempty"`
}

// RebuildWorker consumes rebuild requests one at a time. A failed build is
// logged and counted; the previously published snapshot stays in place.
type RebuildWorker struct {
	queue        Queue
	builder      Builder
	name         string
	buildTimeout time.Duration

	mu         sync.Mutex
	stats      Stats
	lastStart  time.Time
	lastFailed bool

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewRebuildWorker creates a worker with configuration options.
func NewRebuildWorker(q Queue, b Builder, opts ...Option) *RebuildWorker {
	w := &RebuildWorker{
		queue:    q,
		builder:  b,
		name:     "rebuild",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run processes requests until ctx is canceled, Shutdown is called, or the
// queue is closed and drained.
func (w *RebuildWorker) Run(ctx context.Context) {
	defer close(w.done)

	requests := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case r, ok := <-requests:
			if !ok {
				return
			}
			if err := w.process(ctx, r); err != nil {
				w.logger.Error(ctx, "rebuild failed",
					logger.String("worker", w.name),
					logger.String("requestID", r.ID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown stops the worker after the build in progress, if any.
func (w *RebuildWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out", logger.String("worker", w.name))
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Stats returns a copy of the worker counters.
func (w *RebuildWorker) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// process runs one build. A request made before the last successful build
// started is already satisfied and is skipped.
func (w *RebuildWorker) process(ctx context.Context, r Request) error {
	w.mu.Lock()
	if !w.lastStart.IsZero() && !w.lastFailed && r.RequestedAt.Before(w.lastStart) {
		w.stats.Coalesced++
		w.mu.Unlock()
		w.logger.Debug(ctx, "rebuild request already satisfied",
			logger.String("requestID", r.ID),
			logger.String("reason", r.Reason),
		)
		return nil
	}
	start := time.Now()
	w.lastStart = start
	w.mu.Unlock()

	buildCtx := ctx
	if w.buildTimeout > 0 {
		var cancel context.CancelFunc
		buildCtx, cancel = context.WithTimeout(ctx, w.buildTimeout)
		defer cancel()
	}

	w.logger.Info(ctx, "rebuild started",
		logger.String("requestID", r.ID),
		logger.String("reason", r.Reason),
	)
	snap, err := w.builder.Build(buildCtx)
	elapsed := time.Since(start)
	metrics.RecordWorkerProcessingLatency(float64(time.Since(r.RequestedAt).Milliseconds()))

	w.mu.Lock()
	defer w.mu.Unlock()
	w.stats.Processed++
	if err != nil {
		w.lastFailed = true
		w.stats.Failed++
		w.stats.LastError = err.Error()
		metrics.RecordWorkerError()
		return fmt.Errorf("request %s: %w", r.ID, err)
	}
	w.lastFailed = false
	w.stats.LastError = ""
	w.stats.LastSuccess = snap.GeneratedAt

	w.logger.Info(ctx, "rebuild finished",
		logger.String("requestID", r.ID),
		logger.Int("currentGW", snap.CurrentGW),
		logger.Int("managers", len(snap.Managers)),
		logger.Duration("took", elapsed),
	)
	return nil
}
