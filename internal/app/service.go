// Package service builds and publishes league snapshots and runs the
// rebuild pipeline the HTTP API talks to.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/leaguetable/internal/adapters/fplapi"
	rebuildqueue "github.com/okian/leaguetable/internal/adapters/mq/queue"
	rebuildworker "github.com/okian/leaguetable/internal/adapters/mq/worker"
	"github.com/okian/leaguetable/internal/adapters/repository"
	"github.com/okian/leaguetable/internal/domain/model"
	"github.com/okian/leaguetable/pkg/logger"
	"github.com/okian/leaguetable/pkg/metrics"
)

// Rebuild reasons.
const (
	ReasonStartup  = "startup"
	ReasonSchedule = "schedule"
	ReasonManual   = "manual"
)

// Upstream is the subset of the league API the builder needs.
type Upstream interface {
	Bootstrap(ctx context.Context) (*fplapi.Bootstrap, error)
	Standings(ctx context.Context, leagueID, page int) (*fplapi.StandingsPage, error)
	History(ctx context.Context, entryID int) (*fplapi.History, error)
	Transfers(ctx context.Context, entryID int) ([]fplapi.TransferRecord, error)
	Picks(ctx context.Context, entryID, gw int) (*fplapi.Picks, error)
}

// BuildStats describes the last build.
type BuildStats struct {
	Builds       int           `json:"builds"`
	Failures     int           `json:"failures"`
	LastStarted  time.Time     `json:"lastStarted,omitempty"`
	LastDuration time.Duration `json:"lastDuration"`
	LastError    string        `json:"lastError,omitempty"`
	CurrentGW    int           `json:"currentGW"`
	Managers     int           `json:"managers"`
	Mismatches   int           `json:"mismatches"`
	PicksFailed  int           `json:"picksFailed"`
}

// Service owns the snapshot builder and the rebuild queue and worker.
type Service struct {
	client       Upstream
	store        repository.Store
	leagueID     int
	requestDelay time.Duration
	now          func() time.Time
	sleep        func(ctx context.Context, d time.Duration) error

	queueSize    int
	buildTimeout time.Duration

	buildMu sync.Mutex // one build at a time

	mu      sync.RWMutex
	stats   BuildStats
	queue   *rebuildqueue.InMemoryQueue
	worker  *rebuildworker.RebuildWorker
	started bool

	logger logger.Logger
}

// New constructs a Service. Without WithClient it talks to the public API;
// without WithStore it writes data.json in the working directory.
func New(opts ...Option) *Service {
	s := &Service{
		leagueID:     DefaultLeagueID,
		requestDelay: DefaultRequestDelay,
		now:          time.Now,
		sleep:        sleepCtx,
		queueSize:    defaultQueueSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		s.client = fplapi.New()
	}
	if s.store == nil {
		s.store = repository.NewFileStore("data.json")
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("builder")
	}
	return s
}

// LeagueID returns the configured league.
func (s *Service) LeagueID() int { return s.leagueID }

// Start launches the rebuild worker.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}

	s.queue = rebuildqueue.NewInMemoryQueue(rebuildqueue.WithCapacity(s.queueSize))
	s.worker = rebuildworker.NewRebuildWorker(s.queue, s,
		rebuildworker.WithLogger(s.logger.Named("worker")),
		rebuildworker.WithBuildTimeout(s.buildTimeout),
	)
	go s.worker.Run(ctx)

	s.started = true
	s.logger.Info(ctx, "league service started",
		logger.Int("leagueID", s.leagueID),
		logger.Int("queueSize", s.queueSize),
		logger.Duration("requestDelay", s.requestDelay),
	)
	return nil
}

// Stop closes the queue and waits for the build in progress.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil
	}
	_ = s.queue.Close()
	err := s.worker.Shutdown(ctx)
	s.started = false
	s.logger.Info(ctx, "league service stopped")
	return err
}

// RequestRebuild queues a rebuild and returns its request id.
func (s *Service) RequestRebuild(ctx context.Context, reason string) (string, error) {
	s.mu.RLock()
	q, started := s.queue, s.started
	s.mu.RUnlock()
	if !started {
		return "", ErrNotStarted
	}

	r := model.RebuildRequest{ID: uuid.NewString(), Reason: reason, RequestedAt: s.now()}
	if err := q.Enqueue(ctx, r); err != nil {
		return "", err
	}
	s.logger.Debug(ctx, "rebuild queued", logger.String("requestID", r.ID), logger.String("reason", reason))
	return r.ID, nil
}

// Latest returns the published snapshot.
func (s *Service) Latest(ctx context.Context) (*model.Snapshot, error) {
	return s.store.Latest(ctx)
}

// Build runs one snapshot build and publishes the result. On error nothing
// is published and the previous snapshot stays in place.
func (s *Service) Build(ctx context.Context) (*model.Snapshot, error) {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	start := s.now()
	s.mu.Lock()
	s.stats.LastStarted = start
	s.mu.Unlock()

	snap, report, err := s.build(ctx)
	elapsed := time.Since(start)

	s.mu.Lock()
	s.stats.Builds++
	s.stats.LastDuration = elapsed
	if err != nil {
		s.stats.Failures++
		s.stats.LastError = err.Error()
	} else {
		s.stats.LastError = ""
		s.stats.CurrentGW = snap.CurrentGW
		s.stats.Managers = len(snap.Managers)
		s.stats.Mismatches = len(report.mismatches)
		s.stats.PicksFailed = report.picksFailed
	}
	s.mu.Unlock()

	if err != nil {
		metrics.RecordBuild(metrics.ResultFailure, elapsed)
		return nil, fmt.Errorf("%w: %w", ErrBuildFailed, err)
	}
	metrics.RecordBuild(metrics.ResultSuccess, elapsed)
	return snap, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":  s.started,
		"leagueID": s.leagueID,
		"build":    s.stats,
	}
	if s.started {
		stats["queueLength"] = s.queue.Len(ctx)
		stats["worker"] = s.worker.Stats()
	}
	if snap, err := s.store.Latest(ctx); err == nil {
		stats["generatedAt"] = snap.GeneratedAt
		stats["currentGW"] = snap.CurrentGW
		stats["managers"] = len(snap.Managers)
	}
	return stats
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
