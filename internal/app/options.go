package service

import (
	"context"
	"time"

	"github.com/okian/leaguetable/internal/adapters/repository"
	"github.com/okian/leaguetable/pkg/logger"
)

// Default service configuration.
const (
	DefaultLeagueID     = 22667
	DefaultRequestDelay = 300 * time.Millisecond
	defaultQueueSize    = 4
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithClient sets the upstream API client.
func WithClient(c Upstream) Option {
	return func(s *Service) {
		if c != nil {
			s.client = c
		}
	}
}

// WithStore sets where snapshots are published.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLeagueID sets the classic league to build.
func WithLeagueID(id int) Option {
	return func(s *Service) {
		if id > 0 {
			s.leagueID = id
		}
	}
}

// WithRequestDelay sets the pause between upstream calls. Zero disables it.
func WithRequestDelay(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.requestDelay = d
		}
	}
}

// WithClock sets the clock used for generatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSleeper replaces the pause implementation.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(s *Service) {
		if sleep != nil {
			s.sleep = sleep
		}
	}
}

// WithQueueSize sets how many rebuild requests may wait.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithBuildTimeout bounds a single queued rebuild.
func WithBuildTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.buildTimeout = d
		}
	}
}
