// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/okian/leaguetable/internal/domain/model"
	"github.com/okian/leaguetable/internal/domain/period"
)

// Rebuild reason recorded for requests made over HTTP.
const reasonManual = "manual"

// Dependencies required by HTTP handlers.
type Dependencies interface {
	// Latest returns the published snapshot.
	Latest(ctx context.Context) (*model.Snapshot, error)
	// RequestRebuild queues a rebuild and returns its request id.
	RequestRebuild(ctx context.Context, reason string) (string, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	leaderboardHandler *LeaderboardHandler
	dataHandler        *DataHandler
	rebuildHandler     *RebuildHandler
}

// Option configures the API server.
type Option func(*config)

type config struct {
	periods   []period.Period
	loc       *time.Location
	cacheSize int
	title     string
}

// WithPeriods sets the season periods used to lay out the board.
func WithPeriods(p []period.Period) Option {
	return func(c *config) {
		if len(p) > 0 {
			c.periods = p
		}
	}
}

// WithLocation sets the timezone the update time is shown in.
func WithLocation(loc *time.Location) Option {
	return func(c *config) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithCacheSize sets how many rendered pages are kept. Zero disables caching.
func WithCacheSize(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.cacheSize = n
		}
	}
}

// WithTitle sets the HTML page title.
func WithTitle(title string) Option {
	return func(c *config) {
		if title != "" {
			c.title = title
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	cfg := config{
		periods:   period.Season(),
		loc:       time.UTC,
		cacheSize: defaultCacheSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		leaderboardHandler: NewLeaderboardHandler(deps, cfg),
		dataHandler:        NewDataHandler(deps),
		rebuildHandler:     NewRebuildHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	board := MetricsMiddleware(s.leaderboardHandler.HandleLeaderboard, "leaderboard")
	mux.HandleFunc("GET /{$}", board)
	mux.HandleFunc("GET /leaderboard", board)
	mux.HandleFunc("GET /data.json", MetricsMiddleware(s.dataHandler.HandleData, "data"))
	mux.HandleFunc("POST /rebuild", MetricsMiddleware(s.rebuildHandler.HandleRebuild, "rebuild"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
}

// Invalidate drops cached renderings. Call it whenever a snapshot is published.
func (s *Server) Invalidate(_ *model.Snapshot) {
	s.leaderboardHandler.Purge()
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func noStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
}
