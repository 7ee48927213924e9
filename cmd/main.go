package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/okian/leaguetable/internal/adapters/fplapi"
	"github.com/okian/leaguetable/internal/adapters/http/api"
	"github.com/okian/leaguetable/internal/adapters/http/site"
	"github.com/okian/leaguetable/internal/adapters/http/swagger"
	"github.com/okian/leaguetable/internal/adapters/repository"
	service "github.com/okian/leaguetable/internal/app"
	"github.com/okian/leaguetable/internal/config"
	"github.com/okian/leaguetable/internal/domain/model"
	"github.com/okian/leaguetable/pkg/logger"
	"github.com/okian/leaguetable/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := loadDotEnv(".env"); err != nil {
		os.Stderr.WriteString("failed to read .env: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.InitWithOptions(os.Stdout, cfg.LogFormat); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	_ = logger.SetLevelString(cfg.LogLevel)

	if err := run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "league table stopped with error", logger.Error(err))
		os.Exit(1)
	}
}

// loadDotEnv reads a .env file when one exists. Variables already set in
// the environment win.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// app holds the wired components of the serve command.
type app struct {
	store   *repository.FileStore
	svc     *service.Service
	handler http.Handler
}

// wire builds the store, the service and the HTTP routes from cfg.
func wire(ctx context.Context, cfg *config.Config, log logger.Logger) *app {
	var apiServer *api.Server
	store := repository.NewFileStore(cfg.SnapshotPath,
		repository.WithOnPublish(func(snap *model.Snapshot) {
			if apiServer != nil {
				apiServer.Invalidate(snap)
			}
		}),
	)

	client := fplapi.New(
		fplapi.WithBaseURL(cfg.BaseURL),
		fplapi.WithUserAgent(cfg.UserAgent),
		fplapi.WithTimeout(cfg.HTTPTimeout()),
	)

	svc := service.New(
		service.WithClient(client),
		service.WithStore(store),
		service.WithLogger(log.Named("builder")),
		service.WithLeagueID(cfg.LeagueID),
		service.WithRequestDelay(cfg.RequestDelay()),
		service.WithQueueSize(cfg.RebuildQueueSize),
		service.WithBuildTimeout(cfg.BuildTimeout()),
	)

	apiServer = api.NewServer(svc, svc,
		api.WithPeriods(cfg.Periods),
		api.WithLocation(cfg.Location()),
		api.WithCacheSize(cfg.RenderCacheSize),
		api.WithTitle(cfg.Title),
	)

	mux := http.NewServeMux()
	site.Register(ctx, mux)
	swagger.Register(ctx, mux)
	apiServer.Register(ctx, mux)

	return &app{store: store, svc: svc, handler: mux}
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()
	a := wire(ctx, cfg, log)

	// A snapshot from a previous run is served until the first build lands.
	if snap, err := a.store.Load(ctx); err != nil {
		log.Warn(ctx, "no previous snapshot", logger.String("path", cfg.SnapshotPath), logger.Error(err))
	} else {
		log.Info(ctx, "previous snapshot loaded",
			logger.String("path", cfg.SnapshotPath),
			logger.Time("generatedAt", snap.GeneratedAt),
			logger.Int("managers", len(snap.Managers)),
		)
	}

	if err := a.svc.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.svc.Stop(stopCtx); err != nil {
			log.Error(ctx, "service stop failed", logger.Error(err))
		}
	}()

	if _, err := a.svc.RequestRebuild(ctx, service.ReasonStartup); err != nil {
		log.Error(ctx, "startup rebuild not queued", logger.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           a.handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info(gctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info(gctx, "shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		scheduleRebuilds(gctx, a.svc, cfg.RebuildInterval(), log)
		return nil
	})

	g.Go(func() error {
		startSystemMetricsUpdater(gctx)
		return nil
	})

	err := g.Wait()
	log.Info(ctx, "server stopped")
	return err
}

// rebuildRequester is what the scheduler needs from the service.
type rebuildRequester interface {
	RequestRebuild(ctx context.Context, reason string) (string, error)
}

// scheduleRebuilds queues a rebuild every interval until ctx is done.
// A zero interval disables the schedule.
func scheduleRebuilds(ctx context.Context, svc rebuildRequester, interval time.Duration, log logger.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svc.RequestRebuild(ctx, service.ReasonSchedule); err != nil {
				log.Warn(ctx, "scheduled rebuild not queued", logger.Error(err))
			}
		}
	}
}

// startSystemMetricsUpdater updates system metrics until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
