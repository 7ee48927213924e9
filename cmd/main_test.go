package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/leaguetable/internal/adapters/repository"
	service "github.com/okian/leaguetable/internal/app"
	"github.com/okian/leaguetable/internal/config"
	"github.com/okian/leaguetable/internal/fakeleague"
	"github.com/okian/leaguetable/pkg/logger"
)

func init() {
	_ = logger.Init()
}

func TestLoadDotEnv(t *testing.T) {
	convey.Convey("Given a .env loader", t, func() {
		convey.Convey("When the file does not exist", func() {
			err := loadDotEnv(filepath.Join(t.TempDir(), ".env"))

			convey.Convey("Then it is not an error", func() {
				convey.So(err, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the file sets a variable", func() {
			path := filepath.Join(t.TempDir(), ".env")
			convey.So(os.WriteFile(path, []byte("LEAGUE_TEST_DOTENV=from-file\n"), 0o600), convey.ShouldBeNil)
			defer func() { _ = os.Unsetenv("LEAGUE_TEST_DOTENV") }()

			err := loadDotEnv(path)

			convey.Convey("Then the variable is exported", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(os.Getenv("LEAGUE_TEST_DOTENV"), convey.ShouldEqual, "from-file")
			})
		})
	})
}

func TestWire(t *testing.T) {
	convey.Convey("Given the serve command wired against a fake league", t, func() {
		ctx := context.Background()

		league := fakeleague.Generate(fakeleague.Config{
			LeagueID:  77,
			Managers:  12,
			CurrentGW: 4,
			PageSize:  5,
			Seed:      7,
		})
		upstream := httptest.NewServer(fakeleague.NewServer(league))
		defer upstream.Close()

		cfg := config.New()
		cfg.LeagueID = 77
		cfg.BaseURL = upstream.URL
		cfg.RequestDelayMS = 0
		cfg.SnapshotPath = filepath.Join(t.TempDir(), "data.json")
		convey.So(cfg.Validate(), convey.ShouldBeNil)

		a := wire(ctx, cfg, logger.Get())
		srv := httptest.NewServer(a.handler)
		defer srv.Close()

		get := func(path string) (int, string) {
			resp, err := http.Get(srv.URL + path)
			convey.So(err, convey.ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()
			body, err := io.ReadAll(resp.Body)
			convey.So(err, convey.ShouldBeNil)
			return resp.StatusCode, string(body)
		}

		convey.Convey("When nothing has been built yet", func() {
			status, _ := get("/data.json")

			convey.Convey("Then the data endpoint is unavailable", func() {
				convey.So(status, convey.ShouldEqual, http.StatusServiceUnavailable)
			})
		})

		convey.Convey("When a snapshot is built", func() {
			snap, err := a.svc.Build(ctx)
			convey.So(err, convey.ShouldBeNil)
			convey.So(league.Verify(snap), convey.ShouldBeNil)

			convey.Convey("Then the data endpoint serves it", func() {
				status, body := get("/data.json")
				convey.So(status, convey.ShouldEqual, http.StatusOK)
				served, err := repository.Decode([]byte(body))
				convey.So(err, convey.ShouldBeNil)
				convey.So(league.Verify(served), convey.ShouldBeNil)
			})

			convey.Convey("Then the leaderboard page renders", func() {
				status, body := get("/")
				convey.So(status, convey.ShouldEqual, http.StatusOK)
				convey.So(body, convey.ShouldContainSubstring, "<table")
				convey.So(body, convey.ShouldContainSubstring, "GW 4")
			})

			convey.Convey("Then a fresh store loads it from disk", func() {
				loaded, err := repository.NewFileStore(cfg.SnapshotPath).Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(loaded.CurrentGW, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When the supporting routes are requested", func() {
			convey.Convey("Then they are mounted", func() {
				for _, path := range []string{"/static/style.css", "/api-docs", "/openapi.yaml", "/healthz", "/stats"} {
					status, _ := get(path)
					convey.So(status, convey.ShouldEqual, http.StatusOK)
				}
			})
		})
	})
}

type countingRequester struct {
	mu      sync.Mutex
	reasons []string
}

func (c *countingRequester) RequestRebuild(_ context.Context, reason string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reasons = append(c.reasons, reason)
	return "id", nil
}

func (c *countingRequester) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.reasons)
}

func TestScheduleRebuilds(t *testing.T) {
	convey.Convey("Given a rebuild schedule", t, func() {
		req := &countingRequester{}

		convey.Convey("When the interval is zero", func() {
			done := make(chan struct{})
			go func() {
				scheduleRebuilds(context.Background(), req, 0, logger.Get())
				close(done)
			}()

			convey.Convey("Then it returns at once without queueing", func() {
				select {
				case <-done:
				case <-time.After(time.Second):
					t.Fatal("schedule did not return")
				}
				convey.So(req.count(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When the interval is short", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
			defer cancel()
			scheduleRebuilds(ctx, req, 20*time.Millisecond, logger.Get())

			convey.Convey("Then rebuilds are queued with the schedule reason", func() {
				convey.So(req.count(), convey.ShouldBeGreaterThan, 0)
				convey.So(req.reasons[0], convey.ShouldEqual, service.ReasonSchedule)
			})
		})
	})
}

func TestSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.Convey("Then a single update does not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("Then the loop stops with its context", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
		})
	})
}
