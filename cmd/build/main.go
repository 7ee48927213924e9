// Command build runs one snapshot build and exits. A failed build exits 1
// and leaves the previous snapshot file untouched.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	"github.com/okian/leaguetable/internal/adapters/fplapi"
	"github.com/okian/leaguetable/internal/adapters/render"
	"github.com/okian/leaguetable/internal/adapters/repository"
	service "github.com/okian/leaguetable/internal/app"
	"github.com/okian/leaguetable/internal/config"
	"github.com/okian/leaguetable/internal/domain/board"
	"github.com/okian/leaguetable/internal/domain/model"
	"github.com/okian/leaguetable/internal/domain/types"
	"github.com/okian/leaguetable/pkg/logger"
)

func main() {
	var (
		printFormat = flag.String("print", "", "Render the built table to stdout: text, html or json")
		sortKey     = flag.String("sort", "", "Column key to sort the printed table by")
		sortDir     = flag.String("dir", "", "Sort direction: asc or desc")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		os.Stderr.WriteString("failed to read .env: " + err.Error() + "\n")
		os.Exit(1)
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Build logs go to stderr so -print output stays clean.
	if err := logger.InitWithOptions(os.Stderr, cfg.LogFormat); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	_ = logger.SetLevelString(cfg.LogLevel)
	log := logger.Get()

	snap, err := build(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "build failed", logger.Error(err))
		os.Exit(1)
	}

	if *printFormat != "" {
		if err := printTable(os.Stdout, snap, cfg, *printFormat, *sortKey, *sortDir); err != nil {
			log.Error(ctx, "print failed", logger.Error(err))
			os.Exit(1)
		}
	}
}

func build(ctx context.Context, cfg *config.Config, log logger.Logger) (*model.Snapshot, error) {
	store := repository.NewFileStore(cfg.SnapshotPath)
	svc := service.New(
		service.WithClient(fplapi.New(
			fplapi.WithBaseURL(cfg.BaseURL),
			fplapi.WithUserAgent(cfg.UserAgent),
			fplapi.WithTimeout(cfg.HTTPTimeout()),
		)),
		service.WithStore(store),
		service.WithLogger(log.Named("builder")),
		service.WithLeagueID(cfg.LeagueID),
		service.WithRequestDelay(cfg.RequestDelay()),
	)
	if cfg.BuildTimeoutS > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.BuildTimeout())
		defer cancel()
	}
	return svc.Build(ctx)
}

func printTable(w io.Writer, snap *model.Snapshot, cfg *config.Config, format, key, dir string) error {
	rr, err := render.ByName(format)
	if err != nil {
		return err
	}
	if rr.Format() == render.FormatHTML {
		rr = render.NewHTML(render.WithTitle(cfg.Title))
	}

	b, err := board.New(snap, cfg.Periods, board.WithLocation(cfg.Location()))
	if err != nil {
		return err
	}
	if key != "" {
		d, err := types.ParseDirection(dir)
		if err != nil {
			return err
		}
		if err := b.Sort(key, d); err != nil {
			return fmt.Errorf("sort %q: %w", key, err)
		}
	}
	return rr.Render(w, b.Table())
}
