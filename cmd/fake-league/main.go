package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/leaguetable/internal/fakeleague"
	"github.com/okian/leaguetable/pkg/logger"
)

func main() {
	d := fakeleague.DefaultConfig()
	var (
		addr          = flag.String("addr", ":9090", "Listen address")
		leagueID      = flag.Int("league", d.LeagueID, "League id")
		managers      = flag.Int("managers", d.Managers, "Number of entries")
		currentGW     = flag.Int("gw", d.CurrentGW, "Current gameweek")
		pageSize      = flag.Int("page-size", d.PageSize, "Standings entries per page")
		seed          = flag.Int64("seed", d.Seed, "Generator seed")
		late          = flag.Int("late", d.LateJoiners, "Entries without gameweek 1 history")
		mismatched    = flag.Int("mismatched", d.Mismatched, "Entries whose total disagrees with their gameweeks")
		picksFailures = flag.Int("picks-failures", d.PicksFailures, "Entries whose picks endpoint answers 500")
		duplicates    = flag.Bool("duplicates", false, "Repeat the last entry of each page on the next one")
		latency       = flag.Duration("latency", 0, "Delay added to every response")
		verify        = flag.String("verify", "", "Snapshot URL to check against the league instead of serving")
		logFormat     = flag.String("log-format", logger.FormatText, "text or json")
		logLevel      = flag.String("log-level", "info", "debug, info, warn or error")
		help          = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		fakeleague.ShowHelp()
		return
	}

	if err := fakeleague.SetupLogging(*logFormat, *logLevel); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	league := fakeleague.Generate(fakeleague.Config{
		LeagueID:            *leagueID,
		Managers:            *managers,
		CurrentGW:           *currentGW,
		PageSize:            *pageSize,
		Players:             d.Players,
		Seed:                *seed,
		LateJoiners:         *late,
		Mismatched:          *mismatched,
		PicksFailures:       *picksFailures,
		DuplicateOnNextPage: *duplicates,
		Latency:             *latency,
	})

	if *verify != "" {
		if err := fakeleague.Check(ctx, *verify, league); err != nil {
			logger.Get().Error(ctx, "snapshot does not match league", logger.Error(err))
			os.Exit(1)
		}
		return
	}

	if err := fakeleague.Serve(ctx, *addr, league); err != nil {
		logger.Get().Error(ctx, "fake league stopped with error", logger.Error(err))
		os.Exit(1)
	}
}
