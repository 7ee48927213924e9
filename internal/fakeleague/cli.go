package fakeleague

import (
	"fmt"
	"os"

	"github.com/okian/leaguetable/pkg/logger"
)

// SetupLogging initializes the global logger for the command line tool.
func SetupLogging(format, level string) error {
	if err := logger.InitWithOptions(os.Stderr, format); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := logger.SetLevelString(level); err != nil {
		return fmt.Errorf("failed to set log level: %w", err)
	}
	return nil
}

// ShowHelp prints usage information for the fake league tool.
func ShowHelp() {
	os.Stdout.WriteString(`Fake League
===========

Serves a generated classic league on the upstream API routes, so the
builder can run against it locally.

Usage:
  go run ./cmd/fake-league [options]

Options:
  -addr string
        Listen address (default ":9090")
  -league int
        League id (default 22667)
  -managers int
        Number of entries (default 24)
  -gw int
        Current gameweek (default 6)
  -page-size int
        Standings entries per page (default 50)
  -seed int
        Generator seed (default 1)
  -late int
        Entries without gameweek 1 history (default 2)
  -mismatched int
        Entries whose total disagrees with their gameweeks (default 1)
  -picks-failures int
        Entries whose picks endpoint answers 500 (default 0)
  -duplicates
        Repeat the last entry of each page on the next one
  -latency duration
        Delay added to every response
  -verify string
        Snapshot URL to check against the league instead of serving
  -log-format string
        text or json (default "text")
  -log-level string
        debug, info, warn or error (default "info")
  -help
        Show this help message

Examples:
  # Serve a league and point the service at it
  go run ./cmd/fake-league -addr :9090
  LEAGUE_BASE_URL=http://localhost:9090 go run ./cmd

  # Check what the service published
  go run ./cmd/fake-league -verify http://localhost:8080/data.json
`)
}
