// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults come from New; Load layers a YAML file and the environment on top.
// - Derived values (durations, location) are exposed as methods.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/leaguetable/internal/domain/period"
)

// Defaults.
const (
	DefaultAddr         = ":8080"
	DefaultLeagueID     = 22667
	DefaultBaseURL      = "https://fantasy.premierleague.com/api"
	DefaultUserAgent    = "iste-promiyer-lig"
	DefaultSnapshotPath = "data.json"
	DefaultTimezone     = "Europe/Istanbul"
	DefaultTitle        = "İşte Premier Lig"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the record format: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// LeagueID is the classic league to build.
	LeagueID int `koanf:"league_id"`
	// BaseURL is the upstream API root.
	BaseURL string `koanf:"base_url"`
	// UserAgent is sent with every upstream request.
	UserAgent string `koanf:"user_agent"`
	// RequestDelayMS is the pause between upstream calls.
	RequestDelayMS int `koanf:"request_delay_ms"`
	// HTTPTimeoutMS bounds a single upstream request.
	HTTPTimeoutMS int `koanf:"http_timeout_ms"`

	// SnapshotPath is where the snapshot document is written.
	SnapshotPath string `koanf:"snapshot_path"`

	// RebuildIntervalS schedules rebuilds; 0 disables the schedule.
	RebuildIntervalS int `koanf:"rebuild_interval_s"`
	// RebuildQueueSize bounds pending rebuild requests.
	RebuildQueueSize int `koanf:"rebuild_queue_size"`
	// BuildTimeoutS bounds one queued build; 0 means no bound.
	BuildTimeoutS int `koanf:"build_timeout_s"`

	// Timezone is the IANA zone the update time is shown in.
	Timezone string `koanf:"timezone"`
	// RenderCacheSize is the number of rendered pages kept; 0 disables the cache.
	RenderCacheSize int `koanf:"render_cache_size"`
	// Title is the page heading.
	Title string `koanf:"title"`

	// Periods overrides the season's named periods.
	Periods []period.Period `koanf:"periods"`

	loc *time.Location
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             DefaultAddr,
		LeagueID:         DefaultLeagueID,
		BaseURL:          DefaultBaseURL,
		UserAgent:        DefaultUserAgent,
		RequestDelayMS:   300,
		HTTPTimeoutMS:    30_000,
		SnapshotPath:     DefaultSnapshotPath,
		RebuildIntervalS: 900,
		RebuildQueueSize: 4,
		BuildTimeoutS:    600,
		Timezone:         DefaultTimezone,
		RenderCacheSize:  64,
		Title:            DefaultTitle,
	}
}

// Validate checks every field and resolves the timezone. An empty period
// list is replaced by the default season.
func (c *Config) Validate() error {
	invalid := func(format string, args ...interface{}) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	switch {
	case strings.TrimSpace(c.Addr) == "":
		return invalid("addr must not be empty")
	case c.LeagueID <= 0:
		return invalid("league_id must be positive, got %d", c.LeagueID)
	case strings.TrimSpace(c.BaseURL) == "":
		return invalid("base_url must not be empty")
	case c.RequestDelayMS < 0:
		return invalid("request_delay_ms must not be negative")
	case c.HTTPTimeoutMS <= 0:
		return invalid("http_timeout_ms must be positive")
	case strings.TrimSpace(c.SnapshotPath) == "":
		return invalid("snapshot_path must not be empty")
	case c.RebuildIntervalS < 0:
		return invalid("rebuild_interval_s must not be negative")
	case c.RebuildQueueSize <= 0:
		return invalid("rebuild_queue_size must be positive")
	case c.BuildTimeoutS < 0:
		return invalid("build_timeout_s must not be negative")
	case c.RenderCacheSize < 0:
		return invalid("render_cache_size must not be negative")
	}

	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return invalid("log_format must be text or json, got %q", c.LogFormat)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return invalid("unknown log_level %q", c.LogLevel)
	}

	if len(c.Periods) == 0 {
		c.Periods = period.Season()
	}
	if err := period.Validate(c.Periods); err != nil {
		return fmt.Errorf("%w: periods: %w", ErrInvalidConfig, err)
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return invalid("timezone %q: %v", c.Timezone, err)
	}
	c.loc = loc
	return nil
}

// Location returns the resolved timezone; UTC before Validate.
func (c *Config) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// RequestDelay returns the pause between upstream calls.
func (c *Config) RequestDelay() time.Duration {
	return time.Duration(c.RequestDelayMS) * time.Millisecond
}

// HTTPTimeout returns the upstream request timeout.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutMS) * time.Millisecond
}

// RebuildInterval returns the schedule period; zero means no schedule.
func (c *Config) RebuildInterval() time.Duration {
	return time.Duration(c.RebuildIntervalS) * time.Second
}

// BuildTimeout returns the bound for one queued build.
func (c *Config) BuildTimeout() time.Duration {
	return time.Duration(c.BuildTimeoutS) * time.Second
}
