// Package fakeleague generates a synthetic classic league and serves it
// over the same routes as the upstream fantasy API, so the builder and the
// HTTP service can be exercised without network access.
package fakeleague

import "time"

// Defaults for a generated league.
const (
	DefaultLeagueID  = 22667
	DefaultManagers  = 24
	DefaultCurrentGW = 6
	DefaultPageSize  = 50
	DefaultPlayers   = 40
	DefaultSeed      = 1
)

// Config describes the league to generate.
type Config struct {
	LeagueID  int   // classic league id served under /leagues-classic/{id}/
	Managers  int   // number of entries
	CurrentGW int   // gameweek flagged is_current in bootstrap
	PageSize  int   // standings entries per page
	Players   int   // bootstrap elements
	Seed      int64 // generator seed; the same seed yields the same league

	// LateJoiners have no history for gameweek 1.
	LateJoiners int
	// Mismatched entries report a total that differs from their gameweek sum.
	Mismatched int
	// PicksFailures entries answer 500 on the picks endpoint.
	PicksFailures int
	// DuplicateOnNextPage repeats the last entry of a page on the following one.
	DuplicateOnNextPage bool
	// Latency is added to every response.
	Latency time.Duration
}

// DefaultConfig returns a small league with a few irregular entries.
func DefaultConfig() Config {
	return Config{
		LeagueID:    DefaultLeagueID,
		Managers:    DefaultManagers,
		CurrentGW:   DefaultCurrentGW,
		PageSize:    DefaultPageSize,
		Players:     DefaultPlayers,
		Seed:        DefaultSeed,
		LateJoiners: 2,
		Mismatched:  1,
	}
}

func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.LeagueID <= 0 {
		c.LeagueID = d.LeagueID
	}
	if c.Managers <= 0 {
		c.Managers = d.Managers
	}
	if c.CurrentGW <= 0 {
		c.CurrentGW = d.CurrentGW
	}
	if c.PageSize <= 0 {
		c.PageSize = d.PageSize
	}
	if c.Players <= 1 {
		c.Players = d.Players
	}
	c.LateJoiners = clamp(c.LateJoiners, 0, c.Managers)
	c.Mismatched = clamp(c.Mismatched, 0, c.Managers)
	c.PicksFailures = clamp(c.PicksFailures, 0, c.Managers)
	return c
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
