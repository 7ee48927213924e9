// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidSnapshot is returned when a snapshot document breaks its shape rules.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Snapshot is the published leaderboard document. It is produced once per
// build and read-only afterwards.
type Snapshot struct {
	LeagueID    int       `json:"leagueId"`
	GeneratedAt time.Time `json:"generatedAt"`
	CurrentGW   int       `json:"currentGW"`
	Managers    []Manager `json:"managers"`
}

// Manager is one league participant.
type Manager struct {
	TeamName   string `json:"teamName"`
	PlayerName string `json:"playerName"`
	EntryID    int    `json:"entryId"`
	Total      int    `json:"total"`
	// GWPoints holds net scores; index i is gameweek i+1, nil means no data.
	GWPoints          []*int     `json:"gwPoints"`
	Chips             []Chip     `json:"chips"`
	LatestGWTransfers []Transfer `json:"latestGwTransfers"`
}

// Chip is a chip activation in a gameweek.
type Chip struct {
	Event int    `json:"event"`
	Name  string `json:"name"`
}

// Transfer is a single move made in the current gameweek.
type Transfer struct {
	In  PlayerRef `json:"in"`
	Out PlayerRef `json:"out"`
}

// PlayerRef identifies a player with a display name.
type PlayerRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Points returns the net score for gameweek gw (1-based).
func (m Manager) Points(gw int) (int, bool) {
	if gw < 1 || gw > len(m.GWPoints) {
		return 0, false
	}
	p := m.GWPoints[gw-1]
	if p == nil {
		return 0, false
	}
	return *p, true
}

// SumGW sums every recorded gameweek; missing slots count as zero.
func (m Manager) SumGW() int {
	sum := 0
	for _, p := range m.GWPoints {
		if p != nil {
			sum += *p
		}
	}
	return sum
}

// ChipAt returns the chip activated in gameweek gw, if any.
func (m Manager) ChipAt(gw int) (Chip, bool) {
	for _, c := range m.Chips {
		if c.Event == gw {
			return c, true
		}
	}
	return Chip{}, false
}

// Validate checks the structural rules a renderer relies on.
func (s *Snapshot) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil snapshot", ErrInvalidSnapshot)
	}
	if s.CurrentGW < 1 {
		return fmt.Errorf("%w: currentGW %d < 1", ErrInvalidSnapshot, s.CurrentGW)
	}
	for i := range s.Managers {
		m := &s.Managers[i]
		if len(m.GWPoints) > s.CurrentGW {
			return fmt.Errorf("%w: manager %d has %d gameweek slots for currentGW %d",
				ErrInvalidSnapshot, m.EntryID, len(m.GWPoints), s.CurrentGW)
		}
	}
	return nil
}

// IntPtr returns a pointer to v; handy when building GWPoints.
func IntPtr(v int) *int { return &v }
