// Package period describes the named gameweek blocks the table groups by.
package period

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPeriods is returned by Validate.
var ErrInvalidPeriods = errors.New("invalid periods")

// Period is a named, contiguous, inclusive range of gameweeks.
type Period struct {
	Key   string `koanf:"key" json:"key"`
	Name  string `koanf:"name" json:"name"`
	Start int    `koanf:"start" json:"start"`
	End   int    `koanf:"end" json:"end"`
}

// Season returns the default period configuration.
func Season() []Period {
	return []Period{
		{Key: "here_we_go", Name: "Here We Go!", Start: 1, End: 3},
		{Key: "early_wildcard", Name: "Early Wildcard", Start: 4, End: 7},
		{Key: "false_9", Name: "False 9", Start: 8, End: 11},
		{Key: "black_friday", Name: "Black Friday", Start: 12, End: 13},
		{Key: "remembering_jota", Name: "Remembering Jota", Start: 14, End: 16},
		{Key: "afcon_drama", Name: "AFCON Drama", Start: 17, End: 22},
		{Key: "valentines", Name: "Valentines", Start: 23, End: 26},
		{Key: "ramadan_kareem", Name: "Ramadan Kareem", Start: 27, End: 31},
		{Key: "flowers", Name: "Flowers Everywhere", Start: 32, End: 36},
		{Key: "fergie_time", Name: "Fergie Time", Start: 37, End: 38},
	}
}

// Len is the number of gameweeks in the period.
func (p Period) Len() int { return p.End - p.Start + 1 }

// Contains reports whether gameweek gw falls inside the period.
func (p Period) Contains(gw int) bool { return gw >= p.Start && gw <= p.End }

// SoFarEnd is the last gameweek that counts toward the running sum.
func (p Period) SoFarEnd(currentGW int) int {
	if currentGW < p.End {
		return currentGW
	}
	return p.End
}

// Validate checks that periods are well formed, in ascending start order,
// and do not overlap.
func Validate(periods []Period) error {
	seen := make(map[string]struct{}, len(periods))
	for i, p := range periods {
		if strings.TrimSpace(p.Key) == "" {
			return fmt.Errorf("%w: period %d has an empty key", ErrInvalidPeriods, i)
		}
		if _, dup := seen[p.Key]; dup {
			return fmt.Errorf("%w: duplicate key %q", ErrInvalidPeriods, p.Key)
		}
		seen[p.Key] = struct{}{}
		if p.Start < 1 || p.End < p.Start {
			return fmt.Errorf("%w: %q has range %d..%d", ErrInvalidPeriods, p.Key, p.Start, p.End)
		}
		if i > 0 {
			prev := periods[i-1]
			if p.Start <= prev.End {
				return fmt.Errorf("%w: %q (%d..%d) overlaps or precedes %q (%d..%d)",
					ErrInvalidPeriods, p.Key, p.Start, p.End, prev.Key, prev.Start, prev.End)
			}
		}
	}
	return nil
}

// Visible returns the periods that have started by currentGW, in order.
func Visible(periods []Period, currentGW int) []Period {
	out := make([]Period, 0, len(periods))
	for _, p := range periods {
		if p.Start <= currentGW {
			out = append(out, p)
		}
	}
	return out
}

// Active returns the period containing currentGW.
func Active(periods []Period, currentGW int) (Period, bool) {
	for _, p := range periods {
		if p.Contains(currentGW) {
			return p, true
		}
	}
	return Period{}, false
}
