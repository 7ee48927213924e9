package fakeleague

import (
	"errors"
	"fmt"

	"github.com/okian/leaguetable/internal/domain/model"
)

// maxReported bounds how many differences Verify lists.
const maxReported = 20

// ErrMismatch is returned when a snapshot differs from the league.
var ErrMismatch = errors.New("snapshot does not match league")

// Verify checks that snap is exactly what a correct build of l publishes.
func (l *League) Verify(snap *model.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("%w: nil snapshot", ErrMismatch)
	}
	var diffs []string
	add := func(format string, args ...interface{}) {
		diffs = append(diffs, fmt.Sprintf(format, args...))
	}

	if snap.LeagueID != l.cfg.LeagueID {
		add("leagueId %d, want %d", snap.LeagueID, l.cfg.LeagueID)
	}
	if snap.CurrentGW != l.cfg.CurrentGW {
		add("currentGW %d, want %d", snap.CurrentGW, l.cfg.CurrentGW)
	}
	want := l.Expected()
	if len(snap.Managers) != len(want) {
		add("%d managers, want %d", len(snap.Managers), len(want))
	}

	for i := 0; i < len(want) && i < len(snap.Managers); i++ {
		verifyManager(add, i, &snap.Managers[i], &want[i])
	}
	for i := 1; i < len(snap.Managers); i++ {
		if snap.Managers[i].Total > snap.Managers[i-1].Total {
			add("managers not sorted by total at %d", i)
		}
	}

	if len(diffs) == 0 {
		return nil
	}
	listed := diffs
	if len(listed) > maxReported {
		listed = listed[:maxReported]
	}
	errs := []error{ErrMismatch}
	for _, d := range listed {
		errs = append(errs, errors.New(d))
	}
	if more := len(diffs) - len(listed); more > 0 {
		errs = append(errs, fmt.Errorf("...and %d more", more))
	}
	return errors.Join(errs...)
}

func verifyManager(add func(string, ...interface{}), i int, got, want *model.Manager) {
	if got.EntryID != want.EntryID {
		add("manager %d: entry %d, want %d", i, got.EntryID, want.EntryID)
		return
	}
	id := got.EntryID
	if got.TeamName != want.TeamName || got.PlayerName != want.PlayerName {
		add("entry %d: names %q/%q, want %q/%q", id, got.TeamName, got.PlayerName, want.TeamName, want.PlayerName)
	}
	if got.Total != want.Total {
		add("entry %d: total %d, want %d", id, got.Total, want.Total)
	}
	if len(got.GWPoints) != len(want.GWPoints) {
		add("entry %d: %d gameweeks, want %d", id, len(got.GWPoints), len(want.GWPoints))
	} else {
		for gw := range want.GWPoints {
			if !samePoints(got.GWPoints[gw], want.GWPoints[gw]) {
				add("entry %d: gw%d %s, want %s", id, gw+1, fmtPoints(got.GWPoints[gw]), fmtPoints(want.GWPoints[gw]))
			}
		}
	}
	if len(got.Chips) != len(want.Chips) {
		add("entry %d: %d chips, want %d", id, len(got.Chips), len(want.Chips))
	}
	if len(got.LatestGWTransfers) != len(want.LatestGWTransfers) {
		add("entry %d: %d transfers, want %d", id, len(got.LatestGWTransfers), len(want.LatestGWTransfers))
		return
	}
	for k, t := range want.LatestGWTransfers {
		if got.LatestGWTransfers[k] != t {
			add("entry %d: transfer %d %+v, want %+v", id, k, got.LatestGWTransfers[k], t)
		}
	}
}

func samePoints(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func fmtPoints(p *int) string {
	if p == nil {
		return "null"
	}
	return fmt.Sprint(*p)
}
