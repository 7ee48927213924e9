// Package scoring derives the per-row values the table shows next to the
// raw gameweek points: period running sums, gameweek-lead credit, leader
// flags and the current chip.
//
// Compute is a pure function of (managers, currentGW, periods); nothing is
// written back onto the managers.
package scoring

import (
	"math"
	"strconv"
	"strings"

	"github.com/okian/leaguetable/internal/domain/model"
	"github.com/okian/leaguetable/internal/domain/period"
)

// RowMetrics are the derived values for one manager.
type RowMetrics struct {
	// PeriodSums maps a visible period key to its running sum so far.
	PeriodSums map[string]int
	// GWLeads is the accumulated credit for topping gameweeks.
	GWLeads float64
	// IsGWLeader is set when the row tops the most recent gameweek.
	IsGWLeader bool
	// IsPeriodLeader is set when the row tops the period containing the current gameweek.
	IsPeriodLeader bool
	// Chip is the chip activated in the current gameweek, as reported.
	Chip string
	// ChipLower is Chip lowercased.
	ChipLower string
	// SuppressTransfers hides the transfer list for wildcard and free-hit weeks.
	SuppressTransfers bool
}

// Metrics holds derived values aligned with the managers slice passed to Compute.
type Metrics struct {
	CurrentGW    int
	ActivePeriod string // key of the period containing CurrentGW, empty if none
	Rows         []RowMetrics
}

// Compute derives every row-level metric.
func Compute(managers []model.Manager, currentGW int, periods []period.Period) Metrics {
	visible := period.Visible(periods, currentGW)
	rows := make([]RowMetrics, len(managers))

	for i := range managers {
		m := &managers[i]
		r := RowMetrics{PeriodSums: make(map[string]int, len(visible))}
		for _, p := range visible {
			r.PeriodSums[p.Key] = PeriodSum(m, p, currentGW)
		}
		if c, ok := m.ChipAt(currentGW); ok {
			r.Chip = c.Name
			r.ChipLower = strings.ToLower(c.Name)
			r.SuppressTransfers = SuppressesTransfers(c.Name)
		}
		rows[i] = r
	}

	for gw := 1; gw <= currentGW; gw++ {
		for i, credit := range GWLeadAwards(managers, gw) {
			rows[i].GWLeads += credit
		}
	}

	for _, i := range leadersAt(managers, currentGW) {
		rows[i].IsGWLeader = true
	}

	out := Metrics{CurrentGW: currentGW, Rows: rows}
	if active, ok := period.Active(periods, currentGW); ok {
		out.ActivePeriod = active.Key
		best := math.MinInt
		for _, r := range rows {
			if s := r.PeriodSums[active.Key]; s > best {
				best = s
			}
		}
		for i := range rows {
			if rows[i].PeriodSums[active.Key] == best {
				rows[i].IsPeriodLeader = true
			}
		}
	}
	return out
}

// PeriodSum is the manager's net score over [start, min(end, currentGW)],
// with missing gameweeks counted as zero.
func PeriodSum(m *model.Manager, p period.Period, currentGW int) int {
	sum := 0
	for gw := p.Start; gw <= p.SoFarEnd(currentGW); gw++ {
		if v, ok := m.Points(gw); ok {
			sum += v
		}
	}
	return sum
}

// GWLeadAwards returns the credit each manager index earns for gameweek gw.
// One point is split evenly between the managers tied at the top; if no
// manager has a score for gw the map is empty.
func GWLeadAwards(managers []model.Manager, gw int) map[int]float64 {
	leaders := leadersAt(managers, gw)
	awards := make(map[int]float64, len(leaders))
	if len(leaders) == 0 {
		return awards
	}
	share := 1 / float64(len(leaders))
	for _, i := range leaders {
		awards[i] = share
	}
	return awards
}

// leadersAt returns the indexes of managers tied at the top score of gw.
func leadersAt(managers []model.Manager, gw int) []int {
	var (
		best    int
		found   bool
		leaders []int
	)
	for i := range managers {
		v, ok := managers[i].Points(gw)
		if !ok {
			continue
		}
		switch {
		case !found || v > best:
			best, found = v, true
			leaders = append(leaders[:0], i)
		case v == best:
			leaders = append(leaders, i)
		}
	}
	return leaders
}

var suppressingChips = map[string]struct{}{
	"wildcard": {},
	"freehit":  {},
	"free_hit": {},
	"free hit": {},
}

// SuppressesTransfers reports whether a chip's transfers should be hidden.
func SuppressesTransfers(chip string) bool {
	_, ok := suppressingChips[strings.ToLower(strings.TrimSpace(chip))]
	return ok
}

// FormatLeads renders gameweek-lead credit: one decimal, no trailing ".0",
// and blank for zero.
func FormatLeads(v float64) string {
	r := math.Round(v*10) / 10
	if r == 0 {
		return ""
	}
	if r == math.Trunc(r) {
		return strconv.FormatFloat(r, 'f', 0, 64)
	}
	return strconv.FormatFloat(r, 'f', 1, 64)
}
