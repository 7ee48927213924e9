// Package layout turns the period configuration and the current gameweek
// into the table's column list and its two-tier header.
package layout

import (
	"strconv"

	"github.com/okian/leaguetable/internal/domain/period"
	"github.com/okian/leaguetable/internal/domain/types"
)

// Fixed column keys.
const (
	KeyRank      = "rank"
	KeyTeam      = "teamName"
	KeyTotal     = "total"
	KeyGWLeads   = "gwLeads"
	KeyChips     = "chips"
	KeyTransfers = "latest"

	gwKeyPrefix  = "gw_"
	sumKeyPrefix = "sum_"
	sumLabel     = "Sum"
)

// Role identifies what a column shows.
type Role int

const (
	RoleRank Role = iota
	RoleTeam
	RoleTotal
	RoleGWLeads
	RoleGameweek
	RolePeriodSum
	RoleChip
	RoleTransfers
)

// Column describes one rendered and sortable column.
type Column struct {
	Key   string
	Label string
	Kind  types.ValueKind
	Role  Role

	// GW is set for RoleGameweek columns.
	GW int
	// PeriodKey is set for RoleGameweek and RolePeriodSum columns.
	PeriodKey string

	// Future marks a gameweek column beyond the current gameweek.
	Future bool
	// BoundaryLeft marks the first column of a block that needs a separator.
	BoundaryLeft bool
}

// Grouped reports whether the column sits under a period group header.
func (c Column) Grouped() bool {
	return c.Role == RoleGameweek || c.Role == RolePeriodSum
}

// Group is a top-tier header cell spanning one period's columns.
type Group struct {
	PeriodKey    string
	Label        string
	Span         int
	BoundaryLeft bool
}

// Layout is the full column description for one current gameweek.
type Layout struct {
	CurrentGW int
	Periods   []period.Period // visible periods, in order
	Columns   []Column
	Groups    []Group

	index map[string]int
}

// GWKey returns the column key for gameweek gw.
func GWKey(gw int) string { return gwKeyPrefix + strconv.Itoa(gw) }

// SumKey returns the column key for a period's running sum.
func SumKey(periodKey string) string { return sumKeyPrefix + periodKey }

// Build lays out the columns for currentGW. Only periods that have started
// are included, each with all of its gameweeks and a trailing Sum column.
func Build(periods []period.Period, currentGW int) *Layout {
	visible := period.Visible(periods, currentGW)

	l := &Layout{
		CurrentGW: currentGW,
		Periods:   visible,
		Columns: []Column{
			{Key: KeyRank, Label: "Rank", Kind: types.Numeric, Role: RoleRank},
			{Key: KeyTeam, Label: "Team", Kind: types.Text, Role: RoleTeam},
			{Key: KeyTotal, Label: "Total", Kind: types.Numeric, Role: RoleTotal},
			{Key: KeyGWLeads, Label: "GW Leads", Kind: types.Numeric, Role: RoleGWLeads},
		},
	}

	for idx, p := range visible {
		for gw := p.Start; gw <= p.End; gw++ {
			future := gw > currentGW
			label := "GW" + strconv.Itoa(gw)
			if future {
				label = "(" + label + ")"
			}
			l.Columns = append(l.Columns, Column{
				Key:          GWKey(gw),
				Label:        label,
				Kind:         types.Numeric,
				Role:         RoleGameweek,
				GW:           gw,
				PeriodKey:    p.Key,
				Future:       future,
				BoundaryLeft: gw == p.Start && idx > 0,
			})
		}
		l.Columns = append(l.Columns, Column{
			Key:       SumKey(p.Key),
			Label:     sumLabel,
			Kind:      types.Numeric,
			Role:      RolePeriodSum,
			PeriodKey: p.Key,
		})
		l.Groups = append(l.Groups, Group{
			PeriodKey:    p.Key,
			Label:        p.Name,
			Span:         p.Len() + 1,
			BoundaryLeft: idx > 0,
		})
	}

	l.Columns = append(l.Columns,
		Column{Key: KeyChips, Label: "Activated Chips", Kind: types.Text, Role: RoleChip, BoundaryLeft: true},
		Column{Key: KeyTransfers, Label: "Latest Transfers", Kind: types.Text, Role: RoleTransfers},
	)

	l.index = make(map[string]int, len(l.Columns))
	for i, c := range l.Columns {
		l.index[c.Key] = i
	}
	return l
}

// Column looks up a column by key.
func (l *Layout) Column(key string) (Column, bool) {
	i, ok := l.index[key]
	if !ok {
		return Column{}, false
	}
	return l.Columns[i], true
}

// Leading returns the ungrouped columns before the first period.
func (l *Layout) Leading() []Column {
	var out []Column
	for _, c := range l.Columns {
		if c.Role <= RoleGWLeads {
			out = append(out, c)
		}
	}
	return out
}

// Sub returns the bottom-tier header columns: every gameweek and sum column.
func (l *Layout) Sub() []Column {
	var out []Column
	for _, c := range l.Columns {
		if c.Grouped() {
			out = append(out, c)
		}
	}
	return out
}

// Trailing returns the ungrouped columns after the last period.
func (l *Layout) Trailing() []Column {
	var out []Column
	for _, c := range l.Columns {
		if c.Role == RoleChip || c.Role == RoleTransfers {
			out = append(out, c)
		}
	}
	return out
}
