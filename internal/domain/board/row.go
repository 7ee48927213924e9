package board

import (
	"math"
	"strconv"
	"strings"

	"github.com/okian/leaguetable/internal/domain/layout"
	"github.com/okian/leaguetable/internal/domain/model"
	"github.com/okian/leaguetable/internal/domain/scoring"
)

// Row is one manager with the derived values the table shows.
type Row struct {
	Manager *model.Manager
	Metrics *scoring.RowMetrics
	Rank    int
}

// Value is a cell value with an explicit numeric or text form.
type Value struct {
	Num   float64
	Valid bool // Num holds a finite number
	Text  string
}

func number(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Value{}
	}
	return Value{Num: v, Valid: true, Text: strconv.FormatFloat(v, 'f', -1, 64)}
}

func text(s string) Value { return Value{Text: s} }

// Value returns the row's value for a column.
func (r *Row) Value(c layout.Column) Value {
	switch c.Role {
	case layout.RoleRank:
		return number(float64(r.Rank))
	case layout.RoleTeam:
		return text(r.Manager.TeamName)
	case layout.RoleTotal:
		return number(float64(r.Manager.Total))
	case layout.RoleGWLeads:
		return number(r.Metrics.GWLeads)
	case layout.RoleGameweek:
		if v, ok := r.Manager.Points(c.GW); ok {
			return number(float64(v))
		}
		return Value{}
	case layout.RolePeriodSum:
		if v, ok := r.Metrics.PeriodSums[c.PeriodKey]; ok {
			return number(float64(v))
		}
		return Value{}
	case layout.RoleChip:
		return text(r.Metrics.Chip)
	case layout.RoleTransfers:
		return text(r.transferSummary())
	}
	return Value{}
}

// ShowsTransfers reports whether the row lists its current-gameweek moves.
func (r *Row) ShowsTransfers() bool {
	return !r.Metrics.SuppressTransfers && len(r.Manager.LatestGWTransfers) > 0
}

func (r *Row) transferSummary() string {
	if !r.ShowsTransfers() {
		return ""
	}
	parts := make([]string, 0, len(r.Manager.LatestGWTransfers))
	for _, t := range r.Manager.LatestGWTransfers {
		parts = append(parts, "in: "+t.In.Name+" out: "+t.Out.Name)
	}
	return strings.Join(parts, "; ")
}
