package board

import (
	"strconv"
	"time"

	"github.com/okian/leaguetable/internal/domain/layout"
	"github.com/okian/leaguetable/internal/domain/scoring"
	"github.com/okian/leaguetable/internal/domain/types"
)

// CSS class names shared by every renderer.
const (
	ClassSepLeft      = "sep-left"
	ClassSum          = "sum-col"
	ClassFuture       = "future"
	ClassTeam         = "team"
	ClassGWLeader     = "gw-leader"
	ClassPeriodLeader = "period-leader"
	ClassTransfers    = "transfers"
	ClassChips        = "chips"

	placeholder = "—"
)

// Badge kinds.
const (
	BadgeIn   = "in"
	BadgeOut  = "out"
	BadgeChip = "chip"
)

// Table is the display tree of the board: metadata, a two-tier header and
// body cells. Renderers only format it.
type Table struct {
	Meta  Meta         `json:"meta"`
	Sort  SortState    `json:"sort"`
	Top   []HeaderCell `json:"top"`
	Sub   []HeaderCell `json:"sub"`
	Body  [][]Cell     `json:"body"`
	Order []string     `json:"order"` // column keys in body order
}

// Meta is the metadata region above the table.
type Meta struct {
	LeagueID    int          `json:"leagueId"`
	CurrentGW   int          `json:"currentGW"`
	GeneratedAt time.Time    `json:"generatedAt"`
	LocalTime   string       `json:"localTime"`
	Zone        string       `json:"zone"`
	Legend      []LegendItem `json:"legend"`
}

// LegendItem explains one highlight class.
type LegendItem struct {
	Class string `json:"class"`
	Label string `json:"label"`
}

// HeaderCell is a header cell. Key is empty for period group cells, which
// are not sortable.
type HeaderCell struct {
	Key     string          `json:"key,omitempty"`
	Label   string          `json:"label"`
	ColSpan int             `json:"colSpan,omitempty"`
	RowSpan int             `json:"rowSpan,omitempty"`
	Classes []string        `json:"classes,omitempty"`
	Kind    types.ValueKind `json:"kind"`
	Dir     types.Direction `json:"dir,omitempty"`     // set on the sorted column
	NextDir types.Direction `json:"nextDir,omitempty"` // direction a click would sort in
}

// Sortable reports whether clicking the cell sorts the table.
func (h HeaderCell) Sortable() bool { return h.Key != "" }

// Cell is a body cell.
type Cell struct {
	Key         string   `json:"key"`
	Text        string   `json:"text,omitempty"`
	Classes     []string `json:"classes,omitempty"`
	Badges      []Badge  `json:"badges,omitempty"`
	Placeholder bool     `json:"placeholder,omitempty"`
}

// Badge is a small labeled marker inside a cell.
type Badge struct {
	Kind  string `json:"kind"`
	Label string `json:"label,omitempty"`
	Text  string `json:"text"`
}

const timeLayout = "2006-01-02 15:04"

// Table renders the board into a display tree.
func (b *Board) Table() Table {
	l := b.layout
	t := Table{
		Meta: b.meta(),
		Sort: b.state,
	}

	for _, c := range l.Leading() {
		t.Top = append(t.Top, b.header(c, 2))
	}
	for _, g := range l.Groups {
		h := HeaderCell{Label: g.Label, ColSpan: g.Span}
		if g.BoundaryLeft {
			h.Classes = []string{ClassSepLeft}
		}
		t.Top = append(t.Top, h)
	}
	for _, c := range l.Trailing() {
		t.Top = append(t.Top, b.header(c, 2))
	}
	for _, c := range l.Sub() {
		t.Sub = append(t.Sub, b.header(c, 0))
	}

	order := l.Columns
	for _, c := range order {
		t.Order = append(t.Order, c.Key)
	}

	t.Body = make([][]Cell, 0, len(b.rows))
	for _, r := range b.rows {
		cells := make([]Cell, 0, len(order))
		for _, c := range order {
			cells = append(cells, b.cell(r, c))
		}
		t.Body = append(t.Body, cells)
	}
	return t
}

func (b *Board) meta() Meta {
	local := b.snapshot.GeneratedAt.In(b.loc)
	m := Meta{
		LeagueID:    b.snapshot.LeagueID,
		CurrentGW:   b.snapshot.CurrentGW,
		GeneratedAt: b.snapshot.GeneratedAt,
		LocalTime:   local.Format(timeLayout),
		Zone:        local.Format("MST"),
		Legend: []LegendItem{
			{Class: ClassGWLeader, Label: "Top score in GW" + strconv.Itoa(b.snapshot.CurrentGW)},
		},
	}
	if key := b.metrics.ActivePeriod; key != "" {
		for _, p := range b.layout.Periods {
			if p.Key == key {
				m.Legend = append(m.Legend, LegendItem{Class: ClassPeriodLeader, Label: "Leading " + p.Name})
			}
		}
	}
	m.Legend = append(m.Legend, LegendItem{Class: ClassFuture, Label: "Upcoming gameweek"})
	return m
}

func (b *Board) header(c layout.Column, rowSpan int) HeaderCell {
	return HeaderCell{
		Key:     c.Key,
		Label:   c.Label,
		RowSpan: rowSpan,
		Classes: columnClasses(c),
		Kind:    c.Kind,
		Dir:     b.state.Direction(c.Key),
		NextDir: b.state.Next(c.Key),
	}
}

func columnClasses(c layout.Column) []string {
	var classes []string
	if c.BoundaryLeft {
		classes = append(classes, ClassSepLeft)
	}
	if c.Role == layout.RolePeriodSum {
		classes = append(classes, ClassSum)
	}
	if c.Future {
		classes = append(classes, ClassFuture)
	}
	return classes
}

func (b *Board) cell(r *Row, c layout.Column) Cell {
	cell := Cell{Key: c.Key, Classes: columnClasses(c)}

	switch c.Role {
	case layout.RoleTransfers:
		cell.Classes = append(cell.Classes, ClassTransfers)
		if !r.ShowsTransfers() {
			cell.Placeholder = true
			cell.Text = placeholder
			return cell
		}
		for _, t := range r.Manager.LatestGWTransfers {
			cell.Badges = append(cell.Badges,
				Badge{Kind: BadgeIn, Label: "in:", Text: t.In.Name},
				Badge{Kind: BadgeOut, Label: "out:", Text: t.Out.Name},
			)
		}
		return cell

	case layout.RoleChip:
		cell.Classes = append(cell.Classes, ClassChips)
		if r.Metrics.Chip == "" {
			cell.Placeholder = true
			cell.Text = placeholder
			return cell
		}
		cell.Badges = []Badge{{Kind: BadgeChip, Text: r.Metrics.Chip}}
		return cell

	case layout.RoleGWLeads:
		cell.Text = scoring.FormatLeads(r.Metrics.GWLeads)
		return cell

	case layout.RoleTeam:
		cell.Classes = append(cell.Classes, ClassTeam)
		if r.Metrics.IsGWLeader {
			cell.Classes = append(cell.Classes, ClassGWLeader)
		}
		if r.Metrics.IsPeriodLeader {
			cell.Classes = append(cell.Classes, ClassPeriodLeader)
		}
		cell.Text = r.Manager.TeamName
		return cell
	}

	cell.Text = r.Value(c).Text
	return cell
}
