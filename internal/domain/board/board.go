// Package board assembles the leaderboard from a snapshot: rows, derived
// metrics, the header-click sort protocol, and the display table.
package board

import (
	"fmt"
	"math"
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/okian/leaguetable/internal/domain/layout"
	"github.com/okian/leaguetable/internal/domain/model"
	"github.com/okian/leaguetable/internal/domain/period"
	"github.com/okian/leaguetable/internal/domain/scoring"
	"github.com/okian/leaguetable/internal/domain/types"
)

// Option applies a configuration option to the Board.
type Option func(*Board)

// WithLocation sets the timezone used for the last-updated timestamp.
func WithLocation(loc *time.Location) Option {
	return func(b *Board) {
		if loc != nil {
			b.loc = loc
		}
	}
}

// WithLanguage sets the collation language for text columns.
func WithLanguage(tag language.Tag) Option {
	return func(b *Board) {
		b.lang = tag
	}
}

// Board is a sortable leaderboard built from one snapshot. It is not safe
// for concurrent use; build one per render.
type Board struct {
	snapshot *model.Snapshot
	layout   *layout.Layout
	metrics  scoring.Metrics
	rows     []*Row
	state    SortState

	loc  *time.Location
	lang language.Tag
}

// New builds a board from snap. Rows start ordered by total descending.
func New(snap *model.Snapshot, periods []period.Period, opts ...Option) (*Board, error) {
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}

	b := &Board{
		snapshot: snap,
		layout:   layout.Build(periods, snap.CurrentGW),
		metrics:  scoring.Compute(snap.Managers, snap.CurrentGW, periods),
		loc:      time.UTC,
		lang:     language.Und,
	}
	for _, opt := range opts {
		opt(b)
	}

	b.rows = make([]*Row, len(snap.Managers))
	for i := range snap.Managers {
		b.rows[i] = &Row{Manager: &snap.Managers[i], Metrics: &b.metrics.Rows[i]}
	}
	if err := b.sortBy(layout.KeyTotal, types.Desc); err != nil {
		return nil, err
	}
	return b, nil
}

// Layout returns the column layout.
func (b *Board) Layout() *layout.Layout { return b.layout }

// Metrics returns the derived metrics.
func (b *Board) Metrics() scoring.Metrics { return b.metrics }

// Rows returns the rows in their current order.
func (b *Board) Rows() []*Row { return b.rows }

// State returns the current header-click state.
func (b *Board) State() SortState { return b.state }

// Click applies a header click on key and re-sorts.
func (b *Board) Click(key string) error {
	next := b.state.Click(key)
	if err := b.sortBy(next.Key, next.Dir); err != nil {
		return err
	}
	b.state = next
	return nil
}

// Sort sorts by key in dir and records it as the click state, as if the
// header had been clicked into that direction.
func (b *Board) Sort(key string, dir types.Direction) error {
	if err := b.sortBy(key, dir); err != nil {
		return err
	}
	b.state = SortState{Key: key, Dir: dir}
	return nil
}

func (b *Board) sortBy(key string, dir types.Direction) error {
	col, ok := b.layout.Column(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, key)
	}

	var less func(a, c *Row) bool
	if col.Kind == types.Numeric {
		less = func(a, c *Row) bool {
			return numericKey(a.Value(col)) < numericKey(c.Value(col))
		}
	} else {
		coll := collate.New(b.lang)
		less = func(a, c *Row) bool {
			return coll.CompareString(a.Value(col).Text, c.Value(col).Text) < 0
		}
	}

	sort.SliceStable(b.rows, func(i, j int) bool {
		if dir == types.Asc {
			return less(b.rows[i], b.rows[j])
		}
		return less(b.rows[j], b.rows[i])
	})

	for i, r := range b.rows {
		r.Rank = i + 1
	}
	return nil
}

// numericKey maps missing values to -Inf so they sort last descending.
func numericKey(v Value) float64 {
	if !v.Valid {
		return math.Inf(-1)
	}
	return v.Num
}
