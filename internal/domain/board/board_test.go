package board_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/leaguetable/internal/domain/board"
	"github.com/okian/leaguetable/internal/domain/model"
	"github.com/okian/leaguetable/internal/domain/period"
	"github.com/okian/leaguetable/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func pts(vals ...interface{}) []*int {
	out := make([]*int, len(vals))
	for i, v := range vals {
		if n, ok := v.(int); ok {
			out[i] = model.IntPtr(n)
		}
	}
	return out
}

func sampleSnapshot() *model.Snapshot {
	return &model.Snapshot{
		LeagueID:    22667,
		GeneratedAt: time.Date(2025, 9, 1, 18, 30, 0, 0, time.UTC),
		CurrentGW:   3,
		Managers: []model.Manager{
			{TeamName: "charlie FC", EntryID: 3, Total: 120, GWPoints: pts(40, 40, 40)},
			{TeamName: "Beta United", EntryID: 2, Total: 150, GWPoints: pts(60, 50, nil),
				Chips: []model.Chip{{Event: 3, Name: "wildcard"}},
				LatestGWTransfers: []model.Transfer{
					{In: model.PlayerRef{ID: 1, Name: "Saka"}, Out: model.PlayerRef{ID: 2, Name: "Palmer"}},
				}},
			{TeamName: "alpha XI", EntryID: 1, Total: 90, GWPoints: pts(30, nil, 60),
				Chips: []model.Chip{{Event: 3, Name: "bboost"}},
				LatestGWTransfers: []model.Transfer{
					{In: model.PlayerRef{ID: 3, Name: "Haaland"}, Out: model.PlayerRef{ID: 4, Name: "Isak"}},
				}},
		},
	}
}

func teams(b *board.Board) []string {
	var out []string
	for _, r := range b.Rows() {
		out = append(out, r.Manager.TeamName)
	}
	return out
}

func ranks(b *board.Board) []int {
	var out []int
	for _, r := range b.Rows() {
		out = append(out, r.Rank)
	}
	return out
}

func TestNew(t *testing.T) {
	Convey("Given a snapshot", t, func() {
		b, err := board.New(sampleSnapshot(), period.Season())
		So(err, ShouldBeNil)

		Convey("Then rows start by total descending with contiguous ranks", func() {
			So(teams(b), ShouldResemble, []string{"Beta United", "charlie FC", "alpha XI"})
			So(ranks(b), ShouldResemble, []int{1, 2, 3})
		})

		Convey("Then no header has been clicked yet", func() {
			So(b.State(), ShouldResemble, board.SortState{})
		})
	})

	Convey("Given no snapshot", t, func() {
		_, err := board.New(nil, period.Season())
		So(errors.Is(err, board.ErrNoSnapshot), ShouldBeTrue)
	})

	Convey("Given an invalid snapshot", t, func() {
		_, err := board.New(&model.Snapshot{CurrentGW: 0}, period.Season())
		So(errors.Is(err, model.ErrInvalidSnapshot), ShouldBeTrue)
	})
}

func TestClickSort(t *testing.T) {
	Convey("Given a board", t, func() {
		b, err := board.New(sampleSnapshot(), period.Season())
		So(err, ShouldBeNil)

		Convey("When clicking a numeric column twice", func() {
			So(b.Click("gw_1"), ShouldBeNil)
			So(b.State().Dir, ShouldEqual, types.Desc)
			So(teams(b), ShouldResemble, []string{"Beta United", "charlie FC", "alpha XI"})

			So(b.Click("gw_1"), ShouldBeNil)

			Convey("Then the direction toggles", func() {
				So(b.State().Dir, ShouldEqual, types.Asc)
				So(teams(b), ShouldResemble, []string{"alpha XI", "charlie FC", "Beta United"})
				So(ranks(b), ShouldResemble, []int{1, 2, 3})
			})
		})

		Convey("When clicking a different column after toggling", func() {
			So(b.Click("total"), ShouldBeNil)
			So(b.Click("total"), ShouldBeNil)
			So(b.State().Dir, ShouldEqual, types.Asc)

			So(b.Click("gw_3"), ShouldBeNil)

			Convey("Then the new column starts descending", func() {
				So(b.State(), ShouldResemble, board.SortState{Key: "gw_3", Dir: types.Desc})
			})

			Convey("And returning to the first column starts descending again", func() {
				So(b.Click("total"), ShouldBeNil)
				So(b.State().Dir, ShouldEqual, types.Desc)
			})
		})

		Convey("When sorting by a column with missing values", func() {
			So(b.Sort("gw_2", types.Desc), ShouldBeNil)
			So(teams(b)[2], ShouldEqual, "alpha XI")

			So(b.Sort("gw_2", types.Asc), ShouldBeNil)
			So(teams(b)[0], ShouldEqual, "alpha XI")
		})

		Convey("When sorting by the team name ascending", func() {
			So(b.Sort("teamName", types.Asc), ShouldBeNil)

			Convey("Then names follow locale order rather than byte order", func() {
				So(teams(b), ShouldResemble, []string{"alpha XI", "Beta United", "charlie FC"})
			})
		})

		Convey("When sorting by a period sum", func() {
			So(b.Click("sum_here_we_go"), ShouldBeNil)
			So(teams(b), ShouldResemble, []string{"charlie FC", "Beta United", "alpha XI"})
		})

		Convey("When clicking an unknown column", func() {
			err := b.Click("gw_99")

			Convey("Then it fails and keeps the previous state", func() {
				So(errors.Is(err, board.ErrUnknownColumn), ShouldBeTrue)
				So(b.State(), ShouldResemble, board.SortState{})
			})
		})

		Convey("When sorting by rank descending", func() {
			So(b.Sort("rank", types.Desc), ShouldBeNil)

			Convey("Then the order reverses and ranks are recomputed", func() {
				So(teams(b), ShouldResemble, []string{"alpha XI", "charlie FC", "Beta United"})
				So(ranks(b), ShouldResemble, []int{1, 2, 3})
			})
		})
	})
}

func TestSortState(t *testing.T) {
	Convey("Given an empty sort state", t, func() {
		var s board.SortState

		Convey("Then every column would start descending", func() {
			So(s.Next("total"), ShouldEqual, types.Desc)
			So(s.Direction("total"), ShouldEqual, types.Direction(""))
		})

		Convey("Then clicks alternate and reset", func() {
			s = s.Click("total")
			So(s.Dir, ShouldEqual, types.Desc)
			s = s.Click("total")
			So(s.Dir, ShouldEqual, types.Asc)
			s = s.Click("total")
			So(s.Dir, ShouldEqual, types.Desc)
			s = s.Click("teamName")
			So(s, ShouldResemble, board.SortState{Key: "teamName", Dir: types.Desc})
			So(s.Next("teamName"), ShouldEqual, types.Asc)
			So(s.Next("total"), ShouldEqual, types.Desc)
		})
	})
}
