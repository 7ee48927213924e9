package scoring_test

import (
	"testing"

	"github.com/okian/leaguetable/internal/domain/model"
	"github.com/okian/leaguetable/internal/domain/period"
	scoring "github.com/okian/leaguetable/internal/domain/scoring"
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

func TestPeriodSums(t *testing.T) {
	Convey("Given a manager with gwPoints [50, 60, null] at gameweek 3", t, func() {
		managers := []model.Manager{
			{EntryID: 1, TeamName: "A", GWPoints: pts(50, 60, nil)},
			{EntryID: 2, TeamName: "B", GWPoints: pts(40, 30, nil)},
		}
		m := scoring.Compute(managers, 3, period.Season())

		Convey("Then the first period sum treats null as zero", func() {
			So(m.Rows[0].PeriodSums["here_we_go"], ShouldEqual, 110)
			So(m.Rows[1].PeriodSums["here_we_go"], ShouldEqual, 70)
		})

		Convey("Then the sole top scorer of gw1 and gw2 has exactly one lead each", func() {
			So(m.Rows[0].GWLeads, ShouldEqual, 2)
			So(m.Rows[1].GWLeads, ShouldEqual, 0)
		})

		Convey("Then nobody leads a gameweek without data", func() {
			So(m.Rows[0].IsGWLeader, ShouldBeFalse)
			So(m.Rows[1].IsGWLeader, ShouldBeFalse)
		})

		Convey("Then the active period leader is flagged", func() {
			So(m.ActivePeriod, ShouldEqual, "here_we_go")
			So(m.Rows[0].IsPeriodLeader, ShouldBeTrue)
			So(m.Rows[1].IsPeriodLeader, ShouldBeFalse)
		})
	})

	Convey("Given the current gameweek inside a later period", t, func() {
		managers := []model.Manager{
			{EntryID: 1, GWPoints: pts(1, 2, 3, 10, 20)},
		}
		m := scoring.Compute(managers, 5, period.Season())

		Convey("Then the partial period sums only what has been played", func() {
			So(m.Rows[0].PeriodSums["here_we_go"], ShouldEqual, 6)
			So(m.Rows[0].PeriodSums["early_wildcard"], ShouldEqual, 30)
			_, ok := m.Rows[0].PeriodSums["false_9"]
			So(ok, ShouldBeFalse)
		})
	})
}

func TestGWLeads(t *testing.T) {
	Convey("Given ties at the top of gameweeks", t, func() {
		managers := []model.Manager{
			{EntryID: 1, GWPoints: pts(70, 40, 55)},
			{EntryID: 2, GWPoints: pts(70, 65, 55)},
			{EntryID: 3, GWPoints: pts(30, nil, 55)},
		}
		m := scoring.Compute(managers, 3, period.Season())

		Convey("Then credit is split evenly among tied managers", func() {
			So(m.Rows[0].GWLeads, ShouldAlmostEqual, 0.5+1.0/3, 1e-9)
			So(m.Rows[1].GWLeads, ShouldAlmostEqual, 0.5+1+1.0/3, 1e-9)
			So(m.Rows[2].GWLeads, ShouldAlmostEqual, 1.0/3, 1e-9)
		})

		Convey("Then each gameweek hands out exactly one point", func() {
			for gw := 1; gw <= 3; gw++ {
				total := 0.0
				for _, v := range scoring.GWLeadAwards(managers, gw) {
					total += v
				}
				So(total, ShouldAlmostEqual, 1, 1e-9)
			}
		})

		Convey("Then every manager tied in the latest gameweek is a leader", func() {
			So(m.Rows[0].IsGWLeader, ShouldBeTrue)
			So(m.Rows[1].IsGWLeader, ShouldBeTrue)
			So(m.Rows[2].IsGWLeader, ShouldBeTrue)
		})
	})

	Convey("Given a gameweek where nobody has data", t, func() {
		managers := []model.Manager{
			{EntryID: 1, GWPoints: pts(nil)},
			{EntryID: 2, GWPoints: pts(nil)},
		}

		Convey("Then no credit is awarded", func() {
			So(len(scoring.GWLeadAwards(managers, 1)), ShouldEqual, 0)
			m := scoring.Compute(managers, 1, period.Season())
			So(m.Rows[0].GWLeads, ShouldEqual, 0)
		})
	})

	Convey("Given negative scores after transfer hits", t, func() {
		managers := []model.Manager{
			{EntryID: 1, GWPoints: pts(-4)},
			{EntryID: 2, GWPoints: pts(-8)},
		}
		m := scoring.Compute(managers, 1, period.Season())

		Convey("Then the highest negative score still leads", func() {
			So(m.Rows[0].GWLeads, ShouldEqual, 1)
			So(m.Rows[0].IsGWLeader, ShouldBeTrue)
		})
	})
}

func TestChips(t *testing.T) {
	Convey("Given managers with chips", t, func() {
		managers := []model.Manager{
			{EntryID: 1, Chips: []model.Chip{{Event: 1, Name: "bboost"}, {Event: 2, Name: "WildCard"}}},
			{EntryID: 2, Chips: []model.Chip{{Event: 2, Name: "3xc"}}},
			{EntryID: 3},
		}
		m := scoring.Compute(managers, 2, period.Season())

		Convey("Then only the current gameweek chip is reported", func() {
			So(m.Rows[0].Chip, ShouldEqual, "WildCard")
			So(m.Rows[0].ChipLower, ShouldEqual, "wildcard")
			So(m.Rows[1].Chip, ShouldEqual, "3xc")
			So(m.Rows[2].Chip, ShouldEqual, "")
		})

		Convey("Then wildcard suppresses transfers, other chips do not", func() {
			So(m.Rows[0].SuppressTransfers, ShouldBeTrue)
			So(m.Rows[1].SuppressTransfers, ShouldBeFalse)
			So(m.Rows[2].SuppressTransfers, ShouldBeFalse)
		})
	})

	Convey("Given chip name spellings", t, func() {
		for _, name := range []string{"wildcard", "WILDCARD", "freehit", "FreeHit", "free_hit", "Free Hit", " wildcard ", "\tfreehit\n"} {
			So(scoring.SuppressesTransfers(name), ShouldBeTrue)
		}
		for _, name := range []string{"bboost", "3xc", "manager", ""} {
			So(scoring.SuppressesTransfers(name), ShouldBeFalse)
		}
	})
}

func TestFormatLeads(t *testing.T) {
	Convey("Given gameweek lead values", t, func() {
		So(scoring.FormatLeads(0), ShouldEqual, "")
		So(scoring.FormatLeads(0.01), ShouldEqual, "")
		So(scoring.FormatLeads(2), ShouldEqual, "2")
		So(scoring.FormatLeads(1.5), ShouldEqual, "1.5")
		So(scoring.FormatLeads(1.0/3), ShouldEqual, "0.3")
		So(scoring.FormatLeads(2.0/3+1.0/3), ShouldEqual, "1")
		So(scoring.FormatLeads(1.96), ShouldEqual, "2")
	})
}
