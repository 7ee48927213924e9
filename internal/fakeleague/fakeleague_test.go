package fakeleague_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/okian/leaguetable/internal/adapters/fplapi"
	"github.com/okian/leaguetable/internal/domain/model"
	"github.com/okian/leaguetable/internal/fakeleague"
	"github.com/okian/leaguetable/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

func TestGenerate(t *testing.T) {
	Convey("Given a league configuration", t, func() {
		cfg := fakeleague.Config{
			LeagueID:    77,
			Managers:    9,
			CurrentGW:   4,
			PageSize:    4,
			Seed:        42,
			LateJoiners: 2,
			Mismatched:  2,
		}

		Convey("When generated twice", func() {
			a := fakeleague.Generate(cfg)
			b := fakeleague.Generate(cfg)

			Convey("Then both leagues are identical", func() {
				So(a.Expected(), ShouldResemble, b.Expected())
			})
		})

		Convey("When generated", func() {
			l := fakeleague.Generate(cfg)
			want := l.Expected()

			Convey("Then managers are ordered by total descending", func() {
				So(len(want), ShouldEqual, 9)
				for i := 1; i < len(want); i++ {
					So(want[i].Total, ShouldBeLessThanOrEqualTo, want[i-1].Total)
				}
			})

			Convey("Then every manager has one slot per gameweek", func() {
				for _, m := range want {
					So(len(m.GWPoints), ShouldEqual, 4)
				}
			})

			Convey("Then late joiners have no gameweek 1 score", func() {
				late := 0
				for _, m := range want {
					if m.GWPoints[0] == nil {
						late++
					}
				}
				So(late, ShouldEqual, 2)
			})

			Convey("Then exactly the mismatched entries disagree with their sums", func() {
				So(len(l.Mismatched()), ShouldEqual, 2)
			})

			Convey("Then pages cover the league", func() {
				So(l.Pages(), ShouldEqual, 3)
			})
		})

		Convey("When the configuration is empty", func() {
			l := fakeleague.Generate(fakeleague.Config{})

			Convey("Then defaults apply", func() {
				So(l.Config().LeagueID, ShouldEqual, fakeleague.DefaultLeagueID)
				So(l.Config().Managers, ShouldEqual, fakeleague.DefaultManagers)
				So(len(l.Bootstrap().Elements), ShouldEqual, fakeleague.DefaultPlayers)
			})
		})
	})
}

func TestServer(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fake league behind an HTTP server", t, func() {
		l := fakeleague.Generate(fakeleague.Config{
			LeagueID:            5,
			Managers:            5,
			CurrentGW:           3,
			PageSize:            2,
			Seed:                7,
			PicksFailures:       1,
			DuplicateOnNextPage: true,
		})
		srv := fakeleague.NewServer(l)
		ts := httptest.NewServer(srv)
		defer ts.Close()
		c := fplapi.New(fplapi.WithBaseURL(ts.URL))

		Convey("Then bootstrap flags the current gameweek", func() {
			b, err := c.Bootstrap(ctx)
			So(err, ShouldBeNil)
			So(b.Events[2].IsCurrent, ShouldBeTrue)
			So(b.Events[3].IsNext, ShouldBeTrue)
			So(srv.Hits(fakeleague.EndpointBootstrap), ShouldEqual, 1)
		})

		Convey("Then standings paginate and repeat the previous page's last entry", func() {
			p1, err := c.Standings(ctx, 5, 1)
			So(err, ShouldBeNil)
			So(p1.Standings.HasNext, ShouldBeTrue)
			So(len(p1.Standings.Results), ShouldEqual, 2)

			p2, err := c.Standings(ctx, 5, 2)
			So(err, ShouldBeNil)
			So(p2.Standings.Results[0].Entry, ShouldEqual, p1.Standings.Results[1].Entry)

			p3, err := c.Standings(ctx, 5, 3)
			So(err, ShouldBeNil)
			So(p3.Standings.HasNext, ShouldBeFalse)
		})

		Convey("Then an unknown league is a status error", func() {
			_, err := c.Standings(ctx, 6, 1)
			var se *fplapi.StatusError
			So(errors.As(err, &se), ShouldBeTrue)
			So(se.Status, ShouldEqual, 404)
		})

		Convey("Then a failing entry answers 500 on picks", func() {
			var failing, healthy int
			for _, e := range l.Entries() {
				if e.PicksFail {
					failing = e.Standing.Entry
				} else if e.LivePoints != nil {
					healthy = e.Standing.Entry
				}
			}

			_, err := c.Picks(ctx, failing, 3)
			var se *fplapi.StatusError
			So(errors.As(err, &se), ShouldBeTrue)
			So(se.Status, ShouldEqual, 500)

			pk, err := c.Picks(ctx, healthy, 3)
			So(err, ShouldBeNil)
			So(pk.EntryHistory.Points, ShouldNotBeNil)
		})

		Convey("Then history and transfers decode for every entry", func() {
			for _, e := range l.Entries() {
				h, err := c.History(ctx, e.Standing.Entry)
				So(err, ShouldBeNil)
				So(len(h.Current), ShouldEqual, len(e.History.Current))

				tr, err := c.Transfers(ctx, e.Standing.Entry)
				So(err, ShouldBeNil)
				So(len(tr), ShouldEqual, len(e.Transfers))
			}
		})
	})
}

func TestVerify(t *testing.T) {
	Convey("Given a league and the snapshot a correct build publishes", t, func() {
		l := fakeleague.Generate(fakeleague.Config{Managers: 4, CurrentGW: 2, Seed: 3})
		snap := &model.Snapshot{
			LeagueID:  l.Config().LeagueID,
			CurrentGW: 2,
			Managers:  l.Expected(),
		}

		Convey("Then it verifies", func() {
			So(l.Verify(snap), ShouldBeNil)
		})

		Convey("When a gameweek score is wrong", func() {
			snap.Managers[0].GWPoints[1] = model.IntPtr(-99)

			Convey("Then verification fails naming the entry", func() {
				err := l.Verify(snap)
				So(errors.Is(err, fakeleague.ErrMismatch), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "gw2 -99")
			})
		})

		Convey("When a manager is missing", func() {
			snap.Managers = snap.Managers[:3]

			Convey("Then verification fails", func() {
				So(l.Verify(snap), ShouldNotBeNil)
			})
		})

		Convey("Then a nil snapshot fails", func() {
			So(errors.Is(l.Verify(nil), fakeleague.ErrMismatch), ShouldBeTrue)
		})
	})
}
