package render_test

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/okian/leaguetable/internal/adapters/render"
	"github.com/okian/leaguetable/internal/domain/board"
	"github.com/okian/leaguetable/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

var update = flag.Bool("update", false, "rewrite golden files")

func sampleTable() board.Table {
	sortable := func(key, label string, kind types.ValueKind) board.HeaderCell {
		return board.HeaderCell{Key: key, Label: label, RowSpan: 2, Kind: kind, NextDir: types.Desc}
	}
	total := sortable("total", "Total", types.Numeric)
	total.Dir = types.Desc
	total.NextDir = types.Asc
	total.Classes = []string{board.ClassSepLeft}

	return board.Table{
		Meta: board.Meta{
			LeagueID:    1,
			CurrentGW:   2,
			GeneratedAt: time.Date(2025, 9, 1, 18, 30, 0, 0, time.UTC),
			LocalTime:   "2025-09-01 21:30",
			Zone:        "+03",
			Legend: []board.LegendItem{
				{Class: board.ClassGWLeader, Label: "Top score in GW2"},
				{Class: board.ClassFuture, Label: "Upcoming gameweek"},
			},
		},
		Sort: board.SortState{Key: "total", Dir: types.Desc},
		Top: []board.HeaderCell{
			sortable("rank", "Rank", types.Numeric),
			sortable("teamName", "Team", types.Text),
			total,
			{Label: "Here We Go!", ColSpan: 2},
			sortable("chips", "Activated Chips", types.Text),
			sortable("latest", "Latest Transfers", types.Text),
		},
		Sub: []board.HeaderCell{
			{Key: "gw_1", Label: "GW1", Kind: types.Numeric, NextDir: types.Desc},
			{Key: "sum_p1", Label: "Sum", Kind: types.Numeric, NextDir: types.Desc, Classes: []string{board.ClassSum}},
		},
		Order: []string{"rank", "teamName", "total", "gw_1", "sum_p1", "chips", "latest"},
		Body: [][]board.Cell{
			{
				{Key: "rank", Text: "1"},
				{Key: "teamName", Text: "Alpha", Classes: []string{board.ClassTeam, board.ClassGWLeader}},
				{Key: "total", Text: "150", Classes: []string{board.ClassSepLeft}},
				{Key: "gw_1", Text: "55"},
				{Key: "sum_p1", Text: "55", Classes: []string{board.ClassSum}},
				{Key: "chips", Text: "—", Placeholder: true, Classes: []string{board.ClassChips}},
				{Key: "latest", Classes: []string{board.ClassTransfers}, Badges: []board.Badge{
					{Kind: board.BadgeIn, Label: "in:", Text: "Saka"},
					{Kind: board.BadgeOut, Label: "out:", Text: "Palmer"},
				}},
			},
			{
				{Key: "rank", Text: "2"},
				{Key: "teamName", Text: "<Beta>", Classes: []string{board.ClassTeam}},
				{Key: "total", Text: "90", Classes: []string{board.ClassSepLeft}},
				{Key: "gw_1"},
				{Key: "sum_p1", Classes: []string{board.ClassSum}},
				{Key: "chips", Classes: []string{board.ClassChips}, Badges: []board.Badge{{Kind: board.BadgeChip, Text: "wildcard"}}},
				{Key: "latest", Text: "—", Placeholder: true, Classes: []string{board.ClassTransfers}},
			},
		},
	}
}

// assertGolden compares got with testdata/name and shows a unified diff.
func assertGolden(t *testing.T, name string, got []byte) {
	path := filepath.Join("testdata", name)
	if *update {
		if err := os.WriteFile(path, got, 0o644); err != nil {
			t.Fatalf("write golden: %v", err)
		}
	}
	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	if bytes.Equal(got, want) {
		return
	}
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(want)),
		B:        difflib.SplitLines(string(got)),
		FromFile: name,
		ToFile:   "got",
		Context:  2,
	})
	t.Errorf("output differs from %s:\n%s", name, diff)
}

func TestByName(t *testing.T) {
	Convey("Given format names", t, func() {
		Convey("Then known formats resolve", func() {
			for _, name := range render.Formats() {
				r, err := render.ByName(name)
				So(err, ShouldBeNil)
				So(r.Format(), ShouldEqual, name)
			}
		})

		Convey("Then an empty name selects HTML", func() {
			r, err := render.ByName("")
			So(err, ShouldBeNil)
			So(r.ContentType(), ShouldStartWith, "text/html")
		})

		Convey("Then names are case-insensitive", func() {
			r, err := render.ByName(" JSON ")
			So(err, ShouldBeNil)
			So(r.ContentType(), ShouldEqual, "application/json")
		})

		Convey("Then an unknown name fails", func() {
			_, err := render.ByName("xml")
			So(errors.Is(err, render.ErrUnknownFormat), ShouldBeTrue)
		})
	})
}

func TestText(t *testing.T) {
	tbl := sampleTable()
	tbl.Body[1][1].Text = "Beta"

	var buf bytes.Buffer
	if err := render.NewText().Render(&buf, tbl); err != nil {
		t.Fatalf("render: %v", err)
	}
	assertGolden(t, "board.txt.golden", buf.Bytes())

	Convey("Given a team name with control characters", t, func() {
		tbl := sampleTable()
		tbl.Body[1][1].Text = "Be\tta\nFC"
		var out bytes.Buffer
		So(render.NewText().Render(&out, tbl), ShouldBeNil)

		Convey("Then it stays on its own row and column", func() {
			lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
			So(len(lines), ShouldEqual, 6)
			So(lines[5], ShouldStartWith, "2     Be ta FC")
		})
	})

	Convey("Given the error variant", t, func() {
		var out bytes.Buffer
		So(render.NewText().RenderError(&out), ShouldBeNil)
		So(out.String(), ShouldEqual, "Error loading data\n")
	})
}

func TestHTML(t *testing.T) {
	Convey("Given a rendered page", t, func() {
		var buf bytes.Buffer
		So(render.NewHTML(render.WithTitle("Iste Lig")).Render(&buf, sampleTable()), ShouldBeNil)
		page := buf.String()

		Convey("Then the meta region and legend are present", func() {
			So(page, ShouldContainSubstring, "<title>Iste Lig</title>")
			So(page, ShouldContainSubstring, `<div class="meta">GW 2 • Last update: 2025-09-01 21:30 &#43;03</div>`)
			So(page, ShouldContainSubstring, `<li><span class="swatch gw-leader"></span>Top score in GW2</li>`)
		})

		Convey("Then header cells link to the next sort", func() {
			So(page, ShouldContainSubstring,
				`<th rowspan="2" class="sep-left" data-key="total" aria-sort="descending"><a href="?dir=asc&amp;sort=total">Total ▼</a></th>`)
			So(page, ShouldContainSubstring,
				`<th data-key="gw_1"><a href="?dir=desc&amp;sort=gw_1">GW1</a></th>`)
		})

		Convey("Then period groups span their columns and are not links", func() {
			So(page, ShouldContainSubstring, `<th colspan="2">Here We Go!</th>`)
		})

		Convey("Then badges and placeholders render", func() {
			So(page, ShouldContainSubstring,
				`<td class="transfers"><span class="badge in"><strong>in:</strong> Saka</span> <span class="badge out"><strong>out:</strong> Palmer</span></td>`)
			So(page, ShouldContainSubstring, `<td class="chips"><span class="badge">—</span></td>`)
			So(page, ShouldContainSubstring, `<td class="chips"><span class="badge chip">wildcard</span></td>`)
		})

		Convey("Then leader classes reach the team cell", func() {
			So(page, ShouldContainSubstring, `<td class="team gw-leader">Alpha</td>`)
		})

		Convey("Then team names are escaped", func() {
			So(page, ShouldContainSubstring, "&lt;Beta&gt;")
			So(page, ShouldNotContainSubstring, "<Beta>")
		})
	})

	Convey("Given the error variant", t, func() {
		var buf bytes.Buffer
		So(render.NewHTML().RenderError(&buf), ShouldBeNil)
		page := buf.String()

		Convey("Then the meta and body show the error and no header is drawn", func() {
			So(page, ShouldContainSubstring, `<div class="meta">Error loading data</div>`)
			So(page, ShouldContainSubstring, `<tr><td>Error loading data</td></tr>`)
			So(page, ShouldNotContainSubstring, "<thead")
		})
	})
}

func TestJSON(t *testing.T) {
	Convey("Given the JSON renderer", t, func() {
		var buf bytes.Buffer
		So(render.NewJSON().Render(&buf, sampleTable()), ShouldBeNil)

		Convey("Then the table tree round-trips", func() {
			var got board.Table
			So(json.Unmarshal(buf.Bytes(), &got), ShouldBeNil)
			So(got.Meta.CurrentGW, ShouldEqual, 2)
			So(got.Order, ShouldResemble, sampleTable().Order)
			So(got.Body[0][6].Badges[0].Text, ShouldEqual, "Saka")
		})

		Convey("Then the error variant is an error object", func() {
			var out bytes.Buffer
			So(render.NewJSON().RenderError(&out), ShouldBeNil)
			So(out.String(), ShouldEqual, "{\"error\":\"Error loading data\"}\n")
		})
	})
}
