package fakeleague

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/google/uuid"

	"github.com/okian/leaguetable/internal/adapters/fplapi"
	"github.com/okian/leaguetable/internal/domain/model"
)

// Ranges for generated scores.
const (
	minPoints       = 20
	pointsSpread    = 80
	hitCost         = 4
	liveBumpSpread  = 5
	mismatchOffset  = 5
	firstEntryID    = 100001
	entryIDStride   = 13
	chipOdds        = 3
	hitOdds         = 4
	maxTransfersGW  = 2
	unknownEvery    = 5
	teamNamePrefix  = 8
	defaultLeagueGW = 38
)

var chipNames = []string{"wildcard", "bboost", "3xc", "freehit"}

var firstNames = []string{
	"Ayse", "Mehmet", "Zeynep", "Can", "Elif", "Emre", "Deniz", "Selin",
	"Kerem", "Ece", "Burak", "Defne", "Onur", "Irem", "Cem", "Nazli",
}

var lastNames = []string{
	"Yilmaz", "Kaya", "Demir", "Sahin", "Celik", "Aydin", "Ozturk", "Arslan",
}

// Entry is one generated manager with everything the upstream serves for it.
type Entry struct {
	Standing  fplapi.StandingEntry
	History   fplapi.History
	Transfers []fplapi.TransferRecord

	// LivePoints is what the picks endpoint reports for the current
	// gameweek; nil when the entry has no team for it.
	LivePoints *int
	LiveCost   int
	PicksFail  bool
}

// League is a generated league. It is immutable once built.
type League struct {
	cfg       Config
	bootstrap fplapi.Bootstrap
	entries   []Entry
	byID      map[int]*Entry
}

// Generate builds a league from cfg. The result depends only on cfg.
func Generate(cfg Config) *League {
	cfg = cfg.normalized()
	rng := rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(cfg.LeagueID)))

	l := &League{cfg: cfg, byID: make(map[int]*Entry, cfg.Managers)}
	l.bootstrap = generateBootstrap(cfg)

	l.entries = make([]Entry, cfg.Managers)
	for i := range l.entries {
		l.entries[i] = generateEntry(rng, cfg, i)
	}
	// The last Mismatched entries carry a total the gameweeks don't add up to.
	for i := cfg.Managers - cfg.Mismatched; i < cfg.Managers; i++ {
		l.entries[i].Standing.Total += mismatchOffset
	}

	sort.SliceStable(l.entries, func(i, j int) bool {
		return l.entries[i].Standing.Total > l.entries[j].Standing.Total
	})
	for i := range l.entries {
		l.entries[i].Standing.Rank = i + 1
		l.byID[l.entries[i].Standing.Entry] = &l.entries[i]
	}
	return l
}

func generateBootstrap(cfg Config) fplapi.Bootstrap {
	b := fplapi.Bootstrap{
		Elements: make([]fplapi.Element, cfg.Players),
	}
	for i := range b.Elements {
		b.Elements[i] = fplapi.Element{ID: i + 1, WebName: fmt.Sprintf("Player%02d", i+1)}
	}
	last := defaultLeagueGW
	if cfg.CurrentGW > last {
		last = cfg.CurrentGW
	}
	for gw := 1; gw <= last; gw++ {
		b.Events = append(b.Events, fplapi.Event{
			ID:        gw,
			IsCurrent: gw == cfg.CurrentGW,
			IsNext:    gw == cfg.CurrentGW+1,
			Finished:  gw < cfg.CurrentGW,
		})
	}
	return b
}

func generateEntry(rng *rand.Rand, cfg Config, i int) Entry {
	id := firstEntryID + i*entryIDStride
	team := uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%d/%d/%d", cfg.Seed, cfg.LeagueID, id)))
	e := Entry{
		Standing: fplapi.StandingEntry{
			Entry:      id,
			EntryName:  "Team " + team.String()[:teamNamePrefix],
			PlayerName: firstNames[rng.IntN(len(firstNames))] + " " + lastNames[rng.IntN(len(lastNames))],
		},
		History:   fplapi.History{Current: []fplapi.HistoryEvent{}, Chips: []fplapi.HistoryChip{}},
		Transfers: []fplapi.TransferRecord{},
		PicksFail: i < cfg.PicksFailures,
	}

	first := 1
	if i >= cfg.Managers-cfg.LateJoiners-cfg.Mismatched && i < cfg.Managers-cfg.Mismatched {
		first = 2
	}
	running := 0
	for gw := first; gw <= cfg.CurrentGW; gw++ {
		h := fplapi.HistoryEvent{Event: gw, Points: minPoints + rng.IntN(pointsSpread)}
		if rng.IntN(hitOdds) == 0 {
			h.EventTransfersCost = hitCost
		}
		running += h.Points
		h.TotalPoints = running - h.EventTransfersCost
		e.History.Current = append(e.History.Current, h)

		for n := rng.IntN(maxTransfersGW + 1); n > 0; n-- {
			in := 1 + rng.IntN(cfg.Players)
			if gw == cfg.CurrentGW && i%unknownEvery == 0 {
				// Not in bootstrap; resolves to its numeric id.
				in = cfg.Players + 1 + i
			}
			e.Transfers = append(e.Transfers, fplapi.TransferRecord{
				ElementIn:  in,
				ElementOut: 1 + rng.IntN(cfg.Players),
				Event:      gw,
			})
		}
	}
	if len(e.History.Current) > 0 && rng.IntN(chipOdds) == 0 {
		gw := first + rng.IntN(cfg.CurrentGW-first+1)
		e.History.Chips = append(e.History.Chips, fplapi.HistoryChip{
			Event: gw,
			Name:  chipNames[rng.IntN(len(chipNames))],
		})
	}

	if n := len(e.History.Current); n > 0 && e.History.Current[n-1].Event == cfg.CurrentGW {
		cur := e.History.Current[n-1]
		e.LivePoints = model.IntPtr(cur.Points + rng.IntN(liveBumpSpread))
		e.LiveCost = cur.EventTransfersCost
	}

	for _, gw := range e.expectedPoints(cfg.CurrentGW) {
		if gw != nil {
			e.Standing.Total += *gw
		}
	}
	return e
}

// expectedPoints is the gwPoints array a correct build produces for e.
func (e *Entry) expectedPoints(currentGW int) []*int {
	out := make([]*int, currentGW)
	for _, h := range e.History.Current {
		if h.Event >= 1 && h.Event <= currentGW {
			out[h.Event-1] = model.IntPtr(h.Points - h.EventTransfersCost)
		}
	}
	if !e.PicksFail && e.LivePoints != nil {
		out[currentGW-1] = model.IntPtr(*e.LivePoints - e.LiveCost)
	}
	return out
}

// Config returns the normalized configuration the league was built from.
func (l *League) Config() Config { return l.cfg }

// Entries returns the entries in standings order.
func (l *League) Entries() []Entry { return l.entries }

// Entry looks up an entry by id.
func (l *League) Entry(id int) (*Entry, bool) {
	e, ok := l.byID[id]
	return e, ok
}

// Bootstrap returns the season metadata document.
func (l *League) Bootstrap() fplapi.Bootstrap { return l.bootstrap }

// Expected returns the managers a correct build of this league publishes,
// ordered by total descending.
func (l *League) Expected() []model.Manager {
	names := make(map[int]string, len(l.bootstrap.Elements))
	for _, el := range l.bootstrap.Elements {
		names[el.ID] = el.WebName
	}
	ref := func(id int) model.PlayerRef {
		if n, ok := names[id]; ok {
			return model.PlayerRef{ID: id, Name: n}
		}
		return model.PlayerRef{ID: id, Name: fmt.Sprint(id)}
	}

	out := make([]model.Manager, 0, len(l.entries))
	for i := range l.entries {
		e := &l.entries[i]
		m := model.Manager{
			TeamName:          e.Standing.EntryName,
			PlayerName:        e.Standing.PlayerName,
			EntryID:           e.Standing.Entry,
			Total:             e.Standing.Total,
			GWPoints:          e.expectedPoints(l.cfg.CurrentGW),
			Chips:             []model.Chip{},
			LatestGWTransfers: []model.Transfer{},
		}
		for _, c := range e.History.Chips {
			m.Chips = append(m.Chips, model.Chip{Event: c.Event, Name: c.Name})
		}
		for _, t := range e.Transfers {
			if t.Event == l.cfg.CurrentGW {
				m.LatestGWTransfers = append(m.LatestGWTransfers, model.Transfer{In: ref(t.ElementIn), Out: ref(t.ElementOut)})
			}
		}
		out = append(out, m)
	}
	return out
}

// Mismatched returns the entry ids whose total disagrees with their
// gameweek sum.
func (l *League) Mismatched() []int {
	var ids []int
	for _, m := range l.Expected() {
		if m.Total != m.SumGW() {
			ids = append(ids, m.EntryID)
		}
	}
	return ids
}
