package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/okian/leaguetable/internal/adapters/fplapi"
	"github.com/okian/leaguetable/internal/domain/dedupe"
	"github.com/okian/leaguetable/internal/domain/model"
	"github.com/okian/leaguetable/pkg/logger"
	"github.com/okian/leaguetable/pkg/metrics"
)

type buildReport struct {
	mismatches  []Mismatch
	picksFailed int
}

func (s *Service) build(ctx context.Context) (*model.Snapshot, buildReport, error) {
	var report buildReport

	boot, err := s.client.Bootstrap(ctx)
	if err != nil {
		return nil, report, fmt.Errorf("bootstrap: %w", err)
	}
	currentGW, err := CurrentGameweek(boot.Events)
	if err != nil {
		return nil, report, err
	}
	s.logger.Info(ctx, "building snapshot",
		logger.Int("leagueID", s.leagueID),
		logger.Int("currentGW", currentGW),
	)

	entries, err := s.standings(ctx)
	if err != nil {
		return nil, report, err
	}

	names := make(map[int]string, len(boot.Elements))
	for _, e := range boot.Elements {
		names[e.ID] = e.WebName
	}

	managers := make([]model.Manager, 0, len(entries))
	for _, entry := range entries {
		m, picksOK, err := s.manager(ctx, entry, currentGW, names)
		if err != nil {
			return nil, report, err
		}
		if !picksOK {
			report.picksFailed++
		}
		managers = append(managers, m)
		if err := s.sleep(ctx, s.requestDelay); err != nil {
			return nil, report, err
		}
	}

	report.mismatches = Validate(managers)
	s.logMismatches(ctx, report.mismatches)
	metrics.UpdateValidationMismatches(len(report.mismatches))

	sort.SliceStable(managers, func(i, j int) bool {
		return managers[i].Total > managers[j].Total
	})

	snap := &model.Snapshot{
		LeagueID:    s.leagueID,
		GeneratedAt: s.now().UTC(),
		CurrentGW:   currentGW,
		Managers:    managers,
	}
	if err := s.store.Save(ctx, snap); err != nil {
		return nil, report, fmt.Errorf("publish: %w", err)
	}
	s.logger.Info(ctx, "snapshot published",
		logger.Int("leagueID", snap.LeagueID),
		logger.Int("currentGW", snap.CurrentGW),
		logger.Int("managers", len(snap.Managers)),
	)
	return snap, report, nil
}

// CurrentGameweek picks the gameweek in progress, else the next one, else
// the last listed event.
func CurrentGameweek(events []fplapi.Event) (int, error) {
	if len(events) == 0 {
		return 0, ErrNoEvents
	}
	for _, e := range events {
		if e.IsCurrent {
			return e.ID, nil
		}
	}
	for _, e := range events {
		if e.IsNext {
			return e.ID, nil
		}
	}
	if id := events[len(events)-1].ID; id > 0 {
		return id, nil
	}
	return len(events), nil
}

// standings walks every page of the league. An entry that reappears on a
// later page is dropped.
func (s *Service) standings(ctx context.Context) ([]fplapi.StandingEntry, error) {
	seen := dedupe.NewInMemoryDeduper()
	var out []fplapi.StandingEntry

	for page := 1; ; page++ {
		p, err := s.client.Standings(ctx, s.leagueID, page)
		if err != nil {
			return nil, fmt.Errorf("standings page %d: %w", page, err)
		}
		for _, r := range p.Standings.Results {
			if seen.SeenAndRecord(ctx, r.Entry) {
				metrics.RecordStandingsDuplicate()
				s.logger.Debug(ctx, "duplicate standings entry", logger.Int("entryID", r.Entry), logger.Int("page", page))
				continue
			}
			out = append(out, r)
		}
		if !p.Standings.HasNext {
			return out, nil
		}
		if err := s.sleep(ctx, s.requestDelay); err != nil {
			return nil, err
		}
	}
}

// manager assembles one manager record. picksOK is false when the picks
// request failed and the history value was kept.
func (s *Service) manager(ctx context.Context, entry fplapi.StandingEntry, currentGW int, names map[int]string) (model.Manager, bool, error) {
	hist, err := s.client.History(ctx, entry.Entry)
	if err != nil {
		return model.Manager{}, false, fmt.Errorf("history for entry %d: %w", entry.Entry, err)
	}
	transfers, err := s.client.Transfers(ctx, entry.Entry)
	if err != nil {
		return model.Manager{}, false, fmt.Errorf("transfers for entry %d: %w", entry.Entry, err)
	}

	net := make(map[int]int, len(hist.Current))
	for _, h := range hist.Current {
		net[h.Event] = h.Points - h.EventTransfersCost
	}

	picksOK := true
	picks, err := s.client.Picks(ctx, entry.Entry, currentGW)
	switch {
	case err != nil:
		if ctxErr := ctx.Err(); ctxErr != nil {
			return model.Manager{}, false, ctxErr
		}
		picksOK = false
		metrics.RecordPicksFallback()
		s.logger.Debug(ctx, "picks unavailable, keeping history value",
			logger.Int("entryID", entry.Entry),
			logger.Int("gw", currentGW),
			logger.Error(err),
		)
	case picks.EntryHistory.Points != nil:
		net[currentGW] = *picks.EntryHistory.Points - picks.EntryHistory.EventTransfersCost
	}

	m := model.Manager{
		TeamName:          entry.EntryName,
		PlayerName:        entry.PlayerName,
		EntryID:           entry.Entry,
		Total:             entry.Total,
		GWPoints:          make([]*int, currentGW),
		Chips:             make([]model.Chip, 0, len(hist.Chips)),
		LatestGWTransfers: []model.Transfer{},
	}
	for gw := 1; gw <= currentGW; gw++ {
		if v, ok := net[gw]; ok {
			m.GWPoints[gw-1] = model.IntPtr(v)
		}
	}
	for _, c := range hist.Chips {
		m.Chips = append(m.Chips, model.Chip{Event: c.Event, Name: c.Name})
	}
	for _, t := range transfers {
		if t.Event != currentGW {
			continue
		}
		m.LatestGWTransfers = append(m.LatestGWTransfers, model.Transfer{
			In:  playerRef(t.ElementIn, names),
			Out: playerRef(t.ElementOut, names),
		})
	}
	return m, picksOK, nil
}

func playerRef(id int, names map[int]string) model.PlayerRef {
	name, ok := names[id]
	if !ok || name == "" {
		name = strconv.Itoa(id)
	}
	return model.PlayerRef{ID: id, Name: name}
}
