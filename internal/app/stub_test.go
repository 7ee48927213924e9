package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/okian/leaguetable/internal/adapters/fplapi"
)

// stubUpstream serves canned league data and counts calls.
type stubUpstream struct {
	mu sync.Mutex

	boot      *fplapi.Bootstrap
	pages     map[int]*fplapi.StandingsPage
	histories map[int]*fplapi.History
	transfers map[int][]fplapi.TransferRecord
	picks     map[int]*fplapi.Picks
	picksErr  map[int]error
	errs      map[string]error

	calls map[string]int
}

func newStub() *stubUpstream {
	return &stubUpstream{
		boot:      &fplapi.Bootstrap{},
		pages:     map[int]*fplapi.StandingsPage{},
		histories: map[int]*fplapi.History{},
		transfers: map[int][]fplapi.TransferRecord{},
		picks:     map[int]*fplapi.Picks{},
		picksErr:  map[int]error{},
		errs:      map[string]error{},
		calls:     map[string]int{},
	}
}

func (s *stubUpstream) record(endpoint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[endpoint]++
	return s.errs[endpoint]
}

func (s *stubUpstream) count(endpoint string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[endpoint]
}

func (s *stubUpstream) fail(endpoint string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[endpoint] = err
}

func (s *stubUpstream) Bootstrap(_ context.Context) (*fplapi.Bootstrap, error) {
	if err := s.record("bootstrap"); err != nil {
		return nil, err
	}
	return s.boot, nil
}

func (s *stubUpstream) Standings(_ context.Context, _ int, page int) (*fplapi.StandingsPage, error) {
	if err := s.record("standings"); err != nil {
		return nil, err
	}
	p, ok := s.pages[page]
	if !ok {
		return nil, &fplapi.StatusError{URL: "standings", Status: 404}
	}
	return p, nil
}

func (s *stubUpstream) History(_ context.Context, entryID int) (*fplapi.History, error) {
	if err := s.record("history"); err != nil {
		return nil, err
	}
	h, ok := s.histories[entryID]
	if !ok {
		return &fplapi.History{}, nil
	}
	return h, nil
}

func (s *stubUpstream) Transfers(_ context.Context, entryID int) ([]fplapi.TransferRecord, error) {
	if err := s.record("transfers"); err != nil {
		return nil, err
	}
	return s.transfers[entryID], nil
}

func (s *stubUpstream) Picks(_ context.Context, entryID, _ int) (*fplapi.Picks, error) {
	if err := s.record("picks"); err != nil {
		return nil, err
	}
	if err, ok := s.picksErr[entryID]; ok {
		return nil, err
	}
	p, ok := s.picks[entryID]
	if !ok {
		return &fplapi.Picks{}, nil
	}
	return p, nil
}

// sleepCounter records pauses without waiting.
type sleepCounter struct {
	mu    sync.Mutex
	count int
	total time.Duration
}

func (c *sleepCounter) sleep(ctx context.Context, d time.Duration) error {
	c.mu.Lock()
	c.count++
	c.total += d
	c.mu.Unlock()
	return ctx.Err()
}

func (c *sleepCounter) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

func events(currentGW int) []fplapi.Event {
	out := make([]fplapi.Event, 0, 38)
	for gw := 1; gw <= 38; gw++ {
		out = append(out, fplapi.Event{ID: gw, IsCurrent: gw == currentGW, IsNext: gw == currentGW+1})
	}
	return out
}

func ptr(v int) *int { return &v }
