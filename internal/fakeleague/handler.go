package fakeleague

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/okian/leaguetable/internal/adapters/fplapi"
)

// Endpoint names reported by Hits.
const (
	EndpointBootstrap = "bootstrap"
	EndpointStandings = "standings"
	EndpointHistory   = "history"
	EndpointTransfers = "transfers"
	EndpointPicks     = "picks"
)

// Server serves a League over the upstream API routes. Mount it at the
// client's base URL.
type Server struct {
	league *League
	mux    *http.ServeMux

	mu   sync.Mutex
	hits map[string]int
}

// NewServer wraps l in an http.Handler.
func NewServer(l *League) *Server {
	s := &Server{league: l, mux: http.NewServeMux(), hits: make(map[string]int)}
	s.mux.HandleFunc("GET /bootstrap-static/{$}", s.handleBootstrap)
	s.mux.HandleFunc("GET /leagues-classic/{league}/standings/{$}", s.handleStandings)
	s.mux.HandleFunc("GET /entry/{entry}/history/{$}", s.handleHistory)
	s.mux.HandleFunc("GET /entry/{entry}/transfers/{$}", s.handleTransfers)
	s.mux.HandleFunc("GET /entry/{entry}/event/{gw}/picks/{$}", s.handlePicks)
	return s
}

// League returns the served league.
func (s *Server) League() *League { return s.league }

// Hits returns how many requests an endpoint has answered.
func (s *Server) Hits(endpoint string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[endpoint]
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if d := s.league.cfg.Latency; d > 0 {
		t := time.NewTimer(d)
		select {
		case <-t.C:
		case <-r.Context().Done():
			t.Stop()
			return
		}
	}
	s.mux.ServeHTTP(w, r)
}

func (s *Server) hit(endpoint string) {
	s.mu.Lock()
	s.hits[endpoint]++
	s.mu.Unlock()
}

func (s *Server) handleBootstrap(w http.ResponseWriter, _ *http.Request) {
	s.hit(EndpointBootstrap)
	writeJSON(w, s.league.bootstrap)
}

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	s.hit(EndpointStandings)
	id, err := strconv.Atoi(r.PathValue("league"))
	if err != nil || id != s.league.cfg.LeagueID {
		http.NotFound(w, r)
		return
	}
	page := 1
	if v := r.URL.Query().Get("page_standings"); v != "" {
		if page, err = strconv.Atoi(v); err != nil || page < 1 {
			http.Error(w, "bad page", http.StatusBadRequest)
			return
		}
	}
	writeJSON(w, s.league.page(page))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	s.hit(EndpointHistory)
	e, ok := s.entry(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, e.History)
}

func (s *Server) handleTransfers(w http.ResponseWriter, r *http.Request) {
	s.hit(EndpointTransfers)
	e, ok := s.entry(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, e.Transfers)
}

func (s *Server) handlePicks(w http.ResponseWriter, r *http.Request) {
	s.hit(EndpointPicks)
	e, ok := s.entry(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	gw, err := strconv.Atoi(r.PathValue("gw"))
	if err != nil || gw != s.league.cfg.CurrentGW {
		http.NotFound(w, r)
		return
	}
	if e.PicksFail {
		http.Error(w, "picks unavailable", http.StatusInternalServerError)
		return
	}
	if e.LivePoints == nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, fplapi.Picks{EntryHistory: fplapi.PicksHistory{
		Event:              gw,
		Points:             e.LivePoints,
		EventTransfersCost: e.LiveCost,
	}})
}

func (s *Server) entry(r *http.Request) (*Entry, bool) {
	id, err := strconv.Atoi(r.PathValue("entry"))
	if err != nil {
		return nil, false
	}
	return s.league.Entry(id)
}

// page returns standings page n (1-based). With DuplicateOnNextPage the
// last entry of the previous page is repeated at the top.
func (l *League) page(n int) fplapi.StandingsPage {
	size := l.cfg.PageSize
	start := (n - 1) * size
	end := start + size
	if start > len(l.entries) {
		start = len(l.entries)
	}
	if end > len(l.entries) {
		end = len(l.entries)
	}

	results := make([]fplapi.StandingEntry, 0, end-start+1)
	if l.cfg.DuplicateOnNextPage && n > 1 && start > 0 && start <= len(l.entries) {
		results = append(results, l.entries[start-1].Standing)
	}
	for i := start; i < end; i++ {
		results = append(results, l.entries[i].Standing)
	}
	return fplapi.StandingsPage{Standings: fplapi.Standings{
		HasNext: end < len(l.entries),
		Page:    n,
		Results: results,
	}}
}

// Pages returns how many standings pages the league has.
func (l *League) Pages() int {
	n := (len(l.entries) + l.cfg.PageSize - 1) / l.cfg.PageSize
	if n == 0 {
		return 1
	}
	return n
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
