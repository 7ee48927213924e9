package api

import (
	"net/http"
)

// StatsProvider reports the builder's state: last build, queue and worker
// counters, and the published snapshot's summary.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves GET /stats.
type StatsHandler struct {
	provider StatsProvider
}

// NewStatsHandler creates a stats handler.
func NewStatsHandler(provider StatsProvider) *StatsHandler {
	return &StatsHandler{provider: provider}
}

// HandleStats writes the provider's stats as uncached JSON.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, _ *http.Request) {
	noStore(w)
	writeJSON(w, http.StatusOK, h.provider.GetStats())
}
