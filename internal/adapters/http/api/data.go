package api

import (
	"context"
	"net/http"

	"github.com/okian/leaguetable/internal/adapters/repository"
	"github.com/okian/leaguetable/internal/domain/model"
)

// DataDependencies defines the interface for snapshot reads.
type DataDependencies interface {
	Latest(ctx context.Context) (*model.Snapshot, error)
}

// DataHandler serves the raw snapshot document.
type DataHandler struct {
	deps DataDependencies
}

// NewDataHandler creates a new data handler.
func NewDataHandler(deps DataDependencies) *DataHandler {
	return &DataHandler{deps: deps}
}

// HandleData handles GET /data.json requests.
func (h *DataHandler) HandleData(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_data"
	noStore(w)

	snap, err := h.deps.Latest(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", KindErr(op, ErrUnavailable, err))
		return
	}
	body, err := repository.Encode(snap)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
