package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/leaguetable/internal/adapters/mq/queue"
)

// RebuildDependencies defines the interface for queuing rebuilds.
type RebuildDependencies interface {
	RequestRebuild(ctx context.Context, reason string) (string, error)
}

// RebuildHandler accepts manual rebuild requests.
type RebuildHandler struct {
	deps RebuildDependencies
}

// NewRebuildHandler creates a new rebuild handler.
func NewRebuildHandler(deps RebuildDependencies) *RebuildHandler {
	return &RebuildHandler{deps: deps}
}

type rebuildResponse struct {
	Status    string `json:"status"`
	RequestID string `json:"requestId"`
}

// HandleRebuild handles POST /rebuild requests.
func (h *RebuildHandler) HandleRebuild(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_rebuild"

	id, err := h.deps.RequestRebuild(r.Context(), reasonManual)
	switch {
	case err == nil:
		writeJSON(w, http.StatusAccepted, rebuildResponse{Status: "accepted", RequestID: id})
	case errors.Is(err, queue.ErrFull):
		writeError(w, http.StatusTooManyRequests, "backpressure", KindErr(op, ErrBackpressure, err))
	default:
		writeError(w, http.StatusServiceUnavailable, "unavailable", KindErr(op, ErrUnavailable, err))
	}
}
