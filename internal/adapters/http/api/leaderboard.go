package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/okian/leaguetable/internal/adapters/render"
	"github.com/okian/leaguetable/internal/domain/board"
	"github.com/okian/leaguetable/internal/domain/model"
	"github.com/okian/leaguetable/internal/domain/types"
	"github.com/okian/leaguetable/pkg/logger"
	"github.com/okian/leaguetable/pkg/metrics"
)

const defaultCacheSize = 64

// LeaderboardDependencies defines the interface for leaderboard operations.
type LeaderboardDependencies interface {
	Latest(ctx context.Context) (*model.Snapshot, error)
}

type cacheKey struct {
	generatedAt int64
	sort        string
	dir         types.Direction
	format      string
}

type rendered struct {
	body        []byte
	contentType string
}

// LeaderboardHandler renders the board in the requested format and order.
type LeaderboardHandler struct {
	deps  LeaderboardDependencies
	cfg   config
	cache *lru.Cache[cacheKey, rendered]
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies, cfg config) *LeaderboardHandler {
	h := &LeaderboardHandler{deps: deps, cfg: cfg}
	if cfg.cacheSize > 0 {
		// Only fails for a non-positive size.
		h.cache, _ = lru.New[cacheKey, rendered](cfg.cacheSize)
	}
	return h
}

// Purge empties the render cache.
func (h *LeaderboardHandler) Purge() {
	if h.cache != nil {
		h.cache.Purge()
	}
}

// HandleLeaderboard handles GET / and GET /leaderboard?sort=&dir=&format=.
func (h *LeaderboardHandler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	ctx := r.Context()
	q := r.URL.Query()
	noStore(w)

	format := q.Get("format")
	rr, err := h.renderer(format)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_format", KindErr(op, ErrBadRequest, err))
		return
	}
	sortKey := q.Get("sort")
	dir, err := types.ParseDirection(q.Get("dir"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_direction", KindErr(op, ErrBadRequest, err))
		return
	}
	if sortKey == "" {
		dir = ""
	}

	snap, err := h.deps.Latest(ctx)
	if err != nil {
		logger.Get().Warn(ctx, "leaderboard unavailable", logger.Error(Wrap(op, err)))
		w.Header().Set("Content-Type", rr.ContentType())
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = rr.RenderError(w)
		return
	}

	key := cacheKey{generatedAt: snap.GeneratedAt.UnixNano(), sort: sortKey, dir: dir, format: rr.Format()}
	if h.cache != nil {
		if page, ok := h.cache.Get(key); ok {
			metrics.RecordRenderCache(true)
			writePage(w, page)
			return
		}
		metrics.RecordRenderCache(false)
	}

	b, err := board.New(snap, h.cfg.periods, board.WithLocation(h.cfg.loc))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if sortKey != "" {
		if err := b.Sort(sortKey, dir); err != nil {
			if errors.Is(err, board.ErrUnknownColumn) {
				writeError(w, http.StatusBadRequest, "bad_sort", KindErr(op, ErrBadRequest, err))
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
			return
		}
	}

	start := time.Now()
	var buf bytes.Buffer
	if err := rr.Render(&buf, b.Table()); err != nil {
		writeError(w, http.StatusInternalServerError, "render_failed", Wrap(op, err))
		return
	}
	metrics.RecordRender(rr.Format(), time.Since(start))

	page := rendered{body: buf.Bytes(), contentType: rr.ContentType()}
	if h.cache != nil {
		h.cache.Add(key, page)
	}
	writePage(w, page)
}

func (h *LeaderboardHandler) renderer(format string) (render.Renderer, error) {
	rr, err := render.ByName(format)
	if err != nil {
		return nil, err
	}
	if rr.Format() == render.FormatHTML {
		return render.NewHTML(render.WithTitle(h.cfg.title)), nil
	}
	return rr, nil
}

func writePage(w http.ResponseWriter, p rendered) {
	w.Header().Set("Content-Type", p.contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(p.body)
}
