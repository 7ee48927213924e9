// Package site serves the embedded stylesheet the rendered board links to.
package site

import (
	"context"
	"net/http"
)

// Prefix is the URL path static assets are served under.
const Prefix = "/static/"

// Register attaches the static asset routes to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("GET "+Prefix, NewAssetHandler())
}

// AssetHandler serves embedded files with a short client cache.
type AssetHandler struct {
	files http.Handler
}

// NewAssetHandler creates a new asset handler.
func NewAssetHandler() *AssetHandler {
	return &AssetHandler{files: http.StripPrefix(Prefix, http.FileServer(FS()))}
}

// ServeHTTP handles GET /static/ requests.
func (h *AssetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=300")
	h.files.ServeHTTP(w, r)
}
