package popular

import (
	"net/http"

	"bookrec/internal/httpx"
)

type HTTPHandler struct {
	ranking *Ranking
}

func NewHTTPHandler(ranking *Ranking) *HTTPHandler {
	return &HTTPHandler{ranking: ranking}
}

// Trending handles GET /v1/trending
func (h *HTTPHandler) Trending(w http.ResponseWriter, r *http.Request) {
	entries := h.ranking.All()
	httpx.JSONSuccess(w, r, entries, map[string]any{"total": len(entries)})
}

// Categories handles GET /v1/categories
func (h *HTTPHandler) Categories(w http.ResponseWriter, r *http.Request) {
	httpx.JSONSuccess(w, r, Categories(), nil)
}

// Category handles GET /v1/categories/{name}
func (h *HTTPHandler) Category(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Category is required", nil)
		return
	}
	httpx.JSONSuccess(w, r, h.ranking.Category(name), map[string]any{"category": name})
}
