package quotes

import (
	"context"
	"net/http"

	"bookrec/internal/httpx"
)

// Source is satisfied by *Client.
type Source interface {
	RandomOrFallback(ctx context.Context) Quote
}

type HTTPHandler struct {
	source Source
}

func NewHTTPHandler(source Source) *HTTPHandler {
	return &HTTPHandler{source: source}
}

// Random handles GET /v1/quote
func (h *HTTPHandler) Random(w http.ResponseWriter, r *http.Request) {
	httpx.JSONSuccess(w, r, h.source.RandomOrFallback(r.Context()), nil)
}
