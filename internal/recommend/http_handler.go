package recommend

import (
	"errors"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"bookrec/internal/httpx"
	"bookrec/internal/logging"
	"bookrec/internal/metrics"
)

type HTTPHandler struct {
	engine *Engine
}

func NewHTTPHandler(engine *Engine) *HTTPHandler {
	return &HTTPHandler{engine: engine}
}

type recommendReq struct {
	Query string `json:"query" validate:"required,max=500"`
}

// Recommend handles GET /v1/recommendations?q= and POST /v1/recommendations
func (h *HTTPHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendReq
	if r.Method == http.MethodPost {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
			return
		}
	} else {
		req.Query = r.URL.Query().Get("q")
	}
	req.Query = strings.TrimSpace(req.Query)

	if req.Query == "" {
		metrics.RecommendationsTotal.WithLabelValues("empty_query").Inc()
		httpx.JSONError(w, r, http.StatusBadRequest, "EMPTY_QUERY", "Enter a book title to get recommendations", nil)
		return
	}
	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return
	}

	res, err := h.engine.Recommend(req.Query)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			metrics.RecommendationsTotal.WithLabelValues("not_found").Inc()
			httpx.JSONError(w, r, http.StatusNotFound, "BOOK_NOT_FOUND", "Book not found", nil)
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Str("query", req.Query).Msg("recommendation failed")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	metrics.RecommendationsTotal.WithLabelValues(string(res.Strategy)).Inc()
	httpx.JSONSuccess(w, r, res.Books, map[string]any{
		"query":    res.Query,
		"matched":  res.Matched,
		"strategy": res.Strategy,
		"count":    len(res.Books),
	})
}
