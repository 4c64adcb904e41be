package account

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"bookrec/internal/httpx"
	"bookrec/internal/logging"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type shelfReq struct {
	Title string `json:"title" validate:"required,max=500"`
}

// Me handles GET /v1/me
func (h *HTTPHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	profile, err := h.service.Profile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Account not found", nil)
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Str("user_id", userID).Msg("load profile")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, profile, nil)
}

// ListBooks handles GET /v1/me/books
func (h *HTTPHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.SavedBooks(r.Context(), httpx.UserIDFrom(r))
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("list saved books")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, books, map[string]any{"total": len(books)})
}

// AddBook handles POST /v1/me/books
func (h *HTTPHandler) AddBook(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeShelfReq(w, r)
	if !ok {
		return
	}
	if err := h.service.SaveBook(r.Context(), httpx.UserIDFrom(r), req.Title); err != nil {
		h.shelfError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, map[string]string{"title": req.Title}, nil)
}

// RemoveBook handles DELETE /v1/me/books
func (h *HTTPHandler) RemoveBook(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeShelfReq(w, r)
	if !ok {
		return
	}
	if err := h.service.RemoveBook(r.Context(), httpx.UserIDFrom(r), req.Title); err != nil {
		h.shelfError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

func decodeShelfReq(w http.ResponseWriter, r *http.Request) (shelfReq, bool) {
	var req shelfReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return req, false
	}
	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return req, false
	}
	return req, true
}

func (h *HTTPHandler) shelfError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrEmptyTitle) {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Title is required", nil)
		return
	}
	logging.Ctx(r.Context()).Error().Err(err).Msg("update shelf")
	httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
}
