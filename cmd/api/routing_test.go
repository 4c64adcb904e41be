package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookrec/internal/artifacts"
	"bookrec/internal/catalog"
	"bookrec/internal/config"
	"bookrec/internal/httpx"
	"bookrec/internal/platform/quotes"
	"bookrec/internal/popular"
	"bookrec/internal/similarity"
	"bookrec/internal/store"
)

type stubQuotes struct{}

func (stubQuotes) RandomOrFallback(context.Context) quotes.Quote { return quotes.Fallback }

func testServer(t *testing.T) *httptest.Server {
	t.Helper()

	ix, err := similarity.New(
		[]string{"Dune", "Dune Messiah", "Emma"},
		[][]float64{{1, 0.9, 0.1}, {0.9, 1, 0.2}, {0.1, 0.2, 1}},
	)
	require.NoError(t, err)

	set := &artifacts.Set{
		Catalog: catalog.New([]catalog.Book{
			{Title: "Dune", Author: "Frank Herbert", ImageURL: "d.jpg"},
			{Title: "Dune Messiah", Author: "Frank Herbert", ImageURL: "m.jpg"},
			{Title: "Emma", Author: "Jane Austen", ImageURL: "e.jpg"},
			{Title: "Persuasion", Author: "Jane Austen", ImageURL: "p.jpg"},
		}),
		Index: ix,
		Ranking: popular.New([]popular.Entry{
			{Title: "Emma", Author: "Jane Austen", Votes: 10, Rating: 4},
		}),
	}

	cfg := &config.Config{
		Server: config.ServerConfig{MaxBodyBytes: 1 << 20},
		Store: config.StoreConfig{
			Driver:       config.DriverBolt,
			BoltPath:     filepath.Join(t.TempDir(), "bookrec.db"),
			QueryTimeout: time.Second,
		},
		Auth: config.AuthConfig{JWTSecret: "routing-test-secret", TokenTTL: time.Hour},
	}

	backend, err := store.Open(context.Background(), cfg.Store)
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	srv := httptest.NewServer(newRouter(deps{
		cfg:         cfg,
		artifacts:   set,
		backend:     backend,
		quotes:      stubQuotes{},
		rateLimiter: httpx.NewRateLimiter(1000, 1000, false),
	}))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body, token string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestV1Routing_Public(t *testing.T) {
	srv := testServer(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"healthz", http.MethodGet, "/healthz", "", http.StatusOK},
		{"readyz", http.MethodGet, "/readyz", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK},
		{"recommend get", http.MethodGet, "/v1/recommendations?q=dune", "", http.StatusOK},
		{"recommend post", http.MethodPost, "/v1/recommendations", `{"query":"Emma"}`, http.StatusOK},
		{"recommend blank", http.MethodGet, "/v1/recommendations?q=%20%20", "", http.StatusBadRequest},
		{"recommend unknown", http.MethodGet, "/v1/recommendations?q=zzzz", "", http.StatusNotFound},
		{"search", http.MethodGet, "/v1/catalog/search?q=dune", "", http.StatusOK},
		{"trending", http.MethodGet, "/v1/trending", "", http.StatusOK},
		{"categories", http.MethodGet, "/v1/categories", "", http.StatusOK},
		{"category", http.MethodGet, "/v1/categories/Fiction", "", http.StatusOK},
		{"quote", http.MethodGet, "/v1/quote", "", http.StatusOK},
		{"no v1 prefix", http.MethodGet, "/recommendations?q=dune", "", http.StatusNotFound},
		{"wrong method", http.MethodPut, "/v1/recommendations", "", http.StatusMethodNotAllowed},
		{"me unauthenticated", http.MethodGet, "/v1/me", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := do(t, srv, tt.method, tt.path, tt.body, "")
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
			assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
		})
	}
}

func TestV1Routing_RecommendStrategies(t *testing.T) {
	srv := testServer(t)

	_, body := do(t, srv, http.MethodGet, "/v1/recommendations?q=dune", "", "")
	meta := body["meta"].(map[string]any)
	assert.Equal(t, "similarity", meta["strategy"])
	data := body["data"].([]any)
	require.NotEmpty(t, data)
	assert.Equal(t, "Dune Messiah", data[0].(map[string]any)["title"])

	_, body = do(t, srv, http.MethodGet, "/v1/recommendations?q=persuasion", "", "")
	meta = body["meta"].(map[string]any)
	assert.Equal(t, "author", meta["strategy"])
}

func TestV1Routing_AccountFlow(t *testing.T) {
	srv := testServer(t)

	resp, body := do(t, srv, http.MethodPost, "/v1/auth/signup", `{"username":"reader","password":"longenough"}`, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token := body["data"].(map[string]any)["access_token"].(string)

	resp, _ = do(t, srv, http.MethodPost, "/v1/auth/signup", `{"username":"reader","password":"longenough"}`, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/v1/auth/login", `{"username":"reader","password":"wrongwrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = do(t, srv, http.MethodPost, "/v1/auth/login", `{"username":"reader","password":"longenough"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token = body["data"].(map[string]any)["access_token"].(string)

	for _, title := range []string{"Emma", "Unknown Book", "Emma"} {
		resp, _ = do(t, srv, http.MethodPost, "/v1/me/books", `{"title":"`+title+`"}`, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, body = do(t, srv, http.MethodGet, "/v1/me/books", "", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	books := body["data"].([]any)
	require.Len(t, books, 2)
	assert.Equal(t, "Jane Austen", books[0].(map[string]any)["author"])
	assert.Equal(t, "Unknown Book", books[1].(map[string]any)["title"])

	resp, body = do(t, srv, http.MethodGet, "/v1/me", "", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	profile := body["data"].(map[string]any)
	assert.Equal(t, "reader", profile["username"])
	assert.Equal(t, "Not provided", profile["email"])
	assert.EqualValues(t, 2, profile["book_count"])

	resp, _ = do(t, srv, http.MethodDelete, "/v1/me/books", `{"title":"Emma"}`, token)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/v1/auth/logout", "", token)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodGet, "/v1/me", "", token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
