// Package testutil holds request and token helpers shared by handler tests.
package testutil

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"

	"bookrec/internal/platform/crypto"
)

const (
	TestUserID   = "test-user-id-123"
	TestUsername = "testuser"
	TestSecret   = "test-secret-at-least-16"
)

// GenerateTestToken signs a valid one-hour token.
func GenerateTestToken(secret, userID, username string) string {
	token, _, _ := crypto.GenerateToken(secret, userID, username, time.Hour)
	return token
}

// GenerateExpiredToken signs a token that expired an hour ago.
func GenerateExpiredToken(secret, userID, username string) string {
	c := crypto.Claims{
		Sub:      userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "expired-jti",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	token, _ := t.SignedString([]byte(secret))
	return token
}

// NewRequest builds a request with body encoded as JSON when non-nil.
func NewRequest(method, path string, body any) *http.Request {
	if body == nil {
		return httptest.NewRequest(method, path, nil)
	}
	b, _ := json.Marshal(body)
	r := httptest.NewRequest(method, path, bytes.NewReader(b))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func NewRequestWithAuth(method, path string, body any, token string) *http.Request {
	r := NewRequest(method, path, body)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

// RecordResponse is a decoded response envelope.
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]any
}

func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	b, _ := io.ReadAll(result.Body)

	var body map[string]any
	if len(b) > 0 {
		_ = json.Unmarshal(b, &body)
	}
	return RecordResponse{Code: result.StatusCode, Header: result.Header, Body: body}
}

// Data returns the envelope's data member.
func (r RecordResponse) Data() any {
	return r.Body["data"]
}

// ErrorCode returns error.code, or "" for a success envelope.
func (r RecordResponse) ErrorCode() string {
	e, _ := r.Body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

// Meta returns the envelope's meta member.
func (r RecordResponse) Meta() map[string]any {
	m, _ := r.Body["meta"].(map[string]any)
	return m
}
