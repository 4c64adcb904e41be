package main

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bookrec/internal/account"
	"bookrec/internal/artifacts"
	"bookrec/internal/auth"
	"bookrec/internal/catalog"
	"bookrec/internal/config"
	"bookrec/internal/httpx"
	"bookrec/internal/platform/quotes"
	"bookrec/internal/popular"
	"bookrec/internal/recommend"
	"bookrec/internal/store"
)

type deps struct {
	cfg         *config.Config
	artifacts   *artifacts.Set
	backend     *store.Backend
	quotes      quotes.Source
	rateLimiter *httpx.RateLimiter
}

func newRouter(d deps) http.Handler {
	catalogService := catalog.NewService(d.artifacts.Catalog)
	accountService := account.NewService(d.backend.Accounts, catalogService)
	authService := auth.NewService(d.cfg.Auth.JWTSecret, d.cfg.Auth.TokenTTL, accountService, d.backend.Revocations)

	recommendHandler := recommend.NewHTTPHandler(d.artifacts.Engine())
	catalogHandler := catalog.NewHTTPHandler(catalogService)
	popularHandler := popular.NewHTTPHandler(d.artifacts.Ranking)
	quoteHandler := quotes.NewHTTPHandler(d.quotes)
	authHandler := auth.NewHTTPHandler(authService)
	accountHandler := account.NewHTTPHandler(accountService)

	protected := httpx.AuthMiddleware(d.cfg.Auth.JWTSecret, d.backend.Revocations)

	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := d.backend.Ping(ctx); err != nil {
			httpx.JSONError(w, r, http.StatusServiceUnavailable, "NOT_READY", "store not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	router.Handle("GET /metrics", promhttp.Handler())

	router.HandleFunc("GET /v1/recommendations", recommendHandler.Recommend)
	router.HandleFunc("POST /v1/recommendations", recommendHandler.Recommend)
	router.HandleFunc("GET /v1/catalog/search", catalogHandler.Search)
	router.HandleFunc("GET /v1/trending", popularHandler.Trending)
	router.HandleFunc("GET /v1/categories", popularHandler.Categories)
	router.HandleFunc("GET /v1/categories/{name}", popularHandler.Category)
	router.HandleFunc("GET /v1/quote", quoteHandler.Random)

	router.HandleFunc("POST /v1/auth/signup", authHandler.Signup)
	router.HandleFunc("POST /v1/auth/login", authHandler.Login)
	router.Handle("POST /v1/auth/logout", protected(http.HandlerFunc(authHandler.Logout)))

	router.Handle("GET /v1/me", protected(http.HandlerFunc(accountHandler.Me)))
	router.Handle("/v1/me/books", protected(httpx.MethodMux(map[string]http.Handler{
		http.MethodGet:    http.HandlerFunc(accountHandler.ListBooks),
		http.MethodPost:   http.HandlerFunc(accountHandler.AddBook),
		http.MethodDelete: http.HandlerFunc(accountHandler.RemoveBook),
	})))

	return httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware,
		httpx.RecoveryMiddleware,
		httpx.MetricsMiddleware,
		httpx.SecurityHeadersMiddleware(d.cfg.Server.EnableHSTS),
		httpx.CORSMiddleware(d.cfg.Server.CORSOrigins),
		httpx.RequestSizeLimitMiddleware(d.cfg.Server.MaxBodyBytes),
		d.rateLimiter.Middleware,
	)
}
