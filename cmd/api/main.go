package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookrec/internal/artifacts"
	"bookrec/internal/auth"
	"bookrec/internal/config"
	"bookrec/internal/httpx"
	"bookrec/internal/logging"
	"bookrec/internal/platform/quotes"
	"bookrec/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("load config")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err := cfg.ValidateServer(); err != nil {
		logging.Fatal().Err(err).Msg("invalid server config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	set, err := artifacts.Load(cfg.Artifacts)
	if err != nil {
		logging.Fatal().Err(err).Msg("load artifacts")
	}

	backend, err := store.Open(ctx, cfg.Store)
	if err != nil {
		logging.Fatal().Err(err).Msg("open store")
	}
	defer backend.Close()

	rateLimiter := httpx.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst, cfg.Server.TrustProxy)
	go rateLimiter.Run(ctx)
	go auth.PurgeLoop(ctx, backend.Revocations, cfg.Auth.PurgeInterval)

	handler := newRouter(deps{
		cfg:       cfg,
		artifacts: set,
		backend:   backend,
		quotes: quotes.NewClient(quotes.Config{
			URL:        cfg.Quotes.URL,
			Timeout:    cfg.Quotes.Timeout,
			MaxRetries: 1,
		}),
		rateLimiter: rateLimiter,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", cfg.Server.Addr).Str("store", backend.Driver).Msg("server starting")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server error")
		}
	case <-ctx.Done():
		logging.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("graceful shutdown failed")
		}
	}
}
