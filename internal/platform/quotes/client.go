// Package quotes fetches a random reading quote from an external service.
package quotes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"bookrec/internal/logging"
	"bookrec/internal/metrics"
)

const DefaultURL = "https://dummyjson.com/quotes/random"

// Fallback is served whenever the quote service cannot answer.
var Fallback = Quote{
	Text:   "A room without books is like a body without a soul.",
	Author: "Marcus Tullius Cicero",
}

type Quote struct {
	Text   string `json:"quote"`
	Author string `json:"author"`
}

type Config struct {
	URL       string
	Timeout   time.Duration
	UserAgent string
	// RPS caps outgoing requests. Zero means 5.
	RPS float64
	// MaxRetries applies to 429, 5xx and transport errors only.
	MaxRetries int
	// FailureThreshold is the number of consecutive failures that opens the
	// breaker. Zero means 5.
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open. Zero means 30s.
	OpenTimeout time.Duration
}

type Client struct {
	url       string
	userAgent string
	timeout   time.Duration
	retries   int
	http      *http.Client
	limiter   *rate.Limiter
	cb        *gobreaker.CircuitBreaker[Quote]
}

// errRetryable marks failures worth another attempt.
var errRetryable = errors.New("retryable")

func NewClient(cfg Config) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "bookrec/1.0"
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 5
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	threshold := cfg.FailureThreshold
	cb := gobreaker.NewCircuitBreaker[Quote](gobreaker.Settings{
		Name:        "quotes",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})

	return &Client{
		url:       cfg.URL,
		userAgent: cfg.UserAgent,
		timeout:   cfg.Timeout,
		retries:   cfg.MaxRetries,
		http:      &http.Client{},
		limiter:   rate.NewLimiter(rate.Limit(cfg.RPS), 1),
		cb:        cb,
	}
}

// Random fetches one quote. The whole call, retries included, is bounded by
// the configured timeout.
func (c *Client) Random(ctx context.Context) (Quote, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return c.cb.Execute(func() (Quote, error) {
		var lastErr error
		for attempt := 0; attempt <= c.retries; attempt++ {
			q, err := c.fetch(ctx)
			if err == nil {
				return q, nil
			}
			lastErr = err
			if !errors.Is(err, errRetryable) || ctx.Err() != nil {
				break
			}
		}
		return Quote{}, lastErr
	})
}

// RandomOrFallback never fails; any error yields Fallback.
func (c *Client) RandomOrFallback(ctx context.Context) Quote {
	q, err := c.Random(ctx)
	if err != nil {
		metrics.QuoteFetchesTotal.WithLabelValues("fallback").Inc()
		logging.Ctx(ctx).Warn().Err(err).Msg("quote service unavailable, serving fallback")
		return Fallback
	}
	metrics.QuoteFetchesTotal.WithLabelValues("ok").Inc()
	return q
}

func (c *Client) fetch(ctx context.Context) (Quote, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Quote{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Quote{}, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %v", errRetryable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return Quote{}, fmt.Errorf("%w: quote service status %d", errRetryable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("quote service status %d", resp.StatusCode)
	}

	var q Quote
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&q); err != nil {
		return Quote{}, fmt.Errorf("decode quote: %w", err)
	}
	if q.Text == "" {
		return Quote{}, errors.New("quote service returned an empty quote")
	}
	return q, nil
}
