// Package store opens the account backend selected by configuration:
// Postgres through pgxpool, or an embedded bbolt file.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	bolt "go.etcd.io/bbolt"

	"bookrec/internal/account"
	"bookrec/internal/auth"
	"bookrec/internal/config"
	"bookrec/internal/logging"
)

// Backend bundles the repositories of one storage driver.
type Backend struct {
	Driver      string
	Accounts    account.Repository
	Revocations auth.RevocationStore

	ping  func(ctx context.Context) error
	close func() error
}

// Ping reports whether the backend can serve requests.
func (b *Backend) Ping(ctx context.Context) error {
	return b.ping(ctx)
}

func (b *Backend) Close() error {
	return b.close()
}

// Open connects to the configured backend.
func Open(ctx context.Context, cfg config.StoreConfig) (*Backend, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg)
	case config.DriverBolt:
		return openBolt(cfg)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func openPostgres(ctx context.Context, cfg config.StoreConfig) (*Backend, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database (%s): %w", RedactDSN(cfg.DSN), err)
	}
	logging.Info().Str("dsn", RedactDSN(cfg.DSN)).Msg("database connection OK")

	return &Backend{
		Driver:      config.DriverPostgres,
		Accounts:    account.NewPostgresRepo(pool, cfg.QueryTimeout),
		Revocations: auth.NewPostgresRevocations(pool, cfg.QueryTimeout),
		ping:        pool.Ping,
		close: func() error {
			pool.Close()
			return nil
		},
	}, nil
}

func openBolt(cfg config.StoreConfig) (*Backend, error) {
	if dir := filepath.Dir(cfg.BoltPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create bolt dir: %w", err)
		}
	}
	db, err := bolt.Open(cfg.BoltPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", cfg.BoltPath, err)
	}

	accounts, err := account.NewBoltRepo(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	revocations, err := auth.NewBoltRevocations(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	logging.Info().Str("path", cfg.BoltPath).Msg("bolt store opened")

	return &Backend{
		Driver:      config.DriverBolt,
		Accounts:    accounts,
		Revocations: revocations,
		ping: func(ctx context.Context) error {
			return db.View(func(tx *bolt.Tx) error { return ctx.Err() })
		},
		close: db.Close,
	}, nil
}

// RedactDSN hides the credentials of a connection URL.
func RedactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
