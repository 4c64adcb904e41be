package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"bookrec/internal/account"
	"bookrec/internal/catalog"
	"bookrec/internal/config"
	"bookrec/internal/logging"
	"bookrec/internal/platform/crypto"
	"bookrec/internal/popular"
	"bookrec/internal/store"
)

func main() {
	var (
		username = flag.String("username", "demo", "Demo account username")
		password = flag.String("password", "demo-password", "Demo account password")
		count    = flag.Int("count", 10, "Number of trending titles to shelve")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("load config")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: "console"})
	if err := cfg.ValidateStore(); err != nil {
		logging.Fatal().Err(err).Msg("invalid store config")
	}

	ranking, err := popular.LoadCSV(cfg.Artifacts.PopularPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("load ranking")
	}

	ctx := context.Background()
	backend, err := store.Open(ctx, cfg.Store)
	if err != nil {
		logging.Fatal().Err(err).Msg("open store")
	}
	defer backend.Close()

	n, err := seed(ctx, backend.Accounts, ranking, *username, *password, *count)
	if err != nil {
		logging.Fatal().Err(err).Msg("seed")
	}
	fmt.Printf("Seeded %q with %d saved books\n", *username, n)
}

// seed creates the demo account unless it exists and shelves the top count
// titles of the ranking. It is safe to run repeatedly.
func seed(ctx context.Context, repo account.Repository, ranking *popular.Ranking, username, password string, count int) (int, error) {
	if err := crypto.ValidatePassword(password); err != nil {
		return 0, err
	}
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return 0, err
	}

	accounts := account.NewService(repo, catalog.NewService(catalog.New(nil)))
	u, err := accounts.Register(ctx, username, "", hash)
	if errors.Is(err, account.ErrAlreadyExists) {
		u, err = accounts.GetByUsername(ctx, username)
	}
	if err != nil {
		return 0, fmt.Errorf("demo account: %w", err)
	}

	for _, e := range ranking.Top(count) {
		if err := accounts.SaveBook(ctx, u.ID, e.Title); err != nil {
			return 0, fmt.Errorf("save %q: %w", e.Title, err)
		}
	}
	return repo.CountSavedBooks(ctx, u.ID)
}
