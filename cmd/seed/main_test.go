package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"bookrec/internal/account"
	"bookrec/internal/popular"
)

func TestSeed_Idempotent(t *testing.T) {
	db, err := bolt.Open(filepath.Join(t.TempDir(), "seed.db"), 0600, &bolt.Options{Timeout: time.Second})
	require.NoError(t, err)
	defer db.Close()
	repo, err := account.NewBoltRepo(db)
	require.NoError(t, err)

	ranking := popular.New([]popular.Entry{
		{Title: "Emma"}, {Title: "Dune"}, {Title: "Ulysses"},
	})
	ctx := context.Background()

	n, err := seed(ctx, repo, ranking, "demo", "demo-password", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = seed(ctx, repo, ranking, "demo", "demo-password", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	u, err := repo.GetByUsername(ctx, "demo")
	require.NoError(t, err)
	titles, err := repo.ListSavedBooks(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Emma", "Dune", "Ulysses"}, titles)
}

func TestSeed_RejectsWeakPassword(t *testing.T) {
	_, err := seed(context.Background(), nil, popular.New(nil), "demo", "short", 1)
	assert.Error(t, err)
}
