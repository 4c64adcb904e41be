package account

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=account

type Repository interface {
	// Create stores u, assigning ID and CreatedAt when unset. It returns
	// ErrAlreadyExists when the username is taken.
	Create(ctx context.Context, u *User) error
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)

	// ListSavedBooks returns saved titles in the order they were saved.
	ListSavedBooks(ctx context.Context, userID string) ([]string, error)
	// AddSavedBook appends title unless it is already saved.
	AddSavedBook(ctx context.Context, userID, title string) error
	// RemoveSavedBook deletes title if present.
	RemoveSavedBook(ctx context.Context, userID, title string) error
	CountSavedBooks(ctx context.Context, userID string) (int, error)
}
