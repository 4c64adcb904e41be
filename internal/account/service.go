package account

import (
	"context"
	"fmt"
	"strings"

	"bookrec/internal/catalog"
)

// BookLookup resolves saved titles to catalog records.
type BookLookup interface {
	Lookup(titles []string) []catalog.Book
}

type Service struct {
	repo  Repository
	books BookLookup
}

func NewService(repo Repository, books BookLookup) *Service {
	return &Service{repo: repo, books: books}
}

// Register creates an account for username with an already hashed password.
func (s *Service) Register(ctx context.Context, username, email, passwordHash string) (User, error) {
	u := &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return *u, nil
}

func (s *Service) GetByUsername(ctx context.Context, username string) (User, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Profile(ctx context.Context, userID string) (Profile, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	n, err := s.repo.CountSavedBooks(ctx, userID)
	if err != nil {
		return Profile{}, fmt.Errorf("count saved books: %w", err)
	}
	return profileOf(u, n), nil
}

// SavedBooks returns the user's shelf in saved order with catalog details.
func (s *Service) SavedBooks(ctx context.Context, userID string) ([]catalog.Book, error) {
	titles, err := s.repo.ListSavedBooks(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.books.Lookup(titles), nil
}

func (s *Service) SaveBook(ctx context.Context, userID, title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	return s.repo.AddSavedBook(ctx, userID, title)
}

func (s *Service) RemoveBook(ctx context.Context, userID, title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	return s.repo.RemoveSavedBook(ctx, userID, title)
}
