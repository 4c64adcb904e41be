// Package auth issues and revokes access tokens for reader accounts.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookrec/internal/account"
	"bookrec/internal/platform/crypto"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
)

// Tokens is returned by signup and login.
type Tokens struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Username    string `json:"username"`
}

type Service struct {
	secret      string
	tokenTTL    time.Duration
	accounts    *account.Service
	revocations RevocationStore
}

func NewService(secret string, tokenTTL time.Duration, accounts *account.Service, revocations RevocationStore) *Service {
	return &Service{
		secret:      secret,
		tokenTTL:    tokenTTL,
		accounts:    accounts,
		revocations: revocations,
	}
}

// Signup creates an account and logs it in. The password must already have
// passed crypto.ValidatePassword.
func (s *Service) Signup(ctx context.Context, username, password, email string) (Tokens, error) {
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return Tokens{}, fmt.Errorf("hash password: %w", err)
	}
	u, err := s.accounts.Register(ctx, username, email, hash)
	if err != nil {
		return Tokens{}, err
	}
	return s.issue(u)
}

func (s *Service) Login(ctx context.Context, username, password string) (Tokens, error) {
	u, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return Tokens{}, ErrUnauthorized
		}
		return Tokens{}, err
	}
	if !crypto.VerifyPassword(u.PasswordHash, password) {
		return Tokens{}, ErrUnauthorized
	}
	return s.issue(u)
}

func (s *Service) issue(u account.User) (Tokens, error) {
	token, _, err := crypto.GenerateToken(s.secret, u.ID, u.Username, s.tokenTTL)
	if err != nil {
		return Tokens{}, err
	}
	return Tokens{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.tokenTTL.Seconds()),
		Username:    u.Username,
	}, nil
}

// Logout revokes token until it would have expired anyway.
func (s *Service) Logout(ctx context.Context, token string, userID string) error {
	claims, err := crypto.ParseToken(s.secret, token)
	if err != nil {
		return ErrUnauthorized
	}

	expiresAt := time.Now().Add(s.tokenTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	return s.revocations.Revoke(ctx, claims.ID, userID, expiresAt)
}
