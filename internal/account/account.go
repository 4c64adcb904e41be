// Package account stores reader accounts and their saved-book shelves.
package account

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("account not found")
	ErrAlreadyExists = errors.New("account already exists")
	ErrEmptyTitle    = errors.New("title is required")
)

// JoinedLayout formats the profile join date.
const JoinedLayout = "January 2, 2006"

// NoEmail is shown in place of an unset email address.
const NoEmail = "Not provided"

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile is the public view of an account.
type Profile struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Joined    string `json:"joined"`
	BookCount int    `json:"book_count"`
}

func profileOf(u User, count int) Profile {
	email := u.Email
	if email == "" {
		email = NoEmail
	}
	return Profile{
		Username:  u.Username,
		Email:     email,
		Joined:    u.CreatedAt.Format(JoinedLayout),
		BookCount: count,
	}
}
