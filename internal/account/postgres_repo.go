package account

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) Create(ctx context.Context, u *User) error {
	const query = `
	INSERT INTO users (id, username, email, password_hash)
	VALUES (gen_random_uuid(), $1, NULLIF($2, ''), $3)
	RETURNING id, created_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, u.Username, u.Email, u.PasswordHash).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *PostgresRepo) GetByUsername(ctx context.Context, username string) (User, error) {
	const query = `
	SELECT id, username, COALESCE(email, ''), password_hash, created_at
	FROM users
	WHERE username = $1
	LIMIT 1
	`
	return r.getOne(ctx, query, username)
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (User, error) {
	const query = `
	SELECT id, username, COALESCE(email, ''), password_hash, created_at
	FROM users WHERE id = $1 LIMIT 1
	`
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepo) getOne(ctx context.Context, query string, arg string) (User, error) {
	var u User
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, arg).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		var pgErr *pgconn.PgError
		// malformed uuid
		if errors.As(err, &pgErr) && pgErr.Code == "22P02" {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepo) ListSavedBooks(ctx context.Context, userID string) ([]string, error) {
	const query = `
	SELECT title FROM saved_books
	WHERE user_id = $1
	ORDER BY id ASC
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, userID)
	if err != nil {
		return nil, err
	}
	titles, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	if titles == nil {
		titles = []string{}
	}
	return titles, nil
}

func (r *PostgresRepo) AddSavedBook(ctx context.Context, userID, title string) error {
	const query = `
	INSERT INTO saved_books (user_id, title)
	VALUES ($1, $2)
	ON CONFLICT (user_id, title) DO NOTHING
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, query, userID, title)
	return err
}

func (r *PostgresRepo) RemoveSavedBook(ctx context.Context, userID, title string) error {
	const query = `DELETE FROM saved_books WHERE user_id = $1 AND title = $2`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, query, userID, title)
	return err
}

func (r *PostgresRepo) CountSavedBooks(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM saved_books WHERE user_id = $1`
	var n int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, userID).Scan(&n)
	return n, err
}
