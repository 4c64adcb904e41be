package auth

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	bolt "go.etcd.io/bbolt"

	"bookrec/internal/logging"
)

// RevocationStore remembers logged-out token ids until they expire.
type RevocationStore interface {
	Revoke(ctx context.Context, jti, userID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	PurgeExpired(ctx context.Context) (int, error)
}

type PostgresRevocations struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRevocations(db *pgxpool.Pool, timeout time.Duration) *PostgresRevocations {
	return &PostgresRevocations{db: db, timeout: timeout}
}

func (r *PostgresRevocations) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRevocations) Revoke(ctx context.Context, jti, userID string, expiresAt time.Time) error {
	const query = `
	INSERT INTO revoked_tokens (jti, user_id, expires_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (jti) DO NOTHING
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, query, jti, userID, expiresAt)
	return err
}

func (r *PostgresRevocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	const query = `
	SELECT EXISTS(
		SELECT 1 FROM revoked_tokens
		WHERE jti = $1 AND expires_at > now()
	)
	`
	var exists bool
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, jti).Scan(&exists)
	return exists, err
}

func (r *PostgresRevocations) PurgeExpired(ctx context.Context) (int, error) {
	const query = `DELETE FROM revoked_tokens WHERE expires_at < now()`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

var revokedBucket = []byte("revoked_tokens")

// BoltRevocations stores jti -> expiry (unix seconds, big endian).
type BoltRevocations struct {
	db  *bolt.DB
	now func() time.Time
}

func NewBoltRevocations(db *bolt.DB) (*BoltRevocations, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(revokedBucket)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &BoltRevocations{db: db, now: time.Now}, nil
}

func (r *BoltRevocations) Revoke(ctx context.Context, jti, _ string, expiresAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(expiresAt.Unix()))
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(revokedBucket).Put([]byte(jti), buf[:])
	})
}

func (r *BoltRevocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var revoked bool
	err := r.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(revokedBucket).Get([]byte(jti))
		if len(v) == 8 {
			revoked = int64(binary.BigEndian.Uint64(v)) > r.now().Unix()
		}
		return nil
	})
	return revoked, err
}

func (r *BoltRevocations) PurgeExpired(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	n := 0
	err := r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(revokedBucket)
		now := r.now().Unix()
		var expired [][]byte
		err := b.ForEach(func(k, v []byte) error {
			if len(v) != 8 || int64(binary.BigEndian.Uint64(v)) < now {
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range expired {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		n = len(expired)
		return nil
	})
	return n, err
}

// PurgeLoop drops expired revocations every interval until ctx is done.
func PurgeLoop(ctx context.Context, store RevocationStore, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.PurgeExpired(ctx)
			if err != nil {
				logging.Warn().Err(err).Msg("purge revoked tokens")
				continue
			}
			if n > 0 {
				logging.Debug().Int("purged", n).Msg("purged revoked tokens")
			}
		}
	}
}
