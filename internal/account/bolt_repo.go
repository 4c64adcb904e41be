package account

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

var (
	usersBucket     = []byte("users")
	usernamesBucket = []byte("usernames")
	shelvesBucket   = []byte("shelves")
)

// BoltRepo keeps accounts in an embedded bbolt file. Users are stored as JSON
// by id, with a username index; each shelf is a JSON array of titles.
type BoltRepo struct {
	db *bolt.DB
}

// NewBoltRepo creates the buckets it needs on db.
func NewBoltRepo(db *bolt.DB) (*BoltRepo, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{usersBucket, usernamesBucket, shelvesBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &BoltRepo{db: db}, nil
}

func (r *BoltRepo) Create(ctx context.Context, u *User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		names := tx.Bucket(usernamesBucket)
		if names.Get([]byte(u.Username)) != nil {
			return ErrAlreadyExists
		}
		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		if u.CreatedAt.IsZero() {
			u.CreatedAt = time.Now().UTC()
		}
		data, err := json.Marshal(u)
		if err != nil {
			return err
		}
		if err := tx.Bucket(usersBucket).Put([]byte(u.ID), data); err != nil {
			return err
		}
		return names.Put([]byte(u.Username), []byte(u.ID))
	})
}

func (r *BoltRepo) GetByUsername(ctx context.Context, username string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	var u User
	err := r.db.View(func(tx *bolt.Tx) error {
		id := tx.Bucket(usernamesBucket).Get([]byte(username))
		if id == nil {
			return ErrNotFound
		}
		return getUser(tx, id, &u)
	})
	return u, err
}

func (r *BoltRepo) GetByID(ctx context.Context, id string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	var u User
	err := r.db.View(func(tx *bolt.Tx) error {
		return getUser(tx, []byte(id), &u)
	})
	return u, err
}

func getUser(tx *bolt.Tx, id []byte, u *User) error {
	data := tx.Bucket(usersBucket).Get(id)
	if data == nil {
		return ErrNotFound
	}
	return json.Unmarshal(data, u)
}

func readShelf(tx *bolt.Tx, userID string) ([]string, error) {
	data := tx.Bucket(shelvesBucket).Get([]byte(userID))
	titles := []string{}
	if data == nil {
		return titles, nil
	}
	if err := json.Unmarshal(data, &titles); err != nil {
		return nil, fmt.Errorf("decode shelf %s: %w", userID, err)
	}
	return titles, nil
}

func writeShelf(tx *bolt.Tx, userID string, titles []string) error {
	data, err := json.Marshal(titles)
	if err != nil {
		return err
	}
	return tx.Bucket(shelvesBucket).Put([]byte(userID), data)
}

func (r *BoltRepo) ListSavedBooks(ctx context.Context, userID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var titles []string
	err := r.db.View(func(tx *bolt.Tx) error {
		var err error
		titles, err = readShelf(tx, userID)
		return err
	})
	return titles, err
}

func (r *BoltRepo) AddSavedBook(ctx context.Context, userID, title string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		titles, err := readShelf(tx, userID)
		if err != nil {
			return err
		}
		if slices.Contains(titles, title) {
			return nil
		}
		return writeShelf(tx, userID, append(titles, title))
	})
}

func (r *BoltRepo) RemoveSavedBook(ctx context.Context, userID, title string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		titles, err := readShelf(tx, userID)
		if err != nil {
			return err
		}
		i := slices.Index(titles, title)
		if i < 0 {
			return nil
		}
		return writeShelf(tx, userID, slices.Delete(titles, i, i+1))
	})
}

func (r *BoltRepo) CountSavedBooks(ctx context.Context, userID string) (int, error) {
	titles, err := r.ListSavedBooks(ctx, userID)
	return len(titles), err
}
