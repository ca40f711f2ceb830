// Package boltdb persists scratchpad keys in a single bbolt database file.
// The file lock makes it single-process: concurrent instances should use the
// filesystem adapter instead.
package boltdb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/whiteash/scratchpad/pkg/core"
)

var bucketKV = []byte("kv")

// Store implements core.Store on a bbolt database. It is not Watchable:
// bbolt's exclusive lock means no second process can write behind our back.
type Store struct {
	path   string
	quota  int64
	logger *slog.Logger
	db     *bolt.DB
}

// Config holds the configuration for the bbolt store.
type Config struct {
	Path   string // database file
	Quota  int64  // total byte budget across values; <= 0 means unlimited
	Logger *slog.Logger
}

// NewStore creates a bbolt-backed store. The database is opened by
// Initialize, not here.
func NewStore(config Config) *Store {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		path:   config.Path,
		quota:  config.Quota,
		logger: logger,
	}
}

// Initialize opens the database file and ensures the schema exists. The open
// times out instead of blocking forever when another process holds the lock.
func (s *Store) Initialize(ctx context.Context) error {
	db, err := bolt.Open(s.path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrUnavailable, err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketKV)
		return err
	}); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to init schema: %w", err)
	}

	s.db = db
	s.logger.Debug("bolt store opened", "path", s.path)
	return nil
}

// Set writes value under key inside one update transaction, enforcing the
// quota against the bucket's other values.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if s.db == nil {
		return fmt.Errorf("%w: store not initialized", core.ErrUnavailable)
	}
	if key == "" {
		return fmt.Errorf("%w: empty key", core.ErrInvalidKey)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketKV)

		if s.quota > 0 {
			var used int64
			c := b.Cursor()
			for k, v := c.First(); k != nil; k, v = c.Next() {
				if string(k) == key {
					continue // replaced by this write
				}
				used += int64(len(v))
			}
			if total := used + int64(len(value)); total > s.quota {
				return fmt.Errorf("%w: %d bytes over a %d byte budget",
					core.ErrQuotaExceeded, total-s.quota, s.quota)
			}
		}

		return b.Put([]byte(key), []byte(value))
	})
}

// Get reads the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if s.db == nil {
		return "", fmt.Errorf("%w: store not initialized", core.ErrUnavailable)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketKV).Get([]byte(key))
		if v == nil {
			return fmt.Errorf("%w: %s", core.ErrNotFound, key)
		}
		value = append(value, v...) // v is only valid inside the tx
		return nil
	})
	if err != nil {
		return "", err
	}
	return string(value), nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if s.db == nil {
		return fmt.Errorf("%w: store not initialized", core.ErrUnavailable)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketKV).Delete([]byte(key))
	})
}

// Probe verifies the database can take writes right now: one transaction
// puts and deletes a sentinel key, leaving no residue.
func (s *Store) Probe(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("%w: store not initialized", core.ErrUnavailable)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	sentinel := []byte("probe-" + uuid.NewString())
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketKV)
		if err := b.Put(sentinel, []byte("ok")); err != nil {
			return err
		}
		return b.Delete(sentinel)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrUnavailable, err)
	}
	return nil
}

// Usage implements core.Meterable.
func (s *Store) Usage(ctx context.Context) (core.Usage, error) {
	if s.db == nil {
		return core.Usage{}, fmt.Errorf("%w: store not initialized", core.ErrUnavailable)
	}
	if err := ctx.Err(); err != nil {
		return core.Usage{}, err
	}

	usage := core.Usage{QuotaBytes: s.quota}
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketKV).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			usage.UsedBytes += int64(len(v))
			usage.Keys++
		}
		return nil
	})
	if err != nil {
		return core.Usage{}, err
	}
	return usage, nil
}

// Close releases the database file lock.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

var (
	_ core.Store     = (*Store)(nil)
	_ core.Meterable = (*Store)(nil)
)
