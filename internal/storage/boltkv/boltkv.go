// Package boltkv is a small string key/value store on top of bbolt.
//
// It is the local durable storage behind the saved-tools set: one file, one
// bucket, whole values read and written atomically.
package boltkv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

const bucketName = "kv"

var ErrStoreClosed = errors.New("boltkv: store is closed")

// Store implements savedset.Storage.
type Store struct {
	mu     sync.RWMutex
	db     *bolt.DB
	path   string
	closed bool
}

// Open opens (creating if needed) the database file at path.
//
// bbolt holds an exclusive file lock, so a second process opening the same
// file waits up to one second and then fails instead of corrupting it.
func Open(path string) (*Store, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("boltkv: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(trimmed), 0o755); err != nil {
		return nil, fmt.Errorf("boltkv: ensure dir: %w", err)
	}

	db, err := bolt.Open(trimmed, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("boltkv: open %s: %w", trimmed, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("boltkv: create bucket: %w", err)
	}

	return &Store{db: db, path: trimmed}, nil
}

// Path is the file the store was opened from.
func (s *Store) Path() string {
	return s.path
}

// Get returns the value under key. ok is false when the key was never set.
func (s *Store) Get(key string) (string, bool, error) {
	var (
		value string
		ok    bool
	)
	err := s.view(func(tx *bolt.Tx) error {
		raw := tx.Bucket([]byte(bucketName)).Get([]byte(key))
		if raw == nil {
			return nil
		}
		// bbolt values are only valid inside the transaction.
		value = string(raw)
		ok = true
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return value, ok, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key, value string) error {
	return s.update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(key), []byte(value))
	})
}

// Close releases the file lock. Calling it twice is a no-op.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func (s *Store) view(fn func(*bolt.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return s.db.View(fn)
}

func (s *Store) update(fn func(*bolt.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return s.db.Update(fn)
}
