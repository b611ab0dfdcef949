// Package kv is a durable key/value store with per-key expiry.
package kv

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
)

// ErrNotFound is returned for missing or expired keys.
var ErrNotFound = errors.New("key not found")

const expiryPrefixLen = 8

type (
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
)

// Store keeps values in pebble, each prefixed with its expiry time.
type Store struct {
	db      *pebble.DB
	metrics Metrics
	now     func() time.Time
}

// Open opens or creates a store at path.
func Open(path string, metrics Metrics) (*Store, error) {
	if path == "" {
		return nil, errors.New("kv store path is required")
	}
	return open(path, &pebble.Options{Cache: pebble.NewCache(8 << 20), MaxOpenFiles: 256}, metrics)
}

// OpenInMemory opens a store that lives only as long as the process.
func OpenInMemory(metrics Metrics) (*Store, error) {
	return open("", &pebble.Options{FS: vfs.NewMem()}, metrics)
}

func open(path string, opts *pebble.Options, metrics Metrics) (*Store, error) {
	if metrics == nil {
		return nil, errors.New("kv store metrics is required")
	}
	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("open pebble %s: %w", path, err)
	}
	return &Store{db: db, metrics: metrics, now: time.Now}, nil
}

// Get returns the value stored at key.
func (s *Store) Get(key string) ([]byte, error) {
	start := time.Now()
	var err error
	defer func() {
		if errors.Is(err, ErrNotFound) {
			s.metrics.Observe("get", nil, start)
			return
		}
		s.metrics.Observe("get", err, start)
	}()

	raw, closer, err := s.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		err = ErrNotFound
		return nil, err
	}
	if err != nil {
		err = fmt.Errorf("get %s: %w", key, err)
		return nil, err
	}
	defer closer.Close()

	if len(raw) < expiryPrefixLen {
		err = fmt.Errorf("get %s: corrupt value of %d bytes", key, len(raw))
		return nil, err
	}

	expiry := int64(binary.BigEndian.Uint64(raw[:expiryPrefixLen]))
	if expiry != 0 && s.now().UnixNano() >= expiry {
		if delErr := s.db.Delete([]byte(key), pebble.NoSync); delErr != nil {
			err = fmt.Errorf("delete expired %s: %w", key, delErr)
			return nil, err
		}
		err = ErrNotFound
		return nil, err
	}

	value := make([]byte, len(raw)-expiryPrefixLen)
	copy(value, raw[expiryPrefixLen:])
	return value, nil
}

// Put stores value at key. A zero ttl keeps the value forever.
func (s *Store) Put(key string, value []byte, ttl time.Duration) error {
	start := time.Now()
	var err error
	defer func() {
		s.metrics.Observe("put", err, start)
	}()

	if ttl < 0 {
		err = fmt.Errorf("put %s: negative ttl %s", key, ttl)
		return err
	}

	var expiry int64
	if ttl > 0 {
		expiry = s.now().Add(ttl).UnixNano()
	}

	buf := make([]byte, expiryPrefixLen+len(value))
	binary.BigEndian.PutUint64(buf, uint64(expiry))
	copy(buf[expiryPrefixLen:], value)

	if err = s.db.Set([]byte(key), buf, pebble.Sync); err != nil {
		err = fmt.Errorf("put %s: %w", key, err)
		return err
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	start := time.Now()
	var err error
	defer func() {
		s.metrics.Observe("delete", err, start)
	}()

	if err = s.db.Delete([]byte(key), pebble.Sync); err != nil {
		err = fmt.Errorf("delete %s: %w", key, err)
		return err
	}
	return nil
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	if err := s.db.Flush(); err != nil {
		return fmt.Errorf("flush pebble: %w", err)
	}
	return s.db.Close()
}
