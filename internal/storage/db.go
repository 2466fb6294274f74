// Package storage provides key-value database abstractions for the wallet's
// local caches.
package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key does not exist or has expired.
var ErrNotFound = errors.New("key not found")

// DB is the interface for key-value storage.
type DB interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	Has(key []byte) (bool, error)
	// ForEach iterates over all keys with the given prefix.
	// The callback receives a copy of the key and value.
	// Return a non-nil error from fn to stop iteration early.
	ForEach(prefix []byte, fn func(key, value []byte) error) error
	Close() error
}

// TTLWriter is implemented by databases that can expire entries.
// A non-positive ttl stores the entry without expiry.
type TTLWriter interface {
	PutWithTTL(key, value []byte, ttl time.Duration) error
}

// PutWithTTL stores value under key with an expiry when db supports it,
// and without one otherwise.
func PutWithTTL(db DB, key, value []byte, ttl time.Duration) error {
	if w, ok := db.(TTLWriter); ok {
		return w.PutWithTTL(key, value, ttl)
	}
	return db.Put(key, value)
}
