// Package cache provides response caching for remote encoding API calls.
//
// Three backends are available:
//   - FileCache: file-based storage for CLI usage
//   - RedisCache: shared storage for the serve mode
//   - NewNullCache: no-op backend for tests or --no-cache runs
//
// Cache keys are hashed with SHA-256 before storage, so arbitrary strings
// (URLs, ids with slashes) are safe to use as keys.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores raw response bytes keyed by string.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was found (expired entries count as misses).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A TTL of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// nullCache drops every write and misses every read. It backs --no-cache
// runs so the client code never has to branch on caching being off.
type nullCache struct{}

// NewNullCache returns the no-op backend.
func NewNullCache() Cache { return nullCache{} }

func (nullCache) Get(ctx context.Context, key string) ([]byte, bool, error) { return nil, false, nil }
func (nullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}
func (nullCache) Delete(ctx context.Context, key string) error { return nil }
func (nullCache) Close() error { return nil }

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Key builds a namespaced cache key: "namespace:hash(raw)".
// Namespacing keeps different resource families from colliding when they
// share one backend.
func Key(namespace, raw string) string {
	return namespace + ":" + Hash([]byte(raw))
}
