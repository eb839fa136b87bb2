// Package cache stores the best known solution of every instance seen.
//
// Solutions are keyed by a hash of the instance content, not its file name,
// so renamed copies of an instance share one entry. Three backends implement
// [Cache]:
//
//   - [FileCache] keeps one JSON file per key below a directory (CLI default)
//   - [RedisCache] shares entries between machines running benchmarks
//   - [NullCache] disables caching
//
// [BestStore] layers the solution semantics on top: it only ever replaces an
// entry with a strictly better objective.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired key is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}
