// package repositories provides the cache persistence layer.
//
// The [Cache] interface abstracts key/value storage with TTL expiry.
// [MemoryCache] backs short-lived runs and tests; [SQLiteCache] persists
// resolution results across invocations.
package repositories

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the cached value for key. The second return reports
	// whether a live entry was found; expired entries count as missing.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key for the given TTL. A non-positive TTL
	// stores the entry without expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the entry for key. Deleting a missing key is not an
	// error.
	Delete(ctx context.Context, key string) error
}
