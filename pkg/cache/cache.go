// Package cache provides a small byte cache used to skip repeated
// `cargo metadata` invocations when nothing in the workspace changed.
//
// Two implementations are provided:
//   - [FileCache]: JSON entries with expiry under the user cache directory
//   - [NullCache]: never stores anything; used with --no-cache
//
// Keys are built with [MetadataKey] so that any change to the manifest,
// the lockfile, or the resolution options produces a different key.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte payloads with an optional time-to-live.
type Cache interface {
	// Get returns the payload for key. A miss is reported with hit == false
	// and a nil error; corrupted or expired entries count as misses.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl <= 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
