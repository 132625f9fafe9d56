// Package kv defines the narrow key-value contract the engine consumes
// and provides the production Redis adapter. Every operation is atomic
// per key; the contract deliberately offers no multi-key transactions,
// so cross-call consistency is the caller's concern.
package kv

import (
	"context"
	"time"
)

// Store is the minimal TTL-capable key-value surface. Implementations
// must make each call individually atomic; nothing more is assumed.
type Store interface {
	// Get returns the string value at key. ok is false when the key is
	// absent; absence is not an error.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// HGetAll returns all fields of the hash at key. An empty map means
	// the key is absent.
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	// HSet merge-writes the given fields into the hash at key, creating
	// the key if needed.
	HSet(ctx context.Context, key string, fields map[string]string) error
	// Set writes a string value, replacing any previous value and
	// resetting the key's TTL. A non-positive ttl persists the key.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Del removes keys and reports how many actually existed.
	Del(ctx context.Context, keys ...string) (int64, error)
	// Expire sets the TTL of an existing key. ok is false when the key
	// is absent.
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// TTL reports the remaining lifetime of key. ok is false when the
	// key is absent; a negative ttl with ok true means no expiration.
	TTL(ctx context.Context, key string) (ttl time.Duration, ok bool, err error)
}

// Creator is an optional capability for stores that can create a hash
// atomically only when the key does not exist yet. Registration prefers
// it over the racy exists-then-write sequence.
type Creator interface {
	// HSetIfAbsent writes fields only if key does not exist. It returns
	// true when the key was created, false when it already existed.
	HSetIfAbsent(ctx context.Context, key string, fields map[string]string) (bool, error)
}
