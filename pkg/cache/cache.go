package cache

import (
	"context"
	"time"
)

// Cache is the contract for the read-through cache layer.
// Implementations: Redis (production), in-memory fakes (tests).
type Cache interface {
	// Get loads the value stored under key and unmarshals it into dest.
	// Returns (false, nil) on a cache miss; dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores a value under key with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// SetWithTags stores a value and registers the key under each tag,
	// so a later EvictTag drops every key the tag covers.
	SetWithTags(ctx context.Context, key string, value interface{}, ttl time.Duration, tags ...string) error

	// EvictTag removes every key registered under tag plus the tag set itself.
	// Many distinct query shapes (by id, by slug, filtered lists) can all go
	// stale from one mutation, which is why eviction is tag-scoped.
	EvictTag(ctx context.Context, tag string) error

	// Delete removes individual keys.
	Delete(ctx context.Context, keys ...string) error

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}

// TagKey maps a logical tag name to the key of the set holding its members.
func TagKey(tag string) string {
	return "tag:" + tag
}
