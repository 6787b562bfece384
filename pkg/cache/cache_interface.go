package cache

import (
	"context"
	"time"
)

// Cache is the contract for the cache layer so Redis can be swapped out
// (or disabled) without touching repositories.
type Cache interface {
	// Get unmarshals the cached value into dest.
	// found = false on a miss; dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value (JSON encoded) with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	Delete(ctx context.Context, keys ...string) error

	Ping(ctx context.Context) error
}

type noopCache struct{}

// NewNoop returns a cache that never hits. Used when Redis is not reachable.
func NewNoop() Cache { return noopCache{} }

func (noopCache) Get(context.Context, string, interface{}) (bool, error) { return false, nil }

func (noopCache) Set(context.Context, string, interface{}, time.Duration) error { return nil }

func (noopCache) Delete(context.Context, ...string) error { return nil }

func (noopCache) Ping(context.Context) error { return nil }
