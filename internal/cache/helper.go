package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/hamidadj13/syncvote-api/internal/middleware"
	"github.com/hamidadj13/syncvote-api/internal/observability"
)

// Store is the key-value backend of the cache.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}

// Cache memoizes JSON values under scoped keys with a fixed TTL.
type Cache struct {
	store Store
	ttl   time.Duration
}

// New returns a Cache writing entries to store with the given TTL.
func New(store Store, ttl time.Duration) *Cache {
	return &Cache{store: store, ttl: ttl}
}

// TTL returns the expiry applied to every entry.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Ping checks the backing store.
func (c *Cache) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

// GetJSON attempts to get the key and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	b, found, err := c.store.Get(ctx, key)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and stores it under key.
func (c *Cache) SetJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, key, b, c.ttl)
}

// Aside returns the cached value for key in dest. On a miss it calls fetch,
// which must populate dest, and stores the result best-effort. A hit does not
// rewrite the entry, so its TTL keeps counting down. A nil Cache always fetches.
func (c *Cache) Aside(ctx context.Context, key string, dest any, fetch func() error) error {
	if c == nil {
		return fetch()
	}
	space := keySpace(key)

	found, err := c.GetJSON(ctx, key, dest)
	if err != nil {
		// A broken cache must not take reads down with it.
		observability.CacheLookups.WithLabelValues(space, "error").Inc()
		middleware.Logger.WarnContext(ctx, "cache read failed", "key", key, "error", err)
	}
	if found {
		observability.CacheLookups.WithLabelValues(space, "hit").Inc()
		return nil
	}
	observability.CacheLookups.WithLabelValues(space, "miss").Inc()

	if err := fetch(); err != nil {
		return err
	}

	if err := c.SetJSON(ctx, key, dest); err != nil {
		middleware.Logger.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}
	return nil
}

// Invalidate removes keys. Failures are logged, not returned: a stale entry
// expires on its own within one TTL.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	if err := c.store.Delete(ctx, keys...); err != nil {
		middleware.Logger.WarnContext(ctx, "cache invalidation failed", "keys", keys, "error", err)
	}
}

func keySpace(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i]
	}
	return key
}
