// Package cache holds named caches of encoded values. Entries are grouped
// by cache name so that a write can drop every entry a read may have derived
// from the old data.
//
// Every name carries a generation that EvictAll advances. A value computed
// before an eviction is stored under the generation it was read in, which no
// later lookup consults, so a slow load racing an eviction cannot resurrect
// stale data. This holds across processes sharing a Redis backend.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
)

// Cache stores byte values under (name, key). Backends report lookup and
// store failures as misses; eviction failures are returned because a
// missed eviction serves stale data.
type Cache interface {
	// Generation returns the current generation of name.
	Generation(ctx context.Context, name string) (uint64, error)
	Get(ctx context.Context, name, key string) ([]byte, bool)
	// Put stores value for the given generation. A value for a generation
	// that is no longer current is never returned by Get.
	Put(ctx context.Context, name, key string, gen uint64, value []byte)
	Evict(ctx context.Context, name, key string) error
	// EvictAll drops every entry of name and advances its generation.
	EvictAll(ctx context.Context, name string) error
}

// Remember returns the cached value for (name, key), calling load on a miss
// and caching its result. The value returned is always the decoded cached
// form, so a hit and a miss yield identical values. When the generation
// cannot be read the value is loaded and returned without caching.
func Remember[T any](ctx context.Context, c Cache, name, key string, load func(context.Context) (T, error)) (T, error) {
	var out T
	gen, genErr := c.Generation(ctx, name)
	if genErr == nil {
		if raw, ok := c.Get(ctx, name, key); ok {
			if err := json.Unmarshal(raw, &out); err == nil {
				return out, nil
			}
			out = *new(T)
		}
	}

	v, err := load(ctx)
	if err != nil {
		return out, err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return out, fmt.Errorf("cache %s: encode %q: %w", name, key, err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("cache %s: decode %q: %w", name, key, err)
	}
	if genErr == nil {
		c.Put(ctx, name, key, gen, raw)
	}
	return out, nil
}

// EvictAll drops every entry of each named cache, stopping at the first
// failure.
func EvictAll(ctx context.Context, c Cache, names ...string) error {
	for _, name := range names {
		if err := c.EvictAll(ctx, name); err != nil {
			return fmt.Errorf("evict %s: %w", name, err)
		}
	}
	return nil
}
