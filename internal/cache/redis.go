package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const scanCount = 100

// Redis is a Cache shared between processes. Values live under
// <prefix>:<name>:<generation>:<key>, the generation of a name under
// <prefix>:<name>:gen.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	log    *slog.Logger
}

// NewRedis connects to url (redis://...) and verifies the connection.
func NewRedis(ctx context.Context, url, prefix string, ttl time.Duration, log *slog.Logger) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Info("connected to redis", "addr", opts.Addr)
	return &Redis{client: client, prefix: prefix, ttl: ttl, log: log}, nil
}

func (r *Redis) genKey(name string) string {
	return r.prefix + ":" + name + ":gen"
}

func (r *Redis) key(name string, gen uint64, key string) string {
	return r.prefix + ":" + name + ":" + strconv.FormatUint(gen, 10) + ":" + key
}

func (r *Redis) Generation(ctx context.Context, name string) (uint64, error) {
	gen, err := r.client.Get(ctx, r.genKey(name)).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		r.log.Warn("redis generation lookup failed", "cache", name, "error", err)
		return 0, err
	}
	return gen, nil
}

func (r *Redis) Get(ctx context.Context, name, key string) ([]byte, bool) {
	gen, err := r.Generation(ctx, name)
	if err != nil {
		return nil, false
	}
	raw, err := r.client.Get(ctx, r.key(name, gen, key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn("redis get failed", "cache", name, "key", key, "error", err)
		}
		return nil, false
	}
	return raw, true
}

// Put writes under gen as given. A stale generation lands in a key no
// lookup reads, and the TTL reclaims it.
func (r *Redis) Put(ctx context.Context, name, key string, gen uint64, value []byte) {
	if err := r.client.Set(ctx, r.key(name, gen, key), value, r.ttl).Err(); err != nil {
		r.log.Warn("redis set failed", "cache", name, "key", key, "error", err)
	}
}

func (r *Redis) Evict(ctx context.Context, name, key string) error {
	gen, err := r.Generation(ctx, name)
	if err != nil {
		return err
	}
	return r.client.Del(ctx, r.key(name, gen, key)).Err()
}

// EvictAll advances the generation of name, then deletes the values of
// earlier generations in a pipeline.
func (r *Redis) EvictAll(ctx context.Context, name string) error {
	gen, err := r.client.Incr(ctx, r.genKey(name)).Uint64()
	if err != nil {
		return fmt.Errorf("advance generation of %s: %w", name, err)
	}

	pattern := r.prefix + ":" + name + ":*"
	current := r.key(name, gen, "")
	var keys []string
	var cursor uint64
	for {
		batch, next, err := r.client.Scan(ctx, cursor, pattern, scanCount).Result()
		if err != nil {
			return fmt.Errorf("scan %s: %w", pattern, err)
		}
		for _, k := range batch {
			if k != r.genKey(name) && !strings.HasPrefix(k, current) {
				keys = append(keys, k)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if len(keys) == 0 {
		return nil
	}

	pipe := r.client.Pipeline()
	for _, k := range keys {
		pipe.Del(ctx, k)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete %d keys of %s: %w", len(keys), name, err)
	}
	r.log.Debug("evicted cache", "cache", name, "generation", gen, "keys", len(keys))
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
