package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestMemory(ttl time.Duration) (*Memory, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)}
	m := NewMemory(ttl)
	m.now = clock.now
	return m, clock
}

// put stores value under the current generation of name.
func put(t *testing.T, c Cache, name, key, value string) {
	ctx := context.Background()
	gen, err := c.Generation(ctx, name)
	require.NoError(t, err)
	c.Put(ctx, name, key, gen, []byte(value))
}

func TestMemoryGetSetEvict(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMemory(0)

	_, ok := m.Get(ctx, "reports", "all")
	assert.False(t, ok)

	put(t, m, "reports", "all", "a")
	put(t, m, "reports", "2024_3", "b")
	put(t, m, "search", "all", "c")

	v, ok := m.Get(ctx, "reports", "all")
	require.True(t, ok)
	assert.Equal(t, []byte("a"), v)

	require.NoError(t, m.Evict(ctx, "reports", "all"))
	_, ok = m.Get(ctx, "reports", "all")
	assert.False(t, ok)
	_, ok = m.Get(ctx, "reports", "2024_3")
	assert.True(t, ok)

	require.NoError(t, m.EvictAll(ctx, "reports"))
	_, ok = m.Get(ctx, "reports", "2024_3")
	assert.False(t, ok)
	_, ok = m.Get(ctx, "search", "all")
	assert.True(t, ok, "other caches are untouched")
}

func TestMemoryTTL(t *testing.T) {
	ctx := context.Background()
	m, clock := newTestMemory(time.Minute)

	put(t, m, "reports", "all", "a")
	clock.t = clock.t.Add(59 * time.Second)
	_, ok := m.Get(ctx, "reports", "all")
	assert.True(t, ok)

	clock.t = clock.t.Add(time.Second)
	_, ok = m.Get(ctx, "reports", "all")
	assert.False(t, ok)
}

func TestMemorySetCopies(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMemory(0)
	buf := []byte("abc")
	m.Put(ctx, "n", "k", 0, buf)
	buf[0] = 'x'
	v, _ := m.Get(ctx, "n", "k")
	assert.Equal(t, []byte("abc"), v)
}

type report struct {
	Count int              `json:"count"`
	Rows  []map[string]any `json:"rows"`
}

func TestRemember(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMemory(0)
	calls := 0
	load := func(context.Context) (report, error) {
		calls++
		return report{Count: 1, Rows: []map[string]any{{"id": 7}}}, nil
	}

	first, err := Remember(ctx, m, "reports", "all", load)
	require.NoError(t, err)
	second, err := Remember(ctx, m, "reports", "all", load)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second, "hit and miss return the same decoded form")
	assert.Equal(t, float64(7), first.Rows[0]["id"])
}

func TestRememberLoadError(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMemory(0)
	boom := errors.New("boom")

	_, err := Remember(ctx, m, "reports", "all", func(context.Context) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	_, ok := m.Get(ctx, "reports", "all")
	assert.False(t, ok, "failures are not cached")
}

func TestRememberIgnoresCorruptEntry(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMemory(0)
	put(t, m, "reports", "all", "{not json")

	v, err := Remember(ctx, m, "reports", "all", func(context.Context) (int, error) { return 3, nil })
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestEvictAllNames(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMemory(0)
	put(t, m, "a", "k", "1")
	put(t, m, "b", "k", "2")
	put(t, m, "c", "k", "3")

	require.NoError(t, EvictAll(ctx, m, "a", "b"))
	_, ok := m.Get(ctx, "a", "k")
	assert.False(t, ok)
	_, ok = m.Get(ctx, "b", "k")
	assert.False(t, ok)
	_, ok = m.Get(ctx, "c", "k")
	assert.True(t, ok)
}

func TestRedis(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	prefix := "ams-test-" + time.Now().Format("150405.000000")
	r, err := NewRedis(ctx, url, prefix, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer r.Close()

	put(t, r, "reports", "all", "a")
	put(t, r, "reports", "2024_3", "b")
	put(t, r, "search", "leak", "c")

	v, ok := r.Get(ctx, "reports", "all")
	require.True(t, ok)
	assert.Equal(t, []byte("a"), v)

	require.NoError(t, r.Evict(ctx, "reports", "all"))
	_, ok = r.Get(ctx, "reports", "all")
	assert.False(t, ok)

	require.NoError(t, r.EvictAll(ctx, "reports"))
	_, ok = r.Get(ctx, "reports", "2024_3")
	assert.False(t, ok)
	_, ok = r.Get(ctx, "search", "leak")
	assert.True(t, ok)

	// a load that started before an eviction in another process
	gen, err := r.Generation(ctx, "reports")
	require.NoError(t, err)
	other, err := NewRedis(ctx, url, prefix, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer other.Close()
	require.NoError(t, other.EvictAll(ctx, "reports"))
	r.Put(ctx, "reports", "all", gen, []byte("stale"))
	_, ok = r.Get(ctx, "reports", "all")
	assert.False(t, ok, "a value from an earlier generation is never served")
	_, ok = other.Get(ctx, "reports", "all")
	assert.False(t, ok)

	require.NoError(t, r.EvictAll(ctx, "search"))
	require.NoError(t, r.EvictAll(ctx, "reports"))
}

func TestMemoryStalePutIgnored(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMemory(0)

	gen, err := m.Generation(ctx, "reports")
	require.NoError(t, err)
	require.NoError(t, m.EvictAll(ctx, "reports"))
	m.Put(ctx, "reports", "all", gen, []byte("stale"))

	_, ok := m.Get(ctx, "reports", "all")
	assert.False(t, ok)
	next, err := m.Generation(ctx, "reports")
	require.NoError(t, err)
	assert.Equal(t, gen+1, next)
}

func TestRememberDuringEviction(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMemory(0)
	version := 1
	load := func(context.Context) (int, error) {
		v := version
		// a write commits and evicts while this load is in flight
		if v == 1 {
			version = 2
			require.NoError(t, m.EvictAll(ctx, "reports"))
		}
		return v, nil
	}

	v, err := Remember(ctx, m, "reports", "all", load)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	_, ok := m.Get(ctx, "reports", "all")
	assert.False(t, ok, "the pre-eviction result is not cached")

	v, err = Remember(ctx, m, "reports", "all", load)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}
