package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value   []byte
	expires time.Time
}

// Memory is a process-local Cache. A zero TTL keeps entries until evicted.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	gens    map[string]uint64
	entries map[string]map[string]entry
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		now:     time.Now,
		gens:    make(map[string]uint64),
		entries: make(map[string]map[string]entry),
	}
}

func (m *Memory) Generation(_ context.Context, name string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gens[name], nil
}

func (m *Memory) Get(_ context.Context, name, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[name][key]
	if !ok {
		return nil, false
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.entries[name], key)
		return nil, false
	}
	return e.value, true
}

// Put drops values for a stale generation; only current entries are kept.
func (m *Memory) Put(_ context.Context, name, key string, gen uint64, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gens[name] {
		return
	}
	e := entry{value: append([]byte(nil), value...)}
	if m.ttl > 0 {
		e.expires = m.now().Add(m.ttl)
	}
	if m.entries[name] == nil {
		m.entries[name] = make(map[string]entry)
	}
	m.entries[name][key] = e
}

func (m *Memory) Evict(_ context.Context, name, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries[name], key)
	return nil
}

func (m *Memory) EvictAll(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gens[name]++
	delete(m.entries, name)
	return nil
}
