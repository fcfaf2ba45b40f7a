package cacheinfra

import (
	"context"
	"strings"
	"time"

	"github.com/viccon/sturdyc"
)

// memoryEntry carries its own deadline so entries can have different TTLs
// inside a single sturdyc client, whose TTL is fixed at construction.
type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryBackend is an in-process cache backend built on a sturdyc client.
type MemoryBackend struct {
	client *sturdyc.Client[memoryEntry]
	maxTTL time.Duration
	now    func() time.Time
}

// NewMemoryBackend creates a sturdyc backed cache.
//
// Capacity, NumShards, MaxTTL and EvictionPercentage are passed to
// sturdyc.New(). MaxTTL is the client wide TTL; shorter per entry TTLs are
// enforced on read.
func NewMemoryBackend(cfg MemoryConfig) (*MemoryBackend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var options []sturdyc.Option
	if cfg.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(cfg.EvictionInterval))
	}

	client := sturdyc.New[memoryEntry](
		cfg.Capacity,
		cfg.NumShards,
		cfg.MaxTTL,
		cfg.EvictionPercentage,
		options...,
	)

	return &MemoryBackend{client: client, maxTTL: cfg.MaxTTL, now: time.Now}, nil
}

// Get returns a copy of the stored value. Expired entries are removed and
// reported as a miss.
func (m *MemoryBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	entry, ok := m.client.Get(key)
	if !ok {
		return nil, false, nil
	}

	if !m.now().Before(entry.expiresAt) {
		m.client.Delete(key)
		return nil, false, nil
	}

	return append([]byte(nil), entry.value...), true, nil
}

// Set stores value for ttl, capped at MaxTTL.
func (m *MemoryBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 || ttl > m.maxTTL {
		ttl = m.maxTTL
	}

	m.client.Set(key, memoryEntry{
		value:     append([]byte(nil), value...),
		expiresAt: m.now().Add(ttl),
	})
	return nil
}

// Delete removes a single entry.
func (m *MemoryBackend) Delete(ctx context.Context, key string) error {
	m.client.Delete(key)
	return nil
}

// DeleteByPrefix removes all entries whose key starts with prefix.
func (m *MemoryBackend) DeleteByPrefix(ctx context.Context, prefix string) error {
	for _, key := range m.client.ScanKeys() {
		if strings.HasPrefix(key, prefix) {
			m.client.Delete(key)
		}
	}
	return nil
}

// Size reports the number of entries held, including not yet swept expired ones.
func (m *MemoryBackend) Size() int {
	return m.client.Size()
}

// Close is a no-op; sturdyc holds no external resources.
func (m *MemoryBackend) Close() error {
	return nil
}
