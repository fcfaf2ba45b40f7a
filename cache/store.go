package cache

import (
	"context"
	"time"
)

// Store is the cache contract used by the catalog. Operations never return
// errors: a miss, a disabled cache and an unreachable backend all look the
// same to callers. Boolean results report whether the operation took effect.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool
	Delete(ctx context.Context, key string) bool
	DeleteByPrefix(ctx context.Context, prefix string) bool
	Close() error
}

// Backend is a cache transport. Unlike Store it reports transport failures;
// New wraps a Backend into a Store that swallows them.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// PrefixDeleter is implemented by backends that can delete by key prefix
// natively. Backends without it get a key registry maintained by the Store.
type PrefixDeleter interface {
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// NullStore is the Store used when no cache is configured. Every read misses
// and every write reports that nothing happened.
type NullStore struct{}

var _ Store = NullStore{}

func (NullStore) Get(context.Context, string) ([]byte, bool)              { return nil, false }
func (NullStore) Set(context.Context, string, []byte, time.Duration) bool { return false }
func (NullStore) Delete(context.Context, string) bool                     { return false }
func (NullStore) DeleteByPrefix(context.Context, string) bool             { return false }
func (NullStore) Close() error                                            { return nil }
