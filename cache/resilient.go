package cache

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Option configures the Store returned by New.
type Option func(*resilientStore)

// WithLogger sets the logger used to report swallowed backend failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *resilientStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOperationTimeout bounds every backend call. Zero disables the bound.
func WithOperationTimeout(d time.Duration) Option {
	return func(s *resilientStore) {
		s.timeout = d
	}
}

// WithKeyRegistry forces key tracking even when the backend can delete by
// prefix natively.
func WithKeyRegistry() Option {
	return func(s *resilientStore) {
		s.prefixDeleter = nil
	}
}

// resilientStore adapts a Backend to Store. Backend errors are logged and
// converted to misses or no-ops.
type resilientStore struct {
	backend       Backend
	prefixDeleter PrefixDeleter
	registry      *keyRegistry
	timeout       time.Duration
	logger        *slog.Logger
}

// New wraps backend into a Store. A nil backend yields a NullStore.
func New(backend Backend, opts ...Option) Store {
	if backend == nil {
		return NullStore{}
	}

	s := &resilientStore{
		backend: backend,
		logger:  slog.Default(),
	}
	if pd, ok := backend.(PrefixDeleter); ok {
		s.prefixDeleter = pd
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if s.prefixDeleter == nil {
		s.registry = newKeyRegistry()
	}

	return s
}

func (s *resilientStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *resilientStore) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	value, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache get failed, treating as miss", "op", "get", "key", key, "error", err)
		return nil, false
	}
	return value, ok
}

func (s *resilientStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	// Track before writing so a concurrent prefix purge cannot miss a key
	// that lands in the backend, and again after, in case that purge forgot
	// the key before the write completed.
	if s.registry != nil {
		s.registry.track(key, ttl)
	}

	if err := s.backend.Set(ctx, key, value, ttl); err != nil {
		s.logger.Warn("cache set failed, skipping", "op", "set", "key", key, "error", err)
		return false
	}
	if s.registry != nil {
		s.registry.track(key, ttl)
	}
	return true
}

func (s *resilientStore) Delete(ctx context.Context, key string) bool {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.backend.Delete(ctx, key); err != nil {
		s.logger.Warn("cache delete failed, skipping", "op", "delete", "key", key, "error", err)
		return false
	}
	if s.registry != nil {
		s.registry.forget(key)
	}
	return true
}

func (s *resilientStore) DeleteByPrefix(ctx context.Context, prefix string) bool {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if s.prefixDeleter != nil {
		if err := s.prefixDeleter.DeleteByPrefix(ctx, prefix); err != nil {
			s.logger.Warn("cache prefix delete failed, skipping", "op", "delete_prefix", "prefix", prefix, "error", err)
			return false
		}
		return true
	}

	ok := true
	for _, key := range s.registry.withPrefix(prefix) {
		if err := s.backend.Delete(ctx, key); err != nil {
			s.logger.Warn("cache delete failed, skipping", "op", "delete_prefix", "prefix", prefix, "key", key, "error", err)
			ok = false
			continue
		}
		s.registry.forget(key)
	}
	return ok
}

func (s *resilientStore) Close() error {
	return s.backend.Close()
}

// registrySweepEvery is the number of tracked writes between sweeps of
// expired keys.
const registrySweepEvery = 1024

// keyRegistry tracks keys written through the Store so prefix invalidation
// works on backends that cannot enumerate keys. Each key is remembered until
// its TTL passes, so the registry holds at most the keys that may still be
// live in the backend plus those written since the last sweep.
type keyRegistry struct {
	keys   sync.Map // key -> expiry time.Time, zero for no expiry
	writes atomic.Int64
	now    func() time.Time
}

func newKeyRegistry() *keyRegistry {
	return &keyRegistry{now: time.Now}
}

func (r *keyRegistry) track(key string, ttl time.Duration) {
	var expires time.Time
	if ttl > 0 {
		expires = r.now().Add(ttl)
	}
	r.keys.Store(key, expires)

	if r.writes.Add(1)%registrySweepEvery == 0 {
		r.sweep()
	}
}

func (r *keyRegistry) forget(key string) {
	r.keys.Delete(key)
}

// withPrefix returns the live keys starting with prefix and drops every
// expired key it passes.
func (r *keyRegistry) withPrefix(prefix string) []string {
	now := r.now()
	var out []string
	r.keys.Range(func(k, v any) bool {
		key := k.(string)
		if expired(v, now) {
			r.keys.CompareAndDelete(key, v)
			return true
		}
		if strings.HasPrefix(key, prefix) {
			out = append(out, key)
		}
		return true
	})
	return out
}

func (r *keyRegistry) sweep() {
	now := r.now()
	r.keys.Range(func(k, v any) bool {
		if expired(v, now) {
			r.keys.CompareAndDelete(k, v)
		}
		return true
	})
}

func (r *keyRegistry) size() int {
	n := 0
	r.keys.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func expired(v any, now time.Time) bool {
	expires, _ := v.(time.Time)
	return !expires.IsZero() && !now.Before(expires)
}
