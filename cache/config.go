package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goliatone/go-task-catalog/internal/cacheinfra"
)

// Driver selects the cache backend.
type Driver string

const (
	DriverMemory Driver = "memory"
	DriverRedis  Driver = "redis"
	// DriverNone disables caching. Reads always miss.
	DriverNone Driver = "none"
)

// Config exposes cache configuration options for consumers of the cache package.
type Config struct {
	Driver Driver
	Memory MemoryConfig
	Redis  RedisConfig

	// OperationTimeout bounds each backend call. Zero leaves calls bounded
	// only by the caller's context.
	OperationTimeout time.Duration
}

// MemoryConfig mirrors the in-process sturdyc backend options.
type MemoryConfig struct {
	Capacity           int
	NumShards          int
	MaxTTL             time.Duration
	EvictionPercentage int
	EvictionInterval   time.Duration
}

// RedisConfig mirrors the Redis backend options.
type RedisConfig struct {
	Addr         string
	Username     string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxRetries   int
	ScanCount    int64
}

// ConfigError reports an invalid configuration field.
type ConfigError = cacheinfra.ConfigError

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Driver:           DriverMemory,
		Memory:           convertMemoryFromInternal(cacheinfra.DefaultMemoryConfig()),
		Redis:            convertRedisFromInternal(cacheinfra.DefaultRedisConfig()),
		OperationTimeout: 250 * time.Millisecond,
	}
}

// Validate checks whether the configuration values are valid. Only the
// section of the selected driver is checked.
func (c Config) Validate() error {
	if c.OperationTimeout < 0 {
		return &ConfigError{Field: "OperationTimeout", Message: "must be non-negative"}
	}

	switch c.Driver {
	case DriverMemory:
		return c.Memory.toInternal().Validate()
	case DriverRedis:
		return c.Redis.toInternal().Validate()
	case DriverNone:
		return nil
	default:
		return &ConfigError{Field: "Driver", Message: fmt.Sprintf("unknown driver %q", c.Driver)}
	}
}

// NewStore builds the Store described by cfg. An unreachable Redis server is
// logged and tolerated; the store degrades to misses until it comes back.
func NewStore(cfg Config, logger *slog.Logger) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := []Option{
		WithLogger(logger),
		WithOperationTimeout(cfg.OperationTimeout),
	}

	switch cfg.Driver {
	case DriverMemory:
		backend, err := cacheinfra.NewMemoryBackend(cfg.Memory.toInternal())
		if err != nil {
			return nil, err
		}
		return New(backend, opts...), nil

	case DriverRedis:
		backend, err := cacheinfra.NewRedisBackend(cfg.Redis.toInternal())
		if err != nil {
			return nil, err
		}

		ctx := context.Background()
		if cfg.Redis.DialTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Redis.DialTimeout)
			defer cancel()
		}
		if err := backend.Ping(ctx); err != nil {
			logger.Warn("redis cache unreachable, continuing without it until it recovers",
				"addr", cfg.Redis.Addr, "error", err)
		}
		return New(backend, opts...), nil

	default:
		return NullStore{}, nil
	}
}

func (c MemoryConfig) toInternal() cacheinfra.MemoryConfig {
	return cacheinfra.MemoryConfig{
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		MaxTTL:             c.MaxTTL,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
	}
}

func (c RedisConfig) toInternal() cacheinfra.RedisConfig {
	return cacheinfra.RedisConfig{
		Addr:         c.Addr,
		Username:     c.Username,
		Password:     c.Password,
		DB:           c.DB,
		DialTimeout:  c.DialTimeout,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
		MaxRetries:   c.MaxRetries,
		ScanCount:    c.ScanCount,
	}
}

func convertMemoryFromInternal(cfg cacheinfra.MemoryConfig) MemoryConfig {
	return MemoryConfig{
		Capacity:           cfg.Capacity,
		NumShards:          cfg.NumShards,
		MaxTTL:             cfg.MaxTTL,
		EvictionPercentage: cfg.EvictionPercentage,
		EvictionInterval:   cfg.EvictionInterval,
	}
}

func convertRedisFromInternal(cfg cacheinfra.RedisConfig) RedisConfig {
	return RedisConfig{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		MaxRetries:   cfg.MaxRetries,
		ScanCount:    cfg.ScanCount,
	}
}
