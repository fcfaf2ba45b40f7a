package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/goliatone/go-task-catalog/cache"
	"github.com/goliatone/go-task-catalog/catalog"
)

const (
	DefaultLogLevel = "info"
	DefaultDriver   = "sqlite3"
	DefaultDSN      = "file:taskcatalog.db?_foreign_keys=on"

	envDBDriver     = "TASKCATALOG_DB_DRIVER"
	envDBDSN        = "TASKCATALOG_DB_DSN"
	envCacheBackend = "TASKCATALOG_CACHE_BACKEND"
	envRedisAddr    = "TASKCATALOG_REDIS_ADDR"
	envRedisPass    = "TASKCATALOG_REDIS_PASSWORD"
	envRedisDB      = "TASKCATALOG_REDIS_DB"
	envLogLevel     = "TASKCATALOG_LOG_LEVEL"
)

// Duration is a time.Duration written as a string ("5m", "250ms") in TOML.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// DatabaseConfig selects the relational store.
type DatabaseConfig struct {
	Driver string `toml:"driver"`
	DSN    string `toml:"dsn"`
}

// MemoryConfig configures the in-process cache.
type MemoryConfig struct {
	Capacity           int      `toml:"capacity"`
	NumShards          int      `toml:"num_shards"`
	MaxTTL             Duration `toml:"max_ttl"`
	EvictionPercentage int      `toml:"eviction_percentage"`
	EvictionInterval   Duration `toml:"eviction_interval"`
}

// RedisConfig configures the Redis cache.
type RedisConfig struct {
	Addr         string   `toml:"addr"`
	Username     string   `toml:"username"`
	Password     string   `toml:"password"`
	DB           int      `toml:"db"`
	DialTimeout  Duration `toml:"dial_timeout"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	MaxRetries   int      `toml:"max_retries"`
	ScanCount    int64    `toml:"scan_count"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend          string       `toml:"backend"`
	OperationTimeout Duration     `toml:"operation_timeout"`
	Memory           MemoryConfig `toml:"memory"`
	Redis            RedisConfig  `toml:"redis"`
}

// CatalogConfig holds the TTL policy and key layout.
type CatalogConfig struct {
	Namespace string   `toml:"namespace"`
	HashKeys  bool     `toml:"hash_keys"`
	ItemTTL   Duration `toml:"item_ttl"`
	ListTTL   Duration `toml:"list_ttl"`
	PageTTL   Duration `toml:"page_ttl"`
}

// Config defines runtime configuration for the task catalog.
type Config struct {
	LogLevel string         `toml:"log_level"`
	Database DatabaseConfig `toml:"database"`
	Cache    CacheConfig    `toml:"cache"`
	Catalog  CatalogConfig  `toml:"catalog"`
}

// Error reports an invalid configuration value.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// Default returns default configuration values.
func Default() Config {
	cc := cache.DefaultConfig()
	opts := catalog.DefaultOptions()

	return Config{
		LogLevel: DefaultLogLevel,
		Database: DatabaseConfig{
			Driver: DefaultDriver,
			DSN:    DefaultDSN,
		},
		Cache: CacheConfig{
			Backend:          string(cc.Driver),
			OperationTimeout: Duration(cc.OperationTimeout),
			Memory: MemoryConfig{
				Capacity:           cc.Memory.Capacity,
				NumShards:          cc.Memory.NumShards,
				MaxTTL:             Duration(cc.Memory.MaxTTL),
				EvictionPercentage: cc.Memory.EvictionPercentage,
				EvictionInterval:   Duration(cc.Memory.EvictionInterval),
			},
			Redis: RedisConfig{
				Addr:         cc.Redis.Addr,
				Username:     cc.Redis.Username,
				Password:     cc.Redis.Password,
				DB:           cc.Redis.DB,
				DialTimeout:  Duration(cc.Redis.DialTimeout),
				ReadTimeout:  Duration(cc.Redis.ReadTimeout),
				WriteTimeout: Duration(cc.Redis.WriteTimeout),
				MaxRetries:   cc.Redis.MaxRetries,
				ScanCount:    cc.Redis.ScanCount,
			},
		},
		Catalog: CatalogConfig{
			Namespace: opts.Namespace,
			HashKeys:  opts.HashKeys,
			ItemTTL:   Duration(opts.ItemTTL),
			ListTTL:   Duration(opts.ListTTL),
			PageTTL:   Duration(opts.PageTTL),
		},
	}
}

// Load reads defaults, then the TOML file at path (skipped when path is
// empty), then environment overrides, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return &Error{Field: strings.Join(keys, ","), Message: "unknown key"}
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.Database.Driver = getEnv(envDBDriver, cfg.Database.Driver)
	cfg.Database.DSN = getEnv(envDBDSN, cfg.Database.DSN)
	cfg.Cache.Backend = getEnv(envCacheBackend, cfg.Cache.Backend)
	cfg.Cache.Redis.Addr = getEnv(envRedisAddr, cfg.Cache.Redis.Addr)
	cfg.Cache.Redis.Password = getEnv(envRedisPass, cfg.Cache.Redis.Password)
	cfg.LogLevel = getEnv(envLogLevel, cfg.LogLevel)

	db, err := getEnvInt(envRedisDB, cfg.Cache.Redis.DB)
	if err != nil {
		return err
	}
	cfg.Cache.Redis.DB = db
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, &Error{Field: key, Message: fmt.Sprintf("invalid integer %q", value)}
	}
	return n, nil
}

// Validate checks the database, log level and cache settings.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite3", "sqlite", "postgres":
	default:
		return &Error{Field: "database.driver", Message: fmt.Sprintf("unsupported driver %q", c.Database.Driver)}
	}
	if c.Database.Driver == "postgres" && c.Database.DSN == "" {
		return &Error{Field: "database.dsn", Message: "cannot be empty for postgres"}
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		return &Error{Field: "log_level", Message: err.Error()}
	}

	if c.Catalog.ItemTTL < 0 || c.Catalog.ListTTL < 0 || c.Catalog.PageTTL < 0 {
		return &Error{Field: "catalog", Message: "TTLs must be non-negative"}
	}

	return c.CacheConfig().Validate()
}

// CacheConfig converts the cache section for cache.NewStore.
func (c Config) CacheConfig() cache.Config {
	return cache.Config{
		Driver:           cache.Driver(c.Cache.Backend),
		OperationTimeout: time.Duration(c.Cache.OperationTimeout),
		Memory: cache.MemoryConfig{
			Capacity:           c.Cache.Memory.Capacity,
			NumShards:          c.Cache.Memory.NumShards,
			MaxTTL:             time.Duration(c.Cache.Memory.MaxTTL),
			EvictionPercentage: c.Cache.Memory.EvictionPercentage,
			EvictionInterval:   time.Duration(c.Cache.Memory.EvictionInterval),
		},
		Redis: cache.RedisConfig{
			Addr:         c.Cache.Redis.Addr,
			Username:     c.Cache.Redis.Username,
			Password:     c.Cache.Redis.Password,
			DB:           c.Cache.Redis.DB,
			DialTimeout:  time.Duration(c.Cache.Redis.DialTimeout),
			ReadTimeout:  time.Duration(c.Cache.Redis.ReadTimeout),
			WriteTimeout: time.Duration(c.Cache.Redis.WriteTimeout),
			MaxRetries:   c.Cache.Redis.MaxRetries,
			ScanCount:    c.Cache.Redis.ScanCount,
		},
	}
}

// CatalogOptions converts the catalog section. Logger and metrics are left
// for the caller.
func (c Config) CatalogOptions() catalog.Options {
	return catalog.Options{
		ItemTTL:   time.Duration(c.Catalog.ItemTTL),
		ListTTL:   time.Duration(c.Catalog.ListTTL),
		PageTTL:   time.Duration(c.Catalog.PageTTL),
		Namespace: c.Catalog.Namespace,
		HashKeys:  c.Catalog.HashKeys,
	}
}

// ParseLevel maps a level name (debug, info, warn, error) to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return 0, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}
