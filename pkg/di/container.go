package di

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-task-catalog/cache"
	"github.com/goliatone/go-task-catalog/catalog"
	"github.com/goliatone/go-task-catalog/internal/config"
	"github.com/goliatone/go-task-catalog/internal/metrics"
	"github.com/goliatone/go-task-catalog/internal/storage"
)

// Container wires the task catalog: database, cache store, metrics and the
// repository built on top of them. Every component is a singleton owned by
// the container and released by Close.
type Container struct {
	config     config.Config
	logger     *slog.Logger
	registerer prometheus.Registerer
	ensure     bool

	db         *bun.DB
	cacheStore cache.Store
	metrics    *metrics.Recorder
	repository *catalog.Repository
}

// Option customizes a Container.
type Option func(*Container)

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRegisterer registers the catalog metrics with reg. Without it the
// metrics are collected but not exported.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Container) {
		c.registerer = reg
	}
}

// WithSchema creates the tasks table on startup when it is missing.
func WithSchema() Option {
	return func(c *Container) {
		c.ensure = true
	}
}

// NewContainer builds every component described by cfg. On failure the
// components created so far are closed.
func NewContainer(ctx context.Context, cfg config.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		config: cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.init(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// NewContainerWithDefaults creates a container from the default
// configuration with the schema ensured.
func NewContainerWithDefaults(ctx context.Context, opts ...Option) (*Container, error) {
	return NewContainer(ctx, config.Default(), append([]Option{WithSchema()}, opts...)...)
}

func (c *Container) init(ctx context.Context) error {
	db, err := storage.Open(c.config.Database.Driver, c.config.Database.DSN)
	if err != nil {
		return err
	}
	c.db = db

	if c.ensure {
		if err := storage.EnsureSchema(ctx, db); err != nil {
			return err
		}
	}

	cacheStore, err := cache.NewStore(c.config.CacheConfig(), c.logger)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	c.cacheStore = cacheStore

	recorder, err := metrics.NewRecorder(c.registerer)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	c.metrics = recorder

	opts := c.config.CatalogOptions()
	opts.Logger = c.logger
	opts.Metrics = recorder
	c.repository = catalog.New(storage.NewStore(db), cacheStore, opts)

	c.logger.Debug("task catalog ready",
		"db_driver", c.config.Database.Driver,
		"cache_backend", c.config.Cache.Backend)
	return nil
}

// Repository returns the task repository.
func (c *Container) Repository() *catalog.Repository {
	return c.repository
}

// CacheStore returns the cache store used by the repository.
func (c *Container) CacheStore() cache.Store {
	return c.cacheStore
}

// DB returns the database handle.
func (c *Container) DB() *bun.DB {
	return c.db
}

// Metrics returns the metrics recorder.
func (c *Container) Metrics() *metrics.Recorder {
	return c.metrics
}

// Config returns a copy of the configuration used by this container.
func (c *Container) Config() config.Config {
	return c.config
}

// Close releases the cache store and the database.
func (c *Container) Close() error {
	var errs []error
	if c.cacheStore != nil {
		errs = append(errs, c.cacheStore.Close())
	}
	if c.db != nil {
		errs = append(errs, c.db.Close())
	}
	return errors.Join(errs...)
}
