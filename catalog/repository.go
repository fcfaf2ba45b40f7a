package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/goliatone/go-task-catalog/cache"
	"github.com/goliatone/go-task-catalog/task"
)

// Options configures a Repository. Zero values fall back to the defaults.
type Options struct {
	ItemTTL time.Duration
	ListTTL time.Duration
	PageTTL time.Duration

	Namespace string
	HashKeys  bool

	Codec   cache.Codec
	Logger  *slog.Logger
	Metrics Metrics
}

// DefaultOptions returns the default TTL policy.
func DefaultOptions() Options {
	return Options{
		ItemTTL:   10 * time.Minute,
		ListTTL:   5 * time.Minute,
		PageTTL:   2 * time.Minute,
		Namespace: DefaultNamespace,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.ItemTTL <= 0 {
		o.ItemTTL = def.ItemTTL
	}
	if o.ListTTL <= 0 {
		o.ListTTL = def.ListTTL
	}
	if o.PageTTL <= 0 {
		o.PageTTL = def.PageTTL
	}
	if o.Namespace == "" {
		o.Namespace = def.Namespace
	}
	if o.Codec == nil {
		o.Codec = cache.NewMsgpackCodec()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Metrics == nil {
		o.Metrics = noopMetrics{}
	}
	return o
}

// Repository serves tasks from the store through a read-through cache and
// invalidates affected entries on every write.
type Repository struct {
	store   Store
	cache   cache.Store
	keys    KeyBuilder
	codec   cache.Codec
	opts    Options
	logger  *slog.Logger
	metrics Metrics
}

// New builds a Repository. A nil cacheStore disables caching.
func New(store Store, cacheStore cache.Store, opts Options) *Repository {
	if cacheStore == nil {
		cacheStore = cache.NullStore{}
	}
	opts = opts.withDefaults()

	return &Repository{
		store:   store,
		cache:   cacheStore,
		keys:    NewKeyBuilder(opts.Namespace, opts.HashKeys),
		codec:   opts.Codec,
		opts:    opts,
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}
}

// Keys returns the key builder used by the repository.
func (r *Repository) Keys() KeyBuilder {
	return r.keys
}

// List returns the tasks matching f, newest first. Filters with a page
// return that page together with its pagination metadata.
func (r *Repository) List(ctx context.Context, f task.Filter) (task.ListResult, error) {
	key := r.keys.ListKey(f)
	entry, ttl := EntryList, r.opts.ListTTL
	if f.Paginated() {
		entry, ttl = EntryPage, r.opts.PageTTL
	}

	if cached, ok := cache.GetValue[task.ListResult](ctx, r.cache, r.codec, key); ok {
		r.hit(entry, key)
		return cached, nil
	}
	r.miss(entry, key)

	q := Query{Predicate: PredicateFor(f), Order: OrderNewestFirst}
	result := task.ListResult{}

	if f.Paginated() {
		total, err := r.store.Count(ctx, q.Predicate)
		if err != nil {
			return task.ListResult{}, r.storeFailure("count", err)
		}
		pagination := task.NewPagination(f.Page(), f.Limit(), total)
		result.Pagination = &pagination
		q.Offset = f.Offset()
		q.Limit = f.Limit()
	}

	rows, err := r.store.Find(ctx, q)
	if err != nil {
		return task.ListResult{}, r.storeFailure("find", err)
	}

	result.Tasks = make([]task.Info, 0, len(rows))
	for _, row := range rows {
		result.Tasks = append(result.Tasks, row.Describe())
	}

	cache.SetValue(ctx, r.cache, r.codec, key, result, ttl)
	return result, nil
}

// GetByID returns a single task. Missing tasks yield a NotFoundError and are
// never cached.
func (r *Repository) GetByID(ctx context.Context, id int64) (task.Info, error) {
	key := r.keys.ItemKey(id)

	if cached, ok := cache.GetValue[task.Info](ctx, r.cache, r.codec, key); ok {
		r.hit(EntryItem, key)
		return cached, nil
	}
	r.miss(EntryItem, key)

	t, found, err := r.store.FindByID(ctx, id)
	if err != nil {
		return task.Info{}, r.storeFailure("find_by_id", err)
	}
	if !found {
		return task.Info{}, &NotFoundError{ID: id}
	}

	info := t.Describe()
	cache.SetValue(ctx, r.cache, r.codec, key, info, r.opts.ItemTTL)
	return info, nil
}

// Create validates and persists a new task, drops every cached collection
// and returns the stored task.
func (r *Repository) Create(ctx context.Context, data task.CreateTaskData) (task.Info, error) {
	t, err := task.New(data)
	if err != nil {
		return task.Info{}, err
	}

	created, err := r.store.Create(ctx, t)
	if err != nil {
		return task.Info{}, r.storeFailure("create", err)
	}

	r.invalidateCollection(ctx)
	r.logger.Info("task created", "id", created.ID, "kind", created.Kind())

	return r.GetByID(ctx, created.ID)
}

// Update applies a partial update. Absent fields are left untouched and
// explicit nulls clear nullable fields.
func (r *Repository) Update(ctx context.Context, id int64, data task.UpdateTaskData) (task.Info, error) {
	if err := data.Validate(); err != nil {
		return task.Info{}, err
	}

	current, found, err := r.store.FindByID(ctx, id)
	if err != nil {
		return task.Info{}, r.storeFailure("find_by_id", err)
	}
	if !found {
		return task.Info{}, &NotFoundError{ID: id}
	}

	if data.Empty() {
		return r.GetByID(ctx, id)
	}

	next, err := data.Apply(current)
	if err != nil {
		return task.Info{}, err
	}

	if _, err := r.store.Save(ctx, next); err != nil {
		return task.Info{}, r.storeFailure("save", err)
	}

	r.invalidateItem(ctx, id)
	r.invalidateCollection(ctx)
	r.logger.Info("task updated", "id", id)

	return r.GetByID(ctx, id)
}

// Delete removes a task and every cache entry that may contain it.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	_, found, err := r.store.FindByID(ctx, id)
	if err != nil {
		return r.storeFailure("find_by_id", err)
	}
	if !found {
		return &NotFoundError{ID: id}
	}

	if err := r.store.Destroy(ctx, id); err != nil {
		return r.storeFailure("destroy", err)
	}

	r.invalidateItem(ctx, id)
	r.invalidateCollection(ctx)
	r.logger.Info("task deleted", "id", id)

	return nil
}

func (r *Repository) invalidateItem(ctx context.Context, id int64) {
	key := r.keys.ItemKey(id)
	r.cache.Delete(ctx, key)
	r.metrics.Invalidated(ScopeItem)
	r.logger.Debug("cache invalidated", "scope", ScopeItem, "key", key)
}

func (r *Repository) invalidateCollection(ctx context.Context) {
	prefix := r.keys.CollectionScope()
	r.cache.DeleteByPrefix(ctx, prefix)
	r.metrics.Invalidated(ScopeCollection)
	r.logger.Debug("cache invalidated", "scope", ScopeCollection, "prefix", prefix)
}

func (r *Repository) hit(entry, key string) {
	r.metrics.CacheHit(entry)
	r.logger.Debug("cache hit", "entry", entry, "key", key)
}

func (r *Repository) miss(entry, key string) {
	r.metrics.CacheMiss(entry)
	r.logger.Debug("cache miss", "entry", entry, "key", key)
}

func (r *Repository) storeFailure(op string, err error) error {
	r.metrics.StoreFailed(op)
	r.logger.Error("task store call failed", "op", op, "error", err)
	return storeError(op, err)
}
