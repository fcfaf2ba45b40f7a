package catalog

import (
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/goliatone/go-task-catalog/cache"
	"github.com/goliatone/go-task-catalog/task"
)

// DefaultNamespace prefixes every key built by a KeyBuilder.
const DefaultNamespace = "tasks"

// KeyBuilder derives cache keys for single tasks and for collections.
//
// Layout, for the default namespace:
//
//	tasks:item:<id>
//	tasks:collection:list::<filter>
//	tasks:collection:page::<filter>
//
// Item keys never share a prefix with collection keys, so dropping the
// collection scope leaves items alone.
type KeyBuilder struct {
	namespace  string
	hashKeys   bool
	serializer cache.KeySerializer
}

// NewKeyBuilder returns a KeyBuilder for namespace. With hashKeys set the
// filter part of collection keys is replaced by its xxhash digest.
func NewKeyBuilder(namespace string, hashKeys bool) KeyBuilder {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return KeyBuilder{
		namespace:  namespace,
		hashKeys:   hashKeys,
		serializer: cache.NewDefaultKeySerializer(),
	}
}

// ItemKey returns the key of a single task.
func (b KeyBuilder) ItemKey(id int64) string {
	return b.namespace + ":item:" + strconv.FormatInt(id, 10)
}

// CollectionScope returns the prefix shared by every list and page key.
func (b KeyBuilder) CollectionScope() string {
	return b.namespace + ":collection:"
}

// ListKey returns the key of the collection described by f. Paginated and
// unpaginated filters live under different sub scopes.
func (b KeyBuilder) ListKey(f task.Filter) string {
	scope := b.CollectionScope() + "list"
	if f.Paginated() {
		scope = b.CollectionScope() + "page"
	}

	fields := filterFields(f)
	if !b.hashKeys {
		return b.serializer.SerializeKey(scope, fields)
	}

	canonical := b.serializer.SerializeKey("", fields)
	return scope + cache.KeySeparator + strconv.FormatUint(xxhash.Sum64String(canonical), 16)
}

// filterFields lists only the fields a filter actually sets, so an unset
// field and a field set to its zero value never collide.
func filterFields(f task.Filter) map[string]any {
	fields := make(map[string]any, 6)
	if s, ok := f.Status(); ok {
		fields["status"] = string(s)
	}
	if p, ok := f.Priority(); ok {
		fields["priority"] = string(p)
	}
	if from, ok := f.CreatedFrom(); ok {
		fields["createdFrom"] = from
	}
	if to, ok := f.CreatedTo(); ok {
		fields["createdTo"] = to
	}
	if f.Paginated() {
		fields["page"] = f.Page()
		fields["limit"] = f.Limit()
	}
	return fields
}
