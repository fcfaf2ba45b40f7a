// Package catalog serves the task collection: a read-through, write-invalidate
// repository over a relational Store and an optional cache.
//
// # Reads
//
// List and GetByID look up the cache first. On a miss they query the Store,
// project the rows with task.Task.Describe and populate the cache with the
// TTL of the entry type:
//
//   - single tasks: Options.ItemTTL
//   - unpaginated lists: Options.ListTTL
//   - pages: Options.PageTTL
//
// Lookups that find nothing are never cached.
//
// # Writes
//
// Create, Update and Delete write to the Store first. Once the write is
// acknowledged they delete the affected item key and every key under the
// collection scope, then report success. Cache entries are never updated in
// place; the next read repopulates them.
//
// # Keys
//
// KeyBuilder derives keys from the semantic content of a filter. Two filters
// with the same status, priority, day bounds, page and limit share a key
// regardless of how they were built. List and page entries are independent
// and may briefly disagree, but both live under the collection scope so any
// write clears both.
//
// # Failure Handling
//
// Cache failures never surface: the cache.Store contract turns them into
// misses. Store failures are returned as *StoreError after being counted and
// logged; the repository does not retry.
//
// # Staleness
//
// A read that misses, queries the Store and then writes the cache can race
// with a concurrent write that invalidates in between. The reader then
// caches rows from before the write, and they stay visible until their TTL
// expires. Staleness is bounded by the TTLs above and no locking is used
// to prevent it.
package catalog
