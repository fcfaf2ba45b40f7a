// Package cache provides the cache store used by the task catalog, together
// with value encoding and stable key serialization.
//
// # Overview
//
// The package exports three building blocks:
//
//   - Store: a key/value cache whose operations never fail from the caller's
//     point of view. Misses, a disabled cache and an unreachable backend all
//     look the same.
//   - Codec: encodes values stored under a key. GetValue and SetValue are the
//     typed helpers built on top of it.
//   - KeySerializer: builds deterministic keys from a scope and arguments.
//
// # Building a Store
//
// Most callers build a Store from configuration:
//
//	cfg := cache.DefaultConfig()
//	cfg.Driver = cache.DriverRedis
//	cfg.Redis.Addr = "localhost:6379"
//
//	store, err := cache.NewStore(cfg, logger)
//	if err != nil {
//		return err // invalid configuration only
//	}
//	defer store.Close()
//
// NewStore only fails on invalid configuration. A Redis server that is down
// at startup is logged and the store keeps running, degrading every read to
// a miss until the server recovers.
//
// Custom transports implement Backend and are wrapped with New:
//
//	store := cache.New(myBackend, cache.WithLogger(logger), cache.WithOperationTimeout(100*time.Millisecond))
//
// # Failure Handling
//
// The Store returned by New swallows backend errors. Each one is logged at
// WARN with the operation and key, then reported to the caller as a miss
// (Get) or as false (Set, Delete, DeleteByPrefix). Source-of-truth reads
// therefore never depend on the cache being healthy.
//
// # Prefix Invalidation
//
// DeleteByPrefix removes every entry whose key starts with the prefix.
// Backends implementing PrefixDeleter do this natively (Redis uses SCAN with
// the prefix escaped for glob matching). For other backends the Store tracks
// every key it writes and deletes matching keys from that registry. Tracked
// keys are dropped once their TTL has passed, so the registry only grows with
// the number of entries that can still be live.
//
// # Values
//
// The default Codec is msgpack. Struct fields are named after their json
// tags, so types shared with the JSON surface need no second set of tags.
// Entries that fail to decode are deleted and treated as a miss:
//
//	info, ok := cache.GetValue[task.Info](ctx, store, codec, key)
//	if !ok {
//		info = loadFromStore()
//		cache.SetValue(ctx, store, codec, key, info, 10*time.Minute)
//	}
//
// # Key Serialization
//
// The default serializer walks arguments with reflection:
//
//   - Basic types: direct string representation
//   - time.Time: RFC 3339 in UTC
//   - fmt.Stringer: the String result
//   - Slices and arrays: recursive, with their length
//   - Maps: entries sorted by serialized key
//   - Structs: exported fields as name:value pairs
//   - Anything else: JSON, or the type name if JSON fails
//
// Two maps with the same entries always yield the same key regardless of
// insertion order, which is what makes filter maps usable as cache keys.
package cache
