// Package ratelimit implements fixed-window request counting with a
// pluggable store.
//
// The Limiter is handed a Store at construction time rather than reading
// ambient global state, so deployments can swap the in-process MemoryStore
// for the Redis-backed RedisStore without touching call sites. Per-instance
// quotas with MemoryStore are an accepted approximation for single-node
// deployments; RedisStore shares one counter across instances.
package ratelimit
