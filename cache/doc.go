// Package cache implements the read-through cache sitting in front of
// shard files: an ordered list of cached bin indices plus a snapshot map,
// with a deliberately non-LRU policy — Get promotes an entry exactly one
// position toward the head, Put inserts new entries at the middle index
// and evicts from the tail when over capacity. This trades recency
// fidelity for O(1) updates and must not be "corrected" into a real LRU.
//
// A background Refresher periodically reloads every cached bin's contents
// through an injected loader and rewrites the on-disk sidecar; it is
// mutually exclusive with itself via an atomic.Bool compare-and-swap so a
// slow refresh cycle is skipped rather than overlapped.
package cache
