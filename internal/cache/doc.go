// Package cache provides the recency caches used by the synchronization
// bridge: a bounded parse cache keyed by normalized text with
// least-recently-used eviction, and a serialize memo keyed by tree
// identity with explicit retirement.
//
// Both caches are single-writer by design. The bridge owns them and the
// engine's concurrency model serializes all access, so there is no
// internal locking.
package cache
