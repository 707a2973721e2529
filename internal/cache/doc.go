// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

/*
Package cache provides a thread-safe, TTL-based in-memory cache.

It backs the embedding service's hot tier (internal/embedding): one
entry per distinct caption text, value the L2-normalized vector. A long
TTL (24h) means entries effectively live for the process lifetime
(spec.md §4.2), with expiration only as a safety valve for an
exceptionally long-lived serve-mode process.

# Usage

	c := cache.New(24 * time.Hour)
	c.Set("caption text", vec)
	if v, ok := c.Get("caption text"); ok {
	    vec := v.([]float32)
	}
	c.Clear() // e.g. on an operator-triggered cache reset

# Thread Safety

Get acquires a read lock; Set, Delete, and Clear acquire a write lock.
Expiration is checked lazily on Get, with a background goroutine
sweeping expired entries periodically.

# Limitations

No size limit and no LRU eviction — acceptable given the cache's key
space is bounded by distinct captions seen across bounded-size analyze
batches, not an unbounded request stream.
*/
package cache
