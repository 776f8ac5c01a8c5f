package cache

import (
	"context"
	"time"

	"github.com/memkv/memkv/value"
)

// Item is one element of a SetMany batch. A zero TTL means "use the
// configured default"; a negative TTL fails that element.
type Item struct {
	Key   string
	Value value.Value
	TTL   time.Duration
}

// Cache is an in-process key-value store with Redis-like semantics:
// TTL expiry, memory-budget eviction, statistics, and a start/stop
// lifecycle. All methods are safe for concurrent use by multiple
// goroutines.
//
// The contract is total: no method panics. Misses are ErrNotFound, a
// stopped engine answers ErrStopped, and recovered internal faults
// surface as ErrInternal; match with errors.Is.
type Cache interface {
	// Configure merges runtime options into the live settings. Each option
	// validates itself and silently keeps the previous value on bad input,
	// so Configure succeeds even when individual fields are rejected.
	// Works regardless of lifecycle state.
	Configure(opts ...Option) error

	// Set inserts or overwrites key with the configured default TTL.
	// An overwrite resets the entry's hit count and makes it newest.
	Set(key string, v value.Value) error

	// SetWithTTL inserts or overwrites key with a per-key TTL, floored to
	// whole seconds. A negative ttl returns ErrInvalidTTL without
	// mutation; a zero ttl produces an entry that is already past due.
	SetWithTTL(key string, v value.Value, ttl time.Duration) error

	// Add inserts key only if it holds no live entry, using the default
	// TTL. Returns ErrExists when a live entry is present; an expired
	// leftover does not block the insert.
	Add(key string, v value.Value) error

	// Get returns the value for key. An expired entry is reported as
	// ErrNotFound and flagged for the reaper. On hit the entry's and the
	// cache's hit counters grow; whether recency is promoted is up to the
	// active eviction policy.
	Get(key string) (value.Value, error)

	// Fetch returns the value for key, loading it on miss via the given
	// loader (or the configured one; ErrNoLoader when neither is set) and
	// storing the result with the default TTL. Concurrent fetches of the
	// same key share one loader call.
	Fetch(ctx context.Context, key string, loader LoaderFunc) (value.Value, error)

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error

	// Touch re-arms the TTL of a live entry without touching its hit
	// count or recency. ErrNotFound for absent or expired entries.
	Touch(key string, ttl time.Duration) error

	// ItemStats reports the expiry deadline, the seconds remaining, and
	// the hit count of a live entry. Reading stats is not a hit.
	ItemStats(key string) (ItemStats, error)

	// SetMany applies Set (zero TTL) or SetWithTTL per element and
	// returns a parallel slice of per-element success flags. Fails
	// wholesale only when the engine is stopped.
	SetMany(items []Item) ([]bool, error)

	// GetMany resolves every requested key; missing or expired keys map
	// to the Nil value rather than being omitted.
	GetMany(keys []string) (map[string]value.Value, error)

	// DeleteMany removes the given keys. Aggregate result; absent keys do
	// not fail it.
	DeleteMany(keys []string) error

	// FlushAll discards every entry and zeroes the usage, eviction, and
	// hit counters. Settings and lifecycle state survive.
	FlushAll() error

	// Stats assembles a point-in-time report. A nil opt selects keys and
	// totals but not the size section. Stats answers while stopped and
	// never recomputes sizes; it reads the maintained counters.
	Stats(opt *StatsOptions) Snapshot

	// Len returns the resident entry count, expired-but-unreaped entries
	// included.
	Len() int

	// Start resumes a stopped cache. The store comes back empty; data
	// does not survive a stop. ErrAlreadyRunning on a running engine,
	// ErrTooManyFaults once the consecutive fault limit was exceeded.
	Start() error

	// Stop cancels the background work, runs one final reap, clears the
	// store, and marks the engine stopped. Idempotent; always nil.
	Stop() error
}
