// Package policy defines the pluggable eviction strategy contract used by
// the cache engine, plus the sampling bound shared by its implementations.
package policy

// SampleSize bounds how many of the oldest entries a sampling policy
// (lfu, ttl) examines when choosing a victim. The victim is the minimum
// of the sample, not of the whole store.
const SampleSize = 20

// Node is the read-only view of a cache entry a policy may inspect.
type Node interface {
	Key() string
	// Hits is the read count since the entry was last written.
	Hits() uint64
	// ExpiresAt is the absolute expiry deadline in epoch seconds.
	ExpiresAt() int64
}

// Hooks expose O(1) operations on the store's recency list plus a bounded
// oldest-first walk. Implementations are provided by the store.
//
// Concurrency: all hook calls happen under the store lock.
type Hooks interface {
	// PushFront inserts the node at the newest position (admission).
	PushFront(Node)
	// MoveToFront promotes the node to the newest position.
	MoveToFront(Node)
	// Back returns the oldest node, or nil when the store is empty.
	Back() Node
	// Len returns the number of resident nodes.
	Len() int
	// ScanOldest visits up to max nodes starting from the oldest.
	// The walk stops early when fn returns false.
	ScanOldest(max int, fn func(Node) bool)
}

// StorePolicy is a policy instance bound to one store's hooks.
// All methods are invoked under the store lock.
//
// Semantics:
//   - OnAdd places a newly admitted node (typically at the newest position).
//   - OnGet reacts to a successful read; whether that promotes the node
//     is policy-specific (LRU promotes, sampling policies do not).
//   - OnUpdate reacts to an overwrite; an overwritten entry always counts
//     as fresh.
//   - OnRemove is a notification that the store dropped the node; the
//     store performs the actual deletion.
//   - Victim selects the next entry to evict under memory pressure.
type StorePolicy interface {
	OnAdd(Node)
	OnGet(Node)
	OnUpdate(Node)
	OnRemove(Node)
	// Victim returns nil only when the store is empty.
	Victim() Node
}

// Policy is a factory that creates store-local policy instances bound to
// a particular store's hooks. Factories are stateless, so the engine can
// swap policies on a live store.
type Policy interface {
	New(Hooks) StorePolicy
}
