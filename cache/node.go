package cache

import "github.com/memkv/memkv/value"

// node is an intrusive doubly linked list element owned by the store.
// It holds the entry payload alongside list links and the metadata the
// eviction policies and the reaper consult.
type node struct {
	key string
	val value.Value

	// Intrusive list links: head is newest, tail is oldest.
	prev *node
	next *node

	// Absolute expiry deadline in epoch seconds. An entry is dead once
	// expiresAt <= now.
	expiresAt int64

	// Reads since the last write. Reset to zero on overwrite.
	hits uint64

	// Last size estimate in bytes, counted into the store total.
	size int64

	// Write generation, drawn from the store-global counter. A deferred
	// size refinement carries the seq it was scheduled under and is
	// dropped when the entry was rewritten or reinserted since.
	seq uint64
}

// Key returns the entry key (part of policy.Node).
func (n *node) Key() string { return n.key }

// Hits returns the read count since the last write (part of policy.Node).
func (n *node) Hits() uint64 { return n.hits }

// ExpiresAt returns the expiry deadline in epoch seconds (part of policy.Node).
func (n *node) ExpiresAt() int64 { return n.expiresAt }
