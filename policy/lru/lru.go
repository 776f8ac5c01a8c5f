// Package lru implements the least-recently-used eviction policy.
package lru

import "github.com/memkv/memkv/policy"

// lru is a classic "move-to-front" Least-Recently-Used policy. Reads and
// overwrites promote the entry; the victim is always the oldest node.
// List manipulation is delegated to the policy.Hooks the store provides.
type lru struct {
	h policy.Hooks
}

type factory struct{}

// New returns a Policy factory that constructs store-local LRU instances.
func New() policy.Policy { return factory{} }

// New implements policy.Policy by binding store hooks and returning a
// store-local policy instance.
func (factory) New(h policy.Hooks) policy.StorePolicy { return &lru{h: h} }

// OnAdd places the new entry at the newest position.
func (p *lru) OnAdd(n policy.Node) { p.h.PushFront(n) }

// OnGet promotes the entry; recency is exactly what LRU orders by.
func (p *lru) OnGet(n policy.Node) { p.h.MoveToFront(n) }

// OnUpdate promotes the entry (overwrites count as recent use).
func (p *lru) OnUpdate(n policy.Node) { p.h.MoveToFront(n) }

// OnRemove is a no-op for pure LRU (no policy state to clean up).
func (p *lru) OnRemove(policy.Node) {}

// Victim is the oldest node, in O(1).
func (p *lru) Victim() policy.Node { return p.h.Back() }
