// Package lfu implements a sampled least-frequently-used eviction policy.
package lfu

import "github.com/memkv/memkv/policy"

// lfu approximates Least-Frequently-Used selection by sampling a bounded
// prefix of the oldest entries and evicting the lowest hit count among
// them. Reads do not reorder the list: frequency lives in the per-entry
// hit count, and keeping insertion/overwrite order makes the sample lean
// toward long-resident entries.
type lfu struct {
	h policy.Hooks
}

type factory struct{}

// New returns a Policy factory that constructs store-local sampled-LFU
// instances.
func New() policy.Policy { return factory{} }

func (factory) New(h policy.Hooks) policy.StorePolicy { return &lfu{h: h} }

// OnAdd places the new entry at the newest position.
func (p *lfu) OnAdd(n policy.Node) { p.h.PushFront(n) }

// OnGet is a no-op: the hit count already captures frequency.
func (p *lfu) OnGet(policy.Node) {}

// OnUpdate promotes the entry (an overwrite makes it the newest).
func (p *lfu) OnUpdate(n policy.Node) { p.h.MoveToFront(n) }

// OnRemove is a no-op.
func (p *lfu) OnRemove(policy.Node) {}

// Victim samples up to policy.SampleSize of the oldest entries and
// returns the one with the fewest hits, ties going to the first seen.
// Falls back to the plain oldest entry when the sample is empty.
func (p *lfu) Victim() policy.Node {
	var victim policy.Node
	p.h.ScanOldest(policy.SampleSize, func(n policy.Node) bool {
		if victim == nil || n.Hits() < victim.Hits() {
			victim = n
		}
		return true
	})
	if victim == nil {
		return p.h.Back()
	}
	return victim
}
