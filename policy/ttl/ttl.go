// Package ttl implements a sampled soonest-to-expire eviction policy.
package ttl

import "github.com/memkv/memkv/policy"

// ttl picks victims by expiry deadline: among a bounded sample of the
// oldest entries, the one closest to expiring goes first.
type ttl struct {
	h policy.Hooks
}

type factory struct{}

// New returns a Policy factory that constructs store-local
// soonest-to-expire instances.
func New() policy.Policy { return factory{} }

func (factory) New(h policy.Hooks) policy.StorePolicy { return &ttl{h: h} }

// OnAdd places the new entry at the newest position.
func (p *ttl) OnAdd(n policy.Node) { p.h.PushFront(n) }

// OnGet is a no-op: reads do not change when an entry expires.
func (p *ttl) OnGet(policy.Node) {}

// OnUpdate promotes the entry (an overwrite re-arms its deadline).
func (p *ttl) OnUpdate(n policy.Node) { p.h.MoveToFront(n) }

// OnRemove is a no-op.
func (p *ttl) OnRemove(policy.Node) {}

// Victim samples up to policy.SampleSize of the oldest entries and
// returns the one with the earliest expiry deadline, ties going to the
// first seen. Falls back to the plain oldest entry when the sample is
// empty.
func (p *ttl) Victim() policy.Node {
	var victim policy.Node
	p.h.ScanOldest(policy.SampleSize, func(n policy.Node) bool {
		if victim == nil || n.ExpiresAt() < victim.ExpiresAt() {
			victim = n
		}
		return true
	})
	if victim == nil {
		return p.h.Back()
	}
	return victim
}
