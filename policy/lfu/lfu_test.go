package lfu

import (
	"fmt"
	"testing"

	"github.com/memkv/memkv/policy"
)

// --- test doubles (same shape as in the LRU tests) ---

type testNode struct {
	k    string
	hits uint64
	exp  int64
}

func (n *testNode) Key() string      { return n.k }
func (n *testNode) Hits() uint64     { return n.hits }
func (n *testNode) ExpiresAt() int64 { return n.exp }

// listHooks keeps nodes in a slice ordered oldest-first so ScanOldest has
// a real walk to perform.
type listHooks struct {
	nodes []policy.Node // index 0 is the oldest

	pushFrontCnt   int
	moveToFrontCnt int
}

func (h *listHooks) PushFront(n policy.Node) {
	h.pushFrontCnt++
	h.nodes = append(h.nodes, n)
}

func (h *listHooks) MoveToFront(n policy.Node) {
	h.moveToFrontCnt++
	for i, x := range h.nodes {
		if x == n {
			h.nodes = append(h.nodes[:i], h.nodes[i+1:]...)
			h.nodes = append(h.nodes, n)
			return
		}
	}
}

func (h *listHooks) Back() policy.Node {
	if len(h.nodes) == 0 {
		return nil
	}
	return h.nodes[0]
}

func (h *listHooks) Len() int { return len(h.nodes) }

func (h *listHooks) ScanOldest(max int, fn func(policy.Node) bool) {
	for i := 0; i < len(h.nodes) && i < max; i++ {
		if !fn(h.nodes[i]) {
			return
		}
	}
}

// --- tests ---

// Victim picks the lowest hit count within the sample.
func TestLFU_Victim_LowestHits(t *testing.T) {
	t.Parallel()

	h := &listHooks{}
	p := New().New(h)

	for i, hits := range []uint64{5, 2, 9, 7} {
		p.OnAdd(&testNode{k: fmt.Sprintf("k%d", i), hits: hits})
	}

	v := p.Victim()
	if v == nil || v.Key() != "k1" {
		t.Fatalf("Victim must be k1 (2 hits), got %v", v)
	}
}

// Ties go to the first sampled node, which is the oldest of the tied set.
func TestLFU_Victim_TieBreaksToFirstSeen(t *testing.T) {
	t.Parallel()

	h := &listHooks{}
	p := New().New(h)

	p.OnAdd(&testNode{k: "a", hits: 3})
	p.OnAdd(&testNode{k: "b", hits: 1})
	p.OnAdd(&testNode{k: "c", hits: 1})

	if v := p.Victim(); v == nil || v.Key() != "b" {
		t.Fatalf("tie must resolve to the first seen (b), got %v", v)
	}
}

// The sample is bounded: a colder entry beyond the first SampleSize nodes
// is never considered.
func TestLFU_Victim_SamplingIsBounded(t *testing.T) {
	t.Parallel()

	h := &listHooks{}
	p := New().New(h)

	for i := 0; i < policy.SampleSize; i++ {
		p.OnAdd(&testNode{k: fmt.Sprintf("k%d", i), hits: uint64(10 + i)})
	}
	// Colder than everything above, but outside the sampled prefix.
	p.OnAdd(&testNode{k: "cold", hits: 0})

	v := p.Victim()
	if v == nil || v.Key() != "k0" {
		t.Fatalf("Victim must come from the sampled prefix (k0), got %v", v)
	}
}

// An empty store yields no victim.
func TestLFU_Victim_EmptyIsNil(t *testing.T) {
	t.Parallel()

	p := New().New(&listHooks{})
	if v := p.Victim(); v != nil {
		t.Fatalf("Victim on empty store must be nil, got %v", v)
	}
}

// Reads must not reorder the list; overwrites must.
func TestLFU_GetDoesNotPromote_UpdateDoes(t *testing.T) {
	t.Parallel()

	h := &listHooks{}
	p := New().New(h)

	a := &testNode{k: "a"}
	p.OnAdd(a)

	p.OnGet(a)
	if h.moveToFrontCnt != 0 {
		t.Fatalf("OnGet must not call MoveToFront for LFU")
	}

	p.OnUpdate(a)
	if h.moveToFrontCnt != 1 {
		t.Fatalf("OnUpdate must call MoveToFront once")
	}
}
