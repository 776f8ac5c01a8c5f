package ttl

import (
	"fmt"
	"testing"

	"github.com/memkv/memkv/policy"
)

// --- test doubles (same shape as in the LFU tests) ---

type testNode struct {
	k    string
	hits uint64
	exp  int64
}

func (n *testNode) Key() string      { return n.k }
func (n *testNode) Hits() uint64     { return n.hits }
func (n *testNode) ExpiresAt() int64 { return n.exp }

type listHooks struct {
	nodes []policy.Node // index 0 is the oldest

	moveToFrontCnt int
}

func (h *listHooks) PushFront(n policy.Node) { h.nodes = append(h.nodes, n) }

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

// Victim picks the soonest-to-expire entry within the sample.
func TestTTL_Victim_SoonestDeadline(t *testing.T) {
	t.Parallel()

	h := &listHooks{}
	p := New().New(h)

	for i, exp := range []int64{500, 100, 900, 300} {
		p.OnAdd(&testNode{k: fmt.Sprintf("k%d", i), exp: exp})
	}

	v := p.Victim()
	if v == nil || v.Key() != "k1" {
		t.Fatalf("Victim must be k1 (deadline 100), got %v", v)
	}
}

// Ties go to the first sampled node.
func TestTTL_Victim_TieBreaksToFirstSeen(t *testing.T) {
	t.Parallel()

	h := &listHooks{}
	p := New().New(h)

	p.OnAdd(&testNode{k: "a", exp: 200})
	p.OnAdd(&testNode{k: "b", exp: 100})
	p.OnAdd(&testNode{k: "c", exp: 100})

	if v := p.Victim(); v == nil || v.Key() != "b" {
		t.Fatalf("tie must resolve to the first seen (b), got %v", v)
	}
}

// The sample is bounded: an earlier deadline beyond the sampled prefix is
// never considered.
func TestTTL_Victim_SamplingIsBounded(t *testing.T) {
	t.Parallel()

	h := &listHooks{}
	p := New().New(h)

	for i := 0; i < policy.SampleSize; i++ {
		p.OnAdd(&testNode{k: fmt.Sprintf("k%d", i), exp: int64(1000 + i)})
	}
	p.OnAdd(&testNode{k: "dying", exp: 1})

	v := p.Victim()
	if v == nil || v.Key() != "k0" {
		t.Fatalf("Victim must come from the sampled prefix (k0), got %v", v)
	}
}

// Reads must not reorder the list; overwrites must.
func TestTTL_GetDoesNotPromote_UpdateDoes(t *testing.T) {
	t.Parallel()

	h := &listHooks{}
	p := New().New(h)

	a := &testNode{k: "a", exp: 100}
	p.OnAdd(a)

	p.OnGet(a)
	if h.moveToFrontCnt != 0 {
		t.Fatalf("OnGet must not call MoveToFront for TTL")
	}

	p.OnUpdate(a)
	if h.moveToFrontCnt != 1 {
		t.Fatalf("OnUpdate must call MoveToFront once")
	}
}
