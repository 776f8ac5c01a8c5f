package lru

import (
	"testing"

	"github.com/memkv/memkv/policy"
)

// --- test doubles ---

type testNode struct {
	k    string
	hits uint64
	exp  int64
}

func (n *testNode) Key() string      { return n.k }
func (n *testNode) Hits() uint64     { return n.hits }
func (n *testNode) ExpiresAt() int64 { return n.exp }

type mockHooks struct {
	pushFrontCnt   int
	moveToFrontCnt int
	scanCnt        int

	lastPush policy.Node
	lastMove policy.Node

	lenVal  int
	backVal policy.Node
}

func (h *mockHooks) PushFront(n policy.Node)   { h.pushFrontCnt++; h.lastPush = n }
func (h *mockHooks) MoveToFront(n policy.Node) { h.moveToFrontCnt++; h.lastMove = n }
func (h *mockHooks) Back() policy.Node         { return h.backVal }
func (h *mockHooks) Len() int                  { return h.lenVal }
func (h *mockHooks) ScanOldest(int, func(policy.Node) bool) {
	h.scanCnt++
}

// --- tests ---

// OnAdd should push the node to the newest position.
func TestLRU_OnAdd_PushFront(t *testing.T) {
	t.Parallel()

	h := &mockHooks{}
	p := New().New(h)

	n := &testNode{k: "k1"}
	p.OnAdd(n)

	if h.pushFrontCnt != 1 || h.lastPush != policy.Node(n) {
		t.Fatalf("OnAdd must call PushFront exactly once with the node")
	}
	if h.moveToFrontCnt != 0 {
		t.Fatalf("OnAdd must not call MoveToFront")
	}
}

// OnGet should promote the node.
func TestLRU_OnGet_MoveToFront(t *testing.T) {
	t.Parallel()

	h := &mockHooks{}
	p := New().New(h)

	n := &testNode{k: "k2"}
	p.OnGet(n)

	if h.moveToFrontCnt != 1 || h.lastMove != policy.Node(n) {
		t.Fatalf("OnGet must call MoveToFront exactly once with the node")
	}
	if h.pushFrontCnt != 0 {
		t.Fatalf("OnGet must not call PushFront")
	}
}

// OnUpdate should promote the node (overwrites count as recent use).
func TestLRU_OnUpdate_MoveToFront(t *testing.T) {
	t.Parallel()

	h := &mockHooks{}
	p := New().New(h)

	n := &testNode{k: "k3"}
	p.OnUpdate(n)

	if h.moveToFrontCnt != 1 || h.lastMove != policy.Node(n) {
		t.Fatalf("OnUpdate must call MoveToFront exactly once with the node")
	}
}

// OnRemove is a no-op for pure LRU.
func TestLRU_OnRemove_NoOp(t *testing.T) {
	t.Parallel()

	h := &mockHooks{}
	p := New().New(h)

	p.OnRemove(&testNode{k: "k4"})

	if h.pushFrontCnt != 0 || h.moveToFrontCnt != 0 {
		t.Fatalf("OnRemove for LRU must not touch the list")
	}
}

// Victim is always the oldest node; LRU never needs to sample.
func TestLRU_Victim_IsBack(t *testing.T) {
	t.Parallel()

	oldest := &testNode{k: "old"}
	h := &mockHooks{backVal: oldest}
	p := New().New(h)

	if got := p.Victim(); got != policy.Node(oldest) {
		t.Fatalf("Victim must return Back(), got %v", got)
	}
	if h.scanCnt != 0 {
		t.Fatalf("LRU must not scan for a victim")
	}
}

// An empty store yields no victim.
func TestLRU_Victim_EmptyIsNil(t *testing.T) {
	t.Parallel()

	p := New().New(&mockHooks{})
	if got := p.Victim(); got != nil {
		t.Fatalf("Victim on empty store must be nil, got %v", got)
	}
}
