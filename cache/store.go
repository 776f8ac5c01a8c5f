package cache

import (
	"log/slog"
	"sync"
	"time"

	"github.com/memkv/memkv/internal/util"
	"github.com/memkv/memkv/policy"
	"github.com/memkv/memkv/policy/lfu"
	"github.com/memkv/memkv/policy/lru"
	"github.com/memkv/memkv/policy/ttl"
	"github.com/memkv/memkv/value"
)

const (
	// evictionLoopCap bounds the write-path eviction loop so a pathological
	// configuration cannot spin forever.
	evictionLoopCap = 1000

	// historySize is the capacity of the memory snapshot ring.
	historySize = 25

	// snapshotEvery is the spacing of memory snapshots, in seconds.
	snapshotEvery = 3600

	// maxConsecutiveFaults is how many critical faults in a row the engine
	// tolerates before it refuses to run.
	maxConsecutiveFaults = 3
)

// store owns the entry map, the recency list, and the service state.
// One exclusive lock guards all of it; the intrusive list doubles as the
// recency index (head=newest, tail=oldest), so the map and the index can
// never drift apart.
type store struct {
	mu sync.RWMutex

	m     map[string]*node
	head  *node // newest
	tail  *node // oldest
	count int

	// Keys observed expired at read time, awaiting physical removal.
	candidates map[string]struct{}

	memBytes  int64
	evictions uint64
	totalHits uint64

	// Write generation source. Never reset, so no two lives of a key can
	// share a seq.
	seqGen uint64

	running        bool
	criticalFaults int

	lastReap     int64 // epoch seconds, zero until the first cycle
	nextReap     int64
	nextSnapshot int64 // zero = no snapshot scheduled
	history      *util.Ring[MemorySnapshot]

	settings Settings
	pol      policy.StorePolicy

	reapInterval time.Duration
	clock        Clock
	logger       *slog.Logger
	metrics      Metrics
	onEvict      func(key string, v value.Value, reason EvictReason)
}

// newStore builds a running store from normalized Options.
func newStore(opt Options) *store {
	s := &store{
		m:            make(map[string]*node),
		candidates:   make(map[string]struct{}),
		history:      util.NewRing[MemorySnapshot](historySize),
		running:      true,
		settings:     opt.Settings,
		reapInterval: opt.ReapInterval,
		clock:        opt.Clock,
		logger:       opt.Logger,
		metrics:      opt.Metrics,
		onEvict:      opt.OnEvict,
	}
	s.pol = policyFor(s.settings.Policy).New(storeHooks{s})

	now := s.clock.NowUnix()
	s.nextReap = now + int64(s.reapInterval/time.Second)
	if s.settings.MemoryStatistics {
		s.nextSnapshot = now + snapshotEvery
	}
	return s
}

// policyFor maps a settings tag to its factory.
func policyFor(tag string) policy.Policy {
	switch tag {
	case PolicyLFU:
		return lfu.New()
	case PolicyTTL:
		return ttl.New()
	default:
		return lru.New()
	}
}

// -------------------- data operations --------------------

// set inserts or overwrites an entry. When hasTTL is false the configured
// default applies. Returns the write generation for the deferred size
// pass.
func (s *store) set(key string, v value.Value, ttl time.Duration, hasTTL bool) (uint64, error) {
	quick := value.QuickSize(v)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return 0, ErrStopped
	}
	return s.setLocked(key, v, quick, ttl, hasTTL), nil
}

// add inserts only when the key holds no live entry. An expired resident
// entry does not block the insert; it is overwritten in place.
func (s *store) add(key string, v value.Value) (uint64, error) {
	quick := value.QuickSize(v)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return 0, ErrStopped
	}
	if n, ok := s.m[key]; ok && !s.expiredLocked(n) {
		return 0, ErrExists
	}
	return s.setLocked(key, v, quick, 0, false), nil
}

// setLocked is the shared upsert path for set and add.
func (s *store) setLocked(key string, v value.Value, quick int64, ttl time.Duration, hasTTL bool) uint64 {
	if !hasTTL {
		ttl = s.settings.DefaultTTL
	}

	// An overwrite replaces the old footprint wholesale. Zeroing the node's
	// size keeps a same-cycle eviction of it from subtracting twice.
	if old := s.m[key]; old != nil {
		s.memBytes -= old.size
		if s.memBytes < 0 {
			s.memBytes = 0
		}
		old.size = 0
	}

	// Make room while the projected usage exceeds the budget and victims
	// remain. The cap guarantees termination.
	if budget := s.budgetLocked(); budget > 0 {
		for i := 0; i < evictionLoopCap && s.memBytes+quick > budget; i++ {
			if !s.evictOneLocked() {
				break
			}
		}
	}

	deadline := s.clock.NowUnix() + int64(ttl/time.Second)

	// Re-lookup: the eviction loop may have removed the key being written.
	// Every write draws a fresh generation from the store counter; a
	// reinserted key must not revive a prior life's deferred size job.
	s.seqGen++
	if n := s.m[key]; n != nil {
		n.val = v
		n.hits = 0
		n.expiresAt = deadline
		n.size = quick
		n.seq = s.seqGen
		delete(s.candidates, key)
		s.pol.OnUpdate(n)
	} else {
		n := &node{key: key, val: v, expiresAt: deadline, size: quick, seq: s.seqGen}
		s.m[key] = n
		s.pol.OnAdd(n)
	}
	s.memBytes += quick
	s.metrics.Size(s.count, s.memBytes)
	return s.seqGen
}

// get returns a live entry's value, counting the hit and letting the
// policy decide recency promotion. An expired entry is flagged for the
// reaper and reported as missing.
func (s *store) get(key string) (value.Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return value.Nil(), ErrStopped
	}
	n, ok := s.m[key]
	if !ok {
		s.metrics.Miss()
		return value.Nil(), ErrNotFound
	}
	if s.expiredLocked(n) {
		s.candidates[key] = struct{}{}
		s.metrics.Miss()
		return value.Nil(), ErrNotFound
	}
	n.hits++
	s.totalHits++
	s.pol.OnGet(n)
	s.metrics.Hit()
	return n.val, nil
}

// delete removes the key if present. Absent keys are not an error.
func (s *store) delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return ErrStopped
	}
	if n, ok := s.m[key]; ok {
		s.detachLocked(n)
		s.metrics.Size(s.count, s.memBytes)
	}
	return nil
}

// touch re-arms the expiry deadline of a live entry. Hit count and recency
// are left as they are.
func (s *store) touch(key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return ErrStopped
	}
	n, ok := s.m[key]
	if !ok {
		return ErrNotFound
	}
	if s.expiredLocked(n) {
		s.candidates[key] = struct{}{}
		return ErrNotFound
	}
	n.expiresAt = s.clock.NowUnix() + int64(ttl/time.Second)
	return nil
}

// itemStats reports the deadline and hit count of a live entry.
func (s *store) itemStats(key string) (ItemStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return ItemStats{}, ErrStopped
	}
	n, ok := s.m[key]
	if !ok {
		return ItemStats{}, ErrNotFound
	}
	now := s.clock.NowUnix()
	if n.expiresAt <= now {
		s.candidates[key] = struct{}{}
		return ItemStats{}, ErrNotFound
	}
	return ItemStats{
		ExpiresAt: n.expiresAt,
		Remaining: n.expiresAt - now,
		Hits:      n.hits,
	}, nil
}

// flushAll discards every entry and zeroes the usage and hit counters.
// Status and settings survive.
func (s *store) flushAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return ErrStopped
	}
	s.clearLocked()
	s.metrics.Size(0, 0)
	return nil
}

// refine lands a deferred deep size estimate. The delta applies only while
// the entry still exists under the generation the job was scheduled for.
func (s *store) refine(key string, seq uint64, deep int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	n, ok := s.m[key]
	if !ok || n.seq != seq {
		return
	}
	s.memBytes += deep - n.size
	if s.memBytes < 0 {
		s.memBytes = 0
	}
	n.size = deep
	s.metrics.Size(s.count, s.memBytes)
}

// -------------------- service state --------------------

// stats assembles a point-in-time report. It answers while stopped.
func (s *store) stats(opt *StatsOptions) Snapshot {
	if opt == nil {
		opt = &StatsOptions{ShowKeys: true, ShowTotal: true}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Status:         StatusStopped,
		Policy:         s.settings.Policy,
		Hits:           s.totalHits,
		Evictions:      s.evictions,
		MaxMemory:      "unlimited",
		CriticalFaults: s.criticalFaults,
		LastReap:       s.lastReap,
		NextReap:       s.nextReap,
		MemoryHistory:  s.history.Items(),
	}
	if s.running {
		snap.Status = StatusRunning
	}
	if b := s.budgetLocked(); b > 0 {
		snap.MaxMemory = util.FormatBytes(b)
	}
	if opt.ShowTotal {
		snap.Total = s.count
	}
	if opt.ShowSize {
		snap.SizeBytes = s.memBytes
		snap.Size = util.FormatBytes(s.memBytes)
	}
	if opt.ShowKeys {
		keys := make([]string, 0, s.count)
		for n := s.head; n != nil; n = n.next {
			keys = append(keys, n.key)
		}
		snap.Keys = keys
	}
	return snap
}

// configure merges runtime options into the settings. A policy change
// rebinds the victim selector on the live list; enabling memory statistics
// schedules the first snapshot if none is pending.
func (s *store) configure(opts ...Option) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.settings.Policy
	for _, o := range opts {
		if o != nil {
			o(&s.settings)
		}
	}
	if s.settings.Policy != prev {
		s.pol = policyFor(s.settings.Policy).New(storeHooks{s})
	}
	if s.settings.MemoryStatistics && s.nextSnapshot == 0 {
		s.nextSnapshot = s.clock.NowUnix() + snapshotEvery
	}
}

// restart transitions stopped -> running. Data was cleared at stop; the
// reap schedule starts over.
func (s *store) restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}
	if s.criticalFaults > maxConsecutiveFaults {
		return ErrTooManyFaults
	}
	s.running = true
	now := s.clock.NowUnix()
	s.lastReap = 0
	s.nextReap = now + int64(s.reapInterval/time.Second)
	if s.settings.MemoryStatistics {
		s.nextSnapshot = now + snapshotEvery
	}
	return nil
}

// halt clears the store and marks it stopped. The facade runs the final
// reap and stops the background goroutines before calling this.
func (s *store) halt() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.running = false
	s.clearLocked()
	s.metrics.Size(0, 0)
}

// fault recovers from a critical internal failure: log it, flush all data,
// and count it. Reports true when the consecutive limit is exceeded and
// the engine must stop.
func (s *store) fault(op string, cause any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.criticalFaults++
	s.clearLocked()
	s.history = util.NewRing[MemorySnapshot](historySize)
	s.logger.Error("critical fault, store flushed",
		"op", op,
		"cause", cause,
		"consecutive", s.criticalFaults,
	)
	s.metrics.Fault()
	s.metrics.Size(0, 0)

	if s.criticalFaults > maxConsecutiveFaults {
		s.running = false
		return true
	}
	return false
}

// isRunning reports the service status.
func (s *store) isRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// length returns the resident entry count.
func (s *store) length() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count
}

// -------------------- reaper cycle --------------------

// reap physically removes expired entries: first the candidate set flagged
// by reads, then a bounded oldest-first scan. A completed cycle updates the
// timestamps, takes a due memory snapshot, and clears the fault streak.
func (s *store) reap() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	now := s.clock.NowUnix()

	// Tier one: drain the candidates. Re-check each deadline so a key
	// refreshed since it was flagged survives.
	for key := range s.candidates {
		n, ok := s.m[key]
		if !ok {
			delete(s.candidates, key)
			continue
		}
		if n.expiresAt <= now {
			s.evictNodeLocked(n, EvictExpired)
		} else {
			delete(s.candidates, key)
		}
	}

	// Tier two: examine at most MaxChecksPerCycle entries oldest-first.
	// Collect then remove, so the walk never steps through its own
	// deletions.
	limit := s.settings.MaxChecksPerCycle
	var expired []*node
	for n, i := s.tail, 0; n != nil && i < limit; n, i = n.prev, i+1 {
		if n.expiresAt <= now {
			expired = append(expired, n)
		}
	}
	for _, n := range expired {
		s.evictNodeLocked(n, EvictExpired)
	}

	s.lastReap = now
	s.nextReap = now + int64(s.reapInterval/time.Second)

	if s.settings.MemoryStatistics && s.nextSnapshot > 0 && now >= s.nextSnapshot {
		s.history.Push(MemorySnapshot{Unix: now, Bytes: s.memBytes})
		s.nextSnapshot = now + snapshotEvery
	}

	s.criticalFaults = 0
	s.metrics.ReapCycle()
	s.metrics.Size(s.count, s.memBytes)
}

// -------------------- internals (mu held) --------------------

func (s *store) expiredLocked(n *node) bool {
	return n.expiresAt <= s.clock.NowUnix()
}

// budgetLocked converts the configured budget to bytes. Zero = unlimited.
func (s *store) budgetLocked() int64 {
	if s.settings.MaxMemoryMB <= 0 {
		return 0
	}
	return int64(s.settings.MaxMemoryMB * 1024 * 1024)
}

// detachLocked removes n from the map, the list, and the candidate set,
// and gives back its accounted size.
func (s *store) detachLocked(n *node) {
	s.pol.OnRemove(n)
	s.unlink(n)
	delete(s.m, n.key)
	delete(s.candidates, n.key)
	s.memBytes -= n.size
	if s.memBytes < 0 {
		s.memBytes = 0
	}
}

// evictNodeLocked detaches n and reports the removal. Only pressure
// removals count as evictions.
func (s *store) evictNodeLocked(n *node, reason EvictReason) {
	s.detachLocked(n)
	if reason == EvictPressure {
		s.evictions++
	}
	s.metrics.Evict(reason)
	if cb := s.onEvict; cb != nil {
		cb(n.key, n.val, reason)
	}
}

// evictOneLocked removes one victim chosen by the active policy.
// Returns false when the store is empty, so callers stop looping.
func (s *store) evictOneLocked() bool {
	v := s.pol.Victim()
	if v == nil {
		return false
	}
	s.evictNodeLocked(v.(*node), EvictPressure)
	return true
}

// clearLocked discards all entries and zeroes the usage and hit counters.
// Settings, status, fault count, and the reap schedule are untouched.
func (s *store) clearLocked() {
	s.m = make(map[string]*node)
	s.head, s.tail = nil, nil
	s.count = 0
	s.candidates = make(map[string]struct{})
	s.memBytes = 0
	s.evictions = 0
	s.totalHits = 0
}

// -------------------- intrusive list (mu held) --------------------

// pushFront inserts n at the newest position in O(1).
func (s *store) pushFront(n *node) {
	n.prev = nil
	n.next = s.head
	if s.head != nil {
		s.head.prev = n
	}
	s.head = n
	if s.tail == nil {
		s.tail = n
	}
	s.count++
}

// moveToFront promotes n to the newest position in O(1).
func (s *store) moveToFront(n *node) {
	if n == s.head {
		return
	}
	// detach
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if s.tail == n {
		s.tail = n.prev
	}
	// insert at head
	n.prev = nil
	n.next = s.head
	if s.head != nil {
		s.head.prev = n
	}
	s.head = n
	if s.tail == nil {
		s.tail = n
	}
}

// unlink removes n from the list in O(1).
func (s *store) unlink(n *node) {
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if s.head == n {
		s.head = n.next
	}
	if s.tail == n {
		s.tail = n.prev
	}
	n.prev, n.next = nil, nil
	s.count--
}

// -------------------- policy hooks --------------------

// storeHooks adapts the store's list operations to policy.Hooks.
// All hook calls happen under the store lock.
type storeHooks struct{ s *store }

func (h storeHooks) PushFront(x policy.Node)   { h.s.pushFront(x.(*node)) }
func (h storeHooks) MoveToFront(x policy.Node) { h.s.moveToFront(x.(*node)) }

func (h storeHooks) Back() policy.Node {
	// Explicit nil keeps an empty tail from becoming a typed-nil Node.
	if h.s.tail == nil {
		return nil
	}
	return h.s.tail
}

func (h storeHooks) Len() int { return h.s.count }

func (h storeHooks) ScanOldest(max int, fn func(policy.Node) bool) {
	for n, i := h.s.tail, 0; n != nil && i < max; n, i = n.prev, i+1 {
		if !fn(n) {
			return
		}
	}
}
