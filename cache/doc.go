// Package cache provides an in-process key-value store with Redis-like
// semantics: per-entry TTL with lazy expiry and background reclamation,
// approximate memory accounting with a configurable budget, pluggable
// eviction policies (LRU, sampled LFU, sampled TTL), batch operations,
// statistics, and a start/stop lifecycle.
//
// Design
//
//   - Concurrency: one store guarded by a single RWMutex holds the entry
//     map, the recency list, and the service state, so the map and the
//     list can never drift apart. Background work (the expiry reaper and
//     the deferred size refiner) runs on two goroutines that take the same
//     lock per step.
//
//   - Storage: a map[string]*node for lookups plus an intrusive
//     newest-to-oldest doubly linked list for recency. All data operations
//     are O(1) expected.
//
//   - Policies: eviction is pluggable via the policy package. LRU pops the
//     oldest entry; LFU and TTL sample a bounded oldest-first prefix and
//     pick the lowest hit count or the soonest deadline. Policies can be
//     swapped at runtime through Configure.
//
//   - TTL: deadlines are absolute epoch seconds. An entry past its
//     deadline is never returned; reads flag it into a candidate set and
//     the reaper removes it physically in a later cycle, together with a
//     bounded incremental scan for entries nobody reads.
//
//   - Memory: Set charges a cheap shallow size estimate synchronously and
//     schedules a deeper recursive pass on a background queue; the running
//     total is reconciled by the delta when it lands. The eviction loop
//     runs on the write path while the projected total exceeds the budget.
//
//   - Faults: public methods never panic. A recovered fault is logged,
//     the store is flushed (losing data is acceptable, crashing the host
//     is not), and a consecutive-fault counter grows; past the limit the
//     engine stops and refuses to start again.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict/Size/ReapCycle/
//     Fault signals. NoopMetrics is the default; metrics/prom adapts the
//     interface to Prometheus.
//
// Basic usage
//
//	c := cache.New(cache.Options{})
//	_ = c.Set("user:1", value.Map(map[string]value.Value{
//	    "name": value.String("John"),
//	    "age":  value.Int(30),
//	}))
//	if v, err := c.Get("user:1"); err == nil {
//	    _ = v.Map()["name"].String() // "John"
//	}
//	_ = c.Delete("user:1")
//	_ = c.Stop()
//
// With a per-key TTL
//
//	_ = c.SetWithTTL("session", value.String("tok"), 30*time.Second)
//	st, _ := c.ItemStats("session") // st.Remaining <= 30
//
// Under a memory budget
//
//	c := cache.New(cache.Options{Settings: cache.Settings{
//	    MaxMemoryMB: 64,
//	    Policy:      cache.PolicyLFU,
//	}})
//	// writes beyond the budget evict the coldest sampled entries
//
// With Fetch (singleflight)
//
//	v, err := c.Fetch(ctx, "profile:7", func(ctx context.Context, key string) (value.Value, error) {
//	    return value.String("from-db"), nil // e.g. fetch from DB
//	})
//
// Runtime reconfiguration
//
//	_ = c.Configure(
//	    cache.WithEvictionPolicy(cache.PolicyTTL),
//	    cache.WithMaxMemoryMB(128),
//	    cache.WithMemoryStatistics(true),
//	)
//
// See options.go for all construction knobs and package policy for the
// Policy/Hooks interfaces used to implement custom strategies.
package cache
