package cache

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/memkv/memkv/value"
)

// kv is the engine behind the Cache interface: one store guarded by a
// single lock, plus the reaper and size-refiner goroutines.
// All methods are safe for concurrent use by multiple goroutines.
type kv struct {
	store *store
	opt   Options

	// refineCh feeds the deferred size estimator.
	refineCh chan refineJob

	// sf coalesces concurrent loads for the same key in Fetch.
	sf singleflight.Group

	// reaping marks a cycle in progress so a slow one skips the next tick.
	reaping atomic.Bool

	// lifeMu serializes Start/Stop; cancel retires the current goroutine
	// generation.
	lifeMu sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New constructs a cache and starts it: the returned engine is running,
// with the reaper and the size refiner live. Defaults:
//   - zero Settings     -> DefaultSettings()
//   - ReapInterval <= 0 -> 5s
//   - nil Logger        -> slog.Default()
//   - nil Metrics       -> NoopMetrics
//   - nil Clock         -> wall clock
func New(opt Options) Cache {
	opt.Settings = opt.Settings.withDefaults()
	if opt.ReapInterval <= 0 {
		opt.ReapInterval = 5 * time.Second
	}
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	if opt.Clock == nil {
		opt.Clock = systemClock{}
	}

	c := &kv{
		store:    newStore(opt),
		opt:      opt,
		refineCh: make(chan refineJob, refineQueueSize),
	}
	c.launch()

	// return pointer-to-impl as the interface (avoids unexported-return lint)
	return c
}

// launch starts a fresh goroutine generation. Callers hold lifeMu or are
// the constructor.
func (c *kv) launch() {
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.wg.Add(2)
	go c.reapLoop(ctx, cancel)
	go c.refineLoop(ctx)
}

// guard converts a recovered panic into the critical fault path and an
// ErrInternal result. Every public method defers it; nothing escapes to
// the caller.
func (c *kv) guard(op string, err *error) {
	if r := recover(); r != nil {
		c.store.fault(op, r)
		*err = ErrInternal
	}
}

// ---- Cache implementation ----

// Configure merges runtime options into the settings.
func (c *kv) Configure(opts ...Option) (err error) {
	defer c.guard("configure", &err)

	c.store.configure(opts...)
	return nil
}

// Set inserts or overwrites key with the configured default TTL.
func (c *kv) Set(key string, v value.Value) (err error) {
	defer c.guard("set", &err)

	seq, err := c.store.set(key, v, 0, false)
	if err != nil {
		return err
	}
	c.scheduleRefine(key, seq, v)
	return nil
}

// SetWithTTL inserts or overwrites key with a per-key TTL.
func (c *kv) SetWithTTL(key string, v value.Value, ttl time.Duration) (err error) {
	defer c.guard("set", &err)

	if ttl < 0 {
		return ErrInvalidTTL
	}
	seq, err := c.store.set(key, v, ttl, true)
	if err != nil {
		return err
	}
	c.scheduleRefine(key, seq, v)
	return nil
}

// Add inserts key only if it holds no live entry.
func (c *kv) Add(key string, v value.Value) (err error) {
	defer c.guard("add", &err)

	seq, err := c.store.add(key, v)
	if err != nil {
		return err
	}
	c.scheduleRefine(key, seq, v)
	return nil
}

// Get returns the live value for key.
func (c *kv) Get(key string) (v value.Value, err error) {
	defer c.guard("get", &err)

	return c.store.get(key)
}

// Fetch returns the value for key, loading and storing it on miss.
// Concurrent loads for the same key are coalesced; only one loader runs.
func (c *kv) Fetch(ctx context.Context, key string, loader LoaderFunc) (v value.Value, err error) {
	defer c.guard("fetch", &err)

	// fast path
	v, err = c.store.get(key)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return value.Nil(), err
	}

	if loader == nil {
		loader = c.opt.Loader
	}
	if loader == nil {
		return value.Nil(), ErrNoLoader
	}

	ch := c.sf.DoChan(key, func() (res any, err error) {
		// The loader is user code; keep its panics inside the flight.
		defer c.guard("fetch", &err)

		// double-check after joining the flight
		if v, e := c.store.get(key); e == nil {
			return v, nil
		}
		loaded, e := loader(ctx, key)
		if e != nil {
			return nil, e
		}
		if seq, e := c.store.set(key, loaded, 0, false); e == nil {
			c.scheduleRefine(key, seq, loaded)
		}
		return loaded, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return value.Nil(), res.Err
		}
		return res.Val.(value.Value), nil
	case <-ctx.Done():
		return value.Nil(), ctx.Err()
	}
}

// Delete removes key. Absent keys are not an error.
func (c *kv) Delete(key string) (err error) {
	defer c.guard("delete", &err)

	return c.store.delete(key)
}

// Touch re-arms the TTL of a live entry.
func (c *kv) Touch(key string, ttl time.Duration) (err error) {
	defer c.guard("touch", &err)

	if ttl < 0 {
		return ErrInvalidTTL
	}
	return c.store.touch(key, ttl)
}

// ItemStats reports the deadline and hit count of a live entry.
func (c *kv) ItemStats(key string) (st ItemStats, err error) {
	defer c.guard("item_stats", &err)

	return c.store.itemStats(key)
}

// SetMany applies Set (or SetWithTTL) per element and collects per-element
// success flags.
func (c *kv) SetMany(items []Item) (res []bool, err error) {
	defer c.guard("set_many", &err)

	if !c.store.isRunning() {
		return nil, ErrStopped
	}
	res = make([]bool, len(items))
	for i, it := range items {
		var e error
		if it.TTL == 0 {
			e = c.Set(it.Key, it.Value)
		} else {
			e = c.SetWithTTL(it.Key, it.Value, it.TTL)
		}
		res[i] = e == nil
	}
	return res, nil
}

// GetMany resolves every requested key; misses map to the Nil value.
func (c *kv) GetMany(keys []string) (res map[string]value.Value, err error) {
	defer c.guard("get_many", &err)

	if !c.store.isRunning() {
		return nil, ErrStopped
	}
	res = make(map[string]value.Value, len(keys))
	for _, k := range keys {
		v, e := c.store.get(k)
		switch {
		case e == nil:
			res[k] = v
		case errors.Is(e, ErrStopped):
			return nil, ErrStopped
		default:
			res[k] = value.Nil()
		}
	}
	return res, nil
}

// DeleteMany removes the given keys.
func (c *kv) DeleteMany(keys []string) (err error) {
	defer c.guard("delete_many", &err)

	if !c.store.isRunning() {
		return ErrStopped
	}
	for _, k := range keys {
		if e := c.store.delete(k); e != nil {
			return e
		}
	}
	return nil
}

// FlushAll discards all entries and zeroes the usage and hit counters.
func (c *kv) FlushAll() (err error) {
	defer c.guard("flush", &err)

	return c.store.flushAll()
}

// Stats assembles a point-in-time report. It answers while stopped.
func (c *kv) Stats(opt *StatsOptions) Snapshot {
	return c.store.stats(opt)
}

// Len returns the resident entry count.
func (c *kv) Len() int {
	return c.store.length()
}

// Start resumes a stopped cache with a fresh goroutine generation.
func (c *kv) Start() (err error) {
	defer c.guard("start", &err)

	c.lifeMu.Lock()
	defer c.lifeMu.Unlock()

	if err := c.store.restart(); err != nil {
		return err
	}
	c.launch()
	return nil
}

// Stop cancels the background work, waits for it, runs one final reap
// synchronously, and clears the store. Idempotent; always nil.
func (c *kv) Stop() error {
	c.lifeMu.Lock()
	defer c.lifeMu.Unlock()

	if c.cancel == nil {
		return nil
	}
	c.cancel()
	c.cancel = nil
	c.wg.Wait()
	c.drainRefine()
	c.finalReap()
	c.store.halt()
	return nil
}

// finalReap runs Stop's synchronous pass under the fault guard, so a
// panicking eviction callback cannot escape Stop.
func (c *kv) finalReap() {
	defer func() {
		if r := recover(); r != nil {
			c.store.fault("stop", r)
		}
	}()
	c.store.reap()
}
