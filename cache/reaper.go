package cache

import (
	"context"
	"time"
)

// reapLoop drives periodic expiry cycles until ctx is cancelled. When a
// faulting cycle pushes the engine over the consecutive fault limit, the
// loop retires its own generation through the cancel it was launched with.
func (c *kv) reapLoop(ctx context.Context, cancel context.CancelFunc) {
	defer c.wg.Done()

	t := time.NewTicker(c.opt.ReapInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if !c.reapCycle() {
				cancel()
				return
			}
		}
	}
}

// reapCycle runs one guarded reap pass. Returns false once the engine must
// stop because the fault limit was exceeded.
func (c *kv) reapCycle() (ok bool) {
	// Skip this tick if a previous cycle is somehow still marked in
	// progress.
	if !c.reaping.CompareAndSwap(false, true) {
		return true
	}
	defer c.reaping.Store(false)

	defer func() {
		if r := recover(); r != nil {
			ok = !c.store.fault("reap", r)
		}
	}()

	c.store.reap()
	return true
}
