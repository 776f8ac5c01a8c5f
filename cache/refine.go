package cache

import (
	"context"

	"github.com/memkv/memkv/value"
)

// refineQueueSize bounds the deferred sizing queue. When it is full the
// job is dropped and the quick estimate stands.
const refineQueueSize = 256

// refineJob asks for a deep size pass over one written entry.
type refineJob struct {
	key string
	seq uint64
	val value.Value
}

// scheduleRefine enqueues a deep size pass without ever blocking the
// write path.
func (c *kv) scheduleRefine(key string, seq uint64, v value.Value) {
	select {
	case c.refineCh <- refineJob{key: key, seq: seq, val: v}:
	default:
	}
}

// refineLoop computes deep estimates outside the store lock and applies
// the deltas to the running memory total.
func (c *kv) refineLoop(ctx context.Context) {
	defer c.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job := <-c.refineCh:
			c.store.refine(job.key, job.seq, value.DeepSize(job.val))
		}
	}
}

// drainRefine discards queued jobs once the loops have stopped. In-flight
// refinements are dropped at stop, not awaited.
func (c *kv) drainRefine() {
	for {
		select {
		case <-c.refineCh:
		default:
			return
		}
	}
}
