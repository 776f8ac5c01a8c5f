package cache

import (
	"math/rand"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/memkv/memkv/value"
)

// benchmarkMix exercises a read/write mix against a warm cache.
// RunParallel spawns GOMAXPROCS workers; string keys include
// strconv/concat costs, which is fine for an end-to-end number.
func benchmarkMix(b *testing.B, readsPct int, policy string) {
	c := New(Options{
		Settings: Settings{
			DefaultTTL: time.Hour,
			Policy:     policy,
		},
		ReapInterval: time.Hour, // keep reap cycles out of the timed section
		Logger:       discardLogger(),
	})
	b.Cleanup(func() { _ = c.Stop() })

	// Preload part of the keyspace for a realistic hit rate.
	payload := value.String("v")
	for i := 0; i < 50_000; i++ {
		_ = c.Set("k:"+strconv.Itoa(i), payload)
	}

	b.ReportAllocs()
	b.ResetTimer()

	var seed int64 = 1
	keyMask := (1 << 16) - 1 // hot keyspace (power of two for fast &-mask)

	b.RunParallel(func(pb *testing.PB) {
		// Independent RNG stream per worker.
		r := rand.New(rand.NewSource(atomic.AddInt64(&seed, 1)))
		i := 0
		for pb.Next() {
			k := "k:" + strconv.Itoa(i&keyMask)
			if r.Intn(100) < readsPct {
				_, _ = c.Get(k)
			} else {
				_ = c.Set(k, payload)
			}
			i++
		}
	})
}

func BenchmarkCache_90r10w(b *testing.B)     { benchmarkMix(b, 90, PolicyLRU) }
func BenchmarkCache_50r50w(b *testing.B)     { benchmarkMix(b, 50, PolicyLRU) }
func BenchmarkCache_LFU_90r10w(b *testing.B) { benchmarkMix(b, 90, PolicyLFU) }

// BenchmarkCache_EvictionPressure writes distinct keys into a budget
// sized for about a thousand residents, so nearly every insert pays for
// victim sampling and removal.
func BenchmarkCache_EvictionPressure(b *testing.B) {
	c := New(Options{
		Settings: Settings{
			DefaultTTL:  time.Hour,
			MaxMemoryMB: 0.5,
		},
		ReapInterval: time.Hour,
		Logger:       discardLogger(),
	})
	b.Cleanup(func() { _ = c.Stop() })

	payload := value.String(strings.Repeat("x", 256))

	b.ReportAllocs()
	b.ResetTimer()

	var worker int64
	b.RunParallel(func(pb *testing.PB) {
		id := strconv.FormatInt(atomic.AddInt64(&worker, 1), 10)
		i := 0
		for pb.Next() {
			_ = c.Set("k:"+id+":"+strconv.Itoa(i), payload)
			i++
		}
	})
}
