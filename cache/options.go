package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/memkv/memkv/value"
)

// EvictReason explains why an entry was removed.
type EvictReason int

const (
	// EvictPressure: removed by the eviction policy to satisfy the memory
	// budget. Counted in Snapshot.Evictions.
	EvictPressure EvictReason = iota
	// EvictExpired: physically removed by the reaper after its TTL passed.
	EvictExpired
)

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	Evict(reason EvictReason)
	Size(entries int, bytes int64)
	ReapCycle()
	Fault()
}

// Clock provides time in epoch seconds; useful for deterministic tests.
type Clock interface{ NowUnix() int64 }

// systemClock is the default wall-clock source.
type systemClock struct{}

func (systemClock) NowUnix() int64 { return time.Now().Unix() }

// LoaderFunc fetches a value on cache miss. Used by Fetch.
type LoaderFunc func(ctx context.Context, key string) (value.Value, error)

// Eviction policy tags accepted by Settings.Policy and WithEvictionPolicy.
const (
	PolicyLRU = "lru"
	PolicyLFU = "lfu"
	PolicyTTL = "ttl"
)

// Settings is the runtime-tunable part of the configuration. It is applied
// at construction and can be amended later through Configure.
type Settings struct {
	// DefaultTTL applies to Set/Add/SetMany when no per-key TTL is given.
	DefaultTTL time.Duration

	// MaxMemoryMB is the memory budget for the quick-estimated resident
	// size. Zero disables the budget. Fractional values are allowed
	// (0.001 is roughly one kilobyte).
	MaxMemoryMB float64

	// Policy selects the eviction strategy: PolicyLRU, PolicyLFU or
	// PolicyTTL.
	Policy string

	// MaxChecksPerCycle bounds how many entries one reap cycle examines
	// beyond the candidate set.
	MaxChecksPerCycle int

	// MemoryStatistics enables hourly usage snapshots into the bounded
	// history ring reported by Stats.
	MemoryStatistics bool
}

// DefaultSettings returns the configuration used when fields are left zero.
func DefaultSettings() Settings {
	return Settings{
		DefaultTTL:        time.Hour,
		MaxMemoryMB:       256,
		Policy:            PolicyLRU,
		MaxChecksPerCycle: 100,
	}
}

// withDefaults fills zero or out-of-range fields from DefaultSettings.
func (s Settings) withDefaults() Settings {
	def := DefaultSettings()
	if s.DefaultTTL <= 0 {
		s.DefaultTTL = def.DefaultTTL
	}
	if s.MaxMemoryMB <= 0 {
		s.MaxMemoryMB = def.MaxMemoryMB
	}
	switch s.Policy {
	case PolicyLRU, PolicyLFU, PolicyTTL:
	default:
		s.Policy = def.Policy
	}
	if s.MaxChecksPerCycle < 1 {
		s.MaxChecksPerCycle = def.MaxChecksPerCycle
	}
	return s
}

// Options configures the cache at construction. Zero values are safe;
// sane defaults are applied in New():
//   - zero Settings     => DefaultSettings
//   - ReapInterval <= 0 => 5s
//   - nil Logger        => slog.Default()
//   - nil Metrics       => NoopMetrics
//   - nil Clock         => wall clock
type Options struct {
	// Settings is the initial runtime configuration.
	Settings Settings

	// ReapInterval is the period of the background expiry reaper.
	ReapInterval time.Duration

	// Logger receives internal fault reports. Logging is fire-and-forget
	// and never influences control flow.
	Logger *slog.Logger

	// Metrics receives observability signals; nil => NoopMetrics.
	Metrics Metrics

	// Clock allows overriding the time source (tests). Nil => time.Now().
	Clock Clock

	// OnEvict is called for every policy or expiry removal, under the store
	// lock; keep callbacks lightweight.
	OnEvict func(key string, v value.Value, reason EvictReason)

	// Loader fetches a value on cache miss. Used by Fetch when no per-call
	// loader is given.
	Loader LoaderFunc
}

// Option is a single runtime configuration change applied by Configure.
// Each option validates its input and silently keeps the previous value
// when the input is out of range; Configure itself never fails over a
// rejected field.
type Option func(*Settings)

// WithDefaultTTL sets the TTL applied when Set is called without one.
// Non-positive durations are ignored.
func WithDefaultTTL(d time.Duration) Option {
	return func(s *Settings) {
		if d > 0 {
			s.DefaultTTL = d
		}
	}
}

// WithMaxMemoryMB sets the memory budget in megabytes. Zero disables the
// budget; negative values are ignored.
func WithMaxMemoryMB(mb float64) Option {
	return func(s *Settings) {
		if mb >= 0 {
			s.MaxMemoryMB = mb
		}
	}
}

// WithEvictionPolicy switches the eviction strategy. Unknown tags are
// ignored.
func WithEvictionPolicy(tag string) Option {
	return func(s *Settings) {
		switch tag {
		case PolicyLRU, PolicyLFU, PolicyTTL:
			s.Policy = tag
		}
	}
}

// WithMaxChecksPerCycle bounds the reaper's incremental scan. Values below
// one are ignored.
func WithMaxChecksPerCycle(n int) Option {
	return func(s *Settings) {
		if n >= 1 {
			s.MaxChecksPerCycle = n
		}
	}
}

// WithMemoryStatistics toggles hourly memory snapshots.
func WithMemoryStatistics(on bool) Option {
	return func(s *Settings) { s.MemoryStatistics = on }
}
