package prom

import (
	"github.com/memkv/memkv/cache"
	"github.com/prometheus/client_golang/prometheus"
)

// Adapter implements cache.Metrics and exports Prometheus counters/gauges.
// Safe for concurrent use; all Prometheus metric types are goroutine-safe.
type Adapter struct {
	hits     prometheus.Counter
	misses   prometheus.Counter
	removals *prometheus.CounterVec
	reaps    prometheus.Counter
	faults   prometheus.Counter
	entries  prometheus.Gauge
	memBytes prometheus.Gauge
}

// New constructs a Prometheus metrics adapter.
//   - reg:          registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:      Prometheus namespace and subsystem
//   - constLabels:  static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &Adapter{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "hits_total",
			Help:        "Cache hits",
			ConstLabels: constLabels,
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "misses_total",
			Help:        "Cache misses",
			ConstLabels: constLabels,
		}),
		removals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "removals_total",
				Help:        "Entries removed, by reason (pressure, expired)",
				ConstLabels: constLabels,
			},
			[]string{"reason"},
		),
		reaps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "reap_cycles_total",
			Help:        "Completed expiry reap cycles",
			ConstLabels: constLabels,
		}),
		faults: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "critical_faults_total",
			Help:        "Recovered critical faults (each flushed the store)",
			ConstLabels: constLabels,
		}),
		entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "size_entries",
			Help:        "Number of resident entries",
			ConstLabels: constLabels,
		}),
		memBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "memory_bytes",
			Help:        "Estimated resident size in bytes",
			ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.hits, a.misses, a.removals, a.reaps, a.faults, a.entries, a.memBytes)
	return a
}

// Hit increments the hit counter.
func (a *Adapter) Hit() { a.hits.Inc() }

// Miss increments the miss counter.
func (a *Adapter) Miss() { a.misses.Inc() }

// Evict increments the removal counter with a reason label.
func (a *Adapter) Evict(r cache.EvictReason) {
	a.removals.WithLabelValues(reason(r)).Inc()
}

// Size updates the resident entry and byte gauges.
func (a *Adapter) Size(entries int, bytes int64) {
	a.entries.Set(float64(entries))
	a.memBytes.Set(float64(bytes))
}

// ReapCycle increments the completed cycle counter.
func (a *Adapter) ReapCycle() { a.reaps.Inc() }

// Fault increments the critical fault counter. Unlike the consecutive
// count in Stats, this one never resets.
func (a *Adapter) Fault() { a.faults.Inc() }

// reason maps EvictReason to a stable label value.
func reason(r cache.EvictReason) string {
	switch r {
	case cache.EvictExpired:
		return "expired"
	default:
		return "pressure"
	}
}

// Compile-time check: ensure Adapter implements cache.Metrics.
var _ cache.Metrics = (*Adapter)(nil)
