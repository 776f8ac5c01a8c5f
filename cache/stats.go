package cache

// Status labels reported by Snapshot.Status.
const (
	StatusRunning = "running"
	StatusStopped = "stopped"
)

// StatsOptions selects which optional sections a Stats call fills in.
// A nil *StatsOptions asks for keys and totals but skips the per-entry
// size section.
type StatsOptions struct {
	// ShowKeys includes the resident key list, newest first.
	ShowKeys bool
	// ShowTotal includes the resident entry count.
	ShowTotal bool
	// ShowSize includes the estimated resident size in bytes.
	ShowSize bool
}

// MemorySnapshot is one point of the hourly memory history.
type MemorySnapshot struct {
	// Unix is the epoch second the sample was taken.
	Unix int64
	// Bytes is the estimated resident size at that moment.
	Bytes int64
}

// Snapshot is the point-in-time report returned by Stats.
type Snapshot struct {
	// Status is StatusRunning or StatusStopped.
	Status string
	// Policy is the active eviction policy tag (lru, lfu, ttl).
	Policy string

	// Hits counts successful reads since start or the last flush.
	Hits uint64
	// Evictions counts entries removed under memory pressure since start
	// or the last flush. Expiry removals are not included.
	Evictions uint64

	// MaxMemory is the configured budget, human readable ("unlimited",
	// "256.00 MB", ...).
	MaxMemory string
	// CriticalFaults is the current consecutive fault count.
	CriticalFaults int

	// LastReap and NextReap are epoch seconds; LastReap is zero until the
	// first cycle completes.
	LastReap int64
	NextReap int64

	// MemoryHistory holds the hourly size samples, oldest first. Empty
	// unless memory statistics are enabled.
	MemoryHistory []MemorySnapshot

	// Total is the resident entry count. Filled when ShowTotal is set.
	Total int
	// SizeBytes and Size report the estimated resident size (raw and human
	// readable). Filled when ShowSize is set.
	SizeBytes int64
	Size      string
	// Keys lists resident keys, newest first. Filled when ShowKeys is set.
	Keys []string
}

// ItemStats describes a single live entry.
type ItemStats struct {
	// ExpiresAt is the absolute expiry deadline in epoch seconds.
	ExpiresAt int64
	// Remaining is ExpiresAt minus now, in seconds.
	Remaining int64
	// Hits is the read count since the entry was last written.
	Hits uint64
}
