package store

import (
	"time"

	"go.uber.org/atomic"
)

// metrics tracks the operation counters for one store instance. Counters are
// atomic so Metrics can read them without touching the cache lock. Every
// store owns its own set; nothing here is process-global.
type metrics struct {
	totalOps  atomic.Uint64
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
	startedAt atomic.Time
}

func newMetrics() *metrics {
	m := &metrics{}
	m.startedAt.Store(time.Now())
	return m
}

func (m *metrics) reset() {
	m.totalOps.Store(0)
	m.hits.Store(0)
	m.misses.Store(0)
	m.evictions.Store(0)
	m.startedAt.Store(time.Now())
}

// MetricsSnapshot is a point-in-time view of a store's counters and the
// rates derived from them.
type MetricsSnapshot struct {
	TotalOperations     uint64        `json:"total_operations"`
	CacheHits           uint64        `json:"cache_hits"`
	CacheMisses         uint64        `json:"cache_misses"`
	Evictions           uint64        `json:"evictions"`
	HitRate             float64       `json:"hit_rate"`
	OperationsPerSecond float64       `json:"operations_per_second"`
	Uptime              time.Duration `json:"uptime_ns"`
}

func (m *metrics) snapshot() MetricsSnapshot {
	hits := m.hits.Load()
	misses := m.misses.Load()
	total := m.totalOps.Load()
	uptime := time.Since(m.startedAt.Load())

	var hitRate float64
	if lookups := hits + misses; lookups > 0 {
		hitRate = float64(hits) / float64(lookups)
	}
	var opsPerSecond float64
	if secs := uptime.Seconds(); secs > 0 {
		opsPerSecond = float64(total) / secs
	}

	return MetricsSnapshot{
		TotalOperations:     total,
		CacheHits:           hits,
		CacheMisses:         misses,
		Evictions:           m.evictions.Load(),
		HitRate:             hitRate,
		OperationsPerSecond: opsPerSecond,
		Uptime:              uptime,
	}
}
