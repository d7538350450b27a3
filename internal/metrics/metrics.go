// Package metrics provides lock-free counters for goIdentity observability.
//
// Counters are plain uint64 slots incremented via sync/atomic; the write path
// is allocation-free. Snapshot produces a deep copy for export. Metric export
// (Prometheus, OTel) belongs to the caller; this package performs no I/O and
// imports no sibling package.
package metrics

import "sync/atomic"

// MetricID identifies one counter slot.
type MetricID uint8

const (
	MetricRegisterSuccess MetricID = iota
	MetricRegisterDuplicate
	MetricLoginSuccess
	MetricLoginFailure
	MetricRefreshSuccess
	MetricRefreshFailure
	MetricLogout
	MetricProviderLoginSuccess
	MetricProviderLoginFailure
	MetricUserDeleted
	MetricCacheHit
	MetricCacheMiss

	// MetricIDCount is one past the highest MetricID.
	MetricIDCount
)

// Config enables or disables the counter set.
type Config struct {
	Enabled bool
}

// Metrics holds the counter slots. A disabled Metrics turns every operation
// into a no-op.
type Metrics struct {
	enabled  bool
	counters [MetricIDCount]atomic.Uint64
}

// Snapshot is a point-in-time deep copy of all counters.
type Snapshot struct {
	Counters map[MetricID]uint64
}

// New creates a Metrics instance configured by cfg.
func New(cfg Config) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Inc increments one counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= MetricIDCount {
		return
	}
	m.counters[id].Add(1)
}

// Get returns the current value of one counter.
func (m *Metrics) Get(id MetricID) uint64 {
	if m == nil || !m.enabled || id >= MetricIDCount {
		return 0
	}
	return m.counters[id].Load()
}

// Snapshot copies every counter into a fresh map.
func (m *Metrics) Snapshot() Snapshot {
	snap := Snapshot{Counters: make(map[MetricID]uint64, int(MetricIDCount))}
	if m == nil || !m.enabled {
		return snap
	}
	for id := MetricID(0); id < MetricIDCount; id++ {
		snap.Counters[id] = m.counters[id].Load()
	}
	return snap
}
