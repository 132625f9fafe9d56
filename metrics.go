package regkit

import "sync/atomic"

// MetricID identifies one engine counter.
type MetricID uint16

const (
	// MetricRegisterSuccess counts completed registrations.
	MetricRegisterSuccess MetricID = iota
	// MetricRegisterDuplicate counts registrations rejected because the
	// record already existed.
	MetricRegisterDuplicate
	// MetricLoginSuccess counts successful logins.
	MetricLoginSuccess
	// MetricLoginFailure counts logins rejected for a wrong password,
	// an absent record, or a blocked record.
	MetricLoginFailure
	// MetricUserDeleted counts records actually removed by Delete.
	MetricUserDeleted
	// MetricCodeIssued counts successfully persisted codes.
	MetricCodeIssued
	// MetricCodeReissueBlocked counts issuances rejected inside the
	// minimum re-issuance window.
	MetricCodeReissueBlocked
	// MetricCodeIssueFailure counts code writes the store did not
	// acknowledge.
	MetricCodeIssueFailure
	// MetricActivateSuccess counts consumed codes.
	MetricActivateSuccess
	// MetricActivateFailure counts activations rejected for an absent
	// or mismatched code.
	MetricActivateFailure
	// MetricDeliveryFailure counts best-effort code deliveries that
	// returned an error.
	MetricDeliveryFailure
	metricIDCount
)

const cacheLineSize = 64

// Counters get their own cache line so concurrent hot paths don't false-share.
type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds the engine's atomic counters. A disabled Metrics is a
// no-op on every method, including on a nil receiver.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]paddedCounter
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// NewMetrics returns a counter set honoring cfg.Enabled.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Enabled reports whether counters are being recorded.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc adds one to the counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Value reads one counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies all counters. Disabled metrics snapshot as empty.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}

	s := MetricsSnapshot{Counters: make(map[MetricID]uint64, int(metricIDCount))}
	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}
	return s
}
