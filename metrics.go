package goIdentity

import (
	internalmetrics "github.com/MrEthical07/goIdentity/internal/metrics"
)

// MetricID identifies a counter in the in-process metrics system.
type MetricID = internalmetrics.MetricID

const (
	// MetricRegisterSuccess counts completed registrations.
	MetricRegisterSuccess = internalmetrics.MetricRegisterSuccess
	// MetricRegisterDuplicate counts registrations rejected for a taken email.
	MetricRegisterDuplicate = internalmetrics.MetricRegisterDuplicate
	// MetricLoginSuccess counts successful password logins.
	MetricLoginSuccess = internalmetrics.MetricLoginSuccess
	// MetricLoginFailure counts rejected password logins.
	MetricLoginFailure = internalmetrics.MetricLoginFailure
	// MetricRefreshSuccess counts successful token rotations.
	MetricRefreshSuccess = internalmetrics.MetricRefreshSuccess
	// MetricRefreshFailure counts rejected refresh attempts, including reuse
	// of an already-consumed token.
	MetricRefreshFailure = internalmetrics.MetricRefreshFailure
	// MetricLogout counts logout calls that removed a live record.
	MetricLogout = internalmetrics.MetricLogout
	// MetricProviderLoginSuccess counts completed provider authentications.
	MetricProviderLoginSuccess = internalmetrics.MetricProviderLoginSuccess
	// MetricProviderLoginFailure counts provider authentications that failed
	// at the store layer.
	MetricProviderLoginFailure = internalmetrics.MetricProviderLoginFailure
	// MetricUserDeleted counts completed account deletions.
	MetricUserDeleted = internalmetrics.MetricUserDeleted
	// MetricCacheHit counts identity resolutions served from the cache.
	MetricCacheHit = internalmetrics.MetricCacheHit
	// MetricCacheMiss counts identity resolutions that read the store.
	MetricCacheMiss = internalmetrics.MetricCacheMiss
)

// Metrics holds the engine's atomic counters.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time deep copy of all counters.
type MetricsSnapshot = internalmetrics.Snapshot

// NewMetrics creates a [Metrics] instance configured by the given
// [MetricsConfig]. When Enabled is false, all operations are no-ops.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return internalmetrics.New(internalmetrics.Config{Enabled: cfg.Enabled})
}
