package binstore

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
type MetricsCollector interface {
	// RecordSet is called after each Set call.
	RecordSet(count int, duration time.Duration, err error)

	// RecordGet is called after each Get call.
	RecordGet(requested, found int, duration time.Duration, err error)

	// RecordRemove is called after each Remove call.
	RecordRemove(count int, duration time.Duration, err error)

	// RecordSync is called after each Sync call.
	RecordSync(touched, failed int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSet(int, time.Duration, error)              {}
func (NoopMetricsCollector) RecordGet(int, int, time.Duration, error)         {}
func (NoopMetricsCollector) RecordRemove(int, time.Duration, error)          {}
func (NoopMetricsCollector) RecordSync(int, int, time.Duration, error)       {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	SetCount        atomic.Int64
	SetErrors       atomic.Int64
	SetTotalNanos   atomic.Int64
	GetCount        atomic.Int64
	GetTotalNanos   atomic.Int64
	RemoveCount     atomic.Int64
	RemoveErrors    atomic.Int64
	RemoveTotalNanos atomic.Int64
	SyncCount       atomic.Int64
	SyncFailedBins  atomic.Int64
	SyncTotalNanos  atomic.Int64
}

func (b *BasicMetricsCollector) RecordSet(_ int, duration time.Duration, err error) {
	b.SetCount.Add(1)
	b.SetTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SetErrors.Add(1)
	}
}

func (b *BasicMetricsCollector) RecordGet(_, _ int, duration time.Duration, _ error) {
	b.GetCount.Add(1)
	b.GetTotalNanos.Add(duration.Nanoseconds())
}

func (b *BasicMetricsCollector) RecordRemove(_ int, duration time.Duration, err error) {
	b.RemoveCount.Add(1)
	b.RemoveTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RemoveErrors.Add(1)
	}
}

func (b *BasicMetricsCollector) RecordSync(_, failed int, duration time.Duration, _ error) {
	b.SyncCount.Add(1)
	b.SyncFailedBins.Add(int64(failed))
	b.SyncTotalNanos.Add(duration.Nanoseconds())
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		SetCount:       b.SetCount.Load(),
		SetErrors:      b.SetErrors.Load(),
		SetAvgNanos:    b.avg(b.SetTotalNanos.Load(), b.SetCount.Load()),
		GetCount:       b.GetCount.Load(),
		GetAvgNanos:    b.avg(b.GetTotalNanos.Load(), b.GetCount.Load()),
		RemoveCount:    b.RemoveCount.Load(),
		RemoveErrors:   b.RemoveErrors.Load(),
		SyncCount:      b.SyncCount.Load(),
		SyncFailedBins: b.SyncFailedBins.Load(),
	}
}

func (b *BasicMetricsCollector) avg(totalNanos, count int64) int64 {
	if count == 0 {
		return 0
	}
	return totalNanos / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	SetCount       int64
	SetErrors      int64
	SetAvgNanos    int64
	GetCount       int64
	GetAvgNanos    int64
	RemoveCount    int64
	RemoveErrors   int64
	SyncCount      int64
	SyncFailedBins int64
}
