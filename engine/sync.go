package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// SyncReport aggregates the outcome of one Sync call: which bins were
// touched and which failed. It is an additive tightening of spec's
// fire-and-forget "logged per shard" contract for sync — it never changes
// the unconditional KVPool clear at the end.
type SyncReport struct {
	mu       sync.Mutex
	Touched  []int
	Failures map[int]error
}

func newSyncReport() *SyncReport {
	return &SyncReport{Failures: make(map[int]error)}
}

func (r *SyncReport) recordSuccess(bin int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Touched = append(r.Touched, bin)
}

func (r *SyncReport) recordFailure(bin int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Failures[bin] = err
}

// HasErrors reports whether any bin failed to sync.
func (r *SyncReport) HasErrors() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Failures) > 0
}

func (r *SyncReport) Error() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.Failures) == 0 {
		return ""
	}
	parts := make([]string, 0, len(r.Failures))
	for bin, err := range r.Failures {
		parts = append(parts, fmt.Sprintf("bin %d: %v", bin, err))
	}
	return "sync: " + strings.Join(parts, "; ")
}

// Sync flushes KVPool to shards, grouped by destination bin and processed
// under each bin's lock (read-merge-write, then parity refresh). Every bin
// is attempted regardless of another bin's failure; the KVPool is cleared
// unconditionally once every bin has been processed, whether or not its
// write succeeded. This "fire and forget" discard is part of the
// contract, not a bug: durability-sensitive callers must inspect the
// returned *SyncReport before trusting the data is persisted.
func (e *Engine) Sync(ctx context.Context) (*SyncReport, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}

	snapshot := e.writeBuffer.Snapshot()
	byBin := make(map[int]map[string]string)
	for onDiskKey, value := range snapshot {
		bin := binIndex(onDiskKey, e.cfg.BinCount)
		if byBin[bin] == nil {
			byBin[bin] = make(map[string]string)
		}
		byBin[bin][onDiskKey] = value
	}

	report := newSyncReport()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.WorkerCount)
	for bin, pending := range byBin {
		bin, pending := bin, pending
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return nil
			default:
			}

			unlock := e.binLocks.lock(bin)
			defer unlock()

			data, err := e.loadShardWithRecovery(bin)
			if err != nil {
				report.recordFailure(bin, err)
				return nil
			}
			for k, v := range pending {
				data[k] = v
			}
			if err := e.writeShardLocked(bin, data); err != nil {
				report.recordFailure(bin, err)
				return nil
			}
			report.recordSuccess(bin)
			return nil
		})
	}
	// The errgroup's functions never return a non-nil error themselves
	// (failures are recorded on report instead), so Wait only surfaces
	// context cancellation.
	waitErr := g.Wait()

	e.writeBuffer.Clear()

	if waitErr != nil {
		return report, waitErr
	}
	return report, nil
}
