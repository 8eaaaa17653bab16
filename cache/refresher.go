package cache

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/binstore/internal/fs"
	"github.com/hupe1980/binstore/internal/resource"
)

// Loader reloads bin's shard contents from storage.
type Loader func(ctx context.Context, bin int) (map[string]string, error)

// Refresher periodically reloads every cached bin through Loader and
// rewrites the sidecar file. Concurrent refresh cycles are impossible by
// construction: a CompareAndSwap busy flag guards the entire
// read-modify-write of the cache's order and snapshots plus the sidecar
// rewrite as one critical section, resolving the plain-boolean race the
// cache's original design left open.
type Refresher struct {
	cache     *Cache
	fsys      fs.FileSystem
	sidecar   string
	loader    Loader
	interval  time.Duration
	logger    *slog.Logger
	resources *resource.Controller
	busy      atomic.Bool
	stopCh    chan struct{}
	stoppedCh chan struct{}
	startOnce sync.Once
}

// NewRefresher builds a Refresher; rc may be nil to disable resource
// governance.
func NewRefresher(c *Cache, fsys fs.FileSystem, sidecar string, loader Loader, interval time.Duration, logger *slog.Logger, rc *resource.Controller) *Refresher {
	return &Refresher{
		cache:     c,
		fsys:      fsys,
		sidecar:   sidecar,
		loader:    loader,
		interval:  interval,
		logger:    logger,
		resources: rc,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Start launches the background ticker goroutine. Calling Start more than
// once has no additional effect.
func (r *Refresher) Start(ctx context.Context) {
	r.startOnce.Do(func() {
		go r.run(ctx)
	})
}

func (r *Refresher) run(ctx context.Context) {
	defer close(r.stoppedCh)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Refresher) tick(ctx context.Context) {
	if !r.busy.CompareAndSwap(false, true) {
		return
	}
	defer r.busy.Store(false)

	if err := r.resources.AcquireBackground(ctx); err != nil {
		return
	}
	defer r.resources.ReleaseBackground()

	for _, bin := range r.cache.Order() {
		snap, err := r.loader(ctx, bin)
		if err != nil {
			if r.logger != nil {
				r.logger.Warn("cache refresh failed", "bin", bin, "error", err)
			}
			continue
		}
		r.resources.TryAcquireIO(estimateBytes(snap))
		r.cache.Replace(bin, snap)
	}

	if err := WriteSidecar(r.fsys, r.sidecar, r.cache); err != nil && r.logger != nil {
		r.logger.Warn("cache sidecar rewrite failed", "error", err)
	}
}

// Stop signals the refresher to exit and blocks until it does or ctx's
// deadline (a 60-second timeout at the caller's discretion) elapses.
func (r *Refresher) Stop(ctx context.Context) error {
	close(r.stopCh)
	select {
	case <-r.stoppedCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func estimateBytes(snap map[string]string) int {
	n := 0
	for k, v := range snap {
		n += len(k) + len(v)
	}
	return n
}
