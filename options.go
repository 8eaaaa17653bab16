package binstore

import (
	"time"

	"github.com/hupe1980/binstore/cache"
	"github.com/hupe1980/binstore/internal/fs"
	"github.com/hupe1980/binstore/internal/resource"
)

type options struct {
	binCount         int
	enableParity     bool
	parityGroupSize  int
	workerCount      int
	fileSystem       fs.FileSystem
	logger           *Logger
	metricsCollector MetricsCollector
	cacheSize        int
	cacheSidecarPath string
	cacheUpdateCycle time.Duration
	resources        resource.Config
}

// Option configures Open's constructor behavior.
type Option func(*options)

// WithBinCount sets the number of shard files (B). Required to be positive;
// Open fails if it was never set.
func WithBinCount(n int) Option {
	return func(o *options) {
		o.binCount = n
	}
}

// WithParity enables checksum-mismatch recovery and parity file
// maintenance, grouping every groupSize consecutive bins into one XOR
// parity group. groupSize <= 0 falls back to the engine's default of 2.
func WithParity(groupSize int) Option {
	return func(o *options) {
		o.enableParity = true
		o.parityGroupSize = groupSize
	}
}

// WithWorkerCount bounds fan-out concurrency for Sync, Get, Remove, and
// TransferFrom. If <= 0, the engine defaults to runtime.NumCPU().
func WithWorkerCount(n int) Option {
	return func(o *options) {
		o.workerCount = n
	}
}

// WithFileSystem overrides the storage seam. Production code should never
// need this; tests use it to inject internal/fs.NewFaultyFS.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		o.fileSystem = fsys
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithCache enables a read-through cache holding up to size shard
// snapshots, backed by a sidecar file at sidecarPath that survives
// restarts. updateCycle, if positive, starts a background refresher that
// periodically reloads the cached bins and rewrites the sidecar.
func WithCache(size int, sidecarPath string, updateCycle time.Duration) Option {
	return func(o *options) {
		o.cacheSize = size
		o.cacheSidecarPath = sidecarPath
		o.cacheUpdateCycle = updateCycle
	}
}

// WithResourceLimits bounds background refresh concurrency and tracks
// write-buffer memory usage. A zero MemoryLimitBytes or IOLimitBytesPerSec
// means unlimited; a zero MaxBackgroundWorkers means 1. The IO limit is
// drawn on by the cache refresher but does not limit its reads.
func WithResourceLimits(cfg resource.Config) Option {
	return func(o *options) {
		o.resources = cfg
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		binCount:         0,
		workerCount:      0,
		fileSystem:       fs.Default,
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

func (o options) newCache() *cache.Cache {
	if o.cacheSize <= 0 {
		return nil
	}
	return cache.New(o.cacheSize)
}
