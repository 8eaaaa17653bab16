package engine

import (
	"log/slog"
	"time"

	"github.com/hupe1980/binstore/cache"
	"github.com/hupe1980/binstore/internal/fs"
	"github.com/hupe1980/binstore/internal/resource"
)

// MaxRecoveryCount is the maximum number of parity-recovery retries before
// a read or write surfaces a *RecoveryExhaustedError.
const MaxRecoveryCount = 5

// DefaultParityGroupSize is used when a caller enables parity without
// specifying a group size.
const DefaultParityGroupSize = 2

// Config configures an Engine. Dir and BinCount are required.
type Config struct {
	// Dir is the storage directory root for shard and parity files. It is
	// created if missing.
	Dir string

	// BinCount is the number of shards (B). Immutable after construction.
	BinCount int

	// EnableParity toggles checksum-verification-with-recovery and parity
	// file maintenance. If false, the checksum header is not verified on
	// read, no recovery is attempted, and an empty or unparseable header
	// surfaces as an error.
	EnableParity bool

	// ParityGroupSize is the number of member bins per parity group (P).
	ParityGroupSize int

	// WorkerCount bounds fan-out concurrency for Sync/Get/Remove. Defaults
	// to runtime.NumCPU() if <= 0.
	WorkerCount int

	// FileSystem is the storage seam; defaults to fs.Default.
	FileSystem fs.FileSystem

	// Logger receives structured Debug/Warn/Error events; defaults to a
	// discarding logger.
	Logger *slog.Logger

	// Cache is an optional read-through cache. Nil disables caching.
	Cache *cache.Cache

	// CacheSidecarPath is the .cache sidecar path used by the background
	// refresher; required if Cache is non-nil and CacheUpdateCycle > 0.
	CacheSidecarPath string

	// CacheUpdateCycle is the background refresh interval. Zero disables
	// the refresher even if Cache is set.
	CacheUpdateCycle time.Duration

	// Resources bounds background refresh concurrency and tracks KVPool
	// memory usage; its IO token bucket is drawn on by the refresher but
	// does not limit refresh reads. Nil disables all limits (unbounded).
	Resources *resource.Controller
}

func (c *Config) applyDefaults() {
	if c.FileSystem == nil {
		c.FileSystem = fs.Default
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	if c.EnableParity && c.ParityGroupSize <= 0 {
		c.ParityGroupSize = DefaultParityGroupSize
	}
}
