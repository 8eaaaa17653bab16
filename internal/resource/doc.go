// Package resource governs the shared memory, background-concurrency, and
// I/O-rate budgets that the storage engine draws on outside the
// caller-driven Set/Get/Remove path.
//
// The Controller tracks three resource types:
//
//   - Memory: the write buffer's staged bytes (non-blocking, fail-fast)
//   - Concurrency: how many background cache-refresh cycles may run at once
//   - IO: a token bucket sized in bytes per second for background shard
//     reads
//
// # Memory accounting
//
// AcquireMemory is non-blocking and returns ErrMemoryLimitExceeded
// immediately if the configured limit would be exceeded. The write buffer
// (kvPool) uses this purely for tracking: it ignores the error, so staging
// is never refused, even when MemoryLimitBytes is set:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30, // 1GB limit
//	})
//
//	if err := rc.AcquireMemory(1024 * 1024); err != nil {
//	    // ErrMemoryLimitExceeded - caller decides retry/backoff
//	}
//	defer rc.ReleaseMemory(1024 * 1024)
//
// # Background worker limits
//
// Bounds how many background cache-refresh cycles run concurrently:
//
//	rc := resource.NewController(resource.Config{
//	    MaxBackgroundWorkers: 1,
//	})
//
//	if err := rc.AcquireBackground(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseBackground()
//
// # IO rate limiting
//
// A non-blocking token-bucket limiter. The background refresher draws
// tokens for each bin after re-reading it from storage and ignores the
// result, so the limiter neither delays nor skips refresh reads:
//
//	rc := resource.NewController(resource.Config{
//	    IOLimitBytesPerSec: 100 * 1024 * 1024,
//	})
//
//	if rc.TryAcquireIO(len(snapshotBytes)) {
//	    // proceed with the refresh read
//	}
//
// # Nil safety
//
// All methods handle a nil Controller gracefully by becoming no-ops. This
// lets binstore.Open leave engine.Config.Resources nil when no resource
// limits are configured, without nil checks at every call site.
package resource
