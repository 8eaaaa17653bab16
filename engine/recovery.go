package engine

import (
	"github.com/hupe1980/binstore/parity"
	"github.com/hupe1980/binstore/shard"
)

// readShard returns bin's contents, consulting the cache before touching
// storage. It is only safe for read-only lookups; the read-modify-write
// path (Remove, Sync) must call loadShardWithRecovery directly under the
// bin lock instead, to avoid acting on a stale cached snapshot.
func (e *Engine) readShard(bin int) (map[string]string, error) {
	if e.cfg.Cache != nil {
		if snap, ok := e.cfg.Cache.Get(bin); ok {
			return snap, nil
		}
	}

	data, err := e.loadShardWithRecovery(bin)
	if err != nil {
		return nil, err
	}
	if e.cfg.Cache != nil {
		e.cfg.Cache.Put(bin, data)
	}
	return data, nil
}

// loadShardWithRecovery reads bin's shard file, invoking parity recovery
// and retrying on failure (up to MaxRecoveryCount times) when parity is
// enabled. Callers holding bin's lock should call this directly.
func (e *Engine) loadShardWithRecovery(bin int) (map[string]string, error) {
	var lastErr error
	for attempt := 0; attempt <= MaxRecoveryCount; attempt++ {
		data, err := shard.Read(e.cfg.FileSystem, e.cfg.Dir, bin, e.cfg.EnableParity)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !e.cfg.EnableParity {
			return nil, err
		}
		if attempt == MaxRecoveryCount {
			break
		}
		e.recoverBin(bin)
	}
	e.cfg.Logger.Error("recovery exhausted on read", "bin", bin, "error", lastErr)
	return nil, &RecoveryExhaustedError{Bin: bin, Cause: lastErr}
}

// writeShardLocked writes bin's full contents and, when parity is enabled,
// refreshes the parity group and retries the write (via recovery) up to
// MaxRecoveryCount times on failure. Callers must already hold bin's lock.
func (e *Engine) writeShardLocked(bin int, data map[string]string) error {
	var lastErr error
	for attempt := 0; attempt <= MaxRecoveryCount; attempt++ {
		err := shard.Write(e.cfg.FileSystem, e.cfg.Dir, bin, data)
		if err == nil {
			if e.cfg.EnableParity {
				group := parity.GroupFor(bin, e.cfg.ParityGroupSize)
				unlock := e.parityLocks.lock(parityLockKey(group.Start, group.End))
				perr := parity.Update(e.cfg.FileSystem, e.cfg.Dir, group)
				unlock()
				if perr != nil {
					e.cfg.Logger.Error("parity update failed", "bin", bin, "error", perr)
					return perr
				}
			}
			if e.cfg.Cache != nil {
				// data is bin's full authoritative contents post-write, not
				// an incremental addition: Replace so keys removed since the
				// last cache fill don't linger in the cached snapshot.
				e.cfg.Cache.Replace(bin, data)
			}
			return nil
		}

		lastErr = err
		if !e.cfg.EnableParity {
			return err
		}
		if attempt == MaxRecoveryCount {
			break
		}
		e.recoverBin(bin)
	}
	e.cfg.Logger.Error("recovery exhausted on write", "bin", bin, "error", lastErr)
	return &RecoveryExhaustedError{Bin: bin, Cause: lastErr}
}

// recoverBin regenerates bin's shard file from its parity group, holding
// the group's lock for the duration of the XOR. Failures are logged and
// swallowed: the caller's retry loop will simply fail again on the next
// read/write attempt and eventually surface RecoveryExhaustedError.
func (e *Engine) recoverBin(bin int) {
	group := parity.GroupFor(bin, e.cfg.ParityGroupSize)
	unlock := e.parityLocks.lock(parityLockKey(group.Start, group.End))
	defer unlock()

	if err := parity.Recover(e.cfg.FileSystem, e.cfg.Dir, bin, group); err != nil {
		e.cfg.Logger.Warn("parity recovery attempt failed", "bin", bin, "group", group, "error", err)
	}
}
