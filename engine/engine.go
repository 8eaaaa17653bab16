package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/binstore/cache"
	"github.com/hupe1980/binstore/ngram"
	"github.com/hupe1980/binstore/shard"
)

// Engine orchestrates the shard, parity, ngram and cache packages behind
// the Set/Get/Remove/Sync/TransferFrom contract.
type Engine struct {
	cfg Config

	writeBuffer *kvPool
	binLocks    lockTable
	parityLocks lockTable

	workers   *WorkerPool
	refresher *cache.Refresher
	closed    atomic.Bool
}

// New constructs an Engine over cfg. The storage directory is created if
// missing; if cfg.Cache is set and CacheUpdateCycle > 0, a background
// refresher starts immediately.
func New(cfg Config) (*Engine, error) {
	if cfg.Dir == "" {
		return nil, errors.New("engine: Dir is required")
	}
	if cfg.BinCount <= 0 {
		return nil, errors.New("engine: BinCount must be positive")
	}
	cfg.applyDefaults()
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = runtime.NumCPU()
	}

	if err := cfg.FileSystem.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("engine: create storage directory: %w", err)
	}

	e := &Engine{
		cfg:         cfg,
		writeBuffer: newKVPool(cfg.Resources),
		workers:     NewWorkerPool(cfg.WorkerCount),
	}

	if cfg.Cache != nil {
		if err := cache.LoadSidecar(cfg.FileSystem, cfg.CacheSidecarPath, cfg.Cache, cfg.Logger); err != nil {
			return nil, fmt.Errorf("engine: load cache sidecar: %w", err)
		}
		// Fill the sidecar's placeholder snapshots so reads never serve them.
		for _, bin := range cfg.Cache.Order() {
			if data, err := e.loadShardWithRecovery(bin); err == nil {
				cfg.Cache.Replace(bin, data)
			}
		}
		if cfg.CacheUpdateCycle > 0 {
			loader := func(_ context.Context, bin int) (map[string]string, error) {
				return e.loadShardWithRecovery(bin)
			}
			e.refresher = cache.NewRefresher(cfg.Cache, cfg.FileSystem, cfg.CacheSidecarPath, loader, cfg.CacheUpdateCycle, cfg.Logger, cfg.Resources)
			e.refresher.Start(context.Background())
		}
	}

	return e, nil
}

// Set stages key -> value pairs into KVPool. A wildcard key is expanded
// against currently resolvable keys and never stored literally; a
// wildcard with no current matches has no effect. When genNGram is true,
// non-wildcard target keys also get their n-gram index entries staged.
// Set never fails synchronously except when the engine is closed or ctx
// is already done.
func (e *Engine) Set(ctx context.Context, kv map[string]string, genNGram bool) error {
	if e.closed.Load() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for key, value := range kv {
		if isWildcard(key) {
			matches, err := e.resolveWildcard(key)
			if err != nil {
				e.cfg.Logger.Warn("set: wildcard resolution failed", "key", key, "error", err)
				continue
			}
			for _, mk := range matches {
				e.stageSet(mk, value, genNGram)
			}
			continue
		}
		e.stageSet(key, value, genNGram)
	}
	return nil
}

func (e *Engine) stageSet(key, value string, genNGram bool) {
	e.writeBuffer.Set(shard.OnDiskKey(shard.KeyVal, key), value)
	if !genNGram {
		return
	}
	for _, g := range ngram.Grams(key, ngram.Size) {
		e.mergeNGram(g, key)
	}
}

// mergeNGram merges key into gram's posting list, consulting KVPool before
// the shard, and always writing the merged list back to KVPool. Sync is
// the point that persists it.
func (e *Engine) mergeNGram(gram, key string) {
	onDiskKey := shard.OnDiskKey(shard.TrigRam, gram)

	var list ngram.PostingList
	if raw, ok := e.writeBuffer.Get(onDiskKey); ok {
		list = ngram.ParsePostingList(raw)
	} else {
		bin := binIndex(onDiskKey, e.cfg.BinCount)
		data, err := e.readShard(bin)
		if err != nil {
			e.cfg.Logger.Warn("set: failed to load posting list for merge", "gram", gram, "error", err)
		} else {
			list = ngram.ParsePostingList(data[onDiskKey])
		}
	}

	e.writeBuffer.Set(onDiskKey, list.Add(key).String())
}

// Get returns the found subset of keys -> values. A wildcard key expands
// to every currently matching stored key. Missing keys are silently
// absent from the result; per-shard I/O errors are logged. Resolved keys
// are looked up concurrently (bounded by Config.WorkerCount), so lookups
// landing on distinct bins proceed in parallel.
func (e *Engine) Get(ctx context.Context, keys []string) (map[string]string, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resolved := make([]string, 0, len(keys))
	for _, key := range keys {
		if isWildcard(key) {
			matches, err := e.resolveWildcard(key)
			if err != nil {
				e.cfg.Logger.Warn("get: wildcard resolution failed", "key", key, "error", err)
				continue
			}
			resolved = append(resolved, matches...)
			continue
		}
		resolved = append(resolved, key)
	}

	var mu sync.Mutex
	result := make(map[string]string, len(resolved))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.WorkerCount)
	for _, key := range resolved {
		key := key
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return nil
			default:
			}
			if v, ok := e.getOne(key); ok {
				mu.Lock()
				result[key] = v
				mu.Unlock()
			}
			return nil
		})
	}
	// getOne never returns an error itself (failures are logged and treated
	// as a miss), so Wait only surfaces context cancellation.
	if err := g.Wait(); err != nil {
		return result, err
	}
	return result, nil
}

func (e *Engine) getOne(key string) (string, bool) {
	onDiskKey := shard.OnDiskKey(shard.KeyVal, key)
	if v, ok := e.writeBuffer.Get(onDiskKey); ok {
		return v, true
	}

	bin := binIndex(onDiskKey, e.cfg.BinCount)
	data, err := e.readShard(bin)
	if err != nil {
		e.cfg.Logger.Warn("get: shard read failed", "key", key, "bin", bin, "error", err)
		return "", false
	}
	v, ok := data[onDiskKey]
	return v, ok
}

// Remove deletes value records and purges the keys from any matching
// posting lists, immediately (not staged in KVPool). A wildcard key
// expands to every currently matching stored key. Per-shard I/O errors
// are logged and do not abort the remaining keys. Resolved keys are
// removed concurrently (bounded by Config.WorkerCount); each removal is
// still serialized per bin by binLocks, so this only parallelizes work
// that lands on distinct bins.
func (e *Engine) Remove(ctx context.Context, keys []string) error {
	if e.closed.Load() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	resolved := make([]string, 0, len(keys))
	for _, key := range keys {
		if isWildcard(key) {
			matches, err := e.resolveWildcard(key)
			if err != nil {
				e.cfg.Logger.Warn("remove: wildcard resolution failed", "key", key, "error", err)
				continue
			}
			resolved = append(resolved, matches...)
			continue
		}
		resolved = append(resolved, key)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.WorkerCount)
	for _, key := range resolved {
		key := key
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return nil
			default:
			}
			e.removeOne(key)
			return nil
		})
	}
	// removeOne never returns an error itself (failures are logged), so
	// Wait only surfaces context cancellation.
	return g.Wait()
}

func (e *Engine) removeOne(key string) {
	onDiskKey := shard.OnDiskKey(shard.KeyVal, key)
	e.writeBuffer.Delete(onDiskKey)
	e.withBinLocked(binIndex(onDiskKey, e.cfg.BinCount), func(data map[string]string) bool {
		if _, ok := data[onDiskKey]; !ok {
			return false
		}
		delete(data, onDiskKey)
		return true
	})

	for _, g := range ngram.Grams(key, ngram.Size) {
		gramKey := shard.OnDiskKey(shard.TrigRam, g)

		// A pending merge staged by mergeNGram must be purged too: left in
		// place, it would survive this direct shard edit and get flushed
		// back onto disk by the next Sync.
		if raw, ok := e.writeBuffer.Get(gramKey); ok {
			list := ngram.ParsePostingList(raw).Remove(key)
			if len(list) == 0 {
				e.writeBuffer.Delete(gramKey)
			} else {
				e.writeBuffer.Set(gramKey, list.String())
			}
		}

		e.withBinLocked(binIndex(gramKey, e.cfg.BinCount), func(data map[string]string) bool {
			raw, ok := data[gramKey]
			if !ok {
				return false
			}
			list := ngram.ParsePostingList(raw).Remove(key)
			if len(list) == 0 {
				delete(data, gramKey)
			} else {
				data[gramKey] = list.String()
			}
			return true
		})
	}
}

// withBinLocked reads bin under its lock, hands the mutable map to fn, and
// writes it back only if fn reports a change.
func (e *Engine) withBinLocked(bin int, fn func(data map[string]string) (changed bool)) {
	unlock := e.binLocks.lock(bin)
	defer unlock()

	data, err := e.loadShardWithRecovery(bin)
	if err != nil {
		e.cfg.Logger.Warn("remove: shard read failed", "bin", bin, "error", err)
		return
	}
	if !fn(data) {
		return
	}
	if err := e.writeShardLocked(bin, data); err != nil {
		e.cfg.Logger.Warn("remove: shard write failed", "bin", bin, "error", err)
	}
}

// TransferFrom copies every value record from src into this engine's
// KVPool, generating n-gram entries if genNGram is true. Per-bin reads of
// src are farmed out to src's worker pool so that slow shard I/O on one
// bin does not stall the rest; TransferFrom itself still applies the
// results one bin at a time so KVPool staging stays single-threaded. It
// propagates the first I/O error encountered reading src.
func (e *Engine) TransferFrom(ctx context.Context, src *Engine, genNGram bool) error {
	if e.closed.Load() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	type binResult struct {
		bin  int
		data map[string]string
		err  error
	}

	results := make(chan binResult, src.cfg.BinCount)
	for bin := 0; bin < src.cfg.BinCount; bin++ {
		bin := bin
		task := func() {
			data, err := src.readShard(bin)
			results <- binResult{bin: bin, data: data, err: err}
		}
		if err := src.workers.Submit(ctx, task); err != nil {
			results <- binResult{bin: bin, err: err}
		}
	}

	pending := make(map[int]map[string]string, src.cfg.BinCount)
	var firstErr error
	for i := 0; i < src.cfg.BinCount; i++ {
		r := <-results
		if r.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("engine: transfer_from bin %d: %w", r.bin, r.err)
			}
			continue
		}
		pending[r.bin] = r.data
	}
	if firstErr != nil {
		return firstErr
	}

	for bin := 0; bin < src.cfg.BinCount; bin++ {
		for onDiskKey, value := range pending[bin] {
			ns, name, ok := shard.SplitOnDiskKey(onDiskKey)
			if !ok || ns != shard.KeyVal {
				continue
			}
			e.stageSet(name, value, genNGram)
		}
	}
	return nil
}

// Close stops the background cache refresher, waiting up to the context
// deadline (a 60-second budget by convention) for it to finish its current
// cycle. Close is idempotent; a second call returns ErrClosed.
func (e *Engine) Close(ctx context.Context) error {
	if !e.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	e.workers.Close()
	if e.refresher == nil {
		return nil
	}
	return e.refresher.Stop(ctx)
}
