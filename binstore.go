package binstore

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/binstore/engine"
	"github.com/hupe1980/binstore/internal/resource"
	"github.com/hupe1980/binstore/ngram"
)

// Store is a persistent, sharded key-value store. It wraps an *engine.Engine
// with option application, metrics collection, structured logging, and
// public error translation.
type Store struct {
	engine  *engine.Engine
	logger  *Logger
	metrics MetricsCollector
}

// Open opens (creating if necessary) a store rooted at dir. B (the bin
// count) must be set via WithBinCount; Open fails otherwise.
func Open(dir string, optFns ...Option) (*Store, error) {
	o := applyOptions(optFns)
	if o.binCount <= 0 {
		return nil, fmt.Errorf("binstore: WithBinCount must set a positive bin count")
	}

	cfg := engine.Config{
		Dir:              dir,
		BinCount:         o.binCount,
		EnableParity:     o.enableParity,
		ParityGroupSize:  o.parityGroupSize,
		WorkerCount:      o.workerCount,
		FileSystem:       o.fileSystem,
		Logger:           o.logger.Logger,
		Cache:            o.newCache(),
		CacheSidecarPath: o.cacheSidecarPath,
		CacheUpdateCycle: o.cacheUpdateCycle,
	}
	if o.resources != (resource.Config{}) {
		cfg.Resources = resource.NewController(o.resources)
	}

	e, err := engine.New(cfg)
	if err != nil {
		return nil, translateError(err)
	}

	return &Store{
		engine:  e,
		logger:  o.logger,
		metrics: o.metricsCollector,
	}, nil
}

// Set stages key -> value pairs for the next Sync. A wildcard key ("*"
// anywhere in it) is expanded against currently matching stored keys
// instead of being stored literally. When genNGram is true, non-wildcard
// keys also get 8-gram index entries generated for later wildcard lookup.
func (s *Store) Set(ctx context.Context, kv map[string]string, genNGram bool) error {
	start := time.Now()
	err := s.engine.Set(ctx, kv, genNGram)
	s.logger.LogSet(ctx, len(kv), err)
	s.metrics.RecordSet(len(kv), time.Since(start), err)
	return translateError(err)
}

// Get returns the found subset of keys -> values. A wildcard key expands to
// every currently matching stored key.
func (s *Store) Get(ctx context.Context, keys []string) (map[string]string, error) {
	start := time.Now()
	result, err := s.engine.Get(ctx, keys)
	s.logger.LogGet(ctx, len(keys), len(result))
	s.metrics.RecordGet(len(keys), len(result), time.Since(start), err)
	return result, translateError(err)
}

// Remove deletes value records and purges the keys from any matching
// n-gram posting lists, applying immediately rather than waiting for Sync.
func (s *Store) Remove(ctx context.Context, keys []string) error {
	start := time.Now()
	err := s.engine.Remove(ctx, keys)
	s.logger.LogRemove(ctx, len(keys), err)
	s.metrics.RecordRemove(len(keys), time.Since(start), err)
	return translateError(err)
}

// Sync flushes every staged Set to its shard file, grouped by destination
// bin. Every bin is attempted regardless of another bin's failure; the
// staged writes are discarded unconditionally once every bin has been
// attempted. Inspect the returned report to find out which bins failed.
func (s *Store) Sync(ctx context.Context) (*engine.SyncReport, error) {
	start := time.Now()
	report, err := s.engine.Sync(ctx)
	touched, failed := 0, 0
	if report != nil {
		touched, failed = len(report.Touched), len(report.Failures)
	}
	s.logger.LogSync(ctx, touched, failed, err)
	s.metrics.RecordSync(touched, failed, time.Since(start), err)
	if err != nil {
		return report, translateError(err)
	}
	return report, nil
}

// TransferFrom copies every value record out of src into this store,
// generating n-gram index entries for each if genNGram is true. The
// records are staged, not persisted; call Sync afterward to make the
// transfer durable.
func (s *Store) TransferFrom(ctx context.Context, src *Store, genNGram bool) error {
	return translateError(s.engine.TransferFrom(ctx, src.engine, genNGram))
}

// Close stops any background cache refresher and releases resources. Close
// is idempotent.
func (s *Store) Close(ctx context.Context) error {
	return translateError(s.engine.Close(ctx))
}

// DefaultNGramSize is the sliding-window width used to generate wildcard
// index entries, exposed for callers that want to precompute candidate
// grams for a key outside of Set.
const DefaultNGramSize = ngram.Size
