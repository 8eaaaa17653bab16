package engine

import (
	"sync"

	"github.com/hupe1980/binstore/internal/resource"
)

// kvPool is the write buffer: a mapping from on-disk key to payload,
// staged by Set and by n-gram index updates, drained unconditionally by
// Sync regardless of per-bin I/O outcome. It is not durable.
type kvPool struct {
	mu        sync.RWMutex
	entries   map[string]string
	resources *resource.Controller
}

func newKVPool(rc *resource.Controller) *kvPool {
	return &kvPool{
		entries:   make(map[string]string),
		resources: rc,
	}
}

// Set stages onDiskKey -> value, replacing any existing pending value.
func (p *kvPool) Set(onDiskKey, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if old, ok := p.entries[onDiskKey]; ok {
		p.resources.ReleaseMemory(int64(len(onDiskKey) + len(old)))
	}
	// Best effort: memory accounting never blocks staging a write, matching
	// the unbounded Java pool even when a caller opted into a memory limit.
	_ = p.resources.AcquireMemory(int64(len(onDiskKey) + len(value)))
	p.entries[onDiskKey] = value
}

// Get returns onDiskKey's pending value, if staged.
func (p *kvPool) Get(onDiskKey string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.entries[onDiskKey]
	return v, ok
}

// Delete discards onDiskKey's pending value, if staged. It reports whether
// an entry was present.
func (p *kvPool) Delete(onDiskKey string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	old, ok := p.entries[onDiskKey]
	if !ok {
		return false
	}
	p.resources.ReleaseMemory(int64(len(onDiskKey) + len(old)))
	delete(p.entries, onDiskKey)
	return true
}

// Snapshot returns a point-in-time copy of every pending entry.
func (p *kvPool) Snapshot() map[string]string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make(map[string]string, len(p.entries))
	for k, v := range p.entries {
		out[k] = v
	}
	return out
}

// Clear unconditionally discards every pending entry.
func (p *kvPool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for k, v := range p.entries {
		p.resources.ReleaseMemory(int64(len(k) + len(v)))
	}
	p.entries = make(map[string]string)
}
