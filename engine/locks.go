package engine

import (
	"fmt"
	"sync"
)

// lockTable lazily creates one *sync.Mutex per key, mirroring the Java
// ConcurrentHashMap<Integer,Object>/ConcurrentHashMap<String,Object>
// pattern used for per-bin and per-parity-group locking.
type lockTable struct {
	m sync.Map // key -> *sync.Mutex
}

func (t *lockTable) lock(key any) func() {
	v, _ := t.m.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func parityLockKey(start, end int) string {
	return fmt.Sprintf("%d:%d", start, end)
}
