// Package engine implements the storage engine at the heart of binstore:
// bin addressing, the write buffer (KVPool), and the Set/Get/Remove/Sync/
// TransferFrom façade tying the shard, parity, ngram and cache packages
// together.
//
// # Bin addressing
//
// Every on-disk key (a namespace-prefixed user key or n-gram) hashes to a
// bin index in [0, binCount) via a polynomial hash, see [binIndex]. Value
// records and posting-list records for the same user key generally land in
// different bins; collisions within a bin are resolved by the shard's own
// key map.
//
// # Mutation pipeline
//
// Set only stages work into the KVPool; none of its writes reach a shard
// file until Sync runs. Remove is not staged: it edits the affected shard
// files directly, under each bin's lock. Sync groups pending on-disk keys by bin, acquires each
// bin's lock, reads-merges-writes that shard, refreshes the bin's parity
// group, and unconditionally drains the KVPool once every bin has been
// processed, whether or not that bin's write succeeded.
//
// # Locking
//
// A lazily created per-bin *sync.Mutex serializes read-modify-write cycles
// on one shard; a per-parity-group mutex, keyed by (start,end), serializes
// XOR update/recovery on one parity file. Bin locks are always acquired
// before a parity lock, never the reverse.
package engine
