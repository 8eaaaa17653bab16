// Package binstore provides a persistent, sharded key-value store keyed and
// valued by strings.
//
// Values are spread across a fixed number of shard files by a string hash,
// optionally protected against single-file corruption by XOR parity groups,
// and optionally indexed by 8-character n-grams so callers can look up keys
// by "*"-wildcard pattern instead of by exact match.
//
// # Quick start
//
//	store, err := binstore.Open("./data", binstore.WithBinCount(64))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close(context.Background())
//
//	store.Set(ctx, map[string]string{"customer:42": "alice"}, true)
//	store.Sync(ctx)
//
//	vals, _ := store.Get(ctx, []string{"customer:*"}) // {"customer:42": "alice"}
//
// # Durability model
//
// Set stages writes in memory; Sync is the only operation that persists
// them, one shard file at a time, and it discards the staged writes once
// every shard has been attempted regardless of whether any of them failed.
// Remove, by contrast, applies immediately under the affected shard's lock.
// Callers that need every write durable before continuing should call Sync
// and inspect the returned *engine.SyncReport.
//
// # Recovery
//
// When parity is enabled (WithParity), a damaged or checksum-mismatched
// shard is reconstructed on demand from its XOR parity group before a read
// or write retries. A shard that cannot be recovered after a bounded number
// of attempts surfaces as an *engine.RecoveryExhaustedError.
package binstore
