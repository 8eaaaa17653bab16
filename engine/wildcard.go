package engine

import (
	"strings"

	"github.com/hupe1980/binstore/ngram"
	"github.com/hupe1980/binstore/shard"
)

func isWildcard(key string) bool {
	return strings.Contains(key, ngram.WildcardChar)
}

// resolveWildcard expands query q into the set of currently stored user
// keys whose 8-grams (skipping any containing WildcardChar) all appear in
// the query's candidate posting lists. It consults KVPool before shards,
// exactly like an ordinary posting-list lookup, and applies the same
// intersection short-circuit as ngram.Resolve.
func (e *Engine) resolveWildcard(q string) ([]string, error) {
	grams := ngram.Grams(q, ngram.Size)
	if len(grams) == 0 {
		return nil, nil
	}

	interner := ngram.NewInterner()
	sets := make([]*ngram.PostingSet, 0, len(grams))
	for _, g := range grams {
		onDiskKey := shard.OnDiskKey(shard.TrigRam, g)

		raw, found := e.writeBuffer.Get(onDiskKey)
		if !found {
			bin := binIndex(onDiskKey, e.cfg.BinCount)
			data, err := e.readShard(bin)
			if err != nil {
				e.cfg.Logger.Warn("wildcard resolution failed to load posting list", "gram", g, "error", err)
				continue
			}
			raw, found = data[onDiskKey]
		}
		// A gram with no posting record at all is skipped rather than
		// treated as an empty candidate set: an absent record carries no
		// information, unlike a present-but-empty one (which cannot occur
		// under the posting-list invariant, but would legitimately zero
		// the intersection if it did).
		if !found {
			continue
		}
		list := ngram.ParsePostingList(raw)
		sets = append(sets, ngram.NewPostingSet(interner, list))
	}

	return ngram.Resolve(sets), nil
}
