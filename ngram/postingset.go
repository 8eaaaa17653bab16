package ngram

import "github.com/RoaringBitmap/roaring/v2"

// PostingSet is an in-memory roaring-bitmap view of a PostingList, used
// only to accelerate wildcard intersection. It never touches the on-disk
// representation directly.
type PostingSet struct {
	bitmap   *roaring.Bitmap
	interner *Interner
}

// NewPostingSet builds a PostingSet from list, interning each key against
// interner.
func NewPostingSet(interner *Interner, list PostingList) *PostingSet {
	bm := roaring.New()
	for _, key := range list {
		bm.Add(interner.Intern(key))
	}
	return &PostingSet{bitmap: bm, interner: interner}
}

// And intersects ps with other in place and returns ps.
func (ps *PostingSet) And(other *PostingSet) *PostingSet {
	ps.bitmap.And(other.bitmap)
	return ps
}

// Len returns the number of candidates currently in the set.
func (ps *PostingSet) Len() uint64 {
	return ps.bitmap.GetCardinality()
}

// Keys returns the resolved user keys currently in the set.
func (ps *PostingSet) Keys() []string {
	ids := ps.bitmap.ToArray()
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := ps.interner.Lookup(id); ok {
			keys = append(keys, name)
		}
	}
	return keys
}
