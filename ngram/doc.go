// Package ngram generates 8-character n-grams from keys and resolves
// wildcard queries by intersecting the posting lists of a query's
// non-wildcard 8-grams. Posting lists are interned to uint32 key IDs and
// held as roaring bitmaps so intersection during wildcard resolution is a
// bitmap AND rather than a linear retainAll over string slices; the
// on-disk representation stays the plain comma-joined string list the
// shard codec expects.
package ngram
