package ngram

import "strings"

// PostingList is the comma-joined list of user keys sharing one 8-gram,
// stored under the TRIGRM namespace. Order is insertion order; a key
// appears at most once.
type PostingList []string

// ParsePostingList decodes the on-disk comma-joined representation.
func ParsePostingList(raw string) PostingList {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	list := make(PostingList, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			list = append(list, p)
		}
	}
	return list
}

// String encodes the list back to its comma-joined on-disk form.
func (p PostingList) String() string {
	return strings.Join(p, ",")
}

// Contains reports whether key is already present.
func (p PostingList) Contains(key string) bool {
	for _, k := range p {
		if k == key {
			return true
		}
	}
	return false
}

// Add appends key if it is not already present, preserving insertion order.
func (p PostingList) Add(key string) PostingList {
	if p.Contains(key) {
		return p
	}
	return append(p, key)
}

// Remove drops key if present, preserving the order of the rest.
func (p PostingList) Remove(key string) PostingList {
	out := make(PostingList, 0, len(p))
	for _, k := range p {
		if k != key {
			out = append(out, k)
		}
	}
	return out
}
