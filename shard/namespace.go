package shard

import "strings"

// Namespace distinguishes value records from n-gram posting-list records
// sharing the same bin files.
type Namespace string

const (
	// KeyVal namespaces a user key -> user value record.
	KeyVal Namespace = "KEYVAL"
	// TrigRam namespaces an 8-gram -> comma-joined posting list record.
	TrigRam Namespace = "TRIGRM"
)

// Separator joins a namespace to a name to form the on-disk key.
const Separator = "~"

// OnDiskKey builds the on-disk key for a name within ns.
func OnDiskKey(ns Namespace, name string) string {
	return string(ns) + Separator + name
}

// SplitOnDiskKey reverses OnDiskKey, splitting at the first Separator.
func SplitOnDiskKey(onDiskKey string) (ns Namespace, name string, ok bool) {
	idx := strings.Index(onDiskKey, Separator)
	if idx < 0 {
		return "", "", false
	}
	return Namespace(onDiskKey[:idx]), onDiskKey[idx+len(Separator):], true
}
