// Package parity implements XOR-based recovery groups over consecutive
// runs of shard files: a parity file spanning bins [start, end] is the
// bytewise XOR of its member shard files, so any single missing or
// unreadable member can be reconstructed from the parity file and the
// remaining members.
package parity
