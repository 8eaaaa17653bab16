// Package shard implements the on-disk record format and per-bin storage
// file used by the engine: a checksummed text file holding sorted
// "<key>":"<value>"; records under two namespaces, KEYVAL (user values) and
// TRIGRM (n-gram posting lists).
//
// A shard file's first line is the decimal CRC32 (IEEE polynomial, matching
// java.util.zip.CRC32) of the data section; this package never chooses its
// own line separator for that checksum, it always uses "\n" so files are
// byte-identical regardless of the host platform.
package shard
