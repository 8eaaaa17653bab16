package shard

import "hash/crc32"

// crc32Table is the IEEE polynomial table, matching java.util.zip.CRC32 so
// files written by this package and by a JVM implementation of the same
// format checksum identically.
var crc32Table = crc32.MakeTable(crc32.IEEE)

// checksum returns the decimal CRC32 (IEEE) of data.
func checksum(data []byte) uint32 {
	return crc32.Checksum(data, crc32Table)
}
