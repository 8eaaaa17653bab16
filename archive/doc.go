// Package archive tars and zstd-compresses a storage directory for offline
// backup, and restores one back onto disk. It never touches the network;
// the source and destination are always local paths.
package archive
