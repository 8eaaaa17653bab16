package parity

import (
	"github.com/hupe1980/binstore/internal/fs"
	"github.com/hupe1980/binstore/shard"
)

// Update recomputes the parity file for g from its currently existing
// member shard files. Called after any successful write to a bin in g.
func Update(fsys fs.FileSystem, dir string, g Group) error {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	srcs := make([]string, 0, g.End-g.Start+1)
	for _, bin := range g.Bins() {
		srcs = append(srcs, shard.Path(dir, bin))
	}
	return XOR(fsys, Path(dir, g), srcs)
}

// Recover reconstructs bin's shard file by XORing the parity file of g with
// every other currently existing member shard file, then writes the result
// to bin's shard path.
func Recover(fsys fs.FileSystem, dir string, bin int, g Group) error {
	if _, err := fsys.Stat(Path(dir, g)); err != nil {
		return err
	}

	srcs := make([]string, 0, g.End-g.Start+1)
	srcs = append(srcs, Path(dir, g))
	for _, b := range g.Bins() {
		if b == bin {
			continue
		}
		srcs = append(srcs, shard.Path(dir, b))
	}
	return XOR(fsys, shard.Path(dir, bin), srcs)
}
