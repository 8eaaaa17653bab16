package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/hupe1980/binstore/internal/fs"
)

// Dump tars and zstd-compresses every shard and parity file directly under
// dir into a single archive written to out. It does not recurse into
// subdirectories; the storage layout has none.
func Dump(fsys fs.FileSystem, dir, out string) error {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("archive: read dir: %w", err)
	}

	dst, err := fsys.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("archive: create %s: %w", out, err)
	}

	if err := dumpTo(fsys, dir, entries, dst); err != nil {
		dst.Close()
		fsys.Remove(out) // don't leave a truncated, unreadable archive behind
		return err
	}
	return dst.Close()
}

func dumpTo(fsys fs.FileSystem, dir string, entries []os.DirEntry, dst fs.File) error {
	enc, err := zstd.NewWriter(dst)
	if err != nil {
		return fmt.Errorf("archive: create compressor: %w", err)
	}
	defer enc.Close()

	tw := tar.NewWriter(enc)
	defer tw.Close()

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := addFile(fsys, dir, entry.Name(), tw); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("archive: finalize tar: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("archive: finalize compressor: %w", err)
	}
	return dst.Sync()
}

func addFile(fsys fs.FileSystem, dir, name string, tw *tar.Writer) error {
	path := dir + string(os.PathSeparator) + name
	f, err := fsys.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return fmt.Errorf("archive: open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("archive: stat %s: %w", path, err)
	}

	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("archive: header for %s: %w", path, err)
	}
	hdr.Name = name

	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("archive: write header for %s: %w", path, err)
	}
	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("archive: copy %s: %w", path, err)
	}
	return nil
}

// Restore extracts the archive at in into dir, overwriting any existing
// files with matching names. dir is created if missing.
func Restore(fsys fs.FileSystem, in, dir string) error {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("archive: create %s: %w", dir, err)
	}

	src, err := fsys.OpenFile(in, os.O_RDONLY, 0)
	if err != nil {
		return fmt.Errorf("archive: open %s: %w", in, err)
	}
	defer src.Close()

	dec, err := zstd.NewReader(src)
	if err != nil {
		return fmt.Errorf("archive: create decompressor: %w", err)
	}
	defer dec.Close()

	tr := tar.NewReader(dec)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("archive: read tar entry: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		if err := restoreFile(fsys, dir, hdr, tr); err != nil {
			return err
		}
	}
}

func restoreFile(fsys fs.FileSystem, dir string, hdr *tar.Header, r io.Reader) error {
	path := dir + string(os.PathSeparator) + hdr.Name
	f, err := fsys.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(hdr.Mode))
	if err != nil {
		return fmt.Errorf("archive: create %s: %w", path, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		fsys.Remove(path) // a half-written shard would masquerade as a valid, short one
		return fmt.Errorf("archive: write %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		fsys.Remove(path)
		return fmt.Errorf("archive: sync %s: %w", path, err)
	}
	return f.Close()
}
