package parity

import (
	"io"
	"os"

	"github.com/hupe1980/binstore/internal/fs"
)

const xorBufferSize = 4096

// XOR writes to dst the bytewise XOR of srcs, treating a source that does
// not exist as entirely zero (it contributes nothing) and treating missing
// trailing bytes of a shorter existing source as zero. The output length is
// the maximum length among existing sources. Every opened source is closed
// on every exit path.
func XOR(fsys fs.FileSystem, dst string, srcs []string) error {
	readers := make([]fs.File, len(srcs))
	alive := make([]bool, len(srcs))
	defer func() {
		for _, r := range readers {
			if r != nil {
				r.Close()
			}
		}
	}()

	for i, src := range srcs {
		f, err := fsys.OpenFile(src, os.O_RDONLY, 0)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		readers[i] = f
		alive[i] = true
	}

	out, err := fsys.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	buf := make([]byte, xorBufferSize)
	acc := make([]byte, xorBufferSize)

	for {
		maxN := 0
		anyAlive := false
		for i, ok := range alive {
			if !ok {
				continue
			}
			anyAlive = true

			n, rerr := io.ReadFull(readers[i], buf)
			if rerr != nil && rerr != io.ErrUnexpectedEOF && rerr != io.EOF {
				return rerr
			}
			if n > maxN {
				maxN = n
			}
			for j := 0; j < n; j++ {
				acc[j] ^= buf[j]
			}
			if rerr == io.EOF || rerr == io.ErrUnexpectedEOF {
				alive[i] = false
			}
		}
		if !anyAlive || maxN == 0 {
			break
		}
		if _, err := out.Write(acc[:maxN]); err != nil {
			return err
		}
		for j := 0; j < maxN; j++ {
			acc[j] = 0
		}
	}

	return out.Sync()
}
