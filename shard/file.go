package shard

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/hupe1980/binstore/internal/fs"
)

// Path returns the shard file path for bin within dir.
func Path(dir string, bin int) string {
	return fmt.Sprintf("%s/storageBin_%d.dat", dir, bin)
}

// Read loads all records from bin's shard file. A missing file yields an
// empty map and a nil error, matching the file-missing-is-empty policy. An
// existing file with no checksum header returns ErrEmptyFile. Malformed
// data lines are silently skipped; only a well-formed checksum header is
// required for a read to succeed.
//
// The checksum is only recomputed and verified when enableParity is true,
// matching the original: with parity disabled there is no recovery path to
// invoke on a mismatch, so the data lines are parsed as-is and a corrupted
// value is simply returned corrupted rather than rejected outright.
func Read(fsys fs.FileSystem, dir string, bin int, enableParity bool) (map[string]string, error) {
	path := Path(dir, bin)

	f, err := fsys.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	defer f.Close()

	var header string
	var dataLines []string

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if isIgnorable(line) {
			continue
		}
		if header == "" {
			header = line
			continue
		}
		dataLines = append(dataLines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if header == "" {
		return nil, ErrEmptyFile
	}

	if enableParity {
		want, err := strconv.ParseUint(header, 10, 32)
		if err != nil {
			return nil, ErrEmptyFile
		}

		var buf strings.Builder
		for _, l := range dataLines {
			buf.WriteString(l)
			buf.WriteByte('\n')
		}
		got := checksum([]byte(buf.String()))
		if uint32(want) != got {
			return nil, &ChecksumMismatchError{Bin: bin, Path: path, Want: uint32(want), Got: got}
		}
	} else if _, err := strconv.ParseUint(header, 10, 32); err != nil {
		return nil, ErrEmptyFile
	}

	records := make(map[string]string, len(dataLines))
	for _, l := range dataLines {
		key, value, ok := ParseLine(l)
		if !ok {
			continue
		}
		records[key] = value
	}
	return records, nil
}

// Write serializes data as sorted "<key>":"<value>"; lines, computes their
// CRC32, and writes the checksum header followed by the data section to
// bin's shard file, creating dir if necessary.
func Write(fsys fs.FileSystem, dir string, bin int, data map[string]string) error {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var body strings.Builder
	for _, k := range keys {
		body.Write(EncodeLine(k, data[k]))
	}
	sum := checksum([]byte(body.String()))

	path := Path(dir, bin)
	f, err := fsys.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.WriteString(f, strconv.FormatUint(uint64(sum), 10)+"\n"); err != nil {
		return err
	}
	if _, err := io.WriteString(f, body.String()); err != nil {
		return err
	}
	return f.Sync()
}
