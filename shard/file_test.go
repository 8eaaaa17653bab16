package shard

import (
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/binstore/internal/fs"
)

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	data := map[string]string{
		OnDiskKey(KeyVal, "alpha"): "1",
		OnDiskKey(KeyVal, "beta"):  "2",
	}
	require.NoError(t, Write(fs.Default, dir, 0, data))

	got, err := Read(fs.Default, dir, 0, true)
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestReadMissingFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	got, err := Read(fs.Default, dir, 3, true)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestReadDetectsChecksumMismatch(t *testing.T) {
	dir := t.TempDir()
	data := map[string]string{OnDiskKey(KeyVal, "k"): "v"}
	require.NoError(t, Write(fs.Default, dir, 0, data))

	path := Path(dir, 0)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	raw[len(raw)-2] = 'X' // corrupt the record's trailing ';'
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	_, err = Read(fs.Default, dir, 0, true)
	require.True(t, IsChecksumMismatch(err), "expected checksum mismatch, got %v", err)
}

func TestReadIgnoresChecksumMismatchWhenParityDisabled(t *testing.T) {
	dir := t.TempDir()
	data := map[string]string{OnDiskKey(KeyVal, "k"): "v"}
	require.NoError(t, Write(fs.Default, dir, 0, data))

	path := Path(dir, 0)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	raw[len(raw)-4] = 'X' // corrupt the value byte itself, leaving `":"X";` parseable
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	got, err := Read(fs.Default, dir, 0, false)
	require.NoError(t, err)
	require.Equal(t, map[string]string{OnDiskKey(KeyVal, "k"): "X"}, got)
}

func TestReadEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := Path(dir, 0)
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

	_, err := Read(fs.Default, dir, 0, true)
	require.ErrorIs(t, err, ErrEmptyFile)
}

func TestReadSkipsMalformedAndCommentLines(t *testing.T) {
	dir := t.TempDir()
	path := Path(dir, 0)
	body := "// comment\n\"good\":\"line\";\nmalformed\n"
	sum := checksum([]byte("\"good\":\"line\";\nmalformed\n"))
	content := strconv.FormatUint(uint64(sum), 10) + "\n" + body
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := Read(fs.Default, dir, 0, true)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"good": "line"}, got)
}
