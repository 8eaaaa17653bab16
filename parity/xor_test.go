package parity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/binstore/internal/fs"
	"github.com/hupe1980/binstore/shard"
)

func TestXORUnequalLengths(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	require.NoError(t, os.WriteFile(a, []byte{0x0F, 0xF0, 0xAA}, 0o644))
	require.NoError(t, os.WriteFile(b, []byte{0xFF}, 0o644))

	dst := filepath.Join(dir, "out")
	require.NoError(t, XOR(fs.Default, dst, []string{a, b}))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, []byte{0xF0, 0xF0, 0xAA}, got)
}

func TestXORMissingSourceIsZero(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	missing := filepath.Join(dir, "does-not-exist")
	require.NoError(t, os.WriteFile(a, []byte{0x01, 0x02}, 0o644))

	dst := filepath.Join(dir, "out")
	require.NoError(t, XOR(fs.Default, dst, []string{a, missing}))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x02}, got)
}

func TestUpdateRecoverRoundTrip(t *testing.T) {
	dir := t.TempDir()
	g := Group{Start: 0, End: 1}

	require.NoError(t, os.WriteFile(shard.Path(dir, 0), []byte("shard-zero-contents"), 0o644))
	require.NoError(t, os.WriteFile(shard.Path(dir, 1), []byte("shard-one!!"), 0o644))

	require.NoError(t, Update(fs.Default, dir, g))

	original, err := os.ReadFile(shard.Path(dir, 0))
	require.NoError(t, err)

	require.NoError(t, os.Remove(shard.Path(dir, 0)))
	require.NoError(t, Recover(fs.Default, dir, 0, g))

	recovered, err := os.ReadFile(shard.Path(dir, 0))
	require.NoError(t, err)
	require.Equal(t, original, recovered)
}
