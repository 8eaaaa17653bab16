package archive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/binstore/internal/fs"
)

func TestDumpRestoreRoundTrip(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "storageBin_0.dat"), []byte("42\n\"a\":\"1\";\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "storageBin_1.dat"), []byte("7\n\"b\":\"2\";\n"), 0o644))

	out := filepath.Join(t.TempDir(), "backup.tar.zst")
	require.NoError(t, Dump(fs.Default, src, out))

	info, err := os.Stat(out)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))

	dst := t.TempDir()
	require.NoError(t, Restore(fs.Default, out, dst))

	got0, err := os.ReadFile(filepath.Join(dst, "storageBin_0.dat"))
	require.NoError(t, err)
	require.Equal(t, "42\n\"a\":\"1\";\n", string(got0))

	got1, err := os.ReadFile(filepath.Join(dst, "storageBin_1.dat"))
	require.NoError(t, err)
	require.Equal(t, "7\n\"b\":\"2\";\n", string(got1))
}

func TestRestoreCreatesMissingDir(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "storageBin_0.dat"), []byte("data"), 0o644))

	out := filepath.Join(t.TempDir(), "backup.tar.zst")
	require.NoError(t, Dump(fs.Default, src, out))

	dst := filepath.Join(t.TempDir(), "nested", "restore-target")
	require.NoError(t, Restore(fs.Default, out, dst))

	_, err := os.Stat(filepath.Join(dst, "storageBin_0.dat"))
	require.NoError(t, err)
}
