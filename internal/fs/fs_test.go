package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS(t *testing.T) {
	tmp := t.TempDir()
	lfs := LocalFS{}

	dir := filepath.Join(tmp, "subdir")
	assert.NoError(t, lfs.MkdirAll(dir, 0755))

	fpath := filepath.Join(dir, "test.txt")
	f, err := lfs.OpenFile(fpath, os.O_CREATE|os.O_RDWR, 0644)
	require.NoError(t, err)

	_, err = f.Write([]byte("hello"))
	assert.NoError(t, err)
	assert.NoError(t, f.Sync())

	info, err := f.Stat()
	assert.NoError(t, err)
	assert.Equal(t, int64(5), info.Size())
	assert.NoError(t, f.Close())

	info2, err := lfs.Stat(fpath)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), info2.Size())

	entries, err := lfs.ReadDir(dir)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)

	newPath := filepath.Join(dir, "renamed.txt")
	assert.NoError(t, lfs.Rename(fpath, newPath))

	assert.NoError(t, lfs.Truncate(newPath, 3))
	info3, err := lfs.Stat(newPath)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), info3.Size())

	assert.NoError(t, lfs.Remove(newPath))
	_, err = lfs.Stat(newPath)
	assert.True(t, os.IsNotExist(err))
}

func TestFaultyFSFailAfterBytes(t *testing.T) {
	tmp := t.TempDir()
	ffs := NewFaultyFS(LocalFS{})
	fpath := filepath.Join(tmp, "faulty.txt")
	ffs.AddRule("faulty.txt", Fault{FailAfterBytes: 5})

	f, err := ffs.OpenFile(fpath, os.O_CREATE|os.O_RDWR, 0644)
	require.NoError(t, err)

	n, err := f.Write([]byte("hello"))
	assert.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = f.Write([]byte("!"))
	assert.Error(t, err)
	assert.Equal(t, 0, n)
	assert.NoError(t, f.Close())
}

func TestFaultyFSFailOnSyncAndClose(t *testing.T) {
	tmp := t.TempDir()
	ffs := NewFaultyFS(LocalFS{})
	fpath := filepath.Join(tmp, "storageBin_0.dat")
	ffs.AddRule("storageBin_", Fault{FailOnSync: true, FailOnClose: true})

	f, err := ffs.OpenFile(fpath, os.O_CREATE|os.O_RDWR, 0644)
	require.NoError(t, err)

	assert.Error(t, f.Sync())
	assert.Error(t, f.Close())
}

func TestFaultyFSDelegatesUnruledOperations(t *testing.T) {
	tmp := t.TempDir()
	ffs := NewFaultyFS(LocalFS{})

	dir := filepath.Join(tmp, "subdir")
	assert.NoError(t, ffs.MkdirAll(dir, 0755))

	fpath := filepath.Join(dir, "test.txt")
	f, _ := LocalFS{}.OpenFile(fpath, os.O_CREATE, 0644)
	f.Close()
	assert.NoError(t, ffs.Truncate(fpath, 10))

	_, err := ffs.ReadDir(dir)
	assert.NoError(t, err)

	assert.NoError(t, ffs.Remove(fpath))
}
