package engine

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/binstore/internal/fs"
	"github.com/hupe1980/binstore/shard"
)

func TestSyncReportTracksTouchedBins(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 4)

	require.NoError(t, e.Set(ctx, map[string]string{"a": "1", "b": "2", "c": "3"}, false))
	report, err := e.Sync(ctx)
	require.NoError(t, err)
	require.False(t, report.HasErrors())
	require.NotEmpty(t, report.Touched)
	require.Empty(t, report.Failures)
}

func TestSyncClearsWriteBufferEvenOnFailure(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	faulty := fs.NewFaultyFS(fs.Default)
	faulty.AddRule("storageBin_", fs.Fault{FailAfterBytes: 0})

	e, err := New(Config{Dir: dir, BinCount: 2, FileSystem: faulty})
	require.NoError(t, err)
	defer e.Close(ctx)

	require.NoError(t, e.Set(ctx, map[string]string{"a": "1", "b": "2"}, false))
	report, err := e.Sync(ctx)
	require.NoError(t, err)
	require.True(t, report.HasErrors())
	require.NotEmpty(t, report.Error())

	require.Empty(t, e.writeBuffer.Snapshot())
}

func TestSyncMergesWithExistingShardContents(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 2)

	require.NoError(t, e.Set(ctx, map[string]string{"a": "1"}, false))
	_, err := e.Sync(ctx)
	require.NoError(t, err)

	require.NoError(t, e.Set(ctx, map[string]string{"b": "2"}, false))
	_, err = e.Sync(ctx)
	require.NoError(t, err)

	got, err := e.Get(ctx, []string{"a", "b"})
	require.NoError(t, err)
	require.Equal(t, map[string]string{"a": "1", "b": "2"}, got)
}

func TestNamespaceSplitRoundTrip(t *testing.T) {
	onDiskKey := shard.OnDiskKey(shard.KeyVal, "user:42")
	ns, name, ok := shard.SplitOnDiskKey(onDiskKey)
	require.True(t, ok)
	require.Equal(t, shard.KeyVal, ns)
	require.Equal(t, "user:42", name)
}

func TestSyncReportErrorLogsAllFailures(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	report := newSyncReport()
	report.recordFailure(0, os.ErrClosed)
	report.recordFailure(1, os.ErrClosed)
	require.True(t, report.HasErrors())
	require.Contains(t, report.Error(), "bin 0")
	require.Contains(t, report.Error(), "bin 1")
}
