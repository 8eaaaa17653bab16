package binstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenRequiresBinCount(t *testing.T) {
	_, err := Open(t.TempDir())
	require.Error(t, err)
}

func TestSetGetSyncRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := Open(t.TempDir(), WithBinCount(4))
	require.NoError(t, err)
	defer store.Close(ctx)

	require.NoError(t, store.Set(ctx, map[string]string{"user:1": "alice", "user:2": "bob"}, true))

	report, err := store.Sync(ctx)
	require.NoError(t, err)
	require.False(t, report.HasErrors())

	got, err := store.Get(ctx, []string{"user:1", "user:2", "user:missing"})
	require.NoError(t, err)
	require.Equal(t, map[string]string{"user:1": "alice", "user:2": "bob"}, got)
}

func TestWildcardLookupAfterSync(t *testing.T) {
	ctx := context.Background()
	store, err := Open(t.TempDir(), WithBinCount(4))
	require.NoError(t, err)
	defer store.Close(ctx)

	require.NoError(t, store.Set(ctx, map[string]string{"invoice:2024:001": "paid"}, true))
	_, err = store.Sync(ctx)
	require.NoError(t, err)

	got, err := store.Get(ctx, []string{"invoice:2024:*"})
	require.NoError(t, err)
	require.Equal(t, map[string]string{"invoice:2024:001": "paid"}, got)
}

func TestRemoveAppliesImmediately(t *testing.T) {
	ctx := context.Background()
	store, err := Open(t.TempDir(), WithBinCount(4))
	require.NoError(t, err)
	defer store.Close(ctx)

	require.NoError(t, store.Set(ctx, map[string]string{"k": "v"}, false))
	_, err = store.Sync(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Remove(ctx, []string{"k"}))

	got, err := store.Get(ctx, []string{"k"})
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestTransferFromCopiesRecords(t *testing.T) {
	ctx := context.Background()
	src, err := Open(t.TempDir(), WithBinCount(4))
	require.NoError(t, err)
	defer src.Close(ctx)

	require.NoError(t, src.Set(ctx, map[string]string{"a": "1", "b": "2"}, true))
	_, err = src.Sync(ctx)
	require.NoError(t, err)

	dst, err := Open(t.TempDir(), WithBinCount(4))
	require.NoError(t, err)
	defer dst.Close(ctx)

	require.NoError(t, dst.TransferFrom(ctx, src, true))
	_, err = dst.Sync(ctx)
	require.NoError(t, err)

	got, err := dst.Get(ctx, []string{"a", "b"})
	require.NoError(t, err)
	require.Equal(t, map[string]string{"a": "1", "b": "2"}, got)
}

func TestMetricsCollectorReceivesCalls(t *testing.T) {
	ctx := context.Background()
	mc := &BasicMetricsCollector{}
	store, err := Open(t.TempDir(), WithBinCount(2), WithMetricsCollector(mc))
	require.NoError(t, err)
	defer store.Close(ctx)

	require.NoError(t, store.Set(ctx, map[string]string{"k": "v"}, false))
	_, err = store.Get(ctx, []string{"k"})
	require.NoError(t, err)

	stats := mc.GetStats()
	require.Equal(t, int64(1), stats.SetCount)
	require.Equal(t, int64(1), stats.GetCount)
}
