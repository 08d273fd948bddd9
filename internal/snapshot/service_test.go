package snapshot

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fgravato/rutos-scanner/internal/database"
	"github.com/fgravato/rutos-scanner/pkg/rutos"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	store, err := database.NewStore(database.Config{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewService(NewRepository(store))
}

func decodeStatuses(t *testing.T, payload string) []rutos.ModemStatus {
	t.Helper()
	var statuses []rutos.ModemStatus
	require.NoError(t, json.Unmarshal([]byte(payload), &statuses))
	return statuses
}

func TestRecordStatuses(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	statuses := decodeStatuses(t, `[
		{"id": "3-1", "name": "Internal", "ntype": "5G-NSA", "sim_count": 2, "rssi": -55},
		{"id": "1-1", "offline": "1", "name": "External", "sim_count": 1}
	]`)
	require.NoError(t, svc.RecordStatuses(ctx, statuses))

	all, err := svc.ListSnapshots(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	snap, err := svc.GetSnapshot(ctx, "3-1")
	require.NoError(t, err)
	assert.True(t, snap.Online)
	assert.Equal(t, "5G-NSA", snap.NetworkType)
}

func TestRecordStatuses_RejectsEntryWithoutID(t *testing.T) {
	svc := newTestService(t)

	err := svc.RecordStatuses(context.Background(), []rutos.ModemStatus{{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "without modem id")
}

func TestGetSnapshot_RequiresID(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetSnapshot(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "modem id is required")
}

func TestGetStatistics(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	statuses := decodeStatuses(t, `[
		{"id": "3-1", "ntype": "5G-NSA", "sim_count": 2},
		{"id": "4-1", "ntype": "4G", "sim_count": 2},
		{"id": "5-1", "ntype": "4G", "sim_count": 1},
		{"id": "1-1", "offline": "1", "sim_count": 1}
	]`)
	require.NoError(t, svc.RecordStatuses(ctx, statuses))

	stats, err := svc.GetStatistics(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalModems)
	assert.Equal(t, 3, stats.OnlineModems)
	assert.Equal(t, 1, stats.OfflineModems)
	assert.Equal(t, 2, stats.DualSimModems)
	assert.Equal(t, map[string]int{"5G-NSA": 1, "4G": 2}, stats.NetworkTypes)
	assert.False(t, stats.LastUpdated.IsZero())
}

func TestGetStatistics_EmptyStore(t *testing.T) {
	svc := newTestService(t)

	stats, err := svc.GetStatistics(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalModems)
	assert.Empty(t, stats.NetworkTypes)
}
