package analyzer

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fgravato/rutos-scanner/internal/snapshot"
	"github.com/fgravato/rutos-scanner/pkg/rutos"
)

// stubService feeds canned snapshots to the analyzer.
type stubService struct {
	snapshots []snapshot.Snapshot
	err       error
}

func (s *stubService) RecordStatuses(ctx context.Context, statuses []rutos.ModemStatus) error {
	return nil
}

func (s *stubService) GetSnapshot(ctx context.Context, modemID string) (*snapshot.Snapshot, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s *stubService) ListSnapshots(ctx context.Context) ([]snapshot.Snapshot, error) {
	return s.snapshots, s.err
}

func (s *stubService) GetStatistics(ctx context.Context) (*snapshot.Statistics, error) {
	return nil, fmt.Errorf("not implemented")
}

func intPtr(v int) *int { return &v }

func TestClassifySignal(t *testing.T) {
	tests := []struct {
		name     string
		snap     snapshot.Snapshot
		expected RiskLevel
	}{
		{"strong rsrp", snapshot.Snapshot{Rsrp: intPtr(-80)}, RiskLow},
		{"rsrp at low boundary", snapshot.Snapshot{Rsrp: intPtr(-90)}, RiskLow},
		{"moderate rsrp", snapshot.Snapshot{Rsrp: intPtr(-100)}, RiskMedium},
		{"rsrp at medium boundary", snapshot.Snapshot{Rsrp: intPtr(-105)}, RiskMedium},
		{"weak rsrp", snapshot.Snapshot{Rsrp: intPtr(-110)}, RiskHigh},
		{"rsrp wins over rssi", snapshot.Snapshot{Rsrp: intPtr(-110), Rssi: intPtr(-50)}, RiskHigh},
		{"strong rssi fallback", snapshot.Snapshot{Rssi: intPtr(-60)}, RiskLow},
		{"moderate rssi fallback", snapshot.Snapshot{Rssi: intPtr(-75)}, RiskMedium},
		{"weak rssi fallback", snapshot.Snapshot{Rssi: intPtr(-90)}, RiskHigh},
		{"no signal metrics", snapshot.Snapshot{}, RiskHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifySignal(tt.snap))
		})
	}
}

func TestAnalyzeFleet(t *testing.T) {
	svc := &stubService{snapshots: []snapshot.Snapshot{
		{ModemID: "3-1", Name: "Internal", Online: true, NetworkType: "5G-NSA", Rsrp: intPtr(-82)},
		{ModemID: "4-1", Name: "Secondary", Online: true, NetworkType: "4G", Rsrp: intPtr(-100)},
		{ModemID: "5-1", Name: "Backup", Online: true, NetworkType: "4G", Rssi: intPtr(-90)},
		{ModemID: "1-1", Name: "External", Online: false},
	}}

	analysis, err := NewAnalyzer(svc).AnalyzeFleet(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, analysis.OfflineCount)
	assert.Equal(t, 1, analysis.SignalStats[RiskLow].Count)
	assert.Equal(t, 1, analysis.SignalStats[RiskMedium].Count)
	assert.Equal(t, 1, analysis.SignalStats[RiskHigh].Count)
	assert.Equal(t, []string{"3-1 (Internal)"}, analysis.SignalStats[RiskLow].AffectedModems)
	assert.Equal(t, []string{"5-1 (Backup)"}, analysis.SignalStats[RiskHigh].AffectedModems)

	require.Len(t, analysis.Distribution, 2)
	assert.Equal(t, "4G", analysis.Distribution[0].NetworkType)
	assert.Equal(t, 2, analysis.Distribution[0].Count)
	assert.InDelta(t, 66.66, analysis.Distribution[0].Percentage, 0.01)
	assert.Equal(t, "5G-NSA", analysis.Distribution[1].NetworkType)
	assert.InDelta(t, 33.33, analysis.Distribution[1].Percentage, 0.01)
}

func TestAnalyzeFleet_OfflineOnly(t *testing.T) {
	svc := &stubService{snapshots: []snapshot.Snapshot{
		{ModemID: "1-1", Online: false},
	}}

	analysis, err := NewAnalyzer(svc).AnalyzeFleet(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, analysis.OfflineCount)
	assert.Nil(t, analysis.Distribution)
	assert.Zero(t, analysis.SignalStats[RiskHigh].Count)
}

func TestAnalyzeFleet_ListFailure(t *testing.T) {
	svc := &stubService{err: fmt.Errorf("store closed")}

	_, err := NewAnalyzer(svc).AnalyzeFleet(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store closed")
}
