package analyzer

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fgravato/rutos-scanner/internal/snapshot"
)

// RiskLevel represents how concerning a modem's radio conditions are
type RiskLevel string

const (
	RiskHigh   RiskLevel = "High"
	RiskMedium RiskLevel = "Medium"
	RiskLow    RiskLevel = "Low"
)

// SignalStats groups modems that share a risk level
type SignalStats struct {
	RiskLevel      RiskLevel
	Count          int
	Description    string
	AffectedModems []string
}

// NetworkTypeDistribution describes how the fleet splits across network types
type NetworkTypeDistribution struct {
	NetworkType string  `json:"network_type"`
	Count       int     `json:"count"`
	Percentage  float64 `json:"percentage"`
}

// Analysis is the complete fleet analysis
type Analysis struct {
	SignalStats  map[RiskLevel]*SignalStats `json:"signal_stats"`
	Distribution []NetworkTypeDistribution  `json:"distribution"`
	OfflineCount int                        `json:"offline_count"`
	Timestamp    time.Time                  `json:"timestamp"`
}

// Analyzer classifies stored snapshots by signal quality
type Analyzer struct {
	snapshotService snapshot.Service
}

// NewAnalyzer creates a new analyzer
func NewAnalyzer(snapshotService snapshot.Service) *Analyzer {
	return &Analyzer{
		snapshotService: snapshotService,
	}
}

// AnalyzeFleet classifies every stored snapshot and summarises the network
// type distribution
func (a *Analyzer) AnalyzeFleet(ctx context.Context) (*Analysis, error) {
	snapshots, err := a.snapshotService.ListSnapshots(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}

	analysis := &Analysis{
		SignalStats: initSignalStats(),
		Timestamp:   time.Now(),
	}

	networkTypes := make(map[string]int)
	online := 0

	for _, snap := range snapshots {
		if !snap.Online {
			analysis.OfflineCount++
			continue
		}
		online++
		if snap.NetworkType != "" {
			networkTypes[snap.NetworkType]++
		}

		risk := classifySignal(snap)
		stats := analysis.SignalStats[risk]
		stats.Count++
		stats.AffectedModems = append(stats.AffectedModems,
			fmt.Sprintf("%s (%s)", snap.ModemID, snap.Name))
	}

	analysis.Distribution = distribution(networkTypes, online)
	return analysis, nil
}

func initSignalStats() map[RiskLevel]*SignalStats {
	return map[RiskLevel]*SignalStats{
		RiskHigh: {
			RiskLevel:   RiskHigh,
			Description: "Poor or unknown signal, connection drops likely",
		},
		RiskMedium: {
			RiskLevel:   RiskMedium,
			Description: "Usable signal with reduced throughput",
		},
		RiskLow: {
			RiskLevel:   RiskLow,
			Description: "Good signal",
		},
	}
}

// classifySignal buckets a modem by RSRP when available, falling back to
// RSSI. Thresholds follow the usual LTE signal quality bands.
func classifySignal(snap snapshot.Snapshot) RiskLevel {
	if snap.Rsrp != nil {
		rsrp := *snap.Rsrp
		switch {
		case rsrp >= -90:
			return RiskLow
		case rsrp >= -105:
			return RiskMedium
		default:
			return RiskHigh
		}
	}
	if snap.Rssi != nil {
		rssi := *snap.Rssi
		switch {
		case rssi >= -65:
			return RiskLow
		case rssi >= -85:
			return RiskMedium
		default:
			return RiskHigh
		}
	}
	return RiskHigh
}

func distribution(networkTypes map[string]int, total int) []NetworkTypeDistribution {
	if total == 0 {
		return nil
	}

	var dist []NetworkTypeDistribution
	for networkType, count := range networkTypes {
		dist = append(dist, NetworkTypeDistribution{
			NetworkType: networkType,
			Count:       count,
			Percentage:  float64(count) / float64(total) * 100,
		})
	}

	sort.Slice(dist, func(i, j int) bool {
		if dist[i].Count != dist[j].Count {
			return dist[i].Count > dist[j].Count
		}
		return dist[i].NetworkType < dist[j].NetworkType
	})

	return dist
}
