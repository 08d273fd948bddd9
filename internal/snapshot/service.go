package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/fgravato/rutos-scanner/pkg/rutos"
)

// Service defines the snapshot business logic interface
type Service interface {
	RecordStatuses(ctx context.Context, statuses []rutos.ModemStatus) error
	GetSnapshot(ctx context.Context, modemID string) (*Snapshot, error)
	ListSnapshots(ctx context.Context) ([]Snapshot, error)
	GetStatistics(ctx context.Context) (*Statistics, error)
}

// Statistics summarises the stored modem fleet
type Statistics struct {
	TotalModems   int            `json:"total_modems"`
	OnlineModems  int            `json:"online_modems"`
	OfflineModems int            `json:"offline_modems"`
	NetworkTypes  map[string]int `json:"network_types"`
	DualSimModems int            `json:"dual_sim_modems"`
	LastUpdated   time.Time      `json:"last_updated"`
}

// SnapshotService implements the Service interface
type SnapshotService struct {
	repo Repository
}

// NewService creates a new snapshot service
func NewService(repo Repository) Service {
	return &SnapshotService{
		repo: repo,
	}
}

// RecordStatuses persists one snapshot per status entry
func (s *SnapshotService) RecordStatuses(ctx context.Context, statuses []rutos.ModemStatus) error {
	for _, status := range statuses {
		snap := FromStatus(status)
		if snap.ModemID == "" {
			return fmt.Errorf("status entry without modem id")
		}
		if err := s.repo.Save(ctx, &snap); err != nil {
			return fmt.Errorf("saving snapshot for modem %s: %w", snap.ModemID, err)
		}
	}
	return nil
}

// GetSnapshot retrieves the latest snapshot for a modem
func (s *SnapshotService) GetSnapshot(ctx context.Context, modemID string) (*Snapshot, error) {
	if modemID == "" {
		return nil, fmt.Errorf("modem id is required")
	}
	return s.repo.Get(ctx, modemID)
}

// ListSnapshots retrieves all stored snapshots
func (s *SnapshotService) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	return s.repo.List(ctx)
}

// GetStatistics calculates fleet statistics from the stored snapshots
func (s *SnapshotService) GetStatistics(ctx context.Context) (*Statistics, error) {
	snapshots, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}

	stats := &Statistics{
		TotalModems:  len(snapshots),
		NetworkTypes: make(map[string]int),
		LastUpdated:  time.Now(),
	}

	for _, snap := range snapshots {
		if snap.Online {
			stats.OnlineModems++
		} else {
			stats.OfflineModems++
		}
		if snap.NetworkType != "" {
			stats.NetworkTypes[snap.NetworkType]++
		}
		if snap.SimCount > 1 {
			stats.DualSimModems++
		}
	}

	return stats, nil
}
