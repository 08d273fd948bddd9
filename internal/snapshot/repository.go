package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/buntdb"

	"github.com/fgravato/rutos-scanner/pkg/rutos"
)

const keyPrefix = "snapshot:"

// Snapshot is one stored observation of a modem's status.
type Snapshot struct {
	ModemID       string    `json:"modem_id"`
	Name          string    `json:"name"`
	Online        bool      `json:"online"`
	Operator      string    `json:"operator"`
	NetworkType   string    `json:"network_type"`
	Rssi          *int      `json:"rssi,omitempty"`
	Rsrp          *int      `json:"rsrp,omitempty"`
	Rsrq          *int      `json:"rsrq,omitempty"`
	Sinr          *int      `json:"sinr,omitempty"`
	Temperature   *int      `json:"temperature,omitempty"`
	ActiveSim     int       `json:"active_sim"`
	SimCount      int       `json:"sim_count"`
	SimState      string    `json:"sim_state"`
	DataConnState string    `json:"data_conn_state"`
	LastUpdated   time.Time `json:"last_updated"`
}

// FromStatus builds a snapshot from either shape of a modem status entry.
func FromStatus(status rutos.ModemStatus) Snapshot {
	if status.Full != nil {
		full := status.Full
		return Snapshot{
			ModemID:       full.ID,
			Name:          full.Name,
			Online:        true,
			Operator:      full.Operator,
			NetworkType:   full.Ntype,
			Rssi:          full.Rssi,
			Rsrp:          full.Rsrp,
			Rsrq:          full.Rsrq,
			Sinr:          full.Sinr,
			Temperature:   full.Temperature,
			ActiveSim:     full.ActiveSim,
			SimCount:      full.SimCount,
			SimState:      full.Simstate,
			DataConnState: full.DataConnState,
		}
	}
	if status.Offline != nil {
		return Snapshot{
			ModemID:  status.Offline.ID,
			Name:     status.Offline.Name,
			Online:   false,
			SimCount: status.Offline.SimCount,
		}
	}
	return Snapshot{}
}

// Repository defines the snapshot data operations
type Repository interface {
	Save(ctx context.Context, snap *Snapshot) error
	Get(ctx context.Context, modemID string) (*Snapshot, error)
	List(ctx context.Context) ([]Snapshot, error)
	Delete(ctx context.Context, modemID string) error
	GetOnline(ctx context.Context) ([]Snapshot, error)
}

// DB interface defines the required database methods
type DB interface {
	View(fn func(tx *buntdb.Tx) error) error
	Update(fn func(tx *buntdb.Tx) error) error
}

// Store implements the Repository interface
type Store struct {
	db DB
}

// NewRepository creates a new snapshot repository
func NewRepository(db DB) Repository {
	return &Store{db: db}
}

// Save stores a snapshot keyed by modem id
func (s *Store) Save(ctx context.Context, snap *Snapshot) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		snap.LastUpdated = time.Now()
		data, err := json.Marshal(snap)
		if err != nil {
			return fmt.Errorf("marshaling snapshot: %w", err)
		}

		return s.db.Update(func(tx *buntdb.Tx) error {
			_, _, err := tx.Set(keyPrefix+snap.ModemID, string(data), nil)
			if err != nil {
				return fmt.Errorf("saving snapshot: %w", err)
			}
			return nil
		})
	}
}

// Get retrieves the latest snapshot for a modem
func (s *Store) Get(ctx context.Context, modemID string) (*Snapshot, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
		var snap Snapshot
		err := s.db.View(func(tx *buntdb.Tx) error {
			val, err := tx.Get(keyPrefix + modemID)
			if err != nil {
				if err == buntdb.ErrNotFound {
					return fmt.Errorf("snapshot not found: %s", modemID)
				}
				return fmt.Errorf("getting snapshot: %w", err)
			}
			return json.Unmarshal([]byte(val), &snap)
		})
		if err != nil {
			return nil, err
		}
		return &snap, nil
	}
}

// List retrieves all stored snapshots
func (s *Store) List(ctx context.Context) ([]Snapshot, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
		var snapshots []Snapshot
		err := s.db.View(func(tx *buntdb.Tx) error {
			return tx.Ascend("snapshots", func(key, value string) bool {
				if !strings.HasPrefix(key, keyPrefix) {
					return true
				}
				var snap Snapshot
				if err := json.Unmarshal([]byte(value), &snap); err != nil {
					return false
				}
				snapshots = append(snapshots, snap)
				return true
			})
		})
		if err != nil {
			return nil, fmt.Errorf("listing snapshots: %w", err)
		}
		return snapshots, nil
	}
}

// Delete removes a modem's snapshot
func (s *Store) Delete(ctx context.Context, modemID string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return s.db.Update(func(tx *buntdb.Tx) error {
			_, err := tx.Delete(keyPrefix + modemID)
			if err != nil {
				if err == buntdb.ErrNotFound {
					return fmt.Errorf("snapshot not found: %s", modemID)
				}
				return fmt.Errorf("deleting snapshot: %w", err)
			}
			return nil
		})
	}
}

// GetOnline retrieves snapshots of modems that were online when scanned
func (s *Store) GetOnline(ctx context.Context) ([]Snapshot, error) {
	snapshots, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var online []Snapshot
	for _, snap := range snapshots {
		if snap.Online {
			online = append(online, snap)
		}
	}
	return online, nil
}
