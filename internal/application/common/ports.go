package common

import (
	"context"
	"time"

	"github.com/andrescamacho/bizsim-go/internal/application/simulation"
)

// SnapshotInfo describes one saved game
type SnapshotInfo struct {
	Slot      string    `json:"slot"`
	Version   int       `json:"version"`
	Clock     string    `json:"clock"`
	SizeBytes int       `json:"size_bytes"`
	SavedAt   time.Time `json:"saved_at"`
}

// SnapshotStore persists whole-game snapshots under named slots.
// Saving to an existing slot replaces it.
type SnapshotStore interface {
	Save(ctx context.Context, slot string, snap simulation.Snapshot) (SnapshotInfo, error)
	Load(ctx context.Context, slot string) (simulation.Snapshot, error)
	List(ctx context.Context) ([]SnapshotInfo, error)
}
