package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/andrescamacho/bizsim-go/internal/application/common"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation"
)

// DefaultSnapshotSlot is used when a save or load names no slot
const DefaultSnapshotSlot = "autosave"

// SaveSnapshotCommand persists the whole game under Slot
type SaveSnapshotCommand struct {
	Slot string
}

// LoadSnapshotCommand replaces the running game with a saved one
type LoadSnapshotCommand struct {
	Slot string
}

type SnapshotResponse struct {
	Info common.SnapshotInfo
}

// SnapshotHandler moves games between the simulation and a SnapshotStore
type SnapshotHandler struct {
	sim   *simulation.Simulation
	store common.SnapshotStore
}

func NewSnapshotHandler(sim *simulation.Simulation, store common.SnapshotStore) *SnapshotHandler {
	return &SnapshotHandler{sim: sim, store: store}
}

func (h *SnapshotHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	logger := common.LoggerFromContext(ctx)

	switch cmd := request.(type) {
	case *SaveSnapshotCommand:
		slot := slotOrDefault(cmd.Slot)
		info, err := h.store.Save(ctx, slot, h.sim.Snapshot())
		if err != nil {
			return nil, fmt.Errorf("failed to save snapshot %q: %w", slot, err)
		}
		logger.Log("INFO", "[Snapshot] Game saved", map[string]interface{}{
			"slot":  slot,
			"clock": info.Clock,
			"bytes": info.SizeBytes,
		})
		return &SnapshotResponse{Info: info}, nil

	case *LoadSnapshotCommand:
		slot := slotOrDefault(cmd.Slot)
		snap, err := h.store.Load(ctx, slot)
		if err != nil {
			return nil, fmt.Errorf("failed to load snapshot %q: %w", slot, err)
		}
		if err := h.sim.Restore(snap); err != nil {
			return nil, fmt.Errorf("failed to restore snapshot %q: %w", slot, err)
		}
		logger.Log("INFO", "[Snapshot] Game loaded", map[string]interface{}{
			"slot":  slot,
			"clock": snap.Clock.String(),
		})
		return &SnapshotResponse{Info: common.SnapshotInfo{Slot: slot, Version: snap.Version, Clock: snap.Clock.String()}}, nil
	}
	return nil, fmt.Errorf("invalid request type: %s", common.RequestName(request))
}

func slotOrDefault(slot string) string {
	if s := strings.TrimSpace(slot); s != "" {
		return s
	}
	return DefaultSnapshotSlot
}
