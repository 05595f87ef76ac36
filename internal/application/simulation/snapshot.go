package simulation

import (
	"fmt"

	"github.com/andrescamacho/bizsim-go/internal/domain/business"
	"github.com/andrescamacho/bizsim-go/internal/domain/dispatch"
	"github.com/andrescamacho/bizsim-go/internal/domain/inventory"
	"github.com/andrescamacho/bizsim-go/internal/domain/mission"
	"github.com/andrescamacho/bizsim-go/internal/domain/operations"
	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
)

// SnapshotVersion is bumped when the snapshot layout changes incompatibly
const SnapshotVersion = 1

// Snapshot aggregates every component's persisted state
type Snapshot struct {
	Version     int                       `json:"version"`
	Clock       shared.ClockSnapshot      `json:"clock"`
	Queue       dispatch.Snapshot         `json:"queue"`
	Events      operations.EngineSnapshot `json:"events"`
	Directory   business.Snapshot         `json:"directory"`
	Inventories []inventory.Snapshot      `json:"inventories,omitempty"`
	Missions    []mission.Mission         `json:"missions,omitempty"`
}

// Snapshot captures the game between ticks
func (s *Simulation) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Version:   SnapshotVersion,
		Clock:     s.clock.Snapshot(),
		Queue:     s.queue.Snapshot(),
		Events:    s.engine.Snapshot(),
		Directory: s.directory.Snapshot(),
		Missions:  s.missions.Snapshot(),
	}
	for _, inv := range s.stock.all() {
		snap.Inventories = append(snap.Inventories, inv.Snapshot())
	}
	return snap
}

// Restore loads a snapshot. Nothing is published, no event is re-rolled and
// no order is re-admitted.
func (s *Simulation) Restore(snap Snapshot) error {
	if snap.Version != SnapshotVersion {
		return fmt.Errorf("unsupported snapshot version %d (want %d)", snap.Version, SnapshotVersion)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock.Restore(snap.Clock)
	s.queue.Restore(snap.Queue)
	s.engine.Restore(snap.Events)
	s.directory.Restore(snap.Directory, s.random)

	// Snapshots written before stock rooms existed restock from the catalogue
	byBusiness := make(map[string]*inventory.Inventory, len(snap.Inventories))
	for _, is := range snap.Inventories {
		byBusiness[is.BusinessID] = inventory.ReconstructInventory(is, s.config.Inventory, s.clock, s.workerIDs, s.bus, s.logger)
	}
	s.stock.replace(byBusiness)
	for _, l := range s.directory.Businesses() {
		if _, ok := byBusiness[l.ID()]; !ok {
			s.openStockroom(l.ID(), l.BusinessType())
		}
	}
	if snap.Missions != nil {
		s.missions.Restore(snap.Missions)
	}

	s.logger.Log(shared.LevelInfo, "[Simulation] Snapshot restored", map[string]interface{}{
		"clock":      snap.Clock.String(),
		"businesses": len(snap.Directory.Businesses),
		"workers":    len(snap.Directory.Workers),
		"open_tasks": len(snap.Queue.Open),
	})
	return nil
}
