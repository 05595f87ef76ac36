package persistence

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/bizsim-go/internal/application/common"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation"
	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
)

// GormSnapshotRepository stores compressed game snapshots in the database
type GormSnapshotRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormSnapshotRepository creates a snapshot repository.
// If clock is nil, uses RealClock (production behavior)
func NewGormSnapshotRepository(db *gorm.DB, clock shared.Clock) *GormSnapshotRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormSnapshotRepository{db: db, clock: clock}
}

// Save upserts the slot
func (r *GormSnapshotRepository) Save(ctx context.Context, slot string, snap simulation.Snapshot) (common.SnapshotInfo, error) {
	payload, err := encodeSnapshotBytes(snap)
	if err != nil {
		return common.SnapshotInfo{}, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	model := &SnapshotModel{
		Slot:      slot,
		Version:   snap.Version,
		Day:       snap.Clock.Day,
		Hour:      snap.Clock.Hour,
		Minute:    snap.Clock.Minute,
		Payload:   payload,
		SizeBytes: len(payload),
		SavedAt:   r.clock.Now().UTC(),
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot"}},
		UpdateAll: true,
	}).Create(model)
	if result.Error != nil {
		return common.SnapshotInfo{}, fmt.Errorf("failed to save snapshot: %w", result.Error)
	}
	return modelToInfo(model), nil
}

// Load decodes the slot
func (r *GormSnapshotRepository) Load(ctx context.Context, slot string) (simulation.Snapshot, error) {
	var model SnapshotModel
	result := r.db.WithContext(ctx).Where("slot = ?", slot).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return simulation.Snapshot{}, shared.NewNotFoundError("snapshot", slot)
		}
		return simulation.Snapshot{}, fmt.Errorf("failed to load snapshot: %w", result.Error)
	}
	return DecodeSnapshot(bytes.NewReader(model.Payload))
}

// List returns every slot, most recently saved first. Payloads are not read.
func (r *GormSnapshotRepository) List(ctx context.Context) ([]common.SnapshotInfo, error) {
	var models []SnapshotModel
	result := r.db.WithContext(ctx).
		Select("slot", "version", "day", "hour", "minute", "size_bytes", "saved_at").
		Order("saved_at DESC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", result.Error)
	}

	infos := make([]common.SnapshotInfo, len(models))
	for i := range models {
		infos[i] = modelToInfo(&models[i])
	}
	return infos, nil
}

// Delete removes the slot; deleting a missing slot is not an error
func (r *GormSnapshotRepository) Delete(ctx context.Context, slot string) error {
	return r.db.WithContext(ctx).Where("slot = ?", slot).Delete(&SnapshotModel{}).Error
}

func modelToInfo(m *SnapshotModel) common.SnapshotInfo {
	return common.SnapshotInfo{
		Slot:      m.Slot,
		Version:   m.Version,
		Clock:     shared.ClockSnapshot{Day: m.Day, Hour: m.Hour, Minute: m.Minute}.String(),
		SizeBytes: m.SizeBytes,
		SavedAt:   m.SavedAt,
	}
}
