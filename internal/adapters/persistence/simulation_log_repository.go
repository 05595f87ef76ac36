package persistence

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
)

const (
	// LogDedupWindow suppresses a repeated message from the same run
	LogDedupWindow = 60 * time.Second

	logDedupMaxSize = 10000
)

// SimulationLogEntry is one persisted log line
type SimulationLogEntry struct {
	ID        int
	RunID     string
	Timestamp time.Time
	Level     string
	Message   string
	Metadata  map[string]interface{}
}

// GormSimulationLogRepository persists simulation logs. It satisfies the
// log sink of the application logger.
type GormSimulationLogRepository struct {
	db    *gorm.DB
	clock shared.Clock

	dedupCache  map[string]time.Time // runID|message -> last logged
	dedupMu     sync.Mutex
	dedupWindow time.Duration
}

// NewGormSimulationLogRepository creates a log repository.
// If clock is nil, uses RealClock (production behavior)
func NewGormSimulationLogRepository(db *gorm.DB, clock shared.Clock) *GormSimulationLogRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormSimulationLogRepository{
		db:          db,
		clock:       clock,
		dedupCache:  make(map[string]time.Time),
		dedupWindow: LogDedupWindow,
	}
}

// Log writes an entry unless the same message was written for runID within
// the dedup window
func (r *GormSimulationLogRepository) Log(ctx context.Context, runID, message, level string, metadata map[string]interface{}) error {
	now := r.clock.Now()
	key := runID + "|" + message

	r.dedupMu.Lock()
	if last, ok := r.dedupCache[key]; ok && now.Sub(last) < r.dedupWindow {
		r.dedupMu.Unlock()
		return nil
	}
	if len(r.dedupCache) >= logDedupMaxSize {
		r.pruneDedupCache(now)
	}
	r.dedupCache[key] = now
	r.dedupMu.Unlock()

	var metadataJSON string
	if len(metadata) > 0 {
		if b, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(b)
		}
	}

	return r.db.WithContext(ctx).Create(&SimulationLogModel{
		RunID:     runID,
		Timestamp: now,
		Level:     level,
		Message:   message,
		Metadata:  metadataJSON,
	}).Error
}

// caller holds dedupMu
func (r *GormSimulationLogRepository) pruneDedupCache(now time.Time) {
	cutoff := now.Add(-r.dedupWindow)
	for key, ts := range r.dedupCache {
		if ts.Before(cutoff) {
			delete(r.dedupCache, key)
		}
	}
}

// GetLogs returns up to limit entries for runID, newest first. Level and
// since are optional filters.
func (r *GormSimulationLogRepository) GetLogs(ctx context.Context, runID string, limit int, level *string, since *time.Time) ([]SimulationLogEntry, error) {
	query := r.db.WithContext(ctx).Where("run_id = ?", runID)
	if level != nil {
		query = query.Where("level = ?", *level)
	}
	if since != nil {
		query = query.Where("timestamp > ?", *since)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []SimulationLogModel
	if err := query.Order("timestamp DESC").Order("id DESC").Find(&models).Error; err != nil {
		return nil, err
	}

	entries := make([]SimulationLogEntry, len(models))
	for i, m := range models {
		entries[i] = SimulationLogEntry{
			ID:        m.ID,
			RunID:     m.RunID,
			Timestamp: m.Timestamp,
			Level:     m.Level,
			Message:   m.Message,
		}
		if m.Metadata != "" {
			var metadata map[string]interface{}
			if err := json.Unmarshal([]byte(m.Metadata), &metadata); err == nil {
				entries[i].Metadata = metadata
			}
		}
	}
	return entries, nil
}
