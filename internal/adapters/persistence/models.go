package persistence

import (
	"time"
)

// SnapshotModel represents the snapshots table. Payload is the zstd stream
// written by EncodeSnapshot.
type SnapshotModel struct {
	Slot      string    `gorm:"column:slot;primaryKey"`
	Version   int       `gorm:"column:version;not null"`
	Day       int       `gorm:"column:day;not null"`
	Hour      int       `gorm:"column:hour;not null"`
	Minute    int       `gorm:"column:minute;not null"`
	Payload   []byte    `gorm:"column:payload;not null"`
	SizeBytes int       `gorm:"column:size_bytes;not null"`
	SavedAt   time.Time `gorm:"column:saved_at;not null"`
}

func (SnapshotModel) TableName() string {
	return "snapshots"
}

// SimulationLogModel represents the simulation_logs table
type SimulationLogModel struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	RunID     string    `gorm:"column:run_id;not null;index:idx_simulation_logs_run_time"`
	Timestamp time.Time `gorm:"column:timestamp;not null;index:idx_simulation_logs_run_time"`
	Level     string    `gorm:"column:level;not null;default:'INFO'"`
	Message   string    `gorm:"column:message;type:text;not null"`
	Metadata  string    `gorm:"column:metadata;type:text"` // JSON as text
}

func (SimulationLogModel) TableName() string {
	return "simulation_logs"
}

// DailyStatsModel represents the daily_stats table, one row per business per closed day
type DailyStatsModel struct {
	ID              int       `gorm:"column:id;primaryKey;autoIncrement"`
	BusinessID      string    `gorm:"column:business_id;not null;uniqueIndex:idx_daily_stats_business_day"`
	Day             int       `gorm:"column:day;not null;uniqueIndex:idx_daily_stats_business_day"`
	Revenue         float64   `gorm:"column:revenue;not null;default:0"`
	Expenses        float64   `gorm:"column:expenses;not null;default:0"`
	CustomersServed int       `gorm:"column:customers_served;not null;default:0"`
	TasksCompleted  int       `gorm:"column:tasks_completed;not null;default:0"`
	Incidents       int       `gorm:"column:incidents;not null;default:0"`
	QualityTotal    float64   `gorm:"column:quality_total;not null;default:0"`
	AwardedPoints   int       `gorm:"column:awarded_points;not null;default:0"`
	RecordedAt      time.Time `gorm:"column:recorded_at;not null"`
}

func (DailyStatsModel) TableName() string {
	return "daily_stats"
}
