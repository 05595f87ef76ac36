package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/bizsim-go/internal/domain/business"
	"github.com/andrescamacho/bizsim-go/internal/domain/reputation"
	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
)

// GormDailyStatsRepository keeps every closed business day, beyond the
// short history a ledger holds in memory
type GormDailyStatsRepository struct {
	db     *gorm.DB
	clock  shared.Clock
	logger shared.Logger
}

func NewGormDailyStatsRepository(db *gorm.DB, clock shared.Clock, logger shared.Logger) *GormDailyStatsRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormDailyStatsRepository{db: db, clock: clock, logger: shared.LoggerOrNop(logger)}
}

// Record stores a day report. Recording the same business day again
// replaces it, so a reloaded game replaying a day does not duplicate rows.
func (r *GormDailyStatsRepository) Record(ctx context.Context, report reputation.DayReport) error {
	points := 0
	for _, a := range report.Awards {
		points += a.Points
	}
	model := &DailyStatsModel{
		BusinessID:      report.BusinessID,
		Day:             report.Stats.Day,
		Revenue:         report.Stats.Revenue,
		Expenses:        report.Stats.Expenses,
		CustomersServed: report.Stats.CustomersServed,
		TasksCompleted:  report.Stats.TasksCompleted,
		Incidents:       report.Stats.Incidents,
		QualityTotal:    report.Stats.QualityTotal,
		AwardedPoints:   points,
		RecordedAt:      r.clock.Now().UTC(),
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "business_id"}, {Name: "day"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"revenue", "expenses", "customers_served", "tasks_completed",
			"incidents", "quality_total", "awarded_points", "recorded_at",
		}),
	}).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to record daily stats: %w", result.Error)
	}
	return nil
}

// History returns up to limit closed days of a business, oldest first
func (r *GormDailyStatsRepository) History(ctx context.Context, businessID string, limit int) ([]reputation.DailyStats, error) {
	query := r.db.WithContext(ctx).Where("business_id = ?", businessID).Order("day DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var models []DailyStatsModel
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load daily stats: %w", err)
	}

	stats := make([]reputation.DailyStats, len(models))
	for i, m := range models {
		stats[len(models)-1-i] = reputation.DailyStats{
			Day:             m.Day,
			Revenue:         m.Revenue,
			Expenses:        m.Expenses,
			CustomersServed: m.CustomersServed,
			TasksCompleted:  m.TasksCompleted,
			Incidents:       m.Incidents,
			QualityTotal:    m.QualityTotal,
		}
	}
	return stats, nil
}

// Attach records every DayEnded published on bus. Write failures are logged;
// the simulation does not wait on the database.
func (r *GormDailyStatsRepository) Attach(bus *shared.EventBus) {
	bus.Subscribe(business.EventDayEnded, func(e shared.DomainEvent) {
		ended, ok := e.(business.DayEnded)
		if !ok {
			return
		}
		if err := r.Record(context.Background(), ended.Report); err != nil {
			r.logger.Log(shared.LevelError, "[Persistence] Daily stats not recorded", map[string]interface{}{
				"business_id": ended.Report.BusinessID,
				"day":         ended.Report.Stats.Day,
				"error":       err.Error(),
			})
		}
	})
}
