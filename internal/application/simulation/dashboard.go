package simulation

import (
	"github.com/andrescamacho/bizsim-go/internal/domain/business"
	"github.com/andrescamacho/bizsim-go/internal/domain/dispatch"
	"github.com/andrescamacho/bizsim-go/internal/domain/mission"
	"github.com/andrescamacho/bizsim-go/internal/domain/operations"
	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
	"github.com/andrescamacho/bizsim-go/internal/domain/staff"
	"github.com/andrescamacho/bizsim-go/internal/domain/workorder"
)

// RecentEventLimit caps the ended events shown on the dashboard
const RecentEventLimit = 10

// Dashboard is the read-only view handed to UI collaborators
type Dashboard struct {
	Clock               shared.ClockSnapshot        `json:"clock"`
	ActiveBusinessID    string                      `json:"active_business_id,omitempty"`
	Businesses          []business.Summary          `json:"businesses"`
	TotalBusinessPoints int                         `json:"total_business_points"`
	PendingTasks        []workorder.Snapshot        `json:"pending_tasks"`
	ActiveTasks         []workorder.Snapshot        `json:"active_tasks"`
	TaskCounts          dispatch.Counts             `json:"task_counts"`
	ActiveEvents        []operations.Snapshot       `json:"active_events"`
	RecentEvents        []operations.Snapshot       `json:"recent_events"`
	ScheduledEvents     []operations.ScheduledEvent `json:"scheduled_events"`
	Effects             map[string]float64          `json:"effects"`
	Roster              []staff.Snapshot            `json:"roster"`
	Stock               []StockSummary              `json:"stock"`
	ActiveMissions      []mission.Mission           `json:"active_missions"`
}

// StockSummary condenses one stock room
type StockSummary struct {
	BusinessID string  `json:"business_id"`
	Products   int     `json:"products"`
	LowStock   int     `json:"low_stock"`
	OpenOrders int     `json:"open_orders"`
	TotalValue float64 `json:"total_value"`
}

// Dashboard assembles the current view. A non-empty businessID narrows the
// businesses, tasks and roster to that business.
func (s *Simulation) Dashboard(businessID string) (Dashboard, error) {
	d := Dashboard{
		Clock:               s.clock.Snapshot(),
		TotalBusinessPoints: s.directory.TotalBusinessPoints(),
		TaskCounts:          s.queue.Counts(),
		ActiveEvents:        s.engine.ActiveEvents(),
		ScheduledEvents:     s.engine.Scheduled(),
		Effects:             make(map[string]float64),
	}
	if active := s.directory.ActiveBusiness(); active != nil {
		d.ActiveBusinessID = active.ID()
	}

	if businessID != "" {
		summary, err := s.directory.Summary(businessID)
		if err != nil {
			return Dashboard{}, err
		}
		d.Businesses = []business.Summary{summary}
	} else {
		for _, l := range s.directory.Businesses() {
			summary, err := s.directory.Summary(l.ID())
			if err != nil {
				continue
			}
			d.Businesses = append(d.Businesses, summary)
		}
	}

	d.PendingTasks = filterTasks(s.queue.PendingTasks(), businessID)
	d.ActiveTasks = filterTasks(s.queue.ActiveTasks(), businessID)

	history := s.engine.History()
	if over := len(history) - RecentEventLimit; over > 0 {
		history = history[over:]
	}
	d.RecentEvents = history

	for key, value := range s.engine.CumulativeEffects() {
		d.Effects[string(key)] = value
	}

	for _, w := range s.directory.Roster() {
		if businessID == "" || w.BusinessID == businessID {
			d.Roster = append(d.Roster, w)
		}
	}

	for _, inv := range s.stock.all() {
		if businessID != "" && inv.BusinessID() != businessID {
			continue
		}
		d.Stock = append(d.Stock, StockSummary{
			BusinessID: inv.BusinessID(),
			Products:   inv.Len(),
			LowStock:   len(inv.LowStockItems()),
			OpenOrders: len(inv.OpenOrders()),
			TotalValue: inv.TotalValue(),
		})
	}
	for _, m := range s.missions.ByStatus(mission.StatusActive) {
		if businessID == "" || m.BusinessID == businessID {
			d.ActiveMissions = append(d.ActiveMissions, m)
		}
	}
	return d, nil
}

func filterTasks(tasks []workorder.Snapshot, businessID string) []workorder.Snapshot {
	if businessID == "" {
		return tasks
	}
	filtered := make([]workorder.Snapshot, 0, len(tasks))
	for _, t := range tasks {
		if t.BusinessID == businessID {
			filtered = append(filtered, t)
		}
	}
	return filtered
}
