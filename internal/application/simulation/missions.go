package simulation

import (
	"github.com/andrescamacho/bizsim-go/internal/domain/business"
	"github.com/andrescamacho/bizsim-go/internal/domain/dispatch"
	"github.com/andrescamacho/bizsim-go/internal/domain/inventory"
	"github.com/andrescamacho/bizsim-go/internal/domain/mission"
	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
	"github.com/andrescamacho/bizsim-go/internal/domain/workorder"
)

// subscribeMissions feeds simulation outcomes into mission objectives and
// pays out completed missions
func (s *Simulation) subscribeMissions() {
	s.bus.Subscribe(dispatch.EventTaskCompleted, func(e shared.DomainEvent) {
		order := e.(dispatch.TaskCompleted).Order
		s.missions.Record(order.BusinessID, mission.ObjectiveCompleteTask, 1)
		if order.MiniGameID != "" {
			s.missions.Record(order.BusinessID, mission.ObjectiveCompleteMiniGame, 1)
		}
		if order.Type == workorder.TypeTraining {
			s.missions.Record(order.BusinessID, mission.ObjectiveCompleteTraining, 1)
		}
	})
	s.bus.Subscribe(business.EventWorkerHired, func(e shared.DomainEvent) {
		s.missions.Record(e.(business.WorkerHired).BusinessID, mission.ObjectiveHireStaff, 1)
	})
	s.bus.Subscribe(inventory.EventOrderReceived, func(e shared.DomainEvent) {
		s.missions.Record(e.(inventory.OrderReceived).Order.BusinessID, mission.ObjectiveRestock, 1)
	})
	s.bus.Subscribe(business.EventDayEnded, func(e shared.DomainEvent) {
		report := e.(business.DayEnded).Report
		s.missions.Reach(report.BusinessID, mission.ObjectiveReachProfit, int(report.Stats.Profit()))
		if ledger, err := s.directory.Business(report.BusinessID); err == nil {
			s.missions.ObserveRating(report.BusinessID, ledger.CalculateReputation())
		}
	})
	s.bus.Subscribe(mission.EventMissionCompleted, func(e shared.DomainEvent) {
		s.payMission(e.(mission.MissionCompleted).Mission)
	})
}

func (s *Simulation) payMission(m mission.Mission) {
	ledger, err := s.directory.Business(m.BusinessID)
	if err != nil {
		return
	}
	if m.Rewards.Money > 0 {
		_ = ledger.RecordIncome(m.Rewards.Money)
	}
	if m.Rewards.BusinessPoints > 0 {
		_ = ledger.AwardBusinessPoints(m.Rewards.BusinessPoints, "mission: "+m.Title)
	}
	s.logger.Log(shared.LevelInfo, "[Simulation] Mission rewards paid", map[string]interface{}{
		"mission_id":      m.ID,
		"business_id":     m.BusinessID,
		"money":           m.Rewards.Money,
		"business_points": m.Rewards.BusinessPoints,
	})
}

// Missions exposes the mission tracker
func (s *Simulation) Missions() *mission.Tracker { return s.missions }

// StartMission has a business take on an available mission
func (s *Simulation) StartMission(missionID, businessID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startMissionLocked(missionID, businessID)
}

func (s *Simulation) startMissionLocked(missionID, businessID string) error {
	ledger, err := s.directory.Business(businessID)
	if err != nil {
		return err
	}
	return s.missions.Start(missionID, ledger)
}

// ProgressMission advances an objective by hand, for goals the simulation
// does not observe itself
func (s *Simulation) ProgressMission(missionID, objectiveID string, amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.missions.IncrementObjective(missionID, objectiveID, amount)
}

// AbandonMission fails an active mission
func (s *Simulation) AbandonMission(missionID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if reason == "" {
		reason = "abandoned"
	}
	return s.missions.Fail(missionID, reason)
}
