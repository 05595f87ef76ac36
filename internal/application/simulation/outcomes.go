package simulation

import (
	"github.com/andrescamacho/bizsim-go/internal/domain/dispatch"
	"github.com/andrescamacho/bizsim-go/internal/domain/operations"
	"github.com/andrescamacho/bizsim-go/internal/domain/reputation"
	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
	"github.com/andrescamacho/bizsim-go/internal/domain/workorder"
)

// scoreBlend is how far one outcome moves a sub-score toward its target
const scoreBlend = 0.1

// subscribeOutcomes rolls task and event outcomes up into the ledgers
func (s *Simulation) subscribeOutcomes() {
	s.bus.Subscribe(dispatch.EventTaskCompleted, func(e shared.DomainEvent) {
		s.onTaskCompleted(e.(dispatch.TaskCompleted).Order)
	})
	s.bus.Subscribe(dispatch.EventTaskExpired, func(e shared.DomainEvent) {
		s.onTaskMissed(e.(dispatch.TaskExpired).Order, "expired")
	})
	s.bus.Subscribe(dispatch.EventTaskFailed, func(e shared.DomainEvent) {
		s.onTaskMissed(e.(dispatch.TaskFailed).Order, "failed")
	})
	s.bus.Subscribe(operations.EventStartedName, func(e shared.DomainEvent) {
		evt := e.(operations.EventStarted).Event
		if evt.Severity.IsDisruptive() {
			s.directory.RecordIncidentOnOpen(evt.Name)
		}
	})
}

func (s *Simulation) ownerOf(order workorder.Snapshot) *reputation.Ledger {
	if order.BusinessID == "" {
		return nil
	}
	ledger, err := s.directory.Business(order.BusinessID)
	if err != nil {
		return nil
	}
	return ledger
}

func (s *Simulation) onTaskCompleted(order workorder.Snapshot) {
	ledger := s.ownerOf(order)
	if ledger == nil {
		return
	}
	ledger.RecordTaskCompleted(order.Quality)
	if order.MoneyReward > 0 {
		_ = ledger.RecordIncome(order.MoneyReward)
	}

	scores := ledger.Scores()
	scores.Quality = blend(scores.Quality, order.Quality*reputation.MaxReputation)
	if order.Type == workorder.TypeCleaning {
		scores.Cleanliness = blend(scores.Cleanliness, order.Quality*reputation.MaxReputation)
	}
	ledger.SetScores(scores)
}

func (s *Simulation) onTaskMissed(order workorder.Snapshot, outcome string) {
	ledger := s.ownerOf(order)
	if ledger == nil {
		return
	}
	ledger.RecordIncident()

	scores := ledger.Scores()
	scores.ServiceSpeed = blend(scores.ServiceSpeed, reputation.MinReputation)
	ledger.SetScores(scores)

	s.logger.Log(shared.LevelWarning, "[Simulation] Work order missed", map[string]interface{}{
		"task_id":     order.ID,
		"business_id": order.BusinessID,
		"outcome":     outcome,
	})
}

func blend(current, target float64) float64 {
	return current + (target-current)*scoreBlend
}
