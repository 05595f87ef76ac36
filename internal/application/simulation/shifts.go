package simulation

import (
	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
	"github.com/andrescamacho/bizsim-go/internal/domain/staff"
)

// chargeWages books one hour of pay for every worker on duty
func (s *Simulation) chargeWages() {
	for _, w := range s.directory.Workers() {
		if !w.IsOnDuty() || w.BusinessID() == "" {
			continue
		}
		_ = s.directory.RecordExpense(w.BusinessID(), w.HourlyWage(), "wages")
	}
}

// runShiftScheduler clocks workers out and in on the hour their rota names
func (s *Simulation) runShiftScheduler(hour int) {
	for _, w := range s.directory.Workers() {
		shift := w.Shift()
		if end, ok := shift.EndHour(); ok && end == hour && w.IsOnDuty() {
			s.endShift(w)
		}
		if start, ok := shift.StartHour(); ok && start == hour && !w.IsOnDuty() {
			s.startShift(w)
		}
	}
}

func (s *Simulation) startShift(w *staff.Worker) {
	w.StartShift()
	s.logger.Log(shared.LevelDebug, "[Shifts] Shift started", map[string]interface{}{
		"worker_id": w.ID(),
		"shift":     string(w.Shift()),
	})
	s.bus.Publish(staff.ShiftStarted{WorkerID: w.ID(), Shift: w.Shift()})
}

// endShift takes the worker off duty and puts any held task back in the pool
func (s *Simulation) endShift(w *staff.Worker) {
	released := w.EndShift()
	if released != "" {
		_ = s.queue.ReleaseTask(released)
	}
	s.logger.Log(shared.LevelDebug, "[Shifts] Shift ended", map[string]interface{}{
		"worker_id":     w.ID(),
		"shift":         string(w.Shift()),
		"released_task": released,
	})
	s.bus.Publish(staff.ShiftEnded{WorkerID: w.ID(), Shift: w.Shift(), ReleasedTaskID: released})
}

// shiftCovers reports whether hour falls inside the rota. ON_CALL and OFF
// cover nothing.
func shiftCovers(shift staff.ShiftType, hour int) bool {
	start, ok := shift.StartHour()
	if !ok {
		return false
	}
	end, _ := shift.EndHour()
	if start < end {
		return hour >= start && hour < end
	}
	return hour >= start || hour < end
}

// isOpenHour reports whether businesses trade during hour
func (s *Simulation) isOpenHour(hour int) bool {
	openHour, closeHour := s.config.OpenHour, s.config.CloseHour
	switch {
	case openHour == closeHour:
		return false
	case openHour < closeHour:
		return hour >= openHour && hour < closeHour
	default:
		return hour >= openHour || hour < closeHour
	}
}

func (s *Simulation) updateOpeningHours(hour int) {
	if s.config.OpenHour == s.config.CloseHour {
		return
	}
	for _, l := range s.directory.Businesses() {
		switch hour {
		case s.config.OpenHour:
			if !l.IsOpen() {
				l.Open()
			}
		case s.config.CloseHour:
			if l.IsOpen() {
				l.Close()
			}
		}
	}
}
