package simulation

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/bizsim-go/internal/domain/operations"
	"github.com/andrescamacho/bizsim-go/internal/domain/reputation"
	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
	"github.com/andrescamacho/bizsim-go/internal/domain/staff"
	"github.com/andrescamacho/bizsim-go/internal/domain/workorder"
)

// WorkOrderRequest is what a vertical submits to get work done
type WorkOrderRequest struct {
	BusinessID        string
	Name              string
	Description       string
	Type              workorder.Type
	Priority          workorder.Priority
	RequiredRoles     []shared.StaffRole
	RequiredSkills    []string
	MinimumLevel      int // informational, dispatch does not enforce it
	EstimatedDuration float64
	DeadlineMinutes   int
	ExperienceReward  int
	MoneyReward       float64
	Location          *shared.Location
	MiniGameID        string
}

// ShiftAction is a manual change to a worker's duty
type ShiftAction string

const (
	ShiftActionStart    ShiftAction = "start"
	ShiftActionEnd      ShiftAction = "end"
	ShiftActionBreak    ShiftAction = "break"
	ShiftActionEndBreak ShiftAction = "end-break"
)

// ParseShiftAction accepts any case and underscores
func ParseShiftAction(s string) (ShiftAction, error) {
	a := ShiftAction(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	switch a {
	case ShiftActionStart, ShiftActionEnd, ShiftActionBreak, ShiftActionEndBreak:
		return a, nil
	}
	return "", fmt.Errorf("invalid shift action: %s", s)
}

// CreateBusiness opens a new tier 1 business on the current day
func (s *Simulation) CreateBusiness(businessType shared.BusinessType, name string) (*reputation.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createBusinessLocked(businessType, name)
}

func (s *Simulation) createBusinessLocked(businessType shared.BusinessType, name string) (*reputation.Ledger, error) {
	ledger, err := s.directory.CreateBusiness(businessType, name, s.clock.Day())
	if err != nil {
		return nil, err
	}
	if s.isOpenHour(s.clock.Hour()) {
		ledger.Open()
	}
	return ledger, nil
}

// AddWorkOrder builds and queues an order. Orders without a business go to
// the active one.
func (s *Simulation) AddWorkOrder(req WorkOrderRequest) (string, error) {
	if strings.TrimSpace(req.Name) == "" {
		return "", shared.NewValidationError("name", "work order name is required")
	}
	if !req.Type.IsValid() {
		return "", shared.NewValidationError("type", "unknown work order type "+string(req.Type))
	}
	if !req.Priority.IsValid() {
		return "", shared.NewValidationError("priority", fmt.Sprintf("unknown priority %d", req.Priority))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	businessID := req.BusinessID
	if businessID == "" {
		if active := s.directory.ActiveBusiness(); active != nil {
			businessID = active.ID()
		}
	} else if _, err := s.directory.Business(businessID); err != nil {
		return "", err
	}

	order := workorder.NewWorkOrder(req.Name, req.Type, req.Priority)
	order.SetBusinessID(businessID)
	order.SetDescription(req.Description)
	order.SetRequiredRoles(req.RequiredRoles...)
	order.SetRequiredSkills(req.RequiredSkills...)
	if req.MinimumLevel > 0 {
		order.SetMinimumLevel(req.MinimumLevel)
	}
	order.SetEstimatedDuration(req.EstimatedDuration)
	order.SetDeadlineMinutes(req.DeadlineMinutes)
	experience := req.ExperienceReward
	if experience == 0 {
		experience = workorder.DefaultExperienceReward
	}
	order.SetRewards(experience, req.MoneyReward)
	if req.Location != nil {
		order.SetLocation(*req.Location)
	}
	order.SetMiniGameID(req.MiniGameID)

	return s.queue.AddTask(order)
}

// CompleteWorkOrder settles an order with an externally computed quality,
// typically a mini-game score. A worker holding the order is freed.
func (s *Simulation) CompleteWorkOrder(taskID string, quality float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.freeHolder(taskID)
	return s.queue.CompleteTask(taskID, quality)
}

// FailWorkOrder abandons an order. A worker holding the order is freed.
func (s *Simulation) FailWorkOrder(taskID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.freeHolder(taskID)
	return s.queue.FailTask(taskID, reason)
}

// CancelWorkOrder withdraws an order. A worker holding the order is freed.
func (s *Simulation) CancelWorkOrder(taskID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.freeHolder(taskID)
	return s.queue.CancelTask(taskID, reason)
}

func (s *Simulation) freeHolder(taskID string) {
	order, ok := s.queue.GetTask(taskID)
	if !ok || order.AssignedWorker == "" || order.IsTerminal() {
		return
	}
	if w, err := s.directory.Worker(order.AssignedWorker); err == nil && w.CurrentTaskID() == taskID {
		w.Abandon()
	}
}

// AssignWorkOrder hands a pending order to a specific worker
func (s *Simulation) AssignWorkOrder(taskID, workerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, err := s.directory.Worker(workerID)
	if err != nil {
		return err
	}
	return s.queue.AssignTask(taskID, w)
}

// ChangeShift applies a manual duty change. breakDuration is only read for
// ShiftActionBreak; zero keeps the break open until ShiftActionEndBreak.
func (s *Simulation) ChangeShift(workerID string, action ShiftAction, breakDuration float64) (staff.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, err := s.directory.Worker(workerID)
	if err != nil {
		return staff.Snapshot{}, err
	}

	switch action {
	case ShiftActionStart:
		if w.IsOnDuty() {
			return w.Snapshot(), shared.NewDomainError("worker " + workerID + " is already on duty")
		}
		s.startShift(w)
	case ShiftActionEnd:
		if !w.IsOnDuty() {
			return w.Snapshot(), shared.NewDomainError("worker " + workerID + " is not on duty")
		}
		s.endShift(w)
	case ShiftActionBreak:
		err = w.TakeBreak(breakDuration)
	case ShiftActionEndBreak:
		err = w.EndBreak()
	default:
		err = shared.NewValidationError("action", "unknown shift action "+string(action))
	}
	return w.Snapshot(), err
}

// HireWorker generates a worker from a template and employs them at
// businessID. Workers whose rota covers the current hour start at once.
func (s *Simulation) HireWorker(templateID, businessID string, shift staff.ShiftType) (staff.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hireLocked(templateID, businessID, shift)
}

func (s *Simulation) hireLocked(templateID, businessID string, shift staff.ShiftType) (staff.Snapshot, error) {
	template, ok := s.templates[templateID]
	if !ok {
		return staff.Snapshot{}, shared.NewNotFoundError("template", templateID)
	}
	w := template.Generate(s.workerIDs(), s.random)
	if shift != "" {
		w.SetShift(shift)
	}
	if err := s.directory.HireWorker(w, businessID); err != nil {
		return staff.Snapshot{}, err
	}
	if shiftCovers(w.Shift(), s.clock.Hour()) {
		s.startShift(w)
	}
	return w.Snapshot(), nil
}

// TriggerEvent starts an event immediately
func (s *Simulation) TriggerEvent(eventType operations.EventType, target string) operations.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.TriggerEvent(eventType, target)
}

// HandleEventAction resolves an action on an active event
func (s *Simulation) HandleEventAction(eventID, action string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.HandleEventAction(eventID, action)
}

// ScheduleEvent queues an event daysFromNow days ahead
func (s *Simulation) ScheduleEvent(eventType operations.EventType, daysFromNow int, target string) operations.ScheduledEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.ScheduleEvent(eventType, daysFromNow, target)
}

// UpgradeTier moves a business to the next row of its tier table
func (s *Simulation) UpgradeTier(businessID string) (reputation.TierConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.directory.UpgradeToNextTier(businessID)
}

// ApplyScenario creates the scenario's businesses, funds them, hires their
// staff and starts their missions. The first business becomes the active one.
func (s *Simulation) ApplyScenario(scenario Scenario) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range scenario.Businesses {
		ledger, err := s.createBusinessLocked(b.Type, b.Name)
		if err != nil {
			return fmt.Errorf("scenario business %q: %w", b.Name, err)
		}
		if b.Cash > 0 {
			if err := ledger.Fund(b.Cash); err != nil {
				return fmt.Errorf("scenario business %q: %w", b.Name, err)
			}
		}
		for _, h := range b.Hires {
			count := h.Count
			if count <= 0 {
				count = 1
			}
			for i := 0; i < count; i++ {
				if _, err := s.hireLocked(h.Template, ledger.ID(), h.Shift); err != nil {
					return fmt.Errorf("scenario hire %q at %q: %w", h.Template, b.Name, err)
				}
			}
		}
		for _, missionID := range b.Missions {
			if err := s.startMissionLocked(missionID, ledger.ID()); err != nil {
				return fmt.Errorf("scenario mission %q at %q: %w", missionID, b.Name, err)
			}
		}
	}
	return nil
}
