package simulation

import (
	"fmt"

	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
	"github.com/andrescamacho/bizsim-go/internal/domain/staff"
	"github.com/andrescamacho/bizsim-go/internal/domain/workorder"
)

// RoutineTask describes a work order every business of a type needs each day
type RoutineTask struct {
	Name              string             `yaml:"name"`
	Type              workorder.Type     `yaml:"type"`
	Priority          string             `yaml:"priority"`
	EstimatedDuration float64            `yaml:"estimated_duration"`
	DeadlineMinutes   int                `yaml:"deadline_minutes"`
	ExperienceReward  int                `yaml:"experience_reward"`
	MoneyReward       float64            `yaml:"money_reward"`
	RequiredRoles     []shared.StaffRole `yaml:"required_roles"`
	RequiredSkills    []string           `yaml:"required_skills"`
}

// Routines maps a business type to its daily work
type Routines map[shared.BusinessType][]RoutineTask

// Build turns the routine into an order owned by businessID
func (r RoutineTask) Build(businessID string) (*workorder.WorkOrder, error) {
	priority := workorder.PriorityNormal
	if r.Priority != "" {
		p, err := workorder.ParsePriority(r.Priority)
		if err != nil {
			return nil, fmt.Errorf("routine %q: %w", r.Name, err)
		}
		priority = p
	}
	if !r.Type.IsValid() {
		return nil, fmt.Errorf("routine %q: invalid work order type %s", r.Name, r.Type)
	}

	order := workorder.NewWorkOrder(r.Name, r.Type, priority)
	order.SetBusinessID(businessID)
	order.SetEstimatedDuration(r.EstimatedDuration)
	order.SetDeadlineMinutes(r.DeadlineMinutes)
	experience := r.ExperienceReward
	if experience == 0 {
		experience = workorder.DefaultExperienceReward
	}
	order.SetRewards(experience, r.MoneyReward)
	order.SetRequiredRoles(r.RequiredRoles...)
	order.SetRequiredSkills(r.RequiredSkills...)
	return order, nil
}

// DefaultRoutines are the opening chores of each vertical
func DefaultRoutines() Routines {
	floorClean := RoutineTask{
		Name: "Morning Floor Clean", Type: workorder.TypeCleaning, Priority: "NORMAL",
		EstimatedDuration: 15, DeadlineMinutes: 60, ExperienceReward: 10,
	}
	return Routines{
		shared.BusinessHypermarket: {
			{Name: "Stock Produce", Type: workorder.TypeStocking, Priority: "HIGH", EstimatedDuration: 20, DeadlineMinutes: 120,
				ExperienceReward: 15, RequiredRoles: []shared.StaffRole{shared.RoleStocker, shared.RoleFreshDepartment}},
			{Name: "Stock Dairy", Type: workorder.TypeStocking, Priority: "HIGH", EstimatedDuration: 20, DeadlineMinutes: 120,
				ExperienceReward: 15, RequiredRoles: []shared.StaffRole{shared.RoleStocker, shared.RoleFreshDepartment}},
			{Name: "Prepare Lane 1", Type: workorder.TypeRegisterOperation, Priority: "HIGH", EstimatedDuration: 5, DeadlineMinutes: 30,
				ExperienceReward: 5, RequiredRoles: []shared.StaffRole{shared.RoleCashier}},
			floorClean,
		},
		shared.BusinessRetailFashion: {
			{Name: "Refresh Window Display", Type: workorder.TypeVisualMerchandising, Priority: "NORMAL", EstimatedDuration: 30, DeadlineMinutes: 180,
				ExperienceReward: 20, RequiredRoles: []shared.StaffRole{shared.RoleVisualMerchandiser}},
			{Name: "Fold Display Tables", Type: workorder.TypeStocking, Priority: "NORMAL", EstimatedDuration: 15, DeadlineMinutes: 90,
				ExperienceReward: 10, RequiredRoles: []shared.StaffRole{shared.RoleSalesAssociate, shared.RoleInventorySpecialist}},
			floorClean,
		},
		shared.BusinessRestaurant: {
			{Name: "Mise en Place", Type: workorder.TypeFoodPrep, Priority: "HIGH", EstimatedDuration: 25, DeadlineMinutes: 120,
				ExperienceReward: 15, RequiredRoles: []shared.StaffRole{shared.RoleLineCook, shared.RoleSousChef}},
			{Name: "Set Tables", Type: workorder.TypeTableService, Priority: "NORMAL", EstimatedDuration: 10, DeadlineMinutes: 90,
				ExperienceReward: 10, RequiredRoles: []shared.StaffRole{shared.RoleServer, shared.RoleHost}},
			{Name: "Clear Dish Pit", Type: workorder.TypeDishwashing, Priority: "NORMAL", EstimatedDuration: 15, DeadlineMinutes: 120,
				ExperienceReward: 10, RequiredRoles: []shared.StaffRole{shared.RoleDishwasher}},
		},
		shared.BusinessConstruction: {
			{Name: "Site Safety Walk", Type: workorder.TypeStaffSupervision, Priority: "HIGH", EstimatedDuration: 20, DeadlineMinutes: 120,
				ExperienceReward: 15, RequiredRoles: []shared.StaffRole{shared.RoleProjectManager}},
			{Name: "Measure Materials", Type: workorder.TypeMeasuring, Priority: "NORMAL", EstimatedDuration: 15, DeadlineMinutes: 180,
				ExperienceReward: 10, RequiredRoles: []shared.StaffRole{shared.RoleCarpenter, shared.RoleLaborer}},
		},
		shared.BusinessTaxiCompany: {
			{Name: "Fleet Inspection", Type: workorder.TypeVehicleMaintenance, Priority: "HIGH", EstimatedDuration: 30, DeadlineMinutes: 180,
				ExperienceReward: 20, RequiredRoles: []shared.StaffRole{shared.RoleFleetMechanic}},
			{Name: "Plan Morning Dispatch", Type: workorder.TypeDispatch, Priority: "NORMAL", EstimatedDuration: 10, DeadlineMinutes: 60,
				ExperienceReward: 10, RequiredRoles: []shared.StaffRole{shared.RoleDispatcher}},
		},
	}
}

// DefaultTemplates offers one hiring template per hypermarket and restaurant role
func DefaultTemplates() []staff.Template {
	cashier := staff.NewTemplate("cashier", "Cashier", shared.RoleCashier)
	cashier.StartingSkills = []string{"register"}
	cashier.Shift = staff.ShiftMorning

	stocker := staff.NewTemplate("stocker", "Stocker", shared.RoleStocker)
	stocker.Stamina = staff.AttributeRange{Min: 5, Max: 9}
	stocker.Shift = staff.ShiftMorning

	cook := staff.NewTemplate("line-cook", "Line Cook", shared.RoleLineCook)
	cook.BaseWage = 14
	cook.Shift = staff.ShiftAfternoon

	server := staff.NewTemplate("server", "Server", shared.RoleServer)
	server.Charisma = staff.AttributeRange{Min: 5, Max: 10}
	server.Shift = staff.ShiftAfternoon

	return []staff.Template{cashier, stocker, cook, server}
}

// generateRoutines adds the day's routine work for every business
func (s *Simulation) generateRoutines() int {
	added := 0
	for _, ledger := range s.directory.Businesses() {
		for _, routine := range s.routines[ledger.BusinessType()] {
			order, err := routine.Build(ledger.ID())
			if err != nil {
				s.logger.Log(shared.LevelWarning, "[Simulation] Invalid routine skipped", map[string]interface{}{
					"business_id": ledger.ID(),
					"error":       err.Error(),
				})
				continue
			}
			if _, err := s.queue.AddTask(order); err != nil {
				continue
			}
			added++
		}
	}
	return added
}
