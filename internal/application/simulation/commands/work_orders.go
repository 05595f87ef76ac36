package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/bizsim-go/internal/application/common"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation"
	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
	"github.com/andrescamacho/bizsim-go/internal/domain/workorder"
)

// AddWorkOrderCommand submits work to the dispatch queue. Type, priority and
// roles are the wire spellings (e.g. "CLEANING", "HIGH", "CASHIER").
type AddWorkOrderCommand struct {
	BusinessID        string
	Name              string
	Description       string
	Type              string
	Priority          string
	RequiredRoles     []string
	RequiredSkills    []string
	MinimumLevel      int
	EstimatedDuration float64
	DeadlineMinutes   int
	ExperienceReward  int
	MoneyReward       float64
	Location          *shared.Location
	MiniGameID        string
}

type AddWorkOrderResponse struct {
	TaskID string
	Order  workorder.Snapshot
}

// AddWorkOrderHandler parses and queues a work order
type AddWorkOrderHandler struct {
	sim *simulation.Simulation
}

func NewAddWorkOrderHandler(sim *simulation.Simulation) *AddWorkOrderHandler {
	return &AddWorkOrderHandler{sim: sim}
}

func (h *AddWorkOrderHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*AddWorkOrderCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *AddWorkOrderCommand")
	}

	req, err := h.toRequest(cmd)
	if err != nil {
		return nil, err
	}
	taskID, err := h.sim.AddWorkOrder(req)
	if err != nil {
		return nil, fmt.Errorf("failed to add work order: %w", err)
	}
	order, _ := h.sim.Queue().GetTask(taskID)
	return &AddWorkOrderResponse{TaskID: taskID, Order: order}, nil
}

func (h *AddWorkOrderHandler) toRequest(cmd *AddWorkOrderCommand) (simulation.WorkOrderRequest, error) {
	orderType, err := workorder.ParseType(cmd.Type)
	if err != nil {
		return simulation.WorkOrderRequest{}, err
	}
	priority := workorder.PriorityNormal
	if cmd.Priority != "" {
		if priority, err = workorder.ParsePriority(cmd.Priority); err != nil {
			return simulation.WorkOrderRequest{}, err
		}
	}
	roles := make([]shared.StaffRole, 0, len(cmd.RequiredRoles))
	for _, r := range cmd.RequiredRoles {
		role, err := shared.ParseStaffRole(r)
		if err != nil {
			return simulation.WorkOrderRequest{}, err
		}
		roles = append(roles, role)
	}

	return simulation.WorkOrderRequest{
		BusinessID:        cmd.BusinessID,
		Name:              cmd.Name,
		Description:       cmd.Description,
		Type:              orderType,
		Priority:          priority,
		RequiredRoles:     roles,
		RequiredSkills:    cmd.RequiredSkills,
		MinimumLevel:      cmd.MinimumLevel,
		EstimatedDuration: cmd.EstimatedDuration,
		DeadlineMinutes:   cmd.DeadlineMinutes,
		ExperienceReward:  cmd.ExperienceReward,
		MoneyReward:       cmd.MoneyReward,
		Location:          cmd.Location,
		MiniGameID:        cmd.MiniGameID,
	}, nil
}

// CompleteWorkOrderCommand settles an order with an externally scored
// quality, typically the result of a mini-game
type CompleteWorkOrderCommand struct {
	TaskID  string
	Quality float64
}

// FailWorkOrderCommand abandons an order
type FailWorkOrderCommand struct {
	TaskID string
	Reason string
}

// CancelWorkOrderCommand withdraws an order without an incident
type CancelWorkOrderCommand struct {
	TaskID string
	Reason string
}

// AssignWorkOrderCommand hands a pending order to a chosen worker
type AssignWorkOrderCommand struct {
	TaskID   string
	WorkerID string
}

// WorkOrderResponse carries the order as it stands after a command
type WorkOrderResponse struct {
	Order workorder.Snapshot
}

// WorkOrderOutcomeHandler serves the complete, fail, cancel and assign commands
type WorkOrderOutcomeHandler struct {
	sim *simulation.Simulation
}

func NewWorkOrderOutcomeHandler(sim *simulation.Simulation) *WorkOrderOutcomeHandler {
	return &WorkOrderOutcomeHandler{sim: sim}
}

func (h *WorkOrderOutcomeHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	var (
		taskID string
		err    error
	)
	switch cmd := request.(type) {
	case *CompleteWorkOrderCommand:
		taskID = cmd.TaskID
		if cmd.Quality < 0 || cmd.Quality > 1 {
			return nil, shared.NewValidationError("quality", "quality must be between 0 and 1")
		}
		err = h.sim.CompleteWorkOrder(cmd.TaskID, cmd.Quality)
	case *FailWorkOrderCommand:
		taskID = cmd.TaskID
		err = h.sim.FailWorkOrder(cmd.TaskID, reasonOr(cmd.Reason, "failed by operator"))
	case *CancelWorkOrderCommand:
		taskID = cmd.TaskID
		err = h.sim.CancelWorkOrder(cmd.TaskID, reasonOr(cmd.Reason, "cancelled by operator"))
	case *AssignWorkOrderCommand:
		taskID = cmd.TaskID
		err = h.sim.AssignWorkOrder(cmd.TaskID, cmd.WorkerID)
	default:
		return nil, fmt.Errorf("invalid request type: %s", common.RequestName(request))
	}
	if err != nil {
		return nil, fmt.Errorf("work order %s: %w", taskID, err)
	}

	order, _ := h.sim.Queue().GetTask(taskID)
	return &WorkOrderResponse{Order: order}, nil
}

func reasonOr(reason, fallback string) string {
	if reason == "" {
		return fallback
	}
	return reason
}
