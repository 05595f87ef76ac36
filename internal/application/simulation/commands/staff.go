package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/bizsim-go/internal/application/common"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation"
	"github.com/andrescamacho/bizsim-go/internal/domain/staff"
)

// ChangeShiftCommand applies a manual duty change: start, end, break or
// end-break. BreakDuration is in work units; zero keeps the break open.
type ChangeShiftCommand struct {
	WorkerID      string
	Action        string
	BreakDuration float64
}

// HireWorkerCommand employs a worker drawn from a hiring template. An empty
// shift keeps the template's rota.
type HireWorkerCommand struct {
	TemplateID string
	BusinessID string
	Shift      string
}

// WorkerResponse carries the worker after the change
type WorkerResponse struct {
	Worker staff.Snapshot
}

type ChangeShiftHandler struct {
	sim *simulation.Simulation
}

func NewChangeShiftHandler(sim *simulation.Simulation) *ChangeShiftHandler {
	return &ChangeShiftHandler{sim: sim}
}

func (h *ChangeShiftHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ChangeShiftCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ChangeShiftCommand")
	}
	action, err := simulation.ParseShiftAction(cmd.Action)
	if err != nil {
		return nil, err
	}
	worker, err := h.sim.ChangeShift(cmd.WorkerID, action, cmd.BreakDuration)
	if err != nil {
		return nil, fmt.Errorf("shift change for %s: %w", cmd.WorkerID, err)
	}
	return &WorkerResponse{Worker: worker}, nil
}

type HireWorkerHandler struct {
	sim *simulation.Simulation
}

func NewHireWorkerHandler(sim *simulation.Simulation) *HireWorkerHandler {
	return &HireWorkerHandler{sim: sim}
}

func (h *HireWorkerHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*HireWorkerCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *HireWorkerCommand")
	}

	var shift staff.ShiftType
	if cmd.Shift != "" {
		parsed, err := staff.ParseShiftType(cmd.Shift)
		if err != nil {
			return nil, err
		}
		shift = parsed
	}
	businessID := cmd.BusinessID
	if businessID == "" {
		if active := h.sim.Directory().ActiveBusiness(); active != nil {
			businessID = active.ID()
		}
	}

	worker, err := h.sim.HireWorker(cmd.TemplateID, businessID, shift)
	if err != nil {
		return nil, fmt.Errorf("failed to hire from template %s: %w", cmd.TemplateID, err)
	}
	common.LoggerFromContext(ctx).Log("INFO", "[Staff] Worker hired", map[string]interface{}{
		"worker_id":   worker.ID,
		"template":    cmd.TemplateID,
		"business_id": businessID,
	})
	return &WorkerResponse{Worker: worker}, nil
}
