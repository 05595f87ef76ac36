package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/bizsim-go/internal/application/common"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation"
)

// MaxAdvanceTicks caps one AdvanceSimulation request at a simulated week
const MaxAdvanceTicks = 7 * 24 * 60

// AdvanceSimulationCommand runs the tick loop for Ticks simulated minutes
type AdvanceSimulationCommand struct {
	Ticks int
}

type AdvanceSimulationResponse struct {
	Ticks      int
	DaysRolled int
	Completed  int
	Expired    int
	Assigned   int
	Generated  int
	Last       simulation.TickResult
}

type AdvanceSimulationHandler struct {
	sim *simulation.Simulation
}

func NewAdvanceSimulationHandler(sim *simulation.Simulation) *AdvanceSimulationHandler {
	return &AdvanceSimulationHandler{sim: sim}
}

// Handle ticks one minute at a time so a cancelled context stops between ticks
func (h *AdvanceSimulationHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*AdvanceSimulationCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *AdvanceSimulationCommand")
	}
	if cmd.Ticks <= 0 || cmd.Ticks > MaxAdvanceTicks {
		return nil, fmt.Errorf("ticks must be between 1 and %d, got %d", MaxAdvanceTicks, cmd.Ticks)
	}

	resp := &AdvanceSimulationResponse{}
	for i := 0; i < cmd.Ticks; i++ {
		if err := ctx.Err(); err != nil {
			return resp, err
		}
		result := h.sim.Tick()
		resp.Ticks++
		resp.Completed += result.Completed
		resp.Expired += result.Expired
		resp.Assigned += result.Assigned
		resp.Generated += result.Generated
		if result.DayRolled {
			resp.DaysRolled++
		}
		resp.Last = result
	}
	return resp, nil
}
