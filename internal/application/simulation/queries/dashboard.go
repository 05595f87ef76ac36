package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/bizsim-go/internal/application/common"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation"
)

// GetDashboardQuery reads the dashboard; an empty BusinessID covers every business
type GetDashboardQuery struct {
	BusinessID string
}

type GetDashboardResponse struct {
	Dashboard simulation.Dashboard
}

type GetDashboardHandler struct {
	sim *simulation.Simulation
}

func NewGetDashboardHandler(sim *simulation.Simulation) *GetDashboardHandler {
	return &GetDashboardHandler{sim: sim}
}

func (h *GetDashboardHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetDashboardQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetDashboardQuery")
	}
	dashboard, err := h.sim.Dashboard(query.BusinessID)
	if err != nil {
		return nil, err
	}
	return &GetDashboardResponse{Dashboard: dashboard}, nil
}
