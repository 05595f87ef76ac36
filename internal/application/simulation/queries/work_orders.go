package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/bizsim-go/internal/application/common"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation"
	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
	"github.com/andrescamacho/bizsim-go/internal/domain/workorder"
)

// ListWorkOrdersQuery lists open orders and, with IncludeHistory, archived
// ones. Status and BusinessID narrow the result when set.
type ListWorkOrdersQuery struct {
	BusinessID     string
	Status         string
	IncludeHistory bool
}

type ListWorkOrdersResponse struct {
	Orders []workorder.Snapshot
}

type ListWorkOrdersHandler struct {
	sim *simulation.Simulation
}

func NewListWorkOrdersHandler(sim *simulation.Simulation) *ListWorkOrdersHandler {
	return &ListWorkOrdersHandler{sim: sim}
}

func (h *ListWorkOrdersHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*ListWorkOrdersQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListWorkOrdersQuery")
	}

	var status workorder.Status
	if query.Status != "" {
		parsed, err := workorder.ParseStatus(query.Status)
		if err != nil {
			return nil, shared.NewValidationError("status", err.Error())
		}
		status = parsed
	}

	queue := h.sim.Queue()
	candidates := append(queue.PendingTasks(), queue.ActiveTasks()...)
	if query.IncludeHistory || status.IsTerminal() {
		candidates = append(candidates, queue.History()...)
	}

	orders := make([]workorder.Snapshot, 0, len(candidates))
	for _, o := range candidates {
		if query.BusinessID != "" && o.BusinessID != query.BusinessID {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		orders = append(orders, o)
	}
	return &ListWorkOrdersResponse{Orders: orders}, nil
}
