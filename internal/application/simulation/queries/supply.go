package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/bizsim-go/internal/application/common"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation"
	"github.com/andrescamacho/bizsim-go/internal/domain/inventory"
	"github.com/andrescamacho/bizsim-go/internal/domain/mission"
	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
)

// GetInventoryQuery reads one business's stock room; an empty BusinessID
// reads the active business
type GetInventoryQuery struct {
	BusinessID string
	LowOnly    bool
}

type GetInventoryResponse struct {
	BusinessID     string
	Items          []inventory.Item
	OpenOrders     []inventory.PurchaseOrder
	OrderHistory   []inventory.PurchaseOrder
	TotalValue     float64
	WarehouseUsage float64
}

type GetInventoryHandler struct {
	sim *simulation.Simulation
}

func NewGetInventoryHandler(sim *simulation.Simulation) *GetInventoryHandler {
	return &GetInventoryHandler{sim: sim}
}

func (h *GetInventoryHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetInventoryQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetInventoryQuery")
	}
	businessID := query.BusinessID
	if businessID == "" {
		active := h.sim.Directory().ActiveBusiness()
		if active == nil {
			return nil, shared.NewDomainError("no active business")
		}
		businessID = active.ID()
	}
	inv, err := h.sim.Inventory(businessID)
	if err != nil {
		return nil, err
	}

	items := inv.Items()
	if query.LowOnly {
		items = inv.LowStockItems()
	}
	return &GetInventoryResponse{
		BusinessID:     businessID,
		Items:          items,
		OpenOrders:     inv.OpenOrders(),
		OrderHistory:   inv.OrderHistory(),
		TotalValue:     inv.TotalValue(),
		WarehouseUsage: inv.WarehouseUsage(),
	}, nil
}

// ListMissionsQuery lists the mission catalogue. Status narrows the result
// when set, BusinessID keeps missions taken on by that business.
type ListMissionsQuery struct {
	Status     string
	BusinessID string
}

type ListMissionsResponse struct {
	Missions []mission.Mission
}

type ListMissionsHandler struct {
	sim *simulation.Simulation
}

func NewListMissionsHandler(sim *simulation.Simulation) *ListMissionsHandler {
	return &ListMissionsHandler{sim: sim}
}

func (h *ListMissionsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*ListMissionsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListMissionsQuery")
	}
	var status mission.Status
	if query.Status != "" {
		parsed, err := mission.ParseStatus(query.Status)
		if err != nil {
			return nil, shared.NewValidationError("status", err.Error())
		}
		status = parsed
	}

	all := h.sim.Missions().Missions()
	missions := make([]mission.Mission, 0, len(all))
	for _, m := range all {
		if status != "" && m.Status != status {
			continue
		}
		if query.BusinessID != "" && m.BusinessID != query.BusinessID {
			continue
		}
		missions = append(missions, m)
	}
	return &ListMissionsResponse{Missions: missions}, nil
}
