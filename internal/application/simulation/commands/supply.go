package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/bizsim-go/internal/application/common"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation"
	"github.com/andrescamacho/bizsim-go/internal/domain/inventory"
	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
)

// PlacePurchaseOrderCommand buys stock for a business. An empty BusinessID
// orders for the active business.
type PlacePurchaseOrderCommand struct {
	BusinessID    string
	SupplierID    string
	Lines         []PurchaseLine
	DeliveryHours int
	ShippingCost  float64
}

type PurchaseLine struct {
	ProductID string
	Name      string
	Category  string
	Quantity  int
	UnitPrice float64
}

type PlacePurchaseOrderResponse struct {
	Order inventory.PurchaseOrder
}

type PlacePurchaseOrderHandler struct {
	sim *simulation.Simulation
}

func NewPlacePurchaseOrderHandler(sim *simulation.Simulation) *PlacePurchaseOrderHandler {
	return &PlacePurchaseOrderHandler{sim: sim}
}

func (h *PlacePurchaseOrderHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*PlacePurchaseOrderCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *PlacePurchaseOrderCommand")
	}
	businessID, err := resolveBusiness(h.sim, cmd.BusinessID)
	if err != nil {
		return nil, err
	}

	req := inventory.OrderRequest{
		SupplierID:    cmd.SupplierID,
		DeliveryHours: cmd.DeliveryHours,
		ShippingCost:  cmd.ShippingCost,
	}
	for _, l := range cmd.Lines {
		req.Lines = append(req.Lines, inventory.OrderLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			Category:  l.Category,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	order, err := h.sim.PlacePurchaseOrder(businessID, req)
	if err != nil {
		return nil, fmt.Errorf("purchase order for %s: %w", businessID, err)
	}
	return &PlacePurchaseOrderResponse{Order: order}, nil
}

// resolveBusiness falls back to the active business for an empty id
func resolveBusiness(sim *simulation.Simulation, businessID string) (string, error) {
	if businessID != "" {
		return businessID, nil
	}
	active := sim.Directory().ActiveBusiness()
	if active == nil {
		return "", shared.NewDomainError("no active business")
	}
	return active.ID(), nil
}
