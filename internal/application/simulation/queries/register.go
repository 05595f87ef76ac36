package queries

import (
	"github.com/andrescamacho/bizsim-go/internal/application/common"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation"
)

// Register wires the read side into the mediator
func Register(m common.Mediator, sim *simulation.Simulation) error {
	if err := common.RegisterHandler[*GetDashboardQuery](m, NewGetDashboardHandler(sim)); err != nil {
		return err
	}
	if err := common.RegisterHandler[*ListWorkOrdersQuery](m, NewListWorkOrdersHandler(sim)); err != nil {
		return err
	}
	if err := common.RegisterHandler[*GetInventoryQuery](m, NewGetInventoryHandler(sim)); err != nil {
		return err
	}
	return common.RegisterHandler[*ListMissionsQuery](m, NewListMissionsHandler(sim))
}
