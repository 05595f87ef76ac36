package queries_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/bizsim-go/internal/application/common"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation/queries"
	"github.com/andrescamacho/bizsim-go/internal/domain/mission"
	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
	"github.com/andrescamacho/bizsim-go/internal/domain/workorder"
)

func setup(t *testing.T) (*simulation.Simulation, common.Mediator, string) {
	t.Helper()
	cfg := simulation.DefaultConfig()
	cfg.BaseCustomersPerHour = 0
	sim := simulation.New(cfg, simulation.DefaultTuning(), nil, simulation.WithIDs(shared.SequentialIDs("id")))
	m := common.NewMediator()
	require.NoError(t, queries.Register(m, sim))

	ledger, err := sim.CreateBusiness(shared.BusinessHypermarket, "Corner Store")
	require.NoError(t, err)
	return sim, m, ledger.ID()
}

func TestGetDashboard(t *testing.T) {
	// Arrange
	sim, m, businessID := setup(t)
	_, err := sim.AddWorkOrder(simulation.WorkOrderRequest{Name: "Mop", Type: workorder.TypeCleaning})
	require.NoError(t, err)

	// Act
	resp, err := m.Send(context.Background(), &queries.GetDashboardQuery{BusinessID: businessID})
	_, missingErr := m.Send(context.Background(), &queries.GetDashboardQuery{BusinessID: "nope"})

	// Assert
	require.NoError(t, err)
	dashboard := resp.(*queries.GetDashboardResponse).Dashboard
	assert.Equal(t, businessID, dashboard.ActiveBusinessID)
	require.Len(t, dashboard.Businesses, 1)
	assert.Equal(t, "Corner Store", dashboard.Businesses[0].Name)
	assert.Len(t, dashboard.PendingTasks, 1)
	assert.Error(t, missingErr)
}

func TestListWorkOrders_Filters(t *testing.T) {
	// Arrange
	sim, m, _ := setup(t)
	keep, err := sim.AddWorkOrder(simulation.WorkOrderRequest{Name: "Mop", Type: workorder.TypeCleaning})
	require.NoError(t, err)
	gone, err := sim.AddWorkOrder(simulation.WorkOrderRequest{Name: "Sign", Type: workorder.TypePriceUpdate})
	require.NoError(t, err)
	require.NoError(t, sim.CancelWorkOrder(gone, "changed plans"))

	list := func(q *queries.ListWorkOrdersQuery) []workorder.Snapshot {
		resp, err := m.Send(context.Background(), q)
		require.NoError(t, err)
		return resp.(*queries.ListWorkOrdersResponse).Orders
	}

	// Act
	open := list(&queries.ListWorkOrdersQuery{})
	everything := list(&queries.ListWorkOrdersQuery{IncludeHistory: true})
	cancelled := list(&queries.ListWorkOrdersQuery{Status: "cancelled"})
	elsewhere := list(&queries.ListWorkOrdersQuery{BusinessID: "other", IncludeHistory: true})
	_, badStatus := m.Send(context.Background(), &queries.ListWorkOrdersQuery{Status: "sleeping"})

	// Assert
	require.Len(t, open, 1)
	assert.Equal(t, keep, open[0].ID)
	assert.Len(t, everything, 2)
	require.Len(t, cancelled, 1)
	assert.Equal(t, gone, cancelled[0].ID)
	assert.Empty(t, elsewhere)
	assert.Error(t, badStatus)
}

func TestGetInventory(t *testing.T) {
	// Arrange
	sim, m, businessID := setup(t)
	stock, err := sim.Inventory(businessID)
	require.NoError(t, err)
	require.NoError(t, stock.RemoveItem("bread", 170))

	// Act
	resp, err := m.Send(context.Background(), &queries.GetInventoryQuery{})
	require.NoError(t, err)
	lowResp, err := m.Send(context.Background(), &queries.GetInventoryQuery{BusinessID: businessID, LowOnly: true})
	require.NoError(t, err)
	_, missingErr := m.Send(context.Background(), &queries.GetInventoryQuery{BusinessID: "nope"})

	// Assert
	all := resp.(*queries.GetInventoryResponse)
	assert.Equal(t, businessID, all.BusinessID)
	assert.Len(t, all.Items, len(simulation.DefaultCatalogue()[shared.BusinessHypermarket]))
	assert.Greater(t, all.TotalValue, 0.0)
	assert.Greater(t, all.WarehouseUsage, 0.0)

	low := lowResp.(*queries.GetInventoryResponse).Items
	require.Len(t, low, 1)
	assert.Equal(t, "bread", low[0].ProductID)
	assert.Error(t, missingErr)
}

func TestListMissions_Filters(t *testing.T) {
	// Arrange
	sim, m, businessID := setup(t)
	require.NoError(t, sim.StartMission("grand-opening", businessID))

	list := func(q *queries.ListMissionsQuery) []mission.Mission {
		resp, err := m.Send(context.Background(), q)
		require.NoError(t, err)
		return resp.(*queries.ListMissionsResponse).Missions
	}

	// Act
	everything := list(&queries.ListMissionsQuery{})
	locked := list(&queries.ListMissionsQuery{Status: "locked"})
	mine := list(&queries.ListMissionsQuery{BusinessID: businessID})
	_, badStatus := m.Send(context.Background(), &queries.ListMissionsQuery{Status: "dreaming"})

	// Assert
	assert.Len(t, everything, len(mission.DefaultCatalogue()))
	assert.Len(t, locked, 2)
	require.Len(t, mine, 1)
	assert.Equal(t, "grand-opening", mine[0].ID)
	assert.Error(t, badStatus)
}
