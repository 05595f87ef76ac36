package grpc_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/andrescamacho/bizsim-go/internal/adapters/feed"
	grpcadapter "github.com/andrescamacho/bizsim-go/internal/adapters/grpc"
	"github.com/andrescamacho/bizsim-go/internal/adapters/persistence"
	"github.com/andrescamacho/bizsim-go/internal/application/common"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation/commands"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation/queries"
	"github.com/andrescamacho/bizsim-go/internal/domain/dispatch"
	"github.com/andrescamacho/bizsim-go/internal/domain/workorder"
	"github.com/andrescamacho/bizsim-go/test/helpers"
)

type fixture struct {
	sim        *simulation.Simulation
	client     *grpcadapter.SimulationClient
	businessID string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	sim := helpers.NewTestSimulation(t, helpers.QuietConfig(8), nil)
	businessID, _ := helpers.SeedHypermarket(t, sim, "Corner Market")

	mediator := common.NewMediator()
	store := persistence.NewFileSnapshotStore(t.TempDir(), nil)
	require.NoError(t, commands.Register(mediator, sim, store))
	require.NoError(t, queries.Register(mediator, sim))

	server := grpcadapter.NewSimulationServer(mediator, feed.New(sim.Bus(), sim.Clock().Snapshot, 16), nil)
	listener := bufconn.Listen(1 << 20)
	go func() { _ = server.Serve(listener) }()
	t.Cleanup(server.Stop)

	client, err := grpcadapter.NewSimulationClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return &fixture{sim: sim, client: client, businessID: businessID}
}

func TestGetDashboard(t *testing.T) {
	// Arrange
	f := newFixture(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Act
	dashboard, err := f.client.GetDashboard(ctx, f.businessID)

	// Assert
	require.NoError(t, err)
	require.Len(t, dashboard.Businesses, 1)
	assert.Equal(t, "Corner Market", dashboard.Businesses[0].Name)
	assert.Equal(t, 1, dashboard.Businesses[0].OnDutyCount)
	assert.Equal(t, 8, dashboard.Clock.Hour)
	assert.Len(t, dashboard.Roster, 1)
}

func TestGetDashboard_UnknownBusinessIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := f.client.GetDashboard(ctx, "nope")

	require.Error(t, err)
	st, ok := status.FromError(unwrapAll(err))
	require.True(t, ok)
	assert.Equal(t, codes.NotFound, st.Code())
}

func TestListWorkOrders(t *testing.T) {
	// Arrange
	f := newFixture(t)
	_, err := f.sim.AddWorkOrder(simulation.WorkOrderRequest{
		Name: "Stock shelves", Type: workorder.TypeStocking, Priority: workorder.PriorityHigh,
	})
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Act
	orders, err := f.client.ListWorkOrders(ctx, "", "pending", false)

	// Assert
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "Stock shelves", orders[0].Name)
	assert.Equal(t, workorder.PriorityHigh, orders[0].Priority)
}

func TestListWorkOrders_BadStatusIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := f.client.ListWorkOrders(ctx, "", "sleeping", false)

	assert.Error(t, err)
}

func TestSaveSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	info, err := f.client.SaveSnapshot(ctx, "")

	require.NoError(t, err)
	assert.Equal(t, commands.DefaultSnapshotSlot, info.Slot)
	assert.Equal(t, "day 1 08:00", info.Clock)
}

func TestWatchEvents_StreamsBusEvents(t *testing.T) {
	// Arrange
	f := newFixture(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	received := make(chan *structpb.Struct, 1)
	done := make(chan error, 1)
	go func() {
		done <- f.client.WatchEvents(ctx, []string{dispatch.EventTaskAdded}, func(msg *structpb.Struct) error {
			received <- msg
			cancel()
			return nil
		})
	}()

	// Act: the subscription is registered asynchronously, so keep adding
	// until the stream sees one
	var msg *structpb.Struct
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for msg == nil {
		select {
		case msg = <-received:
		case <-ticker.C:
			_, err := f.sim.AddWorkOrder(simulation.WorkOrderRequest{Name: "Mop", Type: workorder.TypeCleaning, Priority: workorder.PriorityLow})
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("no event received")
		}
	}

	// Assert
	assert.Equal(t, dispatch.EventTaskAdded, msg.GetFields()["name"].GetStringValue())
	assert.Equal(t, "day 1 08:00", msg.GetFields()["clock"].GetStringValue())
	assert.NoError(t, <-done)
}

func unwrapAll(err error) error {
	for {
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return err
		}
		next := u.Unwrap()
		if next == nil {
			return err
		}
		err = next
	}
}
