package simulation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/bizsim-go/internal/application/simulation"
	"github.com/andrescamacho/bizsim-go/internal/domain/business"
	"github.com/andrescamacho/bizsim-go/internal/domain/operations"
	"github.com/andrescamacho/bizsim-go/internal/domain/reputation"
	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
	"github.com/andrescamacho/bizsim-go/internal/domain/staff"
	"github.com/andrescamacho/bizsim-go/internal/domain/workorder"
)

type fixedRandom struct{ value float64 }

func (r fixedRandom) Float64() float64 { return r.value }
func (r fixedRandom) Intn(n int) int   { return 0 }

// quietConfig disables customers, breaks and routines unless a test turns them on
func quietConfig(startHour int) simulation.Config {
	cfg := simulation.DefaultConfig()
	cfg.StartHour = startHour
	cfg.BaseCustomersPerHour = 0
	cfg.AutoBreakFatigue = 0
	cfg.RoutineHour = 3
	return cfg
}

type harness struct {
	sim    *simulation.Simulation
	events []shared.DomainEvent
}

func newHarness(t *testing.T, cfg simulation.Config, random shared.Random) *harness {
	t.Helper()
	h := &harness{}
	bus := shared.NewEventBus()
	bus.SubscribeAll(func(e shared.DomainEvent) { h.events = append(h.events, e) })
	h.sim = simulation.New(cfg, simulation.DefaultTuning(), nil,
		simulation.WithRandom(random),
		simulation.WithIDs(shared.SequentialIDs("id")),
		simulation.WithEventBus(bus),
	)
	return h
}

func (h *harness) count(name string) int {
	n := 0
	for _, e := range h.events {
		if e.EventName() == name {
			n++
		}
	}
	return n
}

func (h *harness) market(t *testing.T) *reputation.Ledger {
	t.Helper()
	ledger, err := h.sim.CreateBusiness(shared.BusinessHypermarket, "Corner Store")
	require.NoError(t, err)
	return ledger
}

func (h *harness) onDutyStocker(t *testing.T, id, businessID string) *staff.Worker {
	t.Helper()
	w := staff.NewWorker(id, "Pat "+id, shared.RoleStocker, staff.DefaultAttributes(), nil)
	require.NoError(t, h.sim.Directory().HireWorker(w, businessID))
	_, err := h.sim.ChangeShift(id, simulation.ShiftActionStart, 0)
	require.NoError(t, err)
	return w
}

func TestTick_AdvancesOneMinute(t *testing.T) {
	h := newHarness(t, quietConfig(8), fixedRandom{0.99})

	result := h.sim.Tick()

	assert.Equal(t, shared.ClockSnapshot{Day: 1, Hour: 8, Minute: 1}, result.Clock)
	assert.False(t, result.DayRolled)
	assert.Equal(t, int64(1), h.sim.Ticks())
}

func TestTick_WorkOrderRunsToCompletion(t *testing.T) {
	// Arrange
	h := newHarness(t, quietConfig(8), fixedRandom{0.99})
	market := h.market(t)
	w := h.onDutyStocker(t, "w-1", market.ID())
	taskID, err := h.sim.AddWorkOrder(simulation.WorkOrderRequest{
		Name:              "Stock shelves",
		Type:              workorder.TypeStocking,
		Priority:          workorder.PriorityNormal,
		RequiredRoles:     []shared.StaffRole{shared.RoleStocker},
		EstimatedDuration: 10,
		MoneyReward:       50,
	})
	require.NoError(t, err)

	// Act
	first := h.sim.Tick()
	_, err = h.sim.Run(context.Background(), 14)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 1, first.Assigned)
	order, ok := h.sim.Queue().GetTask(taskID)
	require.True(t, ok)
	assert.Equal(t, workorder.StatusCompleted, order.Status)
	assert.Equal(t, market.ID(), order.BusinessID, "orders default to the active business")
	assert.Equal(t, 1.0, order.Quality)

	today := market.Today()
	assert.Equal(t, 1, today.TasksCompleted)
	assert.Equal(t, 50.0, market.Cash())
	assert.InDelta(t, 3.2, market.Scores().Quality, 1e-9)
	assert.Equal(t, 10, w.Experience())
	assert.True(t, w.IsAvailable())
}

func TestTick_WorkersOnlyTakeTheirOwnBusinessOrders(t *testing.T) {
	// Arrange
	h := newHarness(t, quietConfig(8), fixedRandom{0.99})
	market := h.market(t)
	rival, err := h.sim.CreateBusiness(shared.BusinessHypermarket, "Rival Mart")
	require.NoError(t, err)
	h.onDutyStocker(t, "w-1", market.ID())
	taskID, err := h.sim.AddWorkOrder(simulation.WorkOrderRequest{
		Name:              "Morning Floor Clean",
		Type:              workorder.TypeCleaning,
		Priority:          workorder.PriorityNormal,
		BusinessID:        rival.ID(),
		EstimatedDuration: 2,
		MoneyReward:       40,
	})
	require.NoError(t, err)

	// Act
	_, err = h.sim.Run(context.Background(), 5)
	require.NoError(t, err)

	// Assert
	order, ok := h.sim.Queue().GetTask(taskID)
	require.True(t, ok)
	assert.Equal(t, workorder.StatusPending, order.Status)
	assert.Empty(t, order.AssignedWorker)
	assert.Zero(t, market.Today().TasksCompleted)
	assert.Zero(t, rival.Today().Revenue)

	err = h.sim.AssignWorkOrder(taskID, "w-1")
	assert.Error(t, err)

	h.onDutyStocker(t, "w-2", rival.ID())
	_, err = h.sim.Run(context.Background(), 5)
	require.NoError(t, err)
	order, _ = h.sim.Queue().GetTask(taskID)
	assert.Equal(t, workorder.StatusCompleted, order.Status)
	assert.Equal(t, "w-2", order.AssignedWorker)
	assert.Equal(t, 1, rival.Today().TasksCompleted)
	assert.Equal(t, 40.0, rival.Today().Revenue)
}

func TestTick_ExpiredOrderCountsAsIncident(t *testing.T) {
	// Arrange
	h := newHarness(t, quietConfig(8), fixedRandom{0.99})
	market := h.market(t)
	_, err := h.sim.AddWorkOrder(simulation.WorkOrderRequest{
		Name: "Mop aisle 3", Type: workorder.TypeCleaning, Priority: workorder.PriorityLow, DeadlineMinutes: 1,
	})
	require.NoError(t, err)

	// Act
	one := h.sim.Tick()
	two := h.sim.Tick()

	// Assert
	assert.Equal(t, 0, one.Expired)
	assert.Equal(t, 1, two.Expired)
	assert.Equal(t, 1, market.Today().Incidents)
	assert.InDelta(t, 2.7, market.Scores().ServiceSpeed, 1e-9)
}

func TestTick_MinorBreakdownHalvesWorkProgress(t *testing.T) {
	progressAfterTwoTicks := func(breakdown bool) float64 {
		h := newHarness(t, quietConfig(8), fixedRandom{0.99})
		market := h.market(t)
		w := h.onDutyStocker(t, "w-1", market.ID())
		if breakdown {
			h.sim.TriggerEvent(operations.EventTypeMinorBreakdown, "conveyor")
		}
		_, err := h.sim.AddWorkOrder(simulation.WorkOrderRequest{
			Name: "Restock dairy", Type: workorder.TypeStocking, Priority: workorder.PriorityNormal, EstimatedDuration: 100,
		})
		require.NoError(t, err)
		h.sim.Tick()
		h.sim.Tick()
		return w.Progress()
	}

	normal := progressAfterTwoTicks(false)
	slowed := progressAfterTwoTicks(true)

	require.Greater(t, normal, 0.0)
	assert.InDelta(t, normal*0.5, slowed, 1e-9)
}

func TestTriggerEvent_DisruptiveEventsHitOpenBusinesses(t *testing.T) {
	// Arrange
	h := newHarness(t, quietConfig(8), fixedRandom{0.5})
	market := h.market(t)
	require.True(t, market.IsOpen(), "created during opening hours")

	// Act
	h.sim.TriggerEvent(operations.EventTypeRain, "")
	h.sim.TriggerEvent(operations.EventTypeMajorBreakdown, "freezer")

	// Assert
	assert.Equal(t, 1, market.Today().Incidents)
	assert.Equal(t, 2, h.count(operations.EventStartedName))
}

func TestShiftScheduler_StartsAndEndsOnTheHour(t *testing.T) {
	// Arrange
	h := newHarness(t, quietConfig(13), fixedRandom{0.5})
	market := h.market(t)
	hired, err := h.sim.HireWorker("stocker", market.ID(), staff.ShiftMorning)
	require.NoError(t, err)
	assert.True(t, hired.OnDuty, "rota covers 13:00")

	taskID, err := h.sim.AddWorkOrder(simulation.WorkOrderRequest{
		Name: "Deep stock", Type: workorder.TypeStocking, Priority: workorder.PriorityHigh,
		EstimatedDuration: 100000, DeadlineMinutes: 600,
	})
	require.NoError(t, err)

	// Act
	_, err = h.sim.Run(context.Background(), 60)
	require.NoError(t, err)

	// Assert
	w, err := h.sim.Directory().Worker(hired.ID)
	require.NoError(t, err)
	assert.False(t, w.IsOnDuty())
	assert.Equal(t, staff.StateLeaving, w.State())

	order, _ := h.sim.Queue().GetTask(taskID)
	assert.Equal(t, workorder.StatusPending, order.Status, "held task goes back to the pool")
	assert.Empty(t, order.AssignedWorker)

	assert.Equal(t, 12.0, market.Today().Expenses, "one hour of wages")
	assert.Equal(t, 1, h.count(staff.EventShiftStarted))
	assert.Equal(t, 1, h.count(staff.EventShiftEnded))
}

func TestShiftScheduler_MorningWorkerClocksIn(t *testing.T) {
	h := newHarness(t, quietConfig(5), fixedRandom{0.5})
	market := h.market(t)
	hired, err := h.sim.HireWorker("stocker", market.ID(), "")
	require.NoError(t, err)
	require.False(t, hired.OnDuty)

	_, err = h.sim.Run(context.Background(), 60)
	require.NoError(t, err)

	w, _ := h.sim.Directory().Worker(hired.ID)
	assert.True(t, w.IsOnDuty())
}

func TestRoutines_GeneratedAtConfiguredHour(t *testing.T) {
	// Arrange
	cfg := quietConfig(8)
	cfg.RoutineHour = 9
	h := newHarness(t, cfg, fixedRandom{0.5})
	market := h.market(t)

	// Act
	_, err := h.sim.Run(context.Background(), 59)
	require.NoError(t, err)
	before := h.sim.Queue().Size()
	result := h.sim.Tick()

	// Assert
	assert.Equal(t, 0, before)
	assert.Equal(t, 4, result.Generated)
	for _, order := range h.sim.Queue().PendingTasks() {
		assert.Equal(t, market.ID(), order.BusinessID)
	}
	next, ok := h.sim.Queue().NextPendingTask()
	require.True(t, ok)
	assert.Equal(t, workorder.PriorityHigh, next.Priority)
}

func TestDemand_FollowsReputationAndEffects(t *testing.T) {
	// Arrange
	cfg := quietConfig(8)
	cfg.BaseCustomersPerHour = 4
	cfg.AverageTicket = 25
	h := newHarness(t, cfg, fixedRandom{0.5})
	market := h.market(t)

	// Act
	_, err := h.sim.Run(context.Background(), 60)
	require.NoError(t, err)
	firstHour := market.Today()

	h.sim.TriggerEvent(operations.EventTypeRain, "")
	_, err = h.sim.Run(context.Background(), 60)
	require.NoError(t, err)
	secondHour := market.Today()

	// Assert
	assert.Equal(t, 4, firstHour.CustomersServed)
	assert.InDelta(t, 100.0, firstHour.Revenue, 1e-9)
	assert.Equal(t, 7, secondHour.CustomersServed, "rain cuts four arrivals to three")
	assert.InDelta(t, 175.0, secondHour.Revenue, 1e-9)
	current, _ := market.Occupancy()
	assert.Equal(t, 0, current)
}

func TestDayRollover_EndsDayThenRollsEvents(t *testing.T) {
	// Arrange
	h := newHarness(t, quietConfig(23), fixedRandom{0.99})
	market := h.market(t)
	require.False(t, market.IsOpen())

	// Act
	_, err := h.sim.Run(context.Background(), 59)
	require.NoError(t, err)
	result := h.sim.Tick()

	// Assert
	assert.True(t, result.DayRolled)
	assert.Equal(t, shared.ClockSnapshot{Day: 2, Hour: 0, Minute: 0}, result.Clock)
	assert.Equal(t, 2, market.Today().Day)
	require.Len(t, market.StatsHistory(), 1)
	assert.Equal(t, 1, market.StatsHistory()[0].Day)
	assert.Equal(t, 5, market.BusinessPoints(), "perfect day bonus")
	assert.Equal(t, 2, h.sim.Engine().Day())
	assert.Empty(t, h.sim.Engine().ActiveEvents())

	var rolled *business.DayRolledOver
	for _, e := range h.events {
		if r, ok := e.(business.DayRolledOver); ok {
			rolled = &r
		}
	}
	require.NotNil(t, rolled)
	assert.Equal(t, 1, rolled.ClosedDay)
}

func TestCompleteWorkOrder_FreesHolder(t *testing.T) {
	// Arrange
	h := newHarness(t, quietConfig(8), fixedRandom{0.99})
	market := h.market(t)
	w := h.onDutyStocker(t, "w-1", market.ID())
	taskID, err := h.sim.AddWorkOrder(simulation.WorkOrderRequest{
		Name: "Checkout rush", Type: workorder.TypeStocking, Priority: workorder.PriorityUrgent, EstimatedDuration: 500,
		MiniGameID: "stocking",
	})
	require.NoError(t, err)
	h.sim.Tick()
	require.Equal(t, taskID, w.CurrentTaskID())

	// Act
	err = h.sim.CompleteWorkOrder(taskID, 0.75)

	// Assert
	require.NoError(t, err)
	assert.True(t, w.IsAvailable())
	order, _ := h.sim.Queue().GetTask(taskID)
	assert.Equal(t, 0.75, order.Quality)
	assert.Equal(t, 0.75, market.Today().AverageTaskQuality())
	assert.Error(t, h.sim.CompleteWorkOrder(taskID, 1), "already archived")
}

func TestFailWorkOrder_RecordsIncident(t *testing.T) {
	h := newHarness(t, quietConfig(8), fixedRandom{0.99})
	market := h.market(t)
	taskID, err := h.sim.AddWorkOrder(simulation.WorkOrderRequest{
		Name: "Fix sign", Type: workorder.TypeEquipmentMaintenance, Priority: workorder.PriorityNormal,
	})
	require.NoError(t, err)

	require.NoError(t, h.sim.FailWorkOrder(taskID, "no parts"))

	assert.Equal(t, 1, market.Today().Incidents)
}

func TestAddWorkOrder_Validation(t *testing.T) {
	h := newHarness(t, quietConfig(8), fixedRandom{0.99})
	h.market(t)

	_, err := h.sim.AddWorkOrder(simulation.WorkOrderRequest{Type: workorder.TypeCleaning})
	assert.Error(t, err)
	_, err = h.sim.AddWorkOrder(simulation.WorkOrderRequest{Name: "x", Type: "JUGGLING"})
	assert.Error(t, err)
	_, err = h.sim.AddWorkOrder(simulation.WorkOrderRequest{Name: "x", Type: workorder.TypeCleaning, Priority: 9})
	assert.Error(t, err)
	_, err = h.sim.AddWorkOrder(simulation.WorkOrderRequest{Name: "x", Type: workorder.TypeCleaning, BusinessID: "nope"})
	assert.Error(t, err)
	assert.Equal(t, 0, h.sim.Queue().Size())
}

func TestChangeShift_Transitions(t *testing.T) {
	// Arrange
	h := newHarness(t, quietConfig(8), fixedRandom{0.99})
	market := h.market(t)
	h.onDutyStocker(t, "w-1", market.ID())

	// Act / Assert
	_, err := h.sim.ChangeShift("w-1", simulation.ShiftActionStart, 0)
	assert.Error(t, err, "already on duty")

	snap, err := h.sim.ChangeShift("w-1", simulation.ShiftActionBreak, 0)
	require.NoError(t, err)
	assert.Equal(t, staff.StateOnBreak, snap.State)

	snap, err = h.sim.ChangeShift("w-1", simulation.ShiftActionEndBreak, 0)
	require.NoError(t, err)
	assert.Equal(t, staff.StateIdle, snap.State)

	snap, err = h.sim.ChangeShift("w-1", simulation.ShiftActionEnd, 0)
	require.NoError(t, err)
	assert.False(t, snap.OnDuty)

	_, err = h.sim.ChangeShift("ghost", simulation.ShiftActionStart, 0)
	assert.Error(t, err)
}

func TestApplyScenario(t *testing.T) {
	// Arrange
	h := newHarness(t, quietConfig(8), fixedRandom{0.5})
	scenario := simulation.Scenario{Businesses: []simulation.ScenarioBusiness{{
		Name: "Corner Store", Type: shared.BusinessHypermarket, Cash: 2000,
		Hires: []simulation.ScenarioHire{{Template: "cashier", Count: 2}, {Template: "stocker"}},
	}}}

	// Act
	require.NoError(t, h.sim.ApplyScenario(scenario))

	// Assert
	active := h.sim.Directory().ActiveBusiness()
	require.NotNil(t, active)
	assert.Equal(t, 2000.0, active.Cash())
	assert.Equal(t, 0.0, active.Today().Revenue, "funding is not revenue")
	assert.Len(t, h.sim.Directory().Roster(), 3)
	assert.Len(t, h.sim.Directory().OnDutyWorkers(active.ID()), 3, "morning rota covers 08:00")

	err := h.sim.ApplyScenario(simulation.Scenario{Businesses: []simulation.ScenarioBusiness{{
		Name: "Ghost Town", Type: shared.BusinessHypermarket, Hires: []simulation.ScenarioHire{{Template: "astronaut"}},
	}}})
	assert.Error(t, err)
}

func TestSnapshotRestore_RoundTripWithoutSideEffects(t *testing.T) {
	// Arrange
	h := newHarness(t, quietConfig(8), fixedRandom{0.5})
	market := h.market(t)
	h.onDutyStocker(t, "w-1", market.ID())
	_, err := h.sim.AddWorkOrder(simulation.WorkOrderRequest{
		Name: "Long job", Type: workorder.TypeStocking, Priority: workorder.PriorityHigh, EstimatedDuration: 1000,
	})
	require.NoError(t, err)
	_, err = h.sim.AddWorkOrder(simulation.WorkOrderRequest{
		Name: "Later", Type: workorder.TypeCleaning, Priority: workorder.PriorityLow,
	})
	require.NoError(t, err)
	h.sim.TriggerEvent(operations.EventTypeMajorBreakdown, "freezer")
	h.sim.ScheduleEvent(operations.EventTypeHealthInspection, 3, "")
	_, err = h.sim.Run(context.Background(), 5)
	require.NoError(t, err)
	snap := h.sim.Snapshot()

	restored := newHarness(t, quietConfig(0), fixedRandom{0.5})

	// Act
	require.NoError(t, restored.sim.Restore(snap))

	// Assert
	assert.Empty(t, restored.events)
	assert.Equal(t, snap.Clock, restored.sim.Clock().Snapshot())
	assert.Equal(t, h.sim.Queue().Counts(), restored.sim.Queue().Counts())
	assert.Len(t, restored.sim.Queue().ActiveTasks(), 1)
	assert.Len(t, restored.sim.Engine().ActiveEvents(), 1)
	assert.Len(t, restored.sim.Engine().Scheduled(), 1)
	assert.Equal(t, h.sim.Directory().Roster(), restored.sim.Directory().Roster())

	restoredMarket, err := restored.sim.Directory().Business(market.ID())
	require.NoError(t, err)
	assert.Equal(t, 1, restoredMarket.Today().Incidents)
	assert.Equal(t, market.ID(), restored.sim.Directory().ActiveBusiness().ID())

	snap.Version = 99
	assert.Error(t, restored.sim.Restore(snap))
}

func TestDashboard(t *testing.T) {
	// Arrange
	h := newHarness(t, quietConfig(8), fixedRandom{0.5})
	market := h.market(t)
	diner, err := h.sim.CreateBusiness(shared.BusinessRestaurant, "Night Diner")
	require.NoError(t, err)
	_, err = h.sim.AddWorkOrder(simulation.WorkOrderRequest{Name: "Clean", Type: workorder.TypeCleaning, Priority: workorder.PriorityLow})
	require.NoError(t, err)
	_, err = h.sim.AddWorkOrder(simulation.WorkOrderRequest{
		BusinessID: diner.ID(), Name: "Prep", Type: workorder.TypeFoodPrep, Priority: workorder.PriorityLow,
	})
	require.NoError(t, err)
	h.sim.TriggerEvent(operations.EventTypeRain, "")

	// Act
	all, err := h.sim.Dashboard("")
	require.NoError(t, err)
	marketOnly, err := h.sim.Dashboard(market.ID())
	require.NoError(t, err)
	_, missingErr := h.sim.Dashboard("nope")

	// Assert
	assert.Len(t, all.Businesses, 2)
	assert.Len(t, all.PendingTasks, 2)
	assert.Equal(t, market.ID(), all.ActiveBusinessID)
	assert.InDelta(t, -0.2, all.Effects["foot_traffic"], 1e-9)
	assert.Len(t, all.ActiveEvents, 1)

	assert.Len(t, marketOnly.Businesses, 1)
	assert.Len(t, marketOnly.PendingTasks, 1)
	assert.Error(t, missingErr)
}

func TestRunRealtime_StopsOnCancel(t *testing.T) {
	cfg := quietConfig(8)
	cfg.TicksPerSecond = 1000
	h := newHarness(t, cfg, fixedRandom{0.99})
	ctx, cancel := context.WithCancel(context.Background())

	ticks := 0
	err := h.sim.RunRealtime(ctx, func(simulation.TickResult) {
		ticks++
		if ticks == 5 {
			cancel()
		}
	})

	assert.NoError(t, err)
	assert.Equal(t, 5, ticks)
}

func TestParseShiftAction(t *testing.T) {
	a, err := simulation.ParseShiftAction("END_BREAK")
	require.NoError(t, err)
	assert.Equal(t, simulation.ShiftActionEndBreak, a)
	_, err = simulation.ParseShiftAction("nap")
	assert.Error(t, err)
}
