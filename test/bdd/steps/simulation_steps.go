package steps

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"

	"github.com/andrescamacho/bizsim-go/internal/adapters/persistence"
	"github.com/andrescamacho/bizsim-go/internal/application/common"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation/commands"
	"github.com/andrescamacho/bizsim-go/internal/domain/operations"
	"github.com/andrescamacho/bizsim-go/internal/domain/reputation"
	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
	"github.com/andrescamacho/bizsim-go/internal/domain/staff"
	"github.com/andrescamacho/bizsim-go/internal/domain/workorder"
	"github.com/andrescamacho/bizsim-go/internal/infrastructure/wiring"
	"github.com/andrescamacho/bizsim-go/test/helpers"
)

// simulationContext holds one game per scenario plus whatever the last
// step produced
type simulationContext struct {
	config     simulation.Config
	sim        *simulation.Simulation
	mediator   common.Mediator
	store      *persistence.GormSnapshotRepository
	dailyStats *persistence.GormDailyStatsRepository

	businessID string
	workerID   string
	eventID    string
	eventEnd   time.Time
	err        error
}

func (sc *simulationContext) reset() {
	*sc = simulationContext{}
	if helpers.SharedTestDB != nil {
		sc.store = persistence.NewGormSnapshotRepository(helpers.SharedTestDB, nil)
		sc.dailyStats = persistence.NewGormDailyStatsRepository(helpers.SharedTestDB, nil, nil)
	}
}

// newSimulation builds a deterministic game wired to the shared database
func (sc *simulationContext) newSimulation() error {
	sim := simulation.New(sc.config, simulation.DefaultTuning(), nil,
		simulation.WithRandom(helpers.FixedRandom{Value: 0.99}),
		simulation.WithIDs(shared.SequentialIDs("id")),
	)
	if sc.dailyStats != nil {
		sc.dailyStats.Attach(sim.Bus())
	}
	var store common.SnapshotStore
	if sc.store != nil {
		store = sc.store
	}
	mediator, err := wiring.NewMediator(sim, store)
	if err != nil {
		return err
	}
	sc.sim = sim
	sc.mediator = mediator
	return nil
}

// ============================================================================
// Setup Steps
// ============================================================================

func (sc *simulationContext) aQuietSimulationStartingAt(hour, minute int) error {
	if minute != 0 {
		return godog.ErrPending
	}
	sc.config = helpers.QuietConfig(hour)
	return sc.newSimulation()
}

func (sc *simulationContext) aHypermarketNamed(name string) error {
	ledger, err := sc.sim.CreateBusiness(shared.BusinessHypermarket, name)
	if err != nil {
		return err
	}
	sc.businessID = ledger.ID()
	return nil
}

func (sc *simulationContext) anOnDutyWorkerHired(templateID string) error {
	hired, err := sc.sim.HireWorker(templateID, sc.businessID, staff.ShiftOnCall)
	if err != nil {
		return err
	}
	sc.workerID = hired.ID
	_, err = sc.sim.ChangeShift(hired.ID, simulation.ShiftActionStart, 0)
	return err
}

func (sc *simulationContext) aWorkerHiredOnShift(templateID, shiftName string) error {
	shift, err := staff.ParseShiftType(shiftName)
	if err != nil {
		return err
	}
	hired, err := sc.sim.HireWorker(templateID, sc.businessID, shift)
	if err != nil {
		return err
	}
	sc.workerID = hired.ID
	return nil
}

func (sc *simulationContext) workOrderRequest(priorityName, typeName, name, units, money, deadline string) (simulation.WorkOrderRequest, error) {
	priority, err := workorder.ParsePriority(priorityName)
	if err != nil {
		return simulation.WorkOrderRequest{}, shared.NewValidationError("priority", err.Error())
	}
	orderType, err := workorder.ParseType(typeName)
	if err != nil {
		return simulation.WorkOrderRequest{}, shared.NewValidationError("type", err.Error())
	}
	req := simulation.WorkOrderRequest{
		BusinessID: sc.businessID,
		Name:       name,
		Type:       orderType,
		Priority:   priority,
	}
	if units != "" {
		req.EstimatedDuration, _ = strconv.ParseFloat(units, 64)
	}
	if money != "" {
		req.MoneyReward, _ = strconv.ParseFloat(money, 64)
	}
	if deadline != "" {
		req.DeadlineMinutes, _ = strconv.Atoi(deadline)
	}
	return req, nil
}

func (sc *simulationContext) aWorkOrder(priorityName, typeName, name, units, money, deadline string) error {
	req, err := sc.workOrderRequest(priorityName, typeName, name, units, money, deadline)
	if err != nil {
		return err
	}
	_, err = sc.sim.AddWorkOrder(req)
	return err
}

func (sc *simulationContext) theFollowingWorkOrdersAreQueued(table *godog.Table) error {
	for _, row := range table.Rows[1:] {
		err := sc.aWorkOrder(
			cellValue(table, row, "priority"),
			cellValue(table, row, "type"),
			cellValue(table, row, "name"),
			cellValue(table, row, "units"),
			cellValue(table, row, "money"),
			cellValue(table, row, "deadline"),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// cellValue reads a column by header name; missing columns read as empty
func cellValue(table *godog.Table, row *messages.PickleTableRow, column string) string {
	for i, cell := range table.Rows[0].Cells {
		if cell.Value == column && i < len(row.Cells) {
			return row.Cells[i].Value
		}
	}
	return ""
}

// ============================================================================
// Action Steps
// ============================================================================

func (sc *simulationContext) iAddAWorkOrder(priorityName, typeName, name string) error {
	req, err := sc.workOrderRequest(priorityName, typeName, name, "", "", "")
	if err == nil {
		_, err = sc.sim.AddWorkOrder(req)
	}
	sc.err = err
	return nil
}

func (sc *simulationContext) theSimulationRunsFor(minutes int) error {
	_, err := sc.sim.Run(context.Background(), minutes)
	return err
}

func (sc *simulationContext) theWorkersShiftActionIs(actionName string) error {
	action, err := simulation.ParseShiftAction(actionName)
	if err != nil {
		return err
	}
	_, sc.err = sc.sim.ChangeShift(sc.workerID, action, 0)
	return nil
}

func (sc *simulationContext) anEventHits(typeName, target string) error {
	eventType, err := operations.ParseEventType(typeName)
	if err != nil {
		return err
	}
	evt := sc.sim.TriggerEvent(eventType, target)
	sc.eventID = evt.ID
	sc.eventEnd = evt.EndTime
	return nil
}

func (sc *simulationContext) thePlayerAnswersTheEventWith(action string) error {
	sc.err = sc.sim.HandleEventAction(sc.eventID, action)
	return nil
}

func (sc *simulationContext) theGameIsSavedToSlot(slot string) error {
	_, err := sc.mediator.Send(context.Background(), &commands.SaveSnapshotCommand{Slot: slot})
	return err
}

func (sc *simulationContext) aNewSimulationLoadsSlot(slot string) error {
	if err := sc.newSimulation(); err != nil {
		return err
	}
	_, sc.err = sc.mediator.Send(context.Background(), &commands.LoadSnapshotCommand{Slot: slot})
	return nil
}

// ============================================================================
// Assertion Steps
// ============================================================================

func (sc *simulationContext) findOrder(name string) (workorder.Snapshot, error) {
	queue := sc.sim.Queue()
	all := append(queue.PendingTasks(), queue.ActiveTasks()...)
	all = append(all, queue.History()...)
	for _, order := range all {
		if order.Name == name {
			return order, nil
		}
	}
	return workorder.Snapshot{}, fmt.Errorf("work order %q not found", name)
}

func (sc *simulationContext) workOrderShouldBe(name, statusName string) error {
	order, err := sc.findOrder(name)
	if err != nil {
		return err
	}
	if string(order.Status) != statusName {
		return fmt.Errorf("expected work order %q to be %s, got %s", name, statusName, order.Status)
	}
	return nil
}

func (sc *simulationContext) thePendingWorkOrdersShouldBeInOrder(table *godog.Table) error {
	pending := sc.sim.Queue().PendingTasks()
	expected := table.Rows[1:]
	if len(pending) != len(expected) {
		return fmt.Errorf("expected %d pending orders, got %d", len(expected), len(pending))
	}
	for i, row := range expected {
		if name := cellValue(table, row, "name"); pending[i].Name != name {
			return fmt.Errorf("position %d: expected %q, got %q", i+1, name, pending[i].Name)
		}
	}
	return nil
}

func (sc *simulationContext) ledger() (*reputation.Ledger, error) {
	return sc.sim.Directory().Business(sc.businessID)
}

func (sc *simulationContext) theBusinessCashShouldBe(expected float64) error {
	ledger, err := sc.ledger()
	if err != nil {
		return err
	}
	if ledger.Cash() != expected {
		return fmt.Errorf("expected cash %.2f, got %.2f", expected, ledger.Cash())
	}
	return nil
}

func (sc *simulationContext) theBusinessExpensesTodayShouldBe(expected float64) error {
	ledger, err := sc.ledger()
	if err != nil {
		return err
	}
	if got := ledger.Today().Expenses; got != expected {
		return fmt.Errorf("expected expenses %.2f, got %.2f", expected, got)
	}
	return nil
}

func (sc *simulationContext) theBusinessShouldHaveCompletedTasks(expected int) error {
	ledger, err := sc.ledger()
	if err != nil {
		return err
	}
	if got := ledger.Today().TasksCompleted; got != expected {
		return fmt.Errorf("expected %d completed tasks, got %d", expected, got)
	}
	return nil
}

func (sc *simulationContext) theBusinessShouldHaveIncidents(expected int) error {
	ledger, err := sc.ledger()
	if err != nil {
		return err
	}
	if got := ledger.Today().Incidents; got != expected {
		return fmt.Errorf("expected %d incidents, got %d", expected, got)
	}
	return nil
}

func (sc *simulationContext) worker() (staff.Snapshot, error) {
	w, err := sc.sim.Directory().Worker(sc.workerID)
	if err != nil {
		return staff.Snapshot{}, err
	}
	return w.Snapshot(), nil
}

func (sc *simulationContext) theWorkerShouldBeOffDuty() error {
	w, err := sc.worker()
	if err != nil {
		return err
	}
	if w.OnDuty {
		return fmt.Errorf("expected worker %s to be off duty", w.ID)
	}
	return nil
}

func (sc *simulationContext) theWorkerShouldBe(stateName string) error {
	w, err := sc.worker()
	if err != nil {
		return err
	}
	if sc.err != nil {
		return fmt.Errorf("shift change failed: %w", sc.err)
	}
	if string(w.State) != stateName {
		return fmt.Errorf("expected worker state %s, got %s", stateName, w.State)
	}
	return nil
}

func (sc *simulationContext) event() (operations.Snapshot, error) {
	evt, ok := sc.sim.Engine().GetEvent(sc.eventID)
	if !ok {
		return operations.Snapshot{}, fmt.Errorf("event %s not found", sc.eventID)
	}
	return evt, nil
}

func (sc *simulationContext) theEventShouldRequireAction() error {
	evt, err := sc.event()
	if err != nil {
		return err
	}
	if !evt.RequiresAction {
		return fmt.Errorf("expected %s to require action", evt.Type)
	}
	return nil
}

func (sc *simulationContext) theEventShouldNoLongerRequireAction() error {
	if sc.err != nil {
		return fmt.Errorf("event action failed: %w", sc.err)
	}
	evt, err := sc.event()
	if err != nil {
		return err
	}
	if evt.RequiresAction {
		return fmt.Errorf("expected %s to be handled", evt.Type)
	}
	return nil
}

func (sc *simulationContext) theEventShouldEndSoonerThanBefore() error {
	evt, err := sc.event()
	if err != nil {
		return err
	}
	if !evt.EndTime.Before(sc.eventEnd) {
		return fmt.Errorf("expected end before %s, got %s", sc.eventEnd, evt.EndTime)
	}
	return nil
}

func (sc *simulationContext) theRequestShouldFailWith(fragment string) error {
	if sc.err == nil {
		return fmt.Errorf("expected an error containing %q", fragment)
	}
	if !strings.Contains(sc.err.Error(), fragment) {
		return fmt.Errorf("expected error containing %q, got %q", fragment, sc.err.Error())
	}
	return nil
}

func (sc *simulationContext) theClockShouldRead(expected string) error {
	if sc.err != nil {
		return sc.err
	}
	if got := sc.sim.Clock().Snapshot().String(); got != expected {
		return fmt.Errorf("expected clock %q, got %q", expected, got)
	}
	return nil
}

func (sc *simulationContext) theRosterShouldHaveWorkers(expected int) error {
	if got := len(sc.sim.Directory().Roster()); got != expected {
		return fmt.Errorf("expected %d workers, got %d", expected, got)
	}
	return nil
}

func (sc *simulationContext) dailyStatisticsForDayShouldBeRecorded(day int) error {
	if sc.dailyStats == nil {
		return fmt.Errorf("shared test database not initialized")
	}
	history, err := sc.dailyStats.History(context.Background(), sc.businessID, 10)
	if err != nil {
		return err
	}
	for _, stats := range history {
		if stats.Day == day {
			return nil
		}
	}
	return fmt.Errorf("no statistics recorded for day %d (%d rows)", day, len(history))
}

// InitializeSimulationScenario registers the game steps
func InitializeSimulationScenario(ctx *godog.ScenarioContext) {
	sc := &simulationContext{}

	ctx.Before(func(c context.Context, _ *godog.Scenario) (context.Context, error) {
		if err := helpers.TruncateAllTables(); err != nil && helpers.SharedTestDB != nil {
			return c, err
		}
		sc.reset()
		return c, nil
	})

	// Setup steps
	ctx.Step(`^a quiet simulation starting at (\d{2}):(\d{2})$`, sc.aQuietSimulationStartingAt)
	ctx.Step(`^a hypermarket named "([^"]*)"$`, sc.aHypermarketNamed)
	ctx.Step(`^an on-duty "([^"]*)" hired into the business$`, sc.anOnDutyWorkerHired)
	ctx.Step(`^a "([^"]*)" hired on the "([^"]*)" shift$`, sc.aWorkerHiredOnShift)
	ctx.Step(`^a "([^"]*)" priority "([^"]*)" work order "([^"]*)"(?: needing (\d+) work units)?(?: paying (\d+))?(?: due in (\d+) minutes?)?$`, sc.aWorkOrder)
	ctx.Step(`^the following work orders are queued:$`, sc.theFollowingWorkOrdersAreQueued)

	// Action steps
	ctx.Step(`^I add a "([^"]*)" priority "([^"]*)" work order "([^"]*)"$`, sc.iAddAWorkOrder)
	ctx.Step(`^the simulation runs for (\d+) minutes?$`, sc.theSimulationRunsFor)
	ctx.Step(`^the worker's shift action is "([^"]*)"$`, sc.theWorkersShiftActionIs)
	ctx.Step(`^an? "([^"]*)" event hits "([^"]*)"$`, sc.anEventHits)
	ctx.Step(`^the player answers the event with "([^"]*)"$`, sc.thePlayerAnswersTheEventWith)
	ctx.Step(`^the game is saved to slot "([^"]*)"$`, sc.theGameIsSavedToSlot)
	ctx.Step(`^a new simulation loads slot "([^"]*)"$`, sc.aNewSimulationLoadsSlot)

	// Assertion steps
	ctx.Step(`^work order "([^"]*)" should be "([^"]*)"$`, sc.workOrderShouldBe)
	ctx.Step(`^the pending work orders should be, in order:$`, sc.thePendingWorkOrdersShouldBeInOrder)
	ctx.Step(`^the business cash should be (\d+(?:\.\d+)?)$`, sc.theBusinessCashShouldBe)
	ctx.Step(`^the business expenses today should be (\d+(?:\.\d+)?)$`, sc.theBusinessExpensesTodayShouldBe)
	ctx.Step(`^the business should have (\d+) completed tasks? today$`, sc.theBusinessShouldHaveCompletedTasks)
	ctx.Step(`^the business should have (\d+) incidents? today$`, sc.theBusinessShouldHaveIncidents)
	ctx.Step(`^the worker should be off duty$`, sc.theWorkerShouldBeOffDuty)
	ctx.Step(`^the worker should be "([^"]*)"$`, sc.theWorkerShouldBe)
	ctx.Step(`^the event should require action$`, sc.theEventShouldRequireAction)
	ctx.Step(`^the event should no longer require action$`, sc.theEventShouldNoLongerRequireAction)
	ctx.Step(`^the event should end sooner than before$`, sc.theEventShouldEndSoonerThanBefore)
	ctx.Step(`^the request should fail with "([^"]*)"$`, sc.theRequestShouldFailWith)
	ctx.Step(`^the clock should read "([^"]*)"$`, sc.theClockShouldRead)
	ctx.Step(`^the roster should have (\d+) workers?$`, sc.theRosterShouldHaveWorkers)
	ctx.Step(`^daily statistics for day (\d+) should be recorded$`, sc.dailyStatisticsForDayShouldBeRecorded)
}
