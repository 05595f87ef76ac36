package business_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/bizsim-go/internal/domain/business"
	"github.com/andrescamacho/bizsim-go/internal/domain/reputation"
	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
	"github.com/andrescamacho/bizsim-go/internal/domain/staff"
)

type fixture struct {
	dir    *business.Directory
	events []shared.DomainEvent
}

func newFixture() *fixture {
	f := &fixture{}
	bus := shared.NewEventBus()
	bus.SubscribeAll(func(e shared.DomainEvent) { f.events = append(f.events, e) })
	f.dir = business.NewDirectory(nil, shared.SequentialIDs("biz"), bus, nil)
	return f
}

func (f *fixture) names() []string {
	names := make([]string, len(f.events))
	for i, e := range f.events {
		names[i] = e.EventName()
	}
	return names
}

func hire(t *testing.T, dir *business.Directory, id string, role shared.StaffRole, businessID string) *staff.Worker {
	t.Helper()
	w := staff.NewWorker(id, "Alex "+id, role, staff.DefaultAttributes(), shared.NewSeededRandom(1))
	require.NoError(t, dir.HireWorker(w, businessID))
	return w
}

func TestDirectory_FirstBusinessBecomesActive(t *testing.T) {
	// Arrange
	f := newFixture()

	// Act
	market, err := f.dir.CreateBusiness(shared.BusinessHypermarket, "Corner Store", 1)
	require.NoError(t, err)
	diner, err := f.dir.CreateBusiness(shared.BusinessRestaurant, "Night Diner", 1)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, "biz-1", market.ID())
	assert.Equal(t, "biz-2", diner.ID())
	assert.Equal(t, market, f.dir.ActiveBusiness())
	assert.Len(t, f.dir.Businesses(), 2)
	assert.Equal(t, []*reputation.Ledger{diner}, f.dir.BusinessesByType(shared.BusinessRestaurant))
	assert.Equal(t, []string{business.EventBusinessCreated, business.EventBusinessCreated}, f.names())
}

func TestDirectory_CreateBusinessValidates(t *testing.T) {
	f := newFixture()

	_, err := f.dir.CreateBusiness(shared.BusinessType("SPACEPORT"), "Nowhere", 1)
	var validation *shared.ValidationError
	assert.True(t, errors.As(err, &validation))

	_, err = f.dir.CreateBusiness(shared.BusinessHypermarket, "", 1)
	assert.Error(t, err)
	assert.Empty(t, f.dir.Businesses())
}

func TestDirectory_SetActiveBusiness(t *testing.T) {
	// Arrange
	f := newFixture()
	_, _ = f.dir.CreateBusiness(shared.BusinessHypermarket, "Corner Store", 1)
	diner, _ := f.dir.CreateBusiness(shared.BusinessRestaurant, "Night Diner", 1)

	// Act
	require.NoError(t, f.dir.SetActiveBusiness(diner.ID()))
	err := f.dir.SetActiveBusiness("biz-404")

	// Assert
	var notFound *shared.NotFoundError
	assert.True(t, errors.As(err, &notFound))
	assert.Equal(t, diner, f.dir.ActiveBusiness())
}

func TestDirectory_UnknownBusinessIsRejected(t *testing.T) {
	f := newFixture()

	assert.Error(t, f.dir.RecordSale("biz-404", 10))
	assert.Error(t, f.dir.RecordExpense("biz-404", 10, "rent"))
	assert.Error(t, f.dir.UpgradeBusiness("biz-404", 0, 0))
	_, err := f.dir.Summary("biz-404")
	assert.Error(t, err)
}

func TestDirectory_HireWorker(t *testing.T) {
	// Arrange
	f := newFixture()
	market, _ := f.dir.CreateBusiness(shared.BusinessHypermarket, "Corner Store", 1)

	// Act
	w := hire(t, f.dir, "w-1", shared.RoleCashier, market.ID())

	// Assert
	assert.Equal(t, market.ID(), w.BusinessID())
	got, err := f.dir.Worker("w-1")
	require.NoError(t, err)
	assert.Same(t, w, got)
	assert.Contains(t, f.names(), business.EventWorkerHired)

	assert.Error(t, f.dir.HireWorker(w, market.ID()), "same worker twice")
	assert.Error(t, f.dir.HireWorker(staff.NewWorker("w-2", "Sam", shared.RoleCashier, staff.DefaultAttributes(), nil), "biz-404"))
	assert.Len(t, f.dir.Roster(), 1)
}

func TestDirectory_WorkerQueries(t *testing.T) {
	// Arrange
	f := newFixture()
	market, _ := f.dir.CreateBusiness(shared.BusinessHypermarket, "Corner Store", 1)
	diner, _ := f.dir.CreateBusiness(shared.BusinessRestaurant, "Night Diner", 1)
	cashier := hire(t, f.dir, "w-1", shared.RoleCashier, market.ID())
	hire(t, f.dir, "w-2", shared.RoleStocker, market.ID())
	cook := hire(t, f.dir, "w-3", shared.RoleLineCook, diner.ID())
	cashier.StartShift()
	cook.StartShift()

	// Act
	hypermarketStaff := f.dir.WorkersForBusinessType(shared.BusinessHypermarket)
	marketOnDuty := f.dir.OnDutyWorkers(market.ID())
	allOnDuty := f.dir.OnDutyWorkers("")

	// Assert
	assert.Len(t, hypermarketStaff, 2)
	assert.Equal(t, []*staff.Worker{cashier}, marketOnDuty)
	assert.Equal(t, []*staff.Worker{cashier, cook}, allOnDuty)

	roster := f.dir.Roster()
	require.Len(t, roster, 3)
	assert.Equal(t, "w-1", roster[0].ID)
	assert.Equal(t, "w-3", roster[2].ID)
}

func TestDirectory_EndDayClosesEveryLedgerThenRollsOver(t *testing.T) {
	// Arrange
	f := newFixture()
	market, _ := f.dir.CreateBusiness(shared.BusinessHypermarket, "Corner Store", 1)
	diner, _ := f.dir.CreateBusiness(shared.BusinessRestaurant, "Night Diner", 1)
	market.Open()
	require.NoError(t, f.dir.RecordSale(market.ID(), 1200))
	require.NoError(t, f.dir.RecordExpense(diner.ID(), 50, "rent"))
	diner.RecordIncident()
	f.events = nil

	// Act
	reports := f.dir.EndDay(1)

	// Assert
	require.Len(t, reports, 2)
	assert.Equal(t, market.ID(), reports[0].BusinessID)
	assert.Equal(t, 1, reports[0].Stats.Day)
	assert.Equal(t, 15, market.BusinessPoints(), "profit bonus plus perfect day")
	assert.Equal(t, 0, diner.BusinessPoints())
	assert.False(t, market.IsOpen())
	assert.Equal(t, 2, market.Today().Day)

	assert.Equal(t, []string{
		business.EventDayEnded,
		business.EventDayEnded,
		business.EventDayRolledOver,
	}, f.names())
	rolled := f.events[2].(business.DayRolledOver)
	assert.Equal(t, 1, rolled.ClosedDay)
	assert.Equal(t, 2, rolled.NewDay)
	assert.Equal(t, 15, f.dir.TotalBusinessPoints())
}

func TestDirectory_RecordIncidentOnOpen(t *testing.T) {
	f := newFixture()
	market, _ := f.dir.CreateBusiness(shared.BusinessHypermarket, "Corner Store", 1)
	diner, _ := f.dir.CreateBusiness(shared.BusinessRestaurant, "Night Diner", 1)
	market.Open()

	count := f.dir.RecordIncidentOnOpen("storm")

	assert.Equal(t, 1, count)
	assert.Equal(t, 1, market.Today().Incidents)
	assert.Equal(t, 0, diner.Today().Incidents)
}

func TestDirectory_UpgradeToNextTier(t *testing.T) {
	// Arrange
	f := newFixture()
	market, _ := f.dir.CreateBusiness(shared.BusinessHypermarket, "Corner Store", 1)
	require.NoError(t, f.dir.RecordSale(market.ID(), 6000))
	require.NoError(t, market.AwardBusinessPoints(120, "grand opening"))

	// Act
	row, err := f.dir.UpgradeToNextTier(market.ID())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, row.Tier)
	assert.Equal(t, 2, market.Tier())
	assert.Equal(t, 20, market.BusinessPoints())
	assert.Equal(t, 1000.0, market.Cash())
	_, max := market.Occupancy()
	assert.Equal(t, 75, max)

	_, err = f.dir.UpgradeToNextTier(market.ID())
	var insufficient *reputation.ErrInsufficientResources
	assert.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 2, market.Tier())
}

func TestDirectory_Summary(t *testing.T) {
	// Arrange
	f := newFixture()
	market, _ := f.dir.CreateBusiness(shared.BusinessHypermarket, "Corner Store", 1)
	market.Open()
	require.NoError(t, f.dir.RecordSale(market.ID(), 300))
	require.NoError(t, f.dir.RecordExpense(market.ID(), 120, "wages"))
	hire(t, f.dir, "w-1", shared.RoleCashier, market.ID()).StartShift()
	hire(t, f.dir, "w-2", shared.RoleStocker, market.ID())

	// Act
	s, err := f.dir.Summary(market.ID())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Corner Store", s.Name)
	assert.Equal(t, 300.0, s.TodayRevenue)
	assert.Equal(t, 180.0, s.TodayProfit)
	assert.Equal(t, 1, s.CustomersServed)
	assert.Equal(t, 3.0, s.Reputation)
	assert.Equal(t, 1.0, s.FootTrafficMultiplier)
	assert.True(t, s.IsOpen)
	assert.Equal(t, 2, s.StaffCount)
	assert.Equal(t, 1, s.OnDutyCount)
}

func TestDirectory_SnapshotRestore(t *testing.T) {
	// Arrange
	f := newFixture()
	market, _ := f.dir.CreateBusiness(shared.BusinessHypermarket, "Corner Store", 1)
	diner, _ := f.dir.CreateBusiness(shared.BusinessRestaurant, "Night Diner", 1)
	require.NoError(t, f.dir.SetActiveBusiness(diner.ID()))
	require.NoError(t, f.dir.RecordSale(market.ID(), 80))
	hire(t, f.dir, "w-1", shared.RoleCashier, market.ID()).StartShift()
	snap := f.dir.Snapshot()

	restored := newFixture()

	// Act
	restored.dir.Restore(snap, shared.NewSeededRandom(7))

	// Assert
	assert.Empty(t, restored.events, "restore publishes nothing")
	assert.Equal(t, snap, restored.dir.Snapshot())
	assert.Equal(t, diner.ID(), restored.dir.ActiveBusiness().ID())
	w, err := restored.dir.Worker("w-1")
	require.NoError(t, err)
	assert.True(t, w.IsOnDuty())
}
