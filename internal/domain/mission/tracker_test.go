package mission_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/bizsim-go/internal/domain/mission"
	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
)

type business struct {
	id   string
	kind shared.BusinessType
	tier int
}

func (b business) ID() string                        { return b.id }
func (b business) BusinessType() shared.BusinessType { return b.kind }
func (b business) Tier() int                         { return b.tier }

var market = business{id: "biz-1", kind: shared.BusinessHypermarket, tier: 1}

type fixture struct {
	clock   *shared.MockClock
	events  []shared.DomainEvent
	tracker *mission.Tracker
}

func newFixture(t *testing.T, defs ...mission.Definition) *fixture {
	t.Helper()
	f := &fixture{clock: shared.NewMockClock(time.Time{})}
	bus := shared.NewEventBus()
	bus.SubscribeAll(func(e shared.DomainEvent) { f.events = append(f.events, e) })
	f.tracker = mission.NewTracker(f.clock, bus, nil)
	for _, def := range defs {
		require.NoError(t, f.tracker.Add(def))
	}
	return f
}

func (f *fixture) names() []string {
	var names []string
	for _, e := range f.events {
		names = append(names, e.EventName())
	}
	return names
}

func serveMission() mission.Definition {
	return mission.Definition{
		ID:    "serve",
		Title: "Serve",
		Objectives: []mission.ObjectiveDefinition{
			{ID: "customers", Type: mission.ObjectiveServeCustomers, Target: 10},
			{ID: "tasks", Type: mission.ObjectiveCompleteTask, Target: 2},
			{ID: "bonus", Type: mission.ObjectiveHireStaff, Target: 3, Optional: true},
		},
		Rewards: mission.Rewards{Money: 100, BusinessPoints: 5},
	}
}

func followUp() mission.Definition {
	return mission.Definition{
		ID:            "follow-up",
		Prerequisites: []string{"serve"},
		Objectives:    []mission.ObjectiveDefinition{{ID: "o", Type: mission.ObjectiveOther}},
	}
}

func TestAdd_Validation(t *testing.T) {
	tests := []struct {
		name string
		def  mission.Definition
	}{
		{name: "missing id", def: mission.Definition{Objectives: serveMission().Objectives}},
		{name: "no objectives", def: mission.Definition{ID: "x"}},
		{name: "repeated objective", def: mission.Definition{ID: "x", Objectives: []mission.ObjectiveDefinition{
			{ID: "a", Type: mission.ObjectiveOther}, {ID: "a", Type: mission.ObjectiveOther},
		}}},
		{name: "unknown type", def: mission.Definition{ID: "x", Objectives: []mission.ObjectiveDefinition{{ID: "a", Type: "DANCE"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			err := f.tracker.Add(tt.def)

			var v *shared.ValidationError
			assert.ErrorAs(t, err, &v)
		})
	}
}

func TestAdd_LocksMissionsWithPrerequisites(t *testing.T) {
	// Arrange & Act
	f := newFixture(t, serveMission(), followUp())

	// Assert
	serve, err := f.tracker.Mission("serve")
	require.NoError(t, err)
	assert.Equal(t, mission.StatusAvailable, serve.Status)
	next, _ := f.tracker.Mission("follow-up")
	assert.Equal(t, mission.StatusLocked, next.Status)
	assert.Equal(t, 1, next.Objectives[0].Target, "missing targets default to one")
	assert.Error(t, f.tracker.Add(serveMission()), "ids are unique")
}

func TestStart_Requirements(t *testing.T) {
	restaurantOnly := serveMission()
	restaurantOnly.BusinessType = shared.BusinessRestaurant
	highTier := serveMission()
	highTier.RequiredTier = 3

	tests := []struct {
		name      string
		def       mission.Definition
		missionID string
		assert    func(t *testing.T, err error)
	}{
		{
			name:      "unknown mission",
			def:       serveMission(),
			missionID: "nope",
			assert: func(t *testing.T, err error) {
				var nf *shared.NotFoundError
				assert.ErrorAs(t, err, &nf)
			},
		},
		{
			name:      "wrong business type",
			def:       restaurantOnly,
			missionID: "serve",
			assert: func(t *testing.T, err error) {
				var req *mission.ErrRequirementsNotMet
				require.ErrorAs(t, err, &req)
				assert.Contains(t, req.Reason, "RESTAURANT")
			},
		},
		{
			name:      "tier too low",
			def:       highTier,
			missionID: "serve",
			assert: func(t *testing.T, err error) {
				var req *mission.ErrRequirementsNotMet
				require.ErrorAs(t, err, &req)
				assert.Contains(t, req.Reason, "tier")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := newFixture(t, tt.def)

			// Act
			err := f.tracker.Start(tt.missionID, market)

			// Assert
			require.Error(t, err)
			tt.assert(t, err)
			assert.Empty(t, f.events)
		})
	}
}

func TestStart_LockedMissionIsUnavailable(t *testing.T) {
	// Arrange
	f := newFixture(t, serveMission(), followUp())

	// Act
	err := f.tracker.Start("follow-up", market)

	// Assert
	var unavailable *mission.ErrMissionUnavailable
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, mission.StatusLocked, unavailable.Status)
}

func TestStart_BindsBusinessAndDeadline(t *testing.T) {
	// Arrange
	def := serveMission()
	def.TimeLimitHours = 48
	f := newFixture(t, def)

	// Act
	err := f.tracker.Start("serve", market)

	// Assert
	require.NoError(t, err)
	m, _ := f.tracker.Mission("serve")
	assert.Equal(t, mission.StatusActive, m.Status)
	assert.Equal(t, "biz-1", m.BusinessID)
	assert.Equal(t, f.clock.Now().Add(48*time.Hour), m.Deadline)
	assert.Len(t, f.tracker.ActiveFor("biz-1"), 1)
	assert.Equal(t, []string{mission.EventMissionStarted}, f.names())

	var unavailable *mission.ErrMissionUnavailable
	assert.ErrorAs(t, f.tracker.Start("serve", market), &unavailable, "a mission is taken once")
}

func TestRecord_CompletesOnRequiredObjectivesAndUnlocksFollowUps(t *testing.T) {
	// Arrange
	f := newFixture(t, serveMission(), followUp())
	require.NoError(t, f.tracker.Start("serve", market))
	f.events = nil

	// Act
	f.tracker.Record("biz-1", mission.ObjectiveServeCustomers, 7)
	f.tracker.Record("other-biz", mission.ObjectiveServeCustomers, 50)
	f.tracker.Record("biz-1", mission.ObjectiveServeCustomers, 7)
	f.tracker.Record("biz-1", mission.ObjectiveCompleteTask, 2)

	// Assert
	m, _ := f.tracker.Mission("serve")
	assert.Equal(t, mission.StatusCompleted, m.Status)
	assert.Equal(t, 10, m.Objectives[0].Progress, "progress is capped at the target")
	assert.Zero(t, m.Objectives[2].Progress, "optional objectives are not needed")
	assert.Equal(t, f.clock.Now(), m.FinishedAt)
	assert.Equal(t, []string{
		mission.EventObjectiveCompleted,
		mission.EventObjectiveCompleted,
		mission.EventMissionCompleted,
		mission.EventMissionUnlocked,
	}, f.names())
	completed := f.events[2].(mission.MissionCompleted)
	assert.Equal(t, 100.0, completed.Mission.Rewards.Money)
	assert.Equal(t, "biz-1", completed.Mission.BusinessID)

	next, _ := f.tracker.Mission("follow-up")
	assert.Equal(t, mission.StatusAvailable, next.Status)
	assert.NoError(t, f.tracker.Start("follow-up", market))
}

func TestReach_KeepsBestValue(t *testing.T) {
	// Arrange
	f := newFixture(t, mission.Definition{
		ID:         "profit",
		Objectives: []mission.ObjectiveDefinition{{ID: "p", Type: mission.ObjectiveReachProfit, Target: 1000}},
	})
	require.NoError(t, f.tracker.Start("profit", market))

	// Act
	f.tracker.Reach("biz-1", mission.ObjectiveReachProfit, 600)
	f.tracker.Reach("biz-1", mission.ObjectiveReachProfit, 300)

	// Assert
	m, _ := f.tracker.Mission("profit")
	assert.Equal(t, 600, m.Objectives[0].Progress)
	assert.InDelta(t, 60, m.ProgressPercent(), 1e-9)
}

func TestObserveRating_StreakResetsOnABadDay(t *testing.T) {
	// Arrange
	f := newFixture(t, mission.Definition{
		ID: "steady",
		Objectives: []mission.ObjectiveDefinition{
			{ID: "r", Type: mission.ObjectiveMaintainRating, Target: 3, Threshold: 3.5},
		},
	})
	require.NoError(t, f.tracker.Start("steady", market))

	// Act & Assert
	f.tracker.ObserveRating("biz-1", 4.0)
	f.tracker.ObserveRating("biz-1", 3.6)
	m, _ := f.tracker.Mission("steady")
	assert.Equal(t, 2, m.Objectives[0].Progress)

	f.tracker.ObserveRating("biz-1", 3.0)
	m, _ = f.tracker.Mission("steady")
	assert.Zero(t, m.Objectives[0].Progress)

	for i := 0; i < 3; i++ {
		f.tracker.ObserveRating("biz-1", 3.5)
	}
	m, _ = f.tracker.Mission("steady")
	assert.Equal(t, mission.StatusCompleted, m.Status)
}

func TestUpdateObjective(t *testing.T) {
	// Arrange
	f := newFixture(t, serveMission())

	// Act & Assert
	var inactive *mission.ErrMissionNotActive
	assert.ErrorAs(t, f.tracker.UpdateObjective("serve", "customers", 3), &inactive)

	require.NoError(t, f.tracker.Start("serve", market))
	require.NoError(t, f.tracker.UpdateObjective("serve", "customers", 3))
	require.NoError(t, f.tracker.IncrementObjective("serve", "customers", 2))
	require.NoError(t, f.tracker.UpdateObjective("serve", "tasks", -4))
	var nf *shared.NotFoundError
	assert.ErrorAs(t, f.tracker.UpdateObjective("serve", "nope", 1), &nf)

	m, _ := f.tracker.Mission("serve")
	assert.Equal(t, 5, m.Objectives[0].Progress)
	assert.Zero(t, m.Objectives[1].Progress)
}

func TestComplete_ForcesCompletion(t *testing.T) {
	// Arrange
	f := newFixture(t, serveMission())
	require.NoError(t, f.tracker.Start("serve", market))

	// Act
	err := f.tracker.Complete("serve")

	// Assert
	require.NoError(t, err)
	assert.Len(t, f.tracker.ByStatus(mission.StatusCompleted), 1)
	var inactive *mission.ErrMissionNotActive
	assert.ErrorAs(t, f.tracker.Complete("serve"), &inactive)
}

func TestFailAndExpire(t *testing.T) {
	// Arrange
	timed := serveMission()
	timed.ID = "timed"
	timed.TimeLimitHours = 2
	f := newFixture(t, serveMission(), timed)
	require.NoError(t, f.tracker.Start("serve", market))
	require.NoError(t, f.tracker.Start("timed", market))

	// Act
	require.NoError(t, f.tracker.Fail("serve", "owner gave up"))
	f.clock.Advance(time.Hour)
	early := f.tracker.ExpireOverdue()
	f.clock.Advance(time.Hour)
	expired := f.tracker.ExpireOverdue()

	// Assert
	assert.Empty(t, early)
	assert.Equal(t, []string{"timed"}, expired)
	failed := f.tracker.ByStatus(mission.StatusFailed)
	require.Len(t, failed, 2)
	assert.Equal(t, "owner gave up", failed[0].FailureReason)
	assert.Equal(t, "time limit exceeded", failed[1].FailureReason)

	f.tracker.Record("biz-1", mission.ObjectiveServeCustomers, 100)
	m, _ := f.tracker.Mission("serve")
	assert.Zero(t, m.Objectives[0].Progress, "failed missions take no progress")
}

func TestSnapshot_RoundTrip(t *testing.T) {
	// Arrange
	f := newFixture(t, serveMission(), followUp())
	require.NoError(t, f.tracker.Start("serve", market))
	f.tracker.Record("biz-1", mission.ObjectiveServeCustomers, 4)

	// Act
	snap := f.tracker.Snapshot()
	restored := mission.NewTracker(f.clock, nil, nil)
	restored.Restore(snap)

	// Assert
	assert.Equal(t, snap, restored.Snapshot())
	f.tracker.Record("biz-1", mission.ObjectiveServeCustomers, 1)
	m, _ := restored.Mission("serve")
	assert.Equal(t, 4, m.Objectives[0].Progress, "restored tracker owns its state")
}

func TestDefaultCatalogue_Loads(t *testing.T) {
	f := newFixture(t, mission.DefaultCatalogue()...)

	assert.Len(t, f.tracker.ByStatus(mission.StatusAvailable), 3)
	assert.Len(t, f.tracker.ByStatus(mission.StatusLocked), 2)
}

func TestParseObjectiveType(t *testing.T) {
	kind, err := mission.ParseObjectiveType(" serve_customers ")
	require.NoError(t, err)
	assert.Equal(t, mission.ObjectiveServeCustomers, kind)

	_, err = mission.ParseObjectiveType("dance")
	assert.Error(t, err)
}
