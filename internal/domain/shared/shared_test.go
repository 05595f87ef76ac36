package shared_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
)

func TestGameClock_RollsOverMidnight(t *testing.T) {
	// Arrange
	clock := shared.NewGameClock(1, 23, 59)

	// Act
	hour, minute, rolled := clock.AdvanceMinute()

	// Assert
	assert.True(t, rolled)
	assert.Equal(t, 0, hour)
	assert.Equal(t, 0, minute)
	assert.Equal(t, shared.ClockSnapshot{Day: 2}, clock.Snapshot())
	assert.Equal(t, shared.GameEpoch.Add(24*time.Hour), clock.Now())
}

func TestGameClock_NormalisesOutOfRange(t *testing.T) {
	clock := shared.NewGameClock(0, 25, -1)

	assert.Equal(t, shared.ClockSnapshot{Day: 1, Hour: 1, Minute: 59}, clock.Snapshot())
}

func TestGameClock_SleepAdvancesWholeMinutes(t *testing.T) {
	clock := shared.NewGameClock(1, 8, 0)

	clock.Sleep(90*time.Minute + 30*time.Second)

	assert.Equal(t, "day 1 09:30", clock.Snapshot().String())
}

func TestSequentialIDs(t *testing.T) {
	next := shared.SequentialIDs("wo")

	assert.Equal(t, "wo-1", next())
	assert.Equal(t, "wo-2", next())
}

func TestSeededRandom_Replays(t *testing.T) {
	a, b := shared.NewSeededRandom(42), shared.NewSeededRandom(42)

	for i := 0; i < 5; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
		v := shared.RandomIntInclusive(a, 3, 8)
		assert.Equal(t, v, shared.RandomIntInclusive(b, 3, 8))
		assert.GreaterOrEqual(t, v, 3)
		assert.LessOrEqual(t, v, 8)
	}
	assert.Equal(t, 2.5, shared.RandomRange(a, 2.5, 2.5))
	assert.Empty(t, shared.RandomChoice(a, nil))
}

type named string

func (n named) EventName() string { return string(n) }

func TestEventBus_NamedBeforeWildcard(t *testing.T) {
	// Arrange
	bus := shared.NewEventBus()
	var seen []string
	bus.SubscribeAll(func(e shared.DomainEvent) { seen = append(seen, "all:"+e.EventName()) })
	bus.Subscribe("TaskAdded", func(e shared.DomainEvent) { seen = append(seen, "named:"+e.EventName()) })

	// Act
	bus.Publish(named("TaskAdded"), nil, named("TaskExpired"))

	// Assert
	assert.Equal(t, []string{"named:TaskAdded", "all:TaskAdded", "all:TaskExpired"}, seen)
}

func TestEventBus_NilIsNoop(t *testing.T) {
	var bus *shared.EventBus

	assert.NotPanics(t, func() { bus.Publish(named("TaskAdded")) })
}

func TestRoles(t *testing.T) {
	role, err := shared.ParseStaffRole("stocker")
	require.NoError(t, err)
	assert.Equal(t, shared.BusinessHypermarket, role.BusinessType())

	_, err = shared.ParseStaffRole("astronaut")
	assert.Error(t, err)

	roles := shared.RolesFor(shared.BusinessTaxiCompany)
	assert.Contains(t, roles, shared.RoleDriver)
	roles[0] = "CHANGED"
	assert.Equal(t, shared.RoleDriver, shared.RolesFor(shared.BusinessTaxiCompany)[0])

	bt, err := shared.ParseBusinessType("retail_fashion")
	require.NoError(t, err)
	assert.Equal(t, shared.BusinessRetailFashion, bt)
	assert.Len(t, shared.AllBusinessTypes(), 5)
}

func TestLocation_MoveToward(t *testing.T) {
	from := shared.NewLocation(0, 0)
	to := shared.NewLocation(3, 4)

	assert.Equal(t, 5.0, from.DistanceTo(to))
	assert.Equal(t, to, from.MoveToward(to, 10))
	step := from.MoveToward(to, 2.5)
	assert.InDelta(t, 1.5, step.X, 1e-9)
	assert.InDelta(t, 2.0, step.Y, 1e-9)
}
