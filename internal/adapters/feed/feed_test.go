package feed_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/bizsim-go/internal/adapters/feed"
	"github.com/andrescamacho/bizsim-go/internal/domain/dispatch"
	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
	"github.com/andrescamacho/bizsim-go/internal/domain/staff"
	"github.com/andrescamacho/bizsim-go/internal/domain/workorder"
)

func TestFeed_DeliversFilteredEvents(t *testing.T) {
	// Arrange
	bus := shared.NewEventBus()
	clock := shared.NewGameClock(2, 9, 15)
	f := feed.New(bus, clock.Snapshot, 8)
	all := f.Subscribe()
	tasksOnly := f.Subscribe(dispatch.EventTaskAdded)
	defer all.Close()
	defer tasksOnly.Close()

	// Act
	bus.Publish(
		dispatch.TaskAdded{Order: workorder.Snapshot{ID: "t-1", Name: "Mop"}},
		staff.ShiftStarted{WorkerID: "w-1", Shift: staff.ShiftMorning},
	)

	// Assert
	require.Len(t, all.Events(), 2)
	require.Len(t, tasksOnly.Events(), 1)
	first := <-all.Events()
	assert.Equal(t, dispatch.EventTaskAdded, first.Name)
	assert.Equal(t, uint64(1), first.Seq)
	assert.Equal(t, shared.ClockSnapshot{Day: 2, Hour: 9, Minute: 15}, first.Clock)
	var payload struct{ Order workorder.Snapshot }
	require.NoError(t, json.Unmarshal(first.Payload, &payload))
	assert.Equal(t, "t-1", payload.Order.ID)
}

func TestFeed_DropsForFullSubscriber(t *testing.T) {
	bus := shared.NewEventBus()
	f := feed.New(bus, nil, 1)
	sub := f.Subscribe()
	defer sub.Close()

	bus.Publish(staff.ShiftStarted{WorkerID: "a"}, staff.ShiftStarted{WorkerID: "b"}, staff.ShiftStarted{WorkerID: "c"})

	assert.Len(t, sub.Events(), 1)
	assert.Equal(t, uint64(2), sub.Dropped())
}

func TestSubscription_CloseDetaches(t *testing.T) {
	bus := shared.NewEventBus()
	f := feed.New(bus, nil, 0)
	sub := f.Subscribe()

	sub.Close()
	sub.Close()
	bus.Publish(staff.ShiftStarted{WorkerID: "a"})

	assert.Equal(t, 0, f.Subscribers())
	_, open := <-sub.Events()
	assert.False(t, open)
}
