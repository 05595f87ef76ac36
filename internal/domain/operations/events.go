package operations

const (
	EventStartedName = "operations.event_started"
	EventUpdatedName = "operations.event_updated"
	EventEndedName   = "operations.event_ended"
)

// EventStarted is published when an event becomes active
type EventStarted struct{ Event Snapshot }

// EventUpdated is published after an action changed an active event
type EventUpdated struct {
	Event  Snapshot
	Action string
}

// EventEnded is published when an event moves to history
type EventEnded struct{ Event Snapshot }

func (EventStarted) EventName() string { return EventStartedName }
func (EventUpdated) EventName() string { return EventUpdatedName }
func (EventEnded) EventName() string   { return EventEndedName }
