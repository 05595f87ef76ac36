package operations

import "fmt"

// ErrEventNotFound is returned for ids that match no active event
type ErrEventNotFound struct {
	EventID string
}

func (e *ErrEventNotFound) Error() string {
	return fmt.Sprintf("event %s not active", e.EventID)
}

// ErrActionNotApplicable is returned when an action means nothing for the
// event's type
type ErrActionNotApplicable struct {
	EventID string
	Type    EventType
	Action  string
}

func (e *ErrActionNotApplicable) Error() string {
	return fmt.Sprintf("action %q does not apply to %s event %s", e.Action, e.Type, e.EventID)
}
