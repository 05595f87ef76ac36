package staff

import "fmt"

// ErrAssignmentRejected is returned when a worker cannot take a work order
type ErrAssignmentRejected struct {
	WorkerID string
	OrderID  string
	Reason   string
}

func (e *ErrAssignmentRejected) Error() string {
	return fmt.Sprintf("worker %s cannot take work order %s: %s", e.WorkerID, e.OrderID, e.Reason)
}

// ErrInvalidStateTransition is returned for shift or break changes that the
// current state does not allow
type ErrInvalidStateTransition struct {
	WorkerID string
	From     State
	Action   string
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("worker %s cannot %s while %s", e.WorkerID, e.Action, e.From)
}
