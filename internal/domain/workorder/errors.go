package workorder

import "fmt"

// ErrInvalidTransition indicates an invalid work order state transition
type ErrInvalidTransition struct {
	OrderID     string
	From        Status
	To          Status
	Description string
}

func (e *ErrInvalidTransition) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("invalid work order transition for %s: %s -> %s: %s",
			e.OrderID, e.From, e.To, e.Description)
	}
	return fmt.Sprintf("invalid work order transition for %s: %s -> %s",
		e.OrderID, e.From, e.To)
}

// ErrAlreadyAssigned indicates the order is already held by a worker
type ErrAlreadyAssigned struct {
	OrderID        string
	AssignedWorker string
}

func (e *ErrAlreadyAssigned) Error() string {
	return fmt.Sprintf("work order %s already assigned to worker %s", e.OrderID, e.AssignedWorker)
}
