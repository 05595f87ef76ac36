package dispatch

import (
	"fmt"

	"github.com/andrescamacho/bizsim-go/internal/domain/workorder"
)

// ErrQueueFull is returned by AddTask when the queue is at capacity
type ErrQueueFull struct {
	MaxSize int
}

func (e *ErrQueueFull) Error() string {
	return fmt.Sprintf("dispatch queue full (max %d work orders)", e.MaxSize)
}

// ErrTaskNotFound is returned for ids that are not in the open set
type ErrTaskNotFound struct {
	TaskID string
}

func (e *ErrTaskNotFound) Error() string {
	return fmt.Sprintf("work order %s not found in queue", e.TaskID)
}

// ErrTaskNotPending is returned when assigning an order that is not waiting
type ErrTaskNotPending struct {
	TaskID string
	Status workorder.Status
}

func (e *ErrTaskNotPending) Error() string {
	return fmt.Sprintf("work order %s is %s, not PENDING", e.TaskID, e.Status)
}

// ErrWorkerIneligible is returned when the worker fails the role/skill gate
// or refuses the assignment
type ErrWorkerIneligible struct {
	TaskID   string
	WorkerID string
	Reason   string
}

func (e *ErrWorkerIneligible) Error() string {
	return fmt.Sprintf("worker %s cannot take work order %s: %s", e.WorkerID, e.TaskID, e.Reason)
}
