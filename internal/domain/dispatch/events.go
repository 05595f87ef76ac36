package dispatch

import "github.com/andrescamacho/bizsim-go/internal/domain/workorder"

const (
	EventTaskAdded     = "dispatch.task_added"
	EventTaskAssigned  = "dispatch.task_assigned"
	EventTaskReleased  = "dispatch.task_released"
	EventTaskCompleted = "dispatch.task_completed"
	EventTaskFailed    = "dispatch.task_failed"
	EventTaskExpired   = "dispatch.task_expired"
	EventTaskCancelled = "dispatch.task_cancelled"
)

// Every queue event carries a snapshot of the order taken right after the
// transition, so subscribers never touch queue-owned state.

type TaskAdded struct{ Order workorder.Snapshot }

type TaskAssigned struct{ Order workorder.Snapshot }

type TaskReleased struct{ Order workorder.Snapshot }

type TaskCompleted struct{ Order workorder.Snapshot }

type TaskFailed struct{ Order workorder.Snapshot }

// TaskExpired is kept apart from TaskFailed so subscribers can tell a missed
// deadline from an abandoned job
type TaskExpired struct{ Order workorder.Snapshot }

type TaskCancelled struct{ Order workorder.Snapshot }

func (TaskAdded) EventName() string     { return EventTaskAdded }
func (TaskAssigned) EventName() string  { return EventTaskAssigned }
func (TaskReleased) EventName() string  { return EventTaskReleased }
func (TaskCompleted) EventName() string { return EventTaskCompleted }
func (TaskFailed) EventName() string    { return EventTaskFailed }
func (TaskExpired) EventName() string   { return EventTaskExpired }
func (TaskCancelled) EventName() string { return EventTaskCancelled }
