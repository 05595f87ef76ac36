package staff

const (
	EventShiftStarted = "staff.shift_started"
	EventShiftEnded   = "staff.shift_ended"
	EventLeveledUp    = "staff.leveled_up"
)

// ShiftStarted is published when a worker clocks in
type ShiftStarted struct {
	WorkerID string
	Shift    ShiftType
}

func (ShiftStarted) EventName() string { return EventShiftStarted }

// ShiftEnded is published when a worker clocks out. ReleasedTaskID names the
// task that went back to the pending pool, if any.
type ShiftEnded struct {
	WorkerID       string
	Shift          ShiftType
	ReleasedTaskID string
}

func (ShiftEnded) EventName() string { return EventShiftEnded }

// LeveledUp is published after a completion raises a worker's level
type LeveledUp struct {
	WorkerID      string
	PreviousLevel int
	NewLevel      int
}

func (LeveledUp) EventName() string { return EventLeveledUp }
