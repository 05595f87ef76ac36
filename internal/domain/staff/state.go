package staff

import (
	"fmt"
	"strings"
)

// State is the worker's position in the shift state machine
type State string

const (
	// StateIdle - on duty and free for assignment
	StateIdle State = "IDLE"

	// StateMovingToTask - walking to the task location
	StateMovingToTask State = "MOVING_TO_TASK"

	// StatePerformingTask - accruing progress on the held task
	StatePerformingTask State = "PERFORMING_TASK"

	// StateOnBreak - recovering fatigue, no progress accrues
	StateOnBreak State = "ON_BREAK"

	// StateLeaving - shift ended
	StateLeaving State = "LEAVING"
)

func (s State) String() string {
	return string(s)
}

// ParseState parses a persisted state value
func ParseState(s string) (State, error) {
	st := State(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case StateIdle, StateMovingToTask, StatePerformingTask, StateOnBreak, StateLeaving:
		return st, nil
	default:
		return "", fmt.Errorf("invalid worker state: %s", s)
	}
}

// ShiftType is the rota a worker follows
type ShiftType string

const (
	ShiftOff       ShiftType = "OFF"
	ShiftMorning   ShiftType = "MORNING"   // 06:00 - 14:00
	ShiftAfternoon ShiftType = "AFTERNOON" // 14:00 - 22:00
	ShiftEvening   ShiftType = "EVENING"   // 22:00 - 06:00
	ShiftOnCall    ShiftType = "ON_CALL"   // started and ended explicitly
)

var shiftHours = map[ShiftType][2]int{
	ShiftMorning:   {6, 14},
	ShiftAfternoon: {14, 22},
	ShiftEvening:   {22, 6},
}

// StartHour returns the hour the shift begins; ok is false for unscheduled shifts
func (s ShiftType) StartHour() (int, bool) {
	h, ok := shiftHours[s]
	return h[0], ok
}

// EndHour returns the hour the shift ends; ok is false for unscheduled shifts
func (s ShiftType) EndHour() (int, bool) {
	h, ok := shiftHours[s]
	return h[1], ok
}

// ParseShiftType parses a shift name, accepting any case
func ParseShiftType(s string) (ShiftType, error) {
	st := ShiftType(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case ShiftOff, ShiftMorning, ShiftAfternoon, ShiftEvening, ShiftOnCall:
		return st, nil
	default:
		return "", fmt.Errorf("invalid shift type: %s", s)
	}
}
