package mission

import "fmt"

// ErrMissionUnavailable is returned when a mission cannot be started from its current status
type ErrMissionUnavailable struct {
	MissionID string
	Status    Status
}

func (e *ErrMissionUnavailable) Error() string {
	return fmt.Sprintf("mission %s cannot be started while %s", e.MissionID, e.Status)
}

// ErrRequirementsNotMet is returned when a business does not qualify for a mission
type ErrRequirementsNotMet struct {
	MissionID  string
	BusinessID string
	Reason     string
}

func (e *ErrRequirementsNotMet) Error() string {
	return fmt.Sprintf("business %s cannot take mission %s: %s", e.BusinessID, e.MissionID, e.Reason)
}

// ErrMissionNotActive is returned when progress is reported on a mission nobody is running
type ErrMissionNotActive struct {
	MissionID string
	Status    Status
}

func (e *ErrMissionNotActive) Error() string {
	return fmt.Sprintf("mission %s is not active (%s)", e.MissionID, e.Status)
}
