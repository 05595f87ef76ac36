package mission

import (
	"fmt"
	"strings"
)

// Status is the lifecycle position of a mission
type Status string

const (
	StatusLocked    Status = "LOCKED"
	StatusAvailable Status = "AVAILABLE"
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

func (s Status) String() string { return string(s) }

// IsFinal reports whether the mission can no longer change
func (s Status) IsFinal() bool { return s == StatusCompleted || s == StatusFailed }

// ParseStatus parses a status name, accepting any case
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case StatusLocked, StatusAvailable, StatusActive, StatusCompleted, StatusFailed:
		return st, nil
	}
	return "", fmt.Errorf("invalid mission status: %s", s)
}

// ObjectiveType says which simulation activity advances an objective
type ObjectiveType string

const (
	ObjectiveServeCustomers    ObjectiveType = "SERVE_CUSTOMERS"
	ObjectiveReachProfit       ObjectiveType = "REACH_PROFIT"
	ObjectiveMaintainRating    ObjectiveType = "MAINTAIN_RATING"
	ObjectiveCompleteTask      ObjectiveType = "COMPLETE_TASK"
	ObjectiveHireStaff         ObjectiveType = "HIRE_STAFF"
	ObjectivePurchaseEquipment ObjectiveType = "PURCHASE_EQUIPMENT"
	ObjectiveCompleteTraining  ObjectiveType = "COMPLETE_TRAINING"
	ObjectiveHostEvent         ObjectiveType = "HOST_EVENT"
	ObjectiveCompleteMiniGame  ObjectiveType = "COMPLETE_MINI_GAME"
	ObjectiveRestock           ObjectiveType = "RESTOCK"
	ObjectiveOther             ObjectiveType = "OTHER"
)

var allObjectiveTypes = []ObjectiveType{
	ObjectiveServeCustomers, ObjectiveReachProfit, ObjectiveMaintainRating,
	ObjectiveCompleteTask, ObjectiveHireStaff, ObjectivePurchaseEquipment,
	ObjectiveCompleteTraining, ObjectiveHostEvent, ObjectiveCompleteMiniGame,
	ObjectiveRestock, ObjectiveOther,
}

func (t ObjectiveType) String() string { return string(t) }

func (t ObjectiveType) IsValid() bool {
	for _, known := range allObjectiveTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseObjectiveType parses an objective type name, accepting any case
func ParseObjectiveType(s string) (ObjectiveType, error) {
	t := ObjectiveType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("invalid objective type: %s", s)
	}
	return t, nil
}
