package workorder

import (
	"fmt"
	"strings"
)

// Type tags the kind of labour a work order represents
type Type string

const (
	// General
	TypeCleaning          Type = "CLEANING"
	TypeCustomerService   Type = "CUSTOMER_SERVICE"
	TypeRegisterOperation Type = "REGISTER_OPERATION"

	// Inventory
	TypeStocking       Type = "STOCKING"
	TypeInventoryCount Type = "INVENTORY_COUNT"
	TypeDeliveryIntake Type = "DELIVERY_INTAKE"
	TypePriceUpdate    Type = "PRICE_UPDATE"

	// Food
	TypeCooking      Type = "COOKING"
	TypeFoodPrep     Type = "FOOD_PREP"
	TypeTableService Type = "TABLE_SERVICE"
	TypeDishwashing  Type = "DISHWASHING"

	// Fashion
	TypeVisualMerchandising Type = "VISUAL_MERCHANDISING"
	TypeFittingRoomService  Type = "FITTING_ROOM_SERVICE"
	TypeStylingConsultation Type = "STYLING_CONSULTATION"

	// Construction
	TypeMeasuring    Type = "MEASURING"
	TypeCutting      Type = "CUTTING"
	TypeInstallation Type = "INSTALLATION"
	TypePainting     Type = "PAINTING"
	TypeDemolition   Type = "DEMOLITION"

	// Taxi
	TypeRidePickup         Type = "RIDE_PICKUP"
	TypeRideDropoff        Type = "RIDE_DROPOFF"
	TypeVehicleMaintenance Type = "VEHICLE_MAINTENANCE"
	TypeDispatch           Type = "DISPATCH"

	// Management
	TypeStaffSupervision Type = "STAFF_SUPERVISION"
	TypeScheduleCreation Type = "SCHEDULE_CREATION"
	TypeReportGeneration Type = "REPORT_GENERATION"

	// Other
	TypeTraining             Type = "TRAINING"
	TypeEquipmentMaintenance Type = "EQUIPMENT_MAINTENANCE"
	TypeCustom               Type = "CUSTOM"
)

var allTypes = []Type{
	TypeCleaning, TypeCustomerService, TypeRegisterOperation,
	TypeStocking, TypeInventoryCount, TypeDeliveryIntake, TypePriceUpdate,
	TypeCooking, TypeFoodPrep, TypeTableService, TypeDishwashing,
	TypeVisualMerchandising, TypeFittingRoomService, TypeStylingConsultation,
	TypeMeasuring, TypeCutting, TypeInstallation, TypePainting, TypeDemolition,
	TypeRidePickup, TypeRideDropoff, TypeVehicleMaintenance, TypeDispatch,
	TypeStaffSupervision, TypeScheduleCreation, TypeReportGeneration,
	TypeTraining, TypeEquipmentMaintenance, TypeCustom,
}

func (t Type) String() string {
	return string(t)
}

// IsValid checks if the type is one of the known work order types
func (t Type) IsValid() bool {
	for _, known := range allTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseType parses a string into a Type
func ParseType(s string) (Type, error) {
	t := Type(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("invalid work order type: %s", s)
	}
	return t, nil
}

// Priority orders work in the dispatch queue; higher values dispatch first
type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
	PriorityUrgent
	PriorityCritical
)

var priorityNames = map[Priority]string{
	PriorityLow:      "LOW",
	PriorityNormal:   "NORMAL",
	PriorityHigh:     "HIGH",
	PriorityUrgent:   "URGENT",
	PriorityCritical: "CRITICAL",
}

func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return "UNKNOWN"
}

func (p Priority) IsValid() bool {
	return p >= PriorityLow && p <= PriorityCritical
}

// ParsePriority accepts a priority name in any case
func ParsePriority(s string) (Priority, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for p, n := range priorityNames {
		if n == name {
			return p, nil
		}
	}
	return PriorityLow, fmt.Errorf("invalid priority: %s", s)
}

// Status is the lifecycle state of a work order
type Status string

const (
	// StatusPending - admitted and waiting for a worker
	StatusPending Status = "PENDING"

	// StatusInProgress - held by exactly one worker
	StatusInProgress Status = "IN_PROGRESS"

	// StatusCompleted - finished with a quality outcome
	StatusCompleted Status = "COMPLETED"

	// StatusFailed - abandoned with a reason
	StatusFailed Status = "FAILED"

	// StatusExpired - deadline passed while still pending
	StatusExpired Status = "EXPIRED"

	// StatusCancelled - withdrawn by the business that created it
	StatusCancelled Status = "CANCELLED"
)

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further transitions are possible
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusExpired, StatusCancelled:
		return true
	default:
		return false
	}
}

// ParseStatus parses a persisted status value
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case StatusPending, StatusInProgress, StatusCompleted, StatusFailed, StatusExpired, StatusCancelled:
		return st, nil
	default:
		return "", fmt.Errorf("invalid work order status: %s", s)
	}
}
