package operations

import (
	"fmt"
	"strings"
)

// EventType identifies an operational event
type EventType string

const (
	// Supply
	EventTypeSupplyDelay    EventType = "SUPPLY_DELAY"
	EventTypeSupplyShortage EventType = "SUPPLY_SHORTAGE"
	EventTypeBulkDiscount   EventType = "BULK_DISCOUNT"

	// Equipment
	EventTypeMinorBreakdown EventType = "MINOR_BREAKDOWN"
	EventTypeMajorBreakdown EventType = "MAJOR_BREAKDOWN"
	EventTypeMaintenanceDue EventType = "MAINTENANCE_DUE"

	// Inspection
	EventTypeHealthInspection EventType = "HEALTH_INSPECTION"
	EventTypeSafetyInspection EventType = "SAFETY_INSPECTION"
	EventTypeSurpriseAudit    EventType = "SURPRISE_AUDIT"

	// Weather
	EventTypeRain     EventType = "RAIN"
	EventTypeStorm    EventType = "STORM"
	EventTypeHeatWave EventType = "HEAT_WAVE"
	EventTypeSnow     EventType = "SNOW"

	// Competitor
	EventTypeNewCompetitor     EventType = "NEW_COMPETITOR"
	EventTypeCompetitorSale    EventType = "COMPETITOR_SALE"
	EventTypeCompetitorClosure EventType = "COMPETITOR_CLOSURE"

	// Other
	EventTypeSeasonalDemand   EventType = "SEASONAL_DEMAND"
	EventTypeSpecialPromotion EventType = "SPECIAL_PROMOTION"
	EventTypeVIPCustomer      EventType = "VIP_CUSTOMER"
)

var allEventTypes = []EventType{
	EventTypeSupplyDelay, EventTypeSupplyShortage, EventTypeBulkDiscount,
	EventTypeMinorBreakdown, EventTypeMajorBreakdown, EventTypeMaintenanceDue,
	EventTypeHealthInspection, EventTypeSafetyInspection, EventTypeSurpriseAudit,
	EventTypeRain, EventTypeStorm, EventTypeHeatWave, EventTypeSnow,
	EventTypeNewCompetitor, EventTypeCompetitorSale, EventTypeCompetitorClosure,
	EventTypeSeasonalDemand, EventTypeSpecialPromotion, EventTypeVIPCustomer,
}

// AllEventTypes lists every event type in declaration order
func AllEventTypes() []EventType {
	return append([]EventType(nil), allEventTypes...)
}

func (t EventType) IsValid() bool {
	for _, v := range allEventTypes {
		if v == t {
			return true
		}
	}
	return false
}

// IsInspection reports the types whose required action is cleared by any response
func (t EventType) IsInspection() bool {
	return t == EventTypeHealthInspection || t == EventTypeSafetyInspection || t == EventTypeSurpriseAudit
}

// ParseEventType accepts SUPPLY_DELAY, supply_delay or supply-delay
func ParseEventType(s string) (EventType, error) {
	t := EventType(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")))
	if !t.IsValid() {
		return "", fmt.Errorf("invalid event type: %s", s)
	}
	return t, nil
}

// Severity ranks how disruptive an event is
type Severity int

const (
	SeverityPositive Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

var severityNames = map[Severity]string{
	SeverityPositive: "POSITIVE",
	SeverityLow:      "LOW",
	SeverityMedium:   "MEDIUM",
	SeverityHigh:     "HIGH",
	SeverityCritical: "CRITICAL",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SEVERITY(%d)", int(s))
}

// IsDisruptive is true for High and Critical events
func (s Severity) IsDisruptive() bool {
	return s >= SeverityHigh
}

func ParseSeverity(s string) (Severity, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for sev, name := range severityNames {
		if name == upper {
			return sev, nil
		}
	}
	return 0, fmt.Errorf("invalid severity: %s", s)
}
