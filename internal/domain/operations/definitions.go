package operations

import "fmt"

// definition fixes how an event of one type is built. Durations are drawn
// uniformly from [MinHours, MaxHours]; equal bounds draw nothing.
type definition struct {
	name              func(target string) string
	description       func(target string) string
	minHours          float64
	maxHours          float64
	permanent         bool
	severity          Severity
	requiresAction    bool
	actionDescription string
	effects           func(target string) Effects
}

func fixed(s string) func(string) string {
	return func(string) string { return s }
}

func noEffects(string) Effects { return Effects{} }

var defaultDefinition = definition{
	name:        fixed("Unknown Event"),
	description: fixed("Something happened..."),
	minHours:    24,
	maxHours:    24,
	severity:    SeverityLow,
	effects:     noEffects,
}

var definitions = map[EventType]definition{
	EventTypeSupplyDelay: {
		name:        func(t string) string { return fmt.Sprintf("Supply Delay - %s", t) },
		description: func(t string) string { return fmt.Sprintf("Supplies for %s are delayed due to logistics issues.", t) },
		minHours:    24,
		maxHours:    72,
		severity:    SeverityMedium,
		effects:     func(t string) Effects { return Effects{EffectSupplyDelay: Label(t)} },
	},
	EventTypeSupplyShortage: {
		name:        fixed("Regional Supply Shortage"),
		description: fixed("A regional shortage is affecting all suppliers."),
		minHours:    72,
		maxHours:    168,
		severity:    SeverityHigh,
		effects:     func(string) Effects { return Effects{EffectSupplyShortage: Label("all")} },
	},
	EventTypeBulkDiscount: {
		name:        func(t string) string { return fmt.Sprintf("Bulk Discount - %s", t) },
		description: func(t string) string { return fmt.Sprintf("Supplier offering 20%% off %s for 24 hours!", t) },
		minHours:    24,
		maxHours:    24,
		severity:    SeverityPositive,
		effects: func(t string) Effects {
			return Effects{EffectDiscount: Number(0.20), EffectCategory: Label(t)}
		},
	},
	EventTypeMinorBreakdown: {
		name:        fixed("Equipment Malfunction"),
		description: fixed("Equipment operating at reduced efficiency."),
		minHours:    2,
		maxHours:    4,
		severity:    SeverityLow,
		effects:     func(string) Effects { return Effects{EffectEfficiency: Number(0.50)} },
	},
	EventTypeMajorBreakdown: {
		name:              fixed("Equipment Breakdown"),
		description:       fixed("Equipment non-functional - repair required."),
		minHours:          4,
		maxHours:          24,
		severity:          SeverityHigh,
		requiresAction:    true,
		actionDescription: "Call repair service",
		effects:           func(t string) Effects { return Effects{EffectEquipmentOffline: Label(t)} },
	},
	EventTypeHealthInspection: {
		name:              fixed("Health Inspection"),
		description:       fixed("Health inspector will arrive soon."),
		minHours:          4,
		maxHours:          4,
		severity:          SeverityHigh,
		requiresAction:    true,
		actionDescription: "Ensure cleanliness standards",
		effects:           noEffects,
	},
	EventTypeSafetyInspection: {
		name:              fixed("Safety Inspection"),
		description:       fixed("Safety inspector scheduled."),
		minHours:          4,
		maxHours:          4,
		severity:          SeverityMedium,
		requiresAction:    true,
		actionDescription: "Check safety equipment",
		effects:           noEffects,
	},
	EventTypeSurpriseAudit: {
		name:              fixed("Surprise Financial Audit"),
		description:       fixed("Auditor arriving - no notice given!"),
		minHours:          8,
		maxHours:          8,
		severity:          SeverityHigh,
		requiresAction:    true,
		actionDescription: "Prepare financial records",
		effects:           noEffects,
	},
	EventTypeRain: {
		name:        fixed("Rainy Weather"),
		description: fixed("Rain affecting foot traffic."),
		minHours:    4,
		maxHours:    12,
		severity:    SeverityLow,
		effects: func(string) Effects {
			return Effects{EffectFootTraffic: Number(-0.20), EffectDeliveryDemand: Number(0.10)}
		},
	},
	EventTypeStorm: {
		name:        fixed("Severe Storm"),
		description: fixed("Storm conditions - potential power issues."),
		minHours:    2,
		maxHours:    8,
		severity:    SeverityHigh,
		effects: func(string) Effects {
			return Effects{EffectFootTraffic: Number(-0.50), EffectPowerOutageChance: Number(0.30)}
		},
	},
	EventTypeHeatWave: {
		name:        fixed("Heat Wave"),
		description: fixed("Extreme heat affecting demand patterns."),
		minHours:    24,
		maxHours:    72,
		severity:    SeverityMedium,
		effects: func(string) Effects {
			return Effects{EffectColdDemand: Number(0.20), EffectEquipmentStrain: Flag(true)}
		},
	},
	EventTypeSnow: {
		name:        fixed("Snowy Conditions"),
		description: fixed("Snow affecting travel and deliveries."),
		minHours:    12,
		maxHours:    48,
		severity:    SeverityMedium,
		effects: func(string) Effects {
			return Effects{EffectFootTraffic: Number(-0.40), EffectSupplyDelayChance: Number(0.20)}
		},
	},
	EventTypeNewCompetitor: {
		name:        fixed("New Competitor Opened"),
		description: fixed("A competitor opened nearby!"),
		minHours:    336,
		maxHours:    336,
		severity:    SeverityMedium,
		effects:     func(string) Effects { return Effects{EffectFootTraffic: Number(-0.15)} },
	},
	EventTypeCompetitorSale: {
		name:        fixed("Competitor Sale Event"),
		description: fixed("Competitor running major sale."),
		minHours:    72,
		maxHours:    72,
		severity:    SeverityLow,
		effects:     func(string) Effects { return Effects{EffectRevenue: Number(-0.10)} },
	},
	EventTypeCompetitorClosure: {
		name:        fixed("Competitor Closed"),
		description: fixed("A competitor has closed - opportunity!"),
		permanent:   true,
		severity:    SeverityPositive,
		effects:     func(string) Effects { return Effects{EffectFootTraffic: Number(0.20)} },
	},
	EventTypeSeasonalDemand: {
		name:        fixed("Seasonal Demand Surge"),
		description: fixed("Holiday season increasing demand."),
		minHours:    168,
		maxHours:    168,
		severity:    SeverityPositive,
		effects:     func(string) Effects { return Effects{EffectDemand: Number(0.30)} },
	},
}

func definitionFor(t EventType) definition {
	if d, ok := definitions[t]; ok {
		return d
	}
	return defaultDefinition
}

// RollEntry is one independent daily chance of an event. When several
// targets are listed one is drawn at random.
type RollEntry struct {
	Type        EventType `yaml:"type" json:"type" mapstructure:"type"`
	Probability float64   `yaml:"probability" json:"probability" mapstructure:"probability"`
	Targets     []string  `yaml:"targets" json:"targets" mapstructure:"targets"`
}

// DefaultRollTable is rolled once per simulated day
func DefaultRollTable() []RollEntry {
	return []RollEntry{
		{Type: EventTypeSupplyDelay, Probability: 0.30, Targets: []string{"dairy", "produce", "bakery", "meat", "frozen"}},
		{Type: EventTypeSupplyShortage, Probability: 0.10, Targets: []string{"all"}},
		{Type: EventTypeBulkDiscount, Probability: 0.15, Targets: []string{"grocery", "household", "beverages"}},
		{Type: EventTypeMinorBreakdown, Probability: 0.05, Targets: []string{"random_equipment"}},
		{Type: EventTypeMajorBreakdown, Probability: 0.02, Targets: []string{"random_equipment"}},
	}
}
