package operations

// EffectKey names a world-state perturbation
type EffectKey string

const (
	EffectSupplyDelay       EffectKey = "supply_delay"
	EffectSupplyShortage    EffectKey = "supply_shortage"
	EffectDiscount          EffectKey = "discount"
	EffectCategory          EffectKey = "category"
	EffectEfficiency        EffectKey = "efficiency"
	EffectEquipmentOffline  EffectKey = "equipment_offline"
	EffectFootTraffic       EffectKey = "foot_traffic"
	EffectDeliveryDemand    EffectKey = "delivery_demand"
	EffectPowerOutageChance EffectKey = "power_outage_chance"
	EffectColdDemand        EffectKey = "cold_demand"
	EffectEquipmentStrain   EffectKey = "equipment_strain"
	EffectSupplyDelayChance EffectKey = "supply_delay_chance"
	EffectRevenue           EffectKey = "revenue"
	EffectDemand            EffectKey = "demand"
)

// EffectKind discriminates EffectValue
type EffectKind string

const (
	EffectKindNumber EffectKind = "number"
	EffectKindLabel  EffectKind = "label"
	EffectKindFlag   EffectKind = "flag"
)

// EffectValue is a tagged union: a numeric modifier, a label naming what is
// affected or a boolean flag. Only numbers take part in aggregation.
type EffectValue struct {
	Kind   EffectKind `json:"kind"`
	Number float64    `json:"number,omitempty"`
	Label  string     `json:"label,omitempty"`
	Flag   bool       `json:"flag,omitempty"`
}

func Number(v float64) EffectValue { return EffectValue{Kind: EffectKindNumber, Number: v} }
func Label(s string) EffectValue   { return EffectValue{Kind: EffectKindLabel, Label: s} }
func Flag(b bool) EffectValue      { return EffectValue{Kind: EffectKindFlag, Flag: b} }

// Numeric returns the payload when the value is a number
func (v EffectValue) Numeric() (float64, bool) {
	if v.Kind != EffectKindNumber {
		return 0, false
	}
	return v.Number, true
}

// Effects is the effect map of one event
type Effects map[EffectKey]EffectValue

func (e Effects) clone() Effects {
	out := make(Effects, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Aggregate sums numeric effects of every input map, keyed by effect name
func Aggregate(maps ...Effects) map[EffectKey]float64 {
	total := make(map[EffectKey]float64)
	for _, m := range maps {
		for key, value := range m {
			if n, ok := value.Numeric(); ok {
				total[key] += n
			}
		}
	}
	return total
}
