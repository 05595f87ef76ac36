package staff

const (
	MinAttribute = 1
	MaxAttribute = 10
)

// Attributes are the six innate worker traits, each in [1,10]
type Attributes struct {
	Speed       int `json:"speed"`
	Accuracy    int `json:"accuracy"`
	Charisma    int `json:"charisma"`
	Maintenance int `json:"maintenance"`
	Stamina     int `json:"stamina"`
	Loyalty     int `json:"loyalty"`
}

// DefaultAttributes is an average hire
func DefaultAttributes() Attributes {
	return Attributes{Speed: 5, Accuracy: 5, Charisma: 5, Maintenance: 5, Stamina: 5, Loyalty: 5}
}

// Clamped returns a copy with every trait forced into [1,10]
func (a Attributes) Clamped() Attributes {
	return Attributes{
		Speed:       clampAttribute(a.Speed),
		Accuracy:    clampAttribute(a.Accuracy),
		Charisma:    clampAttribute(a.Charisma),
		Maintenance: clampAttribute(a.Maintenance),
		Stamina:     clampAttribute(a.Stamina),
		Loyalty:     clampAttribute(a.Loyalty),
	}
}

func clampAttribute(v int) int {
	if v < MinAttribute {
		return MinAttribute
	}
	if v > MaxAttribute {
		return MaxAttribute
	}
	return v
}
