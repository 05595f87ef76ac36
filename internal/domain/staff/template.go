package staff

import (
	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
)

// AttributeRange bounds one trait when generating a hire
type AttributeRange struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// Template describes a kind of hire: role, trait ranges, wage and the
// skills a new worker starts with
type Template struct {
	ID             string           `yaml:"id" json:"id"`
	Name           string           `yaml:"name" json:"name"`
	Role           shared.StaffRole `yaml:"role" json:"role"`
	Speed          AttributeRange   `yaml:"speed" json:"speed"`
	Accuracy       AttributeRange   `yaml:"accuracy" json:"accuracy"`
	Charisma       AttributeRange   `yaml:"charisma" json:"charisma"`
	Maintenance    AttributeRange   `yaml:"maintenance" json:"maintenance"`
	Stamina        AttributeRange   `yaml:"stamina" json:"stamina"`
	Loyalty        AttributeRange   `yaml:"loyalty" json:"loyalty"`
	BaseWage       float64          `yaml:"base_wage" json:"base_wage"`
	StartingSkills []string         `yaml:"starting_skills" json:"starting_skills"`
	Shift          ShiftType        `yaml:"shift" json:"shift"`
}

var defaultRange = AttributeRange{Min: 3, Max: 8}

// NewTemplate creates a template with the standard 3-8 trait ranges
func NewTemplate(id, name string, role shared.StaffRole) Template {
	return Template{
		ID:          id,
		Name:        name,
		Role:        role,
		Speed:       defaultRange,
		Accuracy:    defaultRange,
		Charisma:    defaultRange,
		Maintenance: defaultRange,
		Stamina:     defaultRange,
		Loyalty:     defaultRange,
		BaseWage:    DefaultHourlyWage,
		Shift:       ShiftOnCall,
	}
}

var (
	firstNames = []string{"James", "Mary", "John", "Patricia", "Robert", "Jennifer", "Michael", "Linda", "David", "Elizabeth"}
	lastNames  = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez"}
)

// Generate draws a new worker from the template. Traits are drawn in a fixed
// order (speed, accuracy, charisma, maintenance, stamina, loyalty) followed
// by the name, so a seeded source always produces the same hire.
func (t Template) Generate(id string, random shared.Random) *Worker {
	attrs := Attributes{
		Speed:       t.Speed.draw(random),
		Accuracy:    t.Accuracy.draw(random),
		Charisma:    t.Charisma.draw(random),
		Maintenance: t.Maintenance.draw(random),
		Stamina:     t.Stamina.draw(random),
		Loyalty:     t.Loyalty.draw(random),
	}
	name := shared.RandomChoice(random, firstNames) + " " + shared.RandomChoice(random, lastNames)

	w := NewWorker(id, name, t.Role, attrs, random)
	if t.BaseWage > 0 {
		w.SetHourlyWage(t.BaseWage)
	}
	if t.Shift != "" {
		w.SetShift(t.Shift)
	}
	for _, skill := range t.StartingSkills {
		w.LearnSkill(skill)
	}
	return w
}

func (r AttributeRange) draw(random shared.Random) int {
	min, max := r.Min, r.Max
	if min == 0 && max == 0 {
		min, max = defaultRange.Min, defaultRange.Max
	}
	return shared.RandomIntInclusive(random, clampAttribute(min), clampAttribute(max))
}
