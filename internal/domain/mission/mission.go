package mission

import (
	"time"

	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
)

// Definition is a catalogue entry a business can take on
type Definition struct {
	ID             string                `json:"id" yaml:"id"`
	Title          string                `json:"title" yaml:"title"`
	Description    string                `json:"description,omitempty" yaml:"description"`
	BusinessType   shared.BusinessType   `json:"business_type,omitempty" yaml:"business_type"`
	RequiredTier   int                   `json:"required_tier" yaml:"required_tier"`
	Objectives     []ObjectiveDefinition `json:"objectives" yaml:"objectives"`
	Rewards        Rewards               `json:"rewards" yaml:"rewards"`
	Prerequisites  []string              `json:"prerequisites,omitempty" yaml:"prerequisites"`
	TimeLimitHours int                   `json:"time_limit_hours,omitempty" yaml:"time_limit_hours"`
}

// ObjectiveDefinition is one goal of a mission. Threshold is the rating a
// MAINTAIN_RATING objective must hold; other types ignore it.
type ObjectiveDefinition struct {
	ID          string        `json:"id" yaml:"id"`
	Description string        `json:"description,omitempty" yaml:"description"`
	Type        ObjectiveType `json:"type" yaml:"type"`
	Target      int           `json:"target" yaml:"target"`
	Threshold   float64       `json:"threshold,omitempty" yaml:"threshold"`
	Optional    bool          `json:"optional,omitempty" yaml:"optional"`
}

// Rewards are paid to the business that completes the mission
type Rewards struct {
	Money            float64  `json:"money" yaml:"money"`
	BusinessPoints   int      `json:"business_points" yaml:"business_points"`
	UnlockedFeatures []string `json:"unlocked_features,omitempty" yaml:"unlocked_features"`
}

type Objective struct {
	ObjectiveDefinition
	Progress int `json:"progress"`
}

func (o Objective) Done() bool { return o.Progress >= o.Target }

// Mission is the tracked state of one catalogue entry. A mission is taken
// on by at most one business.
type Mission struct {
	ID             string              `json:"id"`
	Title          string              `json:"title"`
	Description    string              `json:"description,omitempty"`
	BusinessType   shared.BusinessType `json:"business_type,omitempty"`
	RequiredTier   int                 `json:"required_tier"`
	Objectives     []Objective         `json:"objectives"`
	Rewards        Rewards             `json:"rewards"`
	Prerequisites  []string            `json:"prerequisites,omitempty"`
	TimeLimitHours int                 `json:"time_limit_hours,omitempty"`

	Status        Status    `json:"status"`
	BusinessID    string    `json:"business_id,omitempty"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
	Deadline      time.Time `json:"deadline"`
	FailureReason string    `json:"failure_reason,omitempty"`
}

func newMission(def Definition) *Mission {
	m := &Mission{
		ID:             def.ID,
		Title:          def.Title,
		Description:    def.Description,
		BusinessType:   def.BusinessType,
		RequiredTier:   def.RequiredTier,
		Rewards:        def.Rewards,
		Prerequisites:  append([]string(nil), def.Prerequisites...),
		TimeLimitHours: def.TimeLimitHours,
		Status:         StatusAvailable,
	}
	m.Rewards.UnlockedFeatures = append([]string(nil), def.Rewards.UnlockedFeatures...)
	if len(m.Prerequisites) > 0 {
		m.Status = StatusLocked
	}
	for _, o := range def.Objectives {
		if o.Target <= 0 {
			o.Target = 1
		}
		m.Objectives = append(m.Objectives, Objective{ObjectiveDefinition: o})
	}
	return m
}

// Accomplished reports whether every required objective is done. Optional
// objectives never hold a mission back.
func (m Mission) Accomplished() bool {
	required := 0
	for _, o := range m.Objectives {
		if o.Optional {
			continue
		}
		required++
		if !o.Done() {
			return false
		}
	}
	return required > 0 || m.allDone()
}

func (m Mission) allDone() bool {
	for _, o := range m.Objectives {
		if !o.Done() {
			return false
		}
	}
	return true
}

// ProgressPercent averages objective progress, in [0, 100]
func (m Mission) ProgressPercent() float64 {
	if len(m.Objectives) == 0 {
		return 0
	}
	var total float64
	for _, o := range m.Objectives {
		total += float64(o.Progress) / float64(o.Target) * 100
	}
	return total / float64(len(m.Objectives))
}

func (m Mission) clone() Mission {
	m.Objectives = append([]Objective(nil), m.Objectives...)
	m.Prerequisites = append([]string(nil), m.Prerequisites...)
	m.Rewards.UnlockedFeatures = append([]string(nil), m.Rewards.UnlockedFeatures...)
	return m
}
