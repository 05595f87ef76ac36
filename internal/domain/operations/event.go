package operations

import (
	"fmt"
	"time"
)

// Event is an active or archived operational disruption.
//
// A permanent event has no end time and stays active until EndEvent.
type Event struct {
	id                string
	eventType         EventType
	name              string
	description       string
	severity          Severity
	target            string
	startTime         time.Time
	endTime           time.Time
	permanent         bool
	requiresAction    bool
	actionDescription string
	effects           Effects
	active            bool
}

func (e *Event) ID() string                { return e.id }
func (e *Event) Type() EventType           { return e.eventType }
func (e *Event) Name() string              { return e.name }
func (e *Event) Description() string       { return e.description }
func (e *Event) Severity() Severity        { return e.severity }
func (e *Event) Target() string            { return e.target }
func (e *Event) StartTime() time.Time      { return e.startTime }
func (e *Event) EndTime() time.Time        { return e.endTime }
func (e *Event) IsPermanent() bool         { return e.permanent }
func (e *Event) RequiresAction() bool      { return e.requiresAction }
func (e *Event) ActionDescription() string { return e.actionDescription }
func (e *Event) IsActive() bool            { return e.active }
func (e *Event) Effects() Effects          { return e.effects.clone() }

// HasExpired reports whether a timed event has reached its end time
func (e *Event) HasExpired(now time.Time) bool {
	return !e.permanent && !now.Before(e.endTime)
}

// RemainingDuration until the end time; permanent events report zero
func (e *Event) RemainingDuration(now time.Time) time.Duration {
	if e.permanent {
		return 0
	}
	return e.endTime.Sub(now)
}

// DurationHours is the planned length of a timed event
func (e *Event) DurationHours() float64 {
	if e.permanent {
		return -1
	}
	return e.endTime.Sub(e.startTime).Hours()
}

func (e *Event) String() string {
	return fmt.Sprintf("Event[%s, type=%s, severity=%s, target=%s]", e.id, e.eventType, e.severity, e.target)
}

// Snapshot is the serialisable form of an event
type Snapshot struct {
	ID                string    `json:"id"`
	Type              EventType `json:"type"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Severity          Severity  `json:"severity"`
	Target            string    `json:"target,omitempty"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	Permanent         bool      `json:"permanent,omitempty"`
	RequiresAction    bool      `json:"requires_action,omitempty"`
	ActionDescription string    `json:"action_description,omitempty"`
	Effects           Effects   `json:"effects,omitempty"`
	Active            bool      `json:"active"`
}

func (e *Event) Snapshot() Snapshot {
	return Snapshot{
		ID:                e.id,
		Type:              e.eventType,
		Name:              e.name,
		Description:       e.description,
		Severity:          e.severity,
		Target:            e.target,
		StartTime:         e.startTime,
		EndTime:           e.endTime,
		Permanent:         e.permanent,
		RequiresAction:    e.requiresAction,
		ActionDescription: e.actionDescription,
		Effects:           e.effects.clone(),
		Active:            e.active,
	}
}

// ReconstructEvent rebuilds an event from persistence
func ReconstructEvent(s Snapshot) *Event {
	effects := s.Effects
	if effects == nil {
		effects = Effects{}
	}
	return &Event{
		id:                s.ID,
		eventType:         s.Type,
		name:              s.Name,
		description:       s.Description,
		severity:          s.Severity,
		target:            s.Target,
		startTime:         s.StartTime,
		endTime:           s.EndTime,
		permanent:         s.Permanent,
		requiresAction:    s.RequiresAction,
		actionDescription: s.ActionDescription,
		effects:           effects.clone(),
		active:            s.Active,
	}
}

// ScheduledEvent fires once the day counter reaches TriggerDay
type ScheduledEvent struct {
	Type       EventType `json:"type" yaml:"type"`
	TriggerDay int       `json:"trigger_day" yaml:"trigger_day"`
	Target     string    `json:"target,omitempty" yaml:"target"`
}
