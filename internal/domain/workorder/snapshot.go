package workorder

import (
	"time"

	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
)

// Snapshot is a detached, serialisable copy of a work order.
// Readers outside the queue only ever see snapshots.
type Snapshot struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	Description       string             `json:"description,omitempty"`
	Type              Type               `json:"type"`
	Priority          Priority           `json:"priority"`
	Status            Status             `json:"status"`
	BusinessID        string             `json:"business_id,omitempty"`
	RequiredRoles     []shared.StaffRole `json:"required_roles,omitempty"`
	RequiredSkills    []string           `json:"required_skills,omitempty"`
	MinimumLevel      int                `json:"minimum_level"`
	EstimatedDuration float64            `json:"estimated_duration"`
	DeadlineMinutes   int                `json:"deadline_minutes,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	Deadline          time.Time          `json:"deadline"`
	StartedAt         *time.Time         `json:"started_at,omitempty"`
	FinishedAt        *time.Time         `json:"finished_at,omitempty"`
	AssignedWorker    string             `json:"assigned_worker,omitempty"`
	Location          *shared.Location   `json:"location,omitempty"`
	MiniGameID        string             `json:"mini_game_id,omitempty"`
	ExperienceReward  int                `json:"experience_reward"`
	MoneyReward       float64            `json:"money_reward"`
	Quality           float64            `json:"quality"`
	FailureReason     string             `json:"failure_reason,omitempty"`
}

// Snapshot copies the order
func (o *WorkOrder) Snapshot() Snapshot {
	s := Snapshot{
		ID:                o.id,
		Name:              o.name,
		Description:       o.description,
		Type:              o.orderType,
		Priority:          o.priority,
		Status:            o.status,
		BusinessID:        o.businessID,
		RequiredRoles:     o.RequiredRoles(),
		RequiredSkills:    o.RequiredSkills(),
		MinimumLevel:      o.minimumLevel,
		EstimatedDuration: o.estimatedDuration,
		DeadlineMinutes:   o.deadlineMinutes,
		CreatedAt:         o.createdAt,
		Deadline:          o.deadline,
		AssignedWorker:    o.assignedWorker,
		MiniGameID:        o.miniGameID,
		ExperienceReward:  o.experienceReward,
		MoneyReward:       o.moneyReward,
		Quality:           o.quality,
		FailureReason:     o.failureReason,
	}
	if o.startedAt != nil {
		t := *o.startedAt
		s.StartedAt = &t
	}
	if o.finishedAt != nil {
		t := *o.finishedAt
		s.FinishedAt = &t
	}
	if o.location != nil {
		loc := *o.location
		s.Location = &loc
	}
	return s
}

// ReconstructWorkOrder rebuilds an order from persistence without
// re-running admission or any transition
func ReconstructWorkOrder(s Snapshot) *WorkOrder {
	o := &WorkOrder{
		id:                s.ID,
		name:              s.Name,
		description:       s.Description,
		orderType:         s.Type,
		priority:          s.Priority,
		status:            s.Status,
		businessID:        s.BusinessID,
		requiredRoles:     append(make([]shared.StaffRole, 0, len(s.RequiredRoles)), s.RequiredRoles...),
		requiredSkills:    append(make([]string, 0, len(s.RequiredSkills)), s.RequiredSkills...),
		minimumLevel:      s.MinimumLevel,
		estimatedDuration: s.EstimatedDuration,
		deadlineMinutes:   s.DeadlineMinutes,
		createdAt:         s.CreatedAt,
		deadline:          s.Deadline,
		assignedWorker:    s.AssignedWorker,
		miniGameID:        s.MiniGameID,
		experienceReward:  s.ExperienceReward,
		moneyReward:       s.MoneyReward,
		quality:           s.Quality,
		failureReason:     s.FailureReason,
	}
	if s.StartedAt != nil {
		t := *s.StartedAt
		o.startedAt = &t
	}
	if s.FinishedAt != nil {
		t := *s.FinishedAt
		o.finishedAt = &t
	}
	if s.Location != nil {
		loc := *s.Location
		o.location = &loc
	}
	if o.estimatedDuration <= 0 {
		o.estimatedDuration = DefaultEstimatedDuration
	}
	return o
}

// IsTerminal reports whether the snapshot is archived
func (s Snapshot) IsTerminal() bool {
	return s.Status.IsTerminal()
}
