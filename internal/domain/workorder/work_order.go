package workorder

import (
	"fmt"
	"time"

	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
)

const (
	// DefaultEstimatedDuration is the work required, in work units, when none is given
	DefaultEstimatedDuration = 10.0

	// DefaultExperienceReward is granted to the worker on completion
	DefaultExperienceReward = 10

	// UrgentThreshold marks orders whose deadline is closer than this
	UrgentThreshold = 5 * time.Minute
)

// WorkOrder is a schedulable, time-bounded unit of labour.
//
// Orders are built by the business that needs the work, admitted by the
// dispatch queue (which stamps id, creation time and deadline), held by at
// most one worker at a time and finally archived in a terminal status.
//
// State Machine:
//
//	PENDING <-> IN_PROGRESS -> COMPLETED
//	   |             \------> FAILED / CANCELLED
//	   \-> EXPIRED / FAILED / CANCELLED / COMPLETED
type WorkOrder struct {
	id          string
	name        string
	description string
	orderType   Type
	priority    Priority
	status      Status
	businessID  string

	// Eligibility
	requiredRoles  []shared.StaffRole
	requiredSkills []string
	minimumLevel   int // informational, dispatch does not enforce it

	// Timing
	estimatedDuration float64
	deadlineMinutes   int
	createdAt         time.Time
	deadline          time.Time
	startedAt         *time.Time
	finishedAt        *time.Time

	// Execution
	assignedWorker string
	location       *shared.Location
	miniGameID     string

	// Outcome
	experienceReward int
	moneyReward      float64
	quality          float64
	failureReason    string
}

// NewWorkOrder creates an order that still has to be admitted by a queue
func NewWorkOrder(name string, orderType Type, priority Priority) *WorkOrder {
	return &WorkOrder{
		name:              name,
		orderType:         orderType,
		priority:          priority,
		status:            StatusPending,
		requiredRoles:     make([]shared.StaffRole, 0),
		requiredSkills:    make([]string, 0),
		minimumLevel:      1,
		estimatedDuration: DefaultEstimatedDuration,
		experienceReward:  DefaultExperienceReward,
		quality:           1.0,
	}
}

// Getters
func (o *WorkOrder) ID() string                        { return o.id }
func (o *WorkOrder) Name() string                      { return o.name }
func (o *WorkOrder) Description() string               { return o.description }
func (o *WorkOrder) Type() Type                        { return o.orderType }
func (o *WorkOrder) Priority() Priority                { return o.priority }
func (o *WorkOrder) Status() Status                    { return o.status }
func (o *WorkOrder) BusinessID() string                { return o.businessID }
func (o *WorkOrder) MinimumLevel() int                 { return o.minimumLevel }
func (o *WorkOrder) EstimatedDuration() float64        { return o.estimatedDuration }
func (o *WorkOrder) DeadlineMinutes() int              { return o.deadlineMinutes }
func (o *WorkOrder) CreatedAt() time.Time              { return o.createdAt }
func (o *WorkOrder) Deadline() time.Time               { return o.deadline }
func (o *WorkOrder) StartedAt() *time.Time             { return o.startedAt }
func (o *WorkOrder) FinishedAt() *time.Time            { return o.finishedAt }
func (o *WorkOrder) AssignedWorker() string            { return o.assignedWorker }
func (o *WorkOrder) MiniGameID() string                { return o.miniGameID }
func (o *WorkOrder) ExperienceReward() int             { return o.experienceReward }
func (o *WorkOrder) MoneyReward() float64              { return o.moneyReward }
func (o *WorkOrder) Quality() float64                  { return o.quality }
func (o *WorkOrder) FailureReason() string             { return o.failureReason }
func (o *WorkOrder) RequiredRoles() []shared.StaffRole { return append([]shared.StaffRole(nil), o.requiredRoles...) }
func (o *WorkOrder) RequiredSkills() []string          { return append([]string(nil), o.requiredSkills...) }
func (o *WorkOrder) RequiresMiniGame() bool            { return o.miniGameID != "" }

// Location returns the place the work happens, if any
func (o *WorkOrder) Location() (shared.Location, bool) {
	if o.location == nil {
		return shared.Location{}, false
	}
	return *o.location, true
}

// Builders, valid before admission

func (o *WorkOrder) SetDescription(description string) { o.description = description }
func (o *WorkOrder) SetBusinessID(businessID string)   { o.businessID = businessID }
func (o *WorkOrder) SetMinimumLevel(level int)         { o.minimumLevel = level }
func (o *WorkOrder) SetMiniGameID(id string)           { o.miniGameID = id }
func (o *WorkOrder) SetLocation(loc shared.Location)   { o.location = &loc }
func (o *WorkOrder) SetDeadline(deadline time.Time)    { o.deadline = deadline }
func (o *WorkOrder) SetRequiredRoles(roles ...shared.StaffRole) {
	o.requiredRoles = append(make([]shared.StaffRole, 0, len(roles)), roles...)
}
func (o *WorkOrder) SetRequiredSkills(skills ...string) {
	o.requiredSkills = append(make([]string, 0, len(skills)), skills...)
}

// SetEstimatedDuration sets the work units needed; non-positive values are ignored
func (o *WorkOrder) SetEstimatedDuration(units float64) {
	if units > 0 {
		o.estimatedDuration = units
	}
}

// SetDeadlineMinutes overrides the queue default deadline window
func (o *WorkOrder) SetDeadlineMinutes(minutes int) {
	if minutes > 0 {
		o.deadlineMinutes = minutes
	}
}

// SetRewards sets what completing the order pays out
func (o *WorkOrder) SetRewards(experience int, money float64) {
	if experience < 0 {
		experience = 0
	}
	if money < 0 {
		money = 0
	}
	o.experienceReward = experience
	o.moneyReward = money
}

// Admit stamps identity and timing when the queue accepts the order.
// An unset deadline becomes now + deadlineMinutes (or defaultMinutes when
// the order carries no override).
func (o *WorkOrder) Admit(id string, now time.Time, defaultMinutes int) {
	o.id = id
	o.createdAt = now
	o.status = StatusPending
	o.assignedWorker = ""
	if o.deadline.IsZero() {
		minutes := o.deadlineMinutes
		if minutes <= 0 {
			minutes = defaultMinutes
		}
		o.deadline = now.Add(time.Duration(minutes) * time.Minute)
	}
}

// HasRole reports whether the order accepts the role. An empty role set
// accepts everyone.
func (o *WorkOrder) HasRole(role shared.StaffRole) bool {
	if len(o.requiredRoles) == 0 {
		return true
	}
	for _, r := range o.requiredRoles {
		if r == role {
			return true
		}
	}
	return false
}

// BelongsTo reports whether a worker of businessID may take the order.
// Orders without an owning business are open to every business.
func (o *WorkOrder) BelongsTo(businessID string) bool {
	return o.businessID == "" || o.businessID == businessID
}

// State transitions

// Assign hands a pending order to a worker
func (o *WorkOrder) Assign(workerID string, now time.Time) error {
	if o.assignedWorker != "" && o.assignedWorker != workerID {
		return &ErrAlreadyAssigned{OrderID: o.id, AssignedWorker: o.assignedWorker}
	}
	if o.status != StatusPending {
		return &ErrInvalidTransition{
			OrderID:     o.id,
			From:        o.status,
			To:          StatusInProgress,
			Description: "can only assign PENDING orders",
		}
	}
	o.status = StatusInProgress
	o.assignedWorker = workerID
	if o.startedAt == nil {
		o.startedAt = &now
	}
	return nil
}

// Release returns an in-progress order to the pending pool with no worker
func (o *WorkOrder) Release() error {
	if o.status != StatusInProgress {
		return &ErrInvalidTransition{
			OrderID:     o.id,
			From:        o.status,
			To:          StatusPending,
			Description: "can only release IN_PROGRESS orders",
		}
	}
	o.status = StatusPending
	o.assignedWorker = ""
	return nil
}

// Complete records a successful outcome. Quality is clamped to [0,1].
func (o *WorkOrder) Complete(quality float64, now time.Time) error {
	if o.status != StatusPending && o.status != StatusInProgress {
		return &ErrInvalidTransition{
			OrderID:     o.id,
			From:        o.status,
			To:          StatusCompleted,
			Description: "order already finished",
		}
	}
	o.status = StatusCompleted
	o.quality = clampUnit(quality)
	o.finishedAt = &now
	return nil
}

// Fail records an abandoned outcome
func (o *WorkOrder) Fail(reason string, now time.Time) error {
	if o.status != StatusPending && o.status != StatusInProgress {
		return &ErrInvalidTransition{
			OrderID:     o.id,
			From:        o.status,
			To:          StatusFailed,
			Description: "order already finished",
		}
	}
	o.status = StatusFailed
	o.failureReason = reason
	o.finishedAt = &now
	return nil
}

// Expire retires a pending order whose deadline has passed
func (o *WorkOrder) Expire(now time.Time) error {
	if o.status != StatusPending {
		return &ErrInvalidTransition{
			OrderID:     o.id,
			From:        o.status,
			To:          StatusExpired,
			Description: "only PENDING orders expire",
		}
	}
	o.status = StatusExpired
	o.failureReason = "deadline passed"
	o.finishedAt = &now
	return nil
}

// Cancel withdraws an unfinished order
func (o *WorkOrder) Cancel(reason string, now time.Time) error {
	if o.status.IsTerminal() {
		return &ErrInvalidTransition{
			OrderID:     o.id,
			From:        o.status,
			To:          StatusCancelled,
			Description: "order already finished",
		}
	}
	o.status = StatusCancelled
	o.failureReason = reason
	o.finishedAt = &now
	return nil
}

// Queries

// IsOverdue reports whether a pending order has passed its deadline
func (o *WorkOrder) IsOverdue(now time.Time) bool {
	return o.status == StatusPending && !o.deadline.IsZero() && now.After(o.deadline)
}

// TimeRemaining until the deadline; negative once overdue
func (o *WorkOrder) TimeRemaining(now time.Time) time.Duration {
	return o.deadline.Sub(now)
}

// IsUrgent reports fewer than five minutes left before the deadline
func (o *WorkOrder) IsUrgent(now time.Time) bool {
	return o.TimeRemaining(now) < UrgentThreshold
}

func (o *WorkOrder) IsTerminal() bool {
	return o.status.IsTerminal()
}

// String provides human-readable representation
func (o *WorkOrder) String() string {
	return fmt.Sprintf("WorkOrder[%s, name=%s, type=%s, priority=%s, status=%s]",
		o.id, o.name, o.orderType, o.priority, o.status)
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
