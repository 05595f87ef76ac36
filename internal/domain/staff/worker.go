package staff

import (
	"fmt"
	"math"
	"sync"

	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
	"github.com/andrescamacho/bizsim-go/internal/domain/workorder"
)

// Worker dynamics
const (
	// FatiguePerStaminaPoint scales (11 - stamina) into fatigue per work unit
	FatiguePerStaminaPoint = 0.1

	// MoraleDecayThreshold is the fatigue above which morale starts to slip
	MoraleDecayThreshold = 80.0

	// MoraleDecayRate is lost per work unit while over the threshold
	MoraleDecayRate = 0.01

	// ProgressPerSpeedPoint scales speed into progress per work unit
	ProgressPerSpeedPoint = 0.2

	// BreakRecoveryRate is fatigue recovered per work unit on break
	BreakRecoveryRate = 5.0

	// ErrorChancePerAccuracyPoint scales (10 - accuracy) into an error probability
	ErrorChancePerAccuracyPoint = 0.02

	// ArrivalDistance is how close a worker must get to start working
	ArrivalDistance = 0.5

	// DefaultWalkSpeed is floor distance covered per work unit
	DefaultWalkSpeed = 2.0

	DefaultMorale     = 80.0
	DefaultHourlyWage = 12.0
	MaxCondition      = 100.0
)

// TaskRef is the slice of a work order a worker needs while executing it
type TaskRef struct {
	ID                string           `json:"id"`
	EstimatedDuration float64          `json:"estimated_duration"`
	ExperienceReward  int              `json:"experience_reward"`
	Location          *shared.Location `json:"location,omitempty"`
}

// Completion reports a task finished during Update
type Completion struct {
	WorkerID         string
	TaskID           string
	Quality          float64
	ExperienceGained int
	PreviousLevel    int
	NewLevel         int
}

// LeveledUp reports whether the completion raised the worker's level
func (c *Completion) LeveledUp() bool {
	return c.NewLevel > c.PreviousLevel
}

// Worker is an AI-controlled employee executing work orders.
//
// State Machine (per shift):
//
//	IDLE -> MOVING_TO_TASK -> PERFORMING_TASK -> IDLE
//	  \--------------------------^
//	any on-duty state <-> ON_BREAK
//	any state -> LEAVING (EndShift)
//
// Invariants:
//   - at most one task is held at a time
//   - progress only grows while PERFORMING_TASK and resets on assignment,
//     completion or release
//   - fatigue and morale stay within [0,100]
type Worker struct {
	mu sync.Mutex

	id         string
	name       string
	role       shared.StaffRole
	businessID string
	attributes Attributes
	shift      ShiftType

	experience int
	level      int
	skills     []string
	hourlyWage float64

	onDuty  bool
	morale  float64
	fatigue float64
	state   State

	task           *TaskRef
	progress       float64
	position       shared.Location
	resumeState    State
	breakRemaining float64
	walkSpeed      float64

	random shared.Random
}

// NewWorker creates an off-duty worker. Attributes are clamped to [1,10].
// A nil random source makes every completion error-free.
func NewWorker(id, name string, role shared.StaffRole, attributes Attributes, random shared.Random) *Worker {
	return &Worker{
		id:         id,
		name:       name,
		role:       role,
		attributes: attributes.Clamped(),
		shift:      ShiftOnCall,
		level:      1,
		skills:     make([]string, 0),
		hourlyWage: DefaultHourlyWage,
		morale:     DefaultMorale,
		state:      StateLeaving,
		walkSpeed:  DefaultWalkSpeed,
		random:     random,
	}
}

// Getters
func (w *Worker) ID() string             { return w.id }
func (w *Worker) Name() string           { return w.name }
func (w *Worker) Role() shared.StaffRole { return w.role }
func (w *Worker) Attributes() Attributes { return w.attributes }

func (w *Worker) BusinessID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.businessID
}

func (w *Worker) Shift() ShiftType {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.shift
}

func (w *Worker) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Worker) IsOnDuty() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.onDuty
}

func (w *Worker) Fatigue() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fatigue
}

func (w *Worker) Morale() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.morale
}

func (w *Worker) Experience() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.experience
}

func (w *Worker) Level() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.level
}

func (w *Worker) Progress() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.progress
}

func (w *Worker) HourlyWage() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.hourlyWage
}

func (w *Worker) Position() shared.Location {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.position
}

// CurrentTaskID returns the held task id, or "" when free
func (w *Worker) CurrentTaskID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.task == nil {
		return ""
	}
	return w.task.ID
}

// IsAvailable reports an on-duty, idle worker with no task
func (w *Worker) IsAvailable() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.onDuty && w.state == StateIdle && w.task == nil
}

// Skills returns the unlocked skills in the order they were learned
func (w *Worker) Skills() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.skills...)
}

// Setters

func (w *Worker) SetBusinessID(businessID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.businessID = businessID
}

func (w *Worker) SetShift(shift ShiftType) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.shift = shift
}

func (w *Worker) SetHourlyWage(wage float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if wage >= 0 {
		w.hourlyWage = wage
	}
}

func (w *Worker) SetPosition(loc shared.Location) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.position = loc
}

// SetWalkSpeed sets floor distance per work unit; non-positive values are ignored
func (w *Worker) SetWalkSpeed(speed float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if speed > 0 {
		w.walkSpeed = speed
	}
}

// LearnSkill unlocks a skill; learning a known skill is a no-op
func (w *Worker) LearnSkill(skill string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if skill == "" || w.hasSkillLocked(skill) {
		return false
	}
	w.skills = append(w.skills, skill)
	return true
}

func (w *Worker) HasSkill(skill string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.hasSkillLocked(skill)
}

func (w *Worker) hasSkillLocked(skill string) bool {
	for _, s := range w.skills {
		if s == skill {
			return true
		}
	}
	return false
}

// Shift lifecycle

// StartShift puts the worker on duty, idle and fully rested
func (w *Worker) StartShift() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onDuty = true
	w.state = StateIdle
	w.fatigue = 0
	w.task = nil
	w.progress = 0
	w.breakRemaining = 0
}

// EndShift takes the worker off duty. The id of any held task is returned
// so the owner of the task can put it back in the pending pool.
func (w *Worker) EndShift() (releasedTaskID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.task != nil {
		releasedTaskID = w.task.ID
	}
	w.onDuty = false
	w.state = StateLeaving
	w.task = nil
	w.progress = 0
	w.breakRemaining = 0
	return releasedTaskID
}

// TakeBreak pauses the worker. A positive duration (in work units) ends the
// break automatically; zero or less keeps it open until EndBreak.
func (w *Worker) TakeBreak(duration float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.onDuty || w.state == StateLeaving {
		return &ErrInvalidStateTransition{WorkerID: w.id, From: w.state, Action: "take a break"}
	}
	if w.state == StateOnBreak {
		return &ErrInvalidStateTransition{WorkerID: w.id, From: w.state, Action: "take a break"}
	}
	w.resumeState = w.state
	w.state = StateOnBreak
	if duration > 0 {
		w.breakRemaining = duration
	} else {
		w.breakRemaining = 0
	}
	return nil
}

// EndBreak resumes whatever the worker was doing, or goes idle
func (w *Worker) EndBreak() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateOnBreak {
		return &ErrInvalidStateTransition{WorkerID: w.id, From: w.state, Action: "end a break"}
	}
	w.resumeLocked()
	return nil
}

func (w *Worker) resumeLocked() {
	w.breakRemaining = 0
	if w.task == nil {
		w.state = StateIdle
		return
	}
	switch w.resumeState {
	case StateMovingToTask, StatePerformingTask:
		w.state = w.resumeState
	default:
		w.state = StatePerformingTask
	}
}

// Assignment

// CanPerform checks role membership (when the order names roles) and that
// every required skill is unlocked
func (w *Worker) CanPerform(order *workorder.WorkOrder) bool {
	if order == nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.canPerformLocked(order)
}

func (w *Worker) canPerformLocked(order *workorder.WorkOrder) bool {
	if !order.HasRole(w.role) {
		return false
	}
	for _, skill := range order.RequiredSkills() {
		if !w.hasSkillLocked(skill) {
			return false
		}
	}
	return true
}

// Assign accepts a work order. The worker must be on duty, not on break or
// leaving, free of other work and able to perform the order. The order
// itself is not touched; the dispatch queue owns its transition.
func (w *Worker) Assign(order *workorder.WorkOrder) error {
	if order == nil {
		return &ErrAssignmentRejected{WorkerID: w.id, Reason: "no work order"}
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	reject := func(reason string) error {
		return &ErrAssignmentRejected{WorkerID: w.id, OrderID: order.ID(), Reason: reason}
	}
	switch {
	case !w.onDuty:
		return reject("off duty")
	case w.state == StateOnBreak:
		return reject("on break")
	case w.state == StateLeaving:
		return reject("leaving")
	case w.task != nil:
		return reject(fmt.Sprintf("already holding %s", w.task.ID))
	case !w.canPerformLocked(order):
		return reject("role or skills do not match")
	}

	ref := &TaskRef{
		ID:                order.ID(),
		EstimatedDuration: order.EstimatedDuration(),
		ExperienceReward:  order.ExperienceReward(),
	}
	if loc, ok := order.Location(); ok {
		ref.Location = &loc
	}
	w.task = ref
	w.progress = 0
	if ref.Location != nil {
		w.state = StateMovingToTask
	} else {
		w.state = StatePerformingTask
	}
	return nil
}

// Abandon drops the held task without completing it and returns its id
func (w *Worker) Abandon() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.task == nil {
		return ""
	}
	id := w.task.ID
	w.task = nil
	w.progress = 0
	if w.onDuty && w.state != StateOnBreak {
		w.state = StateIdle
	}
	return id
}

// Tick dynamics

// Update advances the worker by elapsed work units. It returns a Completion
// when the held task finished during this update.
func (w *Worker) Update(elapsed float64) *Completion {
	return w.UpdateWithEfficiency(elapsed, 1)
}

// UpdateWithEfficiency is Update with task progress scaled by efficiency,
// clamped to [0,1]. Fatigue, travel and rest are not scaled.
func (w *Worker) UpdateWithEfficiency(elapsed, efficiency float64) *Completion {
	if elapsed <= 0 {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.onDuty {
		return nil
	}

	w.updateConditionLocked(elapsed)

	switch w.state {
	case StateMovingToTask:
		w.moveLocked(elapsed)
	case StatePerformingTask:
		return w.workLocked(elapsed, math.Max(0, math.Min(1, efficiency)))
	case StateOnBreak:
		w.restLocked(elapsed)
	}
	return nil
}

func (w *Worker) updateConditionLocked(elapsed float64) {
	gain := float64(11-w.attributes.Stamina) * FatiguePerStaminaPoint * elapsed
	w.fatigue = clampCondition(w.fatigue + gain)
	if w.fatigue > MoraleDecayThreshold {
		w.morale = clampCondition(w.morale - MoraleDecayRate*elapsed)
	}
}

func (w *Worker) moveLocked(elapsed float64) {
	if w.task == nil {
		w.state = StateIdle
		return
	}
	if w.task.Location == nil {
		w.state = StatePerformingTask
		return
	}
	target := *w.task.Location
	w.position = w.position.MoveToward(target, w.walkSpeed*elapsed)
	if w.position.DistanceTo(target) <= ArrivalDistance {
		w.state = StatePerformingTask
	}
}

func (w *Worker) workLocked(elapsed, efficiency float64) *Completion {
	if w.task == nil {
		w.state = StateIdle
		return nil
	}
	rate := float64(w.attributes.Speed) * ProgressPerSpeedPoint * (1 - w.fatigue/200) * efficiency
	if rate > 0 {
		w.progress += rate * elapsed
	}
	if w.progress < w.task.EstimatedDuration {
		return nil
	}
	return w.completeLocked()
}

func (w *Worker) completeLocked() *Completion {
	task := w.task
	completion := &Completion{
		WorkerID:         w.id,
		TaskID:           task.ID,
		Quality:          w.rollQualityLocked(),
		ExperienceGained: task.ExperienceReward,
		PreviousLevel:    w.level,
	}

	w.experience += task.ExperienceReward
	for w.experience >= RequiredExperienceForLevel(w.level+1) {
		w.level++
	}
	completion.NewLevel = w.level

	w.task = nil
	w.progress = 0
	w.state = StateIdle
	return completion
}

// rollQualityLocked draws the outcome quality: 1.0, or a value in
// [0.7,0.9] with probability (10 - accuracy) * 0.02
func (w *Worker) rollQualityLocked() float64 {
	if w.random == nil {
		return 1.0
	}
	errorChance := float64(10-w.attributes.Accuracy) * ErrorChancePerAccuracyPoint
	if w.random.Float64() < errorChance {
		return 1.0 - shared.RandomRange(w.random, 0.1, 0.3)
	}
	return 1.0
}

func (w *Worker) restLocked(elapsed float64) {
	w.fatigue = clampCondition(w.fatigue - BreakRecoveryRate*elapsed)
	if w.breakRemaining > 0 {
		w.breakRemaining -= elapsed
		if w.breakRemaining <= 0 {
			w.resumeLocked()
		}
	}
}

// Derived performance

// CharismaBonus is the service uplift from charisma
func (w *Worker) CharismaBonus() float64 {
	return float64(w.attributes.Charisma) * 0.03
}

// MaintenanceBonus is the upkeep uplift from maintenance
func (w *Worker) MaintenanceBonus() float64 {
	return float64(w.attributes.Maintenance) * 0.05
}

// EffectivePerformance folds skill, morale and fatigue into one factor
func (w *Worker) EffectivePerformance() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	base := float64(w.attributes.Speed+w.attributes.Accuracy) / 20.0
	return base * (w.morale / 100.0) * (1 - w.fatigue/200.0)
}

// AdjustMorale applies a bounded morale change
func (w *Worker) AdjustMorale(delta float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.morale = clampCondition(w.morale + delta)
}

func (w *Worker) String() string {
	return fmt.Sprintf("Worker[%s, name=%s, role=%s, state=%s, level=%d]",
		w.id, w.name, w.role, w.State(), w.Level())
}

func clampCondition(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > MaxCondition {
		return MaxCondition
	}
	return v
}
