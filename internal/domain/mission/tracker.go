package mission

import (
	"sync"
	"time"

	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
)

// Business is the side of a business a mission checks before it starts
type Business interface {
	ID() string
	BusinessType() shared.BusinessType
	Tier() int
}

// Tracker owns the mission catalogue and the progress made on it.
//
// Missions with prerequisites start LOCKED and become AVAILABLE once every
// prerequisite is COMPLETED. Completing or failing is final.
type Tracker struct {
	mu       sync.Mutex
	missions map[string]*Mission
	order    []string

	clock  shared.Clock
	bus    *shared.EventBus
	logger shared.Logger
}

func NewTracker(clock shared.Clock, bus *shared.EventBus, logger shared.Logger) *Tracker {
	return &Tracker{
		missions: make(map[string]*Mission),
		clock:    clock,
		bus:      bus,
		logger:   shared.LoggerOrNop(logger),
	}
}

// Add puts a definition in the catalogue
func (t *Tracker) Add(def Definition) error {
	if def.ID == "" {
		return shared.NewValidationError("id", "must not be empty")
	}
	if len(def.Objectives) == 0 {
		return shared.NewValidationError("objectives", "mission "+def.ID+" needs at least one objective")
	}
	seen := make(map[string]bool)
	for _, o := range def.Objectives {
		if o.ID == "" || seen[o.ID] {
			return shared.NewValidationError("objectives", "mission "+def.ID+" has a missing or repeated objective id")
		}
		if !o.Type.IsValid() {
			return shared.NewValidationError("objectives", "mission "+def.ID+" has unknown objective type "+string(o.Type))
		}
		seen[o.ID] = true
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.missions[def.ID]; exists {
		return shared.NewValidationError("id", "mission "+def.ID+" is already defined")
	}
	m := newMission(def)
	if m.Status == StatusLocked && t.prerequisitesMetLocked(m) {
		m.Status = StatusAvailable
	}
	t.missions[def.ID] = m
	t.order = append(t.order, def.ID)
	return nil
}

// Readers

func (t *Tracker) Mission(missionID string) (Mission, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.missions[missionID]
	if !ok {
		return Mission{}, shared.NewNotFoundError("mission", missionID)
	}
	return m.clone(), nil
}

// Missions lists the catalogue in the order it was added
func (t *Tracker) Missions() []Mission {
	return t.filter(func(*Mission) bool { return true })
}

func (t *Tracker) ByStatus(status Status) []Mission {
	return t.filter(func(m *Mission) bool { return m.Status == status })
}

// ActiveFor lists the missions a business is running
func (t *Tracker) ActiveFor(businessID string) []Mission {
	return t.filter(func(m *Mission) bool { return m.Status == StatusActive && m.BusinessID == businessID })
}

func (t *Tracker) filter(keep func(*Mission) bool) []Mission {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Mission, 0, len(t.order))
	for _, id := range t.order {
		if m := t.missions[id]; keep(m) {
			out = append(out, m.clone())
		}
	}
	return out
}

// Lifecycle

// CanStart checks whether b may take the mission now
func (t *Tracker) CanStart(missionID string, b Business) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := t.startableLocked(missionID, b)
	return err
}

func (t *Tracker) startableLocked(missionID string, b Business) (*Mission, error) {
	m, ok := t.missions[missionID]
	if !ok {
		return nil, shared.NewNotFoundError("mission", missionID)
	}
	if m.Status != StatusAvailable {
		return nil, &ErrMissionUnavailable{MissionID: missionID, Status: m.Status}
	}
	if !t.prerequisitesMetLocked(m) {
		return nil, &ErrRequirementsNotMet{MissionID: missionID, BusinessID: b.ID(), Reason: "prerequisites are not completed"}
	}
	if m.BusinessType != "" && m.BusinessType != b.BusinessType() {
		return nil, &ErrRequirementsNotMet{MissionID: missionID, BusinessID: b.ID(), Reason: "mission is for " + string(m.BusinessType) + " businesses"}
	}
	if b.Tier() < m.RequiredTier {
		return nil, &ErrRequirementsNotMet{MissionID: missionID, BusinessID: b.ID(), Reason: "business tier is too low"}
	}
	return m, nil
}

// Start binds an available mission to b and sets its deadline
func (t *Tracker) Start(missionID string, b Business) error {
	t.mu.Lock()
	m, err := t.startableLocked(missionID, b)
	if err != nil {
		t.mu.Unlock()
		return err
	}
	now := t.clock.Now()
	m.Status = StatusActive
	m.BusinessID = b.ID()
	m.StartedAt = now
	if m.TimeLimitHours > 0 {
		m.Deadline = now.Add(time.Duration(m.TimeLimitHours) * time.Hour)
	}
	started := m.clone()
	t.mu.Unlock()

	t.logger.Log(shared.LevelInfo, "Mission started", map[string]interface{}{
		"mission_id":  missionID,
		"business_id": b.ID(),
	})
	t.bus.Publish(MissionStarted{Mission: started})
	return nil
}

// UpdateObjective sets an objective's progress, clamped to [0, target].
// Finishing the last required objective completes the mission.
func (t *Tracker) UpdateObjective(missionID, objectiveID string, progress int) error {
	return t.withObjective(missionID, objectiveID, func(int) int { return progress })
}

func (t *Tracker) IncrementObjective(missionID, objectiveID string, amount int) error {
	return t.withObjective(missionID, objectiveID, func(current int) int { return current + amount })
}

func (t *Tracker) withObjective(missionID, objectiveID string, next func(current int) int) error {
	t.mu.Lock()
	m, ok := t.missions[missionID]
	if !ok {
		t.mu.Unlock()
		return shared.NewNotFoundError("mission", missionID)
	}
	if m.Status != StatusActive {
		t.mu.Unlock()
		return &ErrMissionNotActive{MissionID: missionID, Status: m.Status}
	}
	idx := -1
	for i, o := range m.Objectives {
		if o.ID == objectiveID {
			idx = i
		}
	}
	if idx < 0 {
		t.mu.Unlock()
		return shared.NewNotFoundError("objective", objectiveID)
	}
	events := t.setProgressLocked(m, idx, next(m.Objectives[idx].Progress))
	t.mu.Unlock()

	t.publish(events)
	return nil
}

// Record advances every matching objective of the business's active missions by amount
func (t *Tracker) Record(businessID string, kind ObjectiveType, amount int) {
	t.observe(businessID, kind, func(o Objective) int { return o.Progress + amount })
}

// Reach raises matching objectives to value when value is higher. Used for
// best-so-far goals such as a day's profit.
func (t *Tracker) Reach(businessID string, kind ObjectiveType, value int) {
	t.observe(businessID, kind, func(o Objective) int {
		if value > o.Progress {
			return value
		}
		return o.Progress
	})
}

// ObserveRating counts one more day for MAINTAIN_RATING objectives whose
// threshold the rating meets and restarts the count for those it misses
func (t *Tracker) ObserveRating(businessID string, rating float64) {
	t.observe(businessID, ObjectiveMaintainRating, func(o Objective) int {
		if rating >= o.Threshold {
			return o.Progress + 1
		}
		return 0
	})
}

func (t *Tracker) observe(businessID string, kind ObjectiveType, next func(Objective) int) {
	t.mu.Lock()
	var events []shared.DomainEvent
	for _, id := range t.order {
		m := t.missions[id]
		if m.Status != StatusActive || m.BusinessID != businessID {
			continue
		}
		for i, o := range m.Objectives {
			if o.Type != kind || o.Done() || m.Status != StatusActive {
				continue
			}
			events = append(events, t.setProgressLocked(m, i, next(o))...)
		}
	}
	t.mu.Unlock()

	t.publish(events)
}

func (t *Tracker) setProgressLocked(m *Mission, idx int, progress int) []shared.DomainEvent {
	o := &m.Objectives[idx]
	wasDone := o.Done()
	switch {
	case progress < 0:
		progress = 0
	case progress > o.Target:
		progress = o.Target
	}
	o.Progress = progress
	if wasDone || !o.Done() {
		return nil
	}
	events := []shared.DomainEvent{ObjectiveCompleted{Mission: m.clone(), ObjectiveID: o.ID}}
	if m.Accomplished() {
		events = append(events, t.completeLocked(m)...)
	}
	return events
}

// Complete finishes an active mission regardless of objective progress
func (t *Tracker) Complete(missionID string) error {
	t.mu.Lock()
	m, ok := t.missions[missionID]
	if !ok {
		t.mu.Unlock()
		return shared.NewNotFoundError("mission", missionID)
	}
	if m.Status != StatusActive {
		t.mu.Unlock()
		return &ErrMissionNotActive{MissionID: missionID, Status: m.Status}
	}
	events := t.completeLocked(m)
	t.mu.Unlock()

	t.publish(events)
	return nil
}

func (t *Tracker) completeLocked(m *Mission) []shared.DomainEvent {
	m.Status = StatusCompleted
	m.FinishedAt = t.clock.Now()
	events := []shared.DomainEvent{MissionCompleted{Mission: m.clone()}}
	for _, id := range t.order {
		next := t.missions[id]
		if next.Status == StatusLocked && t.prerequisitesMetLocked(next) {
			next.Status = StatusAvailable
			events = append(events, MissionUnlocked{Mission: next.clone()})
		}
	}
	return events
}

// Fail ends an active mission without rewards
func (t *Tracker) Fail(missionID, reason string) error {
	t.mu.Lock()
	m, ok := t.missions[missionID]
	if !ok {
		t.mu.Unlock()
		return shared.NewNotFoundError("mission", missionID)
	}
	if m.Status != StatusActive {
		t.mu.Unlock()
		return &ErrMissionNotActive{MissionID: missionID, Status: m.Status}
	}
	event := t.failLocked(m, reason)
	t.mu.Unlock()

	t.publish([]shared.DomainEvent{event})
	return nil
}

func (t *Tracker) failLocked(m *Mission, reason string) shared.DomainEvent {
	m.Status = StatusFailed
	m.FinishedAt = t.clock.Now()
	m.FailureReason = reason
	return MissionFailed{Mission: m.clone()}
}

// ExpireOverdue fails every active mission past its deadline
func (t *Tracker) ExpireOverdue() []string {
	t.mu.Lock()
	now := t.clock.Now()
	var expired []string
	var events []shared.DomainEvent
	for _, id := range t.order {
		m := t.missions[id]
		if m.Status != StatusActive || m.Deadline.IsZero() || now.Before(m.Deadline) {
			continue
		}
		events = append(events, t.failLocked(m, "time limit exceeded"))
		expired = append(expired, id)
	}
	t.mu.Unlock()

	t.publish(events)
	return expired
}

func (t *Tracker) prerequisitesMetLocked(m *Mission) bool {
	for _, id := range m.Prerequisites {
		if p, ok := t.missions[id]; !ok || p.Status != StatusCompleted {
			return false
		}
	}
	return true
}

func (t *Tracker) publish(events []shared.DomainEvent) {
	for _, e := range events {
		switch ev := e.(type) {
		case MissionCompleted:
			t.logger.Log(shared.LevelInfo, "Mission completed", map[string]interface{}{
				"mission_id":  ev.Mission.ID,
				"business_id": ev.Mission.BusinessID,
			})
		case MissionFailed:
			t.logger.Log(shared.LevelWarning, "Mission failed", map[string]interface{}{
				"mission_id":  ev.Mission.ID,
				"business_id": ev.Mission.BusinessID,
				"reason":      ev.Mission.FailureReason,
			})
		}
	}
	t.bus.Publish(events...)
}

// Snapshot captures every mission in catalogue order
func (t *Tracker) Snapshot() []Mission {
	return t.Missions()
}

// Restore replaces the catalogue and its progress without publishing
func (t *Tracker) Restore(missions []Mission) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.missions = make(map[string]*Mission, len(missions))
	t.order = t.order[:0]
	for _, m := range missions {
		restored := m.clone()
		t.missions[m.ID] = &restored
		t.order = append(t.order, m.ID)
	}
}
