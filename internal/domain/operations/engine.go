package operations

import (
	"math"
	"sync"
	"time"

	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
)

const (
	// RepairReductionHours is taken off a major breakdown's remaining time by a repair
	RepairReductionHours = 12.0

	// MinimumRepairHours is the least a repaired breakdown can still last
	MinimumRepairHours = 1.0

	ActionRepair = "repair"
)

// Config tunes the engine
type Config struct {
	HistoryLimit int         `mapstructure:"history_limit" yaml:"history_limit"`
	RollTable    []RollEntry `mapstructure:"roll_table" yaml:"roll_table"`
}

func DefaultConfig() Config {
	return Config{HistoryLimit: 100, RollTable: DefaultRollTable()}
}

// Engine rolls, tracks and retires operational events.
//
// The engine is driven by the clock collaborator: Tick once per simulated
// minute (expiry sweep and scheduled triggers) and ProcessNewDay at each day
// boundary (daily roll). Other components read the aggregate perturbation
// through CumulativeEffects.
type Engine struct {
	mu        sync.Mutex
	config    Config
	day       int
	active    []*Event
	history   []*Event
	scheduled []ScheduledEvent

	clock  shared.Clock
	random shared.Random
	newID  shared.IDGenerator
	bus    *shared.EventBus
	logger shared.Logger
}

// NewEngine creates an engine positioned on day 1
func NewEngine(config Config, clock shared.Clock, random shared.Random, newID shared.IDGenerator, bus *shared.EventBus, logger shared.Logger) *Engine {
	if config.HistoryLimit <= 0 {
		config.HistoryLimit = DefaultConfig().HistoryLimit
	}
	if config.RollTable == nil {
		config.RollTable = DefaultRollTable()
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if random == nil {
		random = shared.NewSeededRandom(time.Now().UnixNano())
	}
	if newID == nil {
		newID = shared.NewUUID
	}
	return &Engine{
		config: config,
		day:    1,
		clock:  clock,
		random: random,
		newID:  newID,
		bus:    bus,
		logger: shared.LoggerOrNop(logger),
	}
}

// Day is the day counter the engine last saw
func (e *Engine) Day() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.day
}

// SetDay repositions the day counter without firing anything
func (e *Engine) SetDay(day int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.day = day
}

// Tick retires expired events and fires scheduled events that are due on day
func (e *Engine) Tick(day int) {
	e.mu.Lock()
	e.day = day
	now := e.clock.Now()

	var ended []Snapshot
	kept := e.active[:0]
	for _, evt := range e.active {
		if evt.HasExpired(now) {
			ended = append(ended, e.archiveLocked(evt))
			continue
		}
		kept = append(kept, evt)
	}
	e.active = kept

	var due []ScheduledEvent
	pending := e.scheduled[:0]
	for _, s := range e.scheduled {
		if day >= s.TriggerDay {
			due = append(due, s)
			continue
		}
		pending = append(pending, s)
	}
	e.scheduled = pending
	e.mu.Unlock()

	for _, snap := range ended {
		e.logEnded(snap)
		e.bus.Publish(EventEnded{Event: snap})
	}
	for _, s := range due {
		e.TriggerEvent(s.Type, s.Target)
	}
}

// ProcessNewDay rolls every entry of the daily table once, independently
func (e *Engine) ProcessNewDay(day int) []Snapshot {
	e.mu.Lock()
	e.day = day
	type roll struct {
		eventType EventType
		target    string
	}
	var fired []roll
	for _, entry := range e.config.RollTable {
		if e.random.Float64() >= entry.Probability {
			continue
		}
		target := ""
		switch len(entry.Targets) {
		case 0:
		case 1:
			target = entry.Targets[0]
		default:
			target = shared.RandomChoice(e.random, entry.Targets)
		}
		fired = append(fired, roll{eventType: entry.Type, target: target})
	}
	e.mu.Unlock()

	started := make([]Snapshot, 0, len(fired))
	for _, r := range fired {
		started = append(started, e.TriggerEvent(r.eventType, r.target))
	}
	return started
}

// TriggerEvent builds an event from its type's definition and activates it
func (e *Engine) TriggerEvent(eventType EventType, target string) Snapshot {
	e.mu.Lock()
	evt := e.buildLocked(eventType, target)
	e.active = append(e.active, evt)
	snap := evt.Snapshot()
	e.mu.Unlock()

	e.logger.Log(shared.LevelInfo, "[Events] Event started", map[string]interface{}{
		"event_id": snap.ID,
		"name":     snap.Name,
		"type":     string(snap.Type),
		"severity": snap.Severity.String(),
		"target":   snap.Target,
	})
	e.bus.Publish(EventStarted{Event: snap})
	return snap
}

func (e *Engine) buildLocked(eventType EventType, target string) *Event {
	def := definitionFor(eventType)
	now := e.clock.Now()
	evt := &Event{
		id:                e.newID(),
		eventType:         eventType,
		name:              def.name(target),
		description:       def.description(target),
		severity:          def.severity,
		target:            target,
		startTime:         now,
		permanent:         def.permanent,
		requiresAction:    def.requiresAction,
		actionDescription: def.actionDescription,
		effects:           def.effects(target),
		active:            true,
	}
	if !def.permanent {
		hours := shared.RandomRange(e.random, def.minHours, def.maxHours)
		evt.endTime = now.Add(hoursToDuration(hours))
	}
	return evt
}

// EndEvent moves an active event to history
func (e *Engine) EndEvent(eventID string) error {
	e.mu.Lock()
	idx := e.indexLocked(eventID)
	if idx < 0 {
		e.mu.Unlock()
		err := &ErrEventNotFound{EventID: eventID}
		e.logger.Log(shared.LevelWarning, "[Events] End of unknown event", map[string]interface{}{
			"event_id": eventID,
		})
		return err
	}
	evt := e.active[idx]
	e.active = append(e.active[:idx], e.active[idx+1:]...)
	snap := e.archiveLocked(evt)
	e.mu.Unlock()

	e.logEnded(snap)
	e.bus.Publish(EventEnded{Event: snap})
	return nil
}

// HandleEventAction applies a player response. A major breakdown accepts
// "repair", which cuts the remaining time by twelve hours (never below one)
// and clears the action flag. Inspections accept any action and only clear
// the flag. Everything else fails without mutation.
func (e *Engine) HandleEventAction(eventID, action string) error {
	e.mu.Lock()
	idx := e.indexLocked(eventID)
	if idx < 0 {
		e.mu.Unlock()
		return e.warnAction(&ErrEventNotFound{EventID: eventID}, action)
	}
	evt := e.active[idx]

	switch {
	case evt.eventType == EventTypeMajorBreakdown && action == ActionRepair:
		now := e.clock.Now()
		remaining := evt.RemainingDuration(now).Hours()
		remaining = math.Max(remaining-RepairReductionHours, MinimumRepairHours)
		evt.endTime = now.Add(hoursToDuration(remaining))
		evt.requiresAction = false
	case evt.eventType.IsInspection():
		evt.requiresAction = false
	default:
		err := &ErrActionNotApplicable{EventID: eventID, Type: evt.eventType, Action: action}
		e.mu.Unlock()
		return e.warnAction(err, action)
	}
	snap := evt.Snapshot()
	e.mu.Unlock()

	e.logger.Log(shared.LevelInfo, "[Events] Event action handled", map[string]interface{}{
		"event_id": eventID,
		"action":   action,
		"end_time": snap.EndTime,
	})
	e.bus.Publish(EventUpdated{Event: snap, Action: action})
	return nil
}

func (e *Engine) warnAction(err error, action string) error {
	e.logger.Log(shared.LevelWarning, "[Events] Event action rejected", map[string]interface{}{
		"action": action,
		"error":  err.Error(),
	})
	return err
}

// ScheduleEvent queues an event to fire daysFromNow days after the current day
func (e *Engine) ScheduleEvent(eventType EventType, daysFromNow int, target string) ScheduledEvent {
	if daysFromNow < 0 {
		daysFromNow = 0
	}
	e.mu.Lock()
	s := ScheduledEvent{Type: eventType, TriggerDay: e.day + daysFromNow, Target: target}
	e.scheduled = append(e.scheduled, s)
	e.mu.Unlock()

	e.logger.Log(shared.LevelInfo, "[Events] Event scheduled", map[string]interface{}{
		"type":        string(eventType),
		"trigger_day": s.TriggerDay,
		"target":      target,
	})
	return s
}

// CumulativeEffects sums numeric effects across all active events
func (e *Engine) CumulativeEffects() map[EffectKey]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	maps := make([]Effects, 0, len(e.active))
	for _, evt := range e.active {
		maps = append(maps, evt.effects)
	}
	return Aggregate(maps...)
}

// Readers

func (e *Engine) ActiveEvents() []Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshots(e.active)
}

func (e *Engine) EventsByType(eventType EventType) []Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	result := make([]Snapshot, 0)
	for _, evt := range e.active {
		if evt.eventType == eventType {
			result = append(result, evt.Snapshot())
		}
	}
	return result
}

func (e *Engine) IsEventActive(eventType EventType) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, evt := range e.active {
		if evt.eventType == eventType && evt.active {
			return true
		}
	}
	return false
}

func (e *Engine) GetEvent(eventID string) (Snapshot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if idx := e.indexLocked(eventID); idx >= 0 {
		return e.active[idx].Snapshot(), true
	}
	return Snapshot{}, false
}

// History returns ended events, oldest first
func (e *Engine) History() []Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshots(e.history)
}

func (e *Engine) Scheduled() []ScheduledEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]ScheduledEvent(nil), e.scheduled...)
}

func (e *Engine) indexLocked(eventID string) int {
	for i, evt := range e.active {
		if evt.id == eventID {
			return i
		}
	}
	return -1
}

func (e *Engine) archiveLocked(evt *Event) Snapshot {
	evt.active = false
	e.history = append(e.history, evt)
	if over := len(e.history) - e.config.HistoryLimit; over > 0 {
		e.history = append([]*Event(nil), e.history[over:]...)
	}
	return evt.Snapshot()
}

func (e *Engine) logEnded(snap Snapshot) {
	e.logger.Log(shared.LevelInfo, "[Events] Event ended", map[string]interface{}{
		"event_id": snap.ID,
		"name":     snap.Name,
	})
}

// EngineSnapshot is the persisted engine state
type EngineSnapshot struct {
	Day       int              `json:"day"`
	Active    []Snapshot       `json:"active"`
	History   []Snapshot       `json:"history"`
	Scheduled []ScheduledEvent `json:"scheduled"`
}

func (e *Engine) Snapshot() EngineSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return EngineSnapshot{
		Day:       e.day,
		Active:    snapshots(e.active),
		History:   snapshots(e.history),
		Scheduled: append([]ScheduledEvent{}, e.scheduled...),
	}
}

// Restore replaces the engine state without publishing or rolling anything
func (e *Engine) Restore(s EngineSnapshot) {
	active := make([]*Event, 0, len(s.Active))
	for _, snap := range s.Active {
		active = append(active, ReconstructEvent(snap))
	}
	history := make([]*Event, 0, len(s.History))
	for _, snap := range s.History {
		history = append(history, ReconstructEvent(snap))
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if over := len(history) - e.config.HistoryLimit; over > 0 {
		history = history[over:]
	}
	e.day = s.Day
	if e.day < 1 {
		e.day = 1
	}
	e.active = active
	e.history = history
	e.scheduled = append([]ScheduledEvent{}, s.Scheduled...)
}

func snapshots(events []*Event) []Snapshot {
	result := make([]Snapshot, len(events))
	for i, evt := range events {
		result[i] = evt.Snapshot()
	}
	return result
}

func hoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}
