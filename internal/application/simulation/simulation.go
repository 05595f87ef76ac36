package simulation

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/bizsim-go/internal/domain/business"
	"github.com/andrescamacho/bizsim-go/internal/domain/dispatch"
	"github.com/andrescamacho/bizsim-go/internal/domain/inventory"
	"github.com/andrescamacho/bizsim-go/internal/domain/mission"
	"github.com/andrescamacho/bizsim-go/internal/domain/operations"
	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
	"github.com/andrescamacho/bizsim-go/internal/domain/staff"
)

// TickResult summarises one simulated minute
type TickResult struct {
	Clock     shared.ClockSnapshot
	DayRolled bool
	Expired   int
	Completed int
	Assigned  int
	Generated int
}

// Simulation owns every component of one game and advances them together.
//
// All mutation goes through Tick or one of the command methods, which are
// serialised by a single mutex. Component readers (queue, engine, directory)
// are safe to call at any time and return copies.
type Simulation struct {
	mu sync.Mutex

	config Config
	clock  *shared.GameClock
	random shared.Random
	bus    *shared.EventBus
	logger shared.Logger

	queue     *dispatch.Queue
	engine    *operations.Engine
	directory *business.Directory
	missions  *mission.Tracker
	stock     stockrooms

	routines  Routines
	templates map[string]staff.Template
	products  Catalogue
	workerIDs shared.IDGenerator

	ticks int64
}

// Option overrides a collaborator, mostly for tests
type Option func(*options)

type options struct {
	random shared.Random
	newID  shared.IDGenerator
	bus    *shared.EventBus
}

// WithRandom replaces the seeded source built from Config.Seed
func WithRandom(random shared.Random) Option {
	return func(o *options) { o.random = random }
}

// WithIDs replaces the UUID generator for every component
func WithIDs(newID shared.IDGenerator) Option {
	return func(o *options) { o.newID = newID }
}

// WithEventBus shares an existing bus
func WithEventBus(bus *shared.EventBus) Option {
	return func(o *options) { o.bus = bus }
}

// New wires a simulation positioned at the configured start day and hour
func New(config Config, tuning Tuning, logger shared.Logger, opts ...Option) *Simulation {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.random == nil {
		o.random = shared.NewSeededRandom(config.Seed)
	}
	if o.newID == nil {
		o.newID = shared.NewUUID
	}
	if o.bus == nil {
		o.bus = shared.NewEventBus()
	}
	if config.WorkUnitsPerMinute <= 0 {
		config.WorkUnitsPerMinute = 1
	}
	if config.StartDay < 1 {
		config.StartDay = 1
	}
	logger = shared.LoggerOrNop(logger)

	clock := shared.NewGameClock(config.StartDay, config.StartHour, 0)
	s := &Simulation{
		config:    config,
		clock:     clock,
		random:    o.random,
		bus:       o.bus,
		logger:    logger,
		queue:     dispatch.NewQueue(config.Queue, clock, o.newID, o.bus, logger),
		engine:    operations.NewEngine(config.Events, clock, o.random, o.newID, o.bus, logger),
		directory: business.NewDirectory(tuning.Tiers, o.newID, o.bus, logger),
		missions:  mission.NewTracker(clock, o.bus, logger),
		stock:     stockrooms{byBusiness: make(map[string]*inventory.Inventory)},
		routines:  tuning.Routines,
		templates: make(map[string]staff.Template, len(tuning.Templates)),
		products:  tuning.Products,
		workerIDs: o.newID,
	}
	s.engine.SetDay(config.StartDay)
	for _, t := range tuning.Templates {
		s.templates[t.ID] = t
	}
	for _, def := range tuning.Missions {
		if err := s.missions.Add(def); err != nil {
			logger.Log(shared.LevelWarning, "[Simulation] Mission skipped", map[string]interface{}{
				"mission_id": def.ID,
				"error":      err.Error(),
			})
		}
	}
	s.subscribeOutcomes()
	s.subscribeSupply()
	s.subscribeMissions()
	return s
}

// Accessors

func (s *Simulation) Config() Config                 { return s.config }
func (s *Simulation) Clock() *shared.GameClock       { return s.clock }
func (s *Simulation) Bus() *shared.EventBus          { return s.bus }
func (s *Simulation) Queue() *dispatch.Queue         { return s.queue }
func (s *Simulation) Engine() *operations.Engine     { return s.engine }
func (s *Simulation) Directory() *business.Directory { return s.directory }
func (s *Simulation) Logger() shared.Logger          { return s.logger }

func (s *Simulation) Templates() map[string]staff.Template {
	copied := make(map[string]staff.Template, len(s.templates))
	for id, t := range s.templates {
		copied[id] = t
	}
	return copied
}

// Ticks returns how many minutes have been simulated by this process
func (s *Simulation) Ticks() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

// Tick advances the game by one simulated minute
func (s *Simulation) Tick() TickResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickLocked()
}

func (s *Simulation) tickLocked() TickResult {
	previousDay := s.clock.Day()
	hour, minute, dayRolled := s.clock.AdvanceMinute()
	day := s.clock.Day()
	s.ticks++

	result := TickResult{DayRolled: dayRolled}

	if minute == 0 {
		s.chargeWages()
		s.runShiftScheduler(hour)
		s.updateOpeningHours(hour)
	}

	s.engine.Tick(day)

	result.Expired = len(s.queue.ExpireOverdue())

	result.Completed = s.updateWorkers()
	result.Assigned = s.dispatchIdleWorkers()

	if minute == 0 {
		if hour == s.config.RoutineHour {
			result.Generated = s.generateRoutines()
		}
		s.serveCustomers()
		s.processSupply()
		s.missions.ExpireOverdue()
	}

	if dayRolled {
		s.directory.EndDay(previousDay)
		s.engine.ProcessNewDay(day)
		s.logger.Log(shared.LevelInfo, "[Simulation] New day", map[string]interface{}{
			"day": day,
		})
	}

	result.Clock = s.clock.Snapshot()
	return result
}

// updateWorkers advances every worker in roster order and settles finished
// tasks. Active efficiency effects slow task progress.
func (s *Simulation) updateWorkers() int {
	completed := 0
	efficiency := 1 - s.engine.CumulativeEffects()[operations.EffectEfficiency]
	for _, w := range s.directory.Workers() {
		completion := w.UpdateWithEfficiency(s.config.WorkUnitsPerMinute, efficiency)
		if completion != nil {
			if err := s.queue.CompleteTask(completion.TaskID, completion.Quality); err == nil {
				completed++
			}
			if completion.LeveledUp() {
				s.logger.Log(shared.LevelInfo, "[Simulation] Worker leveled up", map[string]interface{}{
					"worker_id": w.ID(),
					"level":     completion.NewLevel,
				})
				s.bus.Publish(staff.LeveledUp{
					WorkerID:      w.ID(),
					PreviousLevel: completion.PreviousLevel,
					NewLevel:      completion.NewLevel,
				})
			}
		}
		if s.config.AutoBreakFatigue > 0 && w.IsOnDuty() && w.State() != staff.StateOnBreak &&
			w.Fatigue() >= s.config.AutoBreakFatigue {
			if err := w.TakeBreak(s.config.BreakDuration); err == nil {
				s.logger.Log(shared.LevelDebug, "[Simulation] Worker sent on break", map[string]interface{}{
					"worker_id": w.ID(),
					"fatigue":   w.Fatigue(),
				})
			}
		}
	}
	return completed
}

// dispatchIdleWorkers gives each available worker one chance at the queue
func (s *Simulation) dispatchIdleWorkers() int {
	assigned := 0
	for _, w := range s.directory.Workers() {
		if !w.IsAvailable() {
			continue
		}
		next, ok := s.queue.NextEligibleTask(w)
		if !ok {
			continue
		}
		if err := s.queue.AssignTask(next.ID, w); err == nil {
			assigned++
		}
	}
	return assigned
}

// Run advances up to ticks minutes, stopping early when ctx is done
func (s *Simulation) Run(ctx context.Context, ticks int) (TickResult, error) {
	var last TickResult
	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			return last, err
		}
		last = s.Tick()
	}
	return last, nil
}

// RunRealtime ticks at Config.TicksPerSecond until ctx is cancelled. The
// callback, when set, sees every tick result.
func (s *Simulation) RunRealtime(ctx context.Context, onTick func(TickResult)) error {
	tps := s.config.TicksPerSecond
	if tps <= 0 {
		tps = 1
	}
	limiter := rate.NewLimiter(rate.Limit(tps), 1)

	s.logger.Log(shared.LevelInfo, "[Simulation] Realtime loop started", map[string]interface{}{
		"ticks_per_second": tps,
		"clock":            s.clock.Snapshot().String(),
	})
	for {
		if err := limiter.Wait(ctx); err != nil {
			s.logger.Log(shared.LevelInfo, "[Simulation] Realtime loop stopped", map[string]interface{}{
				"clock": s.clock.Snapshot().String(),
			})
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			return err
		}
		result := s.Tick()
		if onTick != nil {
			onTick(result)
		}
	}
}
