package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/bizsim-go/internal/application/simulation"
	"github.com/andrescamacho/bizsim-go/internal/domain/business"
	"github.com/andrescamacho/bizsim-go/internal/domain/dispatch"
	"github.com/andrescamacho/bizsim-go/internal/domain/operations"
	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
	"github.com/andrescamacho/bizsim-go/internal/domain/staff"
)

// DashboardSource returns the current dashboard for polling
type DashboardSource func() (simulation.Dashboard, error)

// SimulationMetricsCollector turns bus events into counters and polls the
// dashboard for gauges
type SimulationMetricsCollector struct {
	source DashboardSource

	// Counters fed by the event bus
	tasksTotal    *prometheus.CounterVec
	eventsTotal   *prometheus.CounterVec
	shiftsTotal   *prometheus.CounterVec
	levelUpsTotal prometheus.Counter
	daysTotal     prometheus.Counter
	awardedPoints *prometheus.CounterVec
	ticksTotal    prometheus.Counter

	// Gauges refreshed from the dashboard
	queueTasks      *prometheus.GaugeVec
	cash            *prometheus.GaugeVec
	reputation      *prometheus.GaugeVec
	businessPoints  *prometheus.GaugeVec
	workersOnDuty   *prometheus.GaugeVec
	customersServed *prometheus.GaugeVec
	activeEvents    prometheus.Gauge
	simulatedDay    prometheus.Gauge

	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

func NewSimulationMetricsCollector(namespace string, source DashboardSource) *SimulationMetricsCollector {
	namespace = namespaceOrDefault(namespace)
	counter := func(name, help string, labels ...string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystemSimulation, Name: name, Help: help,
		}, labels)
	}
	gauge := func(name, help string, labels ...string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: subsystemSimulation, Name: name, Help: help,
		}, labels)
	}

	return &SimulationMetricsCollector{
		source: source,

		tasksTotal:  counter("tasks_total", "Work orders by lifecycle outcome", "business_id", "outcome"),
		eventsTotal: counter("events_total", "Operational events started by type and severity", "type", "severity"),
		shiftsTotal: counter("shifts_total", "Shift starts and ends", "action"),
		levelUpsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystemSimulation,
			Name: "level_ups_total", Help: "Worker level-ups",
		}),
		daysTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystemSimulation,
			Name: "day_rollovers_total", Help: "Simulated day rollovers",
		}),
		awardedPoints: counter("awarded_points_total", "Business points awarded at day end", "business_id"),
		ticksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystemSimulation,
			Name: "ticks_total", Help: "Simulated minutes advanced",
		}),

		queueTasks:      gauge("queue_tasks", "Work orders in the dispatch queue by status", "status"),
		cash:            gauge("cash", "Cash on hand", "business_id"),
		reputation:      gauge("reputation", "Reputation score (0-5)", "business_id"),
		businessPoints:  gauge("business_points", "Business points", "business_id"),
		workersOnDuty:   gauge("workers_on_duty", "Workers currently on shift", "business_id"),
		customersServed: gauge("customers_served_today", "Customers served so far today", "business_id"),
		activeEvents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: subsystemSimulation,
			Name: "active_events", Help: "Operational events in progress",
		}),
		simulatedDay: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: subsystemSimulation,
			Name: "day", Help: "Current simulated day",
		}),
	}
}

// Register registers all simulation metrics; a nil registerer disables them
func (c *SimulationMetricsCollector) Register(registerer prometheus.Registerer) error {
	return registerAll(registerer,
		c.tasksTotal, c.eventsTotal, c.shiftsTotal, c.levelUpsTotal, c.daysTotal, c.awardedPoints, c.ticksTotal,
		c.queueTasks, c.cash, c.reputation, c.businessPoints, c.workersOnDuty, c.customersServed,
		c.activeEvents, c.simulatedDay,
	)
}

// Attach subscribes the event counters to bus
func (c *SimulationMetricsCollector) Attach(bus *shared.EventBus) {
	bus.SubscribeAll(c.handle)
}

func (c *SimulationMetricsCollector) handle(e shared.DomainEvent) {
	switch ev := e.(type) {
	case dispatch.TaskAdded:
		c.tasksTotal.WithLabelValues(ev.Order.BusinessID, "added").Inc()
	case dispatch.TaskAssigned:
		c.tasksTotal.WithLabelValues(ev.Order.BusinessID, "assigned").Inc()
	case dispatch.TaskReleased:
		c.tasksTotal.WithLabelValues(ev.Order.BusinessID, "released").Inc()
	case dispatch.TaskCompleted:
		c.tasksTotal.WithLabelValues(ev.Order.BusinessID, "completed").Inc()
	case dispatch.TaskFailed:
		c.tasksTotal.WithLabelValues(ev.Order.BusinessID, "failed").Inc()
	case dispatch.TaskExpired:
		c.tasksTotal.WithLabelValues(ev.Order.BusinessID, "expired").Inc()
	case dispatch.TaskCancelled:
		c.tasksTotal.WithLabelValues(ev.Order.BusinessID, "cancelled").Inc()
	case operations.EventStarted:
		c.eventsTotal.WithLabelValues(string(ev.Event.Type), ev.Event.Severity.String()).Inc()
	case staff.ShiftStarted:
		c.shiftsTotal.WithLabelValues("start").Inc()
	case staff.ShiftEnded:
		c.shiftsTotal.WithLabelValues("end").Inc()
	case staff.LeveledUp:
		c.levelUpsTotal.Add(float64(ev.NewLevel - ev.PreviousLevel))
	case business.DayEnded:
		points := 0
		for _, a := range ev.Report.Awards {
			points += a.Points
		}
		c.awardedPoints.WithLabelValues(ev.Report.BusinessID).Add(float64(points))
	case business.DayRolledOver:
		c.daysTotal.Inc()
	}
}

// RecordTick counts one simulated minute; pass it as the realtime callback
func (c *SimulationMetricsCollector) RecordTick(simulation.TickResult) {
	c.ticksTotal.Inc()
}

// Start polls the dashboard every interval until Stop or ctx is done
func (c *SimulationMetricsCollector) Start(ctx context.Context, interval time.Duration) {
	c.ctx, c.cancelFunc = context.WithCancel(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-c.ctx.Done():
				return
			case <-ticker.C:
				c.Refresh()
			}
		}
	}()
}

// Stop gracefully stops the polling goroutine
func (c *SimulationMetricsCollector) Stop() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
	c.wg.Wait()
}

// Refresh reads the dashboard once and resets every gauge from it
func (c *SimulationMetricsCollector) Refresh() {
	if c.source == nil {
		return
	}
	d, err := c.source()
	if err != nil {
		return
	}

	counts := d.TaskCounts
	c.queueTasks.WithLabelValues("pending").Set(float64(counts.Pending))
	c.queueTasks.WithLabelValues("in_progress").Set(float64(counts.InProgress))
	c.queueTasks.WithLabelValues("completed").Set(float64(counts.Completed))
	c.queueTasks.WithLabelValues("failed").Set(float64(counts.Failed))
	c.queueTasks.WithLabelValues("expired").Set(float64(counts.Expired))
	c.queueTasks.WithLabelValues("cancelled").Set(float64(counts.Cancelled))

	// businesses never disappear, but a restored game may hold different ones
	c.cash.Reset()
	c.reputation.Reset()
	c.businessPoints.Reset()
	c.workersOnDuty.Reset()
	c.customersServed.Reset()
	for _, b := range d.Businesses {
		c.cash.WithLabelValues(b.BusinessID).Set(b.Cash)
		c.reputation.WithLabelValues(b.BusinessID).Set(b.Reputation)
		c.businessPoints.WithLabelValues(b.BusinessID).Set(float64(b.BusinessPoints))
		c.workersOnDuty.WithLabelValues(b.BusinessID).Set(float64(b.OnDutyCount))
		c.customersServed.WithLabelValues(b.BusinessID).Set(float64(b.CustomersServed))
	}

	c.activeEvents.Set(float64(len(d.ActiveEvents)))
	c.simulatedDay.Set(float64(d.Clock.Day))
}
