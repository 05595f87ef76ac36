package dispatch

import (
	"sort"
	"sync"

	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
	"github.com/andrescamacho/bizsim-go/internal/domain/workorder"
)

// Config bounds the queue
type Config struct {
	MaxQueueSize           int `mapstructure:"max_queue_size" validate:"min=1"`
	DefaultDeadlineMinutes int `mapstructure:"default_deadline_minutes" validate:"min=1"`
	HistoryLimit           int `mapstructure:"history_limit" validate:"min=1"`
}

// DefaultConfig returns the standard queue bounds
func DefaultConfig() Config {
	return Config{
		MaxQueueSize:           50,
		DefaultDeadlineMinutes: 30,
		HistoryLimit:           100,
	}
}

func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = d.MaxQueueSize
	}
	if c.DefaultDeadlineMinutes <= 0 {
		c.DefaultDeadlineMinutes = d.DefaultDeadlineMinutes
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = d.HistoryLimit
	}
	return c
}

// Assignee is the worker side of an assignment
type Assignee interface {
	ID() string
	Role() shared.StaffRole
	BusinessID() string
	CanPerform(order *workorder.WorkOrder) bool
	Assign(order *workorder.WorkOrder) error
	Abandon() string
}

// Counts summarises the queue for dashboards and metrics. The terminal
// counters are lifetime totals and survive history eviction.
type Counts struct {
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
	Expired    int `json:"expired"`
	Cancelled  int `json:"cancelled"`
}

// Queue owns every open work order and the bounded archive of finished ones.
//
// Open orders (PENDING and IN_PROGRESS) are kept in one slice sorted by
// priority descending, then deadline ascending, then admission order. The
// queue is the only writer of order state; readers get snapshots.
type Queue struct {
	mu      sync.Mutex
	config  Config
	open    []*workorder.WorkOrder
	byID    map[string]*workorder.WorkOrder
	history []*workorder.WorkOrder
	totals  Counts

	clock  shared.Clock
	newID  shared.IDGenerator
	bus    *shared.EventBus
	logger shared.Logger
}

// NewQueue creates an empty queue. A nil id generator falls back to UUIDs, a
// nil clock to the real clock and a nil logger to a no-op; a nil bus simply
// publishes nothing.
func NewQueue(config Config, clock shared.Clock, newID shared.IDGenerator, bus *shared.EventBus, logger shared.Logger) *Queue {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if newID == nil {
		newID = shared.NewUUID
	}
	return &Queue{
		config: config.normalized(),
		open:   make([]*workorder.WorkOrder, 0),
		byID:   make(map[string]*workorder.WorkOrder),
		clock:  clock,
		newID:  newID,
		bus:    bus,
		logger: shared.LoggerOrNop(logger),
	}
}

// Config returns the active bounds
func (q *Queue) Config() Config {
	return q.config
}

// AddTask admits an order: it gets an id, a creation time and a deadline
// when none was set, then takes its place in dispatch order. A full queue
// rejects the order and leaves everything unchanged.
func (q *Queue) AddTask(order *workorder.WorkOrder) (string, error) {
	if order == nil {
		return "", shared.NewValidationError("order", "work order is required")
	}

	q.mu.Lock()
	if len(q.open) >= q.config.MaxQueueSize {
		q.mu.Unlock()
		q.logger.Log(shared.LevelWarning, "[Dispatch] Queue full, work order rejected", map[string]interface{}{
			"name":     order.Name(),
			"max_size": q.config.MaxQueueSize,
		})
		return "", &ErrQueueFull{MaxSize: q.config.MaxQueueSize}
	}

	order.Admit(q.newID(), q.clock.Now(), q.config.DefaultDeadlineMinutes)
	q.insertLocked(order)
	snap := order.Snapshot()
	q.mu.Unlock()

	q.logger.Log(shared.LevelInfo, "[Dispatch] Work order added", map[string]interface{}{
		"task_id":  snap.ID,
		"name":     snap.Name,
		"priority": snap.Priority.String(),
		"deadline": snap.Deadline,
	})
	q.bus.Publish(TaskAdded{Order: snap})
	return snap.ID, nil
}

// insertLocked places the order after every open order that dispatches
// before or alongside it, which keeps equal keys in admission order
func (q *Queue) insertLocked(order *workorder.WorkOrder) {
	idx := sort.Search(len(q.open), func(i int) bool {
		return dispatchesBefore(order, q.open[i])
	})
	q.open = append(q.open, nil)
	copy(q.open[idx+1:], q.open[idx:])
	q.open[idx] = order
	q.byID[order.ID()] = order
}

func dispatchesBefore(a, b *workorder.WorkOrder) bool {
	if a.Priority() != b.Priority() {
		return a.Priority() > b.Priority()
	}
	return a.Deadline().Before(b.Deadline())
}

// NextEligibleTask returns the first pending order, in dispatch order, that
// belongs to the worker's business (or to none) and whose role set is empty
// or contains the worker's role. Skills are not checked here; AssignTask
// applies the full gate.
func (q *Queue) NextEligibleTask(worker Assignee) (workorder.Snapshot, bool) {
	if worker == nil {
		return workorder.Snapshot{}, false
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, order := range q.open {
		if order.Status() == workorder.StatusPending &&
			order.BelongsTo(worker.BusinessID()) &&
			order.HasRole(worker.Role()) {
			return order.Snapshot(), true
		}
	}
	return workorder.Snapshot{}, false
}

// NextPendingTask returns the highest ranked pending order regardless of role
func (q *Queue) NextPendingTask() (workorder.Snapshot, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, order := range q.open {
		if order.Status() == workorder.StatusPending {
			return order.Snapshot(), true
		}
	}
	return workorder.Snapshot{}, false
}

// AssignTask hands a pending order to a worker. Nothing changes unless the
// order is pending, owned by the worker's business (or unowned), the worker
// passes CanPerform and accepts the order.
func (q *Queue) AssignTask(taskID string, worker Assignee) error {
	if worker == nil {
		return shared.NewValidationError("worker", "worker is required")
	}

	q.mu.Lock()
	order, err := q.assignLocked(taskID, worker)
	var snap workorder.Snapshot
	if err == nil {
		snap = order.Snapshot()
	}
	q.mu.Unlock()

	if err != nil {
		q.logger.Log(shared.LevelWarning, "[Dispatch] Assignment rejected", map[string]interface{}{
			"task_id":   taskID,
			"worker_id": worker.ID(),
			"error":     err.Error(),
		})
		return err
	}

	q.logger.Log(shared.LevelInfo, "[Dispatch] Work order assigned", map[string]interface{}{
		"task_id":   snap.ID,
		"worker_id": snap.AssignedWorker,
	})
	q.bus.Publish(TaskAssigned{Order: snap})
	return nil
}

func (q *Queue) assignLocked(taskID string, worker Assignee) (*workorder.WorkOrder, error) {
	order, ok := q.byID[taskID]
	if !ok {
		return nil, &ErrTaskNotFound{TaskID: taskID}
	}
	if order.Status() != workorder.StatusPending {
		return nil, &ErrTaskNotPending{TaskID: taskID, Status: order.Status()}
	}
	if !order.BelongsTo(worker.BusinessID()) {
		return nil, &ErrWorkerIneligible{TaskID: taskID, WorkerID: worker.ID(), Reason: "order belongs to business " + order.BusinessID()}
	}
	if !worker.CanPerform(order) {
		return nil, &ErrWorkerIneligible{TaskID: taskID, WorkerID: worker.ID(), Reason: "role or skills do not match"}
	}
	if holder := order.AssignedWorker(); holder != "" && holder != worker.ID() {
		return nil, &workorder.ErrAlreadyAssigned{OrderID: taskID, AssignedWorker: holder}
	}
	if err := worker.Assign(order); err != nil {
		return nil, &ErrWorkerIneligible{TaskID: taskID, WorkerID: worker.ID(), Reason: err.Error()}
	}
	if err := order.Assign(worker.ID(), q.clock.Now()); err != nil {
		worker.Abandon()
		return nil, err
	}
	return order, nil
}

// ReleaseTask puts an in-progress order back in the pending pool with no
// worker. Used when the holder's shift ends.
func (q *Queue) ReleaseTask(taskID string) error {
	q.mu.Lock()
	order, ok := q.byID[taskID]
	if !ok {
		q.mu.Unlock()
		return q.warn("[Dispatch] Release of unknown work order", taskID, &ErrTaskNotFound{TaskID: taskID})
	}
	if err := order.Release(); err != nil {
		q.mu.Unlock()
		return q.warn("[Dispatch] Release rejected", taskID, err)
	}
	snap := order.Snapshot()
	q.mu.Unlock()

	q.logger.Log(shared.LevelInfo, "[Dispatch] Work order released", map[string]interface{}{
		"task_id": taskID,
	})
	q.bus.Publish(TaskReleased{Order: snap})
	return nil
}

// CompleteTask archives an order with the given quality (clamped to [0,1])
func (q *Queue) CompleteTask(taskID string, quality float64) error {
	snap, err := q.finish(taskID, func(o *workorder.WorkOrder) error {
		return o.Complete(quality, q.clock.Now())
	})
	if err != nil {
		return q.warn("[Dispatch] Completion rejected", taskID, err)
	}
	q.logger.Log(shared.LevelInfo, "[Dispatch] Work order completed", map[string]interface{}{
		"task_id":   taskID,
		"worker_id": snap.AssignedWorker,
		"quality":   snap.Quality,
	})
	q.bus.Publish(TaskCompleted{Order: snap})
	return nil
}

// FailTask archives an order as failed
func (q *Queue) FailTask(taskID, reason string) error {
	snap, err := q.finish(taskID, func(o *workorder.WorkOrder) error {
		return o.Fail(reason, q.clock.Now())
	})
	if err != nil {
		return q.warn("[Dispatch] Failure rejected", taskID, err)
	}
	q.logger.Log(shared.LevelWarning, "[Dispatch] Work order failed", map[string]interface{}{
		"task_id": taskID,
		"reason":  reason,
	})
	q.bus.Publish(TaskFailed{Order: snap})
	return nil
}

// CancelTask withdraws an open order
func (q *Queue) CancelTask(taskID, reason string) error {
	snap, err := q.finish(taskID, func(o *workorder.WorkOrder) error {
		return o.Cancel(reason, q.clock.Now())
	})
	if err != nil {
		return q.warn("[Dispatch] Cancellation rejected", taskID, err)
	}
	q.logger.Log(shared.LevelInfo, "[Dispatch] Work order cancelled", map[string]interface{}{
		"task_id": taskID,
		"reason":  reason,
	})
	q.bus.Publish(TaskCancelled{Order: snap})
	return nil
}

func (q *Queue) finish(taskID string, transition func(*workorder.WorkOrder) error) (workorder.Snapshot, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	order, ok := q.byID[taskID]
	if !ok {
		return workorder.Snapshot{}, &ErrTaskNotFound{TaskID: taskID}
	}
	if err := transition(order); err != nil {
		return workorder.Snapshot{}, err
	}
	q.archiveLocked(order)
	return order.Snapshot(), nil
}

// ExpireOverdue retires every pending order whose deadline has passed and
// returns their snapshots. In-progress orders are left to their workers.
func (q *Queue) ExpireOverdue() []workorder.Snapshot {
	q.mu.Lock()
	now := q.clock.Now()
	var overdue []*workorder.WorkOrder
	for _, order := range q.open {
		if order.IsOverdue(now) {
			overdue = append(overdue, order)
		}
	}
	expired := make([]workorder.Snapshot, 0, len(overdue))
	for _, order := range overdue {
		if err := order.Expire(now); err != nil {
			continue
		}
		q.archiveLocked(order)
		expired = append(expired, order.Snapshot())
	}
	q.mu.Unlock()

	for _, snap := range expired {
		q.logger.Log(shared.LevelWarning, "[Dispatch] Work order expired", map[string]interface{}{
			"task_id":  snap.ID,
			"name":     snap.Name,
			"deadline": snap.Deadline,
		})
		q.bus.Publish(TaskExpired{Order: snap})
	}
	return expired
}

// archiveLocked moves a finished order from the open set to history,
// evicting the oldest entry past the limit
func (q *Queue) archiveLocked(order *workorder.WorkOrder) {
	for i, o := range q.open {
		if o == order {
			q.open = append(q.open[:i], q.open[i+1:]...)
			break
		}
	}
	delete(q.byID, order.ID())

	q.history = append(q.history, order)
	if over := len(q.history) - q.config.HistoryLimit; over > 0 {
		q.history = append([]*workorder.WorkOrder(nil), q.history[over:]...)
	}

	switch order.Status() {
	case workorder.StatusCompleted:
		q.totals.Completed++
	case workorder.StatusFailed:
		q.totals.Failed++
	case workorder.StatusExpired:
		q.totals.Expired++
	case workorder.StatusCancelled:
		q.totals.Cancelled++
	}
}

func (q *Queue) warn(message, taskID string, err error) error {
	q.logger.Log(shared.LevelWarning, message, map[string]interface{}{
		"task_id": taskID,
		"error":   err.Error(),
	})
	return err
}

// Readers

// GetTask returns an open or archived order by id
func (q *Queue) GetTask(taskID string) (workorder.Snapshot, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if order, ok := q.byID[taskID]; ok {
		return order.Snapshot(), true
	}
	for i := len(q.history) - 1; i >= 0; i-- {
		if q.history[i].ID() == taskID {
			return q.history[i].Snapshot(), true
		}
	}
	return workorder.Snapshot{}, false
}

// PendingTasks returns waiting orders in dispatch order
func (q *Queue) PendingTasks() []workorder.Snapshot {
	return q.openWithStatus(workorder.StatusPending)
}

// ActiveTasks returns in-progress orders in dispatch order
func (q *Queue) ActiveTasks() []workorder.Snapshot {
	return q.openWithStatus(workorder.StatusInProgress)
}

func (q *Queue) openWithStatus(status workorder.Status) []workorder.Snapshot {
	q.mu.Lock()
	defer q.mu.Unlock()
	result := make([]workorder.Snapshot, 0, len(q.open))
	for _, order := range q.open {
		if order.Status() == status {
			result = append(result, order.Snapshot())
		}
	}
	return result
}

// History returns archived orders, oldest first
func (q *Queue) History() []workorder.Snapshot {
	q.mu.Lock()
	defer q.mu.Unlock()
	result := make([]workorder.Snapshot, len(q.history))
	for i, order := range q.history {
		result[i] = order.Snapshot()
	}
	return result
}

// Size is the number of open orders counted against MaxQueueSize
func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.open)
}

func (q *Queue) Counts() Counts {
	q.mu.Lock()
	defer q.mu.Unlock()
	c := q.totals
	for _, order := range q.open {
		switch order.Status() {
		case workorder.StatusPending:
			c.Pending++
		case workorder.StatusInProgress:
			c.InProgress++
		}
	}
	return c
}

// Snapshot is the persisted queue state
type Snapshot struct {
	Open    []workorder.Snapshot `json:"open"`
	History []workorder.Snapshot `json:"history"`
	Totals  Counts               `json:"totals"`
}

func (q *Queue) Snapshot() Snapshot {
	q.mu.Lock()
	defer q.mu.Unlock()
	s := Snapshot{
		Open:    make([]workorder.Snapshot, len(q.open)),
		History: make([]workorder.Snapshot, len(q.history)),
		Totals:  q.totals,
	}
	for i, order := range q.open {
		s.Open[i] = order.Snapshot()
	}
	for i, order := range q.history {
		s.History[i] = order.Snapshot()
	}
	return s
}

// Restore replaces the queue contents. Nothing is published and no order is
// re-admitted; open orders keep their stored ids, deadlines and order.
func (q *Queue) Restore(s Snapshot) {
	open := make([]*workorder.WorkOrder, 0, len(s.Open))
	byID := make(map[string]*workorder.WorkOrder, len(s.Open))
	for _, os := range s.Open {
		if os.IsTerminal() {
			continue
		}
		order := workorder.ReconstructWorkOrder(os)
		open = append(open, order)
		byID[order.ID()] = order
	}
	sort.SliceStable(open, func(i, j int) bool {
		return dispatchesBefore(open[i], open[j])
	})
	history := make([]*workorder.WorkOrder, 0, len(s.History))
	for _, hs := range s.History {
		history = append(history, workorder.ReconstructWorkOrder(hs))
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if over := len(history) - q.config.HistoryLimit; over > 0 {
		history = history[over:]
	}
	q.open = open
	q.byID = byID
	q.history = history
	q.totals = s.Totals
	q.totals.Pending, q.totals.InProgress = 0, 0
}
