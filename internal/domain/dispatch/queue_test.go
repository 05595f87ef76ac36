package dispatch_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/bizsim-go/internal/domain/dispatch"
	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
	"github.com/andrescamacho/bizsim-go/internal/domain/staff"
	"github.com/andrescamacho/bizsim-go/internal/domain/workorder"
)

type recordingLogger struct {
	entries []string
}

func (l *recordingLogger) Log(level, message string, metadata map[string]interface{}) {
	l.entries = append(l.entries, level+" "+message)
}

type fixture struct {
	clock  *shared.MockClock
	bus    *shared.EventBus
	logger *recordingLogger
	events []string
	queue  *dispatch.Queue
}

func newFixture(t *testing.T, cfg dispatch.Config) *fixture {
	t.Helper()
	f := &fixture{
		clock:  shared.NewMockClock(time.Time{}),
		bus:    shared.NewEventBus(),
		logger: &recordingLogger{},
	}
	f.bus.SubscribeAll(func(e shared.DomainEvent) {
		f.events = append(f.events, e.EventName())
	})
	f.queue = dispatch.NewQueue(cfg, f.clock, shared.SequentialIDs("task"), f.bus, f.logger)
	return f
}

func (f *fixture) add(t *testing.T, name string, priority workorder.Priority, deadlineIn time.Duration) string {
	t.Helper()
	order := workorder.NewWorkOrder(name, workorder.TypeCleaning, priority)
	if deadlineIn > 0 {
		order.SetDeadline(f.clock.Now().Add(deadlineIn))
	}
	id, err := f.queue.AddTask(order)
	require.NoError(t, err)
	return id
}

func pendingNames(q *dispatch.Queue) []string {
	var names []string
	for _, s := range q.PendingTasks() {
		names = append(names, s.Name)
	}
	return names
}

func newWorker(role shared.StaffRole) *staff.Worker {
	w := staff.NewWorker("w-1", "Linda Brown", role, staff.DefaultAttributes(), nil)
	w.StartShift()
	return w
}

func TestAddTask_AdmitsWithIDAndDefaultDeadline(t *testing.T) {
	f := newFixture(t, dispatch.DefaultConfig())

	id := f.add(t, "Mop aisle 3", workorder.PriorityNormal, 0)

	snap, ok := f.queue.GetTask(id)
	require.True(t, ok)
	assert.Equal(t, "task-1", snap.ID)
	assert.Equal(t, workorder.StatusPending, snap.Status)
	assert.Equal(t, f.clock.Now(), snap.CreatedAt)
	assert.Equal(t, f.clock.Now().Add(30*time.Minute), snap.Deadline)
	assert.Equal(t, []string{dispatch.EventTaskAdded}, f.events)
}

func TestAddTask_PriorityBeatsDeadline(t *testing.T) {
	f := newFixture(t, dispatch.DefaultConfig())

	f.add(t, "B", workorder.PriorityNormal, time.Minute)
	f.add(t, "A", workorder.PriorityCritical, 10*time.Minute)

	assert.Equal(t, []string{"A", "B"}, pendingNames(f.queue))
}

func TestAddTask_OrdersByPriorityThenDeadlineThenInsertion(t *testing.T) {
	f := newFixture(t, dispatch.DefaultConfig())

	f.add(t, "low", workorder.PriorityLow, time.Minute)
	f.add(t, "normal-late", workorder.PriorityNormal, 20*time.Minute)
	f.add(t, "normal-early", workorder.PriorityNormal, 5*time.Minute)
	f.add(t, "normal-late-2", workorder.PriorityNormal, 20*time.Minute)
	f.add(t, "high", workorder.PriorityHigh, 40*time.Minute)

	assert.Equal(t,
		[]string{"high", "normal-early", "normal-late", "normal-late-2", "low"},
		pendingNames(f.queue))
}

func TestAddTask_FullQueueRejectsWithoutMutation(t *testing.T) {
	f := newFixture(t, dispatch.Config{MaxQueueSize: 2, DefaultDeadlineMinutes: 30, HistoryLimit: 10})
	f.add(t, "one", workorder.PriorityNormal, 0)
	f.add(t, "two", workorder.PriorityNormal, 0)
	before := f.queue.Snapshot()
	f.events = nil

	order := workorder.NewWorkOrder("three", workorder.TypeCleaning, workorder.PriorityCritical)
	id, err := f.queue.AddTask(order)

	var full *dispatch.ErrQueueFull
	require.ErrorAs(t, err, &full)
	assert.Empty(t, id)
	assert.Empty(t, order.ID(), "rejected order is not admitted")
	assert.Equal(t, before, f.queue.Snapshot())
	assert.Empty(t, f.events)
	assert.Contains(t, f.logger.entries, shared.LevelWarning+" [Dispatch] Queue full, work order rejected")
}

func TestNextEligibleTask_CoarseRoleFilter(t *testing.T) {
	f := newFixture(t, dispatch.DefaultConfig())
	cashierOnly := workorder.NewWorkOrder("Open lane", workorder.TypeCustomerService, workorder.PriorityUrgent)
	cashierOnly.SetRequiredRoles(shared.RoleCashier)
	_, err := f.queue.AddTask(cashierOnly)
	require.NoError(t, err)
	skilled := workorder.NewWorkOrder("Forklift run", workorder.TypeStocking, workorder.PriorityHigh)
	skilled.SetRequiredSkills("forklift")
	_, err = f.queue.AddTask(skilled)
	require.NoError(t, err)

	stocker := newWorker(shared.RoleStocker)
	next, ok := f.queue.NextEligibleTask(stocker)

	require.True(t, ok)
	assert.Equal(t, "Forklift run", next.Name, "skills are not checked by the coarse filter")

	err = f.queue.AssignTask(next.ID, stocker)
	var ineligible *dispatch.ErrWorkerIneligible
	require.ErrorAs(t, err, &ineligible)
	snap, _ := f.queue.GetTask(next.ID)
	assert.Equal(t, workorder.StatusPending, snap.Status)
	assert.Equal(t, staff.StateIdle, stocker.State())
}

func TestAssignTask_TransitionsOrderAndWorker(t *testing.T) {
	f := newFixture(t, dispatch.DefaultConfig())
	id := f.add(t, "Mop", workorder.PriorityNormal, 0)
	w := newWorker(shared.RoleStocker)

	require.NoError(t, f.queue.AssignTask(id, w))

	snap, _ := f.queue.GetTask(id)
	assert.Equal(t, workorder.StatusInProgress, snap.Status)
	assert.Equal(t, "w-1", snap.AssignedWorker)
	assert.Equal(t, id, w.CurrentTaskID())
	assert.Equal(t, staff.StatePerformingTask, w.State())
	assert.Len(t, f.queue.ActiveTasks(), 1)
	assert.Empty(t, f.queue.PendingTasks())
}

func TestAssignTask_InProgressCannotBeAssignedAgain(t *testing.T) {
	f := newFixture(t, dispatch.DefaultConfig())
	id := f.add(t, "Mop", workorder.PriorityNormal, 0)
	first := newWorker(shared.RoleStocker)
	require.NoError(t, f.queue.AssignTask(id, first))
	second := staff.NewWorker("w-2", "John Jones", shared.RoleStocker, staff.DefaultAttributes(), nil)
	second.StartShift()

	err := f.queue.AssignTask(id, second)

	var notPending *dispatch.ErrTaskNotPending
	require.ErrorAs(t, err, &notPending)
	snap, _ := f.queue.GetTask(id)
	assert.Equal(t, "w-1", snap.AssignedWorker)
	assert.Empty(t, second.CurrentTaskID())
}

func TestNextEligibleTask_SkipsOrdersOfOtherBusinesses(t *testing.T) {
	f := newFixture(t, dispatch.DefaultConfig())
	theirs := workorder.NewWorkOrder("Their floor", workorder.TypeCleaning, workorder.PriorityCritical)
	theirs.SetBusinessID("biz-b")
	_, err := f.queue.AddTask(theirs)
	require.NoError(t, err)
	ours := workorder.NewWorkOrder("Our floor", workorder.TypeCleaning, workorder.PriorityLow)
	ours.SetBusinessID("biz-a")
	_, err = f.queue.AddTask(ours)
	require.NoError(t, err)
	w := newWorker(shared.RoleStocker)
	w.SetBusinessID("biz-a")

	next, ok := f.queue.NextEligibleTask(w)

	require.True(t, ok)
	assert.Equal(t, "Our floor", next.Name)
}

func TestAssignTask_RejectsOrderOfAnotherBusiness(t *testing.T) {
	f := newFixture(t, dispatch.DefaultConfig())
	order := workorder.NewWorkOrder("Their floor", workorder.TypeCleaning, workorder.PriorityNormal)
	order.SetBusinessID("biz-b")
	id, err := f.queue.AddTask(order)
	require.NoError(t, err)
	w := newWorker(shared.RoleStocker)
	w.SetBusinessID("biz-a")

	err = f.queue.AssignTask(id, w)

	var ineligible *dispatch.ErrWorkerIneligible
	require.ErrorAs(t, err, &ineligible)
	snap, _ := f.queue.GetTask(id)
	assert.Equal(t, workorder.StatusPending, snap.Status)
	assert.Empty(t, w.CurrentTaskID())
	assert.Equal(t, staff.StateIdle, w.State())
}

func TestAssignTask_StaleHolderLeavesWorkerUntouched(t *testing.T) {
	f := newFixture(t, dispatch.DefaultConfig())
	f.queue.Restore(dispatch.Snapshot{Open: []workorder.Snapshot{{
		ID:                "task-9",
		Name:              "Mop",
		Type:              workorder.TypeCleaning,
		Priority:          workorder.PriorityNormal,
		Status:            workorder.StatusPending,
		EstimatedDuration: 10,
		AssignedWorker:    "w-9",
	}}})
	w := newWorker(shared.RoleStocker)

	err := f.queue.AssignTask("task-9", w)

	var assigned *workorder.ErrAlreadyAssigned
	require.ErrorAs(t, err, &assigned)
	assert.Empty(t, w.CurrentTaskID())
	assert.Equal(t, staff.StateIdle, w.State())
	snap, _ := f.queue.GetTask("task-9")
	assert.Equal(t, workorder.StatusPending, snap.Status)
}

func TestAssignTask_MinimumLevelIsInformational(t *testing.T) {
	f := newFixture(t, dispatch.DefaultConfig())
	order := workorder.NewWorkOrder("Audit stockroom", workorder.TypeInventoryCount, workorder.PriorityNormal)
	order.SetMinimumLevel(5)
	id, err := f.queue.AddTask(order)
	require.NoError(t, err)
	w := newWorker(shared.RoleStocker)
	require.Equal(t, 1, w.Level())

	require.NoError(t, f.queue.AssignTask(id, w))

	snap, _ := f.queue.GetTask(id)
	assert.Equal(t, 5, snap.MinimumLevel)
	assert.Equal(t, "w-1", snap.AssignedWorker)
}

func TestAssignTask_UnknownID(t *testing.T) {
	f := newFixture(t, dispatch.DefaultConfig())

	err := f.queue.AssignTask("missing", newWorker(shared.RoleStocker))

	var notFound *dispatch.ErrTaskNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestCompleteAndFail_ArchiveToHistory(t *testing.T) {
	f := newFixture(t, dispatch.DefaultConfig())
	done := f.add(t, "done", workorder.PriorityNormal, 0)
	broken := f.add(t, "broken", workorder.PriorityNormal, 0)

	require.NoError(t, f.queue.CompleteTask(done, 1.4))
	require.NoError(t, f.queue.FailTask(broken, "no parts"))

	assert.Zero(t, f.queue.Size())
	history := f.queue.History()
	require.Len(t, history, 2)
	assert.Equal(t, workorder.StatusCompleted, history[0].Status)
	assert.Equal(t, 1.0, history[0].Quality)
	assert.Equal(t, workorder.StatusFailed, history[1].Status)
	assert.Equal(t, "no parts", history[1].FailureReason)

	assert.Error(t, f.queue.CompleteTask(done, 1), "archived orders are no longer open")
	counts := f.queue.Counts()
	assert.Equal(t, 1, counts.Completed)
	assert.Equal(t, 1, counts.Failed)
}

func TestHistory_EvictsOldestPastLimit(t *testing.T) {
	f := newFixture(t, dispatch.Config{MaxQueueSize: 200, DefaultDeadlineMinutes: 30, HistoryLimit: 100})
	for i := 0; i < 101; i++ {
		id := f.add(t, "job", workorder.PriorityNormal, 0)
		require.NoError(t, f.queue.CompleteTask(id, 1))
	}

	history := f.queue.History()

	require.Len(t, history, 100)
	assert.Equal(t, "task-2", history[0].ID)
	assert.Equal(t, 101, f.queue.Counts().Completed)
}

func TestExpireOverdue_OnlyPendingPastDeadline(t *testing.T) {
	f := newFixture(t, dispatch.DefaultConfig())
	soon := f.add(t, "soon", workorder.PriorityNormal, 5*time.Minute)
	held := f.add(t, "held", workorder.PriorityNormal, 5*time.Minute)
	later := f.add(t, "later", workorder.PriorityNormal, time.Hour)
	require.NoError(t, f.queue.AssignTask(held, newWorker(shared.RoleStocker)))
	f.events = nil

	f.clock.Advance(6 * time.Minute)
	expired := f.queue.ExpireOverdue()

	require.Len(t, expired, 1)
	assert.Equal(t, soon, expired[0].ID)
	assert.Equal(t, workorder.StatusExpired, expired[0].Status)
	assert.Equal(t, []string{dispatch.EventTaskExpired}, f.events)
	_, stillOpen := f.queue.GetTask(later)
	assert.True(t, stillOpen)
	assert.Len(t, f.queue.ActiveTasks(), 1)
}

func TestReleaseTask_ReturnsOrderToPending(t *testing.T) {
	f := newFixture(t, dispatch.DefaultConfig())
	id := f.add(t, "Mop", workorder.PriorityNormal, 0)
	w := newWorker(shared.RoleStocker)
	require.NoError(t, f.queue.AssignTask(id, w))

	released := w.EndShift()
	require.NoError(t, f.queue.ReleaseTask(released))

	snap, _ := f.queue.GetTask(id)
	assert.Equal(t, workorder.StatusPending, snap.Status)
	assert.Empty(t, snap.AssignedWorker)
	assert.Error(t, f.queue.ReleaseTask(id), "pending orders cannot be released")
}

func TestCancelTask(t *testing.T) {
	f := newFixture(t, dispatch.DefaultConfig())
	id := f.add(t, "Mop", workorder.PriorityNormal, 0)

	require.NoError(t, f.queue.CancelTask(id, "store closed"))

	snap, ok := f.queue.GetTask(id)
	require.True(t, ok)
	assert.Equal(t, workorder.StatusCancelled, snap.Status)
	assert.Equal(t, 1, f.queue.Counts().Cancelled)
}

func TestSnapshotRestore_PublishesNothing(t *testing.T) {
	f := newFixture(t, dispatch.DefaultConfig())
	f.add(t, "B", workorder.PriorityNormal, time.Minute)
	f.add(t, "A", workorder.PriorityCritical, 10*time.Minute)
	done := f.add(t, "C", workorder.PriorityLow, 0)
	require.NoError(t, f.queue.CompleteTask(done, 0.5))
	snap := f.queue.Snapshot()

	restored := newFixture(t, dispatch.DefaultConfig())
	restored.queue.Restore(snap)

	assert.Equal(t, snap, restored.queue.Snapshot())
	assert.Equal(t, []string{"A", "B"}, pendingNames(restored.queue))
	assert.Empty(t, restored.events)
}
