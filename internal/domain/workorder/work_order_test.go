package workorder_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
	"github.com/andrescamacho/bizsim-go/internal/domain/workorder"
)

var now = shared.GameEpoch.Add(8 * time.Hour)

func admitted(t *testing.T) *workorder.WorkOrder {
	t.Helper()
	o := workorder.NewWorkOrder("Stock shelves", workorder.TypeStocking, workorder.PriorityNormal)
	o.Admit("wo-1", now, 30)
	return o
}

func TestAdmit_StampsDeadline(t *testing.T) {
	// Arrange
	defaulted := workorder.NewWorkOrder("a", workorder.TypeCleaning, workorder.PriorityLow)
	overridden := workorder.NewWorkOrder("b", workorder.TypeCleaning, workorder.PriorityLow)
	overridden.SetDeadlineMinutes(5)
	explicit := workorder.NewWorkOrder("c", workorder.TypeCleaning, workorder.PriorityLow)
	explicit.SetDeadline(now.Add(time.Hour))

	// Act
	defaulted.Admit("wo-1", now, 30)
	overridden.Admit("wo-2", now, 30)
	explicit.Admit("wo-3", now, 30)

	// Assert
	assert.Equal(t, now.Add(30*time.Minute), defaulted.Deadline())
	assert.Equal(t, now.Add(5*time.Minute), overridden.Deadline())
	assert.Equal(t, now.Add(time.Hour), explicit.Deadline())
	assert.Equal(t, workorder.StatusPending, defaulted.Status())
	assert.Equal(t, now, defaulted.CreatedAt())
}

func TestAssignReleaseComplete(t *testing.T) {
	o := admitted(t)

	require.NoError(t, o.Assign("w-1", now))
	assert.Equal(t, workorder.StatusInProgress, o.Status())
	assert.Equal(t, "w-1", o.AssignedWorker())

	var taken *workorder.ErrAlreadyAssigned
	assert.ErrorAs(t, o.Assign("w-2", now), &taken)

	require.NoError(t, o.Release())
	assert.Equal(t, workorder.StatusPending, o.Status())
	assert.Empty(t, o.AssignedWorker())

	later := now.Add(10 * time.Minute)
	require.NoError(t, o.Assign("w-2", later))
	assert.Equal(t, now, *o.StartedAt(), "first start is kept")

	require.NoError(t, o.Complete(1.7, later))
	assert.Equal(t, workorder.StatusCompleted, o.Status())
	assert.Equal(t, 1.0, o.Quality(), "quality is clamped")
	assert.True(t, o.IsTerminal())
}

func TestTerminalOrdersRejectTransitions(t *testing.T) {
	o := admitted(t)
	require.NoError(t, o.Cancel("no longer needed", now))

	var invalid *workorder.ErrInvalidTransition
	assert.ErrorAs(t, o.Complete(1, now), &invalid)
	assert.ErrorAs(t, o.Fail("late", now), &invalid)
	assert.ErrorAs(t, o.Expire(now), &invalid)
	assert.ErrorAs(t, o.Cancel("again", now), &invalid)
	assert.ErrorAs(t, o.Assign("w-1", now), &invalid)
	assert.Equal(t, "no longer needed", o.FailureReason())
}

func TestExpire_OnlyPending(t *testing.T) {
	o := admitted(t)
	require.NoError(t, o.Assign("w-1", now))

	assert.Error(t, o.Expire(now.Add(time.Hour)))

	require.NoError(t, o.Release())
	assert.True(t, o.IsOverdue(now.Add(31*time.Minute)))
	require.NoError(t, o.Expire(now.Add(31*time.Minute)))
	assert.Equal(t, workorder.StatusExpired, o.Status())
	assert.Equal(t, "deadline passed", o.FailureReason())
}

func TestIsUrgent(t *testing.T) {
	o := admitted(t)

	assert.False(t, o.IsUrgent(now))
	assert.True(t, o.IsUrgent(now.Add(26*time.Minute)))
}

func TestHasRole_EmptySetAcceptsEveryone(t *testing.T) {
	o := admitted(t)
	assert.True(t, o.HasRole(shared.RoleCashier))

	o.SetRequiredRoles(shared.RoleStocker)
	assert.True(t, o.HasRole(shared.RoleStocker))
	assert.False(t, o.HasRole(shared.RoleCashier))
}

func TestSnapshot_ReconstructIsDetached(t *testing.T) {
	// Arrange
	o := admitted(t)
	o.SetRequiredSkills("forklift")
	o.SetLocation(shared.Location{X: 3, Y: 4})
	require.NoError(t, o.Assign("w-1", now))

	// Act
	snap := o.Snapshot()
	rebuilt := workorder.ReconstructWorkOrder(snap)
	snap.RequiredSkills[0] = "mutated"

	// Assert
	assert.Equal(t, []string{"forklift"}, rebuilt.RequiredSkills())
	assert.Equal(t, workorder.StatusInProgress, rebuilt.Status())
	assert.Equal(t, "w-1", rebuilt.AssignedWorker())
	loc, ok := rebuilt.Location()
	require.True(t, ok)
	assert.Equal(t, shared.Location{X: 3, Y: 4}, loc)
}

func TestParsing(t *testing.T) {
	p, err := workorder.ParsePriority("urgent")
	require.NoError(t, err)
	assert.Equal(t, workorder.PriorityUrgent, p)
	assert.True(t, workorder.PriorityCritical > workorder.PriorityHigh)

	_, err = workorder.ParsePriority("whenever")
	assert.Error(t, err)

	typ, err := workorder.ParseType(" cleaning ")
	require.NoError(t, err)
	assert.Equal(t, workorder.TypeCleaning, typ)

	st, err := workorder.ParseStatus("in_progress")
	require.NoError(t, err)
	assert.Equal(t, workorder.StatusInProgress, st)
	assert.False(t, st.IsTerminal())
}
