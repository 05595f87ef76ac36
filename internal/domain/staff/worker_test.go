package staff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
	"github.com/andrescamacho/bizsim-go/internal/domain/staff"
	"github.com/andrescamacho/bizsim-go/internal/domain/workorder"
)

// scriptedRandom replays fixed draws, repeating the last one when exhausted
type scriptedRandom struct {
	floats []float64
	ints   []int
}

func (r *scriptedRandom) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.99
	}
	v := r.floats[0]
	if len(r.floats) > 1 {
		r.floats = r.floats[1:]
	}
	return v
}

func (r *scriptedRandom) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	if len(r.ints) > 1 {
		r.ints = r.ints[1:]
	}
	return v % n
}

func newOrder(t *testing.T, id string, duration float64) *workorder.WorkOrder {
	t.Helper()
	order := workorder.NewWorkOrder("Restock shelves", workorder.TypeStocking, workorder.PriorityNormal)
	order.SetEstimatedDuration(duration)
	order.Admit(id, shared.GameEpoch, 30)
	return order
}

func onDutyWorker(attrs staff.Attributes, random shared.Random) *staff.Worker {
	w := staff.NewWorker("w-1", "Mary Smith", shared.RoleStocker, attrs, random)
	w.StartShift()
	return w
}

func TestWorker_FatigueAccruesByStamina(t *testing.T) {
	// Arrange
	attrs := staff.DefaultAttributes()
	attrs.Stamina = 10
	w := onDutyWorker(attrs, nil)

	// Act
	for i := 0; i < 100; i++ {
		w.Update(1)
	}

	// Assert
	assert.InDelta(t, 10.0, w.Fatigue(), 1e-9)
	assert.Equal(t, staff.DefaultMorale, w.Morale(), "morale only decays above 80 fatigue")
}

func TestWorker_FatigueIsClampedAndDrainsMorale(t *testing.T) {
	attrs := staff.DefaultAttributes()
	attrs.Stamina = 1
	w := onDutyWorker(attrs, nil)

	w.Update(500)
	w.Update(10)

	assert.Equal(t, staff.MaxCondition, w.Fatigue())
	assert.InDelta(t, staff.DefaultMorale-0.1-5.0, w.Morale(), 1e-9)
}

func TestWorker_CompletesTaskWhenProgressReachesDuration(t *testing.T) {
	// Arrange: stamina 10 keeps fatigue small, speed 10 gives ~2 units of progress per unit
	attrs := staff.Attributes{Speed: 10, Accuracy: 10, Charisma: 5, Maintenance: 5, Stamina: 10, Loyalty: 5}
	w := onDutyWorker(attrs, nil)
	order := newOrder(t, "task-1", 10)
	require.NoError(t, w.Assign(order))
	assert.Equal(t, staff.StatePerformingTask, w.State())

	// Act
	var completion *staff.Completion
	steps := 0
	for completion == nil && steps < 20 {
		completion = w.Update(1)
		steps++
	}

	// Assert
	require.NotNil(t, completion)
	assert.Equal(t, "task-1", completion.TaskID)
	assert.Equal(t, 1.0, completion.Quality)
	assert.Equal(t, workorder.DefaultExperienceReward, completion.ExperienceGained)
	assert.Equal(t, 6, steps)
	assert.Equal(t, staff.StateIdle, w.State())
	assert.Equal(t, "", w.CurrentTaskID())
	assert.Zero(t, w.Progress())
}

func TestWorker_ProgressIsMonotonicWhilePerforming(t *testing.T) {
	w := onDutyWorker(staff.DefaultAttributes(), nil)
	require.NoError(t, w.Assign(newOrder(t, "task-1", 1000)))

	last := w.Progress()
	for i := 0; i < 50; i++ {
		w.Update(1)
		require.GreaterOrEqual(t, w.Progress(), last)
		last = w.Progress()
	}
	assert.Greater(t, last, 0.0)
}

func TestWorker_EfficiencyScalesProgressOnly(t *testing.T) {
	attrs := staff.Attributes{Speed: 10, Accuracy: 10, Charisma: 5, Maintenance: 5, Stamina: 10, Loyalty: 5}
	tests := []struct {
		name       string
		efficiency float64
		progress   float64
	}{
		{"full speed", 1, 1.9990},
		{"half speed", 0.5, 0.9995},
		{"stalled below zero", -0.5, 0},
		{"capped above one", 3, 1.9990},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := onDutyWorker(attrs, nil)
			require.NoError(t, w.Assign(newOrder(t, "task-1", 100)))

			w.UpdateWithEfficiency(1, tt.efficiency)

			assert.InDelta(t, tt.progress, w.Progress(), 1e-9)
			assert.InDelta(t, 0.1, w.Fatigue(), 1e-9)
		})
	}
}

func TestWorker_QualityRoll(t *testing.T) {
	attrs := staff.Attributes{Speed: 10, Accuracy: 5, Charisma: 5, Maintenance: 5, Stamina: 10, Loyalty: 5}

	t.Run("error draw degrades quality", func(t *testing.T) {
		// error chance is 0.10; first draw 0.05 hits, second draw 0.5 picks the middle of [0.1,0.3)
		w := onDutyWorker(attrs, &scriptedRandom{floats: []float64{0.05, 0.5}})
		require.NoError(t, w.Assign(newOrder(t, "task-1", 0.5)))

		completion := w.Update(1)

		require.NotNil(t, completion)
		assert.InDelta(t, 0.8, completion.Quality, 1e-9)
	})

	t.Run("clean draw keeps full quality", func(t *testing.T) {
		w := onDutyWorker(attrs, &scriptedRandom{floats: []float64{0.5}})
		require.NoError(t, w.Assign(newOrder(t, "task-1", 0.5)))

		completion := w.Update(1)

		require.NotNil(t, completion)
		assert.Equal(t, 1.0, completion.Quality)
	})
}

func TestWorker_LevelsUpAcrossSeveralThresholds(t *testing.T) {
	attrs := staff.Attributes{Speed: 10, Accuracy: 10, Charisma: 5, Maintenance: 5, Stamina: 10, Loyalty: 5}
	w := onDutyWorker(attrs, nil)
	order := newOrder(t, "task-1", 0.5)
	order.SetRewards(320, 0)
	require.NoError(t, w.Assign(order))

	completion := w.Update(1)

	require.NotNil(t, completion)
	assert.True(t, completion.LeveledUp())
	assert.Equal(t, 1, completion.PreviousLevel)
	assert.Equal(t, 4, completion.NewLevel)
	assert.Equal(t, 320, w.Experience())
}

func TestRequiredExperienceForLevel(t *testing.T) {
	cases := map[int]int{1: 0, 2: 50, 3: 150, 4: 300, 5: 500, 6: 700, 8: 1100}
	for level, xp := range cases {
		assert.Equal(t, xp, staff.RequiredExperienceForLevel(level), "level %d", level)
	}
	assert.Equal(t, 3, staff.LevelForExperience(299))
	assert.Equal(t, 4, staff.LevelForExperience(300))
}

func TestWorker_AssignmentRejections(t *testing.T) {
	cashierOrder := func(id string) *workorder.WorkOrder {
		o := newOrder(t, id, 10)
		o.SetRequiredRoles(shared.RoleCashier)
		return o
	}

	t.Run("off duty", func(t *testing.T) {
		w := staff.NewWorker("w-1", "A", shared.RoleStocker, staff.DefaultAttributes(), nil)
		var rejected *staff.ErrAssignmentRejected
		require.ErrorAs(t, w.Assign(newOrder(t, "t", 10)), &rejected)
		assert.Equal(t, "off duty", rejected.Reason)
	})

	t.Run("wrong role", func(t *testing.T) {
		w := onDutyWorker(staff.DefaultAttributes(), nil)
		require.Error(t, w.Assign(cashierOrder("t")))
		assert.Equal(t, staff.StateIdle, w.State())
	})

	t.Run("missing skill", func(t *testing.T) {
		w := onDutyWorker(staff.DefaultAttributes(), nil)
		o := newOrder(t, "t", 10)
		o.SetRequiredSkills("forklift")
		require.Error(t, w.Assign(o))

		w.LearnSkill("forklift")
		require.NoError(t, w.Assign(o))
	})

	t.Run("already holding a task", func(t *testing.T) {
		w := onDutyWorker(staff.DefaultAttributes(), nil)
		require.NoError(t, w.Assign(newOrder(t, "first", 10)))
		require.Error(t, w.Assign(newOrder(t, "second", 10)))
		assert.Equal(t, "first", w.CurrentTaskID())
	})

	t.Run("on break", func(t *testing.T) {
		w := onDutyWorker(staff.DefaultAttributes(), nil)
		require.NoError(t, w.TakeBreak(0))
		require.Error(t, w.Assign(newOrder(t, "t", 10)))
	})
}

func TestWorker_EndShiftReleasesHeldTask(t *testing.T) {
	w := onDutyWorker(staff.DefaultAttributes(), nil)
	require.NoError(t, w.Assign(newOrder(t, "task-7", 100)))
	w.Update(3)

	released := w.EndShift()

	assert.Equal(t, "task-7", released)
	assert.Equal(t, staff.StateLeaving, w.State())
	assert.False(t, w.IsOnDuty())
	assert.Zero(t, w.Progress())
	assert.Nil(t, w.Update(5), "off-duty workers do not update")
}

func TestWorker_BreakRecoversFatigueWithoutProgress(t *testing.T) {
	attrs := staff.DefaultAttributes()
	attrs.Stamina = 1
	w := onDutyWorker(attrs, nil)
	require.NoError(t, w.Assign(newOrder(t, "task-1", 1000)))
	w.Update(10) // fatigue 10, some progress
	progress := w.Progress()

	require.NoError(t, w.TakeBreak(2))
	w.Update(1)

	assert.Equal(t, staff.StateOnBreak, w.State())
	assert.Equal(t, progress, w.Progress())
	assert.InDelta(t, 10.0+1.0-5.0, w.Fatigue(), 1e-9)

	w.Update(1)
	assert.Equal(t, staff.StatePerformingTask, w.State(), "break auto-resumes the held task")
}

func TestWorker_TravelsToTaskLocation(t *testing.T) {
	w := onDutyWorker(staff.DefaultAttributes(), nil)
	order := newOrder(t, "task-1", 10)
	order.SetLocation(shared.NewLocation(3, 4))
	require.NoError(t, w.Assign(order))
	assert.Equal(t, staff.StateMovingToTask, w.State())

	w.Update(1)
	assert.Equal(t, staff.StateMovingToTask, w.State())
	assert.InDelta(t, 3.0, w.Position().DistanceTo(shared.NewLocation(3, 4)), 1e-9)

	w.Update(2)
	assert.Equal(t, staff.StatePerformingTask, w.State())
	assert.Zero(t, w.Progress(), "travel accrues no progress")
}

func TestWorker_SnapshotRoundTrip(t *testing.T) {
	w := onDutyWorker(staff.DefaultAttributes(), nil)
	w.LearnSkill("barista")
	require.NoError(t, w.Assign(newOrder(t, "task-1", 100)))
	w.Update(4)

	restored := staff.ReconstructWorker(w.Snapshot(), nil)

	assert.Equal(t, w.Snapshot(), restored.Snapshot())
	assert.Equal(t, "task-1", restored.CurrentTaskID())
}

func TestTemplate_GenerateIsDeterministic(t *testing.T) {
	tpl := staff.NewTemplate("stocker", "Night Stocker", shared.RoleStocker)
	tpl.StartingSkills = []string{"pallet_jack"}
	tpl.BaseWage = 14

	a := tpl.Generate("w-1", shared.NewSeededRandom(42))
	b := tpl.Generate("w-1", shared.NewSeededRandom(42))

	assert.Equal(t, a.Snapshot(), b.Snapshot())
	assert.Equal(t, 14.0, a.HourlyWage())
	assert.True(t, a.HasSkill("pallet_jack"))
	attrs := a.Attributes()
	for _, v := range []int{attrs.Speed, attrs.Accuracy, attrs.Charisma, attrs.Maintenance, attrs.Stamina, attrs.Loyalty} {
		assert.GreaterOrEqual(t, v, 3)
		assert.LessOrEqual(t, v, 8)
	}
}
