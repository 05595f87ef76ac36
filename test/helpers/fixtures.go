package helpers

import (
	"testing"

	"github.com/andrescamacho/bizsim-go/internal/application/simulation"
	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
	"github.com/andrescamacho/bizsim-go/internal/domain/staff"
)

// FixedRandom returns the same draw every time. Intn always picks 0.
type FixedRandom struct {
	Value float64
}

func (r FixedRandom) Float64() float64 { return r.Value }
func (r FixedRandom) Intn(int) int     { return 0 }

// QuietConfig starts at the given hour with customers, auto breaks and
// routines out of the way, so a test only sees what it sets up
func QuietConfig(startHour int) simulation.Config {
	cfg := simulation.DefaultConfig()
	cfg.StartHour = startHour
	cfg.BaseCustomersPerHour = 0
	cfg.AutoBreakFatigue = 0
	cfg.RoutineHour = 3
	return cfg
}

// NewTestSimulation builds a deterministic simulation with sequential ids
// ("id-1", "id-2", ...) and the built-in tuning tables
func NewTestSimulation(t *testing.T, cfg simulation.Config, random shared.Random) *simulation.Simulation {
	t.Helper()
	if random == nil {
		random = FixedRandom{Value: 0.99}
	}
	return simulation.New(cfg, simulation.DefaultTuning(), nil,
		simulation.WithRandom(random),
		simulation.WithIDs(shared.SequentialIDs("id")),
	)
}

// SeedHypermarket creates a hypermarket with one on-duty stocker and returns
// the business id and worker id
func SeedHypermarket(t *testing.T, sim *simulation.Simulation, name string) (string, string) {
	t.Helper()
	ledger, err := sim.CreateBusiness(shared.BusinessHypermarket, name)
	if err != nil {
		t.Fatalf("failed to create business: %v", err)
	}
	worker, err := sim.HireWorker("stocker", ledger.ID(), staff.ShiftOnCall)
	if err != nil {
		t.Fatalf("failed to hire worker: %v", err)
	}
	if _, err := sim.ChangeShift(worker.ID, simulation.ShiftActionStart, 0); err != nil {
		t.Fatalf("failed to start shift: %v", err)
	}
	return ledger.ID(), worker.ID
}
