package commands

import (
	"github.com/andrescamacho/bizsim-go/internal/application/common"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation"
)

// Register wires every simulation command into the mediator. A nil store
// leaves the snapshot commands unregistered.
func Register(m common.Mediator, sim *simulation.Simulation, store common.SnapshotStore) error {
	orders := NewWorkOrderOutcomeHandler(sim)
	events := NewEventHandler(sim)
	businesses := NewBusinessHandler(sim)
	missions := NewMissionHandler(sim)

	registrations := []func() error{
		func() error { return common.RegisterHandler[*AddWorkOrderCommand](m, NewAddWorkOrderHandler(sim)) },
		func() error { return common.RegisterHandler[*CompleteWorkOrderCommand](m, orders) },
		func() error { return common.RegisterHandler[*FailWorkOrderCommand](m, orders) },
		func() error { return common.RegisterHandler[*CancelWorkOrderCommand](m, orders) },
		func() error { return common.RegisterHandler[*AssignWorkOrderCommand](m, orders) },
		func() error { return common.RegisterHandler[*ChangeShiftCommand](m, NewChangeShiftHandler(sim)) },
		func() error { return common.RegisterHandler[*HireWorkerCommand](m, NewHireWorkerHandler(sim)) },
		func() error { return common.RegisterHandler[*TriggerEventCommand](m, events) },
		func() error { return common.RegisterHandler[*HandleEventActionCommand](m, events) },
		func() error { return common.RegisterHandler[*ScheduleEventCommand](m, events) },
		func() error { return common.RegisterHandler[*CreateBusinessCommand](m, businesses) },
		func() error { return common.RegisterHandler[*SelectBusinessCommand](m, businesses) },
		func() error { return common.RegisterHandler[*UpgradeTierCommand](m, businesses) },
		func() error { return common.RegisterHandler[*StartMissionCommand](m, missions) },
		func() error { return common.RegisterHandler[*ProgressMissionCommand](m, missions) },
		func() error { return common.RegisterHandler[*AbandonMissionCommand](m, missions) },
		func() error {
			return common.RegisterHandler[*PlacePurchaseOrderCommand](m, NewPlacePurchaseOrderHandler(sim))
		},
		func() error {
			return common.RegisterHandler[*AdvanceSimulationCommand](m, NewAdvanceSimulationHandler(sim))
		},
	}
	if store != nil {
		snapshots := NewSnapshotHandler(sim, store)
		registrations = append(registrations,
			func() error { return common.RegisterHandler[*SaveSnapshotCommand](m, snapshots) },
			func() error { return common.RegisterHandler[*LoadSnapshotCommand](m, snapshots) },
		)
	}

	for _, register := range registrations {
		if err := register(); err != nil {
			return err
		}
	}
	return nil
}
