package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/bizsim-go/internal/application/common"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation"
	"github.com/andrescamacho/bizsim-go/internal/domain/operations"
)

// TriggerEventCommand starts an operational event immediately
type TriggerEventCommand struct {
	Type   string
	Target string
}

type TriggerEventResponse struct {
	Event operations.Snapshot
}

// HandleEventActionCommand resolves an action on an active event, for
// example "repair" on a major breakdown
type HandleEventActionCommand struct {
	EventID string
	Action  string
}

type HandleEventActionResponse struct {
	Event operations.Snapshot
}

// ScheduleEventCommand queues an event to fire DaysFromNow days ahead
type ScheduleEventCommand struct {
	Type        string
	DaysFromNow int
	Target      string
}

type ScheduleEventResponse struct {
	Scheduled operations.ScheduledEvent
}

// EventHandler serves the three event commands
type EventHandler struct {
	sim *simulation.Simulation
}

func NewEventHandler(sim *simulation.Simulation) *EventHandler {
	return &EventHandler{sim: sim}
}

func (h *EventHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	switch cmd := request.(type) {
	case *TriggerEventCommand:
		eventType, err := operations.ParseEventType(cmd.Type)
		if err != nil {
			return nil, err
		}
		return &TriggerEventResponse{Event: h.sim.TriggerEvent(eventType, cmd.Target)}, nil

	case *HandleEventActionCommand:
		if err := h.sim.HandleEventAction(cmd.EventID, cmd.Action); err != nil {
			return nil, fmt.Errorf("event %s: %w", cmd.EventID, err)
		}
		evt, _ := h.sim.Engine().GetEvent(cmd.EventID)
		return &HandleEventActionResponse{Event: evt}, nil

	case *ScheduleEventCommand:
		eventType, err := operations.ParseEventType(cmd.Type)
		if err != nil {
			return nil, err
		}
		if cmd.DaysFromNow < 0 {
			return nil, fmt.Errorf("days_from_now must not be negative, got %d", cmd.DaysFromNow)
		}
		return &ScheduleEventResponse{Scheduled: h.sim.ScheduleEvent(eventType, cmd.DaysFromNow, cmd.Target)}, nil
	}
	return nil, fmt.Errorf("invalid request type: %s", common.RequestName(request))
}
