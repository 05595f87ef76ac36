package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/bizsim-go/internal/application/common"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation"
	"github.com/andrescamacho/bizsim-go/internal/domain/mission"
)

// StartMissionCommand has a business take on a mission; an empty
// BusinessID means the active business
type StartMissionCommand struct {
	MissionID  string
	BusinessID string
}

// ProgressMissionCommand reports progress the simulation cannot see, such
// as equipment bought or an event hosted
type ProgressMissionCommand struct {
	MissionID   string
	ObjectiveID string
	Amount      int
}

type AbandonMissionCommand struct {
	MissionID string
	Reason    string
}

type MissionResponse struct {
	Mission mission.Mission
}

// MissionHandler serves the mission lifecycle commands
type MissionHandler struct {
	sim *simulation.Simulation
}

func NewMissionHandler(sim *simulation.Simulation) *MissionHandler {
	return &MissionHandler{sim: sim}
}

func (h *MissionHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	var missionID string
	switch cmd := request.(type) {
	case *StartMissionCommand:
		businessID, err := resolveBusiness(h.sim, cmd.BusinessID)
		if err != nil {
			return nil, err
		}
		if err := h.sim.StartMission(cmd.MissionID, businessID); err != nil {
			return nil, err
		}
		missionID = cmd.MissionID

	case *ProgressMissionCommand:
		amount := cmd.Amount
		if amount == 0 {
			amount = 1
		}
		if err := h.sim.ProgressMission(cmd.MissionID, cmd.ObjectiveID, amount); err != nil {
			return nil, err
		}
		missionID = cmd.MissionID

	case *AbandonMissionCommand:
		if err := h.sim.AbandonMission(cmd.MissionID, cmd.Reason); err != nil {
			return nil, err
		}
		missionID = cmd.MissionID

	default:
		return nil, fmt.Errorf("invalid request type: %s", common.RequestName(request))
	}

	m, err := h.sim.Missions().Mission(missionID)
	if err != nil {
		return nil, err
	}
	return &MissionResponse{Mission: m}, nil
}
