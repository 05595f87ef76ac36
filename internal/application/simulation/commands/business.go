package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/bizsim-go/internal/application/common"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation"
	"github.com/andrescamacho/bizsim-go/internal/domain/business"
	"github.com/andrescamacho/bizsim-go/internal/domain/reputation"
	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
)

// CreateBusinessCommand opens a new tier 1 business
type CreateBusinessCommand struct {
	Type string
	Name string
}

// SelectBusinessCommand makes a business the active one
type SelectBusinessCommand struct {
	BusinessID string
}

// UpgradeTierCommand pays for the next tier of a business
type UpgradeTierCommand struct {
	BusinessID string
}

type BusinessResponse struct {
	Business business.Summary
}

type UpgradeTierResponse struct {
	Business business.Summary
	Tier     reputation.TierConfig
}

// BusinessHandler serves the business lifecycle commands
type BusinessHandler struct {
	sim *simulation.Simulation
}

func NewBusinessHandler(sim *simulation.Simulation) *BusinessHandler {
	return &BusinessHandler{sim: sim}
}

func (h *BusinessHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	switch cmd := request.(type) {
	case *CreateBusinessCommand:
		businessType, err := shared.ParseBusinessType(cmd.Type)
		if err != nil {
			return nil, err
		}
		ledger, err := h.sim.CreateBusiness(businessType, cmd.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to create business: %w", err)
		}
		return h.summary(ledger.ID())

	case *SelectBusinessCommand:
		if err := h.sim.Directory().SetActiveBusiness(cmd.BusinessID); err != nil {
			return nil, err
		}
		return h.summary(cmd.BusinessID)

	case *UpgradeTierCommand:
		businessID := cmd.BusinessID
		if businessID == "" {
			active := h.sim.Directory().ActiveBusiness()
			if active == nil {
				return nil, shared.NewDomainError("no active business to upgrade")
			}
			businessID = active.ID()
		}
		tier, err := h.sim.UpgradeTier(businessID)
		if err != nil {
			return nil, fmt.Errorf("upgrade of %s: %w", businessID, err)
		}
		summary, err := h.sim.Directory().Summary(businessID)
		if err != nil {
			return nil, err
		}
		return &UpgradeTierResponse{Business: summary, Tier: tier}, nil
	}
	return nil, fmt.Errorf("invalid request type: %s", common.RequestName(request))
}

func (h *BusinessHandler) summary(businessID string) (*BusinessResponse, error) {
	summary, err := h.sim.Directory().Summary(businessID)
	if err != nil {
		return nil, err
	}
	return &BusinessResponse{Business: summary}, nil
}
