package mission

import "github.com/andrescamacho/bizsim-go/internal/domain/shared"

// DefaultCatalogue is the built-in mission chain
func DefaultCatalogue() []Definition {
	return []Definition{
		{
			ID:          "grand-opening",
			Title:       "Grand Opening",
			Description: "Get the doors open and the first customers through them",
			Objectives: []ObjectiveDefinition{
				{ID: "serve", Description: "Serve customers", Type: ObjectiveServeCustomers, Target: 50},
				{ID: "tasks", Description: "Complete work orders", Type: ObjectiveCompleteTask, Target: 5},
				{ID: "hire", Description: "Hire a second worker", Type: ObjectiveHireStaff, Target: 2, Optional: true},
			},
			Rewards: Rewards{Money: 500, BusinessPoints: 20},
		},
		{
			ID:             "steady-hands",
			Title:          "Steady Hands",
			Description:    "Keep the reputation up for three days running",
			Prerequisites:  []string{"grand-opening"},
			TimeLimitHours: 24 * 7,
			Objectives: []ObjectiveDefinition{
				{ID: "rating", Description: "Close three days at 3.5 stars or better", Type: ObjectiveMaintainRating, Target: 3, Threshold: 3.5},
			},
			Rewards: Rewards{BusinessPoints: 30},
		},
		{
			ID:            "profit-push",
			Title:         "Profit Push",
			Description:   "Turn a real profit in a single day",
			Prerequisites: []string{"grand-opening"},
			Objectives: []ObjectiveDefinition{
				{ID: "profit", Description: "Make 1000 profit in one day", Type: ObjectiveReachProfit, Target: 1000},
			},
			Rewards: Rewards{Money: 1000, BusinessPoints: 50, UnlockedFeatures: []string{"bulk_ordering"}},
		},
		{
			ID:           "full-shelves",
			Title:        "Full Shelves",
			Description:  "Keep the hypermarket stocked",
			BusinessType: shared.BusinessHypermarket,
			Objectives: []ObjectiveDefinition{
				{ID: "restock", Description: "Receive purchase orders", Type: ObjectiveRestock, Target: 3},
			},
			Rewards: Rewards{BusinessPoints: 15},
		},
		{
			ID:           "full-house",
			Title:        "Full House",
			Description:  "Fill every table",
			BusinessType: shared.BusinessRestaurant,
			RequiredTier: 2,
			Objectives: []ObjectiveDefinition{
				{ID: "serve", Description: "Serve diners", Type: ObjectiveServeCustomers, Target: 200},
			},
			Rewards: Rewards{Money: 800, BusinessPoints: 40},
		},
	}
}
