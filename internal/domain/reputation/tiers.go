package reputation

import (
	"sort"

	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
)

// TierConfig is one row of a business type's progression table
type TierConfig struct {
	Tier             int      `yaml:"tier" json:"tier"`
	Name             string   `yaml:"name" json:"name"`
	MaxStaff         int      `yaml:"max_staff" json:"max_staff"`
	MaxCustomers     int      `yaml:"max_customers" json:"max_customers"`
	RequiredBP       int      `yaml:"required_bp" json:"required_bp"`
	RequiredCash     float64  `yaml:"required_cash" json:"required_cash"`
	UnlockedFeatures []string `yaml:"unlocked_features" json:"unlocked_features,omitempty"`
}

// TierTable is a progression table ordered by tier
type TierTable []TierConfig

// Row returns the configuration for tier
func (t TierTable) Row(tier int) (TierConfig, bool) {
	for _, row := range t {
		if row.Tier == tier {
			return row, true
		}
	}
	return TierConfig{}, false
}

// Sorted returns a copy ordered by tier
func (t TierTable) Sorted() TierTable {
	out := append(TierTable(nil), t...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Tier < out[j].Tier })
	return out
}

// TierTables maps each business type to its progression table
type TierTables map[shared.BusinessType]TierTable

// For returns the table for a business type, falling back to the hypermarket table
func (t TierTables) For(bt shared.BusinessType) TierTable {
	if table, ok := t[bt]; ok && len(table) > 0 {
		return table
	}
	return t[shared.BusinessHypermarket]
}

// DefaultTierTables are the built-in progression tables of the five verticals.
// MaxCustomers holds the daily customer, cover, project or ride cap.
func DefaultTierTables() TierTables {
	return TierTables{
		shared.BusinessHypermarket: {
			{Tier: 1, Name: "Corner Store", MaxStaff: 0, MaxCustomers: 30},
			{Tier: 2, Name: "Neighborhood Market", MaxStaff: 2, MaxCustomers: 75, RequiredBP: 100, RequiredCash: 5000},
			{Tier: 3, Name: "Community Supermarket", MaxStaff: 6, MaxCustomers: 200, RequiredBP: 250, RequiredCash: 15000},
			{Tier: 4, Name: "District Hypermarket", MaxStaff: 15, MaxCustomers: 500, RequiredBP: 500, RequiredCash: 50000},
			{Tier: 5, Name: "Regional Megamart", MaxStaff: 40, MaxCustomers: 1500, RequiredBP: 1000, RequiredCash: 150000},
		},
		shared.BusinessRetailFashion: {
			{Tier: 1, Name: "Boutique Corner", MaxStaff: 0, MaxCustomers: 20},
			{Tier: 2, Name: "Fashion Boutique", MaxStaff: 2, MaxCustomers: 50, RequiredBP: 75, RequiredCash: 4000},
			{Tier: 3, Name: "Style Studio", MaxStaff: 5, MaxCustomers: 120, RequiredBP: 200, RequiredCash: 12000},
			{Tier: 4, Name: "Fashion House", MaxStaff: 12, MaxCustomers: 300, RequiredBP: 400, RequiredCash: 35000},
			{Tier: 5, Name: "Fashion Empire", MaxStaff: 30, MaxCustomers: 750, RequiredBP: 800, RequiredCash: 100000},
		},
		shared.BusinessRestaurant: {
			{Tier: 1, Name: "Food Cart", MaxStaff: 0, MaxCustomers: 30},
			{Tier: 2, Name: "Diner", MaxStaff: 3, MaxCustomers: 80, RequiredBP: 100, RequiredCash: 6000},
			{Tier: 3, Name: "Family Restaurant", MaxStaff: 8, MaxCustomers: 200, RequiredBP: 250, RequiredCash: 20000},
			{Tier: 4, Name: "Fine Dining", MaxStaff: 20, MaxCustomers: 150, RequiredBP: 500, RequiredCash: 60000},
			{Tier: 5, Name: "Restaurant Group", MaxStaff: 50, MaxCustomers: 400, RequiredBP: 1000, RequiredCash: 200000},
		},
		shared.BusinessConstruction: {
			{Tier: 1, Name: "Handyman", MaxStaff: 0, MaxCustomers: 1, UnlockedFeatures: []string{"repair"}},
			{Tier: 2, Name: "Small Contractor", MaxStaff: 2, MaxCustomers: 2, RequiredBP: 100, RequiredCash: 5000,
				UnlockedFeatures: []string{"repair", "minor_renovation"}},
			{Tier: 3, Name: "General Contractor", MaxStaff: 8, MaxCustomers: 4, RequiredBP: 300, RequiredCash: 25000,
				UnlockedFeatures: []string{"repair", "minor_renovation", "room_remodel"}},
			{Tier: 4, Name: "Construction Company", MaxStaff: 25, MaxCustomers: 8, RequiredBP: 600, RequiredCash: 75000,
				UnlockedFeatures: []string{"repair", "minor_renovation", "room_remodel", "whole_home"}},
			{Tier: 5, Name: "Development Firm", MaxStaff: 100, MaxCustomers: 15, RequiredBP: 1200, RequiredCash: 250000,
				UnlockedFeatures: []string{"all"}},
		},
		shared.BusinessTaxiCompany: {
			{Tier: 1, Name: "Solo Driver", MaxStaff: 0, MaxCustomers: 20, UnlockedFeatures: []string{"basic_navigation"}},
			{Tier: 2, Name: "Premium Driver", MaxStaff: 0, MaxCustomers: 30, RequiredBP: 75, RequiredCash: 3000,
				UnlockedFeatures: []string{"premium_rides", "better_gps"}},
			{Tier: 3, Name: "Small Fleet", MaxStaff: 2, MaxCustomers: 80, RequiredBP: 200, RequiredCash: 15000,
				UnlockedFeatures: []string{"dispatch_system", "city_wide"}},
			{Tier: 4, Name: "Taxi Company", MaxStaff: 9, MaxCustomers: 200, RequiredBP: 400, RequiredCash: 50000,
				UnlockedFeatures: []string{"corporate_accounts", "airport_contract"}},
			{Tier: 5, Name: "Transportation Empire", MaxStaff: 29, MaxCustomers: 500, RequiredBP: 800, RequiredCash: 150000,
				UnlockedFeatures: []string{"luxury_vehicles", "private_contracts", "regional"}},
		},
	}
}
