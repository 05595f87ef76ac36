package business

import "github.com/andrescamacho/bizsim-go/internal/domain/shared"

// Summary is the read-only dashboard view of one business
type Summary struct {
	BusinessID            string              `json:"business_id"`
	Name                  string              `json:"name"`
	BusinessType          shared.BusinessType `json:"business_type"`
	Tier                  int                 `json:"tier"`
	Reputation            float64             `json:"reputation"`
	BusinessPoints        int                 `json:"business_points"`
	Cash                  float64             `json:"cash"`
	TodayRevenue          float64             `json:"today_revenue"`
	TodayExpenses         float64             `json:"today_expenses"`
	TodayProfit           float64             `json:"today_profit"`
	CustomersServed       int                 `json:"customers_served"`
	TasksCompleted        int                 `json:"tasks_completed"`
	Incidents             int                 `json:"incidents"`
	IsOpen                bool                `json:"is_open"`
	CurrentCustomers      int                 `json:"current_customers"`
	MaxCustomers          int                 `json:"max_customers"`
	FootTrafficMultiplier float64             `json:"foot_traffic_multiplier"`
	PriceMarkup           float64             `json:"price_markup"`
	StaffCount            int                 `json:"staff_count"`
	OnDutyCount           int                 `json:"on_duty_count"`
}
