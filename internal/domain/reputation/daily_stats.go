package reputation

// DailyStats are one business day's counters. Profit is always derived.
type DailyStats struct {
	Day             int     `json:"day"`
	Revenue         float64 `json:"revenue"`
	Expenses        float64 `json:"expenses"`
	CustomersServed int     `json:"customers_served"`
	TasksCompleted  int     `json:"tasks_completed"`
	Incidents       int     `json:"incidents"`
	QualityTotal    float64 `json:"quality_total"`
}

// NewDailyStats opens an empty day
func NewDailyStats(day int) DailyStats {
	return DailyStats{Day: day}
}

func (d DailyStats) Profit() float64 {
	return d.Revenue - d.Expenses
}

// AverageTaskQuality is the mean completion quality, 0 with no completions
func (d DailyStats) AverageTaskQuality() float64 {
	if d.TasksCompleted == 0 {
		return 0
	}
	return d.QualityTotal / float64(d.TasksCompleted)
}
