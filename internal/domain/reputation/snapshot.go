package reputation

import "github.com/andrescamacho/bizsim-go/internal/domain/shared"

// Snapshot is the persisted ledger state. Reputation is included for
// readers and recomputed on load.
type Snapshot struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	BusinessType     shared.BusinessType `json:"business_type"`
	Tier             int                 `json:"tier"`
	Scores           Scores              `json:"scores"`
	Reputation       float64             `json:"reputation"`
	BusinessPoints   int                 `json:"business_points"`
	Cash             float64             `json:"cash"`
	Today            DailyStats          `json:"today"`
	History          []DailyStats        `json:"history"`
	Open             bool                `json:"open"`
	CurrentCustomers int                 `json:"current_customers"`
	MaxCustomers     int                 `json:"max_customers"`
}

func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Snapshot{
		ID:               l.id,
		Name:             l.name,
		BusinessType:     l.businessType,
		Tier:             l.tier,
		Scores:           l.scores,
		Reputation:       l.scores.Weighted(),
		BusinessPoints:   l.businessPoints,
		Cash:             l.cash,
		Today:            l.today,
		History:          append([]DailyStats{}, l.history...),
		Open:             l.open,
		CurrentCustomers: l.currentCustomers,
		MaxCustomers:     l.maxCustomers,
	}
}

// ReconstructLedger rebuilds a ledger from persistence
func ReconstructLedger(s Snapshot, logger shared.Logger) *Ledger {
	history := append(make([]DailyStats, 0, len(s.History)), s.History...)
	if over := len(history) - StatsHistoryLimit; over > 0 {
		history = history[over:]
	}
	l := &Ledger{
		id:               s.ID,
		name:             s.Name,
		businessType:     s.BusinessType,
		tier:             s.Tier,
		scores:           s.Scores.Clamped(),
		businessPoints:   s.BusinessPoints,
		cash:             s.Cash,
		today:            s.Today,
		history:          history,
		open:             s.Open,
		currentCustomers: s.CurrentCustomers,
		maxCustomers:     s.MaxCustomers,
		logger:           shared.LoggerOrNop(logger),
	}
	if l.tier < 1 {
		l.tier = 1
	}
	if l.maxCustomers <= 0 {
		l.maxCustomers = DefaultMaxCustomers
	}
	return l
}

// Profit of the open day
func (s Snapshot) Profit() float64 {
	return s.Today.Profit()
}
