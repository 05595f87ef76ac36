package reputation

import (
	"fmt"
	"sync"

	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
)

const (
	// StatsHistoryLimit is how many closed days a ledger keeps
	StatsHistoryLimit = 30

	DefaultMaxCustomers = 30

	// Daily milestones
	ProfitMilestoneHigh = 1000.0
	ProfitMilestoneLow  = 500.0
	ProfitBonusHigh     = 10
	ProfitBonusLow      = 5
	PerfectDayBonus     = 5
)

// Award is a business-point grant with its reason
type Award struct {
	Points int    `json:"points"`
	Reason string `json:"reason"`
}

// DayReport is what EndDay closed
type DayReport struct {
	BusinessID string     `json:"business_id"`
	Stats      DailyStats `json:"stats"`
	Awards     []Award    `json:"awards,omitempty"`
}

// Ledger is the reputation and money book of one business.
//
// Reputation is always the clamped weighted sum of the sub-scores. Profit is
// derived from the daily stats and never stored. Tier upgrades either apply
// completely or not at all.
type Ledger struct {
	mu sync.Mutex

	id           string
	name         string
	businessType shared.BusinessType

	tier           int
	scores         Scores
	businessPoints int
	cash           float64

	today   DailyStats
	history []DailyStats

	open             bool
	currentCustomers int
	maxCustomers     int

	logger shared.Logger
}

// NewLedger opens the books of a new tier 1 business on day
func NewLedger(id, name string, businessType shared.BusinessType, day int, logger shared.Logger) *Ledger {
	return &Ledger{
		id:           id,
		name:         name,
		businessType: businessType,
		tier:         1,
		scores:       DefaultScores(),
		today:        NewDailyStats(day),
		history:      make([]DailyStats, 0),
		maxCustomers: DefaultMaxCustomers,
		logger:       shared.LoggerOrNop(logger),
	}
}

func (l *Ledger) ID() string                        { return l.id }
func (l *Ledger) Name() string                      { return l.name }
func (l *Ledger) BusinessType() shared.BusinessType { return l.businessType }

func (l *Ledger) Tier() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tier
}

func (l *Ledger) BusinessPoints() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.businessPoints
}

func (l *Ledger) Cash() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cash
}

func (l *Ledger) IsOpen() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.open
}

func (l *Ledger) Today() DailyStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.today
}

// StatsHistory returns closed days, oldest first
func (l *Ledger) StatsHistory() []DailyStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]DailyStats(nil), l.history...)
}

func (l *Ledger) Scores() Scores {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.scores
}

// SetScores replaces the sub-scores; each is clamped to [0,5]
func (l *Ledger) SetScores(s Scores) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.scores = s.Clamped()
}

// CalculateReputation returns the weighted sub-score sum clamped to [0,5]
func (l *Ledger) CalculateReputation() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.scores.Weighted()
}

func (l *Ledger) FootTrafficMultiplier() float64 {
	return FootTrafficMultiplier(l.CalculateReputation())
}

func (l *Ledger) PriceMarkup() float64 {
	return PriceMarkup(l.CalculateReputation())
}

// Opening hours

func (l *Ledger) Open() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.open = true
}

func (l *Ledger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.open = false
	l.currentCustomers = 0
}

// AdmitCustomer lets a customer in while open and below capacity
func (l *Ledger) AdmitCustomer() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.open || l.currentCustomers >= l.maxCustomers {
		return false
	}
	l.currentCustomers++
	return true
}

func (l *Ledger) CustomerLeft() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.currentCustomers > 0 {
		l.currentCustomers--
	}
}

func (l *Ledger) Occupancy() (current, max int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.currentCustomers, l.maxCustomers
}

// Money and counters

// RecordSale books revenue and cash for one served customer
func (l *Ledger) RecordSale(amount float64) error {
	if amount < 0 {
		return l.reject(&ErrInvalidAmount{Field: "sale", Amount: amount})
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.today.Revenue += amount
	l.today.CustomersServed++
	l.cash += amount
	return nil
}

// RecordIncome books revenue that did not come from a customer
func (l *Ledger) RecordIncome(amount float64) error {
	if amount < 0 {
		return l.reject(&ErrInvalidAmount{Field: "income", Amount: amount})
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.today.Revenue += amount
	l.cash += amount
	return nil
}

// Fund adds starting capital. It is not revenue and does not count
// towards the day's profit.
func (l *Ledger) Fund(amount float64) error {
	if amount < 0 {
		return l.reject(&ErrInvalidAmount{Field: "funding", Amount: amount})
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cash += amount
	return nil
}

// RecordExpense books a cost; cash may go negative
func (l *Ledger) RecordExpense(amount float64) error {
	if amount < 0 {
		return l.reject(&ErrInvalidAmount{Field: "expense", Amount: amount})
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.today.Expenses += amount
	l.cash -= amount
	return nil
}

func (l *Ledger) RecordIncident() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.today.Incidents++
}

// RecordTaskCompleted counts a finished work order and its quality
func (l *Ledger) RecordTaskCompleted(quality float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.today.TasksCompleted++
	l.today.QualityTotal += clamp(quality, 0, 1)
}

// AwardBusinessPoints grants non-cash progression currency
func (l *Ledger) AwardBusinessPoints(amount int, reason string) error {
	if amount < 0 {
		return l.reject(&ErrInvalidAmount{Field: "business points", Amount: float64(amount)})
	}
	l.mu.Lock()
	l.businessPoints += amount
	total := l.businessPoints
	l.mu.Unlock()

	l.logger.Log(shared.LevelInfo, "[Ledger] Business points awarded", map[string]interface{}{
		"business_id": l.id,
		"points":      amount,
		"reason":      reason,
		"total":       total,
	})
	return nil
}

// EndDay closes the books: milestone bonuses, archive today's stats (keeping
// the last 30 days), open a fresh day numbered nextDay and close the business
func (l *Ledger) EndDay(nextDay int) DayReport {
	l.mu.Lock()
	closed := l.today
	awards := milestones(closed)
	for _, a := range awards {
		l.businessPoints += a.Points
	}

	l.history = append(l.history, closed)
	if over := len(l.history) - StatsHistoryLimit; over > 0 {
		l.history = append([]DailyStats(nil), l.history[over:]...)
	}
	l.today = NewDailyStats(nextDay)
	l.open = false
	l.currentCustomers = 0
	l.mu.Unlock()

	for _, a := range awards {
		l.logger.Log(shared.LevelInfo, "[Ledger] Business points awarded", map[string]interface{}{
			"business_id": l.id,
			"points":      a.Points,
			"reason":      a.Reason,
		})
	}
	return DayReport{BusinessID: l.id, Stats: closed, Awards: awards}
}

func milestones(stats DailyStats) []Award {
	var awards []Award
	profit := stats.Profit()
	switch {
	case profit >= ProfitMilestoneHigh:
		awards = append(awards, Award{Points: ProfitBonusHigh, Reason: "Daily profit $1,000+"})
	case profit >= ProfitMilestoneLow:
		awards = append(awards, Award{Points: ProfitBonusLow, Reason: "Daily profit $500+"})
	}
	if stats.Incidents == 0 {
		awards = append(awards, Award{Points: PerfectDayBonus, Reason: "Perfect day - no incidents"})
	}
	return awards
}

// Progression

// CanUpgradeTier reports whether both thresholds are met
func (l *Ledger) CanUpgradeTier(requiredBP int, requiredCash float64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.businessPoints >= requiredBP && l.cash >= requiredCash
}

// UpgradeTier spends the points and cash and raises the tier by one.
// Nothing changes unless both thresholds are met.
func (l *Ledger) UpgradeTier(requiredBP int, requiredCash float64) error {
	l.mu.Lock()
	err := l.upgradeLocked(requiredBP, requiredCash)
	tier := l.tier
	l.mu.Unlock()
	if err != nil {
		return l.reject(err)
	}
	l.logUpgrade(tier)
	return nil
}

// UpgradeToNextTier applies the next row of table, including its customer cap
func (l *Ledger) UpgradeToNextTier(table TierTable) (TierConfig, error) {
	l.mu.Lock()
	next, ok := table.Row(l.tier + 1)
	if !ok {
		err := &ErrMaxTier{BusinessID: l.id, Tier: l.tier}
		l.mu.Unlock()
		return TierConfig{}, l.reject(err)
	}
	if err := l.upgradeLocked(next.RequiredBP, next.RequiredCash); err != nil {
		l.mu.Unlock()
		return TierConfig{}, l.reject(err)
	}
	if next.MaxCustomers > 0 {
		l.maxCustomers = next.MaxCustomers
	}
	tier := l.tier
	l.mu.Unlock()

	l.logUpgrade(tier)
	return next, nil
}

func (l *Ledger) upgradeLocked(requiredBP int, requiredCash float64) error {
	if l.businessPoints < requiredBP || l.cash < requiredCash {
		return &ErrInsufficientResources{
			BusinessID:    l.id,
			RequiredBP:    requiredBP,
			AvailableBP:   l.businessPoints,
			RequiredCash:  requiredCash,
			AvailableCash: l.cash,
		}
	}
	l.businessPoints -= requiredBP
	l.cash -= requiredCash
	l.tier++
	return nil
}

func (l *Ledger) logUpgrade(tier int) {
	l.logger.Log(shared.LevelInfo, "[Ledger] Tier upgraded", map[string]interface{}{
		"business_id": l.id,
		"tier":        tier,
	})
}

func (l *Ledger) reject(err error) error {
	l.logger.Log(shared.LevelWarning, "[Ledger] Operation rejected", map[string]interface{}{
		"business_id": l.id,
		"error":       err.Error(),
	})
	return err
}

func (l *Ledger) String() string {
	return fmt.Sprintf("Ledger[%s, name=%s, type=%s, tier=%d]", l.id, l.name, l.businessType, l.Tier())
}
