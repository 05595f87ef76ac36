package business

import (
	"sync"

	"github.com/andrescamacho/bizsim-go/internal/domain/reputation"
	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
	"github.com/andrescamacho/bizsim-go/internal/domain/staff"
)

// Directory owns every business ledger and the shared worker pool, and
// drives the day boundary across all of them.
type Directory struct {
	mu       sync.RWMutex
	ledgers  []*reputation.Ledger
	byID     map[string]*reputation.Ledger
	activeID string

	workers    []*staff.Worker
	workerByID map[string]*staff.Worker

	tiers  reputation.TierTables
	newID  shared.IDGenerator
	bus    *shared.EventBus
	logger shared.Logger
}

// NewDirectory creates an empty directory. Nil tier tables fall back to the
// built-in tables.
func NewDirectory(tiers reputation.TierTables, newID shared.IDGenerator, bus *shared.EventBus, logger shared.Logger) *Directory {
	if tiers == nil {
		tiers = reputation.DefaultTierTables()
	}
	if newID == nil {
		newID = shared.NewUUID
	}
	return &Directory{
		byID:       make(map[string]*reputation.Ledger),
		workerByID: make(map[string]*staff.Worker),
		tiers:      tiers,
		newID:      newID,
		bus:        bus,
		logger:     shared.LoggerOrNop(logger),
	}
}

// TierTables returns the progression tables in use
func (d *Directory) TierTables() reputation.TierTables {
	return d.tiers
}

// CreateBusiness opens a tier 1 business whose first day is day. The first
// business created becomes the active one.
func (d *Directory) CreateBusiness(businessType shared.BusinessType, name string, day int) (*reputation.Ledger, error) {
	if !businessType.IsValid() {
		return nil, shared.NewValidationError("business_type", "unknown business type "+string(businessType))
	}
	if name == "" {
		return nil, shared.NewValidationError("name", "business name is required")
	}

	ledger := reputation.NewLedger(d.newID(), name, businessType, day, d.logger)

	d.mu.Lock()
	d.ledgers = append(d.ledgers, ledger)
	d.byID[ledger.ID()] = ledger
	if d.activeID == "" {
		d.activeID = ledger.ID()
	}
	d.mu.Unlock()

	d.logger.Log(shared.LevelInfo, "[Directory] Business created", map[string]interface{}{
		"business_id":   ledger.ID(),
		"name":          name,
		"business_type": string(businessType),
	})
	d.bus.Publish(BusinessCreated{BusinessID: ledger.ID(), Name: name, BusinessType: businessType})
	return ledger, nil
}

// Business returns the ledger for id
func (d *Directory) Business(id string) (*reputation.Ledger, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ledger, ok := d.byID[id]
	if !ok {
		return nil, shared.NewNotFoundError("business", id)
	}
	return ledger, nil
}

// Businesses returns every ledger in creation order
func (d *Directory) Businesses() []*reputation.Ledger {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]*reputation.Ledger(nil), d.ledgers...)
}

func (d *Directory) BusinessesByType(businessType shared.BusinessType) []*reputation.Ledger {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var result []*reputation.Ledger
	for _, l := range d.ledgers {
		if l.BusinessType() == businessType {
			result = append(result, l)
		}
	}
	return result
}

func (d *Directory) SetActiveBusiness(id string) error {
	d.mu.Lock()
	if _, ok := d.byID[id]; !ok {
		d.mu.Unlock()
		return d.warn("[Directory] Unknown business", shared.NewNotFoundError("business", id))
	}
	d.activeID = id
	d.mu.Unlock()

	d.bus.Publish(BusinessSelected{BusinessID: id})
	return nil
}

// ActiveBusiness returns the selected ledger, or nil when none exists
func (d *Directory) ActiveBusiness() *reputation.Ledger {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.byID[d.activeID]
}

// Money

func (d *Directory) RecordSale(businessID string, amount float64) error {
	ledger, err := d.Business(businessID)
	if err != nil {
		return d.warn("[Directory] Sale for unknown business", err)
	}
	return ledger.RecordSale(amount)
}

func (d *Directory) RecordExpense(businessID string, amount float64, description string) error {
	ledger, err := d.Business(businessID)
	if err != nil {
		return d.warn("[Directory] Expense for unknown business", err)
	}
	if err := ledger.RecordExpense(amount); err != nil {
		return err
	}
	d.logger.Log(shared.LevelDebug, "[Directory] Expense recorded", map[string]interface{}{
		"business_id": businessID,
		"amount":      amount,
		"description": description,
	})
	return nil
}

// RecordIncidentOnOpen counts an incident against every open business
func (d *Directory) RecordIncidentOnOpen(reason string) int {
	count := 0
	for _, l := range d.Businesses() {
		if l.IsOpen() {
			l.RecordIncident()
			count++
		}
	}
	if count > 0 {
		d.logger.Log(shared.LevelWarning, "[Directory] Incident recorded on open businesses", map[string]interface{}{
			"reason":     reason,
			"businesses": count,
		})
	}
	return count
}

// Progression

// UpgradeBusiness raises a business one tier for the given price
func (d *Directory) UpgradeBusiness(businessID string, requiredBP int, requiredCash float64) error {
	ledger, err := d.Business(businessID)
	if err != nil {
		return d.warn("[Directory] Upgrade of unknown business", err)
	}
	if err := ledger.UpgradeTier(requiredBP, requiredCash); err != nil {
		return err
	}
	d.bus.Publish(BusinessUpgraded{BusinessID: businessID, Tier: ledger.Tier()})
	return nil
}

// UpgradeToNextTier raises a business one tier at the price its table sets
func (d *Directory) UpgradeToNextTier(businessID string) (reputation.TierConfig, error) {
	ledger, err := d.Business(businessID)
	if err != nil {
		return reputation.TierConfig{}, d.warn("[Directory] Upgrade of unknown business", err)
	}
	row, err := ledger.UpgradeToNextTier(d.tiers.For(ledger.BusinessType()))
	if err != nil {
		return reputation.TierConfig{}, err
	}
	d.bus.Publish(BusinessUpgraded{BusinessID: businessID, Tier: row.Tier, TierName: row.Name})
	return row, nil
}

func (d *Directory) TotalBusinessPoints() int {
	total := 0
	for _, l := range d.Businesses() {
		total += l.BusinessPoints()
	}
	return total
}

// Staff

// HireWorker adds a worker to the pool, employed by businessID
func (d *Directory) HireWorker(worker *staff.Worker, businessID string) error {
	if worker == nil {
		return shared.NewValidationError("worker", "worker is required")
	}
	if _, err := d.Business(businessID); err != nil {
		return d.warn("[Directory] Hire for unknown business", err)
	}

	d.mu.Lock()
	if _, exists := d.workerByID[worker.ID()]; exists {
		d.mu.Unlock()
		return d.warn("[Directory] Worker already hired", shared.NewDomainError("worker "+worker.ID()+" already in the pool"))
	}
	worker.SetBusinessID(businessID)
	d.workers = append(d.workers, worker)
	d.workerByID[worker.ID()] = worker
	d.mu.Unlock()

	d.logger.Log(shared.LevelInfo, "[Directory] Worker hired", map[string]interface{}{
		"worker_id":   worker.ID(),
		"name":        worker.Name(),
		"role":        string(worker.Role()),
		"business_id": businessID,
	})
	d.bus.Publish(WorkerHired{WorkerID: worker.ID(), BusinessID: businessID, Role: worker.Role()})
	return nil
}

func (d *Directory) Worker(id string) (*staff.Worker, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	w, ok := d.workerByID[id]
	if !ok {
		return nil, shared.NewNotFoundError("worker", id)
	}
	return w, nil
}

// Workers returns the pool in hiring order
func (d *Directory) Workers() []*staff.Worker {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]*staff.Worker(nil), d.workers...)
}

// Roster returns worker snapshots in hiring order
func (d *Directory) Roster() []staff.Snapshot {
	workers := d.Workers()
	roster := make([]staff.Snapshot, len(workers))
	for i, w := range workers {
		roster[i] = w.Snapshot()
	}
	return roster
}

// WorkersForBusinessType returns workers whose role belongs to the type
func (d *Directory) WorkersForBusinessType(businessType shared.BusinessType) []*staff.Worker {
	var result []*staff.Worker
	for _, w := range d.Workers() {
		if w.Role().BusinessType() == businessType {
			result = append(result, w)
		}
	}
	return result
}

// OnDutyWorkers returns on-duty workers of businessID, or of every business
// when businessID is empty
func (d *Directory) OnDutyWorkers(businessID string) []*staff.Worker {
	var result []*staff.Worker
	for _, w := range d.Workers() {
		if !w.IsOnDuty() {
			continue
		}
		if businessID != "" && w.BusinessID() != businessID {
			continue
		}
		result = append(result, w)
	}
	return result
}

// Day boundary

// EndDay closes closedDay on every ledger in creation order, publishing
// DayEnded for each and DayRolledOver once all are done
func (d *Directory) EndDay(closedDay int) []reputation.DayReport {
	ledgers := d.Businesses()
	reports := make([]reputation.DayReport, 0, len(ledgers))
	for _, l := range ledgers {
		report := l.EndDay(closedDay + 1)
		reports = append(reports, report)
		d.logger.Log(shared.LevelInfo, "[Directory] Day ended", map[string]interface{}{
			"business_id": l.ID(),
			"day":         report.Stats.Day,
			"profit":      report.Stats.Profit(),
			"incidents":   report.Stats.Incidents,
		})
		d.bus.Publish(DayEnded{Report: report})
	}
	d.bus.Publish(DayRolledOver{ClosedDay: closedDay, NewDay: closedDay + 1})
	return reports
}

// Summary builds the dashboard view of a business
func (d *Directory) Summary(businessID string) (Summary, error) {
	ledger, err := d.Business(businessID)
	if err != nil {
		return Summary{}, err
	}
	snap := ledger.Snapshot()
	s := Summary{
		BusinessID:            snap.ID,
		Name:                  snap.Name,
		BusinessType:          snap.BusinessType,
		Tier:                  snap.Tier,
		Reputation:            snap.Reputation,
		BusinessPoints:        snap.BusinessPoints,
		Cash:                  snap.Cash,
		TodayRevenue:          snap.Today.Revenue,
		TodayExpenses:         snap.Today.Expenses,
		TodayProfit:           snap.Today.Profit(),
		CustomersServed:       snap.Today.CustomersServed,
		TasksCompleted:        snap.Today.TasksCompleted,
		Incidents:             snap.Today.Incidents,
		IsOpen:                snap.Open,
		CurrentCustomers:      snap.CurrentCustomers,
		MaxCustomers:          snap.MaxCustomers,
		FootTrafficMultiplier: reputation.FootTrafficMultiplier(snap.Reputation),
		PriceMarkup:           reputation.PriceMarkup(snap.Reputation),
	}
	for _, w := range d.Workers() {
		if w.BusinessID() != businessID {
			continue
		}
		s.StaffCount++
		if w.IsOnDuty() {
			s.OnDutyCount++
		}
	}
	return s, nil
}

func (d *Directory) warn(message string, err error) error {
	d.logger.Log(shared.LevelWarning, message, map[string]interface{}{
		"error": err.Error(),
	})
	return err
}

// Snapshot is the persisted directory state
type Snapshot struct {
	Businesses       []reputation.Snapshot `json:"businesses"`
	ActiveBusinessID string                `json:"active_business_id,omitempty"`
	Workers          []staff.Snapshot      `json:"workers"`
}

func (d *Directory) Snapshot() Snapshot {
	d.mu.RLock()
	ledgers := append([]*reputation.Ledger(nil), d.ledgers...)
	active := d.activeID
	d.mu.RUnlock()

	s := Snapshot{
		Businesses:       make([]reputation.Snapshot, len(ledgers)),
		ActiveBusinessID: active,
		Workers:          d.Roster(),
	}
	for i, l := range ledgers {
		s.Businesses[i] = l.Snapshot()
	}
	return s
}

// Restore replaces every ledger and worker without publishing. Restored
// workers draw from random.
func (d *Directory) Restore(s Snapshot, random shared.Random) {
	ledgers := make([]*reputation.Ledger, 0, len(s.Businesses))
	byID := make(map[string]*reputation.Ledger, len(s.Businesses))
	for _, bs := range s.Businesses {
		l := reputation.ReconstructLedger(bs, d.logger)
		ledgers = append(ledgers, l)
		byID[l.ID()] = l
	}
	workers := make([]*staff.Worker, 0, len(s.Workers))
	workerByID := make(map[string]*staff.Worker, len(s.Workers))
	for _, ws := range s.Workers {
		w := staff.ReconstructWorker(ws, random)
		workers = append(workers, w)
		workerByID[w.ID()] = w
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.ledgers = ledgers
	d.byID = byID
	d.workers = workers
	d.workerByID = workerByID
	d.activeID = s.ActiveBusinessID
	if _, ok := byID[d.activeID]; !ok {
		d.activeID = ""
		if len(ledgers) > 0 {
			d.activeID = ledgers[0].ID()
		}
	}
}
