package business

import (
	"github.com/andrescamacho/bizsim-go/internal/domain/reputation"
	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
)

const (
	EventBusinessCreated  = "business.created"
	EventBusinessSelected = "business.selected"
	EventBusinessUpgraded = "business.upgraded"
	EventWorkerHired      = "business.worker_hired"
	EventDayEnded         = "business.day_ended"
	EventDayRolledOver    = "business.day_rolled_over"
)

type BusinessCreated struct {
	BusinessID   string
	Name         string
	BusinessType shared.BusinessType
}

type BusinessSelected struct {
	BusinessID string
}

type BusinessUpgraded struct {
	BusinessID string
	Tier       int
	TierName   string
}

type WorkerHired struct {
	WorkerID   string
	BusinessID string
	Role       shared.StaffRole
}

// DayEnded is published once per ledger when a day closes
type DayEnded struct {
	Report reputation.DayReport
}

// DayRolledOver is published after every ledger has closed the day
type DayRolledOver struct {
	ClosedDay int
	NewDay    int
}

func (BusinessCreated) EventName() string  { return EventBusinessCreated }
func (BusinessSelected) EventName() string { return EventBusinessSelected }
func (BusinessUpgraded) EventName() string { return EventBusinessUpgraded }
func (WorkerHired) EventName() string      { return EventWorkerHired }
func (DayEnded) EventName() string         { return EventDayEnded }
func (DayRolledOver) EventName() string    { return EventDayRolledOver }
