package reputation

import "fmt"

// ErrInsufficientResources is returned when a tier upgrade is not affordable
type ErrInsufficientResources struct {
	BusinessID    string
	RequiredBP    int
	AvailableBP   int
	RequiredCash  float64
	AvailableCash float64
}

func (e *ErrInsufficientResources) Error() string {
	return fmt.Sprintf("business %s cannot upgrade: needs %d BP and %.2f cash, has %d BP and %.2f cash",
		e.BusinessID, e.RequiredBP, e.RequiredCash, e.AvailableBP, e.AvailableCash)
}

// ErrMaxTier is returned when the tier table has no next row
type ErrMaxTier struct {
	BusinessID string
	Tier       int
}

func (e *ErrMaxTier) Error() string {
	return fmt.Sprintf("business %s is already at the highest tier (%d)", e.BusinessID, e.Tier)
}

// ErrInvalidAmount is returned for negative money or point amounts
type ErrInvalidAmount struct {
	Field  string
	Amount float64
}

func (e *ErrInvalidAmount) Error() string {
	return fmt.Sprintf("invalid %s amount: %.2f", e.Field, e.Amount)
}
