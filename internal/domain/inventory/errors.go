package inventory

import "fmt"

// ErrInventoryFull is returned when a new product needs a slot and none is left
type ErrInventoryFull struct {
	BusinessID string
	Slots      int
}

func (e *ErrInventoryFull) Error() string {
	return fmt.Sprintf("inventory of business %s is full (%d product slots)", e.BusinessID, e.Slots)
}

// ErrInsufficientStock is returned when a removal exceeds the stocked quantity
type ErrInsufficientStock struct {
	ProductID string
	Requested int
	Available int
}

func (e *ErrInsufficientStock) Error() string {
	return fmt.Sprintf("insufficient stock of %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// ErrInsufficientFunds is returned when a purchase order cannot be paid
type ErrInsufficientFunds struct {
	BusinessID string
	Cost       float64
	Cash       float64
}

func (e *ErrInsufficientFunds) Error() string {
	return fmt.Sprintf("business %s cannot pay %.2f for a purchase order, has %.2f",
		e.BusinessID, e.Cost, e.Cash)
}

// ErrWarehouseFull is returned when an order would not fit on arrival
type ErrWarehouseFull struct {
	BusinessID string
	Required   float64
	Free       float64
}

func (e *ErrWarehouseFull) Error() string {
	return fmt.Sprintf("warehouse of business %s needs %.1f units of space, %.1f free",
		e.BusinessID, e.Required, e.Free)
}
