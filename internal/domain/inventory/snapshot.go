package inventory

import (
	"sort"

	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
)

// Snapshot is the persisted stock room
type Snapshot struct {
	BusinessID string          `json:"business_id"`
	Items      []Item          `json:"items"`
	OpenOrders []PurchaseOrder `json:"open_orders"`
	History    []PurchaseOrder `json:"history"`
}

func (inv *Inventory) Snapshot() Snapshot {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	items := make([]Item, 0, len(inv.items))
	for _, item := range inv.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
	return Snapshot{
		BusinessID: inv.businessID,
		Items:      items,
		OpenOrders: cloneOrders(inv.open),
		History:    cloneOrders(inv.history),
	}
}

// ReconstructInventory rebuilds a stock room from persistence
func ReconstructInventory(s Snapshot, config Config, clock shared.Clock, newID shared.IDGenerator, bus *shared.EventBus, logger shared.Logger) *Inventory {
	inv := NewInventory(s.BusinessID, config, clock, newID, bus, logger)
	for _, item := range s.Items {
		inv.items[item.ProductID] = item
	}
	inv.open = cloneOrders(s.OpenOrders)
	inv.history = cloneOrders(s.History)
	return inv
}
