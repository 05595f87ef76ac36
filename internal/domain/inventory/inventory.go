package inventory

import (
	"sort"
	"sync"
	"time"

	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
)

// Config bounds one business's stock room
type Config struct {
	MaxSlots          int     `mapstructure:"max_slots" validate:"min=1"`
	WarehouseCapacity float64 `mapstructure:"warehouse_capacity" validate:"gt=0"`
	DeliveryHours     int     `mapstructure:"delivery_hours" validate:"min=0"`
	DelayHours        int     `mapstructure:"delay_hours" validate:"min=1"`
	HistoryLimit      int     `mapstructure:"history_limit" validate:"min=1"`
}

// DefaultConfig returns the standard stock room bounds
func DefaultConfig() Config {
	return Config{
		MaxSlots:          100,
		WarehouseCapacity: 10000,
		DeliveryHours:     24,
		DelayHours:        24,
		HistoryLimit:      50,
	}
}

func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.MaxSlots <= 0 {
		c.MaxSlots = d.MaxSlots
	}
	if c.WarehouseCapacity <= 0 {
		c.WarehouseCapacity = d.WarehouseCapacity
	}
	if c.DeliveryHours < 0 {
		c.DeliveryHours = d.DeliveryHours
	}
	if c.DelayHours <= 0 {
		c.DelayHours = d.DelayHours
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = d.HistoryLimit
	}
	return c
}

// Payer settles purchase orders. The reputation ledger satisfies it.
type Payer interface {
	Cash() float64
	RecordExpense(amount float64) error
}

// Inventory is the stock room and supplier book of one business.
//
// Items stay listed at zero quantity once sold out so that auto-reorder
// keeps replenishing them. Open purchase orders are paid when placed and
// their goods count against warehouse capacity until delivered.
type Inventory struct {
	mu         sync.Mutex
	businessID string
	config     Config
	items      map[string]Item
	open       []PurchaseOrder
	history    []PurchaseOrder

	clock  shared.Clock
	newID  shared.IDGenerator
	bus    *shared.EventBus
	logger shared.Logger
}

func NewInventory(businessID string, config Config, clock shared.Clock, newID shared.IDGenerator, bus *shared.EventBus, logger shared.Logger) *Inventory {
	if newID == nil {
		newID = shared.NewUUID
	}
	return &Inventory{
		businessID: businessID,
		config:     config.normalized(),
		items:      make(map[string]Item),
		clock:      clock,
		newID:      newID,
		bus:        bus,
		logger:     shared.LoggerOrNop(logger),
	}
}

func (inv *Inventory) BusinessID() string { return inv.businessID }

// Stock

// AddItem stocks quantity of a product, merging into an existing line.
// A new product takes a slot.
func (inv *Inventory) AddItem(item Item) error {
	if item.ProductID == "" {
		return shared.NewValidationError("product_id", "must not be empty")
	}
	if item.Quantity < 0 {
		return shared.NewValidationError("quantity", "must not be negative")
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.addLocked(item, inv.clock.Now())
}

func (inv *Inventory) addLocked(item Item, now time.Time) error {
	existing, ok := inv.items[item.ProductID]
	if !ok {
		if len(inv.items) >= inv.config.MaxSlots {
			return &ErrInventoryFull{BusinessID: inv.businessID, Slots: inv.config.MaxSlots}
		}
		item = item.withDefaults()
		if item.Quantity > 0 {
			item.LastRestock = now
		}
		inv.items[item.ProductID] = item
		return nil
	}
	existing.Quantity += item.Quantity
	if item.Quantity > 0 {
		existing.LastRestock = now
	}
	inv.items[item.ProductID] = existing
	return nil
}

// RemoveItem takes quantity of a product off the shelves
func (inv *Inventory) RemoveItem(productID string, quantity int) error {
	if quantity <= 0 {
		return shared.NewValidationError("quantity", "must be positive")
	}

	inv.mu.Lock()
	item, ok := inv.items[productID]
	if !ok {
		inv.mu.Unlock()
		return shared.NewNotFoundError("product", productID)
	}
	if item.Quantity < quantity {
		inv.mu.Unlock()
		return &ErrInsufficientStock{ProductID: productID, Requested: quantity, Available: item.Quantity}
	}
	event := inv.takeLocked(item, quantity)
	inv.mu.Unlock()

	inv.bus.Publish(event)
	return nil
}

// TakeForSale removes one unit of the best stocked product. ok is false when
// every product is sold out.
func (inv *Inventory) TakeForSale() (Item, bool) {
	inv.mu.Lock()
	var best Item
	for _, item := range inv.items {
		if item.Quantity == 0 {
			continue
		}
		if best.ProductID == "" || item.Quantity > best.Quantity ||
			(item.Quantity == best.Quantity && item.ProductID < best.ProductID) {
			best = item
		}
	}
	if best.ProductID == "" {
		inv.mu.Unlock()
		return Item{}, false
	}
	event := inv.takeLocked(best, 1)
	sold := inv.items[best.ProductID]
	inv.mu.Unlock()

	inv.bus.Publish(event)
	return sold, true
}

// takeLocked returns a StockLow event when the removal crosses the reorder point
func (inv *Inventory) takeLocked(item Item, quantity int) shared.DomainEvent {
	wasLow := item.Low()
	item.Quantity -= quantity
	inv.items[item.ProductID] = item
	if wasLow || !item.Low() {
		return nil
	}
	inv.logger.Log(shared.LevelInfo, "Stock low", map[string]interface{}{
		"business_id": inv.businessID,
		"product_id":  item.ProductID,
		"quantity":    item.Quantity,
	})
	return StockLow{BusinessID: inv.businessID, Item: item}
}

// Readers

// Len is the number of product lines, sold-out ones included
func (inv *Inventory) Len() int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return len(inv.items)
}

func (inv *Inventory) StockLevel(productID string) int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.items[productID].Quantity
}

func (inv *Inventory) Item(productID string) (Item, bool) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	item, ok := inv.items[productID]
	return item, ok
}

// Items lists every product line ordered by product id
func (inv *Inventory) Items() []Item {
	return inv.filter(func(Item) bool { return true })
}

func (inv *Inventory) ItemsByCategory(category string) []Item {
	return inv.filter(func(i Item) bool { return i.Category == category })
}

func (inv *Inventory) LowStockItems() []Item {
	return inv.filter(Item.Low)
}

func (inv *Inventory) filter(keep func(Item) bool) []Item {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	out := make([]Item, 0, len(inv.items))
	for _, item := range inv.items {
		if keep(item) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// TotalValue is the purchase value of everything on the shelves
func (inv *Inventory) TotalValue() float64 {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	var total float64
	for _, item := range inv.items {
		total += item.Value()
	}
	return total
}

// WarehouseUsage is the shelved volume as a fraction of capacity
func (inv *Inventory) WarehouseUsage() float64 {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.shelvedVolumeLocked() / inv.config.WarehouseCapacity
}

func (inv *Inventory) shelvedVolumeLocked() float64 {
	var v float64
	for _, item := range inv.items {
		v += item.Volume()
	}
	return v
}

func (inv *Inventory) OpenOrders() []PurchaseOrder {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return cloneOrders(inv.open)
}

func (inv *Inventory) OrderHistory() []PurchaseOrder {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return cloneOrders(inv.history)
}

func cloneOrders(orders []PurchaseOrder) []PurchaseOrder {
	out := make([]PurchaseOrder, len(orders))
	for i, o := range orders {
		out[i] = o.clone()
	}
	return out
}

// Suppliers

// PlaceOrder prices, pays for and books a purchase order.
//
// Each line is discounted by the supply discount for its category. The
// order is rejected whole when it is empty, needs more product slots or
// warehouse space than remain once open orders arrive, or costs more than
// the payer holds. Delivery is due after the requested hours, pushed back
// by the configured delay when any line's category is delayed.
func (inv *Inventory) PlaceOrder(req OrderRequest, supply Supply, payer Payer) (PurchaseOrder, error) {
	if len(req.Lines) == 0 {
		return PurchaseOrder{}, shared.NewValidationError("lines", "a purchase order needs at least one line")
	}
	if req.ShippingCost < 0 {
		return PurchaseOrder{}, shared.NewValidationError("shipping_cost", "must not be negative")
	}
	for _, l := range req.Lines {
		if l.ProductID == "" {
			return PurchaseOrder{}, shared.NewValidationError("product_id", "must not be empty")
		}
		if l.Quantity <= 0 {
			return PurchaseOrder{}, shared.NewValidationError("quantity", "must be positive")
		}
		if l.UnitPrice < 0 {
			return PurchaseOrder{}, shared.NewValidationError("unit_price", "must not be negative")
		}
	}

	inv.mu.Lock()
	order, err := inv.placeLocked(req, supply, payer)
	inv.mu.Unlock()
	if err != nil {
		return PurchaseOrder{}, err
	}

	inv.bus.Publish(OrderPlaced{Order: order.clone()})
	return order, nil
}

func (inv *Inventory) placeLocked(req OrderRequest, supply Supply, payer Payer) (PurchaseOrder, error) {
	now := inv.clock.Now()
	order := PurchaseOrder{
		ID:           inv.newID(),
		BusinessID:   inv.businessID,
		SupplierID:   req.SupplierID,
		Status:       StatusPending,
		ShippingCost: req.ShippingCost,
		OrderedAt:    now,
	}

	newProducts := make(map[string]bool)
	for _, l := range req.Lines {
		if item, ok := inv.items[l.ProductID]; ok {
			if l.Name == "" {
				l.Name = item.Name
			}
			if l.Category == "" {
				l.Category = item.Category
			}
			if l.UnitVolume <= 0 {
				l.UnitVolume = item.UnitVolume
			}
		} else if !inv.incomingLocked(l.ProductID) {
			newProducts[l.ProductID] = true
		}
		order.Subtotal += l.Subtotal()
		order.Discount += l.Subtotal() * supply.DiscountFor(l.Category)
		order.Lines = append(order.Lines, l)
	}
	order.TotalCost = order.Subtotal - order.Discount + order.ShippingCost

	if slots := len(inv.items) + inv.incomingProductsLocked() + len(newProducts); slots > inv.config.MaxSlots {
		return PurchaseOrder{}, &ErrInventoryFull{BusinessID: inv.businessID, Slots: inv.config.MaxSlots}
	}
	free := inv.config.WarehouseCapacity - inv.shelvedVolumeLocked() - inv.incomingVolumeLocked()
	if need := order.volume(); need > free {
		return PurchaseOrder{}, &ErrWarehouseFull{BusinessID: inv.businessID, Required: need, Free: free}
	}
	if cash := payer.Cash(); cash < order.TotalCost {
		return PurchaseOrder{}, &ErrInsufficientFunds{BusinessID: inv.businessID, Cost: order.TotalCost, Cash: cash}
	}
	if err := payer.RecordExpense(order.TotalCost); err != nil {
		return PurchaseOrder{}, err
	}

	hours := req.DeliveryHours
	if hours <= 0 {
		hours = inv.config.DeliveryHours
	}
	if supply.delaysAny(order.Lines) {
		hours += inv.config.DelayHours
	}
	order.ExpectedDelivery = now.Add(time.Duration(hours) * time.Hour)
	inv.open = append(inv.open, order)

	inv.logger.Log(shared.LevelInfo, "Purchase order placed", map[string]interface{}{
		"business_id": inv.businessID,
		"order_id":    order.ID,
		"total_cost":  order.TotalCost,
		"expected":    order.ExpectedDelivery,
	})
	return order.clone(), nil
}

// incomingLocked reports whether an open order already brings productID
func (inv *Inventory) incomingLocked(productID string) bool {
	for _, o := range inv.open {
		if o.contains(productID) {
			return true
		}
	}
	return false
}

// incomingProductsLocked counts products on open orders that hold no slot yet
func (inv *Inventory) incomingProductsLocked() int {
	seen := make(map[string]bool)
	for _, o := range inv.open {
		for _, l := range o.Lines {
			if _, stocked := inv.items[l.ProductID]; !stocked {
				seen[l.ProductID] = true
			}
		}
	}
	return len(seen)
}

func (inv *Inventory) incomingVolumeLocked() float64 {
	var v float64
	for _, o := range inv.open {
		v += o.volume()
	}
	return v
}

// ReceiveDue delivers every open order whose delivery time has come.
// A due order with a delayed category is held back by the configured delay
// instead. Returns the delivered orders.
func (inv *Inventory) ReceiveDue(supply Supply) []PurchaseOrder {
	inv.mu.Lock()
	now := inv.clock.Now()
	var delivered []PurchaseOrder
	var events []shared.DomainEvent
	remaining := inv.open[:0]
	for _, o := range inv.open {
		if now.Before(o.ExpectedDelivery) {
			remaining = append(remaining, o)
			continue
		}
		if supply.delaysAny(o.Lines) {
			o.Status = StatusDelayed
			o.Delays++
			o.ExpectedDelivery = now.Add(time.Duration(inv.config.DelayHours) * time.Hour)
			remaining = append(remaining, o)
			events = append(events, OrderDelayed{Order: o.clone()})
			inv.logger.Log(shared.LevelWarning, "Purchase order delayed", map[string]interface{}{
				"business_id": inv.businessID,
				"order_id":    o.ID,
				"expected":    o.ExpectedDelivery,
			})
			continue
		}
		inv.deliverLocked(&o, now)
		delivered = append(delivered, o.clone())
		events = append(events, OrderReceived{Order: o.clone()})
	}
	inv.open = remaining
	inv.mu.Unlock()

	inv.bus.Publish(events...)
	return delivered
}

func (inv *Inventory) deliverLocked(o *PurchaseOrder, now time.Time) {
	for _, l := range o.Lines {
		item := Item{
			ProductID:     l.ProductID,
			Name:          l.Name,
			Category:      l.Category,
			Quantity:      l.Quantity,
			PurchasePrice: l.UnitPrice,
			UnitVolume:    l.UnitVolume,
		}
		if err := inv.addLocked(item, now); err != nil {
			inv.logger.Log(shared.LevelError, "Delivered goods did not fit", map[string]interface{}{
				"business_id": inv.businessID,
				"order_id":    o.ID,
				"product_id":  l.ProductID,
				"error":       err.Error(),
			})
		}
	}
	o.Status = StatusDelivered
	o.DeliveredAt = now

	inv.history = append(inv.history, *o)
	if over := len(inv.history) - inv.config.HistoryLimit; over > 0 {
		inv.history = append([]PurchaseOrder(nil), inv.history[over:]...)
	}
}

// AutoReorder places one restock order per low item that has auto-reorder
// on and no open order already bringing it. Orders that cannot be placed
// are logged and skipped.
func (inv *Inventory) AutoReorder(supply Supply, payer Payer) []PurchaseOrder {
	var requests []OrderRequest
	inv.mu.Lock()
	for _, item := range inv.items {
		if !item.AutoReorder || !item.Low() || inv.incomingLocked(item.ProductID) {
			continue
		}
		requests = append(requests, OrderRequest{
			SupplierID: item.PreferredSupplier,
			Lines: []OrderLine{{
				ProductID:  item.ProductID,
				Name:       item.Name,
				Category:   item.Category,
				Quantity:   item.ReorderQuantity,
				UnitPrice:  item.PurchasePrice,
				UnitVolume: item.UnitVolume,
			}},
		})
	}
	inv.mu.Unlock()
	sort.Slice(requests, func(i, j int) bool {
		return requests[i].Lines[0].ProductID < requests[j].Lines[0].ProductID
	})

	var placed []PurchaseOrder
	for _, req := range requests {
		order, err := inv.PlaceOrder(req, supply, payer)
		if err != nil {
			inv.logger.Log(shared.LevelWarning, "Auto-reorder skipped", map[string]interface{}{
				"business_id": inv.businessID,
				"product_id":  req.Lines[0].ProductID,
				"error":       err.Error(),
			})
			continue
		}
		placed = append(placed, order)
	}
	return placed
}
