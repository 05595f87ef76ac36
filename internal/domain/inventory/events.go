package inventory

const (
	EventOrderPlaced   = "inventory.order_placed"
	EventOrderDelayed  = "inventory.order_delayed"
	EventOrderReceived = "inventory.order_received"
	EventStockLow      = "inventory.stock_low"
)

type OrderPlaced struct{ Order PurchaseOrder }

// OrderDelayed is published each time a due delivery is pushed back
type OrderDelayed struct{ Order PurchaseOrder }

type OrderReceived struct{ Order PurchaseOrder }

// StockLow is published when a removal takes an item down to its reorder point
type StockLow struct {
	BusinessID string
	Item       Item
}

func (OrderPlaced) EventName() string   { return EventOrderPlaced }
func (OrderDelayed) EventName() string  { return EventOrderDelayed }
func (OrderReceived) EventName() string { return EventOrderReceived }
func (StockLow) EventName() string      { return EventStockLow }
