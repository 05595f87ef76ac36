package inventory

import "time"

// OrderStatus is the delivery state of a purchase order
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusDelayed   OrderStatus = "DELAYED"
	StatusDelivered OrderStatus = "DELIVERED"
)

// IsOpen reports whether goods are still on the way
func (s OrderStatus) IsOpen() bool { return s == StatusPending || s == StatusDelayed }

// OrderLine is one product on a purchase order
type OrderLine struct {
	ProductID  string  `json:"product_id"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	UnitVolume float64 `json:"unit_volume,omitempty"`
}

func (l OrderLine) Subtotal() float64 { return float64(l.Quantity) * l.UnitPrice }

func (l OrderLine) volume() float64 {
	if l.UnitVolume <= 0 {
		return float64(l.Quantity) * DefaultUnitVolume
	}
	return float64(l.Quantity) * l.UnitVolume
}

// OrderRequest is what a caller asks a supplier for
type OrderRequest struct {
	SupplierID    string
	Lines         []OrderLine
	DeliveryHours int
	ShippingCost  float64
}

// PurchaseOrder is a paid restock on its way to the warehouse
type PurchaseOrder struct {
	ID               string      `json:"id"`
	BusinessID       string      `json:"business_id"`
	SupplierID       string      `json:"supplier_id,omitempty"`
	Lines            []OrderLine `json:"lines"`
	Status           OrderStatus `json:"status"`
	Subtotal         float64     `json:"subtotal"`
	Discount         float64     `json:"discount"`
	ShippingCost     float64     `json:"shipping_cost"`
	TotalCost        float64     `json:"total_cost"`
	OrderedAt        time.Time   `json:"ordered_at"`
	ExpectedDelivery time.Time   `json:"expected_delivery"`
	DeliveredAt      time.Time   `json:"delivered_at"`
	Delays           int         `json:"delays,omitempty"`
}

func (o PurchaseOrder) clone() PurchaseOrder {
	o.Lines = append([]OrderLine(nil), o.Lines...)
	return o
}

func (o PurchaseOrder) contains(productID string) bool {
	for _, l := range o.Lines {
		if l.ProductID == productID {
			return true
		}
	}
	return false
}

func (o PurchaseOrder) volume() float64 {
	var v float64
	for _, l := range o.Lines {
		v += l.volume()
	}
	return v
}
