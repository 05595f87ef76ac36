package inventory

import "time"

// Item is one stocked product line of a business
type Item struct {
	ProductID         string    `json:"product_id" yaml:"product_id"`
	Name              string    `json:"name" yaml:"name"`
	Category          string    `json:"category" yaml:"category"`
	Quantity          int       `json:"quantity" yaml:"quantity"`
	PurchasePrice     float64   `json:"purchase_price" yaml:"purchase_price"`
	SellPrice         float64   `json:"sell_price" yaml:"sell_price"`
	UnitVolume        float64   `json:"unit_volume" yaml:"unit_volume"`
	ReorderPoint      int       `json:"reorder_point" yaml:"reorder_point"`
	ReorderQuantity   int       `json:"reorder_quantity" yaml:"reorder_quantity"`
	AutoReorder       bool      `json:"auto_reorder" yaml:"auto_reorder"`
	PreferredSupplier string    `json:"preferred_supplier,omitempty" yaml:"preferred_supplier"`
	LastRestock       time.Time `json:"last_restock" yaml:"-"`
}

const (
	DefaultUnitVolume      = 1.0
	DefaultReorderPoint    = 10
	DefaultReorderQuantity = 50
)

func (i Item) withDefaults() Item {
	if i.UnitVolume <= 0 {
		i.UnitVolume = DefaultUnitVolume
	}
	if i.ReorderPoint <= 0 {
		i.ReorderPoint = DefaultReorderPoint
	}
	if i.ReorderQuantity <= 0 {
		i.ReorderQuantity = DefaultReorderQuantity
	}
	return i
}

// Low reports whether the item is at or below its reorder point
func (i Item) Low() bool { return i.Quantity <= i.ReorderPoint }

func (i Item) Value() float64 { return float64(i.Quantity) * i.PurchasePrice }

func (i Item) Volume() float64 { return float64(i.Quantity) * i.UnitVolume }
