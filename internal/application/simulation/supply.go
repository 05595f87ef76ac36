package simulation

import (
	"sort"
	"sync"

	"github.com/andrescamacho/bizsim-go/internal/domain/business"
	"github.com/andrescamacho/bizsim-go/internal/domain/inventory"
	"github.com/andrescamacho/bizsim-go/internal/domain/operations"
	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
)

// Catalogue is the starting stock of each business type. Types without an
// entry sell services and keep no stock.
type Catalogue map[shared.BusinessType][]inventory.Item

// DefaultCatalogue stocks the goods-selling verticals
func DefaultCatalogue() Catalogue {
	product := func(id, name, category string, buy, sell float64) inventory.Item {
		return inventory.Item{
			ProductID:       id,
			Name:            name,
			Category:        category,
			Quantity:        200,
			PurchasePrice:   buy,
			SellPrice:       sell,
			ReorderPoint:    40,
			ReorderQuantity: 150,
			AutoReorder:     true,
		}
	}
	return Catalogue{
		shared.BusinessHypermarket: {
			product("milk", "Milk", "dairy", 0.8, 1.5),
			product("bread", "Bread", "bakery", 1.0, 2.2),
			product("apples", "Apples", "produce", 1.2, 2.5),
			product("rice", "Rice", "grocery", 1.5, 2.8),
			product("detergent", "Detergent", "household", 3.0, 5.5),
			product("cola", "Cola", "beverages", 0.6, 1.4),
		},
		shared.BusinessRestaurant: {
			product("vegetables", "Vegetables", "produce", 2.0, 0),
			product("beef", "Beef", "meat", 6.0, 0),
			product("cheese", "Cheese", "dairy", 4.0, 0),
		},
		shared.BusinessRetailFashion: {
			product("tshirt", "T-Shirt", "apparel", 6.0, 15.0),
			product("jeans", "Jeans", "apparel", 18.0, 45.0),
			product("sneakers", "Sneakers", "footwear", 25.0, 70.0),
		},
	}
}

// stockrooms holds one inventory per business. Inventories are created from
// the business.created subscriber, which may run outside the simulation lock.
type stockrooms struct {
	mu         sync.RWMutex
	byBusiness map[string]*inventory.Inventory
}

func (r *stockrooms) get(businessID string) (*inventory.Inventory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inv, ok := r.byBusiness[businessID]
	return inv, ok
}

func (r *stockrooms) put(inv *inventory.Inventory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byBusiness[inv.BusinessID()] = inv
}

// all returns the inventories ordered by business id
func (r *stockrooms) all() []*inventory.Inventory {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*inventory.Inventory, 0, len(r.byBusiness))
	for _, inv := range r.byBusiness {
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BusinessID() < out[j].BusinessID() })
	return out
}

func (r *stockrooms) replace(byBusiness map[string]*inventory.Inventory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byBusiness = byBusiness
}

// subscribeSupply gives every new business a stocked inventory
func (s *Simulation) subscribeSupply() {
	s.bus.Subscribe(business.EventBusinessCreated, func(e shared.DomainEvent) {
		created := e.(business.BusinessCreated)
		s.openStockroom(created.BusinessID, created.BusinessType)
	})
}

// openStockroom creates and stocks the inventory of a new business
func (s *Simulation) openStockroom(businessID string, businessType shared.BusinessType) {
	inv := inventory.NewInventory(businessID, s.config.Inventory, s.clock, s.workerIDs, s.bus, s.logger)
	for _, item := range s.products[businessType] {
		if err := inv.AddItem(item); err != nil {
			s.logger.Log(shared.LevelWarning, "[Supply] Starting stock rejected", map[string]interface{}{
				"business_id": businessID,
				"product_id":  item.ProductID,
				"error":       err.Error(),
			})
		}
	}
	s.stock.put(inv)
}

// supplyConditions reads the active supply_delay, supply_shortage and
// discount effects into market conditions for purchase orders
func (s *Simulation) supplyConditions() inventory.Supply {
	supply := inventory.Supply{Delayed: make(map[string]bool), Discounts: make(map[string]float64)}
	for _, evt := range s.engine.ActiveEvents() {
		if v, ok := evt.Effects[operations.EffectSupplyDelay]; ok && v.Label != "" {
			supply.Delayed[v.Label] = true
		}
		if v, ok := evt.Effects[operations.EffectSupplyShortage]; ok {
			category := v.Label
			if category == "" {
				category = inventory.AllCategories
			}
			supply.Delayed[category] = true
		}
		if d, ok := evt.Effects[operations.EffectDiscount].Numeric(); ok {
			category := evt.Effects[operations.EffectCategory].Label
			if category == "" {
				category = inventory.AllCategories
			}
			supply.Discounts[category] += d
		}
	}
	return supply
}

// processSupply delivers due purchase orders and places auto-reorders for
// every business, paid from its ledger
func (s *Simulation) processSupply() {
	supply := s.supplyConditions()
	for _, inv := range s.stock.all() {
		ledger, err := s.directory.Business(inv.BusinessID())
		if err != nil {
			continue
		}
		inv.ReceiveDue(supply)
		inv.AutoReorder(supply, ledger)
	}
}

// Inventory returns the stock room of a business
func (s *Simulation) Inventory(businessID string) (*inventory.Inventory, error) {
	inv, ok := s.stock.get(businessID)
	if !ok {
		return nil, shared.NewNotFoundError("inventory", businessID)
	}
	return inv, nil
}

// PlacePurchaseOrder orders goods for a business under the current supply
// conditions and pays for them from its ledger
func (s *Simulation) PlacePurchaseOrder(businessID string, req inventory.OrderRequest) (inventory.PurchaseOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ledger, err := s.directory.Business(businessID)
	if err != nil {
		return inventory.PurchaseOrder{}, err
	}
	inv, err := s.Inventory(businessID)
	if err != nil {
		return inventory.PurchaseOrder{}, err
	}
	return inv.PlaceOrder(req, s.supplyConditions(), ledger)
}
