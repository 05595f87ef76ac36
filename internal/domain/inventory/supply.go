package inventory

// AllCategories is the category label that matches every product
const AllCategories = "all"

// MaxDiscount caps any supplier discount
const MaxDiscount = 0.9

// Supply describes the market conditions a purchase order is placed and
// delivered under. The zero value is a calm market.
type Supply struct {
	Delayed   map[string]bool
	Discounts map[string]float64
}

// Delays reports whether deliveries of category are currently held back
func (s Supply) Delays(category string) bool {
	return s.Delayed[category] || s.Delayed[AllCategories]
}

// DiscountFor returns the purchase discount for category, clamped to [0, MaxDiscount].
// Category and all-category discounts add up.
func (s Supply) DiscountFor(category string) float64 {
	d := s.Discounts[category]
	if category != AllCategories {
		d += s.Discounts[AllCategories]
	}
	switch {
	case d < 0:
		return 0
	case d > MaxDiscount:
		return MaxDiscount
	}
	return d
}

func (s Supply) delaysAny(lines []OrderLine) bool {
	for _, l := range lines {
		if s.Delays(l.Category) {
			return true
		}
	}
	return false
}
