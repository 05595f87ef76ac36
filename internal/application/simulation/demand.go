package simulation

import (
	"math"

	"github.com/andrescamacho/bizsim-go/internal/domain/mission"
	"github.com/andrescamacho/bizsim-go/internal/domain/operations"
	"github.com/andrescamacho/bizsim-go/internal/domain/reputation"
	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
)

// serveCustomers books one hour of walk-in trade for every open business.
// Arrivals scale with the reputation traffic band and the active foot_traffic
// and demand effects; tickets scale with the markup band and the revenue
// effect. A business that keeps stock sells one unit per customer and turns
// the rest away once everything is sold out.
func (s *Simulation) serveCustomers() {
	effects := s.engine.CumulativeEffects()
	for _, l := range s.directory.Businesses() {
		if !l.IsOpen() {
			continue
		}
		s.serveBusiness(l, effects)
	}
}

func (s *Simulation) serveBusiness(l *reputation.Ledger, effects map[operations.EffectKey]float64) {
	traffic := l.FootTrafficMultiplier() * math.Max(0, 1+effects[operations.EffectFootTraffic]+effects[operations.EffectDemand])
	expected := s.config.BaseCustomersPerHour * traffic
	arrivals := int(expected)
	if frac := expected - float64(arrivals); frac > 0 && s.random.Float64() < frac {
		arrivals++
	}

	ticketScale := (1 + l.PriceMarkup()) * math.Max(0, 1+effects[operations.EffectRevenue])
	stock, _ := s.stock.get(l.ID())
	stocked := stock != nil && stock.Len() > 0
	served := 0
	for i := 0; i < arrivals; i++ {
		if !l.AdmitCustomer() {
			break
		}
		if stocked {
			if _, ok := stock.TakeForSale(); !ok {
				l.CustomerLeft()
				break
			}
		}
		ticket := s.config.AverageTicket * ticketScale * shared.RandomRange(s.random, 0.8, 1.2)
		if err := l.RecordSale(math.Round(ticket*100) / 100); err == nil {
			served++
		}
	}
	for i := 0; i < served; i++ {
		l.CustomerLeft()
	}
	if served > 0 {
		s.missions.Record(l.ID(), mission.ObjectiveServeCustomers, served)
	}
	if arrivals > served {
		s.logger.Log(shared.LevelDebug, "[Demand] Customers turned away", map[string]interface{}{
			"business_id": l.ID(),
			"turned_away": arrivals - served,
		})
	}
}
