package reputation

// Sub-score weights; they sum to 1
const (
	WeightServiceSpeed = 0.25
	WeightQuality      = 0.30
	WeightCleanliness  = 0.15
	WeightAmbiance     = 0.15
	WeightValue        = 0.15

	MinReputation   = 0.0
	MaxReputation   = 5.0
	DefaultSubScore = 3.0
)

// Scores are the five service sub-scores, each nominally in [0,5]
type Scores struct {
	ServiceSpeed float64 `json:"service_speed"`
	Quality      float64 `json:"quality"`
	Cleanliness  float64 `json:"cleanliness"`
	Ambiance     float64 `json:"ambiance"`
	Value        float64 `json:"value"`
}

// DefaultScores is where every new business starts
func DefaultScores() Scores {
	return Scores{
		ServiceSpeed: DefaultSubScore,
		Quality:      DefaultSubScore,
		Cleanliness:  DefaultSubScore,
		Ambiance:     DefaultSubScore,
		Value:        DefaultSubScore,
	}
}

// Weighted returns the weighted sum clamped to [0,5], whatever the inputs
func (s Scores) Weighted() float64 {
	weighted := s.ServiceSpeed*WeightServiceSpeed +
		s.Quality*WeightQuality +
		s.Cleanliness*WeightCleanliness +
		s.Ambiance*WeightAmbiance +
		s.Value*WeightValue
	return clamp(weighted, MinReputation, MaxReputation)
}

// Clamped forces every sub-score into [0,5]
func (s Scores) Clamped() Scores {
	return Scores{
		ServiceSpeed: clamp(s.ServiceSpeed, MinReputation, MaxReputation),
		Quality:      clamp(s.Quality, MinReputation, MaxReputation),
		Cleanliness:  clamp(s.Cleanliness, MinReputation, MaxReputation),
		Ambiance:     clamp(s.Ambiance, MinReputation, MaxReputation),
		Value:        clamp(s.Value, MinReputation, MaxReputation),
	}
}

// band maps a reputation floor (inclusive) to its economic effects
type band struct {
	floor       float64
	footTraffic float64
	markup      float64
}

var bands = []band{
	{floor: 4.5, footTraffic: 2.0, markup: 0.30},
	{floor: 4.0, footTraffic: 1.5, markup: 0.20},
	{floor: 3.5, footTraffic: 1.25, markup: 0.10},
	{floor: 3.0, footTraffic: 1.0, markup: 0.0},
	{floor: 2.0, footTraffic: 0.75, markup: -0.10},
}

var lowestBand = band{footTraffic: 0.5, markup: -0.20}

func bandFor(reputation float64) band {
	for _, b := range bands {
		if reputation >= b.floor {
			return b
		}
	}
	return lowestBand
}

// FootTrafficMultiplier scales customer arrivals for a reputation
func FootTrafficMultiplier(reputation float64) float64 {
	return bandFor(reputation).footTraffic
}

// PriceMarkup is the markup (or discount, when negative) customers accept
func PriceMarkup(reputation float64) float64 {
	return bandFor(reputation).markup
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
