package shared

import "math/rand"

// Random is the single source of randomness for the simulation.
// Every stochastic component receives one so runs can be replayed from a seed.
type Random interface {
	// Float64 returns a value in [0, 1)
	Float64() float64
	// Intn returns a value in [0, n); n must be positive
	Intn(n int) int
}

type seededRandom struct {
	r *rand.Rand
}

// NewSeededRandom creates a deterministic source for the given seed
func NewSeededRandom(seed int64) Random {
	return &seededRandom{r: rand.New(rand.NewSource(seed))}
}

func (s *seededRandom) Float64() float64 {
	return s.r.Float64()
}

func (s *seededRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return s.r.Intn(n)
}

// RandomRange draws a float in [min, max). A degenerate range returns min
// without consuming a draw.
func RandomRange(r Random, min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + r.Float64()*(max-min)
}

// RandomIntInclusive draws an int in [min, max]
func RandomIntInclusive(r Random, min, max int) int {
	if max <= min {
		return min
	}
	return min + r.Intn(max-min+1)
}

// RandomChoice picks one element of options; empty input yields ""
func RandomChoice(r Random, options []string) string {
	if len(options) == 0 {
		return ""
	}
	return options[r.Intn(len(options))]
}
