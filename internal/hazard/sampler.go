package hazard

import (
	"math"
	"math/rand"
)

// Sampler draws hazard ratios from their log-normal priors. Each sampler
// owns its random source, so replicates seeded independently are fully
// reproducible and safe to run concurrently.
type Sampler struct {
	rng *rand.Rand
}

func NewSampler(seed int64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewSource(seed))}
}

// SampleHR draws one hazard ratio for the factor: log-normal centered at
// the adjusted central value with the prior's log-scale deviation. A zero
// deviation returns the central value unchanged.
func (s *Sampler) SampleHR(f ActiveFactor) float64 {
	if f.Prior.LogSD == 0 {
		return f.HR
	}
	return f.HR * math.Exp(s.rng.NormFloat64()*f.Prior.LogSD)
}

// SampleComposition draws every factor once and combines the draws with the
// same joint correction and cap as the deterministic composition.
func (s *Sampler) SampleComposition(factors []ActiveFactor) float64 {
	sampled := make([]float64, len(factors))
	for i, f := range factors {
		sampled[i] = s.SampleHR(f)
	}
	return CombineSampled(factors, sampled)
}
