package survival

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbabilityHazardRoundTrip(t *testing.T) {
	for _, q := range []float64{0.0001, 0.001, 0.01, 0.05, 0.2, 0.5} {
		got := HazardToProbability(ProbabilityToHazard(q))
		assert.InDelta(t, q, got, 1e-9, "round trip for q=%v", q)
	}
}

func TestProbabilityToHazardClamps(t *testing.T) {
	assert.Equal(t, ProbabilityToHazard(1e-12), ProbabilityToHazard(0))
	assert.Equal(t, ProbabilityToHazard(0.5), ProbabilityToHazard(0.99))
	assert.False(t, math.IsInf(ProbabilityToHazard(1.0), 0))
}

func TestApplyHazardRatio(t *testing.T) {
	t.Run("unit ratio is identity", func(t *testing.T) {
		for _, q := range []float64{0.001, 0.01, 0.1} {
			assert.InDelta(t, q, ApplyHazardRatio(q, 1.0), 1e-9)
		}
	})

	t.Run("monotone in the ratio", func(t *testing.T) {
		q := 0.02
		prev := 0.0
		for _, hr := range []float64{0.5, 0.8, 1.0, 1.5, 2.4, 5.0} {
			adjusted := ApplyHazardRatio(q, hr)
			assert.Greater(t, adjusted, prev)
			prev = adjusted
		}
	})

	t.Run("stays a probability", func(t *testing.T) {
		adjusted := ApplyHazardRatio(0.5, 5.0)
		assert.Greater(t, adjusted, 0.0)
		assert.Less(t, adjusted, 1.0)
	})
}

func TestSixMonthProbability(t *testing.T) {
	q := 0.01
	half := SixMonthProbability(q)
	assert.Less(t, half, q)
	// Two half-year periods compose back to the annual probability.
	assert.InDelta(t, q, 1-(1-half)*(1-half), 1e-12)
}

func TestBuildCurve(t *testing.T) {
	probs := []float64{0.01, 0.02, 0.03, 0.04}
	curve := BuildCurve(60, probs, 110)
	require.Len(t, curve, 4)

	assert.Equal(t, 1.0, curve[0].Survival, "curve must start at exactly 1")
	assert.Equal(t, 60, curve[0].Age)

	for i := 1; i < len(curve); i++ {
		assert.LessOrEqual(t, curve[i].Survival, curve[i-1].Survival, "survival must not increase")
	}
	assert.InDelta(t, 0.99, curve[1].Survival, 1e-12)
	assert.InDelta(t, 0.99*0.98, curve[2].Survival, 1e-12)
}

func TestBuildCurveStopsAtMaxAge(t *testing.T) {
	probs := make([]float64, 20)
	for i := range probs {
		probs[i] = 0.01
	}
	curve := BuildCurve(105, probs, 110)
	require.Len(t, curve, 6)
	assert.Equal(t, 110, curve[len(curve)-1].Age)
}

func TestLifeExpectancy(t *testing.T) {
	t.Run("empty curve", func(t *testing.T) {
		assert.Equal(t, 0.0, LifeExpectancy(nil))
	})

	t.Run("certain death after one year", func(t *testing.T) {
		curve := BuildCurve(100, []float64{1.0}, 110)
		assert.InDelta(t, 0.5, LifeExpectancy(curve), 1e-12)
	})

	t.Run("constant hazard", func(t *testing.T) {
		probs := make([]float64, 50)
		for i := range probs {
			probs[i] = 0.1
		}
		curve := BuildCurve(60, probs, 110)
		le := LifeExpectancy(curve)
		// Geometric series: 0.5 + sum 0.9^k, k=1..49, roughly 8.49.
		assert.InDelta(t, 8.49, le, 0.05)
	})
}

func TestMedianSurvivalAge(t *testing.T) {
	probs := make([]float64, 30)
	for i := range probs {
		probs[i] = 0.1
	}
	curve := BuildCurve(60, probs, 110)

	// 0.9^6 = 0.531, 0.9^7 = 0.478: the first point at or below 0.5 is
	// index 7.
	assert.Equal(t, 7.0, MedianSurvivalAge(curve))
}

func TestQuantileSurvivalAgeNeverDrops(t *testing.T) {
	curve := BuildCurve(60, []float64{0.001, 0.001}, 110)
	assert.Equal(t, float64(len(curve)), QuantileSurvivalAge(curve, 0.5))
}
