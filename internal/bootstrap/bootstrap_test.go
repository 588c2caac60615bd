package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"mortality-engine/internal/hazard"
	"mortality-engine/internal/refdata"
	"mortality-engine/internal/survival"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func sampledFactors() []hazard.ActiveFactor {
	return []hazard.ActiveFactor{
		{
			Spec:  hazard.FactorSpec{ID: "smoking", JointGroup: "behavioral_lifestyle"},
			Level: "current",
			Prior: refdata.HazardRatioPrior{HazardRatio: 2.4, LogSD: 0.068},
			HR:    2.4,
		},
		{
			Spec:  hazard.FactorSpec{ID: "activity", JointGroup: "metabolic_syndrome"},
			Level: "sedentary",
			Prior: refdata.HazardRatioPrior{HazardRatio: 1.4, LogSD: 0.05},
			HR:    1.4,
		},
		{
			Spec:  hazard.FactorSpec{ID: "flu_vaccination", JointGroup: "respiratory", OneYearOnly: true},
			Level: "unvaccinated",
			Prior: refdata.HazardRatioPrior{HazardRatio: 1.11, LogSD: 0.033},
			HR:    1.11,
		},
	}
}

func testInput() Input {
	qx := make([]float64, 51)
	for i := range qx {
		qx[i] = 0.01 * (1 + float64(i)*0.1)
	}
	oneYearHR := 2.4 * 1.4 * 1.11
	lifeHR := 2.4 * 1.4
	pointRisk := survival.ApplyHazardRatio(qx[0], oneYearHR)

	adjusted := make([]float64, len(qx))
	for i, q := range qx {
		adjusted[i] = survival.ApplyHazardRatio(q, lifeHR)
	}
	curve := survival.BuildCurve(60, adjusted, 110)

	return Input{
		Factors:    sampledFactors(),
		StartAge:   60,
		MaxAge:     110,
		BaselineQx: qx,
		PointRisk:  pointRisk,
		PointLE:    survival.LifeExpectancy(curve),
	}
}

func TestRunIntervalBracketsPointEstimate(t *testing.T) {
	in := testInput()
	res := Run(context.Background(), zap.NewNop(), in, Config{
		Replicates: 200,
		Seed:       12345,
	})

	assert.Equal(t, 200, res.Replicates)
	assert.Equal(t, 200, res.EffectiveReplicates)
	assert.Empty(t, res.Warnings)

	assert.LessOrEqual(t, res.RiskInterval.Lower, in.PointRisk)
	assert.GreaterOrEqual(t, res.RiskInterval.Upper, in.PointRisk)
	assert.Less(t, res.RiskInterval.Lower, res.RiskInterval.Upper)

	assert.LessOrEqual(t, res.LifeInterval.Lower, in.PointLE)
	assert.GreaterOrEqual(t, res.LifeInterval.Upper, in.PointLE)
}

func TestRunIsReproducible(t *testing.T) {
	in := testInput()
	cfg := Config{Replicates: 100, Seed: 7}

	a := Run(context.Background(), zap.NewNop(), in, cfg)
	b := Run(context.Background(), zap.NewNop(), in, cfg)

	assert.Equal(t, a.RiskInterval, b.RiskInterval)
	assert.Equal(t, a.LifeInterval, b.LifeInterval)
}

func TestRunDefaultsAndCapsReplicates(t *testing.T) {
	in := testInput()

	res := Run(context.Background(), zap.NewNop(), in, Config{Seed: 1})
	assert.Equal(t, DefaultReplicates, res.Replicates)

	res = Run(context.Background(), zap.NewNop(), in, Config{Replicates: 5000, Seed: 1})
	assert.Equal(t, MaxReplicates, res.Replicates)
}

func TestRunAdaptiveNeverExceedsMax(t *testing.T) {
	in := testInput()
	res := Run(context.Background(), zap.NewNop(), in, Config{
		Replicates: 200,
		Seed:       9,
		Adaptive:   true,
	})
	assert.GreaterOrEqual(t, res.Replicates, 200)
	assert.LessOrEqual(t, res.Replicates, MaxReplicates)
}

func TestRunFailedReplicatesFallBackToPoint(t *testing.T) {
	in := testInput()
	in.BaselineQx = nil // every replicate fails

	res := Run(context.Background(), zap.NewNop(), in, Config{Replicates: 50, Seed: 3})

	require.Equal(t, 50, res.Replicates)
	assert.Equal(t, 0, res.EffectiveReplicates)
	require.Len(t, res.Warnings, 1)

	// Degenerate interval at the point estimate.
	assert.Equal(t, in.PointRisk, res.RiskInterval.Lower)
	assert.Equal(t, in.PointRisk, res.RiskInterval.Upper)
	assert.Equal(t, in.PointLE, res.LifeInterval.Lower)
}

func TestPercentileIndexBounds(t *testing.T) {
	assert.Equal(t, 20, percentileIndex(200, 0.10))
	assert.Equal(t, 180, percentileIndex(200, 0.90))
	assert.Equal(t, 0, percentileIndex(1, 0.10))
	assert.Equal(t, 0, percentileIndex(1, 0.90))
}

func TestStandardError(t *testing.T) {
	assert.True(t, standardError([]float64{1}) > 1e18)
	// Constant series has zero spread.
	assert.Equal(t, 0.0, standardError([]float64{2, 2, 2, 2}))
}
