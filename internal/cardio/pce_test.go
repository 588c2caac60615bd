package cardio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mortality-engine/internal/model"
)

func pceProfile() *model.Profile {
	return &model.Profile{
		Age:              55,
		Sex:              model.SexMale,
		Smoking:          model.SmokingNever,
		SystolicBP:       120,
		TotalCholesterol: 213,
		HDLCholesterol:   50,
	}
}

// Reference values recomputed from the published Table A coefficients.
func TestEstimateReferenceProfiles(t *testing.T) {
	t.Run("male example profile", func(t *testing.T) {
		r := Estimate(pceProfile())
		require.NotNil(t, r)
		assert.InDelta(t, 0.0538, r.Risk10Year, 0.0005)
		assert.Equal(t, model.RiskModerate, r.RiskLevel)
		assert.Equal(t, "general_male", r.Population)
	})

	t.Run("female example profile", func(t *testing.T) {
		p := pceProfile()
		p.Sex = model.SexFemale
		r := Estimate(p)
		require.NotNil(t, r)
		assert.InDelta(t, 0.0205, r.Risk10Year, 0.0005)
		assert.Equal(t, model.RiskLow, r.RiskLevel)
		assert.Equal(t, "general_female", r.Population)
	})

	t.Run("smoker with diabetes and treated hypertension", func(t *testing.T) {
		p := pceProfile()
		p.Smoking = model.SmokingCurrent
		p.Diabetes = true
		p.SystolicBP = 160
		p.BPTreated = true
		r := Estimate(p)
		require.NotNil(t, r)
		assert.InDelta(t, 0.3294, r.Risk10Year, 0.001)
		assert.Equal(t, model.RiskVeryHigh, r.RiskLevel)
	})
}

func TestEstimateShorterHorizons(t *testing.T) {
	r := Estimate(pceProfile())
	require.NotNil(t, r)
	assert.InDelta(t, r.Risk10Year*0.6, r.Risk5Year, 1e-12)
	assert.InDelta(t, r.Risk10Year*0.1, r.Risk1Year, 1e-12)
}

func TestEstimateNotApplicable(t *testing.T) {
	t.Run("missing cholesterol", func(t *testing.T) {
		p := pceProfile()
		p.TotalCholesterol = 0
		assert.Nil(t, Estimate(p))
	})

	t.Run("below age range", func(t *testing.T) {
		p := pceProfile()
		p.Age = 39
		assert.Nil(t, Estimate(p))
	})

	t.Run("above age range", func(t *testing.T) {
		p := pceProfile()
		p.Age = 80
		assert.Nil(t, Estimate(p))
	})

	t.Run("no coefficient set for sex other", func(t *testing.T) {
		p := pceProfile()
		p.Sex = model.SexOther
		assert.Nil(t, Estimate(p))
	})
}

func TestEstimateRiskRisesWithBurden(t *testing.T) {
	healthy := Estimate(pceProfile())
	require.NotNil(t, healthy)

	p := pceProfile()
	p.Smoking = model.SmokingCurrent
	smoker := Estimate(p)
	require.NotNil(t, smoker)

	assert.Greater(t, smoker.Risk10Year, healthy.Risk10Year)
	assert.Greater(t, healthy.Risk10Year, 0.0)
	assert.Less(t, smoker.Risk10Year, 1.0)
}
