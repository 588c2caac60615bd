package hazard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mortality-engine/internal/model"
	"mortality-engine/internal/refdata"
)

// fakeProvider serves a fixed prior table and a constant baseline row.
type fakeProvider struct {
	priors map[string]refdata.HazardRatioPrior
}

func newFakeProvider() *fakeProvider {
	f := &fakeProvider{priors: map[string]refdata.HazardRatioPrior{}}
	add := func(factor, level string, hr, logSD float64) {
		f.priors[factor+"/"+level] = refdata.HazardRatioPrior{
			Factor: factor, Level: level, HazardRatio: hr, LogSD: logSD,
		}
	}
	add("smoking", "never", 1.0, 0)
	add("smoking", "former", 1.2, 0.042)
	add("smoking", "current", 2.4, 0.068)
	add("alcohol", "none", 1.0, 0)
	add("alcohol", "heavy", 1.8, 0.058)
	add("activity", "sedentary", 1.4, 0.05)
	add("activity", "active", 1.0, 0)
	add("activity", "high", 0.85, 0.04)
	add("body_mass", "normal", 1.0, 0)
	add("body_mass", "severely_obese", 2.0, 0.06)
	add("blood_pressure", "normal", 1.0, 0)
	add("blood_pressure", "stage_2", 1.8, 0.05)
	add("diabetes", "present", 1.9, 0.05)
	add("flu_vaccination", "unvaccinated", 1.11, 0.033)
	add("covid_vaccination", "unvaccinated", 1.09, 0.03)
	return f
}

func (f *fakeProvider) BaselineRow(age int, sex model.Sex) (refdata.BaselineMortalityRow, error) {
	return refdata.BaselineMortalityRow{Age: age, Sex: sex, Qx: 0.01, Ex: 40}, nil
}

func (f *fakeProvider) CauseFractions(string, model.Sex) (model.CauseMix, error) {
	return nil, nil
}

func (f *fakeProvider) HazardRatioPrior(factor, level string) (refdata.HazardRatioPrior, bool) {
	p, ok := f.priors[factor+"/"+level]
	return p, ok
}

func (f *fakeProvider) Versions() refdata.Versions { return refdata.Versions{} }

func neutralProfile() *model.Profile {
	return &model.Profile{
		Age:             40,
		Sex:             model.SexMale,
		RegionCode:      "001",
		Smoking:         model.SmokingNever,
		Alcohol:         model.AlcoholNone,
		ActivityMinutes: 200,
		BodyMass:        model.BodyMassNormal,
		FluVaccinated:   true,
		CovidVaccinated: true,
	}
}

func TestComposeNeutralProfile(t *testing.T) {
	comp, err := Compose(newFakeProvider(), neutralProfile())
	require.NoError(t, err)

	assert.InDelta(t, 1.0, comp.HazardRatio, 1e-9)
	assert.InDelta(t, 1.0, comp.LifetimeHazardRatio, 1e-9)
	for _, d := range comp.Drivers {
		assert.Equal(t, model.ImpactNeutral, d.Impact, "factor %s", d.Factor)
	}
}

func TestComposeJointCorrectionDiscountsSharedPathways(t *testing.T) {
	p := neutralProfile()
	p.Smoking = model.SmokingCurrent
	p.Alcohol = model.AlcoholHeavy

	comp, err := Compose(newFakeProvider(), p)
	require.NoError(t, err)

	// Naive product would be 2.4 * 1.8 = 4.32; the behavioral group
	// coefficient 0.88 gives (1 + 1.4 + 0.8) * 0.88 = 2.816.
	assert.InDelta(t, 2.816, comp.HazardRatio, 1e-9)
	assert.Less(t, comp.HazardRatio, 2.4*1.8)
}

func TestComposeLoneGroupMemberIsUncorrected(t *testing.T) {
	p := neutralProfile()
	p.Smoking = model.SmokingCurrent

	comp, err := Compose(newFakeProvider(), p)
	require.NoError(t, err)
	assert.InDelta(t, 2.4, comp.HazardRatio, 1e-9)
}

func TestComposeCapsCombinedRatio(t *testing.T) {
	p := neutralProfile()
	p.Smoking = model.SmokingCurrent
	p.Alcohol = model.AlcoholHeavy
	p.ActivityMinutes = 0
	p.BodyMass = model.BodyMassSeverelyObese
	p.SystolicBP = 165
	p.Diabetes = true

	comp, err := Compose(newFakeProvider(), p)
	require.NoError(t, err)
	assert.Equal(t, MaxCombinedHazardRatio, comp.HazardRatio)
	assert.Equal(t, MaxCombinedHazardRatio, comp.LifetimeHazardRatio)
}

func TestComposeOneYearOnlyFactors(t *testing.T) {
	p := neutralProfile()
	p.FluVaccinated = false

	comp, err := Compose(newFakeProvider(), p)
	require.NoError(t, err)

	assert.InDelta(t, 1.11, comp.HazardRatio, 1e-9)
	assert.InDelta(t, 1.0, comp.LifetimeHazardRatio, 1e-9, "vaccination status must not bend the survival curve")
}

func TestComposeMissedVaccinationsShareTheRespiratoryGroup(t *testing.T) {
	p := neutralProfile()
	p.FluVaccinated = false
	p.CovidVaccinated = false

	comp, err := Compose(newFakeProvider(), p)
	require.NoError(t, err)

	// (1 + 0.11 + 0.09) * 0.90 - 1 = 0.08.
	assert.InDelta(t, 1.08, comp.HazardRatio, 1e-9)
	assert.Less(t, comp.HazardRatio, 1.11*1.09)
}

func TestComposeProtectiveFactorsStayIndependent(t *testing.T) {
	p := neutralProfile()
	p.ActivityMinutes = 400
	p.BodyMass = model.BodyMassSeverelyObese

	comp, err := Compose(newFakeProvider(), p)
	require.NoError(t, err)

	// High activity is protective; only its harmful group partner could be
	// discounted, and a lone harmful member has no overlap, so the two
	// multiply straight through.
	assert.InDelta(t, 0.85*2.0, comp.HazardRatio, 1e-9)
}

func TestComposeFormerSmokerDecay(t *testing.T) {
	provider := newFakeProvider()

	hrAt := func(years int) float64 {
		p := neutralProfile()
		p.Smoking = model.SmokingFormer
		p.YearsSinceQuit = years
		comp, err := Compose(provider, p)
		require.NoError(t, err)
		return comp.HazardRatio
	}

	assert.InDelta(t, 1.2, hrAt(0), 1e-9, "fresh quitter keeps the full former-smoker ratio")
	assert.InDelta(t, 1.1, hrAt(7), 0.011)
	assert.InDelta(t, 1.0, hrAt(15), 1e-9, "fully decayed after 15 years")
	assert.InDelta(t, 1.0, hrAt(40), 1e-9)
}

func TestComposeTreatedBloodPressure(t *testing.T) {
	provider := newFakeProvider()

	p := neutralProfile()
	p.SystolicBP = 165
	untreated, err := Compose(provider, p)
	require.NoError(t, err)

	p.BPTreated = true
	treated, err := Compose(provider, p)
	require.NoError(t, err)

	assert.InDelta(t, 1.8, untreated.HazardRatio, 1e-9)
	assert.InDelta(t, 1+0.8*0.7, treated.HazardRatio, 1e-9)
	assert.Less(t, treated.HazardRatio, untreated.HazardRatio)
}

func TestDriversAttributionMatchesGroupEffect(t *testing.T) {
	p := neutralProfile()
	p.SystolicBP = 165
	p.Diabetes = true

	comp, err := Compose(newFakeProvider(), p)
	require.NoError(t, err)

	var bp, diabetes *model.RiskDriver
	for i := range comp.Drivers {
		switch comp.Drivers[i].Factor {
		case "blood_pressure":
			bp = &comp.Drivers[i]
		case "diabetes":
			diabetes = &comp.Drivers[i]
		}
	}
	require.NotNil(t, bp)
	require.NotNil(t, diabetes)

	// The attributed effects of the group members sum to the group effect:
	// (1 + 0.8 + 0.9) * 0.80 - 1 = 1.16.
	groupTotal := (bp.HazardRatio - 1) + (diabetes.HazardRatio - 1)
	assert.InDelta(t, 1.16, groupTotal, 1e-9)

	// Split proportionally to each member's own effect.
	assert.InDelta(t, 1.16*0.8/1.7, bp.HazardRatio-1, 1e-9)
	assert.InDelta(t, 1.16*0.9/1.7, diabetes.HazardRatio-1, 1e-9)
	assert.Equal(t, model.ImpactIncrease, bp.Impact)
}

func TestGroupEffectClampsNonNegative(t *testing.T) {
	assert.Equal(t, 0.0, groupEffect([]float64{0.05, 0.05}, 0.80))
	assert.Greater(t, groupEffect([]float64{0.8, 0.9}, 0.80), 0.0)
}

func TestSamplerDeterministic(t *testing.T) {
	provider := newFakeProvider()
	p := neutralProfile()
	p.Smoking = model.SmokingCurrent
	p.Alcohol = model.AlcoholHeavy

	comp, err := Compose(provider, p)
	require.NoError(t, err)

	a := NewSampler(42).SampleComposition(comp.Factors)
	b := NewSampler(42).SampleComposition(comp.Factors)
	c := NewSampler(43).SampleComposition(comp.Factors)

	assert.Equal(t, a, b, "same seed must reproduce the draw")
	assert.NotEqual(t, a, c)
	assert.LessOrEqual(t, a, MaxCombinedHazardRatio)
}

func TestSamplerZeroDeviationReturnsCentral(t *testing.T) {
	f := ActiveFactor{HR: 1.3, Prior: refdata.HazardRatioPrior{LogSD: 0}}
	assert.Equal(t, 1.3, NewSampler(1).SampleHR(f))
}
