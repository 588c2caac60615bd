package hazard

import (
	"mortality-engine/internal/model"
	"mortality-engine/internal/refdata"
)

// MaxCombinedHazardRatio caps the composed ratio to keep implausible factor
// stacking out of the estimates. Applied after joint-attribution correction.
const MaxCombinedHazardRatio = 5.0

// neutralBand is the half-width around 1.0 inside which a factor is
// reported as neutral.
const neutralBand = 1e-9

// ActiveFactor is one risk factor that applies to a profile, resolved
// against its prior.
type ActiveFactor struct {
	Spec  FactorSpec
	Level string
	Prior refdata.HazardRatioPrior
	// HR is the central hazard ratio after profile-specific adjustment.
	HR float64
}

// Composition is the result of combining a profile's risk factors.
type Composition struct {
	// HazardRatio is the total multiplier on 1-year risk, joint-corrected
	// and capped.
	HazardRatio float64
	// LifetimeHazardRatio excludes one-year-only factors and drives the
	// survival curve.
	LifetimeHazardRatio float64
	Factors             []ActiveFactor
	Drivers             []model.RiskDriver
}

// Compose resolves every registry factor against the profile and the
// provider's priors and combines them with joint-attribution correction.
// Factors without a prior row contribute nothing.
func Compose(provider refdata.Provider, p *model.Profile) (Composition, error) {
	var factors []ActiveFactor
	for _, spec := range Registry {
		level, active := spec.Level(p)
		if !active {
			continue
		}
		prior, ok := provider.HazardRatioPrior(spec.ID, level)
		if !ok {
			continue
		}
		hr := prior.HazardRatio
		if spec.AdjustHR != nil {
			hr = spec.AdjustHR(p, hr)
		}
		factors = append(factors, ActiveFactor{Spec: spec, Level: level, Prior: prior, HR: hr})
	}

	// The provider reports integrity failures through lookups that return
	// errors; prior lookups only signal absence. Probe once so a poisoned
	// provider fails the composition rather than silently dropping factors.
	if _, err := provider.BaselineRow(p.Age, p.Sex); err != nil {
		return Composition{}, err
	}

	comp := Composition{Factors: factors}
	comp.HazardRatio = capRatio(combine(factors, false))
	comp.LifetimeHazardRatio = capRatio(combine(factors, true))
	comp.Drivers = drivers(factors)
	return comp, nil
}

// combine joins the factors' central hazard ratios into one multiplier.
// lifetimeOnly drops one-year-only factors.
func combine(factors []ActiveFactor, lifetimeOnly bool) float64 {
	effects := make([]factorEffect, 0, len(factors))
	for _, f := range factors {
		if lifetimeOnly && f.Spec.OneYearOnly {
			continue
		}
		effects = append(effects, factorEffect{group: f.Spec.JointGroup, effect: f.HR - 1})
	}
	return combineEffects(effects)
}

// CombineSampled joins externally sampled hazard ratios (index-aligned with
// factors) using the same joint correction and cap as the deterministic
// path. This is the bootstrap entry point.
func CombineSampled(factors []ActiveFactor, sampledHRs []float64) float64 {
	effects := make([]factorEffect, len(factors))
	for i, f := range factors {
		effects[i] = factorEffect{group: f.Spec.JointGroup, effect: sampledHRs[i] - 1}
	}
	return capRatio(combineEffects(effects))
}

func capRatio(hr float64) float64 {
	if hr > MaxCombinedHazardRatio {
		return MaxCombinedHazardRatio
	}
	return hr
}

// drivers builds the per-factor explanation list. Each driver carries the
// factor's attributed multiplier after joint correction; the caller fills
// in absolute risk deltas against its baseline.
func drivers(factors []ActiveFactor) []model.RiskDriver {
	effects := make([]factorEffect, len(factors))
	for i, f := range factors {
		effects[i] = factorEffect{group: f.Spec.JointGroup, effect: f.HR - 1}
	}
	attributed := attributeEffects(effects)

	out := make([]model.RiskDriver, len(factors))
	for i, f := range factors {
		hr := 1 + attributed[i]
		impact := model.ImpactNeutral
		switch {
		case hr > 1+neutralBand:
			impact = model.ImpactIncrease
		case hr < 1-neutralBand:
			impact = model.ImpactDecrease
		}
		out[i] = model.RiskDriver{
			Factor:      f.Spec.ID,
			Level:       f.Level,
			Description: f.Spec.Describe(f.Level),
			Source:      f.Prior.Source,
			HazardRatio: hr,
			Impact:      impact,
			Confidence:  f.Spec.Confidence,
		}
	}
	return out
}
