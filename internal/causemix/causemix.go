// Package causemix reweights baseline cause-of-death fractions according to
// a profile's risk factors.
package causemix

import (
	"mortality-engine/internal/model"
)

// Horizon selects which reweighting rules apply. Some effects, vaccination
// above all, are modeled for the 1-year horizon only.
type Horizon int

const (
	OneYear Horizon = iota
	Lifetime
)

// FactorLevel identifies one active risk factor at its resolved level.
type FactorLevel struct {
	Factor string
	Level  string
}

type rule struct {
	multipliers map[model.Cause]float64
	oneYearOnly bool
}

// rules maps factor -> level -> cause-share multipliers. Causes not listed
// keep their baseline share before renormalization. Extending the model to
// a new factor is a data change here.
var rules = map[string]map[string]rule{
	"smoking": {
		"current": {multipliers: map[model.Cause]float64{
			model.CauseRespiratory:    2.0,
			model.CauseCancer:         1.5,
			model.CauseCardiovascular: 1.3,
		}},
		"former": {multipliers: map[model.Cause]float64{
			model.CauseRespiratory: 1.3,
			model.CauseCancer:      1.2,
		}},
	},
	"alcohol": {
		"heavy": {multipliers: map[model.Cause]float64{
			model.CauseInjury:         2.0,
			model.CauseCancer:         1.2,
			model.CauseCardiovascular: 1.2,
			model.CauseOther:          1.3,
		}},
	},
	"activity": {
		"sedentary": {multipliers: map[model.Cause]float64{
			model.CauseCardiovascular: 1.3,
			model.CauseMetabolic:      1.3,
		}},
		"low": {multipliers: map[model.Cause]float64{
			model.CauseCardiovascular: 1.1,
			model.CauseMetabolic:      1.1,
		}},
		"high": {multipliers: map[model.Cause]float64{
			model.CauseCardiovascular: 0.85,
		}},
	},
	"body_mass": {
		"underweight": {multipliers: map[model.Cause]float64{
			model.CauseRespiratory: 1.4,
			model.CauseInfectious:  1.3,
		}},
		"overweight": {multipliers: map[model.Cause]float64{
			model.CauseCardiovascular: 1.1,
			model.CauseMetabolic:      1.2,
		}},
		"obese": {multipliers: map[model.Cause]float64{
			model.CauseCardiovascular: 1.3,
			model.CauseMetabolic:      1.8,
		}},
		"severely_obese": {multipliers: map[model.Cause]float64{
			model.CauseCardiovascular: 1.5,
			model.CauseMetabolic:      2.2,
			model.CauseRespiratory:    1.3,
		}},
	},
	"blood_pressure": {
		"elevated": {multipliers: map[model.Cause]float64{
			model.CauseCardiovascular: 1.2,
		}},
		"stage_1": {multipliers: map[model.Cause]float64{
			model.CauseCardiovascular: 1.4,
		}},
		"stage_2": {multipliers: map[model.Cause]float64{
			model.CauseCardiovascular: 1.7,
			model.CauseNeurological:   1.2,
		}},
	},
	"diabetes": {
		"present": {multipliers: map[model.Cause]float64{
			model.CauseMetabolic:      2.5,
			model.CauseCardiovascular: 1.4,
		}},
	},
	"flu_vaccination": {
		"unvaccinated": {oneYearOnly: true, multipliers: map[model.Cause]float64{
			model.CauseRespiratory: 1.3,
			model.CauseInfectious:  1.2,
		}},
	},
	"covid_vaccination": {
		"unvaccinated": {oneYearOnly: true, multipliers: map[model.Cause]float64{
			model.CauseInfectious:  1.3,
			model.CauseRespiratory: 1.15,
		}},
	},
}

// Reweight applies the factor-specific multipliers to the baseline mix and
// renormalizes so the fractions sum to exactly 1 across all categories.
// Renormalization is mandatory; it is the defining post-condition of this
// package.
func Reweight(baseline model.CauseMix, factors []FactorLevel, horizon Horizon) model.CauseMix {
	out := make(model.CauseMix, len(baseline))
	for cause, frac := range baseline {
		out[cause] = frac
	}

	for _, fl := range factors {
		levels, ok := rules[fl.Factor]
		if !ok {
			continue
		}
		r, ok := levels[fl.Level]
		if !ok {
			continue
		}
		if r.oneYearOnly && horizon == Lifetime {
			continue
		}
		for cause, mult := range r.multipliers {
			out[cause] *= mult
		}
	}

	var sum float64
	for _, frac := range out {
		sum += frac
	}
	if sum > 0 {
		for cause := range out {
			out[cause] /= sum
		}
	}
	return out
}
