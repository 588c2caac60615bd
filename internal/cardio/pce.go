// Package cardio implements the Pooled Cohort Equations for 10-year ASCVD
// risk (Goff et al. 2013, Table A coefficients). The result is auxiliary:
// it is reported next to the all-cause estimate and never combined with it.
package cardio

import (
	"math"

	"mortality-engine/internal/model"
)

const source = "Goff et al. 2013, Circulation 129:S49 (Pooled Cohort Equations, Table A)"

// PCE is validated for ages 40-79 only.
const (
	minAge = 40
	maxAge = 79
)

type coefficients struct {
	lnAge, lnAgeSquared                    float64
	lnTotalChol, lnAgeXLnTotalChol         float64
	lnHDL, lnAgeXLnHDL                     float64
	lnSBPTreated, lnAgeXLnSBPTreated       float64
	lnSBPUntreated, lnAgeXLnSBPUntreated   float64
	smoker, lnAgeXSmoker                   float64
	diabetes                               float64
	meanCoefficientSum, baselineSurvival10 float64
}

// Table A parameters. The bundled profile carries no race field, so the
// white-population coefficient sets serve as the general-population default,
// the same fallback the equations' guideline prescribes for other groups.
var coeffBySex = map[model.Sex]coefficients{
	model.SexMale: {
		lnAge:              12.344,
		lnTotalChol:        11.853,
		lnAgeXLnTotalChol:  -2.664,
		lnHDL:              -7.990,
		lnAgeXLnHDL:        1.769,
		lnSBPTreated:       1.797,
		lnSBPUntreated:     1.764,
		smoker:             7.837,
		lnAgeXSmoker:       -1.795,
		diabetes:           0.658,
		meanCoefficientSum: 61.18,
		baselineSurvival10: 0.9144,
	},
	model.SexFemale: {
		lnAge:              -29.799,
		lnAgeSquared:       4.884,
		lnTotalChol:        13.540,
		lnAgeXLnTotalChol:  -3.114,
		lnHDL:              -13.578,
		lnAgeXLnHDL:        3.149,
		lnSBPTreated:       2.019,
		lnSBPUntreated:     1.957,
		smoker:             7.574,
		lnAgeXSmoker:       -1.665,
		diabetes:           0.661,
		meanCoefficientSum: -29.18,
		baselineSurvival10: 0.9665,
	},
}

// Estimate computes the 10-year ASCVD risk for the profile. It returns nil
// when the equations do not apply: missing cholesterol panel, age outside
// 40-79, or sex without a published coefficient set.
func Estimate(p *model.Profile) *model.CardioRisk {
	if p.TotalCholesterol == 0 || p.HDLCholesterol == 0 {
		return nil
	}
	if p.Age < minAge || p.Age > maxAge {
		return nil
	}
	coeff, ok := coeffBySex[p.Sex]
	if !ok {
		return nil
	}

	sbp := p.SystolicBP
	if sbp == 0 {
		sbp = 120
	}
	smoker := p.Smoking == model.SmokingCurrent

	lnAge := math.Log(float64(p.Age))
	lnChol := math.Log(p.TotalCholesterol)
	lnHDL := math.Log(p.HDLCholesterol)
	lnSBP := math.Log(sbp)

	sum := coeff.lnAge * lnAge
	sum += coeff.lnAgeSquared * lnAge * lnAge
	sum += coeff.lnTotalChol * lnChol
	sum += coeff.lnAgeXLnTotalChol * lnAge * lnChol
	sum += coeff.lnHDL * lnHDL
	sum += coeff.lnAgeXLnHDL * lnAge * lnHDL
	if p.BPTreated {
		sum += coeff.lnSBPTreated * lnSBP
		sum += coeff.lnAgeXLnSBPTreated * lnAge * lnSBP
	} else {
		sum += coeff.lnSBPUntreated * lnSBP
		sum += coeff.lnAgeXLnSBPUntreated * lnAge * lnSBP
	}
	if smoker {
		sum += coeff.smoker
		sum += coeff.lnAgeXSmoker * lnAge
	}
	if p.Diabetes {
		sum += coeff.diabetes
	}

	risk10 := 1 - math.Pow(coeff.baselineSurvival10, math.Exp(sum-coeff.meanCoefficientSum))

	population := "general_male"
	if p.Sex == model.SexFemale {
		population = "general_female"
	}

	return &model.CardioRisk{
		Risk10Year: risk10,
		Risk5Year:  risk10 * 0.6,
		Risk1Year:  risk10 * 0.1,
		RiskLevel:  classify(risk10),
		Population: population,
		Source:     source,
	}
}

// classify follows the 2018 ACC/AHA prevention guideline bands.
func classify(risk10 float64) model.RiskLevel {
	switch {
	case risk10 < 0.05:
		return model.RiskLow
	case risk10 < 0.075:
		return model.RiskModerate
	case risk10 < 0.20:
		return model.RiskHigh
	default:
		return model.RiskVeryHigh
	}
}
