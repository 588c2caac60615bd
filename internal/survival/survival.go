// Package survival holds the pure conversions between annual death
// probabilities, instantaneous hazards, and survival curves.
package survival

import (
	"math"

	"mortality-engine/internal/model"
)

const (
	// probEpsilon and probCeiling clamp annual probabilities before hazard
	// conversion so the log never produces infinite or negative hazards.
	probEpsilon = 1e-10
	probCeiling = 0.5
)

// ProbabilityToHazard converts an annual death probability to an
// instantaneous hazard via -ln(1-q). The probability is clamped to
// [probEpsilon, probCeiling] first.
func ProbabilityToHazard(q float64) float64 {
	if q < probEpsilon {
		q = probEpsilon
	}
	if q > probCeiling {
		q = probCeiling
	}
	return -math.Log(1 - q)
}

// HazardToProbability is the inverse conversion, 1 - e^(-h).
func HazardToProbability(h float64) float64 {
	return 1 - math.Exp(-h)
}

// ApplyHazardRatio applies a hazard ratio to an annual death probability in
// hazard space. This is the canonical way risk factors act on baseline
// mortality: hazards compose multiplicatively and the reconverted
// probability stays in (0,1).
func ApplyHazardRatio(q, hr float64) float64 {
	return HazardToProbability(ProbabilityToHazard(q) * hr)
}

// SixMonthProbability converts an annual death probability to a 6-month one,
// 1 - (1-q)^0.5.
func SixMonthProbability(q float64) float64 {
	return 1 - math.Sqrt(1-q)
}

// BuildCurve constructs a survival curve from startAge over the given annual
// probabilities, stopping at maxAge or when the sequence is exhausted. The
// first point's survival is exactly 1.0.
func BuildCurve(startAge int, annualProbabilities []float64, maxAge int) []model.SurvivalCurvePoint {
	var curve []model.SurvivalCurvePoint
	surv := 1.0
	for i, q := range annualProbabilities {
		age := startAge + i
		if age > maxAge {
			break
		}
		curve = append(curve, model.SurvivalCurvePoint{
			Age:               age,
			Survival:          surv,
			Hazard:            ProbabilityToHazard(q),
			AnnualProbability: q,
		})
		surv *= 1 - q
	}
	return curve
}

// LifeExpectancy integrates a survival curve into expected remaining years.
// The 0.5 is a mid-year correction for the current partial year.
func LifeExpectancy(curve []model.SurvivalCurvePoint) float64 {
	if len(curve) == 0 {
		return 0
	}
	total := 0.5
	for i := 1; i < len(curve); i++ {
		total += curve[i].Survival
	}
	return total
}

// MedianSurvivalAge returns the years from the curve's start until
// cumulative survival first drops to 0.5 or below. If survival never drops
// below 0.5 over the curve, the full curve length is returned; that is the
// documented boundary behavior, not an error.
func MedianSurvivalAge(curve []model.SurvivalCurvePoint) float64 {
	return QuantileSurvivalAge(curve, 0.5)
}

// QuantileSurvivalAge generalizes MedianSurvivalAge to an arbitrary
// survival quantile q in (0,1).
func QuantileSurvivalAge(curve []model.SurvivalCurvePoint, q float64) float64 {
	for i, point := range curve {
		if point.Survival <= q {
			return float64(i)
		}
	}
	return float64(len(curve))
}
