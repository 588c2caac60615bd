// Package shorthorizon scores 6-month mortality risk from acute and
// situational indicators. It is deliberately decoupled from the
// hazard-ratio machinery of the main engine: its inputs, weights, and
// thresholds are its own and are never reconciled with the 1-year model.
package shorthorizon

import (
	"fmt"
	"math"
	"sort"

	"mortality-engine/internal/model"
	"mortality-engine/internal/refdata"
	"mortality-engine/internal/survival"
)

const ModelVersion = "short-horizon-1.0"

// maxSixMonthProbability caps the absolute probability output.
const maxSixMonthProbability = 0.5

// indicator is one scored input: score points for the 0-100 scale and a
// multiplier on the baseline 6-month probability. Count-type indicators
// scale both, bounded by maxCount.
type indicator struct {
	name       string
	points     float64
	multiplier float64
	maxCount   int
	describe   string
	guidance   string
}

var boolIndicators = map[string]indicator{
	"recent_hospitalization": {
		points: 18, multiplier: 2.0,
		describe: "Hospitalization within the last six months",
		guidance: "Schedule a post-discharge follow-up and medication review",
	},
	"functional_decline": {
		points: 12, multiplier: 1.6,
		describe: "Recent decline in daily functioning",
		guidance: "Ask for a functional assessment and home-safety evaluation",
	},
	"cognitive_decline": {
		points: 10, multiplier: 1.5,
		describe: "Recent cognitive decline",
		guidance: "Seek a cognitive screening and involve a trusted contact in care",
	},
	"socially_isolated": {
		points: 8, multiplier: 1.2,
		describe: "Living socially isolated",
		guidance: "Arrange regular check-ins with family, friends, or community services",
	},
	"substance_use": {
		points: 10, multiplier: 1.4,
		describe: "Active substance use",
		guidance: "Contact a substance-use support program",
	},
	"poor_medication_adherence": {
		points: 8, multiplier: 1.3,
		describe: "Medications not taken as prescribed",
		guidance: "Use a pill organizer or pharmacy blister packs and review the regimen",
	},
	"poor_nutrition": {
		points: 7, multiplier: 1.25,
		describe: "Inadequate nutrition",
		guidance: "Consider a dietitian referral or meal-delivery support",
	},
	"family_history_early_death": {
		points: 4, multiplier: 1.1,
		describe: "Family history of early death",
		guidance: "Share family history with a clinician to guide screening",
	},
}

var countIndicators = map[string]indicator{
	"falls_last_six_months": {
		points: 6, multiplier: 1.15, maxCount: 3,
		describe: "Falls in the last six months",
		guidance: "Request a falls-prevention assessment and review home hazards",
	},
	"er_visits_last_year": {
		points: 5, multiplier: 1.1, maxCount: 3,
		describe: "Emergency department visits in the last year",
		guidance: "Establish continuity with a primary-care clinician",
	},
}

var frequencyPoints = map[string]map[model.Frequency]indicator{
	"driving_frequency": {
		model.FrequencyOccasional: {points: 2, multiplier: 1.05},
		model.FrequencyFrequent:   {points: 5, multiplier: 1.15},
	},
	"cycling_activity": {
		model.FrequencyOccasional: {points: 1, multiplier: 1.02},
		model.FrequencyFrequent:   {points: 3, multiplier: 1.08},
	},
}

var emergencyResources = []string{
	"Emergency services: call 911",
	"988 Suicide & Crisis Lifeline: call or text 988",
	"Eldercare Locator: 1-800-677-1116",
	"Poison Control: 1-800-222-1222",
}

// Model computes the short-horizon score against an age/sex baseline from
// the reference data.
type Model struct {
	provider refdata.Provider
}

func New(provider refdata.Provider) *Model {
	return &Model{provider: provider}
}

// Score computes the 0-100 risk score, its band, and the absolute 6-month
// probability for the given indicators.
func (m *Model) Score(in *model.ShortHorizonInput) (*model.ShortHorizonResult, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	row, err := m.provider.BaselineRow(in.Age, in.Sex)
	if err != nil {
		return nil, err
	}
	baseline := survival.SixMonthProbability(row.Qx)

	// The score floor is the age/sex baseline alone: a profile with zero
	// acute indicators scores exactly this.
	floor := math.Min(20, baseline*200)

	var contributors []model.ShortHorizonContributor
	var guidance []string
	probability := baseline

	addBool := func(key string, active bool) {
		if !active {
			return
		}
		ind := boolIndicators[key]
		contributors = append(contributors, model.ShortHorizonContributor{
			Factor:      key,
			Points:      ind.points,
			Description: ind.describe,
		})
		guidance = append(guidance, ind.guidance)
		probability *= ind.multiplier
	}

	addCount := func(key string, count int) {
		if count <= 0 {
			return
		}
		ind := countIndicators[key]
		n := count
		if n > ind.maxCount {
			n = ind.maxCount
		}
		contributors = append(contributors, model.ShortHorizonContributor{
			Factor:      key,
			Points:      ind.points * float64(n),
			Description: fmt.Sprintf("%s (x%d)", ind.describe, count),
		})
		guidance = append(guidance, ind.guidance)
		probability *= math.Pow(ind.multiplier, float64(n))
	}

	addFrequency := func(key string, freq model.Frequency) {
		ind, ok := frequencyPoints[key][freq]
		if !ok {
			return
		}
		contributors = append(contributors, model.ShortHorizonContributor{
			Factor:      key,
			Points:      ind.points,
			Description: fmt.Sprintf("%s: %s road exposure", key, freq),
		})
		probability *= ind.multiplier
	}

	addBool("recent_hospitalization", in.RecentHospitalization)
	addBool("functional_decline", in.FunctionalDecline)
	addBool("cognitive_decline", in.CognitiveDecline)
	addBool("socially_isolated", in.SociallyIsolated)
	addBool("substance_use", in.SubstanceUse)
	addBool("poor_medication_adherence", in.PoorMedicationAdherence)
	addBool("poor_nutrition", in.PoorNutrition)
	addBool("family_history_early_death", in.FamilyHistoryEarlyDeath)
	addCount("falls_last_six_months", in.FallsLastSixMonths)
	addCount("er_visits_last_year", in.ERVisitsLastYear)
	addFrequency("driving_frequency", in.DrivingFrequency)
	addFrequency("cycling_activity", in.CyclingActivity)

	score := floor
	for _, c := range contributors {
		score += c.Points
	}
	if score > 100 {
		score = 100
	}
	if probability > maxSixMonthProbability {
		probability = maxSixMonthProbability
	}

	band := classify(score)

	sort.SliceStable(contributors, func(i, j int) bool {
		return contributors[i].Points > contributors[j].Points
	})
	if len(contributors) > 5 {
		contributors = contributors[:5]
	}

	res := &model.ShortHorizonResult{
		Score:               score,
		Band:                band,
		SixMonthProbability: probability,
		BaselineProbability: baseline,
		TopContributors:     contributors,
		Guidance:            guidance,
		ModelVersion:        ModelVersion,
		Disclaimer:          model.Disclaimer,
	}
	if band == model.RiskHigh || band == model.RiskVeryHigh {
		res.EmergencyResources = emergencyResources
	}
	return res, nil
}

func classify(score float64) model.RiskLevel {
	switch {
	case score < 25:
		return model.RiskLow
	case score < 50:
		return model.RiskModerate
	case score < 75:
		return model.RiskHigh
	default:
		return model.RiskVeryHigh
	}
}

func validate(in *model.ShortHorizonInput) error {
	var fields []model.FieldError

	if in.Age < model.MinAge || in.Age > model.MaxAge {
		fields = append(fields, model.FieldError{
			Field:   "age",
			Message: fmt.Sprintf("must be between %d and %d, got %d", model.MinAge, model.MaxAge, in.Age),
		})
	}
	switch in.Sex {
	case model.SexMale, model.SexFemale, model.SexOther:
	default:
		fields = append(fields, model.FieldError{
			Field:   "sex",
			Message: fmt.Sprintf("must be one of male, female, other, got %q", in.Sex),
		})
	}
	if in.FallsLastSixMonths < 0 {
		fields = append(fields, model.FieldError{Field: "falls_last_six_months", Message: "must be non-negative"})
	}
	if in.ERVisitsLastYear < 0 {
		fields = append(fields, model.FieldError{Field: "er_visits_last_year", Message: "must be non-negative"})
	}
	for name, freq := range map[string]model.Frequency{
		"driving_frequency": in.DrivingFrequency,
		"cycling_activity":  in.CyclingActivity,
	} {
		switch freq {
		// An omitted field decodes to the empty string and means "none".
		case "", model.FrequencyNone, model.FrequencyOccasional, model.FrequencyFrequent:
		default:
			fields = append(fields, model.FieldError{
				Field:   name,
				Message: fmt.Sprintf("must be one of none, occasional, frequent, got %q", freq),
			})
		}
	}

	if len(fields) > 0 {
		return &model.ValidationError{Fields: fields}
	}
	return nil
}
