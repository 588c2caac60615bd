package hazard

import (
	"mortality-engine/internal/model"
)

// FactorSpec describes one risk factor: how its level is derived from a
// profile, which joint group it belongs to, and how it is reported. Adding
// a factor is a data change here plus a prior row in the reference tables.
type FactorSpec struct {
	ID         string
	JointGroup string // empty for factors with no shared pathway
	Confidence model.ConfidenceTier

	// OneYearOnly factors adjust short-term risk but not the lifetime
	// survival curve (vaccination effects wane within a season).
	OneYearOnly bool

	// Level maps a profile to this factor's prior level. active=false means
	// the factor does not apply to the profile at all.
	Level func(p *model.Profile) (level string, active bool)

	// AdjustHR optionally reshapes the prior's central hazard ratio for the
	// profile (former-smoker decay). Nil means use the prior as-is.
	AdjustHR func(p *model.Profile, hr float64) float64

	Describe func(level string) string
}

// ActivityTier derives the activity prior level from weekly minutes.
func ActivityTier(minutes int) string {
	switch {
	case minutes < 30:
		return "sedentary"
	case minutes < 150:
		return "low"
	case minutes < 300:
		return "active"
	default:
		return "high"
	}
}

// BloodPressureLevel maps a systolic reading onto the prior levels.
func BloodPressureLevel(systolic float64) string {
	switch {
	case systolic < 120:
		return "normal"
	case systolic < 130:
		return "elevated"
	case systolic < 140:
		return "stage_1"
	default:
		return "stage_2"
	}
}

// formerSmokerYearsToNever is the span over which a former smoker's excess
// risk decays back to never-smoker levels (Jha 2013).
const formerSmokerYearsToNever = 15.0

// Registry lists every risk factor the composer knows about, in reporting
// order.
var Registry = []FactorSpec{
	{
		ID:         "smoking",
		JointGroup: "behavioral_lifestyle",
		Confidence: model.ConfidenceHigh,
		Level: func(p *model.Profile) (string, bool) {
			return string(p.Smoking), p.Smoking != ""
		},
		AdjustHR: func(p *model.Profile, hr float64) float64 {
			if p.Smoking != model.SmokingFormer {
				return hr
			}
			recovered := float64(p.YearsSinceQuit) / formerSmokerYearsToNever
			if recovered > 1 {
				recovered = 1
			}
			return 1 + (hr-1)*(1-recovered)
		},
		Describe: func(level string) string {
			switch level {
			case "current":
				return "Current smoking substantially raises all-cause mortality"
			case "former":
				return "Former smoking carries residual risk that fades over about 15 years"
			default:
				return "Never smoking is the reference level"
			}
		},
	},
	{
		ID:         "alcohol",
		JointGroup: "behavioral_lifestyle",
		Confidence: model.ConfidenceModerate,
		Level: func(p *model.Profile) (string, bool) {
			return string(p.Alcohol), p.Alcohol != ""
		},
		Describe: func(level string) string {
			switch level {
			case "heavy":
				return "Heavy drinking raises mortality across several causes, injuries included"
			case "light", "moderate":
				return "Light-to-moderate drinking has no measurable net mortality effect"
			default:
				return "Abstaining is the reference level"
			}
		},
	},
	{
		ID:         "activity",
		JointGroup: "metabolic_syndrome",
		Confidence: model.ConfidenceHigh,
		Level: func(p *model.Profile) (string, bool) {
			return ActivityTier(p.ActivityMinutes), true
		},
		Describe: func(level string) string {
			switch level {
			case "sedentary":
				return "A sedentary lifestyle raises mortality risk by roughly 40%"
			case "low":
				return "Activity below recommended levels carries moderately elevated risk"
			case "high":
				return "High physical activity lowers mortality risk"
			default:
				return "Meeting activity guidelines is the reference level"
			}
		},
	},
	{
		ID:         "body_mass",
		JointGroup: "metabolic_syndrome",
		Confidence: model.ConfidenceModerate,
		Level: func(p *model.Profile) (string, bool) {
			return string(p.BodyMass), p.BodyMass != ""
		},
		Describe: func(level string) string {
			switch level {
			case "underweight":
				return "Underweight is associated with elevated mortality"
			case "overweight":
				return "Overweight carries mildly elevated mortality risk"
			case "obese", "severely_obese":
				return "Obesity raises mortality through cardiovascular and metabolic pathways"
			default:
				return "Normal body mass is the reference level"
			}
		},
	},
	{
		ID:         "blood_pressure",
		JointGroup: "cardio_metabolic",
		Confidence: model.ConfidenceHigh,
		Level: func(p *model.Profile) (string, bool) {
			if p.SystolicBP == 0 {
				return "", false
			}
			return BloodPressureLevel(p.SystolicBP), true
		},
		AdjustHR: func(p *model.Profile, hr float64) float64 {
			// Treatment recovers roughly 30% of the excess hazard.
			if p.BPTreated && hr > 1 {
				return 1 + (hr-1)*0.7
			}
			return hr
		},
		Describe: func(level string) string {
			if level == "normal" {
				return "Normal blood pressure is the reference level"
			}
			return "Elevated systolic blood pressure raises vascular mortality"
		},
	},
	{
		ID:         "diabetes",
		JointGroup: "cardio_metabolic",
		Confidence: model.ConfidenceHigh,
		Level: func(p *model.Profile) (string, bool) {
			if !p.Diabetes {
				return "", false
			}
			return "present", true
		},
		Describe: func(string) string {
			return "Diagnosed diabetes roughly doubles all-cause mortality"
		},
	},
	{
		ID:          "flu_vaccination",
		JointGroup:  "respiratory",
		Confidence:  model.ConfidenceLow,
		OneYearOnly: true,
		// Vaccination is the reference level; the exposure is skipping it.
		Level: func(p *model.Profile) (string, bool) {
			if p.FluVaccinated {
				return "", false
			}
			return "unvaccinated", true
		},
		Describe: func(string) string {
			return "Skipping seasonal influenza vaccination raises near-term respiratory mortality"
		},
	},
	{
		ID:          "covid_vaccination",
		JointGroup:  "respiratory",
		Confidence:  model.ConfidenceLow,
		OneYearOnly: true,
		Level: func(p *model.Profile) (string, bool) {
			if p.CovidVaccinated {
				return "", false
			}
			return "unvaccinated", true
		},
		Describe: func(string) string {
			return "Skipping COVID-19 vaccination raises near-term infectious mortality"
		},
	},
}
