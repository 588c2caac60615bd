package model

// Frequency grades exposure-type indicators for the short-horizon model.
type Frequency string

const (
	FrequencyNone       Frequency = "none"
	FrequencyOccasional Frequency = "occasional"
	FrequencyFrequent   Frequency = "frequent"
)

// ShortHorizonInput carries the acute and situational indicators of the
// 6-month model. These are deliberately separate from Profile: the
// short-horizon model is not derived from the hazard-ratio machinery.
type ShortHorizonInput struct {
	Age int `json:"age"`
	Sex Sex `json:"sex"`

	RecentHospitalization   bool `json:"recent_hospitalization"`
	FallsLastSixMonths      int  `json:"falls_last_six_months"`
	ERVisitsLastYear        int  `json:"er_visits_last_year"`
	FunctionalDecline       bool `json:"functional_decline"`
	CognitiveDecline        bool `json:"cognitive_decline"`
	SociallyIsolated        bool `json:"socially_isolated"`
	SubstanceUse            bool `json:"substance_use"`
	PoorMedicationAdherence bool `json:"poor_medication_adherence"`
	PoorNutrition           bool `json:"poor_nutrition"`
	FamilyHistoryEarlyDeath bool `json:"family_history_early_death"`

	DrivingFrequency Frequency `json:"driving_frequency"`
	CyclingActivity  Frequency `json:"cycling_activity"`
}

// ShortHorizonContributor is one scored indicator, reported by magnitude.
type ShortHorizonContributor struct {
	Factor      string  `json:"factor"`
	Points      float64 `json:"points"`
	Description string  `json:"description"`
}

// ShortHorizonResult is the 6-month model output.
type ShortHorizonResult struct {
	Score               float64                   `json:"score"`
	Band                RiskLevel                 `json:"band"`
	SixMonthProbability float64                   `json:"six_month_probability"`
	BaselineProbability float64                   `json:"baseline_probability"`
	TopContributors     []ShortHorizonContributor `json:"top_contributors"`
	Guidance            []string                  `json:"guidance"`
	EmergencyResources  []string                  `json:"emergency_resources,omitempty"`
	ModelVersion        string                    `json:"model_version"`
	Disclaimer          string                    `json:"disclaimer"`
}
