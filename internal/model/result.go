package model

// Cause identifies one of the fixed cause-of-death categories.
type Cause string

const (
	CauseCardiovascular Cause = "cardiovascular"
	CauseCancer         Cause = "cancer"
	CauseRespiratory    Cause = "respiratory"
	CauseInjury         Cause = "injury"
	CauseMetabolic      Cause = "metabolic"
	CauseNeurological   Cause = "neurological"
	CauseInfectious     Cause = "infectious"
	CauseOther          Cause = "other"
)

// Causes lists every category in reporting order. A cause mix always covers
// exactly this set.
var Causes = []Cause{
	CauseCardiovascular,
	CauseCancer,
	CauseRespiratory,
	CauseInjury,
	CauseMetabolic,
	CauseNeurological,
	CauseInfectious,
	CauseOther,
}

// CauseMix maps every cause category to its fraction of total deaths.
// Fractions sum to 1.
type CauseMix map[Cause]float64

type Impact string

const (
	ImpactIncrease Impact = "increase"
	ImpactDecrease Impact = "decrease"
	ImpactNeutral  Impact = "neutral"
)

type ConfidenceTier string

const (
	ConfidenceHigh     ConfidenceTier = "high"
	ConfidenceModerate ConfidenceTier = "moderate"
	ConfidenceLow      ConfidenceTier = "low"
)

// RiskDriver reports one risk factor's contribution to the estimate.
type RiskDriver struct {
	Factor      string         `json:"factor"`
	Level       string         `json:"level"`
	Description string         `json:"description"`
	Source      string         `json:"source,omitempty"`
	HazardRatio float64        `json:"hazard_ratio"`
	RiskDelta   float64        `json:"one_year_risk_delta"`
	Impact      Impact         `json:"impact"`
	Confidence  ConfidenceTier `json:"confidence"`
}

// SurvivalCurvePoint is one step of a survival curve. Survival is cumulative
// from the profile's current age and starts at exactly 1.0.
type SurvivalCurvePoint struct {
	Age               int     `json:"age"`
	Survival          float64 `json:"survival"`
	Hazard            float64 `json:"hazard"`
	AnnualProbability float64 `json:"annual_probability"`
}

// Interval is an 80% uncertainty interval (10th to 90th percentile).
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskVeryHigh RiskLevel = "very_high"
)

// CardioRisk is the auxiliary Pooled Cohort Equations output. It is reported
// alongside the all-cause estimate and never folded into it.
type CardioRisk struct {
	Risk10Year float64   `json:"risk_10_year"`
	Risk5Year  float64   `json:"risk_5_year"`
	Risk1Year  float64   `json:"risk_1_year"`
	RiskLevel  RiskLevel `json:"risk_level"`
	Population string    `json:"population"`
	Source     string    `json:"source"`
}

// Disclaimer is shown verbatim by any consumer of an EstimationResult.
const Disclaimer = "This is an educational estimate derived from population " +
	"statistics. It is not medical advice, a diagnosis, or a prediction for " +
	"any individual. Consult a healthcare professional about personal health decisions."

// EstimationResult is the full output bundle of one estimation. It is
// created once per call and never mutated afterwards.
type EstimationResult struct {
	EstimationID string `json:"estimation_id"`

	OneYearRisk         float64   `json:"one_year_risk"`
	OneYearRiskInterval Interval  `json:"one_year_risk_interval"`
	RiskLevel           RiskLevel `json:"risk_level"`

	MedianLifeExpectancy   float64  `json:"median_life_expectancy"`
	LifeExpectancyInterval Interval `json:"life_expectancy_interval"`

	BaselineOneYearRisk    float64 `json:"baseline_one_year_risk"`
	BaselineLifeExpectancy float64 `json:"baseline_life_expectancy"`
	CombinedHazardRatio    float64 `json:"combined_hazard_ratio"`

	Drivers []RiskDriver `json:"drivers"`

	OneYearCauseMix  CauseMix `json:"one_year_cause_mix"`
	LifetimeCauseMix CauseMix `json:"lifetime_cause_mix"`

	SurvivalCurve []SurvivalCurvePoint `json:"survival_curve,omitempty"`

	Cardiovascular *CardioRisk `json:"cardiovascular_risk,omitempty"`

	// EffectiveReplicates is the number of bootstrap replicates that
	// contributed sampled values; zero when uncertainty was not requested.
	EffectiveReplicates int      `json:"effective_replicates,omitempty"`
	Warnings            []string `json:"warnings,omitempty"`

	ModelVersion string `json:"model_version"`
	DataVersion  string `json:"data_version"`
	ComputedAt   string `json:"computed_at"`
	DurationMs   int64  `json:"duration_ms"`
	Disclaimer   string `json:"disclaimer"`
}

// ClassifyRisk maps an annual death probability to a coarse risk level.
func ClassifyRisk(oneYearRisk float64) RiskLevel {
	switch {
	case oneYearRisk < 0.01:
		return RiskLow
	case oneYearRisk < 0.05:
		return RiskModerate
	case oneYearRisk < 0.15:
		return RiskHigh
	default:
		return RiskVeryHigh
	}
}
