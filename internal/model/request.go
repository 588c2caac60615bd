package model

// EstimateRequest is the wire request for a full estimation.
type EstimateRequest struct {
	Profile            Profile `json:"profile"`
	IncludeUncertainty bool    `json:"include_uncertainty"`
	IncludeCurve       bool    `json:"include_curve"`
	// Seed makes bootstrap sampling reproducible; 0 selects a time-based seed.
	Seed       int64 `json:"seed,omitempty"`
	Replicates int   `json:"replicates,omitempty"`
}

// Intervention identifies a supported what-if scenario.
type Intervention string

const (
	InterventionQuitSmoking      Intervention = "quit_smoking"
	InterventionIncreaseActivity Intervention = "increase_activity"
	InterventionReduceAlcohol    Intervention = "reduce_alcohol"
	InterventionTreatBP          Intervention = "treat_blood_pressure"
	InterventionLoseWeight       Intervention = "lose_weight"
)

// InterventionRequest asks for deterministic re-estimation under one or more
// profile transforms.
type InterventionRequest struct {
	Profile       Profile        `json:"profile"`
	Interventions []Intervention `json:"interventions"`
}

// InterventionEffect reports the risk change from applying one intervention
// to the supplied profile.
type InterventionEffect struct {
	Intervention      Intervention `json:"intervention"`
	Applicable        bool         `json:"applicable"`
	OneYearRisk       float64      `json:"one_year_risk"`
	AbsoluteReduction float64      `json:"absolute_risk_reduction"`
	RelativeReduction float64      `json:"relative_risk_reduction"`
	LifeExpectancy    float64      `json:"median_life_expectancy"`
	YearsGained       float64      `json:"years_gained"`
}

// InterventionResponse bundles the unmodified estimate with the per-scenario
// effects and the combined effect of applying everything at once.
type InterventionResponse struct {
	Current  *EstimationResult    `json:"current"`
	Effects  []InterventionEffect `json:"effects"`
	Combined *InterventionEffect  `json:"combined,omitempty"`
}

// ErrorResponse is the wire shape for every failure.
type ErrorResponse struct {
	Status  int          `json:"status"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}
