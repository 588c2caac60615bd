package refdata

import "mortality-engine/internal/model"

// BaselineMortalityRow is one life-table entry: the annual death probability
// and remaining life expectancy for an (age, sex) pair.
type BaselineMortalityRow struct {
	Age int       `yaml:"age"`
	Sex model.Sex `yaml:"sex"`
	Qx  float64   `yaml:"qx"`
	Ex  float64   `yaml:"ex"`
}

// HazardRatioPrior is the published effect estimate for one factor level:
// a central hazard ratio and a log-scale standard deviation for sampling.
type HazardRatioPrior struct {
	Factor      string
	Level       string
	HazardRatio float64
	LogSD       float64
	Source      string
}

// Versions identifies the loaded reference tables for provenance.
type Versions struct {
	Baseline string `json:"baseline"`
	Causes   string `json:"causes"`
	Priors   string `json:"priors"`
}

// Provider is the reference-data contract the engine consumes. Implementations
// must be internally consistent before serving: a provider that failed its
// integrity checks returns a DataIntegrityError from every lookup.
type Provider interface {
	BaselineRow(age int, sex model.Sex) (BaselineMortalityRow, error)
	CauseFractions(ageBand string, sex model.Sex) (model.CauseMix, error)
	HazardRatioPrior(factor, level string) (HazardRatioPrior, bool)
	Versions() Versions
}

// AgeBand maps an age onto the cause-fraction table's band key.
func AgeBand(age int) string {
	switch {
	case age < 30:
		return "18-29"
	case age < 45:
		return "30-44"
	case age < 60:
		return "45-59"
	case age < 75:
		return "60-74"
	default:
		return "75+"
	}
}
