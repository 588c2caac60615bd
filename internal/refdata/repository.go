package refdata

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"mortality-engine/internal/model"
)

//go:embed tables/*.yaml
var tables embed.FS

type baselineFile struct {
	Version string                 `yaml:"version"`
	Source  string                 `yaml:"source"`
	Rows    []BaselineMortalityRow `yaml:"rows"`
}

type causeFile struct {
	Version string `yaml:"version"`
	Source  string `yaml:"source"`
	Bands   []struct {
		Band      string             `yaml:"band"`
		Sex       model.Sex          `yaml:"sex"`
		Fractions map[string]float64 `yaml:"fractions"`
	} `yaml:"bands"`
}

type priorFile struct {
	Version string `yaml:"version"`
	Factors []struct {
		Factor string `yaml:"factor"`
		Levels []struct {
			Level  string  `yaml:"level"`
			HR     float64 `yaml:"hr"`
			LogSD  float64 `yaml:"log_sd"`
			Source string  `yaml:"source"`
		} `yaml:"levels"`
	} `yaml:"factors"`
}

type baselineKey struct {
	age int
	sex model.Sex
}

type causeKey struct {
	band string
	sex  model.Sex
}

type priorKey struct {
	factor string
	level  string
}

// Repository serves the bundled reference tables. Lifecycle is
// load -> validate -> serve: the tables are parsed and checked once, and are
// immutable afterwards, so concurrent reads need no locking. A repository
// that failed validation returns the integrity error from every lookup.
type Repository struct {
	baseline map[baselineKey]BaselineMortalityRow
	causes   map[causeKey]model.CauseMix
	priors   map[priorKey]HazardRatioPrior
	versions Versions

	minAge, maxAge int
	invalid        *model.DataIntegrityError
}

// New loads and validates the embedded reference tables. The returned error
// is a *model.DataIntegrityError when the tables are malformed; the
// repository is still returned so its Status can be inspected.
func New() (*Repository, error) {
	r := &Repository{
		baseline: make(map[baselineKey]BaselineMortalityRow),
		causes:   make(map[causeKey]model.CauseMix),
		priors:   make(map[priorKey]HazardRatioPrior),
	}
	if err := r.load(); err != nil {
		return nil, fmt.Errorf("loading reference tables: %w", err)
	}
	if err := r.validate(); err != nil {
		r.invalid = err
		return r, err
	}
	return r, nil
}

func (r *Repository) load() error {
	raw, err := tables.ReadFile("tables/baseline_mortality.yaml")
	if err != nil {
		return err
	}
	var bf baselineFile
	if err := yaml.Unmarshal(raw, &bf); err != nil {
		return fmt.Errorf("baseline_mortality.yaml: %w", err)
	}
	r.versions.Baseline = bf.Version
	r.minAge, r.maxAge = 0, 0
	for _, row := range bf.Rows {
		r.baseline[baselineKey{row.Age, row.Sex}] = row
		if r.minAge == 0 || row.Age < r.minAge {
			r.minAge = row.Age
		}
		if row.Age > r.maxAge {
			r.maxAge = row.Age
		}
	}

	raw, err = tables.ReadFile("tables/cause_fractions.yaml")
	if err != nil {
		return err
	}
	var cf causeFile
	if err := yaml.Unmarshal(raw, &cf); err != nil {
		return fmt.Errorf("cause_fractions.yaml: %w", err)
	}
	r.versions.Causes = cf.Version
	for _, band := range cf.Bands {
		mix := make(model.CauseMix, len(band.Fractions))
		for cause, frac := range band.Fractions {
			mix[model.Cause(cause)] = frac
		}
		r.causes[causeKey{band.Band, band.Sex}] = mix
	}

	raw, err = tables.ReadFile("tables/hazard_priors.yaml")
	if err != nil {
		return err
	}
	var pf priorFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return fmt.Errorf("hazard_priors.yaml: %w", err)
	}
	r.versions.Priors = pf.Version
	for _, factor := range pf.Factors {
		for _, lv := range factor.Levels {
			r.priors[priorKey{factor.Factor, lv.Level}] = HazardRatioPrior{
				Factor:      factor.Factor,
				Level:       lv.Level,
				HazardRatio: lv.HR,
				LogSD:       lv.LogSD,
				Source:      lv.Source,
			}
		}
	}
	return nil
}

// BaselineRow looks up the life-table row for (age, sex). Sex "other" is
// served as the pointwise average of the male and female rows: the bundled
// tables are sex-binary, and averaging is order-independent and preserves
// the monotonicity the tables guarantee.
func (r *Repository) BaselineRow(age int, sex model.Sex) (BaselineMortalityRow, error) {
	if r.invalid != nil {
		return BaselineMortalityRow{}, r.invalid
	}
	if sex == model.SexOther {
		m, err := r.BaselineRow(age, model.SexMale)
		if err != nil {
			return BaselineMortalityRow{}, err
		}
		f, err := r.BaselineRow(age, model.SexFemale)
		if err != nil {
			return BaselineMortalityRow{}, err
		}
		return BaselineMortalityRow{
			Age: age,
			Sex: model.SexOther,
			Qx:  (m.Qx + f.Qx) / 2,
			Ex:  (m.Ex + f.Ex) / 2,
		}, nil
	}
	row, ok := r.baseline[baselineKey{age, sex}]
	if !ok {
		return BaselineMortalityRow{}, &model.LookupMissError{Age: age, Sex: sex}
	}
	return row, nil
}

// CauseFractions returns a copy of the cause mix for (ageBand, sex). Sex
// "other" averages the male and female mixes and renormalizes.
func (r *Repository) CauseFractions(ageBand string, sex model.Sex) (model.CauseMix, error) {
	if r.invalid != nil {
		return nil, r.invalid
	}
	if sex == model.SexOther {
		m, err := r.CauseFractions(ageBand, model.SexMale)
		if err != nil {
			return nil, err
		}
		f, err := r.CauseFractions(ageBand, model.SexFemale)
		if err != nil {
			return nil, err
		}
		avg := make(model.CauseMix, len(m))
		var total float64
		for cause, frac := range m {
			avg[cause] = (frac + f[cause]) / 2
			total += avg[cause]
		}
		for cause := range avg {
			avg[cause] /= total
		}
		return avg, nil
	}
	mix, ok := r.causes[causeKey{ageBand, sex}]
	if !ok {
		return nil, fmt.Errorf("no cause fractions for band %s, sex %s", ageBand, sex)
	}
	out := make(model.CauseMix, len(mix))
	for cause, frac := range mix {
		out[cause] = frac
	}
	return out, nil
}

// HazardRatioPrior returns the prior for (factor, level); absent priors are
// reported via the boolean, not an error, since a missing level simply means
// the factor does not contribute.
func (r *Repository) HazardRatioPrior(factor, level string) (HazardRatioPrior, bool) {
	if r.invalid != nil {
		return HazardRatioPrior{}, false
	}
	p, ok := r.priors[priorKey{factor, level}]
	return p, ok
}

func (r *Repository) Versions() Versions {
	return r.versions
}

// TableStatus describes one loaded table for the data-status endpoint.
type TableStatus struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Rows    int    `json:"rows"`
}

// Status reports the loaded tables and overall validity.
type Status struct {
	Valid     bool          `json:"valid"`
	Problems  []string      `json:"problems,omitempty"`
	Tables    []TableStatus `json:"tables"`
	AgeRange  string        `json:"age_range"`
	CauseKeys int           `json:"cause_bands"`
}

func (r *Repository) Status() Status {
	s := Status{
		Valid: r.invalid == nil,
		Tables: []TableStatus{
			{Name: "baseline_mortality", Version: r.versions.Baseline, Rows: len(r.baseline)},
			{Name: "cause_fractions", Version: r.versions.Causes, Rows: len(r.causes)},
			{Name: "hazard_priors", Version: r.versions.Priors, Rows: len(r.priors)},
		},
		AgeRange:  fmt.Sprintf("%d-%d", r.minAge, r.maxAge),
		CauseKeys: len(r.causes),
	}
	if r.invalid != nil {
		s.Problems = r.invalid.Problems
	}
	return s
}
