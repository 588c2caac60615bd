package refdata

import (
	"fmt"
	"math"

	"mortality-engine/internal/model"
)

const (
	// causeSumTolerance bounds the allowed drift of a cause mix away from 1.
	causeSumTolerance = 1e-6

	// monotoneFromAge is the first age from which qx must be non-decreasing.
	// Below it, accident-driven mortality humps are legitimate.
	monotoneFromAge = 30
)

// validate runs the integrity checks the Provider contract requires. A
// non-nil result marks the repository invalid: every dependent call must
// fail rather than compute on corrupt tables.
func (r *Repository) validate() *model.DataIntegrityError {
	var problems []string

	for _, sex := range []model.Sex{model.SexMale, model.SexFemale} {
		prev := -1.0
		for age := r.minAge; age <= r.maxAge; age++ {
			row, ok := r.baseline[baselineKey{age, sex}]
			if !ok {
				problems = append(problems, fmt.Sprintf("missing baseline row for age %d, sex %s", age, sex))
				continue
			}
			if row.Qx <= 0 || row.Qx >= 1 {
				problems = append(problems, fmt.Sprintf("qx out of (0,1) at age %d, sex %s: %g", age, sex, row.Qx))
			}
			if row.Ex < 0 {
				problems = append(problems, fmt.Sprintf("negative ex at age %d, sex %s: %g", age, sex, row.Ex))
			}
			if age >= monotoneFromAge && row.Qx < prev {
				problems = append(problems, fmt.Sprintf("qx decreases at age %d, sex %s: %g < %g", age, sex, row.Qx, prev))
			}
			if age >= monotoneFromAge {
				prev = row.Qx
			}
		}
	}

	for key, mix := range r.causes {
		var sum float64
		for _, cause := range model.Causes {
			frac, ok := mix[cause]
			if !ok {
				problems = append(problems, fmt.Sprintf("band %s/%s missing cause %s", key.band, key.sex, cause))
				continue
			}
			if frac < 0 {
				problems = append(problems, fmt.Sprintf("band %s/%s negative fraction for %s", key.band, key.sex, cause))
			}
			sum += frac
		}
		if len(mix) != len(model.Causes) {
			problems = append(problems, fmt.Sprintf("band %s/%s has %d causes, want %d", key.band, key.sex, len(mix), len(model.Causes)))
		}
		if math.Abs(sum-1) > causeSumTolerance {
			problems = append(problems, fmt.Sprintf("band %s/%s fractions sum to %.8f", key.band, key.sex, sum))
		}
	}

	for key, prior := range r.priors {
		if prior.HazardRatio <= 0 {
			problems = append(problems, fmt.Sprintf("prior %s/%s has non-positive hazard ratio %g", key.factor, key.level, prior.HazardRatio))
		}
		if prior.LogSD < 0 {
			problems = append(problems, fmt.Sprintf("prior %s/%s has negative log sd %g", key.factor, key.level, prior.LogSD))
		}
	}

	if len(problems) > 0 {
		return &model.DataIntegrityError{Problems: problems}
	}
	return nil
}
