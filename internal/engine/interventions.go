package engine

import (
	"context"

	"mortality-engine/internal/model"
)

// transform applies one intervention to a copy of the profile. applicable is
// false when the profile has nothing for the intervention to change.
func transform(p model.Profile, iv model.Intervention) (model.Profile, bool) {
	switch iv {
	case model.InterventionQuitSmoking:
		if p.Smoking != model.SmokingCurrent {
			return p, false
		}
		p.Smoking = model.SmokingFormer
		p.YearsSinceQuit = 0
		return p, true

	case model.InterventionIncreaseActivity:
		if p.ActivityMinutes >= 150 {
			return p, false
		}
		p.ActivityMinutes = 150
		return p, true

	case model.InterventionReduceAlcohol:
		if p.Alcohol != model.AlcoholHeavy {
			return p, false
		}
		p.Alcohol = model.AlcoholModerate
		return p, true

	case model.InterventionTreatBP:
		if p.SystolicBP < 130 || p.BPTreated {
			return p, false
		}
		p.BPTreated = true
		return p, true

	case model.InterventionLoseWeight:
		switch p.BodyMass {
		case model.BodyMassSeverelyObese, model.BodyMassObese:
			p.BodyMass = model.BodyMassOverweight
			return p, true
		case model.BodyMassOverweight:
			p.BodyMass = model.BodyMassNormal
			return p, true
		default:
			return p, false
		}

	default:
		return p, false
	}
}

// ModelInterventions re-estimates the profile under each requested what-if
// scenario, deterministically, and reports the risk change against the
// unmodified estimate. A combined effect applying every applicable
// intervention at once is included when more than one applies.
func (e *Engine) ModelInterventions(ctx context.Context, req *model.InterventionRequest) (*model.InterventionResponse, error) {
	current, err := e.Estimate(ctx, &model.EstimateRequest{Profile: req.Profile})
	if err != nil {
		return nil, err
	}

	resp := &model.InterventionResponse{Current: current}

	combined := req.Profile
	applicableCount := 0

	for _, iv := range req.Interventions {
		modified, ok := transform(req.Profile, iv)
		if !ok {
			resp.Effects = append(resp.Effects, model.InterventionEffect{
				Intervention:   iv,
				Applicable:     false,
				OneYearRisk:    current.OneYearRisk,
				LifeExpectancy: current.MedianLifeExpectancy,
			})
			continue
		}
		applicableCount++
		combined, _ = transform(combined, iv)

		est, err := e.Estimate(ctx, &model.EstimateRequest{Profile: modified})
		if err != nil {
			return nil, err
		}
		resp.Effects = append(resp.Effects, effect(iv, current, est))
	}

	if applicableCount > 1 {
		est, err := e.Estimate(ctx, &model.EstimateRequest{Profile: combined})
		if err != nil {
			return nil, err
		}
		c := effect("", current, est)
		resp.Combined = &c
	}
	return resp, nil
}

func effect(iv model.Intervention, current, modified *model.EstimationResult) model.InterventionEffect {
	abs := current.OneYearRisk - modified.OneYearRisk
	rel := 0.0
	if current.OneYearRisk > 0 {
		rel = abs / current.OneYearRisk
	}
	return model.InterventionEffect{
		Intervention:      iv,
		Applicable:        true,
		OneYearRisk:       modified.OneYearRisk,
		AbsoluteReduction: abs,
		RelativeReduction: rel,
		LifeExpectancy:    modified.MedianLifeExpectancy,
		YearsGained:       modified.MedianLifeExpectancy - current.MedianLifeExpectancy,
	}
}
