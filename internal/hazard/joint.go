package hazard

// JointGroup names a set of risk factors acting through a shared biological
// pathway. Naive multiplication of their hazard ratios double-counts the
// pathway; the coefficient discounts the combined effect instead.
type JointGroup struct {
	Name        string
	Coefficient float64 // in (0,1]
	Description string
}

// JointGroups is the fixed registry of shared-pathway groups. Factor
// membership lives on the FactorSpec; the sets are disjoint.
var JointGroups = map[string]JointGroup{
	"cardio_metabolic": {
		Name:        "cardio_metabolic",
		Coefficient: 0.80,
		Description: "Blood pressure and diabetes overlap on vascular damage",
	},
	"metabolic_syndrome": {
		Name:        "metabolic_syndrome",
		Coefficient: 0.85,
		Description: "Body mass and inactivity overlap on metabolic dysfunction",
	},
	"behavioral_lifestyle": {
		Name:        "behavioral_lifestyle",
		Coefficient: 0.88,
		Description: "Smoking and heavy drinking cluster and share systemic harm",
	},
	"respiratory": {
		Name:        "respiratory",
		Coefficient: 0.90,
		Description: "Missed vaccinations overlap on respiratory-infection mortality",
	},
}

// groupEffect computes the discounted joint effect for one group:
// (1 + sum of individual effects) * coefficient - 1, clamped to be
// non-negative. The clamp guarantees correction never flips a harmful
// combination into protection.
func groupEffect(effects []float64, coeff float64) float64 {
	sum := 0.0
	for _, e := range effects {
		sum += e
	}
	effect := (1+sum)*coeff - 1
	if effect < 0 {
		effect = 0
	}
	return effect
}

// combineEffects turns per-factor effects into one total risk multiplier.
// Harmful factors (effect > 0) sharing a joint group are replaced by the
// group-level joint effect; everything else multiplies independently as
// (1 + effect) terms. Protective effects are never grouped: the clamp in
// groupEffect would erase them, and overlap correction only exists to avoid
// overstating risk.
func combineEffects(factorEffects []factorEffect) float64 {
	independent := 1.0
	grouped := make(map[string][]float64)

	for _, fe := range factorEffects {
		if fe.effect > 0 && fe.group != "" {
			if _, ok := JointGroups[fe.group]; ok {
				grouped[fe.group] = append(grouped[fe.group], fe.effect)
				continue
			}
		}
		independent *= 1 + fe.effect
	}

	total := independent
	for name, effects := range grouped {
		if len(effects) == 1 {
			// A lone member has no overlap to correct.
			total *= 1 + effects[0]
			continue
		}
		total *= 1 + groupEffect(effects, JointGroups[name].Coefficient)
	}

	if total < 0 {
		total = 0
	}
	return total
}

// attributeEffects distributes the corrected total back onto individual
// factors for reporting. Group effects are split proportionally to each
// member's share of the group's summed effect; independent factors keep
// their own effect. The returned slice is index-aligned with the input.
func attributeEffects(factorEffects []factorEffect) []float64 {
	attributed := make([]float64, len(factorEffects))

	groupSums := make(map[string]float64)
	groupCounts := make(map[string]int)
	for _, fe := range factorEffects {
		if fe.effect > 0 && fe.group != "" {
			if _, ok := JointGroups[fe.group]; ok {
				groupSums[fe.group] += fe.effect
				groupCounts[fe.group]++
			}
		}
	}

	for i, fe := range factorEffects {
		if fe.effect > 0 && fe.group != "" && groupCounts[fe.group] > 1 {
			total := groupEffect(allEffectsIn(factorEffects, fe.group), JointGroups[fe.group].Coefficient)
			attributed[i] = total * fe.effect / groupSums[fe.group]
			continue
		}
		attributed[i] = fe.effect
	}
	return attributed
}

func allEffectsIn(factorEffects []factorEffect, group string) []float64 {
	var effects []float64
	for _, fe := range factorEffects {
		if fe.group == group && fe.effect > 0 {
			effects = append(effects, fe.effect)
		}
	}
	return effects
}

type factorEffect struct {
	group  string
	effect float64
}
