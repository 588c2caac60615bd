// Package engine wires the estimation pipeline together: profile validation,
// baseline lookup, hazard-ratio composition with joint-attribution
// correction, survival-curve construction, cause-mix derivation, optional
// bootstrap uncertainty, and result assembly.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mortality-engine/internal/bootstrap"
	"mortality-engine/internal/cardio"
	"mortality-engine/internal/causemix"
	"mortality-engine/internal/hazard"
	"mortality-engine/internal/model"
	"mortality-engine/internal/refdata"
	"mortality-engine/internal/survival"
)

const ModelVersion = "mortality-engine-1.0"

// Engine runs estimations against an injected reference-data provider.
// It holds no mutable state: concurrent estimations for different profiles
// need no coordination.
type Engine struct {
	provider   refdata.Provider
	logger     *zap.Logger
	maxAge     int
	workers    int
	replicates int
}

type Option func(*Engine)

// WithMaxAge overrides the survival-curve terminal age.
func WithMaxAge(age int) Option {
	return func(e *Engine) { e.maxAge = age }
}

// WithWorkers bounds bootstrap replicate concurrency.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// WithReplicates sets the bootstrap replicate count used when a request
// does not specify its own.
func WithReplicates(n int) Option {
	return func(e *Engine) { e.replicates = n }
}

func New(provider refdata.Provider, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		provider: provider,
		logger:   logger,
		maxAge:   model.MaxAge,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Estimate runs one full estimation. The returned result is immutable;
// errors follow the taxonomy in internal/model.
func (e *Engine) Estimate(ctx context.Context, req *model.EstimateRequest) (*model.EstimationResult, error) {
	start := time.Now()

	p := &req.Profile
	if err := p.Validate(); err != nil {
		return nil, err
	}

	baseline, err := e.provider.BaselineRow(p.Age, p.Sex)
	if err != nil {
		return nil, err
	}

	comp, err := hazard.Compose(e.provider, p)
	if err != nil {
		return nil, err
	}

	baselineQx, err := e.baselineSequence(p.Age, p.Sex)
	if err != nil {
		return nil, err
	}

	adjustedQx := make([]float64, len(baselineQx))
	for i, q := range baselineQx {
		adjustedQx[i] = survival.ApplyHazardRatio(q, comp.LifetimeHazardRatio)
	}
	curve := survival.BuildCurve(p.Age, adjustedQx, e.maxAge)

	oneYearRisk := survival.ApplyHazardRatio(baseline.Qx, comp.HazardRatio)
	lifeExpectancy := survival.LifeExpectancy(curve)

	drivers := finishDrivers(comp.Drivers, baseline.Qx)

	oneYearMix, lifetimeMix, err := e.causeMixes(p, comp.Factors)
	if err != nil {
		return nil, err
	}

	versions := e.provider.Versions()
	res := &model.EstimationResult{
		EstimationID: uuid.New().String(),

		OneYearRisk: oneYearRisk,
		// Until uncertainty runs, the interval degenerates to the point.
		OneYearRiskInterval: model.Interval{Lower: oneYearRisk, Upper: oneYearRisk},
		RiskLevel:           model.ClassifyRisk(oneYearRisk),

		MedianLifeExpectancy:   lifeExpectancy,
		LifeExpectancyInterval: model.Interval{Lower: lifeExpectancy, Upper: lifeExpectancy},

		BaselineOneYearRisk:    baseline.Qx,
		BaselineLifeExpectancy: baseline.Ex,
		CombinedHazardRatio:    comp.HazardRatio,

		Drivers:          drivers,
		OneYearCauseMix:  oneYearMix,
		LifetimeCauseMix: lifetimeMix,

		Cardiovascular: cardio.Estimate(p),

		ModelVersion: ModelVersion,
		DataVersion:  fmt.Sprintf("%s+%s+%s", versions.Baseline, versions.Causes, versions.Priors),
		ComputedAt:   start.UTC().Format(time.RFC3339),
		Disclaimer:   model.Disclaimer,
	}
	if req.IncludeCurve {
		res.SurvivalCurve = curve
	}

	if req.IncludeUncertainty {
		seed := req.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		replicates := req.Replicates
		if replicates == 0 {
			replicates = e.replicates
		}
		boot := bootstrap.Run(ctx, e.logger, bootstrap.Input{
			Factors:    comp.Factors,
			StartAge:   p.Age,
			MaxAge:     e.maxAge,
			BaselineQx: baselineQx,
			PointRisk:  oneYearRisk,
			PointLE:    lifeExpectancy,
		}, bootstrap.Config{
			Replicates: replicates,
			Seed:       seed,
			Adaptive:   true,
			Workers:    e.workers,
		})
		res.OneYearRiskInterval = boot.RiskInterval
		res.LifeExpectancyInterval = boot.LifeInterval
		res.EffectiveReplicates = boot.EffectiveReplicates
		res.Warnings = append(res.Warnings, boot.Warnings...)
	}

	res.DurationMs = time.Since(start).Milliseconds()

	e.logger.Info("estimation complete",
		zap.String("estimation_id", res.EstimationID),
		zap.Int("age", p.Age),
		zap.String("sex", string(p.Sex)),
		zap.Float64("hazard_ratio", res.CombinedHazardRatio),
		zap.Float64("one_year_risk", res.OneYearRisk),
		zap.Int64("duration_ms", res.DurationMs))

	return res, nil
}

// baselineSequence collects annual probabilities from age upward until the
// table runs out. A miss at the starting age is an error; running off the
// table's end merely terminates the curve.
func (e *Engine) baselineSequence(age int, sex model.Sex) ([]float64, error) {
	var qx []float64
	for a := age; a <= e.maxAge; a++ {
		row, err := e.provider.BaselineRow(a, sex)
		if err != nil {
			var miss *model.LookupMissError
			if errors.As(err, &miss) && a > age {
				break
			}
			return nil, err
		}
		qx = append(qx, row.Qx)
	}
	return qx, nil
}

// finishDrivers fills in each driver's absolute 1-year risk change and
// orders the list by magnitude.
func finishDrivers(drivers []model.RiskDriver, baselineQx float64) []model.RiskDriver {
	out := make([]model.RiskDriver, len(drivers))
	copy(out, drivers)
	for i := range out {
		out[i].RiskDelta = survival.ApplyHazardRatio(baselineQx, out[i].HazardRatio) - baselineQx
	}
	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].RiskDelta) > math.Abs(out[j].RiskDelta)
	})
	if out == nil {
		out = []model.RiskDriver{}
	}
	return out
}

func (e *Engine) causeMixes(p *model.Profile, factors []hazard.ActiveFactor) (oneYear, lifetime model.CauseMix, err error) {
	baseline, err := e.provider.CauseFractions(refdata.AgeBand(p.Age), p.Sex)
	if err != nil {
		return nil, nil, err
	}

	levels := make([]causemix.FactorLevel, len(factors))
	for i, f := range factors {
		levels[i] = causemix.FactorLevel{Factor: f.Spec.ID, Level: f.Level}
	}

	oneYear = causemix.Reweight(baseline, levels, causemix.OneYear)
	lifetime = causemix.Reweight(baseline, levels, causemix.Lifetime)
	return oneYear, lifetime, nil
}
