// Package bootstrap quantifies estimation uncertainty by Monte Carlo
// resampling of hazard-ratio priors.
package bootstrap

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mortality-engine/internal/hazard"
	"mortality-engine/internal/model"
	"mortality-engine/internal/survival"
)

const (
	DefaultReplicates = 200
	MaxReplicates     = 1000

	// Target Monte Carlo precision for the adaptive variant.
	targetRiskSE = 0.01
	targetLESE   = 0.1
)

// Config controls one bootstrap run.
type Config struct {
	Replicates int
	Seed       int64
	Adaptive   bool
	// Workers bounds replicate concurrency; 0 means GOMAXPROCS.
	Workers int
}

// Input carries everything a replicate needs. Lookups are resolved before
// the run, so replicates are embarrassingly parallel: each depends only on
// its own seed.
type Input struct {
	Factors    []hazard.ActiveFactor
	StartAge   int
	MaxAge     int
	BaselineQx []float64 // annual probabilities from StartAge upward

	// Deterministic point estimates, substituted when a replicate's
	// sampling fails so the aggregate stays well-defined.
	PointRisk float64
	PointLE   float64
}

// Result is the aggregate of all replicates.
type Result struct {
	RiskInterval        model.Interval
	LifeInterval        model.Interval
	Replicates          int
	EffectiveReplicates int
	Warnings            []string
}

// Run executes the bootstrap: N independent replicates, each sampling every
// active factor from its log-normal prior with a per-replicate seed offset,
// then an 80% interval (10th/90th percentile) over the replicate series.
// With cfg.Adaptive set, the replicate count grows (bounded by
// MaxReplicates) until the Monte Carlo standard error meets the target
// precision.
func Run(ctx context.Context, logger *zap.Logger, in Input, cfg Config) Result {
	n := cfg.Replicates
	if n <= 0 {
		n = DefaultReplicates
	}
	if n > MaxReplicates {
		n = MaxReplicates
	}

	risks := make([]float64, 0, n)
	les := make([]float64, 0, n)
	failed := 0

	runBatch := func(offset, count int) {
		batchRisks := make([]float64, count)
		batchLEs := make([]float64, count)
		batchOK := make([]bool, count)

		g, _ := errgroup.WithContext(ctx)
		workers := cfg.Workers
		if workers <= 0 {
			workers = runtime.GOMAXPROCS(0)
		}
		g.SetLimit(workers)

		for i := 0; i < count; i++ {
			i := i
			g.Go(func() error {
				risk, le, ok := replicate(in, cfg.Seed+int64(offset+i))
				batchRisks[i], batchLEs[i], batchOK[i] = risk, le, ok
				return nil
			})
		}
		g.Wait()

		for i := 0; i < count; i++ {
			if !batchOK[i] {
				// A failed replicate falls back to the deterministic
				// estimate; it must never abort the whole bootstrap.
				failed++
				logger.Warn("bootstrap replicate failed, using point estimate",
					zap.Int("replicate", offset+i))
				batchRisks[i], batchLEs[i] = in.PointRisk, in.PointLE
			}
			risks = append(risks, batchRisks[i])
			les = append(les, batchLEs[i])
		}
	}

	runBatch(0, n)

	if cfg.Adaptive {
		for len(risks) < MaxReplicates {
			riskSE := standardError(risks)
			leSE := standardError(les)
			if riskSE <= targetRiskSE && leSE <= targetLESE {
				break
			}
			extra := len(risks)
			if len(risks)+extra > MaxReplicates {
				extra = MaxReplicates - len(risks)
			}
			runBatch(len(risks), extra)
		}
	}

	res := Result{
		RiskInterval:        interval(risks),
		LifeInterval:        interval(les),
		Replicates:          len(risks),
		EffectiveReplicates: len(risks) - failed,
	}
	if failed > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"%d of %d bootstrap replicates failed sampling and used the point estimate", failed, len(risks)))
	}
	return res
}

// replicate samples one hazard ratio per factor and recomputes the 1-year
// risk and life expectancy. ok=false signals a sampling failure.
func replicate(in Input, seed int64) (risk, le float64, ok bool) {
	if len(in.BaselineQx) == 0 {
		return 0, 0, false
	}

	s := hazard.NewSampler(seed)
	draws := make([]float64, len(in.Factors))
	for i, f := range in.Factors {
		draws[i] = s.SampleHR(f)
		if math.IsNaN(draws[i]) || math.IsInf(draws[i], 0) || draws[i] <= 0 {
			return 0, 0, false
		}
	}

	oneYearHR := hazard.CombineSampled(in.Factors, draws)

	var lifeFactors []hazard.ActiveFactor
	var lifeDraws []float64
	for i, f := range in.Factors {
		if f.Spec.OneYearOnly {
			continue
		}
		lifeFactors = append(lifeFactors, f)
		lifeDraws = append(lifeDraws, draws[i])
	}
	lifeHR := hazard.CombineSampled(lifeFactors, lifeDraws)

	risk = survival.ApplyHazardRatio(in.BaselineQx[0], oneYearHR)

	adjusted := make([]float64, len(in.BaselineQx))
	for i, q := range in.BaselineQx {
		adjusted[i] = survival.ApplyHazardRatio(q, lifeHR)
	}
	curve := survival.BuildCurve(in.StartAge, adjusted, in.MaxAge)
	le = survival.LifeExpectancy(curve)

	if math.IsNaN(risk) || math.IsNaN(le) {
		return 0, 0, false
	}
	return risk, le, true
}

// interval extracts the 10th/90th percentile bounds from a replicate series.
func interval(values []float64) model.Interval {
	if len(values) == 0 {
		return model.Interval{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return model.Interval{
		Lower: sorted[percentileIndex(len(sorted), 0.10)],
		Upper: sorted[percentileIndex(len(sorted), 0.90)],
	}
}

func percentileIndex(n int, p float64) int {
	idx := int(p * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

// standardError estimates the Monte Carlo standard error of the mean.
func standardError(values []float64) float64 {
	n := float64(len(values))
	if n < 2 {
		return math.Inf(1)
	}
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= n

	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss/(n-1)) / math.Sqrt(n)
}
