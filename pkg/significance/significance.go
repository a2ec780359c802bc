// Package significance compares an observed statistic with a null sample.
//
// The p-value is two-sided and empirical: with F the empirical CDF of the
// sample (F(x) = fraction of samples <= x),
//
//	p = min(F(observed), 1 - F(observed))
//
// so p always lies in [0, 0.5] and the shorter tail is picked
// automatically. The fold is observed / mean(sample).
//
// A sample whose values are all equal is degenerate: p and fold are still
// reported but no density is estimated.
package significance

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	errs "github.com/matzehuels/bibnet/pkg/errors"
)

// Options configures [Evaluate].
type Options struct {
	// InvertFold reports 1/fold whenever |fold| < 1, so the fold always
	// reads as "times larger" or "times smaller". Used for samples of
	// optimized partitions.
	InvertFold bool

	// DensityPoints is the number of grid points of the density estimate.
	// Zero means DefaultDensityPoints; negative disables the estimate.
	DensityPoints int
}

// Result is the outcome of comparing an observation with a null sample.
type Result struct {
	Observed   float64  `json:"observed"`
	P          float64  `json:"p"`
	Fold       float64  `json:"fold"`
	Mean       float64  `json:"mean"`
	Degenerate bool     `json:"degenerate"`
	Summary    Summary  `json:"summary"`
	Density    *Density `json:"density,omitempty"`
}

// ECDF returns the empirical CDF of samples using the <= convention.
// samples is not modified. An empty sample yields a function returning NaN.
func ECDF(samples []float64) func(float64) float64 {
	if len(samples) == 0 {
		return func(float64) float64 { return math.NaN() }
	}
	sorted := slices.Clone(samples)
	slices.Sort(sorted)
	return func(x float64) float64 {
		return stat.CDF(x, stat.Empirical, sorted, nil)
	}
}

// PValue returns the two-sided empirical p-value of observed.
func PValue(samples []float64, observed float64) (float64, error) {
	if len(samples) == 0 {
		return 0, errs.New(errs.ErrCodeEmptySample, "p-value of an empty sample")
	}
	f := ECDF(samples)(observed)
	return math.Min(f, 1-f), nil
}

// Fold returns observed / mean(samples). With invert set a fold of
// magnitude below one is replaced by its reciprocal. A zero mean yields an
// infinite or NaN fold, following IEEE division.
func Fold(samples []float64, observed float64, invert bool) (float64, error) {
	if len(samples) == 0 {
		return 0, errs.New(errs.ErrCodeEmptySample, "fold of an empty sample")
	}
	fold := observed / stat.Mean(samples, nil)
	if invert && math.Abs(fold) < 1 {
		fold = 1 / fold
	}
	return fold, nil
}

// Evaluate computes the p-value, the fold, a descriptive summary and,
// unless the sample is degenerate, a density estimate of samples.
func Evaluate(samples []float64, observed float64, opts Options) (Result, error) {
	if len(samples) == 0 {
		return Result{}, errs.New(errs.ErrCodeEmptySample, "no samples to compare against")
	}
	p, err := PValue(samples, observed)
	if err != nil {
		return Result{}, err
	}
	fold, err := Fold(samples, observed, opts.InvertFold)
	if err != nil {
		return Result{}, err
	}
	sum, err := Summarize(samples)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Observed:   observed,
		P:          p,
		Fold:       fold,
		Mean:       sum.Mean,
		Degenerate: sum.Min == sum.Max,
		Summary:    sum,
	}
	if res.Degenerate || opts.DensityPoints < 0 {
		return res, nil
	}
	d, err := EstimateDensity(samples, opts.DensityPoints)
	if err != nil {
		return Result{}, err
	}
	res.Density = &d
	return res, nil
}
