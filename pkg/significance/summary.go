package significance

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	errs "github.com/matzehuels/bibnet/pkg/errors"
)

// DefaultDensityPoints is the grid size of a density estimate.
const DefaultDensityPoints = 512

// Summary describes a sample. SD is the population standard deviation.
// Quantiles interpolate the empirical CDF linearly (gonum stat.LinInterp).
type Summary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	SD     float64 `json:"sd"`
	Q05    float64 `json:"q05"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
	Q95    float64 `json:"q95"`
	IQR50  float64 `json:"iqr50"`
	IQR90  float64 `json:"iqr90"`
}

// Summarize computes a [Summary] of x.
func Summarize(x []float64) (Summary, error) {
	if len(x) == 0 {
		return Summary{}, errs.New(errs.ErrCodeEmptySample, "summary of an empty sample")
	}
	sorted := slices.Clone(x)
	slices.Sort(sorted)
	q := func(p float64) float64 { return stat.Quantile(p, stat.LinInterp, sorted, nil) }

	mean, variance := stat.PopMeanVariance(sorted, nil)
	s := Summary{
		Count:  len(x),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Mean:   mean,
		SD:     math.Sqrt(variance),
		Q05:    q(0.05),
		Q25:    q(0.25),
		Median: q(0.5),
		Q75:    q(0.75),
		Q95:    q(0.95),
	}
	s.IQR50 = s.Q75 - s.Q25
	s.IQR90 = s.Q95 - s.Q05
	return s, nil
}

// Density is a kernel density estimate evaluated on an evenly spaced grid.
// Y is normalized to sum to one.
type Density struct {
	Bandwidth float64   `json:"bandwidth"`
	X         []float64 `json:"x"`
	Y         []float64 `json:"y"`
}

// EstimateDensity fits a Gaussian kernel density estimate to x using the
// normal reference bandwidth 1.059 * min(sd, iqr/1.349) * n^(-1/5) and
// evaluates it on points grid points spanning three bandwidths beyond the
// data range. A sample without spread has no density and is rejected with
// DEGENERATE_SAMPLE.
func EstimateDensity(x []float64, points int) (Density, error) {
	if points <= 0 {
		points = DefaultDensityPoints
	}
	points = max(points, 2)
	sum, err := Summarize(x)
	if err != nil {
		return Density{}, err
	}
	if sum.Min == sum.Max || sum.SD == 0 {
		return Density{}, errs.New(errs.ErrCodeDegenerateSample, "all %d samples equal %v", sum.Count, sum.Min)
	}

	spread := sum.SD
	if r := sum.IQR50 / 1.349; r > 0 && r < spread {
		spread = r
	}
	bw := 1.059 * spread * math.Pow(float64(sum.Count), -0.2)

	grid := make([]float64, points)
	floats.Span(grid, sum.Min-3*bw, sum.Max+3*bw)
	y := make([]float64, points)
	for _, xi := range x {
		k := distuv.Normal{Mu: xi, Sigma: bw}
		for j, g := range grid {
			y[j] += k.Prob(g)
		}
	}
	if total := floats.Sum(y); total > 0 {
		floats.Scale(1/total, y)
	}
	return Density{Bandwidth: bw, X: grid, Y: y}, nil
}
