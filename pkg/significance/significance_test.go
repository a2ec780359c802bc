package significance

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	errs "github.com/matzehuels/bibnet/pkg/errors"
)

const eps = 1e-12

func TestECDF(t *testing.T) {
	f := ECDF([]float64{0.5, 0.1, 0.4, 0.2, 0.3})
	tests := []struct {
		x    float64
		want float64
	}{
		{0.0, 0},
		{0.1, 0.2},
		{0.3, 0.6},
		{0.35, 0.6},
		{0.5, 1},
		{9, 1},
	}
	for _, tt := range tests {
		if got := f(tt.x); math.Abs(got-tt.want) > eps {
			t.Errorf("ECDF(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
	if !math.IsNaN(ECDF(nil)(1)) {
		t.Error("ECDF of empty sample should be NaN")
	}
}

func TestPValue(t *testing.T) {
	samples := []float64{0.1, 0.2, 0.3, 0.4, 0.5}
	tests := []struct {
		name string
		obs  float64
		want float64
	}{
		{"Tie", 0.3, 0.4},
		{"BelowAll", -1, 0},
		{"AboveAll", 2, 0},
		{"LowTail", 0.15, 0.2},
		{"EqualsMax", 0.5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PValue(samples, tt.obs)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-tt.want) > eps {
				t.Errorf("PValue = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := PValue(nil, 1); !errs.Is(err, errs.ErrCodeEmptySample) {
		t.Errorf("empty: err = %v, want EMPTY_SAMPLE", err)
	}
}

func TestFold(t *testing.T) {
	samples := []float64{1, 2, 3} // mean 2
	tests := []struct {
		name   string
		obs    float64
		invert bool
		want   float64
	}{
		{"Plain", 4, false, 2},
		{"PlainBelow", 1, false, 0.5},
		{"InvertBelow", 1, true, 2},
		{"InvertAbove", 6, true, 3},
		{"InvertNegative", -1, true, -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Fold(samples, tt.obs, tt.invert)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-tt.want) > eps {
				t.Errorf("Fold = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	res, err := Evaluate([]float64{0.1, 0.2, 0.3, 0.4, 0.5}, 0.3, Options{})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if math.Abs(res.P-0.4) > eps {
		t.Errorf("P = %v, want 0.4", res.P)
	}
	if math.Abs(res.Fold-1) > eps || math.Abs(res.Mean-0.3) > eps {
		t.Errorf("Fold, Mean = %v, %v; want 1, 0.3", res.Fold, res.Mean)
	}
	if res.Degenerate || res.Density == nil {
		t.Fatalf("Degenerate = %v, Density = %v; want false, non-nil", res.Degenerate, res.Density)
	}
	if len(res.Density.X) != DefaultDensityPoints {
		t.Errorf("density grid = %d points, want %d", len(res.Density.X), DefaultDensityPoints)
	}
}

func TestEvaluateDegenerate(t *testing.T) {
	res, err := Evaluate([]float64{0.2, 0.2, 0.2}, 0.3, Options{InvertFold: true})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !res.Degenerate {
		t.Error("Degenerate = false, want true")
	}
	if res.Density != nil {
		t.Error("density estimated for a degenerate sample")
	}
	if res.P != 0 {
		t.Errorf("P = %v, want 0", res.P)
	}
	if math.Abs(res.Fold-1.5) > 1e-9 {
		t.Errorf("Fold = %v, want 1.5", res.Fold)
	}
}

func TestEvaluateEmpty(t *testing.T) {
	if _, err := Evaluate(nil, 1, Options{}); !errs.Is(err, errs.ErrCodeEmptySample) {
		t.Errorf("err = %v, want EMPTY_SAMPLE", err)
	}
}

func TestSummarize(t *testing.T) {
	s, err := Summarize([]float64{4, 1, 3, 2})
	if err != nil {
		t.Fatal(err)
	}
	if s.Count != 4 || s.Min != 1 || s.Max != 4 || s.Mean != 2.5 {
		t.Errorf("Summary = %+v", s)
	}
	if math.Abs(s.SD-math.Sqrt(1.25)) > eps {
		t.Errorf("SD = %v, want %v", s.SD, math.Sqrt(1.25))
	}
	if s.Median != 2 {
		t.Errorf("Median = %v, want 2", s.Median)
	}
	if s.IQR50 != s.Q75-s.Q25 || s.IQR90 != s.Q95-s.Q05 {
		t.Errorf("inconsistent ranges: %+v", s)
	}
	if !(s.Q05 <= s.Q25 && s.Q25 <= s.Median && s.Median <= s.Q75 && s.Q75 <= s.Q95) {
		t.Errorf("quantiles not ordered: %+v", s)
	}
}

func TestEstimateDensity(t *testing.T) {
	d, err := EstimateDensity([]float64{1, 2, 2, 3, 7}, 64)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.X) != 64 || len(d.Y) != 64 {
		t.Fatalf("grid = %d/%d points, want 64", len(d.X), len(d.Y))
	}
	var sum float64
	for _, y := range d.Y {
		if y < 0 {
			t.Fatalf("negative density %v", y)
		}
		sum += y
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("density sums to %v, want 1", sum)
	}
	if d.X[0] >= 1 || d.X[63] <= 7 {
		t.Errorf("grid [%v, %v] does not cover the data", d.X[0], d.X[63])
	}

	if _, err := EstimateDensity([]float64{3, 3}, 10); !errs.Is(err, errs.ErrCodeDegenerateSample) {
		t.Errorf("err = %v, want DEGENERATE_SAMPLE", err)
	}
}

func TestPValueBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("p lies in [0, 0.5]", prop.ForAll(
		func(samples []float64, obs float64) bool {
			p, err := PValue(samples, obs)
			if err != nil {
				return false
			}
			return p >= 0 && p <= 0.5
		},
		gen.SliceOfN(25, gen.Float64Range(-1, 1)),
		gen.Float64Range(-2, 2),
	))

	properties.Property("extreme observations have p = 0", prop.ForAll(
		func(samples []float64) bool {
			lo, _ := PValue(samples, -10)
			hi, _ := PValue(samples, 10)
			return lo == 0 && hi == 0
		},
		gen.SliceOfN(25, gen.Float64Range(-1, 1)),
	))

	properties.TestingRun(t)
}
