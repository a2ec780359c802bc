// Package sample draws null distributions of a network statistic.
//
// Two strategies are provided:
//
//   - [RandomSubset] scores uniformly random vertex sets of a fixed size,
//     the null model for "is the core set more distinct than any set of the
//     same size".
//   - [Optimized] scores partitions found by community detection, the null
//     model for "is the core set as distinct as the best split of the
//     network".
//
// # Reproducibility
//
// Every draw is taken from a single math/rand/v2 PCG stream seeded with
// [Options.Seed]. A fixed seed reproduces the exact sample sequence; a zero
// seed is replaced by a time-derived one, reported back in [Result.Seed].
//
// # Termination
//
// A draw whose statistic fails (for example insularity of a set without
// incident edges) is discarded and does not count as a sample. Every draw
// counts against [Options.MaxAttempts]; when the budget runs out before
// enough samples were collected an error with code SAMPLING_EXHAUSTED is
// returned. The context is checked before every draw and cancellation
// discards the partial sample. The network is only read.
package sample

import (
	"context"
	"math/rand/v2"
	"time"

	errs "github.com/matzehuels/bibnet/pkg/errors"
	"github.com/matzehuels/bibnet/pkg/network"
	"github.com/matzehuels/bibnet/pkg/statistic"
)

const (
	// DefaultSamples is the number of samples drawn when Options.Samples is zero.
	DefaultSamples = 500

	// DefaultAttemptFactor bounds the number of draws at this multiple of
	// the requested samples when Options.MaxAttempts is zero.
	DefaultAttemptFactor = 10

	// DefaultProgressEvery is the number of samples between progress reports.
	DefaultProgressEvery = 100
)

// Progress is reported periodically while sampling.
type Progress struct {
	Done      int // samples collected
	Target    int // samples requested
	Attempts  int // draws taken, including discarded ones
	Discarded int
}

// Options configures a sampling run.
type Options struct {
	// Samples is the number of statistic values to collect.
	Samples int

	// MaxAttempts caps the number of draws. Zero means
	// DefaultAttemptFactor * Samples.
	MaxAttempts int

	// Seed seeds the random stream. Zero picks a time-derived seed.
	Seed uint64

	// ProgressEvery is the number of samples between Progress calls.
	ProgressEvery int

	// Progress is called every ProgressEvery samples and once at the end.
	// Optional.
	Progress func(Progress)
}

// WithDefaults returns a copy of o with zero fields replaced by defaults.
func (o Options) WithDefaults() Options {
	if o.Samples <= 0 {
		o.Samples = DefaultSamples
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultAttemptFactor * o.Samples
	}
	if o.ProgressEvery <= 0 {
		o.ProgressEvery = DefaultProgressEvery
	}
	if o.Seed == 0 {
		o.Seed = uint64(time.Now().UnixNano())
	}
	return o
}

// Result is a collected null sample.
type Result struct {
	Samples   []float64 `json:"samples"`
	Attempts  int       `json:"attempts"`
	Discarded int       `json:"discarded"`
	Seed      uint64    `json:"seed"`
}

// drawFunc produces one fresh partition from the random stream.
type drawFunc func(rng *rand.Rand) network.Partition

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func run(ctx context.Context, stat statistic.Func, draw drawFunc, opts Options) (Result, error) {
	opts = opts.WithDefaults()
	rng := newRand(opts.Seed)
	res := Result{Samples: make([]float64, 0, opts.Samples), Seed: opts.Seed}

	report := func() {
		if opts.Progress != nil {
			opts.Progress(Progress{
				Done:      len(res.Samples),
				Target:    opts.Samples,
				Attempts:  res.Attempts,
				Discarded: res.Discarded,
			})
		}
	}

	for len(res.Samples) < opts.Samples {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if res.Attempts >= opts.MaxAttempts {
			return Result{}, errs.New(errs.ErrCodeSamplingExhausted,
				"collected %d of %d samples in %d attempts (%d discarded)",
				len(res.Samples), opts.Samples, res.Attempts, res.Discarded)
		}
		res.Attempts++

		v, err := stat(draw(rng))
		if err != nil {
			res.Discarded++
			continue
		}
		res.Samples = append(res.Samples, v)
		if len(res.Samples)%opts.ProgressEvery == 0 && len(res.Samples) < opts.Samples {
			report()
		}
	}
	report()
	return res, nil
}
