package sample

import (
	"context"
	"math"
	"math/rand/v2"

	errs "github.com/matzehuels/bibnet/pkg/errors"
	"github.com/matzehuels/bibnet/pkg/network"
	"github.com/matzehuels/bibnet/pkg/statistic"
)

// RandomSubset collects the statistic over uniformly random sets of k of
// the n vertices, drawn without replacement.
func RandomSubset(ctx context.Context, n, k int, stat statistic.Func, opts Options) (Result, error) {
	if n < 0 || k < 0 || k > n {
		return Result{}, errs.New(errs.ErrCodeInvalidInput,
			"cannot draw %d of %d vertices", k, n)
	}
	perm := make([]network.Handle, n)
	for i := range perm {
		perm[i] = network.Handle(i)
	}
	draw := func(rng *rand.Rand) network.Partition {
		return subset(rng, perm, k)
	}
	return run(ctx, stat, draw, opts)
}

// subset runs k steps of a Fisher-Yates shuffle over perm and returns the
// first k entries as a partition. perm is reused between draws; any
// permutation is a valid starting point for the shuffle.
func subset(rng *rand.Rand, perm []network.Handle, k int) network.Partition {
	n := len(perm)
	p := make(network.Partition, n)
	for i := 0; i < k; i++ {
		j := i + rng.IntN(n-i)
		perm[i], perm[j] = perm[j], perm[i]
		p[perm[i]] = true
	}
	return p
}

// ScaledK returns the subset size for a comparison network of nComparison
// vertices that keeps the core fraction k/n of the network under study.
// Halves round to even.
func ScaledK(k, n, nComparison int) int {
	if n <= 0 {
		return 0
	}
	return int(math.RoundToEven(float64(k) / float64(n) * float64(nComparison)))
}
