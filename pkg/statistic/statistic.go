// Package statistic scores how distinct a vertex set is inside a network.
//
// Two statistics are provided, both pure functions of the network topology
// and a [network.Partition]:
//
//   - [Modularity] is the two-community modularity Q of the partition,
//     computed by gonum's community.Q on the unweighted topology.
//   - [Insularity] is the fraction of edges touching the "in" side that stay
//     inside it.
//
// Statistics never modify the network. When a value does not exist (no
// edges, no incident edges) an error with code UNDEFINED_STATISTIC is
// returned instead of a made-up number.
package statistic

import (
	"math"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/simple"

	errs "github.com/matzehuels/bibnet/pkg/errors"
	"github.com/matzehuels/bibnet/pkg/network"
)

// Resolution is the modularity resolution parameter.
const Resolution = 1.0

// Func evaluates a statistic for one partition of a fixed network.
type Func func(p network.Partition) (float64, error)

// Kind names a statistic.
type Kind string

const (
	KindModularity Kind = "modularity"
	KindInsularity Kind = "insularity"
)

// Of binds the statistic named by kind to n.
func Of(kind Kind, n network.Network) (Func, error) {
	switch kind {
	case KindModularity:
		return ModularityOf(n), nil
	case KindInsularity:
		return InsularityOf(n), nil
	default:
		return nil, errs.New(errs.ErrCodeInvalidInput, "unknown statistic %q", kind)
	}
}

// Modularity returns the modularity of the two-way split described by p.
func Modularity(n network.Network, p network.Partition) (float64, error) {
	return ModularityOf(n)(p)
}

// ModularityOf returns a modularity function bound to n. The gonum view of n
// is built once and shared by every call.
func ModularityOf(n network.Network) Func {
	g := network.ToGonum(n)
	size, edges := n.Len(), n.EdgeCount()
	return func(p network.Partition) (float64, error) {
		if err := checkLen(p, size); err != nil {
			return 0, err
		}
		if edges == 0 {
			return 0, errs.New(errs.ErrCodeUndefinedStatistic, "modularity: network has no edges")
		}
		q := community.Q(g, communities(p), Resolution)
		if math.IsNaN(q) {
			return 0, errs.New(errs.ErrCodeUndefinedStatistic, "modularity: not a number")
		}
		return q, nil
	}
}

// Insularity returns |E_in(S)| / |E(S)| where S is the "in" side of p,
// E(S) the edges with at least one endpoint in S and E_in(S) the edges
// with both endpoints in S. Each edge counts once.
func Insularity(n network.Network, p network.Partition) (float64, error) {
	return InsularityOf(n)(p)
}

// InsularityOf returns an insularity function bound to n.
func InsularityOf(n network.Network) Func {
	edges := n.Edges()
	size := n.Len()
	return func(p network.Partition) (float64, error) {
		if err := checkLen(p, size); err != nil {
			return 0, err
		}
		var inside, touching int
		for _, e := range edges {
			from, to := p[e.From], p[e.To]
			if from || to {
				touching++
			}
			if from && to {
				inside++
			}
		}
		if touching == 0 {
			return 0, errs.New(errs.ErrCodeUndefinedStatistic, "insularity: set has no incident edges")
		}
		return float64(inside) / float64(touching), nil
	}
}

// GroupInsularity computes the insularity of every group of a multi-valued
// assignment. groups is indexed by handle. For each distinct value g the
// result holds Insularity of {v : groups[v] == g}: an edge between two
// groups counts in the denominator of both and in neither numerator. Groups
// without incident edges map to NaN.
func GroupInsularity(n network.Network, groups []int) (map[int]float64, error) {
	if len(groups) != n.Len() {
		return nil, errs.New(errs.ErrCodeInvalidInput,
			"group assignment covers %d vertices, network has %d", len(groups), n.Len())
	}
	inside := make(map[int]int)
	touching := make(map[int]int)
	for _, g := range groups {
		touching[g] += 0
	}
	for _, e := range n.Edges() {
		a, b := groups[e.From], groups[e.To]
		if a == b {
			inside[a]++
			touching[a]++
			continue
		}
		touching[a]++
		touching[b]++
	}

	out := make(map[int]float64, len(touching))
	for g, t := range touching {
		if t == 0 {
			out[g] = math.NaN()
			continue
		}
		out[g] = float64(inside[g]) / float64(t)
	}
	return out, nil
}

func communities(p network.Partition) [][]graph.Node {
	var in, out []graph.Node
	for h, member := range p {
		if member {
			in = append(in, simple.Node(h))
		} else {
			out = append(out, simple.Node(h))
		}
	}
	var cs [][]graph.Node
	if len(in) > 0 {
		cs = append(cs, in)
	}
	if len(out) > 0 {
		cs = append(cs, out)
	}
	return cs
}

func checkLen(p network.Partition, n int) error {
	if len(p) != n {
		return errs.New(errs.ErrCodeInvalidInput,
			"partition covers %d vertices, network has %d", len(p), n)
	}
	return nil
}
