// Package centrality computes per-vertex importance measures and profiles
// how the core set ranks under them.
//
// Three measures are available: out-degree, eigenvector centrality by
// shifted power iteration, and PageRank from gonum's graph/network package. Each
// measure is turned into a [Distribution] holding, per vertex, the raw
// value, the upper tail 1 - ECDF(value) and the descending rank. A
// [Profile] summarizes those three columns over the core vertices.
package centrality

import (
	"math"
	"slices"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	errs "github.com/matzehuels/bibnet/pkg/errors"
	bnet "github.com/matzehuels/bibnet/pkg/network"
	"github.com/matzehuels/bibnet/pkg/significance"
)

// Measure names a centrality measure.
type Measure string

const (
	OutDegree   Measure = "out_degree"
	Eigenvector Measure = "eigenvector"
	PageRank    Measure = "pagerank"
)

const (
	// EigenvectorTolerance is the L1 change between power iterations below
	// which eigenvector centrality is considered converged.
	EigenvectorTolerance = 1e-3

	// EigenvectorMaxIter caps the number of power iterations.
	EigenvectorMaxIter = 1000

	// Damping is the PageRank damping factor.
	Damping = 0.85

	// PageRankTolerance is the PageRank convergence tolerance.
	PageRankTolerance = 1e-6
)

// Compute returns the values of measure for every vertex of n, indexed by
// handle.
func Compute(n bnet.Network, measure Measure) ([]float64, error) {
	switch measure {
	case OutDegree:
		return OutDegrees(n), nil
	case Eigenvector:
		v, ok := EigenvectorCentrality(n, EigenvectorTolerance, EigenvectorMaxIter)
		if !ok {
			return nil, errs.New(errs.ErrCodeUndefinedStatistic,
				"eigenvector centrality did not converge in %d iterations", EigenvectorMaxIter)
		}
		return v, nil
	case PageRank:
		return PageRanks(n), nil
	default:
		return nil, errs.New(errs.ErrCodeInvalidInput, "unknown centrality measure %q", measure)
	}
}

// OutDegrees returns the number of out-edges of every vertex. For an
// undirected network this is the degree.
func OutDegrees(n bnet.Network) []float64 {
	out := make([]float64, n.Len())
	for _, e := range n.Edges() {
		out[e.From]++
		if !n.Directed() {
			out[e.To]++
		}
	}
	return out
}

// EigenvectorCentrality computes the principal eigenvector of the adjacency
// matrix, where a vertex collects the scores of the vertices with an edge
// into it. The result has unit L2 norm. It reports whether the iteration
// converged within tol (L1 change) and maxIter steps.
//
// The power iteration runs on A + I. Its eigenvectors are those of A, and
// bipartite networks such as stars converge instead of alternating between
// the two sides. Acyclic directed networks have no positive eigenvalue and
// get the zero vector.
func EigenvectorCentrality(n bnet.Network, tol float64, maxIter int) ([]float64, bool) {
	size := n.Len()
	if size == 0 {
		return nil, true
	}
	if n.Directed() {
		if _, err := topo.Sort(directedView(n)); err == nil {
			return make([]float64, size), true
		}
	}
	edges := n.Edges()
	x := make([]float64, size)
	for i := range x {
		x[i] = 1 / math.Sqrt(float64(size))
	}
	next := make([]float64, size)

	for iter := 0; iter < maxIter; iter++ {
		copy(next, x)
		for _, e := range edges {
			next[e.To] += x[e.From]
			if !n.Directed() {
				next[e.From] += x[e.To]
			}
		}
		floats.Scale(1/floats.Norm(next, 2), next)
		delta := floats.Distance(next, x, 1)
		x, next = next, x
		if delta < tol {
			return x, true
		}
	}
	return x, false
}

// directedView returns n as a gonum directed graph. Undirected edges are
// added both ways.
func directedView(n bnet.Network) *simple.DirectedGraph {
	g := simple.NewDirectedGraph()
	for i := 0; i < n.Len(); i++ {
		g.AddNode(simple.Node(i))
	}
	for _, e := range n.Edges() {
		g.SetEdge(g.NewEdge(simple.Node(e.From), simple.Node(e.To)))
		if !n.Directed() {
			g.SetEdge(g.NewEdge(simple.Node(e.To), simple.Node(e.From)))
		}
	}
	return g
}

// PageRanks returns the PageRank of every vertex. Undirected edges are
// followed both ways.
func PageRanks(n bnet.Network) []float64 {
	ranks := network.PageRank(directedView(n), Damping, PageRankTolerance)
	out := make([]float64, n.Len())
	for id, r := range ranks {
		out[id] = r
	}
	return out
}

// Distribution holds one measure for every vertex of a network.
type Distribution struct {
	Measure Measure   `json:"measure"`
	Values  []float64 `json:"values"`
	// Tail is 1 - ECDF(value), the fraction of vertices scoring strictly
	// higher.
	Tail []float64 `json:"tail"`
	// Rank is the descending rank, 1 for the highest value. Ties share the
	// average of the ranks they span.
	Rank []float64 `json:"rank"`
}

// NewDistribution derives tails and ranks from values.
func NewDistribution(measure Measure, values []float64) Distribution {
	d := Distribution{
		Measure: measure,
		Values:  slices.Clone(values),
		Tail:    make([]float64, len(values)),
		Rank:    DescendingRank(values),
	}
	if len(values) == 0 {
		return d
	}
	ecdf := significance.ECDF(values)
	for i, v := range values {
		d.Tail[i] = 1 - ecdf(v)
	}
	return d
}

// DescendingRank ranks values from highest (rank 1) to lowest. Tied values
// receive the average of the ranks they occupy.
func DescendingRank(values []float64) []float64 {
	n := len(values)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	asc := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && values[idx[j+1]] == values[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			asc[idx[k]] = avg
		}
		i = j + 1
	}

	out := make([]float64, n)
	for i, r := range asc {
		out[i] = float64(n) - r + 1
	}
	return out
}

// Profile summarizes a distribution over the core vertices.
type Profile struct {
	Measure Measure              `json:"measure"`
	Core    int                  `json:"core"`
	Value   significance.Summary `json:"value"`
	Tail    significance.Summary `json:"tail"`
	Rank    significance.Summary `json:"rank"`
}

// CoreProfile summarizes d over the vertices on the "in" side of core.
func CoreProfile(d Distribution, core bnet.Partition) (Profile, error) {
	if len(core) != len(d.Values) {
		return Profile{}, errs.New(errs.ErrCodeInvalidInput,
			"core covers %d vertices, distribution has %d", len(core), len(d.Values))
	}
	var values, tails, ranks []float64
	for _, h := range core.Members() {
		values = append(values, d.Values[h])
		tails = append(tails, d.Tail[h])
		ranks = append(ranks, d.Rank[h])
	}
	p := Profile{Measure: d.Measure, Core: len(values)}
	var err error
	if p.Value, err = significance.Summarize(values); err != nil {
		return Profile{}, err
	}
	if p.Tail, err = significance.Summarize(tails); err != nil {
		return Profile{}, err
	}
	if p.Rank, err = significance.Summarize(ranks); err != nil {
		return Profile{}, err
	}
	return p, nil
}
