// Package components splits networks into weakly-connected components and
// keeps the ones that matter for the analysis.
//
// Components are always computed with edge direction ignored. Extracted
// components are induced subgraphs built by [network.Graph.Induced]: they
// own their vertex records and edges, so later changes to the parent graph
// never show through.
package components

import (
	"github.com/matzehuels/bibnet/pkg/network"
)

// Component is one weakly-connected component extracted from a larger graph.
type Component[V network.Vertex[V]] struct {
	// Label is the component's label in the parent graph.
	Label int
	// Graph is the induced subgraph of the component.
	Graph *network.Graph[V]
	// Origin maps each handle of Graph to its handle in the parent graph.
	Origin []network.Handle
	// Core is the number of core vertices in the component.
	Core int
}

// Label assigns a weakly-connected component label to every vertex of n.
// Labels are dense, start at zero and are numbered in order of each
// component's smallest handle. It returns the labels indexed by handle and
// the number of components.
func Label(n network.Network) ([]int, int) {
	uf := newUnionFind(n.Len())
	for _, e := range n.Edges() {
		uf.union(int(e.From), int(e.To))
	}

	labels := make([]int, n.Len())
	byRoot := make(map[int]int)
	for v := range labels {
		root := uf.find(v)
		l, ok := byRoot[root]
		if !ok {
			l = len(byRoot)
			byRoot[root] = l
		}
		labels[v] = l
	}
	return labels, len(byRoot)
}

// Filter returns every component of g that contains at least one core
// vertex, in ascending label order. Components without core vertices are
// discarded with all their vertices and edges. A graph without core vertices
// yields an empty result, not an error.
func Filter[V network.Vertex[V]](g *network.Graph[V]) []Component[V] {
	labels, count := Label(g)
	core := g.Core()

	coreCount := make([]int, count)
	for h, in := range core {
		if in {
			coreCount[labels[h]]++
		}
	}

	var out []Component[V]
	for l := 0; l < count; l++ {
		if coreCount[l] == 0 {
			continue
		}
		out = append(out, extract(g, labels, l, coreCount[l]))
	}
	return out
}

// Retain returns the induced subgraph of g on the union of the components
// that contain a core vertex, together with the mapping from its handles to
// those of g. It is the single network formed by the components [Filter]
// would return.
func Retain[V network.Vertex[V]](g *network.Graph[V]) (*network.Graph[V], []network.Handle) {
	labels, count := Label(g)
	keepLabel := make([]bool, count)
	for h, in := range g.Core() {
		if in {
			keepLabel[labels[h]] = true
		}
	}
	keep := make(network.Partition, g.Len())
	for h, l := range labels {
		keep[h] = keepLabel[l]
	}
	return g.Induced(keep)
}

// Largest returns the component of g with the most vertices. Ties go to the
// lowest label. It reports false for an empty graph.
func Largest[V network.Vertex[V]](g *network.Graph[V]) (Component[V], bool) {
	if g.Len() == 0 {
		return Component[V]{}, false
	}
	labels, count := Label(g)
	sizes := Sizes(labels, count)
	best := 0
	for l := 1; l < count; l++ {
		if sizes[l] > sizes[best] {
			best = l
		}
	}
	core := g.Core()
	n := 0
	for h, in := range core {
		if in && labels[h] == best {
			n++
		}
	}
	return extract(g, labels, best, n), true
}

// Sizes returns the number of vertices in each component, indexed by label.
func Sizes(labels []int, count int) []int {
	sizes := make([]int, count)
	for _, l := range labels {
		sizes[l]++
	}
	return sizes
}

func extract[V network.Vertex[V]](g *network.Graph[V], labels []int, label, core int) Component[V] {
	keep := make(network.Partition, len(labels))
	for h, l := range labels {
		keep[h] = l == label
	}
	sub, origin := g.Induced(keep)
	return Component[V]{Label: label, Graph: sub, Origin: origin, Core: core}
}

// unionFind is a disjoint-set forest with path halving and union by size.
type unionFind struct {
	parent []int
	size   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), size: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
		uf.size[i] = 1
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.size[ra] < uf.size[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	uf.size[ra] += uf.size[rb]
}
