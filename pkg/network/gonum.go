package network

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// ToGonum copies the topology of n into a gonum graph whose node IDs equal
// the handles of n. The result is a *simple.DirectedGraph for directed
// networks and a *simple.UndirectedGraph otherwise.
//
// Edge weights are dropped: modularity, community detection and PageRank are
// computed on the unweighted topology.
func ToGonum(n Network) graph.Graph {
	if n.Directed() {
		g := simple.NewDirectedGraph()
		for i := 0; i < n.Len(); i++ {
			g.AddNode(simple.Node(i))
		}
		for _, e := range n.Edges() {
			g.SetEdge(g.NewEdge(simple.Node(e.From), simple.Node(e.To)))
		}
		return g
	}
	g := simple.NewUndirectedGraph()
	for i := 0; i < n.Len(); i++ {
		g.AddNode(simple.Node(i))
	}
	for _, e := range n.Edges() {
		g.SetEdge(g.NewEdge(simple.Node(e.From), simple.Node(e.To)))
	}
	return g
}
