package components

import "github.com/matzehuels/bibnet/pkg/network"

// Expand grows seeds by hops steps along the edges of n and returns the
// result as a new partition. With followDirection set on a directed network
// a vertex only spreads to the heads of its out-edges; otherwise edges are
// treated as undirected. Each step only spreads from vertices reached by the
// previous steps.
func Expand(n network.Network, seeds network.Partition, hops int, followDirection bool) network.Partition {
	reached := make(network.Partition, n.Len())
	copy(reached, seeds)
	edges := n.Edges()
	directed := followDirection && n.Directed()

	for step := 0; step < hops; step++ {
		next := make(network.Partition, len(reached))
		copy(next, reached)
		changed := false
		for _, e := range edges {
			if reached[e.From] && !next[e.To] {
				next[e.To] = true
				changed = true
			}
			if !directed && reached[e.To] && !next[e.From] {
				next[e.From] = true
				changed = true
			}
		}
		reached = next
		if !changed {
			break
		}
	}
	return reached
}

// Boundary returns the vertices one step downstream of seeds that are not
// seeds themselves. In a citation network these are the papers citing the
// core set without belonging to it.
func Boundary(n network.Network, seeds network.Partition) network.Partition {
	out := Expand(n, seeds, 1, true)
	for h, in := range seeds {
		if in && h < len(out) {
			out[h] = false
		}
	}
	return out
}
