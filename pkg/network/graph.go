package network

import (
	"errors"
	"slices"
)

var (
	// ErrUnknownVertex is returned by [Graph.AddEdge] and [Graph.AddWeight]
	// when an endpoint handle does not belong to the graph.
	ErrUnknownVertex = errors.New("unknown vertex")

	// ErrSelfLoop is returned by [Graph.AddEdge] and [Graph.AddWeight] when
	// both endpoints are the same vertex. Self-citations and self-co-authorship
	// carry no information about how a set connects to the rest of the graph.
	ErrSelfLoop = errors.New("self-loop")
)

// Handle identifies a vertex inside one graph. Handles are dense, start at
// zero and follow insertion order.
type Handle int64

// Edge is a connection between two vertices. For directed graphs From is the
// tail and To the head; for citation networks the tail is the cited work.
type Edge struct {
	From   Handle  `json:"from"`
	To     Handle  `json:"to"`
	Weight float64 `json:"weight"`
}

// Network is the read-only view of a graph used by the statistics, the
// component filter and the analysis pipeline. It hides the vertex record type.
type Network interface {
	// Len returns the number of vertices.
	Len() int
	// EdgeCount returns the number of edges.
	EdgeCount() int
	// Directed reports whether edges have a direction.
	Directed() bool
	// Edges returns a copy of all edges in insertion order.
	Edges() []Edge
	// Key returns the external identifier of h.
	Key(h Handle) string
	// Core returns the core-set membership of every vertex.
	Core() Partition
}

type pair struct{ a, b Handle }

// Graph is a directed or undirected graph with typed vertex records.
//
// The zero value is not usable - use [New].
type Graph[V Vertex[V]] struct {
	directed bool
	vertices []V
	edges    []Edge
	index    map[pair]int // endpoint pair -> position in edges
	incident [][]int      // handle -> positions in edges touching it
}

// New creates an empty graph.
func New[V Vertex[V]](directed bool) *Graph[V] {
	return &Graph[V]{
		directed: directed,
		index:    make(map[pair]int),
	}
}

// Directed reports whether the graph is directed.
func (g *Graph[V]) Directed() bool { return g.directed }

// Len returns the number of vertices.
func (g *Graph[V]) Len() int { return len(g.vertices) }

// EdgeCount returns the number of edges.
func (g *Graph[V]) EdgeCount() int { return len(g.edges) }

// AddVertex appends v and returns its handle. Vertices are never removed.
func (g *Graph[V]) AddVertex(v V) Handle {
	g.vertices = append(g.vertices, v)
	g.incident = append(g.incident, nil)
	return Handle(len(g.vertices) - 1)
}

// Vertex returns the record stored for h.
func (g *Graph[V]) Vertex(h Handle) (V, bool) {
	if !g.valid(h) {
		var zero V
		return zero, false
	}
	return g.vertices[h], true
}

// SetVertex replaces the record stored for h. It reports false if h is not
// part of the graph.
func (g *Graph[V]) SetVertex(h Handle, v V) bool {
	if !g.valid(h) {
		return false
	}
	g.vertices[h] = v
	return true
}

// Update applies fn to the record stored for h in place.
func (g *Graph[V]) Update(h Handle, fn func(v *V)) bool {
	if !g.valid(h) {
		return false
	}
	fn(&g.vertices[h])
	return true
}

// Vertices returns the vertex records indexed by handle. The slice is a
// shallow copy; use [Graph.Induced] for an independent graph.
func (g *Graph[V]) Vertices() []V { return slices.Clone(g.vertices) }

// Key returns the external identifier of h, or "" for unknown handles.
func (g *Graph[V]) Key(h Handle) string {
	if !g.valid(h) {
		return ""
	}
	return g.vertices[h].Key()
}

// Core returns the core-set membership of every vertex.
func (g *Graph[V]) Core() Partition {
	p := make(Partition, len(g.vertices))
	for i, v := range g.vertices {
		p[i] = v.IsCore()
	}
	return p
}

// AddEdge inserts an edge of weight 1 between from and to. Adding an edge
// that already exists is a no-op.
func (g *Graph[V]) AddEdge(from, to Handle) error {
	k, err := g.key(from, to)
	if err != nil {
		return err
	}
	if _, ok := g.index[k]; ok {
		return nil
	}
	g.insert(k, from, to, 1)
	return nil
}

// AddWeight adds w to the weight of the edge between from and to, creating
// the edge with weight w if it does not exist yet.
func (g *Graph[V]) AddWeight(from, to Handle, w float64) error {
	k, err := g.key(from, to)
	if err != nil {
		return err
	}
	if i, ok := g.index[k]; ok {
		g.edges[i].Weight += w
		return nil
	}
	g.insert(k, from, to, w)
	return nil
}

// Edge returns the edge between from and to. For undirected graphs the
// order of the endpoints does not matter.
func (g *Graph[V]) Edge(from, to Handle) (Edge, bool) {
	k, err := g.key(from, to)
	if err != nil {
		return Edge{}, false
	}
	i, ok := g.index[k]
	if !ok {
		return Edge{}, false
	}
	return g.edges[i], true
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph[V]) Edges() []Edge { return slices.Clone(g.edges) }

// Incident returns the edges touching h regardless of direction.
func (g *Graph[V]) Incident(h Handle) []Edge {
	if !g.valid(h) {
		return nil
	}
	out := make([]Edge, len(g.incident[h]))
	for i, idx := range g.incident[h] {
		out[i] = g.edges[idx]
	}
	return out
}

// Neighbors returns the vertices sharing an edge with h, ignoring direction.
func (g *Graph[V]) Neighbors(h Handle) []Handle {
	if !g.valid(h) {
		return nil
	}
	out := make([]Handle, len(g.incident[h]))
	for i, idx := range g.incident[h] {
		e := g.edges[idx]
		if e.From == h {
			out[i] = e.To
		} else {
			out[i] = e.From
		}
	}
	return out
}

// OutDegree returns the number of edges leaving h. For undirected graphs it
// equals the degree.
func (g *Graph[V]) OutDegree(h Handle) int {
	if !g.valid(h) {
		return 0
	}
	if !g.directed {
		return len(g.incident[h])
	}
	n := 0
	for _, idx := range g.incident[h] {
		if g.edges[idx].From == h {
			n++
		}
	}
	return n
}

// InDegree returns the number of edges entering h. For undirected graphs it
// equals the degree.
func (g *Graph[V]) InDegree(h Handle) int {
	if !g.valid(h) {
		return 0
	}
	if !g.directed {
		return len(g.incident[h])
	}
	return len(g.incident[h]) - g.OutDegree(h)
}

// Induced returns the subgraph induced by the vertices with keep[h] set,
// together with the original handle of every vertex of the subgraph.
// Vertex records are cloned, so the result shares no memory with g.
// Vertices keep their relative order and edges keep their direction,
// weight and insertion order.
func (g *Graph[V]) Induced(keep Partition) (*Graph[V], []Handle) {
	sub := New[V](g.directed)
	remap := make(map[Handle]Handle)
	var origin []Handle
	for i, v := range g.vertices {
		if i >= len(keep) || !keep[i] {
			continue
		}
		remap[Handle(i)] = sub.AddVertex(v.Clone())
		origin = append(origin, Handle(i))
	}
	for _, e := range g.edges {
		from, okF := remap[e.From]
		to, okT := remap[e.To]
		if !okF || !okT {
			continue
		}
		_ = sub.AddWeight(from, to, e.Weight)
	}
	return sub, origin
}

func (g *Graph[V]) valid(h Handle) bool { return h >= 0 && int(h) < len(g.vertices) }

func (g *Graph[V]) key(from, to Handle) (pair, error) {
	if !g.valid(from) || !g.valid(to) {
		return pair{}, ErrUnknownVertex
	}
	if from == to {
		return pair{}, ErrSelfLoop
	}
	if !g.directed && from > to {
		from, to = to, from
	}
	return pair{from, to}, nil
}

func (g *Graph[V]) insert(k pair, from, to Handle, w float64) {
	idx := len(g.edges)
	g.edges = append(g.edges, Edge{From: from, To: to, Weight: w})
	g.index[k] = idx
	g.incident[from] = append(g.incident[from], idx)
	g.incident[to] = append(g.incident[to], idx)
}

var (
	_ Network = (*Graph[Paper])(nil)
	_ Network = (*Graph[Author])(nil)
	_ Network = (*Graph[Node])(nil)
)
