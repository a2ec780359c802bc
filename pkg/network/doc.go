// Package network provides the typed graph model used to assemble citation
// and co-authorship networks from bibliographic records.
//
// # Overview
//
// A [Graph] owns its vertices, its edges and every per-vertex attribute. The
// vertex type is a strongly typed record chosen per graph kind:
//
//   - [Paper] for directed citation networks (edge tail = cited work,
//     head = citing work)
//   - [Author] for undirected co-authorship networks (edge weight = number
//     of co-authored papers)
//   - [Node] for bare comparison networks loaded from edge lists
//
// Vertices are addressed by a dense [Handle] that starts at zero and doubles
// as the gonum node ID, so a graph can be handed to gonum algorithms through
// [ToGonum] without a lookup table.
//
// # Identifier Registry
//
// Records reference each other by external identifier before they have been
// described. A [Registry] maps an external identifier to exactly one
// handle, creating a placeholder vertex the first time an identifier is
// seen:
//
//	g := network.New[network.Paper](true)
//	reg := network.NewRegistry(g, network.NewPaper)
//	a := reg.Resolve("2-s2.0-123")
//	b := reg.Resolve("2-s2.0-123") // a == b
//
// Each graph gets its own registry; nothing is shared between the citation
// and co-authorship builds of the same run.
//
// # Edges
//
// Edge insertion is idempotent. [Graph.AddEdge] never creates a parallel
// edge for the same ordered pair (directed) or unordered pair (undirected),
// and [Graph.AddWeight] increments the weight of an existing edge instead.
// Self-loops are rejected with [ErrSelfLoop].
//
// # Derived graphs
//
// [Graph.Induced] extracts an induced subgraph as an independent copy:
// vertex records are cloned, so later changes to the parent never show up in
// extracted components.
//
// # Concurrency
//
// Graph and Registry are not safe for concurrent mutation. Building from
// several goroutines at once races on first resolution of an identifier and
// would create duplicate vertices. Read-only use (statistics, sampling) of a
// finished graph is safe from any number of goroutines.
package network
