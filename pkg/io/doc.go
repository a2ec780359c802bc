// Package io reads and writes the files bibnet works with.
//
// # Records
//
// Bibliographic records arrive as a JSON array of objects in the shape
// accepted by [build.Record]:
//
//	[
//	  {"id": "A", "authors": ["x", "y"], "year": 2010, "references": ["B"], "core": true},
//	  {"sid": "B", "doi": "10.1/b", "source": ["J. Foo"]}
//	]
//
// Use [LoadRecords] for a file or [ReadRecords] for any io.Reader. Decoding
// of individual fields is tolerant (see [build.Record]); only a document that
// is not an array of objects fails.
//
// # Graphs
//
// Built networks are serialized as JSON with a kind tag, the direction flag,
// the vertex records in handle order and the edges by vertex key:
//
//	{
//	  "kind": "citation",
//	  "directed": true,
//	  "nodes": [{"id": "A", "core": true}, {"id": "B", "core": false}],
//	  "edges": [{"from": "B", "to": "A", "weight": 1}]
//	}
//
// [WriteGraph] and [ReadGraph] round-trip a [network.Graph] exactly: handles
// are reassigned in node order, so they match the original. [ReadHeader]
// peeks at the kind and direction without decoding the vertices, which lets
// callers pick the vertex type before calling [ReadGraph].
//
// [WriteGraphML] exports the same data as GraphML for Gephi, Cytoscape and
// graph-tool.
//
// # Edge lists
//
// Comparison networks are read from SNAP-style edge lists with
// [ReadEdgeList]: one "from to" pair per line separated by tabs or spaces,
// lines starting with '#' ignored. Vertices are created on first sight.
//
// [build.Record]: github.com/matzehuels/bibnet/pkg/build.Record
// [network.Graph]: github.com/matzehuels/bibnet/pkg/network.Graph
package io
