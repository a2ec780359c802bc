// Package pkg provides the libraries behind bibnet, a toolkit for testing
// whether a set of papers or authors forms a distinct community inside a
// citation or co-authorship network.
//
// # Overview
//
// A run starts from bibliographic records, some of them flagged as the core
// set. The records are assembled into a network, the network is reduced to
// the components that contain core vertices, and the core set is scored by
// modularity and insularity. The scores are then compared with null
// distributions drawn from random subsets of the same size and from
// optimized two-block partitions.
//
//	records (JSON)
//	     ↓
//	[build]       citation or co-authorship graph
//	     ↓
//	[components]  components holding core vertices
//	     ↓
//	[statistic]   modularity, insularity
//	     ↓
//	[sample]      null distributions
//	     ↓
//	[significance] p-value, fold, density
//
// [pipeline] runs these steps end to end for the CLI and the API, caching
// null samples through [cache].
//
// # Quick Start
//
//	import (
//	    "fmt"
//
//	    "github.com/matzehuels/bibnet/pkg/build"
//	    "github.com/matzehuels/bibnet/pkg/components"
//	    "github.com/matzehuels/bibnet/pkg/io"
//	    "github.com/matzehuels/bibnet/pkg/statistic"
//	)
//
//	records, _ := io.LoadRecords("records.json")
//	reg := build.NewCitationRegistry()
//	_, _ = build.Citations(reg, records, build.Options{})
//	for _, c := range components.Filter(reg.Graph()) {
//	    q, _ := statistic.Modularity(c.Graph, c.Graph.Core())
//	    fmt.Println(c.Label, q)
//	}
//
// # Packages
//
// [network] - Typed graph model: vertices addressed by handles, directed or
// undirected edges with weights, and the identifier registry that resolves
// record identifiers to vertices.
//
// [build] - Citation and co-authorship graph builders.
//
// [components] - Weakly-connected components, filtering and expansion.
//
// [statistic] - Modularity and insularity of a vertex set.
//
// [sample] - Random-subset and optimized-partition null samplers.
//
// [significance] - Empirical p-values, folds, summaries and densities.
//
// [centrality] - Out-degree, eigenvector and PageRank profiles of the core.
//
// [io] - Record, graph document, GraphML and edge list formats.
//
// [pipeline] - End-to-end build and analysis with caching and reports.
//
// [cache] - File, Redis and null caches for null samples and graphs.
//
// [store] - File and MongoDB report stores.
//
// [api] - HTTP API over the store and the pipeline.
//
// [render] - Graphviz node-link drawings and SVG conversion.
//
// [observability] - Hooks for build, sampling, cache and HTTP events.
//
// [errors] - Coded errors shared by all packages.
//
// [network]: https://pkg.go.dev/github.com/matzehuels/bibnet/pkg/network
// [build]: https://pkg.go.dev/github.com/matzehuels/bibnet/pkg/build
// [components]: https://pkg.go.dev/github.com/matzehuels/bibnet/pkg/components
// [statistic]: https://pkg.go.dev/github.com/matzehuels/bibnet/pkg/statistic
// [sample]: https://pkg.go.dev/github.com/matzehuels/bibnet/pkg/sample
// [significance]: https://pkg.go.dev/github.com/matzehuels/bibnet/pkg/significance
// [centrality]: https://pkg.go.dev/github.com/matzehuels/bibnet/pkg/centrality
// [io]: https://pkg.go.dev/github.com/matzehuels/bibnet/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/bibnet/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/bibnet/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/bibnet/pkg/store
// [api]: https://pkg.go.dev/github.com/matzehuels/bibnet/pkg/api
// [render]: https://pkg.go.dev/github.com/matzehuels/bibnet/pkg/render
// [observability]: https://pkg.go.dev/github.com/matzehuels/bibnet/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/bibnet/pkg/errors
package pkg
