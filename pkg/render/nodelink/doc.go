// Package nodelink draws networks as node-link diagrams with Graphviz.
//
// Vertices are drawn as unlabeled filled circles colored by a group
// assignment, typically the core set or a two-block partition, and
// optionally sized by a per-vertex value. The force-directed sfdp engine
// lays the drawing out, so large citation networks stay readable.
//
// Convert a network to DOT, then render it:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Groups: g.Core().Groups()})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [RenderPNG] renders PNG directly with Graphviz; [RenderPDF] goes through
// SVG and needs librsvg.
//
// This package uses [github.com/goccy/go-graphviz] for in-process
// rendering.
package nodelink
