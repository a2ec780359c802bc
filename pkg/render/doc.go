// Package render converts network drawings between image formats.
//
// Drawings are produced as SVG by the [nodelink] subpackage. [ToPDF] and
// [ToPNG] pipe SVG through the external rsvg-convert tool; [Available]
// reports whether it is installed. Without it both return an UNSUPPORTED
// error.
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//
// [nodelink]: github.com/matzehuels/bibnet/pkg/render/nodelink
package render
