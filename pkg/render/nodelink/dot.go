package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"
	"gonum.org/v1/gonum/floats"

	errs "github.com/matzehuels/bibnet/pkg/errors"
	"github.com/matzehuels/bibnet/pkg/network"
	"github.com/matzehuels/bibnet/pkg/render"
)

// Default vertex diameters in inches.
const (
	DefaultMinSize = 0.1
	DefaultMaxSize = 0.2
)

// Palette colors the vertex groups: group g is drawn in Palette[g-1], so
// group 1 (the core set or the smaller block) gets the first color and
// group 0 the last. Larger group numbers wrap around.
var Palette = []string{"#d95f02", "#1b9e77", "#7570b3", "#e7298a", "#66a61e", "#e6ab02"}

// Options configures a node-link drawing.
type Options struct {
	// Groups assigns each vertex, by handle, to a color group. Vertices
	// without an entry are in group 0.
	Groups []int

	// Sizes holds a per-vertex value mapped linearly onto
	// [MinSize, MaxSize]. Nil draws every vertex at MinSize.
	Sizes            []float64
	MinSize, MaxSize float64

	// Labels writes vertex keys next to the vertices.
	Labels bool
}

// ToDOT converts n to Graphviz DOT. Vertices are named by handle and carry
// their key as tooltip.
func ToDOT(n network.Network, opts Options) string {
	if opts.MinSize <= 0 {
		opts.MinSize = DefaultMinSize
	}
	if opts.MaxSize < opts.MinSize {
		opts.MaxSize = max(DefaultMaxSize, opts.MinSize)
	}
	sizes := ScaleSizes(opts.Sizes, n.Len(), opts.MinSize, opts.MaxSize)

	var buf bytes.Buffer
	kind, arrow := "graph", "--"
	if n.Directed() {
		kind, arrow = "digraph", "->"
	}
	fmt.Fprintf(&buf, "%s G {\n", kind)
	buf.WriteString("  layout=sfdp;\n")
	buf.WriteString("  overlap=prism;\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, penwidth=0];\n")
	buf.WriteString("  edge [color=\"#00000040\", arrowsize=0.3];\n\n")

	for h := 0; h < n.Len(); h++ {
		key := n.Key(network.Handle(h))
		label := ""
		if opts.Labels {
			label = key
		}
		fmt.Fprintf(&buf, "  %d [label=%q, tooltip=%q, fillcolor=%q, width=%s];\n",
			h, label, key, color(opts.Groups, h), strconv.FormatFloat(sizes[h], 'f', 3, 64))
	}

	buf.WriteString("\n")
	for _, e := range n.Edges() {
		fmt.Fprintf(&buf, "  %d %s %d;\n", e.From, arrow, e.To)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func color(groups []int, h int) string {
	g := 0
	if h < len(groups) {
		g = groups[h]
	}
	k := len(Palette)
	return Palette[((g-1)%k+k)%k]
}

// ScaleSizes maps values linearly onto [lo, hi]. Missing or constant values
// map to lo.
func ScaleSizes(values []float64, n int, lo, hi float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = lo
	}
	if len(values) != n || n == 0 {
		return out
	}
	vmin, vmax := floats.Min(values), floats.Max(values)
	if vmax == vmin {
		return out
	}
	for i, v := range values {
		out[i] = lo + (v-vmin)/(vmax-vmin)*(hi-lo)
	}
	return out
}

// Formats lists the output formats [Render] accepts.
var Formats = []string{"svg", "png", "pdf"}

// Render renders DOT source to one of [Formats].
func Render(ctx context.Context, dot, format string) ([]byte, error) {
	switch format {
	case "svg":
		return RenderSVG(ctx, dot)
	case "png":
		return RenderPNG(ctx, dot)
	case "pdf":
		return RenderPDF(ctx, dot)
	default:
		return nil, errs.New(errs.ErrCodeInvalidInput, "unknown image format %q (must be svg, png or pdf)", format)
	}
}

// RenderSVG renders DOT source to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	data, err := renderFormat(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(data), nil
}

// RenderPNG renders DOT source to PNG with Graphviz directly.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.PNG)
}

// RenderPDF renders DOT source to SVG and converts it with [render.ToPDF].
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

func renderFormat(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.SFDP)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg tag with one that
// scales with its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
