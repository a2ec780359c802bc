package cli

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bibnet/pkg/centrality"
	errs "github.com/matzehuels/bibnet/pkg/errors"
	netio "github.com/matzehuels/bibnet/pkg/io"
	"github.com/matzehuels/bibnet/pkg/network"
	"github.com/matzehuels/bibnet/pkg/render/nodelink"
	"github.com/matzehuels/bibnet/pkg/sample"
)

const (
	colorByCore      = "core"
	colorByPartition = "partition"
	sizeNone         = "none"
	formatDOT        = "dot"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // output file (single format) or base path
	formats []string // svg, png, pdf, dot
	colorBy string   // core or partition
	sizeBy  string   // none or a centrality measure
	labels  bool
	seed    uint64
}

func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{colorBy: colorByCore, sizeBy: string(centrality.PageRank)}

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Draw a graph as a node-link diagram",
		Long: `Render lays a graph out with Graphviz sfdp and draws it, coloring either the
core set or an optimized two-block partition and sizing vertices by a
centrality measure.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			if opts.colorBy != colorByCore && opts.colorBy != colorByPartition {
				return errs.New(errs.ErrCodeInvalidInput, "invalid color: %s (must be 'core' or 'partition')", opts.colorBy)
			}
			if !cmd.Flags().Changed("seed") {
				opts.seed = c.Config.Analysis.Seed
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot (comma-separated)")
	cmd.Flags().StringVar(&opts.colorBy, "color", opts.colorBy, "color by: core or partition")
	cmd.Flags().StringVar(&opts.sizeBy, "size", opts.sizeBy, "size by: none, out_degree, eigenvector or pagerank")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "label vertices with their ids")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "seed of the two-block partition")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{"svg"}
	}
	return strings.Split(s, ",")
}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if f != formatDOT && !slices.Contains(nodelink.Formats, f) {
			return errs.New(errs.ErrCodeInvalidInput, "invalid format: %s (must be 'svg', 'png', 'pdf' or 'dot')", f)
		}
	}
	return nil
}

// outputPath names the file for one format. With a single format the
// --output value is used as is.
func outputPath(output, input, format string, multiple bool) string {
	if output == "" {
		return baseName(input) + "." + format
	}
	if !multiple {
		return output
	}
	return strings.TrimSuffix(output, "."+format) + "." + format
}

func (c *CLI) runRender(ctx context.Context, path string, opts *renderOpts) error {
	n, _, err := netio.LoadNetwork(path)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidFormat, err, "load %s", path)
	}

	drawing := nodelink.Options{Labels: opts.labels}
	if drawing.Groups, err = groups(n, opts.colorBy, opts.seed); err != nil {
		return err
	}
	if opts.sizeBy != sizeNone {
		if drawing.Sizes, err = centrality.Compute(n, centrality.Measure(opts.sizeBy)); err != nil {
			return err
		}
	}
	dot := nodelink.ToDOT(n, drawing)

	prog := newProgress(c.Logger)
	written := 0
	for _, format := range opts.formats {
		data := []byte(dot)
		if format != formatDOT {
			spinner := newSpinner(ctx, os.Stderr, fmt.Sprintf("Rendering %s...", format))
			spinner.Start()
			data, err = nodelink.Render(ctx, dot, format)
			if err != nil {
				if ctx.Err() != nil {
					spinner.Stop()
					return ctx.Err()
				}
				spinner.StopWithError("%s skipped: %s", format, errs.UserMessage(err))
				c.Logger.Debug("render failed", "format", format, "err", err)
				continue
			}
			spinner.Stop()
		}
		out := outputPath(opts.output, path, format, len(opts.formats) > 1)
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		printFile(out)
		written++
	}
	if written == 0 {
		return errs.New(errs.ErrCodeUnsupported, "no output could be rendered")
	}
	prog.done(fmt.Sprintf("Rendered %d vertices to %d files", n.Len(), written))
	return nil
}

func groups(n network.Network, colorBy string, seed uint64) ([]int, error) {
	if colorBy == colorByPartition {
		p, err := sample.TwoBlock(n, seed)
		if err != nil {
			return nil, err
		}
		return p.Groups(), nil
	}
	return n.Core().Groups(), nil
}
