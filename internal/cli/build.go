package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bibnet/pkg/build"
	"github.com/matzehuels/bibnet/pkg/components"
	errs "github.com/matzehuels/bibnet/pkg/errors"
	netio "github.com/matzehuels/bibnet/pkg/io"
	"github.com/matzehuels/bibnet/pkg/network"
	"github.com/matzehuels/bibnet/pkg/pipeline"
)

const (
	formatJSON    = "json"
	formatGraphML = "graphml"
)

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	kind        string
	output      string // stdout if empty
	format      string // json or graphml
	focus       bool
	recentAfter int
	hops        int
	component   int // -1 for every component
	merge       bool
	noCache     bool
	refresh     bool
}

func (c *CLI) buildCommand() *cobra.Command {
	opts := buildOpts{kind: pipeline.KindCitation, format: formatJSON, component: -1}

	cmd := &cobra.Command{
		Use:   "build [records.json]",
		Short: "Build a citation or co-authorship graph from records",
		Long: `Build reads a JSON array of bibliographic records ("-" for stdin), builds
the requested network and keeps the components that contain a core record.
Each component is written to its own file, <output>.<i>.<ext>, and analyzed
on its own; --component picks a single one and --merge joins them. With
--focus, citation graphs are narrowed to recent papers and author graphs to
the neighbourhood of the core authors.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateKind(opts.kind); err != nil {
				return err
			}
			if opts.format != formatJSON && opts.format != formatGraphML {
				return errs.New(errs.ErrCodeInvalidInput, "invalid format: %s (must be 'json' or 'graphml')", opts.format)
			}
			po := c.Config.Analysis
			po.Focus = po.Focus || opts.focus
			po.Refresh = opts.refresh
			po.Merge = po.Merge || opts.merge
			if cmd.Flags().Changed("recent-after") {
				po.RecentAfter = opts.recentAfter
			}
			if cmd.Flags().Changed("hops") {
				po.Hops = opts.hops
			}
			return c.runBuild(cmd.Context(), args[0], &opts, po)
		},
	}

	cmd.Flags().StringVarP(&opts.kind, "kind", "k", opts.kind, "network kind: citation or author")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: json or graphml")
	cmd.Flags().BoolVar(&opts.focus, "focus", false, "narrow to recent papers or the core neighbourhood")
	cmd.Flags().IntVar(&opts.recentAfter, "recent-after", pipeline.DefaultRecentAfter, "focus: keep papers published after this year")
	cmd.Flags().IntVar(&opts.hops, "hops", pipeline.DefaultHops, "focus: co-authorship steps around the core authors")
	cmd.Flags().IntVar(&opts.component, "component", -1, "write only the component with this index")
	cmd.Flags().BoolVar(&opts.merge, "merge", false, "join the core components into one network")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "rebuild even when a cached graph exists")

	return cmd
}

func (c *CLI) runBuild(ctx context.Context, path string, opts *buildOpts, po pipeline.Options) error {
	prog := newProgress(c.Logger)
	records, err := readRecords(path)
	if err != nil {
		return err
	}
	c.Logger.Debug("read records", "path", path, "records", len(records))

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	switch opts.kind {
	case pipeline.KindAuthor:
		built, err := runner.BuildCoauthors(ctx, records, po)
		if err != nil {
			return err
		}
		if err := writeBuilt(built, opts); err != nil {
			return err
		}
		prog.done(fmt.Sprintf("Built co-authorship network of %d authors", built.Vertices()))
		return nil
	default:
		built, err := runner.BuildCitations(ctx, records, po)
		if err != nil {
			return err
		}
		if err := writeBuilt(built, opts); err != nil {
			return err
		}
		prog.done(fmt.Sprintf("Built citation network of %d papers", built.Vertices()))
		return nil
	}
}

func readRecords(path string) ([]build.Record, error) {
	if path == "-" {
		return netio.ReadRecords(os.Stdin)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errs.New(errs.ErrCodeFileNotFound, "records file %s not found", path)
	}
	return netio.LoadRecords(path)
}

// writeBuilt writes the selected components and, when writing to files,
// prints a summary of the build.
func writeBuilt[V network.Vertex[V]](b *pipeline.Built[V], opts *buildOpts) error {
	comps, err := selectComponents(b, opts.component)
	if err != nil {
		return err
	}
	if opts.output == "" {
		if len(comps) > 1 {
			return errs.New(errs.ErrCodeInvalidInput,
				"%d core components found; use --output, --component or --merge to write them", len(comps))
		}
		return writeGraph(comps[0].Graph, os.Stdout, opts.format)
	}

	paths := make([]string, len(comps))
	for i, c := range comps {
		paths[i] = opts.output
		if len(comps) > 1 {
			paths[i] = componentPath(opts.output, i)
		}
		if err := writeGraphFile(c.Graph, paths[i], opts.format); err != nil {
			return err
		}
	}

	printSuccess("Built %s network", b.Kind)
	printStats(b.Vertices(), b.Edges(), b.Cached)
	printKeyValue("Records", fmt.Sprint(b.Stats.Records))
	printKeyValue("Components", fmt.Sprint(len(b.Components)))
	printKeyValue("Discarded", fmt.Sprintf("%d vertices", b.Discarded))
	if b.Stats.SelfCitations > 0 {
		printKeyValue("Self-citations", fmt.Sprintf("%d dropped", b.Stats.SelfCitations))
	}
	if b.Focused {
		printKeyValue("Focus", "on")
	}
	if b.Merged {
		printKeyValue("Merged", "yes")
	}
	for i, path := range paths {
		printFile(path)
		printDetail("%d vertices, %d edges, %d core", comps[i].Graph.Len(), comps[i].Graph.EdgeCount(), comps[i].Core)
	}
	printNextStep("Analyze it", "bibnet analyze "+paths[0])
	return nil
}

// selectComponents returns the component at index, or all of them when
// index is negative.
func selectComponents[V network.Vertex[V]](b *pipeline.Built[V], index int) ([]components.Component[V], error) {
	if len(b.Components) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "no component of the %s network contains a core record", b.Kind)
	}
	if index < 0 {
		return b.Components, nil
	}
	if index >= len(b.Components) {
		return nil, errs.New(errs.ErrCodeInvalidInput,
			"component %d out of range (%d core components)", index, len(b.Components))
	}
	return b.Components[index : index+1], nil
}

// componentPath inserts the component index before the extension of path:
// "net.json" becomes "net.0.json".
func componentPath(path string, i int) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s.%d%s", strings.TrimSuffix(path, ext), i, ext)
}

func writeGraphFile[V network.Vertex[V]](g *network.Graph[V], path, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := writeGraph(g, f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeGraph[V network.Vertex[V]](g *network.Graph[V], w io.Writer, format string) error {
	if format == formatGraphML {
		return netio.WriteGraphML(g, w)
	}
	return netio.WriteGraph(g, w)
}
