package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/bibnet/pkg/errors"
	netio "github.com/matzehuels/bibnet/pkg/io"
	"github.com/matzehuels/bibnet/pkg/pipeline"
)

// analyzeOpts holds the command-line flags for the analyze command.
type analyzeOpts struct {
	name     string
	compare  []string // [name=]path of SNAP edge lists
	output   string   // JSON report file
	save     bool     // store the report
	progress bool     // interactive progress display
	quiet    bool     // no summary on stdout
	noCache  bool
}

func (c *CLI) analyzeCommand() *cobra.Command {
	var opts analyzeOpts
	var flagOpts pipeline.Options

	cmd := &cobra.Command{
		Use:   "analyze [graph.json]",
		Short: "Test a graph's core set against null distributions",
		Long: `Analyze computes the modularity and insularity of the core set of a graph
built with "bibnet build" and compares them with random subsets of the same
size and with optimized two-block partitions. Comparison networks given as
SNAP edge lists are sampled with the core size scaled to their vertex count.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			po := mergeOptions(c.Config.Analysis, flagOpts, cmd)
			if err := po.Validate(); err != nil {
				return err
			}
			return c.runAnalyze(cmd.Context(), args[0], &opts, po)
		},
	}

	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "report name (default: file name)")
	cmd.Flags().StringArrayVarP(&opts.compare, "compare", "c", nil, "comparison edge list, [name=]path (repeatable)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the JSON report to this file")
	cmd.Flags().BoolVar(&opts.save, "save", false, "store the report")
	cmd.Flags().BoolVar(&opts.progress, "progress", false, "show live sampling progress")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "do not print the summary")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	cmd.Flags().IntVar(&flagOpts.Samples, "samples", pipeline.DefaultSamples, "random subsets per null sample")
	cmd.Flags().IntVar(&flagOpts.OptimalSamples, "optimal-samples", pipeline.DefaultOptimalSamples, "optimized partitions per null sample")
	cmd.Flags().IntVar(&flagOpts.MaxAttempts, "max-attempts", 0, "draws allowed per null sample (0: 10x samples)")
	cmd.Flags().Uint64Var(&flagOpts.Seed, "seed", pipeline.DefaultSeed, "random seed (0: unseeded, not cached)")
	cmd.Flags().BoolVar(&flagOpts.SkipOptimized, "skip-optimized", false, "skip the optimized-partition test")
	cmd.Flags().IntVar(&flagOpts.DensityPoints, "density-points", 0, "density grid size (negative: none)")
	cmd.Flags().BoolVar(&flagOpts.Refresh, "refresh", false, "redraw samples even when cached")

	return cmd
}

// mergeOptions overlays the flags the user set on the configured options.
func mergeOptions(base, flags pipeline.Options, cmd *cobra.Command) pipeline.Options {
	set := cmd.Flags().Changed
	if set("samples") {
		base.Samples = flags.Samples
	}
	if set("optimal-samples") {
		base.OptimalSamples = flags.OptimalSamples
	}
	if set("max-attempts") {
		base.MaxAttempts = flags.MaxAttempts
	}
	if set("seed") {
		base.Seed = flags.Seed
	}
	if set("skip-optimized") {
		base.SkipOptimized = flags.SkipOptimized
	}
	if set("density-points") {
		base.DensityPoints = flags.DensityPoints
	}
	if set("refresh") {
		base.Refresh = flags.Refresh
	}
	return base
}

func (c *CLI) runAnalyze(ctx context.Context, path string, opts *analyzeOpts, po pipeline.Options) error {
	n, header, err := netio.LoadNetwork(path)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidFormat, err, "load %s", path)
	}
	name := opts.name
	if name == "" {
		name = baseName(path)
	}
	if err := errs.ValidateNetworkName(name); err != nil {
		return err
	}
	c.Logger.Debug("loaded graph", "path", path, "kind", header.Kind, "vertices", n.Len(), "edges", n.EdgeCount())

	comparisons, err := c.loadComparisons(slices.Concat(po.Comparisons, opts.compare), n.Directed())
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	var rep *pipeline.Report
	analyze := func(ctx context.Context, progress func(pipeline.Progress)) error {
		po.Progress = progress
		var err error
		rep, err = runner.Analyze(ctx, name, n, comparisons, po)
		return err
	}
	if opts.progress {
		err = runWithProgress(ctx, "Sampling "+name, analyze)
	} else {
		spinner := newSpinner(ctx, os.Stderr, "Sampling null distributions...")
		spinner.Start()
		err = analyze(ctx, func(p pipeline.Progress) {
			spinner.SetStatus("Sampling %s %d/%d", p.Label(), p.Done, p.Target)
		})
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	if opts.output != "" {
		if err := writeReport(rep, opts.output); err != nil {
			return err
		}
	}
	if opts.save {
		if err := c.saveReport(ctx, rep); err != nil {
			return err
		}
	}
	if !opts.quiet {
		if rep.Insularity == nil {
			printWarning("Insularity is undefined for this core set; only modularity was tested")
		}
		printReport(os.Stdout, rep)
		if opts.output != "" {
			printFile(opts.output)
		}
	}
	return nil
}

// loadComparisons reads SNAP edge lists with the analyzed network's
// directedness. Each argument is "name=path" or a bare path named after its
// file.
func (c *CLI) loadComparisons(args []string, directed bool) ([]pipeline.Named, error) {
	out := make([]pipeline.Named, 0, len(args))
	for _, arg := range args {
		name, path, ok := strings.Cut(arg, "=")
		if !ok {
			name, path = baseName(arg), arg
		}
		g, err := netio.LoadEdgeList(path, directed)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "comparison %s", name)
		}
		c.Logger.Debug("loaded comparison", "name", name, "vertices", g.Len(), "edges", g.EdgeCount())
		out = append(out, pipeline.Named{Name: name, Network: g})
	}
	return out, nil
}

func (c *CLI) saveReport(ctx context.Context, rep *pipeline.Report) error {
	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.Save(ctx, rep); err != nil {
		return err
	}
	printSuccess("Saved report %s", StyleHighlight.Render(rep.ID))
	return nil
}

func writeReport(rep *pipeline.Report, path string) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// baseName strips directory and extension from path.
func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
