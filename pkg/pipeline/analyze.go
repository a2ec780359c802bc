package pipeline

import (
	"context"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/bibnet/pkg/centrality"
	"github.com/matzehuels/bibnet/pkg/components"
	errs "github.com/matzehuels/bibnet/pkg/errors"
	"github.com/matzehuels/bibnet/pkg/network"
	"github.com/matzehuels/bibnet/pkg/observability"
	"github.com/matzehuels/bibnet/pkg/sample"
	"github.com/matzehuels/bibnet/pkg/significance"
	"github.com/matzehuels/bibnet/pkg/statistic"
)

// Named is a comparison network with the name it is reported under.
type Named struct {
	Name    string
	Network network.Network
}

// Analyze tests the core set of n and returns the report.
//
// The core set must be non-empty and n must have at least one edge. An
// undefined observed insularity is not an error: the insularity tests are
// skipped and the report leaves the value out. Comparison networks are
// sampled with the core size scaled to their vertex count.
//
// Analyze never modifies n.
func (r *Runner) Analyze(ctx context.Context, name string, n network.Network, comparisons []Named, opts Options) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	// Default sample sizes may still exceed max_attempts.
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnAnalyzeStart(ctx, name, n.Len(), n.EdgeCount())
	start := time.Now()
	report, err := r.analyze(ctx, name, n, comparisons, opts)
	hooks.OnAnalyzeComplete(ctx, name, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	report.Duration = time.Since(start)
	r.Logger.Info("analyzed network", "name", name, "duration", report.Duration.Round(time.Millisecond))
	return report, nil
}

func (r *Runner) analyze(ctx context.Context, name string, n network.Network, comparisons []Named, opts Options) (*Report, error) {
	core := n.Core()
	k := core.Size()
	if k == 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "network %s has no core vertices", name)
	}

	report := &Report{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Seed:      opts.Seed,
		Directed:  n.Directed(),
		Vertices:  n.Len(),
		Edges:     n.EdgeCount(),
		Core:      k,
	}

	mod, err := statistic.Modularity(n, core)
	if err != nil {
		return nil, err
	}
	report.Modularity = mod
	observed := map[string]float64{StatModularity: mod}

	var insLog any = "undefined"
	if ins, err := statistic.Insularity(n, core); err == nil {
		report.Insularity = &ins
		observed[StatInsularity] = ins
		insLog = ins
	} else {
		r.Logger.Warn("insularity undefined, skipping insularity tests", "network", name, "error", err)
	}
	r.Logger.Info("observed statistics", "network", name, "core", k, "modularity", mod, "insularity", insLog)

	hash := Fingerprint(n)
	for _, stat := range []string{StatModularity, StatInsularity} {
		obs, ok := observed[stat]
		if !ok {
			continue
		}
		job := sampleJob{network: name, net: n, hash: hash, strategy: StrategyRandom, statistic: stat, k: k, samples: opts.Samples}
		t, err := r.test(ctx, job, obs, opts, false)
		if err != nil {
			return nil, err
		}
		report.Tests = append(report.Tests, t)
	}

	if !opts.SkipOptimized {
		job := sampleJob{network: name, net: n, hash: hash, strategy: StrategyOptimized, statistic: StatModularity, samples: opts.OptimalSamples}
		t, err := r.test(ctx, job, mod, opts, true)
		if err != nil {
			return nil, err
		}
		report.Tests = append(report.Tests, t)

		if report.Partition, err = twoBlock(n, deriveSeed(opts.Seed, name+"/partition")); err != nil {
			return nil, err
		}
	}

	if report.Centrality, err = r.profiles(name, n, core); err != nil {
		return nil, err
	}
	if n.Directed() {
		report.Boundary = boundary(n, core, deriveSeed(opts.Seed, name+"/boundary"))
	}

	for _, c := range comparisons {
		cmp, ok, err := r.compare(ctx, c, n.Len(), k, observed, opts)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		report.Comparisons = append(report.Comparisons, cmp)
	}
	return report, nil
}

// compare tests observed against random subsets of the comparison network.
// It reports false when the scaled core size does not fit the network.
func (r *Runner) compare(ctx context.Context, c Named, n, k int, observed map[string]float64, opts Options) (Comparison, bool, error) {
	cmp := Comparison{
		Name:     c.Name,
		Vertices: c.Network.Len(),
		Edges:    c.Network.EdgeCount(),
		K:        sample.ScaledK(k, n, c.Network.Len()),
	}
	if cmp.K == 0 || cmp.K > cmp.Vertices {
		r.Logger.Warn("skipping comparison, scaled core size does not fit",
			"comparison", c.Name, "k", cmp.K, "vertices", cmp.Vertices)
		return Comparison{}, false, nil
	}
	hash := Fingerprint(c.Network)
	for _, stat := range []string{StatModularity, StatInsularity} {
		obs, ok := observed[stat]
		if !ok {
			continue
		}
		job := sampleJob{network: c.Name, net: c.Network, hash: hash, strategy: StrategyRandom, statistic: stat, k: cmp.K, samples: opts.Samples}
		t, err := r.test(ctx, job, obs, opts, false)
		if err != nil {
			return Comparison{}, false, err
		}
		cmp.Tests = append(cmp.Tests, t)
	}
	return cmp, true, nil
}

func (r *Runner) test(ctx context.Context, job sampleJob, observed float64, opts Options, invert bool) (Test, error) {
	res, hit, err := r.draw(ctx, job, opts)
	if err != nil {
		return Test{}, err
	}
	ev, err := significance.Evaluate(res.Samples, observed, significance.Options{
		InvertFold:    invert,
		DensityPoints: opts.DensityPoints,
	})
	if err != nil {
		return Test{}, err
	}
	t := newTest(job.strategy, job.statistic, ev)
	t.K = job.k
	t.Attempts = res.Attempts
	t.Discarded = res.Discarded
	t.Seed = res.Seed
	t.Cached = hit
	r.Logger.Info("significance",
		"network", job.network,
		"strategy", job.strategy,
		"statistic", job.statistic,
		"observed", observed,
		"p", t.P,
		"fold", ev.Fold,
		"mean", ev.Mean)
	return t, nil
}

func twoBlock(n network.Network, seed uint64) (*PartitionReport, error) {
	p, err := sample.TwoBlock(n, seed)
	if err != nil {
		return nil, err
	}
	mod, err := statistic.Modularity(n, p)
	if err != nil {
		return nil, err
	}
	groups := p.Groups()
	ins, err := statistic.GroupInsularity(n, groups)
	if err != nil {
		return nil, err
	}
	rep := &PartitionReport{Modularity: mod, Insularity: make(map[int]*float64, len(ins))}
	for g, v := range ins {
		rep.Insularity[g] = finite(v)
	}
	core := n.Core()
	for h, g := range groups {
		rep.Sizes[g]++
		if g == 1 && core[h] {
			rep.CoreInside++
		}
	}
	return rep, nil
}

// profiles summarizes how the core ranks under each centrality measure. A
// measure that is undefined on n is left out.
func (r *Runner) profiles(name string, n network.Network, core network.Partition) ([]centrality.Profile, error) {
	var out []centrality.Profile
	for _, m := range []centrality.Measure{centrality.OutDegree, centrality.Eigenvector, centrality.PageRank} {
		values, err := centrality.Compute(n, m)
		if errs.Is(err, errs.ErrCodeUndefinedStatistic) {
			r.Logger.Warn("skipping centrality profile", "network", name, "measure", m, "error", err)
			continue
		}
		if err != nil {
			return nil, err
		}
		p, err := centrality.CoreProfile(centrality.NewDistribution(m, values), core)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// boundary lists the papers citing the core set, with up to
// BoundarySampleSize of them chosen at random.
func boundary(n network.Network, core network.Partition, seed uint64) *BoundaryReport {
	b := components.Boundary(n, core)
	members := b.Members()
	rep := &BoundaryReport{Size: len(members)}
	if len(members) == 0 {
		return rep
	}

	if len(members) > BoundarySampleSize {
		rng := rand.New(rand.NewPCG(seed, seed>>1))
		if seed == 0 {
			rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
		rng.Shuffle(len(members), func(i, j int) { members[i], members[j] = members[j], members[i] })
		members = members[:BoundarySampleSize]
		slices.Sort(members)
	}

	refs := make(map[network.Handle][]string, len(members))
	for _, h := range members {
		refs[h] = []string{}
	}
	for _, e := range n.Edges() {
		if cited, ok := refs[e.To]; ok && core[e.From] {
			refs[e.To] = append(cited, n.Key(e.From))
		}
	}
	for _, h := range members {
		rep.Sample = append(rep.Sample, BoundaryPaper{ID: n.Key(h), CoreRefs: refs[h]})
	}
	return rep
}
