// Package pipeline runs bibnet end to end: records are built into networks,
// the networks are reduced to the components around the core set, and the
// core set is tested against null distributions.
//
// # Stages
//
//  1. Build: records become a citation or co-authorship network
//     ([Runner.BuildCitations], [Runner.BuildCoauthors]). Only the
//     weakly-connected components that contain a core vertex are kept, each
//     as a network of its own. With [Options.Focus] set every component is
//     further narrowed (recent papers for citation networks, the core
//     neighbourhood for author networks) and reduced to its largest
//     component. [Options.Merge] joins the kept components into one.
//  2. Analyze: [Runner.Analyze] computes the observed modularity and
//     insularity of the core set, draws random-subset and optimized-partition
//     null samples, evaluates their significance and collects centrality
//     profiles, a two-block partition, the downstream boundary and
//     comparison-network tests into a [Report].
//
// The CLI and the report API share this package, so defaults live here.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	built, err := runner.BuildCitations(ctx, records, opts)
//	if err != nil {
//	    return err
//	}
//	for i, c := range built.Components {
//	    report, err := runner.Analyze(ctx, fmt.Sprintf("citations%d", i), c.Graph, nil, opts)
//	    ...
//	}
//
// Null samples of seeded runs are memoized in the runner's cache, keyed by a
// fingerprint of the network and every sampler setting.
package pipeline

import (
	"fmt"
	"time"

	errs "github.com/matzehuels/bibnet/pkg/errors"
	"github.com/matzehuels/bibnet/pkg/sample"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultSamples is the size of each random-subset null sample.
	DefaultSamples = sample.DefaultSamples

	// DefaultOptimalSamples is the size of the optimized-partition sample.
	DefaultOptimalSamples = 500

	// DefaultRecentAfter is the focus filter year for citation networks:
	// only papers published after it are kept.
	DefaultRecentAfter = 2005

	// DefaultHops is the focus radius, in co-authorship steps, around the
	// core authors.
	DefaultHops = 2

	// DefaultSeed is the seed used when a run asks for reproducibility
	// without naming one.
	DefaultSeed = uint64(24680)

	// BoundarySampleSize caps the number of boundary papers listed in a
	// report.
	BoundarySampleSize = 25
)

// Network kinds.
const (
	KindCitation = "citation"
	KindAuthor   = "author"
)

// Statistic and strategy names used in reports and cache keys.
const (
	StatModularity = "modularity"
	StatInsularity = "insularity"

	StrategyRandom    = "random"
	StrategyOptimized = "optimized"
)

// =============================================================================
// Options - Run Configuration
// =============================================================================

// Options configures building and analysis. It decodes from the CLI's TOML
// config file and from API requests.
type Options struct {
	// Sampling
	Samples        int    `toml:"samples" json:"samples,omitempty"`
	OptimalSamples int    `toml:"optimal_samples" json:"optimal_samples,omitempty"`
	MaxAttempts    int    `toml:"max_attempts" json:"max_attempts,omitempty"` // per sample; 0 = 10x samples
	Seed           uint64 `toml:"seed" json:"seed,omitempty"`                 // 0 = time-derived, not cached
	SkipOptimized  bool   `toml:"skip_optimized" json:"skip_optimized,omitempty"`
	DensityPoints  int    `toml:"density_points" json:"density_points,omitempty"`

	// Focus filters
	Focus       bool `toml:"focus" json:"focus,omitempty"`
	RecentAfter int  `toml:"recent_after" json:"recent_after,omitempty"`
	Hops        int  `toml:"hops" json:"hops,omitempty"`

	// Merge joins the core components into one network instead of keeping
	// them apart.
	Merge bool `toml:"merge" json:"merge,omitempty"`

	// Comparison networks, SNAP edge list paths.
	Comparisons []string `toml:"comparisons" json:"comparisons,omitempty"`

	// Caching
	CacheTTL time.Duration `toml:"cache_ttl" json:"cache_ttl,omitempty"`
	Refresh  bool          `toml:"refresh" json:"refresh,omitempty"`

	// Progress receives sampling progress. Not serialized.
	Progress func(Progress) `toml:"-" json:"-"`
}

// Progress reports how far one null sample has come.
type Progress struct {
	Network   string // network under analysis or comparison network name
	Strategy  string
	Statistic string
	Done      int
	Target    int
}

// Label names the sample the event belongs to.
func (p Progress) Label() string {
	return fmt.Sprintf("%s %s %s", p.Network, p.Strategy, p.Statistic)
}

// WithDefaults returns a copy of o with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	if o.Samples <= 0 {
		o.Samples = DefaultSamples
	}
	if o.OptimalSamples <= 0 {
		o.OptimalSamples = DefaultOptimalSamples
	}
	if o.RecentAfter == 0 {
		o.RecentAfter = DefaultRecentAfter
	}
	if o.Hops <= 0 {
		o.Hops = DefaultHops
	}
	return o
}

// Validate rejects option values no run can use.
func (o Options) Validate() error {
	switch {
	case o.Samples < 0:
		return errs.New(errs.ErrCodeInvalidConfig, "samples must not be negative, got %d", o.Samples)
	case o.OptimalSamples < 0:
		return errs.New(errs.ErrCodeInvalidConfig, "optimal_samples must not be negative, got %d", o.OptimalSamples)
	case o.MaxAttempts < 0:
		return errs.New(errs.ErrCodeInvalidConfig, "max_attempts must not be negative, got %d", o.MaxAttempts)
	case o.MaxAttempts > 0 && o.MaxAttempts < max(o.Samples, o.OptimalSamples):
		return errs.New(errs.ErrCodeInvalidConfig, "max_attempts (%d) is below the sample size", o.MaxAttempts)
	case o.Hops < 0:
		return errs.New(errs.ErrCodeInvalidConfig, "hops must not be negative, got %d", o.Hops)
	case o.CacheTTL < 0:
		return errs.New(errs.ErrCodeInvalidConfig, "cache_ttl must not be negative")
	}
	return nil
}

// ValidKinds is the set of supported network kinds.
var ValidKinds = map[string]bool{
	KindCitation: true,
	KindAuthor:   true,
}

// ValidateKind checks that kind names a supported network kind.
func ValidateKind(kind string) error {
	if !ValidKinds[kind] {
		return errs.New(errs.ErrCodeInvalidInput, "invalid kind: %q (must be one of: citation, author)", kind)
	}
	return nil
}
