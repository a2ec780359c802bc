package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/bibnet/pkg/cache"
	"github.com/matzehuels/bibnet/pkg/network"
	"github.com/matzehuels/bibnet/pkg/observability"
	"github.com/matzehuels/bibnet/pkg/sample"
	"github.com/matzehuels/bibnet/pkg/statistic"
)

// Runner executes pipeline stages with caching.
//
// The Runner holds no per-run state; several goroutines may share one
// Runner as long as each analyzes its own networks.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer means DefaultKeyer, a nil cache
// disables caching and a nil logger discards log output.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Close releases the runner's cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// Fingerprint returns a content hash of n's structure and core set. Two
// networks with the same fingerprint yield the same null samples for the
// same seed.
func Fingerprint(n network.Network) string {
	data, _ := json.Marshal(struct {
		Directed bool             `json:"directed"`
		Vertices int              `json:"vertices"`
		Edges    []network.Edge   `json:"edges"`
		Core     []network.Handle `json:"core"`
	}{n.Directed(), n.Len(), n.Edges(), n.Core().Members()})
	return cache.Hash(data)
}

// deriveSeed gives every sample of a run its own stream. A zero base stays
// zero so the sampler picks a time-derived seed.
func deriveSeed(base uint64, label string) uint64 {
	if base == 0 {
		return 0
	}
	if s := base ^ xxhash.Sum64String(label); s != 0 {
		return s
	}
	return base
}

// sampleJob describes one null sample to draw.
type sampleJob struct {
	network   string // report label of the sampled network
	net       network.Network
	hash      string // Fingerprint(net)
	strategy  string
	statistic string
	k         int
	samples   int
}

type cachedSample struct {
	Samples   []float64 `json:"samples"`
	Attempts  int       `json:"attempts"`
	Discarded int       `json:"discarded"`
	Seed      uint64    `json:"seed"`
}

// draw produces the null sample of job, from the cache when possible.
func (r *Runner) draw(ctx context.Context, job sampleJob, opts Options) (sample.Result, bool, error) {
	stat, err := statistic.Of(statistic.Kind(job.statistic), job.net)
	if err != nil {
		return sample.Result{}, false, err
	}
	sopts := sample.Options{
		Samples:     job.samples,
		MaxAttempts: opts.MaxAttempts,
		Seed:        deriveSeed(opts.Seed, fmt.Sprintf("%s/%s/%s", job.network, job.strategy, job.statistic)),
	}

	var key string
	if sopts.Seed != 0 {
		key = r.Keyer.SampleKey(job.hash, cache.SampleKeyOpts{
			Strategy:    job.strategy,
			Statistic:   job.statistic,
			K:           job.k,
			Samples:     job.samples,
			MaxAttempts: opts.MaxAttempts,
			Seed:        sopts.Seed,
		})
		if !opts.Refresh {
			if res, ok := r.cached(ctx, key); ok {
				r.Logger.Debug("null sample from cache", "network", job.network,
					"strategy", job.strategy, "statistic", job.statistic)
				return res, true, nil
			}
		}
	}

	hooks := observability.Pipeline()
	sopts.Progress = func(p sample.Progress) {
		hooks.OnSampleProgress(ctx, job.strategy, job.statistic, p.Done, p.Target)
		if opts.Progress != nil {
			opts.Progress(Progress{
				Network:   job.network,
				Strategy:  job.strategy,
				Statistic: job.statistic,
				Done:      p.Done,
				Target:    p.Target,
			})
		}
	}

	start := time.Now()
	hooks.OnSampleStart(ctx, job.strategy, job.statistic, job.samples)
	var res sample.Result
	switch job.strategy {
	case StrategyOptimized:
		res, err = sample.Optimized(ctx, job.net, stat, sopts)
	default:
		res, err = sample.RandomSubset(ctx, job.net.Len(), job.k, stat, sopts)
	}
	hooks.OnSampleComplete(ctx, job.strategy, job.statistic, len(res.Samples), time.Since(start), err)
	if err != nil {
		return sample.Result{}, false, fmt.Errorf("%s %s sample of %s: %w", job.strategy, job.statistic, job.network, err)
	}

	r.Logger.Info("drew null sample",
		"network", job.network,
		"strategy", job.strategy,
		"statistic", job.statistic,
		"samples", len(res.Samples),
		"discarded", res.Discarded,
		"duration", time.Since(start).Round(time.Millisecond))

	if key != "" {
		r.store(ctx, key, res, opts.CacheTTL)
	}
	return res, false, nil
}

func (r *Runner) cached(ctx context.Context, key string) (sample.Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "sample")
		return sample.Result{}, false
	}
	var c cachedSample
	if err := json.Unmarshal(data, &c); err != nil {
		observability.Cache().OnCacheMiss(ctx, "sample")
		return sample.Result{}, false
	}
	observability.Cache().OnCacheHit(ctx, "sample")
	return sample.Result{Samples: c.Samples, Attempts: c.Attempts, Discarded: c.Discarded, Seed: c.Seed}, true
}

func (r *Runner) store(ctx context.Context, key string, res sample.Result, ttl time.Duration) {
	if ttl == 0 {
		ttl = cache.TTLSamples
	}
	data, err := json.Marshal(cachedSample{
		Samples:   res.Samples,
		Attempts:  res.Attempts,
		Discarded: res.Discarded,
		Seed:      res.Seed,
	})
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "sample", len(data))
}
