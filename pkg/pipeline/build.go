package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bibnet/pkg/build"
	"github.com/matzehuels/bibnet/pkg/cache"
	"github.com/matzehuels/bibnet/pkg/components"
	netio "github.com/matzehuels/bibnet/pkg/io"
	"github.com/matzehuels/bibnet/pkg/network"
	"github.com/matzehuels/bibnet/pkg/observability"
)

// Built is the outcome of the build stage.
type Built[V network.Vertex[V]] struct {
	Kind  string      `json:"kind"`
	Stats build.Stats `json:"stats"`

	// Components are the weakly-connected components that contain a core
	// vertex, in label order. Each is analyzed on its own. With
	// [Options.Merge] set there is a single entry, the union of them.
	Components []components.Component[V] `json:"-"`

	// Discarded counts the vertices left out of Components.
	Discarded int `json:"discarded"`

	// Focused reports whether the focus filter narrowed each component.
	Focused bool `json:"focused"`
	Merged  bool `json:"merged"`

	Cached bool `json:"cached"`
}

// Vertices returns the number of vertices over all components.
func (b *Built[V]) Vertices() int {
	total := 0
	for _, c := range b.Components {
		total += c.Graph.Len()
	}
	return total
}

// Edges returns the number of edges over all components.
func (b *Built[V]) Edges() int {
	total := 0
	for _, c := range b.Components {
		total += c.Graph.EdgeCount()
	}
	return total
}

// BuildCitations builds the citation network of records.
func (r *Runner) BuildCitations(ctx context.Context, records []build.Record, opts Options) (*Built[network.Paper], error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	g, stats, hit, err := buildCached(ctx, r, records, KindCitation, opts, func() (*network.Graph[network.Paper], build.Stats, error) {
		reg := build.NewCitationRegistry()
		stats, err := build.Citations(reg, records, build.Options{Progress: r.buildProgress(KindCitation)})
		return reg.Graph(), stats, err
	})
	if err != nil {
		return nil, err
	}
	var focus func(*network.Graph[network.Paper]) (components.Component[network.Paper], bool)
	if opts.Focus {
		after := opts.WithDefaults().RecentAfter
		focus = func(c *network.Graph[network.Paper]) (components.Component[network.Paper], bool) {
			return FocusRecent(c, after)
		}
		r.Logger.Info("focusing on recent papers", "after", after)
	}
	built := retain(r.Logger, KindCitation, g, stats, focus, opts.Merge)
	built.Cached = hit
	return built, nil
}

// BuildCoauthors builds the co-authorship network of records.
func (r *Runner) BuildCoauthors(ctx context.Context, records []build.Record, opts Options) (*Built[network.Author], error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	g, stats, hit, err := buildCached(ctx, r, records, KindAuthor, opts, func() (*network.Graph[network.Author], build.Stats, error) {
		reg := build.NewCoauthorRegistry()
		stats, err := build.Coauthors(reg, records, build.Options{Progress: r.buildProgress(KindAuthor)})
		return reg.Graph(), stats, err
	})
	if err != nil {
		return nil, err
	}
	var focus func(*network.Graph[network.Author]) (components.Component[network.Author], bool)
	if opts.Focus {
		hops := opts.WithDefaults().Hops
		focus = func(c *network.Graph[network.Author]) (components.Component[network.Author], bool) {
			return FocusNeighbourhood(c, hops)
		}
		r.Logger.Info("focusing on core neighbourhood", "hops", hops)
	}
	built := retain(r.Logger, KindAuthor, g, stats, focus, opts.Merge)
	built.Cached = hit
	return built, nil
}

// FocusRecent keeps the papers of g published after the given year and
// returns the largest remaining component. Papers of unknown year are
// dropped. It reports false when no paper is left.
func FocusRecent(g *network.Graph[network.Paper], after int) (components.Component[network.Paper], bool) {
	keep := make(network.Partition, g.Len())
	for h, p := range g.Vertices() {
		keep[h] = p.Year > after
	}
	return largest(g, keep)
}

// FocusNeighbourhood keeps the vertices within hops steps of the core set,
// ignoring edge direction, and returns the largest remaining component. It
// reports false when g has no core vertex.
func FocusNeighbourhood[V network.Vertex[V]](g *network.Graph[V], hops int) (components.Component[V], bool) {
	return largest(g, components.Expand(g, g.Core(), hops, false))
}

// largest returns the largest component of the subgraph of g induced by
// keep, with Origin mapped back to the handles of g.
func largest[V network.Vertex[V]](g *network.Graph[V], keep network.Partition) (components.Component[V], bool) {
	sub, origin := g.Induced(keep)
	c, ok := components.Largest(sub)
	if !ok {
		return c, false
	}
	for i, h := range c.Origin {
		c.Origin[i] = origin[h]
	}
	return c, true
}

// retain splits g into its core components, narrows each with focus when
// it is set and merges what is left when merge is set.
func retain[V network.Vertex[V]](
	logger *log.Logger, kind string, g *network.Graph[V], stats build.Stats,
	focus func(*network.Graph[V]) (components.Component[V], bool), merge bool,
) *Built[V] {
	b := &Built[V]{Kind: kind, Stats: stats, Focused: focus != nil}
	kept := components.Filter(g)
	for _, c := range kept {
		if focus == nil {
			b.Components = append(b.Components, c)
			continue
		}
		f, ok := focus(c.Graph)
		if !ok || f.Core == 0 {
			logger.Warn("focus left no core vertex, dropping component", "kind", kind, "component", c.Label, "vertices", c.Graph.Len())
			continue
		}
		for i, h := range f.Origin {
			f.Origin[i] = c.Origin[h]
		}
		f.Label = c.Label
		b.Components = append(b.Components, f)
	}

	if merge && len(b.Components) > 0 {
		b.Components = []components.Component[V]{union(g, b.Components, focus == nil)}
		b.Merged = true
	}
	b.Discarded = g.Len() - b.Vertices()
	logger.Info("retained core components",
		"kind", kind,
		"components", len(kept),
		"kept", len(b.Components),
		"vertices", b.Vertices(),
		"discarded", b.Discarded)
	return b
}

// union joins comps into one component of g. Unfocused components are
// whole components of g, so their union is what [components.Retain] keeps.
func union[V network.Vertex[V]](g *network.Graph[V], comps []components.Component[V], whole bool) components.Component[V] {
	core := 0
	var members []network.Handle
	for _, c := range comps {
		core += c.Core
		members = append(members, c.Origin...)
	}
	var (
		sub    *network.Graph[V]
		origin []network.Handle
	)
	if whole {
		sub, origin = components.Retain(g)
	} else {
		sub, origin = g.Induced(network.FromMembers(g.Len(), members))
	}
	return components.Component[V]{Label: comps[0].Label, Graph: sub, Origin: origin, Core: core}
}

type cachedBuild struct {
	Stats build.Stats     `json:"stats"`
	Graph json.RawMessage `json:"graph"`
}

// buildCached runs fn, or restores its result from the cache when the same
// records were built before.
func buildCached[V network.Vertex[V]](
	ctx context.Context, r *Runner, records []build.Record, kind string, opts Options,
	fn func() (*network.Graph[V], build.Stats, error),
) (*network.Graph[V], build.Stats, bool, error) {
	var key string
	if data, err := json.Marshal(records); err == nil {
		key = r.Keyer.GraphKey(cache.Hash(data), kind)
	}

	if key != "" && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var c cachedBuild
			if err := json.Unmarshal(data, &c); err == nil {
				if g, err := netio.DecodeGraph[V](c.Graph); err == nil {
					observability.Cache().OnCacheHit(ctx, "graph")
					return g, c.Stats, true, nil
				}
			}
		}
		observability.Cache().OnCacheMiss(ctx, "graph")
	}

	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, kind, len(records))
	start := time.Now()
	g, stats, err := fn()
	if err != nil {
		hooks.OnBuildComplete(ctx, kind, 0, 0, time.Since(start), err)
		return nil, build.Stats{}, false, fmt.Errorf("build %s network: %w", kind, err)
	}
	hooks.OnBuildComplete(ctx, kind, g.Len(), g.EdgeCount(), time.Since(start), nil)
	r.Logger.Info("built network",
		"kind", kind,
		"records", stats.Records,
		"vertices", stats.Vertices,
		"edges", stats.Edges,
		"placeholders", stats.Placeholders,
		"duration", time.Since(start).Round(time.Millisecond))
	if stats.Dropped > 0 || stats.Malformed > 0 {
		r.Logger.Warn("absorbed bad records", "dropped", stats.Dropped, "malformed", stats.Malformed)
	}
	if stats.SelfCitations > 0 {
		r.Logger.Warn("dropped self-citations", "kind", kind, "self_citations", stats.SelfCitations)
	}

	if key != "" {
		var buf bytes.Buffer
		if err := netio.WriteGraph(g, &buf); err == nil {
			if data, err := json.Marshal(cachedBuild{Stats: stats, Graph: buf.Bytes()}); err == nil {
				ttl := opts.CacheTTL
				if ttl == 0 {
					ttl = cache.TTLGraph
				}
				if err := r.Cache.Set(ctx, key, data, ttl); err == nil {
					observability.Cache().OnCacheSet(ctx, "graph", len(data))
				}
			}
		}
	}
	return g, stats, false, nil
}

func (r *Runner) buildProgress(kind string) func(done, total int) {
	return func(done, total int) {
		r.Logger.Debug("building", "kind", kind, "records", done, "of", total)
	}
}
