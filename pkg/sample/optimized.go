package sample

import (
	"context"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/graph/community"

	errs "github.com/matzehuels/bibnet/pkg/errors"
	"github.com/matzehuels/bibnet/pkg/network"
	"github.com/matzehuels/bibnet/pkg/statistic"
)

// Optimized collects the statistic over two-way partitions found by
// community detection. Each draw runs gonum's Louvain modularization with a
// random source split off the sampler's stream, then merges the detected
// communities down to two with [Bisect]. Draws share nothing but the
// network.
func Optimized(ctx context.Context, n network.Network, stat statistic.Func, opts Options) (Result, error) {
	if n.EdgeCount() == 0 {
		return Result{}, errs.New(errs.ErrCodeInvalidInput, "community detection needs at least one edge")
	}
	return run(ctx, stat, bisector(n), opts)
}

// TwoBlock returns a single optimized two-way partition of n, drawn the
// same way as the samples of [Optimized]. A zero seed is replaced by a
// time-derived one.
func TwoBlock(n network.Network, seed uint64) (network.Partition, error) {
	if n.EdgeCount() == 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "community detection needs at least one edge")
	}
	opts := Options{Seed: seed}.WithDefaults()
	return bisector(n)(newRand(opts.Seed)), nil
}

func bisector(n network.Network) drawFunc {
	g := network.ToGonum(n)
	return func(rng *rand.Rand) network.Partition {
		src := rand.NewPCG(rng.Uint64(), rng.Uint64())
		reduced := community.Modularize(g, statistic.Resolution, src)
		var comms [][]network.Handle
		for _, c := range reduced.Communities() {
			hs := make([]network.Handle, len(c))
			for i, node := range c {
				hs[i] = network.Handle(node.ID())
			}
			comms = append(comms, hs)
		}
		return Bisect(n, comms)
	}
}

// Bisect merges communities of n into two groups and returns the smaller
// group as the "in" side. Merging is greedy: at every step the pair of
// linked communities whose union gains the most modularity is joined. When
// no linked pair is left the two communities with the lowest total degree
// are joined. With a single community the "in" side is empty.
//
// Vertices missing from communities end up on the "out" side.
func Bisect(n network.Network, communities [][]network.Handle) network.Partition {
	p := make(network.Partition, n.Len())
	var groups [][]network.Handle
	for _, c := range communities {
		if len(c) > 0 {
			groups = append(groups, c)
		}
	}
	if len(groups) < 2 {
		return p
	}

	m := newMerger(n, groups)
	for m.alive > 2 {
		x, y, ok := m.best()
		if !ok {
			x, y = m.lightest()
		}
		m.merge(x, y)
	}

	a, b := -1, -1
	for c, alive := range m.live {
		if !alive {
			continue
		}
		if a < 0 {
			a = c
		} else {
			b = c
		}
	}
	in := b
	if m.size[a] < m.size[b] {
		in = a
	}
	for h := range p {
		if m.label[h] >= 0 && m.find(m.label[h]) == in {
			p[h] = true
		}
	}
	return p
}

// merger aggregates edges between communities so that merging two of them
// only touches their own links.
type merger struct {
	directed bool
	m        float64
	label    []int // handle -> initial community, -1 when unassigned
	parent   []int // community -> community it was merged into
	live     []bool
	alive    int
	size     []int
	out, in  []float64 // degree sums; equal for undirected networks
	links    []map[int]float64
}

func newMerger(n network.Network, groups [][]network.Handle) *merger {
	c := len(groups)
	mg := &merger{
		directed: n.Directed(),
		m:        float64(n.EdgeCount()),
		label:    make([]int, n.Len()),
		parent:   make([]int, c),
		live:     make([]bool, c),
		alive:    c,
		size:     make([]int, c),
		out:      make([]float64, c),
		in:       make([]float64, c),
		links:    make([]map[int]float64, c),
	}
	for i := range mg.label {
		mg.label[i] = -1
	}
	for i, g := range groups {
		mg.parent[i] = i
		mg.live[i] = true
		mg.size[i] = len(g)
		mg.links[i] = make(map[int]float64)
		for _, h := range g {
			mg.label[h] = i
		}
	}
	for _, e := range n.Edges() {
		x, y := mg.label[e.From], mg.label[e.To]
		if x < 0 || y < 0 {
			continue
		}
		mg.out[x]++
		mg.in[y]++
		if !mg.directed {
			mg.out[y]++
			mg.in[x]++
		}
		if x != y {
			mg.links[x][y]++
			mg.links[y][x]++
		}
	}
	return mg
}

func (mg *merger) find(c int) int {
	for mg.parent[c] != c {
		mg.parent[c] = mg.parent[mg.parent[c]]
		c = mg.parent[c]
	}
	return c
}

// gain returns the modularity change of joining x and y.
func (mg *merger) gain(x, y int) float64 {
	w := mg.links[x][y]
	if mg.directed {
		return w/mg.m - (mg.out[x]*mg.in[y]+mg.out[y]*mg.in[x])/(mg.m*mg.m)
	}
	return w/mg.m - mg.out[x]*mg.out[y]/(2*mg.m*mg.m)
}

// best returns the linked pair with the largest gain, preferring the lowest
// indices on ties.
func (mg *merger) best() (int, int, bool) {
	bx, by, found := -1, -1, false
	var bg float64
	for x, alive := range mg.live {
		if !alive {
			continue
		}
		ys := make([]int, 0, len(mg.links[x]))
		for y := range mg.links[x] {
			if y > x {
				ys = append(ys, y)
			}
		}
		slices.Sort(ys)
		for _, y := range ys {
			if g := mg.gain(x, y); !found || g > bg {
				bx, by, bg, found = x, y, g, true
			}
		}
	}
	return bx, by, found
}

// lightest returns the two live communities with the lowest degree sums.
func (mg *merger) lightest() (int, int) {
	var live []int
	for c, alive := range mg.live {
		if alive {
			live = append(live, c)
		}
	}
	slices.SortStableFunc(live, func(a, b int) int {
		da, db := mg.out[a]+mg.in[a], mg.out[b]+mg.in[b]
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		}
		return 0
	})
	return live[0], live[1]
}

// merge folds y into x.
func (mg *merger) merge(x, y int) {
	if y < x {
		x, y = y, x
	}
	for z, w := range mg.links[y] {
		delete(mg.links[z], y)
		if z == x {
			continue
		}
		mg.links[x][z] += w
		mg.links[z][x] += w
	}
	delete(mg.links[x], y)
	mg.links[y] = nil
	mg.out[x] += mg.out[y]
	mg.in[x] += mg.in[y]
	mg.size[x] += mg.size[y]
	mg.parent[y] = x
	mg.live[y] = false
	mg.alive--
}
