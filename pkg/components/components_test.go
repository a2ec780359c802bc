package components

import (
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/bibnet/pkg/network"
)

// papers builds a directed paper graph; ids prefixed with "*" are core.
func papers(ids []string, edges [][2]int) *network.Graph[network.Paper] {
	g := network.New[network.Paper](true)
	for _, id := range ids {
		core := id[0] == '*'
		if core {
			id = id[1:]
		}
		g.AddVertex(network.Paper{ID: id, Core: core})
	}
	for _, e := range edges {
		_ = g.AddEdge(network.Handle(e[0]), network.Handle(e[1]))
	}
	return g
}

func TestLabel(t *testing.T) {
	g := papers([]string{"a", "b", "c", "d", "e"}, [][2]int{{3, 1}, {4, 2}})
	labels, count := Label(g)
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}
	want := []int{0, 1, 2, 1, 2}
	if !slices.Equal(labels, want) {
		t.Errorf("labels = %v, want %v", labels, want)
	}
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name      string
		ids       []string
		edges     [][2]int
		wantSizes []int
		wantCore  []int
	}{
		{
			name:      "SingleComponent",
			ids:       []string{"*A", "B"},
			edges:     [][2]int{{1, 0}},
			wantSizes: []int{2},
			wantCore:  []int{1},
		},
		{
			name:      "DiscardsNonCore",
			ids:       []string{"*a", "b", "c", "d"},
			edges:     [][2]int{{0, 1}, {2, 3}},
			wantSizes: []int{2},
			wantCore:  []int{1},
		},
		{
			name:      "IsolatedCoreRetained",
			ids:       []string{"*a", "b", "c", "*d"},
			edges:     [][2]int{{1, 2}},
			wantSizes: []int{1, 1},
			wantCore:  []int{1, 1},
		},
		{
			name:      "NoCore",
			ids:       []string{"a", "b"},
			edges:     [][2]int{{0, 1}},
			wantSizes: nil,
		},
		{
			name:      "Empty",
			wantSizes: nil,
		},
		{
			name:      "MultipleCoreOrdered",
			ids:       []string{"x", "*a", "*b", "c", "*d"},
			edges:     [][2]int{{0, 3}, {3, 4}, {1, 2}},
			wantSizes: []int{3, 2},
			wantCore:  []int{1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comps := Filter(papers(tt.ids, tt.edges))
			if len(comps) != len(tt.wantSizes) {
				t.Fatalf("got %d components, want %d", len(comps), len(tt.wantSizes))
			}
			for i, c := range comps {
				if c.Graph.Len() != tt.wantSizes[i] {
					t.Errorf("component %d size = %d, want %d", i, c.Graph.Len(), tt.wantSizes[i])
				}
				if c.Core != tt.wantCore[i] {
					t.Errorf("component %d core = %d, want %d", i, c.Core, tt.wantCore[i])
				}
				if i > 0 && comps[i-1].Label >= c.Label {
					t.Errorf("labels not ascending: %d then %d", comps[i-1].Label, c.Label)
				}
			}
		})
	}
}

func TestFilterKeepsDirection(t *testing.T) {
	g := papers([]string{"*A", "B", "C"}, [][2]int{{1, 0}, {2, 1}})
	comps := Filter(g)
	if len(comps) != 1 {
		t.Fatalf("got %d components, want 1", len(comps))
	}
	sub := comps[0].Graph
	if _, ok := sub.Edge(1, 0); !ok {
		t.Error("edge B -> A missing")
	}
	if _, ok := sub.Edge(0, 1); ok {
		t.Error("edge A -> B should not exist")
	}
}

func TestFilterIndependence(t *testing.T) {
	g := papers([]string{"*A", "B"}, [][2]int{{1, 0}})
	comps := Filter(g)
	g.Update(0, func(p *network.Paper) { p.ID = "changed" })
	_ = g.AddEdge(0, 1)
	if comps[0].Graph.Key(0) != "A" {
		t.Errorf("component vertex = %q, want A", comps[0].Graph.Key(0))
	}
	if comps[0].Graph.EdgeCount() != 1 {
		t.Errorf("component edges = %d, want 1", comps[0].Graph.EdgeCount())
	}
}

func TestLargest(t *testing.T) {
	g := papers([]string{"a", "*b", "c", "d", "e"}, [][2]int{{0, 1}, {2, 3}, {3, 4}})
	c, ok := Largest(g)
	if !ok {
		t.Fatal("Largest reported empty graph")
	}
	if c.Graph.Len() != 3 || !slices.Equal(c.Origin, []network.Handle{2, 3, 4}) {
		t.Errorf("Largest = %d vertices %v, want [2 3 4]", c.Graph.Len(), c.Origin)
	}
	if _, ok := Largest(network.New[network.Paper](true)); ok {
		t.Error("Largest of empty graph reported ok")
	}
}

func TestExpand(t *testing.T) {
	// a -> b -> c -> d
	g := papers([]string{"*a", "b", "c", "d"}, [][2]int{{0, 1}, {1, 2}, {2, 3}})
	seeds := network.FromMembers(4, []network.Handle{1})

	tests := []struct {
		name   string
		hops   int
		follow bool
		want   []network.Handle
	}{
		{"Zero", 0, true, []network.Handle{1}},
		{"OneDownstream", 1, true, []network.Handle{1, 2}},
		{"OneUndirected", 1, false, []network.Handle{0, 1, 2}},
		{"TwoDownstream", 2, true, []network.Handle{1, 2, 3}},
		{"Saturates", 10, false, []network.Handle{0, 1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Expand(g, seeds, tt.hops, tt.follow).Members()
			if !slices.Equal(got, tt.want) {
				t.Errorf("Expand = %v, want %v", got, tt.want)
			}
		})
	}
	if !slices.Equal(seeds.Members(), []network.Handle{1}) {
		t.Error("Expand mutated seeds")
	}
}

func TestBoundary(t *testing.T) {
	// b cites a, c cites b, a cites nothing; core = {a}
	g := papers([]string{"*a", "b", "c"}, [][2]int{{0, 1}, {1, 2}})
	got := Boundary(g, g.Core()).Members()
	if !slices.Equal(got, []network.Handle{1}) {
		t.Errorf("Boundary = %v, want [1]", got)
	}
}

func TestFilterSoundness(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	const n = 12
	properties.Property("filter keeps exactly the core components", prop.ForAll(
		func(coreMask []bool, ends []int) bool {
			g := network.New[network.Paper](true)
			for i := 0; i < n; i++ {
				g.AddVertex(network.Paper{ID: string(rune('a' + i)), Core: coreMask[i]})
			}
			for i := 0; i+1 < len(ends); i += 2 {
				_ = g.AddEdge(network.Handle(ends[i]), network.Handle(ends[i+1]))
			}
			labels, _ := Label(g)
			coreLabels := make(map[int]bool)
			for h, c := range coreMask {
				if c {
					coreLabels[labels[h]] = true
				}
			}
			want := 0
			for _, l := range labels {
				if coreLabels[l] {
					want++
				}
			}

			got := 0
			seen := make(map[network.Handle]bool)
			for _, c := range Filter(g) {
				if c.Core == 0 || c.Graph.Core().Size() != c.Core {
					return false
				}
				for _, h := range c.Origin {
					if seen[h] || !coreLabels[labels[h]] {
						return false
					}
					seen[h] = true
				}
				got += c.Graph.Len()
			}
			return got == want
		},
		gen.SliceOfN(n, gen.Bool()),
		gen.SliceOf(gen.IntRange(0, n-1)),
	))

	properties.TestingRun(t)
}

func TestRetain(t *testing.T) {
	// {0,1} holds core a, {2,3} has no core, {4} is an isolated core vertex.
	g := papers([]string{"*a", "b", "c", "d", "*e"}, [][2]int{{1, 0}, {2, 3}})
	sub, origin := Retain(g)
	if sub.Len() != 3 || sub.EdgeCount() != 1 {
		t.Fatalf("got %d vertices, %d edges; want 3, 1", sub.Len(), sub.EdgeCount())
	}
	if !slices.Equal(origin, []network.Handle{0, 1, 4}) {
		t.Errorf("origin = %v, want [0 1 4]", origin)
	}
	if sub.Core().Size() != 2 {
		t.Errorf("core size = %d, want 2", sub.Core().Size())
	}
}
