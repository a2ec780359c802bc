package centrality

import (
	"math"
	"slices"
	"testing"

	bnet "github.com/matzehuels/bibnet/pkg/network"
)

func graph(directed bool, n int, edges [][2]int) *bnet.Graph[bnet.Node] {
	g := bnet.New[bnet.Node](directed)
	for i := 0; i < n; i++ {
		g.AddVertex(bnet.NewNode(string(rune('a' + i))))
	}
	for _, e := range edges {
		_ = g.AddEdge(bnet.Handle(e[0]), bnet.Handle(e[1]))
	}
	return g
}

func TestOutDegrees(t *testing.T) {
	tests := []struct {
		name     string
		directed bool
		want     []float64
	}{
		{"Directed", true, []float64{2, 1, 0}},
		{"Undirected", false, []float64{2, 2, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graph(tt.directed, 3, [][2]int{{0, 1}, {0, 2}, {1, 2}})
			if got := OutDegrees(g); !slices.Equal(got, tt.want) {
				t.Errorf("OutDegrees = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDescendingRank(t *testing.T) {
	got := DescendingRank([]float64{10, 20, 20, 5})
	want := []float64{3, 1.5, 1.5, 4}
	if !slices.Equal(got, want) {
		t.Errorf("DescendingRank = %v, want %v", got, want)
	}
}

func TestEigenvectorCentrality(t *testing.T) {
	t.Run("Triangle", func(t *testing.T) {
		g := graph(false, 3, [][2]int{{0, 1}, {1, 2}, {2, 0}})
		x, ok := EigenvectorCentrality(g, EigenvectorTolerance, EigenvectorMaxIter)
		if !ok {
			t.Fatal("did not converge")
		}
		for i, v := range x {
			if math.Abs(v-1/math.Sqrt(3)) > 1e-9 {
				t.Errorf("x[%d] = %v, want %v", i, v, 1/math.Sqrt(3))
			}
		}
	})

	t.Run("AcyclicIsZero", func(t *testing.T) {
		g := graph(true, 4, [][2]int{{0, 1}, {1, 2}, {0, 3}})
		x, ok := EigenvectorCentrality(g, EigenvectorTolerance, EigenvectorMaxIter)
		if !ok {
			t.Fatal("did not converge")
		}
		for i, v := range x {
			if v != 0 {
				t.Errorf("x[%d] = %v, want 0", i, v)
			}
		}
	})

	t.Run("Star", func(t *testing.T) {
		// Bipartite: plain power iteration would flip between centre and leaves.
		g := graph(false, 4, [][2]int{{0, 1}, {0, 2}, {0, 3}})
		x, ok := EigenvectorCentrality(g, 1e-12, EigenvectorMaxIter)
		if !ok {
			t.Fatal("did not converge")
		}
		want := []float64{1 / math.Sqrt2, 1 / math.Sqrt(6), 1 / math.Sqrt(6), 1 / math.Sqrt(6)}
		for i := range want {
			if math.Abs(x[i]-want[i]) > 1e-6 {
				t.Errorf("x[%d] = %v, want %v", i, x[i], want[i])
			}
		}

		v, err := Compute(g, Eigenvector)
		if err != nil {
			t.Fatalf("Compute: %v", err)
		}
		if math.Abs(v[0]-want[0]) > 5e-3 || v[0] <= v[1] {
			t.Errorf("Compute = %v, want centre %v above leaves", v, want[0])
		}
	})

	t.Run("PathOfTwoPapers", func(t *testing.T) {
		// Two co-authored papers sharing author 1: a three-vertex path.
		g := graph(false, 3, [][2]int{{0, 1}, {1, 2}})
		x, ok := EigenvectorCentrality(g, 1e-12, EigenvectorMaxIter)
		if !ok {
			t.Fatal("did not converge")
		}
		if math.Abs(x[1]-1/math.Sqrt2) > 1e-6 || math.Abs(x[0]-0.5) > 1e-6 || math.Abs(x[2]-0.5) > 1e-6 {
			t.Errorf("x = %v, want [0.5 0.707 0.5]", x)
		}
	})

	t.Run("IterationCap", func(t *testing.T) {
		g := graph(false, 4, [][2]int{{0, 1}, {0, 2}, {0, 3}})
		if _, ok := EigenvectorCentrality(g, 1e-15, 2); ok {
			t.Error("converged in two steps at tolerance 1e-15")
		}
	})

	t.Run("DirectedCycleWithTail", func(t *testing.T) {
		// 0 -> 1 -> 2 -> 0 and 2 -> 3: the tail vertex inherits from 2.
		g := graph(true, 4, [][2]int{{0, 1}, {1, 2}, {2, 0}, {2, 3}})
		x, _ := EigenvectorCentrality(g, 1e-9, EigenvectorMaxIter)
		if x[3] <= 0 {
			t.Errorf("x[3] = %v, want > 0", x[3])
		}
	})
}

func TestPageRanks(t *testing.T) {
	g := graph(false, 3, [][2]int{{0, 1}, {1, 2}, {2, 0}})
	pr := PageRanks(g)
	var sum float64
	for i, v := range pr {
		if math.Abs(v-1.0/3) > 1e-4 {
			t.Errorf("pr[%d] = %v, want 1/3", i, v)
		}
		sum += v
	}
	if math.Abs(sum-1) > 1e-4 {
		t.Errorf("ranks sum to %v, want 1", sum)
	}
}

func TestDistributionAndProfile(t *testing.T) {
	d := NewDistribution(OutDegree, []float64{1, 2, 3})
	wantTail := []float64{2.0 / 3, 1.0 / 3, 0}
	for i := range wantTail {
		if math.Abs(d.Tail[i]-wantTail[i]) > 1e-12 {
			t.Errorf("Tail[%d] = %v, want %v", i, d.Tail[i], wantTail[i])
		}
	}
	if !slices.Equal(d.Rank, []float64{3, 2, 1}) {
		t.Errorf("Rank = %v, want [3 2 1]", d.Rank)
	}

	p, err := CoreProfile(d, bnet.FromMembers(3, []bnet.Handle{1, 2}))
	if err != nil {
		t.Fatal(err)
	}
	if p.Core != 2 || p.Value.Mean != 2.5 || p.Rank.Min != 1 {
		t.Errorf("Profile = %+v", p)
	}

	if _, err := CoreProfile(d, bnet.Partition{true}); err == nil {
		t.Error("mismatched core should fail")
	}
	if _, err := CoreProfile(d, make(bnet.Partition, 3)); err == nil {
		t.Error("empty core should fail")
	}
}

func TestCompute(t *testing.T) {
	g := graph(true, 3, [][2]int{{0, 1}, {1, 2}, {2, 0}})
	for _, m := range []Measure{OutDegree, Eigenvector, PageRank} {
		v, err := Compute(g, m)
		if err != nil {
			t.Fatalf("Compute(%s): %v", m, err)
		}
		if len(v) != 3 {
			t.Errorf("Compute(%s) = %d values, want 3", m, len(v))
		}
	}
	if _, err := Compute(g, "closeness"); err == nil {
		t.Error("unknown measure should fail")
	}
}
