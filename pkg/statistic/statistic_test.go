package statistic

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	errs "github.com/matzehuels/bibnet/pkg/errors"
	"github.com/matzehuels/bibnet/pkg/network"
)

const eps = 1e-9

func nodes(directed bool, n int, edges [][2]int) *network.Graph[network.Node] {
	g := network.New[network.Node](directed)
	for i := 0; i < n; i++ {
		g.AddVertex(network.NewNode(string(rune('a' + i))))
	}
	for _, e := range edges {
		_ = g.AddEdge(network.Handle(e[0]), network.Handle(e[1]))
	}
	return g
}

func members(n int, hs ...network.Handle) network.Partition {
	return network.FromMembers(n, hs)
}

func TestModularity(t *testing.T) {
	twoTriangles := [][2]int{{0, 1}, {1, 2}, {2, 0}, {3, 4}, {4, 5}, {5, 3}}

	tests := []struct {
		name     string
		directed bool
		n        int
		edges    [][2]int
		p        network.Partition
		want     float64
	}{
		{
			name:  "TwoTriangles",
			n:     6,
			edges: twoTriangles,
			p:     members(6, 0, 1, 2),
			want:  0.5,
		},
		{
			name:  "WholeSetUndirected",
			n:     6,
			edges: twoTriangles,
			p:     members(6, 0, 1, 2, 3, 4, 5),
			want:  0,
		},
		{
			name:     "WholeSetDirected",
			directed: true,
			n:        4,
			edges:    [][2]int{{0, 1}, {1, 2}, {2, 3}},
			p:        members(4, 0, 1, 2, 3),
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := nodes(tt.directed, tt.n, tt.edges)
			got, err := Modularity(g, tt.p)
			if err != nil {
				t.Fatalf("Modularity: %v", err)
			}
			if math.Abs(got-tt.want) > eps {
				t.Errorf("Modularity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestModularityErrors(t *testing.T) {
	g := nodes(false, 3, nil)
	if _, err := Modularity(g, members(3, 0)); !errs.Is(err, errs.ErrCodeUndefinedStatistic) {
		t.Errorf("edgeless: err = %v, want UNDEFINED_STATISTIC", err)
	}
	g = nodes(false, 3, [][2]int{{0, 1}})
	if _, err := Modularity(g, members(2, 0)); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("short partition: err = %v, want INVALID_INPUT", err)
	}
}

func TestModularityDeterministic(t *testing.T) {
	g := nodes(true, 5, [][2]int{{0, 1}, {1, 2}, {2, 0}, {3, 4}, {2, 3}})
	q := ModularityOf(g)
	p := members(5, 0, 1, 2)
	a, err := q(p)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := q(p)
	if a != b {
		t.Errorf("repeated evaluation differs: %v != %v", a, b)
	}
	if a <= 0 {
		t.Errorf("Modularity = %v, want > 0 for a dense cluster", a)
	}
}

func TestInsularity(t *testing.T) {
	// a - b - c - d, e isolated
	path := [][2]int{{0, 1}, {1, 2}, {2, 3}}

	tests := []struct {
		name    string
		p       network.Partition
		want    float64
		wantErr bool
	}{
		{name: "Half", p: members(5, 0, 1), want: 0.5},
		{name: "Middle", p: members(5, 1, 2), want: 1.0 / 3},
		{name: "Disjoint", p: members(5, 0, 2), want: 0},
		{name: "Everything", p: members(5, 0, 1, 2, 3, 4), want: 1},
		{name: "Empty", p: members(5), wantErr: true},
		{name: "IsolatedOnly", p: members(5, 4), wantErr: true},
	}

	g := nodes(false, 5, path)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Insularity(g, tt.p)
			if tt.wantErr {
				if !errs.Is(err, errs.ErrCodeUndefinedStatistic) {
					t.Errorf("err = %v, want UNDEFINED_STATISTIC", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Insularity: %v", err)
			}
			if math.Abs(got-tt.want) > eps {
				t.Errorf("Insularity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInsularityEdgelessFullSet(t *testing.T) {
	g := nodes(true, 3, nil)
	_, err := Insularity(g, members(3, 0, 1, 2))
	if !errs.Is(err, errs.ErrCodeUndefinedStatistic) {
		t.Errorf("err = %v, want UNDEFINED_STATISTIC", err)
	}
}

func TestGroupInsularity(t *testing.T) {
	g := nodes(false, 5, [][2]int{{0, 1}, {1, 2}, {2, 3}})
	got, err := GroupInsularity(g, []int{0, 0, 1, 1, 2})
	if err != nil {
		t.Fatalf("GroupInsularity: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d groups, want 3", len(got))
	}
	if got[0] != 0.5 || got[1] != 0.5 {
		t.Errorf("groups 0, 1 = %v, %v; want 0.5, 0.5", got[0], got[1])
	}
	if !math.IsNaN(got[2]) {
		t.Errorf("group 2 = %v, want NaN", got[2])
	}

	if _, err := GroupInsularity(g, []int{0}); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("short groups: err = %v, want INVALID_INPUT", err)
	}
}

func TestGroupInsularityMatchesInsularity(t *testing.T) {
	g := nodes(true, 6, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 0}, {0, 3}})
	p := members(6, 0, 1, 2)
	groups := p.Groups()

	byGroup, err := GroupInsularity(g, groups)
	if err != nil {
		t.Fatal(err)
	}
	in, _ := Insularity(g, p)
	out, _ := Insularity(g, p.Complement())
	if byGroup[1] != in || byGroup[0] != out {
		t.Errorf("GroupInsularity = %v, want in=%v out=%v", byGroup, in, out)
	}
}

func TestOf(t *testing.T) {
	g := nodes(false, 2, [][2]int{{0, 1}})
	for _, k := range []Kind{KindModularity, KindInsularity} {
		if _, err := Of(k, g); err != nil {
			t.Errorf("Of(%s): %v", k, err)
		}
	}
	if _, err := Of("entropy", g); err == nil {
		t.Error("Of(entropy) should fail")
	}
}

func TestInsularityBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	const n = 10
	properties.Property("insularity lies in [0, 1] or is undefined", prop.ForAll(
		func(mask []bool, ends []int) bool {
			g := network.New[network.Node](false)
			for i := 0; i < n; i++ {
				g.AddVertex(network.NewNode(string(rune('a' + i))))
			}
			for i := 0; i+1 < len(ends); i += 2 {
				_ = g.AddEdge(network.Handle(ends[i]), network.Handle(ends[i+1]))
			}
			v, err := Insularity(g, network.Partition(mask))
			if err != nil {
				return errs.Is(err, errs.ErrCodeUndefinedStatistic)
			}
			return v >= 0 && v <= 1
		},
		gen.SliceOfN(n, gen.Bool()),
		gen.SliceOf(gen.IntRange(0, n-1)),
	))

	properties.TestingRun(t)
}
