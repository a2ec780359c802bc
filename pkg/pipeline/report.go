package pipeline

import (
	"math"
	"time"

	"github.com/matzehuels/bibnet/pkg/centrality"
	"github.com/matzehuels/bibnet/pkg/significance"
)

// Report is the outcome of analyzing one network.
//
// Values that can be undefined (an insularity without incident edges, a
// fold over a zero mean) are pointers and are omitted from JSON when they
// are NaN or infinite.
type Report struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	CreatedAt time.Time     `json:"created_at"`
	Duration  time.Duration `json:"duration_ns"`
	Seed      uint64        `json:"seed,omitempty"`

	Directed bool `json:"directed"`
	Vertices int  `json:"vertices"`
	Edges    int  `json:"edges"`
	Core     int  `json:"core"`

	Modularity float64  `json:"modularity"`
	Insularity *float64 `json:"insularity,omitempty"`

	// Tests holds the significance tests against the network's own null
	// samples, Comparisons those against comparison networks.
	Tests       []Test       `json:"tests"`
	Comparisons []Comparison `json:"comparisons,omitempty"`

	Partition  *PartitionReport     `json:"partition,omitempty"`
	Centrality []centrality.Profile `json:"centrality,omitempty"`
	Boundary   *BoundaryReport      `json:"boundary,omitempty"`
}

// Test compares the observed statistic with one null sample.
type Test struct {
	Strategy  string `json:"strategy"`
	Statistic string `json:"statistic"`
	K         int    `json:"k,omitempty"` // subset size, random strategy only

	Observed   float64               `json:"observed"`
	P          float64               `json:"p"`
	Fold       *float64              `json:"fold,omitempty"`
	Degenerate bool                  `json:"degenerate"`
	Summary    significance.Summary  `json:"summary"`
	Density    *significance.Density `json:"density,omitempty"`

	Attempts  int    `json:"attempts"`
	Discarded int    `json:"discarded"`
	Seed      uint64 `json:"seed"`
	Cached    bool   `json:"cached"`
}

// Comparison holds the tests of the observed statistics against a
// comparison network. K is scaled to the comparison network's size.
type Comparison struct {
	Name     string `json:"name"`
	Vertices int    `json:"vertices"`
	Edges    int    `json:"edges"`
	K        int    `json:"k"`
	Tests    []Test `json:"tests"`
}

// PartitionReport describes one optimized two-block partition.
type PartitionReport struct {
	Modularity float64 `json:"modularity"`
	Sizes      [2]int  `json:"sizes"` // vertices outside (0) and inside (1) the smaller block
	// CoreInside counts core vertices in the smaller block.
	CoreInside int `json:"core_inside"`
	// Insularity is the insularity of each block, keyed by block number.
	Insularity map[int]*float64 `json:"insularity"`
}

// BoundaryReport lists papers citing the core set without belonging to it.
type BoundaryReport struct {
	Size   int             `json:"size"`
	Sample []BoundaryPaper `json:"sample,omitempty"`
}

// BoundaryPaper is one boundary paper and the core papers it cites.
type BoundaryPaper struct {
	ID       string   `json:"id"`
	CoreRefs []string `json:"core_refs"`
}

// Find returns the test of the given strategy and statistic.
func (r *Report) Find(strategy, statistic string) (Test, bool) {
	for _, t := range r.Tests {
		if t.Strategy == strategy && t.Statistic == statistic {
			return t, true
		}
	}
	return Test{}, false
}

func newTest(strategy, statistic string, res significance.Result) Test {
	return Test{
		Strategy:   strategy,
		Statistic:  statistic,
		Observed:   res.Observed,
		P:          res.P,
		Fold:       finite(res.Fold),
		Degenerate: res.Degenerate,
		Summary:    res.Summary,
		Density:    res.Density,
	}
}

func finite(x float64) *float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return &x
}
