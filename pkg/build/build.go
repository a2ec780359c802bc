// Package build assembles citation and co-authorship networks from
// bibliographic records.
//
// Both builders resolve identifiers through a [network.Registry], so a paper
// or author referenced before (or after) its own record is always the same
// vertex. Builders never fail on bad data: records without an identifier are
// dropped, empty references are skipped, and malformed fields only lose that
// field. The returned [Stats] say how much of the input was absorbed this way.
//
// Builders are not safe for concurrent use on the same registry.
package build

import (
	"slices"

	errs "github.com/matzehuels/bibnet/pkg/errors"
	"github.com/matzehuels/bibnet/pkg/network"
)

// DefaultProgressEvery is the number of records between progress callbacks.
const DefaultProgressEvery = 1000

// Options configures a build.
type Options struct {
	// ProgressEvery is the number of processed records between calls to
	// Progress. Zero means DefaultProgressEvery.
	ProgressEvery int

	// Progress is called with the number of processed records. Optional.
	Progress func(done, total int)
}

func (o Options) every() int {
	if o.ProgressEvery <= 0 {
		return DefaultProgressEvery
	}
	return o.ProgressEvery
}

// Stats summarizes a build.
type Stats struct {
	Records       int `json:"records"`        // records read
	Dropped       int `json:"dropped"`        // records without an identifier
	Duplicates    int `json:"duplicates"`     // records whose identifier was already described
	Malformed     int `json:"malformed"`      // records with at least one undecodable field
	Placeholders  int `json:"placeholders"`   // vertices known only as reference targets
	SelfCitations int `json:"self_citations"` // references to the citing paper itself
	Vertices      int `json:"vertices"`
	Edges         int `json:"edges"`
}

// NewCitationRegistry returns a registry over an empty directed paper graph.
func NewCitationRegistry() *network.Registry[network.Paper] {
	return network.NewRegistry(network.New[network.Paper](true), network.NewPaper)
}

// NewCoauthorRegistry returns a registry over an empty undirected author graph.
func NewCoauthorRegistry() *network.Registry[network.Author] {
	return network.NewRegistry(network.New[network.Author](false), network.NewAuthor)
}

// Citations adds records to a directed citation graph.
//
// Every record with an identifier is resolved and its metadata written onto
// the vertex, replacing whatever a placeholder or an earlier record with the
// same identifier left there. A missing year keeps the previously known year.
// Every non-empty reference is resolved, possibly creating a placeholder, and
// an edge reference -> record is added once.
func Citations(reg *network.Registry[network.Paper], records []Record, opts Options) (Stats, error) {
	g := reg.Graph()
	if !g.Directed() {
		return Stats{}, errs.New(errs.ErrCodeInvalidInput, "citation graph must be directed")
	}

	var st Stats
	described := make(map[network.Handle]bool)
	for i, rec := range records {
		st.Records++
		if len(rec.Malformed) > 0 {
			st.Malformed++
		}
		if rec.ID == "" {
			st.Dropped++
			progress(opts, i+1, len(records))
			continue
		}

		h := reg.Resolve(rec.ID)
		if described[h] {
			st.Duplicates++
		}
		described[h] = true

		g.Update(h, func(p *network.Paper) {
			year := p.Year
			if rec.Year != nil {
				year = *rec.Year
			}
			*p = network.Paper{
				ID:         rec.ID,
				AltIDs:     slices.Clone(rec.AltIDs),
				Authors:    slices.Clone(rec.Authors),
				Source:     rec.Source,
				Year:       year,
				References: slices.Clone(rec.References),
				Core:       rec.Core,
			}
		})

		for _, ref := range rec.References {
			if ref == "" {
				continue
			}
			if ref == rec.ID {
				st.SelfCitations++
				continue
			}
			from := reg.Resolve(ref)
			_ = g.AddEdge(from, h)
		}
		progress(opts, i+1, len(records))
	}

	st.Placeholders = g.Len() - len(described)
	st.Vertices = g.Len()
	st.Edges = g.EdgeCount()
	return st, nil
}

// Coauthors adds records to an undirected co-authorship graph.
//
// Each record counts once per distinct identifier; repeated records are
// skipped. Within a record, duplicate and empty author identifiers are
// ignored. Every ordered pair of distinct authors adds 0.5 to the pair's
// edge, so after the build an edge weight equals the number of papers the two
// authors share. Each author's paper count and venue list are updated and
// its core flag becomes true once it appears on a core record.
func Coauthors(reg *network.Registry[network.Author], records []Record, opts Options) (Stats, error) {
	g := reg.Graph()
	if g.Directed() {
		return Stats{}, errs.New(errs.ErrCodeInvalidInput, "co-authorship graph must be undirected")
	}

	var st Stats
	seen := make(map[string]bool)
	for i, rec := range records {
		st.Records++
		if len(rec.Malformed) > 0 {
			st.Malformed++
		}
		switch {
		case rec.ID == "":
			st.Dropped++
		case seen[rec.ID]:
			st.Duplicates++
		default:
			seen[rec.ID] = true
			addPaper(reg, rec)
		}
		progress(opts, i+1, len(records))
	}

	st.Vertices = g.Len()
	st.Edges = g.EdgeCount()
	return st, nil
}

func addPaper(reg *network.Registry[network.Author], rec Record) {
	g := reg.Graph()
	authors := distinctAuthors(rec.Authors)
	handles := make([]network.Handle, len(authors))
	for i, a := range authors {
		h := reg.Resolve(a)
		handles[i] = h
		g.Update(h, func(v *network.Author) {
			v.Papers++
			v.Core = v.Core || rec.Core
			if rec.Source != "" && !slices.Contains(v.Sources, rec.Source) {
				v.Sources = append(v.Sources, rec.Source)
			}
		})
	}
	for _, a := range handles {
		for _, b := range handles {
			if a == b {
				continue
			}
			_ = g.AddWeight(a, b, 0.5)
		}
	}
}

func distinctAuthors(authors []string) []string {
	out := make([]string, 0, len(authors))
	seen := make(map[string]bool, len(authors))
	for _, a := range authors {
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}

func progress(opts Options, done, total int) {
	if opts.Progress == nil {
		return
	}
	if done%opts.every() == 0 || done == total {
		opts.Progress(done, total)
	}
}
